// AngelaMos | 2026
// dto.go

package session

import (
	"time"

	"github.com/carterperez-dev/templates/course-gate/internal/ui"
)

type LoginRequest struct {
	Identifier string `json:"identifier" validate:"required,max=255"`
	Secret     string `json:"secret"     validate:"required,max=128"`
}

type LogoutRequest struct {
	CurrentPath string `json:"current_path" validate:"max=2048"`
}

type LogoutResponse struct {
	Redirect string `json:"redirect"`
}

type SessionResponse struct {
	LoggedIn     bool       `json:"logged_in"`
	Purchased    bool       `json:"purchased"`
	HasAccess    bool       `json:"has_access"`
	CurrentUser  string     `json:"current_user,omitempty"`
	LoginTime    *time.Time `json:"login_time,omitempty"`
	PurchaseDate *time.Time `json:"purchase_date,omitempty"`
	TestMode     bool       `json:"test_mode"`

	// Display strings for the dashboard, e.g. "14:05" and
	// "19 de octubre de 2026".
	LoginTimeText    string `json:"login_time_text,omitempty"`
	PurchaseDateText string `json:"purchase_date_text,omitempty"`
}

type ModuleAccessResponse struct {
	Module    int  `json:"module"`
	HasAccess bool `json:"has_access"`
}

type ProtectResponse struct {
	Allowed  bool `json:"allowed"`
	TestMode bool `json:"test_mode"`
}

func ToSessionResponse(s Snapshot) SessionResponse {
	resp := SessionResponse{
		LoggedIn:     s.LoggedIn,
		Purchased:    s.Purchased,
		HasAccess:    s.HasAccess(),
		CurrentUser:  s.CurrentUser,
		LoginTime:    s.LoginTime,
		PurchaseDate: s.PurchaseDate,
		TestMode:     s.TestMode,
	}
	if s.LoginTime != nil {
		resp.LoginTimeText = ui.FormatTime(*s.LoginTime)
	}
	if s.PurchaseDate != nil {
		resp.PurchaseDateText = ui.FormatDate(*s.PurchaseDate)
	}
	return resp
}
