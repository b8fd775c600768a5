// AngelaMos | 2026
// entity.go

package session

import (
	"time"
)

// Snapshot is the visitor's session and purchase claims as stored.
// CurrentUser is only meaningful while LoggedIn.
type Snapshot struct {
	LoggedIn     bool
	Purchased    bool
	CurrentUser  string
	LoginTime    *time.Time
	PurchaseDate *time.Time
	TestMode     bool
}

func (s Snapshot) HasAccess() bool {
	return s.LoggedIn && s.Purchased
}

type Protection struct {
	Allowed  bool
	TestMode bool
	Message  string
	Redirect string
}
