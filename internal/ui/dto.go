// AngelaMos | 2026
// dto.go

package ui

type ShowNotificationRequest struct {
	Message    string `json:"message"     validate:"required,max=500"`
	Kind       string `json:"kind"        validate:"omitempty,oneof=success error warning info"`
	DurationMS *int   `json:"duration_ms" validate:"omitempty,min=1,max=60000"`
}

type ShowNotificationResponse struct {
	ID string `json:"id"`
}

type RegisterElementRequest struct {
	Hidden bool `json:"hidden"`
}

type ViewResponse struct {
	Hidden map[string]bool `json:"hidden"`
}

// LayoutRequest is read from the query string of GET /view/layout.
type LayoutRequest struct {
	Width          int     `validate:"required,min=1,max=100000"`
	ScrollTop      float64 `validate:"min=0"`
	ScrollHeight   float64 `validate:"min=0"`
	ViewportHeight float64 `validate:"min=0"`
	OffsetTop      int     `validate:"min=0"`
	Offset         int     `validate:"min=0"`
}

type LayoutResponse struct {
	Mobile   bool    `json:"mobile"`
	Progress float64 `json:"progress_percent"`
	Scrolled bool    `json:"scrolled"`
	ScrollTo int     `json:"scroll_to"`
}

func ToLayoutResponse(req LayoutRequest) LayoutResponse {
	progress, scrolled := ScrollProgress(req.ScrollTop, req.ScrollHeight, req.ViewportHeight)
	return LayoutResponse{
		Mobile:   IsMobile(req.Width),
		Progress: progress,
		Scrolled: scrolled,
		ScrollTo: ScrollTop(req.OffsetTop, req.Offset),
	}
}
