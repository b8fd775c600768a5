// AngelaMos | 2026
// dto.go

package navigation

import "html/template"

type NavigateRequest struct {
	Path string `json:"path" validate:"required,max=2048"`
}

type PageResponse struct {
	Path           string           `json:"path"`
	Module         *int             `json:"module,omitempty"`
	Home           string           `json:"home"`
	Breadcrumbs    []BreadcrumbItem `json:"breadcrumbs"`
	BreadcrumbHTML template.HTML    `json:"breadcrumb_html"`
	BreadcrumbText string           `json:"breadcrumb_text"`
	ActiveLinks    []string         `json:"active_links,omitempty"`
}

// TransitionResponse carries Available=false when the page has no
// neighbour in that direction.
type TransitionResponse struct {
	Available  bool        `json:"available"`
	Transition *Transition `json:"transition,omitempty"`
}

type ShortcutResponse struct {
	Action Action `json:"action"`
	TransitionResponse
}

type HelpResponse struct {
	Text string `json:"text"`
}
