// AngelaMos | 2026
// ui.go

// Package ui holds the presentation helpers pages share: toasts, element
// visibility, debouncing and formatting.
package ui

import (
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
)

const (
	MobileMaxWidth = 768

	// ScrolledThreshold is the scroll offset past which the header is
	// drawn in its compact style.
	ScrolledThreshold = 50
)

var validate = validator.New()

func IsMobile(width int) bool {
	return width <= MobileMaxWidth
}

// ScrollTop is the scroll position that brings an element at offsetTop to
// offset pixels below the viewport top.
func ScrollTop(offsetTop, offset int) int {
	return offsetTop - offset
}

// ScrollProgress is the reading progress bar width in percent and whether
// the header counts as scrolled.
func ScrollProgress(scrollTop, scrollHeight, viewportHeight float64) (percent float64, scrolled bool) {
	scrolled = scrollTop > ScrolledThreshold

	docHeight := scrollHeight - viewportHeight
	if docHeight <= 0 {
		return 0, scrolled
	}

	percent = scrollTop / docHeight * 100
	switch {
	case percent < 0:
		percent = 0
	case percent > 100:
		percent = 100
	}
	return percent, scrolled
}

func ValidateEmail(email string) bool {
	return validate.Var(email, "required,email") == nil
}

// GenerateID returns a short DOM-safe id such as "id_3f1b8a4e0".
func GenerateID() string {
	return "id_" + strings.ReplaceAll(uuid.NewString(), "-", "")[:9]
}
