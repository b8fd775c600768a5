// AngelaMos | 2026
// course.go

// Package course describes the fixed shape of the course: five sequential
// modules plus a dashboard landing page.
package course

import "fmt"

const (
	FirstModule  = 1
	TotalModules = 5

	// Dashboard is the module index of the landing page.
	Dashboard = 0
)

func ValidModule(n int) bool {
	return n >= FirstModule && n <= TotalModules
}

// Slug is the path segment of a module page, e.g. "modulo3".
func Slug(n int) string {
	return fmt.Sprintf("modulo%d", n)
}

// PageURL is the page of module n relative to a sibling page. Dashboard maps
// to the dashboard page.
func PageURL(n int) string {
	if n == Dashboard {
		return "../dashboard/index.html"
	}
	return fmt.Sprintf("../%s/index.html", Slug(n))
}
