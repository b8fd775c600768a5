// AngelaMos | 2026
// breadcrumb.go

package navigation

import (
	"bytes"
	"fmt"
	"html/template"
	"strings"

	"golang.org/x/text/message"

	"github.com/carterperez-dev/templates/course-gate/internal/course"
	"github.com/carterperez-dev/templates/course-gate/internal/i18n"
)

// Localizer is satisfied by *message.Printer.
type Localizer interface {
	Sprintf(key message.Reference, a ...any) string
}

type BreadcrumbItem struct {
	Label string `json:"label"`
	URL   string `json:"url,omitempty"`
}

const breadcrumbSeparator = " → "

var breadcrumbTmpl = template.Must(template.New("breadcrumb").Parse(
	`{{range $i, $c := .}}{{if $i}} <span class="breadcrumb-separator">→</span> {{end}}` +
		`{{if $c.URL}}<a href="{{$c.URL}}">{{$c.Label}}</a>{{else}}{{$c.Label}}{{end}}{{end}}`,
))

// ModuleLabel is the page title of a module. It is a proper name and is
// never translated.
func ModuleLabel(module int) string {
	return fmt.Sprintf("Módulo %d", module)
}

// Breadcrumbs builds the trail for a page: home, then the dashboard, then
// the module. The last item carries no link.
func Breadcrumbs(path string, loc Localizer) []BreadcrumbItem {
	items := []BreadcrumbItem{
		{Label: loc.Sprintf(i18n.MsgHome), URL: "../index.html"},
	}

	current, ok := CurrentModule(path)
	if !ok {
		return items
	}

	dashboard := loc.Sprintf(i18n.MsgDashboard)
	if current == course.Dashboard {
		return append(items, BreadcrumbItem{Label: dashboard})
	}

	return append(items,
		BreadcrumbItem{Label: dashboard, URL: course.PageURL(course.Dashboard)},
		BreadcrumbItem{Label: ModuleLabel(current)},
	)
}

// RenderBreadcrumbs produces the HTML fragment placed in the page's
// breadcrumb element.
func RenderBreadcrumbs(items []BreadcrumbItem) (template.HTML, error) {
	var buf bytes.Buffer
	if err := breadcrumbTmpl.Execute(&buf, items); err != nil {
		return "", fmt.Errorf("render breadcrumbs: %w", err)
	}
	//nolint:gosec // produced by html/template
	return template.HTML(buf.String()), nil
}

// BreadcrumbText joins the labels for plain-text surfaces.
func BreadcrumbText(items []BreadcrumbItem) string {
	labels := make([]string, len(items))
	for i, item := range items {
		labels[i] = item.Label
	}
	return strings.Join(labels, breadcrumbSeparator)
}

func Help(loc Localizer) string {
	return loc.Sprintf(i18n.MsgNavigationHelp)
}
