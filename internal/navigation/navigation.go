// AngelaMos | 2026
// navigation.go

// Package navigation decides which page a visitor may move to from the one
// they are on, and renders the wayfinding that goes with it.
package navigation

import (
	"context"
	"log/slog"
	"strings"

	"go.opentelemetry.io/otel/attribute"

	"github.com/carterperez-dev/templates/course-gate/internal/config"
	"github.com/carterperez-dev/templates/course-gate/internal/core"
	"github.com/carterperez-dev/templates/course-gate/internal/course"
	"github.com/carterperez-dev/templates/course-gate/internal/session"
)

type AccessChecker interface {
	HasModuleAccess(ctx context.Context, visitorID string, module int) bool
	CanEnterDashboard(ctx context.Context, visitorID string) bool
}

type UnlockChecker interface {
	CanAccess(ctx context.Context, visitorID string, module int) bool
}

type Action string

// HomePage is the target index of a home transition; the landing page sits
// outside the module numbering.
const HomePage = -1

const (
	ActionNone     Action = ""
	ActionPrevious Action = "previous"
	ActionNext     Action = "next"
	ActionHome     Action = "home"
)

// Transition is a resolved move. Allowed is false when the access check
// refused it; the page stays where it is.
type Transition struct {
	Action  Action `json:"action"`
	From    int    `json:"from"`
	To      int    `json:"to"`
	URL     string `json:"url"`
	Allowed bool   `json:"allowed"`
}

var previousPage = map[int]int{
	1: course.Dashboard,
	2: 1,
	3: 2,
	4: 3,
	5: 4,
}

var nextPage = map[int]int{
	course.Dashboard: 1,
	1:                2,
	2:                3,
	3:                4,
	4:                5,
}

type Options struct {
	// Check is config.NavigationCheckTarget or config.NavigationCheckAdjacent.
	Check              string
	EnforceUnlockOrder bool
	Logger             *slog.Logger
	// OnTransition sees every previous/next decision, allowed or not.
	OnTransition func(ctx context.Context, t Transition)
}

type Controller struct {
	access  AccessChecker
	unlock  UnlockChecker
	check   string
	order   bool
	logger  *slog.Logger
	observe func(ctx context.Context, t Transition)
}

func NewController(access AccessChecker, unlock UnlockChecker, opts Options) *Controller {
	if opts.Check == "" {
		opts.Check = config.NavigationCheckTarget
	}
	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}

	return &Controller{
		access:  access,
		unlock:  unlock,
		check:   opts.Check,
		order:   opts.EnforceUnlockOrder && unlock != nil,
		logger:  opts.Logger,
		observe: opts.OnTransition,
	}
}

// CurrentModule maps a page path to its index: 0 for the dashboard, 1..5
// for module pages. Any other page has no index.
func CurrentModule(path string) (int, bool) {
	if strings.Contains(path, "dashboard") {
		return course.Dashboard, true
	}
	for n := course.FirstModule; n <= course.TotalModules; n++ {
		if strings.Contains(path, course.Slug(n)) {
			return n, true
		}
	}
	return 0, false
}

func (c *Controller) Previous(ctx context.Context, visitorID, path string) (Transition, bool) {
	return c.step(ctx, visitorID, path, ActionPrevious, previousPage)
}

func (c *Controller) Next(ctx context.Context, visitorID, path string) (Transition, bool) {
	return c.step(ctx, visitorID, path, ActionNext, nextPage)
}

// Home never needs an access check.
func Home(path string) Transition {
	from, _ := CurrentModule(path)
	return Transition{
		Action:  ActionHome,
		From:    from,
		To:      HomePage,
		URL:     session.HomeURL(path),
		Allowed: true,
	}
}

// Resolve runs the transition bound to action. The bool is false when the
// action has no target from this page.
func (c *Controller) Resolve(
	ctx context.Context,
	visitorID, path string,
	action Action,
) (Transition, bool) {
	switch action {
	case ActionPrevious:
		return c.Previous(ctx, visitorID, path)
	case ActionNext:
		return c.Next(ctx, visitorID, path)
	case ActionHome:
		return Home(path), true
	default:
		return Transition{}, false
	}
}

func (c *Controller) step(
	ctx context.Context,
	visitorID, path string,
	action Action,
	table map[int]int,
) (Transition, bool) {
	from, ok := CurrentModule(path)
	if !ok {
		return Transition{}, false
	}
	to, ok := table[from]
	if !ok {
		return Transition{}, false
	}

	ctx, span := core.StartSpan(ctx, "navigation."+string(action),
		attribute.Int("from", from),
		attribute.Int("to", to),
	)
	defer span.End()

	t := Transition{
		Action:  action,
		From:    from,
		To:      to,
		URL:     course.PageURL(to),
		Allowed: c.allowed(ctx, visitorID, to),
	}

	if !t.Allowed {
		c.logger.DebugContext(ctx, "navigation refused",
			"visitor_id", visitorID,
			"action", action,
			"from", from,
			"to", to,
			"check", c.check,
		)
	}

	if c.observe != nil {
		c.observe(ctx, t)
	}

	return t, true
}

func (c *Controller) allowed(ctx context.Context, visitorID string, to int) bool {
	var ok bool

	switch {
	case c.check == config.NavigationCheckAdjacent:
		// The dashboard index is not a module, so this refuses module 1 to
		// dashboard even for a paying visitor.
		ok = c.access.HasModuleAccess(ctx, visitorID, to)
	case to == course.Dashboard:
		ok = c.access.CanEnterDashboard(ctx, visitorID)
	default:
		ok = c.access.HasModuleAccess(ctx, visitorID, to)
	}

	if ok && c.order && course.ValidModule(to) {
		ok = c.unlock.CanAccess(ctx, visitorID, to)
	}
	return ok
}

// Shortcut maps a key press to an action. Only Ctrl or Meta chords count.
func Shortcut(key string, ctrl, meta bool) Action {
	if !ctrl && !meta {
		return ActionNone
	}
	switch key {
	case "ArrowLeft":
		return ActionPrevious
	case "ArrowRight":
		return ActionNext
	case "h", "H":
		return ActionHome
	default:
		return ActionNone
	}
}

// ActiveLinks returns the hrefs whose relative form appears in path. Only
// the first "../" and "./" are stripped, so "../index.html" matches every
// index page.
func ActiveLinks(path string, hrefs []string) []string {
	active := make([]string, 0, len(hrefs))
	for _, href := range hrefs {
		if href == "" {
			continue
		}
		rel := strings.Replace(href, "../", "", 1)
		rel = strings.Replace(rel, "./", "", 1)
		if rel != "" && strings.Contains(path, rel) {
			active = append(active, href)
		}
	}
	return active
}
