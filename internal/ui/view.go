// AngelaMos | 2026
// view.go

package ui

import (
	"context"
	"log/slog"
	"sort"

	"github.com/carterperez-dev/templates/course-gate/internal/store"
)

// ViewStateKey holds a visitor's element visibility as JSON.
const ViewStateKey = "viewState"

// View is the visibility of a page's toggleable elements, keyed by element
// id. Operations on an id that was never registered do nothing.
type View struct {
	Hidden map[string]bool `json:"hidden"`
}

func NewView() *View {
	return &View{Hidden: make(map[string]bool)}
}

func (v *View) Register(id string, hidden bool) {
	v.Hidden[id] = hidden
}

func (v *View) Show(id string) bool {
	return v.set(id, false)
}

func (v *View) Hide(id string) bool {
	return v.set(id, true)
}

// Toggle flips id and reports whether it exists.
func (v *View) Toggle(id string) bool {
	hidden, ok := v.Hidden[id]
	if !ok {
		return false
	}
	v.Hidden[id] = !hidden
	return true
}

func (v *View) IsHidden(id string) (hidden, ok bool) {
	hidden, ok = v.Hidden[id]
	return hidden, ok
}

func (v *View) IDs() []string {
	ids := make([]string, 0, len(v.Hidden))
	for id := range v.Hidden {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

func (v *View) set(id string, hidden bool) bool {
	if _, ok := v.Hidden[id]; !ok {
		return false
	}
	v.Hidden[id] = hidden
	return true
}

// ViewStore persists views in the visitor's namespace.
type ViewStore struct {
	backend store.Backend
	logger  *slog.Logger
}

func NewViewStore(backend store.Backend, logger *slog.Logger) *ViewStore {
	if logger == nil {
		logger = slog.Default()
	}
	return &ViewStore{backend: backend, logger: logger}
}

func (s *ViewStore) guard(visitorID string) *store.Guard {
	return store.NewGuard(
		store.Scope(s.backend, visitorID),
		s.logger.With("visitor_id", visitorID),
	)
}

// Load returns the stored view, or an empty one when nothing usable is
// stored.
func (s *ViewStore) Load(ctx context.Context, visitorID string) *View {
	v := NewView()
	if !s.guard(visitorID).LoadJSON(ctx, ViewStateKey, v) || v.Hidden == nil {
		return NewView()
	}
	return v
}

func (s *ViewStore) Save(ctx context.Context, visitorID string, v *View) bool {
	return s.guard(visitorID).SaveJSON(ctx, ViewStateKey, v)
}
