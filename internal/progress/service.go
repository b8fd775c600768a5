// AngelaMos | 2026
// service.go

package progress

import (
	"context"
	"fmt"
	"log/slog"
	"math"
	"sync"

	"go.opentelemetry.io/otel/attribute"

	"github.com/carterperez-dev/templates/course-gate/internal/core"
	"github.com/carterperez-dev/templates/course-gate/internal/course"
	"github.com/carterperez-dev/templates/course-gate/internal/store"
)

// Notifier receives the completion message shown to the visitor.
type Notifier interface {
	NotifyCompletion(ctx context.Context, visitorID string, c Completion)
}

// Notifiers fans a completion out to several notifiers in order.
type Notifiers []Notifier

func (ns Notifiers) NotifyCompletion(ctx context.Context, visitorID string, c Completion) {
	for _, n := range ns {
		if n != nil {
			n.NotifyCompletion(ctx, visitorID, c)
		}
	}
}

// RefreshFunc is called after every completion, e.g. to push a new summary
// to an open dashboard.
type RefreshFunc func(ctx context.Context, visitorID string, summary Summary)

type Service struct {
	backend  store.Backend
	notifier Notifier
	logger   *slog.Logger

	mu      sync.RWMutex
	refresh RefreshFunc
}

func NewService(backend store.Backend, notifier Notifier, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{
		backend:  backend,
		notifier: notifier,
		logger:   logger,
	}
}

// OnRefresh registers the UI refresh callback. Passing nil removes it.
func (s *Service) OnRefresh(fn RefreshFunc) {
	s.mu.Lock()
	s.refresh = fn
	s.mu.Unlock()
}

func CompletedKey(module int) string {
	return fmt.Sprintf("%s_completed", course.Slug(module))
}

func (s *Service) guard(visitorID string) *store.Guard {
	return store.NewGuard(
		store.Scope(s.backend, visitorID),
		s.logger.With("visitor_id", visitorID),
	)
}

// MarkCompleted sets the module's flag. Repeating it leaves the same state
// but notifies again, matching a second click on the page's button.
func (s *Service) MarkCompleted(ctx context.Context, visitorID string, module int) error {
	if !course.ValidModule(module) {
		return fmt.Errorf("mark completed %d: %w", module, core.ErrInvalidModule)
	}

	ctx, span := core.StartSpan(ctx, "progress.mark_completed",
		attribute.Int("module", module),
	)
	defer span.End()

	s.guard(visitorID).SetTrue(ctx, CompletedKey(module))
	s.logger.InfoContext(ctx, "module completed",
		"visitor_id", visitorID,
		"module", module,
	)

	if s.notifier != nil {
		s.notifier.NotifyCompletion(ctx, visitorID, NewCompletion(module))
	}

	s.mu.RLock()
	refresh := s.refresh
	s.mu.RUnlock()

	if refresh != nil {
		refresh(ctx, visitorID, s.CourseProgress(ctx, visitorID))
	}

	return nil
}

func (s *Service) IsCompleted(ctx context.Context, visitorID string, module int) bool {
	if !course.ValidModule(module) {
		return false
	}
	return s.guard(visitorID).Bool(ctx, CompletedKey(module))
}

// CanAccess reports whether the unlock order admits module. Module 1 is
// always open; every later module needs its predecessor completed.
func (s *Service) CanAccess(ctx context.Context, visitorID string, module int) bool {
	if module == course.FirstModule {
		return true
	}
	if !course.ValidModule(module) {
		return false
	}
	return s.IsCompleted(ctx, visitorID, module-1)
}

func (s *Service) CourseProgress(ctx context.Context, visitorID string) Summary {
	completed := 0
	for m := course.FirstModule; m <= course.TotalModules; m++ {
		if s.IsCompleted(ctx, visitorID, m) {
			completed++
		}
	}
	return NewSummary(completed)
}

func NewSummary(completed int) Summary {
	pct := math.Round(float64(completed) / float64(course.TotalModules) * 100)
	return Summary{
		Completed:  completed,
		Total:      course.TotalModules,
		Percentage: int(pct),
	}
}

// InitForModule is the entry point a module page calls on load.
func (s *Service) InitForModule(
	ctx context.Context,
	visitorID string,
	module int,
) (ModuleStatus, error) {
	if !course.ValidModule(module) {
		return ModuleStatus{}, fmt.Errorf("init module %d: %w", module, core.ErrInvalidModule)
	}

	status := ModuleStatus{
		Module:    module,
		Completed: s.IsCompleted(ctx, visitorID, module),
		CanAccess: s.CanAccess(ctx, visitorID, module),
		Progress:  s.CourseProgress(ctx, visitorID),
	}

	s.logger.DebugContext(ctx, "module page initialised",
		"visitor_id", visitorID,
		"module", module,
		"completed", status.Completed,
	)

	return status, nil
}

// Debug lists completion and unlock state for every module.
func (s *Service) Debug(ctx context.Context, visitorID string) DebugReport {
	report := DebugReport{
		Modules: make([]ModuleState, 0, course.TotalModules),
	}
	for m := course.FirstModule; m <= course.TotalModules; m++ {
		report.Modules = append(report.Modules, ModuleState{
			Module:     m,
			Completed:  s.IsCompleted(ctx, visitorID, m),
			Accessible: s.CanAccess(ctx, visitorID, m),
		})
	}
	report.Progress = s.CourseProgress(ctx, visitorID)
	return report
}
