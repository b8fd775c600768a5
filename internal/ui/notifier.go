// AngelaMos | 2026
// notifier.go

package ui

import (
	"context"
	"log/slog"
	"sort"
	"sync"
	"time"

	"github.com/carterperez-dev/templates/course-gate/internal/i18n"
	"github.com/carterperez-dev/templates/course-gate/internal/progress"
)

type Kind string

const (
	KindSuccess Kind = "success"
	KindError   Kind = "error"
	KindWarning Kind = "warning"
	KindInfo    Kind = "info"
)

var kindColors = map[Kind]string{
	KindSuccess: "#27ae60",
	KindError:   "#e74c3c",
	KindWarning: "#f39c12",
	KindInfo:    "#3498db",
}

// Color is the toast background. Unknown kinds render as info.
func (k Kind) Color() string {
	if c, ok := kindColors[k]; ok {
		return c
	}
	return kindColors[KindInfo]
}

func (k Kind) Valid() bool {
	_, ok := kindColors[k]
	return ok
}

// MaxPendingPerVisitor bounds a visitor's queue. Showing past it drops the
// oldest toast.
const MaxPendingPerVisitor = 20

type Toast struct {
	ID        string     `json:"id"`
	Kind      Kind       `json:"kind"`
	Color     string     `json:"color"`
	Message   string     `json:"message"`
	Detail    []string   `json:"detail,omitempty"`
	CreatedAt time.Time  `json:"created_at"`
	ExpiresAt *time.Time `json:"expires_at,omitempty"`
}

type pending struct {
	toast Toast
	seq   uint64
	timer *time.Timer
}

// Notifier keeps each visitor's visible toasts. A toast with a positive
// duration removes itself when it elapses; zero keeps it until dismissed.
type Notifier struct {
	mu     sync.Mutex
	queues map[string]map[string]*pending
	seq    uint64
	closed bool
	now    func() time.Time
	logger *slog.Logger
}

func NewNotifier(logger *slog.Logger) *Notifier {
	if logger == nil {
		logger = slog.Default()
	}
	return &Notifier{
		queues: make(map[string]map[string]*pending),
		now:    time.Now,
		logger: logger,
	}
}

// Show queues a toast for ns and returns its id. After Close it returns "".
func (n *Notifier) Show(ns, message string, kind Kind, duration time.Duration, detail ...string) string {
	if !kind.Valid() {
		kind = KindInfo
	}

	n.mu.Lock()
	defer n.mu.Unlock()

	if n.closed {
		return ""
	}

	now := n.now()
	n.seq++
	p := &pending{
		seq: n.seq,
		toast: Toast{
			ID:        GenerateID(),
			Kind:      kind,
			Color:     kind.Color(),
			Message:   message,
			Detail:    detail,
			CreatedAt: now,
		},
	}

	if duration > 0 {
		expires := now.Add(duration)
		p.toast.ExpiresAt = &expires

		id := p.toast.ID
		p.timer = time.AfterFunc(duration, func() {
			n.remove(ns, id)
		})
	}

	q, ok := n.queues[ns]
	if !ok {
		q = make(map[string]*pending)
		n.queues[ns] = q
	}
	q[p.toast.ID] = p
	if len(q) > MaxPendingPerVisitor {
		n.evictOldestLocked(ns)
	}

	return p.toast.ID
}

func (n *Notifier) evictOldestLocked(ns string) {
	var oldest *pending
	for _, p := range n.queues[ns] {
		if oldest == nil || p.seq < oldest.seq {
			oldest = p
		}
	}
	if oldest == nil {
		return
	}
	if oldest.timer != nil {
		oldest.timer.Stop()
	}
	n.deleteLocked(ns, oldest.toast.ID)
	n.logger.Debug("toast queue full, dropped oldest",
		"visitor_id", ns,
		"toast_id", oldest.toast.ID,
	)
}

// Dismiss removes a toast and cancels its timer. It reports whether the
// toast was still showing.
func (n *Notifier) Dismiss(ns, id string) bool {
	n.mu.Lock()
	defer n.mu.Unlock()

	p, ok := n.queues[ns][id]
	if !ok {
		return false
	}
	if p.timer != nil {
		p.timer.Stop()
	}
	n.deleteLocked(ns, id)
	return true
}

func (n *Notifier) remove(ns, id string) {
	n.mu.Lock()
	n.deleteLocked(ns, id)
	n.mu.Unlock()
}

func (n *Notifier) deleteLocked(ns, id string) {
	q := n.queues[ns]
	delete(q, id)
	if len(q) == 0 {
		delete(n.queues, ns)
	}
}

// Pending lists the toasts for ns, oldest first.
func (n *Notifier) Pending(ns string) []Toast {
	n.mu.Lock()
	defer n.mu.Unlock()

	q := n.queues[ns]
	items := make([]*pending, 0, len(q))
	for _, p := range q {
		items = append(items, p)
	}
	sort.Slice(items, func(i, j int) bool { return items[i].seq < items[j].seq })

	toasts := make([]Toast, len(items))
	for i, p := range items {
		toasts[i] = p.toast
	}
	return toasts
}

// Close stops every timer and drops all toasts.
func (n *Notifier) Close() {
	n.mu.Lock()
	defer n.mu.Unlock()

	for _, q := range n.queues {
		for _, p := range q {
			if p.timer != nil {
				p.timer.Stop()
			}
		}
	}
	n.queues = make(map[string]map[string]*pending)
	n.closed = true
}

// CompletionToasts turns module completions into success toasts in the
// visitor's locale.
type CompletionToasts struct {
	notifier *Notifier
	duration time.Duration
}

func NewCompletionToasts(n *Notifier, duration time.Duration) *CompletionToasts {
	return &CompletionToasts{notifier: n, duration: duration}
}

func (c *CompletionToasts) NotifyCompletion(
	ctx context.Context,
	visitorID string,
	done progress.Completion,
) {
	p := i18n.FromContext(ctx)

	id := c.notifier.Show(visitorID, done.Title(p), KindSuccess, c.duration,
		p.Sprintf(i18n.MsgProgressSaved),
		done.Detail(p),
	)

	c.notifier.logger.DebugContext(ctx, "completion toast queued",
		"visitor_id", visitorID,
		"module", done.Module,
		"toast_id", id,
	)
}
