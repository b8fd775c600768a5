// AngelaMos | 2026
// service.go

package session

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"go.opentelemetry.io/otel/attribute"

	"github.com/carterperez-dev/templates/course-gate/internal/core"
	"github.com/carterperez-dev/templates/course-gate/internal/course"
	"github.com/carterperez-dev/templates/course-gate/internal/i18n"
	"github.com/carterperez-dev/templates/course-gate/internal/store"
)

const (
	KeyLoggedIn     = "isLoggedIn"
	KeyPurchased    = "isPurchased"
	KeyCurrentUser  = "currentUser"
	KeyLoginTime    = "loginTime"
	KeyPurchaseDate = "purchaseDate"

	// ISO-8601 with millisecond precision and a Z suffix.
	TimestampLayout = "2006-01-02T15:04:05.000Z07:00"

	DefaultUserName = "Usuario"
	PurchaserName   = "comprador"
	TestModeUser    = "usuario-prueba"

	// DenyMessage is a message key; the HTTP layer localizes it.
	DenyMessage = i18n.MsgAccessDenied
)

// sessionKeys are the keys cleared on logout. Purchase and progress survive.
var sessionKeys = []string{KeyLoggedIn, KeyCurrentUser, KeyLoginTime}

type Options struct {
	// TestMode makes ProtectPage grant access unconditionally and write a
	// demo session. Debug override only.
	TestMode bool
	Now      func() time.Time
	Logger   *slog.Logger
}

type Service struct {
	backend  store.Backend
	verifier CredentialVerifier
	testMode bool
	now      func() time.Time
	logger   *slog.Logger
}

func NewService(
	backend store.Backend,
	verifier CredentialVerifier,
	opts Options,
) *Service {
	if verifier == nil {
		verifier = NewAllowList()
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}

	return &Service{
		backend:  backend,
		verifier: verifier,
		testMode: opts.TestMode,
		now:      opts.Now,
		logger:   opts.Logger,
	}
}

func (s *Service) guard(visitorID string) *store.Guard {
	return store.NewGuard(
		store.Scope(s.backend, visitorID),
		s.logger.With("visitor_id", visitorID),
	)
}

func (s *Service) timestamp() string {
	return s.now().UTC().Format(TimestampLayout)
}

func (s *Service) TestMode() bool {
	return s.testMode
}

// Login writes a session claim iff the pair is on the allow-list. A failed
// attempt writes nothing. ok reports the credential check; a non-nil error
// means the pair matched but the claim could not be stored, and any partial
// write has been rolled back.
func (s *Service) Login(
	ctx context.Context,
	visitorID, identifier, secret string,
) (bool, error) {
	ctx, span := core.StartSpan(ctx, "session.login")
	defer span.End()

	if !s.verifier.Verify(ctx, identifier, secret) {
		core.AddSpanEvent(ctx, "login_rejected")
		return false, nil
	}

	g := s.guard(visitorID)
	stored := g.SetTrue(ctx, KeyLoggedIn) &&
		g.Set(ctx, KeyCurrentUser, identifier) &&
		g.Set(ctx, KeyLoginTime, s.timestamp())

	core.AddSpanEvent(ctx, "login_accepted", attribute.Bool("stored", stored))
	if !stored {
		g.Remove(ctx, sessionKeys...)
		return true, core.ErrStorageUnavailable
	}
	return true, nil
}

// Logout removes the session keys and returns where the page should go next,
// relative to currentPath.
func (s *Service) Logout(ctx context.Context, visitorID, currentPath string) string {
	s.guard(visitorID).Remove(ctx, sessionKeys...)
	return HomeURL(currentPath)
}

// HomeURL is the landing page relative to a page at currentPath. Pages one
// directory deep (dashboard and modules) go up a level.
func HomeURL(currentPath string) string {
	if strings.Contains(currentPath, "/dashboard/") ||
		strings.Contains(currentPath, "/modulo") {
		return "../index.html"
	}
	return "index.html"
}

// PurchaseCourse records a purchase claim and logs in a synthetic buyer.
// There is no payment step. A partial write is rolled back.
func (s *Service) PurchaseCourse(ctx context.Context, visitorID string) bool {
	g := s.guard(visitorID)
	now := s.timestamp()

	if g.SetTrue(ctx, KeyPurchased) &&
		g.Set(ctx, KeyPurchaseDate, now) &&
		g.SetTrue(ctx, KeyLoggedIn) &&
		g.Set(ctx, KeyCurrentUser, PurchaserName) {
		return true
	}

	g.Remove(ctx, KeyPurchased, KeyPurchaseDate, KeyLoggedIn, KeyCurrentUser)
	return false
}

func (s *Service) IsLoggedIn(ctx context.Context, visitorID string) bool {
	return s.guard(visitorID).Bool(ctx, KeyLoggedIn)
}

func (s *Service) IsPurchased(ctx context.Context, visitorID string) bool {
	return s.guard(visitorID).Bool(ctx, KeyPurchased)
}

// CurrentUser falls back to a generic display name when no user is stored.
func (s *Service) CurrentUser(ctx context.Context, visitorID string) string {
	if u := s.guard(visitorID).String(ctx, KeyCurrentUser); u != "" {
		return u
	}
	return DefaultUserName
}

func (s *Service) Snapshot(ctx context.Context, visitorID string) Snapshot {
	g := s.guard(visitorID)

	snap := Snapshot{
		LoggedIn:     g.Bool(ctx, KeyLoggedIn),
		Purchased:    g.Bool(ctx, KeyPurchased),
		LoginTime:    parseTimestamp(g.String(ctx, KeyLoginTime)),
		PurchaseDate: parseTimestamp(g.String(ctx, KeyPurchaseDate)),
		TestMode:     s.testMode,
	}
	if snap.LoggedIn {
		snap.CurrentUser = s.CurrentUser(ctx, visitorID)
	}

	return snap
}

// HasModuleAccess requires both claims; every module is open once bought.
func (s *Service) HasModuleAccess(ctx context.Context, visitorID string, module int) bool {
	if !s.IsLoggedIn(ctx, visitorID) || !s.IsPurchased(ctx, visitorID) {
		return false
	}
	return course.ValidModule(module)
}

// CanEnterDashboard applies the same claims the dashboard page protects with.
func (s *Service) CanEnterDashboard(ctx context.Context, visitorID string) bool {
	return s.IsLoggedIn(ctx, visitorID) && s.IsPurchased(ctx, visitorID)
}

// ProtectPage is the gate every protected page calls before rendering.
func (s *Service) ProtectPage(ctx context.Context, visitorID string) Protection {
	if s.testMode {
		g := s.guard(visitorID)
		g.SetTrue(ctx, KeyLoggedIn)
		g.SetTrue(ctx, KeyPurchased)
		g.Set(ctx, KeyCurrentUser, TestModeUser)

		s.logger.WarnContext(ctx, "test mode: page access granted automatically",
			"visitor_id", visitorID,
		)
		return Protection{Allowed: true, TestMode: true}
	}

	if !s.CanEnterDashboard(ctx, visitorID) {
		return Protection{
			Allowed:  false,
			Message:  DenyMessage,
			Redirect: "../index.html",
		}
	}

	return Protection{Allowed: true}
}

func parseTimestamp(v string) *time.Time {
	if v == "" {
		return nil
	}
	t, err := time.Parse(time.RFC3339Nano, v)
	if err != nil {
		return nil
	}
	return &t
}
