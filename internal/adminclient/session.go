package adminclient

import (
	"context"
	"path"
	"strings"
	"sync"
)

const (
	LoginRoute = "/admin/login"
	adminRoot  = "/admin"
)

// Authenticator is the part of Client a Session drives.
type Authenticator interface {
	Login(ctx context.Context, userName, password string) (*Admin, error)
	Me(ctx context.Context) (*Admin, error)
	Logout(ctx context.Context) error
}

// Session holds the signed-in admin for a front end. The identity is fetched
// from the server at most once per Session unless Login or Logout change it.
type Session struct {
	auth Authenticator

	mu       sync.RWMutex
	admin    *Admin
	restored bool
}

// NewSession creates an empty session over auth.
func NewSession(auth Authenticator) *Session {
	return &Session{auth: auth}
}

// Login signs in and records the identity.
func (s *Session) Login(ctx context.Context, userName, password string) (*Admin, error) {
	admin, err := s.auth.Login(ctx, userName, password)
	if err != nil {
		return nil, err
	}
	s.set(admin)
	return admin, nil
}

// Restore fetches the identity for an existing cookie. Only the first call
// that gets a definitive answer from the server asks it; later calls return
// the recorded identity. A rejected session yields (nil, nil).
func (s *Session) Restore(ctx context.Context) (*Admin, error) {
	s.mu.RLock()
	if s.restored {
		admin := s.admin
		s.mu.RUnlock()
		return admin, nil
	}
	s.mu.RUnlock()

	admin, err := s.auth.Me(ctx)
	if err != nil && !IsUnauthenticated(err) {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.restored {
		return s.admin, nil
	}
	s.admin = admin
	s.restored = true
	return admin, nil
}

// Logout clears the server cookie and the local identity. The local identity
// is cleared even if the server call fails.
func (s *Session) Logout(ctx context.Context) error {
	err := s.auth.Logout(ctx)
	s.set(nil)
	return err
}

// Identity returns the signed-in admin, or nil.
func (s *Session) Identity() *Admin {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.admin
}

// Guard decides whether navigating to route is allowed. When it is not, the
// redirect target is returned. The login page is always reachable; every
// other page under /admin needs an identity.
func (s *Session) Guard(route string) (bool, string) {
	p := cleanRoute(route)
	if p == LoginRoute {
		return true, ""
	}
	if p != adminRoot && !strings.HasPrefix(p, adminRoot+"/") {
		return true, ""
	}
	if s.Identity() == nil {
		return false, LoginRoute
	}
	return true, ""
}

func (s *Session) set(admin *Admin) {
	s.mu.Lock()
	s.admin = admin
	s.restored = true
	s.mu.Unlock()
}

func cleanRoute(route string) string {
	if i := strings.IndexAny(route, "?#"); i >= 0 {
		route = route[:i]
	}
	if !strings.HasPrefix(route, "/") {
		route = "/" + route
	}
	return path.Clean(route)
}
