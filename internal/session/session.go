// Package session holds per-visitor server-side state: at most one
// authenticated identity, the shopping cart, and one-shot flash notices.
// Handlers receive a Session value explicitly; cookie signing and storage
// live in the transport collaborators (CookieCodec, Store).
package session

import (
	"context"
	"crypto/subtle"
	"errors"

	"github.com/google/uuid"

	"melonsite/internal/cart"
	"melonsite/internal/customer"
)

// User-facing notices attached to auth and cart transitions.
const (
	NoticeNoSuchCustomer = "No customer with that email found!"
	NoticeBadPassword    = "Incorrect password!"
	NoticeLoginOK        = "Login successful!"
	NoticeLogoutOK       = "Successfully logged you out!"
	NoticeCheckoutStub   = "Sorry! Checkout will be implemented in a future version."
)

var (
	ErrNoSuchCustomer = errors.New("no customer with that email")
	ErrBadPassword    = errors.New("incorrect password")
)

// Session is one visitor's state. Email is empty while anonymous. The cart
// is reachable and mutable in both auth states; login and logout never touch
// it. One request acts on one session at a time, so Session itself carries
// no locking.
type Session struct {
	ID      string     `json:"id"`
	Email   string     `json:"email,omitempty"`
	Cart    *cart.Cart `json:"cart"`
	Notices []string   `json:"notices,omitempty"`

	dirty bool
}

// New creates an empty anonymous session.
func New() *Session {
	return &Session{
		ID:   "s_" + uuid.NewString(),
		Cart: cart.New(),
	}
}

func (s *Session) Authenticated() bool {
	return s.Email != ""
}

// Flash queues a one-shot notice for the next render.
func (s *Session) Flash(msg string) {
	s.Notices = append(s.Notices, msg)
	s.dirty = true
}

// ConsumeFlashes returns all pending notices in order and empties the queue.
// Each notice is delivered exactly once.
func (s *Session) ConsumeFlashes() []string {
	if len(s.Notices) == 0 {
		return nil
	}
	out := s.Notices
	s.Notices = nil
	s.dirty = true
	return out
}

// Touch marks the session as needing persistence, for mutations the session
// cannot observe itself (cart writes).
func (s *Session) Touch() { s.dirty = true }

// Dirty reports whether the session changed since it was loaded.
func (s *Session) Dirty() bool { return s.dirty }

// MarkClean resets the dirty flag after a successful save.
func (s *Session) MarkClean() { s.dirty = false }

// Login attempts the Anonymous -> Authenticated transition. Every outcome
// flashes exactly one notice. The password check is a verbatim comparison;
// there is no hashing in this dataset.
func (s *Session) Login(ctx context.Context, dir customer.Directory, email, password string) error {
	c, ok, err := dir.GetByEmail(ctx, email)
	if err != nil {
		return err
	}
	if !ok {
		s.Flash(NoticeNoSuchCustomer)
		return ErrNoSuchCustomer
	}

	if subtle.ConstantTimeCompare([]byte(c.Password), []byte(password)) != 1 {
		s.Flash(NoticeBadPassword)
		return ErrBadPassword
	}

	s.Email = c.Email
	s.Flash(NoticeLoginOK)
	return nil
}

// Logout clears the bound identity. Logging out while anonymous is a no-op
// transition; the notice is flashed either way.
func (s *Session) Logout() {
	s.Email = ""
	s.Flash(NoticeLogoutOK)
}
