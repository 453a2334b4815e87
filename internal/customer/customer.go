package customer

import "context"

// Customer is one registered account. Passwords are stored and compared
// verbatim; this is a tutorial dataset, not a credential store.
type Customer struct {
	FirstName string
	LastName  string
	Email     string
	Password  string
}

// Directory looks accounts up by email. Matching is an exact, case-sensitive
// string comparison: "A@example.com" and "a@example.com" are different keys.
type Directory interface {
	GetByEmail(ctx context.Context, email string) (Customer, bool, error)
	Ping(ctx context.Context) error
}
