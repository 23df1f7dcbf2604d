package entities

import "time"

// CallerGrant is one row of the owner-controlled allow-list. A missing grant
// and a revoked grant are equivalent for authorization checks; revoked rows
// are kept for audit.
type CallerGrant struct {
	Caller     string
	Authorized bool
	GrantedBy  string
	CreatedAt  time.Time
	UpdatedAt  time.Time
}
