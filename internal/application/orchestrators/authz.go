package orchestrators

import "errors"

// ErrUnauthorized is returned by admin-only orchestrators when the caller
// does not hold the admin capability.
var ErrUnauthorized = errors.New("admin session required")

// Capability is the explicit authorization token threaded through every
// admin-only call. Passing it explicitly (instead of ambient global
// state) keeps the trust boundary visible in signatures and testable.
type Capability struct {
	admin bool
}

// AdminCapability mints the admin capability. Callers must only do this
// after verifying a valid admin session.
func AdminCapability() Capability {
	return Capability{admin: true}
}

// Admin reports whether this capability authorizes admin actions.
func (c Capability) Admin() bool {
	return c.admin
}
