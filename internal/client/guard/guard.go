// Package guard provides the pure routing predicates for protected screens.
// Guards never perform I/O and never mutate the session; the gateway handles
// stale-token discovery when the next request fails.
package guard

import (
	"github.com/okapibank/okapi/internal/client/session"
	"github.com/okapibank/okapi/internal/user"
)

// AdminLoginRoute is where an unauthorized admin-area visitor is sent.
const AdminLoginRoute = "/admin/login"

// Decision is the result of evaluating a guard against a session snapshot.
// When Allow is false, Redirect names the route to send the visitor to.
type Decision struct {
	Allow    bool
	Redirect string
}

// User admits any authenticated session to customer screens. Role is not
// checked here; customer endpoints reject foreign tokens server-side.
func User(s session.Session) Decision {
	if s.Authenticated {
		return Decision{Allow: true}
	}
	return Decision{Redirect: session.LoginRoute}
}

// Admin admits only sessions that carry a token and the ADMIN role. Both
// failure modes redirect to the admin login entry point.
func Admin(s session.Session) Decision {
	if s.Authenticated && s.Role == user.RoleAdmin {
		return Decision{Allow: true}
	}
	return Decision{Redirect: AdminLoginRoute}
}
