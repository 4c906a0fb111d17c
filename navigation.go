package recagent

import (
	"context"

	"github.com/zhaxinji/recagent-client/session"
)

// Application routes the controller navigates to. [RouteVerifyEmail]
// doubles as the pending-verification view shown right after registration;
// the page consumes a token when one is present and otherwise tells the
// user to check their inbox.
const (
	RouteHome           = "/"
	RouteLogin          = "/login"
	RouteRegister       = "/register"
	RouteForgotPassword = "/forgot-password"
	RouteResetPassword  = "/reset-password"
	RouteVerifyEmail    = "/verify-email"
)

// Navigator performs a route change. The application supplies the real
// mechanism (router push, screen switch); the SDK never navigates through
// anything wider than this.
type Navigator interface {
	Navigate(path string)
}

// NavigatorFunc adapts a function to [Navigator].
type NavigatorFunc func(path string)

func (f NavigatorFunc) Navigate(path string) { f(path) }

// NoOpNavigator ignores all redirects. It is the default for headless use.
type NoOpNavigator struct{}

func (NoOpNavigator) Navigate(string) {}

// NavigationController owns the redirect side of session transitions. The
// session validity state machine has two states, Anonymous and
// Authenticated: login or verification success is the only way in, and
// logout or authorization rejection the only ways out. There is no
// credential-refresh transition.
type NavigationController struct {
	sessions  *session.Store
	navigator Navigator
}

// NewNavigationController wires the controller over the store and the
// application's navigator.
func NewNavigationController(sessions *session.Store, navigator Navigator) *NavigationController {
	if navigator == nil {
		navigator = NoOpNavigator{}
	}
	return &NavigationController{
		sessions:  sessions,
		navigator: navigator,
	}
}

// OnLoginSuccess commits the credential/identity pair and navigates home.
// This is the Anonymous → Authenticated transition.
func (n *NavigationController) OnLoginSuccess(ctx context.Context, credential string, identity *UserRecord) error {
	if err := n.sessions.Set(ctx, credential, identity); err != nil {
		return err
	}
	n.navigator.Navigate(RouteHome)
	return nil
}

// OnLogout clears the session and navigates home. The in-memory session is
// gone even when the durable clear reports a failure, so the redirect
// always happens; the error is returned for the caller to report.
func (n *NavigationController) OnLogout(ctx context.Context) error {
	err := n.sessions.Clear(ctx)
	n.navigator.Navigate(RouteHome)
	return err
}

// OnAuthRejected navigates to the login route. The gateway has already
// cleared the session by the time this runs.
func (n *NavigationController) OnAuthRejected() {
	n.navigator.Navigate(RouteLogin)
}

// OnRegistrationSubmitted navigates to the pending-verification view.
// Registration never creates a session; the account must be verified first.
func (n *NavigationController) OnRegistrationSubmitted() {
	n.navigator.Navigate(RouteVerifyEmail)
}
