package recagent

import (
	"context"
	"testing"

	"github.com/zhaxinji/recagent-client/session"
)

func newTestController(t *testing.T) (*NavigationController, *session.Store, *recordingNavigator) {
	t.Helper()
	store := session.NewStore(session.NewMemoryKV(), session.DefaultCredentialKey, session.DefaultIdentityKey)
	nav := &recordingNavigator{}
	return NewNavigationController(store, nav), store, nav
}

func TestControllerLoginSuccessCommitsAndNavigatesHome(t *testing.T) {
	ctrl, store, nav := newTestController(t)

	identity := &UserRecord{UserID: "u1", Name: "Alice Zhang"}
	if err := ctrl.OnLoginSuccess(context.Background(), "tok-1", identity); err != nil {
		t.Fatalf("login: %v", err)
	}

	current := store.Current()
	if !current.Authenticated() || current.Credential != "tok-1" {
		t.Fatalf("session = %+v", current)
	}
	if calls := nav.calls(); len(calls) != 1 || calls[0] != RouteHome {
		t.Fatalf("navigation = %v", calls)
	}
}

func TestControllerLogoutClearsAndNavigatesHome(t *testing.T) {
	ctrl, store, nav := newTestController(t)
	if err := ctrl.OnLoginSuccess(context.Background(), "tok-1", &UserRecord{UserID: "u1"}); err != nil {
		t.Fatalf("login: %v", err)
	}

	if err := ctrl.OnLogout(context.Background()); err != nil {
		t.Fatalf("logout: %v", err)
	}
	if store.Current().Authenticated() {
		t.Fatal("session survived logout")
	}
	if calls := nav.calls(); len(calls) != 2 || calls[1] != RouteHome {
		t.Fatalf("navigation = %v", calls)
	}
}

func TestControllerAuthRejectedNavigatesLoginOnly(t *testing.T) {
	ctrl, store, nav := newTestController(t)
	if err := ctrl.OnLoginSuccess(context.Background(), "tok-1", &UserRecord{UserID: "u1"}); err != nil {
		t.Fatalf("login: %v", err)
	}

	// The gateway clears first; the controller only redirects.
	ctrl.OnAuthRejected()

	if !store.Current().Authenticated() {
		t.Fatal("OnAuthRejected must not touch the session itself")
	}
	if calls := nav.calls(); len(calls) != 2 || calls[1] != RouteLogin {
		t.Fatalf("navigation = %v", calls)
	}
}

func TestControllerRegistrationSubmittedNavigatesVerifyEmail(t *testing.T) {
	ctrl, store, nav := newTestController(t)

	ctrl.OnRegistrationSubmitted()

	if store.Current().Authenticated() {
		t.Fatal("registration created a session")
	}
	if calls := nav.calls(); len(calls) != 1 || calls[0] != RouteVerifyEmail {
		t.Fatalf("navigation = %v", calls)
	}
}

func TestNavigatorFuncAndNilDefault(t *testing.T) {
	var got string
	NavigatorFunc(func(path string) { got = path }).Navigate(RouteLogin)
	if got != RouteLogin {
		t.Fatalf("NavigatorFunc got %q", got)
	}

	// A nil navigator falls back to the no-op implementation.
	ctrl := NewNavigationController(session.NewStore(session.NewMemoryKV(), session.DefaultCredentialKey, session.DefaultIdentityKey), nil)
	ctrl.OnAuthRejected()
}
