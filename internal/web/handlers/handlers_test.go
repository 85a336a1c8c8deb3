package handlers

import (
	"encoding/json"
	"io"
	"log"
	"net/http"
	"net/http/httptest"
	"net/url"
	"regexp"
	"strings"
	"testing"
	"time"

	"github.com/Wiz-2/frontend-login/internal/apiclient"
	"github.com/Wiz-2/frontend-login/internal/authflow"
)

var viewIDPattern = regexp.MustCompile(`name="view" value="([^"]+)"`)

// fakeBackend answers /api/login and /api/register with fixed statuses
type fakeBackend struct {
	loginStatus     int
	loginMessage    string
	registerStatus  int
	registerMessage string
}

func (b *fakeBackend) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	status, message := b.loginStatus, b.loginMessage
	if r.URL.Path == "/api/register" {
		status, message = b.registerStatus, b.registerMessage
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(map[string]string{"message": message})
}

func newTestHandlers(t *testing.T, apiURL string, delay time.Duration) *Handlers {
	t.Helper()

	logger := log.New(io.Discard, "", 0)
	client := apiclient.New(apiURL, 0, logger)
	views, err := authflow.NewViews(16, func() *authflow.Controller {
		return authflow.NewController(client, delay, nil, logger)
	})
	if err != nil {
		t.Fatalf("NewViews() failed: %v", err)
	}
	return New(views, "test", logger)
}

// openForm renders a fresh form and returns its view ID
func openForm(t *testing.T, h *Handlers) string {
	t.Helper()

	rec := httptest.NewRecorder()
	h.Landing(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("GET / returned %d", rec.Code)
	}

	m := viewIDPattern.FindStringSubmatch(rec.Body.String())
	if m == nil {
		t.Fatal("Form does not carry a view ID")
	}
	return m[1]
}

func postForm(h http.HandlerFunc, path string, values url.Values) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(values.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	rec := httptest.NewRecorder()
	h(rec, req)
	return rec
}

func getForm(h *Handlers, viewID string) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	h.Landing(rec, httptest.NewRequest(http.MethodGet, formURL(viewID), nil))
	return rec
}

func TestLoginNotFoundThenRegister(t *testing.T) {
	backend := &fakeBackend{
		loginStatus:     http.StatusNotFound,
		loginMessage:    "user not found",
		registerStatus:  http.StatusOK,
		registerMessage: "registered",
	}
	api := httptest.NewServer(backend)
	defer api.Close()

	h := newTestHandlers(t, api.URL, time.Second)
	viewID := openForm(t, h)

	rec := postForm(h.Submit, "/", url.Values{"view": {viewID}, "username": {"bob"}, "password": {"x"}})
	if rec.Code != http.StatusSeeOther {
		t.Fatalf("POST / returned %d, want 303", rec.Code)
	}
	if loc := rec.Header().Get("Location"); loc != formURL(viewID) {
		t.Errorf("Location = %s, want %s", loc, formURL(viewID))
	}

	body := getForm(h, viewID).Body.String()
	for _, want := range []string{
		`data-severity="warning">user not found</div>`,
		`<h2 class="login-title">Register</h2>`,
		`value="bob"`,
	} {
		if !strings.Contains(body, want) {
			t.Errorf("Page missing %q", want)
		}
	}

	postForm(h.Submit, "/", url.Values{"view": {viewID}, "username": {"bob"}, "password": {"x"}})

	body = getForm(h, viewID).Body.String()
	for _, want := range []string{
		`data-severity="success">registered</div>`,
		`<h2 class="login-title">User Login</h2>`,
	} {
		if !strings.Contains(body, want) {
			t.Errorf("Page missing %q", want)
		}
	}
	if strings.Contains(body, `value="bob"`) {
		t.Error("Fields should be cleared after registration")
	}
}

func TestLoginSuccessRedirectsToWelcome(t *testing.T) {
	api := httptest.NewServer(&fakeBackend{loginStatus: http.StatusOK, loginMessage: "Login successful"})
	defer api.Close()

	t.Run("page refreshes until the delay has passed", func(t *testing.T) {
		h := newTestHandlers(t, api.URL, time.Hour)
		viewID := openForm(t, h)

		postForm(h.Submit, "/", url.Values{"view": {viewID}, "username": {"bob"}, "password": {"x"}})

		rec := getForm(h, viewID)
		if rec.Code != http.StatusOK {
			t.Fatalf("Expected form while waiting, got %d", rec.Code)
		}
		body := rec.Body.String()
		if !strings.Contains(body, `data-severity="success">Login successful</div>`) {
			t.Error("Expected success message")
		}
		if !strings.Contains(body, `<meta http-equiv="refresh" content="3600;url=/?view=`+viewID) {
			t.Error("Expected meta refresh for the pending redirect")
		}
	})

	t.Run("redirect fires once the delay has passed", func(t *testing.T) {
		h := newTestHandlers(t, api.URL, 0)
		viewID := openForm(t, h)

		postForm(h.Submit, "/", url.Values{"view": {viewID}, "username": {"bob"}, "password": {"x"}})

		rec := getForm(h, viewID)
		if rec.Code != http.StatusSeeOther {
			t.Fatalf("Expected 303, got %d", rec.Code)
		}
		if loc := rec.Header().Get("Location"); loc != authflow.WelcomePath {
			t.Errorf("Location = %s, want %s", loc, authflow.WelcomePath)
		}

		// The view is gone; coming back starts a new form
		rec = getForm(h, viewID)
		if rec.Code != http.StatusOK {
			t.Fatalf("Expected fresh form, got %d", rec.Code)
		}
		if strings.Contains(rec.Body.String(), viewID) {
			t.Error("Closed view should not be reused")
		}
	})
}

func TestSubmitTransportError(t *testing.T) {
	api := httptest.NewServer(&fakeBackend{})
	apiURL := api.URL
	api.Close()

	h := newTestHandlers(t, apiURL, time.Second)
	viewID := openForm(t, h)

	postForm(h.Submit, "/", url.Values{"view": {viewID}, "username": {"bob"}, "password": {"x"}})

	body := getForm(h, viewID).Body.String()
	if !strings.Contains(body, `data-severity="danger">Unable to connect to the server. Please try again later.</div>`) {
		t.Error("Expected connectivity message")
	}
}

func TestSubmitMissingFields(t *testing.T) {
	h := newTestHandlers(t, "http://127.0.0.1:1", time.Second)
	viewID := openForm(t, h)

	rec := postForm(h.Submit, "/", url.Values{"view": {viewID}, "username": {"bob"}})
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("Expected 400, got %d", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), "Please enter both a username and a password.") {
		t.Error("Expected notice about missing fields")
	}
}

func TestToggle(t *testing.T) {
	h := newTestHandlers(t, "http://127.0.0.1:1", time.Second)
	viewID := openForm(t, h)

	rec := postForm(h.Toggle, "/toggle", url.Values{"view": {viewID}})
	if rec.Code != http.StatusSeeOther {
		t.Fatalf("Expected 303, got %d", rec.Code)
	}

	body := getForm(h, viewID).Body.String()
	if !strings.Contains(body, `<h2 class="login-title">Register</h2>`) {
		t.Error("Expected register mode after toggle")
	}
	if !strings.Contains(body, "Login here") {
		t.Error("Expected link back to login")
	}
}

func TestWelcomeAndLogout(t *testing.T) {
	h := newTestHandlers(t, "http://127.0.0.1:1", time.Second)

	rec := httptest.NewRecorder()
	h.Welcome(rec, httptest.NewRequest(http.MethodGet, "/welcome", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("GET /welcome returned %d", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), "Welcome, you have been authenticated!") {
		t.Error("Welcome page missing greeting")
	}

	rec = postForm(h.Logout, "/logout", url.Values{})
	if rec.Code != http.StatusSeeOther || rec.Header().Get("Location") != "/" {
		t.Errorf("Logout = %d %s, want 303 /", rec.Code, rec.Header().Get("Location"))
	}
}

func TestNotFound(t *testing.T) {
	h := newTestHandlers(t, "http://127.0.0.1:1", time.Second)

	rec := httptest.NewRecorder()
	h.NotFound(rec, httptest.NewRequest(http.MethodGet, "/nope", nil))
	if rec.Code != http.StatusNotFound {
		t.Errorf("Expected 404, got %d", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), "Page not found") {
		t.Error("Expected 404 page")
	}
}

func TestRefreshValue(t *testing.T) {
	if got := refreshValue(1500*time.Millisecond, "abc"); got != "2;url=/?view=abc" {
		t.Errorf("refreshValue() = %s", got)
	}
	if got := refreshValue(0, "abc"); got != "0;url=/?view=abc" {
		t.Errorf("refreshValue() = %s", got)
	}
}

func TestPendingViewDisablesControls(t *testing.T) {
	started := make(chan struct{}, 1)
	gate := make(chan struct{})
	api := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		started <- struct{}{}
		<-gate
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusUnauthorized)
		json.NewEncoder(w).Encode(map[string]string{"message": "invalid credentials"})
	}))
	defer api.Close()

	h := newTestHandlers(t, api.URL, time.Second)
	viewID := openForm(t, h)

	done := make(chan int, 1)
	go func() {
		rec := postForm(h.Submit, "/", url.Values{"view": {viewID}, "username": {"bob"}, "password": {"x"}})
		done <- rec.Code
	}()
	<-started

	// A second request sees the view while the first is still waiting on the API
	body := getForm(h, viewID).Body.String()
	for _, want := range []string{
		`class="btn btn-primary btn-custom" disabled>`,
		`class="btn btn-link" disabled>`,
		`class="spinner"`,
		`<meta http-equiv="refresh" content="1;url=/?view=` + viewID + `">`,
	} {
		if !strings.Contains(body, want) {
			t.Errorf("Pending page missing %q", want)
		}
	}

	close(gate)
	if code := <-done; code != http.StatusSeeOther {
		t.Fatalf("POST / returned %d, want 303", code)
	}

	body = getForm(h, viewID).Body.String()
	if strings.Contains(body, " disabled>") {
		t.Error("Controls should be enabled once the response resolved")
	}
	if strings.Contains(body, `http-equiv="refresh"`) {
		t.Error("Resolved page should not keep polling")
	}
	if !strings.Contains(body, `class="btn btn-primary btn-custom">Login</button>`) {
		t.Error("Expected the Login button back")
	}
	if !strings.Contains(body, `data-severity="danger">invalid credentials</div>`) {
		t.Error("Expected the resolved message")
	}
}
