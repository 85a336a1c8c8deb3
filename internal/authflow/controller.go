package authflow

import (
	"context"
	"log"
	"sync"
	"time"

	"github.com/Wiz-2/frontend-login/internal/apiclient"
	"github.com/Wiz-2/frontend-login/internal/models"
)

// Requester performs the two authentication requests
type Requester interface {
	Login(ctx context.Context, creds apiclient.Credentials) apiclient.Result
	Register(ctx context.Context, creds apiclient.Credentials) apiclient.Result
}

// Observer is notified once per completed request
type Observer interface {
	ObserveAttempt(mode models.Mode, res apiclient.Result, elapsed time.Duration)
}

// Controller owns the state of one credential form view.
// At most one request is in flight per controller.
type Controller struct {
	api      Requester
	observer Observer
	logger   *log.Logger
	delay    time.Duration
	now      func() time.Time

	mu         sync.Mutex
	state      models.Attempt
	closed     bool
	navigateTo string
	navigateAt time.Time
}

// NewController creates a controller in login mode.
// delay is the pause between a successful login and navigation to the welcome page.
func NewController(api Requester, delay time.Duration, observer Observer, logger *log.Logger) *Controller {
	return &Controller{
		api:      api,
		observer: observer,
		logger:   logger,
		delay:    delay,
		now:      time.Now,
		state:    models.NewAttempt(),
	}
}

// State returns a snapshot of the current attempt
func (c *Controller) State() models.Attempt {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

// Submit runs whichever request the current mode selects
func (c *Controller) Submit(ctx context.Context, username, password string) (models.Attempt, error) {
	return c.submit(ctx, "", username, password)
}

// SubmitLogin sends a login request and applies its result
func (c *Controller) SubmitLogin(ctx context.Context, username, password string) (models.Attempt, error) {
	return c.submit(ctx, models.ModeLogin, username, password)
}

// SubmitRegister sends a registration request and applies its result
func (c *Controller) SubmitRegister(ctx context.Context, username, password string) (models.Attempt, error) {
	return c.submit(ctx, models.ModeRegister, username, password)
}

// submit runs one request; an empty mode means the attempt's current mode,
// read under the same lock that marks the attempt pending.
func (c *Controller) submit(ctx context.Context, mode models.Mode, username, password string) (models.Attempt, error) {
	c.mu.Lock()
	if mode == "" {
		mode = c.state.Mode
	}
	if c.closed {
		state := c.state
		c.mu.Unlock()
		return state, ErrStale
	}
	next, err := Begin(c.state, username, password)
	if err != nil {
		state := c.state
		c.mu.Unlock()
		return state, err
	}
	c.state = next
	c.mu.Unlock()

	creds := apiclient.Credentials{Username: username, Password: password}
	start := c.now()

	var res apiclient.Result
	if mode == models.ModeRegister {
		res = c.api.Register(ctx, creds)
	} else {
		res = c.api.Login(ctx, creds)
	}

	if c.observer != nil {
		c.observer.ObserveAttempt(mode, res, c.now().Sub(start))
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	if c.closed {
		c.logger.Printf("Dropping %s response for closed view (outcome=%s status=%d)", mode, res.Outcome, res.StatusCode)
		return c.state, ErrStale
	}

	resolved, effect := Resolve(c.state, mode, res)
	c.state = resolved
	if effect.Navigate != "" {
		c.navigateTo = effect.Navigate
		c.navigateAt = c.now().Add(c.delay)
	}

	return resolved, nil
}

// Toggle switches between login and register, clearing the form
func (c *Controller) Toggle() (models.Attempt, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	next, err := Toggle(c.state)
	if err != nil {
		return c.state, err
	}
	c.state = next
	return next, nil
}

// PendingNavigation reports how long until a scheduled navigation is due
func (c *Controller) PendingNavigation() (time.Duration, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.navigateTo == "" {
		return 0, false
	}
	remaining := c.navigateAt.Sub(c.now())
	if remaining < 0 {
		remaining = 0
	}
	return remaining, true
}

// Navigation returns the path to navigate to once the delay has elapsed.
// It reports true at most once per successful login.
func (c *Controller) Navigation() (string, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.navigateTo == "" || c.now().Before(c.navigateAt) {
		return "", false
	}

	path := c.navigateTo
	c.navigateTo = ""
	return path, true
}

// Close discards the view. Responses still in flight are dropped when they arrive.
func (c *Controller) Close() {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.closed = true
	c.navigateTo = ""
}

// Closed returns true once Close has been called
func (c *Controller) Closed() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.closed
}
