package models

// Mode selects which request a form submission triggers
type Mode string

const (
	ModeLogin    Mode = "login"
	ModeRegister Mode = "register"
)

// Status represents the lifecycle of a single submission
type Status string

const (
	StatusIdle      Status = "idle"
	StatusPending   Status = "pending"
	StatusSucceeded Status = "succeeded"
	StatusFailed    Status = "failed"
)

// Severity tags the message shown to the user
type Severity string

const (
	SeveritySuccess Severity = "success"
	SeverityWarning Severity = "warning"
	SeverityDanger  Severity = "danger"
)

// Messages shown when the server gives nothing usable
const (
	MessageLoginFailed    = "An error occurred. Please try again."
	MessageRegisterFailed = "An error occurred during registration. Please try again."
	MessageUnreachable    = "Unable to connect to the server. Please try again later."
)

// Attempt is the in-memory state of one credential form view.
// It is treated as an immutable value: every transition produces a new Attempt.
type Attempt struct {
	Username string   `json:"username"`
	Password string   `json:"-"` // Never serialize to JSON
	Mode     Mode     `json:"mode"`
	Status   Status   `json:"status"`
	Message  string   `json:"message,omitempty"`
	Severity Severity `json:"severity,omitempty"`
}

// NewAttempt returns the initial state of a freshly opened form
func NewAttempt() Attempt {
	return Attempt{
		Mode:   ModeLogin,
		Status: StatusIdle,
	}
}

// Loading returns true while a request is in flight
func (a Attempt) Loading() bool {
	return a.Status == StatusPending
}

// HasMessage returns true if there is something for the alert to show
func (a Attempt) HasMessage() bool {
	return a.Message != ""
}

// Toggled returns the opposite mode
func (m Mode) Toggled() Mode {
	if m == ModeRegister {
		return ModeLogin
	}
	return ModeRegister
}

// Title returns the heading shown above the form for this mode
func (m Mode) Title() string {
	if m == ModeRegister {
		return "Register"
	}
	return "User Login"
}

// SubmitLabel returns the submit button text for this mode
func (m Mode) SubmitLabel() string {
	if m == ModeRegister {
		return "Register"
	}
	return "Login"
}
