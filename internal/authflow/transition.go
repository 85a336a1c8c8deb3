package authflow

import (
	"errors"
	"net/http"

	"github.com/Wiz-2/frontend-login/internal/apiclient"
	"github.com/Wiz-2/frontend-login/internal/models"
)

// WelcomePath is where a successful login navigates to
const WelcomePath = "/welcome"

var (
	ErrPending       = errors.New("a request is already in progress")
	ErrMissingFields = errors.New("username and password are required")
	ErrStale         = errors.New("view closed before the response arrived")
)

// Effect is a side effect requested by a transition
type Effect struct {
	// Navigate is the path to go to after the redirect delay, or empty
	Navigate string
}

// Begin starts a submission: fields are captured, the message cleared and the
// attempt marked pending.
func Begin(a models.Attempt, username, password string) (models.Attempt, error) {
	if a.Loading() {
		return a, ErrPending
	}
	if username == "" || password == "" {
		return a, ErrMissingFields
	}

	next := a
	next.Username = username
	next.Password = password
	next.Status = models.StatusPending
	next.Message = ""
	next.Severity = ""
	return next, nil
}

// Resolve maps the result of a request made in mode to the next attempt.
// The returned attempt is never pending.
func Resolve(a models.Attempt, mode models.Mode, res apiclient.Result) (models.Attempt, Effect) {
	if mode == models.ModeRegister {
		return resolveRegister(a, res), Effect{}
	}
	return resolveLogin(a, res)
}

func resolveLogin(a models.Attempt, res apiclient.Result) (models.Attempt, Effect) {
	next := a

	switch res.Outcome {
	case apiclient.OutcomeSuccess:
		next = withMessage(next, models.StatusSucceeded, models.SeveritySuccess, res.Message)
		return next, Effect{Navigate: WelcomePath}

	case apiclient.OutcomeDomainError:
		switch res.StatusCode {
		case http.StatusNotFound:
			// Unknown user: offer registration with the same fields
			next = withMessage(next, models.StatusFailed, models.SeverityWarning, res.Message)
			next.Mode = models.ModeRegister
		case http.StatusUnauthorized:
			next = withMessage(next, models.StatusFailed, models.SeverityDanger, res.Message)
		default:
			next = withMessage(next, models.StatusFailed, models.SeverityDanger, models.MessageLoginFailed)
		}

	default:
		next = withMessage(next, models.StatusFailed, models.SeverityDanger, models.MessageUnreachable)
	}

	return next, Effect{}
}

func resolveRegister(a models.Attempt, res apiclient.Result) models.Attempt {
	next := a

	switch res.Outcome {
	case apiclient.OutcomeSuccess:
		next = withMessage(next, models.StatusSucceeded, models.SeveritySuccess, res.Message)
		next.Mode = models.ModeLogin
		next.Username = ""
		next.Password = ""

	case apiclient.OutcomeDomainError:
		switch res.StatusCode {
		case http.StatusConflict:
			next = withMessage(next, models.StatusFailed, models.SeverityDanger, res.Message)
		case http.StatusBadRequest:
			next = withMessage(next, models.StatusFailed, models.SeverityWarning, res.Message)
		default:
			next = withMessage(next, models.StatusFailed, models.SeverityDanger, models.MessageRegisterFailed)
		}

	default:
		next = withMessage(next, models.StatusFailed, models.SeverityDanger, models.MessageUnreachable)
	}

	return next
}

// Toggle flips between login and register and resets the form
func Toggle(a models.Attempt) (models.Attempt, error) {
	if a.Loading() {
		return a, ErrPending
	}

	return models.Attempt{
		Mode:   a.Mode.Toggled(),
		Status: models.StatusIdle,
	}, nil
}

func withMessage(a models.Attempt, status models.Status, severity models.Severity, message string) models.Attempt {
	a.Status = status
	a.Severity = severity
	a.Message = message
	return a
}
