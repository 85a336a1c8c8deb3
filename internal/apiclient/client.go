package apiclient

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"strings"
	"time"

	"github.com/hashicorp/go-cleanhttp"
)

const (
	loginPath    = "/api/login"
	registerPath = "/api/register"

	// maxResponseBytes caps how much of a response body is read
	maxResponseBytes = 64 * 1024
)

// Credentials is the request body of both endpoints
type Credentials struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// Outcome tags which kind of Result a request produced
type Outcome int

const (
	// OutcomeSuccess means the server answered with a 2xx status
	OutcomeSuccess Outcome = iota
	// OutcomeDomainError means the server answered with a non-2xx status
	OutcomeDomainError
	// OutcomeTransportError means no response was received
	OutcomeTransportError
)

// String returns the outcome name used in logs and metric labels
func (o Outcome) String() string {
	switch o {
	case OutcomeSuccess:
		return "success"
	case OutcomeDomainError:
		return "domain_error"
	case OutcomeTransportError:
		return "transport_error"
	default:
		return "unknown"
	}
}

// Result is what a login or register call produced.
// StatusCode and Message are set for Success and DomainError; Err for TransportError.
type Result struct {
	Outcome    Outcome
	StatusCode int
	Message    string
	Err        error
}

// Success builds a 2xx result
func Success(status int, message string) Result {
	return Result{Outcome: OutcomeSuccess, StatusCode: status, Message: message}
}

// DomainError builds a non-2xx result carrying the server's message
func DomainError(status int, message string) Result {
	return Result{Outcome: OutcomeDomainError, StatusCode: status, Message: message}
}

// TransportError builds a result for a request that got no response
func TransportError(err error) Result {
	return Result{Outcome: OutcomeTransportError, Err: err}
}

// messageBody is the response body of both endpoints
type messageBody struct {
	Message string `json:"message"`
}

// Client calls the authentication API
type Client struct {
	baseURL    string
	httpClient *http.Client
	logger     *log.Logger
}

// New creates a client for the API rooted at baseURL.
// A zero timeout leaves outbound requests without a deadline.
func New(baseURL string, timeout time.Duration, logger *log.Logger) *Client {
	httpClient := cleanhttp.DefaultPooledClient()
	httpClient.Timeout = timeout

	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: httpClient,
		logger:     logger,
	}
}

// BaseURL returns the API root this client talks to
func (c *Client) BaseURL() string {
	return c.baseURL
}

// Login posts credentials to the login endpoint
func (c *Client) Login(ctx context.Context, creds Credentials) Result {
	return c.post(ctx, loginPath, creds)
}

// Register posts credentials to the registration endpoint
func (c *Client) Register(ctx context.Context, creds Credentials) Result {
	return c.post(ctx, registerPath, creds)
}

func (c *Client) post(ctx context.Context, path string, creds Credentials) Result {
	payload, err := json.Marshal(creds)
	if err != nil {
		return TransportError(fmt.Errorf("failed to encode request: %w", err))
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(payload))
	if err != nil {
		return TransportError(fmt.Errorf("failed to create request: %w", err))
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.logger.Printf("POST %s failed: %v", path, err)
		return TransportError(fmt.Errorf("failed to reach %s: %w", path, err))
	}
	defer resp.Body.Close()

	// A body that is missing or not JSON still counts as a response; the message is just empty.
	var body messageBody
	data, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		c.logger.Printf("POST %s: failed to read response body: %v", path, err)
	} else if len(data) > 0 {
		if err := json.Unmarshal(data, &body); err != nil {
			c.logger.Printf("POST %s: response is not JSON (status %d)", path, resp.StatusCode)
		}
	}

	if resp.StatusCode >= 200 && resp.StatusCode < 300 {
		return Success(resp.StatusCode, body.Message)
	}
	return DomainError(resp.StatusCode, body.Message)
}
