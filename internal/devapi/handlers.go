package devapi

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/Wiz-2/frontend-login/internal/apiclient"
	"github.com/Wiz-2/frontend-login/internal/storage"
	webmiddleware "github.com/Wiz-2/frontend-login/internal/web/middleware"
)

// Messages returned by the stub
const (
	MessageLoginOK       = "Login successful"
	MessageUserNotFound  = "User not found. Please register."
	MessageInvalidLogin  = "Invalid credentials."
	MessageRegistered    = "User registered successfully."
	MessageUserExists    = "Username already exists."
	MessageMissingFields = "Username and password are required."
	MessagePasswordLong  = "Password must be at most 72 bytes."
	MessageBadRequest    = "Invalid request body."
	MessageInternal      = "Internal server error."
)

// Handlers serves the authentication API contract
type Handlers struct {
	service *Service
	logger  *log.Logger
}

// NewHandlers creates the API handlers
func NewHandlers(service *Service, logger *log.Logger) *Handlers {
	return &Handlers{service: service, logger: logger}
}

// Router returns the stub's HTTP routes
func (h *Handlers) Router(maxBytes int64) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(webmiddleware.LoggingMiddleware(h.logger))
	r.Use(middleware.Recoverer)
	r.Use(webmiddleware.MaxBytesMiddleware(maxBytes))

	r.Route("/api", func(r chi.Router) {
		r.Post("/login", h.Login)
		r.Post("/register", h.Register)
	})

	return r
}

// Login answers 200, 404 (unknown user), 401 (wrong password) or 400
func (h *Handlers) Login(w http.ResponseWriter, r *http.Request) {
	creds, ok := h.decode(w, r)
	if !ok {
		return
	}

	err := h.service.Login(creds.Username, creds.Password)
	switch {
	case err == nil:
		h.writeMessage(w, http.StatusOK, MessageLoginOK)
	case errors.Is(err, storage.ErrUserNotFound):
		h.writeMessage(w, http.StatusNotFound, MessageUserNotFound)
	case errors.Is(err, ErrInvalidCredentials):
		h.writeMessage(w, http.StatusUnauthorized, MessageInvalidLogin)
	case errors.Is(err, ErrMissingFields):
		h.writeMessage(w, http.StatusBadRequest, MessageMissingFields)
	default:
		h.logger.Printf("Login failed for %q: %v", creds.Username, err)
		h.writeMessage(w, http.StatusInternalServerError, MessageInternal)
	}
}

// Register answers 201, 409 (taken) or 400 (missing fields, password over 72 bytes)
func (h *Handlers) Register(w http.ResponseWriter, r *http.Request) {
	creds, ok := h.decode(w, r)
	if !ok {
		return
	}

	err := h.service.Register(creds.Username, creds.Password)
	switch {
	case err == nil:
		h.logger.Printf("Registered user %q", creds.Username)
		h.writeMessage(w, http.StatusCreated, MessageRegistered)
	case errors.Is(err, storage.ErrUserExists):
		h.writeMessage(w, http.StatusConflict, MessageUserExists)
	case errors.Is(err, ErrMissingFields):
		h.writeMessage(w, http.StatusBadRequest, MessageMissingFields)
	case errors.Is(err, ErrPasswordTooLong):
		h.writeMessage(w, http.StatusBadRequest, MessagePasswordLong)
	default:
		h.logger.Printf("Registration failed for %q: %v", creds.Username, err)
		h.writeMessage(w, http.StatusInternalServerError, MessageInternal)
	}
}

func (h *Handlers) decode(w http.ResponseWriter, r *http.Request) (apiclient.Credentials, bool) {
	var creds apiclient.Credentials
	if err := json.NewDecoder(r.Body).Decode(&creds); err != nil {
		h.logger.Printf("Failed to decode JSON: %v", err)
		h.writeMessage(w, http.StatusBadRequest, MessageBadRequest)
		return creds, false
	}
	return creds, true
}

func (h *Handlers) writeMessage(w http.ResponseWriter, status int, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(map[string]string{"message": message}); err != nil {
		h.logger.Printf("Failed to encode JSON response: %v", err)
	}
}
