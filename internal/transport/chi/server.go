// Package chi serves the users HTTP API on a chi router.
package chi

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/kailas-cloud/flatdb/internal/domain"
	domrec "github.com/kailas-cloud/flatdb/internal/domain/record"
	"github.com/kailas-cloud/flatdb/internal/logger"
	healthuc "github.com/kailas-cloud/flatdb/internal/usecase/health"
	useruc "github.com/kailas-cloud/flatdb/internal/usecase/user"
)

// maxBodyBytes bounds request bodies for create and update.
const maxBodyBytes = 1 << 20

// errorHandler tries to handle a domain error. Returns true if handled.
type errorHandler func(w http.ResponseWriter, err error) bool

// Server implements ServerInterface.
type Server struct {
	users         *useruc.Service
	health        *healthuc.Service
	metrics       http.Handler
	logger        *zap.Logger
	errorHandlers []errorHandler
}

var _ ServerInterface = (*Server)(nil)

// ErrorResponse is the body of every non-2xx answer.
type ErrorResponse struct {
	Error string `json:"error"`
}

// UpdateResponse reports how many users a PATCH changed.
type UpdateResponse struct {
	Updated int `json:"updated"`
}

// HealthResponse is the body of GET /health.
type HealthResponse struct {
	Status string            `json:"status"`
	Checks map[string]string `json:"checks"`
}

// NewServer creates an HTTP API server.
func NewServer(users *useruc.Service, health *healthuc.Service, logger *zap.Logger) *Server {
	s := &Server{
		users:   users,
		health:  health,
		metrics: promhttp.Handler(),
		logger:  logger,
	}
	s.errorHandlers = []errorHandler{
		sentinelHandler(domain.ErrNotFound, http.StatusNotFound, "not found"),
		sentinelHandler(domain.ErrAlreadyExists, http.StatusConflict, ""),
		sentinelHandler(domain.ErrInvalidInput, http.StatusBadRequest, ""),
		sentinelHandler(domain.ErrRateLimited, http.StatusTooManyRequests, ""),
	}
	return s
}

// ListUsers handles GET /users. Without page and limit it returns the whole
// collection as an array; with either one it returns a page.
func (s *Server) ListUsers(w http.ResponseWriter, r *http.Request, params ListUsersParams) {
	page, limit := derefInt(params.Page), derefInt(params.Limit)

	if page == 0 && limit == 0 {
		users, err := s.users.List(r.Context())
		if err != nil {
			s.handleDomainError(w, r, err)
			return
		}
		writeJSON(w, http.StatusOK, users)
		return
	}

	p, err := s.users.Paginate(r.Context(), page, limit)
	if err != nil {
		s.handleDomainError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, p)
}

// GetUser handles GET /users/{id}.
func (s *Server) GetUser(w http.ResponseWriter, r *http.Request, id int64) {
	r = withUserID(r, id)
	u, err := s.users.Get(r.Context(), id)
	if err != nil {
		s.handleDomainError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, u)
}

// CreateUser handles POST /users.
func (s *Server) CreateUser(w http.ResponseWriter, r *http.Request) {
	body, ok := decodeRecord(w, r)
	if !ok {
		return
	}

	u, err := s.users.Create(r.Context(), body)
	if err != nil {
		s.handleDomainError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, u)
}

// UpdateUser handles PATCH /users/{id}.
func (s *Server) UpdateUser(w http.ResponseWriter, r *http.Request, id int64) {
	r = withUserID(r, id)
	patch, ok := decodeRecord(w, r)
	if !ok {
		return
	}

	n, err := s.users.Update(r.Context(), id, patch)
	if err != nil {
		s.handleDomainError(w, r, err)
		return
	}
	if n == 0 {
		writeError(w, http.StatusNotFound, "not found")
		return
	}
	writeJSON(w, http.StatusOK, UpdateResponse{Updated: n})
}

// DeleteUser handles DELETE /users/{id}.
func (s *Server) DeleteUser(w http.ResponseWriter, r *http.Request, id int64) {
	r = withUserID(r, id)
	n, err := s.users.Delete(r.Context(), id)
	if err != nil {
		s.handleDomainError(w, r, err)
		return
	}
	if n == 0 {
		writeError(w, http.StatusNotFound, "not found")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// HealthCheck handles GET /health.
func (s *Server) HealthCheck(w http.ResponseWriter, r *http.Request) {
	report := s.health.Check(r.Context())

	checks := make(map[string]string, len(report.Checks))
	for k, v := range report.Checks {
		checks[k] = string(v)
	}

	httpStatus := http.StatusOK
	if report.Status != healthuc.Healthy {
		httpStatus = http.StatusServiceUnavailable
	}

	writeJSON(w, httpStatus, HealthResponse{
		Status: string(report.Status),
		Checks: checks,
	})
}

// Metrics handles GET /metrics.
func (s *Server) Metrics(w http.ResponseWriter, r *http.Request) {
	s.metrics.ServeHTTP(w, r)
}

// BadParamHandler answers parameter binding failures with 400.
func BadParamHandler(w http.ResponseWriter, _ *http.Request, err error) {
	msg := "invalid request"
	var pe *InvalidParamFormatError
	if errors.As(err, &pe) {
		msg = "invalid " + pe.ParamName
	}
	writeError(w, http.StatusBadRequest, msg)
}

// decodeRecord reads a JSON object body. It writes a 400 and returns false
// when the body is not an object.
func decodeRecord(w http.ResponseWriter, r *http.Request) (domrec.Record, bool) {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	dec.UseNumber()

	var rec domrec.Record
	if err := dec.Decode(&rec); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body: "+err.Error())
		return nil, false
	}
	if rec == nil {
		writeError(w, http.StatusBadRequest, "request body must be a JSON object")
		return nil, false
	}
	return rec, true
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, ErrorResponse{Error: message})
}

// sentinelHandler returns an errorHandler that matches a single sentinel error.
// An empty message sends the error text.
func sentinelHandler(sentinel error, status int, message string) errorHandler {
	return func(w http.ResponseWriter, err error) bool {
		if !errors.Is(err, sentinel) {
			return false
		}
		msg := message
		if msg == "" {
			msg = err.Error()
		}
		writeError(w, status, msg)
		return true
	}
}

// handleDomainError maps known sentinels to their status; anything else is a
// 500 carrying the service's message.
func (s *Server) handleDomainError(w http.ResponseWriter, r *http.Request, err error) {
	for _, h := range s.errorHandlers {
		if h(w, err) {
			logger.FromContext(r.Context()).Debug("request rejected", zap.Error(err))
			return
		}
	}
	s.logger.Error("internal error", zap.Error(err))
	writeError(w, http.StatusInternalServerError, err.Error())
}

// withUserID tags the request logger with the user id so store logs carry it.
func withUserID(r *http.Request, id int64) *http.Request {
	return r.WithContext(logger.With(r.Context(), zap.Int64("user_id", id)))
}

func derefInt(p *int) int {
	if p == nil {
		return 0
	}
	return *p
}
