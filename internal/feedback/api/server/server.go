package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/Leopold1975/feedback_control/internal/feedback/domain/models"
	"github.com/Leopold1975/feedback_control/internal/feedback/services/feedbackservice"
	"github.com/Leopold1975/feedback_control/internal/pkg/config"
	"github.com/Leopold1975/feedback_control/pkg/logger"
	"github.com/go-chi/chi/v5"
)

const rootMessage = "Lightweight Feedback System API"

type Server struct {
	serv            *http.Server
	feedbackService FeedbackService
	authService     AuthService
}

type FeedbackService interface {
	Team(context.Context, models.User) ([]models.User, error)
	CreateFeedback(context.Context, models.User, feedbackservice.CreateFeedbackRequest) (int, error)
	ListFeedback(context.Context, models.User) ([]models.Feedback, error)
	UpdateFeedback(context.Context, models.User, int, feedbackservice.UpdateFeedbackRequest) error
	AcknowledgeFeedback(context.Context, models.User, int) error
	Analytics(context.Context, models.User) (models.Analytics, error)
}

type AuthService interface {
	Authenticate(ctx context.Context, username, password string) (models.User, error)
}

func New(cfg config.Server, cors config.CORS, fs FeedbackService, as AuthService, lg logger.Logger) *Server {
	var s Server

	r := chi.NewRouter()
	r.Use(loggingMiddleware(lg), corsMiddleware(cors.AllowedOrigins))

	r.Get("/", s.root)
	r.Post("/login", s.login)
	r.Get("/team", s.team)
	r.Post("/feedback", s.createFeedback)
	r.Get("/feedback", s.listFeedback)
	r.Put("/feedback/{id}", s.updateFeedback)
	r.Post("/feedback/{id}/acknowledge", s.acknowledgeFeedback)
	r.Get("/analytics", s.analytics)

	serv := &http.Server{ //nolint:exhaustruct
		Addr:         cfg.Addr,
		Handler:      r,
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
		IdleTimeout:  cfg.IdleTimeout,
	}
	s.serv = serv
	s.feedbackService = fs
	s.authService = as

	return &s
}

func (s *Server) Start(ctx context.Context) error {
	errCh := make(chan error)

	go func() {
		if err := s.serv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
			close(errCh)
		}
	}()

	select {
	case <-ctx.Done():
		ctxS, cancel := context.WithTimeout(context.Background(), time.Second*5) //nolint:gomnd
		defer cancel()

		if err := s.Shutdown(ctxS); err != nil { //nolint:contextcheck
			return fmt.Errorf("context error: %w server error %w", ctxS.Err(), err)
		}

		if !errors.Is(ctx.Err(), context.Canceled) {
			return fmt.Errorf("context cancelled error: %w", ctx.Err())
		}

		return nil
	case err := <-errCh:
		return fmt.Errorf("listen and serve error: %w", err)
	}
}

func (s *Server) Shutdown(ctx context.Context) error {
	if err := s.serv.Shutdown(ctx); err != nil {
		return fmt.Errorf("shutdown server error: %w", err)
	}

	return nil
}

// Handler exposes the routed handler for in-process tests.
func (s *Server) Handler() http.Handler {
	return s.serv.Handler
}

// authenticate resolves the request's basic credentials. On failure it
// writes the 401 itself, including the basic challenge so clients know to
// re-prompt, and reports false.
func (s *Server) authenticate(w http.ResponseWriter, r *http.Request) (models.User, bool) {
	username, password, ok := r.BasicAuth()
	if !ok {
		w.Header().Set("WWW-Authenticate", `Basic realm="feedback"`)
		handleError(w, errors.New("Invalid credentials"), http.StatusUnauthorized) //nolint:stylecheck

		return models.User{}, false
	}

	u, err := s.authService.Authenticate(r.Context(), username, password)
	if err != nil {
		w.Header().Set("WWW-Authenticate", `Basic realm="feedback"`)
		handleError(w, errors.New("Invalid credentials"), http.StatusUnauthorized) //nolint:stylecheck

		return models.User{}, false
	}

	return u, true
}

// Root health message
// (GET /).
func (s *Server) root(w http.ResponseWriter, _ *http.Request) {
	w.Header().Add("Content-Type", "application/json")

	enc := json.NewEncoder(w)

	if err := enc.Encode(RootResponse{Message: rootMessage}); err != nil {
		handleError(w, fmt.Errorf("encode error: %w", err), http.StatusInternalServerError)
	}
}

// Credential check returning the caller's own profile
// (POST /login).
func (s *Server) login(w http.ResponseWriter, r *http.Request) {
	w.Header().Add("Content-Type", "application/json")

	u, ok := s.authenticate(w, r)
	if !ok {
		return
	}

	enc := json.NewEncoder(w)

	if err := enc.Encode(LoginResponse{User: u, Message: "Login successful"}); err != nil {
		handleError(w, fmt.Errorf("encode error: %w", err), http.StatusInternalServerError)
	}
}

// Direct reports of the calling manager
// (GET /team).
func (s *Server) team(w http.ResponseWriter, r *http.Request) {
	w.Header().Add("Content-Type", "application/json")

	u, ok := s.authenticate(w, r)
	if !ok {
		return
	}

	team, err := s.feedbackService.Team(r.Context(), u)
	if err != nil {
		if errors.Is(err, feedbackservice.ErrForbidden) {
			handleError(w, errors.New("Only managers can view team members"), http.StatusForbidden) //nolint:stylecheck

			return
		}

		handleError(w, fmt.Errorf("get team error: %w", err), http.StatusInternalServerError)

		return
	}

	enc := json.NewEncoder(w)

	if err := enc.Encode(team); err != nil {
		handleError(w, fmt.Errorf("encode error: %w", err), http.StatusInternalServerError)
	}
}

// New feedback for one of the caller's reports
// (POST /feedback).
func (s *Server) createFeedback(w http.ResponseWriter, r *http.Request) {
	w.Header().Add("Content-Type", "application/json")

	u, ok := s.authenticate(w, r)
	if !ok {
		return
	}

	var req feedbackservice.CreateFeedbackRequest

	dec := json.NewDecoder(r.Body)

	if err := dec.Decode(&req); err != nil {
		handleError(w, fmt.Errorf("decode error: %w", err), http.StatusBadRequest)

		return
	}

	id, err := s.feedbackService.CreateFeedback(r.Context(), u, req)
	if err != nil {
		switch {
		case errors.Is(err, feedbackservice.ErrForbidden):
			handleError(w, errors.New("Only managers can submit feedback"), http.StatusForbidden) //nolint:stylecheck
		case errors.Is(err, feedbackservice.ErrNotFound):
			handleError(w, errors.New("Employee not found or not in your team"), http.StatusNotFound) //nolint:stylecheck
		default:
			handleError(w, fmt.Errorf("create feedback error: %w", err), http.StatusInternalServerError)
		}

		return
	}

	resp := CreateFeedbackResponse{ID: id, Message: "Feedback created successfully"}

	bts, err := json.Marshal(resp)
	if err != nil {
		handleError(w, fmt.Errorf("encode error: %w", err), http.StatusInternalServerError)

		return
	}

	w.WriteHeader(http.StatusCreated)
	w.Write(bts) //nolint:errcheck
}

// Role-scoped feedback listing, newest first
// (GET /feedback).
func (s *Server) listFeedback(w http.ResponseWriter, r *http.Request) {
	w.Header().Add("Content-Type", "application/json")

	u, ok := s.authenticate(w, r)
	if !ok {
		return
	}

	feedback, err := s.feedbackService.ListFeedback(r.Context(), u)
	if err != nil {
		handleError(w, fmt.Errorf("list feedback error: %w", err), http.StatusInternalServerError)

		return
	}

	enc := json.NewEncoder(w)

	if err := enc.Encode(feedback); err != nil {
		handleError(w, fmt.Errorf("encode error: %w", err), http.StatusInternalServerError)
	}
}

// Content overwrite by the authoring manager
// (PUT /feedback/{id}).
func (s *Server) updateFeedback(w http.ResponseWriter, r *http.Request) {
	w.Header().Add("Content-Type", "application/json")

	u, ok := s.authenticate(w, r)
	if !ok {
		return
	}

	id, err := strconv.Atoi(chi.URLParam(r, "id"))
	if err != nil {
		handleError(w, fmt.Errorf("invalid feedback id: %w", err), http.StatusBadRequest)

		return
	}

	var req feedbackservice.UpdateFeedbackRequest

	dec := json.NewDecoder(r.Body)

	if err := dec.Decode(&req); err != nil {
		handleError(w, fmt.Errorf("decode error: %w", err), http.StatusBadRequest)

		return
	}

	if err := s.feedbackService.UpdateFeedback(r.Context(), u, id, req); err != nil {
		switch {
		case errors.Is(err, feedbackservice.ErrForbidden):
			handleError(w, errors.New("Only managers can update feedback"), http.StatusForbidden) //nolint:stylecheck
		case errors.Is(err, feedbackservice.ErrNotFound):
			handleError(w, errors.New("Feedback not found or not authorized"), http.StatusNotFound) //nolint:stylecheck
		default:
			handleError(w, fmt.Errorf("update feedback error: %w", err), http.StatusInternalServerError)
		}

		return
	}

	enc := json.NewEncoder(w)

	if err := enc.Encode(MessageResponse{Message: "Feedback updated successfully"}); err != nil {
		handleError(w, fmt.Errorf("encode error: %w", err), http.StatusInternalServerError)
	}
}

// One-way acknowledgment by the addressed employee
// (POST /feedback/{id}/acknowledge).
func (s *Server) acknowledgeFeedback(w http.ResponseWriter, r *http.Request) {
	w.Header().Add("Content-Type", "application/json")

	u, ok := s.authenticate(w, r)
	if !ok {
		return
	}

	id, err := strconv.Atoi(chi.URLParam(r, "id"))
	if err != nil {
		handleError(w, fmt.Errorf("invalid feedback id: %w", err), http.StatusBadRequest)

		return
	}

	if err := s.feedbackService.AcknowledgeFeedback(r.Context(), u, id); err != nil {
		switch {
		case errors.Is(err, feedbackservice.ErrForbidden):
			handleError(w, errors.New("Only employees can acknowledge feedback"), http.StatusForbidden) //nolint:stylecheck
		case errors.Is(err, feedbackservice.ErrNotFound):
			handleError(w, errors.New("Feedback not found or not authorized"), http.StatusNotFound) //nolint:stylecheck
		default:
			handleError(w, fmt.Errorf("acknowledge feedback error: %w", err), http.StatusInternalServerError)
		}

		return
	}

	enc := json.NewEncoder(w)

	if err := enc.Encode(MessageResponse{Message: "Feedback acknowledged successfully"}); err != nil {
		handleError(w, fmt.Errorf("encode error: %w", err), http.StatusInternalServerError)
	}
}

// Team-scoped aggregate counts for the calling manager
// (GET /analytics).
func (s *Server) analytics(w http.ResponseWriter, r *http.Request) {
	w.Header().Add("Content-Type", "application/json")

	u, ok := s.authenticate(w, r)
	if !ok {
		return
	}

	a, err := s.feedbackService.Analytics(r.Context(), u)
	if err != nil {
		if errors.Is(err, feedbackservice.ErrForbidden) {
			handleError(w, errors.New("Only managers can view analytics"), http.StatusForbidden) //nolint:stylecheck

			return
		}

		handleError(w, fmt.Errorf("analytics error: %w", err), http.StatusInternalServerError)

		return
	}

	enc := json.NewEncoder(w)

	if err := enc.Encode(a); err != nil {
		handleError(w, fmt.Errorf("encode error: %w", err), http.StatusInternalServerError)
	}
}

func handleError(w http.ResponseWriter, err error, code int) {
	w.WriteHeader(code)

	e := Error{Code: code, Err: err.Error()}

	w.Write(e.ToJSON()) //nolint:errcheck
}
