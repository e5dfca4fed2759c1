// Package server exposes the analytics service over HTTP.
package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/viant/wordvec/analytics"
	"github.com/viant/wordvec/logging"
	"golang.org/x/sync/errgroup"
)

// Stats reports the loaded vocabulary for /status.
type Stats interface {
	Len(ctx context.Context) int
	Dimension(ctx context.Context) int
}

// Option configures a Server.
type Option func(*Server)

// WithLogger sets the request logger.
func WithLogger(logger *logging.Logger) Option {
	return func(s *Server) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// WithDebug enables debug-only endpoints such as /api/game/word.
func WithDebug(debug bool) Option {
	return func(s *Server) { s.debug = debug }
}

// WithStats reports vocabulary size and dimension on /status.
func WithStats(stats Stats) Option {
	return func(s *Server) { s.stats = stats }
}

// WithTimeouts sets the read, write and shutdown timeouts.
func WithTimeouts(read, write, shutdown time.Duration) Option {
	return func(s *Server) {
		s.readTimeout, s.writeTimeout, s.shutdownTimeout = read, write, shutdown
	}
}

// Server routes HTTP requests to an analytics.Service.
type Server struct {
	service *analytics.Service
	stats   Stats
	logger  *logging.Logger
	debug   bool

	readTimeout     time.Duration
	writeTimeout    time.Duration
	shutdownTimeout time.Duration
}

// New creates a Server.
func New(service *analytics.Service, opts ...Option) *Server {
	s := &Server{
		service:         service,
		logger:          logging.Noop(),
		readTimeout:     10 * time.Second,
		writeTimeout:    30 * time.Second,
		shutdownTimeout: 10 * time.Second,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Handler returns the route table.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("POST /api/analogy", s.handleAnalogy)
	mux.HandleFunc("POST /api/similarity", s.handleSimilarity)
	mux.HandleFunc("POST /api/visualize", s.handleVisualize)
	mux.HandleFunc("POST /api/game/guess", s.handleGuess)
	mux.HandleFunc("GET /api/game/word", s.handleDailyWord)
	mux.HandleFunc("GET /api/game/hint", s.handleHint)
	mux.HandleFunc("GET /status", s.handleStatus)
	return mux
}

// ListenAndServe serves on addr until ctx is cancelled, then shuts down
// gracefully.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	listener, err := net.Listen("tcp", addr)
	if err != nil {
		return fmt.Errorf("server: listen %s: %w", addr, err)
	}
	return s.Serve(ctx, listener)
}

// Serve is ListenAndServe on an existing listener.
func (s *Server) Serve(ctx context.Context, listener net.Listener) error {
	srv := &http.Server{
		Handler:      s.Handler(),
		ReadTimeout:  s.readTimeout,
		WriteTimeout: s.writeTimeout,
	}
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		s.logger.Info("server listening", "addr", listener.Addr().String(), "debug", s.debug)
		if err := srv.Serve(listener); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("server: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), s.shutdownTimeout)
		defer cancel()
		s.logger.Info("server shutting down")
		return srv.Shutdown(shutdownCtx)
	})
	return g.Wait()
}

type analogyResponse struct {
	Equation string            `json:"equation"`
	Results  []analytics.Match `json:"results"`
	Error    *string           `json:"error"`
}

type similarityResponse struct {
	Similarity    *float64 `json:"similarity"`
	RawSimilarity *float64 `json:"raw_similarity"`
	Error         *string  `json:"error"`
}

type visualizeResponse struct {
	Coordinates map[string]analytics.Coordinate `json:"coordinates"`
	Missing     []string                        `json:"missing"`
	Error       *string                         `json:"error"`
}

type guessResponse struct {
	Guess      string   `json:"guess"`
	Similarity *float64 `json:"similarity"`
	Correct    bool     `json:"correct"`
	Error      *string  `json:"error"`
}

func (s *Server) handleAnalogy(w http.ResponseWriter, r *http.Request) {
	form, err := readForm(r)
	if err != nil {
		s.writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	a, b, c := form.get("word_a"), form.get("word_b"), form.get("word_c")
	resp := analogyResponse{Results: []analytics.Match{}}
	if a == "" || b == "" || c == "" {
		resp.Error = ptr("Please fill in all three words")
		s.writeJSON(w, http.StatusOK, resp)
		return
	}
	n, _ := strconv.Atoi(form.get("n"))
	result, err := s.service.SolveAnalogy(r.Context(), a, b, c, n)
	if s.unexpected(w, err) {
		return
	}
	if err != nil {
		resp.Error = ptr(userMessage(err))
	} else {
		resp.Equation, resp.Results = result.Equation, result.Results
	}
	s.writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleSimilarity(w http.ResponseWriter, r *http.Request) {
	form, err := readForm(r)
	if err != nil {
		s.writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	word1, word2 := form.get("word1"), form.get("word2")
	var resp similarityResponse
	if word1 == "" || word2 == "" {
		resp.Error = ptr("Please enter two words")
		s.writeJSON(w, http.StatusOK, resp)
		return
	}
	score, err := s.service.Similarity(r.Context(), word1, word2)
	if s.unexpected(w, err) {
		return
	}
	if err != nil {
		resp.Error = ptr(userMessage(err))
	} else {
		resp.Similarity, resp.RawSimilarity = &score.Percentage, &score.Cosine
	}
	s.writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleVisualize(w http.ResponseWriter, r *http.Request) {
	form, err := readForm(r)
	if err != nil {
		s.writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	words := splitWords(form.get("words"))
	resp := visualizeResponse{Coordinates: map[string]analytics.Coordinate{}, Missing: []string{}}
	if len(words) < 2 {
		resp.Error = ptr("Please enter at least 2 words")
		s.writeJSON(w, http.StatusOK, resp)
		return
	}
	projection, err := s.service.Project(r.Context(), words)
	if s.unexpected(w, err) {
		return
	}
	if projection.Missing != nil {
		resp.Missing = projection.Missing
	}
	if err != nil {
		resp.Error = ptr(userMessage(err))
	} else {
		resp.Coordinates = projection.Coordinates
	}
	s.writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleGuess(w http.ResponseWriter, r *http.Request) {
	form, err := readForm(r)
	if err != nil {
		s.writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	guess := form.get("guess")
	resp := guessResponse{Guess: guess}
	if guess == "" {
		resp.Error = ptr("Please enter a word")
		s.writeJSON(w, http.StatusOK, resp)
		return
	}
	outcome, err := s.service.EvaluateGuess(r.Context(), guess, time.Time{})
	if s.unexpected(w, err) {
		return
	}
	if err != nil {
		resp.Error = ptr(userMessage(err))
	} else {
		resp.Similarity, resp.Correct = &outcome.Similarity, outcome.Correct
	}
	s.writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleDailyWord(w http.ResponseWriter, r *http.Request) {
	if !s.debug {
		s.writeError(w, http.StatusForbidden, "Not available")
		return
	}
	s.writeJSON(w, http.StatusOK, map[string]string{"word": s.service.DailyWord(time.Time{})})
}

func (s *Server) handleHint(w http.ResponseWriter, r *http.Request) {
	hint, err := s.service.Hint(r.Context(), time.Time{})
	if s.unexpected(w, err) {
		return
	}
	s.writeJSON(w, http.StatusOK, hint)
}

func (s *Server) handleStatus(w http.ResponseWriter, r *http.Request) {
	status := map[string]any{"status": "ok", "date": s.service.Today().Format(analytics.DateLayout)}
	if s.stats != nil {
		status["words"] = s.stats.Len(r.Context())
		status["dimension"] = s.stats.Dimension(r.Context())
	}
	s.writeJSON(w, http.StatusOK, status)
}

// unexpected writes a 500 for infrastructure failures and reports whether it
// did so.
func (s *Server) unexpected(w http.ResponseWriter, err error) bool {
	if err == nil || analytics.IsExpected(err) {
		return false
	}
	s.logger.Error("request failed", "error", err)
	s.writeError(w, http.StatusInternalServerError, "internal error")
	return true
}

func (s *Server) writeError(w http.ResponseWriter, status int, message string) {
	s.writeJSON(w, status, map[string]string{"error": message})
}

func (s *Server) writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		s.logger.Warn("write response", "error", err)
	}
}

// userMessage renders expected errors the way the web UI shows them.
func userMessage(err error) string {
	var unknown *analytics.UnknownWordError
	var unknowns *analytics.UnknownWordsError
	var insufficient *analytics.InsufficientWordsError
	switch {
	case errors.As(err, &unknown):
		return "Unknown word: " + unknown.Word
	case errors.As(err, &unknowns):
		return "Unknown word(s): " + strings.Join(unknowns.Words, ", ")
	case errors.As(err, &insufficient):
		return "Need at least 2 valid words with vectors"
	default:
		return err.Error()
	}
}

func splitWords(raw string) []string {
	var words []string
	for _, w := range strings.Split(raw, ",") {
		if w = strings.TrimSpace(w); w != "" {
			words = append(words, w)
		}
	}
	return words
}

func ptr[T any](v T) *T { return &v }
