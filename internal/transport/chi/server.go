package chi

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	gochi "github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/pustaka-digital/pustaka/internal/domain"
	"github.com/pustaka-digital/pustaka/internal/logger"
	descriptionuc "github.com/pustaka-digital/pustaka/internal/usecase/description"
	healthuc "github.com/pustaka-digital/pustaka/internal/usecase/health"
	playlistuc "github.com/pustaka-digital/pustaka/internal/usecase/playlist"
)

// errorHandler tries to handle a domain error. Returns true if handled.
type errorHandler func(w http.ResponseWriter, err error, msg string) bool

// Server serves the public chat/search API and the admin generation API.
type Server struct {
	chat          ChatResponder
	search        BookSearcher
	descriptions  Describer
	playlists     PlaylistGenerator
	usage         UsageReporter
	health        HealthChecker
	logger        *zap.Logger
	errorHandlers []errorHandler
}

// NewServer creates an HTTP API server.
func NewServer(
	chat ChatResponder,
	search BookSearcher,
	descriptions Describer,
	playlists PlaylistGenerator,
	usage UsageReporter,
	health HealthChecker,
	logger *zap.Logger,
) *Server {
	s := &Server{
		chat:         chat,
		search:       search,
		descriptions: descriptions,
		playlists:    playlists,
		usage:        usage,
		health:       health,
		logger:       logger,
	}
	s.errorHandlers = []errorHandler{
		sentinelHandler(domain.ErrInvalidRequest, http.StatusBadRequest, codeBadRequest),
		sentinelHandler(domain.ErrUnknownMode, http.StatusBadRequest, codeBadRequest),
		sentinelHandler(domain.ErrNotFound, http.StatusNotFound, codeNotFound),
		sentinelHandler(domain.ErrRateLimited, http.StatusTooManyRequests, codeRateLimited),
		sentinelHandler(domain.ErrQuotaExhausted, http.StatusTooManyRequests, codeRateLimited),
		sentinelHandler(domain.ErrProviderError, http.StatusBadGateway, codeProviderError),
	}
	return s
}

// Register mounts all routes on r. Generation and usage routes require a
// bearer API key when apiKeys is non-empty.
func (s *Server) Register(r gochi.Router, apiKeys []string) {
	r.NotFound(func(w http.ResponseWriter, _ *http.Request) {
		writeError(w, http.StatusNotFound, codeNotFound, "route not found")
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, _ *http.Request) {
		writeError(w, http.StatusMethodNotAllowed, codeMethodNotAllowed, "method not allowed")
	})

	r.Get("/health", s.HealthCheck)
	r.Get("/metrics", s.Metrics)
	r.Post("/api/chat", s.Chat)
	r.Get("/api/books/search", s.SearchBooks)

	r.Group(func(r gochi.Router) {
		r.Use(BearerAuthMiddleware(apiKeys))
		r.Post("/api/books/description", s.DescribeBook)
		r.Post("/api/playlists/metadata", s.GeneratePlaylistMetadata)
		r.Get("/api/usage", s.GetUsage)
	})
}

// Chat handles POST /api/chat. Pipeline failures still produce a 200 reply
// the widget can render.
func (s *Server) Chat(w http.ResponseWriter, r *http.Request) {
	var req chatRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, codeBadRequest, "Invalid request body")
		return
	}
	if req.Message == "" {
		writeError(w, http.StatusBadRequest, codeBadRequest, "message is required")
		return
	}

	ctx, usage := domain.NewContextWithCompletionUsage(r.Context())
	resp := s.chat.Respond(ctx, req.Message, turnsFromRequest(req.ChatHistory))
	setCompletionHeaders(w, usage)

	writeJSON(w, http.StatusOK, []chatReply{chatReplyFromDomain(resp)})
}

// SearchBooks handles GET /api/books/search?q=.
func (s *Server) SearchBooks(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query().Get("q")
	res := s.search.Search(r.Context(), q)

	resp := searchResponse{Query: q}
	if res.IsStats() {
		resp.Stats = statsFromDomain(res.Stats)
		writeJSON(w, http.StatusOK, resp)
		return
	}

	resp.Results = make([]bookItem, len(res.Books))
	for i, b := range res.Books {
		resp.Results[i] = bookToItem(b)
	}
	resp.Total = len(resp.Results)
	writeJSON(w, http.StatusOK, resp)
}

// DescribeBook handles POST /api/books/description.
func (s *Server) DescribeBook(w http.ResponseWriter, r *http.Request) {
	var req descriptionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, codeBadRequest, "Invalid request body")
		return
	}

	ctx, usage := domain.NewContextWithCompletionUsage(r.Context())
	rec, source, err := s.descriptions.Describe(ctx, descriptionuc.Request{
		BookID:             req.BookID,
		Title:              req.BookTitle,
		Year:               req.BookYear,
		Author:             req.BookAuthor,
		CurrentDescription: req.CurrentDescription,
	})
	setCompletionHeaders(w, usage)
	if err != nil {
		s.handleDomainError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, descriptionResponse{
		Success: true,
		Data:    descriptionFromDomain(rec),
		Source:  string(source),
	})
}

// GeneratePlaylistMetadata handles POST /api/playlists/metadata.
func (s *Server) GeneratePlaylistMetadata(w http.ResponseWriter, r *http.Request) {
	var req playlistRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, codeBadRequest, "Invalid request body")
		return
	}

	mode, ok := playlistMode(req)
	if !ok {
		writeError(w, http.StatusBadRequest, codeBadRequest,
			"one of playlistId, generateAll, fillMissing or upgradeBasic is required")
		return
	}

	ctx, usage := domain.NewContextWithCompletionUsage(r.Context())
	sum, err := s.playlists.Generate(ctx, playlistuc.Request{Mode: mode, PlaylistID: req.PlaylistID})
	setCompletionHeaders(w, usage)
	if err != nil {
		s.handleDomainError(w, r, err)
		return
	}

	data := make([]playlistOutcome, len(sum.Results))
	for i, res := range sum.Results {
		data[i] = playlistOutcomeFromResult(res)
	}
	writeJSON(w, http.StatusOK, playlistResponse{Success: true, Message: sum.Message, Data: data})
}

// GetUsage handles GET /api/usage.
func (s *Server) GetUsage(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, usageFromDomain(s.usage.GetReport(r.Context())))
}

// HealthCheck handles GET /health. A degraded provider keeps 200 since chat
// still answers from rules.
func (s *Server) HealthCheck(w http.ResponseWriter, r *http.Request) {
	report := s.health.Check(r.Context())

	checks := make(map[string]string, len(report.Checks))
	for k, v := range report.Checks {
		checks[k] = string(v)
	}

	httpStatus := http.StatusOK
	if report.Status == healthuc.Unhealthy {
		httpStatus = http.StatusServiceUnavailable
	}

	writeJSON(w, httpStatus, healthResponse{
		Status: string(report.Status),
		Checks: checks,
	})
}

// Metrics handles GET /metrics.
func (s *Server) Metrics(w http.ResponseWriter, r *http.Request) {
	promhttp.Handler().ServeHTTP(w, r)
}

func playlistMode(req playlistRequest) (playlistuc.Mode, bool) {
	switch {
	case req.PlaylistID != "":
		return playlistuc.ModeSingle, true
	case req.GenerateAll:
		return playlistuc.ModeAll, true
	case req.FillMissing:
		return playlistuc.ModeMissing, true
	case req.UpgradeBasic:
		return playlistuc.ModeUpgrade, true
	default:
		return "", false
	}
}

func setCompletionHeaders(w http.ResponseWriter, usage *domain.CompletionUsage) {
	if usage == nil || usage.Calls+usage.CacheHits == 0 {
		return
	}
	w.Header().Set("X-Completion-Calls", strconv.Itoa(usage.Calls))
	w.Header().Set("X-Completion-Cache-Hits", strconv.Itoa(usage.CacheHits))
	w.Header().Set("X-Completion-Tokens", strconv.Itoa(usage.Tokens))
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, code, message string) {
	writeJSON(w, status, errorResponse{
		Success: false,
		Code:    code,
		Message: message,
	})
}

// safeDomainMessage returns a client-facing message without exposing internals.
// Invalid-request errors carry their field detail.
func safeDomainMessage(err error) string {
	if errors.Is(err, domain.ErrInvalidRequest) {
		return err.Error()
	}
	sentinels := []error{
		domain.ErrNotFound,
		domain.ErrUnknownMode,
		domain.ErrRateLimited,
		domain.ErrQuotaExhausted,
		domain.ErrProviderError,
	}
	for _, s := range sentinels {
		if errors.Is(err, s) {
			return s.Error()
		}
	}
	return "internal error"
}

// sentinelHandler returns an errorHandler that matches a single sentinel error.
func sentinelHandler(sentinel error, status int, code string) errorHandler {
	return func(w http.ResponseWriter, err error, msg string) bool {
		if !errors.Is(err, sentinel) {
			return false
		}
		writeError(w, status, code, msg)
		return true
	}
}

func (s *Server) handleDomainError(w http.ResponseWriter, r *http.Request, err error) {
	logger.FromContext(r.Context(), s.logger).Warn("domain error", zap.Error(err))
	msg := safeDomainMessage(err)
	for _, h := range s.errorHandlers {
		if h(w, err, msg) {
			return
		}
	}
	writeError(w, http.StatusInternalServerError, codeInternalError, msg)
}
