package http

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"go.uber.org/zap"

	"github.com/quizbooth/backend/internal/classify"
	"github.com/quizbooth/backend/internal/domain"
	"github.com/quizbooth/backend/internal/generation"
	"github.com/quizbooth/backend/internal/observability"
	"github.com/quizbooth/backend/internal/progress"
)

const maxQuestionCount = 50

// Handler handles HTTP requests.
type Handler struct {
	orchestrator  *generation.Orchestrator
	service       *generation.Service
	tracker       *progress.Tracker
	progressStore domain.ProgressStore
	overrides     domain.OverrideStore
	registry      domain.ProviderRegistry
}

// NewHandler creates a new HTTP handler (DI constructor).
func NewHandler(
	orchestrator *generation.Orchestrator,
	service *generation.Service,
	tracker *progress.Tracker,
	progressStore domain.ProgressStore,
	overrides domain.OverrideStore,
	registry domain.ProviderRegistry,
) *Handler {
	return &Handler{
		orchestrator:  orchestrator,
		service:       service,
		tracker:       tracker,
		progressStore: progressStore,
		overrides:     overrides,
		registry:      registry,
	}
}

type generateQuestionsRequest struct {
	Count     int                      `json:"count"`
	BatchSize int                      `json:"batchSize,omitempty"`
	Context   domain.GenerationContext `json:"context"`
}

type generateQuestionsResponse struct {
	GameID    string            `json:"gameId"`
	Title     string            `json:"title"`
	Questions []domain.Question `json:"questions"`
	Requested int               `json:"requested"`
	Generated int               `json:"generated"`
	Provider  string            `json:"provider,omitempty"`
}

// HandleGenerateQuestions runs a full generation job for one game:
// title, batched questions, progress phases. The job runs synchronously
// within the request, mirroring a single serverless invocation; the polling
// client reads progress through HandleProgress.
func (h *Handler) HandleGenerateQuestions(w http.ResponseWriter, r *http.Request) {
	gameID := r.PathValue("id")
	if gameID == "" {
		writeError(w, http.StatusBadRequest, "game id is required")
		return
	}

	ctx := observability.WithJobID(r.Context(), gameID)
	logger := observability.FromContext(ctx)

	var req generateQuestionsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, fmt.Sprintf("invalid request body: %v", err))
		return
	}

	if req.Count <= 0 || req.Count > maxQuestionCount {
		writeError(w, http.StatusBadRequest,
			fmt.Sprintf("count must be between 1 and %d", maxQuestionCount))
		return
	}

	logger.Info("generation request received",
		zap.Int("count", req.Count),
		zap.Int("batch_size", req.BatchSize),
		zap.String("company", req.Context.CompanyName),
	)

	// Progress writes are advisory; a failing progress store must not take
	// generation down.
	if err := h.tracker.Starting(ctx, gameID); err != nil {
		logger.Warn("failed to write starting progress", zap.Error(err))
	}

	if err := h.tracker.GeneratingTitle(ctx, gameID); err != nil {
		logger.Warn("failed to write title progress", zap.Error(err))
	}

	title, err := h.service.GeneratePlainTextWithFallback(ctx, generation.BuildTitlePrompt(req.Context))
	if err != nil {
		// Title failure never fails the job.
		logger.Warn("title generation failed, using fallback title", zap.Error(err))
		title = generation.FallbackTitle(req.Context)
	}

	questions, err := h.orchestrator.GenerateInBatches(ctx, gameID, req.Context, req.Count, req.BatchSize)
	if err != nil {
		verdict := classify.FromError(err)

		// Raw vendor error bodies never reach end users.
		logger.Error("question generation failed",
			zap.String("error_type", string(verdict.ErrorType)),
			zap.Error(err),
		)

		if failErr := h.tracker.Failed(ctx, gameID, verdict.UserMessage); failErr != nil {
			logger.Warn("failed to write error progress", zap.Error(failErr))
		}

		writeError(w, http.StatusBadGateway, verdict.UserMessage)
		return
	}

	if err := h.tracker.SavingQuestions(ctx, gameID); err != nil {
		logger.Warn("failed to write saving progress", zap.Error(err))
	}

	resp := generateQuestionsResponse{
		GameID:    gameID,
		Title:     title,
		Questions: questions,
		Requested: req.Count,
		Generated: len(questions),
		Provider:  h.service.LastUsedProvider(),
	}

	writeJSON(w, http.StatusOK, resp)

	message := fmt.Sprintf("Generated %d of %d questions", len(questions), req.Count)
	if err := h.tracker.Completed(ctx, gameID, message); err != nil {
		logger.Warn("failed to write completed progress", zap.Error(err))
	}

	logger.Info("generation request finished",
		zap.Int("requested", req.Count),
		zap.Int("generated", len(questions)),
		zap.String("provider", resp.Provider),
	)
}

// HandleProgress serves the polled progress record for a job.
func (h *Handler) HandleProgress(w http.ResponseWriter, r *http.Request) {
	gameID := r.PathValue("id")
	if gameID == "" {
		writeError(w, http.StatusBadRequest, "game id is required")
		return
	}

	record, err := h.progressStore.Get(r.Context(), gameID)
	if err != nil {
		if errors.Is(err, domain.ErrProgressNotFound) {
			writeError(w, http.StatusNotFound, "no generation in progress for this game")
			return
		}

		observability.FromContext(r.Context()).Error("failed to read progress", zap.Error(err))
		writeError(w, http.StatusInternalServerError, "failed to read generation progress")
		return
	}

	writeJSON(w, http.StatusOK, record)
}

type forcedProviderRequest struct {
	ProviderName string `json:"providerName"`
}

// HandleForcedProvider manages the diagnostic forced-provider override:
// GET reads it, PUT sets it, DELETE clears it.
func (h *Handler) HandleForcedProvider(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	logger := observability.FromContext(ctx)

	switch r.Method {
	case http.MethodGet:
		override, err := h.overrides.Get(ctx)
		if err != nil {
			if errors.Is(err, domain.ErrNoOverride) {
				writeError(w, http.StatusNotFound, "no forced provider set")
				return
			}
			logger.Error("failed to read forced provider", zap.Error(err))
			writeError(w, http.StatusInternalServerError, "failed to read forced provider")
			return
		}
		writeJSON(w, http.StatusOK, override)

	case http.MethodPut:
		var req forcedProviderRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, fmt.Sprintf("invalid request body: %v", err))
			return
		}

		provider, err := h.registry.Get(req.ProviderName)
		if err != nil {
			writeError(w, http.StatusBadRequest, fmt.Sprintf("unknown provider %q", req.ProviderName))
			return
		}

		if err := h.overrides.Set(ctx, provider.Name()); err != nil {
			logger.Error("failed to set forced provider", zap.Error(err))
			writeError(w, http.StatusInternalServerError, "failed to set forced provider")
			return
		}

		logger.Info("forced provider set", zap.String("provider", provider.Name()))
		writeJSON(w, http.StatusOK, map[string]string{"providerName": provider.Name()})

	case http.MethodDelete:
		if err := h.overrides.Clear(ctx); err != nil {
			logger.Error("failed to clear forced provider", zap.Error(err))
			writeError(w, http.StatusInternalServerError, "failed to clear forced provider")
			return
		}

		logger.Info("forced provider cleared")
		w.WriteHeader(http.StatusNoContent)

	default:
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
	}
}

type providerStatus struct {
	Name      string `json:"name"`
	Priority  int    `json:"priority"`
	Available bool   `json:"available"`
}

// HandleHealth handles health check requests, reporting provider availability.
func (h *Handler) HandleHealth(w http.ResponseWriter, _ *http.Request) {
	providers := h.registry.Ordered()

	statuses := make([]providerStatus, 0, len(providers))
	for _, p := range providers {
		statuses = append(statuses, providerStatus{
			Name:      p.Name(),
			Priority:  p.Priority(),
			Available: p.IsAvailable(),
		})
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"status":    "healthy",
		"time":      time.Now().UTC().Format(time.RFC3339),
		"providers": statuses,
	})
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]string{"error": message})
}
