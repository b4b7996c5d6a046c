package http

import (
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"

	apierrors "divstreak/internal/errors"
	"divstreak/internal/exporter"
	"divstreak/internal/middleware"
	"divstreak/internal/ranking"
)

// RankingQuery holds the query parameters of the ranking endpoints
type RankingQuery struct {
	MinStreak int    `json:"min_streak" validate:"gte=0"`
	Market    string `json:"market" validate:"max=128"`
	Limit     int    `json:"limit" validate:"gte=0,lte=10000"`
	Format    string `json:"format" validate:"omitempty,oneof=md markdown csv json xlsx excel"`
}

// Filter converts the query to a ranking filter
func (q RankingQuery) Filter() ranking.Filter {
	return ranking.Filter{MinStreak: q.MinStreak, Market: q.Market}
}

// RefreshResponse is returned by POST /refresh
type RefreshResponse struct {
	Entities  int       `json:"entities"`
	MaxStreak int       `json:"max_streak"`
	Dropped   int       `json:"dropped"`
	Refreshed time.Time `json:"refreshed"`
}

// DividendHandler serves the dividend ranking API
type DividendHandler struct {
	service          RankingServiceInterface
	validator        *middleware.Validator
	defaultMinStreak int
	logger           *slog.Logger
	errorHandler     *apierrors.ErrorHandler
}

// NewDividendHandler creates a new dividend handler. defaultMinStreak is
// applied when a request does not name min_streak.
func NewDividendHandler(service RankingServiceInterface, defaultMinStreak int, logger *slog.Logger, errorHandler *apierrors.ErrorHandler) *DividendHandler {
	return &DividendHandler{
		service:          service,
		validator:        middleware.NewValidator(),
		defaultMinStreak: defaultMinStreak,
		logger:           logger.With(slog.String("component", "dividend_handler")),
		errorHandler:     errorHandler,
	}
}

// Routes returns the dividend routes
func (h *DividendHandler) Routes() chi.Router {
	r := chi.NewRouter()

	r.Get("/ranking", h.GetRanking)
	r.Get("/export", h.ExportRanking)
	r.Get("/markets", h.GetMarkets)
	r.Post("/refresh", h.Refresh)
	r.Get("/entities/{code}", h.GetEntity)

	return r
}

// parseQuery binds and validates the ranking query parameters
func (h *DividendHandler) parseQuery(r *http.Request) (RankingQuery, error) {
	q := r.URL.Query()

	minStreak, err := middleware.QueryInt(q, "min_streak", h.defaultMinStreak)
	if err != nil {
		return RankingQuery{}, err
	}
	limit, err := middleware.QueryInt(q, "limit", 0)
	if err != nil {
		return RankingQuery{}, err
	}

	query := RankingQuery{
		MinStreak: minStreak,
		Market:    strings.TrimSpace(q.Get("market")),
		Limit:     limit,
		Format:    strings.ToLower(strings.TrimSpace(q.Get("format"))),
	}
	if err := h.validator.ValidateStruct(query); err != nil {
		return RankingQuery{}, err
	}
	return query, nil
}

// GetRanking handles GET /api/dividends/ranking
func (h *DividendHandler) GetRanking(w http.ResponseWriter, r *http.Request) {
	query, err := h.parseQuery(r)
	if middleware.RejectInvalid(h.errorHandler, w, r, err) {
		return
	}

	view, err := h.service.Ranking(r.Context(), query.Filter(), query.Limit)
	if err != nil {
		h.errorHandler.HandleError(w, r, err)
		return
	}

	render.JSON(w, r, view)
}

// ExportRanking handles GET /api/dividends/export and streams the filtered
// ranking as a file attachment.
func (h *DividendHandler) ExportRanking(w http.ResponseWriter, r *http.Request) {
	query, err := h.parseQuery(r)
	if middleware.RejectInvalid(h.errorHandler, w, r, err) {
		return
	}

	format := exporter.FormatCSV
	if query.Format != "" {
		if format, err = exporter.ParseFormat(query.Format); err != nil {
			h.errorHandler.HandleError(w, r, apierrors.ErrValidation("format", err.Error()))
			return
		}
	}

	view, err := h.service.Ranking(r.Context(), query.Filter(), query.Limit)
	if err != nil {
		h.errorHandler.HandleError(w, r, err)
		return
	}

	filename := fmt.Sprintf("dividend_ranking_%s.%s", view.GeneratedAt.Format("20060102"), format.Extension())
	w.Header().Set("Content-Type", format.ContentType())
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))

	if err := exporter.Write(w, format, "Dividend ranking", view.Rows); err != nil {
		// Headers are gone by now; all that is left is to log.
		h.logger.ErrorContext(r.Context(), "export failed",
			slog.String("format", string(format)),
			slog.String("error", err.Error()))
		return
	}

	h.logger.InfoContext(r.Context(), "ranking exported",
		slog.String("format", string(format)),
		slog.Int("rows", len(view.Rows)))
}

// GetMarkets handles GET /api/dividends/markets
func (h *DividendHandler) GetMarkets(w http.ResponseWriter, r *http.Request) {
	markets, err := h.service.Markets(r.Context())
	if err != nil {
		h.errorHandler.HandleError(w, r, err)
		return
	}

	render.JSON(w, r, map[string]any{
		"markets": markets,
		"all":     ranking.AllMarkets,
	})
}

// GetEntity handles GET /api/dividends/entities/{code}
func (h *DividendHandler) GetEntity(w http.ResponseWriter, r *http.Request) {
	code := strings.TrimSpace(chi.URLParam(r, "code"))
	if code == "" {
		h.errorHandler.HandleError(w, r, apierrors.ErrValidation("code", "code is required"))
		return
	}

	detail, err := h.service.Entity(r.Context(), code)
	if err != nil {
		h.errorHandler.HandleError(w, r, err)
		return
	}

	render.JSON(w, r, detail)
}

// Refresh handles POST /api/dividends/refresh
func (h *DividendHandler) Refresh(w http.ResponseWriter, r *http.Request) {
	result, err := h.service.Refresh(r.Context())
	if err != nil {
		h.errorHandler.HandleError(w, r, err)
		return
	}

	h.logger.InfoContext(r.Context(), "ranking refreshed on request",
		slog.Int("entities", result.Stats.Entities))

	render.JSON(w, r, RefreshResponse{
		Entities:  result.Stats.Entities,
		MaxStreak: result.MaxStreak,
		Dropped:   result.Stats.Dropped,
		Refreshed: time.Now().UTC(),
	})
}
