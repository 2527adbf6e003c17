package handler

import (
	"net/http"

	"github.com/gorilla/mux"

	"github.com/msshahs/prepseed-backend-sub003/internal/cache"
	"github.com/msshahs/prepseed-backend-sub003/internal/logger"
	"github.com/msshahs/prepseed-backend-sub003/internal/model"
	"github.com/msshahs/prepseed-backend-sub003/internal/service"
)

// CategoryHandler serves the latest per-user category, cache-first with a
// fallback to the stored aggregate.
type CategoryHandler struct {
	categories cache.CategoryCache
	grading    *service.GradingService
	log        *logger.Logger
}

// NewCategoryHandler creates a category handler.
func NewCategoryHandler(categories cache.CategoryCache, grading *service.GradingService, log *logger.Logger) *CategoryHandler {
	return &CategoryHandler{categories: categories, grading: grading, log: log}
}

// Get handles GET /v1/users/{userID}/category
func (h *CategoryHandler) Get(w http.ResponseWriter, r *http.Request) {
	userID := mux.Vars(r)["userID"]

	summary, err := h.categories.Get(r.Context(), userID)
	if err != nil {
		h.log.Debug("category cache read failed", "userId", userID, "error", err)
	}
	if summary != nil {
		writeJSON(w, http.StatusOK, summary)
		return
	}

	agg, err := h.grading.Aggregate(r.Context(), userID)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	if len(agg.Snapshots) == 0 {
		writeError(w, http.StatusNotFound, "no category yet")
		return
	}

	latest := agg.Snapshots[0]
	for _, s := range agg.Snapshots[1:] {
		if s.ComputedAt.After(latest.ComputedAt) {
			latest = s
		}
	}
	writeJSON(w, http.StatusOK, model.UserCategorySummary{
		UserID:    userID,
		Intent:    latest.Intent,
		Category:  latest.Category,
		UpdatedAt: latest.ComputedAt,
	})
}
