package handler

import (
	"encoding/json"
	"net/http"
	"sort"

	"github.com/gorilla/mux"

	"github.com/msshahs/prepseed-backend-sub003/internal/service"
)

// AnalysisHandler exposes the pure pipeline for ad-hoc recomputation. It
// reads only; the scheduler owns every write.
type AnalysisHandler struct {
	grading *service.GradingService
}

// NewAnalysisHandler creates an analysis handler.
func NewAnalysisHandler(grading *service.GradingService) *AnalysisHandler {
	return &AnalysisHandler{grading: grading}
}

type analysisResponse struct {
	SubmissionID string             `json:"submissionId"`
	TooFast      []string           `json:"tooFast"`
	TooSlow      []string           `json:"tooSlow"`
	Stuck        []string           `json:"stuck"`
	Unattempted  []string           `json:"unattempted"`
	Overshoots   map[string]float64 `json:"overshoots,omitempty"`
	Selectivity  int                `json:"selectivity"`
	Endurance    float64            `json:"endurance"`
	Stamina      float64            `json:"stamina"`
	Stubbornness float64            `json:"stubbornness"`
	Intent       float64            `json:"intent"`
	Category     int                `json:"category"`
}

// Recompute handles GET /v1/analysis/{submissionID}
func (h *AnalysisHandler) Recompute(w http.ResponseWriter, r *http.Request) {
	submissionID := mux.Vars(r)["submissionID"]

	result, err := h.grading.Recompute(r.Context(), submissionID)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	if result == nil {
		writeError(w, http.StatusNotFound, "submission not found")
		return
	}

	writeJSON(w, http.StatusOK, analysisResponse{
		SubmissionID: submissionID,
		TooFast:      sortedKeys(result.Classification.TooFast),
		TooSlow:      sortedKeys(result.Classification.TooSlow),
		Stuck:        sortedKeys(result.Classification.Stuck),
		Unattempted:  sortedKeys(result.Classification.Unattempted),
		Overshoots:   result.Metrics.Overshoots,
		Selectivity:  result.Selectivity,
		Endurance:    result.Adjusted.Endurance,
		Stamina:      result.Adjusted.Stamina,
		Stubbornness: result.Metrics.Stubbornness,
		Intent:       result.Intent,
		Category:     result.Category,
	})
}

func sortedKeys(set map[string]bool) []string {
	keys := make([]string, 0, len(set))
	for k := range set {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

func writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

func writeError(w http.ResponseWriter, status int, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(map[string]string{"error": message})
}
