package rest

import (
	"net/http"

	"github.com/gorilla/mux"

	"github.com/msshahs/prepseed-backend-sub003/internal/cache"
	"github.com/msshahs/prepseed-backend-sub003/internal/logger"
	"github.com/msshahs/prepseed-backend-sub003/internal/service"
	"github.com/msshahs/prepseed-backend-sub003/internal/transport/rest/handler"
)

// Container holds the dependencies for the router.
type Container struct {
	GradingService *service.GradingService
	CategoryCache  cache.CategoryCache
	Log            *logger.Logger
}

// NewRouter creates the internal API router. The surface is deliberately
// small: the scheduler owns all writes, these endpoints only read.
func NewRouter(c *Container) http.Handler {
	r := mux.NewRouter()

	analysisHandler := handler.NewAnalysisHandler(c.GradingService)
	categoryHandler := handler.NewCategoryHandler(c.CategoryCache, c.GradingService, c.Log)

	r.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`{"status":"ok"}`))
	}).Methods("GET")

	v1 := r.PathPrefix("/v1").Subrouter()
	v1.HandleFunc("/analysis/{submissionID}", analysisHandler.Recompute).Methods("GET")
	v1.HandleFunc("/users/{userID}/category", categoryHandler.Get).Methods("GET")

	return r
}
