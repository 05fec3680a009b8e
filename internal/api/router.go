package api

import (
	httpSwagger "github.com/swaggo/http-swagger"

	"sales-data-pipeline/internal/api/handler"
	"sales-data-pipeline/pkg/router"
)

// RegisterRoutes wires the run API onto the router. Specific sub-resource
// routes are registered before the catch-all run lookup so they win the
// wildcard match.
func RegisterRoutes(r *router.Router, h *handler.Handler) {
	r.POST("/api/v1/runs", h.CreateRun)
	r.GET("/api/v1/runs", h.ListRuns)

	r.GET("/api/v1/runs/*/errors", h.GetRunErrors)
	r.GET("/api/v1/runs/*/progress", h.GetRunProgress)
	r.GET("/api/v1/runs/*/logs", h.GetRunLogs)
	r.GET("/api/v1/runs/*", h.GetRun)

	r.GET("/api/v1/summary", h.GetSummary)

	r.GET("/swagger/*", router.HandlerFunc(httpSwagger.WrapHandler))
}
