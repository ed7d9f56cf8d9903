// Package api serves the shop floor over HTTP with gin.
package api

import (
	"net/http"

	"github.com/alexanderramin/shopfloor/internal/metrics"
	"github.com/alexanderramin/shopfloor/internal/service"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// Deps are the services the router dispatches to.
type Deps struct {
	Shifts    service.ShiftService
	Machines  service.MachineService
	Requests  service.RequestService
	Schedules service.ScheduleService
	Metrics   *metrics.Metrics
	Logger    *zap.Logger
}

// NewRouter wires every route. A nil Metrics disables /metrics.
func NewRouter(d Deps) *gin.Engine {
	logger := d.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	r := gin.New()
	r.Use(RequestID(), Recovery(logger), Logger(logger), Metrics(d.Metrics))

	r.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	if d.Metrics != nil {
		r.GET("/metrics", gin.WrapH(d.Metrics.Handler()))
	}

	routes := r.Group("/api")

	shifts := NewShiftHandler(d.Shifts)
	routes.GET("/shifts", shifts.List)
	routes.POST("/shifts", shifts.Create)
	routes.GET("/shifts/:id", shifts.Get)
	routes.PUT("/shifts/:id", shifts.Update)
	routes.DELETE("/shifts/:id", shifts.Delete)

	machines := NewMachineHandler(d.Machines)
	routes.GET("/machines", machines.List)
	routes.POST("/machines", machines.Create)
	routes.GET("/machines/:id", machines.Get)
	routes.DELETE("/machines/:id", machines.Delete)
	routes.GET("/machines/:id/setups", machines.ListSetups)
	routes.PUT("/machines/:id/setups", machines.SetSetup)

	production := NewProductionHandler(d.Requests)
	schedules := NewScheduleHandler(d.Schedules)
	routes.GET("/production", production.List)
	routes.POST("/production", production.Create)
	routes.GET("/production/schedule", schedules.Preview)
	routes.GET("/production/schedule/latest", schedules.Latest)
	routes.GET("/production/machine/:id", schedules.Machine)
	routes.POST("/production/recalculate", schedules.Recalculate)
	routes.GET("/production/:id", production.Get)
	routes.PUT("/production/:id", production.Update)
	routes.DELETE("/production/:id", production.Delete)

	return r
}
