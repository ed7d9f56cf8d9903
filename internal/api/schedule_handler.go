package api

import (
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/alexanderramin/shopfloor/internal/app"
	"github.com/alexanderramin/shopfloor/internal/export"
	"github.com/alexanderramin/shopfloor/internal/service"
	"github.com/gin-gonic/gin"
)

// ScheduleHandler builds, commits and renders production schedules.
type ScheduleHandler struct {
	schedules service.ScheduleService
	csv       *export.CSVExporter
	pdf       *export.PDFExporter
}

func NewScheduleHandler(schedules service.ScheduleService) *ScheduleHandler {
	return &ScheduleHandler{
		schedules: schedules,
		csv:       export.NewCSVExporter(),
		pdf:       export.NewPDFExporter(),
	}
}

// Preview builds a schedule without storing it. Query parameters:
// machine (repeatable), now (RFC3339), format (json, csv or pdf).
func (h *ScheduleHandler) Preview(c *gin.Context) {
	format, ok := outputFormat(c)
	if !ok {
		return
	}
	req := app.NewScheduleRequest()
	req.MachineIDs = c.QueryArray("machine")
	if raw := c.Query("now"); raw != "" {
		now, err := time.Parse(time.RFC3339, raw)
		if err != nil {
			badRequest(c, fmt.Errorf("now: %w", err))
			return
		}
		req.Now = &now
	}
	resp, err := h.schedules.Build(c.Request.Context(), req)
	if err != nil {
		fail(c, err)
		return
	}
	h.render(c, format, http.StatusOK, resp)
}

// Machine builds the schedule of a single machine.
func (h *ScheduleHandler) Machine(c *gin.Context) {
	format, ok := outputFormat(c)
	if !ok {
		return
	}
	req := app.NewScheduleRequest()
	req.MachineIDs = []string{c.Param("id")}
	resp, err := h.schedules.Build(c.Request.Context(), req)
	if err != nil {
		fail(c, err)
		return
	}
	h.render(c, format, http.StatusOK, resp)
}

// Recalculate builds and commits a new plan. The body is optional. The
// request is fully validated before anything is committed.
func (h *ScheduleHandler) Recalculate(c *gin.Context) {
	format, ok := outputFormat(c)
	if !ok {
		return
	}
	var body RecalculateDTO
	if err := c.ShouldBindJSON(&body); err != nil && !errors.Is(err, io.EOF) {
		badRequest(c, err)
		return
	}
	req := app.NewScheduleRequest()
	req.MachineIDs = body.MachineIDs
	req.Commit = true
	resp, err := h.schedules.Build(c.Request.Context(), req)
	if err != nil {
		fail(c, err)
		return
	}
	h.render(c, format, http.StatusCreated, resp)
}

// Latest returns the most recently committed plan.
func (h *ScheduleHandler) Latest(c *gin.Context) {
	format, ok := outputFormat(c)
	if !ok {
		return
	}
	resp, err := h.schedules.Latest(c.Request.Context())
	if err != nil {
		fail(c, err)
		return
	}
	h.render(c, format, http.StatusOK, resp)
}

// outputFormat reads the format query parameter and answers 400 itself
// when it is unknown.
func outputFormat(c *gin.Context) (string, bool) {
	switch format := c.DefaultQuery("format", "json"); format {
	case "json", "csv", "pdf":
		return format, true
	default:
		badRequest(c, fmt.Errorf("unknown format %q (expected json, csv or pdf)", format))
		return "", false
	}
}

func (h *ScheduleHandler) render(c *gin.Context, format string, status int, resp *app.ScheduleResponse) {
	switch format {
	case "json":
		respond(c, status, resp, map[string]any{"warnings": len(resp.Warnings)})
	case "csv":
		out, err := h.csv.Render(export.ScheduleDataset(resp))
		if err != nil {
			fail(c, err)
			return
		}
		c.Header("Content-Disposition", `attachment; filename="schedule.csv"`)
		c.Data(status, "text/csv; charset=utf-8", out)
	case "pdf":
		out, err := h.pdf.Render(resp, "Production schedule")
		if err != nil {
			fail(c, err)
			return
		}
		c.Header("Content-Disposition", `attachment; filename="schedule.pdf"`)
		c.Data(status, "application/pdf", out)
	}
}
