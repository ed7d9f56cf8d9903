package api

import (
	"net/http"

	"github.com/alexanderramin/shopfloor/internal/domain"
	"github.com/alexanderramin/shopfloor/internal/service"
	"github.com/gin-gonic/gin"
)

// ShiftHandler exposes the shift calendar configuration.
type ShiftHandler struct {
	shifts service.ShiftService
}

func NewShiftHandler(shifts service.ShiftService) *ShiftHandler {
	return &ShiftHandler{shifts: shifts}
}

func (h *ShiftHandler) List(c *gin.Context) {
	shifts, err := h.shifts.List(c.Request.Context())
	if err != nil {
		fail(c, err)
		return
	}
	out := make([]ShiftDTO, 0, len(shifts))
	for _, s := range shifts {
		out = append(out, shiftToDTO(s))
	}
	respond(c, http.StatusOK, out)
}

func (h *ShiftHandler) Get(c *gin.Context) {
	s, err := h.shifts.GetByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		fail(c, err)
		return
	}
	respond(c, http.StatusOK, shiftToDTO(s))
}

func (h *ShiftHandler) Create(c *gin.Context) {
	var req ShiftDTO
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}
	var s domain.Shift
	if err := req.apply(&s); err != nil {
		badRequest(c, err)
		return
	}
	if err := h.shifts.Create(c.Request.Context(), &s); err != nil {
		fail(c, err)
		return
	}
	created(c, shiftToDTO(&s))
}

func (h *ShiftHandler) Update(c *gin.Context) {
	var req ShiftDTO
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}
	ctx := c.Request.Context()
	s, err := h.shifts.GetByID(ctx, c.Param("id"))
	if err != nil {
		fail(c, err)
		return
	}
	if err := req.apply(s); err != nil {
		badRequest(c, err)
		return
	}
	if err := h.shifts.Update(ctx, s); err != nil {
		fail(c, err)
		return
	}
	respond(c, http.StatusOK, shiftToDTO(s))
}

func (h *ShiftHandler) Delete(c *gin.Context) {
	if err := h.shifts.Delete(c.Request.Context(), c.Param("id")); err != nil {
		fail(c, err)
		return
	}
	noContent(c)
}
