package api

import (
	"net/http"

	"github.com/alexanderramin/shopfloor/internal/domain"
	"github.com/alexanderramin/shopfloor/internal/service"
	"github.com/gin-gonic/gin"
)

// ProductionHandler exposes production requests.
type ProductionHandler struct {
	requests service.RequestService
}

func NewProductionHandler(requests service.RequestService) *ProductionHandler {
	return &ProductionHandler{requests: requests}
}

func (h *ProductionHandler) List(c *gin.Context) {
	ctx := c.Request.Context()
	var (
		reqs []*domain.ProductionRequest
		err  error
	)
	if machineID := c.Query("machine_id"); machineID != "" {
		reqs, err = h.requests.ListByMachine(ctx, machineID)
	} else {
		reqs, err = h.requests.List(ctx)
	}
	if err != nil {
		fail(c, err)
		return
	}
	out := make([]RequestDTO, 0, len(reqs))
	for _, r := range reqs {
		out = append(out, requestToDTO(r))
	}
	respond(c, http.StatusOK, out)
}

func (h *ProductionHandler) Get(c *gin.Context) {
	r, err := h.requests.GetByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		fail(c, err)
		return
	}
	respond(c, http.StatusOK, requestToDTO(r))
}

func (h *ProductionHandler) Create(c *gin.Context) {
	var req RequestDTO
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}
	var r domain.ProductionRequest
	req.apply(&r)
	if err := h.requests.Create(c.Request.Context(), &r); err != nil {
		fail(c, err)
		return
	}
	created(c, requestToDTO(&r))
}

func (h *ProductionHandler) Update(c *gin.Context) {
	var req RequestDTO
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}
	ctx := c.Request.Context()
	r, err := h.requests.GetByID(ctx, c.Param("id"))
	if err != nil {
		fail(c, err)
		return
	}
	req.apply(r)
	if err := h.requests.Update(ctx, r); err != nil {
		fail(c, err)
		return
	}
	respond(c, http.StatusOK, requestToDTO(r))
}

func (h *ProductionHandler) Delete(c *gin.Context) {
	if err := h.requests.Delete(c.Request.Context(), c.Param("id")); err != nil {
		fail(c, err)
		return
	}
	noContent(c)
}
