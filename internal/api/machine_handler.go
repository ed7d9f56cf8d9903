package api

import (
	"net/http"

	"github.com/alexanderramin/shopfloor/internal/domain"
	"github.com/alexanderramin/shopfloor/internal/service"
	"github.com/gin-gonic/gin"
)

// MachineHandler exposes machines and their setup matrix.
type MachineHandler struct {
	machines service.MachineService
}

func NewMachineHandler(machines service.MachineService) *MachineHandler {
	return &MachineHandler{machines: machines}
}

func (h *MachineHandler) List(c *gin.Context) {
	machines, err := h.machines.List(c.Request.Context())
	if err != nil {
		fail(c, err)
		return
	}
	out := make([]MachineDTO, 0, len(machines))
	for _, m := range machines {
		out = append(out, machineToDTO(m))
	}
	respond(c, http.StatusOK, out)
}

func (h *MachineHandler) Get(c *gin.Context) {
	m, err := h.machines.Resolve(c.Request.Context(), c.Param("id"))
	if err != nil {
		fail(c, err)
		return
	}
	respond(c, http.StatusOK, machineToDTO(m))
}

func (h *MachineHandler) Create(c *gin.Context) {
	var req MachineDTO
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}
	m := domain.Machine{Name: req.Name}
	if err := h.machines.Create(c.Request.Context(), &m); err != nil {
		fail(c, err)
		return
	}
	created(c, machineToDTO(&m))
}

func (h *MachineHandler) Delete(c *gin.Context) {
	if err := h.machines.Delete(c.Request.Context(), c.Param("id")); err != nil {
		fail(c, err)
		return
	}
	noContent(c)
}

func (h *MachineHandler) ListSetups(c *gin.Context) {
	setups, err := h.machines.ListSetups(c.Request.Context(), c.Param("id"))
	if err != nil {
		fail(c, err)
		return
	}
	out := make([]SetupDTO, 0, len(setups))
	for _, s := range setups {
		out = append(out, SetupDTO{ItemID: s.ItemID, SetupMin: s.SetupTimeMin})
	}
	respond(c, http.StatusOK, out)
}

func (h *MachineHandler) SetSetup(c *gin.Context) {
	var req SetupDTO
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}
	if err := h.machines.SetSetup(c.Request.Context(), c.Param("id"), req.ItemID, req.SetupMin); err != nil {
		fail(c, err)
		return
	}
	respond(c, http.StatusOK, req)
}
