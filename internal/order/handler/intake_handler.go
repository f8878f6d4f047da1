package handler

import (
	"encoding/json"

	"github.com/gin-gonic/gin"

	"github.com/quanghuydn8/app-theu/internal/order/service"
)

type IntakeHandler struct {
	svc *service.IntakeService
}

func NewIntakeHandler(svc *service.IntakeService) *IntakeHandler {
	return &IntakeHandler{svc: svc}
}

// Normalize POST /intake/normalize {payload, text}
func (h *IntakeHandler) Normalize(c *gin.Context) {
	var req struct {
		Payload json.RawMessage `json:"payload"`
		Text    string          `json:"text"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, "invalid request: "+err.Error())
		return
	}
	d, err := h.svc.Normalize(req.Payload, req.Text)
	if err != nil {
		Fail(c, err)
		return
	}
	Success(c, d)
}

// Parse POST /intake/parse {text}
func (h *IntakeHandler) Parse(c *gin.Context) {
	var req struct {
		Text string `json:"text"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, "invalid request: "+err.Error())
		return
	}
	d, err := h.svc.Parse(c.Request.Context(), req.Text)
	if err != nil {
		Fail(c, err)
		return
	}
	Success(c, d)
}
