package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/quanghuydn8/app-theu/internal/order/entity"
	"github.com/quanghuydn8/app-theu/internal/order/service"
)

type DashboardHandler struct {
	svc *service.DashboardService
}

func NewDashboardHandler(svc *service.DashboardService) *DashboardHandler {
	return &DashboardHandler{svc: svc}
}

func (h *DashboardHandler) Summary(c *gin.Context) {
	s, err := h.svc.Summary(c.Request.Context())
	if err != nil {
		Fail(c, err)
		return
	}
	Success(c, s)
}

func (h *DashboardHandler) Reminders(c *gin.Context) {
	r, err := h.svc.Reminders(c.Request.Context())
	if err != nil {
		Fail(c, err)
		return
	}
	Success(c, r)
}

// Shops GET /shops lists shop profiles with their statuses, slots and tags.
func (h *DashboardHandler) Shops(c *gin.Context) {
	statuses := make([]gin.H, 0, len(entity.Statuses))
	for _, s := range entity.Statuses {
		statuses = append(statuses, gin.H{"code": s, "label": s.Label()})
	}
	tags := make([]gin.H, 0, len(entity.Tags))
	for _, t := range entity.Tags {
		tags = append(tags, gin.H{"code": t, "label": entity.TagLabel(t)})
	}
	Success(c, gin.H{"shops": entity.Shops(), "statuses": statuses, "tags": tags})
}
