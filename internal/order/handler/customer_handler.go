package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/quanghuydn8/app-theu/internal/order/repository"
	"github.com/quanghuydn8/app-theu/internal/order/service"
)

type CustomerHandler struct {
	svc *service.CustomerService
}

func NewCustomerHandler(svc *service.CustomerService) *CustomerHandler {
	return &CustomerHandler{svc: svc}
}

// List GET /customers?keyword=
func (h *CustomerHandler) List(c *gin.Context) {
	page, pageSize := GetPagination(c)
	items, total, err := h.svc.List(c.Request.Context(), repository.CustomerFilter{
		Keyword:  c.Query("keyword"),
		Page:     page,
		PageSize: pageSize,
	})
	if err != nil {
		Fail(c, err)
		return
	}
	Success(c, NewListResponse(items, page, pageSize, total))
}

func (h *CustomerHandler) Get(c *gin.Context) {
	v, err := h.svc.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		Fail(c, err)
		return
	}
	Success(c, v)
}

// History GET /customers/:id/orders
func (h *CustomerHandler) History(c *gin.Context) {
	orders, err := h.svc.History(c.Request.Context(), c.Param("id"))
	if err != nil {
		Fail(c, err)
		return
	}
	Success(c, gin.H{"items": orders})
}

// Reconcile POST /customers/reconcile
func (h *CustomerHandler) Reconcile(c *gin.Context) {
	changes, err := h.svc.ReconcileAll(c.Request.Context())
	if err != nil {
		Fail(c, err)
		return
	}
	Success(c, gin.H{"changed": len(changes), "changes": changes})
}
