// Package handler exposes the order desk over HTTP.
package handler

import (
	"errors"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/quanghuydn8/app-theu/internal/middleware"
	"github.com/quanghuydn8/app-theu/internal/order/errs"
	"github.com/quanghuydn8/app-theu/internal/order/service"
	"github.com/quanghuydn8/app-theu/internal/shared/sse"
)

type Handlers struct {
	Order     *OrderHandler
	Customer  *CustomerHandler
	Intake    *IntakeHandler
	Dashboard *DashboardHandler
	SSE       *SSEHandler
}

func NewHandlers(svc *service.Services, hub *sse.Hub) *Handlers {
	return &Handlers{
		Order:     NewOrderHandler(svc.Order, svc.Image),
		Customer:  NewCustomerHandler(svc.Customer),
		Intake:    NewIntakeHandler(svc.Intake),
		Dashboard: NewDashboardHandler(svc.Dashboard),
		SSE:       NewSSEHandler(hub),
	}
}

// Register mounts every route on an authenticated group.
func (h *Handlers) Register(api *gin.RouterGroup) {
	orders := api.Group("/orders")
	{
		orders.GET("", h.Order.List)
		orders.POST("", h.Order.Create)
		orders.POST("/print-batch", h.Order.PrintBatch)
		orders.POST("/export", h.Order.Export)
		orders.GET("/:code", h.Order.Get)
		orders.PUT("/:code", h.Order.Update)
		orders.PUT("/:code/status", h.Order.ChangeStatus)
		orders.POST("/:code/confirm", h.Order.Confirm)
		orders.POST("/:code/submit-design", h.Order.SubmitDesign)
		orders.GET("/:code/print-check", h.Order.PrintCheck)
		orders.POST("/:code/print", h.Order.Print)
	}

	items := api.Group("/items")
	{
		items.PUT("/:id/feedback", h.Order.SaveFeedback)
		items.POST("/:id/images/:slot", h.Order.UploadImage)
	}

	customers := api.Group("/customers")
	{
		customers.GET("", h.Customer.List)
		customers.GET("/:id", h.Customer.Get)
		customers.GET("/:id/orders", h.Customer.History)
		customers.POST("/reconcile", middleware.RequireRole("manager"), h.Customer.Reconcile)
	}

	intake := api.Group("/intake")
	{
		intake.POST("/normalize", h.Intake.Normalize)
		intake.POST("/parse", h.Intake.Parse)
	}

	api.GET("/shops", h.Dashboard.Shops)
	api.GET("/dashboard/summary", h.Dashboard.Summary)
	api.GET("/dashboard/reminders", h.Dashboard.Reminders)
	api.GET("/events", h.SSE.Stream)
}

// Response is the envelope of every JSON reply.
type Response struct {
	Code    int         `json:"code"`
	Message string      `json:"message"`
	Data    interface{} `json:"data,omitempty"`
}

type ListResponse struct {
	Items      interface{} `json:"items"`
	Pagination *Pagination `json:"pagination"`
}

type Pagination struct {
	Page       int `json:"page"`
	PageSize   int `json:"page_size"`
	Total      int `json:"total"`
	TotalPages int `json:"total_pages"`
}

func NewListResponse(items interface{}, page, pageSize int, total int64) ListResponse {
	pages := 0
	if pageSize > 0 {
		pages = int((total + int64(pageSize) - 1) / int64(pageSize))
	}
	return ListResponse{
		Items:      items,
		Pagination: &Pagination{Page: page, PageSize: pageSize, Total: int(total), TotalPages: pages},
	}
}

func Success(c *gin.Context, data interface{}) {
	c.JSON(200, Response{Code: 0, Message: "success", Data: data})
}

func Created(c *gin.Context, data interface{}) {
	c.JSON(201, Response{Code: 0, Message: "success", Data: data})
}

// Error replies with code; the HTTP status is code / 100.
func Error(c *gin.Context, code int, message string) {
	ErrorWithData(c, code, message, nil)
}

func ErrorWithData(c *gin.Context, code int, message string, data interface{}) {
	statusCode := code / 100
	if statusCode < 100 || statusCode > 599 {
		statusCode = 500
	}
	c.JSON(statusCode, Response{Code: code, Message: message, Data: data})
}

func BadRequest(c *gin.Context, message string) {
	Error(c, 40000, message)
}

func NotFound(c *gin.Context, message string) {
	Error(c, 40400, message)
}

func InternalError(c *gin.Context, message string) {
	Error(c, 50000, message)
}

// Rejection is one order refused by the print gate.
type Rejection struct {
	OrderCode string `json:"order_code"`
	Reason    string `json:"reason"`
}

// Fail maps a service error to a reply by its kind.
func Fail(c *gin.Context, err error) {
	var be *errs.BatchError
	if errors.As(err, &be) {
		rejections := make([]Rejection, 0, len(be.Errors))
		for _, e := range be.Errors {
			var pe *errs.PrintIneligibleError
			var ne *errs.NotFoundError
			switch {
			case errors.As(e, &pe):
				rejections = append(rejections, Rejection{OrderCode: pe.OrderCode, Reason: pe.Reason})
			case errors.As(e, &ne):
				rejections = append(rejections, Rejection{OrderCode: ne.Key, Reason: e.Error()})
			default:
				rejections = append(rejections, Rejection{Reason: e.Error()})
			}
		}
		ErrorWithData(c, 42200, "print batch rejected", gin.H{"rejections": rejections})
		return
	}

	switch errs.KindOf(err) {
	case errs.KindValidation:
		Error(c, 40000, err.Error())
	case errs.KindFormat:
		Error(c, 40001, err.Error())
	case errs.KindNotFound:
		NotFound(c, err.Error())
	case errs.KindPrintIneligible:
		Error(c, 42200, err.Error())
	case errs.KindExtraction:
		Error(c, 42201, err.Error())
	default:
		InternalError(c, err.Error())
	}
}

func GetUserID(c *gin.Context) string {
	return c.GetString("user_id")
}

// GetPagination reads page and page_size, defaulting to 1 and 20.
func GetPagination(c *gin.Context) (page, pageSize int) {
	page, pageSize = 1, 20
	if p := c.Query("page"); p != "" {
		if v, err := strconv.Atoi(p); err == nil && v > 0 {
			page = v
		}
	}
	if ps := c.Query("page_size"); ps != "" {
		if v, err := strconv.Atoi(ps); err == nil && v > 0 && v <= 100 {
			pageSize = v
		}
	}
	return page, pageSize
}
