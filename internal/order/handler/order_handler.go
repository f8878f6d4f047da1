package handler

import (
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/quanghuydn8/app-theu/internal/order/entity"
	"github.com/quanghuydn8/app-theu/internal/order/printing"
	"github.com/quanghuydn8/app-theu/internal/order/repository"
	"github.com/quanghuydn8/app-theu/internal/order/service"
)

type OrderHandler struct {
	svc    *service.OrderService
	images *service.ImageService
}

func NewOrderHandler(svc *service.OrderService, images *service.ImageService) *OrderHandler {
	return &OrderHandler{svc: svc, images: images}
}

// List GET /orders?keyword=&status=&shop=&printed=
func (h *OrderHandler) List(c *gin.Context) {
	page, pageSize := GetPagination(c)
	f := repository.OrderFilter{
		Keyword:  c.Query("keyword"),
		Page:     page,
		PageSize: pageSize,
	}
	if s := c.Query("status"); s != "" {
		status, ok := entity.ParseStatus(s)
		if !ok {
			BadRequest(c, "unknown status: "+s)
			return
		}
		f.Status = status
	}
	if s := c.Query("shop"); s != "" {
		f.Shop = entity.ParseShop(s)
	}
	if p := c.Query("printed"); p != "" {
		printed, err := strconv.ParseBool(p)
		if err != nil {
			BadRequest(c, "printed must be true or false")
			return
		}
		f.Printed = &printed
	}

	items, total, err := h.svc.List(c.Request.Context(), f)
	if err != nil {
		Fail(c, err)
		return
	}
	Success(c, NewListResponse(items, page, pageSize, total))
}

// Get GET /orders/:code
func (h *OrderHandler) Get(c *gin.Context) {
	o, err := h.svc.Get(c.Request.Context(), c.Param("code"))
	if err != nil {
		Fail(c, err)
		return
	}
	Success(c, o)
}

// Create POST /orders
func (h *OrderHandler) Create(c *gin.Context) {
	var req service.CreateOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, "invalid request: "+err.Error())
		return
	}
	o, err := h.svc.Create(c.Request.Context(), &req)
	if err != nil {
		Fail(c, err)
		return
	}
	Created(c, o)
}

// Update PUT /orders/:code
func (h *OrderHandler) Update(c *gin.Context) {
	var req service.UpdateOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, "invalid request: "+err.Error())
		return
	}
	o, err := h.svc.Update(c.Request.Context(), c.Param("code"), &req)
	if err != nil {
		Fail(c, err)
		return
	}
	Success(c, o)
}

// ChangeStatus PUT /orders/:code/status
func (h *OrderHandler) ChangeStatus(c *gin.Context) {
	var req struct {
		Status string `json:"status" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, "status is required")
		return
	}
	o, err := h.svc.ChangeStatus(c.Request.Context(), c.Param("code"), req.Status)
	if err != nil {
		Fail(c, err)
		return
	}
	Success(c, o)
}

// Confirm POST /orders/:code/confirm
func (h *OrderHandler) Confirm(c *gin.Context) {
	o, err := h.svc.Confirm(c.Request.Context(), c.Param("code"))
	if err != nil {
		Fail(c, err)
		return
	}
	Success(c, o)
}

// SubmitDesign POST /orders/:code/submit-design
func (h *OrderHandler) SubmitDesign(c *gin.Context) {
	o, err := h.svc.SubmitDesign(c.Request.Context(), c.Param("code"))
	if err != nil {
		Fail(c, err)
		return
	}
	Success(c, o)
}

// PrintCheck GET /orders/:code/print-check
func (h *OrderHandler) PrintCheck(c *gin.Context) {
	check, err := h.svc.CheckPrint(c.Request.Context(), c.Param("code"))
	if err != nil {
		Fail(c, err)
		return
	}
	Success(c, check)
}

// Print POST /orders/:code/print
func (h *OrderHandler) Print(c *gin.Context) {
	b, err := h.svc.Print(c.Request.Context(), c.Param("code"))
	if err != nil {
		Fail(c, err)
		return
	}
	h.writeBatch(c, b)
}

type codesRequest struct {
	Codes []string `json:"codes"`
}

// PrintBatch POST /orders/print-batch
func (h *OrderHandler) PrintBatch(c *gin.Context) {
	var req codesRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, "invalid request: "+err.Error())
		return
	}
	b, err := h.svc.PrintBatch(c.Request.Context(), req.Codes)
	if err != nil {
		Fail(c, err)
		return
	}
	h.writeBatch(c, b)
}

// writeBatch sends the production slips as HTML, or the batch as JSON with ?format=json.
func (h *OrderHandler) writeBatch(c *gin.Context, b *printing.Batch) {
	if c.Query("format") == "json" {
		Success(c, b)
		return
	}
	page, err := printing.RenderHTML(b)
	if err != nil {
		InternalError(c, "render print: "+err.Error())
		return
	}
	c.Data(200, "text/html; charset=utf-8", page)
}

// Export POST /orders/export
func (h *OrderHandler) Export(c *gin.Context) {
	var req codesRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, "invalid request: "+err.Error())
		return
	}
	f, err := h.svc.Export(c.Request.Context(), req.Codes)
	if err != nil {
		Fail(c, err)
		return
	}
	defer f.Close()

	c.Header("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	c.Header("Content-Disposition", "attachment; filename=\""+h.svc.ExportFilename()+"\"")
	c.Header("Content-Transfer-Encoding", "binary")

	if err := f.Write(c.Writer); err != nil {
		InternalError(c, "write excel: "+err.Error())
	}
}

// SaveFeedback PUT /items/:id/feedback
func (h *OrderHandler) SaveFeedback(c *gin.Context) {
	var req struct {
		CorrectionRequest string `json:"correction_request"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, "invalid request: "+err.Error())
		return
	}
	item, err := h.svc.SaveFeedback(c.Request.Context(), c.Param("id"), req.CorrectionRequest)
	if err != nil {
		Fail(c, err)
		return
	}
	Success(c, item)
}

// UploadImage POST /items/:id/images/:slot (multipart "files" or "file")
func (h *OrderHandler) UploadImage(c *gin.Context) {
	form, err := c.MultipartForm()
	if err != nil {
		BadRequest(c, "cannot read upload: "+err.Error())
		return
	}
	headers := form.File["files"]
	if len(headers) == 0 {
		headers = form.File["file"]
	}

	uploads := make([]service.Upload, 0, len(headers))
	for _, fh := range headers {
		src, err := fh.Open()
		if err != nil {
			InternalError(c, "read upload: "+err.Error())
			return
		}
		defer src.Close()
		uploads = append(uploads, service.Upload{
			Name:        fh.Filename,
			Size:        fh.Size,
			ContentType: fh.Header.Get("Content-Type"),
			Body:        src,
		})
	}

	item, err := h.images.Upload(c.Request.Context(), c.Param("id"), entity.ImageSlot(c.Param("slot")), uploads)
	if err != nil {
		Fail(c, err)
		return
	}
	Success(c, item)
}
