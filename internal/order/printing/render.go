package printing

import (
	"bytes"
	"html/template"
	"time"

	"github.com/quanghuydn8/app-theu/internal/order/entity"
)

var slipTemplate = template.Must(template.New("slip").Funcs(template.FuncMap{
	"inc":        func(i int) int { return i + 1 },
	"printImage": func(it entity.OrderItem) string { return it.PrintImage() },
	"date":       func(t time.Time) string { return t.Format("02/01/2006 15:04") },
	"day": func(t *time.Time) string {
		if t == nil {
			return ""
		}
		return t.Format("02/01/2006")
	},
}).Parse(`<!DOCTYPE html>
<html>
<head>
<meta charset="utf-8">
<title>{{if eq (len .Entries) 1}}In đơn {{(index .Entries 0).Order.Code}}{{else}}In danh sách đơn hàng{{end}}</title>
<style>
@media print {
  @page { margin: 0; size: auto; }
  body { margin: 1cm; font-size: 14px; }
  .page-break { page-break-before: always; }
}
body { font-family: Arial, sans-serif; line-height: 1.4; color: #000; }
.print-container { margin-bottom: 20px; }
.header { text-align: center; border-bottom: 2px solid #000; padding-bottom: 10px; margin-bottom: 15px; }
.title { font-size: 24px; font-weight: bold; text-transform: uppercase; }
.info-row { display: flex; justify-content: space-between; margin-bottom: 5px; }
.table { width: 100%; border-collapse: collapse; margin-top: 10px; }
.table th, .table td { border: 1px solid #000; padding: 8px; text-align: left; }
.table th { background-color: #f0f0f0; }
.img-box img { max-width: 80px; max-height: 80px; object-fit: contain; }
.note { color: red; font-weight: bold; font-style: italic; font-size: 12px; }
.footer { margin-top: 20px; text-align: center; font-style: italic; font-size: 12px; }
</style>
</head>
<body>
{{range .Entries}}{{if .PageBreakBefore}}<div class="page-break"></div>{{end}}
<div class="print-container">
  <div class="header">
    <div class="title">PHIẾU SẢN XUẤT</div>
    <div>Mã đơn: <b>{{.Order.Code}}</b> | {{.Order.Shop.Label}}</div>
  </div>
  <div class="info-row"><span>Khách hàng: <b>{{.Order.CustomerName}}</b></span> <span>SĐT: {{.Order.Phone}}</span></div>
  <div class="info-row"><span>Địa chỉ: {{.Order.Address}}</span> <span>Ngày trả: {{day .Order.DueDate}}{{if .Order.HasFixedDeadline}} (hẹn ngày){{end}}</span></div>
  <div class="info-row"><span>Ghi chú đơn: {{.Order.Notes}}</span> <span>{{.Order.ShippingMethod.Label}}</span></div>
  <table class="table">
    <thead><tr><th style="width: 5%">STT</th><th style="width: 45%">Sản phẩm / Note thêu</th><th style="width: 30%">Hình ảnh</th><th style="width: 20%">SL</th></tr></thead>
    <tbody>
    {{range $i, $it := .Items}}<tr>
      <td style="text-align: center;">{{inc $i}}</td>
      <td><b>{{$it.ProductName}}</b><br>Màu: {{$it.Color}} | Size: {{$it.Size}}{{if $it.EmbroideryRequest}}<br><span class="note">Note: {{$it.EmbroideryRequest}}</span>{{end}}{{if $it.CorrectionRequest}}<br><span class="note">Sửa: {{$it.CorrectionRequest}}</span>{{end}}</td>
      <td class="img-box" style="text-align: center;">{{with printImage $it}}<img src="{{.}}">{{end}}</td>
      <td style="text-align: center;">{{$it.Quantity}}</td>
    </tr>
    {{end}}</tbody>
  </table>
  <div class="footer"><p>In ngày {{date $.PrintedAt}}</p></div>
</div>
{{end}}
</body>
</html>
`))

// RenderHTML renders the run as one printable document.
func RenderHTML(b *Batch) ([]byte, error) {
	var buf bytes.Buffer
	if err := slipTemplate.Execute(&buf, b); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
