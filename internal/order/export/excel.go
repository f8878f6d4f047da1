// Package export writes orders into the courier's spreadsheet import layout.
package export

import (
	"fmt"
	"strings"
	"time"

	"github.com/xuri/excelize/v2"

	"github.com/quanghuydn8/app-theu/internal/order/entity"
)

const sheetName = "Orders"

// Headers is the courier import layout, one column each.
var Headers = []string{
	"Stt", "Khách hàng", "SĐT", "Người nhận", "Địa chỉ",
	"Sản phẩm", "Mã sản phẩm", "Số lượng", "Trọng lượng (g)", "Giá",
	"Giảm giá", "Loại Giảm Giá", "Nội dung để in", "Ghi chú nội bộ",
	"Trả trước", "Chuyển khoản", "Tiền khách đưa", "Quẹt thẻ",
	"Phí Vận Chuyển", "Hình thức thanh toán phí vận chuyển", "Nguồn đơn hàng",
}

const (
	parcelCount    = 1
	parcelWeightGr = 500
	shippingPayer  = "Người gửi"
)

// Row is one order with its items.
type Row struct {
	Order *entity.Order
	Items []entity.OrderItem
}

// Workbook builds the export file. The caller closes it.
func Workbook(rows []Row) (*excelize.File, error) {
	f := excelize.NewFile()
	if err := f.SetSheetName("Sheet1", sheetName); err != nil {
		f.Close()
		return nil, err
	}

	headerStyle, _ := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true, Size: 11},
		Fill: excelize.Fill{Type: "pattern", Pattern: 1, Color: []string{"#D9E1F2"}},
		Border: []excelize.Border{
			{Type: "bottom", Color: "000000", Style: 1},
		},
	})
	for i, h := range Headers {
		col, _ := excelize.ColumnNumberToName(i + 1)
		cell := col + "1"
		f.SetCellValue(sheetName, cell, h)
		f.SetCellStyle(sheetName, cell, cell, headerStyle)
	}

	for idx, r := range rows {
		row := idx + 2
		o := r.Order
		recipient := strings.TrimSpace(o.Code + " " + o.CustomerName)
		values := map[string]interface{}{
			"A": idx + 1,
			"B": recipient,
			"C": o.Phone,
			"D": recipient,
			"E": o.Address,
			"F": productList(r.Items),
			"H": parcelCount,
			"I": parcelWeightGr,
			"J": o.TotalAmount,
			"M": o.Notes,
			"P": o.DepositAmount,
			"T": shippingPayer,
		}
		for col, v := range values {
			if err := f.SetCellValue(sheetName, fmt.Sprintf("%s%d", col, row), v); err != nil {
				f.Close()
				return nil, err
			}
		}
	}

	f.SetColWidth(sheetName, "B", "F", 28)
	f.SetColWidth(sheetName, "M", "M", 36)
	return f, nil
}

// productList joins product names as "sp1 + sp2".
func productList(items []entity.OrderItem) string {
	names := make([]string, 0, len(items))
	for _, it := range items {
		if n := strings.TrimSpace(it.ProductName); n != "" {
			names = append(names, n)
		}
	}
	return strings.Join(names, " + ")
}

// Filename is the download name for an export made at t.
func Filename(t time.Time) string {
	return fmt.Sprintf("Excel_Nobita_%s.xlsx", t.Format("02_01"))
}
