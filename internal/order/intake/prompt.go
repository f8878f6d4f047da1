package intake

import (
	"fmt"
	"time"
)

// Prompt is the instruction given to the text-understanding service. It fixes
// the JSON shape Normalize reads; the policy rules themselves are applied by
// Normalize, so the service is asked to report what the chat says and nothing
// more.
func Prompt(ref time.Time) string {
	return fmt.Sprintf(`Hôm nay là: %s.
Nhiệm vụ: phân tích đoạn chat đặt hàng thành JSON, chỉ ghi lại thông tin có trong tin nhắn.

- shop: tên hoặc mã shop được nhắc tới (TGTĐ, Inside/IS, Lanh Canh/LC), để trống nếu không có.
- ngay_dat: ngày đặt nếu khách nhắc tới ("đơn ngày...", "hôm qua", "hôm kia"), định dạng YYYY-MM-DD, để trống nếu không có.
- ngay_tra: CHỈ điền khi tin nhắn ghi rõ ngày trả/ngày nhận, định dạng YYYY-MM-DD. Không tự tính.
- tong_tien, da_coc: số tiền, để 0 nếu không có.
- httt: ghi nguyên văn cách thanh toán (ví dụ "0đ", "COD").
- van_chuyen: ghi nguyên văn cách gửi hàng (ví dụ "bay", "xe ôm", "thường").
- co_hen_ngay: true nếu khách chốt một ngày cụ thể phải có hàng.
- ghi_chu: mọi thông tin quan trọng khác (nhiều SĐT, yêu cầu đóng gói, lưu ý về khách).

OUTPUT JSON FORMAT:
{
  "customer_info": {
    "ten_khach": "", "sdt": "", "dia_chi": "", "facebook_id": "",
    "ngay_dat": "", "ngay_tra": "", "shop": "",
    "tong_tien": 0, "da_coc": 0, "httt": "", "van_chuyen": "",
    "co_hen_ngay": false, "ghi_chu": ""
  },
  "products": [
    {"ten_sp": "", "mau": "", "size": "", "kieu_theu": "", "so_luong": 1}
  ]
}`, ref.Format("02/01/2006"))
}
