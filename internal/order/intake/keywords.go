package intake

import (
	"github.com/quanghuydn8/app-theu/internal/order/entity"
	"github.com/quanghuydn8/app-theu/internal/order/normalize"
)

// Category groups products for the delivery estimate.
type Category string

const (
	CategoryTop       Category = "top"
	CategoryBottom    Category = "bottom"
	CategoryAccessory Category = "accessory"
)

const (
	singleCategoryLeadDays = 12
	mixedCategoryLeadDays  = 22
)

var categoryKeywords = []struct {
	category Category
	words    []string
}{
	{CategoryTop, []string{"sweater", "hoodie", "tshirt", "t-shirt", "polo", "áo thun", "zip", "áo"}},
	{CategoryBottom, []string{"quần short", "quần dài", "jogger", "short", "quần"}},
	{CategoryAccessory, []string{"túi", "mũ", "nón", "khác"}},
}

// Shipping, payment and deadline keywords are matched with diacritics kept:
// folded, "thứ bảy" would read as "bay" and "hẹn gặp" as "gấp".
var (
	airKeywords       = []string{"bay", "máy bay", "đường bay", string(entity.ShippingAir)}
	motorbikeKeywords = []string{"xe ôm", "grap", "grab", "hỏa tốc", "hoả tốc", "gấp", "nhanh", string(entity.ShippingMotorbike)}
	standardKeywords  = []string{"thường", "tiêu chuẩn", "chuyển phát", string(entity.ShippingStandard)}
	prepaidKeywords   = []string{"0đ", "đã chuyển khoản", string(entity.PaymentPrepaid)}
	codKeywords       = []string{"cod", "ship cod", "thu hộ"}
	deadlineKeywords  = []string{"cần trước ngày", "lấy đúng ngày", "deadline", "gấp", "kịp ngày", "chốt ngày"}
)

// Classify places a product name in a category; anything unrecognised is an
// accessory.
func Classify(productName string) Category {
	for _, c := range categoryKeywords {
		if normalize.ContainsAny(productName, c.words) {
			return c.category
		}
	}
	return CategoryAccessory
}

// LeadDays is the production time for a set of products: 12 days when they
// share one category, 22 when they span several.
func LeadDays(productNames []string) int {
	seen := make(map[Category]bool)
	for _, name := range productNames {
		seen[Classify(name)] = true
	}
	if len(seen) > 1 {
		return mixedCategoryLeadDays
	}
	return singleCategoryLeadDays
}

func shippingTag(text string) (entity.ShippingMethod, bool) {
	switch {
	case normalize.Mentions(text, airKeywords):
		return entity.ShippingAir, true
	case normalize.Mentions(text, motorbikeKeywords):
		return entity.ShippingMotorbike, true
	case normalize.Mentions(text, standardKeywords):
		return entity.ShippingStandard, true
	}
	return "", false
}

// ShippingFrom reads the extracted shipping field first; the chat is only
// scanned when the field names no known method.
func ShippingFrom(field, chat string) entity.ShippingMethod {
	if m, ok := shippingTag(field); ok {
		return m
	}
	if m, ok := shippingTag(chat); ok && m != entity.ShippingStandard {
		return m
	}
	return entity.ShippingStandard
}

// PaymentFrom reads the extracted payment field first and falls back to a
// zero-collect marker in the chat.
func PaymentFrom(field, chat string) entity.PaymentMethod {
	switch {
	case normalize.Mentions(field, prepaidKeywords):
		return entity.PaymentPrepaid
	case normalize.Mentions(field, codKeywords):
		return entity.PaymentCOD
	case normalize.Mentions(chat, prepaidKeywords):
		return entity.PaymentPrepaid
	}
	return entity.PaymentCOD
}

// HasDeadlineLanguage reports a customer-committed date in the chat.
func HasDeadlineLanguage(text string) bool {
	return normalize.Mentions(text, deadlineKeywords)
}
