// Package alert turns production tag edits into operator notifications.
package alert

import (
	"fmt"

	"github.com/quanghuydn8/app-theu/internal/order/entity"
)

// Alert is one notification for one order.
type Alert struct {
	OrderCode string     `json:"order_code"`
	Tag       entity.Tag `json:"tag"`
	Message   string     `json:"message"`
}

// alertTags are the tags that notify when added, in emission order.
var alertTags = []struct {
	tag      entity.Tag
	template string
}{
	{entity.TagAwaitingBlank, "⚠️ <b>Đã hết phôi áo của đơn hàng %s, Xin hãy đặt thêm phôi!</b>"},
	{entity.TagMissingDesignFile, "📂 <b>Đơn hàng %s đang thiếu file thiết kế, hãy kiểm tra!</b>"},
}

// AlertTags lists the alert-worthy tags in emission order.
func AlertTags() []entity.Tag {
	out := make([]entity.Tag, 0, len(alertTags))
	for _, a := range alertTags {
		out = append(out, a.tag)
	}
	return out
}

// DiffTags returns the tags of newTags missing from oldTags, in newTags order.
func DiffTags(oldTags, newTags []string) []string {
	had := make(map[string]bool, len(oldTags))
	for _, t := range oldTags {
		had[t] = true
	}
	var added []string
	for _, t := range newTags {
		if !had[t] {
			had[t] = true
			added = append(added, t)
		}
	}
	return added
}

// Detect returns one alert per alert-worthy tag newly added by the edit.
// Labels are accepted as well as codes.
func Detect(orderCode string, oldTags, newTags []string) []Alert {
	added := entity.StringList(DiffTags(entity.NormalizeTags(oldTags), entity.NormalizeTags(newTags)))
	var alerts []Alert
	for _, a := range alertTags {
		if added.Has(a.tag) {
			alerts = append(alerts, Alert{
				OrderCode: orderCode,
				Tag:       a.tag,
				Message:   fmt.Sprintf(a.template, orderCode),
			})
		}
	}
	return alerts
}
