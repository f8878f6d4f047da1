package entity

import "github.com/quanghuydn8/app-theu/internal/order/normalize"

// Status is an order's position in the production flow.
type Status string

const (
	StatusNew                    Status = "NEW"
	StatusConfirmed              Status = "CONFIRMED"
	StatusQueued                 Status = "QUEUED"
	StatusInDesign               Status = "IN_DESIGN"
	StatusAwaitingDesignApproval Status = "AWAITING_DESIGN_APPROVAL"
	StatusDesignApproved         Status = "DESIGN_APPROVED"
	StatusInProduction           Status = "IN_PRODUCTION"
	StatusExchanged              Status = "EXCHANGED"
	StatusShipped                Status = "SHIPPED"
	StatusCompleted              Status = "COMPLETED"
	StatusCanceled               Status = "CANCELED"
)

// Statuses lists every status in flow order.
var Statuses = []Status{
	StatusNew,
	StatusConfirmed,
	StatusQueued,
	StatusInDesign,
	StatusAwaitingDesignApproval,
	StatusDesignApproved,
	StatusInProduction,
	StatusExchanged,
	StatusShipped,
	StatusCompleted,
	StatusCanceled,
}

var statusLabels = map[Status]string{
	StatusNew:                    "Mới",
	StatusConfirmed:              "Đã xác nhận",
	StatusQueued:                 "Chờ sản xuất",
	StatusInDesign:               "Đang thiết kế",
	StatusAwaitingDesignApproval: "Chờ duyệt thiết kế",
	StatusDesignApproved:         "Đã duyệt thiết kế",
	StatusInProduction:           "Đang sản xuất",
	StatusExchanged:              "Đổi/sửa/đền",
	StatusShipped:                "Đã gửi vận chuyển",
	StatusCompleted:              "Hoàn thành",
	StatusCanceled:               "Hủy",
}

// legacy values found in older rows and chat output, folded
var statusAliases = map[string]Status{
	"new":       StatusNew,
	"done":      StatusCompleted,
	"da giao":   StatusCompleted,
	"completed": StatusCompleted,
	"success":   StatusCompleted,
	"da huy":    StatusCanceled,
	"cancelled": StatusCanceled,
	"canceled":  StatusCanceled,
	"fail":      StatusCanceled,
	"aborted":   StatusCanceled,
}

func (s Status) Label() string {
	if l, ok := statusLabels[s]; ok {
		return l
	}
	return string(s)
}

// Rank is the position in Statuses, or -1 for an unknown status.
func (s Status) Rank() int {
	for i, v := range Statuses {
		if v == s {
			return i
		}
	}
	return -1
}

func (s Status) Valid() bool { return s.Rank() >= 0 }

// IsDone reports a delivered/completed order.
func (s Status) IsDone() bool { return s == StatusCompleted }

func (s Status) IsCanceled() bool { return s == StatusCanceled }

// IsTerminal reports a status that ends production.
func (s Status) IsTerminal() bool { return s.IsDone() || s.IsCanceled() }

// ParseStatus accepts a code, a Vietnamese label or a legacy alias.
func ParseStatus(text string) (Status, bool) {
	folded := normalize.Fold(text)
	if folded == "" {
		return "", false
	}
	for _, s := range Statuses {
		if normalize.Fold(string(s)) == folded || normalize.Fold(statusLabels[s]) == folded {
			return s, true
		}
	}
	s, ok := statusAliases[folded]
	return s, ok
}
