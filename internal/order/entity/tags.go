package entity

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/quanghuydn8/app-theu/internal/order/normalize"
)

// Tag is a production label on an order.
type Tag = string

const (
	TagEmbroidery        Tag = "EMBROIDERY"
	TagSewing            Tag = "SEWING"
	TagAwaitingBlank     Tag = "AWAITING_BLANK"
	TagAwaitingPickup    Tag = "AWAITING_PICKUP"
	TagMissingDesignFile Tag = "MISSING_DESIGN_FILE"
)

// Tags is the fixed vocabulary in display order.
var Tags = []Tag{TagEmbroidery, TagSewing, TagAwaitingBlank, TagAwaitingPickup, TagMissingDesignFile}

var tagLabels = map[Tag]string{
	TagEmbroidery:        "Thêu",
	TagSewing:            "May",
	TagAwaitingBlank:     "Chờ phôi",
	TagAwaitingPickup:    "Chờ thu gom",
	TagMissingDesignFile: "Thiếu file tk",
}

func TagLabel(t Tag) string {
	if l, ok := tagLabels[t]; ok {
		return l
	}
	return t
}

// NormalizeTags maps labels to codes, trims and de-duplicates while keeping
// first-seen order. Tags outside the vocabulary are kept as written.
func NormalizeTags(in []string) StringList {
	out := make(StringList, 0, len(in))
	seen := make(map[string]bool, len(in))
	for _, raw := range in {
		t := canonicalTag(raw)
		if t == "" || seen[t] {
			continue
		}
		seen[t] = true
		out = append(out, t)
	}
	return out
}

func canonicalTag(raw string) Tag {
	raw = strings.TrimSpace(raw)
	folded := normalize.Fold(raw)
	if folded == "" {
		return ""
	}
	for _, t := range Tags {
		if folded == normalize.Fold(t) || folded == normalize.Fold(tagLabels[t]) {
			return t
		}
	}
	return raw
}

// StringList is stored as a JSONB array.
type StringList []string

func (l StringList) Value() (driver.Value, error) {
	if l == nil {
		return "[]", nil
	}
	b, err := json.Marshal([]string(l))
	if err != nil {
		return nil, err
	}
	return string(b), nil
}

func (l *StringList) Scan(value interface{}) error {
	if value == nil {
		*l = StringList{}
		return nil
	}
	var data []byte
	switch v := value.(type) {
	case []byte:
		data = v
	case string:
		data = []byte(v)
	default:
		return fmt.Errorf("failed to scan StringList: %v", value)
	}
	return json.Unmarshal(data, (*[]string)(l))
}

// Has reports whether t is in the list.
func (l StringList) Has(t string) bool {
	for _, v := range l {
		if v == t {
			return true
		}
	}
	return false
}
