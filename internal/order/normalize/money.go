package normalize

import (
	"math"
	"strconv"
	"strings"

	"github.com/quanghuydn8/app-theu/internal/order/errs"
)

// currency markers stripped from either end of an amount, longest first
var currencyMarkers = []string{"vnđ", "vnd", "đồng", "dong", "đ", "₫", "$"}

var separatorReplacer = strings.NewReplacer(".", "", ",", "", " ", "", "_", "", " ", "")

// ParseAmount converts "350.000đ", "1,200,000 VND" or "350k" into whole currency
// units. The result is never negative.
func ParseAmount(text string) (int64, error) {
	s := strings.ToLower(strings.TrimSpace(text))
	if s == "" {
		return 0, errs.Format(text, "empty amount")
	}
	s = stripCurrency(s)

	if strings.HasSuffix(s, "k") {
		return parseThousands(text, strings.TrimSpace(strings.TrimSuffix(s, "k")))
	}

	digits := separatorReplacer.Replace(s)
	if strings.HasPrefix(digits, "-") {
		return 0, errs.Format(text, "negative amount")
	}
	if digits == "" || strings.IndexFunc(digits, notDigit) >= 0 {
		return 0, errs.Format(text, "not a whole number")
	}
	v, err := strconv.ParseInt(digits, 10, 64)
	if err != nil {
		return 0, errs.Format(text, "amount out of range")
	}
	return v, nil
}

// AmountOf accepts the loosely typed values produced by JSON decoding.
func AmountOf(v any) (int64, error) {
	switch n := v.(type) {
	case nil:
		return 0, errs.Format("", "missing amount")
	case float64:
		if n < 0 || n != math.Trunc(n) {
			return 0, errs.Format(strconv.FormatFloat(n, 'f', -1, 64), "not a whole non-negative number")
		}
		return int64(n), nil
	case int:
		if n < 0 {
			return 0, errs.Format(strconv.Itoa(n), "negative amount")
		}
		return int64(n), nil
	case int64:
		if n < 0 {
			return 0, errs.Format(strconv.FormatInt(n, 10), "negative amount")
		}
		return n, nil
	case string:
		return ParseAmount(n)
	}
	return 0, errs.Format("", "unsupported amount type")
}

func stripCurrency(s string) string {
	for changed := true; changed; {
		changed = false
		for _, m := range currencyMarkers {
			if strings.HasSuffix(s, m) {
				s, changed = strings.TrimSpace(strings.TrimSuffix(s, m)), true
			}
			if strings.HasPrefix(s, m) {
				s, changed = strings.TrimSpace(strings.TrimPrefix(s, m)), true
			}
		}
	}
	return s
}

// parseThousands handles chat shorthand such as "350k" or "1,5k": digits with
// at most one decimal separator, worth a whole number of units once multiplied.
func parseThousands(raw, s string) (int64, error) {
	s = strings.ReplaceAll(strings.ReplaceAll(s, " ", ""), ",", ".")
	whole, frac, _ := strings.Cut(s, ".")
	if whole == "" || strings.IndexFunc(whole, notDigit) >= 0 || strings.IndexFunc(frac, notDigit) >= 0 {
		return 0, errs.Format(raw, "not a whole non-negative number")
	}
	frac = strings.TrimRight(frac, "0")
	if len(frac) > 3 {
		return 0, errs.Format(raw, "not a whole number")
	}
	frac += strings.Repeat("0", 3-len(frac))

	w, err := strconv.ParseInt(whole, 10, 64)
	if err != nil {
		return 0, errs.Format(raw, "amount out of range")
	}
	f, _ := strconv.ParseInt(frac, 10, 64)
	if w > (math.MaxInt64-f)/1000 {
		return 0, errs.Format(raw, "amount out of range")
	}
	return w*1000 + f, nil
}

func notDigit(r rune) bool { return r < '0' || r > '9' }
