package normalize

import (
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/quanghuydn8/app-theu/internal/order/errs"
)

func TestParseAmount(t *testing.T) {
	cases := map[string]int64{
		"350.000đ":      350000,
		"1,200,000 VND": 1200000,
		"350k":          350000,
		"1,5k":          1500,
		"₫ 99":          99,
		"0đ":            0,
		" 250 000 ":     250000,
		"120000":        120000,
	}
	for in, want := range cases {
		got, err := ParseAmount(in)
		require.NoError(t, err, in)
		assert.Equal(t, want, got, in)
	}
}

func TestParseAmountRejects(t *testing.T) {
	for _, in := range []string{"", "-5", "12a", "abc", "1.2.3k", "0.0005k", "1e3k", "1.5e2k", "9223372036854775.808k", "9223372036854776k"} {
		_, err := ParseAmount(in)
		require.Error(t, err, in)
		assert.Equal(t, errs.KindFormat, errs.KindOf(err), in)
	}
}

func TestParseAmountThousandsAtLimit(t *testing.T) {
	v, err := ParseAmount("9223372036854775.807k")
	require.NoError(t, err)
	assert.Equal(t, int64(math.MaxInt64), v)

	v, err = ParseAmount("1,5k")
	require.NoError(t, err)
	assert.Equal(t, int64(1500), v)
}

func TestAmountOf(t *testing.T) {
	v, err := AmountOf(float64(450000))
	require.NoError(t, err)
	assert.Equal(t, int64(450000), v)

	v, err = AmountOf("200k")
	require.NoError(t, err)
	assert.Equal(t, int64(200000), v)

	_, err = AmountOf(12.5)
	assert.Error(t, err)
	_, err = AmountOf(nil)
	assert.Error(t, err)
	_, err = AmountOf(true)
	assert.Error(t, err)
}

func TestParseDate(t *testing.T) {
	ref := time.Date(2024, 3, 10, 15, 30, 0, 0, time.UTC)
	day := func(y int, m time.Month, d int) time.Time { return time.Date(y, m, d, 0, 0, 0, 0, time.UTC) }

	cases := map[string]time.Time{
		"2024-01-05":          day(2024, 1, 5),
		"2024-01-05T10:00:00": day(2024, 1, 5),
		"05/01/2024":          day(2024, 1, 5),
		"5-1-2024":            day(2024, 1, 5),
		"5/1":                 day(2024, 1, 5),
		"hôm qua":             day(2024, 3, 9),
		"Hôm kia":             day(2024, 3, 8),
		"yesterday":           day(2024, 3, 9),
		"the day before":      day(2024, 3, 8),
		"hôm nay":             day(2024, 3, 10),
		"ngày mai":            day(2024, 3, 11),
	}
	for in, want := range cases {
		got := ParseDate(in, ref)
		require.NotNil(t, got, in)
		assert.True(t, want.Equal(*got), "%s: got %s", in, got)
	}

	assert.Nil(t, ParseDate("", ref))
	assert.Nil(t, ParseDate("sometime soon", ref))
	assert.Nil(t, ParseDate("31/02/2024", ref))
	for _, lookalike := range []string{"mãi", "mái", "mài", "ngày mái"} {
		assert.Nil(t, ParseDate(lookalike, ref), lookalike)
	}
	got := ParseDate("Mai", ref)
	require.NotNil(t, got)
	assert.True(t, day(2024, 3, 11).Equal(*got))
}

func TestMentionsKeepsDiacritics(t *testing.T) {
	assert.True(t, Mentions("Gửi ĐƯỜNG BAY nhé", []string{"đường bay"}))
	assert.False(t, Mentions("giao thứ bảy", []string{"bay"}))
	assert.False(t, Mentions("hẹn gặp lại", []string{"gấp"}))
	assert.True(t, Mentions("cần gấp", []string{"gấp"}))
	assert.Equal(t, "thứ bảy", Lower("  Thứ   BẢY "))
}

func TestFold(t *testing.T) {
	assert.Equal(t, "quan short", Fold("Quần   Short"))
	assert.Equal(t, "duong bay", Fold("Đường Bay"))
	assert.Equal(t, "tgtd", Fold("TGTĐ"))
	assert.True(t, ContainsAny("Khách cần trước ngày 20", []string{"deadline", "cần trước ngày"}))
	assert.False(t, ContainsAny("", []string{"gấp"}))
	assert.True(t, ContainsAny("ship 0đ nhé", []string{"0đ"}))
	assert.False(t, ContainsAny("cọc 100đ", []string{"0đ"}))
	assert.Equal(t, "t shirt den", Words("T-Shirt (đen)"))
}
