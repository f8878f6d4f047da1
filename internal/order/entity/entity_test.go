package entity

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseShop(t *testing.T) {
	cases := map[string]Shop{
		"TGTĐ":            ShopTGTD,
		"tgtd":            ShopTGTD,
		"Shop TGTD":       ShopTGTD,
		"LC":              ShopLanhCanh,
		"Lanh Canh":       ShopLanhCanh,
		"lánh cảnh":       ShopLanhCanh,
		"IS":              ShopInside,
		"inside":          ShopInside,
		"LANH_CANH":       ShopLanhCanh,
		"":                ShopInside,
		"some other shop": ShopInside,
	}
	for in, want := range cases {
		assert.Equal(t, want, ParseShop(in), in)
	}
}

func TestShopSlots(t *testing.T) {
	_, ok := ShopLanhCanh.Slot(SlotDesign)
	assert.False(t, ok)

	spec, ok := ShopTGTD.Slot(SlotSub2)
	require.True(t, ok)
	assert.True(t, spec.Multi)

	for _, p := range Shops() {
		_, ok := p.Shop.Slot(SlotFix1)
		assert.True(t, ok, p.Shop)
		_, ok = p.Shop.Slot(SlotMain)
		assert.True(t, ok, p.Shop)
	}
	assert.Equal(t, ShopInside, Shop("UNKNOWN").Profile().Shop)
}

func TestParseStatus(t *testing.T) {
	cases := map[string]Status{
		"Mới":               StatusNew,
		"New":               StatusNew,
		"Đã xác nhận":       StatusConfirmed,
		"chờ sản xuất":      StatusQueued,
		"Đã duyệt thiết kế": StatusDesignApproved,
		"Done":              StatusCompleted,
		"Đã giao":           StatusCompleted,
		"Hoàn thành":        StatusCompleted,
		"Cancelled":         StatusCanceled,
		"Đã hủy":            StatusCanceled,
		"Hủy":               StatusCanceled,
		"IN_PRODUCTION":     StatusInProduction,
	}
	for in, want := range cases {
		got, ok := ParseStatus(in)
		assert.True(t, ok, in)
		assert.Equal(t, want, got, in)
	}
	_, ok := ParseStatus("teleported")
	assert.False(t, ok)
}

func TestStatusOrder(t *testing.T) {
	assert.Less(t, StatusQueued.Rank(), StatusDesignApproved.Rank())
	assert.True(t, StatusCompleted.IsTerminal())
	assert.True(t, StatusCanceled.IsTerminal())
	assert.False(t, StatusShipped.IsTerminal())
	assert.Equal(t, -1, Status("X").Rank())
	assert.Equal(t, "Đổi/sửa/đền", StatusExchanged.Label())
}

func TestNormalizeTags(t *testing.T) {
	got := NormalizeTags([]string{"Chờ phôi", " thiếu file tk ", "AWAITING_BLANK", "", "Hàng dễ vỡ"})
	assert.Equal(t, StringList{TagAwaitingBlank, TagMissingDesignFile, "Hàng dễ vỡ"}, got)
}

func TestStringListScan(t *testing.T) {
	var l StringList
	require.NoError(t, l.Scan([]byte(`["SEWING","EMBROIDERY"]`)))
	assert.True(t, l.Has(TagSewing))

	require.NoError(t, l.Scan(nil))
	assert.Empty(t, l)

	v, err := StringList(nil).Value()
	require.NoError(t, err)
	assert.Equal(t, "[]", v)
}

func TestOrderItemImages(t *testing.T) {
	item := &OrderItem{ImgMain: "main.jpg"}
	assert.Equal(t, "main.jpg", item.PrintImage())

	item.SetImage(SlotDesign, "a.png ; b.png")
	assert.Equal(t, "a.png", item.PrintImage())
	assert.Equal(t, []string{"a.png", "b.png"}, Files(item.Image(SlotDesign)))
}

func TestOrderSyncDerived(t *testing.T) {
	o := &Order{TotalAmount: 500000, DepositAmount: 200000}
	o.SyncDerived()
	assert.Equal(t, int64(300000), o.RemainingAmount)
}
