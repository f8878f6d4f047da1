package entity

import (
	"strings"

	"github.com/quanghuydn8/app-theu/internal/order/normalize"
)

// Shop is one of the business lines sharing the desk.
type Shop string

const (
	ShopInside   Shop = "INSIDE"
	ShopTGTD     Shop = "TGTD"
	ShopLanhCanh Shop = "LANH_CANH"
)

// Flow separates shops that approve a design photo before production from the
// lean shop that goes straight to production.
type Flow string

const (
	FlowDesign Flow = "design"
	FlowLean   Flow = "lean"
)

// ImageSlot names an image column on an order item.
type ImageSlot string

const (
	SlotMain   ImageSlot = "main"
	SlotSub1   ImageSlot = "sub1"
	SlotSub2   ImageSlot = "sub2"
	SlotDesign ImageSlot = "design"
	SlotFix1   ImageSlot = "fix1"
	SlotFix2   ImageSlot = "fix2"
)

// MultiFileSeparator joins several file URLs stored in one slot.
const MultiFileSeparator = " ; "

// SlotSpec describes one image slot as a shop uses it.
type SlotSpec struct {
	Slot  ImageSlot `json:"slot"`
	Label string    `json:"label"`
	Multi bool      `json:"multi"`
}

// ShopProfile is everything that differs between shops.
type ShopProfile struct {
	Shop         Shop       `json:"shop"`
	Label        string     `json:"label"`
	Aliases      []string   `json:"-"`
	Flow         Flow       `json:"flow"`
	PrintBlocked []Status   `json:"print_blocked"`
	PrintFrom    Status     `json:"print_from"`
	Slots        []SlotSpec `json:"slots"`
	Tags         []Tag      `json:"tags"`
}

var correctionSlots = []SlotSpec{
	{Slot: SlotFix1, Label: "Ảnh sửa 1"},
	{Slot: SlotFix2, Label: "Ảnh sửa 2"},
}

var designBlocked = []Status{
	StatusNew, StatusConfirmed, StatusQueued, StatusInDesign, StatusAwaitingDesignApproval,
}

var shopProfiles = []ShopProfile{
	{
		Shop:         ShopInside,
		Label:        "Inside",
		Aliases:      []string{"inside", "is"},
		Flow:         FlowDesign,
		PrintBlocked: designBlocked,
		PrintFrom:    StatusDesignApproved,
		Slots: append([]SlotSpec{
			{Slot: SlotMain, Label: "Ảnh chính"},
			{Slot: SlotSub1, Label: "Ảnh phụ"},
			{Slot: SlotDesign, Label: "File thiết kế", Multi: true},
		}, correctionSlots...),
		Tags: Tags,
	},
	{
		Shop:         ShopTGTD,
		Label:        "TGTĐ",
		Aliases:      []string{"tgtd", "tgtđ"},
		Flow:         FlowDesign,
		PrintBlocked: designBlocked,
		PrintFrom:    StatusDesignApproved,
		Slots: append([]SlotSpec{
			{Slot: SlotMain, Label: "Ảnh chính"},
			{Slot: SlotSub1, Label: "Ảnh AI"},
			{Slot: SlotDesign, Label: "File thiết kế", Multi: true},
			{Slot: SlotSub2, Label: "File thêu", Multi: true},
		}, correctionSlots...),
		Tags: Tags,
	},
	{
		Shop:         ShopLanhCanh,
		Label:        "Lanh Canh",
		Aliases:      []string{"lanh canh", "lc"},
		Flow:         FlowLean,
		PrintBlocked: []Status{StatusNew, StatusConfirmed},
		PrintFrom:    StatusQueued,
		Slots: append([]SlotSpec{
			{Slot: SlotMain, Label: "Ảnh chính"},
			{Slot: SlotSub1, Label: "Ảnh mẫu sửa"},
		}, correctionSlots...),
		Tags: []Tag{TagEmbroidery, TagSewing, TagAwaitingBlank, TagAwaitingPickup},
	},
}

// Shops lists the shop profiles in display order.
func Shops() []ShopProfile {
	return append([]ShopProfile(nil), shopProfiles...)
}

// Profile returns the shop's profile; an unknown shop gets the default (Inside) one.
func (s Shop) Profile() ShopProfile {
	for _, p := range shopProfiles {
		if p.Shop == s {
			return p
		}
	}
	return shopProfiles[0]
}

func (s Shop) Label() string { return s.Profile().Label }

func (s Shop) Valid() bool {
	for _, p := range shopProfiles {
		if p.Shop == s {
			return true
		}
	}
	return false
}

// Slot returns the shop's spec for slot, if the shop has that slot.
func (s Shop) Slot(slot ImageSlot) (SlotSpec, bool) {
	for _, spec := range s.Profile().Slots {
		if spec.Slot == slot {
			return spec, true
		}
	}
	return SlotSpec{}, false
}

// ParseShop matches a code, label or alias ignoring case and diacritics.
// Anything else is Inside.
func ParseShop(text string) Shop {
	folded := normalize.Fold(text)
	if folded == "" {
		return ShopInside
	}
	for _, p := range shopProfiles {
		if folded == normalize.Fold(string(p.Shop)) || folded == normalize.Fold(p.Label) {
			return p.Shop
		}
		for _, a := range p.Aliases {
			if folded == normalize.Fold(a) {
				return p.Shop
			}
		}
	}
	// "Shop TGTĐ", "lanh canh store" and similar
	for _, p := range shopProfiles {
		for _, a := range p.Aliases {
			if a := normalize.Fold(a); len(a) > 2 && strings.Contains(folded, a) {
				return p.Shop
			}
		}
	}
	return ShopInside
}
