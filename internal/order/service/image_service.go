package service

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/quanghuydn8/app-theu/internal/order/entity"
	"github.com/quanghuydn8/app-theu/internal/order/errs"
	"github.com/quanghuydn8/app-theu/internal/order/storage"
)

// Upload is one file to store.
type Upload struct {
	Name        string
	Size        int64
	ContentType string
	Body        io.Reader
}

// ImageService stores item pictures in the slots the order's shop has.
type ImageService struct {
	orders OrderStore
	images ImageStore
	order  *OrderService
}

func NewImageService(orders OrderStore, images ImageStore, order *OrderService) *ImageService {
	return &ImageService{orders: orders, images: images, order: order}
}

// Upload writes files into slot. A multi-file slot appends to what it
// holds; any other slot takes exactly one file and replaces its value.
func (s *ImageService) Upload(ctx context.Context, itemID string, slot entity.ImageSlot, files []Upload) (*entity.OrderItem, error) {
	if s.images == nil {
		return nil, errs.Validation("slot", "no image storage is configured")
	}
	if len(files) == 0 {
		return nil, errs.Validation("files", "no file uploaded")
	}
	item, err := s.orders.GetItem(ctx, itemID)
	if err != nil {
		return nil, err
	}
	o, err := s.orders.GetOrder(ctx, item.OrderCode)
	if err != nil {
		return nil, err
	}
	def, ok := o.Shop.Slot(slot)
	if !ok {
		return nil, errs.Validation("slot", fmt.Sprintf("%s orders have no %q image slot", o.Shop.Label(), slot))
	}
	if !def.Multi && len(files) > 1 {
		return nil, errs.Validation("files", fmt.Sprintf("%s takes a single file", def.Label))
	}

	now := s.order.now()
	urls := make([]string, 0, len(files))
	for _, f := range files {
		url, err := s.images.Put(ctx, storage.ObjectName(o.Code, f.Name, now), f.Body, f.Size, f.ContentType)
		if err != nil {
			return nil, fmt.Errorf("store image: %w", err)
		}
		urls = append(urls, url)
	}

	value := strings.Join(urls, entity.MultiFileSeparator)
	if def.Multi {
		value = strings.Join(append(entity.Files(item.Image(slot)), urls...), entity.MultiFileSeparator)
	}
	if err := s.orders.UpdateItemFields(ctx, itemID, map[string]interface{}{entity.SlotColumns[slot]: value}); err != nil {
		return nil, fmt.Errorf("save image: %w", err)
	}
	item.SetImage(slot, value)

	s.order.changed(ctx, o.Code, "image")
	return item, nil
}
