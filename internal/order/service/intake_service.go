package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/quanghuydn8/app-theu/internal/order/errs"
	"github.com/quanghuydn8/app-theu/internal/order/intake"
)

// IntakeService turns chats into order drafts. Drafts are not saved.
type IntakeService struct {
	extractor intake.Extractor
	now       func() time.Time
}

func NewIntakeService(extractor intake.Extractor, now func() time.Time) *IntakeService {
	return &IntakeService{extractor: extractor, now: now}
}

// Normalize applies intake policy to an already extracted payload.
func (s *IntakeService) Normalize(payload []byte, chat string) (*intake.Draft, error) {
	return intake.Normalize(payload, chat, s.now())
}

// Parse sends the chat to the extraction service and normalizes the answer.
func (s *IntakeService) Parse(ctx context.Context, chat string) (*intake.Draft, error) {
	if strings.TrimSpace(chat) == "" {
		return nil, errs.Validation("text", "chat text is empty")
	}
	if s.extractor == nil {
		return nil, errs.Validation("text", "no extraction service is configured")
	}
	ref := s.now()
	payload, err := s.extractor.Extract(ctx, chat, ref)
	if err != nil {
		return nil, fmt.Errorf("extract order: %w", err)
	}
	return intake.Normalize(payload, chat, ref)
}
