package intake

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
)

// Extractor turns raw chat text into the loosely typed JSON payload that
// Normalize consumes.
type Extractor interface {
	Extract(ctx context.Context, chat string, ref time.Time) ([]byte, error)
}

// HTTPExtractor posts the chat and the instruction to an extraction endpoint
// and returns the response body as the payload.
type HTTPExtractor struct {
	endpoint   string
	apiKey     string
	httpClient *http.Client
}

func NewHTTPExtractor(endpoint, apiKey string, timeout time.Duration) *HTTPExtractor {
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &HTTPExtractor{
		endpoint:   endpoint,
		apiKey:     apiKey,
		httpClient: &http.Client{Timeout: timeout},
	}
}

type extractRequest struct {
	Instruction   string `json:"instruction"`
	Text          string `json:"text"`
	ReferenceDate string `json:"reference_date"`
}

func (e *HTTPExtractor) Extract(ctx context.Context, chat string, ref time.Time) ([]byte, error) {
	body, err := json.Marshal(extractRequest{
		Instruction:   Prompt(ref),
		Text:          chat,
		ReferenceDate: ref.Format("2006-01-02"),
	})
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, e.endpoint, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("build extraction request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if e.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+e.apiKey)
	}

	resp, err := e.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("call extraction service: %w", err)
	}
	defer resp.Body.Close()

	payload, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return nil, fmt.Errorf("read extraction response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("extraction service returned %d: %s", resp.StatusCode, bytes.TrimSpace(payload))
	}
	return payload, nil
}
