package cart

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"
)

// HTTPSyncer replaces the server-side cart over the cart update endpoint
type HTTPSyncer struct {
	client  *http.Client
	baseURL string
	token   string
}

// NewHTTPSyncer creates a syncer posting to baseURL with the principal's
// bearer credential
func NewHTTPSyncer(baseURL, token string) *HTTPSyncer {
	return &HTTPSyncer{
		client:  &http.Client{Timeout: 10 * time.Second},
		baseURL: baseURL,
		token:   token,
	}
}

type syncRequest struct {
	CartItems map[string]int `json:"cartItems"`
}

type syncResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}

// SyncCart posts the full snapshot; the server overwrites its copy wholesale
func (s *HTTPSyncer) SyncCart(ctx context.Context, snapshot map[string]int) error {
	body, err := json.Marshal(syncRequest{CartItems: snapshot})
	if err != nil {
		return fmt.Errorf("failed to marshal cart snapshot: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.baseURL+"/api/cart/update", bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	if s.token != "" {
		req.Header.Set("Authorization", "Bearer "+s.token)
	}

	resp, err := s.client.Do(req)
	if err != nil {
		return fmt.Errorf("cart sync request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("cart sync rejected: status %d", resp.StatusCode)
	}

	var out syncResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return fmt.Errorf("failed to decode cart sync response: %w", err)
	}
	if !out.Success {
		return fmt.Errorf("cart sync rejected: %s", out.Message)
	}
	return nil
}
