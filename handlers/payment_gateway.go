package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"buildflow-api/config"
)

const razorpayOrdersEndpoint = "https://api.razorpay.com/v1/orders"

type gatewayOrder struct {
	ID       string `json:"id"`
	Amount   int64  `json:"amount"`
	Currency string `json:"currency"`
}

// createGatewayOrder registers an order with Razorpay over its REST API
func createGatewayOrder(ctx context.Context, cfg *config.Config, amount int64) (*gatewayOrder, error) {
	body, err := json.Marshal(map[string]any{
		"amount":   amount,
		"currency": "INR",
		"receipt":  fmt.Sprintf("receipt_%d", time.Now().UnixMilli()),
	})
	if err != nil {
		return nil, err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, razorpayOrdersEndpoint, bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	req.SetBasicAuth(cfg.RazorpayKeyID, cfg.RazorpaySecret)
	req.Header.Set("Content-Type", "application/json")

	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()
	if resp.StatusCode >= 300 {
		return nil, fmt.Errorf("razorpay: unexpected status %d", resp.StatusCode)
	}

	var out gatewayOrder
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return nil, err
	}
	return &out, nil
}
