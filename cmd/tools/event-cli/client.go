package main

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/annel0/voxel-engine/internal/eventbus"
)

// Client читает журнал событий отладочного REST API
type Client struct {
	base string
	http *http.Client
}

// NewClient создаёт клиента для сервера по адресу base
func NewClient(base string) *Client {
	return &Client{
		base: strings.TrimRight(base, "/"),
		http: &http.Client{Timeout: 10 * time.Second},
	}
}

type eventsResponse struct {
	Success bool                 `json:"success"`
	Message string               `json:"message"`
	Data    []*eventbus.Envelope `json:"data"`
}

// Events возвращает последние события сервера; eventType сужает выборку на стороне сервера
func (c *Client) Events(ctx context.Context, eventType string) ([]*eventbus.Envelope, error) {
	u := c.base + "/api/events"
	if eventType != "" {
		u += "?type=" + url.QueryEscape(eventType)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, err
	}
	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("запрос событий: %w", err)
	}
	defer resp.Body.Close()

	var body eventsResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return nil, fmt.Errorf("разбор ответа (%s): %w", resp.Status, err)
	}
	if !body.Success {
		return nil, fmt.Errorf("сервер ответил %s: %s", resp.Status, body.Message)
	}
	return body.Data, nil
}
