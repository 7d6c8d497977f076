// Package translate is a client for the public Google Translate endpoint.
package translate

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"

	"github.com/michela/coach/internal/metrics"
)

// DefaultURL is the keyless translate endpoint.
const DefaultURL = "https://translate.googleapis.com"

// Translator converts text between languages.
type Translator interface {
	Translate(ctx context.Context, text, source, target string) (string, error)
}

// Client implements Translator.
type Client struct {
	client *resty.Client
}

// New creates a Client for baseURL.
func New(baseURL string, timeout time.Duration) *Client {
	if baseURL == "" {
		baseURL = DefaultURL
	}
	c := resty.New().
		SetBaseURL(baseURL).
		SetTimeout(timeout)
	return &Client{client: c}
}

// Translate returns text rendered in target. An empty input is returned unchanged.
func (c *Client) Translate(ctx context.Context, text, source, target string) (out string, err error) {
	if strings.TrimSpace(text) == "" || source == target {
		return text, nil
	}
	start := time.Now()
	defer func() { metrics.ObserveUpstream("translate", start, err) }()

	resp, err := c.client.R().
		SetContext(ctx).
		SetQueryParams(map[string]string{
			"client": "gtx",
			"sl":     source,
			"tl":     target,
			"dt":     "t",
			"q":      text,
		}).
		Get("/translate_a/single")
	if err != nil {
		return "", fmt.Errorf("translate request: %w", err)
	}
	if resp.StatusCode() != http.StatusOK {
		return "", fmt.Errorf("translate status %d", resp.StatusCode())
	}
	return parseSegments(resp.Body())
}

// parseSegments joins the translated segments of a response shaped like
// [[["translated","original",...],...],null,"ja",...].
func parseSegments(body []byte) (string, error) {
	var raw []any
	if err := json.Unmarshal(body, &raw); err != nil {
		return "", fmt.Errorf("decode translation: %w", err)
	}
	if len(raw) == 0 {
		return "", fmt.Errorf("empty translation response")
	}
	segs, ok := raw[0].([]any)
	if !ok {
		return "", fmt.Errorf("unexpected translation payload")
	}
	var sb strings.Builder
	for _, s := range segs {
		parts, ok := s.([]any)
		if !ok || len(parts) == 0 {
			continue
		}
		if txt, ok := parts[0].(string); ok {
			sb.WriteString(txt)
		}
	}
	if sb.Len() == 0 {
		return "", fmt.Errorf("translation returned no text")
	}
	return sb.String(), nil
}
