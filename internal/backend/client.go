package backend

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/LeoncioDev/github-analyzer/internal/model"
)

// maxBodyBytes bounds how much of a response body is read.
const maxBodyBytes = 8 << 20

// Default response field names, in lookup order. The second name of each
// pair is the older backend revision's field.
var (
	DefaultResultFields = []string{"analise", "resposta"}
	DefaultErrorFields  = []string{"erro", "detail"}
)

// Ensure Client implements model.Backend.
var _ model.Backend = (*Client)(nil)

// Options configures response parsing.
type Options struct {
	ResultFields []string
	ErrorFields  []string
}

// Client posts JSON payloads to the analysis backend.
type Client struct {
	baseURL      string
	httpClient   *http.Client
	resultFields []string
	errorFields  []string
	logger       *slog.Logger
}

// NewClient creates a client for the backend at baseURL. Empty field lists in
// opts fall back to the defaults.
func NewClient(baseURL string, httpClient *http.Client, opts Options, logger *slog.Logger) *Client {
	if len(opts.ResultFields) == 0 {
		opts.ResultFields = DefaultResultFields
	}
	if len(opts.ErrorFields) == 0 {
		opts.ErrorFields = DefaultErrorFields
	}
	return &Client{
		baseURL:      strings.TrimRight(baseURL, "/"),
		httpClient:   httpClient,
		resultFields: opts.ResultFields,
		errorFields:  opts.ErrorFields,
		logger:       logger,
	}
}

// Post sends payload as JSON to endpoint and returns the result HTML.
//
// Errors:
//   - *model.HTTPError for non-2xx responses, or a 2xx carrying only an error field
//   - *model.TransportError when the request fails or the body is not JSON
//   - model.ErrUnexpectedResponse when a 2xx body has neither result nor error fields
func (c *Client) Post(ctx context.Context, endpoint string, payload any) (string, error) {
	body, err := json.Marshal(payload)
	if err != nil {
		return "", fmt.Errorf("marshal %s payload: %w", endpoint, err)
	}

	url := c.baseURL + "/" + strings.TrimLeft(endpoint, "/")
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("create %s request: %w", endpoint, err)
	}
	requestID := uuid.NewString()
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	req.Header.Set("X-Request-ID", requestID)

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.logger.Warn("backend request failed",
			"request_id", requestID,
			"endpoint", endpoint,
			"error", err,
		)
		return "", &model.TransportError{Err: err}
	}
	defer resp.Body.Close()

	respBytes, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return "", &model.TransportError{Err: fmt.Errorf("read response: %w", err)}
	}

	c.logger.Debug("backend response",
		"request_id", requestID,
		"endpoint", endpoint,
		"status", resp.StatusCode,
		"bytes", len(respBytes),
		"duration", time.Since(start),
	)

	return c.parse(resp.StatusCode, respBytes)
}

func (c *Client) parse(status int, body []byte) (string, error) {
	ok := status >= 200 && status < 300

	var fields map[string]json.RawMessage
	if err := json.Unmarshal(body, &fields); err != nil {
		if !ok {
			return "", &model.HTTPError{StatusCode: status, Err: fmt.Errorf("decode error body: %w", err)}
		}
		return "", &model.TransportError{Err: fmt.Errorf("decode response: %w", err)}
	}

	if !ok {
		return "", &model.HTTPError{StatusCode: status, Message: firstMessage(fields, c.errorFields)}
	}

	if result, found := firstString(fields, c.resultFields); found {
		return result, nil
	}
	// Some backend revisions answer 200 with an error field instead of a status.
	if msg := firstMessage(fields, c.errorFields); msg != "" {
		return "", &model.HTTPError{StatusCode: status, Message: msg}
	}
	return "", model.ErrUnexpectedResponse
}

// firstString returns the first non-empty string value among names.
func firstString(fields map[string]json.RawMessage, names []string) (string, bool) {
	for _, name := range names {
		raw, ok := fields[name]
		if !ok {
			continue
		}
		var s string
		if err := json.Unmarshal(raw, &s); err == nil && s != "" {
			return s, true
		}
	}
	return "", false
}

// firstMessage returns a readable message from the first present error field.
// Besides plain strings it understands FastAPI validation lists
// ([{"loc": [...], "msg": "..."}]) and {"message": "..."} objects.
func firstMessage(fields map[string]json.RawMessage, names []string) string {
	for _, name := range names {
		raw, ok := fields[name]
		if !ok {
			continue
		}
		if msg := messageFrom(raw); msg != "" {
			return msg
		}
	}
	return ""
}

type validationItem struct {
	Loc     []any  `json:"loc"`
	Msg     string `json:"msg"`
	Message string `json:"message"`
}

func messageFrom(raw json.RawMessage) string {
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		return strings.TrimSpace(s)
	}

	var items []validationItem
	if err := json.Unmarshal(raw, &items); err == nil {
		var parts []string
		for _, it := range items {
			text := it.Msg
			if text == "" {
				text = it.Message
			}
			if text == "" {
				continue
			}
			if field := lastLoc(it.Loc); field != "" {
				text = field + ": " + text
			}
			parts = append(parts, text)
		}
		return strings.Join(parts, "; ")
	}

	var item validationItem
	if err := json.Unmarshal(raw, &item); err == nil {
		if item.Msg != "" {
			return item.Msg
		}
		return item.Message
	}
	return ""
}

func lastLoc(loc []any) string {
	if len(loc) == 0 {
		return ""
	}
	if s, ok := loc[len(loc)-1].(string); ok {
		return s
	}
	return ""
}
