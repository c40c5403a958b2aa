// Package scoring is the gateway to the external loan scoring service.
package scoring

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	"riskdesk/internal/config"

	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
)

const networkErrorMessage = "Unable to reach the scoring service"

// Request describes one outbound call
type Request struct {
	Method string
	// Body is sent as JSON when set
	Body interface{}
	// Form is sent url-encoded when set; it takes precedence over Body
	Form url.Values
	// Token is attached as a bearer credential unless Public is set
	Token  string
	Public bool
}

// Gateway performs authenticated calls to the scoring service
type Gateway struct {
	baseURL string
	client  *http.Client
}

// NewGateway creates a gateway for the configured scoring service
func NewGateway(cfg config.ScoringConfig) *Gateway {
	return NewGatewayWithClient(cfg.BaseURL, &http.Client{
		Timeout:   cfg.Timeout,
		Transport: otelhttp.NewTransport(http.DefaultTransport),
	})
}

// NewGatewayWithClient creates a gateway using the given http client
func NewGatewayWithClient(baseURL string, client *http.Client) *Gateway {
	return &Gateway{
		baseURL: strings.TrimRight(baseURL, "/"),
		client:  client,
	}
}

// Do sends one request and returns the raw JSON body of a 2xx response.
// Every failure is an *APIError. The gateway never touches session state.
func (g *Gateway) Do(ctx context.Context, path string, req Request) (json.RawMessage, error) {
	method := req.Method
	if method == "" {
		method = http.MethodGet
	}

	var body io.Reader
	contentType := ""
	switch {
	case req.Form != nil:
		body = strings.NewReader(req.Form.Encode())
		contentType = "application/x-www-form-urlencoded"
	case req.Body != nil:
		payload, err := json.Marshal(req.Body)
		if err != nil {
			return nil, &APIError{Kind: KindRequestFailed, Message: "failed to encode request body", Err: err}
		}
		body = bytes.NewReader(payload)
		contentType = "application/json"
	}

	httpReq, err := http.NewRequestWithContext(ctx, method, g.baseURL+path, body)
	if err != nil {
		return nil, &APIError{Kind: KindRequestFailed, Message: "failed to build request", Err: err}
	}
	httpReq.Header.Set("Accept", "application/json")
	if contentType != "" {
		httpReq.Header.Set("Content-Type", contentType)
	}
	if req.Token != "" && !req.Public {
		httpReq.Header.Set("Authorization", "Bearer "+req.Token)
	}

	resp, err := g.client.Do(httpReq)
	if err != nil {
		return nil, &APIError{Kind: KindNetworkError, Message: networkErrorMessage, Err: err}
	}
	defer resp.Body.Close()

	payload, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &APIError{Kind: KindNetworkError, Status: resp.StatusCode, Message: networkErrorMessage, Err: err}
	}

	if resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden {
		return nil, &APIError{
			Kind:    KindUnauthorized,
			Status:  resp.StatusCode,
			Message: errorMessage(resp.StatusCode, payload),
		}
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, &APIError{
			Kind:    KindRequestFailed,
			Status:  resp.StatusCode,
			Message: errorMessage(resp.StatusCode, payload),
		}
	}

	return json.RawMessage(payload), nil
}

// errorMessage prefers a string "detail" field of a JSON error body
func errorMessage(status int, payload []byte) string {
	var body struct {
		Detail interface{} `json:"detail"`
	}
	if err := json.Unmarshal(payload, &body); err == nil {
		if detail, ok := body.Detail.(string); ok && detail != "" {
			return detail
		}
	}
	return fmt.Sprintf("Request failed: %d", status)
}
