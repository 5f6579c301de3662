// Package client is a typed JSON-RPC client for the todo service.
package client

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"

	"github.com/gorilla/rpc/v2/json2"

	"github.com/amirhosseinghanipour/todorpc/internal/schema"
)

// RPCPath is where the server mounts the JSON-RPC endpoint.
const RPCPath = "/rpc"

// maxErrorBody caps how much of a non-2xx body is read for the error message.
const maxErrorBody = 64 << 10

// Client calls the todo service. It holds no per-call state and is safe for concurrent use.
type Client struct {
	baseURL  string
	endpoint string
	headers  HeaderSource
	http     Doer
	validate *schema.Validator

	Todos *TodosClient
}

// New builds a client. No request is made until a procedure is called.
func New(cfg Config) *Client {
	c := &Client{
		baseURL:  ResolveBaseURL(cfg.BaseURL),
		headers:  cfg.Headers,
		http:     cfg.HTTPClient,
		validate: schema.NewValidator(),
	}
	c.endpoint = c.baseURL + RPCPath
	if c.http == nil {
		c.http = &http.Client{Timeout: DefaultTimeout}
	}
	c.Todos = &TodosClient{c: c}
	return c
}

// BaseURL returns the resolved server address.
func (c *Client) BaseURL() string {
	return c.baseURL
}

// Health calls health.Check.
func (c *Client) Health(ctx context.Context) (*schema.HealthStatus, error) {
	var out schema.HealthStatus
	if err := c.call(ctx, schema.MethodHealth, &schema.HealthArgs{}, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// call performs one JSON-RPC request. There are no retries.
func (c *Client) call(ctx context.Context, method string, args, reply interface{}) error {
	body, err := json2.EncodeClientRequest(method, args)
	if err != nil {
		return fmt.Errorf("encode %s: %w", method, err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("build %s request: %w", method, err)
	}
	if c.headers != nil {
		hs, err := c.headers.Headers(ctx)
		if err != nil {
			return fmt.Errorf("resolve headers: %w", err)
		}
		for k, v := range hs {
			req.Header.Set(k, v)
		}
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("%s: %w", method, err)
	}
	defer closeBody(resp.Body)

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		raw, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		return fromHTTPStatus(resp.StatusCode, raw)
	}
	if err := json2.DecodeClientResponse(resp.Body, reply); err != nil {
		var jerr *json2.Error
		if errors.As(err, &jerr) {
			return fromRPCError(jerr)
		}
		return fmt.Errorf("decode %s response: %w", method, err)
	}
	return nil
}

// closeBody drains the body so the connection can be reused.
func closeBody(body io.ReadCloser) {
	_, _ = io.Copy(io.Discard, body)
	_ = body.Close()
}
