package webhook

import (
	"bytes"
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/amirhosseinghanipour/todorpc/internal/application/ports"
)

// Headers set on every todo event delivery.
const (
	HeaderEvent     = "X-Todo-Event"
	HeaderTodoID    = "X-Todo-Id"
	HeaderSignature = "X-Todo-Signature"
	userAgent       = "todorpc-webhook/1"
)

// DefaultTimeout bounds a single delivery attempt.
const DefaultTimeout = 10 * time.Second

// HTTPEmitter delivers todo change events to one subscriber URL.
type HTTPEmitter struct {
	client *http.Client
	url    string
	secret []byte
}

type HTTPEmitterOption func(*HTTPEmitter)

// WithClient replaces the delivery client.
func WithClient(c *http.Client) HTTPEmitterOption {
	return func(e *HTTPEmitter) {
		e.client = c
	}
}

// WithSigningSecret signs each body with HMAC-SHA256 in the X-Todo-Signature header
// ("sha256=<hex>"). An empty secret leaves deliveries unsigned.
func WithSigningSecret(secret string) HTTPEmitterOption {
	return func(e *HTTPEmitter) {
		if secret != "" {
			e.secret = []byte(secret)
		}
	}
}

func NewHTTPEmitter(url string, opts ...HTTPEmitterOption) *HTTPEmitter {
	e := &HTTPEmitter{
		client: &http.Client{Timeout: DefaultTimeout},
		url:    url,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Sign returns the X-Todo-Signature value for body.
func Sign(secret, body []byte) string {
	mac := hmac.New(sha256.New, secret)
	mac.Write(body)
	return "sha256=" + hex.EncodeToString(mac.Sum(nil))
}

// Emit POSTs the event as JSON. Any status outside 2xx is a *StatusError.
func (e *HTTPEmitter) Emit(ctx context.Context, event ports.TodoEvent) error {
	body, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("encode %s event: %w", event.Event, err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, e.url, bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("User-Agent", userAgent)
	req.Header.Set(HeaderEvent, event.Event)
	if event.TodoID != "" {
		req.Header.Set(HeaderTodoID, event.TodoID)
	}
	if e.secret != nil {
		req.Header.Set(HeaderSignature, Sign(e.secret, body))
	}
	resp, err := e.client.Do(req)
	if err != nil {
		return fmt.Errorf("deliver %s event: %w", event.Event, err)
	}
	resp.Body.Close()
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return &StatusError{Status: resp.StatusCode, Event: event.Event}
	}
	return nil
}

// StatusError reports a subscriber that answered outside 2xx.
type StatusError struct {
	Status int
	Event  string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("webhook rejected %s event with status %d", e.Event, e.Status)
}

// Temporary reports whether redelivering the same event may succeed: 408, 429 and 5xx.
func (e *StatusError) Temporary() bool {
	return e.Status == http.StatusRequestTimeout || e.Status == http.StatusTooManyRequests || e.Status >= 500
}

var _ ports.WebhookEmitter = (*HTTPEmitter)(nil)
