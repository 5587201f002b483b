// Package trpc talks to the todo API over tRPC's HTTP wire format.
package trpc

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/idilsaglam/tada/internal/api"
	"github.com/idilsaglam/tada/internal/model"
)

const (
	defaultPrefix = "/api/trpc"

	procGetAll       = "todo.getAll"
	procCreate       = "todo.create"
	procUpdateStatus = "todoStatus.update"
	procDelete       = "todo.delete"
)

// Client implements api.Service. Calls are never retried.
type Client struct {
	httpClient *http.Client
	baseURL    string
	prefix     string
	superJSON  bool
	token      string
	timeout    time.Duration
}

type Option func(*Client)

func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.httpClient = hc }
}

// WithTimeout bounds each request; zero means no client-side timeout.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) { c.timeout = d }
}

func WithPathPrefix(prefix string) Option {
	return func(c *Client) { c.prefix = "/" + strings.Trim(prefix, "/") }
}

// WithSuperJSON wraps inputs and unwraps outputs the way the superjson
// transformer does ({"json": ...}).
func WithSuperJSON() Option {
	return func(c *Client) { c.superJSON = true }
}

func WithToken(token string) Option {
	return func(c *Client) { c.token = strings.TrimSpace(token) }
}

func New(baseURL string, opts ...Option) *Client {
	c := &Client{
		httpClient: &http.Client{},
		baseURL:    strings.TrimRight(baseURL, "/"),
		prefix:     defaultPrefix,
	}
	for _, opt := range opts {
		opt(c)
	}
	// applied on a copy so a client passed to WithHTTPClient stays untouched
	if c.timeout > 0 {
		hc := *c.httpClient
		hc.Timeout = c.timeout
		c.httpClient = &hc
	}
	return c
}

var _ api.Service = (*Client)(nil)

type getAllInput struct {
	Statuses []model.Status `json:"statuses"`
}

type createInput struct {
	Body string `json:"body"`
}

type updateStatusInput struct {
	TodoID int64        `json:"todoId"`
	Status model.Status `json:"status"`
}

type deleteInput struct {
	ID int64 `json:"id"`
}

func (c *Client) GetAll(ctx context.Context, statuses []model.Status) ([]model.Todo, error) {
	if statuses == nil {
		statuses = []model.Status{}
	}
	var out []model.Todo
	if err := c.query(ctx, procGetAll, getAllInput{Statuses: statuses}, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Client) Create(ctx context.Context, body string) (model.Todo, error) {
	var out model.Todo
	err := c.mutate(ctx, procCreate, createInput{Body: body}, &out)
	return out, err
}

func (c *Client) UpdateStatus(ctx context.Context, id int64, status model.Status) (model.Todo, error) {
	var out model.Todo
	err := c.mutate(ctx, procUpdateStatus, updateStatusInput{TodoID: id, Status: status}, &out)
	return out, err
}

func (c *Client) Delete(ctx context.Context, id int64) error {
	return c.mutate(ctx, procDelete, deleteInput{ID: id}, nil)
}

func (c *Client) query(ctx context.Context, proc string, input, out any) error {
	payload, err := c.encode(input)
	if err != nil {
		return fmt.Errorf("%s: %w", proc, err)
	}
	u := c.baseURL + c.prefix + "/" + proc + "?input=" + url.QueryEscape(string(payload))
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return fmt.Errorf("%s: new request: %w", proc, err)
	}
	return c.do(req, proc, out)
}

func (c *Client) mutate(ctx context.Context, proc string, input, out any) error {
	payload, err := c.encode(input)
	if err != nil {
		return fmt.Errorf("%s: %w", proc, err)
	}
	u := c.baseURL + c.prefix + "/" + proc
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, u, bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("%s: new request: %w", proc, err)
	}
	req.Header.Set("Content-Type", "application/json")
	return c.do(req, proc, out)
}

func (c *Client) do(req *http.Request, proc string, out any) error {
	req.Header.Set("Accept", "application/json")
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		if ctxErr := req.Context().Err(); ctxErr != nil {
			return fmt.Errorf("%s: %w", proc, ctxErr)
		}
		return fmt.Errorf("%s: %w: %v", proc, api.ErrUnavailable, err)
	}
	defer resp.Body.Close()

	b, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("%s: read response: %w", proc, err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return c.decodeError(proc, resp.StatusCode, b)
	}

	var env envelope
	if err := json.Unmarshal(b, &env); err != nil {
		return fmt.Errorf("%s: decode response: %w", proc, err)
	}
	if len(env.Error) > 0 && string(env.Error) != "null" {
		return c.decodeError(proc, resp.StatusCode, b)
	}
	if out == nil || env.Result == nil {
		return nil
	}
	data := env.Result.Data
	if c.superJSON {
		var wrapped superJSONValue
		if err := json.Unmarshal(data, &wrapped); err != nil {
			return fmt.Errorf("%s: decode superjson: %w", proc, err)
		}
		data = wrapped.JSON
	}
	if len(data) == 0 || string(data) == "null" {
		return nil
	}
	if err := json.Unmarshal(data, out); err != nil {
		return fmt.Errorf("%s: decode data: %w", proc, err)
	}
	return nil
}

func (c *Client) encode(input any) ([]byte, error) {
	b, err := json.Marshal(input)
	if err != nil {
		return nil, fmt.Errorf("marshal input: %w", err)
	}
	if !c.superJSON {
		return b, nil
	}
	if b, err = json.Marshal(superJSONValue{JSON: b}); err != nil {
		return nil, fmt.Errorf("marshal input: %w", err)
	}
	return b, nil
}

type envelope struct {
	Result *struct {
		Data json.RawMessage `json:"data"`
	} `json:"result"`
	Error json.RawMessage `json:"error"`
}

type superJSONValue struct {
	JSON json.RawMessage `json:"json"`
}

type errorShape struct {
	Message string `json:"message"`
	Code    int    `json:"code"`
	Data    struct {
		Code       string `json:"code"`
		HTTPStatus int    `json:"httpStatus"`
	} `json:"data"`
}

// decodeError turns a tRPC error body into an error wrapping one of the api
// sentinels when the code is recognised.
func (c *Client) decodeError(proc string, httpStatus int, body []byte) error {
	var env struct {
		Error json.RawMessage `json:"error"`
	}
	var shape errorShape
	if err := json.Unmarshal(body, &env); err == nil && len(env.Error) > 0 {
		raw := env.Error
		var wrapped superJSONValue
		if json.Unmarshal(raw, &wrapped) == nil && len(wrapped.JSON) > 0 {
			raw = wrapped.JSON
		}
		_ = json.Unmarshal(raw, &shape)
	}
	if shape.Data.HTTPStatus != 0 {
		httpStatus = shape.Data.HTTPStatus
	}
	msg := shape.Message
	if msg == "" {
		msg = strings.TrimSpace(string(body))
	}

	if sentinel := classify(shape.Data.Code, httpStatus); sentinel != nil {
		return fmt.Errorf("%s: %w: %s", proc, sentinel, msg)
	}
	return fmt.Errorf("%s: status=%d: %s", proc, httpStatus, msg)
}

func classify(code string, httpStatus int) error {
	switch code {
	case "NOT_FOUND":
		return api.ErrNotFound
	case "BAD_REQUEST", "PARSE_ERROR", "UNPROCESSABLE_CONTENT":
		return api.ErrInvalidArgument
	case "TIMEOUT", "TOO_MANY_REQUESTS", "CLIENT_CLOSED_REQUEST":
		return api.ErrUnavailable
	}
	switch {
	case httpStatus == http.StatusNotFound:
		return api.ErrNotFound
	case httpStatus == http.StatusBadRequest:
		return api.ErrInvalidArgument
	case httpStatus == http.StatusServiceUnavailable, httpStatus == http.StatusBadGateway,
		httpStatus == http.StatusGatewayTimeout, httpStatus == http.StatusTooManyRequests:
		return api.ErrUnavailable
	}
	return nil
}
