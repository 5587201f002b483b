// Package grpcapi talks to the todo API as a gRPC TodoService using a JSON codec.
package grpcapi

import (
	"context"
	"fmt"
	"strings"

	"go.opentelemetry.io/contrib/instrumentation/google.golang.org/grpc/otelgrpc"
	"go.uber.org/zap"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/credentials/insecure"
	"google.golang.org/grpc/status"

	"github.com/idilsaglam/tada/internal/api"
	"github.com/idilsaglam/tada/internal/model"
)

const serviceName = "todo.v1.TodoService"

const (
	methodListTodos        = "/" + serviceName + "/ListTodos"
	methodCreateTodo       = "/" + serviceName + "/CreateTodo"
	methodUpdateTodoStatus = "/" + serviceName + "/UpdateTodoStatus"
	methodDeleteTodo       = "/" + serviceName + "/DeleteTodo"
)

type ListTodosRequest struct {
	Statuses []model.Status `json:"statuses"`
}

type ListTodosResponse struct {
	Todos []model.Todo `json:"todos"`
}

type CreateTodoRequest struct {
	Body string `json:"body"`
}

type UpdateTodoStatusRequest struct {
	ID     int64        `json:"id"`
	Status model.Status `json:"status"`
}

type DeleteTodoRequest struct {
	ID int64 `json:"id"`
}

type DeleteTodoResponse struct {
	OK bool `json:"ok"`
}

// Client implements api.Service over a gRPC connection.
type Client struct {
	conn *grpc.ClientConn
}

type options struct {
	token    string
	logger   *zap.Logger
	dialOpts []grpc.DialOption
}

type Option func(*options)

func WithToken(token string) Option {
	return func(o *options) { o.token = strings.TrimSpace(token) }
}

func WithLogger(logger *zap.Logger) Option {
	return func(o *options) { o.logger = logger }
}

// WithDialOptions appends raw dial options (custom dialers, TLS).
func WithDialOptions(opts ...grpc.DialOption) Option {
	return func(o *options) { o.dialOpts = append(o.dialOpts, opts...) }
}

// Dial creates a client for addr. The connection is established lazily on
// the first call.
func Dial(addr string, opts ...Option) (*Client, error) {
	o := options{logger: zap.NewNop()}
	for _, opt := range opts {
		opt(&o)
	}

	dialOpts := []grpc.DialOption{
		grpc.WithTransportCredentials(insecure.NewCredentials()),
		grpc.WithStatsHandler(otelgrpc.NewClientHandler()),
		grpc.WithChainUnaryInterceptor(
			NewAuthUnaryInterceptor(o.token),
			NewLoggingUnaryInterceptor(o.logger),
		),
		grpc.WithDefaultCallOptions(grpc.CallContentSubtype(codecName)),
	}
	dialOpts = append(dialOpts, o.dialOpts...)

	conn, err := grpc.NewClient(addr, dialOpts...)
	if err != nil {
		return nil, fmt.Errorf("grpc dial %s: %w", addr, err)
	}
	return &Client{conn: conn}, nil
}

func (c *Client) Close() error {
	return c.conn.Close()
}

var _ api.Service = (*Client)(nil)

func (c *Client) GetAll(ctx context.Context, statuses []model.Status) ([]model.Todo, error) {
	var res ListTodosResponse
	if err := c.conn.Invoke(ctx, methodListTodos, &ListTodosRequest{Statuses: statuses}, &res); err != nil {
		return nil, mapError("ListTodos", err)
	}
	return res.Todos, nil
}

func (c *Client) Create(ctx context.Context, body string) (model.Todo, error) {
	var res model.Todo
	if err := c.conn.Invoke(ctx, methodCreateTodo, &CreateTodoRequest{Body: body}, &res); err != nil {
		return model.Todo{}, mapError("CreateTodo", err)
	}
	return res, nil
}

func (c *Client) UpdateStatus(ctx context.Context, id int64, st model.Status) (model.Todo, error) {
	var res model.Todo
	req := &UpdateTodoStatusRequest{ID: id, Status: st}
	if err := c.conn.Invoke(ctx, methodUpdateTodoStatus, req, &res); err != nil {
		return model.Todo{}, mapError("UpdateTodoStatus", err)
	}
	return res, nil
}

// Delete treats ok=false as not found, mirroring services that report a
// missing row without an error status.
func (c *Client) Delete(ctx context.Context, id int64) error {
	var res DeleteTodoResponse
	if err := c.conn.Invoke(ctx, methodDeleteTodo, &DeleteTodoRequest{ID: id}, &res); err != nil {
		return mapError("DeleteTodo", err)
	}
	if !res.OK {
		return fmt.Errorf("DeleteTodo %d: %w", id, api.ErrNotFound)
	}
	return nil
}

func mapError(method string, err error) error {
	st, ok := status.FromError(err)
	if !ok {
		return fmt.Errorf("%s: %w", method, err)
	}
	switch st.Code() {
	case codes.NotFound:
		return fmt.Errorf("%s: %w: %s", method, api.ErrNotFound, st.Message())
	case codes.InvalidArgument:
		return fmt.Errorf("%s: %w: %s", method, api.ErrInvalidArgument, st.Message())
	case codes.Unavailable, codes.DeadlineExceeded, codes.ResourceExhausted:
		return fmt.Errorf("%s: %w: %s", method, api.ErrUnavailable, st.Message())
	default:
		return fmt.Errorf("%s: %s: %s", method, st.Code(), st.Message())
	}
}
