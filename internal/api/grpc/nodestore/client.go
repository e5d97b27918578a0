package nodestore

import (
	"context"
	"fmt"
	"time"

	grpcmeta "github.com/permanode/permastore/internal/api/grpc/metadata"
	"github.com/permanode/permastore/internal/hexdata"
	platformgrpc "github.com/permanode/permastore/internal/platform/grpc"
	"github.com/permanode/permastore/internal/storage"
	"google.golang.org/grpc"
	"google.golang.org/protobuf/types/known/structpb"
	"google.golang.org/protobuf/types/known/wrapperspb"
)

// Client is a typed NodeStore client. It translates between Go values and
// the struct-based wire shape, and attaches the owner token to mutations.
type Client struct {
	cc     *grpc.ClientConn
	client NodeStoreClient

	// Token is the owner token attached to Set and Del calls.
	Token string

	// Timeout applies per RPC when non-zero.
	Timeout time.Duration
}

// Dial connects to a NodeStore endpoint and waits for its health check.
func Dial(ctx context.Context, target string, dialTimeout time.Duration) (*Client, error) {
	conn, err := platformgrpc.DialWithHealth(
		ctx,
		nil,
		target,
		dialTimeout,
		nil,
		platformgrpc.DefaultClientDialOptions()...,
	)
	if err != nil {
		return nil, fmt.Errorf("dial node store: %w", err)
	}
	return NewClient(conn), nil
}

// NewClient wraps an existing connection.
func NewClient(conn *grpc.ClientConn) *Client {
	return &Client{cc: conn, client: NewNodeStoreClient(conn)}
}

// Close releases the underlying connection.
func (c *Client) Close() error {
	if c == nil || c.cc == nil {
		return nil
	}
	return c.cc.Close()
}

func (c *Client) callCtx(ctx context.Context, withToken bool) (context.Context, context.CancelFunc) {
	if ctx == nil {
		ctx = context.Background()
	}
	if withToken {
		ctx = grpcmeta.WithOwnerToken(ctx, c.Token)
	}
	if c.Timeout > 0 {
		return context.WithTimeout(ctx, c.Timeout)
	}
	return ctx, func() {}
}

// Set writes data on a node, allocating it if necessary.
func (c *Client) Set(ctx context.Context, owner string, id uint64, data []byte) error {
	if c == nil || c.client == nil {
		return fmt.Errorf("client is not connected")
	}
	in, err := structpb.NewStruct(map[string]any{
		"owner": owner,
		"id":    formatID(id),
		"data":  hexdata.Encode(data),
	})
	if err != nil {
		return fmt.Errorf("encode set request: %w", err)
	}
	callCtx, cancel := c.callCtx(ctx, true)
	defer cancel()
	if _, err := c.client.Set(callCtx, in); err != nil {
		return err
	}
	return nil
}

// Del erases a node.
func (c *Client) Del(ctx context.Context, owner string, id uint64) error {
	if c == nil || c.client == nil {
		return fmt.Errorf("client is not connected")
	}
	in, err := structpb.NewStruct(map[string]any{
		"owner": owner,
		"id":    formatID(id),
	})
	if err != nil {
		return fmt.Errorf("encode del request: %w", err)
	}
	callCtx, cancel := c.callCtx(ctx, true)
	defer cancel()
	if _, err := c.client.Del(callCtx, in); err != nil {
		return err
	}
	return nil
}

// Get returns one node's data.
func (c *Client) Get(ctx context.Context, owner string, id uint64) ([]byte, error) {
	if c == nil || c.client == nil {
		return nil, fmt.Errorf("client is not connected")
	}
	in, err := structpb.NewStruct(map[string]any{
		"owner": owner,
		"id":    formatID(id),
	})
	if err != nil {
		return nil, fmt.Errorf("encode get request: %w", err)
	}
	callCtx, cancel := c.callCtx(ctx, false)
	defer cancel()
	out, err := c.client.Get(callCtx, in)
	if err != nil {
		return nil, err
	}
	hexText, ok := stringField(out, "data")
	if !ok {
		return nil, fmt.Errorf("node response is missing data")
	}
	return hexdata.Decode(hexText)
}

// ListNodesQuery narrows a node listing.
type ListNodesQuery struct {
	LowerID   uint64
	UpperID   uint64
	HasUpper  bool
	Filter    string
	OrderBy   string
	PageSize  int32
	PageToken string
}

// ListNodes returns one page of a scope's nodes.
func (c *Client) ListNodes(ctx context.Context, owner string, query ListNodesQuery) (storage.NodePage, error) {
	if c == nil || c.client == nil {
		return storage.NodePage{}, fmt.Errorf("client is not connected")
	}
	fields := map[string]any{
		"owner": owner,
	}
	if query.LowerID > 0 {
		fields["lower_id"] = formatID(query.LowerID)
	}
	if query.HasUpper {
		fields["upper_id"] = formatID(query.UpperID)
	}
	if query.Filter != "" {
		fields["filter"] = query.Filter
	}
	if query.OrderBy != "" {
		fields["order_by"] = query.OrderBy
	}
	if query.PageSize > 0 {
		fields["page_size"] = float64(query.PageSize)
	}
	if query.PageToken != "" {
		fields["page_token"] = query.PageToken
	}
	in, err := structpb.NewStruct(fields)
	if err != nil {
		return storage.NodePage{}, fmt.Errorf("encode list request: %w", err)
	}
	callCtx, cancel := c.callCtx(ctx, false)
	defer cancel()
	out, err := c.client.ListNodes(callCtx, in)
	if err != nil {
		return storage.NodePage{}, err
	}
	return nodePageFromStruct(out)
}

// IsImmutable reports whether a scope is currently frozen.
func (c *Client) IsImmutable(ctx context.Context, owner string) (bool, error) {
	if c == nil || c.client == nil {
		return false, fmt.Errorf("client is not connected")
	}
	callCtx, cancel := c.callCtx(ctx, false)
	defer cancel()
	out, err := c.client.IsImmutable(callCtx, wrapperspb.String(owner))
	if err != nil {
		return false, err
	}
	return out.GetValue(), nil
}

// GetUsage reports storage attributed to a scope owner.
func (c *Client) GetUsage(ctx context.Context, owner string) (storage.Usage, error) {
	if c == nil || c.client == nil {
		return storage.Usage{}, fmt.Errorf("client is not connected")
	}
	callCtx, cancel := c.callCtx(ctx, false)
	defer cancel()
	out, err := c.client.GetUsage(callCtx, wrapperspb.String(owner))
	if err != nil {
		return storage.Usage{}, err
	}
	return usageFromStruct(out)
}
