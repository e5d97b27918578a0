// Package nodestore exposes the permastore.v1 gRPC operations.
package nodestore

import (
	"context"
	"errors"

	grpcmeta "github.com/permanode/permastore/internal/api/grpc/metadata"
	"github.com/permanode/permastore/internal/auth"
	"github.com/permanode/permastore/internal/filter"
	"github.com/permanode/permastore/internal/hexdata"
	core "github.com/permanode/permastore/internal/nodestore"
	"github.com/permanode/permastore/internal/platform/grpc/pagination"
	"github.com/permanode/permastore/internal/storage"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/types/known/emptypb"
	"google.golang.org/protobuf/types/known/structpb"
	"google.golang.org/protobuf/types/known/wrapperspb"
)

const (
	defaultListNodesPageSize = 50
	maxListNodesPageSize     = 500
)

// Service implements the NodeStore gRPC API.
//
// Mutations require an owner token naming the target scope. Reads carry no
// credential: node data is world-readable.
type Service struct {
	UnimplementedNodeStoreServer
	engine   *core.Engine
	store    storage.NodeStore
	verifier auth.Verifier
	tracer   trace.Tracer
}

// NewService creates a NodeStore service over an engine, its backing store,
// and an owner-token verifier.
func NewService(engine *core.Engine, store storage.NodeStore, verifier auth.Verifier) *Service {
	return &Service{
		engine:   engine,
		store:    store,
		verifier: verifier,
		tracer:   otel.Tracer("permastore.nodestore"),
	}
}

// authorize resolves the owner token from metadata and checks it names the
// target scope. It runs before any store access.
func (s *Service) authorize(ctx context.Context, owner string) error {
	if s.verifier == nil {
		return status.Error(codes.Internal, "owner token verifier is not configured")
	}
	token := grpcmeta.OwnerTokenFromContext(ctx)
	if token == "" {
		return status.Error(codes.Unauthenticated, "owner token is required")
	}
	if err := s.verifier.VerifyOwner(ctx, token, owner); err != nil {
		switch {
		case errors.Is(err, auth.ErrUnauthorized):
			return status.Error(codes.PermissionDenied, "caller is not the scope owner")
		case errors.Is(err, auth.ErrInvalidToken):
			return status.Error(codes.Unauthenticated, "owner token is invalid")
		default:
			return status.Errorf(codes.Internal, "verify owner token: %v", err)
		}
	}
	return nil
}

// Set writes data on a node, allocating it if necessary.
func (s *Service) Set(ctx context.Context, in *structpb.Struct) (*emptypb.Empty, error) {
	if in == nil {
		return nil, status.Error(codes.InvalidArgument, "set request is required")
	}
	if s == nil || s.engine == nil {
		return nil, status.Error(codes.Internal, "node engine is not configured")
	}

	owner, err := ownerField(in)
	if err != nil {
		return nil, status.Error(codes.InvalidArgument, err.Error())
	}
	id, err := idField(in, "id")
	if err != nil {
		return nil, status.Error(codes.InvalidArgument, err.Error())
	}
	hexText, ok := stringField(in, "data")
	if !ok {
		return nil, status.Error(codes.InvalidArgument, "data is required")
	}
	data, err := hexdata.Decode(hexText)
	if err != nil {
		return nil, status.Error(codes.InvalidArgument, err.Error())
	}

	if err := s.authorize(ctx, owner); err != nil {
		return nil, err
	}

	ctx, span := s.tracer.Start(ctx, "NodeStore.Set", trace.WithAttributes(
		attribute.String("permastore.scope", owner),
		attribute.String("permastore.node_id", formatID(id)),
		attribute.Int("permastore.data_bytes", len(data)),
	))
	defer span.End()

	if err := s.engine.Set(ctx, owner, id, data); err != nil {
		if errors.Is(err, core.ErrImmutableScope) {
			return nil, status.Error(codes.FailedPrecondition, "immutable scope")
		}
		return nil, status.Errorf(codes.Internal, "set node: %v", err)
	}
	return &emptypb.Empty{}, nil
}

// Del erases a node.
func (s *Service) Del(ctx context.Context, in *structpb.Struct) (*emptypb.Empty, error) {
	if in == nil {
		return nil, status.Error(codes.InvalidArgument, "del request is required")
	}
	if s == nil || s.engine == nil {
		return nil, status.Error(codes.Internal, "node engine is not configured")
	}

	owner, err := ownerField(in)
	if err != nil {
		return nil, status.Error(codes.InvalidArgument, err.Error())
	}
	id, err := idField(in, "id")
	if err != nil {
		return nil, status.Error(codes.InvalidArgument, err.Error())
	}

	if err := s.authorize(ctx, owner); err != nil {
		return nil, err
	}

	ctx, span := s.tracer.Start(ctx, "NodeStore.Del", trace.WithAttributes(
		attribute.String("permastore.scope", owner),
		attribute.String("permastore.node_id", formatID(id)),
	))
	defer span.End()

	if err := s.engine.Delete(ctx, owner, id); err != nil {
		switch {
		case errors.Is(err, core.ErrNotFound):
			return nil, status.Error(codes.NotFound, "node does not exist")
		case errors.Is(err, core.ErrImmutableScope):
			return nil, status.Error(codes.FailedPrecondition, "immutable scope")
		default:
			return nil, status.Errorf(codes.Internal, "delete node: %v", err)
		}
	}
	return &emptypb.Empty{}, nil
}

// Get returns one full node record.
func (s *Service) Get(ctx context.Context, in *structpb.Struct) (*structpb.Struct, error) {
	if in == nil {
		return nil, status.Error(codes.InvalidArgument, "get request is required")
	}
	if s == nil || s.store == nil {
		return nil, status.Error(codes.Internal, "node store is not configured")
	}

	owner, err := ownerField(in)
	if err != nil {
		return nil, status.Error(codes.InvalidArgument, err.Error())
	}
	id, err := idField(in, "id")
	if err != nil {
		return nil, status.Error(codes.InvalidArgument, err.Error())
	}

	node, err := s.store.GetNode(ctx, owner, id)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return nil, status.Error(codes.NotFound, "node does not exist")
		}
		return nil, status.Errorf(codes.Internal, "get node: %v", err)
	}
	out, err := nodeToStruct(node)
	if err != nil {
		return nil, status.Errorf(codes.Internal, "encode node: %v", err)
	}
	return out, nil
}

// ListNodes returns one page of a scope's nodes within an inclusive id range,
// optionally narrowed by an AIP-160 filter over id, size, and payer.
func (s *Service) ListNodes(ctx context.Context, in *structpb.Struct) (*structpb.Struct, error) {
	if in == nil {
		return nil, status.Error(codes.InvalidArgument, "list nodes request is required")
	}
	if s == nil || s.store == nil {
		return nil, status.Error(codes.Internal, "node store is not configured")
	}

	owner, err := ownerField(in)
	if err != nil {
		return nil, status.Error(codes.InvalidArgument, err.Error())
	}

	var idRange storage.IDRange
	if lower, ok, err := optionalIDField(in, "lower_id"); err != nil {
		return nil, status.Error(codes.InvalidArgument, err.Error())
	} else if ok {
		idRange.Lower = lower
	}
	if upper, ok, err := optionalIDField(in, "upper_id"); err != nil {
		return nil, status.Error(codes.InvalidArgument, err.Error())
	} else if ok {
		idRange.Upper = upper
		idRange.HasUpper = true
	}
	if idRange.HasUpper && idRange.Upper < idRange.Lower {
		return nil, status.Error(codes.InvalidArgument, "upper_id must not be below lower_id")
	}

	filterText, _ := stringField(in, "filter")
	cond, err := filter.ParseNodeFilter(filterText)
	if err != nil {
		return nil, status.Errorf(codes.InvalidArgument, "filter is invalid: %v", err)
	}

	// Pages walk ids ascending; that is the only supported order.
	orderBy, _ := stringField(in, "order_by")
	if _, err := pagination.NormalizeOrderBy(orderBy, pagination.OrderByConfig{
		Default: "id",
		Allowed: []string{"id"},
	}); err != nil {
		return nil, status.Error(codes.InvalidArgument, err.Error())
	}

	pageSize := pagination.ClampPageSize(pageSizeField(in), pagination.PageSizeConfig{
		Default: defaultListNodesPageSize,
		Max:     maxListNodesPageSize,
	})
	pageToken, _ := stringField(in, "page_token")

	page, err := s.store.ListNodes(ctx, owner, idRange, cond, pageSize, pageToken)
	if err != nil {
		return nil, status.Errorf(codes.Internal, "list nodes: %v", err)
	}
	out, err := nodePageToStruct(page)
	if err != nil {
		return nil, status.Errorf(codes.Internal, "encode node page: %v", err)
	}
	return out, nil
}

// IsImmutable reports whether a scope is currently frozen.
func (s *Service) IsImmutable(ctx context.Context, in *wrapperspb.StringValue) (*wrapperspb.BoolValue, error) {
	if in == nil {
		return nil, status.Error(codes.InvalidArgument, "scope is required")
	}
	if s == nil || s.engine == nil {
		return nil, status.Error(codes.Internal, "node engine is not configured")
	}
	scope := in.GetValue()
	if scope == "" {
		return nil, status.Error(codes.InvalidArgument, "scope is required")
	}

	frozen, err := s.engine.IsImmutable(ctx, scope)
	if err != nil {
		return nil, status.Errorf(codes.Internal, "check immutability: %v", err)
	}
	return wrapperspb.Bool(frozen), nil
}

// GetUsage reports node count and stored bytes attributed to a scope owner.
func (s *Service) GetUsage(ctx context.Context, in *wrapperspb.StringValue) (*structpb.Struct, error) {
	if in == nil {
		return nil, status.Error(codes.InvalidArgument, "scope is required")
	}
	if s == nil || s.store == nil {
		return nil, status.Error(codes.Internal, "node store is not configured")
	}
	scope := in.GetValue()
	if scope == "" {
		return nil, status.Error(codes.InvalidArgument, "scope is required")
	}

	usage, err := s.store.Usage(ctx, scope)
	if err != nil {
		return nil, status.Errorf(codes.Internal, "usage: %v", err)
	}
	out, err := usageToStruct(usage)
	if err != nil {
		return nil, status.Errorf(codes.Internal, "encode usage: %v", err)
	}
	return out, nil
}

var _ NodeStoreServer = (*Service)(nil)
