package nodestore

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/permanode/permastore/internal/hexdata"
	"github.com/permanode/permastore/internal/storage"
	"google.golang.org/protobuf/types/known/structpb"
)

// Requests and responses travel as struct values. uint64 ids are decimal
// strings because JSON numbers lose precision above 2^53.

func stringField(in *structpb.Struct, key string) (string, bool) {
	if in == nil || in.Fields == nil {
		return "", false
	}
	value, ok := in.Fields[key]
	if !ok {
		return "", false
	}
	str, ok := value.Kind.(*structpb.Value_StringValue)
	if !ok {
		return "", false
	}
	return str.StringValue, true
}

func ownerField(in *structpb.Struct) (string, error) {
	owner, ok := stringField(in, "owner")
	if !ok || strings.TrimSpace(owner) == "" {
		return "", fmt.Errorf("owner is required")
	}
	return strings.TrimSpace(owner), nil
}

func idField(in *structpb.Struct, key string) (uint64, error) {
	raw, ok := stringField(in, key)
	if !ok {
		return 0, fmt.Errorf("%s is required", key)
	}
	id, err := parseID(raw)
	if err != nil {
		return 0, fmt.Errorf("%s is invalid: %w", key, err)
	}
	return id, nil
}

func optionalIDField(in *structpb.Struct, key string) (uint64, bool, error) {
	raw, ok := stringField(in, key)
	if !ok || strings.TrimSpace(raw) == "" {
		return 0, false, nil
	}
	id, err := parseID(raw)
	if err != nil {
		return 0, false, fmt.Errorf("%s is invalid: %w", key, err)
	}
	return id, true, nil
}

func parseID(raw string) (uint64, error) {
	id, err := strconv.ParseUint(strings.TrimSpace(raw), 10, 64)
	if err != nil {
		return 0, fmt.Errorf("want a decimal uint64 string")
	}
	return id, nil
}

func formatID(id uint64) string {
	return strconv.FormatUint(id, 10)
}

func pageSizeField(in *structpb.Struct) int32 {
	if in == nil || in.Fields == nil {
		return 0
	}
	value, ok := in.Fields["page_size"]
	if !ok {
		return 0
	}
	num, ok := value.Kind.(*structpb.Value_NumberValue)
	if !ok {
		return 0
	}
	return int32(num.NumberValue)
}

func nodeToStruct(node storage.Node) (*structpb.Struct, error) {
	return structpb.NewStruct(map[string]any{
		"owner":      node.Scope,
		"id":         formatID(node.ID),
		"data":       hexdata.Encode(node.Data),
		"payer":      node.Payer,
		"created_at": node.CreatedAt.UTC().Format(time.RFC3339),
		"updated_at": node.UpdatedAt.UTC().Format(time.RFC3339),
	})
}

func nodePageToStruct(page storage.NodePage) (*structpb.Struct, error) {
	nodes := make([]any, 0, len(page.Nodes))
	for _, node := range page.Nodes {
		nodeStruct, err := nodeToStruct(node)
		if err != nil {
			return nil, err
		}
		nodes = append(nodes, nodeStruct.AsMap())
	}
	return structpb.NewStruct(map[string]any{
		"nodes":           nodes,
		"next_page_token": page.NextPageToken,
	})
}

func usageToStruct(usage storage.Usage) (*structpb.Struct, error) {
	return structpb.NewStruct(map[string]any{
		"owner":       usage.Scope,
		"node_count":  strconv.FormatInt(usage.NodeCount, 10),
		"total_bytes": strconv.FormatInt(usage.TotalBytes, 10),
	})
}

func nodeFromStruct(in *structpb.Struct) (storage.Node, error) {
	owner, ok := stringField(in, "owner")
	if !ok {
		return storage.Node{}, fmt.Errorf("node response is missing owner")
	}
	id, err := idField(in, "id")
	if err != nil {
		return storage.Node{}, err
	}
	hexText, ok := stringField(in, "data")
	if !ok {
		return storage.Node{}, fmt.Errorf("node response is missing data")
	}
	data, err := hexdata.Decode(hexText)
	if err != nil {
		return storage.Node{}, fmt.Errorf("node data is invalid: %w", err)
	}
	payer, _ := stringField(in, "payer")
	node := storage.Node{Scope: owner, ID: id, Data: data, Payer: payer}
	if raw, ok := stringField(in, "created_at"); ok {
		if ts, err := time.Parse(time.RFC3339, raw); err == nil {
			node.CreatedAt = ts
		}
	}
	if raw, ok := stringField(in, "updated_at"); ok {
		if ts, err := time.Parse(time.RFC3339, raw); err == nil {
			node.UpdatedAt = ts
		}
	}
	return node, nil
}

func nodePageFromStruct(in *structpb.Struct) (storage.NodePage, error) {
	if in == nil {
		return storage.NodePage{}, fmt.Errorf("empty list response")
	}
	var page storage.NodePage
	if token, ok := stringField(in, "next_page_token"); ok {
		page.NextPageToken = token
	}
	value, ok := in.Fields["nodes"]
	if !ok {
		return page, nil
	}
	list, ok := value.Kind.(*structpb.Value_ListValue)
	if !ok || list.ListValue == nil {
		return page, nil
	}
	for _, item := range list.ListValue.Values {
		entry, ok := item.Kind.(*structpb.Value_StructValue)
		if !ok {
			return storage.NodePage{}, fmt.Errorf("node entry is not an object")
		}
		node, err := nodeFromStruct(entry.StructValue)
		if err != nil {
			return storage.NodePage{}, err
		}
		page.Nodes = append(page.Nodes, node)
	}
	return page, nil
}

func usageFromStruct(in *structpb.Struct) (storage.Usage, error) {
	owner, ok := stringField(in, "owner")
	if !ok {
		return storage.Usage{}, fmt.Errorf("usage response is missing owner")
	}
	usage := storage.Usage{Scope: owner}
	if raw, ok := stringField(in, "node_count"); ok {
		count, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			return storage.Usage{}, fmt.Errorf("usage node_count is invalid: %w", err)
		}
		usage.NodeCount = count
	}
	if raw, ok := stringField(in, "total_bytes"); ok {
		total, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			return storage.Usage{}, fmt.Errorf("usage total_bytes is invalid: %w", err)
		}
		usage.TotalBytes = total
	}
	return usage, nil
}
