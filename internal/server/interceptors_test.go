package server

import (
	"bytes"
	"context"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/grpc"
	"google.golang.org/grpc/metadata"

	"github.com/joseph-ayodele/purchase-tracker/internal/common"
)

func TestUnaryLogging_ScopesLoggerToRequest(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewJSONHandler(&buf, nil))
	ctx := metadata.NewIncomingContext(context.Background(), metadata.Pairs(requestIDHeader, "req-42"))
	info := &grpc.UnaryServerInfo{FullMethod: "/purchasing.v1.Purchasing/ListCompanies"}

	var gotID string
	handler := func(ctx context.Context, _ any) (any, error) {
		gotID = common.RequestIDFromContext(ctx)
		common.LoggerFromContext(ctx, nil).Info("handler.ran")
		return "ok", nil
	}

	resp, err := UnaryLogging(logger)(ctx, nil, info, handler)
	require.NoError(t, err)
	assert.Equal(t, "ok", resp)
	assert.Equal(t, "req-42", gotID)
	out := buf.String()
	assert.Contains(t, out, `"msg":"handler.ran","request_id":"req-42"`)
	assert.Contains(t, out, `"msg":"grpc.request.ok"`)
}

func TestUnaryLogging_GeneratesRequestID(t *testing.T) {
	var gotID string
	handler := func(ctx context.Context, _ any) (any, error) {
		gotID = common.RequestIDFromContext(ctx)
		return nil, nil
	}
	_, err := UnaryLogging(slog.New(slog.NewTextHandler(&bytes.Buffer{}, nil)))(
		context.Background(), nil, &grpc.UnaryServerInfo{FullMethod: "/x/Y"}, handler)
	require.NoError(t, err)
	assert.Len(t, gotID, 36)
}
