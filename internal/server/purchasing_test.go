package server

import (
	"context"
	"encoding/base64"
	"log/slog"
	"net"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/credentials/insecure"
	"google.golang.org/grpc/status"
	"google.golang.org/grpc/test/bufconn"
	"google.golang.org/protobuf/types/known/structpb"

	"github.com/joseph-ayodele/purchase-tracker/internal/dashboard"
	"github.com/joseph-ayodele/purchase-tracker/internal/export"
	"github.com/joseph-ayodele/purchase-tracker/internal/extract"
	"github.com/joseph-ayodele/purchase-tracker/internal/metrics"
	"github.com/joseph-ayodele/purchase-tracker/internal/orders"
	processor "github.com/joseph-ayodele/purchase-tracker/internal/pipeline"
	"github.com/joseph-ayodele/purchase-tracker/internal/repository"
)

var fixedNow = time.Date(2024, 3, 13, 12, 0, 0, 0, time.UTC)

type stubExtractor struct{ doc extract.RawDocumentText }

func (s stubExtractor) Extract(context.Context, string) (extract.TextExtractionResult, error) {
	return extract.TextExtractionResult{Document: s.doc, Pages: 1}, nil
}

func (s stubExtractor) ExtractBytes(ctx context.Context, _ []byte) (extract.TextExtractionResult, error) {
	return s.Extract(ctx, "")
}

func newTestClient(t *testing.T) *Client {
	t.Helper()
	ctx := context.Background()
	logger := slog.Default()

	db, err := repository.OpenSQLite(ctx, "file:"+filepath.Join(t.TempDir(), "server.db"), logger)
	require.NoError(t, err)
	t.Cleanup(func() { db.Close(logger) })
	require.NoError(t, db.Migrate(ctx, logger))
	companies := repository.NewCompanyRepository(db, logger)
	require.NoError(t, repository.SeedCompanies(ctx, companies))
	orderRepo := repository.NewOrderRepository(db, logger)

	m := metrics.New()
	doc := extract.RawDocumentText{
		Plain:  "Solicitação de Compra: 4521\nData: 01/03/2024\nEmpresa: 4\n12.34.5678   PARAFUSO SEXTAVADO M8   20,0   UN",
		Layout: "Requerente\n   JOAO PEREIRA     MANUTENCAO",
	}
	importer := processor.NewImporter(logger, processor.NewTextStage(stubExtractor{doc: doc}, logger), nil, m)

	builder := dashboard.NewBuilder(10, time.UTC, m)
	builder.Now = func() time.Time { return fixedNow }
	dash := dashboard.NewService(orderRepo, builder, logger)
	ord := orders.NewService(orderRepo, companies, time.UTC, logger).WithClock(func() time.Time { return fixedNow })
	svc := NewPurchasingService(importer, ord, dash, export.NewService(dash, m, logger), companies, logger)

	lis := bufconn.Listen(1 << 20)
	srv := grpc.NewServer(grpc.UnaryInterceptor(UnaryLogging(logger)))
	RegisterPurchasingServer(srv, svc)
	go func() { _ = srv.Serve(lis) }()
	t.Cleanup(srv.Stop)

	conn, err := grpc.NewClient("passthrough:///bufnet",
		grpc.WithContextDialer(func(ctx context.Context, _ string) (net.Conn, error) { return lis.DialContext(ctx) }),
		grpc.WithTransportCredentials(insecure.NewCredentials()),
	)
	require.NoError(t, err)
	t.Cleanup(func() { _ = conn.Close() })
	return NewClient(conn)
}

func mustStruct(t *testing.T, m map[string]any) *structpb.Struct {
	t.Helper()
	s, err := structpb.NewStruct(m)
	require.NoError(t, err)
	return s
}

func TestImportRequest(t *testing.T) {
	c := newTestClient(t)
	ctx := context.Background()

	out, err := c.Call(ctx, "ImportRequest", mustStruct(t, map[string]any{
		"pdf": base64.StdEncoding.EncodeToString([]byte("%PDF-1.4")),
	}))
	require.NoError(t, err)

	got := out.AsMap()
	assert.Equal(t, "1 itens carregados.", got["mensagem"])
	assert.Len(t, got["request_id"], 36)
	draft := got["draft"].(map[string]any)
	assert.Equal(t, "4521", draft["solicitacao"])
	assert.Equal(t, "2024-03-01", draft["data_compra"])
	assert.Equal(t, "4", draft["empresa"])
	assert.Equal(t, "JOAO PEREIRA", draft["solicitante_real"])
	items := draft["itens"].([]any)
	require.Len(t, items, 1)
	assert.Equal(t, "20", items[0].(map[string]any)["quantidade"])

	_, err = c.Call(ctx, "ImportRequest", mustStruct(t, map[string]any{}))
	assert.Equal(t, codes.InvalidArgument, status.Code(err))

	_, err = c.Call(ctx, "ImportRequest", mustStruct(t, map[string]any{"pdf": "***"}))
	assert.Equal(t, codes.InvalidArgument, status.Code(err))
}

func TestRegisterAndDashboard(t *testing.T) {
	c := newTestClient(t)
	ctx := context.Background()

	out, err := c.Call(ctx, "RegisterOrder", mustStruct(t, map[string]any{
		"solicitacao": "4521",
		"fornecedor":  "ACME",
		"empresa":     4,
		"data_compra": "2024-03-01",
		"prazo":       "2024-03-14",
		"status":      "Confirmado",
		"itens": []any{
			map[string]any{"nome_item": "12.34.5678 - PARAFUSO", "quantidade": "20", "unidade_medida": "UN"},
			map[string]any{"nome_item": "01.02.0003 - CORREIA V"},
		},
	}))
	require.NoError(t, err)
	order := out.AsMap()["order"].(map[string]any)
	assert.Equal(t, "12.34.5678 - PARAFUSO (+ 1 itens)", order["title"])
	id := order["id"].(string)

	got, err := c.Call(ctx, "GetOrder", mustStruct(t, map[string]any{"id": id}))
	require.NoError(t, err)
	assert.Len(t, got.AsMap()["order"].(map[string]any)["items"], 2)

	view, err := c.Call(ctx, "Dashboard", mustStruct(t, map[string]any{"busca": "acme"}))
	require.NoError(t, err)
	v := view.AsMap()
	assert.Equal(t, map[string]any{"total": 1.0, "open": 1.0, "late": 0.0}, v["kpis"])
	rows := v["rows"].([]any)
	require.Len(t, rows, 1)
	cls := rows[0].(map[string]any)["classification"].(map[string]any)
	assert.Equal(t, "at_risk", cls["lateness"])
	assert.Equal(t, "ATENÇÃO", cls["lateness_label"])

	exp, err := c.Call(ctx, "ExportDashboard", mustStruct(t, map[string]any{}))
	require.NoError(t, err)
	assert.NotEmpty(t, exp.AsMap()["xlsx"])

	_, err = c.Call(ctx, "DeleteOrder", mustStruct(t, map[string]any{"id": id}))
	require.NoError(t, err)
	_, err = c.Call(ctx, "GetOrder", mustStruct(t, map[string]any{"id": id}))
	assert.Equal(t, codes.NotFound, status.Code(err))
}

func TestRegisterOrder_Invalid(t *testing.T) {
	c := newTestClient(t)
	ctx := context.Background()

	_, err := c.Call(ctx, "RegisterOrder", mustStruct(t, map[string]any{
		"solicitacao": "1",
		"fornecedor":  "ACME",
		"empresa":     4,
		"data_compra": "2024-03-20",
		"itens":       []any{map[string]any{"nome_item": "X"}},
	}))
	require.Error(t, err)
	st, _ := status.FromError(err)
	assert.Equal(t, codes.InvalidArgument, st.Code())
	assert.Contains(t, st.Message(), "data_compra cannot be in the future")

	_, err = c.Call(ctx, "RegisterOrder", mustStruct(t, map[string]any{"data_compra": "01/03/2024"}))
	assert.Equal(t, codes.InvalidArgument, status.Code(err))

	_, err = c.Call(ctx, "GetOrder", mustStruct(t, map[string]any{"id": "nope"}))
	assert.Equal(t, codes.InvalidArgument, status.Code(err))
}

func TestListCompanies(t *testing.T) {
	c := newTestClient(t)
	out, err := c.Call(context.Background(), "ListCompanies", &structpb.Struct{})
	require.NoError(t, err)
	assert.Len(t, out.AsMap()["companies"], 6)
}
