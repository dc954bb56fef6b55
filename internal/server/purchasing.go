package server

import (
	"context"
	"encoding/base64"
	"errors"
	"log/slog"
	"strings"

	"github.com/google/uuid"
	"google.golang.org/protobuf/types/known/structpb"

	"github.com/joseph-ayodele/purchase-tracker/internal/common"
	"github.com/joseph-ayodele/purchase-tracker/internal/dashboard"
	"github.com/joseph-ayodele/purchase-tracker/internal/export"
	"github.com/joseph-ayodele/purchase-tracker/internal/extract"
	"github.com/joseph-ayodele/purchase-tracker/internal/orders"
	processor "github.com/joseph-ayodele/purchase-tracker/internal/pipeline"
	"github.com/joseph-ayodele/purchase-tracker/internal/repository"
	"github.com/joseph-ayodele/purchase-tracker/internal/utils"
)

// PurchasingService implements PurchasingServer on top of the domain services.
type PurchasingService struct {
	importer  *processor.Importer
	orders    *orders.Service
	dashboard *dashboard.Service
	export    *export.Service
	companies repository.CompanyRepository
	logger    *slog.Logger
}

var _ PurchasingServer = (*PurchasingService)(nil)

func NewPurchasingService(
	importer *processor.Importer,
	ord *orders.Service,
	dash *dashboard.Service,
	exp *export.Service,
	companies repository.CompanyRepository,
	logger *slog.Logger,
) *PurchasingService {
	if logger == nil {
		logger = slog.Default()
	}
	return &PurchasingService{
		importer:  importer,
		orders:    ord,
		dashboard: dash,
		export:    exp,
		companies: companies,
		logger:    logger,
	}
}

type importRequest struct {
	PDF string `json:"pdf"` // base64
}

type importResponse struct {
	Draft    extract.Draft `json:"draft"`
	Message  string        `json:"mensagem"`
	Pages    int           `json:"pages,omitempty"`
	Warnings []string      `json:"warnings,omitempty"`
	// RequestID lets the caller find the import in the server logs.
	RequestID string `json:"request_id,omitempty"`
}

// ImportRequest reads an uploaded purchase request PDF and returns the form
// prefill. An unreadable document still answers with an empty draft.
func (s *PurchasingService) ImportRequest(ctx context.Context, in *structpb.Struct) (*structpb.Struct, error) {
	var req importRequest
	if err := utils.FromStruct(in, &req); err != nil {
		return nil, common.InvalidArgumentError(err.Error())
	}
	if strings.TrimSpace(req.PDF) == "" {
		return nil, common.InvalidArgumentError("pdf is required")
	}
	data, err := base64.StdEncoding.DecodeString(req.PDF)
	if err != nil {
		return nil, common.InvalidArgumentError("pdf must be base64")
	}

	out := s.importer.ImportBytes(ctx, data)
	draft := out.Result.Draft()
	if err := extract.ValidateDraft(draft); err != nil {
		common.LoggerFromContext(ctx, s.logger).Error("import.draft.invalid", "err", err)
		return nil, common.InternalError("draft failed schema validation")
	}
	resp := importResponse{
		Draft:     draft,
		Message:   out.Result.Message(),
		Pages:     out.Source.Pages,
		Warnings:  out.Source.Warnings,
		RequestID: common.RequestIDFromContext(ctx),
	}
	if out.Err != nil {
		resp.Warnings = append(resp.Warnings, out.Err.Error())
	}
	return utils.ToStruct(resp)
}

// orderPayload is the registration/edit form on the wire, dates as YYYY-MM-DD.
type orderPayload struct {
	ID                  string           `json:"id,omitempty"`
	RequestNumber       string           `json:"solicitacao"`
	QuoteNumber         string           `json:"orcamento"`
	OrderNumber         string           `json:"pedido"`
	Category            string           `json:"categoria"`
	Supplier            string           `json:"fornecedor"`
	PurchaseDate        string           `json:"data_compra"`
	InvoiceNumber       string           `json:"nota"`
	InvoiceSeries       string           `json:"serie"`
	Observation         string           `json:"observacao"`
	CompanyCode         int              `json:"empresa"`
	RequesterName       string           `json:"solicitante_real"`
	BuyerName           string           `json:"comprador"`
	PlannedDelivery     string           `json:"prazo"`
	RescheduledDelivery string           `json:"reprogramada"`
	ActualDelivery      string           `json:"data_entrega_real"`
	DeliveryConforming  *bool            `json:"entrega_conforme"`
	DeliveryNotes       string           `json:"detalhes_entrega"`
	Status              string           `json:"status"`
	Items               []orders.NewItem `json:"itens"`
}

func (p orderPayload) toNewOrder() (orders.NewOrder, error) {
	purchase, err := utils.ParseOptionalYMD("data_compra", p.PurchaseDate)
	if err != nil {
		return orders.NewOrder{}, err
	}
	planned, err := utils.ParseOptionalYMD("prazo", p.PlannedDelivery)
	if err != nil {
		return orders.NewOrder{}, err
	}
	return orders.NewOrder{
		RequestNumber:   p.RequestNumber,
		QuoteNumber:     p.QuoteNumber,
		OrderNumber:     p.OrderNumber,
		Category:        p.Category,
		Supplier:        p.Supplier,
		PurchaseDate:    purchase,
		InvoiceNumber:   p.InvoiceNumber,
		InvoiceSeries:   p.InvoiceSeries,
		Observation:     p.Observation,
		CompanyCode:     p.CompanyCode,
		RequesterName:   p.RequesterName,
		BuyerName:       p.BuyerName,
		PlannedDelivery: planned,
		Status:          p.Status,
		Items:           p.Items,
	}, nil
}

func (p orderPayload) toUpdate() (orders.OrderUpdate, error) {
	n, err := p.toNewOrder()
	if err != nil {
		return orders.OrderUpdate{}, err
	}
	resched, err := utils.ParseOptionalYMD("reprogramada", p.RescheduledDelivery)
	if err != nil {
		return orders.OrderUpdate{}, err
	}
	actual, err := utils.ParseOptionalYMD("data_entrega_real", p.ActualDelivery)
	if err != nil {
		return orders.OrderUpdate{}, err
	}
	return orders.OrderUpdate{
		NewOrder:            n,
		RescheduledDelivery: resched,
		ActualDelivery:      actual,
		DeliveryConforming:  p.DeliveryConforming,
		DeliveryNotes:       p.DeliveryNotes,
	}, nil
}

func (s *PurchasingService) RegisterOrder(ctx context.Context, in *structpb.Struct) (*structpb.Struct, error) {
	var p orderPayload
	if err := utils.FromStruct(in, &p); err != nil {
		return nil, common.InvalidArgumentError(err.Error())
	}
	n, err := p.toNewOrder()
	if err != nil {
		return nil, common.InvalidArgumentError(err.Error())
	}
	o, err := s.orders.Register(ctx, n)
	if err != nil {
		return nil, toStatus(err)
	}
	return utils.ToStruct(map[string]any{"order": o, "mensagem": "Pedido registrado com sucesso!"})
}

func (s *PurchasingService) UpdateOrder(ctx context.Context, in *structpb.Struct) (*structpb.Struct, error) {
	var p orderPayload
	if err := utils.FromStruct(in, &p); err != nil {
		return nil, common.InvalidArgumentError(err.Error())
	}
	id, err := parseID(p.ID)
	if err != nil {
		return nil, err
	}
	upd, err := p.toUpdate()
	if err != nil {
		return nil, common.InvalidArgumentError(err.Error())
	}
	o, err := s.orders.Update(ctx, id, upd)
	if err != nil {
		return nil, toStatus(err)
	}
	return utils.ToStruct(map[string]any{"order": o, "mensagem": "Pedido alterado com sucesso!"})
}

type idRequest struct {
	ID string `json:"id"`
}

func (s *PurchasingService) GetOrder(ctx context.Context, in *structpb.Struct) (*structpb.Struct, error) {
	var req idRequest
	if err := utils.FromStruct(in, &req); err != nil {
		return nil, common.InvalidArgumentError(err.Error())
	}
	id, err := parseID(req.ID)
	if err != nil {
		return nil, err
	}
	o, err := s.orders.Get(ctx, id)
	if err != nil {
		return nil, toStatus(err)
	}
	return utils.ToStruct(map[string]any{"order": o})
}

func (s *PurchasingService) DeleteOrder(ctx context.Context, in *structpb.Struct) (*structpb.Struct, error) {
	var req idRequest
	if err := utils.FromStruct(in, &req); err != nil {
		return nil, common.InvalidArgumentError(err.Error())
	}
	id, err := parseID(req.ID)
	if err != nil {
		return nil, err
	}
	if err := s.orders.Delete(ctx, id); err != nil {
		return nil, toStatus(err)
	}
	return utils.ToStruct(map[string]any{"id": id.String()})
}

// filterRequest mirrors the dashboard filter bar.
type filterRequest struct {
	Search        string `json:"busca"`
	RequestNumber string `json:"solicitacao"`
	CompanyCode   int    `json:"empresa"`
	Buyer         string `json:"comprador"`
	Status        string `json:"status"`
	From          string `json:"data_inicio"`
	To            string `json:"data_fim"`
	Page          int    `json:"pagina"`
}

func (f filterRequest) toFilter() (repository.OrderFilter, error) {
	from, err := utils.ParseOptionalYMD("data_inicio", f.From)
	if err != nil {
		return repository.OrderFilter{}, err
	}
	to, err := utils.ParseOptionalYMD("data_fim", f.To)
	if err != nil {
		return repository.OrderFilter{}, err
	}
	return repository.OrderFilter{
		Search:         strings.TrimSpace(f.Search),
		RequestNumber:  strings.TrimSpace(f.RequestNumber),
		CompanyCode:    f.CompanyCode,
		Buyer:          strings.TrimSpace(f.Buyer),
		Status:         strings.TrimSpace(f.Status),
		RegisteredFrom: from,
		RegisteredTo:   to,
	}, nil
}

func (s *PurchasingService) Dashboard(ctx context.Context, in *structpb.Struct) (*structpb.Struct, error) {
	var req filterRequest
	if err := utils.FromStruct(in, &req); err != nil {
		return nil, common.InvalidArgumentError(err.Error())
	}
	f, err := req.toFilter()
	if err != nil {
		return nil, common.InvalidArgumentError(err.Error())
	}
	v, err := s.dashboard.View(ctx, f, req.Page)
	if err != nil {
		return nil, toStatus(err)
	}
	return utils.ToStruct(v)
}

func (s *PurchasingService) ExportDashboard(ctx context.Context, in *structpb.Struct) (*structpb.Struct, error) {
	var req filterRequest
	if err := utils.FromStruct(in, &req); err != nil {
		return nil, common.InvalidArgumentError(err.Error())
	}
	f, err := req.toFilter()
	if err != nil {
		return nil, common.InvalidArgumentError(err.Error())
	}
	xlsx, err := s.export.ExportDashboardXLSX(ctx, f)
	if err != nil {
		common.LoggerFromContext(ctx, s.logger).Error("export.xlsx.failed", "err", err)
		return nil, toStatus(err)
	}
	return utils.ToStruct(map[string]any{
		"xlsx":     base64.StdEncoding.EncodeToString(xlsx),
		"filename": "pedidos.xlsx",
	})
}

func (s *PurchasingService) ListCompanies(ctx context.Context, _ *structpb.Struct) (*structpb.Struct, error) {
	list, err := s.companies.List(ctx)
	if err != nil {
		return nil, toStatus(err)
	}
	return utils.ToStruct(map[string]any{"companies": list})
}

func parseID(s string) (uuid.UUID, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return uuid.Nil, common.InvalidArgumentError("id is required")
	}
	id, err := uuid.Parse(s)
	if err != nil {
		return uuid.Nil, common.InvalidArgumentError("id must be a UUID")
	}
	return id, nil
}

// toStatus maps domain errors to gRPC codes, rendering validation failures
// as short "field message" pairs for form feedback.
func toStatus(err error) error {
	var ve common.ValidationErrors
	if errors.As(err, &ve) {
		msgs := make([]string, len(ve))
		for i, e := range ve {
			msgs[i] = e.Field + " " + e.Message
		}
		return common.InvalidArgumentError(strings.Join(msgs, "; "))
	}
	return common.ToStatus(err)
}
