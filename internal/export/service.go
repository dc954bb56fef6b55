package export

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/xuri/excelize/v2"

	"github.com/joseph-ayodele/purchase-tracker/internal/common"
	"github.com/joseph-ayodele/purchase-tracker/internal/dashboard"
	"github.com/joseph-ayodele/purchase-tracker/internal/metrics"
	"github.com/joseph-ayodele/purchase-tracker/internal/repository"
)

const (
	SheetOrders   = "Pedidos"
	SheetTimeline = "Timeline"
)

// Service is a tiny façade over the dashboard that produces XLSX bytes for exports.
type Service struct {
	dashboard *dashboard.Service
	metrics   *metrics.Metrics
	logger    *slog.Logger
}

func NewService(d *dashboard.Service, m *metrics.Metrics, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{dashboard: d, metrics: m, logger: logger}
}

// ExportDashboardXLSX returns a workbook with every order matching f, with its
// status and delivery badges, plus the weekly delivery timeline.
func (s *Service) ExportDashboardXLSX(ctx context.Context, f repository.OrderFilter) ([]byte, error) {
	start := time.Now()
	b, rows, err := s.build(ctx, f)
	s.metrics.ObserveExport(err)
	if err != nil {
		return nil, err
	}
	common.LoggerFromContext(ctx, s.logger).Info("export.xlsx.ok",
		"rows", rows,
		"bytes", len(b),
		"elapsed_ms", time.Since(start).Milliseconds(),
	)
	return b, nil
}

// WriteSnapshot exports to dir/pedidos-<timestamp>.xlsx and returns the path.
func (s *Service) WriteSnapshot(ctx context.Context, f repository.OrderFilter, dir string) (string, error) {
	b, err := s.ExportDashboardXLSX(ctx, f)
	if err != nil {
		return "", err
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", common.WrapError(err, "create export dir")
	}
	name := fmt.Sprintf("pedidos-%s.xlsx", s.dashboard.Builder().Now().Format("20060102-150405"))
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, b, 0o644); err != nil {
		return "", common.WrapError(err, "write export")
	}
	common.LoggerFromContext(ctx, s.logger).Info("export.snapshot.ok", "path", path)
	return path, nil
}

func (s *Service) build(ctx context.Context, f repository.OrderFilter) ([]byte, int, error) {
	records, err := s.dashboard.Load(ctx, f)
	if err != nil {
		return nil, 0, common.WrapError(err, "query orders")
	}
	today := s.dashboard.Builder().Today()

	x := excelize.NewFile()
	defer func() { _ = x.Close() }()
	if err := x.SetSheetName("Sheet1", SheetOrders); err != nil {
		return nil, 0, err
	}
	if _, err := x.NewSheet(SheetTimeline); err != nil {
		return nil, 0, err
	}

	headers := []string{
		"Solicitação",
		"Pedido",
		"Fornecedor",
		"Itens",
		"Empresa",
		"Comprador",
		"Status",
		"Situação",
		"Prazo",
		"Reprogramada",
	}
	for i, h := range headers {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		_ = x.SetCellValue(SheetOrders, cell, h)
	}

	row := 2
	for _, r := range records {
		c := dashboard.Classify(r, today)
		o := r.Order
		write := func(col int, v any) {
			cell, _ := excelize.CoordinatesToCellName(col, row)
			_ = x.SetCellValue(SheetOrders, cell, v)
		}
		write(1, o.RequestNumber)
		write(2, o.OrderNumber)
		write(3, o.Supplier)
		write(4, truncate(o.Title, 140))
		write(5, o.CompanyName)
		write(6, o.BuyerName)
		write(7, c.CategoryLabel)
		write(8, c.LatenessLabel)
		write(9, brDate(r.Planned))
		write(10, brDate(r.Rescheduled))
		row++
	}

	tl := dashboard.Timeline(records)
	_ = x.SetCellValue(SheetTimeline, "A1", "Semana")
	_ = x.SetCellValue(SheetTimeline, "B1", "Pedidos")
	for i, label := range tl.Labels {
		_ = x.SetCellValue(SheetTimeline, fmt.Sprintf("A%d", i+2), label)
		_ = x.SetCellValue(SheetTimeline, fmt.Sprintf("B%d", i+2), tl.Values[i])
	}

	// Widen a few columns
	_ = x.SetColWidth(SheetOrders, "A", "B", 14) // numbers
	_ = x.SetColWidth(SheetOrders, "C", "C", 28) // supplier
	_ = x.SetColWidth(SheetOrders, "D", "D", 48) // items
	_ = x.SetColWidth(SheetOrders, "E", "F", 22)
	_ = x.SetColWidth(SheetOrders, "G", "J", 14)

	buf, err := x.WriteToBuffer()
	if err != nil {
		return nil, 0, common.WrapError(err, "xlsx write")
	}
	return buf.Bytes(), len(records), nil
}

func brDate(t *time.Time) string {
	if t == nil {
		return ""
	}
	return t.Format("02/01/2006")
}

func truncate(s string, n int) string {
	r := []rune(s)
	if n <= 0 || len(r) <= n {
		return s
	}
	if n <= 1 {
		return string(r[:n])
	}
	return string(r[:n-1]) + "…"
}
