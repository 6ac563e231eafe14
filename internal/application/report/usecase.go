// Package report informes de solo lectura sobre el ledger: panel de control,
// mermas por artículo y el informe de stock exportable (CSV, XLSX, PDF).
package report

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/shopspring/decimal"
	"golang.org/x/text/collate"
	"golang.org/x/text/language"

	"github.com/jhoicas/templo-inventario/internal/application/dto"
	"github.com/jhoicas/templo-inventario/internal/application/ports"
	"github.com/jhoicas/templo-inventario/internal/domain"
	"github.com/jhoicas/templo-inventario/internal/domain/entity"
	"github.com/jhoicas/templo-inventario/internal/domain/inventory"
	"github.com/jhoicas/templo-inventario/internal/domain/repository"
)

// wastageLookback días del valor de mermas en el panel y rango por defecto del informe.
const wastageLookback = 30

// StockExporter serializa el informe de stock en un formato concreto.
type StockExporter interface {
	Format() string
	ContentType() string
	Export(ctx context.Context, report *dto.StockReport) ([]byte, error)
}

// ReportUseCase informes y exportaciones.
type ReportUseCase struct {
	tx         ports.TxRunner
	loc        *time.Location
	windowDays int
	exporters  map[string]StockExporter
	now        func() time.Time
}

// NewReportUseCase construye el caso de uso. windowDays es la ventana de caducidad del panel.
func NewReportUseCase(tx ports.TxRunner, loc *time.Location, windowDays int, exporters ...StockExporter) *ReportUseCase {
	if loc == nil {
		loc = time.UTC
	}
	m := make(map[string]StockExporter, len(exporters))
	for _, e := range exporters {
		m[e.Format()] = e
	}
	return &ReportUseCase{tx: tx, loc: loc, windowDays: windowDays, exporters: m, now: time.Now}
}

// WithClock sustituye el reloj (tests).
func (uc *ReportUseCase) WithClock(now func() time.Time) *ReportUseCase {
	uc.now = now
	return uc
}

// Dashboard resume el estado de la despensa.
func (uc *ReportUseCase) Dashboard(ctx context.Context) (*dto.DashboardSummaryDTO, error) {
	now := uc.now()
	today := now.In(uc.loc)
	since := inventory.DateOnly(now, uc.loc).AddDate(0, 0, -wastageLookback)

	out := &dto.DashboardSummaryDTO{ExpiryWindow: uc.windowDays}
	err := uc.tx.View(ctx, func(repos repository.Repositories) error {
		items, err := repos.Items.List()
		if err != nil {
			return err
		}
		batches, err := repos.Batches.List()
		if err != nil {
			return err
		}
		pending, err := repos.Requests.List(entity.RequestStatusPending)
		if err != nil {
			return err
		}
		wastage, err := repos.Movements.List(repository.MovementFilter{Type: entity.MovementTypeWastage, From: &since})
		if err != nil {
			return err
		}

		out.TotalItems = len(items)
		for _, it := range items {
			switch inventory.ItemStatus(it) {
			case inventory.StatusGood:
				out.GoodCount++
			case inventory.StatusLow:
				out.LowCount++
			case inventory.StatusCritical:
				out.CriticalCount++
			}
		}
		out.TotalValue = inventory.TotalValue(items).Round(2)
		for _, b := range batches {
			if b.IsActive() {
				out.ActiveBatches++
			}
		}
		expiry := inventory.ClassifyExpiry(batches, today, uc.windowDays)
		out.ExpiringSoon = len(expiry.ExpiringSoon)
		out.Expired = len(expiry.Expired)
		out.PendingRequests = len(pending)
		out.WastageValue30d = wastageValue(wastage).Round(2)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

// WastageReport agrega las mermas del rango [start, end] (días completos) por artículo,
// de mayor a menor valor perdido.
func (uc *ReportUseCase) WastageReport(ctx context.Context, in dto.WastageReportRequest) (*dto.WastageReportDTO, error) {
	start, err := dto.ParseDate(in.StartDate, uc.loc)
	if err != nil {
		return nil, err
	}
	end, err := dto.ParseDate(in.EndDate, uc.loc)
	if err != nil {
		return nil, err
	}
	if end == nil {
		e := inventory.DateOnly(uc.now(), uc.loc)
		end = &e
	}
	if start == nil {
		s := end.AddDate(0, 0, -wastageLookback)
		start = &s
	}
	if end.Before(*start) {
		return nil, fmt.Errorf("%w: end_date anterior a start_date", domain.ErrInvalidInput)
	}
	until := end.AddDate(0, 0, 1).Add(-time.Nanosecond)

	out := &dto.WastageReportDTO{
		StartDate:  start.Format(dto.DateLayout),
		EndDate:    end.Format(dto.DateLayout),
		Rows:       []dto.WastageRowDTO{},
		TotalValue: decimal.Zero,
	}
	err = uc.tx.View(ctx, func(repos repository.Repositories) error {
		movements, err := repos.Movements.List(repository.MovementFilter{Type: entity.MovementTypeWastage, From: start, To: &until})
		if err != nil {
			return err
		}
		items, err := repos.Items.List()
		if err != nil {
			return err
		}
		names := make(map[string]*entity.InventoryItem, len(items))
		for _, it := range items {
			names[it.ID] = it
		}

		idx := make(map[string]int)
		for _, m := range movements {
			i, ok := idx[m.ItemID]
			if !ok {
				row := dto.WastageRowDTO{ItemID: m.ItemID, ItemName: m.ItemID}
				if it := names[m.ItemID]; it != nil {
					row.ItemName, row.Unit = it.Name, it.Unit
				}
				out.Rows = append(out.Rows, row)
				i = len(out.Rows) - 1
				idx[m.ItemID] = i
			}
			lost := m.Quantity.Abs()
			out.Rows[i].Quantity = out.Rows[i].Quantity.Add(lost)
			out.Rows[i].Value = out.Rows[i].Value.Add(lost.Mul(m.UnitCost))
			out.Rows[i].Events++
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	for i := range out.Rows {
		out.Rows[i].Value = out.Rows[i].Value.Round(2)
		out.TotalValue = out.TotalValue.Add(out.Rows[i].Value)
	}
	sort.SliceStable(out.Rows, func(i, j int) bool { return out.Rows[i].Value.GreaterThan(out.Rows[j].Value) })
	return out, nil
}

// StockReport arma el informe de stock: una fila por artículo, ordenadas por nombre.
func (uc *ReportUseCase) StockReport(ctx context.Context) (*dto.StockReport, error) {
	out := &dto.StockReport{GeneratedAt: uc.now().In(uc.loc), Rows: []dto.StockRow{}, TotalValue: decimal.Zero}
	err := uc.tx.View(ctx, func(repos repository.Repositories) error {
		items, err := repos.Items.List()
		if err != nil {
			return err
		}
		for _, it := range items {
			row := dto.StockRow{
				ItemID:      it.ID,
				Name:        it.Name,
				Category:    it.Category,
				Unit:        it.Unit,
				Location:    it.Location,
				Status:      inventory.ItemStatus(it),
				Stock:       it.CurrentStock,
				CostPerUnit: it.CostPerUnit,
				Value:       it.Value().Round(2),
			}
			switch row.Status {
			case inventory.StatusGood:
				out.GoodCount++
			case inventory.StatusLow:
				out.LowCount++
			case inventory.StatusCritical:
				out.CriticalCount++
			}
			out.TotalValue = out.TotalValue.Add(row.Value)
			out.Rows = append(out.Rows, row)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	SortRows(out.Rows)
	return out, nil
}

// Export genera el informe de stock en el formato pedido.
func (uc *ReportUseCase) Export(ctx context.Context, format string) (*dto.ExportFile, error) {
	exporter, ok := uc.exporters[format]
	if !ok {
		return nil, fmt.Errorf("%w: formato de exportación %q", domain.ErrInvalidInput, format)
	}
	report, err := uc.StockReport(ctx)
	if err != nil {
		return nil, err
	}
	content, err := exporter.Export(ctx, report)
	if err != nil {
		return nil, fmt.Errorf("exportar %s: %w", format, err)
	}
	return &dto.ExportFile{
		Filename:    "inventario-" + report.GeneratedAt.Format("20060102") + "." + format,
		ContentType: exporter.ContentType(),
		Content:     content,
	}, nil
}

// SortRows ordena por nombre con collation española (ñ tras n, acentos secundarios, sin mayúsculas).
func SortRows(rows []dto.StockRow) {
	c := collate.New(language.Spanish, collate.IgnoreCase)
	sort.SliceStable(rows, func(i, j int) bool {
		return c.CompareString(rows[i].Name, rows[j].Name) < 0
	})
}

func wastageValue(movements []*entity.StockMovement) decimal.Decimal {
	total := decimal.Zero
	for _, m := range movements {
		total = total.Add(m.Quantity.Abs().Mul(m.UnitCost))
	}
	return total
}
