package inventory

import (
	"math"
	"sort"
	"time"

	"github.com/jhoicas/templo-inventario/internal/domain/entity"
)

// ExpiryReport resultado de clasificar lotes por caducidad.
type ExpiryReport struct {
	Today        time.Time
	WindowDays   int
	ExpiringSoon []*entity.StockBatch // caducan en [hoy, hoy+N]
	Expired      []*entity.StockBatch // caducaron antes de hoy y siguen activos
}

// DateOnly trunca t a la medianoche de su día calendario en loc.
func DateOnly(t time.Time, loc *time.Location) time.Time {
	if loc == nil {
		loc = time.UTC
	}
	t = t.In(loc)
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, loc)
}

// ClassifyExpiry separa los lotes activos con fecha de caducidad en "caducan pronto" y "caducados".
// La comparación es por día calendario en la zona de today: un lote que caduca hoy cae en la ventana
// y todavía no cuenta como caducado; uno que caducó ayer solo aparece como caducado.
// Lotes sin fecha de caducidad o no activos se ignoran. days debe ser >= 0.
func ClassifyExpiry(batches []*entity.StockBatch, today time.Time, days int) ExpiryReport {
	loc := today.Location()
	start := DateOnly(today, loc)
	end := start.AddDate(0, 0, days)

	report := ExpiryReport{Today: start, WindowDays: days}
	for _, b := range batches {
		if !b.IsActive() || b.ExpiryDate == nil {
			continue
		}
		exp := DateOnly(*b.ExpiryDate, loc)
		switch {
		case exp.Before(start):
			report.Expired = append(report.Expired, b)
		case !exp.After(end):
			report.ExpiringSoon = append(report.ExpiringSoon, b)
		}
	}
	SortByExpiry(report.ExpiringSoon)
	SortByExpiry(report.Expired)
	return report
}

// DaysUntilExpiry días calendario entre today y la caducidad del lote (negativo si ya caducó).
// ok=false si el lote no tiene fecha de caducidad.
func DaysUntilExpiry(b *entity.StockBatch, today time.Time) (int, bool) {
	if b.ExpiryDate == nil {
		return 0, false
	}
	loc := today.Location()
	start := DateOnly(today, loc)
	exp := DateOnly(*b.ExpiryDate, loc)
	// Redondeo por horas para no depender de cambios de horario.
	return int(math.Round(exp.Sub(start).Hours() / 24)), true
}

// SortByExpiry ordena por fecha de caducidad ascendente; empates por orden FIFO de compra.
func SortByExpiry(batches []*entity.StockBatch) {
	sort.SliceStable(batches, func(i, j int) bool {
		a, b := batches[i], batches[j]
		if !a.ExpiryDate.Equal(*b.ExpiryDate) {
			return a.ExpiryDate.Before(*b.ExpiryDate)
		}
		return a.PurchaseDate.Before(b.PurchaseDate)
	})
}
