// Package request flujo de solicitudes de reposición: alta, revisión y listado.
// Una solicitud aprobada no toca el ledger; se cumple cuando una entrada de stock la referencia.
package request

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/jhoicas/templo-inventario/internal/application/dto"
	"github.com/jhoicas/templo-inventario/internal/application/ports"
	"github.com/jhoicas/templo-inventario/internal/domain"
	"github.com/jhoicas/templo-inventario/internal/domain/entity"
	"github.com/jhoicas/templo-inventario/internal/domain/repository"
)

// RequestUseCase casos de uso de solicitudes de stock.
type RequestUseCase struct {
	tx      ports.TxRunner
	metrics ports.Metrics
	log     zerolog.Logger
	now     func() time.Time
}

// NewRequestUseCase construye el caso de uso. metrics puede ser nil.
func NewRequestUseCase(tx ports.TxRunner, metrics ports.Metrics, log zerolog.Logger) *RequestUseCase {
	if metrics == nil {
		metrics = ports.NopMetrics{}
	}
	return &RequestUseCase{tx: tx, metrics: metrics, log: log, now: time.Now}
}

// WithClock sustituye el reloj (tests).
func (uc *RequestUseCase) WithClock(now func() time.Time) *RequestUseCase {
	uc.now = now
	return uc
}

// Create registra una solicitud pendiente para un artículo existente.
func (uc *RequestUseCase) Create(ctx context.Context, actor string, in dto.CreateStockRequest) (*entity.StockRequest, error) {
	if err := in.Validate(); err != nil {
		return nil, err
	}
	now := uc.now()
	req := &entity.StockRequest{
		ID:          uuid.New().String(),
		ItemID:      in.ItemID,
		Quantity:    in.Quantity,
		Reason:      strings.TrimSpace(in.Reason),
		RequestedBy: actor,
		Status:      entity.RequestStatusPending,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	err := uc.tx.Run(ctx, func(repos repository.Repositories) error {
		item, err := repos.Items.GetByID(in.ItemID)
		if err != nil {
			return err
		}
		if item == nil {
			return fmt.Errorf("%w: artículo %s", domain.ErrNotFound, in.ItemID)
		}
		return repos.Requests.Create(req)
	})
	if err != nil {
		return nil, err
	}
	uc.metrics.RequestTransition(req.Status)
	uc.log.Info().Str("request_id", req.ID).Str("item_id", req.ItemID).Str("actor", actor).Msg("solicitud creada")
	return req, nil
}

// Approve aprueba una solicitud pendiente.
func (uc *RequestUseCase) Approve(ctx context.Context, actor, id string, in dto.ReviewRequest) (*entity.StockRequest, error) {
	return uc.review(ctx, actor, id, entity.RequestStatusApproved, in.Note)
}

// Reject rechaza una solicitud pendiente.
func (uc *RequestUseCase) Reject(ctx context.Context, actor, id string, in dto.ReviewRequest) (*entity.StockRequest, error) {
	return uc.review(ctx, actor, id, entity.RequestStatusRejected, in.Note)
}

func (uc *RequestUseCase) review(ctx context.Context, actor, id, status, note string) (*entity.StockRequest, error) {
	var out *entity.StockRequest
	err := uc.tx.Run(ctx, func(repos repository.Repositories) error {
		req, err := repos.Requests.GetByID(id)
		if err != nil {
			return err
		}
		if req == nil {
			return fmt.Errorf("%w: solicitud %s", domain.ErrNotFound, id)
		}
		if req.Status != entity.RequestStatusPending {
			return fmt.Errorf("%w: la solicitud ya está %s", domain.ErrConflict, req.Status)
		}
		now := uc.now()
		req.Status = status
		req.ReviewedBy = actor
		req.ReviewNote = strings.TrimSpace(note)
		req.ReviewedAt = &now
		req.UpdatedAt = now
		if err := repos.Requests.Update(req); err != nil {
			return err
		}
		out = req
		return nil
	})
	if err != nil {
		return nil, err
	}
	uc.metrics.RequestTransition(status)
	uc.log.Info().Str("request_id", id).Str("status", status).Str("actor", actor).Msg("solicitud revisada")
	return out, nil
}

// List devuelve las solicitudes, las más recientes primero. status vacío = todas.
func (uc *RequestUseCase) List(ctx context.Context, status string) ([]*entity.StockRequest, error) {
	switch status {
	case "", entity.RequestStatusPending, entity.RequestStatusApproved, entity.RequestStatusRejected, entity.RequestStatusFulfilled:
	default:
		return nil, fmt.Errorf("%w: status %q", domain.ErrInvalidInput, status)
	}
	out := []*entity.StockRequest{}
	err := uc.tx.View(ctx, func(repos repository.Repositories) error {
		list, err := repos.Requests.List(status)
		if err != nil {
			return err
		}
		out = append(out, list...)
		sort.SliceStable(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
		return nil
	})
	return out, err
}
