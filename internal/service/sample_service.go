package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/Verone2021/Verone-V1-sub003/internal/apierror"
	"github.com/Verone2021/Verone-V1-sub003/internal/dto"
	"github.com/Verone2021/Verone-V1-sub003/internal/model"
	"github.com/Verone2021/Verone-V1-sub003/internal/repository"
	"github.com/Verone2021/Verone-V1-sub003/internal/worker"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// AddItemInput is the aggregator's request to attach one draft's sample line
// to a supplier order.
type AddItemInput struct {
	OrderID       *uuid.UUID // nil opens a new order for the supplier
	DraftID       uuid.UUID
	SupplierID    uuid.UUID
	Description   string
	EstimatedCost decimal.Decimal
	DeliveryDays  int
}

// SampleService groups per-supplier sample requests into orders and advances
// their approval state. Orders only move forward:
// draft → pending_approval → approved → delivered.
type SampleService interface {
	AddItem(ctx context.Context, actor Actor, in AddItemInput) (*dto.RequestSampleResponse, error)
	SubmitForApproval(ctx context.Context, actor Actor, orderID uuid.UUID) (*dto.SampleOrderResponse, error)
	Approve(ctx context.Context, approver Actor, orderID uuid.UUID, notes *string) (*dto.SampleOrderResponse, error)
	MarkDelivered(ctx context.Context, actor Actor, orderID uuid.UUID) (*dto.SampleOrderResponse, error)
	GetOrder(ctx context.Context, actor Actor, orderID uuid.UUID) (*dto.SampleOrderResponse, error)
	ListOrders(ctx context.Context, actor Actor, filter dto.SampleOrderFilter) (*dto.SampleOrderListResponse, error)
}

type sampleService struct {
	repo       repository.SampleOrderRepository
	dispatcher *worker.Dispatcher
}

func NewSampleService(repo repository.SampleOrderRepository, dispatcher *worker.Dispatcher) SampleService {
	return &sampleService{repo: repo, dispatcher: dispatcher}
}

// ── AddItem ───────────────────────────────────────────────────────────────────
// Grouping exists so that several sample requests to the same supplier travel
// through one negotiation and one shipment instead of separate cycles.

func (s *sampleService) AddItem(ctx context.Context, actor Actor, in AddItemInput) (*dto.RequestSampleResponse, error) {
	var order *model.SampleOrder

	if in.OrderID == nil {
		order = &model.SampleOrder{
			SupplierID: in.SupplierID,
			Status:     model.OrderDraft,
			OwnerID:    actor.ID,
		}
		if err := s.repo.Create(ctx, order); err != nil {
			return nil, err
		}
	} else {
		var err error
		order, err = s.loadOwnedOrder(ctx, actor, *in.OrderID)
		if err != nil {
			return nil, err
		}
		if order.Status != model.OrderDraft {
			return nil, apierror.Validation(apierror.CodeOrderNotEditable, "Les articles ne peuvent être ajoutés qu'à une commande en brouillon")
		}
		if order.SupplierID != in.SupplierID {
			return nil, apierror.Validation("", "La commande d'échantillons appartient à un autre fournisseur")
		}
	}

	item := &model.SampleOrderItem{
		OrderID:       order.ID,
		DraftID:       in.DraftID,
		Description:   strings.TrimSpace(in.Description),
		EstimatedCost: in.EstimatedCost,
		DeliveryDays:  in.DeliveryDays,
		Status:        model.ItemPending,
	}
	if err := s.repo.CreateItem(ctx, item); err != nil {
		return nil, err
	}

	// Keep the order-level aggregates current.
	order.EstimatedTotal = order.EstimatedTotal.Add(in.EstimatedCost)
	if in.DeliveryDays > order.ExpectedDeliveryDays {
		order.ExpectedDeliveryDays = in.DeliveryDays
	}
	if err := s.repo.Update(ctx, order); err != nil {
		return nil, err
	}

	return &dto.RequestSampleResponse{
		OrderID: order.ID.String(),
		ItemID:  item.ID.String(),
	}, nil
}

// ── SubmitForApproval ─────────────────────────────────────────────────────────
// Admission control: nothing reaches the supplier until an approver signs
// off. Every item must carry a description and a positive estimated cost;
// offending items are named in the validation error.

func (s *sampleService) SubmitForApproval(ctx context.Context, actor Actor, orderID uuid.UUID) (*dto.SampleOrderResponse, error) {
	order, err := s.loadOwnedOrder(ctx, actor, orderID)
	if err != nil {
		return nil, err
	}
	if order.Status != model.OrderDraft {
		return nil, apierror.Conflict(apierror.CodeInvalidTransition,
			fmt.Sprintf("La commande est en statut %s, soumission impossible", order.Status))
	}

	invalid := make(map[string]string)
	for _, it := range order.Items {
		if strings.TrimSpace(it.Description) == "" {
			invalid[it.ID.String()] = "description manquante"
		} else if it.EstimatedCost.LessThanOrEqual(decimal.Zero) {
			invalid[it.ID.String()] = "coût estimé non positif"
		}
	}
	if len(order.Items) == 0 {
		return nil, apierror.Validation(apierror.CodeItemsInvalid, "La commande ne contient aucun article")
	}
	if len(invalid) > 0 {
		e := apierror.ValidationFields("Certains articles sont incomplets", invalid)
		e.Code = apierror.CodeItemsInvalid
		return nil, e
	}

	affected, err := s.repo.UpdateStatusIf(ctx, orderID, model.OrderDraft, model.ValidOrderTransitions[model.OrderDraft], nil)
	if err != nil {
		return nil, err
	}
	if affected == 0 {
		return nil, apierror.Conflict(apierror.CodeInvalidTransition, "La commande a déjà changé de statut")
	}

	if err := s.dispatcher.EnqueueNotification(ctx, worker.NotificationPayload{
		Event:   worker.EventOrderSubmitted,
		OrderID: order.ID.String(),
	}); err != nil {
		log.Error().Err(err).Str("order_id", order.ID.String()).Msg("failed to enqueue submission notification")
	}

	return s.reload(ctx, orderID)
}

// ── Approve ───────────────────────────────────────────────────────────────────
// Approval authorizes ordering from the supplier. It deliberately does NOT
// flip any draft's sample_status — that happens after physical receipt and
// inspection, through RecordSampleValidation.

func (s *sampleService) Approve(ctx context.Context, approver Actor, orderID uuid.UUID, notes *string) (*dto.SampleOrderResponse, error) {
	if _, err := s.loadOwnedOrder(ctx, approver, orderID); err != nil {
		return nil, err
	}

	extra := map[string]interface{}{
		"approved_by": approver.ID,
	}
	if notes != nil {
		extra["approval_notes"] = *notes
	}
	affected, err := s.repo.UpdateStatusIf(ctx, orderID, model.OrderPendingApproval, model.ValidOrderTransitions[model.OrderPendingApproval], extra)
	if err != nil {
		return nil, err
	}
	if affected == 0 {
		return s.transitionConflict(ctx, orderID, model.OrderPendingApproval)
	}

	if err := s.dispatcher.EnqueueNotification(ctx, worker.NotificationPayload{
		Event:   worker.EventOrderApproved,
		OrderID: orderID.String(),
	}); err != nil {
		log.Error().Err(err).Str("order_id", orderID.String()).Msg("failed to enqueue approval notification")
	}

	return s.reload(ctx, orderID)
}

// ── MarkDelivered ─────────────────────────────────────────────────────────────
// Terminal for the order, independent of whether individual drafts have been
// sample-validated yet.

func (s *sampleService) MarkDelivered(ctx context.Context, actor Actor, orderID uuid.UUID) (*dto.SampleOrderResponse, error) {
	if _, err := s.loadOwnedOrder(ctx, actor, orderID); err != nil {
		return nil, err
	}

	affected, err := s.repo.UpdateStatusIf(ctx, orderID, model.OrderApproved, model.ValidOrderTransitions[model.OrderApproved],
		map[string]interface{}{"updated_at": time.Now()})
	if err != nil {
		return nil, err
	}
	if affected == 0 {
		return s.transitionConflict(ctx, orderID, model.OrderApproved)
	}
	return s.reload(ctx, orderID)
}

func (s *sampleService) GetOrder(ctx context.Context, actor Actor, orderID uuid.UUID) (*dto.SampleOrderResponse, error) {
	order, err := s.loadOwnedOrder(ctx, actor, orderID)
	if err != nil {
		return nil, err
	}
	return orderToResponse(order), nil
}

func (s *sampleService) ListOrders(ctx context.Context, actor Actor, filter dto.SampleOrderFilter) (*dto.SampleOrderListResponse, error) {
	orders, total, err := s.repo.List(ctx, actor.ID, filter)
	if err != nil {
		return nil, err
	}
	resp := &dto.SampleOrderListResponse{
		Data:  make([]dto.SampleOrderResponse, 0, len(orders)),
		Total: total,
		Page:  filter.Page,
		Limit: filter.Limit,
	}
	for i := range orders {
		resp.Data = append(resp.Data, *orderToResponse(&orders[i]))
	}
	if filter.Limit > 0 {
		resp.TotalPages = int((total + int64(filter.Limit) - 1) / int64(filter.Limit))
	}
	return resp, nil
}

// ── Helpers ───────────────────────────────────────────────────────────────────

func (s *sampleService) loadOrder(ctx context.Context, id uuid.UUID) (*model.SampleOrder, error) {
	order, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apierror.NotFound("Commande d'échantillons")
		}
		return nil, err
	}
	return order, nil
}

// loadOwnedOrder applies the same scoping to mutations as to reads: only the
// owner, an approver or an admin may touch the order.
func (s *sampleService) loadOwnedOrder(ctx context.Context, actor Actor, id uuid.UUID) (*model.SampleOrder, error) {
	order, err := s.loadOrder(ctx, id)
	if err != nil {
		return nil, err
	}
	if order.OwnerID != actor.ID && actor.Role != RoleAdmin && actor.Role != RoleApprover {
		return nil, apierror.Permission("Cette commande appartient à un autre acheteur")
	}
	return order, nil
}

func (s *sampleService) reload(ctx context.Context, id uuid.UUID) (*dto.SampleOrderResponse, error) {
	order, err := s.loadOrder(ctx, id)
	if err != nil {
		return nil, err
	}
	return orderToResponse(order), nil
}

// transitionConflict distinguishes "unknown order" from "state already
// advanced past the requested transition".
func (s *sampleService) transitionConflict(ctx context.Context, id uuid.UUID, expected string) (*dto.SampleOrderResponse, error) {
	order, err := s.loadOrder(ctx, id)
	if err != nil {
		return nil, err
	}
	return nil, apierror.Conflict(apierror.CodeInvalidTransition,
		fmt.Sprintf("Transition impossible: statut actuel %s, attendu %s", order.Status, expected))
}

func orderToResponse(o *model.SampleOrder) *dto.SampleOrderResponse {
	resp := &dto.SampleOrderResponse{
		ID:                   o.ID.String(),
		SupplierID:           o.SupplierID.String(),
		Status:               o.Status,
		EstimatedTotal:       o.EstimatedTotal,
		ExpectedDeliveryDays: o.ExpectedDeliveryDays,
		OwnerID:              o.OwnerID.String(),
		ApprovedBy:           uuidPtrToString(o.ApprovedBy),
		ApprovalNotes:        o.ApprovalNotes,
		Items:                make([]dto.SampleOrderItemResponse, 0, len(o.Items)),
	}
	for _, it := range o.Items {
		resp.Items = append(resp.Items, dto.SampleOrderItemResponse{
			ID:            it.ID.String(),
			DraftID:       it.DraftID.String(),
			Description:   it.Description,
			EstimatedCost: it.EstimatedCost,
			DeliveryDays:  it.DeliveryDays,
			Status:        it.Status,
		})
	}
	return resp
}
