package service

import (
	"context"
	"testing"

	"github.com/Verone2021/Verone-V1-sub003/internal/apierror"
	"github.com/Verone2021/Verone-V1-sub003/internal/dto"
	"github.com/Verone2021/Verone-V1-sub003/internal/model"
	"github.com/Verone2021/Verone-V1-sub003/internal/worker"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type sampleFixture struct {
	svc      SampleService
	repo     *stubSampleOrderRepo
	buyer    Actor
	approver Actor
}

func newSampleFixture() *sampleFixture {
	repo := newStubSampleOrderRepo()
	return &sampleFixture{
		svc:      NewSampleService(repo, worker.NewDispatcher(nil)),
		repo:     repo,
		buyer:    Actor{ID: uuid.New(), Role: RoleBuyer},
		approver: Actor{ID: uuid.New(), Role: RoleApprover},
	}
}

func (f *sampleFixture) addItem(t *testing.T, orderID *uuid.UUID, supplierID uuid.UUID, desc, cost string, days int) *dto.RequestSampleResponse {
	t.Helper()
	resp, err := f.svc.AddItem(context.Background(), f.buyer, AddItemInput{
		OrderID:       orderID,
		DraftID:       uuid.New(),
		SupplierID:    supplierID,
		Description:   desc,
		EstimatedCost: decimal.RequireFromString(cost),
		DeliveryDays:  days,
	})
	require.NoError(t, err)
	return resp
}

func TestAddItem_GroupsBySupplierOrder(t *testing.T) {
	f := newSampleFixture()
	supplierID := uuid.New()

	first := f.addItem(t, nil, supplierID, "Vase 20cm", "15", 10)
	orderID := uuid.MustParse(first.OrderID)
	second := f.addItem(t, &orderID, supplierID, "Vase 30cm", "22.50", 15)

	assert.Equal(t, first.OrderID, second.OrderID)
	assert.NotEqual(t, first.ItemID, second.ItemID)

	order, err := f.svc.GetOrder(context.Background(), f.buyer, orderID)
	require.NoError(t, err)
	assert.Equal(t, model.OrderDraft, order.Status)
	require.Len(t, order.Items, 2)
	assert.True(t, order.EstimatedTotal.Equal(decimal.RequireFromString("37.50")))
	// The slowest item drives the expected delivery.
	assert.Equal(t, 15, order.ExpectedDeliveryDays)
}

func TestAddItem_SupplierMismatchRejected(t *testing.T) {
	f := newSampleFixture()
	first := f.addItem(t, nil, uuid.New(), "Vase", "15", 10)
	orderID := uuid.MustParse(first.OrderID)

	_, err := f.svc.AddItem(context.Background(), f.buyer, AddItemInput{
		OrderID:       &orderID,
		DraftID:       uuid.New(),
		SupplierID:    uuid.New(),
		Description:   "Chaise",
		EstimatedCost: decimal.RequireFromString("30"),
	})
	require.Error(t, err)
	assert.True(t, apierror.IsKind(err, apierror.KindValidation))
}

func TestAddItem_OrderNotEditableAfterSubmission(t *testing.T) {
	f := newSampleFixture()
	supplierID := uuid.New()
	first := f.addItem(t, nil, supplierID, "Vase", "15", 10)
	orderID := uuid.MustParse(first.OrderID)

	_, err := f.svc.SubmitForApproval(context.Background(), f.buyer, orderID)
	require.NoError(t, err)

	_, err = f.svc.AddItem(context.Background(), f.buyer, AddItemInput{
		OrderID:       &orderID,
		DraftID:       uuid.New(),
		SupplierID:    supplierID,
		Description:   "Vase 30cm",
		EstimatedCost: decimal.RequireFromString("22.50"),
	})
	var e *apierror.Error
	require.ErrorAs(t, err, &e)
	assert.Equal(t, apierror.CodeOrderNotEditable, e.Code)
}

func TestSubmitForApproval_EmptyOrderRejected(t *testing.T) {
	f := newSampleFixture()
	order := &model.SampleOrder{SupplierID: uuid.New(), Status: model.OrderDraft, OwnerID: f.buyer.ID}
	require.NoError(t, f.repo.Create(context.Background(), order))

	_, err := f.svc.SubmitForApproval(context.Background(), f.buyer, order.ID)
	var e *apierror.Error
	require.ErrorAs(t, err, &e)
	assert.Equal(t, apierror.CodeItemsInvalid, e.Code)
}

func TestSubmitForApproval_InvalidItemsNamed(t *testing.T) {
	f := newSampleFixture()
	supplierID := uuid.New()

	noDesc := f.addItem(t, nil, supplierID, "   ", "15", 5)
	orderID := uuid.MustParse(noDesc.OrderID)
	zeroCost := f.addItem(t, &orderID, supplierID, "Vase 30cm", "0", 5)
	valid := f.addItem(t, &orderID, supplierID, "Vase 40cm", "18", 5)

	_, err := f.svc.SubmitForApproval(context.Background(), f.buyer, orderID)
	var e *apierror.Error
	require.ErrorAs(t, err, &e)
	assert.Equal(t, apierror.CodeItemsInvalid, e.Code)
	assert.Equal(t, "description manquante", e.Fields[noDesc.ItemID])
	assert.Equal(t, "coût estimé non positif", e.Fields[zeroCost.ItemID])
	assert.NotContains(t, e.Fields, valid.ItemID)

	// The order did not move.
	order, err := f.svc.GetOrder(context.Background(), f.buyer, orderID)
	require.NoError(t, err)
	assert.Equal(t, model.OrderDraft, order.Status)
}

func TestOrderLifecycle_ForwardOnly(t *testing.T) {
	f := newSampleFixture()
	first := f.addItem(t, nil, uuid.New(), "Vase 20cm", "15", 10)
	orderID := uuid.MustParse(first.OrderID)

	submitted, err := f.svc.SubmitForApproval(context.Background(), f.buyer, orderID)
	require.NoError(t, err)
	assert.Equal(t, model.OrderPendingApproval, submitted.Status)

	approved, err := f.svc.Approve(context.Background(), f.approver, orderID, strPtr("OK pour commande"))
	require.NoError(t, err)
	assert.Equal(t, model.OrderApproved, approved.Status)
	require.NotNil(t, approved.ApprovedBy)
	assert.Equal(t, f.approver.ID.String(), *approved.ApprovedBy)
	require.NotNil(t, approved.ApprovalNotes)
	assert.Equal(t, "OK pour commande", *approved.ApprovalNotes)

	delivered, err := f.svc.MarkDelivered(context.Background(), f.buyer, orderID)
	require.NoError(t, err)
	assert.Equal(t, model.OrderDelivered, delivered.Status)
}

func TestApprove_WrongStateIsConflict(t *testing.T) {
	f := newSampleFixture()
	first := f.addItem(t, nil, uuid.New(), "Vase", "15", 10)
	orderID := uuid.MustParse(first.OrderID)

	// Still draft: approval requires pending_approval.
	_, err := f.svc.Approve(context.Background(), f.approver, orderID, nil)
	var e *apierror.Error
	require.ErrorAs(t, err, &e)
	assert.Equal(t, apierror.CodeInvalidTransition, e.Code)
	assert.True(t, apierror.IsKind(err, apierror.KindConflict))
	assert.Contains(t, e.Detail, model.OrderDraft)
}

func TestMarkDelivered_RequiresApprovedState(t *testing.T) {
	f := newSampleFixture()
	first := f.addItem(t, nil, uuid.New(), "Vase", "15", 10)
	orderID := uuid.MustParse(first.OrderID)

	_, err := f.svc.MarkDelivered(context.Background(), f.buyer, orderID)
	var e *apierror.Error
	require.ErrorAs(t, err, &e)
	assert.Equal(t, apierror.CodeInvalidTransition, e.Code)
}

func TestOrderMutations_OwnershipScoping(t *testing.T) {
	f := newSampleFixture()
	first := f.addItem(t, nil, uuid.New(), "Vase", "15", 10)
	orderID := uuid.MustParse(first.OrderID)
	intruder := Actor{ID: uuid.New(), Role: RoleBuyer}

	// A buyer who is not the owner can neither read nor mutate the order.
	_, err := f.svc.AddItem(context.Background(), intruder, AddItemInput{
		OrderID:       &orderID,
		DraftID:       uuid.New(),
		SupplierID:    uuid.New(),
		Description:   "Chaise",
		EstimatedCost: decimal.RequireFromString("30"),
	})
	assert.True(t, apierror.IsKind(err, apierror.KindPermission))

	_, err = f.svc.SubmitForApproval(context.Background(), intruder, orderID)
	assert.True(t, apierror.IsKind(err, apierror.KindPermission))

	_, err = f.svc.MarkDelivered(context.Background(), intruder, orderID)
	assert.True(t, apierror.IsKind(err, apierror.KindPermission))

	// Nothing moved.
	order, err := f.svc.GetOrder(context.Background(), f.buyer, orderID)
	require.NoError(t, err)
	assert.Equal(t, model.OrderDraft, order.Status)
	assert.Len(t, order.Items, 1)
}

func TestGetOrder_OwnershipScoping(t *testing.T) {
	f := newSampleFixture()
	first := f.addItem(t, nil, uuid.New(), "Vase", "15", 10)
	orderID := uuid.MustParse(first.OrderID)

	_, err := f.svc.GetOrder(context.Background(), Actor{ID: uuid.New(), Role: RoleBuyer}, orderID)
	require.Error(t, err)
	assert.True(t, apierror.IsKind(err, apierror.KindPermission))

	_, err = f.svc.GetOrder(context.Background(), f.approver, orderID)
	assert.NoError(t, err)
}

func TestGetOrder_Unknown(t *testing.T) {
	f := newSampleFixture()
	_, err := f.svc.GetOrder(context.Background(), f.buyer, uuid.New())
	require.Error(t, err)
	assert.True(t, apierror.IsKind(err, apierror.KindNotFound))
}
