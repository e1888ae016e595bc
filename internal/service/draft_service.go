package service

import (
	"context"
	"errors"
	"path/filepath"
	"strings"

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

// Roles understood by the back office.
const (
	RoleBuyer    = "acheteur"
	RoleApprover = "approbateur"
	RoleAdmin    = "admin"
)

// Actor is the already-resolved identity performing an operation. The core
// never authenticates — the JWT middleware supplies this.
type Actor struct {
	ID   uuid.UUID
	Role string
}

// MediaStore is the object-storage contract consumed for image files.
type MediaStore interface {
	Upload(ctx context.Context, data []byte, name string) (string, error)
	PublicURL(path string) string
	Delete(ctx context.Context, path string) error
}

// DraftService is the lifecycle state machine for product drafts: creation
// (sourcing fast-path or complete), field updates, sourcing validation, the
// sample sub-workflow hooks and image management. Promotion itself lives in
// PromotionService.
type DraftService interface {
	CreateDraft(ctx context.Context, actor Actor, req dto.CreateDraftRequest) (*dto.DraftResponse, error)
	GetDraft(ctx context.Context, actor Actor, id uuid.UUID) (*dto.DraftResponse, error)
	ListDrafts(ctx context.Context, actor Actor, filter dto.DraftFilter) (*dto.DraftListResponse, error)
	UpdateDraft(ctx context.Context, actor Actor, id uuid.UUID, req dto.UpdateDraftRequest) (*dto.DraftResponse, error)
	EvaluateDraftCompleteness(ctx context.Context, actor Actor, id uuid.UUID) (*dto.CompletenessResult, error)

	ValidateSourcingDraft(ctx context.Context, actor Actor, id uuid.UUID, req dto.ValidateSourcingRequest) (*dto.DraftResponse, error)
	RequestSample(ctx context.Context, actor Actor, id uuid.UUID, req dto.RequestSampleRequest) (*dto.RequestSampleResponse, error)
	RecordSampleValidation(ctx context.Context, actor Actor, req dto.RecordSampleValidationRequest) ([]dto.DraftResponse, error)

	AddImage(ctx context.Context, actor Actor, draftID uuid.UUID, req dto.AddImageRequest) (*dto.DraftImageResponse, error)
	SetPrimaryImage(ctx context.Context, actor Actor, draftID, imageID uuid.UUID) error
	DeleteImage(ctx context.Context, actor Actor, draftID, imageID uuid.UUID) error
}

type draftService struct {
	repo       repository.DraftRepository
	sampleRepo repository.SampleOrderRepository
	samples    SampleService
	media      MediaStore
	dispatcher *worker.Dispatcher
}

func NewDraftService(
	repo repository.DraftRepository,
	sampleRepo repository.SampleOrderRepository,
	samples SampleService,
	media MediaStore,
	dispatcher *worker.Dispatcher,
) DraftService {
	return &draftService{
		repo:       repo,
		sampleRepo: sampleRepo,
		samples:    samples,
		media:      media,
		dispatcher: dispatcher,
	}
}

// ── CreateDraft ───────────────────────────────────────────────────────────────
// Sourcing mode needs only a name and supplier reference; complete mode takes
// the full commercial record upfront. An inline image whose upload fails is
// dropped with a log line — the draft itself must survive.

func (s *draftService) CreateDraft(ctx context.Context, actor Actor, req dto.CreateDraftRequest) (*dto.DraftResponse, error) {
	d := &model.Draft{
		Name:            strings.TrimSpace(req.Name),
		CreationMode:    req.CreationMode,
		ProductType:     req.ProductType,
		SupplierPageURL: req.SupplierPageURL,

		CostPrice:             req.CostPrice,
		MarginPct:             req.MarginPct,
		EstimatedSellingPrice: req.EstimatedSellingPrice,

		Description:          req.Description,
		TechnicalDescription: req.TechnicalDescription,
		SellingPoints:        req.SellingPoints,

		SampleStatus:   model.SampleNone,
		SourcingStatus: model.SourcingDraft,
		OwnerID:        actor.ID,
	}

	var err error
	if d.AssignedClientID, err = parseOptionalUUID(req.AssignedClientID); err != nil {
		return nil, apierror.Validation("", "assigned_client_id invalide")
	}
	if d.SupplierID, err = parseOptionalUUID(req.SupplierID); err != nil {
		return nil, apierror.Validation("", "supplier_id invalide")
	}
	if d.SubcategoryID, err = parseOptionalUUID(req.SubcategoryID); err != nil {
		return nil, apierror.Validation("", "subcategory_id invalide")
	}

	if err := s.repo.Create(ctx, d); err != nil {
		return nil, err
	}

	if req.Image != nil {
		// Deliberate local recovery: an image-store failure must not abort
		// draft creation. The buyer re-uploads later.
		if _, err := s.attachImage(ctx, d.ID, dto.AddImageRequest(*req.Image)); err != nil {
			log.Warn().
				Str("draft_id", d.ID.String()).
				Err(err).
				Msg("image upload failed during draft creation — draft kept without image")
		}
	}

	created, err := s.repo.FindByID(ctx, d.ID)
	if err != nil {
		return nil, err
	}
	return draftToResponse(created), nil
}

func (s *draftService) GetDraft(ctx context.Context, actor Actor, id uuid.UUID) (*dto.DraftResponse, error) {
	d, err := s.loadOwned(ctx, actor, id)
	if err != nil {
		return nil, err
	}
	return draftToResponse(d), nil
}

func (s *draftService) ListDrafts(ctx context.Context, actor Actor, filter dto.DraftFilter) (*dto.DraftListResponse, error) {
	drafts, total, err := s.repo.List(ctx, actor.ID, filter)
	if err != nil {
		return nil, err
	}
	resp := &dto.DraftListResponse{
		Data:  make([]dto.DraftResponse, 0, len(drafts)),
		Total: total,
		Page:  filter.Page,
		Limit: filter.Limit,
	}
	for i := range drafts {
		resp.Data = append(resp.Data, *draftToResponse(&drafts[i]))
	}
	if filter.Limit > 0 {
		resp.TotalPages = int((total + int64(filter.Limit) - 1) / int64(filter.Limit))
	}
	return resp, nil
}

// ── UpdateDraft ───────────────────────────────────────────────────────────────
// Partial update, last-write-wins. Only the owner (or an admin) may edit.

func (s *draftService) UpdateDraft(ctx context.Context, actor Actor, id uuid.UUID, req dto.UpdateDraftRequest) (*dto.DraftResponse, error) {
	d, err := s.loadOwned(ctx, actor, id)
	if err != nil {
		return nil, err
	}

	if req.Name != nil {
		d.Name = strings.TrimSpace(*req.Name)
	}
	if req.SupplierPageURL != nil {
		d.SupplierPageURL = req.SupplierPageURL
	}
	if req.CostPrice != nil {
		d.CostPrice = req.CostPrice
	}
	if req.MarginPct != nil {
		d.MarginPct = req.MarginPct
	}
	if req.EstimatedSellingPrice != nil {
		d.EstimatedSellingPrice = req.EstimatedSellingPrice
	}
	if req.Description != nil {
		d.Description = req.Description
	}
	if req.TechnicalDescription != nil {
		d.TechnicalDescription = req.TechnicalDescription
	}
	if req.SellingPoints != nil {
		d.SellingPoints = req.SellingPoints
	}
	if req.AssignedClientID != nil {
		v, err := uuid.Parse(*req.AssignedClientID)
		if err != nil {
			return nil, apierror.Validation("", "assigned_client_id invalide")
		}
		d.AssignedClientID = &v
	}
	if req.SupplierID != nil {
		v, err := uuid.Parse(*req.SupplierID)
		if err != nil {
			return nil, apierror.Validation("", "supplier_id invalide")
		}
		d.SupplierID = &v
	}
	if req.SubcategoryID != nil {
		v, err := uuid.Parse(*req.SubcategoryID)
		if err != nil {
			return nil, apierror.Validation("", "subcategory_id invalide")
		}
		d.SubcategoryID = &v
	}

	if err := s.repo.Update(ctx, d); err != nil {
		return nil, err
	}
	return draftToResponse(d), nil
}

func (s *draftService) EvaluateDraftCompleteness(ctx context.Context, actor Actor, id uuid.UUID) (*dto.CompletenessResult, error) {
	d, err := s.loadOwned(ctx, actor, id)
	if err != nil {
		return nil, err
	}
	res := EvaluateCompleteness(d)
	return &res, nil
}

// ── ValidateSourcingDraft ─────────────────────────────────────────────────────
// Sourcing mode only. Pins the supplier and cost, records whether a physical
// sample is required; when no sample is needed the draft becomes
// catalog-eligible immediately.

func (s *draftService) ValidateSourcingDraft(ctx context.Context, actor Actor, id uuid.UUID, req dto.ValidateSourcingRequest) (*dto.DraftResponse, error) {
	d, err := s.loadOwned(ctx, actor, id)
	if err != nil {
		return nil, err
	}
	if d.CreationMode != model.ModeSourcing {
		return nil, apierror.Validation(apierror.CodeInvalidTransition, "La validation sourcing ne s'applique qu'aux brouillons en mode sourcing")
	}

	supplierID, err := uuid.Parse(strings.TrimSpace(req.SupplierID))
	if err != nil || supplierID == uuid.Nil {
		return nil, apierror.Validation(apierror.CodeSupplierRequired, "Un fournisseur est requis pour valider le sourcing")
	}
	if req.CostPrice.LessThanOrEqual(decimal.Zero) {
		return nil, apierror.Validation(apierror.CodeCostPriceInvalid, "Le prix d'achat doit être strictement positif")
	}

	d.SupplierID = &supplierID
	cost := req.CostPrice
	d.CostPrice = &cost
	d.RequiresSample = req.RequiresSample
	if req.EstimatedSellingPrice != nil {
		d.EstimatedSellingPrice = req.EstimatedSellingPrice
	}
	if !req.RequiresSample {
		d.SourcingStatus = model.SourcingValidated
	}
	// With a sample required the draft stays in its current sourcing state
	// until the sample sub-workflow approves it.

	if err := s.repo.Update(ctx, d); err != nil {
		return nil, err
	}
	return draftToResponse(d), nil
}

// ── RequestSample ─────────────────────────────────────────────────────────────
// Delegates to the sample order aggregator, then marks the draft as awaiting
// its sample.

func (s *draftService) RequestSample(ctx context.Context, actor Actor, id uuid.UUID, req dto.RequestSampleRequest) (*dto.RequestSampleResponse, error) {
	d, err := s.loadOwned(ctx, actor, id)
	if err != nil {
		return nil, err
	}
	if !d.RequiresSample {
		return nil, apierror.Validation(apierror.CodeInvalidTransition, "Ce brouillon ne requiert pas d'échantillon")
	}
	if d.SupplierID == nil {
		return nil, apierror.Validation(apierror.CodeSupplierRequired, "Un fournisseur doit être défini avant de demander un échantillon")
	}

	var orderID *uuid.UUID
	if req.OrderID != nil {
		v, err := uuid.Parse(*req.OrderID)
		if err != nil {
			return nil, apierror.Validation("", "order_id invalide")
		}
		orderID = &v
	}

	resp, err := s.samples.AddItem(ctx, actor, AddItemInput{
		OrderID:       orderID,
		DraftID:       d.ID,
		SupplierID:    *d.SupplierID,
		Description:   req.Description,
		EstimatedCost: req.EstimatedCost,
		DeliveryDays:  req.DeliveryDays,
	})
	if err != nil {
		return nil, err
	}

	if err := s.repo.UpdateFields(ctx, d.ID, map[string]interface{}{
		"sample_status": model.SampleRequestPending,
	}); err != nil {
		return nil, err
	}
	return resp, nil
}

// ── RecordSampleValidation ────────────────────────────────────────────────────
// Bulk result of the physical inspection, deliberately decoupled from the
// order-level approval. Rejection keeps the draft editable: the buyer can fix
// the product and request another sample.

func (s *draftService) RecordSampleValidation(ctx context.Context, actor Actor, req dto.RecordSampleValidationRequest) ([]dto.DraftResponse, error) {
	ids := make([]uuid.UUID, 0, len(req.DraftIDs))
	for _, raw := range req.DraftIDs {
		id, err := uuid.Parse(raw)
		if err != nil {
			return nil, apierror.Validation("", "draft_ids contient un identifiant invalide")
		}
		ids = append(ids, id)
	}

	drafts := make([]*model.Draft, 0, len(ids))
	for _, id := range ids {
		d, err := s.repo.FindByID(ctx, id)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, apierror.NotFound("Brouillon")
			}
			return nil, err
		}
		drafts = append(drafts, d)
	}

	var sampleStatus, itemStatus string
	if req.Result == "approved" {
		sampleStatus, itemStatus = model.SampleApproved, model.ItemApproved
	} else {
		sampleStatus, itemStatus = model.SampleRejected, model.ItemRejected
	}

	if err := s.repo.UpdateSampleStatusBulk(ctx, ids, sampleStatus); err != nil {
		return nil, err
	}

	out := make([]dto.DraftResponse, 0, len(drafts))
	for _, d := range drafts {
		d.SampleStatus = sampleStatus
		// An approved sample completes the sourcing validation that was held
		// open waiting for it.
		if sampleStatus == model.SampleApproved &&
			d.CreationMode == model.ModeSourcing &&
			d.SourcingStatus == model.SourcingDraft {
			d.SourcingStatus = model.SourcingValidated
			if err := s.repo.UpdateFields(ctx, d.ID, map[string]interface{}{
				"sourcing_status": model.SourcingValidated,
			}); err != nil {
				return nil, err
			}
		}
		out = append(out, *draftToResponse(d))
	}

	if err := s.sampleRepo.UpdateItemStatusByDrafts(ctx, ids, itemStatus); err != nil {
		// Item statuses are informational; the draft statuses above are the
		// source of truth for eligibility.
		log.Error().Err(err).Msg("failed to propagate sample result to order items")
	}
	return out, nil
}

// ── Images ────────────────────────────────────────────────────────────────────

func (s *draftService) AddImage(ctx context.Context, actor Actor, draftID uuid.UUID, req dto.AddImageRequest) (*dto.DraftImageResponse, error) {
	if _, err := s.loadOwned(ctx, actor, draftID); err != nil {
		return nil, err
	}
	return s.attachImage(ctx, draftID, req)
}

func (s *draftService) attachImage(ctx context.Context, draftID uuid.UUID, req dto.AddImageRequest) (*dto.DraftImageResponse, error) {
	path, err := s.media.Upload(ctx, req.Data, req.FileName)
	if err != nil {
		return nil, apierror.Storage("échec de l'envoi de l'image", err)
	}

	existing, err := s.repo.ListImages(ctx, draftID)
	if err != nil {
		return nil, err
	}
	// Deletions leave holes in display_order, so the next slot is
	// max(display_order)+1 rather than the image count.
	nextOrder := 0
	for _, prev := range existing {
		if prev.DisplayOrder >= nextOrder {
			nextOrder = prev.DisplayOrder + 1
		}
	}

	imageType := req.ImageType
	if imageType == "" {
		imageType = "photo"
	}
	img := &model.DraftImage{
		DraftID:      draftID,
		StoragePath:  path,
		PublicURL:    s.media.PublicURL(path),
		IsPrimary:    len(existing) == 0, // first image of an image-less draft
		ImageType:    imageType,
		AltText:      req.AltText,
		FileSize:     int64(len(req.Data)),
		Format:       strings.TrimPrefix(filepath.Ext(req.FileName), "."),
		DisplayOrder: nextOrder,
	}
	if err := s.repo.CreateImage(ctx, img); err != nil {
		return nil, err
	}
	return draftImageToResponse(img), nil
}

func (s *draftService) SetPrimaryImage(ctx context.Context, actor Actor, draftID, imageID uuid.UUID) error {
	if _, err := s.loadOwned(ctx, actor, draftID); err != nil {
		return err
	}
	if err := s.repo.SetPrimaryImage(ctx, draftID, imageID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return apierror.NotFound("Image")
		}
		return err
	}
	return nil
}

func (s *draftService) DeleteImage(ctx context.Context, actor Actor, draftID, imageID uuid.UUID) error {
	if _, err := s.loadOwned(ctx, actor, draftID); err != nil {
		return err
	}
	img, err := s.repo.FindImageByID(ctx, imageID)
	if err != nil || img.DraftID != draftID {
		return apierror.NotFound("Image")
	}
	if err := s.repo.DeleteImage(ctx, imageID); err != nil {
		return err
	}
	// Physical deletion is asynchronous; a storage hiccup must not fail the
	// request. The cleanup worker retries and dead-letters.
	if err := s.dispatcher.EnqueueMediaCleanup(ctx, worker.MediaCleanupPayload{StoragePath: img.StoragePath}); err != nil {
		log.Error().Err(err).Str("path", img.StoragePath).Msg("failed to enqueue media cleanup")
	}
	return nil
}

// ── Helpers ───────────────────────────────────────────────────────────────────

func (s *draftService) loadOwned(ctx context.Context, actor Actor, id uuid.UUID) (*model.Draft, error) {
	d, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apierror.NotFound("Brouillon")
		}
		return nil, err
	}
	if d.OwnerID != actor.ID && actor.Role != RoleAdmin && actor.Role != RoleApprover {
		return nil, apierror.Permission("Ce brouillon appartient à un autre acheteur")
	}
	return d, nil
}

func parseOptionalUUID(raw *string) (*uuid.UUID, error) {
	if raw == nil || strings.TrimSpace(*raw) == "" {
		return nil, nil
	}
	v, err := uuid.Parse(*raw)
	if err != nil {
		return nil, err
	}
	return &v, nil
}

func uuidPtrToString(v *uuid.UUID) *string {
	if v == nil {
		return nil
	}
	s := v.String()
	return &s
}

func draftImageToResponse(img *model.DraftImage) *dto.DraftImageResponse {
	return &dto.DraftImageResponse{
		ID:           img.ID.String(),
		StoragePath:  img.StoragePath,
		PublicURL:    img.PublicURL,
		IsPrimary:    img.IsPrimary,
		ImageType:    img.ImageType,
		AltText:      img.AltText,
		FileSize:     img.FileSize,
		Format:       img.Format,
		DisplayOrder: img.DisplayOrder,
	}
}

func draftToResponse(d *model.Draft) *dto.DraftResponse {
	resp := &dto.DraftResponse{
		ID:           d.ID.String(),
		Name:         d.Name,
		CreationMode: d.CreationMode,
		ProductType:  d.ProductType,

		AssignedClientID: uuidPtrToString(d.AssignedClientID),
		SupplierID:       uuidPtrToString(d.SupplierID),
		SupplierPageURL:  d.SupplierPageURL,

		CostPrice:             d.CostPrice,
		MarginPct:             d.MarginPct,
		EstimatedSellingPrice: d.EstimatedSellingPrice,

		Description:          d.Description,
		TechnicalDescription: d.TechnicalDescription,
		SellingPoints:        d.SellingPoints,
		SubcategoryID:        uuidPtrToString(d.SubcategoryID),

		RequiresSample: d.RequiresSample,
		SampleStatus:   d.SampleStatus,
		SourcingStatus: d.SourcingStatus,

		Completeness: EvaluateCompleteness(d),
		Images:       make([]dto.DraftImageResponse, 0, len(d.Images)),
		OwnerID:      d.OwnerID.String(),
	}
	for i := range d.Images {
		resp.Images = append(resp.Images, *draftImageToResponse(&d.Images[i]))
	}
	return resp
}
