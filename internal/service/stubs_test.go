package service

import (
	"context"
	"errors"
	"sort"
	"strings"
	"time"

	"github.com/Verone2021/Verone-V1-sub003/internal/dto"
	"github.com/Verone2021/Verone-V1-sub003/internal/model"
	"github.com/Verone2021/Verone-V1-sub003/internal/repository"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// In-memory stubs for the repository interfaces. DB() returns nil so that
// transactional services run their callback directly, without GORM.

type stubDraftRepo struct {
	drafts map[uuid.UUID]*model.Draft
	images map[uuid.UUID]*model.DraftImage

	// deleteRows overrides the DeleteTx result when >= 0, to simulate a
	// concurrent promotion winning the guarded delete.
	deleteRows int64
}

var _ repository.DraftRepository = (*stubDraftRepo)(nil)

func newStubDraftRepo() *stubDraftRepo {
	return &stubDraftRepo{
		drafts:     make(map[uuid.UUID]*model.Draft),
		images:     make(map[uuid.UUID]*model.DraftImage),
		deleteRows: -1,
	}
}

func (r *stubDraftRepo) DB() *gorm.DB { return nil }

func (r *stubDraftRepo) Create(_ context.Context, d *model.Draft) error {
	if d.ID == uuid.Nil {
		d.ID = uuid.New()
	}
	cp := *d
	r.drafts[d.ID] = &cp
	return nil
}

func (r *stubDraftRepo) FindByID(_ context.Context, id uuid.UUID) (*model.Draft, error) {
	d, ok := r.drafts[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	cp := *d
	cp.Images = r.imagesOf(id)
	return &cp, nil
}

func (r *stubDraftRepo) List(_ context.Context, ownerID uuid.UUID, filter dto.DraftFilter) ([]model.Draft, int64, error) {
	var out []model.Draft
	for _, d := range r.drafts {
		if d.OwnerID != ownerID {
			continue
		}
		if filter.Mode != "" && d.CreationMode != filter.Mode {
			continue
		}
		if filter.SourcingStatus != "" && d.SourcingStatus != filter.SourcingStatus {
			continue
		}
		out = append(out, *d)
	}
	return out, int64(len(out)), nil
}

func (r *stubDraftRepo) Update(_ context.Context, d *model.Draft) error {
	if _, ok := r.drafts[d.ID]; !ok {
		return gorm.ErrRecordNotFound
	}
	cp := *d
	cp.Images = nil
	r.drafts[d.ID] = &cp
	return nil
}

func (r *stubDraftRepo) UpdateFields(_ context.Context, id uuid.UUID, fields map[string]interface{}) error {
	d, ok := r.drafts[id]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	if v, ok := fields["sample_status"]; ok {
		d.SampleStatus = v.(string)
	}
	if v, ok := fields["sourcing_status"]; ok {
		d.SourcingStatus = v.(string)
	}
	return nil
}

func (r *stubDraftRepo) UpdateSampleStatusBulk(_ context.Context, ids []uuid.UUID, status string) error {
	for _, id := range ids {
		if d, ok := r.drafts[id]; ok {
			d.SampleStatus = status
		}
	}
	return nil
}

func (r *stubDraftRepo) LockByIDTx(_ *gorm.DB, id uuid.UUID) (*model.Draft, error) {
	return r.FindByID(context.Background(), id)
}

func (r *stubDraftRepo) DeleteTx(_ *gorm.DB, id uuid.UUID) (int64, error) {
	if r.deleteRows >= 0 {
		return r.deleteRows, nil
	}
	if _, ok := r.drafts[id]; !ok {
		return 0, nil
	}
	delete(r.drafts, id)
	return 1, nil
}

func (r *stubDraftRepo) DeleteImagesByDraftTx(_ *gorm.DB, draftID uuid.UUID) error {
	for id, img := range r.images {
		if img.DraftID == draftID {
			delete(r.images, id)
		}
	}
	return nil
}

func (r *stubDraftRepo) CreateImage(_ context.Context, img *model.DraftImage) error {
	if img.ID == uuid.Nil {
		img.ID = uuid.New()
	}
	cp := *img
	r.images[img.ID] = &cp
	return nil
}

func (r *stubDraftRepo) FindImageByID(_ context.Context, id uuid.UUID) (*model.DraftImage, error) {
	img, ok := r.images[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	cp := *img
	return &cp, nil
}

func (r *stubDraftRepo) ListImages(_ context.Context, draftID uuid.UUID) ([]model.DraftImage, error) {
	return r.imagesOf(draftID), nil
}

func (r *stubDraftRepo) DeleteImage(_ context.Context, id uuid.UUID) error {
	delete(r.images, id)
	return nil
}

func (r *stubDraftRepo) SetPrimaryImage(_ context.Context, draftID, imageID uuid.UUID) error {
	target, ok := r.images[imageID]
	if !ok || target.DraftID != draftID {
		return gorm.ErrRecordNotFound
	}
	for _, img := range r.images {
		if img.DraftID == draftID {
			img.IsPrimary = img.ID == imageID
		}
	}
	return nil
}

func (r *stubDraftRepo) imagesOf(draftID uuid.UUID) []model.DraftImage {
	var out []model.DraftImage
	for _, img := range r.images {
		if img.DraftID == draftID {
			out = append(out, *img)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].DisplayOrder < out[j].DisplayOrder })
	return out
}

type stubSampleOrderRepo struct {
	orders map[uuid.UUID]*model.SampleOrder
	items  []*model.SampleOrderItem
}

var _ repository.SampleOrderRepository = (*stubSampleOrderRepo)(nil)

func newStubSampleOrderRepo() *stubSampleOrderRepo {
	return &stubSampleOrderRepo{orders: make(map[uuid.UUID]*model.SampleOrder)}
}

func (r *stubSampleOrderRepo) DB() *gorm.DB { return nil }

func (r *stubSampleOrderRepo) Create(_ context.Context, o *model.SampleOrder) error {
	if o.ID == uuid.Nil {
		o.ID = uuid.New()
	}
	cp := *o
	r.orders[o.ID] = &cp
	return nil
}

func (r *stubSampleOrderRepo) FindByID(_ context.Context, id uuid.UUID) (*model.SampleOrder, error) {
	o, ok := r.orders[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	cp := *o
	cp.Items = nil
	for _, it := range r.items {
		if it.OrderID == id {
			cp.Items = append(cp.Items, *it)
		}
	}
	return &cp, nil
}

func (r *stubSampleOrderRepo) List(_ context.Context, ownerID uuid.UUID, filter dto.SampleOrderFilter) ([]model.SampleOrder, int64, error) {
	var out []model.SampleOrder
	for _, o := range r.orders {
		if o.OwnerID != ownerID {
			continue
		}
		if filter.Status != "" && o.Status != filter.Status {
			continue
		}
		out = append(out, *o)
	}
	return out, int64(len(out)), nil
}

func (r *stubSampleOrderRepo) Update(_ context.Context, o *model.SampleOrder) error {
	if _, ok := r.orders[o.ID]; !ok {
		return gorm.ErrRecordNotFound
	}
	cp := *o
	cp.Items = nil
	r.orders[o.ID] = &cp
	return nil
}

func (r *stubSampleOrderRepo) UpdateStatusIf(_ context.Context, id uuid.UUID, from, to string, extra map[string]interface{}) (int64, error) {
	o, ok := r.orders[id]
	if !ok || o.Status != from {
		return 0, nil
	}
	o.Status = to
	if v, ok := extra["approved_by"]; ok {
		approver := v.(uuid.UUID)
		o.ApprovedBy = &approver
	}
	if v, ok := extra["approval_notes"]; ok {
		notes := v.(string)
		o.ApprovalNotes = &notes
	}
	if v, ok := extra["updated_at"]; ok {
		o.UpdatedAt = v.(time.Time)
	}
	return 1, nil
}

func (r *stubSampleOrderRepo) CreateItem(_ context.Context, it *model.SampleOrderItem) error {
	if it.ID == uuid.Nil {
		it.ID = uuid.New()
	}
	cp := *it
	r.items = append(r.items, &cp)
	return nil
}

func (r *stubSampleOrderRepo) UpdateItemStatusByDrafts(_ context.Context, draftIDs []uuid.UUID, status string) error {
	for _, it := range r.items {
		for _, id := range draftIDs {
			if it.DraftID == id {
				it.Status = status
			}
		}
	}
	return nil
}

type stubProductRepo struct {
	products  []*model.Product
	images    []*model.ProductImage
	snapshots []*model.PriceSnapshot
}

var _ repository.ProductRepository = (*stubProductRepo)(nil)

func newStubProductRepo() *stubProductRepo { return &stubProductRepo{} }

func (r *stubProductRepo) DB() *gorm.DB { return nil }

func (r *stubProductRepo) FindByID(_ context.Context, id uuid.UUID) (*model.Product, error) {
	for _, p := range r.products {
		if p.ID == id {
			cp := *p
			return &cp, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *stubProductRepo) FindBySKU(_ context.Context, sku string) (*model.Product, error) {
	for _, p := range r.products {
		if p.SKU == sku && p.Active {
			cp := *p
			return &cp, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *stubProductRepo) List(_ context.Context, _ dto.ProductFilter) ([]model.Product, int64, error) {
	out := make([]model.Product, 0, len(r.products))
	for _, p := range r.products {
		out = append(out, *p)
	}
	return out, int64(len(out)), nil
}

func (r *stubProductRepo) ListPriceSnapshots(_ context.Context, productID uuid.UUID) ([]model.PriceSnapshot, error) {
	var out []model.PriceSnapshot
	for _, s := range r.snapshots {
		if s.ProductID == productID {
			out = append(out, *s)
		}
	}
	return out, nil
}

func (r *stubProductRepo) CreateTx(_ *gorm.DB, p *model.Product) error {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	cp := *p
	cp.Images = nil
	r.products = append(r.products, &cp)
	return nil
}

func (r *stubProductRepo) CreateImageTx(_ *gorm.DB, img *model.ProductImage) error {
	if img.ID == uuid.Nil {
		img.ID = uuid.New()
	}
	cp := *img
	r.images = append(r.images, &cp)
	return nil
}

func (r *stubProductRepo) CreatePriceSnapshotTx(_ *gorm.DB, s *model.PriceSnapshot) error {
	if s.ID == uuid.Nil {
		s.ID = uuid.New()
	}
	cp := *s
	r.snapshots = append(r.snapshots, &cp)
	return nil
}

// stubMediaStore records uploads and deletions in memory.
type stubMediaStore struct {
	uploads    []string
	deleted    []string
	failUpload bool
}

var _ MediaStore = (*stubMediaStore)(nil)

func (m *stubMediaStore) Upload(_ context.Context, _ []byte, name string) (string, error) {
	if m.failUpload {
		return "", errors.New("sidecar indisponible")
	}
	path := "drafts/" + strings.ToLower(name)
	m.uploads = append(m.uploads, path)
	return path, nil
}

func (m *stubMediaStore) PublicURL(path string) string {
	return "https://media.verone.test/" + path
}

func (m *stubMediaStore) Delete(_ context.Context, path string) error {
	m.deleted = append(m.deleted, path)
	return nil
}

// Shared helpers.

func strPtr(s string) *string { return &s }

func decPtr(v string) *decimal.Decimal {
	d := decimal.RequireFromString(v)
	return &d
}
