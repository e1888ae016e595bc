package repository

import (
	"context"

	"github.com/Verone2021/Verone-V1-sub003/internal/dto"
	"github.com/Verone2021/Verone-V1-sub003/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// SampleOrderRepository is the data access contract for supplier-grouped
// sample orders and their items.
type SampleOrderRepository interface {
	Create(ctx context.Context, o *model.SampleOrder) error
	FindByID(ctx context.Context, id uuid.UUID) (*model.SampleOrder, error)
	List(ctx context.Context, ownerID uuid.UUID, filter dto.SampleOrderFilter) ([]model.SampleOrder, int64, error)
	Update(ctx context.Context, o *model.SampleOrder) error

	// UpdateStatusIf performs the guarded forward transition: the update only
	// applies while the order is still in the expected state. Returns the
	// number of rows affected — 0 means the state already advanced.
	UpdateStatusIf(ctx context.Context, id uuid.UUID, from, to string, extra map[string]interface{}) (int64, error)

	CreateItem(ctx context.Context, it *model.SampleOrderItem) error
	UpdateItemStatusByDrafts(ctx context.Context, draftIDs []uuid.UUID, status string) error

	DB() *gorm.DB
}

type sampleOrderRepo struct{ db *gorm.DB }

func NewSampleOrderRepository(db *gorm.DB) SampleOrderRepository { return &sampleOrderRepo{db: db} }

func (r *sampleOrderRepo) DB() *gorm.DB { return r.db }

func (r *sampleOrderRepo) Create(ctx context.Context, o *model.SampleOrder) error {
	return r.db.WithContext(ctx).Create(o).Error
}

func (r *sampleOrderRepo) FindByID(ctx context.Context, id uuid.UUID) (*model.SampleOrder, error) {
	var o model.SampleOrder
	err := r.db.WithContext(ctx).
		Preload("Items", func(db *gorm.DB) *gorm.DB { return db.Order("created_at ASC") }).
		Preload("Supplier").
		First(&o, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &o, nil
}

func (r *sampleOrderRepo) List(ctx context.Context, ownerID uuid.UUID, filter dto.SampleOrderFilter) ([]model.SampleOrder, int64, error) {
	var orders []model.SampleOrder
	var total int64

	q := r.db.WithContext(ctx).Model(&model.SampleOrder{}).Where("owner_id = ?", ownerID)
	if filter.Status != "" {
		q = q.Where("status = ?", filter.Status)
	}
	if filter.SupplierID != "" {
		q = q.Where("supplier_id = ?", filter.SupplierID)
	}

	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	offset := (filter.Page - 1) * filter.Limit
	err := q.Preload("Items").Order("created_at DESC").
		Limit(filter.Limit).Offset(offset).Find(&orders).Error
	return orders, total, err
}

func (r *sampleOrderRepo) Update(ctx context.Context, o *model.SampleOrder) error {
	return r.db.WithContext(ctx).Save(o).Error
}

func (r *sampleOrderRepo) UpdateStatusIf(ctx context.Context, id uuid.UUID, from, to string, extra map[string]interface{}) (int64, error) {
	fields := map[string]interface{}{"status": to}
	for k, v := range extra {
		fields[k] = v
	}
	res := r.db.WithContext(ctx).Model(&model.SampleOrder{}).
		Where("id = ? AND status = ?", id, from).
		Updates(fields)
	return res.RowsAffected, res.Error
}

func (r *sampleOrderRepo) CreateItem(ctx context.Context, it *model.SampleOrderItem) error {
	return r.db.WithContext(ctx).Create(it).Error
}

func (r *sampleOrderRepo) UpdateItemStatusByDrafts(ctx context.Context, draftIDs []uuid.UUID, status string) error {
	return r.db.WithContext(ctx).Model(&model.SampleOrderItem{}).
		Where("draft_id IN ?", draftIDs).
		Update("status", status).Error
}
