package repository

import (
	"context"

	"github.com/Verone2021/Verone-V1-sub003/internal/dto"
	"github.com/Verone2021/Verone-V1-sub003/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// DraftRepository defines the data access contract for product drafts and
// their images. Services depend on this interface, not on the concrete GORM
// implementation, enabling clean unit testing via stubs.
type DraftRepository interface {
	Create(ctx context.Context, d *model.Draft) error
	FindByID(ctx context.Context, id uuid.UUID) (*model.Draft, error)
	List(ctx context.Context, ownerID uuid.UUID, filter dto.DraftFilter) ([]model.Draft, int64, error)
	Update(ctx context.Context, d *model.Draft) error
	UpdateFields(ctx context.Context, id uuid.UUID, fields map[string]interface{}) error
	UpdateSampleStatusBulk(ctx context.Context, ids []uuid.UUID, status string) error

	// Used inside the promotion transaction — callers must pass the tx instance.
	LockByIDTx(tx *gorm.DB, id uuid.UUID) (*model.Draft, error)
	DeleteTx(tx *gorm.DB, id uuid.UUID) (int64, error)
	DeleteImagesByDraftTx(tx *gorm.DB, draftID uuid.UUID) error

	// Images
	CreateImage(ctx context.Context, img *model.DraftImage) error
	FindImageByID(ctx context.Context, id uuid.UUID) (*model.DraftImage, error)
	ListImages(ctx context.Context, draftID uuid.UUID) ([]model.DraftImage, error)
	DeleteImage(ctx context.Context, id uuid.UUID) error
	SetPrimaryImage(ctx context.Context, draftID, imageID uuid.UUID) error

	// DB exposes the underlying *gorm.DB so services can open transactions.
	DB() *gorm.DB
}

type draftRepo struct{ db *gorm.DB }

func NewDraftRepository(db *gorm.DB) DraftRepository { return &draftRepo{db: db} }

func (r *draftRepo) DB() *gorm.DB { return r.db }

func (r *draftRepo) Create(ctx context.Context, d *model.Draft) error {
	return r.db.WithContext(ctx).Create(d).Error
}

func (r *draftRepo) FindByID(ctx context.Context, id uuid.UUID) (*model.Draft, error) {
	var d model.Draft
	err := r.db.WithContext(ctx).
		Preload("Images", func(db *gorm.DB) *gorm.DB { return db.Order("display_order ASC") }).
		First(&d, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &d, nil
}

func (r *draftRepo) List(ctx context.Context, ownerID uuid.UUID, filter dto.DraftFilter) ([]model.Draft, int64, error) {
	var drafts []model.Draft
	var total int64

	q := r.db.WithContext(ctx).Model(&model.Draft{}).Where("owner_id = ?", ownerID)

	if filter.Mode != "" {
		q = q.Where("creation_mode = ?", filter.Mode)
	}
	if filter.SourcingStatus != "" {
		q = q.Where("sourcing_status = ?", filter.SourcingStatus)
	}
	if filter.SampleStatus != "" {
		q = q.Where("sample_status = ?", filter.SampleStatus)
	}
	if filter.SupplierID != "" {
		q = q.Where("supplier_id = ?", filter.SupplierID)
	}
	if filter.Name != "" {
		q = q.Where("name ILIKE ?", "%"+filter.Name+"%")
	}

	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	offset := (filter.Page - 1) * filter.Limit
	err := q.Preload("Images", func(db *gorm.DB) *gorm.DB { return db.Order("display_order ASC") }).
		Order("updated_at DESC").Limit(filter.Limit).Offset(offset).Find(&drafts).Error
	return drafts, total, err
}

func (r *draftRepo) Update(ctx context.Context, d *model.Draft) error {
	return r.db.WithContext(ctx).Save(d).Error
}

func (r *draftRepo) UpdateFields(ctx context.Context, id uuid.UUID, fields map[string]interface{}) error {
	return r.db.WithContext(ctx).Model(&model.Draft{}).Where("id = ?", id).Updates(fields).Error
}

func (r *draftRepo) UpdateSampleStatusBulk(ctx context.Context, ids []uuid.UUID, status string) error {
	return r.db.WithContext(ctx).Model(&model.Draft{}).
		Where("id IN ?", ids).
		Update("sample_status", status).Error
}

// LockByIDTx acquires a row lock on the draft for the duration of the
// promotion transaction. A concurrent promotion that already deleted the row
// surfaces as gorm.ErrRecordNotFound here.
func (r *draftRepo) LockByIDTx(tx *gorm.DB, id uuid.UUID) (*model.Draft, error) {
	var d model.Draft
	err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
		Preload("Images", func(db *gorm.DB) *gorm.DB { return db.Order("display_order ASC") }).
		First(&d, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &d, nil
}

// DeleteTx removes the draft and reports how many rows were affected so the
// promotion engine can detect a concurrent winner.
func (r *draftRepo) DeleteTx(tx *gorm.DB, id uuid.UUID) (int64, error) {
	res := tx.Where("id = ?", id).Delete(&model.Draft{})
	return res.RowsAffected, res.Error
}

func (r *draftRepo) DeleteImagesByDraftTx(tx *gorm.DB, draftID uuid.UUID) error {
	return tx.Where("draft_id = ?", draftID).Delete(&model.DraftImage{}).Error
}

func (r *draftRepo) CreateImage(ctx context.Context, img *model.DraftImage) error {
	return r.db.WithContext(ctx).Create(img).Error
}

func (r *draftRepo) FindImageByID(ctx context.Context, id uuid.UUID) (*model.DraftImage, error) {
	var img model.DraftImage
	err := r.db.WithContext(ctx).First(&img, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &img, nil
}

func (r *draftRepo) ListImages(ctx context.Context, draftID uuid.UUID) ([]model.DraftImage, error) {
	var imgs []model.DraftImage
	err := r.db.WithContext(ctx).
		Where("draft_id = ?", draftID).
		Order("display_order ASC").Find(&imgs).Error
	return imgs, err
}

func (r *draftRepo) DeleteImage(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Delete(&model.DraftImage{}, "id = ?", id).Error
}

// SetPrimaryImage flips the primary flag atomically: unset all, set one.
func (r *draftRepo) SetPrimaryImage(ctx context.Context, draftID, imageID uuid.UUID) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&model.DraftImage{}).
			Where("draft_id = ?", draftID).
			Update("is_primary", false).Error; err != nil {
			return err
		}
		res := tx.Model(&model.DraftImage{}).
			Where("id = ? AND draft_id = ?", imageID, draftID).
			Update("is_primary", true)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return gorm.ErrRecordNotFound
		}
		return nil
	})
}
