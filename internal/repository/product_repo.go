package repository

import (
	"context"

	"github.com/Verone2021/Verone-V1-sub003/internal/dto"
	"github.com/Verone2021/Verone-V1-sub003/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// ProductRepository is the data access contract for published catalog
// products, their images and price snapshots. Creation happens only inside
// the promotion transaction, so the write methods take the tx instance.
type ProductRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*model.Product, error)
	FindBySKU(ctx context.Context, sku string) (*model.Product, error)
	List(ctx context.Context, filter dto.ProductFilter) ([]model.Product, int64, error)
	ListPriceSnapshots(ctx context.Context, productID uuid.UUID) ([]model.PriceSnapshot, error)

	// Used inside the promotion transaction.
	CreateTx(tx *gorm.DB, p *model.Product) error
	CreateImageTx(tx *gorm.DB, img *model.ProductImage) error
	CreatePriceSnapshotTx(tx *gorm.DB, s *model.PriceSnapshot) error

	DB() *gorm.DB
}

type productRepo struct{ db *gorm.DB }

func NewProductRepository(db *gorm.DB) ProductRepository { return &productRepo{db: db} }

func (r *productRepo) DB() *gorm.DB { return r.db }

func (r *productRepo) FindByID(ctx context.Context, id uuid.UUID) (*model.Product, error) {
	var p model.Product
	err := r.db.WithContext(ctx).
		Preload("Images", func(db *gorm.DB) *gorm.DB { return db.Order("display_order ASC") }).
		First(&p, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &p, nil
}

func (r *productRepo) FindBySKU(ctx context.Context, sku string) (*model.Product, error) {
	var p model.Product
	err := r.db.WithContext(ctx).
		Preload("Images", func(db *gorm.DB) *gorm.DB { return db.Order("display_order ASC") }).
		Where("sku = ? AND active = true", sku).First(&p).Error
	if err != nil {
		return nil, err
	}
	return &p, nil
}

func (r *productRepo) List(ctx context.Context, filter dto.ProductFilter) ([]model.Product, int64, error) {
	var products []model.Product
	var total int64

	q := r.db.WithContext(ctx).Model(&model.Product{}).Where("active = true")

	if filter.SKU != "" {
		q = q.Where("sku = ?", filter.SKU)
	}
	if filter.Name != "" {
		q = q.Where("name ILIKE ?", "%"+filter.Name+"%")
	}
	if filter.SupplierID != "" {
		q = q.Where("supplier_id = ?", filter.SupplierID)
	}
	if filter.SubcategoryID != "" {
		q = q.Where("subcategory_id = ?", filter.SubcategoryID)
	}

	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	offset := (filter.Page - 1) * filter.Limit
	err := q.Preload("Images", func(db *gorm.DB) *gorm.DB { return db.Order("display_order ASC") }).
		Order("name ASC").Limit(filter.Limit).Offset(offset).Find(&products).Error
	return products, total, err
}

func (r *productRepo) ListPriceSnapshots(ctx context.Context, productID uuid.UUID) ([]model.PriceSnapshot, error) {
	var snaps []model.PriceSnapshot
	err := r.db.WithContext(ctx).
		Where("product_id = ?", productID).
		Order("created_at DESC").Find(&snaps).Error
	return snaps, err
}

func (r *productRepo) CreateTx(tx *gorm.DB, p *model.Product) error {
	return tx.Create(p).Error
}

func (r *productRepo) CreateImageTx(tx *gorm.DB, img *model.ProductImage) error {
	return tx.Create(img).Error
}

func (r *productRepo) CreatePriceSnapshotTx(tx *gorm.DB, s *model.PriceSnapshot) error {
	return tx.Create(s).Error
}
