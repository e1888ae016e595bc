package infra

import (
	"fmt"

	"github.com/Verone2021/Verone-V1-sub003/internal/model"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// NewDatabase establishes a GORM connection backed by pgx, runs AutoMigrate to
// create / update all tables, then applies idempotent SQL patches that GORM
// cannot express (partial unique indexes).
func NewDatabase(dsn string) (*gorm.DB, error) {
	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Silent),
		TranslateError: true,
	})
	if err != nil {
		return nil, err
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, err
	}
	sqlDB.SetMaxOpenConns(25)
	sqlDB.SetMaxIdleConns(5)

	if err := RunMigrations(db); err != nil {
		return nil, err
	}

	return db, nil
}

// RunMigrations creates or updates all tables and applies the schema patches.
// Also used by integration tests against a throwaway database.
func RunMigrations(db *gorm.DB) error {
	if err := db.AutoMigrate(
		&model.User{},
		&model.Supplier{},
		&model.SupplierContact{},
		&model.Category{},
		&model.Draft{},
		&model.DraftImage{},
		&model.SampleOrder{},
		&model.SampleOrderItem{},
		&model.Product{},
		&model.ProductImage{},
		&model.PriceSnapshot{},
	); err != nil {
		return fmt.Errorf("AutoMigrate: %w", err)
	}
	return applySchemaPatches(db)
}

// applySchemaPatches runs idempotent DDL statements that GORM AutoMigrate cannot
// express. Each statement uses IF NOT EXISTS semantics so re-running on an
// already-patched DB is safe.
func applySchemaPatches(db *gorm.DB) error {
	patches := []string{
		// At most one primary image per draft.
		`DO $$ BEGIN
		  IF NOT EXISTS (SELECT 1 FROM pg_indexes WHERE indexname = 'idx_draft_images_one_primary') THEN
		    CREATE UNIQUE INDEX idx_draft_images_one_primary
		        ON draft_images (draft_id)
		        WHERE is_primary;
		  END IF;
		END $$`,
		// At most one primary image per product.
		`DO $$ BEGIN
		  IF NOT EXISTS (SELECT 1 FROM pg_indexes WHERE indexname = 'idx_product_images_one_primary') THEN
		    CREATE UNIQUE INDEX idx_product_images_one_primary
		        ON product_images (product_id)
		        WHERE is_primary;
		  END IF;
		END $$`,
		// Partial index backing the public catalogue lookup.
		`DO $$ BEGIN
		  IF NOT EXISTS (SELECT 1 FROM pg_indexes WHERE indexname = 'idx_products_active_sku') THEN
		    CREATE INDEX idx_products_active_sku
		        ON products (sku)
		        WHERE active;
		  END IF;
		END $$`,
	}

	for _, sql := range patches {
		if err := db.Exec(sql).Error; err != nil {
			return fmt.Errorf("patch %q: %w", sql[:min(len(sql), 60)], err)
		}
	}
	return nil
}
