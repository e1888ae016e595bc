package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/Verone2021/Verone-V1-sub003/internal/apierror"
	"github.com/Verone2021/Verone-V1-sub003/internal/dto"
	"github.com/Verone2021/Verone-V1-sub003/internal/model"
	"github.com/Verone2021/Verone-V1-sub003/internal/repository"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

const skuPrefix = "VER-"
const skuMaxAttempts = 3

// PromotionService converts an eligible draft into a catalog product. The
// conversion is one atomic unit: product + images + price snapshot are
// created and the draft (with its images) deleted in a single transaction,
// guarded against concurrent promotions by a row lock and a guarded delete.
type PromotionService interface {
	Promote(ctx context.Context, actor Actor, draftID uuid.UUID) (*dto.ProductResponse, error)
}

type promotionService struct {
	draftRepo     repository.DraftRepository
	productRepo   repository.ProductRepository
	defaultMargin decimal.Decimal
}

// NewPromotionService builds the engine. defaultMargin is the margin applied
// when a draft carries neither an estimated selling price nor its own margin.
func NewPromotionService(draftRepo repository.DraftRepository, productRepo repository.ProductRepository, defaultMargin decimal.Decimal) PromotionService {
	return &promotionService{
		draftRepo:     draftRepo,
		productRepo:   productRepo,
		defaultMargin: defaultMargin,
	}
}

// runTx executes fn inside a GORM transaction when db is available, or calls
// fn(nil) directly when db is nil (unit test mode).
func runTx(ctx context.Context, db *gorm.DB, fn func(tx *gorm.DB) error) error {
	if db == nil {
		return fn(nil)
	}
	return db.WithContext(ctx).Transaction(fn)
}

func (s *promotionService) Promote(ctx context.Context, actor Actor, draftID uuid.UUID) (*dto.ProductResponse, error) {
	d, err := s.draftRepo.FindByID(ctx, draftID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apierror.NotFound("Brouillon")
		}
		return nil, err
	}
	if d.OwnerID != actor.ID && actor.Role != RoleAdmin {
		return nil, apierror.Permission("Ce brouillon appartient à un autre acheteur")
	}

	// Fail fast before touching anything. The same check runs again under
	// the row lock inside the transaction.
	if err := checkEligibility(d); err != nil {
		return nil, err
	}

	var product *model.Product
	txErr := runTx(ctx, s.draftRepo.DB(), func(tx *gorm.DB) error {
		locked := d
		if tx != nil {
			var lockErr error
			locked, lockErr = s.draftRepo.LockByIDTx(tx, draftID)
			if lockErr != nil {
				if errors.Is(lockErr, gorm.ErrRecordNotFound) {
					// The draft existed a moment ago: a concurrent
					// promotion won the race.
					return apierror.Conflict(apierror.CodePromotionConflict, "Le brouillon a déjà été promu")
				}
				return lockErr
			}
			if err := checkEligibility(locked); err != nil {
				return err
			}
		}

		sku, err := s.uniqueSKU(tx)
		if err != nil {
			return err
		}

		priceHT, source := s.resolvePrice(locked)
		margin := s.resolveMargin(locked)

		product = &model.Product{
			SKU:              sku,
			Name:             locked.Name,
			ProductType:      locked.ProductType,
			AssignedClientID: locked.AssignedClientID,
			SupplierID:       locked.SupplierID,
			SubcategoryID:    locked.SubcategoryID,
			CostPrice:        derefDecimal(locked.CostPrice),
			MarginPct:        margin,
			PriceHT:          priceHT,

			Description:          locked.Description,
			TechnicalDescription: locked.TechnicalDescription,
			SellingPoints:        locked.SellingPoints,

			SourceDraftID: locked.ID,
			CreatedBy:     actor.ID,
			Active:        true,
		}
		if err := s.productRepo.CreateTx(tx, product); err != nil {
			return err
		}

		if err := s.productRepo.CreatePriceSnapshotTx(tx, &model.PriceSnapshot{
			ProductID: product.ID,
			CostPrice: product.CostPrice,
			MarginPct: margin,
			PriceHT:   priceHT,
			Source:    source,
		}); err != nil {
			return err
		}

		// Migrate images preserving order, primary flag and metadata.
		for _, img := range locked.Images {
			migrated := &model.ProductImage{
				ProductID:    product.ID,
				StoragePath:  img.StoragePath,
				PublicURL:    img.PublicURL,
				IsPrimary:    img.IsPrimary,
				ImageType:    img.ImageType,
				AltText:      img.AltText,
				FileSize:     img.FileSize,
				Format:       img.Format,
				DisplayOrder: img.DisplayOrder,
			}
			if err := s.productRepo.CreateImageTx(tx, migrated); err != nil {
				return err
			}
			product.Images = append(product.Images, *migrated)
		}

		if err := s.draftRepo.DeleteImagesByDraftTx(tx, locked.ID); err != nil {
			return err
		}
		affected, err := s.draftRepo.DeleteTx(tx, locked.ID)
		if err != nil {
			return err
		}
		if affected == 0 {
			// Second guard against a concurrent winner; rolls back the
			// product created above.
			return apierror.Conflict(apierror.CodePromotionConflict, "Le brouillon a déjà été promu")
		}
		return nil
	})

	if txErr != nil {
		var e *apierror.Error
		if errors.As(txErr, &e) {
			return nil, e
		}
		return nil, apierror.Transaction("la promotion a échoué et a été annulée", txErr)
	}

	return productToResponse(product), nil
}

// checkEligibility enforces the promotion gate without mutating anything.
func checkEligibility(d *model.Draft) error {
	if d.RequiresSample && d.SampleStatus != model.SampleApproved {
		return apierror.Validation(apierror.CodeSampleRequiredNotApproved,
			"L'échantillon doit être approuvé avant la mise au catalogue")
	}

	switch d.CreationMode {
	case model.ModeComplete:
		res := EvaluateCompleteness(d)
		if res.Percentage != 100 {
			e := apierror.Validation(apierror.CodeDraftIncomplete,
				fmt.Sprintf("Fiche incomplète (%d%%): %s", res.Percentage, strings.Join(res.MissingFields, ", ")))
			return e
		}
	case model.ModeSourcing:
		if d.SourcingStatus != model.SourcingValidated && d.SourcingStatus != model.SourcingReadyForCatalog {
			return apierror.Validation(apierror.CodeSourcingNotValidated,
				"Le sourcing doit être validé avant la mise au catalogue")
		}
	}

	if d.CostPrice == nil || d.CostPrice.LessThanOrEqual(decimal.Zero) {
		return apierror.Validation(apierror.CodeCostPriceInvalid, "Le prix d'achat doit être strictement positif")
	}
	return nil
}

// uniqueSKU generates a catalog SKU and verifies it is free, retrying on the
// (unlikely) collision. The unique index on products.sku remains the final
// backstop under concurrency.
func (s *promotionService) uniqueSKU(tx *gorm.DB) (string, error) {
	for attempt := 0; attempt < skuMaxAttempts; attempt++ {
		sku := skuPrefix + strings.ToUpper(strings.ReplaceAll(uuid.New().String(), "-", "")[:10])
		if tx == nil {
			return sku, nil
		}
		var n int64
		if err := tx.Model(&model.Product{}).Where("sku = ?", sku).Count(&n).Error; err != nil {
			return "", err
		}
		if n == 0 {
			return sku, nil
		}
	}
	return "", apierror.Transaction("impossible de générer un SKU unique", nil)
}

// resolvePrice applies the pricing rule of the promotion step: the buyer's
// estimated selling price wins; otherwise the margin calculator derives it.
func (s *promotionService) resolvePrice(d *model.Draft) (decimal.Decimal, string) {
	if d.EstimatedSellingPrice != nil && d.EstimatedSellingPrice.GreaterThan(decimal.Zero) {
		return d.EstimatedSellingPrice.Round(2), model.PriceSourceEstimate
	}
	return MinimumSellingPrice(derefDecimal(d.CostPrice), s.resolveMargin(d)), model.PriceSourceMargin
}

func (s *promotionService) resolveMargin(d *model.Draft) decimal.Decimal {
	if d.MarginPct != nil {
		return *d.MarginPct
	}
	return s.defaultMargin
}

func derefDecimal(v *decimal.Decimal) decimal.Decimal {
	if v == nil {
		return decimal.Zero
	}
	return *v
}

func productToResponse(p *model.Product) *dto.ProductResponse {
	resp := &dto.ProductResponse{
		ID:          p.ID.String(),
		SKU:         p.SKU,
		Name:        p.Name,
		ProductType: p.ProductType,

		AssignedClientID: uuidPtrToString(p.AssignedClientID),
		SupplierID:       uuidPtrToString(p.SupplierID),
		SubcategoryID:    uuidPtrToString(p.SubcategoryID),

		CostPrice: p.CostPrice,
		MarginPct: p.MarginPct,
		PriceHT:   p.PriceHT,

		Description:          p.Description,
		TechnicalDescription: p.TechnicalDescription,
		SellingPoints:        p.SellingPoints,

		Images: make([]dto.ProductImageResponse, 0, len(p.Images)),
	}
	for _, img := range p.Images {
		resp.Images = append(resp.Images, dto.ProductImageResponse{
			ID:           img.ID.String(),
			StoragePath:  img.StoragePath,
			PublicURL:    img.PublicURL,
			IsPrimary:    img.IsPrimary,
			ImageType:    img.ImageType,
			AltText:      img.AltText,
			FileSize:     img.FileSize,
			Format:       img.Format,
			DisplayOrder: img.DisplayOrder,
		})
	}
	return resp
}
