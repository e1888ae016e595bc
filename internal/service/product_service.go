package service

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/Verone2021/Verone-V1-sub003/internal/apierror"
	"github.com/Verone2021/Verone-V1-sub003/internal/dto"
	"github.com/Verone2021/Verone-V1-sub003/internal/repository"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"
)

const catalogCacheTTL = 5 * time.Minute
const catalogCachePrefix = "catalogue:sku:"

// ProductService serves the published catalog. Products are only born
// through promotion; this service is read-only apart from cache upkeep.
type ProductService interface {
	GetByID(ctx context.Context, id uuid.UUID) (*dto.ProductResponse, error)
	List(ctx context.Context, filter dto.ProductFilter) (*dto.ProductListResponse, error)
	ListPriceSnapshots(ctx context.Context, id uuid.UUID) ([]dto.PriceSnapshotResponse, error)
	// LookupBySKU backs the public, unauthenticated catalog check. Results
	// are cached in redis; a cache failure degrades to a DB read.
	LookupBySKU(ctx context.Context, sku string) (*dto.CatalogLookupResponse, error)
}

type productService struct {
	repo repository.ProductRepository
	rdb  *redis.Client
}

func NewProductService(repo repository.ProductRepository, rdb *redis.Client) ProductService {
	return &productService{repo: repo, rdb: rdb}
}

func (s *productService) GetByID(ctx context.Context, id uuid.UUID) (*dto.ProductResponse, error) {
	p, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apierror.NotFound("Produit")
		}
		return nil, err
	}
	return productToResponse(p), nil
}

func (s *productService) List(ctx context.Context, filter dto.ProductFilter) (*dto.ProductListResponse, error) {
	products, total, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, err
	}
	resp := &dto.ProductListResponse{
		Data:  make([]dto.ProductResponse, 0, len(products)),
		Total: total,
		Page:  filter.Page,
		Limit: filter.Limit,
	}
	for i := range products {
		resp.Data = append(resp.Data, *productToResponse(&products[i]))
	}
	if filter.Limit > 0 {
		resp.TotalPages = int((total + int64(filter.Limit) - 1) / int64(filter.Limit))
	}
	return resp, nil
}

func (s *productService) ListPriceSnapshots(ctx context.Context, id uuid.UUID) ([]dto.PriceSnapshotResponse, error) {
	if _, err := s.repo.FindByID(ctx, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apierror.NotFound("Produit")
		}
		return nil, err
	}
	snaps, err := s.repo.ListPriceSnapshots(ctx, id)
	if err != nil {
		return nil, err
	}
	out := make([]dto.PriceSnapshotResponse, 0, len(snaps))
	for _, snap := range snaps {
		out = append(out, dto.PriceSnapshotResponse{
			ID:        snap.ID.String(),
			CostPrice: snap.CostPrice,
			MarginPct: snap.MarginPct,
			PriceHT:   snap.PriceHT,
			Source:    snap.Source,
			CreatedAt: snap.CreatedAt.Format(time.RFC3339),
		})
	}
	return out, nil
}

func (s *productService) LookupBySKU(ctx context.Context, sku string) (*dto.CatalogLookupResponse, error) {
	key := catalogCachePrefix + sku

	if s.rdb != nil {
		if cached, err := s.rdb.Get(ctx, key).Result(); err == nil {
			var resp dto.CatalogLookupResponse
			if json.Unmarshal([]byte(cached), &resp) == nil {
				return &resp, nil
			}
		}
	}

	p, err := s.repo.FindBySKU(ctx, sku)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apierror.NotFound("Produit")
		}
		return nil, err
	}

	resp := &dto.CatalogLookupResponse{
		SKU:       p.SKU,
		Name:      p.Name,
		PriceHT:   p.PriceHT,
		Available: p.Active,
	}
	for _, img := range p.Images {
		if img.IsPrimary {
			url := img.PublicURL
			resp.ImageURL = &url
			break
		}
	}

	if s.rdb != nil {
		if data, err := json.Marshal(resp); err == nil {
			if err := s.rdb.Set(ctx, key, data, catalogCacheTTL).Err(); err != nil {
				log.Warn().Err(err).Str("sku", sku).Msg("catalog cache write failed")
			}
		}
	}
	return resp, nil
}
