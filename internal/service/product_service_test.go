package service

import (
	"context"
	"testing"

	"github.com/Verone2021/Verone-V1-sub003/internal/apierror"
	"github.com/Verone2021/Verone-V1-sub003/internal/model"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLookupBySKU(t *testing.T) {
	repo := newStubProductRepo()
	repo.products = append(repo.products, &model.Product{
		ID:        uuid.New(),
		SKU:       "VER-1A2B3C4D5E",
		Name:      "Chaise bistrot",
		CostPrice: decimal.RequireFromString("80"),
		MarginPct: decimal.RequireFromString("50"),
		PriceHT:   decimal.RequireFromString("120"),
		Active:    true,
		Images: []model.ProductImage{
			{ID: uuid.New(), StoragePath: "drafts/profil.jpg", PublicURL: "https://media.verone.test/drafts/profil.jpg"},
			{ID: uuid.New(), StoragePath: "drafts/face.jpg", PublicURL: "https://media.verone.test/drafts/face.jpg", IsPrimary: true},
		},
	})
	svc := NewProductService(repo, nil)

	resp, err := svc.LookupBySKU(context.Background(), "VER-1A2B3C4D5E")
	require.NoError(t, err)
	assert.Equal(t, "Chaise bistrot", resp.Name)
	assert.True(t, resp.PriceHT.Equal(decimal.RequireFromString("120")))
	assert.True(t, resp.Available)
	// The primary image backs the lookup thumbnail.
	require.NotNil(t, resp.ImageURL)
	assert.Equal(t, "https://media.verone.test/drafts/face.jpg", *resp.ImageURL)
}

func TestLookupBySKU_Unknown(t *testing.T) {
	svc := NewProductService(newStubProductRepo(), nil)
	_, err := svc.LookupBySKU(context.Background(), "VER-INCONNU000")
	require.Error(t, err)
	assert.True(t, apierror.IsKind(err, apierror.KindNotFound))
}

func TestGetByID_Unknown(t *testing.T) {
	svc := NewProductService(newStubProductRepo(), nil)
	_, err := svc.GetByID(context.Background(), uuid.New())
	require.Error(t, err)
	assert.True(t, apierror.IsKind(err, apierror.KindNotFound))
}

func TestListPriceSnapshots(t *testing.T) {
	repo := newStubProductRepo()
	productID := uuid.New()
	repo.products = append(repo.products, &model.Product{ID: productID, SKU: "VER-0000000001", Active: true})
	repo.snapshots = append(repo.snapshots, &model.PriceSnapshot{
		ID:        uuid.New(),
		ProductID: productID,
		CostPrice: decimal.RequireFromString("80"),
		MarginPct: decimal.RequireFromString("50"),
		PriceHT:   decimal.RequireFromString("120"),
		Source:    model.PriceSourceMargin,
	})
	svc := NewProductService(repo, nil)

	snaps, err := svc.ListPriceSnapshots(context.Background(), productID)
	require.NoError(t, err)
	require.Len(t, snaps, 1)
	assert.Equal(t, model.PriceSourceMargin, snaps[0].Source)
	assert.True(t, snaps[0].PriceHT.Equal(decimal.RequireFromString("120")))
}
