package service

import (
	"context"
	"errors"

	"github.com/Verone2021/Verone-V1-sub003/internal/apierror"
	"github.com/Verone2021/Verone-V1-sub003/internal/dto"
	"github.com/Verone2021/Verone-V1-sub003/internal/model"
	"github.com/Verone2021/Verone-V1-sub003/internal/repository"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type SupplierService interface {
	Create(ctx context.Context, req dto.CreateSupplierRequest) (*dto.SupplierResponse, error)
	GetByID(ctx context.Context, id uuid.UUID) (*dto.SupplierResponse, error)
	List(ctx context.Context) ([]dto.SupplierResponse, error)
	Update(ctx context.Context, id uuid.UUID, req dto.CreateSupplierRequest) (*dto.SupplierResponse, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

type supplierService struct {
	repo repository.SupplierRepository
}

func NewSupplierService(repo repository.SupplierRepository) SupplierService {
	return &supplierService{repo: repo}
}

func (s *supplierService) Create(ctx context.Context, req dto.CreateSupplierRequest) (*dto.SupplierResponse, error) {
	sup := &model.Supplier{
		CompanyName:  req.CompanyName,
		SIRET:        req.SIRET,
		Email:        req.Email,
		Phone:        req.Phone,
		Address:      req.Address,
		PaymentTerms: req.PaymentTerms,
		WebsiteURL:   req.WebsiteURL,
		Active:       true,
	}
	for _, c := range req.Contacts {
		sup.Contacts = append(sup.Contacts, model.SupplierContact{
			Name:  c.Name,
			Role:  c.Role,
			Phone: c.Phone,
			Email: c.Email,
		})
	}
	if err := s.repo.Create(ctx, sup); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, apierror.Conflict("", "Un fournisseur avec ce SIRET existe déjà")
		}
		return nil, err
	}
	return supplierToResponse(sup), nil
}

func (s *supplierService) GetByID(ctx context.Context, id uuid.UUID) (*dto.SupplierResponse, error) {
	sup, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apierror.NotFound("Fournisseur")
		}
		return nil, err
	}
	return supplierToResponse(sup), nil
}

func (s *supplierService) List(ctx context.Context) ([]dto.SupplierResponse, error) {
	suppliers, err := s.repo.List(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]dto.SupplierResponse, 0, len(suppliers))
	for i := range suppliers {
		out = append(out, *supplierToResponse(&suppliers[i]))
	}
	return out, nil
}

func (s *supplierService) Update(ctx context.Context, id uuid.UUID, req dto.CreateSupplierRequest) (*dto.SupplierResponse, error) {
	sup, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apierror.NotFound("Fournisseur")
		}
		return nil, err
	}

	sup.CompanyName = req.CompanyName
	sup.SIRET = req.SIRET
	sup.Email = req.Email
	sup.Phone = req.Phone
	sup.Address = req.Address
	sup.PaymentTerms = req.PaymentTerms
	sup.WebsiteURL = req.WebsiteURL
	sup.Contacts = nil
	if err := s.repo.Update(ctx, sup); err != nil {
		return nil, err
	}

	contacts := make([]model.SupplierContact, 0, len(req.Contacts))
	for _, c := range req.Contacts {
		contacts = append(contacts, model.SupplierContact{
			Name:  c.Name,
			Role:  c.Role,
			Phone: c.Phone,
			Email: c.Email,
		})
	}
	if err := s.repo.ReplaceContacts(ctx, id, contacts); err != nil {
		return nil, err
	}
	return s.GetByID(ctx, id)
}

func (s *supplierService) Delete(ctx context.Context, id uuid.UUID) error {
	if _, err := s.repo.FindByID(ctx, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return apierror.NotFound("Fournisseur")
		}
		return err
	}
	return s.repo.SoftDelete(ctx, id)
}

func supplierToResponse(sup *model.Supplier) *dto.SupplierResponse {
	resp := &dto.SupplierResponse{
		ID:           sup.ID.String(),
		CompanyName:  sup.CompanyName,
		SIRET:        sup.SIRET,
		Email:        sup.Email,
		Phone:        sup.Phone,
		Address:      sup.Address,
		PaymentTerms: sup.PaymentTerms,
		WebsiteURL:   sup.WebsiteURL,
		Active:       sup.Active,
		Contacts:     make([]dto.SupplierContactResponse, 0, len(sup.Contacts)),
	}
	for _, c := range sup.Contacts {
		resp.Contacts = append(resp.Contacts, dto.SupplierContactResponse{
			ID:    c.ID.String(),
			Name:  c.Name,
			Role:  c.Role,
			Phone: c.Phone,
			Email: c.Email,
		})
	}
	return resp
}
