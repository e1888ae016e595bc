package dto

// ─── Request DTOs ────────────────────────────────────────────────────────────

type SupplierContactInput struct {
	Name  string  `json:"name"  validate:"required,min=1"`
	Role  *string `json:"role"`
	Phone *string `json:"phone"`
	Email *string `json:"email" validate:"omitempty,email"`
}

type CreateSupplierRequest struct {
	CompanyName  string                 `json:"company_name"  validate:"required,min=2"`
	SIRET        string                 `json:"siret"         validate:"required"`
	Email        *string                `json:"email"         validate:"omitempty,email"`
	Phone        *string                `json:"phone"`
	Address      *string                `json:"address"`
	PaymentTerms *string                `json:"payment_terms"`
	WebsiteURL   *string                `json:"website_url"   validate:"omitempty,url"`
	Contacts     []SupplierContactInput `json:"contacts"`
}

// ─── Response DTOs ───────────────────────────────────────────────────────────

type SupplierContactResponse struct {
	ID    string  `json:"id"`
	Name  string  `json:"name"`
	Role  *string `json:"role,omitempty"`
	Phone *string `json:"phone,omitempty"`
	Email *string `json:"email,omitempty"`
}

type SupplierResponse struct {
	ID           string                    `json:"id"`
	CompanyName  string                    `json:"company_name"`
	SIRET        string                    `json:"siret"`
	Email        *string                   `json:"email"`
	Phone        *string                   `json:"phone"`
	Address      *string                   `json:"address"`
	PaymentTerms *string                   `json:"payment_terms"`
	WebsiteURL   *string                   `json:"website_url"`
	Active       bool                      `json:"active"`
	Contacts     []SupplierContactResponse `json:"contacts"`
}
