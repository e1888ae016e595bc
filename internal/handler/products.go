package handler

import (
	"net/http"
	"strings"

	"github.com/Verone2021/Verone-V1-sub003/internal/apierror"
	"github.com/Verone2021/Verone-V1-sub003/internal/dto"
	"github.com/Verone2021/Verone-V1-sub003/internal/service"

	"github.com/gin-gonic/gin"
)

type ProductsHandler struct{ svc service.ProductService }

func NewProductsHandler(svc service.ProductService) *ProductsHandler {
	return &ProductsHandler{svc: svc}
}

func (h *ProductsHandler) List(c *gin.Context) {
	var filter dto.ProductFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		c.JSON(http.StatusBadRequest, apierror.New(err.Error()))
		return
	}
	resp, err := h.svc.List(c.Request.Context(), filter)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *ProductsHandler) GetByID(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	resp, err := h.svc.GetByID(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *ProductsHandler) PriceSnapshots(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	resp, err := h.svc.ListPriceSnapshots(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// LookupBySKU backs the public catalogue check. No auth, no ownership —
// only active products are ever returned.
func (h *ProductsHandler) LookupBySKU(c *gin.Context) {
	sku := strings.ToUpper(strings.TrimSpace(c.Param("sku")))
	if sku == "" {
		c.JSON(http.StatusBadRequest, apierror.New("SKU requis"))
		return
	}
	resp, err := h.svc.LookupBySKU(c.Request.Context(), sku)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}
