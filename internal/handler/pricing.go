package handler

import (
	"net/http"

	"github.com/Verone2021/Verone-V1-sub003/internal/dto"
	"github.com/Verone2021/Verone-V1-sub003/internal/service"

	"github.com/gin-gonic/gin"
)

type PricingHandler struct{}

func NewPricingHandler() *PricingHandler { return &PricingHandler{} }

// Preview computes the minimum selling price for a cost/margin pair without
// touching any draft. The front office calls it as the buyer types.
func (h *PricingHandler) Preview(c *gin.Context) {
	var req dto.PricePreviewRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := service.PreviewPrice(req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}
