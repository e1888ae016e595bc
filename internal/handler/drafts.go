package handler

import (
	"net/http"

	"github.com/Verone2021/Verone-V1-sub003/internal/apierror"
	"github.com/Verone2021/Verone-V1-sub003/internal/dto"
	"github.com/Verone2021/Verone-V1-sub003/internal/service"

	"github.com/gin-gonic/gin"
)

type DraftsHandler struct{ svc service.DraftService }

func NewDraftsHandler(svc service.DraftService) *DraftsHandler {
	return &DraftsHandler{svc: svc}
}

func (h *DraftsHandler) Create(c *gin.Context) {
	var req dto.CreateDraftRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.svc.CreateDraft(c.Request.Context(), currentActor(c), req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, resp)
}

func (h *DraftsHandler) List(c *gin.Context) {
	var filter dto.DraftFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		c.JSON(http.StatusBadRequest, apierror.New(err.Error()))
		return
	}
	resp, err := h.svc.ListDrafts(c.Request.Context(), currentActor(c), filter)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *DraftsHandler) GetByID(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	resp, err := h.svc.GetDraft(c.Request.Context(), currentActor(c), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *DraftsHandler) Update(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	var req dto.UpdateDraftRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.svc.UpdateDraft(c.Request.Context(), currentActor(c), id, req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *DraftsHandler) Completeness(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	resp, err := h.svc.EvaluateDraftCompleteness(c.Request.Context(), currentActor(c), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *DraftsHandler) ValidateSourcing(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	var req dto.ValidateSourcingRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.svc.ValidateSourcingDraft(c.Request.Context(), currentActor(c), id, req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *DraftsHandler) RequestSample(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	var req dto.RequestSampleRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.svc.RequestSample(c.Request.Context(), currentActor(c), id, req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, resp)
}

func (h *DraftsHandler) RecordSampleValidation(c *gin.Context) {
	var req dto.RecordSampleValidationRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.svc.RecordSampleValidation(c.Request.Context(), currentActor(c), req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// ── Images ───────────────────────────────────────────────────────────────────

func (h *DraftsHandler) AddImage(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	var req dto.AddImageRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.svc.AddImage(c.Request.Context(), currentActor(c), id, req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, resp)
}

func (h *DraftsHandler) SetPrimaryImage(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	imageID, ok := parseIDParam(c, "imageId")
	if !ok {
		return
	}
	if err := h.svc.SetPrimaryImage(c.Request.Context(), currentActor(c), id, imageID); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *DraftsHandler) DeleteImage(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	imageID, ok := parseIDParam(c, "imageId")
	if !ok {
		return
	}
	if err := h.svc.DeleteImage(c.Request.Context(), currentActor(c), id, imageID); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// ── Promotion ────────────────────────────────────────────────────────────────

type PromotionHandler struct{ svc service.PromotionService }

func NewPromotionHandler(svc service.PromotionService) *PromotionHandler {
	return &PromotionHandler{svc: svc}
}

func (h *PromotionHandler) Promote(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	resp, err := h.svc.Promote(c.Request.Context(), currentActor(c), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, resp)
}
