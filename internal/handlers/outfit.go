package handlers

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/ootdlab/ootd-backend/internal/outfit"
	"github.com/ootdlab/ootd-backend/internal/services"
)

type OutfitHandler struct {
	outfitService services.OutfitService
}

func NewOutfitHandler(outfitService services.OutfitService) *OutfitHandler {
	return &OutfitHandler{outfitService: outfitService}
}

func (oh *OutfitHandler) StartSession(c *gin.Context) {
	var req struct {
		Lat float64 `json:"lat"`
		Lon float64 `json:"lon"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		RespondError(c, http.StatusBadRequest, "bad_request_body", fmt.Errorf("invalid request body"))
		return
	}
	view, err := oh.outfitService.StartSession(c.Request.Context(), req.Lat, req.Lon)
	if err != nil {
		if errors.Is(err, outfit.ErrInputUnavailable) {
			RespondError(c, http.StatusServiceUnavailable, "input_unavailable", err)
			return
		}
		RespondError(c, http.StatusBadRequest, "session_start_failed", err)
		return
	}
	RespondOK(c, view)
}

func (oh *OutfitHandler) GetSession(c *gin.Context) {
	sessionID, ok := oh.sessionID(c)
	if !ok {
		return
	}
	view, err := oh.outfitService.GetSession(c.Request.Context(), sessionID)
	if err != nil {
		oh.respondSessionError(c, err)
		return
	}
	RespondOK(c, view)
}

func (oh *OutfitHandler) CycleItem(c *gin.Context) {
	sessionID, ok := oh.sessionID(c)
	if !ok {
		return
	}
	var req struct {
		Direction string `json:"direction"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		RespondError(c, http.StatusBadRequest, "bad_request_body", fmt.Errorf("invalid request body"))
		return
	}
	dir := outfit.DirectionNext
	switch req.Direction {
	case "next", "":
	case "prev":
		dir = outfit.DirectionPrev
	default:
		RespondError(c, http.StatusBadRequest, "bad_direction", fmt.Errorf("direction must be next or prev"))
		return
	}
	view, err := oh.outfitService.CycleItem(c.Request.Context(), sessionID, c.Param("cellId"), dir)
	if err != nil {
		oh.respondSessionError(c, err)
		return
	}
	RespondOK(c, view)
}

func (oh *OutfitHandler) Resize(c *gin.Context) {
	sessionID, ok := oh.sessionID(c)
	if !ok {
		return
	}
	var req struct {
		Delta float64 `json:"delta"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		RespondError(c, http.StatusBadRequest, "bad_request_body", fmt.Errorf("invalid request body"))
		return
	}
	if req.Delta != 0.5 && req.Delta != -0.5 {
		RespondError(c, http.StatusBadRequest, "bad_delta", fmt.Errorf("delta must be +0.5 or -0.5"))
		return
	}
	view, err := oh.outfitService.Resize(c.Request.Context(), sessionID, c.Param("cellId"), req.Delta)
	if err != nil {
		oh.respondSessionError(c, err)
		return
	}
	RespondOK(c, view)
}

func (oh *OutfitHandler) SwitchColumn(c *gin.Context) {
	sessionID, ok := oh.sessionID(c)
	if !ok {
		return
	}
	view, err := oh.outfitService.SwitchColumn(c.Request.Context(), sessionID, c.Param("cellId"))
	if err != nil {
		oh.respondSessionError(c, err)
		return
	}
	RespondOK(c, view)
}

func (oh *OutfitHandler) ReplaceCategory(c *gin.Context) {
	sessionID, ok := oh.sessionID(c)
	if !ok {
		return
	}
	var req struct {
		Subcategories []string `json:"subcategories"`
	}
	if err := c.ShouldBindJSON(&req); err != nil || len(req.Subcategories) == 0 {
		RespondError(c, http.StatusBadRequest, "bad_request_body", fmt.Errorf("subcategories are required"))
		return
	}
	view, err := oh.outfitService.ReplaceCategory(c.Request.Context(), sessionID, c.Param("cellId"), req.Subcategories)
	if err != nil {
		oh.respondSessionError(c, err)
		return
	}
	RespondOK(c, view)
}

func (oh *OutfitHandler) AddCategory(c *gin.Context) {
	sessionID, ok := oh.sessionID(c)
	if !ok {
		return
	}
	var req struct {
		Subcategories []string `json:"subcategories"`
	}
	if err := c.ShouldBindJSON(&req); err != nil || len(req.Subcategories) == 0 {
		RespondError(c, http.StatusBadRequest, "bad_request_body", fmt.Errorf("subcategories are required"))
		return
	}
	view, err := oh.outfitService.AddCategory(c.Request.Context(), sessionID, req.Subcategories)
	if err != nil {
		oh.respondSessionError(c, err)
		return
	}
	RespondOK(c, view)
}

func (oh *OutfitHandler) DeleteCategory(c *gin.Context) {
	sessionID, ok := oh.sessionID(c)
	if !ok {
		return
	}
	view, err := oh.outfitService.DeleteCategory(c.Request.Context(), sessionID, c.Param("cellId"))
	if err != nil {
		oh.respondSessionError(c, err)
		return
	}
	RespondOK(c, view)
}

func (oh *OutfitHandler) Save(c *gin.Context) {
	sessionID, ok := oh.sessionID(c)
	if !ok {
		return
	}
	outfitID, err := oh.outfitService.Save(c.Request.Context(), sessionID)
	if err != nil {
		switch {
		case errors.Is(err, outfit.ErrOutfitExists):
			RespondError(c, http.StatusConflict, "outfit_exists", err)
		case errors.Is(err, outfit.ErrNoWearableItems):
			RespondError(c, http.StatusUnprocessableEntity, "no_wearable_items", err)
		case errors.Is(err, outfit.ErrInputUnavailable):
			RespondError(c, http.StatusConflict, "input_unavailable", err)
		case errors.Is(err, services.ErrSessionNotFound):
			RespondError(c, http.StatusNotFound, "session_not_found", err)
		default:
			RespondError(c, http.StatusInternalServerError, "save_failed", err)
		}
		return
	}
	RespondOK(c, gin.H{"outfit_id": outfitID})
}

func (oh *OutfitHandler) GetOutfit(c *gin.Context) {
	outfitID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		RespondError(c, http.StatusBadRequest, "bad_outfit_id", fmt.Errorf("invalid outfit id"))
		return
	}
	persisted, err := oh.outfitService.GetOutfit(c.Request.Context(), outfitID)
	if err != nil {
		if errors.Is(err, services.ErrOutfitNotFound) {
			RespondError(c, http.StatusNotFound, "outfit_not_found", err)
			return
		}
		RespondError(c, http.StatusInternalServerError, "outfit_load_failed", err)
		return
	}
	RespondOK(c, persisted)
}

func (oh *OutfitHandler) sessionID(c *gin.Context) (uuid.UUID, bool) {
	sessionID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		RespondError(c, http.StatusBadRequest, "bad_session_id", fmt.Errorf("invalid session id"))
		return uuid.Nil, false
	}
	return sessionID, true
}

func (oh *OutfitHandler) respondSessionError(c *gin.Context, err error) {
	if errors.Is(err, services.ErrSessionNotFound) {
		RespondError(c, http.StatusNotFound, "session_not_found", err)
		return
	}
	RespondError(c, http.StatusBadRequest, "session_operation_failed", err)
}
