package handlers

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/ootdlab/ootd-backend/internal/services"
)

type WardrobeHandler struct {
	wardrobeService services.WardrobeService
}

func NewWardrobeHandler(wardrobeService services.WardrobeService) *WardrobeHandler {
	return &WardrobeHandler{wardrobeService: wardrobeService}
}

func (wh *WardrobeHandler) List(c *gin.Context) {
	items, err := wh.wardrobeService.List(c.Request.Context())
	if err != nil {
		RespondError(c, http.StatusBadRequest, "wardrobe_list_failed", err)
		return
	}
	RespondOK(c, gin.H{"items": items})
}

func (wh *WardrobeHandler) Add(c *gin.Context) {
	var req struct {
		Category    string  `json:"category"`
		Subcategory *string `json:"subcategory"`
		ImageURL    string  `json:"image_url"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		RespondError(c, http.StatusBadRequest, "bad_request_body", fmt.Errorf("invalid request body"))
		return
	}
	item, err := wh.wardrobeService.Add(c.Request.Context(), req.Category, req.Subcategory, req.ImageURL)
	if err != nil {
		RespondError(c, http.StatusBadRequest, "wardrobe_add_failed", err)
		return
	}
	RespondOK(c, gin.H{"item": item})
}

func (wh *WardrobeHandler) SetAvailability(c *gin.Context) {
	itemID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		RespondError(c, http.StatusBadRequest, "bad_item_id", fmt.Errorf("invalid item id"))
		return
	}
	var req struct {
		Available bool `json:"available"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		RespondError(c, http.StatusBadRequest, "bad_request_body", fmt.Errorf("invalid request body"))
		return
	}
	if err := wh.wardrobeService.SetAvailability(c.Request.Context(), itemID, req.Available); err != nil {
		RespondError(c, http.StatusBadRequest, "wardrobe_update_failed", err)
		return
	}
	RespondOK(c, gin.H{"success": true})
}

func (wh *WardrobeHandler) Delete(c *gin.Context) {
	itemID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		RespondError(c, http.StatusBadRequest, "bad_item_id", fmt.Errorf("invalid item id"))
		return
	}
	if err := wh.wardrobeService.Delete(c.Request.Context(), itemID); err != nil {
		RespondError(c, http.StatusBadRequest, "wardrobe_delete_failed", err)
		return
	}
	RespondOK(c, gin.H{"success": true})
}
