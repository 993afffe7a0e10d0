package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/hobbyhub/backend/internal/dto"
	"github.com/hobbyhub/backend/internal/service"
	"github.com/hobbyhub/backend/pkg/response"
	"github.com/hobbyhub/backend/pkg/validator"
)

type HobbyHandler struct {
	service service.HobbyService
}

func NewHobbyHandler(service service.HobbyService) *HobbyHandler {
	return &HobbyHandler{service: service}
}

func (h *HobbyHandler) CreateHobby(c *gin.Context) {
	var req dto.CreateHobbyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": validator.FormatValidationError(err)})
		return
	}

	hobby, err := h.service.CreateHobby(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"data": hobby})
}

func (h *HobbyHandler) GetHobbies(c *gin.Context) {
	hobbies, err := h.service.GetHobbies(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": hobbies})
}

// SearchHobbies serves discovery queries. An empty query falls back to the
// plain listing.
func (h *HobbyHandler) SearchHobbies(c *gin.Context) {
	hobbies, err := h.service.SearchHobbies(c.Request.Context(), c.Query("q"))
	if err != nil {
		response.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": hobbies})
}

func (h *HobbyHandler) GetHobbyByID(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid hobby id"})
		return
	}

	hobby, err := h.service.GetHobbyByID(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": hobby})
}
