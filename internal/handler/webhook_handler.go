package handler

import (
	"crypto/subtle"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/hobbyhub/backend/internal/dto"
	"github.com/hobbyhub/backend/internal/service"
	"github.com/hobbyhub/backend/pkg/response"
	"github.com/hobbyhub/backend/pkg/validator"
)

type WebhookHandler struct {
	userService service.UserService
	secret      string
}

func NewWebhookHandler(userService service.UserService, secret string) *WebhookHandler {
	return &WebhookHandler{
		userService: userService,
		secret:      secret,
	}
}

// HandleIdentityEvent ingests user provisioning events from the identity
// provider. When IDENTITY_WEBHOOK_SECRET is set, the caller must echo it in
// the X-Webhook-Secret header.
func (h *WebhookHandler) HandleIdentityEvent(c *gin.Context) {
	if h.secret != "" {
		got := c.GetHeader("X-Webhook-Secret")
		if subtle.ConstantTimeCompare([]byte(got), []byte(h.secret)) != 1 {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid webhook secret"})
			return
		}
	}

	var event dto.IdentityWebhookEvent
	if err := c.ShouldBindJSON(&event); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": validator.FormatValidationError(err)})
		return
	}

	if err := h.userService.HandleWebhookEvent(c.Request.Context(), event); err != nil {
		response.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "event processed"})
}
