package handlers

import (
	"encoding/json"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/stripe/stripe-go/v82"
	"github.com/stripe/stripe-go/v82/webhook"

	"github.com/Dalab21/emotunes/internal/config"
	"github.com/Dalab21/emotunes/internal/logger"
	"github.com/Dalab21/emotunes/internal/services"
)

type PremiumHandler struct {
	premiumService *services.PremiumService
	userService    *services.UserService
	cfg            *config.Config
}

func NewPremiumHandler(premiumService *services.PremiumService, userService *services.UserService, cfg *config.Config) *PremiumHandler {
	return &PremiumHandler{
		premiumService: premiumService,
		userService:    userService,
		cfg:            cfg,
	}
}

// CreateCheckout starts a Stripe checkout session for the premium upgrade
func (h *PremiumHandler) CreateCheckout(c *gin.Context) {
	userID := c.GetUint("userID")

	user, err := h.userService.GetProfile(userID)
	if err != nil {
		respondError(c, err)
		return
	}

	url, err := h.premiumService.CreateCheckout(user)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"checkout_url": url})
}

// HandleWebhook handles Stripe webhook events
func (h *PremiumHandler) HandleWebhook(c *gin.Context) {
	const MaxBodyBytes = int64(65536)
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, MaxBodyBytes)

	payload, err := io.ReadAll(c.Request.Body)
	if err != nil {
		logger.Error("failed to read Stripe webhook body", logger.ErrorField(err))
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "Error reading request body"})
		return
	}

	signatureHeader := c.GetHeader("Stripe-Signature")

	event, err := webhook.ConstructEvent(payload, signatureHeader, h.cfg.StripeWebhookSecret)
	if err != nil {
		logger.Error("webhook signature verification failed", logger.ErrorField(err))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid signature"})
		return
	}

	logger.Info("stripe event received", logger.String("type", string(event.Type)), logger.String("id", event.ID))

	switch event.Type {
	case "checkout.session.completed":
		var session stripe.CheckoutSession
		if err := json.Unmarshal(event.Data.Raw, &session); err != nil {
			logger.Error("failed to parse checkout.session.completed payload", logger.ErrorField(err))
			c.JSON(http.StatusBadRequest, gin.H{"error": "Error parsing webhook JSON"})
			return
		}

		if err := h.premiumService.HandleCheckoutCompleted(&session); err != nil {
			logger.Error("failed to apply premium upgrade", logger.ErrorField(err))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to apply upgrade"})
			return
		}
	default:
		// Other event types are acknowledged and ignored.
	}

	c.JSON(http.StatusOK, gin.H{"received": true})
}
