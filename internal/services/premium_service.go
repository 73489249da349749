package services

import (
	"fmt"
	"strconv"

	"github.com/stripe/stripe-go/v82"
	"github.com/stripe/stripe-go/v82/checkout/session"
	"gorm.io/gorm"

	"github.com/Dalab21/emotunes/internal/config"
	"github.com/Dalab21/emotunes/internal/logger"
	"github.com/Dalab21/emotunes/internal/models"
)

// PremiumService sells the premium role upgrade through Stripe checkout.
type PremiumService struct {
	db  *gorm.DB
	cfg *config.Config
}

func NewPremiumService(db *gorm.DB, cfg *config.Config) *PremiumService {
	stripe.Key = cfg.StripeSecretKey
	return &PremiumService{db: db, cfg: cfg}
}

// CreateCheckout creates a Stripe checkout session for the premium upgrade
// and returns its URL.
func (s *PremiumService) CreateCheckout(user *models.User) (string, error) {
	if user.RoleID == models.RolePremium || user.RoleID == models.RoleAdmin {
		return "", ErrAlreadyPremium
	}

	params := &stripe.CheckoutSessionParams{
		LineItems: []*stripe.CheckoutSessionLineItemParams{
			{
				PriceData: &stripe.CheckoutSessionLineItemPriceDataParams{
					Currency: stripe.String("eur"),
					ProductData: &stripe.CheckoutSessionLineItemPriceDataProductDataParams{
						Name:        stripe.String("EmoTunes Premium"),
						Description: stripe.String("Premium access for playlist exports and sharing"),
					},
					UnitAmount: stripe.Int64(s.cfg.PremiumPriceCents),
				},
				Quantity: stripe.Int64(1),
			},
		},
		Mode:          stripe.String(string(stripe.CheckoutSessionModePayment)),
		SuccessURL:    stripe.String(s.cfg.StripeSuccessURL),
		CancelURL:     stripe.String(s.cfg.StripeCancelURL),
		CustomerEmail: stripe.String(user.Email),
		Metadata: map[string]string{
			"user_id": strconv.FormatUint(uint64(user.ID), 10),
		},
	}

	sess, err := session.New(params)
	if err != nil {
		return "", fmt.Errorf("failed to create Stripe session: %w", err)
	}

	logger.Info("premium checkout created", logger.Int("user_id", int(user.ID)), logger.String("session_id", sess.ID))
	return sess.URL, nil
}

// HandleCheckoutCompleted upgrades the user named in the session metadata to
// the premium role.
func (s *PremiumService) HandleCheckoutCompleted(sess *stripe.CheckoutSession) error {
	userIDStr, ok := sess.Metadata["user_id"]
	if !ok {
		return fmt.Errorf("%w: user_id missing from session metadata", ErrValidation)
	}
	userID, err := strconv.ParseUint(userIDStr, 10, 32)
	if err != nil {
		return fmt.Errorf("%w: invalid user_id %q in session metadata", ErrValidation, userIDStr)
	}

	result := s.db.Model(&models.User{}).
		Where("id = ? AND role_id = ?", uint(userID), models.RoleUser).
		Update("role_id", models.RolePremium)
	if result.Error != nil {
		return fmt.Errorf("failed to upgrade user %d: %w", userID, result.Error)
	}
	if result.RowsAffected == 0 {
		// Already premium or admin; the webhook may be delivered twice.
		logger.Warn("premium upgrade skipped", logger.Int64("user_id", int64(userID)))
		return nil
	}

	logger.Info("user upgraded to premium", logger.Int64("user_id", int64(userID)))
	return nil
}
