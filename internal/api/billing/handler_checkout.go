package billing

import (
	"context"
	"net/http"
	"time"

	"github.com/Squirrel-Richard/vakmanapp-nl/internal/domain/companies"
	"github.com/Squirrel-Richard/vakmanapp-nl/internal/domain/subscriptions"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// SubscriptionCheckoutCreator is what this handler needs from Stripe; the
// real implementation is stripepay.Client.
type SubscriptionCheckoutCreator interface {
	CreateSubscriptionCheckout(ctx context.Context, priceID string, companyID uint, email string) (string, error)
}

type Handler struct {
	DB       *gorm.DB
	Checkout SubscriptionCheckoutCreator
}

func NewHandler(db *gorm.DB, checkout SubscriptionCheckoutCreator) *Handler {
	return &Handler{DB: db, Checkout: checkout}
}

// POST /abonnement/checkout — start a subscription-mode checkout for a plan
// upgrade. The webhook picks the result up asynchronously.
func (h *Handler) CreateCheckoutSession(c *gin.Context) {
	userID := c.GetUint("user_id")
	if userID == 0 {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Niet ingelogd"})
		return
	}

	var body struct {
		PriceID string `json:"price_id"`
	}
	if err := c.ShouldBindJSON(&body); err != nil || body.PriceID == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "price_id is verplicht"})
		return
	}

	company, err := companies.ForUser(h.DB, userID)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Geen bedrijf gevonden"})
		return
	}

	email := c.GetString("email")
	if company.Email != nil && *company.Email != "" {
		email = *company.Email
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), 10*time.Second)
	defer cancel()

	url, err := h.Checkout.CreateSubscriptionCheckout(ctx, body.PriceID, company.ID, email)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Kon geen checkout sessie aanmaken"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"url": url})
}

// GET /abonnement — the company's current subscription; a missing row reads
// as the gratis plan.
func (h *Handler) GetSubscription(c *gin.Context) {
	userID := c.GetUint("user_id")
	if userID == 0 {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Niet ingelogd"})
		return
	}
	company, err := companies.ForUser(h.DB, userID)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Geen bedrijf gevonden"})
		return
	}

	var sub subscriptions.Subscription
	if err := h.DB.Where("company_id = ?", company.ID).First(&sub).Error; err != nil {
		sub = subscriptions.Subscription{
			CompanyID:    company.ID,
			Plan:         subscriptions.PlanGratis,
			MaxEmployees: subscriptions.MaxEmployeesFor(subscriptions.PlanGratis),
		}
	}

	c.JSON(http.StatusOK, gin.H{"data": sub})
}
