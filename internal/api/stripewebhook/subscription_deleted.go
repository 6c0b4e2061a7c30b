package stripewebhook

import (
	"github.com/stripe/stripe-go/v75"

	"github.com/Squirrel-Richard/vakmanapp-nl/internal/domain/subscriptions"
)

// handleSubscriptionDeleted drops the company back to the gratis plan with a
// quota of one monteur, whatever it was on before.
func (h *Handler) handleSubscriptionDeleted(sub *stripe.Subscription) error {
	companyID := companyIDFromMetadata(sub.Metadata)
	if companyID == 0 {
		return nil
	}

	return h.DB.Model(&subscriptions.Subscription{}).
		Where("company_id = ?", companyID).
		Updates(map[string]interface{}{
			"plan":          subscriptions.PlanGratis,
			"max_employees": subscriptions.MaxEmployeesFor(subscriptions.PlanGratis),
		}).Error
}
