package stripewebhook

import (
	"strconv"
	"strings"
	"time"

	"github.com/stripe/stripe-go/v75"

	"github.com/Squirrel-Richard/vakmanapp-nl/internal/domain/subscriptions"
)

// handleSubscriptionUpserted covers customer.subscription.created and
// .updated: derive the plan from the price nickname and overwrite the
// company's subscription row. Replaying the event writes the same values.
func (h *Handler) handleSubscriptionUpserted(sub *stripe.Subscription) error {
	companyID := companyIDFromMetadata(sub.Metadata)
	if companyID == 0 {
		// not one of ours; acknowledge without touching anything
		return nil
	}

	plan := subscriptions.PlanPro
	if sub.Items != nil && len(sub.Items.Data) > 0 && sub.Items.Data[0].Price != nil {
		if nickname := strings.ToLower(strings.TrimSpace(sub.Items.Data[0].Price.Nickname)); nickname != "" {
			plan = nickname
		}
	}

	maxEmployees := subscriptions.MaxEmployeesFor(plan)
	geldigTot := time.Unix(sub.CurrentPeriodEnd, 0)

	stripeID := sub.ID
	return subscriptions.Upsert(h.DB, companyID, plan, &stripeID, maxEmployees, &geldigTot)
}

func companyIDFromMetadata(md map[string]string) uint {
	if md == nil {
		return 0
	}
	s := md["company_id"]
	if s == "" {
		return 0
	}
	id, err := strconv.ParseUint(s, 10, 64)
	if err != nil {
		return 0
	}
	return uint(id)
}
