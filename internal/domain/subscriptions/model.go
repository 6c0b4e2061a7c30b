package subscriptions

import (
	"time"

	"gorm.io/gorm"
)

// Plan constants (single source of truth)
const (
	PlanGratis   = "gratis"
	PlanStarter  = "starter"
	PlanPro      = "pro"
	PlanBusiness = "business"
)

// Stripe price nicknames with no quota of their own fall through to
// effectively unlimited.
const unlimitedEmployees = 999

// Subscription is one row per company, mutated only by the payment webhook
// and the onboarding wizard.
type Subscription struct {
	ID                   uint       `gorm:"primaryKey" json:"id"`
	CompanyID            uint       `gorm:"not null;uniqueIndex:idx_subscriptions_company_id" json:"company_id"`
	Plan                 string     `gorm:"type:varchar(20);not null;default:'gratis'" json:"plan"`
	StripeSubscriptionID *string    `gorm:"column:stripe_subscription_id" json:"stripe_subscription_id"`
	MaxEmployees         int        `gorm:"not null;default:1" json:"max_employees"`
	GeldigTot            *time.Time `json:"geldig_tot"`

	CreatedAt time.Time `json:"created_at"`
}

// MaxEmployeesFor maps a plan to its employee quota.
func MaxEmployeesFor(plan string) int {
	switch plan {
	case PlanGratis:
		return 1
	case PlanStarter:
		return 3
	default:
		return unlimitedEmployees
	}
}

// Upsert inserts the company's subscription row or overwrites all its fields;
// there are no merge semantics.
func Upsert(db *gorm.DB, companyID uint, plan string, stripeSubscriptionID *string, maxEmployees int, geldigTot *time.Time) error {
	var existing Subscription
	err := db.Where("company_id = ?", companyID).First(&existing).Error
	if err != nil {
		if err != gorm.ErrRecordNotFound {
			return err
		}
		return db.Create(&Subscription{
			CompanyID:            companyID,
			Plan:                 plan,
			StripeSubscriptionID: stripeSubscriptionID,
			MaxEmployees:         maxEmployees,
			GeldigTot:            geldigTot,
		}).Error
	}
	return db.Model(&Subscription{}).
		Where("company_id = ?", companyID).
		Updates(map[string]interface{}{
			"plan":                   plan,
			"stripe_subscription_id": stripeSubscriptionID,
			"max_employees":          maxEmployees,
			"geldig_tot":             geldigTot,
		}).Error
}
