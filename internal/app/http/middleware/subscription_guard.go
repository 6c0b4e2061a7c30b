package middleware

import (
	"net/http"

	"github.com/Squirrel-Richard/vakmanapp-nl/internal/domain/companies"
	"github.com/Squirrel-Richard/vakmanapp-nl/internal/domain/subscriptions"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// RequireEmployeeCapacity blocks adding monteurs past the subscription's
// max_employees quota. A company without a subscription row counts as the
// gratis plan (quota 1).
func RequireEmployeeCapacity(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID := c.GetUint("user_id")
		if userID == 0 {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Niet ingelogd"})
			return
		}

		company, err := companies.ForUser(db, userID)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusNotFound, gin.H{"error": "Geen bedrijf gevonden"})
			return
		}

		maxEmployees := subscriptions.MaxEmployeesFor(subscriptions.PlanGratis)
		var sub subscriptions.Subscription
		if err := db.Where("company_id = ?", company.ID).First(&sub).Error; err == nil {
			maxEmployees = sub.MaxEmployees
		}

		var count int64
		if err := companies.CompanyEmployeesQuery(db, company.ID).Count(&count).Error; err != nil {
			c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}
		if count >= int64(maxEmployees) {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{
				"error": "Personeelslimiet bereikt voor dit abonnement",
			})
			return
		}

		c.Next()
	}
}
