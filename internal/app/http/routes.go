package routes

import (
	"github.com/Squirrel-Richard/vakmanapp-nl/config"
	"github.com/Squirrel-Richard/vakmanapp-nl/internal/api/auth"
	"github.com/Squirrel-Richard/vakmanapp-nl/internal/api/billing"
	clientsapi "github.com/Squirrel-Richard/vakmanapp-nl/internal/api/clients"
	employeesapi "github.com/Squirrel-Richard/vakmanapp-nl/internal/api/employees"
	invoicesapi "github.com/Squirrel-Richard/vakmanapp-nl/internal/api/invoices"
	jobsapi "github.com/Squirrel-Richard/vakmanapp-nl/internal/api/jobs"
	offertesapi "github.com/Squirrel-Richard/vakmanapp-nl/internal/api/offertes"
	onboardingapi "github.com/Squirrel-Richard/vakmanapp-nl/internal/api/onboarding"
	"github.com/Squirrel-Richard/vakmanapp-nl/internal/api/stripewebhook"
	werkbonnenapi "github.com/Squirrel-Richard/vakmanapp-nl/internal/api/werkbonnen"
	"github.com/Squirrel-Richard/vakmanapp-nl/internal/app/http/middleware"
	"github.com/Squirrel-Richard/vakmanapp-nl/internal/infra/stripepay"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

func RegisterRoutes(r *gin.Engine, db *gorm.DB) {
	pay := stripepay.New(config.STRIPE_SECRET_KEY, config.APP_URL)

	authHandler := auth.NewHandler(db)
	onboardingHandler := onboardingapi.NewHandler(db)
	clientsHandler := clientsapi.NewHandler(db)
	employeesHandler := employeesapi.NewHandler(db)
	jobsHandler := jobsapi.NewHandler(db)
	werkbonnenHandler := werkbonnenapi.NewHandler(db)
	invoicesHandler := invoicesapi.NewHandler(db, pay)
	offertesHandler := offertesapi.NewHandler(db)
	billingHandler := billing.NewHandler(db, pay)
	webhookHandler := stripewebhook.NewHandler(db, config.STRIPE_WEBHOOK_SECRET)

	// raw body, no sanitizer: the signature covers the exact bytes Stripe sent
	r.POST("/webhooks/payment", webhookHandler.HandleEvent)

	r.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok"})
	})

	public := r.Group("/")
	public.Use(middleware.SanitizeInputMiddleware())
	public.POST("/register", authHandler.Register)
	public.POST("/login", authHandler.Login)
	public.GET("/auth/google", authHandler.GoogleStart)
	public.GET("/auth/google/callback", authHandler.GoogleCallback)

	// Authenticated
	authed := r.Group("/")
	authed.Use(middleware.AuthMiddleware(), middleware.SanitizeInputMiddleware())

	authed.POST("/onboarding/bedrijf", onboardingHandler.CreateCompany)
	authed.POST("/onboarding/monteur", onboardingHandler.CreateMonteur)

	authed.GET("/klanten", clientsHandler.List)
	authed.POST("/klanten", clientsHandler.Create)
	authed.GET("/klanten/:id", clientsHandler.Get)

	authed.GET("/personeel", employeesHandler.List)
	authed.POST("/personeel", middleware.RequireEmployeeCapacity(db), employeesHandler.Create)

	authed.GET("/opdrachten", jobsHandler.List)
	authed.POST("/opdrachten", jobsHandler.Create)
	authed.GET("/opdrachten/:id", jobsHandler.Get)
	authed.PATCH("/opdrachten/:id/status", jobsHandler.UpdateStatus)
	authed.POST("/opdrachten/:id/volgende", jobsHandler.Advance)

	authed.GET("/opdrachten/:id/werkbon", werkbonnenHandler.Get)
	authed.PUT("/opdrachten/:id/werkbon", werkbonnenHandler.Save)

	authed.GET("/facturen", invoicesHandler.List)
	authed.POST("/facturen/genereer", invoicesHandler.Generate)

	authed.GET("/offertes", offertesHandler.List)
	authed.POST("/offertes", offertesHandler.Create)

	authed.GET("/abonnement", billingHandler.GetSubscription)
	authed.POST("/abonnement/checkout", billingHandler.CreateCheckoutSession)
}
