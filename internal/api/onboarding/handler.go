package onboarding

import (
	"errors"
	"net/http"

	"github.com/Squirrel-Richard/vakmanapp-nl/internal/domain/companies"
	"github.com/Squirrel-Richard/vakmanapp-nl/internal/domain/subscriptions"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

type Handler struct {
	DB *gorm.DB
}

func NewHandler(db *gorm.DB) *Handler {
	return &Handler{DB: db}
}

// POST /onboarding/bedrijf — first wizard step: create the company and start
// it on the gratis plan (one monteur).
func (h *Handler) CreateCompany(c *gin.Context) {
	userID := c.GetUint("user_id")
	if userID == 0 {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Niet ingelogd"})
		return
	}

	if _, err := companies.ForUser(h.DB, userID); err == nil {
		c.JSON(http.StatusConflict, gin.H{"error": "Bedrijf bestaat al"})
		return
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	var input struct {
		Naam      string  `json:"naam" binding:"required"`
		KVK       *string `json:"kvk"`
		BTWNummer *string `json:"btw_nummer"`
		IBAN      *string `json:"iban"`
		Email     *string `json:"email"`
		Telefoon  *string `json:"telefoon"`
		Adres     *string `json:"adres"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	company := companies.Company{
		UserID:    userID,
		Naam:      input.Naam,
		KVK:       input.KVK,
		BTWNummer: input.BTWNummer,
		IBAN:      input.IBAN,
		Email:     input.Email,
		Telefoon:  input.Telefoon,
		Adres:     input.Adres,
	}
	if err := h.DB.Create(&company).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	sub := subscriptions.Subscription{
		CompanyID:    company.ID,
		Plan:         subscriptions.PlanGratis,
		MaxEmployees: subscriptions.MaxEmployeesFor(subscriptions.PlanGratis),
	}
	if err := h.DB.Create(&sub).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusCreated, gin.H{"data": company, "abonnement": sub})
}

// POST /onboarding/monteur — optional second step: register the first monteur.
func (h *Handler) CreateMonteur(c *gin.Context) {
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

	var input struct {
		Naam     string  `json:"naam" binding:"required"`
		Email    *string `json:"email"`
		Telefoon *string `json:"telefoon"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	employee := companies.Employee{
		CompanyID: company.ID,
		Naam:      input.Naam,
		Email:     input.Email,
		Telefoon:  input.Telefoon,
		Rol:       "monteur",
	}
	if err := h.DB.Create(&employee).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusCreated, gin.H{"data": employee})
}
