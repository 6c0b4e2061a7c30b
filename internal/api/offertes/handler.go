package offertes

import (
	"net/http"
	"time"

	"github.com/Squirrel-Richard/vakmanapp-nl/internal/domain/companies"
	"github.com/Squirrel-Richard/vakmanapp-nl/internal/domain/offertes"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

type Handler struct {
	DB *gorm.DB
}

func NewHandler(db *gorm.DB) *Handler {
	return &Handler{DB: db}
}

func (h *Handler) currentCompany(c *gin.Context) (*companies.Company, bool) {
	userID := c.GetUint("user_id")
	if userID == 0 {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Niet ingelogd"})
		return nil, false
	}
	company, err := companies.ForUser(h.DB, userID)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Geen bedrijf gevonden"})
		return nil, false
	}
	return company, true
}

// GET /offertes
func (h *Handler) List(c *gin.Context) {
	company, ok := h.currentCompany(c)
	if !ok {
		return
	}

	var list []offertes.Offerte
	err := h.DB.Where("company_id = ?", company.ID).
		Order("created_at DESC").
		Find(&list).Error
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": list})
}

// POST /offertes — totals are computed here, never trusted from the client.
func (h *Handler) Create(c *gin.Context) {
	company, ok := h.currentCompany(c)
	if !ok {
		return
	}

	var input struct {
		ClientID      *uint            `json:"client_id"`
		GeldigTot     *string          `json:"geldig_tot"`
		Regels        []offertes.Regel `json:"regels"`
		BTWPercentage float64          `json:"btw_percentage"`
		Notities      *string          `json:"notities"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if input.ClientID == nil || *input.ClientID == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Selecteer een klant"})
		return
	}
	if len(input.Regels) == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Voeg minstens één regel toe"})
		return
	}
	for _, r := range input.Regels {
		if r.Omschrijving == "" {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Vul alle omschrijvingen in"})
			return
		}
	}
	if input.BTWPercentage == 0 {
		input.BTWPercentage = 21
	}

	var klant companies.Client
	if err := h.DB.Where("id = ? AND company_id = ?", *input.ClientID, company.ID).First(&klant).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Klant niet gevonden"})
		return
	}

	var geldigTot *time.Time
	if input.GeldigTot != nil && *input.GeldigTot != "" {
		d, err := time.Parse("2006-01-02", *input.GeldigTot)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Ongeldige datum, verwacht JJJJ-MM-DD"})
			return
		}
		geldigTot = &d
	}

	nummer, err := offertes.NextOfferteNummer(h.DB, company.ID, time.Now())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	subtotaal, btwBedrag, totaal := offertes.ComputeTotals(input.Regels, input.BTWPercentage)

	offerte := offertes.Offerte{
		CompanyID:     company.ID,
		ClientID:      input.ClientID,
		OfferteNummer: nummer,
		GeldigTot:     geldigTot,
		Regels:        input.Regels,
		Subtotaal:     subtotaal,
		BTWPercentage: input.BTWPercentage,
		BTWBedrag:     btwBedrag,
		Totaal:        totaal,
		Notities:      input.Notities,
		Status:        offertes.StatusConcept,
	}
	if err := h.DB.Create(&offerte).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusCreated, gin.H{"data": offerte})
}
