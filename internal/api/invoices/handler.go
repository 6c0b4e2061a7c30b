package invoices

import (
	"errors"
	"net/http"

	"github.com/Squirrel-Richard/vakmanapp-nl/internal/domain/companies"
	"github.com/Squirrel-Richard/vakmanapp-nl/internal/domain/invoices"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

type Handler struct {
	DB      *gorm.DB
	Service *Service
}

func NewHandler(db *gorm.DB, links PaymentLinkCreator) *Handler {
	return &Handler{DB: db, Service: NewService(db, links)}
}

// POST /facturen/genereer
func (h *Handler) Generate(c *gin.Context) {
	userID := c.GetUint("user_id")
	if userID == 0 {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Niet ingelogd"})
		return
	}

	var body struct {
		JobID           *uint    `json:"job_id"`
		Uren            *float64 `json:"uren"`
		Uurtarief       *float64 `json:"uurtarief"`
		MateriaalKosten *float64 `json:"materiaal_kosten"`
		BTWPercentage   *float64 `json:"btw_percentage"`
	}
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if body.JobID == nil || *body.JobID == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "job_id is verplicht"})
		return
	}

	company, err := companies.ForUser(h.DB, userID)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Geen bedrijf gevonden"})
		return
	}

	result, err := h.Service.Generate(c.Request.Context(), company.ID, GenerateInput{
		JobID:           *body.JobID,
		Uren:            body.Uren,
		Uurtarief:       body.Uurtarief,
		MateriaalKosten: body.MateriaalKosten,
		BTWPercentage:   body.BTWPercentage,
	})
	if err != nil {
		if errors.Is(err, ErrJobNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Opdracht niet gevonden"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	if result.AlreadyExisted {
		c.JSON(http.StatusOK, gin.H{
			"data":        result.Invoice,
			"payment_url": result.PaymentURL,
			"message":     "Factuur bestaat al",
		})
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"data":           result.Invoice,
		"payment_url":    result.PaymentURL,
		"factuur_nummer": result.Invoice.FactuurNummer,
		"bedrag_incl":    result.Invoice.BedragIncl,
	})
}

// GET /facturen
func (h *Handler) List(c *gin.Context) {
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

	var list []invoices.Invoice
	if err := h.DB.Where("company_id = ?", company.ID).
		Order("created_at DESC").
		Find(&list).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": list})
}
