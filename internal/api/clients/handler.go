package clients

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/Squirrel-Richard/vakmanapp-nl/internal/domain/companies"

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

// GET /klanten
func (h *Handler) List(c *gin.Context) {
	company, ok := h.currentCompany(c)
	if !ok {
		return
	}

	var list []companies.Client
	err := companies.CompanyClientsQuery(h.DB, company.ID).
		Order("naam ASC").
		Find(&list).Error
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": list})
}

// POST /klanten
func (h *Handler) Create(c *gin.Context) {
	company, ok := h.currentCompany(c)
	if !ok {
		return
	}

	var input struct {
		Naam     string  `json:"naam" binding:"required"`
		Email    *string `json:"email"`
		Telefoon *string `json:"telefoon"`
		Adres    *string `json:"adres"`
		Notities *string `json:"notities"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	client := companies.Client{
		CompanyID: company.ID,
		Naam:      input.Naam,
		Email:     input.Email,
		Telefoon:  input.Telefoon,
		Adres:     input.Adres,
		Notities:  input.Notities,
	}
	if err := h.DB.Create(&client).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusCreated, gin.H{"data": client})
}

// GET /klanten/:id
func (h *Handler) Get(c *gin.Context) {
	company, ok := h.currentCompany(c)
	if !ok {
		return
	}

	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Ongeldig klant id"})
		return
	}

	var client companies.Client
	err = h.DB.Where("id = ? AND company_id = ?", id, company.ID).First(&client).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Klant niet gevonden"})
		} else {
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		}
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": client})
}
