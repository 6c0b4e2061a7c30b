package employees

import (
	"net/http"

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

// GET /personeel
func (h *Handler) List(c *gin.Context) {
	company, ok := h.currentCompany(c)
	if !ok {
		return
	}

	var list []companies.Employee
	err := companies.CompanyEmployeesQuery(h.DB, company.ID).
		Order("naam ASC").
		Find(&list).Error
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": list})
}

// POST /personeel — behind the employee-quota guard.
func (h *Handler) Create(c *gin.Context) {
	company, ok := h.currentCompany(c)
	if !ok {
		return
	}

	var input struct {
		Naam     string  `json:"naam" binding:"required"`
		Email    *string `json:"email"`
		Telefoon *string `json:"telefoon"`
		Rol      string  `json:"rol"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if input.Rol == "" {
		input.Rol = "monteur"
	}

	employee := companies.Employee{
		CompanyID: company.ID,
		Naam:      input.Naam,
		Email:     input.Email,
		Telefoon:  input.Telefoon,
		Rol:       input.Rol,
	}
	if err := h.DB.Create(&employee).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusCreated, gin.H{"data": employee})
}
