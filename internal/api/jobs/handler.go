package jobs

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/Squirrel-Richard/vakmanapp-nl/internal/domain/companies"
	"github.com/Squirrel-Richard/vakmanapp-nl/internal/domain/invoices"
	"github.com/Squirrel-Richard/vakmanapp-nl/internal/domain/jobs"
	"github.com/Squirrel-Richard/vakmanapp-nl/internal/domain/werkbonnen"

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

// GET /opdrachten?status=&limit=
func (h *Handler) List(c *gin.Context) {
	company, ok := h.currentCompany(c)
	if !ok {
		return
	}

	limit := 50
	if raw := c.Query("limit"); raw != "" {
		if n, err := strconv.Atoi(raw); err == nil && n > 0 {
			limit = n
		}
	}

	query := h.DB.
		Preload("Client").
		Preload("Employee").
		Where("company_id = ?", company.ID).
		Order("created_at DESC").
		Limit(limit)

	if status := c.Query("status"); status != "" {
		query = query.Where("status = ?", status)
	}

	var list []jobs.Job
	if err := query.Find(&list).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": list})
}

// POST /opdrachten
func (h *Handler) Create(c *gin.Context) {
	company, ok := h.currentCompany(c)
	if !ok {
		return
	}

	var input struct {
		Titel        string  `json:"titel" binding:"required"`
		Omschrijving *string `json:"omschrijving"`
		Adres        *string `json:"adres"`
		Datum        *string `json:"datum"`
		TijdStart    *string `json:"tijd_start"`
		Status       string  `json:"status"`
		Prioriteit   string  `json:"prioriteit"`
		ClientID     *uint   `json:"client_id"`
		EmployeeID   *uint   `json:"employee_id"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if input.Status == "" {
		input.Status = jobs.StatusNieuw
	}
	if input.Prioriteit == "" {
		input.Prioriteit = jobs.PrioriteitNormaal
	}
	if !jobs.IsValidStatus(input.Status) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Ongeldige status"})
		return
	}
	if !jobs.IsValidPrioriteit(input.Prioriteit) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Ongeldige prioriteit"})
		return
	}

	var datum *time.Time
	if input.Datum != nil && *input.Datum != "" {
		d, err := time.Parse("2006-01-02", *input.Datum)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Ongeldige datum, verwacht JJJJ-MM-DD"})
			return
		}
		datum = &d
	}

	job := jobs.Job{
		CompanyID:    company.ID,
		ClientID:     input.ClientID,
		EmployeeID:   input.EmployeeID,
		Titel:        input.Titel,
		Omschrijving: input.Omschrijving,
		Adres:        input.Adres,
		Datum:        datum,
		TijdStart:    input.TijdStart,
		Status:       input.Status,
		Prioriteit:   input.Prioriteit,
	}
	if err := h.DB.Create(&job).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusCreated, gin.H{"data": job})
}

// GET /opdrachten/:id — job plus its werkbon and invoice, for the detail view.
func (h *Handler) Get(c *gin.Context) {
	company, ok := h.currentCompany(c)
	if !ok {
		return
	}

	job, ok := h.lookupJob(c, company.ID)
	if !ok {
		return
	}

	var werkbon *werkbonnen.Werkbon
	var wb werkbonnen.Werkbon
	if err := h.DB.Where("job_id = ?", job.ID).First(&wb).Error; err == nil {
		werkbon = &wb
	}

	var invoice *invoices.Invoice
	var inv invoices.Invoice
	if err := h.DB.Where("job_id = ?", job.ID).First(&inv).Error; err == nil {
		invoice = &inv
	}

	c.JSON(http.StatusOK, gin.H{
		"data":    job,
		"werkbon": werkbon,
		"factuur": invoice,
	})
}

// PATCH /opdrachten/:id/status — the manual override escape hatch: any valid
// status, no ordering guard. This coexists with Advance deliberately.
func (h *Handler) UpdateStatus(c *gin.Context) {
	company, ok := h.currentCompany(c)
	if !ok {
		return
	}

	var input struct {
		Status string `json:"status" binding:"required"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if !jobs.IsValidStatus(input.Status) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Ongeldige status"})
		return
	}

	job, ok := h.lookupJob(c, company.ID)
	if !ok {
		return
	}

	if err := h.DB.Model(&jobs.Job{}).Where("id = ?", job.ID).Update("status", input.Status).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	job.Status = input.Status

	c.JSON(http.StatusOK, gin.H{"data": job})
}

// POST /opdrachten/:id/volgende — move one kanban column to the right.
func (h *Handler) Advance(c *gin.Context) {
	company, ok := h.currentCompany(c)
	if !ok {
		return
	}

	job, ok := h.lookupJob(c, company.ID)
	if !ok {
		return
	}

	next, moved := jobs.NextStatus(job.Status)
	if !moved {
		c.JSON(http.StatusConflict, gin.H{"error": "Opdracht staat al in de laatste kolom"})
		return
	}

	if err := h.DB.Model(&jobs.Job{}).Where("id = ?", job.ID).Update("status", next).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	job.Status = next

	c.JSON(http.StatusOK, gin.H{"data": job})
}

func (h *Handler) lookupJob(c *gin.Context, companyID uint) (*jobs.Job, bool) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Ongeldig opdracht id"})
		return nil, false
	}

	var job jobs.Job
	err = h.DB.
		Preload("Client").
		Preload("Employee").
		Where("id = ? AND company_id = ?", id, companyID).
		First(&job).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Opdracht niet gevonden"})
		} else {
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		}
		return nil, false
	}
	return &job, true
}
