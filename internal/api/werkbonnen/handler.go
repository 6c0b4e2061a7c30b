package werkbonnen

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/Squirrel-Richard/vakmanapp-nl/internal/domain/companies"
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

// PUT /opdrachten/:id/werkbon — create or update the job's single werkbon.
// Saving one implicitly moves a nieuw/onderweg job to klaar; klaar and
// gefactureerd are left alone.
func (h *Handler) Save(c *gin.Context) {
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

	jobID, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Ongeldig opdracht id"})
		return
	}

	var job jobs.Job
	if err := h.DB.Where("id = ? AND company_id = ?", jobID, company.ID).First(&job).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Opdracht niet gevonden"})
		return
	}

	var input struct {
		Werkzaamheden     *string  `json:"werkzaamheden"`
		MateriaalGebruikt *string  `json:"materiaal_gebruikt"`
		Uren              *float64 `json:"uren"`
		HandtekeningURL   *string  `json:"handtekening_url"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	var werkbon werkbonnen.Werkbon
	err = h.DB.Where("job_id = ?", job.ID).First(&werkbon).Error
	isNew := errors.Is(err, gorm.ErrRecordNotFound)
	if err != nil && !isNew {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	werkbon.JobID = job.ID
	werkbon.Werkzaamheden = input.Werkzaamheden
	werkbon.MateriaalGebruikt = input.MateriaalGebruikt
	werkbon.Uren = input.Uren
	if input.HandtekeningURL != nil && *input.HandtekeningURL != "" {
		werkbon.HandtekeningURL = input.HandtekeningURL
		// ondertekend_op is stamped once, at the first signature
		if werkbon.OndertekendOp == nil {
			now := time.Now()
			werkbon.OndertekendOp = &now
		}
	}

	if err := h.DB.Save(&werkbon).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	if job.Status == jobs.StatusNieuw || job.Status == jobs.StatusOnderweg {
		if err := h.DB.Model(&jobs.Job{}).Where("id = ?", job.ID).Update("status", jobs.StatusKlaar).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}
	}

	status := http.StatusOK
	if isNew {
		status = http.StatusCreated
	}
	c.JSON(status, gin.H{"data": werkbon})
}

// GET /opdrachten/:id/werkbon
func (h *Handler) Get(c *gin.Context) {
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

	jobID, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Ongeldig opdracht id"})
		return
	}

	var job jobs.Job
	if err := h.DB.Where("id = ? AND company_id = ?", jobID, company.ID).First(&job).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Opdracht niet gevonden"})
		return
	}

	var werkbon werkbonnen.Werkbon
	if err := h.DB.Where("job_id = ?", job.ID).First(&werkbon).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Geen werkbon voor deze opdracht"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": werkbon, "ondertekend": werkbon.Signed()})
}
