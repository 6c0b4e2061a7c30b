package werkbonnen

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/Squirrel-Richard/vakmanapp-nl/internal/domain/companies"
	"github.com/Squirrel-Richard/vakmanapp-nl/internal/domain/jobs"
	"github.com/Squirrel-Richard/vakmanapp-nl/internal/domain/werkbonnen"
)

func setupTestDB(t *testing.T, name string) *gorm.DB {
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", name)
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	if err := db.AutoMigrate(&companies.Company{}, &jobs.Job{}, &werkbonnen.Werkbon{}); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	return db
}

func newRouter(db *gorm.DB) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(func(c *gin.Context) {
		c.Set("user_id", uint(1))
		c.Next()
	})
	h := NewHandler(db)
	r.GET("/opdrachten/:id/werkbon", h.Get)
	r.PUT("/opdrachten/:id/werkbon", h.Save)
	return r
}

func seedJob(t *testing.T, db *gorm.DB, status string) *jobs.Job {
	t.Helper()
	company := companies.Company{UserID: 1, Naam: "Jansen Installatie"}
	if err := db.Where("user_id = ?", 1).FirstOrCreate(&company).Error; err != nil {
		t.Fatalf("seed company: %v", err)
	}
	job := jobs.Job{CompanyID: company.ID, Titel: "CV ketel vervangen", Status: status, Prioriteit: jobs.PrioriteitNormaal}
	if err := db.Create(&job).Error; err != nil {
		t.Fatalf("seed job: %v", err)
	}
	return &job
}

func putWerkbon(t *testing.T, r *gin.Engine, jobID uint, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodPut, fmt.Sprintf("/opdrachten/%d/werkbon", jobID), strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestSaveCreatesWerkbonAndFinishesJob(t *testing.T) {
	db := setupTestDB(t, t.Name())
	job := seedJob(t, db, jobs.StatusOnderweg)
	r := newRouter(db)

	w := putWerkbon(t, r, job.ID, `{"werkzaamheden": "Ketel vervangen", "uren": 3.5}`)
	if w.Code != http.StatusCreated {
		t.Fatalf("status = %d, body %s", w.Code, w.Body.String())
	}

	var wb werkbonnen.Werkbon
	if err := db.Where("job_id = ?", job.ID).First(&wb).Error; err != nil {
		t.Fatalf("werkbon not stored: %v", err)
	}
	if wb.Uren == nil || *wb.Uren != 3.5 {
		t.Errorf("uren = %v, want 3.5", wb.Uren)
	}
	if wb.OndertekendOp != nil {
		t.Error("ondertekend_op set without a signature")
	}

	var reloaded jobs.Job
	if err := db.First(&reloaded, job.ID).Error; err != nil {
		t.Fatalf("reload job: %v", err)
	}
	if reloaded.Status != jobs.StatusKlaar {
		t.Errorf("job status = %q, want klaar", reloaded.Status)
	}
}

func TestSaveUpdatesExistingWerkbon(t *testing.T) {
	db := setupTestDB(t, t.Name())
	job := seedJob(t, db, jobs.StatusKlaar)
	r := newRouter(db)

	if w := putWerkbon(t, r, job.ID, `{"werkzaamheden": "Eerste versie"}`); w.Code != http.StatusCreated {
		t.Fatalf("first save: %d", w.Code)
	}
	if w := putWerkbon(t, r, job.ID, `{"werkzaamheden": "Tweede versie", "uren": 2}`); w.Code != http.StatusOK {
		t.Fatalf("second save: %d", w.Code)
	}

	var count int64
	if err := db.Model(&werkbonnen.Werkbon{}).Where("job_id = ?", job.ID).Count(&count).Error; err != nil {
		t.Fatalf("count: %v", err)
	}
	if count != 1 {
		t.Fatalf("got %d werkbonnen, want 1", count)
	}

	var wb werkbonnen.Werkbon
	if err := db.Where("job_id = ?", job.ID).First(&wb).Error; err != nil {
		t.Fatalf("reload: %v", err)
	}
	if wb.Werkzaamheden == nil || *wb.Werkzaamheden != "Tweede versie" {
		t.Errorf("werkzaamheden = %v, want overwritten", wb.Werkzaamheden)
	}
}

func TestSaveStampsSignatureOnce(t *testing.T) {
	db := setupTestDB(t, t.Name())
	job := seedJob(t, db, jobs.StatusKlaar)
	r := newRouter(db)

	if w := putWerkbon(t, r, job.ID, `{"werkzaamheden": "Klaar", "handtekening_url": "https://cdn.example/h1.png"}`); w.Code != http.StatusCreated {
		t.Fatalf("first save: %d", w.Code)
	}

	var first werkbonnen.Werkbon
	if err := db.Where("job_id = ?", job.ID).First(&first).Error; err != nil {
		t.Fatalf("reload: %v", err)
	}
	if first.OndertekendOp == nil {
		t.Fatal("ondertekend_op not stamped on first signature")
	}
	if !first.Signed() {
		t.Error("Signed() = false for a signed werkbon")
	}

	if w := putWerkbon(t, r, job.ID, `{"werkzaamheden": "Klaar", "handtekening_url": "https://cdn.example/h2.png"}`); w.Code != http.StatusOK {
		t.Fatalf("second save: %d", w.Code)
	}

	var second werkbonnen.Werkbon
	if err := db.Where("job_id = ?", job.ID).First(&second).Error; err != nil {
		t.Fatalf("reload: %v", err)
	}
	if second.OndertekendOp == nil || !second.OndertekendOp.Equal(*first.OndertekendOp) {
		t.Error("ondertekend_op changed on re-sign")
	}
}

func TestSaveLeavesInvoicedJobAlone(t *testing.T) {
	db := setupTestDB(t, t.Name())
	job := seedJob(t, db, jobs.StatusGefactureerd)
	r := newRouter(db)

	if w := putWerkbon(t, r, job.ID, `{"werkzaamheden": "Nagekomen werk"}`); w.Code != http.StatusCreated {
		t.Fatalf("save: %d", w.Code)
	}

	var reloaded jobs.Job
	if err := db.First(&reloaded, job.ID).Error; err != nil {
		t.Fatalf("reload job: %v", err)
	}
	if reloaded.Status != jobs.StatusGefactureerd {
		t.Errorf("job status = %q, want untouched gefactureerd", reloaded.Status)
	}
}

func TestGetReportsSignedFlag(t *testing.T) {
	db := setupTestDB(t, t.Name())
	job := seedJob(t, db, jobs.StatusKlaar)
	r := newRouter(db)

	if w := putWerkbon(t, r, job.ID, `{"werkzaamheden": "Klaar"}`); w.Code != http.StatusCreated {
		t.Fatalf("save: %d", w.Code)
	}

	req := httptest.NewRequest(http.MethodGet, fmt.Sprintf("/opdrachten/%d/werkbon", job.ID), nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, body %s", w.Code, w.Body.String())
	}

	var resp struct {
		Ondertekend bool `json:"ondertekend"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if resp.Ondertekend {
		t.Error("ondertekend = true for an unsigned werkbon")
	}
}

func TestGetMissingWerkbon(t *testing.T) {
	db := setupTestDB(t, t.Name())
	job := seedJob(t, db, jobs.StatusNieuw)
	r := newRouter(db)

	req := httptest.NewRequest(http.MethodGet, fmt.Sprintf("/opdrachten/%d/werkbon", job.ID), nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	if w.Code != http.StatusNotFound {
		t.Fatalf("status = %d, want 404", w.Code)
	}
}
