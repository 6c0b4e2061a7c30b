package onboarding

import (
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/Squirrel-Richard/vakmanapp-nl/internal/domain/companies"
	"github.com/Squirrel-Richard/vakmanapp-nl/internal/domain/subscriptions"
)

func setupTestDB(t *testing.T, name string) *gorm.DB {
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", name)
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	if err := db.AutoMigrate(&companies.Company{}, &companies.Employee{}, &subscriptions.Subscription{}); err != nil {
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
	r.POST("/onboarding/bedrijf", h.CreateCompany)
	r.POST("/onboarding/monteur", h.CreateMonteur)
	return r
}

func postJSON(t *testing.T, r *gin.Engine, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestCreateCompanyStartsOnGratis(t *testing.T) {
	db := setupTestDB(t, t.Name())
	r := newRouter(db)

	w := postJSON(t, r, "/onboarding/bedrijf", `{"naam": "Jansen Installatie", "kvk": "12345678"}`)
	if w.Code != http.StatusCreated {
		t.Fatalf("status = %d, body %s", w.Code, w.Body.String())
	}

	company, err := companies.ForUser(db, 1)
	if err != nil {
		t.Fatalf("company not created: %v", err)
	}
	if company.Naam != "Jansen Installatie" {
		t.Errorf("naam = %q", company.Naam)
	}

	var sub subscriptions.Subscription
	if err := db.Where("company_id = ?", company.ID).First(&sub).Error; err != nil {
		t.Fatalf("subscription not created: %v", err)
	}
	if sub.Plan != subscriptions.PlanGratis || sub.MaxEmployees != 1 {
		t.Errorf("got plan=%q max=%d, want gratis/1", sub.Plan, sub.MaxEmployees)
	}
}

func TestCreateCompanyTwiceConflicts(t *testing.T) {
	db := setupTestDB(t, t.Name())
	r := newRouter(db)

	if w := postJSON(t, r, "/onboarding/bedrijf", `{"naam": "Jansen Installatie"}`); w.Code != http.StatusCreated {
		t.Fatalf("first create: %d", w.Code)
	}
	w := postJSON(t, r, "/onboarding/bedrijf", `{"naam": "Tweede Bedrijf"}`)
	if w.Code != http.StatusConflict {
		t.Fatalf("second create: status = %d, want 409", w.Code)
	}

	var count int64
	if err := db.Model(&companies.Company{}).Count(&count).Error; err != nil {
		t.Fatalf("count: %v", err)
	}
	if count != 1 {
		t.Errorf("got %d companies, want 1", count)
	}
}

func TestCreateCompanyRequiresNaam(t *testing.T) {
	db := setupTestDB(t, t.Name())
	r := newRouter(db)

	if w := postJSON(t, r, "/onboarding/bedrijf", `{"kvk": "12345678"}`); w.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", w.Code)
	}
}

func TestCreateMonteur(t *testing.T) {
	db := setupTestDB(t, t.Name())
	r := newRouter(db)

	if w := postJSON(t, r, "/onboarding/bedrijf", `{"naam": "Jansen Installatie"}`); w.Code != http.StatusCreated {
		t.Fatalf("create company: %d", w.Code)
	}
	if w := postJSON(t, r, "/onboarding/monteur", `{"naam": "Piet"}`); w.Code != http.StatusCreated {
		t.Fatalf("create monteur: %d", w.Code)
	}

	var employee companies.Employee
	if err := db.First(&employee).Error; err != nil {
		t.Fatalf("employee not created: %v", err)
	}
	if employee.Naam != "Piet" || employee.Rol != "monteur" {
		t.Errorf("got %q/%q, want Piet/monteur", employee.Naam, employee.Rol)
	}
}

func TestCreateMonteurWithoutCompany(t *testing.T) {
	db := setupTestDB(t, t.Name())
	r := newRouter(db)

	if w := postJSON(t, r, "/onboarding/monteur", `{"naam": "Piet"}`); w.Code != http.StatusNotFound {
		t.Fatalf("status = %d, want 404", w.Code)
	}
}
