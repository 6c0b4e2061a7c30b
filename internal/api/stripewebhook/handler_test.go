package stripewebhook

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/Squirrel-Richard/vakmanapp-nl/internal/domain/invoices"
	"github.com/Squirrel-Richard/vakmanapp-nl/internal/domain/subscriptions"
)

const testSecret = "whsec_test_secret"

func setupTestDB(t *testing.T, name string) *gorm.DB {
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", name)
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	if err := db.AutoMigrate(&invoices.Invoice{}, &subscriptions.Subscription{}); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	return db
}

func newRouter(db *gorm.DB) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	h := NewHandler(db, testSecret)
	r.POST("/webhooks/payment", h.HandleEvent)
	return r
}

// signPayload builds a Stripe-Signature header the same way Stripe does:
// HMAC-SHA256 over "<timestamp>.<payload>".
func signPayload(payload []byte, secret string) string {
	ts := time.Now().Unix()
	mac := hmac.New(sha256.New, []byte(secret))
	fmt.Fprintf(mac, "%d.%s", ts, payload)
	return fmt.Sprintf("t=%d,v1=%s", ts, hex.EncodeToString(mac.Sum(nil)))
}

func deliver(t *testing.T, r *gin.Engine, payload string, signature string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, "/webhooks/payment", strings.NewReader(payload))
	if signature != "" {
		req.Header.Set("Stripe-Signature", signature)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func seedInvoice(t *testing.T, db *gorm.DB, token string) *invoices.Invoice {
	inv := invoices.Invoice{
		CompanyID:     1,
		JobID:         10,
		FactuurNummer: "F2026-0001",
		Status:        invoices.StatusVerstuurd,
		BedragExcl:    17000,
		BTWPercentage: 21,
		BTWBedrag:     3570,
		BedragIncl:    20570,
		PaymentToken:  token,
	}
	if err := db.Create(&inv).Error; err != nil {
		t.Fatalf("seed invoice: %v", err)
	}
	return &inv
}

func checkoutCompletedPayload(invoiceID uint, token string, paymentStatus string) string {
	return fmt.Sprintf(`{
		"id": "evt_1",
		"type": "checkout.session.completed",
		"data": {
			"object": {
				"id": "cs_test_1",
				"object": "checkout.session",
				"payment_status": %q,
				"metadata": {"invoice_id": "%d", "payment_token": %q}
			}
		}
	}`, paymentStatus, invoiceID, token)
}

func TestMissingSignatureRejected(t *testing.T) {
	db := setupTestDB(t, t.Name())
	inv := seedInvoice(t, db, "tok-1")
	r := newRouter(db)

	w := deliver(t, r, checkoutCompletedPayload(inv.ID, "tok-1", "paid"), "")
	if w.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", w.Code)
	}

	var reloaded invoices.Invoice
	if err := db.First(&reloaded, inv.ID).Error; err != nil {
		t.Fatalf("reload: %v", err)
	}
	if reloaded.Status != invoices.StatusVerstuurd || reloaded.BetaaldOp != nil {
		t.Error("invoice mutated despite missing signature")
	}
}

func TestInvalidSignatureRejected(t *testing.T) {
	db := setupTestDB(t, t.Name())
	inv := seedInvoice(t, db, "tok-1")
	r := newRouter(db)

	payload := checkoutCompletedPayload(inv.ID, "tok-1", "paid")
	w := deliver(t, r, payload, signPayload([]byte(payload), "whsec_wrong_secret"))
	if w.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", w.Code)
	}

	var reloaded invoices.Invoice
	if err := db.First(&reloaded, inv.ID).Error; err != nil {
		t.Fatalf("reload: %v", err)
	}
	if reloaded.Status != invoices.StatusVerstuurd {
		t.Error("invoice mutated despite invalid signature")
	}
}

func TestCheckoutCompletedMarksInvoicePaid(t *testing.T) {
	db := setupTestDB(t, t.Name())
	inv := seedInvoice(t, db, "tok-1")
	r := newRouter(db)

	payload := checkoutCompletedPayload(inv.ID, "tok-1", "paid")
	w := deliver(t, r, payload, signPayload([]byte(payload), testSecret))
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, body %s", w.Code, w.Body.String())
	}
	if !strings.Contains(w.Body.String(), `"received":true`) {
		t.Errorf("body = %s, want received ack", w.Body.String())
	}

	var reloaded invoices.Invoice
	if err := db.First(&reloaded, inv.ID).Error; err != nil {
		t.Fatalf("reload: %v", err)
	}
	if reloaded.Status != invoices.StatusBetaald {
		t.Errorf("status = %q, want betaald", reloaded.Status)
	}
	if reloaded.BetaaldOp == nil {
		t.Error("betaald_op not set")
	}
}

func TestCheckoutCompletedViaTokenOnly(t *testing.T) {
	db := setupTestDB(t, t.Name())
	inv := seedInvoice(t, db, "tok-xyz")
	r := newRouter(db)

	// no usable invoice_id, only the correlation token
	payload := fmt.Sprintf(`{
		"id": "evt_2",
		"type": "checkout.session.completed",
		"data": {
			"object": {
				"id": "cs_test_2",
				"object": "checkout.session",
				"payment_status": "paid",
				"metadata": {"payment_token": %q}
			}
		}
	}`, "tok-xyz")
	w := deliver(t, r, payload, signPayload([]byte(payload), testSecret))
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, body %s", w.Code, w.Body.String())
	}

	var reloaded invoices.Invoice
	if err := db.First(&reloaded, inv.ID).Error; err != nil {
		t.Fatalf("reload: %v", err)
	}
	if reloaded.Status != invoices.StatusBetaald {
		t.Errorf("status = %q, want betaald", reloaded.Status)
	}
}

func TestCheckoutCompletedReplayIsNoop(t *testing.T) {
	db := setupTestDB(t, t.Name())
	inv := seedInvoice(t, db, "tok-1")
	r := newRouter(db)

	payload := checkoutCompletedPayload(inv.ID, "tok-1", "paid")
	if w := deliver(t, r, payload, signPayload([]byte(payload), testSecret)); w.Code != http.StatusOK {
		t.Fatalf("first delivery: %d", w.Code)
	}

	var first invoices.Invoice
	if err := db.First(&first, inv.ID).Error; err != nil {
		t.Fatalf("reload: %v", err)
	}

	if w := deliver(t, r, payload, signPayload([]byte(payload), testSecret)); w.Code != http.StatusOK {
		t.Fatalf("redelivery: %d", w.Code)
	}

	var second invoices.Invoice
	if err := db.First(&second, inv.ID).Error; err != nil {
		t.Fatalf("reload: %v", err)
	}
	if second.Status != invoices.StatusBetaald {
		t.Errorf("status = %q, want betaald", second.Status)
	}
	if first.BetaaldOp == nil || second.BetaaldOp == nil || !first.BetaaldOp.Equal(*second.BetaaldOp) {
		t.Error("betaald_op changed on redelivery")
	}
}

func TestCheckoutCompletedUnpaidIgnored(t *testing.T) {
	db := setupTestDB(t, t.Name())
	inv := seedInvoice(t, db, "tok-1")
	r := newRouter(db)

	payload := checkoutCompletedPayload(inv.ID, "tok-1", "unpaid")
	if w := deliver(t, r, payload, signPayload([]byte(payload), testSecret)); w.Code != http.StatusOK {
		t.Fatalf("status = %d", w.Code)
	}

	var reloaded invoices.Invoice
	if err := db.First(&reloaded, inv.ID).Error; err != nil {
		t.Fatalf("reload: %v", err)
	}
	if reloaded.Status != invoices.StatusVerstuurd {
		t.Errorf("unpaid session changed status to %q", reloaded.Status)
	}
}

func TestSubscriptionCreatedUpserts(t *testing.T) {
	db := setupTestDB(t, t.Name())
	r := newRouter(db)

	periodEnd := time.Now().AddDate(0, 1, 0).Unix()
	payload := fmt.Sprintf(`{
		"id": "evt_3",
		"type": "customer.subscription.created",
		"data": {
			"object": {
				"id": "sub_123",
				"object": "subscription",
				"metadata": {"company_id": "7"},
				"current_period_end": %d,
				"items": {"data": [{"price": {"nickname": "Starter"}}]}
			}
		}
	}`, periodEnd)
	if w := deliver(t, r, payload, signPayload([]byte(payload), testSecret)); w.Code != http.StatusOK {
		t.Fatalf("status = %d, body %s", w.Code, w.Body.String())
	}

	var sub subscriptions.Subscription
	if err := db.Where("company_id = ?", 7).First(&sub).Error; err != nil {
		t.Fatalf("subscription not upserted: %v", err)
	}
	if sub.Plan != subscriptions.PlanStarter || sub.MaxEmployees != 3 {
		t.Errorf("got plan=%q max=%d, want starter/3", sub.Plan, sub.MaxEmployees)
	}
	if sub.StripeSubscriptionID == nil || *sub.StripeSubscriptionID != "sub_123" {
		t.Error("stripe subscription id missing")
	}
	if sub.GeldigTot == nil || sub.GeldigTot.Unix() != periodEnd {
		t.Error("geldig_tot not taken from current_period_end")
	}
}

func TestSubscriptionWithoutNicknameDefaultsToPro(t *testing.T) {
	db := setupTestDB(t, t.Name())
	r := newRouter(db)

	payload := fmt.Sprintf(`{
		"id": "evt_4",
		"type": "customer.subscription.updated",
		"data": {
			"object": {
				"id": "sub_456",
				"object": "subscription",
				"metadata": {"company_id": "7"},
				"current_period_end": %d,
				"items": {"data": [{"price": {"nickname": ""}}]}
			}
		}
	}`, time.Now().Unix())
	if w := deliver(t, r, payload, signPayload([]byte(payload), testSecret)); w.Code != http.StatusOK {
		t.Fatalf("status = %d", w.Code)
	}

	var sub subscriptions.Subscription
	if err := db.Where("company_id = ?", 7).First(&sub).Error; err != nil {
		t.Fatalf("subscription not upserted: %v", err)
	}
	if sub.Plan != subscriptions.PlanPro || sub.MaxEmployees != 999 {
		t.Errorf("got plan=%q max=%d, want pro/999", sub.Plan, sub.MaxEmployees)
	}
}

func TestSubscriptionDeletedDowngradesToGratis(t *testing.T) {
	db := setupTestDB(t, t.Name())
	r := newRouter(db)

	stripeID := "sub_123"
	if err := db.Create(&subscriptions.Subscription{
		CompanyID:            7,
		Plan:                 subscriptions.PlanBusiness,
		StripeSubscriptionID: &stripeID,
		MaxEmployees:         999,
	}).Error; err != nil {
		t.Fatalf("seed subscription: %v", err)
	}

	payload := `{
		"id": "evt_5",
		"type": "customer.subscription.deleted",
		"data": {
			"object": {
				"id": "sub_123",
				"object": "subscription",
				"metadata": {"company_id": "7"}
			}
		}
	}`
	if w := deliver(t, r, payload, signPayload([]byte(payload), testSecret)); w.Code != http.StatusOK {
		t.Fatalf("status = %d", w.Code)
	}

	var sub subscriptions.Subscription
	if err := db.Where("company_id = ?", 7).First(&sub).Error; err != nil {
		t.Fatalf("lookup: %v", err)
	}
	if sub.Plan != subscriptions.PlanGratis || sub.MaxEmployees != 1 {
		t.Errorf("got plan=%q max=%d, want gratis/1", sub.Plan, sub.MaxEmployees)
	}
}

func TestUnknownEventAcknowledged(t *testing.T) {
	db := setupTestDB(t, t.Name())
	r := newRouter(db)

	payload := `{"id": "evt_6", "type": "invoice.finalized", "data": {"object": {}}}`
	w := deliver(t, r, payload, signPayload([]byte(payload), testSecret))
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", w.Code)
	}
	if !strings.Contains(w.Body.String(), `"received":true`) {
		t.Errorf("body = %s, want received ack", w.Body.String())
	}
}
