package invoices

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/Squirrel-Richard/vakmanapp-nl/internal/domain/invoices"
	"github.com/Squirrel-Richard/vakmanapp-nl/internal/domain/jobs"
	"github.com/Squirrel-Richard/vakmanapp-nl/internal/domain/money"
	"github.com/Squirrel-Richard/vakmanapp-nl/internal/domain/werkbonnen"
)

const (
	defaultUurtarief     = 75 // EUR per uur when no rate is given
	defaultBTWPercentage = 21
	paymentLinkTimeout   = 10 * time.Second
)

var (
	ErrJobNotFound    = errors.New("opdracht niet gevonden")
	ErrClientNotFound = errors.New("klant niet gevonden")
)

// PaymentLinkCreator is what the service needs from Stripe; the real
// implementation is stripepay.Client.
type PaymentLinkCreator interface {
	CreateIdealPaymentLink(ctx context.Context, bedrag money.Cents, omschrijving string, invoiceID uint, paymentToken string, klantEmail string) (string, error)
}

// Service turns a finished job into an invoice with an iDEAL payment link.
type Service struct {
	DB    *gorm.DB
	Links PaymentLinkCreator
}

func NewService(db *gorm.DB, links PaymentLinkCreator) *Service {
	return &Service{DB: db, Links: links}
}

type GenerateInput struct {
	JobID           uint
	Uren            *float64
	Uurtarief       *float64
	MateriaalKosten *float64
	BTWPercentage   *float64
}

type GenerateResult struct {
	Invoice        *invoices.Invoice
	PaymentURL     *string
	AlreadyExisted bool
}

// Generate creates the job's invoice. It is idempotent: a second call for the
// same job returns the existing invoice untouched, and a lost insert race
// resolves to the row that won. Payment-link failure degrades to a nil link;
// the invoice and the job status flip still go through.
func (s *Service) Generate(ctx context.Context, companyID uint, in GenerateInput) (*GenerateResult, error) {
	var job jobs.Job
	err := s.DB.Preload("Client").
		Where("id = ? AND company_id = ?", in.JobID, companyID).
		First(&job).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrJobNotFound
		}
		return nil, err
	}

	if existing := s.existingInvoice(job.ID); existing != nil {
		return &GenerateResult{Invoice: existing, PaymentURL: existing.StripePaymentLink, AlreadyExisted: true}, nil
	}

	// uren: explicit override, else werkbon hours, else 1
	gewerktUren := 1.0
	if in.Uren != nil && *in.Uren > 0 {
		gewerktUren = *in.Uren
	} else {
		var werkbon werkbonnen.Werkbon
		if err := s.DB.Where("job_id = ?", job.ID).First(&werkbon).Error; err == nil {
			if werkbon.Uren != nil && *werkbon.Uren > 0 {
				gewerktUren = *werkbon.Uren
			}
		}
	}

	tarief := money.FromEuros(defaultUurtarief)
	if in.Uurtarief != nil && *in.Uurtarief > 0 {
		tarief = money.FromEuros(*in.Uurtarief)
	}
	materiaalKosten := money.Cents(0)
	if in.MateriaalKosten != nil && *in.MateriaalKosten > 0 {
		materiaalKosten = money.FromEuros(*in.MateriaalKosten)
	}
	btwPercentage := float64(defaultBTWPercentage)
	if in.BTWPercentage != nil && *in.BTWPercentage >= 0 {
		btwPercentage = *in.BTWPercentage
	}

	bedragExcl := money.Hours(gewerktUren, tarief) + materiaalKosten
	btwBedrag := money.VAT(bedragExcl, btwPercentage)
	bedragIncl := bedragExcl + btwBedrag

	invoice := &invoices.Invoice{
		CompanyID:     companyID,
		JobID:         job.ID,
		Status:        invoices.StatusVerstuurd,
		BedragExcl:    bedragExcl,
		BTWPercentage: btwPercentage,
		BTWBedrag:     btwBedrag,
		BedragIncl:    bedragIncl,
		PaymentToken:  uuid.NewString(),
	}

	if err := s.insertInvoice(invoice, companyID); err != nil {
		// duplicate-job race: someone else created the invoice in between
		if existing := s.existingInvoice(job.ID); existing != nil {
			return &GenerateResult{Invoice: existing, PaymentURL: existing.StripePaymentLink, AlreadyExisted: true}, nil
		}
		return nil, err
	}

	// The invoice row exists before the Stripe call so the checkout metadata
	// can carry its real id. A failed call leaves the link nil, nothing more.
	linkCtx, cancel := context.WithTimeout(ctx, paymentLinkTimeout)
	defer cancel()

	omschrijving := fmt.Sprintf("Factuur %s - %s", invoice.FactuurNummer, job.Titel)
	klantEmail := ""
	if job.Client != nil && job.Client.Email != nil {
		klantEmail = *job.Client.Email
	}

	url, err := s.Links.CreateIdealPaymentLink(linkCtx, bedragIncl, omschrijving, invoice.ID, invoice.PaymentToken, klantEmail)
	if err != nil {
		log.Println("stripe payment link failed, invoice continues without one:", err)
	} else if url != "" {
		if err := s.DB.Model(&invoices.Invoice{}).Where("id = ?", invoice.ID).
			Update("stripe_payment_link", url).Error; err == nil {
			invoice.StripePaymentLink = &url
		}
	}

	if err := s.DB.Model(&jobs.Job{}).Where("id = ?", job.ID).
		Update("status", jobs.StatusGefactureerd).Error; err != nil {
		return nil, err
	}

	return &GenerateResult{Invoice: invoice, PaymentURL: invoice.StripePaymentLink}, nil
}

func (s *Service) existingInvoice(jobID uint) *invoices.Invoice {
	var existing invoices.Invoice
	if err := s.DB.Where("job_id = ?", jobID).First(&existing).Error; err != nil {
		return nil
	}
	return &existing
}

// insertInvoice assigns the next factuurnummer and creates the row, retrying
// once when the number was taken by a concurrent generation.
func (s *Service) insertInvoice(invoice *invoices.Invoice, companyID uint) error {
	var lastErr error
	for attempt := 0; attempt < 2; attempt++ {
		nummer, err := invoices.NextFactuurNummer(s.DB, companyID, time.Now())
		if err != nil {
			return err
		}
		invoice.FactuurNummer = nummer
		if lastErr = s.DB.Create(invoice).Error; lastErr == nil {
			return nil
		}
	}
	return lastErr
}
