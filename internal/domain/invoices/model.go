package invoices

import (
	"time"

	"github.com/Squirrel-Richard/vakmanapp-nl/internal/domain/money"
)

const (
	StatusConcept   = "concept"
	StatusVerstuurd = "verstuurd"
	StatusBetaald   = "betaald"
	StatusVervallen = "vervallen"
)

// Invoice is created once per job by the generation service and only ever
// mutated by the payment webhook (status -> betaald). The unique index on
// JobID closes the duplicate-invoice race at the database level.
type Invoice struct {
	ID        uint `gorm:"primaryKey" json:"id"`
	CompanyID uint `gorm:"not null;uniqueIndex:idx_invoices_company_nummer,priority:1" json:"company_id"`
	JobID     uint `gorm:"not null;uniqueIndex:idx_invoices_job_id" json:"job_id"`

	FactuurNummer string `gorm:"not null;uniqueIndex:idx_invoices_company_nummer,priority:2" json:"factuur_nummer"`
	Status        string `gorm:"type:varchar(20);not null;default:'concept'" json:"status"`

	BedragExcl    money.Cents `json:"bedrag_excl"`
	BTWPercentage float64     `gorm:"column:btw_percentage" json:"btw_percentage"`
	BTWBedrag     money.Cents `gorm:"column:btw_bedrag" json:"btw_bedrag"`
	BedragIncl    money.Cents `json:"bedrag_incl"`

	StripePaymentLink *string `gorm:"column:stripe_payment_link" json:"stripe_payment_link"`
	PaymentToken      string  `gorm:"not null;uniqueIndex:idx_invoices_payment_token" json:"payment_token"`
	PDFURL            *string `gorm:"column:pdf_url" json:"pdf_url"`

	BetaaldOp *time.Time `json:"betaald_op"`
	CreatedAt time.Time  `json:"created_at"`
}
