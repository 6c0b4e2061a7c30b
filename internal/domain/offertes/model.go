package offertes

import (
	"fmt"
	"time"

	"gorm.io/gorm"

	"github.com/Squirrel-Richard/vakmanapp-nl/internal/domain/money"
)

const (
	StatusConcept      = "concept"
	StatusVerstuurd    = "verstuurd"
	StatusGeaccepteerd = "geaccepteerd"
	StatusAfgewezen    = "afgewezen"
)

// Regel is one quote line: aantal × prijs in the given eenheid (uur, stuk, m2).
type Regel struct {
	Omschrijving  string  `json:"omschrijving"`
	Aantal        float64 `json:"aantal"`
	Eenheid       string  `json:"eenheid"`
	Prijs         float64 `json:"prijs"`
	BTWPercentage float64 `json:"btw_percentage"`
}

type Offerte struct {
	ID        uint  `gorm:"primaryKey" json:"id"`
	CompanyID uint  `gorm:"not null;uniqueIndex:idx_offertes_company_nummer,priority:1" json:"company_id"`
	ClientID  *uint `json:"client_id"`

	OfferteNummer string     `gorm:"not null;uniqueIndex:idx_offertes_company_nummer,priority:2" json:"offerte_nummer"`
	GeldigTot     *time.Time `json:"geldig_tot"`

	Regels []Regel `gorm:"serializer:json" json:"regels"`

	Subtotaal     money.Cents `json:"subtotaal"`
	BTWPercentage float64     `gorm:"column:btw_percentage" json:"btw_percentage"`
	BTWBedrag     money.Cents `gorm:"column:btw_bedrag" json:"btw_bedrag"`
	Totaal        money.Cents `json:"totaal"`

	Notities *string `json:"notities"`
	Status   string  `gorm:"type:varchar(20);not null;default:'concept'" json:"status"`

	CreatedAt time.Time `json:"created_at"`
}

// ComputeTotals sums the quote lines in cents. VAT is taken over the subtotal
// at the quote-level percentage, matching how the invoice side computes it.
func ComputeTotals(regels []Regel, btwPercentage float64) (subtotaal, btwBedrag, totaal money.Cents) {
	for _, r := range regels {
		subtotaal += money.Hours(r.Aantal, money.FromEuros(r.Prijs))
	}
	btwBedrag = money.VAT(subtotaal, btwPercentage)
	totaal = subtotaal + btwBedrag
	return subtotaal, btwBedrag, totaal
}

// NextOfferteNummer issues the next OFF-<jaar>-<nnnn> in the per-company
// sequence, same scheme as invoice numbers.
func NextOfferteNummer(db *gorm.DB, companyID uint, now time.Time) (string, error) {
	year := now.Year()
	var count int64
	err := db.Model(&Offerte{}).
		Where("company_id = ? AND offerte_nummer LIKE ?", companyID, fmt.Sprintf("OFF-%d-%%", year)).
		Count(&count).Error
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("OFF-%d-%04d", year, count+1), nil
}
