package invoices

import (
	"fmt"
	"time"

	"gorm.io/gorm"
)

// NextFactuurNummer issues the next number in the per-company, per-year
// sequence, keeping the human-readable F<jaar>-<nnnn> format. The composite
// unique index on (company_id, factuur_nummer) backstops concurrent callers:
// a loser of the race gets a constraint error and should retry.
func NextFactuurNummer(db *gorm.DB, companyID uint, now time.Time) (string, error) {
	year := now.Year()
	var count int64
	err := db.Model(&Invoice{}).
		Where("company_id = ? AND factuur_nummer LIKE ?", companyID, fmt.Sprintf("F%d-%%", year)).
		Count(&count).Error
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("F%d-%04d", year, count+1), nil
}
