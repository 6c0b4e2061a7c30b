package companies

import "time"

// Company is the tenant root: every job, klant, werkbon, factuur and offerte
// hangs off exactly one company, and every query is scoped by its id.
type Company struct {
	ID        uint    `gorm:"primaryKey" json:"id"`
	UserID    uint    `gorm:"not null;uniqueIndex:idx_companies_user_id" json:"user_id"`
	Naam      string  `gorm:"not null" json:"naam"`
	KVK       *string `gorm:"column:kvk" json:"kvk"`
	BTWNummer *string `gorm:"column:btw_nummer" json:"btw_nummer"`
	IBAN      *string `gorm:"column:iban" json:"iban"`
	Email     *string `json:"email"`
	Telefoon  *string `json:"telefoon"`
	Adres     *string `json:"adres"`
	LogoURL   *string `gorm:"column:logo_url" json:"logo_url"`

	CreatedAt time.Time `json:"created_at"`
}

type Client struct {
	ID        uint    `gorm:"primaryKey" json:"id"`
	CompanyID uint    `gorm:"not null;index" json:"company_id"`
	Naam      string  `gorm:"not null" json:"naam"`
	Email     *string `json:"email"`
	Telefoon  *string `json:"telefoon"`
	Adres     *string `json:"adres"`
	Notities  *string `json:"notities"`

	CreatedAt time.Time `json:"created_at"`
}

type Employee struct {
	ID        uint    `gorm:"primaryKey" json:"id"`
	CompanyID uint    `gorm:"not null;index" json:"company_id"`
	Naam      string  `gorm:"not null" json:"naam"`
	Email     *string `json:"email"`
	Telefoon  *string `json:"telefoon"`
	Rol       string  `gorm:"type:varchar(30);not null;default:'monteur'" json:"rol"`

	CreatedAt time.Time `json:"created_at"`
}
