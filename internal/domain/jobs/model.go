package jobs

import (
	"time"

	"github.com/Squirrel-Richard/vakmanapp-nl/internal/domain/companies"
)

// Job is one field assignment (opdracht) for a company, optionally linked to a
// klant and an assigned monteur.
type Job struct {
	ID           uint    `gorm:"primaryKey" json:"id"`
	CompanyID    uint    `gorm:"not null;index" json:"company_id"`
	ClientID     *uint   `json:"client_id"`
	EmployeeID   *uint   `json:"employee_id"`
	Titel        string  `gorm:"not null" json:"titel"`
	Omschrijving *string `json:"omschrijving"`
	Adres        *string `json:"adres"`

	Datum     *time.Time `gorm:"type:date" json:"datum"`
	TijdStart *string    `json:"tijd_start"`

	Status     string `gorm:"type:varchar(20);not null;default:'nieuw'" json:"status"`
	Prioriteit string `gorm:"type:varchar(20);not null;default:'normaal'" json:"prioriteit"`

	CreatedAt time.Time `json:"created_at"`

	Client   *companies.Client   `json:"client,omitempty"`
	Employee *companies.Employee `json:"employee,omitempty"`
}
