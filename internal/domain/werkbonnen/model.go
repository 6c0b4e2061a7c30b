package werkbonnen

import "time"

// Werkbon is the digital work order a monteur fills in on site, at most one
// per job. PDF rendering and signature storage happen outside this service;
// only their URLs are carried here.
type Werkbon struct {
	ID                uint       `gorm:"primaryKey" json:"id"`
	JobID             uint       `gorm:"not null;uniqueIndex:idx_werkbonnen_job_id" json:"job_id"`
	Werkzaamheden     *string    `json:"werkzaamheden"`
	MateriaalGebruikt *string    `json:"materiaal_gebruikt"`
	Uren              *float64   `json:"uren"`
	HandtekeningURL   *string    `gorm:"column:handtekening_url" json:"handtekening_url"`
	PDFURL            *string    `gorm:"column:pdf_url" json:"pdf_url"`
	OndertekendOp     *time.Time `json:"ondertekend_op"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"-"`
}

// Signed reports whether the werkbon carries a customer signature.
func (w *Werkbon) Signed() bool {
	return w.HandtekeningURL != nil && *w.HandtekeningURL != "" && w.OndertekendOp != nil
}
