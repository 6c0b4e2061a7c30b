package companies

import "gorm.io/gorm"

// ForUser resolves the company owned by the authenticated user. Every core
// operation starts here: no company, no access.
func ForUser(db *gorm.DB, userID uint) (*Company, error) {
	var company Company
	if err := db.Where("user_id = ?", userID).First(&company).Error; err != nil {
		return nil, err
	}
	return &company, nil
}

func CompanyClientsQuery(db *gorm.DB, companyID uint) *gorm.DB {
	return db.Model(&Client{}).Where("company_id = ?", companyID)
}

func CompanyEmployeesQuery(db *gorm.DB, companyID uint) *gorm.DB {
	return db.Model(&Employee{}).Where("company_id = ?", companyID)
}
