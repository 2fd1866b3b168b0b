package tenant

import "gorm.io/gorm"

// Scope filters any query to a single company. Services pass the company id
// explicitly; no implicit hook ever injects it.
func Scope(companyID string) func(db *gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		return db.Where("company_id = ?", companyID)
	}
}
