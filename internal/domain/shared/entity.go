package shared

import "time"

// Audit holds the bookkeeping columns present on every table
type Audit struct {
	CreatedAt time.Time `json:"CreatedAt" gorm:"not null"`
	UpdatedAt time.Time `json:"UpdatedAt" gorm:"not null"`
	CreatedBy string    `json:"CreatedBy,omitempty" gorm:"size:50"`
	UpdatedBy string    `json:"UpdatedBy,omitempty" gorm:"size:50"`
}

// Touch stamps the audit columns for a write by the given user
func (a *Audit) Touch(user string, now time.Time) {
	if a.CreatedAt.IsZero() {
		a.CreatedAt = now
		a.CreatedBy = user
	}
	a.UpdatedAt = now
	a.UpdatedBy = user
}
