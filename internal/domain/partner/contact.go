package partner

import (
	"strings"

	"github.com/erp/backoffice/internal/domain/shared"
)

// Owner types of partner contacts and attachments
const (
	OwnerCustomer = "customer"
	OwnerSupplier = "supplier"
)

// Contact is an additional contact person of a customer or supplier
type Contact struct {
	ContactID       int64  `json:"ContactID" gorm:"primaryKey;autoIncrement"`
	OwnerType       string `json:"-" gorm:"size:20;not null;index:idx_contact_owner"`
	OwnerID         int64  `json:"-" gorm:"not null;index:idx_contact_owner"`
	ContactTypeID   int64  `json:"ContactTypeID" gorm:"not null"`
	ContactTypeName string `json:"ContactTypeName" gorm:"size:50"`
	ContactName     string `json:"ContactName" gorm:"size:100;not null"`
	Phone           string `json:"Phone" gorm:"size:20"`
	Email           string `json:"Email" gorm:"size:120"`
	IsPrimary       bool   `json:"IsPrimary" gorm:"not null;default:false"`
}

// TableName returns the table name for GORM
func (Contact) TableName() string {
	return "partner_contacts"
}

// normalizeContacts trims the contacts and allows at most one primary
func normalizeContacts(contacts []Contact) ([]Contact, error) {
	out := make([]Contact, 0, len(contacts))
	primaries := 0
	for _, c := range contacts {
		c.ContactID = 0
		c.ContactName = strings.TrimSpace(c.ContactName)
		c.Email = strings.ToLower(strings.TrimSpace(c.Email))
		c.Phone = strings.TrimSpace(c.Phone)
		if c.ContactName == "" {
			return nil, shared.NewDomainError("INVALID_CONTACT", "Contact name cannot be empty")
		}
		if c.ContactTypeID <= 0 {
			return nil, shared.NewDomainError("INVALID_CONTACT", "Contact type is required")
		}
		if c.IsPrimary {
			primaries++
		}
		out = append(out, c)
	}
	if primaries > 1 {
		return nil, shared.NewDomainError("INVALID_CONTACT", "Only one contact can be primary")
	}
	return out, nil
}
