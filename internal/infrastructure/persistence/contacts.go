package persistence

import (
	"github.com/erp/backoffice/internal/domain/partner"
	"gorm.io/gorm"
)

// replaceContacts deletes the stored contacts of an owner and inserts contacts
func replaceContacts(db *gorm.DB, ownerType string, ownerID int64, contacts []partner.Contact) error {
	if err := db.Where("owner_type = ? AND owner_id = ?", ownerType, ownerID).
		Delete(&partner.Contact{}).Error; err != nil {
		return err
	}
	if len(contacts) == 0 {
		return nil
	}
	for i := range contacts {
		contacts[i].ContactID = 0
		contacts[i].OwnerType = ownerType
		contacts[i].OwnerID = ownerID
	}
	return db.Create(&contacts).Error
}

func deleteContacts(db *gorm.DB, ownerType string, ownerID int64) error {
	return db.Where("owner_type = ? AND owner_id = ?", ownerType, ownerID).
		Delete(&partner.Contact{}).Error
}
