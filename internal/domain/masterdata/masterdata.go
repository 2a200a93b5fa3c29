package masterdata

import (
	"strings"

	"github.com/erp/backoffice/internal/domain/shared"
)

// Country is a read-only reference record
type Country struct {
	CountryID   int64  `json:"CountryID" gorm:"primaryKey;autoIncrement"`
	CountryCode string `json:"CountryCode" gorm:"size:3;not null;uniqueIndex"`
	CountryName string `json:"CountryName" gorm:"size:100;not null"`
}

// TableName returns the table name for GORM
func (Country) TableName() string {
	return "countries"
}

// ContactType classifies partner contacts (owner, accountant, ...)
type ContactType struct {
	ContactTypeID   int64  `json:"ContactTypeID" gorm:"primaryKey;autoIncrement"`
	ContactTypeName string `json:"ContactTypeName" gorm:"size:50;not null;uniqueIndex"`
}

// TableName returns the table name for GORM
func (ContactType) TableName() string {
	return "contact_types"
}

// DocType classifies attachments. Documents of a type that RequiresExpiry
// must carry an expiry date.
type DocType struct {
	DocTypeID      int64  `json:"DocTypeID" gorm:"primaryKey;autoIncrement"`
	DocTypeName    string `json:"DocTypeName" gorm:"size:100;not null;uniqueIndex"`
	RequiresExpiry bool   `json:"RequiresExpiry" gorm:"not null;default:false"`
}

// TableName returns the table name for GORM
func (DocType) TableName() string {
	return "doc_types"
}

// City is a maintainable master record belonging to a country
type City struct {
	CityID       int64  `json:"CityID" gorm:"primaryKey;autoIncrement"`
	CityCode     string `json:"CityCode" gorm:"size:10;not null;uniqueIndex"`
	CityName     string `json:"CityName" gorm:"size:100;not null;index"`
	CountryID    int64  `json:"CountryID" gorm:"not null;index"`
	CountryName  string `json:"CountryName" gorm:"size:100"`
	IsActive     bool   `json:"IsActive" gorm:"not null"`
	shared.Audit `gorm:"embedded"`
}

// TableName returns the table name for GORM
func (City) TableName() string {
	return "cities"
}

// NewCity creates a city
func NewCity(code, name string, countryID int64, countryName string, active bool) (*City, error) {
	c := &City{}
	if err := c.Update(code, name, countryID, countryName, active); err != nil {
		return nil, err
	}
	return c, nil
}

// Update validates and replaces the editable fields
func (c *City) Update(code, name string, countryID int64, countryName string, active bool) error {
	code = strings.ToUpper(strings.TrimSpace(code))
	name = strings.TrimSpace(name)
	if code == "" || len(code) > 10 {
		return shared.NewDomainError("INVALID_CODE", "City code must be 1-10 characters")
	}
	if len(name) < 2 {
		return shared.NewDomainError("INVALID_NAME", "City name must be at least 2 characters")
	}
	if countryID <= 0 {
		return shared.NewDomainError("INVALID_COUNTRY", "Country is required")
	}
	c.CityCode = code
	c.CityName = name
	c.CountryID = countryID
	c.CountryName = countryName
	c.IsActive = active
	return nil
}
