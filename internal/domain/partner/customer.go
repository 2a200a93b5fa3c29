package partner

import (
	"regexp"
	"strings"

	"github.com/erp/backoffice/internal/domain/shared"
	"github.com/shopspring/decimal"
)

// CustomerType represents the type of customer
type CustomerType string

const (
	CustomerTypeIndividual CustomerType = "Individual"
	CustomerTypeCorporate  CustomerType = "Corporate"
)

// IsValid checks if the customer type is known
func (t CustomerType) IsValid() bool {
	return t == CustomerTypeIndividual || t == CustomerTypeCorporate
}

var codePattern = regexp.MustCompile(`^[A-Z0-9][A-Z0-9_-]{0,19}$`)

// Customer represents a customer master record
type Customer struct {
	CustomerID   int64           `json:"CustomerID" gorm:"primaryKey;autoIncrement"`
	CustomerCode string          `json:"CustomerCode" gorm:"size:20;not null;uniqueIndex"`
	CustomerType CustomerType    `json:"CustomerType" gorm:"size:20;not null"`
	FirstName    string          `json:"FirstName" gorm:"size:50;not null"`
	LastName     string          `json:"LastName" gorm:"size:50;not null"`
	FullName     string          `json:"FullName" gorm:"size:120;not null;index"`
	AccountName  string          `json:"AccountName" gorm:"size:120;not null"`
	TaxRegNo     string          `json:"TaxRegNo" gorm:"size:30;not null"`
	Email        string          `json:"Email" gorm:"size:120"`
	Phone        string          `json:"Phone" gorm:"size:20"`
	Mobile       string          `json:"Mobile" gorm:"size:20"`
	Address      string          `json:"Address" gorm:"size:250"`
	CountryID    int64           `json:"CountryID" gorm:"not null;index"`
	CountryName  string          `json:"CountryName" gorm:"size:100"`
	CityID       int64           `json:"CityID" gorm:"index"`
	CityName     string          `json:"CityName" gorm:"size:100"`
	CreditLimit  decimal.Decimal `json:"CreditLimit" gorm:"type:decimal(18,2);not null;default:0"`
	CreditDays   int             `json:"CreditDays" gorm:"not null;default:0"`
	IsActive     bool            `json:"IsActive" gorm:"not null"`
	Remarks      string          `json:"Remarks" gorm:"size:500"`
	Contacts     []Contact       `json:"Contacts" gorm:"polymorphic:Owner;polymorphicValue:customer"`
	shared.Audit `gorm:"embedded"`
}

// TableName returns the table name for GORM
func (Customer) TableName() string {
	return "customers"
}

// CustomerInput carries the editable fields of a customer
type CustomerInput struct {
	CustomerCode string
	CustomerType CustomerType
	FirstName    string
	LastName     string
	FullName     string
	AccountName  string
	TaxRegNo     string
	Email        string
	Phone        string
	Mobile       string
	Address      string
	CountryID    int64
	CountryName  string
	CityID       int64
	CityName     string
	CreditLimit  decimal.Decimal
	CreditDays   int
	IsActive     bool
	Remarks      string
	Contacts     []Contact
}

// NewCustomer creates a customer. FullName and AccountName are derived
// when left empty.
func NewCustomer(in CustomerInput) (*Customer, error) {
	c := &Customer{}
	if err := c.Apply(in); err != nil {
		return nil, err
	}
	return c, nil
}

// Apply validates the input and copies it onto the customer
func (c *Customer) Apply(in CustomerInput) error {
	code := strings.ToUpper(strings.TrimSpace(in.CustomerCode))
	if !codePattern.MatchString(code) {
		return shared.NewDomainError("INVALID_CODE", "Customer code must be 1-20 letters, digits, '-' or '_'")
	}
	if !in.CustomerType.IsValid() {
		return shared.NewDomainErrorf("INVALID_CUSTOMER_TYPE", "Customer type %q is not valid", in.CustomerType)
	}
	first, last := strings.TrimSpace(in.FirstName), strings.TrimSpace(in.LastName)
	if first == "" || last == "" {
		return shared.NewDomainError("INVALID_NAME", "First and last name are required")
	}
	if strings.TrimSpace(in.TaxRegNo) == "" {
		return shared.NewDomainError("INVALID_TAX_REG_NO", "Tax registration number is required")
	}
	if in.CountryID <= 0 {
		return shared.NewDomainError("INVALID_COUNTRY", "Country is required")
	}
	if in.CreditLimit.IsNegative() {
		return shared.NewDomainError("INVALID_CREDIT_LIMIT", "Credit limit cannot be negative")
	}
	if in.CreditDays < 0 {
		return shared.NewDomainError("INVALID_CREDIT_DAYS", "Credit days cannot be negative")
	}
	contacts, err := normalizeContacts(in.Contacts)
	if err != nil {
		return err
	}

	fullName := strings.TrimSpace(in.FullName)
	if fullName == "" {
		fullName = DeriveFullName(first, last)
	}
	accountName := strings.TrimSpace(in.AccountName)
	if accountName == "" {
		accountName = DeriveAccountName(fullName)
	}

	c.CustomerCode = code
	c.CustomerType = in.CustomerType
	c.FirstName = first
	c.LastName = last
	c.FullName = fullName
	c.AccountName = accountName
	c.TaxRegNo = strings.TrimSpace(in.TaxRegNo)
	c.Email = strings.ToLower(strings.TrimSpace(in.Email))
	c.Phone = strings.TrimSpace(in.Phone)
	c.Mobile = strings.TrimSpace(in.Mobile)
	c.Address = strings.TrimSpace(in.Address)
	c.CountryID = in.CountryID
	c.CountryName = in.CountryName
	c.CityID = in.CityID
	c.CityName = in.CityName
	c.CreditLimit = in.CreditLimit.Round(2)
	c.CreditDays = in.CreditDays
	c.IsActive = in.IsActive
	c.Remarks = strings.TrimSpace(in.Remarks)
	c.Contacts = contacts
	return nil
}
