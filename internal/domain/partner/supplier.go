package partner

import (
	"strings"

	"github.com/erp/backoffice/internal/domain/shared"
)

// Supplier represents a supplier master record
type Supplier struct {
	SupplierID       int64     `json:"SupplierID" gorm:"primaryKey;autoIncrement"`
	SupplierCode     string    `json:"SupplierCode" gorm:"size:20;not null;uniqueIndex"`
	SupplierName     string    `json:"SupplierName" gorm:"size:150;not null;index"`
	AccountName      string    `json:"AccountName" gorm:"size:150;not null"`
	TaxRegNo         string    `json:"TaxRegNo" gorm:"size:30;not null"`
	VATRegNo         string    `json:"VATRegNo" gorm:"column:vat_reg_no;size:30"`
	ContactPerson    string    `json:"ContactPerson" gorm:"size:100"`
	Email            string    `json:"Email" gorm:"size:120"`
	Phone            string    `json:"Phone" gorm:"size:20"`
	Address          string    `json:"Address" gorm:"size:250"`
	CountryID        int64     `json:"CountryID" gorm:"not null;index"`
	CountryName      string    `json:"CountryName" gorm:"size:100"`
	CityID           int64     `json:"CityID" gorm:"index"`
	CityName         string    `json:"CityName" gorm:"size:100"`
	BankName         string    `json:"BankName" gorm:"size:100"`
	BankAccountNo    string    `json:"BankAccountNo" gorm:"size:50"`
	IBAN             string    `json:"IBAN" gorm:"column:iban;size:34"`
	PaymentTermsDays int       `json:"PaymentTermsDays" gorm:"not null;default:0"`
	IsActive         bool      `json:"IsActive" gorm:"not null"`
	Remarks          string    `json:"Remarks" gorm:"size:500"`
	Contacts         []Contact `json:"Contacts" gorm:"polymorphic:Owner;polymorphicValue:supplier"`
	shared.Audit     `gorm:"embedded"`
}

// TableName returns the table name for GORM
func (Supplier) TableName() string {
	return "suppliers"
}

// SupplierInput carries the editable fields of a supplier
type SupplierInput struct {
	SupplierCode     string
	SupplierName     string
	AccountName      string
	TaxRegNo         string
	VATRegNo         string
	ContactPerson    string
	Email            string
	Phone            string
	Address          string
	CountryID        int64
	CountryName      string
	CityID           int64
	CityName         string
	BankName         string
	BankAccountNo    string
	IBAN             string
	PaymentTermsDays int
	IsActive         bool
	Remarks          string
	Contacts         []Contact
}

// NewSupplier creates a supplier. AccountName is derived from SupplierName
// when left empty.
func NewSupplier(in SupplierInput) (*Supplier, error) {
	s := &Supplier{}
	if err := s.Apply(in); err != nil {
		return nil, err
	}
	return s, nil
}

// Apply validates the input and copies it onto the supplier
func (s *Supplier) Apply(in SupplierInput) error {
	code := strings.ToUpper(strings.TrimSpace(in.SupplierCode))
	if !codePattern.MatchString(code) {
		return shared.NewDomainError("INVALID_CODE", "Supplier code must be 1-20 letters, digits, '-' or '_'")
	}
	name := strings.TrimSpace(in.SupplierName)
	if name == "" {
		return shared.NewDomainError("INVALID_NAME", "Supplier name is required")
	}
	if strings.TrimSpace(in.TaxRegNo) == "" {
		return shared.NewDomainError("INVALID_TAX_REG_NO", "Tax registration number is required")
	}
	if in.CountryID <= 0 {
		return shared.NewDomainError("INVALID_COUNTRY", "Country is required")
	}
	if in.PaymentTermsDays < 0 {
		return shared.NewDomainError("INVALID_PAYMENT_TERMS", "Payment terms cannot be negative")
	}
	contacts, err := normalizeContacts(in.Contacts)
	if err != nil {
		return err
	}

	accountName := strings.TrimSpace(in.AccountName)
	if accountName == "" {
		accountName = DeriveAccountName(name)
	}

	s.SupplierCode = code
	s.SupplierName = name
	s.AccountName = accountName
	s.TaxRegNo = strings.TrimSpace(in.TaxRegNo)
	s.VATRegNo = strings.TrimSpace(in.VATRegNo)
	s.ContactPerson = strings.TrimSpace(in.ContactPerson)
	s.Email = strings.ToLower(strings.TrimSpace(in.Email))
	s.Phone = strings.TrimSpace(in.Phone)
	s.Address = strings.TrimSpace(in.Address)
	s.CountryID = in.CountryID
	s.CountryName = in.CountryName
	s.CityID = in.CityID
	s.CityName = in.CityName
	s.BankName = strings.TrimSpace(in.BankName)
	s.BankAccountNo = strings.TrimSpace(in.BankAccountNo)
	s.IBAN = strings.ToUpper(strings.ReplaceAll(in.IBAN, " ", ""))
	s.PaymentTermsDays = in.PaymentTermsDays
	s.IsActive = in.IsActive
	s.Remarks = strings.TrimSpace(in.Remarks)
	s.Contacts = contacts
	return nil
}
