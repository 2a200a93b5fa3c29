package forms

import "github.com/erp/backoffice/internal/domain/partner"

// Field names shared by the form rules
const (
	FieldFirstName    = "FirstName"
	FieldLastName     = "LastName"
	FieldFullName     = "FullName"
	FieldAccountName  = "AccountName"
	FieldSupplierName = "SupplierName"
	FieldDocTypeID    = "DocTypeID"
	FieldDocumentName = "DocumentName"
)

// CustomerRules derives FullName from the first and last name and
// AccountName from FullName.
func CustomerRules() []DerivationRule {
	return []DerivationRule{
		{
			Target:  FieldFullName,
			Sources: []string{FieldFirstName, FieldLastName},
			Derive: func(get func(string) string) string {
				return partner.DeriveFullName(get(FieldFirstName), get(FieldLastName))
			},
		},
		{
			Target:  FieldAccountName,
			Sources: []string{FieldFullName},
			Derive: func(get func(string) string) string {
				return partner.DeriveAccountName(get(FieldFullName))
			},
		},
	}
}

// SupplierRules derives AccountName from SupplierName
func SupplierRules() []DerivationRule {
	return []DerivationRule{
		{
			Target:  FieldAccountName,
			Sources: []string{FieldSupplierName},
			Derive: func(get func(string) string) string {
				return partner.DeriveAccountName(get(FieldSupplierName))
			},
		},
	}
}

// AttachmentRules derives DocumentName from the selected document type.
// docTypeName resolves a DocTypeID field value to its display name.
func AttachmentRules(docTypeName func(id string) string) []DerivationRule {
	return []DerivationRule{
		{
			Target:  FieldDocumentName,
			Sources: []string{FieldDocTypeID},
			Derive: func(get func(string) string) string {
				return docTypeName(get(FieldDocTypeID))
			},
		},
	}
}

// NewCustomerSession returns a session with the customer rules
func NewCustomerSession() *Session { return NewSession(CustomerRules()...) }

// NewSupplierSession returns a session with the supplier rules
func NewSupplierSession() *Session { return NewSession(SupplierRules()...) }
