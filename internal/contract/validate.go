package contract

import (
	"encoding/base64"
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/erp/backoffice/internal/domain/finance"
	"github.com/erp/backoffice/internal/domain/shared"
	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"
)

// ruleTag marks struct-level failures; the message travels as the param
const ruleTag = "rule"

// FieldError is one failed rule of a parameter bag
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// ValidationErrors lists every failed rule of a parameter bag
type ValidationErrors struct {
	Errors []FieldError
}

func (e *ValidationErrors) Error() string {
	parts := make([]string, 0, len(e.Errors))
	for _, fe := range e.Errors {
		parts = append(parts, fe.Field+": "+fe.Message)
	}
	return "validation failed: " + strings.Join(parts, "; ")
}

// Message returns the first message reported for a field, or ""
func (e *ValidationErrors) Message(field string) string {
	for _, fe := range e.Errors {
		if fe.Field == field {
			return fe.Message
		}
	}
	return ""
}

// Has reports whether the field failed a rule
func (e *ValidationErrors) Has(field string) bool {
	return e.Message(field) != ""
}

// Validator evaluates the parameter bag schemas
type Validator struct {
	v *validator.Validate
}

// NewValidator builds a validator with the parameter bag rules registered
func NewValidator() *Validator {
	v := validator.New(validator.WithRequiredStructEnabled())

	// Use JSON tag names for field names in errors
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	v.RegisterCustomTypeFunc(func(field reflect.Value) any {
		if d, ok := field.Interface().(decimal.Decimal); ok {
			f, _ := d.Float64()
			return f
		}
		return nil
	}, decimal.Decimal{})
	v.RegisterCustomTypeFunc(func(field reflect.Value) any {
		if d, ok := field.Interface().(shared.Date); ok {
			return d.String()
		}
		return nil
	}, shared.Date{})

	v.RegisterStructValidation(paymentRules, PaymentParams{})
	v.RegisterStructValidation(pettyCashRules, PettyCashParams{})
	v.RegisterStructValidation(leaseReceiptRules, LeaseReceiptParams{})
	v.RegisterStructValidation(leaseInvoiceRules, LeaseInvoiceParams{})
	v.RegisterStructValidation(attachmentRules, UploadAttachmentParams{})

	return &Validator{v: v}
}

var defaultValidator = NewValidator()

// Validate checks params against its schema with the shared validator
func Validate(params any) error {
	return defaultValidator.Validate(params)
}

// Validate checks params against its schema. Failures are returned as
// *ValidationErrors.
func (val *Validator) Validate(params any) error {
	err := val.v.Struct(params)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return err
	}
	out := &ValidationErrors{Errors: make([]FieldError, 0, len(verrs))}
	for _, fe := range verrs {
		out.Errors = append(out.Errors, FieldError{
			Field:   fieldPath(fe.Namespace()),
			Message: message(fe),
		})
	}
	return out
}

// fieldPath drops the root struct and embedded *Params segments
func fieldPath(namespace string) string {
	segs := strings.Split(namespace, ".")
	kept := segs[:0]
	for i, s := range segs {
		if i == 0 || strings.HasSuffix(s, "Params") {
			continue
		}
		kept = append(kept, s)
	}
	return strings.Join(kept, ".")
}

func message(e validator.FieldError) string {
	switch e.Tag() {
	case ruleTag:
		return e.Param()
	case "required", "required_with":
		return "This field is required"
	case "email":
		return "Invalid email format"
	case "min":
		if e.Kind() == reflect.String {
			return "Must be at least " + e.Param() + " characters"
		}
		if e.Kind() == reflect.Slice {
			return "Must have at least " + e.Param() + " items"
		}
		return "Must be at least " + e.Param()
	case "max":
		if e.Kind() == reflect.String {
			return "Must be at most " + e.Param() + " characters"
		}
		if e.Kind() == reflect.Slice {
			return "Must have at most " + e.Param() + " items"
		}
		return "Must be at most " + e.Param()
	case "oneof":
		return "Must be one of: " + e.Param()
	case "gte":
		return "Must be greater than or equal to " + e.Param()
	case "lte":
		return "Must be less than or equal to " + e.Param()
	case "gt":
		return "Must be greater than " + e.Param()
	case "lt":
		return "Must be less than " + e.Param()
	case "base64":
		return "Must be base64 encoded"
	default:
		return "Invalid value"
	}
}

func paymentRules(sl validator.StructLevel) {
	p := sl.Current().Interface().(PaymentParams)
	pt := finance.PaymentType(p.PaymentType)
	if !pt.IsValid() {
		return
	}
	raw := finance.PaymentDetails{
		PaymentType:    pt,
		ChequeNo:       p.ChequeNo,
		ChequeDate:     p.ChequeDate,
		BankName:       p.BankName,
		BankAccountNo:  p.BankAccountNo,
		TransactionRef: p.TransactionRef,
	}
	for _, f := range raw.MissingFields() {
		sl.ReportError(f, f, f, ruleTag, fmt.Sprintf("Required for %s payments", pt))
	}

	req := pt.Requirements()
	tooLong := func(value, name string, limit int) {
		if len([]rune(strings.TrimSpace(value))) > limit {
			sl.ReportError(value, name, name, ruleTag, fmt.Sprintf("Must be at most %d characters", limit))
		}
	}
	if req.Cheque {
		tooLong(p.ChequeNo, "ChequeNo", maxChequeNo)
	}
	if req.Bank {
		tooLong(p.BankName, "BankName", maxBankName)
		tooLong(p.BankAccountNo, "BankAccountNo", maxBankAccountNo)
	}
	if req.TransactionRef {
		tooLong(p.TransactionRef, "TransactionRef", maxTransactionRef)
	}
}

// Length limits of the payment-type dependent fields
const (
	maxChequeNo       = 30
	maxBankName       = 100
	maxBankAccountNo  = 50
	maxTransactionRef = 100
)

func pettyCashRules(sl validator.StructLevel) {
	p := sl.Current().Interface().(PettyCashParams)
	if len(p.Lines) < 2 {
		return
	}
	if _, err := finance.CheckBalance(p.Lines); err != nil {
		var be *finance.BalanceError
		if errors.As(err, &be) && be.LineNo > 0 {
			name := fmt.Sprintf("Lines[%d]", be.LineNo-1)
			sl.ReportError(p.Lines[be.LineNo-1], name, name, ruleTag, be.Message)
			return
		}
		sl.ReportError(p.Lines, "Lines", "Lines", ruleTag, err.Error())
	}
}

func leaseReceiptRules(sl validator.StructLevel) {
	p := sl.Current().Interface().(LeaseReceiptParams)
	total := decimal.Zero
	seen := make(map[int64]bool, len(p.Allocations))
	for _, a := range p.Allocations {
		if seen[a.LeaseInvoiceID] {
			sl.ReportError(p.Allocations, "Allocations", "Allocations", ruleTag,
				fmt.Sprintf("Invoice %d is allocated more than once", a.LeaseInvoiceID))
			return
		}
		seen[a.LeaseInvoiceID] = true
		total = total.Add(a.AllocatedAmount)
	}
	if total.GreaterThan(p.Amount) {
		sl.ReportError(p.Allocations, "Allocations", "Allocations", ruleTag,
			fmt.Sprintf("Allocated total %s exceeds the receipt amount %s", total.StringFixed(2), p.Amount.StringFixed(2)))
	}
}

func leaseInvoiceRules(sl validator.StructLevel) {
	p := sl.Current().Interface().(LeaseInvoiceParams)
	if p.InvoiceDate.IsSet() && p.DueDate.IsSet() && p.DueDate.Before(p.InvoiceDate.Time) {
		sl.ReportError(p.DueDate, "DueDate", "DueDate", ruleTag, "Due date cannot be before the invoice date")
	}
}

func attachmentRules(sl validator.StructLevel) {
	p := sl.Current().Interface().(UploadAttachmentParams)
	if p.FileContent == "" || p.FileSize <= 0 {
		return
	}
	n, err := DecodedLen(p.FileContent)
	if err != nil {
		return
	}
	if int64(n) != p.FileSize {
		sl.ReportError(p.FileSize, "FileSize", "FileSize", ruleTag,
			fmt.Sprintf("Does not match the decoded content length %d", n))
	}
}

// DecodedLen returns the byte length of standard base64 content
func DecodedLen(content string) (int, error) {
	b, err := base64.StdEncoding.DecodeString(content)
	if err != nil {
		return 0, err
	}
	return len(b), nil
}
