package main

import (
	"fmt"
	"io"
	"strconv"
	"strings"
	"unicode"

	"github.com/erp/backoffice/internal/client"
	"github.com/erp/backoffice/internal/contract"
	"github.com/erp/backoffice/internal/domain/finance"
	"github.com/erp/backoffice/internal/domain/forms"
	"github.com/spf13/cobra"
)

// nameFields are the form fields exposed as flags, sources before targets
var nameFields = map[contract.Family][]string{
	contract.FamilyCustomers: {forms.FieldFirstName, forms.FieldLastName, forms.FieldFullName, forms.FieldAccountName},
	contract.FamilySuppliers: {forms.FieldSupplierName, forms.FieldAccountName},
}

// flagName turns a field name into a flag name, FirstName -> first-name
func flagName(field string) string {
	var b strings.Builder
	for i, r := range field {
		if unicode.IsUpper(r) && i > 0 {
			b.WriteByte('-')
		}
		b.WriteRune(unicode.ToLower(r))
	}
	return b.String()
}

// formFlags registers the edit flags of create and update modes
func (in *paramsInput) formFlags(cmd *cobra.Command, f contract.Family, m contract.Mode) {
	if m != contract.ModeCreate && m != contract.ModeUpdate {
		return
	}
	if fields, ok := nameFields[f]; ok {
		in.names = make(map[string]*string, len(fields))
		for _, field := range fields {
			in.names[field] = cmd.Flags().String(flagName(field), "", "set "+field)
		}
	}
	if bag, _ := contract.NewParams(f, m); paymentOf(bag) != nil {
		cmd.Flags().StringVar(&in.paymentType, "payment-type", "",
			"switch the payment type (1-5 or a name such as credit-card); fields the new type does not use are cleared")
	}
}

// applyForm runs the flag edits through the form rules of the bag
func (in *paramsInput) applyForm(cmd *cobra.Command, f contract.Family, params any) error {
	if bound := nameBindings(params); bound != nil {
		in.applyNames(cmd, f, bound)
	}
	if p := paymentOf(params); p != nil && in.paymentType != "" {
		pt, err := parsePaymentType(in.paymentType)
		if err != nil {
			return err
		}
		switchPaymentType(cmd.ErrOrStderr(), p, pt)
	}
	return nil
}

func (in *paramsInput) applyNames(cmd *cobra.Command, f contract.Family, bound map[string]*string) {
	session := forms.NewSession(rulesOf(f)...)
	loaded := make(map[string]string, len(bound))
	for field, v := range bound {
		loaded[field] = *v
	}
	session.Load(loaded)

	edited := make(map[string]bool)
	for _, field := range nameFields[f] {
		if v := in.names[field]; v != nil && cmd.Flags().Changed(flagName(field)) {
			session.Set(field, *v)
			edited[field] = true
		}
	}
	for _, field := range nameFields[f] {
		next := session.Get(field)
		if next == *bound[field] {
			continue
		}
		*bound[field] = next
		if !edited[field] {
			fmt.Fprintf(cmd.ErrOrStderr(), "%s %s: %s (derived)\n", client.Icon("info"), field, next)
		}
	}
}

func rulesOf(f contract.Family) []forms.DerivationRule {
	if f == contract.FamilySuppliers {
		return forms.SupplierRules()
	}
	return forms.CustomerRules()
}

// nameBindings points the form fields at the bag, or nil for other bags
func nameBindings(params any) map[string]*string {
	switch p := params.(type) {
	case *contract.CustomerParams:
		return customerNames(p)
	case *contract.UpdateCustomerParams:
		return customerNames(&p.CustomerParams)
	case *contract.SupplierParams:
		return supplierNames(p)
	case *contract.UpdateSupplierParams:
		return supplierNames(&p.SupplierParams)
	}
	return nil
}

func customerNames(p *contract.CustomerParams) map[string]*string {
	return map[string]*string{
		forms.FieldFirstName:   &p.FirstName,
		forms.FieldLastName:    &p.LastName,
		forms.FieldFullName:    &p.FullName,
		forms.FieldAccountName: &p.AccountName,
	}
}

func supplierNames(p *contract.SupplierParams) map[string]*string {
	return map[string]*string{
		forms.FieldSupplierName: &p.SupplierName,
		forms.FieldAccountName:  &p.AccountName,
	}
}

// paymentOf returns the payment fields of a voucher or receipt bag
func paymentOf(params any) *contract.PaymentParams {
	switch p := params.(type) {
	case *contract.PaymentVoucherParams:
		return &p.PaymentParams
	case *contract.UpdatePaymentVoucherParams:
		return &p.PaymentParams
	case *contract.LeaseReceiptParams:
		return &p.PaymentParams
	}
	return nil
}

// parsePaymentType accepts a payment type ID or its name in any case
func parsePaymentType(s string) (finance.PaymentType, error) {
	if n, err := strconv.Atoi(s); err == nil {
		if pt := finance.PaymentType(n); pt.IsValid() {
			return pt, nil
		}
		return 0, fmt.Errorf("unknown payment type %d", n)
	}
	for _, info := range finance.PaymentTypes() {
		if strings.EqualFold(modeSlug(info.PaymentTypeName), s) || strings.EqualFold(info.PaymentTypeName, s) {
			return info.PaymentTypeID, nil
		}
	}
	return 0, fmt.Errorf("unknown payment type %q", s)
}

func switchPaymentType(w io.Writer, p *contract.PaymentParams, pt finance.PaymentType) {
	form := forms.NewPaymentForm(finance.PaymentDetails{
		PaymentType:    finance.PaymentType(p.PaymentType),
		ChequeNo:       p.ChequeNo,
		ChequeDate:     p.ChequeDate,
		BankName:       p.BankName,
		BankAccountNo:  p.BankAccountNo,
		TransactionRef: p.TransactionRef,
	})
	cleared := form.SetPaymentType(pt)
	d := form.Details()
	p.PaymentType = int(d.PaymentType)
	p.ChequeNo, p.ChequeDate = d.ChequeNo, d.ChequeDate
	p.BankName, p.BankAccountNo = d.BankName, d.BankAccountNo
	p.TransactionRef = d.TransactionRef

	if len(cleared) > 0 {
		fmt.Fprintf(w, "%s Cleared %s, not used by %s payments\n", client.Icon("info"), strings.Join(cleared, ", "), pt)
	}
	if missing := form.Missing(); len(missing) > 0 {
		fmt.Fprintf(w, "%s %s payments also need %s\n", client.Icon("warning"), pt, strings.Join(missing, ", "))
	}
}
