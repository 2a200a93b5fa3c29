package persistence

import (
	"strings"
)

// ValidateSortOrder validates and normalizes the sort order to ASC or DESC.
// Returns "DESC" as the default if the input is invalid or empty.
func ValidateSortOrder(orderDir string) string {
	normalized := strings.ToUpper(strings.TrimSpace(orderDir))
	if normalized == "ASC" {
		return "ASC"
	}
	return "DESC"
}

// ValidateSortField maps a wire sort column (PascalCase) to a database
// column through a whitelist. Returns defaultColumn if the input is empty
// or not in the whitelist.
func ValidateSortField(sortField string, allowed map[string]string, defaultColumn string) string {
	trimmed := strings.TrimSpace(sortField)
	if trimmed == "" {
		return defaultColumn
	}
	if col, ok := allowed[trimmed]; ok {
		return col
	}
	return defaultColumn
}

var auditSortFields = map[string]string{
	"CreatedAt": "created_at",
	"UpdatedAt": "updated_at",
}

func withAudit(fields map[string]string) map[string]string {
	for k, v := range auditSortFields {
		fields[k] = v
	}
	return fields
}

// CustomerSortFields contains allowed sort fields for customers
var CustomerSortFields = withAudit(map[string]string{
	"CustomerID":   "customer_id",
	"CustomerCode": "customer_code",
	"FullName":     "full_name",
	"CustomerType": "customer_type",
	"CountryName":  "country_name",
	"CityName":     "city_name",
	"CreditLimit":  "credit_limit",
	"IsActive":     "is_active",
})

// SupplierSortFields contains allowed sort fields for suppliers
var SupplierSortFields = withAudit(map[string]string{
	"SupplierID":       "supplier_id",
	"SupplierCode":     "supplier_code",
	"SupplierName":     "supplier_name",
	"CountryName":      "country_name",
	"CityName":         "city_name",
	"PaymentTermsDays": "payment_terms_days",
	"IsActive":         "is_active",
})

// CitySortFields contains allowed sort fields for cities
var CitySortFields = withAudit(map[string]string{
	"CityID":      "city_id",
	"CityCode":    "city_code",
	"CityName":    "city_name",
	"CountryName": "country_name",
	"IsActive":    "is_active",
})

// PettyCashSortFields contains allowed sort fields for petty cash vouchers
var PettyCashSortFields = withAudit(map[string]string{
	"PettyCashID": "petty_cash_id",
	"VoucherNo":   "voucher_no",
	"VoucherDate": "voucher_date",
	"PaidTo":      "paid_to",
	"TotalAmount": "total_amount",
	"Status":      "status",
})

// PaymentVoucherSortFields contains allowed sort fields for payment vouchers
var PaymentVoucherSortFields = withAudit(map[string]string{
	"PaymentVoucherID": "payment_voucher_id",
	"VoucherNo":        "voucher_no",
	"VoucherDate":      "voucher_date",
	"SupplierName":     "supplier_name",
	"PaymentType":      "payment_type",
	"Amount":           "amount",
	"Status":           "status",
})

// LeaseInvoiceSortFields contains allowed sort fields for lease invoices
var LeaseInvoiceSortFields = withAudit(map[string]string{
	"LeaseInvoiceID": "lease_invoice_id",
	"InvoiceNo":      "invoice_no",
	"InvoiceDate":    "invoice_date",
	"DueDate":        "due_date",
	"CustomerName":   "customer_name",
	"Amount":         "amount",
	"Balance":        "balance",
	"Status":         "status",
})

// LeaseReceiptSortFields contains allowed sort fields for lease receipts
var LeaseReceiptSortFields = withAudit(map[string]string{
	"LeaseReceiptID": "lease_receipt_id",
	"ReceiptNo":      "receipt_no",
	"ReceiptDate":    "receipt_date",
	"CustomerName":   "customer_name",
	"Amount":         "amount",
	"Status":         "status",
})
