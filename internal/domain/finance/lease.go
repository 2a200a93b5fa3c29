package finance

import (
	"strings"
	"time"

	"github.com/erp/backoffice/internal/domain/shared"
	"github.com/shopspring/decimal"
)

// LeaseInvoiceStatus tracks how much of a lease invoice has been settled
type LeaseInvoiceStatus string

const (
	LeaseInvoiceOpen          LeaseInvoiceStatus = "Open"
	LeaseInvoicePartiallyPaid LeaseInvoiceStatus = "PartiallyPaid"
	LeaseInvoicePaid          LeaseInvoiceStatus = "Paid"
)

// LeaseInvoice is a rent invoice raised against a customer for a property
type LeaseInvoice struct {
	LeaseInvoiceID int64              `json:"LeaseInvoiceID" gorm:"primaryKey;autoIncrement"`
	InvoiceNo      string             `json:"InvoiceNo" gorm:"size:30;not null;uniqueIndex"`
	CustomerID     int64              `json:"CustomerID" gorm:"not null;index"`
	CustomerName   string             `json:"CustomerName" gorm:"size:150"`
	PropertyRef    string             `json:"PropertyRef" gorm:"size:50;not null"`
	InvoiceDate    shared.Date        `json:"InvoiceDate" gorm:"type:date;not null"`
	DueDate        shared.Date        `json:"DueDate" gorm:"type:date;not null"`
	Amount         decimal.Decimal    `json:"Amount" gorm:"type:decimal(18,2);not null"`
	PaidAmount     decimal.Decimal    `json:"PaidAmount" gorm:"type:decimal(18,2);not null"`
	Balance        decimal.Decimal    `json:"Balance" gorm:"type:decimal(18,2);not null"`
	Status         LeaseInvoiceStatus `json:"Status" gorm:"size:20;not null;index"`
	Remarks        string             `json:"Remarks" gorm:"size:500"`
	shared.Audit   `gorm:"embedded"`
}

// TableName returns the table name for GORM
func (LeaseInvoice) TableName() string {
	return "lease_invoices"
}

// NewLeaseInvoice creates an open lease invoice
func NewLeaseInvoice(invoiceNo string, customerID int64, customerName, propertyRef string, invoiceDate, dueDate shared.Date, amount decimal.Decimal) (*LeaseInvoice, error) {
	if strings.TrimSpace(invoiceNo) == "" {
		return nil, shared.NewDomainError("INVALID_INVOICE_NO", "Invoice number cannot be empty")
	}
	if customerID <= 0 {
		return nil, shared.NewDomainError("INVALID_CUSTOMER", "Customer is required")
	}
	if strings.TrimSpace(propertyRef) == "" {
		return nil, shared.NewDomainError("INVALID_PROPERTY", "Property reference is required")
	}
	if !invoiceDate.IsSet() || !dueDate.IsSet() {
		return nil, shared.NewDomainError("INVALID_DATE", "Invoice date and due date are required")
	}
	if dueDate.Before(invoiceDate.Time) {
		return nil, shared.NewDomainError("INVALID_DUE_DATE", "Due date cannot be before the invoice date")
	}
	amount = amount.Round(2)
	if !amount.IsPositive() {
		return nil, shared.NewDomainError("INVALID_AMOUNT", "Amount must be positive")
	}
	return &LeaseInvoice{
		InvoiceNo:    strings.TrimSpace(invoiceNo),
		CustomerID:   customerID,
		CustomerName: customerName,
		PropertyRef:  strings.TrimSpace(propertyRef),
		InvoiceDate:  invoiceDate,
		DueDate:      dueDate,
		Amount:       amount,
		PaidAmount:   decimal.Zero,
		Balance:      amount,
		Status:       LeaseInvoiceOpen,
	}, nil
}

// ApplyPayment reduces the balance by amount
func (i *LeaseInvoice) ApplyPayment(amount decimal.Decimal) error {
	if !amount.IsPositive() {
		return shared.NewDomainError("INVALID_AMOUNT", "Allocated amount must be positive")
	}
	if amount.GreaterThan(i.Balance) {
		return shared.NewDomainErrorf("ALLOCATION_EXCEEDS_BALANCE",
			"Allocation %s exceeds the balance %s of invoice %s",
			amount.StringFixed(2), i.Balance.StringFixed(2), i.InvoiceNo)
	}
	i.PaidAmount = i.PaidAmount.Add(amount)
	i.Balance = i.Amount.Sub(i.PaidAmount)
	i.refreshStatus()
	return nil
}

// RevertPayment restores amount to the balance, undoing ApplyPayment
func (i *LeaseInvoice) RevertPayment(amount decimal.Decimal) error {
	if amount.GreaterThan(i.PaidAmount) {
		return shared.NewDomainErrorf("INVALID_STATE",
			"Cannot revert %s from invoice %s paid %s",
			amount.StringFixed(2), i.InvoiceNo, i.PaidAmount.StringFixed(2))
	}
	i.PaidAmount = i.PaidAmount.Sub(amount)
	i.Balance = i.Amount.Sub(i.PaidAmount)
	i.refreshStatus()
	return nil
}

// IsOutstanding reports whether the invoice still has a balance
func (i *LeaseInvoice) IsOutstanding() bool {
	return i.Balance.IsPositive()
}

func (i *LeaseInvoice) refreshStatus() {
	switch {
	case i.Balance.IsZero():
		i.Status = LeaseInvoicePaid
	case i.PaidAmount.IsPositive():
		i.Status = LeaseInvoicePartiallyPaid
	default:
		i.Status = LeaseInvoiceOpen
	}
}

// LeaseReceiptStatus is the posting state of a lease receipt
type LeaseReceiptStatus string

const (
	LeaseReceiptPosted   LeaseReceiptStatus = "Posted"
	LeaseReceiptReversed LeaseReceiptStatus = "Reversed"
)

// ReceiptAllocation applies part of a receipt to one lease invoice
type ReceiptAllocation struct {
	ReceiptAllocationID int64           `json:"ReceiptAllocationID" gorm:"primaryKey;autoIncrement"`
	LeaseReceiptID      int64           `json:"LeaseReceiptID" gorm:"not null;index"`
	LeaseInvoiceID      int64           `json:"LeaseInvoiceID" gorm:"not null;index"`
	InvoiceNo           string          `json:"InvoiceNo" gorm:"size:30"`
	AllocatedAmount     decimal.Decimal `json:"AllocatedAmount" gorm:"type:decimal(18,2);not null"`
}

// TableName returns the table name for GORM
func (ReceiptAllocation) TableName() string {
	return "lease_receipt_allocations"
}

// LeaseReceipt records money received from a customer against lease invoices
type LeaseReceipt struct {
	LeaseReceiptID    int64               `json:"LeaseReceiptID" gorm:"primaryKey;autoIncrement"`
	ReceiptNo         string              `json:"ReceiptNo" gorm:"size:30;not null;uniqueIndex"`
	ReceiptDate       shared.Date         `json:"ReceiptDate" gorm:"type:date;not null"`
	CustomerID        int64               `json:"CustomerID" gorm:"not null;index"`
	CustomerName      string              `json:"CustomerName" gorm:"size:150"`
	PaymentDetails    `gorm:"embedded"`
	Amount            decimal.Decimal     `json:"Amount" gorm:"type:decimal(18,2);not null"`
	UnallocatedAmount decimal.Decimal     `json:"UnallocatedAmount" gorm:"type:decimal(18,2);not null"`
	Narration         string              `json:"Narration" gorm:"size:500"`
	Status            LeaseReceiptStatus  `json:"Status" gorm:"size:20;not null;index"`
	Allocations       []ReceiptAllocation `json:"Allocations" gorm:"foreignKey:LeaseReceiptID;references:LeaseReceiptID;constraint:OnDelete:CASCADE"`
	ReversedBy        string              `json:"ReversedBy,omitempty" gorm:"size:50"`
	ReversedAt        *time.Time          `json:"ReversedAt,omitempty"`
	ReversalReason    string              `json:"ReversalReason,omitempty" gorm:"size:500"`
	shared.Audit      `gorm:"embedded"`
}

// TableName returns the table name for GORM
func (LeaseReceipt) TableName() string {
	return "lease_receipts"
}

// LeaseReceiptInput carries the fields of a new lease receipt
type LeaseReceiptInput struct {
	ReceiptDate  shared.Date
	CustomerID   int64
	CustomerName string
	Payment      PaymentDetails
	Amount       decimal.Decimal
	Narration    string
	Allocations  []ReceiptAllocation
}

// NewLeaseReceipt creates a posted receipt. The allocations must target
// distinct invoices and sum to no more than the receipt amount; invoice
// balances are checked when the allocations are applied.
func NewLeaseReceipt(receiptNo string, in LeaseReceiptInput) (*LeaseReceipt, error) {
	if strings.TrimSpace(receiptNo) == "" {
		return nil, shared.NewDomainError("INVALID_RECEIPT_NO", "Receipt number cannot be empty")
	}
	if !in.ReceiptDate.IsSet() {
		return nil, shared.NewDomainError("INVALID_RECEIPT_DATE", "Receipt date is required")
	}
	if in.CustomerID <= 0 {
		return nil, shared.NewDomainError("INVALID_CUSTOMER", "Customer is required")
	}
	amount := in.Amount.Round(2)
	if !amount.IsPositive() {
		return nil, shared.NewDomainError("INVALID_AMOUNT", "Amount must be positive")
	}
	payment := in.Payment
	payment.Normalize()
	if err := payment.Validate(); err != nil {
		return nil, err
	}

	allocated := decimal.Zero
	seen := make(map[int64]bool, len(in.Allocations))
	for _, a := range in.Allocations {
		if a.LeaseInvoiceID <= 0 {
			return nil, shared.NewDomainError("INVALID_ALLOCATION", "Allocation must reference an invoice")
		}
		if seen[a.LeaseInvoiceID] {
			return nil, shared.NewDomainErrorf("DUPLICATE_ALLOCATION", "Invoice %d is allocated more than once", a.LeaseInvoiceID)
		}
		seen[a.LeaseInvoiceID] = true
		if !a.AllocatedAmount.Round(2).IsPositive() {
			return nil, shared.NewDomainError("INVALID_ALLOCATION", "Allocated amount must be positive")
		}
		allocated = allocated.Add(a.AllocatedAmount)
	}
	if allocated.GreaterThan(amount) {
		return nil, shared.NewDomainErrorf("ALLOCATION_EXCEEDS_RECEIPT",
			"Allocated total %s exceeds the receipt amount %s", allocated.StringFixed(2), amount.StringFixed(2))
	}

	return &LeaseReceipt{
		ReceiptNo:         strings.TrimSpace(receiptNo),
		ReceiptDate:       in.ReceiptDate,
		CustomerID:        in.CustomerID,
		CustomerName:      in.CustomerName,
		PaymentDetails:    payment,
		Amount:            amount,
		UnallocatedAmount: amount.Sub(allocated),
		Narration:         strings.TrimSpace(in.Narration),
		Status:            LeaseReceiptPosted,
		Allocations:       in.Allocations,
	}, nil
}

// Reverse marks a posted receipt as reversed. The caller restores the
// invoice balances in the same transaction.
func (r *LeaseReceipt) Reverse(user, reason string, now time.Time) error {
	if r.Status != LeaseReceiptPosted {
		return shared.NewDomainErrorf("INVALID_STATE", "Cannot reverse receipt in %s status", r.Status)
	}
	if reason == "" {
		return shared.NewDomainError("REVERSAL_REASON_REQUIRED", "A reversal reason is required")
	}
	r.Status = LeaseReceiptReversed
	r.ReversedBy = user
	r.ReversedAt = &now
	r.ReversalReason = reason
	return nil
}
