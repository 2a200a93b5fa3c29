// Package contract is the wire protocol shared by the server and the
// client SDK: entity families, mode numbers and the parameter bag schema
// of every (family, mode) pair.
package contract

import (
	"encoding/json"
	"fmt"
	"sort"
)

// Family names one POST /api/<family> endpoint
type Family string

const (
	FamilyCustomers       Family = "customers"
	FamilySuppliers       Family = "suppliers"
	FamilyCities          Family = "cities"
	FamilyPettyCash       Family = "petty-cash"
	FamilyPaymentVouchers Family = "payment-vouchers"
	FamilyLeaseReceipts   Family = "lease-receipts"
	FamilyLeaseInvoices   Family = "lease-invoices"
	FamilyLookups         Family = "lookups"
)

// Mode selects the operation executed for a family
type Mode int

// Entity family modes
const (
	ModeCreate           Mode = 1
	ModeUpdate           Mode = 2
	ModeList             Mode = 3
	ModeGet              Mode = 4
	ModeDelete           Mode = 5
	ModeSearch           Mode = 6
	ModeApprove          Mode = 7
	ModeReverse          Mode = 8
	ModePending          Mode = 9
	ModeUploadAttachment Mode = 10
	ModeGetAttachment    Mode = 11
	ModeDeleteAttachment Mode = 12
	ModeListAttachments  Mode = 13
)

// Lookup family modes
const (
	LookupCountries       Mode = 1
	LookupContactTypes    Mode = 2
	LookupDocTypes        Mode = 3
	LookupCitiesByCountry Mode = 4
	LookupPaymentTypes    Mode = 5
)

// Envelope is the request body of every family endpoint
type Envelope struct {
	Mode       Mode            `json:"mode"`
	Parameters json.RawMessage `json:"parameters,omitempty" swaggertype:"object"`
}

// NewEnvelope marshals params into an envelope
func NewEnvelope(mode Mode, params any) (Envelope, error) {
	raw, err := json.Marshal(params)
	if err != nil {
		return Envelope{}, fmt.Errorf("marshal parameters: %w", err)
	}
	return Envelope{Mode: mode, Parameters: raw}, nil
}

// ModeError reports a mode that the family does not implement
type ModeError struct {
	Family Family
	Mode   Mode
}

func (e *ModeError) Error() string {
	if _, ok := registry[e.Family]; !ok {
		return fmt.Sprintf("unknown family %q", e.Family)
	}
	return fmt.Sprintf("mode %d is not supported by %s", e.Mode, e.Family)
}

type spec struct {
	name   string
	params func() any
}

func p[T any]() func() any { return func() any { return new(T) } }

var attachmentModes = map[Mode]spec{
	ModeUploadAttachment: {"Upload attachment", p[UploadAttachmentParams]()},
	ModeGetAttachment:    {"Get attachment", p[AttachmentIDParams]()},
	ModeDeleteAttachment: {"Delete attachment", p[AttachmentIDParams]()},
	ModeListAttachments:  {"List attachments", p[OwnerParams]()},
}

var registry = map[Family]map[Mode]spec{
	FamilyCustomers: withAttachments(map[Mode]spec{
		ModeCreate: {"Create", p[CustomerParams]()},
		ModeUpdate: {"Update", p[UpdateCustomerParams]()},
		ModeList:   {"List", p[ListParams]()},
		ModeGet:    {"Get", p[CustomerIDParams]()},
		ModeDelete: {"Delete", p[CustomerIDParams]()},
		ModeSearch: {"Search", p[SearchParams]()},
	}),
	FamilySuppliers: withAttachments(map[Mode]spec{
		ModeCreate: {"Create", p[SupplierParams]()},
		ModeUpdate: {"Update", p[UpdateSupplierParams]()},
		ModeList:   {"List", p[ListParams]()},
		ModeGet:    {"Get", p[SupplierIDParams]()},
		ModeDelete: {"Delete", p[SupplierIDParams]()},
		ModeSearch: {"Search", p[SearchParams]()},
	}),
	FamilyCities: {
		ModeCreate: {"Create", p[CityParams]()},
		ModeUpdate: {"Update", p[UpdateCityParams]()},
		ModeList:   {"List", p[ListParams]()},
		ModeGet:    {"Get", p[CityIDParams]()},
		ModeDelete: {"Delete", p[CityIDParams]()},
		ModeSearch: {"Search", p[SearchParams]()},
	},
	FamilyPettyCash: {
		ModeCreate:  {"Create", p[PettyCashParams]()},
		ModeUpdate:  {"Update", p[UpdatePettyCashParams]()},
		ModeList:    {"List", p[ListParams]()},
		ModeGet:     {"Get", p[PettyCashIDParams]()},
		ModeDelete:  {"Delete", p[PettyCashIDParams]()},
		ModeApprove: {"Approve", p[ApprovePettyCashParams]()},
		ModeReverse: {"Reverse", p[ReversePettyCashParams]()},
	},
	FamilyPaymentVouchers: withAttachments(map[Mode]spec{
		ModeCreate:  {"Create", p[PaymentVoucherParams]()},
		ModeUpdate:  {"Update", p[UpdatePaymentVoucherParams]()},
		ModeList:    {"List", p[ListParams]()},
		ModeGet:     {"Get", p[PaymentVoucherIDParams]()},
		ModeDelete:  {"Delete", p[PaymentVoucherIDParams]()},
		ModeApprove: {"Approve", p[ApprovePaymentVoucherParams]()},
		ModeReverse: {"Reverse", p[ReversePaymentVoucherParams]()},
		ModePending: {"Pending approval", p[ListParams]()},
	}),
	FamilyLeaseReceipts: {
		ModeCreate:  {"Create", p[LeaseReceiptParams]()},
		ModeList:    {"List", p[ListParams]()},
		ModeGet:     {"Get", p[LeaseReceiptIDParams]()},
		ModeReverse: {"Reverse", p[ReverseLeaseReceiptParams]()},
		ModePending: {"Outstanding invoices", p[OutstandingParams]()},
	},
	FamilyLeaseInvoices: {
		ModeCreate: {"Create", p[LeaseInvoiceParams]()},
		ModeList:   {"List", p[ListParams]()},
		ModeGet:    {"Get", p[LeaseInvoiceIDParams]()},
	},
	FamilyLookups: {
		LookupCountries:       {"Countries", p[EmptyParams]()},
		LookupContactTypes:    {"Contact types", p[EmptyParams]()},
		LookupDocTypes:        {"Document types", p[EmptyParams]()},
		LookupCitiesByCountry: {"Cities by country", p[CitiesByCountryParams]()},
		LookupPaymentTypes:    {"Payment types", p[EmptyParams]()},
	},
}

func withAttachments(modes map[Mode]spec) map[Mode]spec {
	for m, s := range attachmentModes {
		modes[m] = s
	}
	return modes
}

// NewParams returns a pointer to a zero parameter bag for the mode
func NewParams(f Family, m Mode) (any, error) {
	s, ok := registry[f][m]
	if !ok {
		return nil, &ModeError{Family: f, Mode: m}
	}
	return s.params(), nil
}

// Supports reports whether the family implements the mode
func Supports(f Family, m Mode) bool {
	_, ok := registry[f][m]
	return ok
}

// ModeName returns the display name of a mode, or "" when unsupported
func ModeName(f Family, m Mode) string {
	return registry[f][m].name
}

// Modes returns the modes of a family in ascending order
func Modes(f Family) []Mode {
	modes := make([]Mode, 0, len(registry[f]))
	for m := range registry[f] {
		modes = append(modes, m)
	}
	sort.Slice(modes, func(i, j int) bool { return modes[i] < modes[j] })
	return modes
}

// Families returns every family name, sorted
func Families() []Family {
	out := make([]Family, 0, len(registry))
	for f := range registry {
		out = append(out, f)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

// HasAttachments reports whether the family stores file attachments
func HasAttachments(f Family) bool {
	return Supports(f, ModeUploadAttachment)
}
