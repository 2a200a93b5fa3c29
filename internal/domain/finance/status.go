package finance

import (
	"time"

	"github.com/erp/backoffice/internal/domain/shared"
)

// VoucherStatus represents the approval state of a petty cash or payment voucher
type VoucherStatus string

const (
	VoucherStatusDraft    VoucherStatus = "Draft"
	VoucherStatusPending  VoucherStatus = "Pending"
	VoucherStatusApproved VoucherStatus = "Approved"
	VoucherStatusReversed VoucherStatus = "Reversed"
)

// IsValid checks if the status is a valid VoucherStatus
func (s VoucherStatus) IsValid() bool {
	switch s {
	case VoucherStatusDraft, VoucherStatusPending, VoucherStatusApproved, VoucherStatusReversed:
		return true
	}
	return false
}

// CanEdit reports whether a voucher in this status may be updated or deleted
func (s VoucherStatus) CanEdit() bool {
	return s == VoucherStatusDraft || s == VoucherStatusPending
}

// CanApprove reports whether a voucher in this status may be approved
func (s VoucherStatus) CanApprove() bool {
	return s == VoucherStatusDraft || s == VoucherStatusPending
}

// CanReverse reports whether a voucher in this status may be reversed
func (s VoucherStatus) CanReverse() bool {
	return s == VoucherStatusApproved
}

// ApprovalTrail records who approved or reversed a voucher
type ApprovalTrail struct {
	ApprovedBy      string     `json:"ApprovedBy,omitempty" gorm:"size:50"`
	ApprovedAt      *time.Time `json:"ApprovedAt,omitempty"`
	ApprovalRemarks string     `json:"ApprovalRemarks,omitempty" gorm:"size:500"`
	ReversedBy      string     `json:"ReversedBy,omitempty" gorm:"size:50"`
	ReversedAt      *time.Time `json:"ReversedAt,omitempty"`
	ReversalReason  string     `json:"ReversalReason,omitempty" gorm:"size:500"`
}

func approve(status *VoucherStatus, trail *ApprovalTrail, user, remarks string, now time.Time) error {
	if !status.CanApprove() {
		return shared.NewDomainErrorf("INVALID_STATE", "Cannot approve voucher in %s status", *status)
	}
	if user == "" {
		return shared.NewDomainError("INVALID_USER", "Approving user is required")
	}
	*status = VoucherStatusApproved
	trail.ApprovedBy = user
	trail.ApprovedAt = &now
	trail.ApprovalRemarks = remarks
	return nil
}

func reverse(status *VoucherStatus, trail *ApprovalTrail, user, reason string, now time.Time) error {
	if !status.CanReverse() {
		return shared.NewDomainErrorf("INVALID_STATE", "Cannot reverse voucher in %s status", *status)
	}
	if user == "" {
		return shared.NewDomainError("INVALID_USER", "Reversing user is required")
	}
	if reason == "" {
		return shared.NewDomainError("REVERSAL_REASON_REQUIRED", "A reversal reason is required")
	}
	*status = VoucherStatusReversed
	trail.ReversedBy = user
	trail.ReversedAt = &now
	trail.ReversalReason = reason
	return nil
}
