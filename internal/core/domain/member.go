package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// Role distinguishes members from console staff.
type Role string

const (
	RoleMember Role = "member"
	RoleStaff  Role = "staff"
)

// MemberContext is the already-authenticated caller. It is resolved once at the
// edge and passed explicitly into every service call.
type MemberContext struct {
	MemberID string `json:"member_id"`
	Email    string `json:"email"`
	Role     Role   `json:"role"`
}

// IsStaff reports whether the caller may resolve requests.
func (m MemberContext) IsStaff() bool {
	return m.Role == RoleStaff
}

// DisbursementMethod is how an approved loan is paid out or a payment is made.
type DisbursementMethod string

const (
	MethodBank    DisbursementMethod = "bank"
	MethodEWallet DisbursementMethod = "e-wallet"
	MethodCash    DisbursementMethod = "cash"
)

// DisbursementMethods lists every accepted method.
var DisbursementMethods = []DisbursementMethod{MethodBank, MethodEWallet, MethodCash}

// IsValid reports whether m is a known method.
func (m DisbursementMethod) IsValid() bool {
	for _, known := range DisbursementMethods {
		if m == known {
			return true
		}
	}
	return false
}

// RequiresAccount reports whether the method needs an account on file.
func (m DisbursementMethod) RequiresAccount() bool {
	return m != MethodCash
}

// DisbursementAccount is a saved destination account.
type DisbursementAccount struct {
	Name   string `json:"name"`
	Number string `json:"number"`
}

// IsComplete reports whether both name and number are present.
func (a DisbursementAccount) IsComplete() bool {
	return a.Name != "" && a.Number != ""
}

// Member is a cooperative member. Balance only changes through resolutions.
type Member struct {
	ID         string                                     `json:"id"`
	Email      string                                     `json:"email"`
	Name       string                                     `json:"name"`
	Balance    decimal.Decimal                            `json:"balance"`
	Investment decimal.Decimal                            `json:"investment"`
	Accounts   map[DisbursementMethod]DisbursementAccount `json:"accounts,omitempty"`
	CreatedAt  time.Time                                  `json:"created_at"`
	UpdatedAt  time.Time                                  `json:"updated_at"`
}

// AccountFor returns the saved account for a method, if any.
func (m *Member) AccountFor(method DisbursementMethod) (DisbursementAccount, bool) {
	acct, ok := m.Accounts[method]
	if !ok || !acct.IsComplete() {
		return DisbursementAccount{}, false
	}
	return acct, true
}
