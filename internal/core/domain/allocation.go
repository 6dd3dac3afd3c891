package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

var thirtyDays = decimal.NewFromInt(30)

// PaymentAllocation is how one payment was split.
type PaymentAllocation struct {
	Penalty        decimal.Decimal `json:"penalty"`
	Interest       decimal.Decimal `json:"interest"`
	Principal      decimal.Decimal `json:"principal"`
	Excess         decimal.Decimal `json:"excess"`
	NewOutstanding decimal.Decimal `json:"new_outstanding"`
	OverdueDays    int             `json:"overdue_days"`
}

// Penalty pro-rates the loan's total interest over a 30-day month:
// interest × days / 30 for days > 0.
func Penalty(interestAmount decimal.Decimal, overdueDays int) decimal.Decimal {
	if overdueDays <= 0 {
		return decimal.Zero
	}
	return interestAmount.Mul(decimal.NewFromInt(int64(overdueDays))).Div(thirtyDays)
}

// TotalDue is the displayed amount owed for the next installment.
func TotalDue(monthlyPayment, penalty decimal.Decimal, overdue bool) decimal.Decimal {
	if !overdue {
		return monthlyPayment
	}
	return monthlyPayment.Add(penalty)
}

// UnpaidInterest is the part of the loan's flat interest not yet collected.
func (l *CurrentLoan) UnpaidInterest() decimal.Decimal {
	unpaid := l.InterestAmount.Sub(l.InterestPaid)
	if unpaid.IsNegative() {
		return decimal.Zero
	}
	return unpaid
}

// InstallmentInterest is the interest share of one installment, capped at
// what is still unpaid.
func (l *CurrentLoan) InstallmentInterest() decimal.Decimal {
	if l.TermMonths <= 0 {
		return decimal.Zero
	}
	share := l.InterestAmount.Div(decimal.NewFromInt(int64(l.TermMonths))).Round(2)
	return decimal.Min(share, l.UnpaidInterest())
}

// Allocate splits amount into penalty, then interest, then principal, and
// returns the remainder as excess. A payment that clears the principal also
// settles the rest of the unpaid interest before anything becomes excess.
// A nil loan puts everything into excess.
func Allocate(loan *CurrentLoan, interestAmount, amount decimal.Decimal, overdueDays int) PaymentAllocation {
	alloc := PaymentAllocation{
		Penalty:        decimal.Zero,
		Interest:       decimal.Zero,
		Principal:      decimal.Zero,
		Excess:         amount,
		NewOutstanding: decimal.Zero,
		OverdueDays:    overdueDays,
	}
	if loan == nil {
		return alloc
	}

	remaining := amount

	alloc.Penalty = decimal.Min(remaining, Penalty(interestAmount, overdueDays).Round(2))
	remaining = remaining.Sub(alloc.Penalty)

	alloc.Interest = decimal.Min(remaining, loan.InstallmentInterest())
	remaining = remaining.Sub(alloc.Interest)

	outstanding := loan.OutstandingBalance
	if outstanding.IsNegative() {
		outstanding = decimal.Zero
	}
	alloc.Principal = decimal.Min(remaining, outstanding)
	remaining = remaining.Sub(alloc.Principal)

	if alloc.Principal.Equal(outstanding) {
		rest := decimal.Min(remaining, loan.UnpaidInterest().Sub(alloc.Interest))
		alloc.Interest = alloc.Interest.Add(rest)
		remaining = remaining.Sub(rest)
	}

	alloc.Excess = remaining
	alloc.NewOutstanding = outstanding.Sub(alloc.Principal)
	return alloc
}

// LoanQuote is what a member owes on a loan as of a given day.
type LoanQuote struct {
	MemberID           string          `json:"member_id"`
	LoanTxnID          string          `json:"loan_txn_id"`
	OutstandingBalance decimal.Decimal `json:"outstanding_balance"`
	MonthlyPayment     decimal.Decimal `json:"monthly_payment"`
	Overdue            bool            `json:"overdue"`
	OverdueDays        int             `json:"overdue_days"`
	Penalty            decimal.Decimal `json:"penalty"`
	TotalDue           decimal.Decimal `json:"total_due"`
}

// Quote computes the amount due on loan for the calendar day of now.
func Quote(loan *CurrentLoan, now time.Time, loc *time.Location) LoanQuote {
	overdue := IsOverdue(loan.DueDate, now, loc)
	days := OverdueDays(loan.DueDate, now, loc)
	penalty := Penalty(loan.InterestAmount, days).Round(2)
	return LoanQuote{
		MemberID:           loan.MemberID,
		LoanTxnID:          loan.TxnID,
		OutstandingBalance: loan.OutstandingBalance,
		MonthlyPayment:     loan.MonthlyPayment,
		Overdue:            overdue,
		OverdueDays:        days,
		Penalty:            penalty,
		TotalDue:           TotalDue(loan.MonthlyPayment, penalty, overdue),
	}
}
