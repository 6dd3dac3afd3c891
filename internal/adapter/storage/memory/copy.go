package memory

import (
	"time"

	"loan-ledger/internal/core/domain"

	"github.com/shopspring/decimal"
)

func copyTime(t *time.Time) *time.Time {
	if t == nil {
		return nil
	}
	c := *t
	return &c
}

func copyMember(m domain.Member) domain.Member {
	if m.Accounts != nil {
		accts := make(map[domain.DisbursementMethod]domain.DisbursementAccount, len(m.Accounts))
		for k, v := range m.Accounts {
			accts[k] = v
		}
		m.Accounts = accts
	}
	return m
}

func copyApplication(a domain.LoanApplication) domain.LoanApplication {
	if a.Collateral != nil {
		col := *a.Collateral
		a.Collateral = &col
	}
	a.ResolvedAt = copyTime(a.ResolvedAt)
	return a
}

func copyPayment(p domain.PaymentRequest) domain.PaymentRequest {
	if p.Allocation != nil {
		alloc := *p.Allocation
		p.Allocation = &alloc
	}
	p.ResolvedAt = copyTime(p.ResolvedAt)
	return p
}

func copySavings(s domain.SavingsRequest) domain.SavingsRequest {
	s.ResolvedAt = copyTime(s.ResolvedAt)
	return s
}

func copySettings(s domain.LoanSettings) domain.LoanSettings {
	rates := make(domain.RateTable, len(s.Rates))
	for typ, terms := range s.Rates {
		inner := make(map[int]decimal.Decimal, len(terms))
		for term, rate := range terms {
			inner[term] = rate
		}
		rates[typ] = inner
	}
	s.Rates = rates
	return s
}

func copyResolution(r domain.Resolution) domain.Resolution {
	e := r.Effect
	if e.Loan != nil {
		l := *e.Loan
		e.Loan = &l
	}
	if e.Application != nil {
		a := copyApplication(*e.Application)
		e.Application = &a
	}
	if e.Payment != nil {
		p := copyPayment(*e.Payment)
		e.Payment = &p
	}
	if e.Savings != nil {
		s := copySavings(*e.Savings)
		e.Savings = &s
	}
	r.Effect = e
	r.CompletedAt = copyTime(r.CompletedAt)
	return r
}
