package domain

import (
	"sort"
	"time"

	"github.com/shopspring/decimal"
)

// RateTable maps loan type to term (months) to interest rate percent.
type RateTable map[string]map[int]decimal.Decimal

// LoanSettings is a versioned snapshot of the rate and fee configuration.
// A zero value is a valid snapshot with no terms available.
type LoanSettings struct {
	Version            int64           `json:"version"`
	Rates              RateTable       `json:"rates"`
	ProcessingFee      decimal.Decimal `json:"processing_fee"`
	LoanablePercentage decimal.Decimal `json:"loanable_percentage"`
	UpdatedAt          time.Time       `json:"updated_at"`
	UpdatedBy          string          `json:"updated_by,omitempty"`
}

// Rate looks up the configured percent for a loan type and term.
func (s *LoanSettings) Rate(loanType string, term int) (decimal.Decimal, bool) {
	if s == nil || loanType == "" || term <= 0 {
		return decimal.Zero, false
	}
	terms, ok := s.Rates[loanType]
	if !ok {
		return decimal.Zero, false
	}
	rate, ok := terms[term]
	return rate, ok
}

// LoanTypes returns the configured loan types in sorted order.
func (s *LoanSettings) LoanTypes() []string {
	if s == nil {
		return nil
	}
	types := make([]string, 0, len(s.Rates))
	for t, terms := range s.Rates {
		if len(terms) > 0 {
			types = append(types, t)
		}
	}
	sort.Strings(types)
	return types
}

// Terms returns the configured terms for a loan type in ascending order.
func (s *LoanSettings) Terms(loanType string) []int {
	if s == nil {
		return nil
	}
	terms := make([]int, 0, len(s.Rates[loanType]))
	for term := range s.Rates[loanType] {
		terms = append(terms, term)
	}
	sort.Ints(terms)
	return terms
}

// ResolveTerm keeps previous if it is still configured for loanType, otherwise
// falls back to the first available term. ok is false when the type has none.
func (s *LoanSettings) ResolveTerm(loanType string, previous int) (term int, ok bool) {
	if _, found := s.Rate(loanType, previous); found {
		return previous, true
	}
	terms := s.Terms(loanType)
	if len(terms) == 0 {
		return 0, false
	}
	return terms[0], true
}

// LoanableAmount is the legacy balance-percentage figure. It is informational
// and never gates submission.
func (s *LoanSettings) LoanableAmount(balance decimal.Decimal) decimal.Decimal {
	if s == nil {
		return decimal.Zero
	}
	return balance.Mul(s.LoanablePercentage).Div(decimal.NewFromInt(100)).Round(2)
}
