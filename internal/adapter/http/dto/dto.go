package dto

import (
	"loan-ledger/internal/core/domain"
	"loan-ledger/internal/core/ports"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/shopspring/decimal"
)

// CollateralRequest describes collateral offered with a loan application.
type CollateralRequest struct {
	Type        string          `json:"type"`
	Value       decimal.Decimal `json:"value"`
	Description string          `json:"description"`
	ProofRef    string          `json:"proof_ref"`
}

// LoanApplicationRequest is the request body for a loan application.
type LoanApplicationRequest struct {
	LoanType        string             `json:"loan_type" binding:"required,max=50"`
	TermMonths      int                `json:"term_months" binding:"required,gt=0"`
	Amount          decimal.Decimal    `json:"amount"`
	Method          string             `json:"method" binding:"required"`
	Collateral      *CollateralRequest `json:"collateral,omitempty"`
	SettingsVersion int64              `json:"settings_version"`
}

// Validate checks the fields gin's binding tags cannot express.
func (r LoanApplicationRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Amount, validation.By(positiveAmount)),
		validation.Field(&r.Method, validation.By(knownMethod)),
		validation.Field(&r.SettingsVersion, validation.Min(int64(0))),
	)
}

// ToInput converts the request into the service input.
func (r LoanApplicationRequest) ToInput() ports.LoanApplicationInput {
	in := ports.LoanApplicationInput{
		LoanType:        r.LoanType,
		TermMonths:      r.TermMonths,
		Amount:          r.Amount,
		Method:          domain.DisbursementMethod(r.Method),
		SettingsVersion: r.SettingsVersion,
	}
	if r.Collateral != nil {
		in.Collateral = &domain.Collateral{
			Type:        r.Collateral.Type,
			Value:       r.Collateral.Value,
			Description: r.Collateral.Description,
			ProofRef:    r.Collateral.ProofRef,
		}
	}
	return in
}

// PaymentRequest is the request body for a loan repayment.
type PaymentRequest struct {
	LoanTxnID string          `json:"loan_txn_id" binding:"omitempty,txn_id"`
	Amount    decimal.Decimal `json:"amount"`
	Method    string          `json:"method" binding:"required"`
}

func (r PaymentRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Amount, validation.By(positiveAmount)),
		validation.Field(&r.Method, validation.By(knownMethod)),
	)
}

// SavingsRequest is the request body for a deposit or withdrawal.
type SavingsRequest struct {
	Amount decimal.Decimal `json:"amount"`
	Method string          `json:"method" binding:"required"`
}

func (r SavingsRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Amount, validation.By(positiveAmount)),
		validation.Field(&r.Method, validation.By(knownMethod)),
	)
}

// ResolveRequest is a staff decision on one pending request.
type ResolveRequest struct {
	Kind     string `json:"kind" binding:"required"`
	MemberID string `json:"member_id" binding:"required,safe_id"`
	TxnID    string `json:"txn_id" binding:"required,txn_id"`
	Decision string `json:"decision" binding:"required,oneof=approve reject"`
	Reason   string `json:"reason" binding:"max=500"`
}

func (r ResolveRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Kind, validation.In("loan", "payment", "deposit", "withdrawal")),
	)
}

// SettingsRequest replaces the loan rate and fee configuration.
type SettingsRequest struct {
	Rates              domain.RateTable `json:"rates" binding:"required"`
	ProcessingFee      decimal.Decimal  `json:"processing_fee"`
	LoanablePercentage decimal.Decimal  `json:"loanable_percentage"`
}

// ToSettings converts the request into an unsaved snapshot.
func (r SettingsRequest) ToSettings() domain.LoanSettings {
	return domain.LoanSettings{
		Rates:              r.Rates,
		ProcessingFee:      r.ProcessingFee,
		LoanablePercentage: r.LoanablePercentage,
	}
}

// LoanOptionsResponse is the application form state shown to a member.
type LoanOptionsResponse struct {
	SettingsVersion    int64           `json:"settings_version"`
	LoanTypes          []string        `json:"loan_types"`
	Terms              []int           `json:"terms"`
	ProcessingFee      decimal.Decimal `json:"processing_fee"`
	LoanType           string          `json:"loan_type"`
	Term               int             `json:"term"`
	TermAvailable      bool            `json:"term_available"`
	Balance            decimal.Decimal `json:"balance"`
	LoanableAmount     decimal.Decimal `json:"loanable_amount"`
	RequiresCollateral bool            `json:"requires_collateral"`
}

// NewLoanOptionsResponse flattens service options for the form.
func NewLoanOptionsResponse(o *ports.LoanOptions) LoanOptionsResponse {
	resp := LoanOptionsResponse{
		LoanType:           o.LoanType,
		Term:               o.Term,
		TermAvailable:      o.TermAvailable,
		Balance:            o.Balance,
		LoanableAmount:     o.LoanableAmount,
		RequiresCollateral: o.RequiresCollateral,
		LoanTypes:          []string{},
		Terms:              []int{},
	}
	if o.Settings != nil {
		resp.SettingsVersion = o.Settings.Version
		resp.ProcessingFee = o.Settings.ProcessingFee
		resp.LoanTypes = append(resp.LoanTypes, o.Settings.LoanTypes()...)
		resp.Terms = append(resp.Terms, o.Settings.Terms(o.LoanType)...)
	}
	return resp
}

// FundsResponse reports the shared liquidity pool.
type FundsResponse struct {
	Amount decimal.Decimal `json:"amount"`
}

// ResolutionResponse is a resolution marker as shown on the console.
type ResolutionResponse struct {
	Key        string                  `json:"key"`
	Kind       domain.RequestKind      `json:"kind"`
	MemberID   string                  `json:"member_id"`
	TxnID      string                  `json:"txn_id"`
	Decision   domain.Decision         `json:"decision"`
	Status     domain.ResolutionStatus `json:"status"`
	LastStep   string                  `json:"last_step"`
	FailedStep string                  `json:"failed_step,omitempty"`
	LastError  string                  `json:"last_error,omitempty"`
	ResolvedBy string                  `json:"resolved_by"`
	StartedAt  string                  `json:"started_at"`
	UpdatedAt  string                  `json:"updated_at"`
}

const timeLayout = "2006-01-02T15:04:05Z07:00"

// NewResolutionResponse converts a marker to its console view.
func NewResolutionResponse(r *domain.Resolution) ResolutionResponse {
	resp := ResolutionResponse{
		Key:        r.Key(),
		Kind:       r.Kind,
		MemberID:   r.MemberID,
		TxnID:      r.TxnID,
		Decision:   r.Decision,
		Status:     r.Status,
		LastStep:   stepName(r.LastStep),
		FailedStep: stepName(r.FailedStep),
		LastError:  r.LastError,
		ResolvedBy: r.ResolvedBy,
		StartedAt:  r.StartedAt.Format(timeLayout),
		UpdatedAt:  r.UpdatedAt.Format(timeLayout),
	}
	return resp
}

func stepName(s domain.Step) string {
	if s == 0 {
		return ""
	}
	return s.String()
}
