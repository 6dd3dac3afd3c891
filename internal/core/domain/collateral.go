package domain

import (
	"errors"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/shopspring/decimal"
)

// Collateral is the security block attached to a loan application when the
// requested amount exceeds the member's balance.
type Collateral struct {
	Type        string          `json:"type"`
	Value       decimal.Decimal `json:"value"`
	Description string          `json:"description"`
	ProofRef    string          `json:"proof_ref"`
}

// RequiresCollateral is true iff amount is strictly greater than balance.
func RequiresCollateral(amount, balance decimal.Decimal) bool {
	return amount.GreaterThan(balance)
}

// Validate checks that every collateral field is present and the value is positive.
func (c Collateral) Validate() error {
	return validation.ValidateStruct(&c,
		validation.Field(&c.Type, validation.Required),
		validation.Field(&c.Value, validation.By(positiveDecimal)),
		validation.Field(&c.Description, validation.Required),
		validation.Field(&c.ProofRef, validation.Required),
	)
}

// IsValid reports whether Validate passes.
func (c *Collateral) IsValid() bool {
	return c != nil && c.Validate() == nil
}

func positiveDecimal(value interface{}) error {
	d, ok := value.(decimal.Decimal)
	if !ok || !d.IsPositive() {
		return errors.New("must be greater than zero")
	}
	return nil
}

// PositiveAmount is an ozzo rule for decimal money fields.
var PositiveAmount = validation.By(positiveDecimal)
