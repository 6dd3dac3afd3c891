package dto

import (
	"errors"
	"html"
	"reflect"
	"regexp"
	"strings"

	"loan-ledger/internal/core/domain"

	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"
)

var (
	safeStringRe = regexp.MustCompile(`^[a-zA-Z0-9_\-\.]+$`)
	txnIDRe      = regexp.MustCompile(`^[0-9]{6}$`)
)

func init() {
	if v, ok := binding.Validator.Engine().(*validator.Validate); ok {
		_ = v.RegisterValidation("safe_id", validateSafeID)
		_ = v.RegisterValidation("txn_id", validateTxnID)
	}
}

// validateSafeID allows alphanumeric, underscore, dash, and dot.
func validateSafeID(fl validator.FieldLevel) bool {
	return safeStringRe.MatchString(fl.Field().String())
}

// validateTxnID accepts the 6-digit transaction id format.
func validateTxnID(fl validator.FieldLevel) bool {
	return txnIDRe.MatchString(fl.Field().String())
}

// ValidTxnID reports whether s is a well-formed transaction id.
func ValidTxnID(s string) bool {
	return txnIDRe.MatchString(s)
}

func positiveAmount(value interface{}) error {
	d, _ := value.(decimal.Decimal)
	if !d.IsPositive() {
		return errors.New("must be greater than zero")
	}
	return nil
}

func knownMethod(value interface{}) error {
	s, _ := value.(string)
	if !domain.DisbursementMethod(s).IsValid() {
		return errors.New("must be one of bank, e-wallet, cash")
	}
	return nil
}

// SanitizeStruct trims whitespace and HTML-escapes every exported string
// field (including *string and nested struct pointers) of a struct pointer.
func SanitizeStruct(v interface{}) {
	rv := reflect.ValueOf(v)
	if rv.Kind() != reflect.Ptr || rv.Elem().Kind() != reflect.Struct {
		return
	}
	sanitizeFields(rv.Elem())
}

func sanitizeFields(rv reflect.Value) {
	for i := 0; i < rv.NumField(); i++ {
		f := rv.Field(i)
		if !f.CanSet() {
			continue
		}
		switch f.Kind() {
		case reflect.String:
			f.SetString(sanitize(f.String()))
		case reflect.Ptr:
			if f.IsNil() {
				continue
			}
			elem := f.Elem()
			switch elem.Kind() {
			case reflect.String:
				elem.SetString(sanitize(elem.String()))
			case reflect.Struct:
				sanitizeFields(elem)
			}
		}
	}
}

func sanitize(s string) string {
	return html.EscapeString(strings.TrimSpace(s))
}
