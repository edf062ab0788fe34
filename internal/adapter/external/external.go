// Package external holds the stand-in implementations of the payment and
// validation capabilities. Real integrations would replace these behind the
// same ports.
package external

import (
	"context"
	"log"

	"github.com/shopspring/decimal"
)

// LoggingPaymentGateway accepts every charge and logs it. The returned error
// contract is the real one, so swapping in an actual operator changes
// nothing upstream.
type LoggingPaymentGateway struct{}

func NewLoggingPaymentGateway() *LoggingPaymentGateway {
	return &LoggingPaymentGateway{}
}

func (g *LoggingPaymentGateway) Charge(ctx context.Context, amount decimal.Decimal) error {
	log.Printf("Payment of %s accepted", amount.StringFixed(2))
	return nil
}

// TokenReceiptValidator accepts exactly one configured receipt token.
type TokenReceiptValidator struct {
	token string
}

func NewTokenReceiptValidator(token string) *TokenReceiptValidator {
	return &TokenReceiptValidator{token: token}
}

func (v *TokenReceiptValidator) Validate(ctx context.Context, token string) (bool, error) {
	return token == v.token, nil
}

// StaticEmployeeRegistry answers from a fixed set of employee plates.
type StaticEmployeeRegistry struct {
	plates map[string]struct{}
}

func NewStaticEmployeeRegistry(plates []string) *StaticEmployeeRegistry {
	set := make(map[string]struct{}, len(plates))
	for _, plate := range plates {
		set[plate] = struct{}{}
	}

	return &StaticEmployeeRegistry{plates: set}
}

func (r *StaticEmployeeRegistry) IsEmployee(ctx context.Context, plate string) (bool, error) {
	_, ok := r.plates[plate]
	return ok, nil
}
