package postgres

import "github.com/shopspring/decimal"

// parseTotal turns a SUM() result into a decimal. Both postgres and the
// SQLite used in tests hand the aggregate back as a string or plain number.
func parseTotal(raw string) (decimal.Decimal, error) {
	if raw == "" {
		return decimal.Zero, nil
	}
	return decimal.NewFromString(raw)
}
