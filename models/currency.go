package models

// Currency 预算币种
type Currency int16

const (
	CurrencyUSD Currency = 1
	CurrencyEUR Currency = 2
)

// Valid 判断币种是否受支持
func (c Currency) Valid() bool {
	return c == CurrencyUSD || c == CurrencyEUR
}

func (c Currency) String() string {
	switch c {
	case CurrencyUSD:
		return "USD"
	case CurrencyEUR:
		return "EUR"
	default:
		return "UNKNOWN"
	}
}

// Symbol 币种符号
func (c Currency) Symbol() string {
	switch c {
	case CurrencyUSD:
		return "$"
	case CurrencyEUR:
		return "€"
	default:
		return ""
	}
}
