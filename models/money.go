package models

import "github.com/shopspring/decimal"

func init() {
	// 金额以 JSON 数字输出，与前端约定一致
	decimal.MarshalJSONWithoutQuotes = true
}

// MoneyScale 金额保留的小数位数
const MoneyScale = 2

// IsMoney 判断金额是否为正数且最多两位小数
func IsMoney(d decimal.Decimal) bool {
	return d.IsPositive() && d.Equal(d.Round(MoneyScale))
}

// fixedMoney 以固定两位小数的 JSON 数字输出金额，例如 119.50
type fixedMoney decimal.Decimal

func (m fixedMoney) MarshalJSON() ([]byte, error) {
	return []byte(decimal.Decimal(m).StringFixed(MoneyScale)), nil
}
