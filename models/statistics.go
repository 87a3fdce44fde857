package models

import (
	"encoding/json"

	"github.com/shopspring/decimal"
)

// Statistics 预算统计结果（派生数据，不落库）
type Statistics struct {
	TotalIncome  decimal.Decimal `json:"totalIncome"`
	TotalExpense decimal.Decimal `json:"totalExpense"`
	Balance      decimal.Decimal `json:"balance"`
	Start        decimal.Decimal `json:"start"`
}

// NewStatistics 根据收支合计和起始金额计算余额：balance = income + start - expense
func NewStatistics(income, expense, start decimal.Decimal) Statistics {
	return Statistics{
		TotalIncome:  income.Round(MoneyScale),
		TotalExpense: expense.Round(MoneyScale),
		Balance:      income.Add(start).Sub(expense).Round(MoneyScale),
		Start:        start.Round(MoneyScale),
	}
}

// MarshalJSON 金额固定两位小数
func (s Statistics) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		TotalIncome  fixedMoney `json:"totalIncome"`
		TotalExpense fixedMoney `json:"totalExpense"`
		Balance      fixedMoney `json:"balance"`
		Start        fixedMoney `json:"start"`
	}{
		TotalIncome:  fixedMoney(s.TotalIncome),
		TotalExpense: fixedMoney(s.TotalExpense),
		Balance:      fixedMoney(s.Balance),
		Start:        fixedMoney(s.Start),
	})
}

// GroupTotal 按类型和分组汇总的金额
type GroupTotal struct {
	Type      EntryType       `json:"type"`
	GroupType int16           `json:"group_type"`
	Label     string          `json:"label"`
	Count     int64           `json:"count"`
	Total     decimal.Decimal `json:"total"`
}

// MarshalJSON 合计金额固定两位小数
func (g GroupTotal) MarshalJSON() ([]byte, error) {
	type alias GroupTotal
	return json.Marshal(struct {
		alias
		Total fixedMoney `json:"total"`
	}{alias: alias(g), Total: fixedMoney(g.Total)})
}
