package models

import (
	"errors"
	"fmt"
)

// EntryType 预算条目类型
type EntryType int16

const (
	EntryTypeIncome  EntryType = 1
	EntryTypeExpense EntryType = 2
)

func (t EntryType) String() string {
	switch t {
	case EntryTypeIncome:
		return "INCOME"
	case EntryTypeExpense:
		return "EXPENSE"
	default:
		return "UNKNOWN"
	}
}

// ErrInvalidCategory 条目类型与分组不匹配
var ErrInvalidCategory = errors.New("invalid entry type or group type")

// Category 条目分类：收入分组或支出分组二选一。
// 只有 IncomeGroup 和 ExpenseGroup 实现该接口，类型与分组不一致的组合无法构造。
type Category interface {
	EntryType() EntryType
	GroupType() int16
	Label() string
	isCategory()
}

// IncomeGroup 收入分组
type IncomeGroup int16

const (
	IncomeSalary    IncomeGroup = 1
	IncomeGifts     IncomeGroup = 2
	IncomeFreelance IncomeGroup = 3
	IncomeOther     IncomeGroup = 4
)

var incomeLabels = map[IncomeGroup]string{
	IncomeSalary:    "Salary",
	IncomeGifts:     "Gifts",
	IncomeFreelance: "Freelance",
	IncomeOther:     "Other",
}

func (g IncomeGroup) EntryType() EntryType { return EntryTypeIncome }
func (g IncomeGroup) GroupType() int16     { return int16(g) }
func (g IncomeGroup) Label() string        { return incomeLabels[g] }
func (IncomeGroup) isCategory()            {}

// ExpenseGroup 支出分组
type ExpenseGroup int16

const (
	ExpenseFood           ExpenseGroup = 1
	ExpenseHousing        ExpenseGroup = 2
	ExpenseTransportation ExpenseGroup = 3
	ExpenseHealth         ExpenseGroup = 4
	ExpenseInsurance      ExpenseGroup = 5
	ExpenseEntertainment  ExpenseGroup = 6
	ExpenseShopping       ExpenseGroup = 7
	ExpenseUtilities      ExpenseGroup = 8
	ExpensePersonalCare   ExpenseGroup = 9
	ExpenseOther          ExpenseGroup = 10
)

var expenseLabels = map[ExpenseGroup]string{
	ExpenseFood:           "Food",
	ExpenseHousing:        "Housing",
	ExpenseTransportation: "Transportation",
	ExpenseHealth:         "Health",
	ExpenseInsurance:      "Insurance",
	ExpenseEntertainment:  "Entertainment",
	ExpenseShopping:       "Shopping",
	ExpenseUtilities:      "Utilities",
	ExpensePersonalCare:   "Personal Care",
	ExpenseOther:          "Other",
}

func (g ExpenseGroup) EntryType() EntryType { return EntryTypeExpense }
func (g ExpenseGroup) GroupType() int16     { return int16(g) }
func (g ExpenseGroup) Label() string        { return expenseLabels[g] }
func (ExpenseGroup) isCategory()            {}

// NewCategory 根据原始的类型和分组编号构造分类，不匹配时返回 ErrInvalidCategory
func NewCategory(t EntryType, groupType int16) (Category, error) {
	switch t {
	case EntryTypeIncome:
		g := IncomeGroup(groupType)
		if _, ok := incomeLabels[g]; ok {
			return g, nil
		}
	case EntryTypeExpense:
		g := ExpenseGroup(groupType)
		if _, ok := expenseLabels[g]; ok {
			return g, nil
		}
	default:
		return nil, fmt.Errorf("%w: unknown type %d", ErrInvalidCategory, t)
	}
	return nil, fmt.Errorf("%w: group %d does not belong to %s", ErrInvalidCategory, groupType, t)
}
