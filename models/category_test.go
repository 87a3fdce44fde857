package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewCategory(t *testing.T) {
	c, err := NewCategory(EntryTypeIncome, 1)
	require.NoError(t, err)
	assert.Equal(t, IncomeSalary, c)
	assert.Equal(t, EntryTypeIncome, c.EntryType())
	assert.Equal(t, "Salary", c.Label())

	c, err = NewCategory(EntryTypeExpense, 9)
	require.NoError(t, err)
	assert.Equal(t, ExpensePersonalCare, c)
	assert.Equal(t, int16(9), c.GroupType())

	// 收入分组最大为 4，5 只在支出分组中存在
	_, err = NewCategory(EntryTypeIncome, 5)
	assert.ErrorIs(t, err, ErrInvalidCategory)

	_, err = NewCategory(EntryTypeExpense, 11)
	assert.ErrorIs(t, err, ErrInvalidCategory)

	_, err = NewCategory(EntryTypeExpense, 0)
	assert.ErrorIs(t, err, ErrInvalidCategory)

	_, err = NewCategory(EntryType(3), 1)
	assert.ErrorIs(t, err, ErrInvalidCategory)
}

func TestBudgetEntry_Category(t *testing.T) {
	var e BudgetEntry
	e.SetCategory(ExpenseUtilities)
	assert.Equal(t, EntryTypeExpense, e.Type)
	assert.Equal(t, int16(8), e.GroupType)

	c, err := e.Category()
	require.NoError(t, err)
	assert.Equal(t, ExpenseUtilities, c)

	e.Type = EntryTypeIncome
	_, err = e.Category()
	assert.ErrorIs(t, err, ErrInvalidCategory)
}
