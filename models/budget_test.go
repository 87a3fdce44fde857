package models

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBudget_BeforeCreate(t *testing.T) {
	b := Budget{Month: time.Date(2026, time.October, 15, 9, 30, 0, 0, time.UTC)}
	require.NoError(t, b.BeforeCreate(nil))
	assert.NotEqual(t, uuid.Nil, b.ID)
	assert.Equal(t, "2026-10", b.Period)

	id := uuid.New()
	b2 := Budget{ID: id, Month: time.Now(), Period: "2020-01"}
	require.NoError(t, b2.BeforeCreate(nil))
	assert.Equal(t, id, b2.ID)
	assert.Equal(t, "2020-01", b2.Period)
}

func TestBudget_StartAmount(t *testing.T) {
	var b Budget
	assert.True(t, b.StartAmount().IsZero())

	b.Start = decimal.NewNullDecimal(decimal.RequireFromString("100.25"))
	assert.Equal(t, "100.25", b.StartAmount().StringFixed(2))
}

func TestBudget_SameMonthOfYear(t *testing.T) {
	b := Budget{Month: time.Date(2025, time.October, 1, 0, 0, 0, 0, time.UTC)}
	assert.True(t, b.SameMonthOfYear(time.Date(2025, time.October, 31, 0, 0, 0, 0, time.UTC)))
	// 只比较月份：跨年的同一月份也视为相同
	assert.True(t, b.SameMonthOfYear(time.Date(2026, time.October, 2, 0, 0, 0, 0, time.UTC)))
	assert.False(t, b.SameMonthOfYear(time.Date(2025, time.November, 1, 0, 0, 0, 0, time.UTC)))
}

func TestIsMoney(t *testing.T) {
	cases := map[string]bool{
		"10":     true,
		"10.5":   true,
		"10.50":  true,
		"10.500": true,
		"0.01":   true,
		"10.005": false,
		"0":      false,
		"-5":     false,
	}
	for in, want := range cases {
		assert.Equal(t, want, IsMoney(decimal.RequireFromString(in)), in)
	}
}

func TestNewStatistics(t *testing.T) {
	s := NewStatistics(
		decimal.RequireFromString("50"),
		decimal.RequireFromString("30"),
		decimal.RequireFromString("100"),
	)
	assert.True(t, s.Balance.Equal(decimal.RequireFromString("120")))

	// 0.1 + 0.2 在十进制下精确
	s = NewStatistics(
		decimal.RequireFromString("0.1").Add(decimal.RequireFromString("0.2")),
		decimal.Zero,
		decimal.Zero,
	)
	assert.Equal(t, "0.30", s.Balance.StringFixed(2))

	raw, err := json.Marshal(s)
	require.NoError(t, err)
	assert.Equal(t, `{"totalIncome":0.30,"totalExpense":0.00,"balance":0.30,"start":0.00}`, string(raw))
}

func TestStatistics_MarshalJSONFixedScale(t *testing.T) {
	s := NewStatistics(
		decimal.RequireFromString("50"),
		decimal.RequireFromString("30.5"),
		decimal.RequireFromString("100"),
	)
	raw, err := json.Marshal(s)
	require.NoError(t, err)
	assert.Equal(t, `{"totalIncome":50.00,"totalExpense":30.50,"balance":119.50,"start":100.00}`, string(raw))

	s = NewStatistics(decimal.Zero, decimal.RequireFromString("5"), decimal.Zero)
	raw, err = json.Marshal(s)
	require.NoError(t, err)
	assert.Equal(t, `{"totalIncome":0.00,"totalExpense":5.00,"balance":-5.00,"start":0.00}`, string(raw))

	// 指针和嵌套时同样生效
	raw, err = json.Marshal(map[string]*Statistics{"stats": &s})
	require.NoError(t, err)
	assert.Contains(t, string(raw), `"balance":-5.00`)
}

func TestGroupTotal_MarshalJSONFixedScale(t *testing.T) {
	g := GroupTotal{Type: EntryTypeIncome, GroupType: 3, Label: "Food", Count: 2, Total: decimal.RequireFromString("12.5")}
	raw, err := json.Marshal(g)
	require.NoError(t, err)
	assert.Equal(t, `{"type":1,"group_type":3,"label":"Food","count":2,"total":12.50}`, string(raw))
}
