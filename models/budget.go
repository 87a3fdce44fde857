package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// PeriodLayout 预算所属月份的存储格式
const PeriodLayout = "2006-01"

// Budget 月度预算模型
type Budget struct {
	ID     uuid.UUID `json:"id" gorm:"type:char(36);primaryKey"`
	UserID uuid.UUID `json:"user_id" gorm:"type:char(36);not null;uniqueIndex:idx_budgets_user_period,priority:1"`
	Month  time.Time `json:"month" gorm:"type:date;not null;index"`
	// Period 与 UserID 组成唯一索引，保证每个用户每个自然月只有一条预算
	Period    string              `json:"-" gorm:"size:7;not null;uniqueIndex:idx_budgets_user_period,priority:2"`
	Start     decimal.NullDecimal `json:"start" gorm:"type:decimal(10,2)"`
	Currency  Currency            `json:"currency" gorm:"type:smallint;not null"`
	CreatedAt time.Time           `json:"created_at"`
	User      User                `json:"-" gorm:"foreignKey:UserID"`
}

// TableName 设置表名
func (Budget) TableName() string {
	return "budgets"
}

// BeforeCreate 生成 ID 并根据 Month 填充 Period
func (b *Budget) BeforeCreate(*gorm.DB) error {
	if b.ID == uuid.Nil {
		b.ID = uuid.New()
	}
	if b.Period == "" {
		b.Period = PeriodOf(b.Month)
	}
	return nil
}

// StartAmount 起始金额，未设置时视为 0
func (b *Budget) StartAmount() decimal.Decimal {
	if !b.Start.Valid {
		return decimal.Zero
	}
	return b.Start.Decimal
}

// SameMonthOfYear 判断预算月份与 t 是否为同一月份（只比较月，不比较年）
func (b *Budget) SameMonthOfYear(t time.Time) bool {
	return b.Month.Month() == t.Month()
}

// PeriodOf 返回 t 所在自然月的 Period 键
func PeriodOf(t time.Time) string {
	return t.Format(PeriodLayout)
}
