package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// DescriptionMaxLen 条目描述的最大长度
const DescriptionMaxLen = 255

// BudgetEntry 预算收支条目
type BudgetEntry struct {
	ID          uuid.UUID       `json:"id" gorm:"type:char(36);primaryKey"`
	BudgetID    uuid.UUID       `json:"budget_id" gorm:"type:char(36);not null;index:idx_entries_budget_created,priority:1"`
	Description *string         `json:"description" gorm:"size:255"`
	Amount      decimal.Decimal `json:"amount" gorm:"type:decimal(10,2);not null"`
	Type        EntryType       `json:"type" gorm:"type:smallint;not null"`
	GroupType   int16           `json:"group_type" gorm:"type:smallint;not null"`
	CreatedAt   time.Time       `json:"created_at" gorm:"index:idx_entries_budget_created,priority:2"`
	Budget      Budget          `json:"-" gorm:"foreignKey:BudgetID"`
}

// TableName 设置表名
func (BudgetEntry) TableName() string {
	return "budget_entries"
}

// BeforeCreate 未指定 ID 时生成 UUID
func (e *BudgetEntry) BeforeCreate(*gorm.DB) error {
	if e.ID == uuid.Nil {
		e.ID = uuid.New()
	}
	return nil
}

// SetCategory 写入分类对应的类型与分组
func (e *BudgetEntry) SetCategory(c Category) {
	e.Type = c.EntryType()
	e.GroupType = c.GroupType()
}

// Category 还原条目的分类
func (e *BudgetEntry) Category() (Category, error) {
	return NewCategory(e.Type, e.GroupType)
}
