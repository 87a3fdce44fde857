// Package store 定义预算、条目、用户的持久化接口及其 gorm 实现。
package store

import (
	"context"
	"errors"

	"budget/models"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

var (
	// ErrNotFound 更新或删除时没有匹配的记录
	ErrNotFound = errors.New("record not found")
	// ErrDuplicate 违反唯一约束
	ErrDuplicate = errors.New("duplicate record")
	// ErrDeadlock 事务因死锁被数据库回滚，可以整体重试
	ErrDeadlock = errors.New("transaction deadlock")
)

// Totals 某个预算下按类型汇总的收支
type Totals struct {
	Income  decimal.Decimal
	Expense decimal.Decimal
}

// BudgetStore 预算表
type BudgetStore interface {
	// FindLatestByOwner 返回用户月份最新的预算，不存在时返回 nil, nil
	FindLatestByOwner(ctx context.Context, ownerID uuid.UUID) (*models.Budget, error)
	// FindByID 不存在时返回 nil, nil
	FindByID(ctx context.Context, id uuid.UUID) (*models.Budget, error)
	// Insert 同一用户同一月份重复插入时返回 ErrDuplicate
	Insert(ctx context.Context, b *models.Budget) error
}

// EntryStore 预算条目表
type EntryStore interface {
	SumByTypeForBudget(ctx context.Context, budgetID uuid.UUID) (Totals, error)
	SumByGroupForBudget(ctx context.Context, budgetID uuid.UUID) ([]models.GroupTotal, error)
	Insert(ctx context.Context, e *models.BudgetEntry) error
	// Update 按 (budget_id, id) 更新描述、金额、类型和分组，没有匹配行时返回 ErrNotFound
	Update(ctx context.Context, e *models.BudgetEntry) error
	// Delete 按 (budget_id, id) 删除并返回被删除的行，没有匹配行时返回 ErrNotFound
	Delete(ctx context.Context, budgetID, entryID uuid.UUID) (*models.BudgetEntry, error)
	ListPaged(ctx context.Context, budgetID uuid.UUID, limit, offset int) ([]models.BudgetEntry, int64, error)
	ListAll(ctx context.Context, budgetID uuid.UUID) ([]models.BudgetEntry, error)
}

// UserStore 用户表
type UserStore interface {
	FindByEmail(ctx context.Context, email string) (*models.User, error)
	FindByID(ctx context.Context, id uuid.UUID) (*models.User, error)
	Insert(ctx context.Context, u *models.User) error
	Count(ctx context.Context) (int64, error)
}

// Store 聚合各表，并支持在事务中执行
type Store interface {
	Budgets() BudgetStore
	Entries() EntryStore
	Users() UserStore
	// WithinTx 在同一事务中执行 fn，fn 返回错误时回滚
	WithinTx(ctx context.Context, fn func(tx Store) error) error
}
