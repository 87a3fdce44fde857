package store

import (
	"context"
	"errors"
	"fmt"

	"budget/models"

	"github.com/go-sql-driver/mysql"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// GormStore 基于 gorm 的 Store 实现
type GormStore struct {
	db   *gorm.DB
	inTx bool
}

// New 创建 GormStore，db 需开启 TranslateError 以识别唯一键冲突
func New(db *gorm.DB) *GormStore {
	return &GormStore{db: db}
}

func (s *GormStore) Budgets() BudgetStore { return &gormBudgets{db: s.db, lock: s.inTx} }
func (s *GormStore) Entries() EntryStore  { return &gormEntries{db: s.db} }
func (s *GormStore) Users() UserStore     { return &gormUsers{db: s.db} }

// WithinTx 在 gorm 事务中执行 fn，提交时的死锁同样转换为 ErrDeadlock
func (s *GormStore) WithinTx(ctx context.Context, fn func(tx Store) error) error {
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&GormStore{db: tx, inTx: true})
	})
	if isDeadlock(err) && !errors.Is(err, ErrDeadlock) {
		return fmt.Errorf("commit: %w: %v", ErrDeadlock, err)
	}
	return err
}

// MySQL 死锁错误码
const mysqlDeadlock = 1213

func isDeadlock(err error) bool {
	var myErr *mysql.MySQLError
	return errors.As(err, &myErr) && myErr.Number == mysqlDeadlock
}

// translate 统一转换 gorm 错误
func translate(err error, op string) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, gorm.ErrDuplicatedKey):
		return fmt.Errorf("%s: %w", op, ErrDuplicate)
	case isDeadlock(err):
		return fmt.Errorf("%s: %w: %v", op, ErrDeadlock, err)
	default:
		return fmt.Errorf("%s: %w", op, err)
	}
}

type gormBudgets struct {
	db   *gorm.DB
	lock bool
}

func (r *gormBudgets) FindLatestByOwner(ctx context.Context, ownerID uuid.UUID) (*models.Budget, error) {
	q := r.db.WithContext(ctx).Where("user_id = ?", ownerID).Order("month DESC")
	if r.lock {
		// 事务内锁住该用户的预算行，串行化同一用户的并发创建
		q = q.Clauses(clause.Locking{Strength: "UPDATE"})
	}
	var b models.Budget
	if err := q.Limit(1).Find(&b).Error; err != nil {
		return nil, translate(err, "find latest budget")
	}
	if b.ID == uuid.Nil {
		return nil, nil
	}
	return &b, nil
}

func (r *gormBudgets) FindByID(ctx context.Context, id uuid.UUID) (*models.Budget, error) {
	var b models.Budget
	if err := r.db.WithContext(ctx).Where("id = ?", id).Limit(1).Find(&b).Error; err != nil {
		return nil, translate(err, "find budget")
	}
	if b.ID == uuid.Nil {
		return nil, nil
	}
	return &b, nil
}

func (r *gormBudgets) Insert(ctx context.Context, b *models.Budget) error {
	return translate(r.db.WithContext(ctx).Create(b).Error, "insert budget")
}

type gormEntries struct {
	db *gorm.DB
}

func (r *gormEntries) SumByTypeForBudget(ctx context.Context, budgetID uuid.UUID) (Totals, error) {
	var row struct {
		TotalIncome  decimal.NullDecimal
		TotalExpense decimal.NullDecimal
	}
	err := r.db.WithContext(ctx).
		Model(&models.BudgetEntry{}).
		Select("SUM(CASE WHEN type = ? THEN amount ELSE 0 END) AS total_income, "+
			"SUM(CASE WHEN type = ? THEN amount ELSE 0 END) AS total_expense",
			models.EntryTypeIncome, models.EntryTypeExpense).
		Where("budget_id = ?", budgetID).
		Scan(&row).Error
	if err != nil {
		return Totals{}, translate(err, "sum entries")
	}
	// 没有条目时 SUM 返回 NULL，按 0 处理
	t := Totals{Income: decimal.Zero, Expense: decimal.Zero}
	if row.TotalIncome.Valid {
		t.Income = row.TotalIncome.Decimal
	}
	if row.TotalExpense.Valid {
		t.Expense = row.TotalExpense.Decimal
	}
	return t, nil
}

func (r *gormEntries) SumByGroupForBudget(ctx context.Context, budgetID uuid.UUID) ([]models.GroupTotal, error) {
	var rows []struct {
		Type      models.EntryType
		GroupType int16
		Count     int64
		Total     decimal.Decimal
	}
	err := r.db.WithContext(ctx).
		Model(&models.BudgetEntry{}).
		Select("type, group_type, COUNT(*) AS count, SUM(amount) AS total").
		Where("budget_id = ?", budgetID).
		Group("type, group_type").
		Order("type, group_type").
		Scan(&rows).Error
	if err != nil {
		return nil, translate(err, "sum entries by group")
	}
	out := make([]models.GroupTotal, 0, len(rows))
	for _, row := range rows {
		gt := models.GroupTotal{Type: row.Type, GroupType: row.GroupType, Count: row.Count, Total: row.Total}
		if c, err := models.NewCategory(row.Type, row.GroupType); err == nil {
			gt.Label = c.Label()
		}
		out = append(out, gt)
	}
	return out, nil
}

func (r *gormEntries) Insert(ctx context.Context, e *models.BudgetEntry) error {
	return translate(r.db.WithContext(ctx).Create(e).Error, "insert entry")
}

func (r *gormEntries) Update(ctx context.Context, e *models.BudgetEntry) error {
	res := r.db.WithContext(ctx).
		Model(&models.BudgetEntry{}).
		Where("id = ? AND budget_id = ?", e.ID, e.BudgetID).
		Updates(map[string]interface{}{
			"description": e.Description,
			"amount":      e.Amount,
			"type":        e.Type,
			"group_type":  e.GroupType,
		})
	if res.Error != nil {
		return translate(res.Error, "update entry")
	}
	if res.RowsAffected == 0 {
		// MySQL 对值未变化的行返回 0，需要再确认记录是否存在
		var n int64
		if err := r.db.WithContext(ctx).Model(&models.BudgetEntry{}).
			Where("id = ? AND budget_id = ?", e.ID, e.BudgetID).
			Count(&n).Error; err != nil {
			return translate(err, "update entry")
		}
		if n == 0 {
			return ErrNotFound
		}
	}
	var fresh models.BudgetEntry
	if err := r.db.WithContext(ctx).Where("id = ?", e.ID).Limit(1).Find(&fresh).Error; err != nil {
		return translate(err, "reload entry")
	}
	*e = fresh
	return nil
}

func (r *gormEntries) Delete(ctx context.Context, budgetID, entryID uuid.UUID) (*models.BudgetEntry, error) {
	var e models.BudgetEntry
	if err := r.db.WithContext(ctx).
		Where("id = ? AND budget_id = ?", entryID, budgetID).
		Limit(1).Find(&e).Error; err != nil {
		return nil, translate(err, "find entry")
	}
	if e.ID == uuid.Nil {
		return nil, ErrNotFound
	}
	res := r.db.WithContext(ctx).
		Where("id = ? AND budget_id = ?", entryID, budgetID).
		Delete(&models.BudgetEntry{})
	if res.Error != nil {
		return nil, translate(res.Error, "delete entry")
	}
	if res.RowsAffected == 0 {
		return nil, ErrNotFound
	}
	return &e, nil
}

func (r *gormEntries) ListPaged(ctx context.Context, budgetID uuid.UUID, limit, offset int) ([]models.BudgetEntry, int64, error) {
	var total int64
	if err := r.db.WithContext(ctx).Model(&models.BudgetEntry{}).
		Where("budget_id = ?", budgetID).
		Count(&total).Error; err != nil {
		return nil, 0, translate(err, "count entries")
	}
	list := make([]models.BudgetEntry, 0, limit)
	if err := r.db.WithContext(ctx).
		Where("budget_id = ?", budgetID).
		Order("created_at DESC").
		Limit(limit).Offset(offset).
		Find(&list).Error; err != nil {
		return nil, 0, translate(err, "list entries")
	}
	return list, total, nil
}

func (r *gormEntries) ListAll(ctx context.Context, budgetID uuid.UUID) ([]models.BudgetEntry, error) {
	var list []models.BudgetEntry
	if err := r.db.WithContext(ctx).
		Where("budget_id = ?", budgetID).
		Order("created_at DESC").
		Find(&list).Error; err != nil {
		return nil, translate(err, "list entries")
	}
	return list, nil
}

type gormUsers struct {
	db *gorm.DB
}

func (r *gormUsers) FindByEmail(ctx context.Context, email string) (*models.User, error) {
	var u models.User
	if err := r.db.WithContext(ctx).Where("email = ?", email).Limit(1).Find(&u).Error; err != nil {
		return nil, translate(err, "find user")
	}
	if u.ID == uuid.Nil {
		return nil, nil
	}
	return &u, nil
}

func (r *gormUsers) FindByID(ctx context.Context, id uuid.UUID) (*models.User, error) {
	var u models.User
	if err := r.db.WithContext(ctx).Where("id = ?", id).Limit(1).Find(&u).Error; err != nil {
		return nil, translate(err, "find user")
	}
	if u.ID == uuid.Nil {
		return nil, nil
	}
	return &u, nil
}

func (r *gormUsers) Insert(ctx context.Context, u *models.User) error {
	return translate(r.db.WithContext(ctx).Create(u).Error, "insert user")
}

func (r *gormUsers) Count(ctx context.Context) (int64, error) {
	var n int64
	if err := r.db.WithContext(ctx).Model(&models.User{}).Count(&n).Error; err != nil {
		return 0, translate(err, "count users")
	}
	return n, nil
}
