package store

import (
	"context"
	"errors"
	"testing"
	"time"

	"budget/models"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/go-sql-driver/mysql"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	gormmysql "gorm.io/driver/mysql"
	"gorm.io/gorm"
)

func setupMockStore(t *testing.T) (*GormStore, sqlmock.Sqlmock) {
	sqlDB, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { sqlDB.Close() })

	gormDB, err := gorm.Open(gormmysql.New(gormmysql.Config{
		Conn:                      sqlDB,
		SkipInitializeWithVersion: true,
	}), &gorm.Config{TranslateError: true})
	require.NoError(t, err)

	return New(gormDB), mock
}

var budgetColumns = []string{"id", "user_id", "month", "period", "start", "currency", "created_at"}

func TestBudgets_FindLatestByOwner(t *testing.T) {
	s, mock := setupMockStore(t)
	owner := uuid.New()
	id := uuid.New()
	month := time.Date(2026, time.September, 3, 0, 0, 0, 0, time.UTC)

	mock.ExpectQuery("SELECT \\* FROM `budgets` WHERE user_id = \\? ORDER BY month DESC LIMIT 1").
		WithArgs(owner.String()).
		WillReturnRows(sqlmock.NewRows(budgetColumns).
			AddRow(id.String(), owner.String(), month, "2026-09", "100.00", 2, month))

	b, err := s.Budgets().FindLatestByOwner(context.Background(), owner)
	require.NoError(t, err)
	require.NotNil(t, b)
	assert.Equal(t, id, b.ID)
	assert.Equal(t, models.CurrencyEUR, b.Currency)
	assert.Equal(t, "100.00", b.StartAmount().StringFixed(2))
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestBudgets_FindLatestByOwner_None(t *testing.T) {
	s, mock := setupMockStore(t)

	mock.ExpectQuery("SELECT \\* FROM `budgets` WHERE user_id = \\?").
		WillReturnRows(sqlmock.NewRows(budgetColumns))

	b, err := s.Budgets().FindLatestByOwner(context.Background(), uuid.New())
	require.NoError(t, err)
	assert.Nil(t, b)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestBudgets_FindLatestByOwner_LocksInTx(t *testing.T) {
	s, mock := setupMockStore(t)

	mock.ExpectBegin()
	mock.ExpectQuery("SELECT \\* FROM `budgets` WHERE user_id = \\? ORDER BY month DESC LIMIT 1 FOR UPDATE").
		WillReturnRows(sqlmock.NewRows(budgetColumns))
	mock.ExpectCommit()

	err := s.WithinTx(context.Background(), func(tx Store) error {
		b, err := tx.Budgets().FindLatestByOwner(context.Background(), uuid.New())
		assert.Nil(t, b)
		return err
	})
	require.NoError(t, err)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestBudgets_FindByID_StoreError(t *testing.T) {
	s, mock := setupMockStore(t)
	boom := errors.New("connection refused")

	mock.ExpectQuery("SELECT \\* FROM `budgets` WHERE id = \\?").WillReturnError(boom)

	_, err := s.Budgets().FindByID(context.Background(), uuid.New())
	assert.ErrorIs(t, err, boom)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestBudgets_Insert(t *testing.T) {
	s, mock := setupMockStore(t)

	mock.ExpectBegin()
	mock.ExpectExec("INSERT INTO `budgets`").WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	b := &models.Budget{
		UserID:   uuid.New(),
		Month:    time.Date(2026, time.October, 15, 0, 0, 0, 0, time.UTC),
		Start:    decimal.NewNullDecimal(decimal.RequireFromString("120")),
		Currency: models.CurrencyUSD,
	}
	require.NoError(t, s.Budgets().Insert(context.Background(), b))
	assert.NotEqual(t, uuid.Nil, b.ID)
	assert.Equal(t, "2026-10", b.Period)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestBudgets_Insert_Duplicate(t *testing.T) {
	s, mock := setupMockStore(t)

	mock.ExpectBegin()
	mock.ExpectExec("INSERT INTO `budgets`").
		WillReturnError(&mysql.MySQLError{Number: 1062, Message: "Duplicate entry"})
	mock.ExpectRollback()

	err := s.Budgets().Insert(context.Background(), &models.Budget{UserID: uuid.New(), Month: time.Now()})
	assert.ErrorIs(t, err, ErrDuplicate)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestGormStore_WithinTx_Deadlock(t *testing.T) {
	s, mock := setupMockStore(t)
	owner := uuid.New()

	// 两个首次创建的事务都拿到间隙锁，插入时被 InnoDB 判定死锁
	mock.ExpectBegin()
	mock.ExpectQuery("SELECT \\* FROM `budgets` WHERE user_id = \\? ORDER BY month DESC LIMIT 1 FOR UPDATE").
		WillReturnRows(sqlmock.NewRows(budgetColumns))
	mock.ExpectExec("INSERT INTO `budgets`").
		WillReturnError(&mysql.MySQLError{Number: 1213, Message: "Deadlock found when trying to get lock"})
	mock.ExpectRollback()

	err := s.WithinTx(context.Background(), func(tx Store) error {
		if _, err := tx.Budgets().FindLatestByOwner(context.Background(), owner); err != nil {
			return err
		}
		return tx.Budgets().Insert(context.Background(), &models.Budget{UserID: owner, Month: time.Now()})
	})
	assert.ErrorIs(t, err, ErrDeadlock)
	assert.NotErrorIs(t, err, ErrDuplicate)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestGormStore_WithinTx_DeadlockOnCommit(t *testing.T) {
	s, mock := setupMockStore(t)

	mock.ExpectBegin()
	mock.ExpectCommit().WillReturnError(&mysql.MySQLError{Number: 1213, Message: "Deadlock found when trying to get lock"})

	err := s.WithinTx(context.Background(), func(Store) error { return nil })
	assert.ErrorIs(t, err, ErrDeadlock)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestEntries_SumByTypeForBudget(t *testing.T) {
	s, mock := setupMockStore(t)
	budgetID := uuid.New()

	mock.ExpectQuery("SELECT SUM\\(CASE WHEN type = \\? THEN amount ELSE 0 END\\) AS total_income, SUM\\(CASE WHEN type = \\? THEN amount ELSE 0 END\\) AS total_expense FROM `budget_entries` WHERE budget_id = \\?").
		WithArgs(1, 2, budgetID.String()).
		WillReturnRows(sqlmock.NewRows([]string{"total_income", "total_expense"}).AddRow("50.10", "30.20"))

	totals, err := s.Entries().SumByTypeForBudget(context.Background(), budgetID)
	require.NoError(t, err)
	assert.Equal(t, "50.10", totals.Income.StringFixed(2))
	assert.Equal(t, "30.20", totals.Expense.StringFixed(2))
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestEntries_SumByTypeForBudget_NoEntries(t *testing.T) {
	s, mock := setupMockStore(t)

	mock.ExpectQuery("SELECT SUM").
		WillReturnRows(sqlmock.NewRows([]string{"total_income", "total_expense"}).AddRow(nil, nil))

	totals, err := s.Entries().SumByTypeForBudget(context.Background(), uuid.New())
	require.NoError(t, err)
	assert.True(t, totals.Income.IsZero())
	assert.True(t, totals.Expense.IsZero())
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestEntries_SumByGroupForBudget(t *testing.T) {
	s, mock := setupMockStore(t)

	mock.ExpectQuery("SELECT type, group_type, COUNT\\(\\*\\) AS count, SUM\\(amount\\) AS total FROM `budget_entries` WHERE budget_id = \\? GROUP BY type, group_type").
		WillReturnRows(sqlmock.NewRows([]string{"type", "group_type", "count", "total"}).
			AddRow(1, 1, 2, "3000.00").
			AddRow(2, 1, 5, "412.35"))

	groups, err := s.Entries().SumByGroupForBudget(context.Background(), uuid.New())
	require.NoError(t, err)
	require.Len(t, groups, 2)
	assert.Equal(t, "Salary", groups[0].Label)
	assert.Equal(t, "Food", groups[1].Label)
	assert.Equal(t, int64(5), groups[1].Count)
	assert.Equal(t, "412.35", groups[1].Total.StringFixed(2))
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestEntries_Update_NotFound(t *testing.T) {
	s, mock := setupMockStore(t)

	mock.ExpectBegin()
	mock.ExpectExec("UPDATE `budget_entries` SET").WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectCommit()
	mock.ExpectQuery("SELECT count\\(\\*\\) FROM `budget_entries` WHERE id = \\? AND budget_id = \\?").
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(0))

	e := &models.BudgetEntry{ID: uuid.New(), BudgetID: uuid.New(), Amount: decimal.NewFromInt(5)}
	e.SetCategory(models.ExpenseFood)
	err := s.Entries().Update(context.Background(), e)
	assert.ErrorIs(t, err, ErrNotFound)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestEntries_Delete(t *testing.T) {
	s, mock := setupMockStore(t)
	budgetID, entryID := uuid.New(), uuid.New()
	now := time.Now()

	mock.ExpectQuery("SELECT \\* FROM `budget_entries` WHERE id = \\? AND budget_id = \\?").
		WithArgs(entryID.String(), budgetID.String()).
		WillReturnRows(sqlmock.NewRows([]string{"id", "budget_id", "description", "amount", "type", "group_type", "created_at"}).
			AddRow(entryID.String(), budgetID.String(), "rent", "900.00", 2, 2, now))
	mock.ExpectBegin()
	mock.ExpectExec("DELETE FROM `budget_entries` WHERE id = \\? AND budget_id = \\?").
		WithArgs(entryID.String(), budgetID.String()).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	e, err := s.Entries().Delete(context.Background(), budgetID, entryID)
	require.NoError(t, err)
	assert.Equal(t, entryID, e.ID)
	require.NotNil(t, e.Description)
	assert.Equal(t, "rent", *e.Description)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestEntries_Delete_WrongBudget(t *testing.T) {
	s, mock := setupMockStore(t)

	// 条目存在但不属于该预算：查询无结果，不执行 DELETE
	mock.ExpectQuery("SELECT \\* FROM `budget_entries` WHERE id = \\? AND budget_id = \\?").
		WillReturnRows(sqlmock.NewRows([]string{"id"}))

	_, err := s.Entries().Delete(context.Background(), uuid.New(), uuid.New())
	assert.ErrorIs(t, err, ErrNotFound)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestEntries_ListPaged(t *testing.T) {
	s, mock := setupMockStore(t)
	budgetID := uuid.New()

	mock.ExpectQuery("SELECT count\\(\\*\\) FROM `budget_entries` WHERE budget_id = \\?").
		WithArgs(budgetID.String()).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(42))
	mock.ExpectQuery("SELECT \\* FROM `budget_entries` WHERE budget_id = \\? ORDER BY created_at DESC LIMIT 10 OFFSET 20").
		WithArgs(budgetID.String()).
		WillReturnRows(sqlmock.NewRows([]string{"id", "budget_id", "amount", "type", "group_type"}).
			AddRow(uuid.NewString(), budgetID.String(), "12.50", 2, 1))

	list, total, err := s.Entries().ListPaged(context.Background(), budgetID, 10, 20)
	require.NoError(t, err)
	assert.Equal(t, int64(42), total)
	require.Len(t, list, 1)
	assert.Equal(t, "12.50", list[0].Amount.StringFixed(2))
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestUsers_FindByEmail(t *testing.T) {
	s, mock := setupMockStore(t)
	id := uuid.New()

	mock.ExpectQuery("SELECT \\* FROM `users` WHERE email = \\?").
		WithArgs("admin1@example.com").
		WillReturnRows(sqlmock.NewRows([]string{"id", "email", "password", "created_at"}).
			AddRow(id.String(), "admin1@example.com", "hash", time.Now()))

	u, err := s.Users().FindByEmail(context.Background(), "admin1@example.com")
	require.NoError(t, err)
	require.NotNil(t, u)
	assert.Equal(t, id, u.ID)
	require.NoError(t, mock.ExpectationsWereMet())
}
