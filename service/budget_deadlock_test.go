package service

import (
	"context"
	"fmt"
	"testing"

	"budget/models"
	"budget/store"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/go-sql-driver/mysql"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	gormmysql "gorm.io/driver/mysql"
	"gorm.io/gorm"
)

func deadlockErr() error {
	return &mysql.MySQLError{Number: 1213, Message: "Deadlock found when trying to get lock; try restarting transaction"}
}

func TestBudgetService_Create_DeadlockRetriedThenConflict(t *testing.T) {
	sqlDB, sm, err := sqlmock.New()
	require.NoError(t, err)
	defer sqlDB.Close()
	gormDB, err := gorm.Open(gormmysql.New(gormmysql.Config{
		Conn:                      sqlDB,
		SkipInitializeWithVersion: true,
	}), &gorm.Config{TranslateError: true})
	require.NoError(t, err)

	owner := uuid.New()
	latest := "SELECT \\* FROM `budgets` WHERE user_id = \\? ORDER BY month DESC LIMIT 1 FOR UPDATE"
	columns := []string{"id", "user_id", "month", "period", "start", "currency", "created_at"}

	// 第一次：两个首次创建都拿到间隙锁，本事务在插入时被选为死锁牺牲者
	sm.ExpectBegin()
	sm.ExpectQuery(latest).WillReturnRows(sqlmock.NewRows(columns))
	sm.ExpectExec("INSERT INTO `budgets`").WillReturnError(deadlockErr())
	sm.ExpectRollback()
	// 第二次：另一方已提交，读到同月预算
	sm.ExpectBegin()
	sm.ExpectQuery(latest).WillReturnRows(sqlmock.NewRows(columns).
		AddRow(uuid.NewString(), owner.String(), testNow, "2026-10", "100.00", int(models.CurrencyUSD), testNow))
	sm.ExpectRollback()

	svc := NewBudgetService(store.New(gormDB)).WithClock(fixedClock)
	_, err = svc.Create(context.Background(), owner, CreateBudgetInput{Amount: dec("10"), Currency: cur(models.CurrencyUSD)})
	require.Error(t, err)
	assert.EqualError(t, err, MsgBudgetExists)
	assert.Equal(t, KindConflict, KindOf(err))
	require.NoError(t, sm.ExpectationsWereMet())
}

func TestBudgetService_Create_DeadlockRetrySucceeds(t *testing.T) {
	ms := &mockStore{}
	owner := uuid.New()
	ms.On("WithinTx").Return()
	ms.On("FindLatestByOwner", owner).Return(nil, nil)
	ms.On("Insert", mock.AnythingOfType("*models.Budget")).
		Return(fmt.Errorf("insert budget: %w", store.ErrDeadlock)).Once()
	ms.On("Insert", mock.AnythingOfType("*models.Budget")).Return(nil).Once()

	svc := NewBudgetService(ms).WithClock(fixedClock)
	b, err := svc.Create(context.Background(), owner, CreateBudgetInput{Amount: dec("10"), Currency: cur(models.CurrencyUSD)})
	require.NoError(t, err)
	assert.Equal(t, "2026-10", b.Period)
	ms.AssertNumberOfCalls(t, "WithinTx", 2)
	ms.AssertNumberOfCalls(t, "Insert", 2)
}

func TestBudgetService_Create_DeadlockGivesUp(t *testing.T) {
	ms := &mockStore{}
	owner := uuid.New()
	ms.On("WithinTx").Return()
	ms.On("FindLatestByOwner", owner).Return(nil, nil)
	ms.On("Insert", mock.AnythingOfType("*models.Budget")).
		Return(fmt.Errorf("insert budget: %w", store.ErrDeadlock))

	svc := NewBudgetService(ms).WithClock(fixedClock)
	_, err := svc.Create(context.Background(), owner, CreateBudgetInput{Amount: dec("10"), Currency: cur(models.CurrencyUSD)})
	assert.ErrorIs(t, err, store.ErrDeadlock)
	ms.AssertNumberOfCalls(t, "WithinTx", createAttempts)
}
