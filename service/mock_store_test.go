package service

import (
	"context"

	"budget/models"
	"budget/store"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"
)

// mockStore 未设置期望的调用会直接 panic，用于断言没有访问存储
type mockStore struct {
	mock.Mock
}

func (m *mockStore) Budgets() store.BudgetStore { return &mockBudgets{m} }
func (m *mockStore) Entries() store.EntryStore  { return m.Called().Get(0).(store.EntryStore) }
func (m *mockStore) Users() store.UserStore     { return m.Called().Get(0).(store.UserStore) }

func (m *mockStore) WithinTx(ctx context.Context, fn func(tx store.Store) error) error {
	m.Called()
	return fn(m)
}

type mockBudgets struct{ m *mockStore }

func (b *mockBudgets) FindLatestByOwner(ctx context.Context, ownerID uuid.UUID) (*models.Budget, error) {
	args := b.m.Called(ownerID)
	budget, _ := args.Get(0).(*models.Budget)
	return budget, args.Error(1)
}

func (b *mockBudgets) FindByID(ctx context.Context, id uuid.UUID) (*models.Budget, error) {
	args := b.m.Called(id)
	budget, _ := args.Get(0).(*models.Budget)
	return budget, args.Error(1)
}

func (b *mockBudgets) Insert(ctx context.Context, budget *models.Budget) error {
	return b.m.Called(budget).Error(0)
}
