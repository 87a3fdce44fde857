package service

import (
	"context"
	"errors"
	"unicode/utf8"

	"budget/logger"
	"budget/models"
	"budget/store"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// 分页参数范围
const (
	DefaultEntryLimit = 10
	MinEntryLimit     = 10
	MaxEntryLimit     = 100
)

// EntryInput 创建或编辑条目的参数
type EntryInput struct {
	Type        models.EntryType
	GroupType   int16
	Amount      decimal.Decimal
	Description *string
}

// Validate 校验参数并返回对应的分类
func (in EntryInput) Validate() (models.Category, error) {
	category, err := models.NewCategory(in.Type, in.GroupType)
	if err != nil {
		return nil, validationf("%s", err.Error())
	}
	if !models.IsMoney(in.Amount) {
		return nil, validationf("amount must be a positive number with at most 2 decimal places")
	}
	if in.Description != nil && utf8.RuneCountInString(*in.Description) > models.DescriptionMaxLen {
		return nil, validationf("description must be at most %d characters", models.DescriptionMaxLen)
	}
	return category, nil
}

// Page 分页参数
type Page struct {
	Limit  int
	Offset int
}

// Normalize 将 limit 限制在 [10, 100]，未传时为 10；offset 不小于 0
func (p Page) Normalize() Page {
	switch {
	case p.Limit <= 0:
		p.Limit = DefaultEntryLimit
	case p.Limit < MinEntryLimit:
		p.Limit = MinEntryLimit
	case p.Limit > MaxEntryLimit:
		p.Limit = MaxEntryLimit
	}
	if p.Offset < 0 {
		p.Offset = 0
	}
	return p
}

// EntryPage 条目分页结果
type EntryPage struct {
	Entries []models.BudgetEntry
	Total   int64
	Limit   int
	Offset  int
}

// EntryService 预算条目的增删改查，所有操作都要求预算属于调用者
type EntryService struct {
	store store.Store
}

// NewEntryService 创建条目服务
func NewEntryService(s store.Store) *EntryService {
	return &EntryService{store: s}
}

// Create 在预算下新增条目
func (s *EntryService) Create(ctx context.Context, ownerID, budgetID uuid.UUID, in EntryInput) (*models.BudgetEntry, error) {
	category, err := in.Validate()
	if err != nil {
		return nil, err
	}
	if _, err := ownedBudget(ctx, s.store.Budgets(), ownerID, budgetID); err != nil {
		return nil, err
	}
	e := &models.BudgetEntry{
		BudgetID:    budgetID,
		Description: in.Description,
		Amount:      in.Amount.Round(models.MoneyScale),
	}
	e.SetCategory(category)
	if err := s.store.Entries().Insert(ctx, e); err != nil {
		return nil, err
	}
	logger.FromContext(ctx).Debug().
		Str("budget_id", budgetID.String()).
		Str("entry_id", e.ID.String()).
		Msg("entry created")
	return e, nil
}

// Update 编辑条目，条目必须属于该预算
func (s *EntryService) Update(ctx context.Context, ownerID, budgetID, entryID uuid.UUID, in EntryInput) (*models.BudgetEntry, error) {
	category, err := in.Validate()
	if err != nil {
		return nil, err
	}
	if _, err := ownedBudget(ctx, s.store.Budgets(), ownerID, budgetID); err != nil {
		return nil, err
	}
	e := &models.BudgetEntry{
		ID:          entryID,
		BudgetID:    budgetID,
		Description: in.Description,
		Amount:      in.Amount.Round(models.MoneyScale),
	}
	e.SetCategory(category)
	if err := s.store.Entries().Update(ctx, e); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, notFound(MsgEntryNotFound)
		}
		return nil, err
	}
	return e, nil
}

// Delete 按 (budgetID, entryID) 删除条目并返回被删除的条目
func (s *EntryService) Delete(ctx context.Context, ownerID, budgetID, entryID uuid.UUID) (*models.BudgetEntry, error) {
	if _, err := ownedBudget(ctx, s.store.Budgets(), ownerID, budgetID); err != nil {
		return nil, err
	}
	e, err := s.store.Entries().Delete(ctx, budgetID, entryID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, notFound(MsgEntryNotFound)
		}
		return nil, err
	}
	return e, nil
}

// List 按创建时间倒序分页查询，Total 为该预算下的条目总数
func (s *EntryService) List(ctx context.Context, ownerID, budgetID uuid.UUID, page Page) (*EntryPage, error) {
	if _, err := ownedBudget(ctx, s.store.Budgets(), ownerID, budgetID); err != nil {
		return nil, err
	}
	page = page.Normalize()
	list, total, err := s.store.Entries().ListPaged(ctx, budgetID, page.Limit, page.Offset)
	if err != nil {
		return nil, err
	}
	return &EntryPage{Entries: list, Total: total, Limit: page.Limit, Offset: page.Offset}, nil
}
