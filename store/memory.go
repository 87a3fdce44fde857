package store

import (
	"context"
	"sort"
	"sync"
	"time"

	"budget/models"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type memData struct {
	users   map[uuid.UUID]models.User
	budgets map[uuid.UUID]models.Budget
	entries map[uuid.UUID]models.BudgetEntry
}

func (d *memData) clone() *memData {
	c := &memData{
		users:   make(map[uuid.UUID]models.User, len(d.users)),
		budgets: make(map[uuid.UUID]models.Budget, len(d.budgets)),
		entries: make(map[uuid.UUID]models.BudgetEntry, len(d.entries)),
	}
	for k, v := range d.users {
		c.users[k] = v
	}
	for k, v := range d.budgets {
		c.budgets[k] = v
	}
	for k, v := range d.entries {
		c.entries[k] = v
	}
	return c
}

// MemoryStore 内存实现，用于本地演示和测试。
// 唯一约束与 MySQL 一致：同一用户同一 period 只能有一条预算，邮箱唯一。
type MemoryStore struct {
	mu     *sync.Mutex
	data   **memData
	locked bool
	now    func() time.Time
}

// NewMemory 创建空的内存存储
func NewMemory() *MemoryStore {
	d := &memData{
		users:   map[uuid.UUID]models.User{},
		budgets: map[uuid.UUID]models.Budget{},
		entries: map[uuid.UUID]models.BudgetEntry{},
	}
	return &MemoryStore{mu: &sync.Mutex{}, data: &d, now: time.Now}
}

// WithClock 替换写入 created_at 时使用的时钟
func (m *MemoryStore) WithClock(now func() time.Time) *MemoryStore {
	m.now = now
	return m
}

func (m *MemoryStore) Budgets() BudgetStore { return memBudgets{m} }
func (m *MemoryStore) Entries() EntryStore  { return memEntries{m} }
func (m *MemoryStore) Users() UserStore     { return memUsers{m} }

// WithinTx 持有全局锁执行 fn，出错时恢复快照
func (m *MemoryStore) WithinTx(ctx context.Context, fn func(tx Store) error) error {
	if m.locked {
		return fn(m)
	}
	m.mu.Lock()
	defer m.mu.Unlock()

	snapshot := (*m.data).clone()
	tx := &MemoryStore{mu: m.mu, data: m.data, locked: true, now: m.now}
	if err := fn(tx); err != nil {
		*m.data = snapshot
		return err
	}
	return nil
}

func (m *MemoryStore) do(fn func(d *memData) error) error {
	if !m.locked {
		m.mu.Lock()
		defer m.mu.Unlock()
	}
	return fn(*m.data)
}

type memBudgets struct{ m *MemoryStore }

func (r memBudgets) FindLatestByOwner(_ context.Context, ownerID uuid.UUID) (*models.Budget, error) {
	var latest *models.Budget
	err := r.m.do(func(d *memData) error {
		for _, b := range d.budgets {
			if b.UserID != ownerID {
				continue
			}
			if latest == nil || b.Month.After(latest.Month) {
				b := b
				latest = &b
			}
		}
		return nil
	})
	return latest, err
}

func (r memBudgets) FindByID(_ context.Context, id uuid.UUID) (*models.Budget, error) {
	var out *models.Budget
	err := r.m.do(func(d *memData) error {
		if b, ok := d.budgets[id]; ok {
			out = &b
		}
		return nil
	})
	return out, err
}

func (r memBudgets) Insert(_ context.Context, b *models.Budget) error {
	return r.m.do(func(d *memData) error {
		if err := b.BeforeCreate(nil); err != nil {
			return err
		}
		for _, other := range d.budgets {
			if other.UserID == b.UserID && other.Period == b.Period {
				return ErrDuplicate
			}
		}
		if b.CreatedAt.IsZero() {
			b.CreatedAt = r.m.now()
		}
		d.budgets[b.ID] = *b
		return nil
	})
}

type memEntries struct{ m *MemoryStore }

func (r memEntries) SumByTypeForBudget(_ context.Context, budgetID uuid.UUID) (Totals, error) {
	t := Totals{Income: decimal.Zero, Expense: decimal.Zero}
	err := r.m.do(func(d *memData) error {
		for _, e := range d.entries {
			if e.BudgetID != budgetID {
				continue
			}
			switch e.Type {
			case models.EntryTypeIncome:
				t.Income = t.Income.Add(e.Amount)
			case models.EntryTypeExpense:
				t.Expense = t.Expense.Add(e.Amount)
			}
		}
		return nil
	})
	return t, err
}

func (r memEntries) SumByGroupForBudget(_ context.Context, budgetID uuid.UUID) ([]models.GroupTotal, error) {
	type key struct {
		t models.EntryType
		g int16
	}
	sums := map[key]*models.GroupTotal{}
	err := r.m.do(func(d *memData) error {
		for _, e := range d.entries {
			if e.BudgetID != budgetID {
				continue
			}
			k := key{e.Type, e.GroupType}
			gt, ok := sums[k]
			if !ok {
				gt = &models.GroupTotal{Type: e.Type, GroupType: e.GroupType, Total: decimal.Zero}
				if c, err := e.Category(); err == nil {
					gt.Label = c.Label()
				}
				sums[k] = gt
			}
			gt.Count++
			gt.Total = gt.Total.Add(e.Amount)
		}
		return nil
	})
	out := make([]models.GroupTotal, 0, len(sums))
	for _, gt := range sums {
		out = append(out, *gt)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Type != out[j].Type {
			return out[i].Type < out[j].Type
		}
		return out[i].GroupType < out[j].GroupType
	})
	return out, err
}

func (r memEntries) Insert(_ context.Context, e *models.BudgetEntry) error {
	return r.m.do(func(d *memData) error {
		if err := e.BeforeCreate(nil); err != nil {
			return err
		}
		if e.CreatedAt.IsZero() {
			e.CreatedAt = r.m.now()
		}
		d.entries[e.ID] = *e
		return nil
	})
}

func (r memEntries) Update(_ context.Context, e *models.BudgetEntry) error {
	return r.m.do(func(d *memData) error {
		cur, ok := d.entries[e.ID]
		if !ok || cur.BudgetID != e.BudgetID {
			return ErrNotFound
		}
		cur.Description = e.Description
		cur.Amount = e.Amount
		cur.Type = e.Type
		cur.GroupType = e.GroupType
		d.entries[e.ID] = cur
		*e = cur
		return nil
	})
}

func (r memEntries) Delete(_ context.Context, budgetID, entryID uuid.UUID) (*models.BudgetEntry, error) {
	var out *models.BudgetEntry
	err := r.m.do(func(d *memData) error {
		cur, ok := d.entries[entryID]
		if !ok || cur.BudgetID != budgetID {
			return ErrNotFound
		}
		delete(d.entries, entryID)
		out = &cur
		return nil
	})
	return out, err
}

func (r memEntries) sorted(budgetID uuid.UUID) []models.BudgetEntry {
	var list []models.BudgetEntry
	for _, e := range (*r.m.data).entries {
		if e.BudgetID == budgetID {
			list = append(list, e)
		}
	}
	sort.SliceStable(list, func(i, j int) bool {
		return list[i].CreatedAt.After(list[j].CreatedAt)
	})
	return list
}

func (r memEntries) ListPaged(_ context.Context, budgetID uuid.UUID, limit, offset int) ([]models.BudgetEntry, int64, error) {
	var (
		page  []models.BudgetEntry
		total int64
	)
	err := r.m.do(func(*memData) error {
		list := r.sorted(budgetID)
		total = int64(len(list))
		if offset >= len(list) {
			page = []models.BudgetEntry{}
			return nil
		}
		end := offset + limit
		if end > len(list) {
			end = len(list)
		}
		page = append([]models.BudgetEntry{}, list[offset:end]...)
		return nil
	})
	return page, total, err
}

func (r memEntries) ListAll(_ context.Context, budgetID uuid.UUID) ([]models.BudgetEntry, error) {
	var list []models.BudgetEntry
	err := r.m.do(func(*memData) error {
		list = r.sorted(budgetID)
		return nil
	})
	return list, err
}

type memUsers struct{ m *MemoryStore }

func (r memUsers) FindByEmail(_ context.Context, email string) (*models.User, error) {
	var out *models.User
	err := r.m.do(func(d *memData) error {
		for _, u := range d.users {
			if u.Email == email {
				u := u
				out = &u
				break
			}
		}
		return nil
	})
	return out, err
}

func (r memUsers) FindByID(_ context.Context, id uuid.UUID) (*models.User, error) {
	var out *models.User
	err := r.m.do(func(d *memData) error {
		if u, ok := d.users[id]; ok {
			out = &u
		}
		return nil
	})
	return out, err
}

func (r memUsers) Insert(_ context.Context, u *models.User) error {
	return r.m.do(func(d *memData) error {
		if err := u.BeforeCreate(nil); err != nil {
			return err
		}
		for _, other := range d.users {
			if other.Email == u.Email {
				return ErrDuplicate
			}
		}
		if u.CreatedAt.IsZero() {
			u.CreatedAt = r.m.now()
		}
		d.users[u.ID] = *u
		return nil
	})
}

func (r memUsers) Count(context.Context) (int64, error) {
	var n int64
	err := r.m.do(func(d *memData) error {
		n = int64(len(d.users))
		return nil
	})
	return n, err
}
