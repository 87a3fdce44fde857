package service

import (
	"context"
	"errors"
	"time"

	"budget/logger"
	"budget/metrics"
	"budget/models"
	"budget/store"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// CreateBudgetInput 创建预算的参数，UsePrevious 为 true 时 Amount 和 Currency 会被上月数据覆盖
type CreateBudgetInput struct {
	Amount      *decimal.Decimal
	Currency    *models.Currency
	UsePrevious bool
}

// Validate 校验参数形状，不访问存储
func (in CreateBudgetInput) Validate() error {
	if in.UsePrevious {
		return nil
	}
	if in.Amount == nil || in.Currency == nil {
		return validationf("amount and currency are required when usePrevious is false")
	}
	if !models.IsMoney(*in.Amount) {
		return validationf("amount must be a positive number with at most 2 decimal places")
	}
	if !in.Currency.Valid() {
		return validationf("unsupported currency %d", *in.Currency)
	}
	return nil
}

// BudgetService 负责预算的创建和统计
type BudgetService struct {
	store store.Store
	now   func() time.Time
}

// NewBudgetService 创建预算服务
func NewBudgetService(s store.Store) *BudgetService {
	return &BudgetService{store: s, now: time.Now}
}

// WithClock 替换时钟，供测试使用
func (s *BudgetService) WithClock(now func() time.Time) *BudgetService {
	s.now = now
	return s
}

// Current 返回用户最近的预算，没有时返回 nil
func (s *BudgetService) Current(ctx context.Context, ownerID uuid.UUID) (*models.Budget, error) {
	return s.store.Budgets().FindLatestByOwner(ctx, ownerID)
}

// Statistics 校验预算归属后计算统计
func (s *BudgetService) Statistics(ctx context.Context, ownerID, budgetID uuid.UUID) (models.Statistics, error) {
	b, err := ownedBudget(ctx, s.store.Budgets(), ownerID, budgetID)
	if err != nil {
		return models.Statistics{}, err
	}
	return statisticsFor(ctx, s.store.Entries(), b)
}

// ComputeStatistics 计算预算的收入、支出合计与余额，预算不存在时返回 NotFound
func (s *BudgetService) ComputeStatistics(ctx context.Context, budgetID uuid.UUID) (models.Statistics, error) {
	return computeStatistics(ctx, s.store, budgetID)
}

func computeStatistics(ctx context.Context, st store.Store, budgetID uuid.UUID) (models.Statistics, error) {
	b, err := st.Budgets().FindByID(ctx, budgetID)
	if err != nil {
		return models.Statistics{}, err
	}
	if b == nil {
		return models.Statistics{}, notFound(MsgBudgetNotFound)
	}
	return statisticsFor(ctx, st.Entries(), b)
}

func statisticsFor(ctx context.Context, entries store.EntryStore, b *models.Budget) (models.Statistics, error) {
	totals, err := entries.SumByTypeForBudget(ctx, b.ID)
	if err != nil {
		return models.Statistics{}, err
	}
	metrics.StatisticsComputed.Inc()
	return models.NewStatistics(totals.Income, totals.Expense, b.StartAmount()), nil
}

// Create 为当前月份创建预算。
//
// 同一用户在同一月份（只比较月份）已有最新预算时返回 Conflict；UsePrevious 时以最新预算的余额和币种作为起始值。
// 注意“最新预算”被当作“上月预算”，并不校验它是否恰好是上一个自然月。
// 检查和插入在同一事务中完成，并由 (user_id, period) 唯一索引兜底，并发创建只会有一个成功。
func (s *BudgetService) Create(ctx context.Context, ownerID uuid.UUID, in CreateBudgetInput) (*models.Budget, error) {
	if err := in.Validate(); err != nil {
		return nil, err
	}
	log := logger.FromContext(ctx)
	now := s.now()

	var (
		created *models.Budget
		err     error
	)
	for attempt := 1; attempt <= createAttempts; attempt++ {
		created, err = s.createTx(ctx, ownerID, in, now)
		if !errors.Is(err, store.ErrDeadlock) {
			break
		}
		log.Warn().Err(err).Int("attempt", attempt).Str("owner_id", ownerID.String()).Msg("budget create deadlocked")
	}
	if err != nil {
		return nil, err
	}

	carry := "false"
	if in.UsePrevious {
		carry = "true"
	}
	metrics.BudgetsCreated.WithLabelValues(carry).Inc()
	log.Info().
		Str("budget_id", created.ID.String()).
		Str("owner_id", ownerID.String()).
		Str("period", created.Period).
		Bool("carry_forward", in.UsePrevious).
		Msg("budget created")
	return created, nil
}

// createAttempts 死锁时整个事务最多执行的次数。
// 首次创建的并发事务会在 (user_id, period) 索引的同一间隙上加锁，插入时可能被 InnoDB 判定死锁；
// 重试时能读到胜出方已提交的行，从而得到正常的 Conflict。
const createAttempts = 3

func (s *BudgetService) createTx(ctx context.Context, ownerID uuid.UUID, in CreateBudgetInput, now time.Time) (*models.Budget, error) {
	var created *models.Budget
	err := s.store.WithinTx(ctx, func(tx store.Store) error {
		current, err := tx.Budgets().FindLatestByOwner(ctx, ownerID)
		if err != nil {
			return err
		}
		if current != nil && current.SameMonthOfYear(now) {
			metrics.BudgetConflicts.WithLabelValues(metrics.ReasonMonthTaken).Inc()
			return conflict(MsgBudgetExists)
		}

		b := &models.Budget{
			UserID: ownerID,
			Month:  now,
			Period: models.PeriodOf(now),
		}
		if in.UsePrevious {
			if current == nil {
				metrics.BudgetConflicts.WithLabelValues(metrics.ReasonNoPrevious).Inc()
				return conflict(MsgNoPreviousBudget)
			}
			stats, err := computeStatistics(ctx, tx, current.ID)
			if err != nil {
				return err
			}
			b.Start = decimal.NewNullDecimal(stats.Balance)
			b.Currency = current.Currency
		} else {
			b.Start = decimal.NewNullDecimal(in.Amount.Round(models.MoneyScale))
			b.Currency = *in.Currency
		}

		if err := tx.Budgets().Insert(ctx, b); err != nil {
			if errors.Is(err, store.ErrDuplicate) {
				metrics.BudgetConflicts.WithLabelValues(metrics.ReasonMonthTaken).Inc()
				return conflict(MsgBudgetExists)
			}
			return err
		}
		created = b
		return nil
	})
	return created, err
}

// ownedBudget 查询预算并确认属于 ownerID，否则返回 NotFound
func ownedBudget(ctx context.Context, budgets store.BudgetStore, ownerID, budgetID uuid.UUID) (*models.Budget, error) {
	b, err := budgets.FindByID(ctx, budgetID)
	if err != nil {
		return nil, err
	}
	if b == nil || b.UserID != ownerID {
		return nil, notFound(MsgBudgetNotFound)
	}
	return b, nil
}
