package service

import (
	"bytes"
	"context"
	"fmt"

	"budget/models"
	"budget/store"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/xuri/excelize/v2"
	"golang.org/x/sync/errgroup"
)

// BudgetReport 预算报表：预算、统计、分组合计与全部条目
type BudgetReport struct {
	Budget     models.Budget        `json:"budget"`
	Statistics models.Statistics    `json:"statistics"`
	Groups     []models.GroupTotal  `json:"groups"`
	Entries    []models.BudgetEntry `json:"entries"`
}

// ReportService 生成预算报表并导出
type ReportService struct {
	store store.Store
	email *EmailService
}

// NewReportService 创建报表服务，email 为 nil 时不支持发送邮件
func NewReportService(s store.Store, email *EmailService) *ReportService {
	return &ReportService{store: s, email: email}
}

// Build 校验归属后并发查询统计、分组合计和条目
func (s *ReportService) Build(ctx context.Context, ownerID, budgetID uuid.UUID) (*BudgetReport, error) {
	b, err := ownedBudget(ctx, s.store.Budgets(), ownerID, budgetID)
	if err != nil {
		return nil, err
	}
	report := &BudgetReport{Budget: *b}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		stats, err := statisticsFor(gctx, s.store.Entries(), b)
		report.Statistics = stats
		return err
	})
	g.Go(func() error {
		groups, err := s.store.Entries().SumByGroupForBudget(gctx, b.ID)
		report.Groups = groups
		return err
	})
	g.Go(func() error {
		entries, err := s.store.Entries().ListAll(gctx, b.ID)
		report.Entries = entries
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return report, nil
}

// Excel 将报表渲染为 xlsx：汇总、分组、明细三个工作表
func (r *BudgetReport) Excel() (*bytes.Buffer, error) {
	f := excelize.NewFile()
	defer f.Close()

	headerStyle, err := f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Bold: true, Size: 12, Color: "FFFFFF"},
		Fill:      excelize.Fill{Type: "pattern", Color: []string{"4F81BD"}, Pattern: 1},
		Alignment: &excelize.Alignment{Horizontal: "center", Vertical: "center"},
	})
	if err != nil {
		return nil, err
	}
	moneyStyle, err := f.NewStyle(&excelize.Style{NumFmt: 4}) // #,##0.00
	if err != nil {
		return nil, err
	}

	const summary, groups, entries = "Summary", "Groups", "Entries"
	if err := f.SetSheetName("Sheet1", summary); err != nil {
		return nil, err
	}
	for _, name := range []string{groups, entries} {
		if _, err := f.NewSheet(name); err != nil {
			return nil, err
		}
	}

	w := &sheetWriter{f: f, headerStyle: headerStyle, moneyStyle: moneyStyle}

	// 汇总
	w.header(summary, "Field", "Value")
	w.width(summary, "A", "B", 20)
	w.row(summary, 2, "Month", r.Budget.Month.Format(models.PeriodLayout))
	w.row(summary, 3, "Currency", r.Budget.Currency.String())
	w.row(summary, 4, "Start", r.Statistics.Start)
	w.row(summary, 5, "Total income", r.Statistics.TotalIncome)
	w.row(summary, 6, "Total expense", r.Statistics.TotalExpense)
	w.row(summary, 7, "Balance", r.Statistics.Balance)

	// 分组
	w.header(groups, "Type", "Group", "Count", "Total")
	w.width(groups, "A", "D", 16)
	for i, gt := range r.Groups {
		w.row(groups, i+2, gt.Type.String(), gt.Label, gt.Count, gt.Total)
	}

	// 明细
	w.header(entries, "ID", "Type", "Group", "Amount", "Description", "Created")
	w.width(entries, "A", "A", 38)
	w.width(entries, "B", "D", 14)
	w.width(entries, "E", "E", 40)
	w.width(entries, "F", "F", 20)
	for i, e := range r.Entries {
		label := ""
		if c, err := e.Category(); err == nil {
			label = c.Label()
		}
		desc := ""
		if e.Description != nil {
			desc = *e.Description
		}
		w.row(entries, i+2, e.ID.String(), e.Type.String(), label, e.Amount, desc, e.CreatedAt.Format("2006-01-02 15:04:05"))
	}
	if w.err != nil {
		return nil, fmt.Errorf("fill xlsx: %w", w.err)
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("write xlsx: %w", err)
	}
	return buf, nil
}

// sheetWriter 记录第一个写入错误，之后的写入直接跳过
type sheetWriter struct {
	f           *excelize.File
	headerStyle int
	moneyStyle  int
	err         error
}

func (w *sheetWriter) header(sheet string, headers ...string) {
	cells := make([]interface{}, len(headers))
	for i, h := range headers {
		cells[i] = h
	}
	w.setRow(sheet, 1, cells)
	if w.err != nil {
		return
	}
	last, err := excelize.CoordinatesToCellName(len(headers), 1)
	if err != nil {
		w.err = err
		return
	}
	w.err = w.f.SetCellStyle(sheet, "A1", last, w.headerStyle)
}

// row 从 A 列开始写一行，decimal 金额按数字写入并套用金额格式
func (w *sheetWriter) row(sheet string, n int, values ...interface{}) {
	cells := make([]interface{}, len(values))
	var moneyCols []int
	for i, v := range values {
		if d, ok := v.(decimal.Decimal); ok {
			cells[i] = d.InexactFloat64()
			moneyCols = append(moneyCols, i+1)
			continue
		}
		cells[i] = v
	}
	w.setRow(sheet, n, cells)
	for _, col := range moneyCols {
		if w.err != nil {
			return
		}
		cell, err := excelize.CoordinatesToCellName(col, n)
		if err != nil {
			w.err = err
			return
		}
		w.err = w.f.SetCellStyle(sheet, cell, cell, w.moneyStyle)
	}
}

func (w *sheetWriter) setRow(sheet string, n int, cells []interface{}) {
	if w.err != nil {
		return
	}
	cell, err := excelize.CoordinatesToCellName(1, n)
	if err != nil {
		w.err = err
		return
	}
	w.err = w.f.SetSheetRow(sheet, cell, &cells)
}

func (w *sheetWriter) width(sheet, startCol, endCol string, width float64) {
	if w.err != nil {
		return
	}
	w.err = w.f.SetColWidth(sheet, startCol, endCol, width)
}

// Email 生成报表并发送到 to
func (s *ReportService) Email(ctx context.Context, ownerID, budgetID uuid.UUID, to string) error {
	if s.email == nil {
		return ErrEmailDisabled
	}
	report, err := s.Build(ctx, ownerID, budgetID)
	if err != nil {
		return err
	}
	return s.email.SendBudgetReport(to, report)
}
