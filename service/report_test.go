package service

import (
	"context"
	"testing"

	"budget/models"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

func TestReportService_Build(t *testing.T) {
	f := newEntryFixture(t)
	ctx := context.Background()
	seedEntry(t, f.mem, f.budget.ID, models.IncomeSalary, "500")
	seedEntry(t, f.mem, f.budget.ID, models.ExpenseFood, "20.25")
	seedEntry(t, f.mem, f.budget.ID, models.ExpenseFood, "9.75")

	svc := NewReportService(f.mem, nil)
	r, err := svc.Build(ctx, f.owner, f.budget.ID)
	require.NoError(t, err)

	assert.Equal(t, f.budget.ID, r.Budget.ID)
	assert.Equal(t, "570.00", r.Statistics.Balance.StringFixed(2))
	require.Len(t, r.Groups, 2)
	assert.Equal(t, "Food", r.Groups[1].Label)
	assert.Equal(t, int64(2), r.Groups[1].Count)
	assert.Equal(t, "30.00", r.Groups[1].Total.StringFixed(2))
	assert.Len(t, r.Entries, 3)

	_, err = svc.Build(ctx, uuid.New(), f.budget.ID)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestBudgetReport_Excel(t *testing.T) {
	f := newEntryFixture(t)
	seedEntry(t, f.mem, f.budget.ID, models.IncomeGifts, "42")

	r, err := NewReportService(f.mem, nil).Build(context.Background(), f.owner, f.budget.ID)
	require.NoError(t, err)

	buf, err := r.Excel()
	require.NoError(t, err)

	wb, err := excelize.OpenReader(buf)
	require.NoError(t, err)
	defer wb.Close()

	assert.Equal(t, []string{"Summary", "Groups", "Entries"}, wb.GetSheetList())

	month, err := wb.GetCellValue("Summary", "B2")
	require.NoError(t, err)
	assert.Equal(t, "2026-10", month)

	label, err := wb.GetCellValue("Groups", "B2")
	require.NoError(t, err)
	assert.Equal(t, "Gifts", label)

	rows, err := wb.GetRows("Entries")
	require.NoError(t, err)
	assert.Len(t, rows, 2)

	summary, err := wb.GetRows("Summary")
	require.NoError(t, err)
	require.Len(t, summary, 7)
	assert.Equal(t, "Balance", summary[6][0])
}

func TestSheetWriter_StopsAtFirstError(t *testing.T) {
	f := excelize.NewFile()
	defer f.Close()
	w := &sheetWriter{f: f}

	w.row("Sheet1", 1, "ok", decimal.RequireFromString("1.5"))
	require.NoError(t, w.err)

	w.row("Missing", 2, "lost")
	require.Error(t, w.err)
	first := w.err

	w.width("Sheet1", "A", "A", 10)
	w.header("Sheet1", "later")
	w.row("Sheet1", 3, "skipped")
	assert.Equal(t, first, w.err)

	v, err := f.GetCellValue("Sheet1", "A3")
	require.NoError(t, err)
	assert.Empty(t, v)
	v, err = f.GetCellValue("Sheet1", "A1")
	require.NoError(t, err)
	assert.Equal(t, "ok", v)
}

func TestReportService_Email_Disabled(t *testing.T) {
	f := newEntryFixture(t)
	err := NewReportService(f.mem, nil).Email(context.Background(), f.owner, f.budget.ID, "someone@example.com")
	assert.ErrorIs(t, err, ErrEmailDisabled)
}
