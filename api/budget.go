package api

import (
	"errors"
	"fmt"
	"net/http"

	"budget/middleware"
	"budget/models"
	"budget/service"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
)

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

// BudgetHandler 预算处理器
type BudgetHandler struct {
	budgets *service.BudgetService
	reports *service.ReportService
}

// NewBudgetHandler 创建预算处理器
func NewBudgetHandler(budgets *service.BudgetService, reports *service.ReportService) *BudgetHandler {
	return &BudgetHandler{budgets: budgets, reports: reports}
}

// CreateBudgetRequest 创建预算请求，usePrevious 为 true 时忽略 amount 和 currency
type CreateBudgetRequest struct {
	Amount      *decimal.Decimal `json:"amount" swaggertype:"number" example:"1500.00"`
	Currency    *models.Currency `json:"currency" swaggertype:"integer" example:"1"`
	UsePrevious bool             `json:"usePrevious" example:"false"`
}

// Current 最近的预算
// @Summary 当前预算
// @Description 返回用户最近一个月的预算，没有时 data 为 null
// @Tags 预算
// @Produce json
// @Security BearerAuth
// @Success 200 {object} Response{data=models.Budget}
// @Router /budgets/current [get]
func (h *BudgetHandler) Current(c *gin.Context) {
	b, err := h.budgets.Current(c.Request.Context(), middleware.GetCurrentUserID(c))
	if err != nil {
		renderError(c, err, "Failed to load budget")
		return
	}
	c.JSON(http.StatusOK, Response{Code: http.StatusOK, Message: "success", Data: b})
}

// Create 创建本月预算
// @Summary 创建预算
// @Description 为当前月份创建预算，usePrevious 时以上一个预算的余额和币种作为起始值
// @Tags 预算
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body CreateBudgetRequest true "预算信息"
// @Success 201 {object} Response{data=models.Budget}
// @Failure 400 {object} Response "请求参数错误"
// @Failure 409 {object} Response "本月已创建或没有可沿用的预算"
// @Router /budgets [post]
func (h *BudgetHandler) Create(c *gin.Context) {
	var req CreateBudgetRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, "Invalid request: "+err.Error())
		return
	}
	b, err := h.budgets.Create(c.Request.Context(), middleware.GetCurrentUserID(c), service.CreateBudgetInput{
		Amount:      req.Amount,
		Currency:    req.Currency,
		UsePrevious: req.UsePrevious,
	})
	if err != nil {
		renderError(c, err, "Failed to create budget")
		return
	}
	Created(c, b)
}

// Stats 预算统计
// @Summary 预算统计
// @Tags 预算
// @Produce json
// @Security BearerAuth
// @Param id path string true "预算 ID"
// @Success 200 {object} Response{data=models.Statistics}
// @Failure 404 {object} Response "预算不存在"
// @Router /budgets/{id}/stats [get]
func (h *BudgetHandler) Stats(c *gin.Context) {
	id, ok := pathUUID(c, "id", service.MsgBudgetNotFound)
	if !ok {
		return
	}
	stats, err := h.budgets.Statistics(c.Request.Context(), middleware.GetCurrentUserID(c), id)
	if err != nil {
		renderError(c, err, "Failed to compute statistics")
		return
	}
	Success(c, stats)
}

// ExportExcel 导出预算报表
// @Summary 导出 Excel
// @Tags 预算
// @Produce application/vnd.openxmlformats-officedocument.spreadsheetml.sheet
// @Security BearerAuth
// @Param id path string true "预算 ID"
// @Success 200 {file} file "xlsx 文件"
// @Failure 404 {object} Response "预算不存在"
// @Router /budgets/{id}/export/excel [get]
func (h *BudgetHandler) ExportExcel(c *gin.Context) {
	id, ok := pathUUID(c, "id", service.MsgBudgetNotFound)
	if !ok {
		return
	}
	report, err := h.reports.Build(c.Request.Context(), middleware.GetCurrentUserID(c), id)
	if err != nil {
		renderError(c, err, "Failed to build report")
		return
	}
	buf, err := report.Excel()
	if err != nil {
		renderError(c, err, "Failed to export report")
		return
	}
	filename := fmt.Sprintf("budget_%s.xlsx", report.Budget.Month.Format(models.PeriodLayout))
	c.Header("Content-Disposition", fmt.Sprintf(`attachment; filename="%s"`, filename))
	c.Data(http.StatusOK, xlsxContentType, buf.Bytes())
}

// EmailReport 将预算报表发送到当前用户邮箱
// @Summary 邮件发送报表
// @Tags 预算
// @Produce json
// @Security BearerAuth
// @Param id path string true "预算 ID"
// @Success 200 {object} Response
// @Failure 404 {object} Response "预算不存在"
// @Failure 503 {object} Response "邮件服务未启用"
// @Router /budgets/{id}/report/email [post]
func (h *BudgetHandler) EmailReport(c *gin.Context) {
	id, ok := pathUUID(c, "id", service.MsgBudgetNotFound)
	if !ok {
		return
	}
	to := c.GetString(middleware.ContextEmailKey)
	if to == "" {
		Unauthorized(c, "Unauthorized")
		return
	}
	err := h.reports.Email(c.Request.Context(), middleware.GetCurrentUserID(c), id, to)
	if errors.Is(err, service.ErrEmailDisabled) {
		Error(c, http.StatusServiceUnavailable, "Email service is disabled")
		return
	}
	if err != nil {
		renderError(c, err, "Failed to send report")
		return
	}
	c.JSON(http.StatusOK, Response{Code: http.StatusOK, Message: "Report sent"})
}
