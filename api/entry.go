package api

import (
	"budget/middleware"
	"budget/models"
	"budget/service"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
)

// EntryHandler 预算条目处理器
type EntryHandler struct {
	entries *service.EntryService
}

// NewEntryHandler 创建条目处理器
func NewEntryHandler(entries *service.EntryService) *EntryHandler {
	return &EntryHandler{entries: entries}
}

// EntryRequest 新增或编辑条目请求
type EntryRequest struct {
	Type        models.EntryType `json:"type" swaggertype:"integer" example:"2"`
	GroupType   int16            `json:"groupType" example:"1"`
	Amount      decimal.Decimal  `json:"amount" swaggertype:"number" example:"12.50"`
	Description *string          `json:"description" example:"Groceries"`
}

func (r EntryRequest) input() service.EntryInput {
	return service.EntryInput{
		Type:        r.Type,
		GroupType:   r.GroupType,
		Amount:      r.Amount,
		Description: r.Description,
	}
}

// ListQuery 分页参数
type ListQuery struct {
	Limit  int `form:"limit" example:"10"`
	Offset int `form:"offset" example:"0"`
}

// List 条目列表
// @Summary 条目列表
// @Description 按创建时间倒序分页，limit 限制在 10 到 100 之间
// @Tags 条目
// @Produce json
// @Security BearerAuth
// @Param id path string true "预算 ID"
// @Param limit query int false "每页条数" default(10)
// @Param offset query int false "偏移量" default(0)
// @Success 200 {object} Response{data=PageResponse{list=[]models.BudgetEntry}}
// @Failure 404 {object} Response "预算不存在"
// @Router /budgets/{id}/entries [get]
func (h *EntryHandler) List(c *gin.Context) {
	budgetID, ok := pathUUID(c, "id", service.MsgBudgetNotFound)
	if !ok {
		return
	}
	var q ListQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		BadRequest(c, "Invalid query: "+err.Error())
		return
	}
	page, err := h.entries.List(c.Request.Context(), middleware.GetCurrentUserID(c), budgetID, service.Page{Limit: q.Limit, Offset: q.Offset})
	if err != nil {
		renderError(c, err, "Failed to list entries")
		return
	}
	Success(c, PageResponse{
		Total:  page.Total,
		Limit:  page.Limit,
		Offset: page.Offset,
		List:   page.Entries,
	})
}

// Create 新增条目
// @Summary 新增条目
// @Tags 条目
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "预算 ID"
// @Param request body EntryRequest true "条目信息"
// @Success 201 {object} Response{data=models.BudgetEntry}
// @Failure 400 {object} Response "请求参数错误"
// @Failure 404 {object} Response "预算不存在"
// @Router /budgets/{id}/entries [post]
func (h *EntryHandler) Create(c *gin.Context) {
	budgetID, ok := pathUUID(c, "id", service.MsgBudgetNotFound)
	if !ok {
		return
	}
	var req EntryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, "Invalid request: "+err.Error())
		return
	}
	e, err := h.entries.Create(c.Request.Context(), middleware.GetCurrentUserID(c), budgetID, req.input())
	if err != nil {
		renderError(c, err, "Failed to create entry")
		return
	}
	Created(c, e)
}

// Update 编辑条目
// @Summary 编辑条目
// @Tags 条目
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "预算 ID"
// @Param entryId path string true "条目 ID"
// @Param request body EntryRequest true "条目信息"
// @Success 200 {object} Response{data=models.BudgetEntry}
// @Failure 400 {object} Response "请求参数错误"
// @Failure 404 {object} Response "预算或条目不存在"
// @Router /budgets/{id}/entries/{entryId} [put]
func (h *EntryHandler) Update(c *gin.Context) {
	budgetID, ok := pathUUID(c, "id", service.MsgBudgetNotFound)
	if !ok {
		return
	}
	entryID, ok := pathUUID(c, "entryId", service.MsgEntryNotFound)
	if !ok {
		return
	}
	var req EntryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, "Invalid request: "+err.Error())
		return
	}
	e, err := h.entries.Update(c.Request.Context(), middleware.GetCurrentUserID(c), budgetID, entryID, req.input())
	if err != nil {
		renderError(c, err, "Failed to update entry")
		return
	}
	Success(c, e)
}

// Delete 删除条目
// @Summary 删除条目
// @Tags 条目
// @Produce json
// @Security BearerAuth
// @Param id path string true "预算 ID"
// @Param entryId path string true "条目 ID"
// @Success 200 {object} Response{data=models.BudgetEntry}
// @Failure 404 {object} Response "预算或条目不存在"
// @Router /budgets/{id}/entries/{entryId} [delete]
func (h *EntryHandler) Delete(c *gin.Context) {
	budgetID, ok := pathUUID(c, "id", service.MsgBudgetNotFound)
	if !ok {
		return
	}
	entryID, ok := pathUUID(c, "entryId", service.MsgEntryNotFound)
	if !ok {
		return
	}
	e, err := h.entries.Delete(c.Request.Context(), middleware.GetCurrentUserID(c), budgetID, entryID)
	if err != nil {
		renderError(c, err, "Failed to delete entry")
		return
	}
	Success(c, e)
}
