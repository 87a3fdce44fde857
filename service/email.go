package service

import (
	"bytes"
	"errors"
	"fmt"
	"html/template"
	"io"

	"budget/config"
	"budget/models"

	"gopkg.in/gomail.v2"
)

// ErrEmailDisabled 邮件服务未启用
var ErrEmailDisabled = errors.New("email service is disabled, set BUDGET_EMAIL_ENABLED=true")

// Sender 发送一封邮件，默认实现为 gomail.Dialer
type Sender interface {
	DialAndSend(m ...*gomail.Message) error
}

// EmailService 邮件服务
type EmailService struct {
	cfg    *config.EmailConfig
	sender Sender
}

// NewEmailService 创建邮件服务
func NewEmailService(cfg *config.EmailConfig) *EmailService {
	return &EmailService{
		cfg:    cfg,
		sender: gomail.NewDialer(cfg.Host, cfg.Port, cfg.Username, cfg.Password),
	}
}

// WithSender 替换发送器，供测试使用
func (s *EmailService) WithSender(sender Sender) *EmailService {
	s.sender = sender
	return s
}

var reportTemplate = template.Must(template.New("report").Parse(`<!DOCTYPE html>
<html>
<head><meta charset="UTF-8"></head>
<body style="font-family: Arial, sans-serif; background: #f5f5f5; padding: 20px;">
  <div style="max-width: 600px; margin: 0 auto; background: #fff; border-radius: 12px; padding: 30px;">
    <h2>Budget {{.Month}}</h2>
    <table style="width: 100%; border-collapse: collapse;">
      <tr><td>Start</td><td style="text-align: right;">{{.Symbol}}{{.Start}}</td></tr>
      <tr><td>Total income</td><td style="text-align: right;">{{.Symbol}}{{.Income}}</td></tr>
      <tr><td>Total expense</td><td style="text-align: right;">{{.Symbol}}{{.Expense}}</td></tr>
      <tr><td><strong>Balance</strong></td><td style="text-align: right;"><strong>{{.Symbol}}{{.Balance}}</strong></td></tr>
    </table>
    {{if .Groups}}
    <h3>By group</h3>
    <table style="width: 100%; border-collapse: collapse;">
      {{range .Groups}}<tr><td>{{.Type}}</td><td>{{.Label}}</td><td style="text-align: right;">{{.Count}}</td><td style="text-align: right;">{{.Total}}</td></tr>
      {{end}}
    </table>
    {{end}}
    <p style="color: #6c757d; font-size: 12px;">This email was sent automatically, please do not reply.</p>
  </div>
</body>
</html>
`))

type reportGroupView struct {
	Type  string
	Label string
	Count int64
	Total string
}

// renderBudgetReport 渲染报表邮件正文
func renderBudgetReport(r *BudgetReport) (string, error) {
	view := struct {
		Month, Symbol, Start, Income, Expense, Balance string
		Groups                                         []reportGroupView
	}{
		Month:   r.Budget.Month.Format(models.PeriodLayout),
		Symbol:  r.Budget.Currency.Symbol(),
		Start:   r.Statistics.Start.StringFixed(models.MoneyScale),
		Income:  r.Statistics.TotalIncome.StringFixed(models.MoneyScale),
		Expense: r.Statistics.TotalExpense.StringFixed(models.MoneyScale),
		Balance: r.Statistics.Balance.StringFixed(models.MoneyScale),
	}
	for _, g := range r.Groups {
		view.Groups = append(view.Groups, reportGroupView{
			Type:  g.Type.String(),
			Label: g.Label,
			Count: g.Count,
			Total: g.Total.StringFixed(models.MoneyScale),
		})
	}
	var buf bytes.Buffer
	if err := reportTemplate.Execute(&buf, view); err != nil {
		return "", err
	}
	return buf.String(), nil
}

// SendBudgetReport 发送预算报表邮件，附带 xlsx
func (s *EmailService) SendBudgetReport(to string, r *BudgetReport) error {
	if !s.cfg.Enabled {
		return ErrEmailDisabled
	}
	body, err := renderBudgetReport(r)
	if err != nil {
		return fmt.Errorf("render report: %w", err)
	}
	xlsx, err := r.Excel()
	if err != nil {
		return err
	}

	period := r.Budget.Month.Format(models.PeriodLayout)
	m := gomail.NewMessage()
	m.SetHeader("From", m.FormatAddress(s.cfg.Username, s.cfg.From))
	m.SetHeader("To", to)
	m.SetHeader("Subject", "[Budget] Report for "+period)
	m.SetBody("text/html", body)
	m.Attach("budget_"+period+".xlsx", gomail.SetCopyFunc(func(w io.Writer) error {
		_, err := w.Write(xlsx.Bytes())
		return err
	}))

	if err := s.sender.DialAndSend(m); err != nil {
		return fmt.Errorf("send email: %w", err)
	}
	return nil
}
