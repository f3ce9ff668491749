package api

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/hvillar/gastos/internal/domain"
)

// wireDate is the day-resolution format the server uses everywhere
const wireDate = "2006-01-02"

type accountDTO struct {
	ID    int64  `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
}

func (d accountDTO) toDomain() domain.Account {
	return domain.Account{
		ID:    d.ID,
		Name:  d.Name,
		Email: d.Email,
	}
}

type expenseDTO struct {
	ID           string          `json:"id"`
	AccountID    int64           `json:"account_id"`
	Date         string          `json:"date"`
	Merchant     string          `json:"merchant"`
	Description  string          `json:"description"`
	Amount       decimal.Decimal `json:"amount"`
	Currency     string          `json:"currency"`
	Category     string          `json:"category"`
	Status       string          `json:"status"`
	EmailSubject string          `json:"email_subject"`
	ReceiptURL   string          `json:"receipt_url"`
}

func (d expenseDTO) toDomain() domain.Expense {
	// A date the server failed to format stays zero rather than failing
	// the whole listing
	date, _ := time.Parse(wireDate, d.Date)

	return domain.Expense{
		ID:           d.ID,
		AccountID:    d.AccountID,
		Date:         date,
		Merchant:     d.Merchant,
		Description:  d.Description,
		Amount:       d.Amount,
		Currency:     d.Currency,
		Category:     d.Category,
		Status:       domain.ExpenseStatus(d.Status),
		EmailSubject: d.EmailSubject,
		ReceiptURL:   d.ReceiptURL,
	}
}

type sessionDTO struct {
	SessionID int64                `json:"session_id"`
	Active    bool                 `json:"active"`
	Status    string               `json:"status"`
	Percent   int                  `json:"progress_percentage"`
	Processed int                  `json:"processed_emails"`
	Detected  int                  `json:"detected_expenses"`
	Accounts  []accountProgressDTO `json:"accounts"`
}

func (d sessionDTO) toDomain() domain.SyncSession {
	accounts := make([]domain.AccountProgress, 0, len(d.Accounts))
	for _, a := range d.Accounts {
		accounts = append(accounts, a.toDomain())
	}
	return domain.SyncSession{
		ID:        d.SessionID,
		Active:    d.Active,
		Status:    domain.SyncStatus(d.Status),
		Percent:   d.Percent,
		Processed: d.Processed,
		Detected:  d.Detected,
		Accounts:  accounts,
	}
}

type accountProgressDTO struct {
	AccountID int64  `json:"account_id"`
	Name      string `json:"name"`
	Email     string `json:"email"`
	Status    string `json:"status"`
	Processed int    `json:"processed_emails"`
	Total     int    `json:"total_emails"`
	Detected  int    `json:"detected_expenses"`
	Percent   int    `json:"progress_percentage"`
}

func (d accountProgressDTO) toDomain() domain.AccountProgress {
	return domain.AccountProgress{
		AccountID: d.AccountID,
		Name:      d.Name,
		Email:     d.Email,
		Status:    domain.SyncStatus(d.Status),
		Processed: d.Processed,
		Total:     d.Total,
		Detected:  d.Detected,
		Percent:   d.Percent,
	}
}

type ruleDTO struct {
	ID         string  `json:"id,omitempty"`
	Pattern    string  `json:"pattern"`
	Match      string  `json:"match_type"`
	Category   string  `json:"category"`
	Confidence float64 `json:"confidence,omitempty"`
}

func (d ruleDTO) toDomain() domain.Rule {
	match := domain.MatchType(d.Match)
	if match == "" {
		match = domain.MatchContains
	}
	return domain.Rule{
		ID:         d.ID,
		Pattern:    d.Pattern,
		Match:      match,
		Category:   d.Category,
		Confidence: d.Confidence,
	}
}

type conflictDTO struct {
	ID     string     `json:"id"`
	Reason string     `json:"reason"`
	Left   expenseDTO `json:"left"`
	Right  expenseDTO `json:"right"`
}

func (d conflictDTO) toDomain() domain.Conflict {
	return domain.Conflict{
		ID:     d.ID,
		Reason: d.Reason,
		Left:   d.Left.toDomain(),
		Right:  d.Right.toDomain(),
	}
}

type monthSummaryDTO struct {
	Month string          `json:"month"`
	Total decimal.Decimal `json:"total"`
	Count int             `json:"count"`
}

func (d monthSummaryDTO) toDomain() domain.MonthSummary {
	return domain.MonthSummary{
		Month: d.Month,
		Total: d.Total,
		Count: d.Count,
	}
}

type dayTotalDTO struct {
	Date  string          `json:"date"`
	Total decimal.Decimal `json:"total"`
}

func (d dayTotalDTO) toDomain() domain.DayTotal {
	date, _ := time.Parse(wireDate, d.Date)
	return domain.DayTotal{
		Date:  date,
		Total: d.Total,
	}
}
