package services

import (
	"database/sql"
	"fmt"

	"github.com/username/expensio/backend/src/logger"
	"github.com/username/expensio/backend/src/models"
)

// ReportService emails every registered user a spend-vs-limit summary.
// It runs as a side effect of expense creation only; failures are
// reported to the caller for logging but never reach the HTTP client.
type ReportService struct {
	db    *sql.DB
	email EmailService
}

func NewReportService(db *sql.DB, email EmailService) *ReportService {
	return &ReportService{db: db, email: email}
}

// RecipientResult records the outcome of one recipient's send.
type RecipientResult struct {
	Email string
	Err   error
}

const reportSubject = "Your expense report"

// SendExpenseReport loads every user, sums the amount of ALL expenses,
// and mails each user a summary comparing that global total against
// their individual limit. The global total is a documented quirk of the
// service, kept deliberately; do not scope it to the recipient.
//
// Sends run sequentially. Per-recipient failures are collected in the
// returned slice; only a failure to read users or the total is an error.
func (s *ReportService) SendExpenseReport() ([]RecipientResult, error) {
	users, err := models.ListUsers(s.db)
	if err != nil {
		return nil, fmt.Errorf("load users for expense report: %w", err)
	}

	total, err := models.TotalExpenses(s.db)
	if err != nil {
		return nil, fmt.Errorf("compute expense total for report: %w", err)
	}

	results := make([]RecipientResult, 0, len(users))
	for _, u := range users {
		body := buildReportBody(total, u.ExpenseLimit)
		err := s.email.SendReport(u.Email, reportSubject, body)
		if err != nil {
			logger.L.Error("Failed to send expense report", "to", u.Email, "error", err)
		} else {
			logger.L.Info("Expense report sent", "to", u.Email, "total", total, "limit", u.ExpenseLimit)
		}
		results = append(results, RecipientResult{Email: u.Email, Err: err})
	}
	return results, nil
}

// FailedCount returns how many recipient sends in results failed.
func FailedCount(results []RecipientResult) int {
	failed := 0
	for _, r := range results {
		if r.Err != nil {
			failed++
		}
	}
	return failed
}

func buildReportBody(total, limit float64) string {
	if total > limit {
		return fmt.Sprintf(
			"You have exceeded your expense limit!\n\nTotal spent: %.2f\nYour limit: %.2f\n\nPlease review your recent expenses.",
			total, limit)
	}
	return fmt.Sprintf(
		"Great job! You are within your expense limit.\n\nTotal spent: %.2f\nYour limit: %.2f\n\nKeep it up.",
		total, limit)
}
