package services

import (
	"database/sql"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/username/expensio/backend/src/database"
	"github.com/username/expensio/backend/src/logger"
	"github.com/username/expensio/backend/src/models"
)

func TestMain(m *testing.M) {
	logger.InitLogger("error")
	os.Exit(m.Run())
}

type sentMail struct {
	to      string
	subject string
	body    string
}

type fakeEmailService struct {
	sent    []sentMail
	failFor map[string]error
}

func (f *fakeEmailService) SendReport(toEmail, subject, body string) error {
	if err, ok := f.failFor[toEmail]; ok {
		return err
	}
	f.sent = append(f.sent, sentMail{to: toEmail, subject: subject, body: body})
	return nil
}

func newTestDB(t *testing.T) *sql.DB {
	t.Helper()
	db, err := sql.Open("sqlite", filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("open test database: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	if err := database.Migrate(db); err != nil {
		t.Fatalf("migrate test database: %v", err)
	}
	return db
}

func seedExpense(t *testing.T, db *sql.DB, amount float64, userEmail string) {
	t.Helper()
	e := models.Expense{
		Amount:        amount,
		Description:   "seed",
		Category:      "misc",
		Date:          "2024-05-01",
		PaymentMethod: "card",
		UserEmail:     userEmail,
	}
	if err := models.CreateExpense(db, &e); err != nil {
		t.Fatalf("seed expense: %v", err)
	}
}

func TestSendExpenseReport_ComparesGlobalTotalPerUser(t *testing.T) {
	db := newTestDB(t)
	if err := models.UpsertUserLimit(db, "ana@example.com", 50); err != nil {
		t.Fatal(err)
	}
	if err := models.UpsertUserLimit(db, "bob@example.com", 500); err != nil {
		t.Fatal(err)
	}
	// Expenses belong to different users; the report still sums them all.
	seedExpense(t, db, 60, "ana@example.com")
	seedExpense(t, db, 40, "bob@example.com")

	email := &fakeEmailService{}
	svc := NewReportService(db, email)

	results, err := svc.SendExpenseReport()
	if err != nil {
		t.Fatalf("SendExpenseReport: %v", err)
	}
	if len(results) != 2 {
		t.Fatalf("got %d results, want 2", len(results))
	}
	if FailedCount(results) != 0 {
		t.Errorf("FailedCount = %d, want 0", FailedCount(results))
	}
	if len(email.sent) != 2 {
		t.Fatalf("sent %d mails, want 2", len(email.sent))
	}

	byRecipient := map[string]sentMail{}
	for _, m := range email.sent {
		byRecipient[m.to] = m
	}

	ana, ok := byRecipient["ana@example.com"]
	if !ok {
		t.Fatal("no mail sent to ana@example.com")
	}
	if !strings.Contains(ana.body, "exceeded your expense limit") {
		t.Errorf("ana's body = %q, want exceeded warning (total 100 > limit 50)", ana.body)
	}
	if !strings.Contains(ana.body, "Total spent: 100.00") {
		t.Errorf("ana's body = %q, want global total 100.00", ana.body)
	}

	bob, ok := byRecipient["bob@example.com"]
	if !ok {
		t.Fatal("no mail sent to bob@example.com")
	}
	if !strings.Contains(bob.body, "within your expense limit") {
		t.Errorf("bob's body = %q, want congratulation (total 100 <= limit 500)", bob.body)
	}

	for _, m := range email.sent {
		if m.subject != "Your expense report" {
			t.Errorf("subject = %q", m.subject)
		}
	}
}

func TestSendExpenseReport_TotalEqualToLimitIsWithin(t *testing.T) {
	db := newTestDB(t)
	if err := models.UpsertUserLimit(db, "ana@example.com", 100); err != nil {
		t.Fatal(err)
	}
	seedExpense(t, db, 100, "")

	email := &fakeEmailService{}
	if _, err := NewReportService(db, email).SendExpenseReport(); err != nil {
		t.Fatalf("SendExpenseReport: %v", err)
	}
	if len(email.sent) != 1 {
		t.Fatalf("sent %d mails, want 1", len(email.sent))
	}
	if !strings.Contains(email.sent[0].body, "within your expense limit") {
		t.Errorf("body = %q, want within-limit message for total == limit", email.sent[0].body)
	}
}

func TestSendExpenseReport_NoUsers(t *testing.T) {
	db := newTestDB(t)
	seedExpense(t, db, 10, "")

	email := &fakeEmailService{}
	results, err := NewReportService(db, email).SendExpenseReport()
	if err != nil {
		t.Fatalf("SendExpenseReport: %v", err)
	}
	if len(results) != 0 || len(email.sent) != 0 {
		t.Errorf("results = %v, sent = %v, want none", results, email.sent)
	}
}

func TestSendExpenseReport_PerRecipientFailureDoesNotAbort(t *testing.T) {
	db := newTestDB(t)
	for _, email := range []string{"a@example.com", "b@example.com", "c@example.com"} {
		if err := models.UpsertUserLimit(db, email, 100); err != nil {
			t.Fatal(err)
		}
	}
	seedExpense(t, db, 10, "")

	sendErr := errors.New("smtp connection refused")
	email := &fakeEmailService{failFor: map[string]error{"b@example.com": sendErr}}

	results, err := NewReportService(db, email).SendExpenseReport()
	if err != nil {
		t.Fatalf("SendExpenseReport returned error for a per-recipient failure: %v", err)
	}
	if len(results) != 3 {
		t.Fatalf("got %d results, want 3", len(results))
	}
	if FailedCount(results) != 1 {
		t.Errorf("FailedCount = %d, want 1", FailedCount(results))
	}
	// The failing recipient must not stop later sends.
	if len(email.sent) != 2 {
		t.Errorf("sent %d mails, want 2", len(email.sent))
	}
	for _, r := range results {
		if r.Email == "b@example.com" && !errors.Is(r.Err, sendErr) {
			t.Errorf("result for b@example.com has err %v, want %v", r.Err, sendErr)
		}
		if r.Email != "b@example.com" && r.Err != nil {
			t.Errorf("result for %s has unexpected err %v", r.Email, r.Err)
		}
	}
}
