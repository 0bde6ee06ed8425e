package models

import (
	"database/sql"
	"errors"
	"fmt"
)

// ErrNotFound is returned when a lookup by id matches no record.
var ErrNotFound = errors.New("record not found")

type Expense struct {
	ID            int64   `json:"id"`
	Amount        float64 `json:"amount"`
	Description   string  `json:"description"`
	Category      string  `json:"category"`
	Date          string  `json:"date"` // caller-supplied text, never parsed as a calendar date
	PaymentMethod string  `json:"paymentMethod"`
	UserEmail     string  `json:"userEmail,omitempty"`
}

// CreateExpense inserts a new expense and sets its store-assigned ID.
func CreateExpense(db *sql.DB, e *Expense) error {
	query := `
	INSERT INTO expenses (amount, description, category, date, payment_method, user_email)
	VALUES (?, ?, ?, ?, ?, ?)`

	stmt, err := db.Prepare(query)
	if err != nil {
		return err
	}
	defer stmt.Close()

	res, err := stmt.Exec(e.Amount, e.Description, e.Category, e.Date, e.PaymentMethod, e.UserEmail)
	if err != nil {
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	e.ID = id
	return nil
}

// ListExpenses returns every expense, oldest first. No filtering, no
// pagination; each call re-reads the full collection.
func ListExpenses(db *sql.DB) ([]Expense, error) {
	rows, err := db.Query(`
	SELECT id, amount, description, category, date, payment_method, user_email
	FROM expenses
	ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("query expenses: %w", err)
	}
	defer rows.Close()

	expenses := []Expense{}
	for rows.Next() {
		var e Expense
		var userEmail sql.NullString
		if err := rows.Scan(&e.ID, &e.Amount, &e.Description, &e.Category, &e.Date, &e.PaymentMethod, &userEmail); err != nil {
			return nil, fmt.Errorf("scan expense: %w", err)
		}
		e.UserEmail = userEmail.String
		expenses = append(expenses, e)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return expenses, nil
}

// GetExpenseByID retrieves a single expense.
func GetExpenseByID(db *sql.DB, id int64) (*Expense, error) {
	row := db.QueryRow(`
	SELECT id, amount, description, category, date, payment_method, user_email
	FROM expenses
	WHERE id = ?`, id)

	var e Expense
	var userEmail sql.NullString
	err := row.Scan(&e.ID, &e.Amount, &e.Description, &e.Category, &e.Date, &e.PaymentMethod, &userEmail)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, ErrNotFound
		}
		return nil, err
	}
	e.UserEmail = userEmail.String
	return &e, nil
}

// UpdateExpense replaces the five caller-supplied fields of the expense
// with the given id. The userEmail recorded at creation is untouched.
func UpdateExpense(db *sql.DB, id int64, amount float64, description, category, date, paymentMethod string) error {
	res, err := db.Exec(`
	UPDATE expenses
	SET amount = ?, description = ?, category = ?, date = ?, payment_method = ?
	WHERE id = ?`, amount, description, category, date, paymentMethod, id)
	if err != nil {
		return err
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return ErrNotFound
	}
	return nil
}

// DeleteExpense removes the expense with the given id.
func DeleteExpense(db *sql.DB, id int64) error {
	res, err := db.Exec(`DELETE FROM expenses WHERE id = ?`, id)
	if err != nil {
		return err
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return ErrNotFound
	}
	return nil
}

// TotalExpenses sums the amount of ALL expenses. The spend report
// compares this global total against each user's individual limit; the
// total is deliberately not scoped to the recipient.
func TotalExpenses(db *sql.DB) (float64, error) {
	var total float64
	err := db.QueryRow(`SELECT COALESCE(SUM(amount), 0) FROM expenses`).Scan(&total)
	if err != nil {
		return 0, fmt.Errorf("sum expenses: %w", err)
	}
	return total, nil
}
