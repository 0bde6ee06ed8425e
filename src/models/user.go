package models

import (
	"database/sql"
	"fmt"
)

type User struct {
	ID           int64   `json:"id"`
	Email        string  `json:"email"`
	ExpenseLimit float64 `json:"expenseLimit"`
}

// UpsertUserLimit creates the user if absent, otherwise overwrites the
// stored limit. email is a de-facto key: the table carries no UNIQUE
// constraint, so the upsert is an UPDATE followed by an INSERT when
// nothing matched.
func UpsertUserLimit(db *sql.DB, email string, limit float64) error {
	res, err := db.Exec(`
	UPDATE users
	SET expense_limit = ?, updated_at = CURRENT_TIMESTAMP
	WHERE email = ?`, limit, email)
	if err != nil {
		return fmt.Errorf("update user limit: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected > 0 {
		return nil
	}

	_, err = db.Exec(`INSERT INTO users (email, expense_limit) VALUES (?, ?)`, email, limit)
	if err != nil {
		return fmt.Errorf("insert user: %w", err)
	}
	return nil
}

// ListUsers returns every registered user.
func ListUsers(db *sql.DB) ([]User, error) {
	rows, err := db.Query(`SELECT id, email, expense_limit FROM users ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("query users: %w", err)
	}
	defer rows.Close()

	users := []User{}
	for rows.Next() {
		var u User
		if err := rows.Scan(&u.ID, &u.Email, &u.ExpenseLimit); err != nil {
			return nil, fmt.Errorf("scan user: %w", err)
		}
		users = append(users, u)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return users, nil
}
