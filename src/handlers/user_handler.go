package handlers

import (
	"database/sql"
	"net/http"

	"github.com/username/expensio/backend/src/models"
	"github.com/username/expensio/backend/src/utils"
)

type UserHandler struct {
	db *sql.DB
}

func NewUserHandler(db *sql.DB) *UserHandler {
	return &UserHandler{db: db}
}

type limitPayload struct {
	Email        string   `json:"email"`
	ExpenseLimit *float64 `json:"expenseLimit"`
}

// HandleSetExpenseLimit upserts the spending limit keyed by email.
// expenseLimit must be present and non-null; zero is a valid limit.
func (h *UserHandler) HandleSetExpenseLimit(w http.ResponseWriter, r *http.Request) {
	var payload limitPayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		utils.SendJSONError(w, "Invalid request body", http.StatusBadRequest)
		return
	}
	if payload.Email == "" || payload.ExpenseLimit == nil {
		utils.SendJSONError(w, "All fields are required", http.StatusBadRequest)
		return
	}

	if err := models.UpsertUserLimit(h.db, payload.Email, *payload.ExpenseLimit); err != nil {
		utils.SendJSONErrorWithDetail(w, "Failed to set expense limit", err, http.StatusInternalServerError)
		return
	}

	utils.WriteJSON(w, http.StatusOK, map[string]string{"message": "Expense limit updated successfully"})
}

// HandleGetExpenseLimits returns the full user collection. The route
// name is historical; it has always listed every user, not one limit.
func (h *UserHandler) HandleGetExpenseLimits(w http.ResponseWriter, r *http.Request) {
	users, err := models.ListUsers(h.db)
	if err != nil {
		utils.SendJSONErrorWithDetail(w, "Failed to fetch users", err, http.StatusInternalServerError)
		return
	}
	utils.WriteJSON(w, http.StatusOK, users)
}
