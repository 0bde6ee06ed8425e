package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"
)

// RegisterRoutes wires the API surface onto the router.
func RegisterRoutes(mux *chi.Mux, expenseHandler *ExpenseHandler, userHandler *UserHandler) {
	mux.Use(RequestLogger)
	mux.Use(EnableCORS)

	mux.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})

	mux.Post("/expenses", expenseHandler.HandleCreateExpense)
	mux.Get("/expenses", expenseHandler.HandleListExpenses)
	mux.Put("/expenses/{id}", expenseHandler.HandleUpdateExpense)
	mux.Delete("/expenses/{id}", expenseHandler.HandleDeleteExpense)

	mux.Post("/set-expense-limit", userHandler.HandleSetExpenseLimit)
	// Historical route name: despite the path, this lists every user.
	mux.Get("/set-expense-limit", userHandler.HandleGetExpenseLimits)
}
