package sqlite

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/mmynk/splitledger/internal/models"
	"github.com/mmynk/splitledger/internal/storage"
)

// CreateExpense persists a new expense with its shares.
// Callers wanting atomicity with other writes run it inside WithTx.
func (s *SQLiteStore) CreateExpense(ctx context.Context, expense *models.Expense) error {
	// Generate ID if not set
	if expense.ID == "" {
		expense.ID = uuid.New().String()
	}
	if expense.CreatedAt == 0 {
		expense.CreatedAt = time.Now().Unix()
	}

	return s.WithTx(ctx, func(tx storage.Store) error {
		st := tx.(*SQLiteStore)
		_, err := st.q.ExecContext(ctx,
			`INSERT INTO expenses (id, created_by, description, amount, category, created_at)
			 VALUES (?, ?, ?, ?, ?, ?)`,
			expense.ID, expense.CreatedBy, expense.Description, expense.Amount,
			string(expense.Category), expense.CreatedAt,
		)
		if err != nil {
			return fmt.Errorf("failed to insert expense: %w", err)
		}
		return st.insertShares(ctx, expense)
	})
}

// ListExpenses retrieves an owner's expenses in insertion order, including shares.
func (s *SQLiteStore) ListExpenses(ctx context.Context, ownerID string) ([]*models.Expense, error) {
	rows, err := s.q.QueryContext(ctx,
		`SELECT id, created_by, description, amount, category, created_at
		 FROM expenses WHERE created_by = ? ORDER BY rowid`,
		ownerID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list expenses: %w", err)
	}
	defer rows.Close()

	var expenses []*models.Expense
	byID := make(map[string]*models.Expense)
	for rows.Next() {
		e := &models.Expense{ShareOwed: make(map[string]float64)}
		var category string
		if err := rows.Scan(&e.ID, &e.CreatedBy, &e.Description, &e.Amount, &category, &e.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan expense: %w", err)
		}
		e.Category = models.Category(category)
		expenses = append(expenses, e)
		byID[e.ID] = e
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate expenses: %w", err)
	}
	rows.Close()

	if len(expenses) == 0 {
		return expenses, nil
	}

	// Shares for all of the owner's expenses in one pass
	shareRows, err := s.q.QueryContext(ctx,
		`SELECT es.expense_id, es.participant_id, es.share
		 FROM expense_shares es
		 JOIN expenses e ON e.id = es.expense_id
		 WHERE e.created_by = ?
		 ORDER BY es.expense_id, es.position`,
		ownerID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to get expense shares: %w", err)
	}
	defer shareRows.Close()

	for shareRows.Next() {
		var expenseID, participantID string
		var share float64
		if err := shareRows.Scan(&expenseID, &participantID, &share); err != nil {
			return nil, fmt.Errorf("failed to scan expense share: %w", err)
		}
		e, ok := byID[expenseID]
		if !ok {
			continue
		}
		e.Participants = append(e.Participants, participantID)
		e.ShareOwed[participantID] = share
	}
	if err := shareRows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate expense shares: %w", err)
	}

	return expenses, nil
}

// UpdateExpense replaces the expense's description, amount, category and shares.
// ID, CreatedBy and CreatedAt are never rewritten.
func (s *SQLiteStore) UpdateExpense(ctx context.Context, expense *models.Expense) error {
	return s.WithTx(ctx, func(tx storage.Store) error {
		st := tx.(*SQLiteStore)
		res, err := st.q.ExecContext(ctx,
			"UPDATE expenses SET description = ?, amount = ?, category = ? WHERE id = ?",
			expense.Description, expense.Amount, string(expense.Category), expense.ID,
		)
		if err != nil {
			return fmt.Errorf("failed to update expense: %w", err)
		}
		if err := checkAffected(res, "expense", expense.ID); err != nil {
			return err
		}

		if _, err := st.q.ExecContext(ctx, "DELETE FROM expense_shares WHERE expense_id = ?", expense.ID); err != nil {
			return fmt.Errorf("failed to clear expense shares: %w", err)
		}
		return st.insertShares(ctx, expense)
	})
}

// DeleteExpense removes an expense; its shares cascade.
func (s *SQLiteStore) DeleteExpense(ctx context.Context, expenseID string) error {
	res, err := s.q.ExecContext(ctx, "DELETE FROM expenses WHERE id = ?", expenseID)
	if err != nil {
		return fmt.Errorf("failed to delete expense: %w", err)
	}
	return checkAffected(res, "expense", expenseID)
}

func (s *SQLiteStore) insertShares(ctx context.Context, expense *models.Expense) error {
	for i, participantID := range expense.Participants {
		_, err := s.q.ExecContext(ctx,
			"INSERT INTO expense_shares (expense_id, participant_id, position, share) VALUES (?, ?, ?, ?)",
			expense.ID, participantID, i, expense.ShareOwed[participantID],
		)
		if err != nil {
			return fmt.Errorf("failed to insert expense share: %w", err)
		}
	}
	return nil
}
