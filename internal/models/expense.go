package models

// Expense is a shared cost split evenly across its participants.
type Expense struct {
	// ID is the unique identifier for the expense (UUID format).
	ID string

	// Description is a free-text label (e.g., "Groceries").
	Description string

	// Amount is the positive total cost.
	Amount float64

	// Category classifies the expense.
	Category Category

	// Participants are the IDs of the people splitting this expense, in order.
	// The owner's self participant is always included.
	Participants []string

	// ShareOwed maps participant ID to the amount that participant owes.
	// Derived from Amount and Participants; recomputed whenever either changes.
	ShareOwed map[string]float64

	// CreatedBy is the owner (user ID) the expense is scoped to.
	CreatedBy string

	// CreatedAt is the Unix timestamp when the expense was recorded. Immutable.
	CreatedAt int64
}

// Clone returns a deep copy of e.
func (e *Expense) Clone() *Expense {
	c := *e
	c.Participants = append([]string(nil), e.Participants...)
	c.ShareOwed = make(map[string]float64, len(e.ShareOwed))
	for k, v := range e.ShareOwed {
		c.ShareOwed[k] = v
	}
	return &c
}

// Includes reports whether participantID splits this expense.
func (e *Expense) Includes(participantID string) bool {
	for _, id := range e.Participants {
		if id == participantID {
			return true
		}
	}
	return false
}
