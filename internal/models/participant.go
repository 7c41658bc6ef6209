package models

// Participant is a person an owner splits expenses with.
type Participant struct {
	// ID is the unique identifier for the participant (UUID format).
	ID string

	// OwnerID is the user whose roster this participant belongs to.
	OwnerID string

	// Name is the display label.
	Name string

	// Balance is the running total across live expenses.
	// Negative = this participant owes money, positive = this participant is owed money.
	Balance float64

	// IsSelf marks the participant that represents the owner.
	// It is never removed from an expense and never deleted from the roster.
	IsSelf bool

	// CreatedAt is the Unix timestamp when the participant was added.
	CreatedAt int64
}

// Clone returns a copy of p.
func (p *Participant) Clone() *Participant {
	c := *p
	return &c
}
