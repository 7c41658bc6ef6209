package api

import "google.golang.org/protobuf/types/known/timestamppb"

type Participant struct {
	Id        string                 `json:"id"`
	Name      string                 `json:"name"`
	Balance   float64                `json:"balance"`
	IsSelf    bool                   `json:"isSelf,omitempty"`
	CreatedAt *timestamppb.Timestamp `json:"createdAt,omitempty"`
}

type Expense struct {
	Id             string                 `json:"id"`
	Description    string                 `json:"description"`
	Amount         float64                `json:"amount"`
	Category       string                 `json:"category"`
	ParticipantIds []string               `json:"participantIds"`
	Shares         map[string]float64     `json:"shares"`
	CreatedAt      *timestamppb.Timestamp `json:"createdAt,omitempty"`
}

type ListParticipantsRequest struct{}

type ListParticipantsResponse struct {
	Participants []*Participant `json:"participants"`
}

type AddParticipantRequest struct {
	Name string `json:"name"`
}

type AddParticipantResponse struct {
	Participant *Participant `json:"participant"`
}

type RemoveParticipantRequest struct {
	ParticipantId string `json:"participantId"`
}

type RemoveParticipantResponse struct{}

type ListExpensesRequest struct {
	// Category filters the result; empty lists every expense.
	Category string `json:"category,omitempty"`
}

type ListExpensesResponse struct {
	Expenses []*Expense `json:"expenses"`
}

type CreateExpenseRequest struct {
	Description    string   `json:"description"`
	Amount         float64  `json:"amount"`
	Category       string   `json:"category"`
	ParticipantIds []string `json:"participantIds"`
}

// CreateExpenseResponse returns the stored expense and the roster with
// balances as they stand after it.
type CreateExpenseResponse struct {
	Expense      *Expense       `json:"expense"`
	Participants []*Participant `json:"participants"`
}

type UpdateExpenseRequest struct {
	ExpenseId      string   `json:"expenseId"`
	Description    string   `json:"description"`
	Amount         float64  `json:"amount"`
	Category       string   `json:"category"`
	ParticipantIds []string `json:"participantIds"`
}

// UpdateExpenseResponse has Applied false when the expense no longer exists.
type UpdateExpenseResponse struct {
	Applied      bool           `json:"applied"`
	Expense      *Expense       `json:"expense,omitempty"`
	Participants []*Participant `json:"participants,omitempty"`
}

type DeleteExpenseRequest struct {
	ExpenseId string `json:"expenseId"`
}

// DeleteExpenseResponse has Deleted false when the expense no longer exists.
type DeleteExpenseResponse struct {
	Deleted      bool           `json:"deleted"`
	Participants []*Participant `json:"participants,omitempty"`
}

type ExportExpensesRequest struct {
	Category string `json:"category,omitempty"`
}

type ExportExpensesResponse struct {
	Filename    string `json:"filename"`
	ContentType string `json:"contentType"`
	Csv         string `json:"csv"`
}

type BalanceLine struct {
	ParticipantId string  `json:"participantId"`
	Name          string  `json:"name"`
	IsSelf        bool    `json:"isSelf,omitempty"`
	Balance       float64 `json:"balance"`
	Display       string  `json:"display"`
	Standing      string  `json:"standing"`
}

type GetSummaryRequest struct{}

type GetSummaryResponse struct {
	Total        float64        `json:"total"`
	TotalDisplay string         `json:"totalDisplay"`
	ExpenseCount int32          `json:"expenseCount"`
	Balances     []*BalanceLine `json:"balances"`
}

type Drift struct {
	ParticipantId string  `json:"participantId"`
	Cached        float64 `json:"cached"`
	Derived       float64 `json:"derived"`
}

type AuditBalancesRequest struct{}

type AuditBalancesResponse struct {
	Consistent bool     `json:"consistent"`
	Drifts     []*Drift `json:"drifts,omitempty"`
}

type RebuildBalancesRequest struct{}

type RebuildBalancesResponse struct {
	Changed int32 `json:"changed"`
}
