package instances

type CreateInstancePayload struct {
	BookID     int    `json:"book_id" validate:"required,min=1"`
	Imprint    string `json:"imprint" mod:"trim" validate:"required,max=200"`
	DueBack    string `json:"due_back,omitempty" validate:"omitempty,date"`
	Status     string `json:"status,omitempty" validate:"omitempty,oneof=maintenance on_loan available reserved"`
	BorrowerID *int   `json:"borrower_id,omitempty" validate:"omitempty,min=1"`
}

// UpdateInstancePayload only touches the fields that are present. An empty
// due_back or a borrower_id of 0 clears the value.
type UpdateInstancePayload struct {
	BookID     *int    `json:"book_id,omitempty" validate:"omitempty,min=1"`
	Imprint    *string `json:"imprint,omitempty" mod:"trim" validate:"omitempty,min=1,max=200"`
	DueBack    *string `json:"due_back,omitempty" validate:"omitempty,date"`
	Status     *string `json:"status,omitempty" validate:"omitempty,oneof=maintenance on_loan available reserved"`
	BorrowerID *int    `json:"borrower_id,omitempty" validate:"omitempty,min=0"`
}
