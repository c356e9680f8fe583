package authors

type ListAuthorsQuery struct {
	Page string `query:"page" json:"page,omitempty"`
}

type CreateAuthorPayload struct {
	FirstName   string  `json:"first_name" mod:"trim" validate:"required,max=100"`
	LastName    string  `json:"last_name" mod:"trim" validate:"required,max=100"`
	DateOfBirth *string `json:"date_of_birth,omitempty" validate:"omitempty,date"`
	DateOfDeath *string `json:"date_of_death,omitempty" validate:"omitempty,date"`
}

// UpdateAuthorPayload only touches the fields that are present. An empty date
// string clears that date.
type UpdateAuthorPayload struct {
	FirstName   *string `json:"first_name,omitempty" mod:"trim" validate:"omitempty,min=1,max=100"`
	LastName    *string `json:"last_name,omitempty" mod:"trim" validate:"omitempty,min=1,max=100"`
	DateOfBirth *string `json:"date_of_birth,omitempty" validate:"omitempty,date"`
	DateOfDeath *string `json:"date_of_death,omitempty" validate:"omitempty,date"`
}
