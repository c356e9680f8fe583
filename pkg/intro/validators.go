package intro

type CreateContentPayload struct {
	Title string `json:"title" mod:"trim" validate:"required,max=50"`
	Body  string `json:"body"`
}

type UpdateContentPayload struct {
	Title *string `json:"title,omitempty" mod:"trim" validate:"omitempty,min=1,max=50"`
	Body  *string `json:"body,omitempty"`
}
