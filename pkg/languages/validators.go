package languages

type ListLanguagesQuery struct {
	Limit  int `query:"limit" json:"limit,omitempty" default:"100" validate:"min=1,max=500"`
	Offset int `query:"offset" json:"offset,omitempty" validate:"min=0"`
}

type CreateLanguagePayload struct {
	Name string `json:"name" mod:"trim" validate:"required,max=200"`
}

type UpdateLanguagePayload struct {
	Name *string `json:"name,omitempty" mod:"trim" validate:"omitempty,min=1,max=200"`
}
