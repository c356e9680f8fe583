package roles

type CreateRolePayload struct {
	Name        string   `json:"name" mod:"trim" validate:"required,min=1,max=50"`
	Permissions []string `json:"permissions" validate:"omitempty,dive,required"`
}

// UpdateRolePayload replaces the whole permission set when permissions is
// present.
type UpdateRolePayload struct {
	Name        *string   `json:"name,omitempty" mod:"trim" validate:"omitempty,min=1,max=50"`
	Permissions *[]string `json:"permissions,omitempty" validate:"omitempty,dive,required"`
}

type ListRolesQuery struct {
	Limit  int `query:"limit" json:"limit,omitempty" default:"50" validate:"min=1,max=100"`
	Offset int `query:"offset" json:"offset,omitempty" validate:"min=0"`
}
