package loans

type ListLoansQuery struct {
	Page string `query:"page" json:"page,omitempty"`
}

type RenewPayload struct {
	RenewalDate string `form:"renewal_date" json:"renewal_date" validate:"required,date"`
}

type ReturnPayload struct {
	Status string `form:"status" json:"status" validate:"required,oneof=maintenance available reserved"`
}
