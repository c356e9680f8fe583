package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

const (
	InstanceStatusMaintenance = "maintenance"
	InstanceStatusOnLoan      = "on_loan"
	InstanceStatusAvailable   = "available"
	InstanceStatusReserved    = "reserved"
)

// InstanceStatuses lists every status a copy can be in.
var InstanceStatuses = []string{
	InstanceStatusMaintenance,
	InstanceStatusOnLoan,
	InstanceStatusAvailable,
	InstanceStatusReserved,
}

// BookInstance is one physical copy of a Book.
type BookInstance struct {
	bun.BaseModel `bun:"table:book_instances,alias:bi"`

	ID         uuid.UUID `bun:",pk,type:uuid" json:"id"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
	BookID     *int      `json:"book_id"`
	Book       *Book     `bun:"rel:belongs-to,join:book_id=id" json:"book,omitempty"`
	Imprint    string    `json:"imprint"`
	DueBack    *Date     `json:"due_back"`
	Status     string    `json:"status"`
	BorrowerID *int      `json:"borrower_id"`
	Borrower   *User     `bun:"rel:belongs-to,join:borrower_id=id" json:"borrower,omitempty"`
	IsOverdue  bool      `bun:"-" json:"is_overdue"`
}

// Overdue reports whether the copy was due back before today.
func (bi *BookInstance) Overdue(today Date) bool {
	return bi.DueBack != nil && !bi.DueBack.IsZero() && bi.DueBack.Before(today)
}

// IsOnLoan reports whether the copy is currently lent out.
func (bi *BookInstance) IsOnLoan() bool {
	return bi.Status == InstanceStatusOnLoan
}

// IsValidInstanceStatus reports whether status is a known status.
func IsValidInstanceStatus(status string) bool {
	for _, s := range InstanceStatuses {
		if s == status {
			return true
		}
	}
	return false
}
