package loans

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/locallibrary/catalog/pkg/errcodes"
	"github.com/locallibrary/catalog/pkg/instances"
	"github.com/locallibrary/catalog/pkg/models"
	"github.com/pkg/errors"
	"github.com/uptrace/bun"
)

type ListLoansOptions struct {
	Limit  *int
	Offset *int
	// BorrowerID restricts the loans to a single borrower.
	BorrowerID *int
}

type Service struct {
	db              *bun.DB
	instanceService *instances.Service
}

func NewService(db *bun.DB) *Service {
	return &Service{
		db:              db,
		instanceService: instances.NewService(db),
	}
}

func (opts ListLoansOptions) instanceOptions() instances.ListInstancesOptions {
	onLoan := models.InstanceStatusOnLoan
	return instances.ListInstancesOptions{
		Limit:      opts.Limit,
		Offset:     opts.Offset,
		BorrowerID: opts.BorrowerID,
		Status:     &onLoan,
	}
}

func (svc *Service) CountLoans(ctx context.Context, opts ListLoansOptions) (int, error) {
	count, err := svc.instanceService.CountInstances(ctx, opts.instanceOptions())
	return count, errors.WithStack(err)
}

// ListLoans returns the copies currently on loan, soonest due first.
func (svc *Service) ListLoans(ctx context.Context, opts ListLoansOptions) ([]*models.BookInstance, error) {
	loans, err := svc.instanceService.ListInstances(ctx, opts.instanceOptions())
	return loans, errors.WithStack(err)
}

func (svc *Service) RetrieveLoan(ctx context.Context, id uuid.UUID) (*models.BookInstance, error) {
	instance, err := svc.instanceService.RetrieveInstance(ctx, instances.RetrieveInstanceOptions{ID: id})
	return instance, errors.WithStack(err)
}

// Renew moves the due date of the copy. The status is left alone.
func (svc *Service) Renew(ctx context.Context, instance *models.BookInstance, dueBack models.Date) error {
	instance.DueBack = &dueBack
	instance.UpdatedAt = time.Now()

	return svc.update(ctx, instance, "due_back", "updated_at")
}

// Return takes the copy back from its borrower and puts it in the given
// status.
func (svc *Service) Return(ctx context.Context, instance *models.BookInstance, status string) error {
	instance.BorrowerID = nil
	instance.Borrower = nil
	instance.DueBack = nil
	instance.Status = status
	instance.UpdatedAt = time.Now()

	return svc.update(ctx, instance, "borrower_id", "due_back", "status", "updated_at")
}

func (svc *Service) update(ctx context.Context, instance *models.BookInstance, columns ...string) error {
	res, err := svc.db.
		NewUpdate().
		Model(instance).
		Column(columns...).
		WherePK().
		Exec(ctx)
	if err != nil {
		return errors.WithStack(err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return errcodes.NotFound("Book instance")
	}
	return nil
}
