package instances

import (
	"context"
	"database/sql"
	"time"

	"github.com/google/uuid"
	"github.com/locallibrary/catalog/pkg/errcodes"
	"github.com/locallibrary/catalog/pkg/models"
	"github.com/pkg/errors"
	"github.com/uptrace/bun"
)

type RetrieveInstanceOptions struct {
	ID uuid.UUID
}

type ListInstancesOptions struct {
	Limit      *int
	Offset     *int
	BookID     *int
	BorrowerID *int
	Status     *string
}

type UpdateInstanceOptions struct {
	Columns []string
}

type Service struct {
	db *bun.DB
}

func NewService(db *bun.DB) *Service {
	return &Service{db}
}

// CreateInstance assigns a fresh random ID to the copy and stores it. A copy
// without a status starts out in maintenance.
func (svc *Service) CreateInstance(ctx context.Context, instance *models.BookInstance) error {
	now := time.Now()
	if instance.CreatedAt.IsZero() {
		instance.CreatedAt = now
	}
	instance.UpdatedAt = instance.CreatedAt
	if instance.ID == uuid.Nil {
		instance.ID = uuid.New()
	}
	if instance.Status == "" {
		instance.Status = models.InstanceStatusMaintenance
	}

	return svc.db.RunInTx(ctx, &sql.TxOptions{}, func(ctx context.Context, tx bun.Tx) error {
		if err := verifyReferences(ctx, tx, instance); err != nil {
			return err
		}

		_, err := tx.
			NewInsert().
			Model(instance).
			Returning("*").
			Exec(ctx)
		return errors.WithStack(err)
	})
}

func (svc *Service) RetrieveInstance(ctx context.Context, opts RetrieveInstanceOptions) (*models.BookInstance, error) {
	instance := &models.BookInstance{}

	err := svc.db.
		NewSelect().
		Model(instance).
		Relation("Book").
		Relation("Borrower").
		Where("bi.id = ?", opts.ID).
		Scan(ctx)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, errcodes.NotFound("Book instance")
		}
		return nil, errors.WithStack(err)
	}

	return instance, nil
}

func (svc *Service) CountInstances(ctx context.Context, opts ListInstancesOptions) (int, error) {
	q := svc.db.NewSelect().Model((*models.BookInstance)(nil))
	q = applyFilters(q, opts)

	count, err := q.Count(ctx)
	return count, errors.WithStack(err)
}

// ListInstances returns copies ordered by due date, with copies that have no
// due date last.
func (svc *Service) ListInstances(ctx context.Context, opts ListInstancesOptions) ([]*models.BookInstance, error) {
	var instances []*models.BookInstance

	q := svc.db.
		NewSelect().
		Model(&instances).
		Relation("Book").
		Relation("Borrower").
		OrderExpr("bi.due_back IS NULL ASC").
		Order("bi.due_back ASC", "bi.id ASC")
	q = applyFilters(q, opts)

	if opts.Limit != nil {
		q = q.Limit(*opts.Limit)
	}
	if opts.Offset != nil {
		q = q.Offset(*opts.Offset)
	}

	err := q.Scan(ctx)
	return instances, errors.WithStack(err)
}

func applyFilters(q *bun.SelectQuery, opts ListInstancesOptions) *bun.SelectQuery {
	if opts.BookID != nil {
		q = q.Where("bi.book_id = ?", *opts.BookID)
	}
	if opts.BorrowerID != nil {
		q = q.Where("bi.borrower_id = ?", *opts.BorrowerID)
	}
	if opts.Status != nil {
		q = q.Where("bi.status = ?", *opts.Status)
	}
	return q
}

func (svc *Service) UpdateInstance(ctx context.Context, instance *models.BookInstance, opts UpdateInstanceOptions) error {
	if len(opts.Columns) == 0 {
		return nil
	}

	return svc.db.RunInTx(ctx, &sql.TxOptions{}, func(ctx context.Context, tx bun.Tx) error {
		if err := verifyReferences(ctx, tx, instance); err != nil {
			return err
		}

		instance.UpdatedAt = time.Now()
		columns := append(opts.Columns, "updated_at")
		_, err := tx.
			NewUpdate().
			Model(instance).
			Column(columns...).
			WherePK().
			Exec(ctx)
		return errors.WithStack(err)
	})
}

func (svc *Service) DeleteInstance(ctx context.Context, id uuid.UUID) error {
	res, err := svc.db.
		NewDelete().
		Model((*models.BookInstance)(nil)).
		Where("id = ?", id).
		Exec(ctx)
	if err != nil {
		return errors.WithStack(err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return errcodes.NotFound("Book instance")
	}
	return nil
}

func verifyReferences(ctx context.Context, tx bun.Tx, instance *models.BookInstance) error {
	if instance.BookID != nil {
		exists, err := tx.NewSelect().Model((*models.Book)(nil)).Where("id = ?", *instance.BookID).Exists(ctx)
		if err != nil {
			return errors.WithStack(err)
		}
		if !exists {
			return errcodes.ValidationError(`"book_id" doesn't match a book`)
		}
	}
	if instance.BorrowerID != nil {
		exists, err := tx.NewSelect().Model((*models.User)(nil)).Where("id = ?", *instance.BorrowerID).Exists(ctx)
		if err != nil {
			return errors.WithStack(err)
		}
		if !exists {
			return errcodes.ValidationError(`"borrower_id" doesn't match a user`)
		}
	}
	return nil
}
