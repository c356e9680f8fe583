package intro

import (
	"context"
	"database/sql"
	"time"

	"github.com/locallibrary/catalog/pkg/errcodes"
	"github.com/locallibrary/catalog/pkg/models"
	"github.com/pkg/errors"
	"github.com/uptrace/bun"
)

type UpdateContentOptions struct {
	Columns []string
}

type Service struct {
	db *bun.DB
}

func NewService(db *bun.DB) *Service {
	return &Service{db}
}

func (svc *Service) CreateContent(ctx context.Context, content *models.IndexContent) error {
	now := time.Now()
	if content.CreatedAt.IsZero() {
		content.CreatedAt = now
	}
	content.UpdatedAt = content.CreatedAt

	_, err := svc.db.
		NewInsert().
		Model(content).
		Returning("*").
		Exec(ctx)
	return errors.WithStack(err)
}

func (svc *Service) RetrieveContent(ctx context.Context, id int) (*models.IndexContent, error) {
	content := &models.IndexContent{}
	err := svc.db.
		NewSelect().
		Model(content).
		Where("ic.id = ?", id).
		Scan(ctx)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, errcodes.NotFound("Index content")
		}
		return nil, errors.WithStack(err)
	}
	return content, nil
}

// RetrieveIntroduction returns the record with the lowest ID, or nil when no
// content has been written yet.
func (svc *Service) RetrieveIntroduction(ctx context.Context) (*models.IndexContent, error) {
	content := &models.IndexContent{}
	err := svc.db.
		NewSelect().
		Model(content).
		Order("ic.id ASC").
		Limit(1).
		Scan(ctx)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, errors.WithStack(err)
	}
	return content, nil
}

func (svc *Service) ListContents(ctx context.Context) ([]*models.IndexContent, error) {
	var contents []*models.IndexContent
	err := svc.db.
		NewSelect().
		Model(&contents).
		Order("ic.id ASC").
		Scan(ctx)
	return contents, errors.WithStack(err)
}

func (svc *Service) UpdateContent(ctx context.Context, content *models.IndexContent, opts UpdateContentOptions) error {
	if len(opts.Columns) == 0 {
		return nil
	}

	content.UpdatedAt = time.Now()
	columns := append(opts.Columns, "updated_at")

	_, err := svc.db.
		NewUpdate().
		Model(content).
		Column(columns...).
		WherePK().
		Exec(ctx)
	return errors.WithStack(err)
}

func (svc *Service) DeleteContent(ctx context.Context, id int) error {
	res, err := svc.db.
		NewDelete().
		Model((*models.IndexContent)(nil)).
		Where("id = ?", id).
		Exec(ctx)
	if err != nil {
		return errors.WithStack(err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return errcodes.NotFound("Index content")
	}
	return nil
}
