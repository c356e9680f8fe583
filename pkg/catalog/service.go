package catalog

import (
	"context"

	"github.com/locallibrary/catalog/pkg/authors"
	"github.com/locallibrary/catalog/pkg/books"
	"github.com/locallibrary/catalog/pkg/instances"
	"github.com/locallibrary/catalog/pkg/intro"
	"github.com/locallibrary/catalog/pkg/models"
	"github.com/pkg/errors"
	"github.com/uptrace/bun"
)

// Summary holds the figures shown on the home page.
type Summary struct {
	NumBooks              int                  `json:"num_books"`
	NumInstances          int                  `json:"num_instances"`
	NumInstancesAvailable int                  `json:"num_instances_available"`
	NumAuthors            int                  `json:"num_authors"`
	Introduction          *models.IndexContent `json:"introduction"`
}

type Service struct {
	bookService     *books.Service
	instanceService *instances.Service
	authorService   *authors.Service
	contentService  *intro.Service
}

func NewService(db *bun.DB) *Service {
	return &Service{
		bookService:     books.NewService(db),
		instanceService: instances.NewService(db),
		authorService:   authors.NewService(db),
		contentService:  intro.NewService(db),
	}
}

func (svc *Service) Summary(ctx context.Context) (*Summary, error) {
	var (
		summary Summary
		err     error
	)

	if summary.NumBooks, err = svc.bookService.CountBooks(ctx, books.ListBooksOptions{}); err != nil {
		return nil, errors.WithStack(err)
	}
	if summary.NumInstances, err = svc.instanceService.CountInstances(ctx, instances.ListInstancesOptions{}); err != nil {
		return nil, errors.WithStack(err)
	}
	available := models.InstanceStatusAvailable
	if summary.NumInstancesAvailable, err = svc.instanceService.CountInstances(ctx, instances.ListInstancesOptions{Status: &available}); err != nil {
		return nil, errors.WithStack(err)
	}
	if summary.NumAuthors, err = svc.authorService.CountAuthors(ctx); err != nil {
		return nil, errors.WithStack(err)
	}
	if summary.Introduction, err = svc.contentService.RetrieveIntroduction(ctx); err != nil {
		return nil, errors.WithStack(err)
	}

	return &summary, nil
}
