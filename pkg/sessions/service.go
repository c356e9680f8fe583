package sessions

import (
	"context"
	"database/sql"
	"time"

	"github.com/locallibrary/catalog/pkg/errcodes"
	"github.com/locallibrary/catalog/pkg/models"
	gonanoid "github.com/matoous/go-nanoid/v2"
	"github.com/pkg/errors"
	"github.com/uptrace/bun"
)

const idPrefix = "sess-"

type Service struct {
	db *bun.DB
}

func NewService(db *bun.DB) *Service {
	return &Service{db}
}

// NewID generates a fresh session identifier.
func NewID() (string, error) {
	id, err := gonanoid.New()
	if err != nil {
		return "", errors.Wrap(err, "generate nanoid")
	}
	return idPrefix + id, nil
}

// Visit counts one visit for the session and returns how many visits it had
// before this one. The read and the increment happen in a single statement,
// so concurrent visits to the same session are never lost.
func (svc *Service) Visit(ctx context.Context, id string) (int, error) {
	now := time.Now()

	var numVisits int
	err := svc.db.NewRaw(`
		INSERT INTO sessions (id, created_at, updated_at, num_visits)
		VALUES (?, ?, ?, 1)
		ON CONFLICT (id) DO UPDATE
		SET num_visits = sessions.num_visits + 1, updated_at = excluded.updated_at
		RETURNING num_visits
	`, id, now, now).Scan(ctx, &numVisits)
	if err != nil {
		return 0, errors.WithStack(err)
	}

	return numVisits - 1, nil
}

func (svc *Service) RetrieveSession(ctx context.Context, id string) (*models.Session, error) {
	session := &models.Session{}
	err := svc.db.
		NewSelect().
		Model(session).
		Where("s.id = ?", id).
		Scan(ctx)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, errcodes.NotFound("Session")
		}
		return nil, errors.WithStack(err)
	}
	return session, nil
}

// DeleteStaleSessions removes sessions that haven't been touched since
// before the cutoff.
func (svc *Service) DeleteStaleSessions(ctx context.Context, cutoff time.Time) (int, error) {
	result, err := svc.db.
		NewDelete().
		Model((*models.Session)(nil)).
		Where("updated_at < ?", cutoff).
		Exec(ctx)
	if err != nil {
		return 0, errors.WithStack(err)
	}
	n, _ := result.RowsAffected()
	return int(n), nil
}
