package roles

import (
	"context"
	"database/sql"
	"time"

	"github.com/locallibrary/catalog/pkg/errcodes"
	"github.com/locallibrary/catalog/pkg/models"
	"github.com/pkg/errors"
	"github.com/uptrace/bun"
)

type ListOptions struct {
	Limit  int
	Offset int
}

type UpdateOptions struct {
	Name *string
	// Permissions replaces the role's codenames when non-nil.
	Permissions *[]string
}

// Service handles role operations.
type Service struct {
	db *bun.DB
}

func NewService(db *bun.DB) *Service {
	return &Service{db: db}
}

func validatePermissions(codenames []string) error {
	for _, codename := range codenames {
		if !models.IsKnownPermission(codename) {
			return errcodes.ValidationError("Unknown permission: " + codename)
		}
	}
	return nil
}

// Create creates a custom role with the given permission codenames.
func (s *Service) Create(ctx context.Context, name string, codenames []string) (*models.Role, error) {
	if err := validatePermissions(codenames); err != nil {
		return nil, err
	}

	role := &models.Role{Name: name}
	role.CreatedAt = time.Now()
	role.UpdatedAt = role.CreatedAt

	err := s.db.RunInTx(ctx, &sql.TxOptions{}, func(ctx context.Context, tx bun.Tx) error {
		if err := checkNameAvailable(ctx, tx, name, 0); err != nil {
			return err
		}

		if _, err := tx.NewInsert().Model(role).Exec(ctx); err != nil {
			return errors.WithStack(err)
		}

		return replacePermissions(ctx, tx, role.ID, codenames)
	})
	if err != nil {
		return nil, err
	}

	return s.Retrieve(ctx, role.ID)
}

// Retrieve gets a role by ID.
func (s *Service) Retrieve(ctx context.Context, id int) (*models.Role, error) {
	role := &models.Role{}
	err := s.db.NewSelect().
		Model(role).
		Relation("Permissions").
		Where("r.id = ?", id).
		Scan(ctx)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, errcodes.NotFound("Role")
		}
		return nil, errors.WithStack(err)
	}
	return role, nil
}

// List returns a page of roles ordered by ID, which puts the system roles
// first.
func (s *Service) List(ctx context.Context, opts ListOptions) ([]*models.Role, int, error) {
	roles := []*models.Role{}

	query := s.db.NewSelect().
		Model(&roles).
		Relation("Permissions").
		Order("r.id ASC")

	if opts.Limit > 0 {
		query = query.Limit(opts.Limit)
	}
	if opts.Offset > 0 {
		query = query.Offset(opts.Offset)
	}

	total, err := query.ScanAndCount(ctx)
	if err != nil {
		return nil, 0, errors.WithStack(err)
	}

	return roles, total, nil
}

// Update renames a role and/or replaces its permissions. System roles keep
// their names.
func (s *Service) Update(ctx context.Context, id int, opts UpdateOptions) (*models.Role, error) {
	role, err := s.Retrieve(ctx, id)
	if err != nil {
		return nil, err
	}

	if role.IsSystem && opts.Name != nil && *opts.Name != role.Name {
		return nil, errcodes.Forbidden("Cannot rename system roles")
	}
	if opts.Permissions != nil {
		if err := validatePermissions(*opts.Permissions); err != nil {
			return nil, err
		}
	}

	err = s.db.RunInTx(ctx, &sql.TxOptions{}, func(ctx context.Context, tx bun.Tx) error {
		if opts.Name != nil && *opts.Name != role.Name {
			if err := checkNameAvailable(ctx, tx, *opts.Name, id); err != nil {
				return err
			}

			role.Name = *opts.Name
			role.UpdatedAt = time.Now()
			_, err := tx.NewUpdate().
				Model(role).
				Column("name", "updated_at").
				WherePK().
				Exec(ctx)
			if err != nil {
				return errors.WithStack(err)
			}
		}

		if opts.Permissions == nil {
			return nil
		}
		_, err := tx.NewDelete().
			Model((*models.Permission)(nil)).
			Where("role_id = ?", id).
			Exec(ctx)
		if err != nil {
			return errors.WithStack(err)
		}
		return replacePermissions(ctx, tx, id, *opts.Permissions)
	})
	if err != nil {
		return nil, err
	}

	return s.Retrieve(ctx, id)
}

// Delete deletes a custom role that nobody holds.
func (s *Service) Delete(ctx context.Context, id int) error {
	role, err := s.Retrieve(ctx, id)
	if err != nil {
		return err
	}

	if role.IsSystem {
		return errcodes.Forbidden("Cannot delete system roles")
	}

	return s.db.RunInTx(ctx, &sql.TxOptions{}, func(ctx context.Context, tx bun.Tx) error {
		count, err := tx.NewSelect().
			Model((*models.User)(nil)).
			Where("role_id = ?", id).
			Count(ctx)
		if err != nil {
			return errors.WithStack(err)
		}
		if count > 0 {
			return errcodes.ValidationError("Cannot delete role that is assigned to users")
		}

		_, err = tx.NewDelete().
			Model((*models.Permission)(nil)).
			Where("role_id = ?", id).
			Exec(ctx)
		if err != nil {
			return errors.WithStack(err)
		}

		_, err = tx.NewDelete().
			Model((*models.Role)(nil)).
			Where("id = ?", id).
			Exec(ctx)
		return errors.WithStack(err)
	})
}

func checkNameAvailable(ctx context.Context, tx bun.Tx, name string, exceptID int) error {
	exists, err := tx.NewSelect().
		Model((*models.Role)(nil)).
		Where("name = ? COLLATE NOCASE", name).
		Where("id != ?", exceptID).
		Exists(ctx)
	if err != nil {
		return errors.WithStack(err)
	}
	if exists {
		return errcodes.ValidationError("Role name already exists")
	}
	return nil
}

func replacePermissions(ctx context.Context, tx bun.Tx, roleID int, codenames []string) error {
	seen := make(map[string]struct{}, len(codenames))
	perms := make([]*models.Permission, 0, len(codenames))
	for _, codename := range codenames {
		if _, ok := seen[codename]; ok {
			continue
		}
		seen[codename] = struct{}{}
		perms = append(perms, &models.Permission{RoleID: roleID, Codename: codename})
	}
	if len(perms) == 0 {
		return nil
	}

	_, err := tx.NewInsert().Model(&perms).Exec(ctx)
	return errors.WithStack(err)
}
