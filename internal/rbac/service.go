package rbac

import (
	"context"
	"errors"
	"log/slog"

	"github.com/jackc/pgx/v5/pgxpool"
)

// Service resolves the roles held by a user.
type Service struct {
	pool   *pgxpool.Pool
	logger *slog.Logger
}

// NewService constructs a Service.
func NewService(pool *pgxpool.Pool, logger *slog.Logger) *Service {
	return &Service{pool: pool, logger: logger}
}

// EffectiveRoles returns the RoleSet granted to the user. Unknown role names
// stored in the database are dropped with a warning rather than surfaced.
func (s *Service) EffectiveRoles(ctx context.Context, userID int64) (RoleSet, error) {
	if s == nil || s.pool == nil {
		return nil, errors.New("rbac: service not initialised")
	}
	rows, err := s.pool.Query(ctx, `SELECT role FROM user_roles WHERE user_id = $1`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	set := make(RoleSet)
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, err
		}
		role := Role(name)
		if !role.Valid() {
			if s.logger != nil {
				s.logger.Warn("rbac: unknown role assigned", slog.Int64("user_id", userID), slog.String("role", name))
			}
			continue
		}
		set[role] = struct{}{}
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return set, nil
}

// Grant assigns a role to a user. Granting an already-held role is a no-op.
func (s *Service) Grant(ctx context.Context, userID int64, role Role) error {
	if !role.Valid() {
		return errors.New("rbac: unknown role")
	}
	_, err := s.pool.Exec(ctx, `INSERT INTO user_roles (user_id, role) VALUES ($1, $2)
ON CONFLICT (user_id, role) DO NOTHING`, userID, string(role))
	return err
}

// Revoke removes a role from a user.
func (s *Service) Revoke(ctx context.Context, userID int64, role Role) error {
	_, err := s.pool.Exec(ctx, `DELETE FROM user_roles WHERE user_id = $1 AND role = $2`, userID, string(role))
	return err
}
