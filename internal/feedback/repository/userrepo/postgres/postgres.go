package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/Leopold1975/feedback_control/internal/feedback/domain/models"
	"github.com/Leopold1975/feedback_control/internal/feedback/repository/userrepo"
	"github.com/Leopold1975/feedback_control/internal/pkg/pgtools"
	"github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type UsersPostgresRepo struct {
	db *pgxpool.Pool
}

func New(db *pgxpool.Pool) UsersPostgresRepo {
	return UsersPostgresRepo{
		db: db,
	}
}

func (ur UsersPostgresRepo) GetUserByUsername(ctx context.Context, //nolint:nonamedreturns
	username string,
) (u models.User, err error) {
	tx, err := ur.db.Begin(ctx)
	if err != nil {
		return models.User{}, fmt.Errorf("cannot begin transaction error: %w", err)
	}

	defer func() {
		err = pgtools.CommitOrRollback(ctx, tx, err, "get user")
	}()

	psql := squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)

	query, args, err := psql.Select("id", "username", "password_hash", "user_role", "full_name", "manager_id").
		From("users").
		Where(squirrel.Eq{"username": username}).ToSql()
	if err != nil {
		return models.User{}, fmt.Errorf("to sql error: %w", err)
	}

	if err = tx.QueryRow(ctx, query, args...).Scan(
		&u.ID, &u.Username, &u.PasswordHash, &u.Role, &u.FullName, &u.ManagerID); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			err = userrepo.ErrNotFound

			return u, err
		}

		return u, fmt.Errorf("scan error: %w", err)
	}

	return u, nil
}

func (ur UsersPostgresRepo) ListTeam(ctx context.Context, //nolint:nonamedreturns
	managerID int,
) (team []models.User, err error) {
	tx, err := ur.db.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("cannot begin transaction error: %w", err)
	}

	defer func() {
		err = pgtools.CommitOrRollback(ctx, tx, err, "list team")
	}()

	psql := squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)

	query, args, err := psql.Select("id", "username", "password_hash", "user_role", "full_name", "manager_id").
		From("users").
		Where(squirrel.Eq{"manager_id": managerID}).
		OrderBy("id ASC").ToSql()
	if err != nil {
		return nil, fmt.Errorf("to sql error: %w", err)
	}

	rows, err := tx.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query error: %w", err)
	}
	defer rows.Close()

	team = make([]models.User, 0, 8) //nolint:gomnd

	for rows.Next() {
		var u models.User

		if err = rows.Scan(&u.ID, &u.Username, &u.PasswordHash, &u.Role, &u.FullName, &u.ManagerID); err != nil {
			return nil, fmt.Errorf("scan error: %w", err)
		}

		team = append(team, u)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("rows error: %w", err)
	}

	return team, nil
}

// SeedUsers inserts the given users keeping their explicit ids. Rows that
// already exist are left untouched, so seeding on every start is safe.
func (ur UsersPostgresRepo) SeedUsers(ctx context.Context, //nolint:nonamedreturns
	users []models.User,
) (err error) {
	tx, err := ur.db.Begin(ctx)
	if err != nil {
		return fmt.Errorf("cannot begin transaction error: %w", err)
	}

	defer func() {
		err = pgtools.CommitOrRollback(ctx, tx, err, "seed users")
	}()

	psql := squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)

	ib := psql.Insert("users").
		Columns("id", "username", "password_hash", "user_role", "full_name", "manager_id").
		Suffix("ON CONFLICT (id) DO NOTHING")

	for _, u := range users {
		ib = ib.Values(u.ID, u.Username, u.PasswordHash, u.Role, u.FullName, u.ManagerID)
	}

	query, args, err := ib.ToSql()
	if err != nil {
		return fmt.Errorf("to sql error: %w", err)
	}

	if _, err = tx.Exec(ctx, query, args...); err != nil {
		return fmt.Errorf("exec error: %w", err)
	}

	// Seeded rows carry explicit ids, so the sequence has to catch up.
	if _, err = tx.Exec(ctx,
		"SELECT setval('users_id_seq', (SELECT MAX(id) FROM users))"); err != nil {
		return fmt.Errorf("setval error: %w", err)
	}

	return nil
}
