package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/Leopold1975/feedback_control/internal/feedback/domain/models"
	repo "github.com/Leopold1975/feedback_control/internal/feedback/repository/feedbackrepo"
	"github.com/Leopold1975/feedback_control/internal/pkg/pgtools"
	"github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type FeedbackPostgresRepo struct {
	db *pgxpool.Pool
}

func New(db *pgxpool.Pool) FeedbackPostgresRepo {
	return FeedbackPostgresRepo{
		db: db,
	}
}

// CreateFeedback verifies inside one transaction that the employee reports
// to the authoring manager and inserts the row. A missing or foreign
// employee surfaces as ErrEmployeeNotFound.
func (fr FeedbackPostgresRepo) CreateFeedback(ctx context.Context, //nolint:nonamedreturns
	fb models.Feedback,
) (id int, err error) {
	tx, err := fr.db.Begin(ctx)
	if err != nil {
		return 0, fmt.Errorf("cannot begin transaction error: %w", err)
	}

	defer func() {
		err = pgtools.CommitOrRollback(ctx, tx, err, "create")
	}()

	psql := squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)

	query, args, err := psql.Select("id").
		From("users").
		Where(squirrel.Eq{"id": fb.EmployeeID, "manager_id": fb.ManagerID}).ToSql()
	if err != nil {
		return 0, fmt.Errorf("to sql error: %w", err)
	}

	var employeeID int

	if err = tx.QueryRow(ctx, query, args...).Scan(&employeeID); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			err = repo.ErrEmployeeNotFound

			return 0, err
		}

		return 0, fmt.Errorf("scan error: %w", err)
	}

	query, args, err = psql.Insert("feedback").
		Columns("manager_id", "employee_id", "strengths", "improvements", "sentiment",
			"acknowledged", "created_at", "updated_at").
		Values(fb.ManagerID, fb.EmployeeID, fb.Strengths, fb.Improvements, fb.Sentiment,
			false, fb.CreatedAt, fb.UpdatedAt).
		Suffix("RETURNING id").ToSql()
	if err != nil {
		return 0, fmt.Errorf("to sql error: %w", err)
	}

	if err = tx.QueryRow(ctx, query, args...).Scan(&id); err != nil {
		return 0, fmt.Errorf("scan error: %w", err)
	}

	return id, nil
}

func (fr FeedbackPostgresRepo) ListFeedback(ctx context.Context, //nolint:nonamedreturns
	req repo.ListRequest,
) (feedback []models.Feedback, err error) {
	tx, err := fr.db.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("cannot begin transaction error: %w", err)
	}

	defer func() {
		err = pgtools.CommitOrRollback(ctx, tx, err, "list")
	}()

	psql := squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)
	sb := psql.Select("f.id", "f.manager_id", "f.employee_id", "u.full_name",
		"f.strengths", "f.improvements", "f.sentiment", "f.acknowledged",
		"f.created_at", "f.updated_at").
		From("feedback f").
		Join("users u ON f.employee_id = u.id")

	if req.ManagerID != 0 {
		sb = sb.Where(squirrel.Eq{"f.manager_id": req.ManagerID})
	}

	if req.EmployeeID != 0 {
		sb = sb.Where(squirrel.Eq{"f.employee_id": req.EmployeeID})
	}

	query, args, err := sb.OrderBy("f.created_at DESC").ToSql()
	if err != nil {
		return nil, fmt.Errorf("to sql error: %w", err)
	}

	rows, err := tx.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query error: %w", err)
	}
	defer rows.Close()

	feedback = make([]models.Feedback, 0, 10) //nolint:gomnd

	for rows.Next() {
		var f models.Feedback

		err = rows.Scan(&f.ID, &f.ManagerID, &f.EmployeeID, &f.EmployeeName,
			&f.Strengths, &f.Improvements, &f.Sentiment, &f.Acknowledged,
			&f.CreatedAt, &f.UpdatedAt)
		if err != nil {
			return nil, fmt.Errorf("scan error %w", err)
		}

		feedback = append(feedback, f)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("rows error: %w", err)
	}

	return feedback, nil
}

// UpdateFeedback overwrites the content fields with a single conditional
// statement, so the ownership check and the write cannot race.
func (fr FeedbackPostgresRepo) UpdateFeedback(ctx context.Context, //nolint:nonamedreturns
	fb models.Feedback,
) (err error) {
	tx, err := fr.db.Begin(ctx)
	if err != nil {
		return fmt.Errorf("cannot begin transaction error: %w", err)
	}

	defer func() {
		err = pgtools.CommitOrRollback(ctx, tx, err, "update")
	}()

	psql := squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)

	query, args, err := psql.Update("feedback").
		Set("strengths", fb.Strengths).
		Set("improvements", fb.Improvements).
		Set("sentiment", fb.Sentiment).
		Set("updated_at", fb.UpdatedAt).
		Where(squirrel.Eq{"id": fb.ID, "manager_id": fb.ManagerID}).ToSql()
	if err != nil {
		return fmt.Errorf("to sql error: %w", err)
	}

	ct, err := tx.Exec(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("exec error: %w", err)
	}

	if ct.RowsAffected() == 0 {
		err = repo.ErrNotFound

		return err
	}

	return nil
}

// AcknowledgeFeedback sets the flag with a single conditional statement.
// Re-acknowledging an already acknowledged row still affects it, so the
// operation stays idempotent for the addressee.
func (fr FeedbackPostgresRepo) AcknowledgeFeedback(ctx context.Context, //nolint:nonamedreturns
	feedbackID, employeeID int,
) (err error) {
	tx, err := fr.db.Begin(ctx)
	if err != nil {
		return fmt.Errorf("cannot begin transaction error: %w", err)
	}

	defer func() {
		err = pgtools.CommitOrRollback(ctx, tx, err, "acknowledge")
	}()

	psql := squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)

	query, args, err := psql.Update("feedback").
		Set("acknowledged", true).
		Where(squirrel.Eq{"id": feedbackID, "employee_id": employeeID}).ToSql()
	if err != nil {
		return fmt.Errorf("to sql error: %w", err)
	}

	ct, err := tx.Exec(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("exec error: %w", err)
	}

	if ct.RowsAffected() == 0 {
		err = repo.ErrNotFound

		return err
	}

	return nil
}

// Analytics runs both team-scoped aggregations in one transaction. Reports
// without feedback appear with a zero count.
func (fr FeedbackPostgresRepo) Analytics(ctx context.Context, //nolint:nonamedreturns
	managerID int,
) (a models.Analytics, err error) {
	tx, err := fr.db.Begin(ctx)
	if err != nil {
		return models.Analytics{}, fmt.Errorf("cannot begin transaction error: %w", err)
	}

	defer func() {
		err = pgtools.CommitOrRollback(ctx, tx, err, "analytics")
	}()

	psql := squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)

	query, args, err := psql.Select("u.full_name", "COUNT(f.id)").
		From("users u").
		LeftJoin("feedback f ON u.id = f.employee_id AND f.manager_id = ?", managerID).
		Where(squirrel.Eq{"u.manager_id": managerID}).
		GroupBy("u.id", "u.full_name").ToSql()
	if err != nil {
		return models.Analytics{}, fmt.Errorf("to sql error: %w", err)
	}

	rows, err := tx.Query(ctx, query, args...)
	if err != nil {
		return models.Analytics{}, fmt.Errorf("query error: %w", err)
	}

	a.MemberFeedbackCounts = make(map[string]int)

	for rows.Next() {
		var (
			name  string
			count int
		)

		if err = rows.Scan(&name, &count); err != nil {
			rows.Close()

			return models.Analytics{}, fmt.Errorf("scan error: %w", err)
		}

		a.MemberFeedbackCounts[name] = count
	}

	if err = rows.Err(); err != nil {
		rows.Close()

		return models.Analytics{}, fmt.Errorf("rows error: %w", err)
	}

	rows.Close()

	query, args, err = psql.Select("sentiment", "COUNT(*)").
		From("feedback").
		Where(squirrel.Eq{"manager_id": managerID}).
		GroupBy("sentiment").ToSql()
	if err != nil {
		return models.Analytics{}, fmt.Errorf("to sql error: %w", err)
	}

	rows, err = tx.Query(ctx, query, args...)
	if err != nil {
		return models.Analytics{}, fmt.Errorf("query error: %w", err)
	}
	defer rows.Close()

	a.SentimentDistribution = make(map[string]int)

	for rows.Next() {
		var (
			sentiment string
			count     int
		)

		if err = rows.Scan(&sentiment, &count); err != nil {
			return models.Analytics{}, fmt.Errorf("scan error: %w", err)
		}

		a.SentimentDistribution[sentiment] = count
	}

	if err = rows.Err(); err != nil {
		return models.Analytics{}, fmt.Errorf("rows error: %w", err)
	}

	return a, nil
}
