package feedbackservice

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/Leopold1975/feedback_control/internal/feedback/domain/models"
	repo "github.com/Leopold1975/feedback_control/internal/feedback/repository/feedbackrepo"
	"github.com/Leopold1975/feedback_control/pkg/logger"
)

var (
	// ErrForbidden means the caller's role does not permit the operation.
	ErrForbidden = errors.New("operation not permitted for role")
	// ErrNotFound covers both a missing record and one that fails the
	// ownership check, so other managers' data cannot be enumerated.
	ErrNotFound = errors.New("feedback not found")
)

type FeedbackService struct {
	feedbackRepo Repository
	userRepo     UserRepository
	lg           logger.Logger
}

type Repository interface {
	CreateFeedback(context.Context, models.Feedback) (int, error)
	ListFeedback(context.Context, repo.ListRequest) ([]models.Feedback, error)
	UpdateFeedback(context.Context, models.Feedback) error
	AcknowledgeFeedback(ctx context.Context, feedbackID, employeeID int) error
	Analytics(ctx context.Context, managerID int) (models.Analytics, error)
}

type UserRepository interface {
	ListTeam(ctx context.Context, managerID int) ([]models.User, error)
}

func New(feedbackRepo Repository, userRepo UserRepository, lg logger.Logger) *FeedbackService {
	return &FeedbackService{
		feedbackRepo: feedbackRepo,
		userRepo:     userRepo,
		lg:           lg,
	}
}

func (fs *FeedbackService) Team(ctx context.Context, caller models.User) ([]models.User, error) {
	if caller.Role != models.RoleManager {
		return nil, ErrForbidden
	}

	team, err := fs.userRepo.ListTeam(ctx, caller.ID)
	if err != nil {
		return nil, fmt.Errorf("list team error: %w", err)
	}

	return team, nil
}

func (fs *FeedbackService) CreateFeedback(ctx context.Context,
	caller models.User, req CreateFeedbackRequest,
) (int, error) {
	if caller.Role != models.RoleManager {
		return 0, ErrForbidden
	}

	now := time.Now()

	fb := models.Feedback{ //nolint:exhaustruct
		ManagerID:    caller.ID,
		EmployeeID:   req.EmployeeID,
		Strengths:    req.Strengths,
		Improvements: req.Improvements,
		Sentiment:    req.Sentiment,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	id, err := fs.feedbackRepo.CreateFeedback(ctx, fb)
	if err != nil {
		if errors.Is(err, repo.ErrEmployeeNotFound) {
			return 0, ErrNotFound
		}

		return 0, fmt.Errorf("create feedback error: %w", err)
	}

	fs.lg.Infof("manager %d created feedback %d for employee %d", caller.ID, id, req.EmployeeID)

	return id, nil
}

// ListFeedback returns the caller's role-scoped view, newest first:
// managers see everything they authored, employees everything addressed
// to them.
func (fs *FeedbackService) ListFeedback(ctx context.Context, caller models.User) ([]models.Feedback, error) {
	var req repo.ListRequest

	switch caller.Role {
	case models.RoleManager:
		req.ManagerID = caller.ID
	case models.RoleEmployee:
		req.EmployeeID = caller.ID
	default:
		return nil, fmt.Errorf("unknown role %q: %w", caller.Role, ErrForbidden)
	}

	feedback, err := fs.feedbackRepo.ListFeedback(ctx, req)
	if err != nil {
		return nil, fmt.Errorf("list feedback error: %w", err)
	}

	return feedback, nil
}

func (fs *FeedbackService) UpdateFeedback(ctx context.Context,
	caller models.User, feedbackID int, req UpdateFeedbackRequest,
) error {
	if caller.Role != models.RoleManager {
		return ErrForbidden
	}

	fb := models.Feedback{ //nolint:exhaustruct
		ID:           feedbackID,
		ManagerID:    caller.ID,
		Strengths:    req.Strengths,
		Improvements: req.Improvements,
		Sentiment:    req.Sentiment,
		UpdatedAt:    time.Now(),
	}

	if err := fs.feedbackRepo.UpdateFeedback(ctx, fb); err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return ErrNotFound
		}

		return fmt.Errorf("update feedback error: %w", err)
	}

	return nil
}

func (fs *FeedbackService) AcknowledgeFeedback(ctx context.Context,
	caller models.User, feedbackID int,
) error {
	if caller.Role != models.RoleEmployee {
		return ErrForbidden
	}

	if err := fs.feedbackRepo.AcknowledgeFeedback(ctx, feedbackID, caller.ID); err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return ErrNotFound
		}

		return fmt.Errorf("acknowledge feedback error: %w", err)
	}

	return nil
}

func (fs *FeedbackService) Analytics(ctx context.Context, caller models.User) (models.Analytics, error) {
	if caller.Role != models.RoleManager {
		return models.Analytics{}, ErrForbidden
	}

	a, err := fs.feedbackRepo.Analytics(ctx, caller.ID)
	if err != nil {
		return models.Analytics{}, fmt.Errorf("analytics error: %w", err)
	}

	return a, nil
}
