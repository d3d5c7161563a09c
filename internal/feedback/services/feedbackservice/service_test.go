package feedbackservice_test

import (
	"context"
	"testing"

	"github.com/Leopold1975/feedback_control/internal/feedback/domain/models"
	repo "github.com/Leopold1975/feedback_control/internal/feedback/repository/feedbackrepo"
	"github.com/Leopold1975/feedback_control/internal/feedback/services/feedbackservice"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

// recordingRepo captures what the service asks for, so the tests can check
// that callers are always scoped to their own id.
type recordingRepo struct {
	created     models.Feedback
	updated     models.Feedback
	listReq     repo.ListRequest
	ackID       int
	ackEmployee int
	analyticsID int

	createErr error
	updateErr error
	ackErr    error
}

func (r *recordingRepo) CreateFeedback(_ context.Context, fb models.Feedback) (int, error) {
	if r.createErr != nil {
		return 0, r.createErr
	}

	r.created = fb

	return 42, nil
}

func (r *recordingRepo) ListFeedback(_ context.Context, req repo.ListRequest) ([]models.Feedback, error) {
	r.listReq = req

	return []models.Feedback{}, nil
}

func (r *recordingRepo) UpdateFeedback(_ context.Context, fb models.Feedback) error {
	if r.updateErr != nil {
		return r.updateErr
	}

	r.updated = fb

	return nil
}

func (r *recordingRepo) AcknowledgeFeedback(_ context.Context, feedbackID, employeeID int) error {
	if r.ackErr != nil {
		return r.ackErr
	}

	r.ackID = feedbackID
	r.ackEmployee = employeeID

	return nil
}

func (r *recordingRepo) Analytics(_ context.Context, managerID int) (models.Analytics, error) {
	r.analyticsID = managerID

	return models.Analytics{
		MemberFeedbackCounts:  map[string]int{"Charlie Brown": 1, "Diana Wilson": 0},
		SentimentDistribution: map[string]int{"positive": 1},
	}, nil
}

type recordingUserRepo struct {
	teamReq int
}

func (r *recordingUserRepo) ListTeam(_ context.Context, managerID int) ([]models.User, error) {
	r.teamReq = managerID

	return []models.User{}, nil
}

func newService() (*feedbackservice.FeedbackService, *recordingRepo, *recordingUserRepo) {
	fr := &recordingRepo{}
	ur := &recordingUserRepo{}

	return feedbackservice.New(fr, ur, zap.NewNop().Sugar()), fr, ur
}

var (
	manager  = models.User{ID: 1, Username: "manager1", Role: models.RoleManager, FullName: "Alice Johnson"}
	employee = models.User{ID: 3, Username: "employee1", Role: models.RoleEmployee, FullName: "Charlie Brown"}
)

func TestTeamScopedToCaller(t *testing.T) {
	fs, _, ur := newService()

	_, err := fs.Team(context.Background(), manager)
	require.NoError(t, err)
	require.Equal(t, manager.ID, ur.teamReq)
}

func TestTeamForbiddenForEmployee(t *testing.T) {
	fs, _, _ := newService()

	_, err := fs.Team(context.Background(), employee)
	require.ErrorIs(t, err, feedbackservice.ErrForbidden)
}

func TestCreateFeedbackAttributedToCaller(t *testing.T) {
	fs, fr, _ := newService()

	id, err := fs.CreateFeedback(context.Background(), manager, feedbackservice.CreateFeedbackRequest{
		EmployeeID:   3,
		Strengths:    "clear communication",
		Improvements: "estimation",
		Sentiment:    "positive",
	})
	require.NoError(t, err)
	require.Equal(t, 42, id)
	require.Equal(t, manager.ID, fr.created.ManagerID)
	require.Equal(t, 3, fr.created.EmployeeID)
	require.False(t, fr.created.CreatedAt.IsZero())
	require.Equal(t, fr.created.CreatedAt, fr.created.UpdatedAt)
}

func TestCreateFeedbackForbiddenForEmployee(t *testing.T) {
	fs, _, _ := newService()

	_, err := fs.CreateFeedback(context.Background(), employee, feedbackservice.CreateFeedbackRequest{EmployeeID: 4})
	require.ErrorIs(t, err, feedbackservice.ErrForbidden)
}

func TestCreateFeedbackOutsideTeam(t *testing.T) {
	fs, fr, _ := newService()
	fr.createErr = repo.ErrEmployeeNotFound

	_, err := fs.CreateFeedback(context.Background(), manager, feedbackservice.CreateFeedbackRequest{EmployeeID: 5})
	require.ErrorIs(t, err, feedbackservice.ErrNotFound)
}

func TestListFeedbackManagerScope(t *testing.T) {
	fs, fr, _ := newService()

	_, err := fs.ListFeedback(context.Background(), manager)
	require.NoError(t, err)
	require.Equal(t, repo.ListRequest{ManagerID: manager.ID}, fr.listReq)
}

func TestListFeedbackEmployeeScope(t *testing.T) {
	fs, fr, _ := newService()

	_, err := fs.ListFeedback(context.Background(), employee)
	require.NoError(t, err)
	require.Equal(t, repo.ListRequest{EmployeeID: employee.ID}, fr.listReq)
}

func TestListFeedbackUnknownRole(t *testing.T) {
	fs, _, _ := newService()

	_, err := fs.ListFeedback(context.Background(), models.User{ID: 9, Role: "auditor"})
	require.ErrorIs(t, err, feedbackservice.ErrForbidden)
}

func TestUpdateFeedbackScopedToAuthor(t *testing.T) {
	fs, fr, _ := newService()

	err := fs.UpdateFeedback(context.Background(), manager, 7, feedbackservice.UpdateFeedbackRequest{
		Strengths:    "ownership",
		Improvements: "documentation",
		Sentiment:    "neutral",
	})
	require.NoError(t, err)
	require.Equal(t, 7, fr.updated.ID)
	require.Equal(t, manager.ID, fr.updated.ManagerID)
	require.False(t, fr.updated.UpdatedAt.IsZero())
}

func TestUpdateFeedbackForbidden(t *testing.T) {
	fs, _, _ := newService()

	err := fs.UpdateFeedback(context.Background(), employee, 7, feedbackservice.UpdateFeedbackRequest{})
	require.ErrorIs(t, err, feedbackservice.ErrForbidden)
}

func TestUpdateFeedbackNotOwned(t *testing.T) {
	fs, fr, _ := newService()
	fr.updateErr = repo.ErrNotFound

	err := fs.UpdateFeedback(context.Background(), manager, 7, feedbackservice.UpdateFeedbackRequest{})
	require.ErrorIs(t, err, feedbackservice.ErrNotFound)
}

func TestAcknowledgeScopedToCaller(t *testing.T) {
	fs, fr, _ := newService()

	require.NoError(t, fs.AcknowledgeFeedback(context.Background(), employee, 7))
	require.Equal(t, 7, fr.ackID)
	require.Equal(t, employee.ID, fr.ackEmployee)
}

func TestAcknowledgeForbiddenForManager(t *testing.T) {
	fs, _, _ := newService()

	err := fs.AcknowledgeFeedback(context.Background(), manager, 7)
	require.ErrorIs(t, err, feedbackservice.ErrForbidden)
}

func TestAcknowledgeNotAddressed(t *testing.T) {
	fs, fr, _ := newService()
	fr.ackErr = repo.ErrNotFound

	err := fs.AcknowledgeFeedback(context.Background(), employee, 7)
	require.ErrorIs(t, err, feedbackservice.ErrNotFound)
}

func TestAnalyticsScopedToCaller(t *testing.T) {
	fs, fr, _ := newService()

	a, err := fs.Analytics(context.Background(), manager)
	require.NoError(t, err)
	require.Equal(t, manager.ID, fr.analyticsID)

	total := 0
	for _, c := range a.SentimentDistribution {
		total += c
	}

	require.Equal(t, 1, total)
	require.Contains(t, a.MemberFeedbackCounts, "Diana Wilson")
	require.Equal(t, 0, a.MemberFeedbackCounts["Diana Wilson"])
}

func TestAnalyticsForbiddenForEmployee(t *testing.T) {
	fs, _, _ := newService()

	_, err := fs.Analytics(context.Background(), employee)
	require.ErrorIs(t, err, feedbackservice.ErrForbidden)
}
