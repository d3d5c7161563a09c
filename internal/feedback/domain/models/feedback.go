package models

import (
	"time"
)

type Feedback struct {
	ID           int       `json:"id"`
	ManagerID    int       `json:"manager_id"`    //nolint:tagliatelle
	EmployeeID   int       `json:"employee_id"`   //nolint:tagliatelle
	EmployeeName string    `json:"employee_name"` //nolint:tagliatelle
	Strengths    string    `json:"strengths"`
	Improvements string    `json:"improvements"`
	Sentiment    string    `json:"sentiment"`
	Acknowledged bool      `json:"acknowledged"`
	CreatedAt    time.Time `json:"created_at"` //nolint:tagliatelle
	UpdatedAt    time.Time `json:"updated_at"` //nolint:tagliatelle
}

// Analytics holds the two team-scoped aggregations a manager can request.
type Analytics struct {
	MemberFeedbackCounts  map[string]int `json:"member_feedback_counts"` //nolint:tagliatelle
	SentimentDistribution map[string]int `json:"sentiment_distribution"` //nolint:tagliatelle
}
