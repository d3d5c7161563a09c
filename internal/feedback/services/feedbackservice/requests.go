package feedbackservice

type CreateFeedbackRequest struct {
	EmployeeID   int    `json:"employee_id"` //nolint:tagliatelle
	Strengths    string `json:"strengths"`
	Improvements string `json:"improvements"`
	Sentiment    string `json:"sentiment"`
}

type UpdateFeedbackRequest struct {
	Strengths    string `json:"strengths"`
	Improvements string `json:"improvements"`
	Sentiment    string `json:"sentiment"`
}
