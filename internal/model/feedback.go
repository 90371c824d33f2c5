package model

type SubmitFeedbackRequest struct {
	TargetType string `json:"target_type"`
	TargetID   string `json:"target_id"`
	Rating     int    `json:"rating"`
	Comment    string `json:"comment"`
}

type SubmitFeedbackResponse struct {
	ID string `json:"id"`
}
