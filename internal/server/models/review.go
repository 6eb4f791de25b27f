package models

import "time"

// Response records one answered question inside a quiz attempt.
type Response struct {
	Question  string `json:"question"`
	IsCorrect bool   `json:"is_correct"`
	Submitted string `json:"submitted"`
	Answer    string `json:"answer"`
}

// NewResponse grades the submission against the expected answer.
func NewResponse(question, submitted, answer string) Response {
	return Response{
		Question:  question,
		IsCorrect: submitted == answer,
		Submitted: submitted,
		Answer:    answer,
	}
}

// QuizReview is a completed quiz attempt kept for later review. Reviews are
// owned by the user who took the quiz and are removed when that account is
// deleted.
type QuizReview struct {
	ID        string     `json:"id"`
	Username  string     `json:"username"`
	SetName   string     `json:"set_name"`
	Responses []Response `json:"responses"`
	TakenAt   time.Time  `json:"taken_at"`
}
