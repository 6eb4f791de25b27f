package models

// Question is a single quiz item. Markup holds the rendered question body;
// Answer is the exact expected response string.
type Question struct {
	Title             string `json:"title"`
	Markup            string `json:"markup"`
	CalculatorAllowed bool   `json:"calculator_allowed"`
	Answer            string `json:"answer"`
}

// QuestionSet is a named collection of questions authored by a teacher.
// Names are unique across the collection.
type QuestionSet struct {
	Name      string     `json:"name"`
	Author    string     `json:"author"`
	Questions []Question `json:"questions"`
}
