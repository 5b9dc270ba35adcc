package models

import "time"

type QuestionType string

const (
	QuestionMCQ         QuestionType = "mcq"
	QuestionShortAnswer QuestionType = "shortAnswer"
	QuestionEssay       QuestionType = "essay"
)

// Question is embedded in an exam. CorrectAnswer is only meaningful for
// MCQ and must be stripped before the exam is handed to a taking user.
type Question struct {
	ID            string       `bson:"id" json:"id"`
	QuestionText  string       `bson:"questionText" json:"questionText"`
	QuestionType  QuestionType `bson:"questionType" json:"questionType"`
	Marks         int          `bson:"marks" json:"marks"`
	Options       []string     `bson:"options,omitempty" json:"options,omitempty"`
	CorrectAnswer string       `bson:"correctAnswer,omitempty" json:"correctAnswer,omitempty"`
}

type Exam struct {
	ID           string     `bson:"_id,omitempty" json:"id"`
	Title        string     `bson:"title" json:"title"`
	Description  string     `bson:"description,omitempty" json:"description,omitempty"`
	Duration     int        `bson:"duration" json:"duration"` // minutes
	TotalMarks   int        `bson:"totalMarks" json:"totalMarks"`
	PassingMarks int        `bson:"passingMarks" json:"passingMarks"`
	Questions    []Question `bson:"questions" json:"questions"`
	CreatedBy    string     `bson:"createdBy" json:"createdBy"`
	IsPublished  bool       `bson:"isPublished" json:"isPublished"`
	StartDate    *time.Time `bson:"startDate,omitempty" json:"startDate,omitempty"`
	EndDate      *time.Time `bson:"endDate,omitempty" json:"endDate,omitempty"`
	CreatedAt    time.Time  `bson:"createdAt" json:"createdAt"`
	UpdatedAt    time.Time  `bson:"updatedAt" json:"updatedAt"`
}

// TakerQuestion is a question with grading-only fields removed.
type TakerQuestion struct {
	ID           string       `json:"id"`
	QuestionText string       `json:"questionText"`
	QuestionType QuestionType `json:"questionType"`
	Marks        int          `json:"marks"`
	Options      []string     `json:"options,omitempty"`
}

// ExamTakerView is what a taking user receives when an attempt starts.
type ExamTakerView struct {
	ID         string          `json:"id"`
	Title      string          `json:"title"`
	Duration   int             `json:"duration"`
	TotalMarks int             `json:"totalMarks"`
	Questions  []TakerQuestion `json:"questions"`
}

// TakerView strips correct answers so they never reach the client
// before grading.
func (e *Exam) TakerView() ExamTakerView {
	questions := make([]TakerQuestion, 0, len(e.Questions))
	for _, q := range e.Questions {
		questions = append(questions, TakerQuestion{
			ID:           q.ID,
			QuestionText: q.QuestionText,
			QuestionType: q.QuestionType,
			Marks:        q.Marks,
			Options:      q.Options,
		})
	}
	return ExamTakerView{
		ID:         e.ID,
		Title:      e.Title,
		Duration:   e.Duration,
		TotalMarks: e.TotalMarks,
		Questions:  questions,
	}
}

// QuestionByID returns the embedded question with the given id, or nil.
func (e *Exam) QuestionByID(id string) *Question {
	for i := range e.Questions {
		if e.Questions[i].ID == id {
			return &e.Questions[i]
		}
	}
	return nil
}

// ExamWithAttempt annotates an exam with whether the listing user has
// already produced a result for it.
type ExamWithAttempt struct {
	Exam
	HasAttempted bool `json:"hasAttempted"`
}
