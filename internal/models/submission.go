package models

import "time"

type SubmissionStatus string

const (
	SubmissionInProgress SubmissionStatus = "in-progress"
	SubmissionSubmitted  SubmissionStatus = "submitted"
	SubmissionGraded     SubmissionStatus = "graded"
)

// AnswerInput is one answer as sent by the taking user.
type AnswerInput struct {
	QuestionID string `json:"questionId" binding:"required"`
	UserAnswer string `json:"userAnswer"`
}

// Answer is a graded answer record stored on the submission.
type Answer struct {
	QuestionID    string `bson:"questionId" json:"questionId"`
	QuestionText  string `bson:"questionText" json:"questionText"`
	UserAnswer    string `bson:"userAnswer" json:"userAnswer"`
	IsCorrect     bool   `bson:"isCorrect" json:"isCorrect"`
	MarksObtained int    `bson:"marksObtained" json:"marksObtained"`
}

type Submission struct {
	ID                 string           `bson:"_id,omitempty" json:"id"`
	ExamID             string           `bson:"examId" json:"examId"`
	UserID             string           `bson:"userId" json:"userId"`
	Answers            []Answer         `bson:"answers,omitempty" json:"answers,omitempty"`
	TotalMarksObtained int              `bson:"totalMarksObtained" json:"totalMarksObtained"`
	Percentage         float64          `bson:"percentage" json:"percentage"`
	IsPassed           bool             `bson:"isPassed" json:"isPassed"`
	StartTime          time.Time        `bson:"startTime" json:"startTime"`
	EndTime            *time.Time       `bson:"endTime,omitempty" json:"endTime,omitempty"`
	Status             SubmissionStatus `bson:"status" json:"status"`
	CreatedAt          time.Time        `bson:"createdAt" json:"createdAt"`
	UpdatedAt          time.Time        `bson:"updatedAt" json:"updatedAt"`
}

// GradeAnswers scores a set of answers against an exam.
//
// Only MCQ questions are auto-gradable: correctness is literal equality
// with the stored correct answer and awards the question's full marks.
// Short-answer and essay answers are recorded with zero marks. Answers
// referencing unknown question ids are skipped.
func GradeAnswers(exam *Exam, answers []AnswerInput) ([]Answer, int) {
	var graded []Answer
	total := 0
	for _, in := range answers {
		question := exam.QuestionByID(in.QuestionID)
		if question == nil {
			continue
		}

		isCorrect := false
		marks := 0
		if question.QuestionType == QuestionMCQ {
			isCorrect = in.UserAnswer == question.CorrectAnswer
			if isCorrect {
				marks = question.Marks
				total += question.Marks
			}
		}

		graded = append(graded, Answer{
			QuestionID:    in.QuestionID,
			QuestionText:  question.QuestionText,
			UserAnswer:    in.UserAnswer,
			IsCorrect:     isCorrect,
			MarksObtained: marks,
		})
	}
	return graded, total
}
