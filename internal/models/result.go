package models

import "time"

type ResultStatus string

const (
	ResultPass ResultStatus = "pass"
	ResultFail ResultStatus = "fail"
)

// Result is the immutable graded summary of a completed submission.
// Its existence for an (exam, user) pair blocks further attempts.
type Result struct {
	ID            string       `bson:"_id,omitempty" json:"id"`
	ExamID        string       `bson:"examId" json:"examId"`
	UserID        string       `bson:"userId" json:"userId"`
	SubmissionID  string       `bson:"submissionId" json:"submissionId"`
	TotalMarks    int          `bson:"totalMarks" json:"totalMarks"`
	MarksObtained int          `bson:"marksObtained" json:"marksObtained"`
	Percentage    float64      `bson:"percentage" json:"percentage"`
	Grade         string       `bson:"grade" json:"grade"`
	IsPassed      bool         `bson:"isPassed" json:"isPassed"`
	AttemptNumber int          `bson:"attemptNumber" json:"attemptNumber"`
	ResultStatus  ResultStatus `bson:"resultStatus" json:"resultStatus"`
	CreatedAt     time.Time    `bson:"createdAt" json:"createdAt"`
}

// UserSummary is the slice of an account attached to admin result views.
type UserSummary struct {
	ID    string `json:"id"`
	Name  string `json:"name,omitempty"`
	Email string `json:"email"`
}

// ExamSummary is the slice of an exam attached to result views.
type ExamSummary struct {
	ID           string `json:"id"`
	Title        string `json:"title"`
	TotalMarks   int    `json:"totalMarks"`
	PassingMarks int    `json:"passingMarks"`
}

// ResultView is a result with its referenced user and exam summaries.
type ResultView struct {
	Result
	User *UserSummary `json:"user,omitempty"`
	Exam *ExamSummary `json:"exam,omitempty"`
}

// LetterGrade maps a percentage to the A-F scale stored on results.
func LetterGrade(percentage float64) string {
	switch {
	case percentage >= 90:
		return "A"
	case percentage >= 80:
		return "B"
	case percentage >= 70:
		return "C"
	case percentage >= 60:
		return "D"
	default:
		return "F"
	}
}
