package domain

import "fmt"

// ReviewGrade is the user's recall rating. The ordering is significant:
// a higher grade never yields an earlier next review.
type ReviewGrade int

// Review grades in ascending order.
const (
	GradeAgain ReviewGrade = 1
	GradeHard  ReviewGrade = 2
	GradeGood  ReviewGrade = 3
	GradeEasy  ReviewGrade = 4
)

// AllGrades lists every grade in ascending order.
var AllGrades = [4]ReviewGrade{GradeAgain, GradeHard, GradeGood, GradeEasy}

// Valid reports whether g is within 1..4.
func (g ReviewGrade) Valid() bool {
	return g >= GradeAgain && g <= GradeEasy
}

// String returns the lowercase grade name.
func (g ReviewGrade) String() string {
	switch g {
	case GradeAgain:
		return "again"
	case GradeHard:
		return "hard"
	case GradeGood:
		return "good"
	case GradeEasy:
		return "easy"
	default:
		return fmt.Sprintf("grade(%d)", int(g))
	}
}

// ParseReviewGrade converts a numeric rating into a ReviewGrade.
func ParseReviewGrade(rating int) (ReviewGrade, error) {
	g := ReviewGrade(rating)
	if !g.Valid() {
		return 0, NewValidationError("rating", "must be between 1 and 4", ErrInvalidReviewGrade)
	}
	return g, nil
}
