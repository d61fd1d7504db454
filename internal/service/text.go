package service

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"needsnet.app/api/internal/apperr"
)

// Length bounds of free-text fields, counted in runes after trimming.
const (
	needTitleMin, needTitleMax             = 3, 200
	needDescriptionMin, needDescriptionMax = 10, 5000
	pollQuestionMax                        = 500
	pollOptionMax                          = 200
	messageContentMax                      = 2000
	faqQuestionMin, faqQuestionMax         = 5, 500
	faqAnswerMin, faqAnswerMax             = 10, 5000
)

// cleanText trims value and checks it holds between minLen and maxLen runes.
func cleanText(field, value string, minLen, maxLen int) (string, error) {
	v := strings.TrimSpace(value)
	n := utf8.RuneCountInString(v)
	switch {
	case n == 0:
		return "", apperr.Validation(field+" must not be blank").WithField("field", field)
	case n < minLen:
		return "", apperr.Validation(fmt.Sprintf("%s must be at least %d characters", field, minLen)).WithField("field", field)
	case n > maxLen:
		return "", apperr.Validation(fmt.Sprintf("%s must be at most %d characters", field, maxLen)).WithField("field", field)
	}
	return v, nil
}
