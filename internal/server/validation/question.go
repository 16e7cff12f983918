package validation

import (
	"slices"
	"strings"

	"github.com/dmitrijs2005/learnhub/internal/server/models"
)

var (
	correctAnswers = []string{"a", "b", "c", "d"}
	questionLevels = []int{1, 2, 3}
)

type questionBounds struct {
	content, imageURL, answer int
	imageRequired             bool
}

func CreateQuestion(r models.CreateQuestionRequest) Errors {
	return question(r, questionBounds{content: 200, imageURL: 400, answer: 30})
}

func UpdateQuestion(r models.UpdateQuestionRequest) Errors {
	return question(models.CreateQuestionRequest(r), questionBounds{content: 1000, imageURL: 1000, answer: 1000, imageRequired: true})
}

func question(r models.CreateQuestionRequest, b questionBounds) Errors {
	var c checker
	correct := strings.ToLower(strings.TrimSpace(r.CorrectAnswer))

	c.notEmpty("QuestionContent", r.QuestionContent)
	c.maxLen("QuestionContent", r.QuestionContent, b.content)

	c.maxLen("ImageURL", r.ImageURL, b.imageURL)
	if b.imageRequired {
		c.notEmpty("ImageURL", r.ImageURL)
		c.urlOrEmpty("ImageURL", r.ImageURL)
	}

	c.notEmpty("A", r.A)
	c.maxLen("A", r.A, b.answer)

	c.notEmpty("B", r.B)
	c.maxLen("B", r.B, b.answer)

	// C and D are optional unless they hold the correct answer.
	for _, slot := range []struct{ field, letter, value string }{
		{"C", "c", r.C},
		{"D", "d", r.D},
	} {
		c.maxLen(slot.field, slot.value, b.answer)
		if correct == slot.letter && strings.TrimSpace(slot.value) == "" {
			c.add(slot.field, "Answer '%s' must be specified when it is set as the CorrectAnswer", slot.letter)
		}
	}

	c.notEmpty("CorrectAnswer", r.CorrectAnswer)
	if !slices.Contains(correctAnswers, correct) {
		c.add("CorrectAnswer", "must be either a, b, c or d")
	}

	if !slices.Contains(questionLevels, r.Level) {
		c.add("Level", "must be either 1, 2 or 3")
	}

	return c.errs
}
