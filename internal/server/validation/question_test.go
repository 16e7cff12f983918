package validation

import (
	"strings"
	"testing"

	"github.com/dmitrijs2005/learnhub/internal/server/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validQuestion() models.CreateQuestionRequest {
	return models.CreateQuestionRequest{
		QuestionContent: "2 + 2 = ?",
		A:               "3",
		B:               "4",
		CorrectAnswer:   "b",
		Level:           1,
	}
}

func TestCreateQuestion(t *testing.T) {
	tests := []struct {
		name      string
		mutate    func(r *models.CreateQuestionRequest)
		wantField string
	}{
		{name: "valid", mutate: func(r *models.CreateQuestionRequest) {}},
		{name: "upper-case answer", mutate: func(r *models.CreateQuestionRequest) { r.CorrectAnswer = "B" }},
		{name: "c set and correct", mutate: func(r *models.CreateQuestionRequest) { r.C = "5"; r.CorrectAnswer = "c" }},
		{name: "c correct but empty", mutate: func(r *models.CreateQuestionRequest) { r.CorrectAnswer = "C" }, wantField: "C"},
		{name: "d correct but empty", mutate: func(r *models.CreateQuestionRequest) { r.CorrectAnswer = "d" }, wantField: "D"},
		{name: "no content", mutate: func(r *models.CreateQuestionRequest) { r.QuestionContent = "" }, wantField: "QuestionContent"},
		{name: "long content", mutate: func(r *models.CreateQuestionRequest) { r.QuestionContent = strings.Repeat("q", 201) }, wantField: "QuestionContent"},
		{name: "long image url", mutate: func(r *models.CreateQuestionRequest) { r.ImageURL = strings.Repeat("i", 401) }, wantField: "ImageURL"},
		{name: "no a", mutate: func(r *models.CreateQuestionRequest) { r.A = "" }, wantField: "A"},
		{name: "long b", mutate: func(r *models.CreateQuestionRequest) { r.B = strings.Repeat("b", 31) }, wantField: "B"},
		{name: "answer e", mutate: func(r *models.CreateQuestionRequest) { r.CorrectAnswer = "e" }, wantField: "CorrectAnswer"},
		{name: "level 4", mutate: func(r *models.CreateQuestionRequest) { r.Level = 4 }, wantField: "Level"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := validQuestion()
			tt.mutate(&r)

			errs := CreateQuestion(r)
			if tt.wantField == "" {
				assert.True(t, errs.Valid(), "unexpected errors: %v", errs)
				return
			}
			first, ok := errs.First()
			require.True(t, ok, "expected a failure")
			assert.Equal(t, tt.wantField, first.Field)
		})
	}
}

func TestCreateQuestion_ConditionalMessage(t *testing.T) {
	r := validQuestion()
	r.CorrectAnswer = "d"

	first, ok := CreateQuestion(r).First()
	require.True(t, ok)
	assert.Equal(t, "Answer 'd' must be specified when it is set as the CorrectAnswer", first.Message)
}

func TestUpdateQuestion(t *testing.T) {
	r := models.UpdateQuestionRequest(validQuestion())
	r.ImageURL = "https://cdn.example.com/q.png"
	r.QuestionContent = strings.Repeat("q", 500)
	assert.True(t, UpdateQuestion(r).Valid())

	r.ImageURL = ""
	first, ok := UpdateQuestion(r).First()
	require.True(t, ok)
	assert.Equal(t, "ImageURL", first.Field)

	r.ImageURL = "cdn/q.png"
	first, ok = UpdateQuestion(r).First()
	require.True(t, ok)
	assert.Equal(t, "ImageURL", first.Field)
}
