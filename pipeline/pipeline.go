// Package pipeline turns an uploaded document into a persisted note
// and quiz: extract text, prompt the model for markdown notes, prompt
// it again for quiz JSON, then save both.
package pipeline

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"

	gonanoid "github.com/matoous/go-nanoid/v2"
	"gorm.io/gorm"

	"github.com/example/microlearn-api/apperrors"
	"github.com/example/microlearn-api/extract"
	"github.com/example/microlearn-api/models"
)

// MaxPromptChars bounds how much extracted text goes into a prompt.
// Larger documents are summarized from their prefix only.
const MaxPromptChars = 30000

const notePromptFormat = "Summarize the following text into concise, easy-to-study notes using Markdown formatting. Use headers, bullet points, and bold text for key concepts:\n\n%s"

const quizPromptFormat = `Generate a quiz with 5 multiple-choice questions based on the text. Return ONLY a JSON object with the following structure:
{ "questions": [ { "question": "...", "options": ["...", "...", "...", "..."], "correctAnswer": "exact string match" } ] }

Text:
%s`

// Generator is the external model dependency. Satisfied by *ai.Client.
type Generator interface {
	Generate(ctx context.Context, prompt string) (string, error)
}

// Processor runs the upload pipeline.
type Processor struct {
	DB        *gorm.DB
	Generator Generator
}

// quizPayload is the JSON contract the quiz prompt demands.
type quizPayload struct {
	Questions []struct {
		Question      string   `json:"question"`
		Options       []string `json:"options"`
		CorrectAnswer string   `json:"correctAnswer"`
	} `json:"questions"`
}

// Process runs the full pipeline for one upload and returns the public
// id of the created note. The pipeline is strictly sequential: any
// failing step abandons the whole operation. If quiz persistence fails
// after the note was saved, the note is deleted again so a half-done
// upload does not linger.
func (p *Processor) Process(ctx context.Context, userID uint, filename string, payload []byte, mimeType string) (string, error) {
	text, err := extract.Text(payload, mimeType)
	if err != nil {
		return "", err
	}

	prompt := truncate(text, MaxPromptChars)

	noteText, err := p.Generator.Generate(ctx, fmt.Sprintf(notePromptFormat, prompt))
	if err != nil {
		return "", err
	}

	quizText, err := p.Generator.Generate(ctx, fmt.Sprintf(quizPromptFormat, prompt))
	if err != nil {
		return "", err
	}

	quiz, err := parseQuiz(quizText)
	if err != nil {
		return "", err
	}

	notePublicID, err := gonanoid.New()
	if err != nil {
		return "", fmt.Errorf("%w: %v", apperrors.ErrStore, err)
	}
	note := models.Note{
		PublicID:     notePublicID,
		UserID:       userID,
		Title:        filename,
		Content:      noteText,
		OriginalText: text,
	}
	if err := p.DB.Create(&note).Error; err != nil {
		return "", fmt.Errorf("%w: %v", apperrors.ErrStore, err)
	}

	if err := p.saveQuiz(userID, &note, filename, quiz); err != nil {
		// Compensate so the failed upload leaves no orphan note. Best
		// effort: if the delete fails too, the orphan survives.
		if delErr := p.DB.Unscoped().Delete(&note).Error; delErr != nil {
			slog.Error("orphan note left after quiz failure", "note", note.PublicID, "error", delErr)
		}
		return "", err
	}

	return note.PublicID, nil
}

func (p *Processor) saveQuiz(userID uint, note *models.Note, filename string, payload *quizPayload) error {
	quizPublicID, err := gonanoid.New()
	if err != nil {
		return fmt.Errorf("%w: %v", apperrors.ErrStore, err)
	}

	quiz := models.Quiz{
		PublicID: quizPublicID,
		UserID:   userID,
		NoteID:   &note.ID,
		Title:    "Quiz: " + filename,
	}
	for i, q := range payload.Questions {
		quiz.Questions = append(quiz.Questions, models.QuizQuestion{
			Position:      i,
			Prompt:        q.Question,
			Options:       models.StringList(q.Options),
			CorrectAnswer: q.CorrectAnswer,
		})
	}

	if err := p.DB.Create(&quiz).Error; err != nil {
		return fmt.Errorf("%w: %v", apperrors.ErrStore, err)
	}
	return nil
}

// parseQuiz strips any code fences the model wrapped around its output
// and parses the strict quiz JSON contract. No repair is attempted.
func parseQuiz(raw string) (*quizPayload, error) {
	clean := stripFences(raw)

	var payload quizPayload
	if err := json.Unmarshal([]byte(clean), &payload); err != nil {
		return nil, fmt.Errorf("%w: %v", apperrors.ErrMalformedGenerationOutput, err)
	}

	if len(payload.Questions) == 0 {
		return nil, fmt.Errorf("%w: no questions", apperrors.ErrMalformedGenerationOutput)
	}
	for _, q := range payload.Questions {
		if q.Question == "" || len(q.Options) < 2 {
			return nil, fmt.Errorf("%w: question %q needs a prompt and at least two options", apperrors.ErrMalformedGenerationOutput, q.Question)
		}
		if !contains(q.Options, q.CorrectAnswer) {
			return nil, fmt.Errorf("%w: correct answer %q is not one of the options", apperrors.ErrMalformedGenerationOutput, q.CorrectAnswer)
		}
	}

	return &payload, nil
}

func stripFences(s string) string {
	s = strings.ReplaceAll(s, "```json", "")
	s = strings.ReplaceAll(s, "```", "")
	return strings.TrimSpace(s)
}

func truncate(s string, max int) string {
	if len(s) <= max {
		return s
	}
	return s[:max]
}

func contains(options []string, answer string) bool {
	for _, o := range options {
		if o == answer {
			return true
		}
	}
	return false
}
