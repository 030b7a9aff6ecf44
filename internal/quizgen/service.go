package quizgen

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/aprendia/estadistica-backend/internal/model"
	"github.com/rs/zerolog"
)

// retryWait is the pause before the single retry on a failed model call.
const retryWait = 500 * time.Millisecond

// GradeResult is the judgment on an open-ended answer.
type GradeResult struct {
	Correcta    bool    `json:"correcta"`
	Puntaje     float64 `json:"puntaje"`
	Explicacion string  `json:"explicacion"`
}

// Service drives quiz generation and grading against an LLM. Every model
// call is bounded by the configured timeout and retried once; malformed
// output is a service failure, so callers can fall back deterministically.
type Service struct {
	model   Model
	timeout time.Duration
	log     zerolog.Logger
}

// NewService creates a question generation/grading service.
func NewService(m Model, timeout time.Duration, log zerolog.Logger) *Service {
	return &Service{
		model:   m,
		timeout: timeout,
		log:     log.With().Str("component", "quizgen").Logger(),
	}
}

// Generate requests a batch of quiz items for a topic at an academic tier.
// The model output must satisfy the batch schema exactly; any deviation is
// returned as an error.
func (s *Service) Generate(ctx context.Context, tema, tier string, count int) ([]model.QuizItem, error) {
	raw, err := s.call(ctx, generationPrompt(tema, tier, count))
	if err != nil {
		return nil, fmt.Errorf("generate questions: %w", err)
	}

	if err := validateJSON("quiz-batch", batchSchemaDef, raw); err != nil {
		return nil, fmt.Errorf("generate questions: %w", err)
	}

	var items []model.QuizItem
	if err := json.Unmarshal(raw, &items); err != nil {
		return nil, fmt.Errorf("decode questions: %w", err)
	}

	s.log.Debug().Str("tema", tema).Str("tier", tier).Int("items", len(items)).Msg("quiz batch generated")
	return items, nil
}

// GradeItem scores one answered item. Closed question types are matched
// locally; open-ended answers are judged by the model. It never fails: a
// grading-service error scores the item 0/incorrect with a generic note.
func (s *Service) GradeItem(ctx context.Context, item model.QuizItem, respuesta string) model.ItemResult {
	result := model.ItemResult{
		ID:               item.ID,
		Pregunta:         item.Pregunta,
		RespuestaUsuario: respuesta,
	}

	switch item.Tipo {
	case model.TipoRespuestaAbierta:
		grade, err := s.gradeOpen(ctx, item.Pregunta, item.RespuestaCorrecta, respuesta)
		if err != nil {
			s.log.Warn().Err(err).Int("item", item.ID).Msg("open-ended grading failed")
			result.Explicacion = "Error en la evaluación automática"
			return result
		}
		result.Correcta = grade.Correcta
		result.Puntaje = grade.Puntaje
		result.Explicacion = grade.Explicacion
	default:
		// Multiple choice and true/false: exact case-insensitive match.
		correct := strings.EqualFold(strings.TrimSpace(respuesta), strings.TrimSpace(item.RespuestaCorrecta))
		result.Correcta = correct
		if correct {
			result.Puntaje = 1
		}
		result.Explicacion = item.Explicacion
	}

	return result
}

func (s *Service) gradeOpen(ctx context.Context, pregunta, esperada, respuesta string) (*GradeResult, error) {
	raw, err := s.call(ctx, gradingPrompt(pregunta, esperada, respuesta))
	if err != nil {
		return nil, err
	}

	if err := validateJSON("grade-result", gradeSchemaDef, raw); err != nil {
		return nil, err
	}

	grade := &GradeResult{}
	if err := json.Unmarshal(raw, grade); err != nil {
		return nil, fmt.Errorf("decode grade: %w", err)
	}

	// Scores outside [0,1] are clamped rather than rejected.
	if grade.Puntaje < 0 {
		grade.Puntaje = 0
	}
	if grade.Puntaje > 1 {
		grade.Puntaje = 1
	}
	return grade, nil
}

// call runs one model invocation under the service timeout, retrying once
// on failure.
func (s *Service) call(ctx context.Context, prompt string) ([]byte, error) {
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	var lastErr error
	for attempt := 0; attempt < 2; attempt++ {
		if attempt > 0 {
			select {
			case <-ctx.Done():
				return nil, ctx.Err()
			case <-time.After(retryWait):
			}
		}

		out, err := s.model.GenerateContent(ctx, prompt)
		if err == nil {
			return []byte(stripFences(out)), nil
		}
		lastErr = err
	}
	return nil, lastErr
}

// stripFences removes a markdown code fence the model sometimes wraps its
// JSON in.
func stripFences(out string) string {
	out = strings.TrimSpace(out)
	if strings.HasPrefix(out, "```json") {
		out = strings.TrimPrefix(out, "```json")
	} else if strings.HasPrefix(out, "```") {
		out = strings.TrimPrefix(out, "```")
	}
	out = strings.TrimSuffix(strings.TrimSpace(out), "```")
	return strings.TrimSpace(out)
}
