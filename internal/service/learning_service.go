package service

import (
	"context"
	"encoding/json"
	"fmt"
	"math/rand"
	"strconv"
	"strings"
	"time"

	"github.com/aprendia/estadistica-backend/internal/config"
	"github.com/aprendia/estadistica-backend/internal/model"
	"github.com/aprendia/estadistica-backend/internal/quizgen"
	"github.com/rs/zerolog"
)

// Flow identifiers returned by the topic/style dispatch.
const (
	FlujoVisual   = "visual"
	FlujoPractico = "practico"
)

// quizBatchTTL bounds how long an ungraded batch stays parked in Redis.
const quizBatchTTL = 2 * time.Hour

// placeholderTopic replaces an empty topic in the visual flow instead of
// erroring out.
const placeholderTopic = "Tema no especificado"

// VideoSearcher is the surface of the video discovery collaborator. It
// never fails; degraded results come back as sentinel entries.
type VideoSearcher interface {
	Search(ctx context.Context, query string, limit int) []model.Video
}

// QuizGenerator is the surface of the question generation/grading service.
type QuizGenerator interface {
	Generate(ctx context.Context, tema, tier string, count int) ([]model.QuizItem, error)
	GradeItem(ctx context.Context, item model.QuizItem, respuesta string) model.ItemResult
}

// quizBatch is the single in-flight batch parked per session between
// generation and evaluation. Generating again overwrites it.
type quizBatch struct {
	Tema      string           `json:"tema"`
	Preguntas []model.QuizItem `json:"preguntas"`
}

// LearningService drives the two learning-style flows and folds results
// back into the student's progress record.
type LearningService struct {
	students  *StudentService
	videos    VideoSearcher
	quiz      QuizGenerator
	cache     KV
	quizCount int
	log       zerolog.Logger
}

// NewLearningService creates a new LearningService.
func NewLearningService(students *StudentService, videos VideoSearcher, quiz QuizGenerator, cache KV, quizCount int, log zerolog.Logger) *LearningService {
	return &LearningService{
		students:  students,
		videos:    videos,
		quiz:      quiz,
		cache:     cache,
		quizCount: quizCount,
		log:       log.With().Str("component", "learning_service").Logger(),
	}
}

// Dispatch validates a topic/style submission and names the flow to route
// to. The topic must belong to the configured catalog.
func (s *LearningService) Dispatch(tema, estilo string) (string, error) {
	if !model.ValidTopic(tema) {
		return "", fmt.Errorf("%w: %s", ErrUnknownTopic, tema)
	}
	switch estilo {
	case model.EstiloVisual:
		return FlujoVisual, nil
	case model.EstiloPractico:
		return FlujoPractico, nil
	default:
		return "", fmt.Errorf("%w: %s", ErrUnknownStyle, estilo)
	}
}

// Visual runs the visual flow: an introduction sentence, up to three
// shuffled video candidates and a viewing touch on the topic's progress.
// An empty topic is tolerated and replaced with a placeholder label.
func (s *LearningService) Visual(ctx context.Context, sess *SessionContext, tema string) *model.VisualContent {
	if tema == "" {
		tema = placeholderTopic
	}

	introduccion := fmt.Sprintf(
		"El tema '%s' trata sobre los conceptos fundamentales de %s en el campo de la estadística. "+
			"En esta sección aprenderás su aplicación práctica, ejemplos visuales y cómo interpretarlo.",
		tema, strings.ToLower(tema),
	)

	videos := s.videos.Search(ctx, tema+" "+model.Asignatura, 6)
	rand.Shuffle(len(videos), func(i, j int) {
		videos[i], videos[j] = videos[j], videos[i]
	})
	if len(videos) > 3 {
		videos = videos[:3]
	}

	// Sentinel entries ("Sin resultados", "Error") are shown but do not
	// count as viewed videos.
	viewed := 0
	for _, v := range videos {
		if v.Titulo != "Sin resultados" && v.Titulo != "Error" {
			viewed++
		}
	}

	if err := s.students.TouchProgress(ctx, sess, tema, false, viewed); err != nil {
		s.log.Warn().Err(err).Str("tema", tema).Msg("viewing touch failed")
	}

	return &model.VisualContent{
		Tema:         tema,
		Introduccion: introduccion,
		Videos:       videos,
	}
}

// GenerateQuiz runs the practical-flow generation step. On any generation
// failure the static stored exercise for the topic is served instead, with
// a non-fatal warning.
func (s *LearningService) GenerateQuiz(ctx context.Context, sess *SessionContext, tema string) *model.PracticeBatch {
	tier := model.TierUniversidad
	if rec, err := s.students.Load(ctx, sess); err == nil {
		tier = rec.Tier()
	}

	items, err := s.quiz.Generate(ctx, tema, tier, s.quizCount)
	if err != nil {
		s.log.Warn().Err(err).Str("tema", tema).Msg("question generation failed, serving fallback")
		ej := quizgen.Fallback(tema)
		s.touchViewing(ctx, sess, tema)
		return &model.PracticeBatch{
			Tema:        tema,
			Ejercicio:   &ej,
			Advertencia: "No se pudieron generar preguntas dinámicas. Se muestra un ejercicio guardado.",
		}
	}

	// Park the batch for the evaluation step; a new batch discards any
	// prior ungraded one.
	if raw, merr := json.Marshal(quizBatch{Tema: tema, Preguntas: items}); merr == nil {
		if cerr := s.cache.Set(ctx, config.CacheKey.QuizBatchKey(sess.UserID), string(raw), quizBatchTTL); cerr != nil {
			s.log.Warn().Err(cerr).Msg("quiz batch stash failed")
		}
	}

	s.touchViewing(ctx, sess, tema)

	return &model.PracticeBatch{Tema: tema, Preguntas: items}
}

// Evaluate grades a batch and persists the aggregate outcome. It never
// fails the request: internal errors degrade into the result message.
func (s *LearningService) Evaluate(ctx context.Context, sess *SessionContext, req *model.EvaluateRequest) *model.EvaluationResult {
	// The parked batch for the same topic outranks the client's copy of the
	// questions, so tampered answer keys never reach the grader. The
	// submitted copy still serves when the parked one expired.
	preguntas := req.Preguntas
	if raw, ok, err := s.cache.Get(ctx, config.CacheKey.QuizBatchKey(sess.UserID)); err == nil && ok {
		var parked quizBatch
		if jerr := json.Unmarshal([]byte(raw), &parked); jerr == nil && parked.Tema == req.Tema && len(parked.Preguntas) > 0 {
			preguntas = parked.Preguntas
		}
	}

	n := len(preguntas)
	if n == 0 {
		return &model.EvaluationResult{Exito: true, Tema: req.Tema, Resultados: []model.ItemResult{}}
	}
	resultados := make([]model.ItemResult, 0, n)

	var suma float64
	correctas := 0
	for _, item := range preguntas {
		respuesta := req.Respuestas[strconv.Itoa(item.ID)]
		r := s.quiz.GradeItem(ctx, item, respuesta)
		if r.Correcta {
			correctas++
		}
		suma += r.Puntaje
		resultados = append(resultados, r)
	}

	final := suma / float64(n) * 100

	result := &model.EvaluationResult{
		Exito:                true,
		Tema:                 req.Tema,
		PuntajeFinal:         final,
		PreguntasRespondidas: n,
		RespuestasCorrectas:  correctas,
		Resultados:           resultados,
	}

	ev := model.Evaluation{
		Tema:                 req.Tema,
		PuntajeFinal:         final,
		Fecha:                time.Now().Format(time.RFC3339),
		PreguntasRespondidas: n,
		RespuestasCorrectas:  correctas,
	}
	if err := s.students.RecordEvaluation(ctx, sess, ev); err != nil {
		s.log.Error().Err(err).Str("tema", req.Tema).Msg("evaluation history write failed")
		result.Mensaje = "La evaluación se calculó pero no se pudo guardar en tu historial."
	}

	// The batch is consumed once evaluated.
	if err := s.cache.Del(ctx, config.CacheKey.QuizBatchKey(sess.UserID)); err != nil {
		s.log.Warn().Err(err).Msg("quiz batch cleanup failed")
	}

	return result
}

func (s *LearningService) touchViewing(ctx context.Context, sess *SessionContext, tema string) {
	if err := s.students.TouchProgress(ctx, sess, tema, false, 0); err != nil {
		s.log.Warn().Err(err).Str("tema", tema).Msg("viewing touch failed")
	}
}
