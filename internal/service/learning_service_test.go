package service

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/aprendia/estadistica-backend/internal/config"
	"github.com/aprendia/estadistica-backend/internal/model"
)

func newLearningFixture(store *fakeStore, videos *fakeSearcher, quiz *fakeQuiz) (*LearningService, *fakeKV) {
	kv := newFakeKV()
	students := NewStudentService(store, kv, nopLog())
	return NewLearningService(students, videos, quiz, kv, 5, nopLog()), kv
}

func seedRecord(store *fakeStore, userID, nivel string) {
	store.records[userID] = model.NewStudentRecord(userID+"@example.com", "Test", 22, nivel, "", time.Now())
}

func TestDispatch(t *testing.T) {
	svc, _ := newLearningFixture(newFakeStore(), &fakeSearcher{}, &fakeQuiz{})

	flujo, err := svc.Dispatch("Probabilidad básica", model.EstiloVisual)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if flujo != FlujoVisual {
		t.Errorf("flujo = %q, want %q", flujo, FlujoVisual)
	}

	flujo, err = svc.Dispatch("Distribución normal", model.EstiloPractico)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if flujo != FlujoPractico {
		t.Errorf("flujo = %q, want %q", flujo, FlujoPractico)
	}
}

func TestDispatch_UnknownTopic(t *testing.T) {
	svc, _ := newLearningFixture(newFakeStore(), &fakeSearcher{}, &fakeQuiz{})

	if _, err := svc.Dispatch("Topología algebraica", model.EstiloVisual); !errors.Is(err, ErrUnknownTopic) {
		t.Fatalf("got %v, want ErrUnknownTopic", err)
	}
}

func TestDispatch_UnknownStyle(t *testing.T) {
	svc, _ := newLearningFixture(newFakeStore(), &fakeSearcher{}, &fakeQuiz{})

	if _, err := svc.Dispatch("Probabilidad básica", "Auditivo"); !errors.Is(err, ErrUnknownStyle) {
		t.Fatalf("got %v, want ErrUnknownStyle", err)
	}
}

func TestVisual(t *testing.T) {
	store := newFakeStore()
	seedRecord(store, "uid-1", "universidad")

	videos := &fakeSearcher{videos: []model.Video{
		{Titulo: "Video educativo encontrado", URL: "https://www.youtube.com/watch?v=aaaaaaaaaaa"},
		{Titulo: "Video educativo encontrado", URL: "https://www.youtube.com/watch?v=bbbbbbbbbbb"},
		{Titulo: "Video educativo encontrado", URL: "https://www.youtube.com/watch?v=ccccccccccc"},
		{Titulo: "Video educativo encontrado", URL: "https://www.youtube.com/watch?v=ddddddddddd"},
	}}
	svc, _ := newLearningFixture(store, videos, &fakeQuiz{})

	content := svc.Visual(context.Background(), testSession("uid-1"), "Distribución normal")

	if content.Tema != "Distribución normal" {
		t.Errorf("tema = %q", content.Tema)
	}
	if content.Introduccion == "" {
		t.Error("empty introduction")
	}
	if len(content.Videos) != 3 {
		t.Errorf("got %d videos, want 3", len(content.Videos))
	}
	if len(videos.queries) != 1 || videos.queries[0] != "Distribución normal "+model.Asignatura {
		t.Errorf("unexpected search queries: %v", videos.queries)
	}

	// The viewing touch lands in the stored record.
	rec := store.records["uid-1"]
	p := rec.Progreso["Distribución normal"]
	if p == nil {
		t.Fatal("no progress entry after visual flow")
	}
	if p.EjerciciosCompletados != 0 {
		t.Errorf("visual flow incremented exercises: %d", p.EjerciciosCompletados)
	}
	if p.VideosVistos != 3 {
		t.Errorf("videos vistos = %d, want 3", p.VideosVistos)
	}
	if p.UltimoAcceso == nil || p.UltimoAcceso.Tipo != model.AccessViewing {
		t.Errorf("last access = %+v, want viewing", p.UltimoAcceso)
	}
}

func TestVisual_EmptyTopicGetsPlaceholder(t *testing.T) {
	store := newFakeStore()
	seedRecord(store, "uid-1", "universidad")
	svc, _ := newLearningFixture(store, &fakeSearcher{}, &fakeQuiz{})

	content := svc.Visual(context.Background(), testSession("uid-1"), "")
	if content.Tema != "Tema no especificado" {
		t.Errorf("tema = %q, want placeholder", content.Tema)
	}
}

func TestVisual_SentinelsDoNotCountAsViewed(t *testing.T) {
	store := newFakeStore()
	seedRecord(store, "uid-1", "universidad")

	videos := &fakeSearcher{videos: []model.Video{
		{Titulo: "Sin resultados", URL: "No se encontraron videos."},
	}}
	svc, _ := newLearningFixture(store, videos, &fakeQuiz{})

	content := svc.Visual(context.Background(), testSession("uid-1"), "Muestreo e inferencia")
	if len(content.Videos) != 1 {
		t.Fatalf("got %d videos, want the sentinel", len(content.Videos))
	}

	p := store.records["uid-1"].Progreso["Muestreo e inferencia"]
	if p == nil {
		t.Fatal("no progress entry")
	}
	if p.VideosVistos != 0 {
		t.Errorf("sentinel counted as viewed: %d", p.VideosVistos)
	}
}

func TestGenerateQuiz(t *testing.T) {
	store := newFakeStore()
	seedRecord(store, "uid-1", "posgrado")

	quiz := &fakeQuiz{items: []model.QuizItem{
		{ID: 1, Tipo: model.TipoOpcionMultiple, Pregunta: "p1", RespuestaCorrecta: "a"},
		{ID: 2, Tipo: model.TipoVerdaderoFalso, Pregunta: "p2", RespuestaCorrecta: "verdadero"},
	}}
	svc, kv := newLearningFixture(store, &fakeSearcher{}, quiz)

	batch := svc.GenerateQuiz(context.Background(), testSession("uid-1"), "Probabilidad básica")

	if batch.Advertencia != "" {
		t.Errorf("unexpected warning: %q", batch.Advertencia)
	}
	if batch.Ejercicio != nil {
		t.Error("fallback exercise served on success")
	}
	if len(batch.Preguntas) != 2 {
		t.Fatalf("got %d items, want 2", len(batch.Preguntas))
	}
	if quiz.lastTier != model.TierPosgrado {
		t.Errorf("generation tier = %q, want %q", quiz.lastTier, model.TierPosgrado)
	}

	// The batch is parked for the evaluation step.
	raw, ok, _ := kv.Get(context.Background(), config.CacheKey.QuizBatchKey("uid-1"))
	if !ok {
		t.Fatal("batch not stashed")
	}
	var stashed struct {
		Tema      string           `json:"tema"`
		Preguntas []model.QuizItem `json:"preguntas"`
	}
	if err := json.Unmarshal([]byte(raw), &stashed); err != nil {
		t.Fatalf("decode stashed batch: %v", err)
	}
	if stashed.Tema != "Probabilidad básica" || len(stashed.Preguntas) != 2 {
		t.Errorf("stashed batch = %+v", stashed)
	}
}

func TestGenerateQuiz_DefaultTierWithoutRecord(t *testing.T) {
	quiz := &fakeQuiz{items: []model.QuizItem{{ID: 1, Tipo: model.TipoOpcionMultiple, RespuestaCorrecta: "a"}}}
	svc, _ := newLearningFixture(newFakeStore(), &fakeSearcher{}, quiz)

	svc.GenerateQuiz(context.Background(), testSession("uid-missing"), "Probabilidad básica")
	if quiz.lastTier != model.TierUniversidad {
		t.Errorf("tier = %q, want default %q", quiz.lastTier, model.TierUniversidad)
	}
}

func TestGenerateQuiz_FallsBackOnFailure(t *testing.T) {
	store := newFakeStore()
	seedRecord(store, "uid-1", "universidad")

	quiz := &fakeQuiz{genErr: errors.New("llm down")}
	svc, kv := newLearningFixture(store, &fakeSearcher{}, quiz)

	batch := svc.GenerateQuiz(context.Background(), testSession("uid-1"), "Media aritmética y ponderada")

	if batch.Ejercicio == nil {
		t.Fatal("no fallback exercise served")
	}
	if batch.Ejercicio.Respuesta != "6" {
		t.Errorf("stored exercise answer = %q, want 6", batch.Ejercicio.Respuesta)
	}
	if batch.Advertencia == "" {
		t.Error("missing degradation warning")
	}
	if len(batch.Preguntas) != 0 {
		t.Errorf("fallback batch carries %d generated items", len(batch.Preguntas))
	}
	if _, ok, _ := kv.Get(context.Background(), config.CacheKey.QuizBatchKey("uid-1")); ok {
		t.Error("failed generation stashed a batch")
	}
}

func TestEvaluate(t *testing.T) {
	store := newFakeStore()
	seedRecord(store, "uid-1", "universidad")
	svc, kv := newLearningFixture(store, &fakeSearcher{}, &fakeQuiz{})

	_ = kv.Set(context.Background(), config.CacheKey.QuizBatchKey("uid-1"), "{}", time.Hour)

	req := &model.EvaluateRequest{
		Tema: "Probabilidad básica",
		Preguntas: []model.QuizItem{
			{ID: 1, Tipo: model.TipoOpcionMultiple, RespuestaCorrecta: "a"},
			{ID: 2, Tipo: model.TipoVerdaderoFalso, RespuestaCorrecta: "verdadero"},
		},
		Respuestas: map[string]string{"1": "a", "2": "falso"},
	}

	result := svc.Evaluate(context.Background(), testSession("uid-1"), req)

	if !result.Exito {
		t.Error("evaluation not marked successful")
	}
	if result.PuntajeFinal != 50 {
		t.Errorf("final score = %v, want 50", result.PuntajeFinal)
	}
	if result.PreguntasRespondidas != 2 || result.RespuestasCorrectas != 1 {
		t.Errorf("counts = %d/%d, want 2/1", result.PreguntasRespondidas, result.RespuestasCorrectas)
	}
	if result.Mensaje != "" {
		t.Errorf("unexpected message: %q", result.Mensaje)
	}
	if len(result.Resultados) != 2 {
		t.Fatalf("got %d item results", len(result.Resultados))
	}

	// The outcome lands in the record: history entry plus a completed
	// exercise touch.
	rec := store.records["uid-1"]
	if len(rec.HistorialEvaluaciones) != 1 {
		t.Fatalf("history length = %d, want 1", len(rec.HistorialEvaluaciones))
	}
	ev := rec.HistorialEvaluaciones[0]
	if ev.Tema != "Probabilidad básica" || ev.PuntajeFinal != 50 {
		t.Errorf("history entry = %+v", ev)
	}
	p := rec.Progreso["Probabilidad básica"]
	if p == nil || p.EjerciciosCompletados != 1 {
		t.Errorf("exercise touch missing: %+v", p)
	}

	// The parked batch is consumed.
	if _, ok, _ := kv.Get(context.Background(), config.CacheKey.QuizBatchKey("uid-1")); ok {
		t.Error("quiz batch survived evaluation")
	}
}

func TestEvaluate_PrefersParkedBatch(t *testing.T) {
	store := newFakeStore()
	seedRecord(store, "uid-1", "universidad")
	svc, kv := newLearningFixture(store, &fakeSearcher{}, &fakeQuiz{})

	parked, _ := json.Marshal(quizBatch{
		Tema: "Probabilidad básica",
		Preguntas: []model.QuizItem{
			{ID: 1, Tipo: model.TipoOpcionMultiple, RespuestaCorrecta: "a"},
		},
	})
	_ = kv.Set(context.Background(), config.CacheKey.QuizBatchKey("uid-1"), string(parked), time.Hour)

	// The client submits a doctored copy whose answer key matches its own
	// answer. Grading must run against the server-held items.
	req := &model.EvaluateRequest{
		Tema: "Probabilidad básica",
		Preguntas: []model.QuizItem{
			{ID: 1, Tipo: model.TipoOpcionMultiple, RespuestaCorrecta: "b"},
		},
		Respuestas: map[string]string{"1": "b"},
	}

	result := svc.Evaluate(context.Background(), testSession("uid-1"), req)
	if result.RespuestasCorrectas != 0 {
		t.Errorf("doctored answer key graded correct: %+v", result)
	}
	if result.PuntajeFinal != 0 {
		t.Errorf("final score = %v, want 0", result.PuntajeFinal)
	}
}

func TestEvaluate_ParkedBatchTopicMismatchUsesSubmitted(t *testing.T) {
	store := newFakeStore()
	seedRecord(store, "uid-1", "universidad")
	svc, kv := newLearningFixture(store, &fakeSearcher{}, &fakeQuiz{})

	parked, _ := json.Marshal(quizBatch{
		Tema:      "Distribución normal",
		Preguntas: []model.QuizItem{{ID: 9, Tipo: model.TipoOpcionMultiple, RespuestaCorrecta: "d"}},
	})
	_ = kv.Set(context.Background(), config.CacheKey.QuizBatchKey("uid-1"), string(parked), time.Hour)

	req := &model.EvaluateRequest{
		Tema:       "Probabilidad básica",
		Preguntas:  []model.QuizItem{{ID: 1, Tipo: model.TipoOpcionMultiple, RespuestaCorrecta: "a"}},
		Respuestas: map[string]string{"1": "a"},
	}

	result := svc.Evaluate(context.Background(), testSession("uid-1"), req)
	if result.PreguntasRespondidas != 1 || result.RespuestasCorrectas != 1 {
		t.Errorf("submitted batch not used on topic mismatch: %+v", result)
	}
}

func TestEvaluate_HistoryWriteFailureDegrades(t *testing.T) {
	store := newFakeStore()
	seedRecord(store, "uid-1", "universidad")
	store.writeErr = errStoreDown
	svc, _ := newLearningFixture(store, &fakeSearcher{}, &fakeQuiz{})

	req := &model.EvaluateRequest{
		Tema:       "Probabilidad básica",
		Preguntas:  []model.QuizItem{{ID: 1, Tipo: model.TipoOpcionMultiple, RespuestaCorrecta: "a"}},
		Respuestas: map[string]string{"1": "a"},
	}

	result := svc.Evaluate(context.Background(), testSession("uid-1"), req)
	if !result.Exito {
		t.Error("evaluation failed outright on history outage")
	}
	if result.PuntajeFinal != 100 {
		t.Errorf("final score = %v, want 100", result.PuntajeFinal)
	}
	if result.Mensaje == "" {
		t.Error("missing degradation message")
	}
}

func TestEvaluate_UnansweredItemsScoreZero(t *testing.T) {
	store := newFakeStore()
	seedRecord(store, "uid-1", "universidad")
	svc, _ := newLearningFixture(store, &fakeSearcher{}, &fakeQuiz{})

	req := &model.EvaluateRequest{
		Tema: "Probabilidad básica",
		Preguntas: []model.QuizItem{
			{ID: 1, Tipo: model.TipoOpcionMultiple, RespuestaCorrecta: "a"},
			{ID: 2, Tipo: model.TipoOpcionMultiple, RespuestaCorrecta: "b"},
		},
		Respuestas: map[string]string{"1": "a"},
	}

	result := svc.Evaluate(context.Background(), testSession("uid-1"), req)
	if result.PuntajeFinal != 50 {
		t.Errorf("final score = %v, want 50", result.PuntajeFinal)
	}
	if result.Resultados[1].RespuestaUsuario != "" {
		t.Errorf("unanswered item carries answer %q", result.Resultados[1].RespuestaUsuario)
	}
}
