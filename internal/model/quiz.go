package model

// Question types produced by the generation service.
const (
	TipoOpcionMultiple   = "opcion_multiple"
	TipoVerdaderoFalso   = "verdadero_falso"
	TipoRespuestaAbierta = "respuesta_abierta"
)

// QuizItem is one generated question. Items are ephemeral: they live in the
// per-session batch for the duration of a practice session and only the
// aggregate evaluation result is persisted.
type QuizItem struct {
	ID                int               `json:"id"`
	Tipo              string            `json:"tipo"`
	Pregunta          string            `json:"pregunta"`
	Opciones          map[string]string `json:"opciones,omitempty"`
	RespuestaCorrecta string            `json:"respuesta_correcta"`
	Explicacion       string            `json:"explicacion"`
}

// Ejercicio is a static stored exercise, served when the generation service
// fails. Unlike QuizItem batches it is displayed with its hint and guide and
// is not graded through the evaluation step.
type Ejercicio struct {
	Pregunta  string   `json:"pregunta"`
	Opciones  []string `json:"opciones"`
	Respuesta string   `json:"respuesta"`
	Pista     string   `json:"pista"`
	Guia      string   `json:"guia"`
}

// ItemResult is the per-question outcome of an evaluation.
type ItemResult struct {
	ID               int     `json:"id"`
	Pregunta         string  `json:"pregunta"`
	RespuestaUsuario string  `json:"respuesta_usuario"`
	Correcta         bool    `json:"correcta"`
	Puntaje          float64 `json:"puntaje"`
	Explicacion      string  `json:"explicacion"`
}

// EvaluationResult is the aggregate outcome returned to the caller.
type EvaluationResult struct {
	Exito                bool         `json:"exito"`
	Tema                 string       `json:"tema"`
	PuntajeFinal         float64      `json:"puntaje_final"`
	PreguntasRespondidas int          `json:"preguntas_respondidas"`
	RespuestasCorrectas  int          `json:"respuestas_correctas"`
	Resultados           []ItemResult `json:"resultados"`
	Mensaje              string       `json:"mensaje,omitempty"`
}

// PracticeBatch is what the practical-flow generation step returns: either
// a freshly generated batch or, when the generation service failed, a
// static stored exercise plus a non-fatal warning.
type PracticeBatch struct {
	Tema        string     `json:"tema"`
	Preguntas   []QuizItem `json:"preguntas,omitempty"`
	Ejercicio   *Ejercicio `json:"ejercicio,omitempty"`
	Advertencia string     `json:"advertencia,omitempty"`
}

// GenerateRequest asks for a fresh practice batch on a topic.
type GenerateRequest struct {
	Tema string `json:"tema" binding:"required"`
}

// EvaluateRequest submits the original batch plus the user's answers,
// keyed by the item ID rendered as a string.
type EvaluateRequest struct {
	Tema       string            `json:"tema" binding:"required"`
	Preguntas  []QuizItem        `json:"preguntas" binding:"required,min=1"`
	Respuestas map[string]string `json:"respuestas" binding:"required"`
}
