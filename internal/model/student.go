package model

import (
	"strings"
	"time"
)

// AccessKind distinguishes what kind of interaction touched a topic.
type AccessKind string

const (
	AccessExercise AccessKind = "ejercicio"
	AccessViewing  AccessKind = "visualizacion"
)

// Academic tiers used to parameterize question difficulty.
const (
	TierSecundaria  = "secundaria"
	TierUniversidad = "universidad"
	TierPosgrado    = "posgrado"
)

// maxEvaluations caps the evaluation history (FIFO, oldest evicted first).
const maxEvaluations = 50

// LastAccess records the most recent interaction with a topic.
type LastAccess struct {
	Fecha string     `json:"fecha"`
	Tipo  AccessKind `json:"tipo"`
}

// TopicProgress tracks a student's progress on a single topic.
// Entries are created lazily on first interaction; counters only increase.
type TopicProgress struct {
	EjerciciosCompletados int         `json:"ejercicios_completados"`
	UltimoAcceso          *LastAccess `json:"ultimo_acceso"`
	VideosVistos          int         `json:"videos_vistos"`
}

// Evaluation summarizes one completed practice session.
type Evaluation struct {
	Tema                 string  `json:"tema"`
	PuntajeFinal         float64 `json:"puntaje_final"`
	Fecha                string  `json:"fecha"`
	PreguntasRespondidas int     `json:"preguntas_respondidas"`
	RespuestasCorrectas  int     `json:"respuestas_correctas"`
}

// StudentRecord is the full per-user document held by the remote profile
// store. Updates are read-modify-write of the whole record; the store has
// last-writer-wins semantics and the record is never partially overwritten.
type StudentRecord struct {
	Email                 string                    `json:"email"`
	Nombre                string                    `json:"nombre"`
	Edad                  int                       `json:"edad"`
	NivelEducativo        string                    `json:"nivel_educativo"`
	NivelAcademico        string                    `json:"nivel_academico"`
	Intereses             string                    `json:"intereses"`
	FechaRegistro         string                    `json:"fecha_registro"`
	Activo                bool                      `json:"activo"`
	Progreso              map[string]*TopicProgress `json:"progreso"`
	HistorialEvaluaciones []Evaluation              `json:"historial_evaluaciones,omitempty"`
}

// NewStudentRecord builds the initial record written at registration:
// empty progress, empty history, active account.
func NewStudentRecord(email, nombre string, edad int, nivelEducativo, intereses string, now time.Time) *StudentRecord {
	return &StudentRecord{
		Email:          email,
		Nombre:         nombre,
		Edad:           edad,
		NivelEducativo: nivelEducativo,
		NivelAcademico: NormalizeTier(nivelEducativo),
		Intereses:      intereses,
		FechaRegistro:  now.Format(time.RFC3339),
		Activo:         true,
		Progreso:       map[string]*TopicProgress{},
	}
}

// NormalizeTier maps a free-form education level onto a coarse academic tier.
// Unknown input defaults to the university tier.
func NormalizeTier(nivelEducativo string) string {
	s := strings.ToLower(strings.TrimSpace(nivelEducativo))
	switch {
	case strings.Contains(s, "secund"), strings.Contains(s, "bachiller"), strings.Contains(s, "prepa"):
		return TierSecundaria
	case strings.Contains(s, "posgrado"), strings.Contains(s, "maestr"), strings.Contains(s, "doctor"):
		return TierPosgrado
	default:
		return TierUniversidad
	}
}

// Tier returns the student's academic tier, defaulting to university when
// the record carries none.
func (r *StudentRecord) Tier() string {
	if r.NivelAcademico != "" {
		return r.NivelAcademico
	}
	return TierUniversidad
}

// TouchTopic records an access event for a topic, creating the progress entry
// on first interaction. A completed exercise increments the exercise counter;
// a viewing touch only advances ultimo_acceso.
func (r *StudentRecord) TouchTopic(tema string, ejercicioCompletado bool, now time.Time) {
	if r.Progreso == nil {
		r.Progreso = map[string]*TopicProgress{}
	}
	p, ok := r.Progreso[tema]
	if !ok {
		p = &TopicProgress{}
		r.Progreso[tema] = p
	}

	if ejercicioCompletado {
		p.EjerciciosCompletados++
	}

	tipo := AccessViewing
	if ejercicioCompletado {
		tipo = AccessExercise
	}
	p.UltimoAcceso = &LastAccess{
		Fecha: now.Format(time.RFC3339),
		Tipo:  tipo,
	}
}

// AddVideosVistos bumps the videos-viewed counter for a topic. The entry is
// created if the topic was never touched before.
func (r *StudentRecord) AddVideosVistos(tema string, n int) {
	if n <= 0 {
		return
	}
	if r.Progreso == nil {
		r.Progreso = map[string]*TopicProgress{}
	}
	p, ok := r.Progreso[tema]
	if !ok {
		p = &TopicProgress{}
		r.Progreso[tema] = p
	}
	p.VideosVistos += n
}

// AppendEvaluation appends one evaluation record, keeping only the most
// recent maxEvaluations entries (oldest evicted first).
func (r *StudentRecord) AppendEvaluation(ev Evaluation) {
	r.HistorialEvaluaciones = append(r.HistorialEvaluaciones, ev)
	if n := len(r.HistorialEvaluaciones); n > maxEvaluations {
		r.HistorialEvaluaciones = r.HistorialEvaluaciones[n-maxEvaluations:]
	}
}

// LoginRequest is the payload for user authentication.
type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

// RegisterRequest is the payload for account creation. The password pair is
// validated here so the identity provider is never called on a mismatch.
type RegisterRequest struct {
	Email           string `json:"email" binding:"required,email"`
	Password        string `json:"password" binding:"required,min=6,max=128"`
	ConfirmPassword string `json:"confirm_password" binding:"required,eqfield=Password"`
	Nombre          string `json:"nombre" binding:"required,min=2,max=100"`
	Edad            int    `json:"edad" binding:"required,gt=0,lt=120"`
	NivelEducativo  string `json:"nivel_educativo" binding:"required"`
	Intereses       string `json:"intereses" binding:"required"`
}
