package model

// Asignatura is the single supported subject.
const Asignatura = "Estadística"

// Learning styles a student can choose for a topic.
const (
	EstiloVisual   = "Visual"
	EstiloPractico = "Práctico"
)

// Temas is the fixed topic catalog for the subject. It is static
// configuration, not derived data.
var Temas = []string{
	"Probabilidad básica",
	"Media aritmética y ponderada",
	"Varianza y desviación estándar",
	"Distribución normal",
	"Correlación y regresión lineal",
	"Muestreo e inferencia",
}

// ValidTopic reports whether tema belongs to the configured catalog.
func ValidTopic(tema string) bool {
	for _, t := range Temas {
		if t == tema {
			return true
		}
	}
	return false
}

// SelectRequest is the topic/learning-style submission.
type SelectRequest struct {
	Tema   string `json:"tema" binding:"required"`
	Estilo string `json:"estilo" binding:"required,oneof=Visual Práctico"`
}

// Video is one discovered video candidate.
type Video struct {
	Titulo string `json:"titulo"`
	URL    string `json:"url"`
}

// VisualContent is what the visual flow returns for display.
type VisualContent struct {
	Tema         string  `json:"tema"`
	Introduccion string  `json:"introduccion"`
	Videos       []Video `json:"videos"`
}
