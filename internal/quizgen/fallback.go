package quizgen

import (
	"math/rand"

	"github.com/aprendia/estadistica-backend/internal/model"
)

// fallbackBank holds one stored exercise per canonical topic, served when
// the generation service fails.
var fallbackBank = map[string]model.Ejercicio{
	"Probabilidad básica": {
		Pregunta:  "Si lanzas un dado, ¿cuál es la probabilidad de obtener un número par?",
		Opciones:  []string{"1/2", "1/3", "2/3", "1/6"},
		Respuesta: "1/2",
		Pista:     "Recuerda que un dado tiene 3 números pares (2, 4 y 6) de 6 posibles.",
		Guia:      "Para resolver, divide el número de resultados favorables (3) entre el total de posibles (6).",
	},
	"Media aritmética y ponderada": {
		Pregunta:  "¿Cuál es la media de los números 2, 4, 6, 8, 10?",
		Opciones:  []string{"5", "6", "8", "4"},
		Respuesta: "6",
		Pista:     "Suma todos los valores y divide por la cantidad de datos.",
		Guia:      "Media = (2+4+6+8+10)/5 = 30/5 = 6",
	},
	"Varianza y desviación estándar": {
		Pregunta:  "Si los datos son 2, 4 y 6, ¿cuál es su varianza?",
		Opciones:  []string{"2.67", "4", "8", "1.5"},
		Respuesta: "2.67",
		Pista:     "Calcula primero la media, luego la suma de los cuadrados de las desviaciones dividida entre n.",
		Guia:      "Media=4. Varianza=((2−4)²+(4−4)²+(6−4)²)/3=8/3=2.67",
	},
}

// fallbackTopics is the stable iteration order for random selection.
var fallbackTopics = []string{
	"Probabilidad básica",
	"Media aritmética y ponderada",
	"Varianza y desviación estándar",
}

// Fallback returns the stored exercise for a topic, or a random one when
// the topic has no stored bundle.
func Fallback(tema string) model.Ejercicio {
	if ej, ok := fallbackBank[tema]; ok {
		return ej
	}
	return fallbackBank[fallbackTopics[rand.Intn(len(fallbackTopics))]]
}
