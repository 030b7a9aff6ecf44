package quizgen

import "fmt"

// generationPrompt asks for a batch of mixed-type questions on a topic,
// tuned to the student's academic tier. The model is instructed to answer
// with bare JSON only.
func generationPrompt(tema, tier string, count int) string {
	return fmt.Sprintf(`Genera %d preguntas educativas sobre el tema: "%s" dentro de la asignatura de Estadística.

Los tipos de preguntas deben ser variados:
- Opción múltiple (4 opciones A, B, C, D)
- Verdadero/Falso
- Respuesta abierta (para explicaciones conceptuales)

Responde ÚNICAMENTE en formato JSON válido con esta estructura:
[
    {
        "id": 1,
        "tipo": "opcion_multiple",
        "pregunta": "¿Cuál es la definición de...?",
        "opciones": {
            "A": "Opción A",
            "B": "Opción B",
            "C": "Opción C",
            "D": "Opción D"
        },
        "respuesta_correcta": "A",
        "explicacion": "Explicación detallada de por qué esta es la respuesta correcta"
    },
    {
        "id": 2,
        "tipo": "verdadero_falso",
        "pregunta": "Afirmación sobre el tema...",
        "opciones": {
            "A": "Verdadero",
            "B": "Falso"
        },
        "respuesta_correcta": "A",
        "explicacion": "Explicación de por qué es verdadero/falso"
    },
    {
        "id": 3,
        "tipo": "respuesta_abierta",
        "pregunta": "Explica el concepto de...",
        "opciones": null,
        "respuesta_correcta": "Conceptos clave que debe incluir la respuesta",
        "explicacion": "Explicación detallada del concepto"
    }
]

IMPORTANTE:
- Las preguntas deben ser apropiadas para nivel %s
- Incluye conceptos fundamentales del tema
- Las explicaciones deben ser educativas y claras
- No incluyas texto adicional fuera del JSON`, count, tema, tier)
}

// gradingPrompt asks the model to judge a free-text answer against the
// expected-answer description.
func gradingPrompt(pregunta, esperada, respuesta string) string {
	return fmt.Sprintf(`Evalúa la siguiente respuesta a una pregunta educativa:

PREGUNTA: %s
RESPUESTA CORRECTA ESPERADA: %s
RESPUESTA DEL USUARIO: %s

Evalúa la respuesta del usuario considerando:
1. Precisión conceptual
2. Completitud de la respuesta
3. Uso de terminología apropiada

Responde ÚNICAMENTE en formato JSON:
{
    "correcta": true,
    "puntaje": 0.8,
    "explicacion": "Explicación detallada de la evaluación"
}

El campo "correcta" debe ser true o false y "puntaje" un número entre 0.0 y 1.0.`, pregunta, esperada, respuesta)
}
