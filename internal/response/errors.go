package response

// ErrCode is a typed error code enum for consistent API error identification.
type ErrCode string

const (
	// ─── Authentication ────────────────────────────────────────────────
	ErrInvalidCredentials ErrCode = "INVALID_CREDENTIALS"
	ErrUserNotFound       ErrCode = "USER_NOT_FOUND"
	ErrAccountDisabled    ErrCode = "ACCOUNT_DISABLED"
	ErrAuthFailed         ErrCode = "AUTH_FAILED"
	ErrEmailExists        ErrCode = "EMAIL_EXISTS"
	ErrSessionInvalidated ErrCode = "SESSION_INVALIDATED"
	ErrTokenRequired      ErrCode = "TOKEN_REQUIRED"
	ErrTokenInvalid       ErrCode = "TOKEN_INVALID"

	// ─── Validation ────────────────────────────────────────────────────
	ErrValidation     ErrCode = "VALIDATION_ERROR"
	ErrInvalidPayload ErrCode = "INVALID_PAYLOAD"
	ErrUnknownTopic   ErrCode = "UNKNOWN_TOPIC"
	ErrUnknownStyle   ErrCode = "UNKNOWN_STYLE"

	// ─── Profile store ─────────────────────────────────────────────────
	ErrProfileNotFound  ErrCode = "PROFILE_NOT_FOUND"
	ErrProfileSaveError ErrCode = "PROFILE_SAVE_ERROR"

	// ─── Rate Limiting ─────────────────────────────────────────────────
	ErrRateLimitExceeded ErrCode = "RATE_LIMIT_EXCEEDED"

	// ─── Server ────────────────────────────────────────────────────────
	ErrInternal ErrCode = "INTERNAL_ERROR"
)

// GetMessage returns a human-readable message for a given error code.
func GetMessage(code ErrCode) string {
	switch code {
	// ─── Authentication ────────────────────────────────────────────────
	case ErrInvalidCredentials:
		return "Contraseña incorrecta."
	case ErrUserNotFound:
		return "Usuario no encontrado."
	case ErrAccountDisabled:
		return "La cuenta está deshabilitada."
	case ErrAuthFailed:
		return "Error de autenticación."
	case ErrEmailExists:
		return "El email ya está registrado."
	case ErrSessionInvalidated:
		return "Tu sesión ha expirado. Inicia sesión de nuevo."
	case ErrTokenRequired:
		return "Se requiere un token de autenticación."
	case ErrTokenInvalid:
		return "El token de autenticación no es válido."

	// ─── Validation ────────────────────────────────────────────────────
	case ErrValidation:
		return "Por favor completa todos los campos correctamente."
	case ErrInvalidPayload:
		return "El cuerpo de la petición no es válido."
	case ErrUnknownTopic:
		return "El tema seleccionado no pertenece al catálogo."
	case ErrUnknownStyle:
		return "El estilo de aprendizaje debe ser Visual o Práctico."

	// ─── Profile store ─────────────────────────────────────────────────
	case ErrProfileNotFound:
		return "No se encontraron datos del estudiante."
	case ErrProfileSaveError:
		return "Error al guardar datos del estudiante."

	// ─── Rate Limiting ─────────────────────────────────────────────────
	case ErrRateLimitExceeded:
		return "Demasiadas peticiones. Inténtalo de nuevo más tarde."

	// ─── Server ────────────────────────────────────────────────────────
	case ErrInternal:
		return "Ocurrió un error interno del servidor."
	default:
		return "Ocurrió un error inesperado."
	}
}
