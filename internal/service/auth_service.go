package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/aprendia/estadistica-backend/internal/config"
	"github.com/aprendia/estadistica-backend/internal/identity"
	"github.com/aprendia/estadistica-backend/internal/model"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// ErrProfileSave marks the inconsistent-state case where the identity
// provider created the account but the initial profile write failed. The
// account is not rolled back.
var ErrProfileSave = errors.New("la cuenta existe pero no se pudieron guardar los datos del estudiante")

// ErrNoSession is returned when a token's session record is gone or was
// superseded by a newer login.
var ErrNoSession = errors.New("sesión no encontrada o invalidada")

// IdentityProvider is the surface of the external identity service.
type IdentityProvider interface {
	Verify(ctx context.Context, email, password string) (*identity.Account, error)
	Create(ctx context.Context, email, password string) (*identity.Account, error)
}

// Claims extends JWT standard claims with app-specific fields.
type Claims struct {
	jwt.RegisteredClaims
	UserID string `json:"user_id"`
	Email  string `json:"email"`
}

// sessionRecord is what lives in Redis for a logged-in user: the JWT's JTI
// (last login wins) plus the identity provider's bearer token, which the
// profile store needs for authorized reads and writes.
type sessionRecord struct {
	JTI     string `json:"jti"`
	IDToken string `json:"id_token"`
}

// AuthService handles the login/registration/logout flows and the session
// lifecycle.
type AuthService struct {
	cfg      *config.Config
	cache    KV
	idp      IdentityProvider
	students *StudentService
	log      zerolog.Logger
}

// NewAuthService creates a new AuthService.
func NewAuthService(cfg *config.Config, cache KV, idp IdentityProvider, students *StudentService, log zerolog.Logger) *AuthService {
	return &AuthService{
		cfg:      cfg,
		cache:    cache,
		idp:      idp,
		students: students,
		log:      log.With().Str("component", "auth_service").Logger(),
	}
}

// Login verifies credentials with the identity provider, establishes the
// session and loads the student record. A failed profile load does not fail
// the login: the caller gets a fresh default record instead.
func (s *AuthService) Login(ctx context.Context, email, password string) (string, *model.StudentRecord, error) {
	acct, err := s.idp.Verify(ctx, email, password)
	if err != nil {
		return "", nil, err
	}

	token, jti, err := s.issueToken(acct.UID, email)
	if err != nil {
		return "", nil, fmt.Errorf("issue token: %w", err)
	}

	rec, err := json.Marshal(sessionRecord{JTI: jti, IDToken: acct.IDToken})
	if err != nil {
		return "", nil, fmt.Errorf("marshal session: %w", err)
	}
	if err := s.cache.Set(ctx, config.CacheKey.SessionKey(acct.UID), string(rec), s.cfg.JWTExpiry); err != nil {
		return "", nil, fmt.Errorf("store session: %w", err)
	}

	sess := &SessionContext{UserID: acct.UID, Email: email, JTI: jti, IDToken: acct.IDToken}
	student, err := s.students.Load(ctx, sess)
	if err != nil {
		s.log.Warn().Err(err).Str("user_id", acct.UID).Msg("profile load failed at login, using default record")
		student = model.NewStudentRecord(email, "", 0, "", "", time.Now())
	}

	return token, student, nil
}

// Register creates the account with the identity provider and writes the
// initial student record. Field validation (including the password/confirm
// match) happens before this is called, so the provider is never hit with
// an invalid registration.
func (s *AuthService) Register(ctx context.Context, req *model.RegisterRequest) error {
	acct, err := s.idp.Create(ctx, req.Email, req.Password)
	if err != nil {
		return err
	}

	rec := model.NewStudentRecord(req.Email, req.Nombre, req.Edad, req.NivelEducativo, req.Intereses, time.Now())
	sess := &SessionContext{UserID: acct.UID, Email: req.Email, IDToken: acct.IDToken}
	if err := s.students.Save(ctx, sess, rec); err != nil {
		// The account now exists without a usable profile. There is no
		// compensating delete; the caller is told the save failed.
		s.log.Error().Err(err).Str("user_id", acct.UID).Msg("initial profile write failed after account creation")
		return ErrProfileSave
	}

	s.log.Info().Str("user_id", acct.UID).Msg("student registered")
	return nil
}

// Logout clears all session state for the user: the session record, the
// cached profile and any in-flight quiz batch.
func (s *AuthService) Logout(ctx context.Context, sess *SessionContext) error {
	return s.cache.Del(ctx,
		config.CacheKey.SessionKey(sess.UserID),
		config.CacheKey.ProfileKey(sess.UserID),
		config.CacheKey.QuizBatchKey(sess.UserID),
	)
}

// ValidateToken parses and validates a JWT, returning the claims.
func (s *AuthService) ValidateToken(tokenStr string) (*Claims, error) {
	token, err := jwt.ParseWithClaims(tokenStr, &Claims{}, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return []byte(s.cfg.JWTSecret), nil
	})
	if err != nil {
		return nil, fmt.Errorf("parse token: %w", err)
	}

	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid {
		return nil, errors.New("invalid token claims")
	}
	return claims, nil
}

// LoadSession resolves validated claims into a SessionContext, checking
// that the token still matches the active session record.
func (s *AuthService) LoadSession(ctx context.Context, claims *Claims) (*SessionContext, error) {
	raw, ok, err := s.cache.Get(ctx, config.CacheKey.SessionKey(claims.UserID))
	if err != nil {
		return nil, fmt.Errorf("load session: %w", err)
	}
	if !ok {
		return nil, ErrNoSession
	}

	var rec sessionRecord
	if err := json.Unmarshal([]byte(raw), &rec); err != nil {
		return nil, fmt.Errorf("decode session: %w", err)
	}
	if rec.JTI != claims.ID {
		return nil, ErrNoSession
	}

	return &SessionContext{
		UserID:  claims.UserID,
		Email:   claims.Email,
		JTI:     claims.ID,
		IDToken: rec.IDToken,
	}, nil
}

func (s *AuthService) issueToken(userID, email string) (string, string, error) {
	jti := uuid.New().String()
	now := time.Now()

	claims := Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        jti,
			Subject:   userID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.cfg.JWTExpiry)),
		},
		UserID: userID,
		Email:  email,
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte(s.cfg.JWTSecret))
	if err != nil {
		return "", "", err
	}
	return signed, jti, nil
}
