package identity

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/aprendia/estadistica-backend/internal/config"
	"github.com/rs/zerolog"
)

// Typed identity provider failures. Anything else that comes back from the
// provider is surfaced as an unclassified authentication error.
var (
	ErrUserNotFound  = errors.New("usuario no encontrado")
	ErrWrongPassword = errors.New("contraseña incorrecta")
	ErrUserDisabled  = errors.New("la cuenta está deshabilitada")
	ErrEmailExists   = errors.New("el email ya está registrado")
)

const defaultBaseURL = "https://identitytoolkit.googleapis.com/v1"

// Account is the provider's view of an authenticated or freshly created user.
type Account struct {
	UID          string
	Email        string
	IDToken      string
	RefreshToken string
}

// Client talks to the Firebase Auth REST API. Password verification is only
// possible through the REST surface (signInWithPassword), so both login and
// registration go through it.
type Client struct {
	// BaseURL is exported so tests can point the client at a fake server.
	BaseURL string

	apiKey string
	http   *http.Client
	log    zerolog.Logger
}

// NewClient creates an identity client with the configured API key and
// outbound timeout.
func NewClient(cfg *config.Config, log zerolog.Logger) *Client {
	return &Client{
		BaseURL: defaultBaseURL,
		apiKey:  cfg.FirebaseAPIKey,
		http:    &http.Client{Timeout: cfg.HTTPTimeout},
		log:     log.With().Str("component", "identity_client").Logger(),
	}
}

// Verify checks an email/password pair against the provider. On success it
// returns the stable user ID plus a bearer token for the profile store.
func (c *Client) Verify(ctx context.Context, email, password string) (*Account, error) {
	return c.post(ctx, "accounts:signInWithPassword", email, password)
}

// Create registers a new account with the provider.
func (c *Client) Create(ctx context.Context, email, password string) (*Account, error) {
	return c.post(ctx, "accounts:signUp", email, password)
}

type authPayload struct {
	Email             string `json:"email"`
	Password          string `json:"password"`
	ReturnSecureToken bool   `json:"returnSecureToken"`
}

type authResponse struct {
	LocalID      string `json:"localId"`
	Email        string `json:"email"`
	IDToken      string `json:"idToken"`
	RefreshToken string `json:"refreshToken"`
}

type errorResponse struct {
	Error struct {
		Message string `json:"message"`
	} `json:"error"`
}

func (c *Client) post(ctx context.Context, endpoint, email, password string) (*Account, error) {
	body, err := json.Marshal(authPayload{Email: email, Password: password, ReturnSecureToken: true})
	if err != nil {
		return nil, fmt.Errorf("marshal payload: %w", err)
	}

	url := fmt.Sprintf("%s/%s?key=%s", c.BaseURL, endpoint, c.apiKey)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("identity provider unreachable: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, c.mapError(resp)
	}

	var data authResponse
	if err := json.NewDecoder(resp.Body).Decode(&data); err != nil {
		return nil, fmt.Errorf("decode identity response: %w", err)
	}
	if data.LocalID == "" {
		return nil, errors.New("identity response missing user ID")
	}

	return &Account{
		UID:          data.LocalID,
		Email:        data.Email,
		IDToken:      data.IDToken,
		RefreshToken: data.RefreshToken,
	}, nil
}

// mapError translates the provider's error codes into the typed errors the
// orchestration layer distinguishes.
func (c *Client) mapError(resp *http.Response) error {
	var body errorResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return fmt.Errorf("identity provider returned status %d", resp.StatusCode)
	}

	code := body.Error.Message
	c.log.Debug().Str("code", code).Int("status", resp.StatusCode).Msg("identity provider rejected request")

	switch code {
	case "EMAIL_NOT_FOUND":
		return ErrUserNotFound
	case "INVALID_PASSWORD", "INVALID_LOGIN_CREDENTIALS":
		return ErrWrongPassword
	case "USER_DISABLED":
		return ErrUserDisabled
	case "EMAIL_EXISTS":
		return ErrEmailExists
	default:
		return fmt.Errorf("identity provider error: %s", code)
	}
}
