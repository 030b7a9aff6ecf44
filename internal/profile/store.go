package profile

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/aprendia/estadistica-backend/internal/model"
	"github.com/rs/zerolog"
)

// ErrNotFound is returned when no record exists for a user.
var ErrNotFound = errors.New("no se encontraron datos del estudiante")

// Store reads and writes whole student records against the remote
// hierarchical key-value database (Firebase RTDB REST surface).
// Updates are full-record overwrites with last-writer-wins semantics.
type Store struct {
	baseURL string
	http    *http.Client
	log     zerolog.Logger
}

// NewStore creates a profile store client for the given database endpoint,
// e.g. "https://myproject-default-rtdb.firebaseio.com".
func NewStore(baseURL string, timeout time.Duration, log zerolog.Logger) *Store {
	return &Store{
		baseURL: baseURL,
		http:    &http.Client{Timeout: timeout},
		log:     log.With().Str("component", "profile_store").Logger(),
	}
}

// Read fetches the full student record. authToken, when non-empty, is passed
// as the database's auth query parameter.
func (s *Store) Read(ctx context.Context, userID, authToken string) (*model.StudentRecord, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.recordURL(userID, authToken), nil)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}

	resp, err := s.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("profile store unreachable: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("profile store returned status %d", resp.StatusCode)
	}

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read profile body: %w", err)
	}

	// The database answers "null" for absent keys.
	if len(bytes.TrimSpace(raw)) == 0 || bytes.Equal(bytes.TrimSpace(raw), []byte("null")) {
		return nil, ErrNotFound
	}

	rec := &model.StudentRecord{}
	if err := json.Unmarshal(raw, rec); err != nil {
		return nil, fmt.Errorf("decode student record: %w", err)
	}
	return rec, nil
}

// Write overwrites the full student record for a user.
func (s *Store) Write(ctx context.Context, userID string, rec *model.StudentRecord, authToken string) error {
	body, err := json.Marshal(rec)
	if err != nil {
		return fmt.Errorf("marshal student record: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPut, s.recordURL(userID, authToken), bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := s.http.Do(req)
	if err != nil {
		return fmt.Errorf("profile store unreachable: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("profile store returned status %d", resp.StatusCode)
	}

	s.log.Debug().Str("user_id", userID).Msg("student record written")
	return nil
}

func (s *Store) recordURL(userID, authToken string) string {
	u := fmt.Sprintf("%s/students/%s.json", s.baseURL, url.PathEscape(userID))
	if authToken != "" {
		u += "?auth=" + url.QueryEscape(authToken)
	}
	return u
}
