package service

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/aprendia/estadistica-backend/internal/config"
	"github.com/aprendia/estadistica-backend/internal/identity"
	"github.com/aprendia/estadistica-backend/internal/model"
	"github.com/aprendia/estadistica-backend/internal/profile"
	"github.com/rs/zerolog"
)

// fakeKV is an in-memory KV for tests. TTLs are ignored.
type fakeKV struct {
	mu   sync.Mutex
	data map[string]string
}

func newFakeKV() *fakeKV {
	return &fakeKV{data: map[string]string{}}
}

func (f *fakeKV) Get(_ context.Context, key string) (string, bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	v, ok := f.data[key]
	return v, ok, nil
}

func (f *fakeKV) Set(_ context.Context, key, value string, _ time.Duration) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.data[key] = value
	return nil
}

func (f *fakeKV) Del(_ context.Context, keys ...string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, k := range keys {
		delete(f.data, k)
	}
	return nil
}

// fakeIDP is a canned identity provider.
type fakeIDP struct {
	verifyAcct *identity.Account
	verifyErr  error
	createAcct *identity.Account
	createErr  error

	verifyCalls int
	createCalls int
}

func (f *fakeIDP) Verify(_ context.Context, _, _ string) (*identity.Account, error) {
	f.verifyCalls++
	return f.verifyAcct, f.verifyErr
}

func (f *fakeIDP) Create(_ context.Context, _, _ string) (*identity.Account, error) {
	f.createCalls++
	return f.createAcct, f.createErr
}

// fakeStore holds records in memory, keyed by user ID.
type fakeStore struct {
	mu       sync.Mutex
	records  map[string]*model.StudentRecord
	readErr  error
	writeErr error

	writes int
}

func newFakeStore() *fakeStore {
	return &fakeStore{records: map[string]*model.StudentRecord{}}
}

func (f *fakeStore) Read(_ context.Context, userID, _ string) (*model.StudentRecord, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.readErr != nil {
		return nil, f.readErr
	}
	rec, ok := f.records[userID]
	if !ok {
		return nil, profile.ErrNotFound
	}
	clone := *rec
	return &clone, nil
}

func (f *fakeStore) Write(_ context.Context, userID string, rec *model.StudentRecord, _ string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.writeErr != nil {
		return f.writeErr
	}
	f.writes++
	clone := *rec
	f.records[userID] = &clone
	return nil
}

// fakeSearcher returns canned videos.
type fakeSearcher struct {
	videos  []model.Video
	queries []string
}

func (f *fakeSearcher) Search(_ context.Context, query string, _ int) []model.Video {
	f.queries = append(f.queries, query)
	out := make([]model.Video, len(f.videos))
	copy(out, f.videos)
	return out
}

// fakeQuiz returns canned items or an error, and grades by exact match.
type fakeQuiz struct {
	items    []model.QuizItem
	genErr   error
	lastTier string
}

func (f *fakeQuiz) Generate(_ context.Context, _, tier string, _ int) ([]model.QuizItem, error) {
	f.lastTier = tier
	if f.genErr != nil {
		return nil, f.genErr
	}
	return f.items, nil
}

func (f *fakeQuiz) GradeItem(_ context.Context, item model.QuizItem, respuesta string) model.ItemResult {
	correct := respuesta == item.RespuestaCorrecta
	r := model.ItemResult{
		ID:               item.ID,
		Pregunta:         item.Pregunta,
		RespuestaUsuario: respuesta,
		Correcta:         correct,
		Explicacion:      item.Explicacion,
	}
	if correct {
		r.Puntaje = 1
	}
	return r
}

var errStoreDown = errors.New("store down")

func testConfig() *config.Config {
	return &config.Config{
		JWTSecret: "test-secret",
		JWTExpiry: time.Hour,
	}
}

func testSession(userID string) *SessionContext {
	return &SessionContext{
		UserID:  userID,
		Email:   userID + "@example.com",
		JTI:     "jti-" + userID,
		IDToken: "idtoken-" + userID,
	}
}

func nopLog() zerolog.Logger {
	return zerolog.Nop()
}
