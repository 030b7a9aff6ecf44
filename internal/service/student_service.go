package service

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/aprendia/estadistica-backend/internal/config"
	"github.com/aprendia/estadistica-backend/internal/model"
	"github.com/rs/zerolog"
)

// profileCacheTTL bounds how long a cached student record is served without
// re-reading the remote store.
const profileCacheTTL = 15 * time.Minute

// ProfileStore is the surface of the remote profile store. Records are read
// and written whole; there is no partial update.
type ProfileStore interface {
	Read(ctx context.Context, userID, authToken string) (*model.StudentRecord, error)
	Write(ctx context.Context, userID string, rec *model.StudentRecord, authToken string) error
}

// StudentService owns the student record lifecycle: load-with-cache, full
// writes and the read-modify-write progress updates.
type StudentService struct {
	store ProfileStore
	cache KV
	log   zerolog.Logger
}

// NewStudentService creates a new StudentService.
func NewStudentService(store ProfileStore, cache KV, log zerolog.Logger) *StudentService {
	return &StudentService{
		store: store,
		cache: cache,
		log:   log.With().Str("component", "student_service").Logger(),
	}
}

// Load returns the student record, serving the per-session cache when warm
// and falling back to the remote store otherwise.
func (s *StudentService) Load(ctx context.Context, sess *SessionContext) (*model.StudentRecord, error) {
	key := config.CacheKey.ProfileKey(sess.UserID)

	if raw, ok, err := s.cache.Get(ctx, key); err == nil && ok {
		rec := &model.StudentRecord{}
		if err := json.Unmarshal([]byte(raw), rec); err == nil {
			return rec, nil
		}
		// A corrupt cache entry falls through to the store.
	}

	rec, err := s.store.Read(ctx, sess.UserID, sess.IDToken)
	if err != nil {
		return nil, err
	}

	s.cacheRecord(ctx, sess.UserID, rec)
	return rec, nil
}

// Save writes the whole record to the store and refreshes the cache.
func (s *StudentService) Save(ctx context.Context, sess *SessionContext, rec *model.StudentRecord) error {
	if err := s.store.Write(ctx, sess.UserID, rec, sess.IDToken); err != nil {
		return fmt.Errorf("write student record: %w", err)
	}
	s.cacheRecord(ctx, sess.UserID, rec)
	return nil
}

// TouchProgress records an access event for a topic: read, modify, write the
// whole record. videosVistos, when positive, bumps the topic's video counter
// alongside the touch.
func (s *StudentService) TouchProgress(ctx context.Context, sess *SessionContext, tema string, ejercicioCompletado bool, videosVistos int) error {
	rec, err := s.Load(ctx, sess)
	if err != nil {
		return err
	}

	rec.TouchTopic(tema, ejercicioCompletado, time.Now())
	rec.AddVideosVistos(tema, videosVistos)

	return s.Save(ctx, sess, rec)
}

// RecordEvaluation appends one evaluation summary (FIFO-capped at 50) and
// marks the exercise completed for the topic, in a single record write.
func (s *StudentService) RecordEvaluation(ctx context.Context, sess *SessionContext, ev model.Evaluation) error {
	rec, err := s.Load(ctx, sess)
	if err != nil {
		return err
	}

	rec.AppendEvaluation(ev)
	rec.TouchTopic(ev.Tema, true, time.Now())

	return s.Save(ctx, sess, rec)
}

func (s *StudentService) cacheRecord(ctx context.Context, userID string, rec *model.StudentRecord) {
	raw, err := json.Marshal(rec)
	if err != nil {
		return
	}
	if err := s.cache.Set(ctx, config.CacheKey.ProfileKey(userID), string(raw), profileCacheTTL); err != nil {
		s.log.Warn().Err(err).Str("user_id", userID).Msg("profile cache write failed")
	}
}
