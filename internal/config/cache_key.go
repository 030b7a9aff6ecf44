package config

import (
	"fmt"
)

type CacheKeyStruct struct{}

func NewCacheKeyStruct() *CacheKeyStruct {
	return &CacheKeyStruct{}
}

// SessionKey returns the cache key for a user's active session record.
func (r *CacheKeyStruct) SessionKey(userID string) string {
	return fmt.Sprintf("session:%s", userID)
}

// ProfileKey returns the cache key for a user's cached student record.
func (r *CacheKeyStruct) ProfileKey(userID string) string {
	return fmt.Sprintf("profile:%s", userID)
}

// QuizBatchKey returns the cache key for a user's in-flight quiz batch.
func (r *CacheKeyStruct) QuizBatchKey(userID string) string {
	return fmt.Sprintf("quiz:%s", userID)
}

var CacheKey = NewCacheKeyStruct()
