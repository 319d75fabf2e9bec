package storage

import (
	"sync"

	"github.com/aliskhannn/chapter-quiz-bot/internal/service"
)

type chatAttempt struct {
	attempt  *service.Attempt
	messages map[int]int // question message ID -> slot index
}

// AttemptStorage provides in-memory storage for running quiz attempts by chat ID.
type AttemptStorage struct {
	mu    sync.RWMutex
	chats map[int64]*chatAttempt
}

// NewAttemptStorage creates a new AttemptStorage.
func NewAttemptStorage() *AttemptStorage {
	return &AttemptStorage{
		chats: make(map[int64]*chatAttempt),
	}
}

// Store saves the attempt for a chat, replacing any previous one.
func (s *AttemptStorage) Store(chatID int64, attempt *service.Attempt) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.chats[chatID] = &chatAttempt{
		attempt:  attempt,
		messages: make(map[int]int),
	}
}

// Get retrieves the running attempt of a chat.
func (s *AttemptStorage) Get(chatID int64) (*service.Attempt, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	c, ok := s.chats[chatID]
	if !ok {
		return nil, false
	}
	return c.attempt, true
}

// Delete removes the attempt of a chat.
func (s *AttemptStorage) Delete(chatID int64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.chats, chatID)
}

// BindMessage remembers which slot a sent question message shows.
func (s *AttemptStorage) BindMessage(chatID int64, messageID, slot int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if c, ok := s.chats[chatID]; ok {
		c.messages[messageID] = slot
	}
}

// SlotForMessage returns the slot shown by a question message of the chat's attempt.
func (s *AttemptStorage) SlotForMessage(chatID int64, messageID int) (int, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	c, ok := s.chats[chatID]
	if !ok {
		return 0, false
	}
	slot, ok := c.messages[messageID]
	return slot, ok
}
