package memory

import (
	"context"
	"sync"

	"safety-training-service/internal/domain"
)

// UserStore keeps accounts and profiles in memory.
type UserStore struct {
	mu       sync.RWMutex
	byEmail  map[string]domain.User
	profiles map[string]domain.Profile
}

func NewUserStore() *UserStore {
	return &UserStore{
		byEmail:  make(map[string]domain.User),
		profiles: make(map[string]domain.Profile),
	}
}

func (s *UserStore) CreateUser(_ context.Context, user domain.User, profile domain.Profile) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.byEmail[user.Email]; ok {
		return domain.ErrEmailTaken
	}
	s.byEmail[user.Email] = user
	s.profiles[user.ID] = profile
	return nil
}

func (s *UserStore) GetUserByEmail(_ context.Context, email string) (domain.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	user, ok := s.byEmail[email]
	if !ok {
		return domain.User{}, domain.ErrUserNotFound
	}
	return user, nil
}

func (s *UserStore) GetProfile(_ context.Context, userID string) (domain.Profile, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	profile, ok := s.profiles[userID]
	if !ok {
		return domain.Profile{}, domain.ErrProfileNotFound
	}
	return profile, nil
}

// PutProfile creates or replaces a profile.
func (s *UserStore) PutProfile(profile domain.Profile) {
	s.mu.Lock()
	s.profiles[profile.UserID] = profile
	s.mu.Unlock()
}
