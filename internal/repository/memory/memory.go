package memory

import (
	"Linklytics-Backend/internal/domain"
	"Linklytics-Backend/internal/repository"
	"context"
	"sort"
	"sync"
	"time"
)

// MemStorage is an in-memory Storage implementation used in tests and local
// development. All operations are guarded by a single mutex, which also makes
// ResolveLink atomic.
type MemStorage struct {
	mu            sync.RWMutex
	users         map[int64]*domain.User
	links         map[int64]*domain.Link
	analytics     map[int64][]*domain.AnalyticsRecord
	userCounter   int64
	linkCounter   int64
	recordCounter int64
}

func New() *MemStorage {
	return &MemStorage{
		users:     make(map[int64]*domain.User),
		links:     make(map[int64]*domain.Link),
		analytics: make(map[int64][]*domain.AnalyticsRecord),
	}
}

// --- User Methods ---

func (s *MemStorage) CreateUser(_ context.Context, username, email, passwordHash string) (*domain.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, u := range s.users {
		if u.Email == email {
			return nil, repository.ErrEmailExists
		}
	}

	s.userCounter++
	user := &domain.User{
		ID:           s.userCounter,
		Username:     username,
		Email:        email,
		PasswordHash: passwordHash,
		CreatedAt:    time.Now(),
	}
	s.users[user.ID] = user
	return user, nil
}

func (s *MemStorage) GetUserByID(_ context.Context, id int64) (*domain.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	user, ok := s.users[id]
	if !ok {
		return nil, repository.ErrUserNotFound
	}
	return user, nil
}

func (s *MemStorage) GetUserByEmail(_ context.Context, email string) (*domain.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, u := range s.users {
		if u.Email == email {
			return u, nil
		}
	}
	return nil, repository.ErrUserNotFound
}

func (s *MemStorage) UpdateUser(_ context.Context, user *domain.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.users[user.ID]; !ok {
		return repository.ErrUserNotFound
	}
	s.users[user.ID] = user
	return nil
}

// --- Link Methods ---

func (s *MemStorage) SaveLink(_ context.Context, link *domain.Link) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, l := range s.links {
		if l.ShortCode == link.ShortCode {
			return repository.ErrAliasExists
		}
		if link.CustomAlias != nil && l.CustomAlias != nil && *l.CustomAlias == *link.CustomAlias {
			return repository.ErrAliasExists
		}
	}

	s.linkCounter++
	link.ID = s.linkCounter
	if link.CreatedAt.IsZero() {
		link.CreatedAt = time.Now()
	}
	s.links[link.ID] = link
	return nil
}

func (s *MemStorage) GetLinkByID(_ context.Context, id int64) (*domain.Link, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	link, ok := s.links[id]
	if !ok {
		return nil, repository.ErrLinkNotFound
	}
	return link, nil
}

func (s *MemStorage) FindLinkByOwnerAndURL(_ context.Context, userID int64, originalURL string) (*domain.Link, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, l := range s.links {
		if l.UserID == userID && l.OriginalURL == originalURL {
			return l, nil
		}
	}
	return nil, repository.ErrLinkNotFound
}

func (s *MemStorage) ListUserLinks(_ context.Context, userID int64) ([]*domain.Link, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var userLinks []*domain.Link
	for _, link := range s.links {
		if link.UserID == userID {
			userLinks = append(userLinks, link)
		}
	}
	sort.Slice(userLinks, func(i, j int) bool {
		return userLinks[i].CreatedAt.After(userLinks[j].CreatedAt)
	})
	return userLinks, nil
}

func (s *MemStorage) UpdateLinkURL(_ context.Context, id, userID int64, originalURL string) (*domain.Link, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	link, ok := s.links[id]
	if !ok || link.UserID != userID {
		return nil, repository.ErrLinkNotFound
	}
	link.OriginalURL = originalURL
	return link, nil
}

func (s *MemStorage) DeleteLink(_ context.Context, id, userID int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	link, ok := s.links[id]
	if !ok || link.UserID != userID {
		return repository.ErrLinkNotFound
	}
	delete(s.links, id)
	return nil
}

func (s *MemStorage) CodeExists(_ context.Context, code string) (bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, l := range s.links {
		if l.ShortCode == code {
			return true, nil
		}
		if l.CustomAlias != nil && *l.CustomAlias == code {
			return true, nil
		}
	}
	return false, nil
}

// ResolveLink matches by short code or custom alias, skips expired links and
// increments the click counter under the write lock.
func (s *MemStorage) ResolveLink(_ context.Context, code string) (*domain.Link, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := time.Now()
	for _, l := range s.links {
		if l.ShortCode != code && (l.CustomAlias == nil || *l.CustomAlias != code) {
			continue
		}
		if l.Expired(now) {
			return nil, repository.ErrCodeNotFound
		}
		l.ClickCount++
		resolved := *l
		return &resolved, nil
	}
	return nil, repository.ErrCodeNotFound
}

// --- Analytics Methods ---

func (s *MemStorage) SaveAnalyticsRecord(_ context.Context, record *domain.AnalyticsRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.recordCounter++
	record.ID = s.recordCounter
	s.analytics[record.LinkID] = append(s.analytics[record.LinkID], record)
	return nil
}

func (s *MemStorage) ListAnalyticsByLink(_ context.Context, linkID int64) ([]*domain.AnalyticsRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	records := make([]*domain.AnalyticsRecord, len(s.analytics[linkID]))
	copy(records, s.analytics[linkID])
	return records, nil
}
