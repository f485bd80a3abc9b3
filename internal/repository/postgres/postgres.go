package postgres

import (
	"Linklytics-Backend/internal/domain"
	"Linklytics-Backend/internal/repository"
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// PostgresStorage implements the Storage interface on top of PostgreSQL.
type PostgresStorage struct {
	db  *gorm.DB
	log *zap.Logger
}

// New creates a new PostgreSQL storage instance.
func New(db *gorm.DB, log *zap.Logger) *PostgresStorage {
	return &PostgresStorage{
		db:  db,
		log: log,
	}
}

// --- User Methods ---

// CreateUser inserts a new user with the given credentials.
func (s *PostgresStorage) CreateUser(ctx context.Context, username, email, passwordHash string) (*domain.User, error) {
	var existing domain.User
	err := s.db.WithContext(ctx).Where("email = ?", email).First(&existing).Error
	if err == nil {
		return nil, repository.ErrEmailExists
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		s.log.Error("failed to check email existence", zap.String("email", email), zap.Error(err))
		return nil, fmt.Errorf("failed to check email: %w", err)
	}

	user := domain.User{
		Username:     username,
		Email:        email,
		PasswordHash: passwordHash,
	}
	if err := s.db.WithContext(ctx).Create(&user).Error; err != nil {
		s.log.Error("failed to create user", zap.String("email", email), zap.Error(err))
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	s.log.Info("created new user", zap.Int64("user_id", user.ID), zap.String("email", email))
	return &user, nil
}

// GetUserByID fetches a user by primary key.
func (s *PostgresStorage) GetUserByID(ctx context.Context, id int64) (*domain.User, error) {
	var user domain.User
	err := s.db.WithContext(ctx).First(&user, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, repository.ErrUserNotFound
	}
	if err != nil {
		s.log.Error("failed to get user by id", zap.Int64("user_id", id), zap.Error(err))
		return nil, fmt.Errorf("failed to get user: %w", err)
	}
	return &user, nil
}

// GetUserByEmail fetches a user by email.
func (s *PostgresStorage) GetUserByEmail(ctx context.Context, email string) (*domain.User, error) {
	var user domain.User
	err := s.db.WithContext(ctx).Where("email = ?", email).First(&user).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, repository.ErrUserNotFound
	}
	if err != nil {
		s.log.Error("failed to get user by email", zap.String("email", email), zap.Error(err))
		return nil, fmt.Errorf("failed to get user: %w", err)
	}
	return &user, nil
}

// UpdateUser persists modified user fields.
func (s *PostgresStorage) UpdateUser(ctx context.Context, user *domain.User) error {
	if err := s.db.WithContext(ctx).Save(user).Error; err != nil {
		s.log.Error("failed to update user", zap.Int64("user_id", user.ID), zap.Error(err))
		return fmt.Errorf("failed to update user: %w", err)
	}
	return nil
}

// --- Link Methods ---

// SaveLink persists a new link.
func (s *PostgresStorage) SaveLink(ctx context.Context, link *domain.Link) error {
	if err := s.db.WithContext(ctx).Create(link).Error; err != nil {
		s.log.Error("failed to save link", zap.String("short_code", link.ShortCode), zap.Error(err))
		return fmt.Errorf("failed to save link: %w", err)
	}

	s.log.Info("saved new link",
		zap.String("short_code", link.ShortCode),
		zap.Int64("user_id", link.UserID))
	return nil
}

// GetLinkByID fetches a link by primary key.
func (s *PostgresStorage) GetLinkByID(ctx context.Context, id int64) (*domain.Link, error) {
	var link domain.Link
	err := s.db.WithContext(ctx).First(&link, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, repository.ErrLinkNotFound
	}
	if err != nil {
		s.log.Error("failed to get link", zap.Int64("link_id", id), zap.Error(err))
		return nil, fmt.Errorf("failed to get link: %w", err)
	}
	return &link, nil
}

// FindLinkByOwnerAndURL returns the owner's existing link for a URL, if any.
// Link creation is idempotent per (owner, original URL) pair.
func (s *PostgresStorage) FindLinkByOwnerAndURL(ctx context.Context, userID int64, originalURL string) (*domain.Link, error) {
	var link domain.Link
	err := s.db.WithContext(ctx).
		Where("user_id = ? AND original_url = ?", userID, originalURL).
		First(&link).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, repository.ErrLinkNotFound
	}
	if err != nil {
		s.log.Error("failed to find link by owner and url", zap.Int64("user_id", userID), zap.Error(err))
		return nil, fmt.Errorf("failed to find link: %w", err)
	}
	return &link, nil
}

// ListUserLinks returns all links owned by a user, newest first.
func (s *PostgresStorage) ListUserLinks(ctx context.Context, userID int64) ([]*domain.Link, error) {
	var links []*domain.Link
	err := s.db.WithContext(ctx).Where("user_id = ?", userID).
		Order("created_at DESC").Find(&links).Error
	if err != nil {
		s.log.Error("failed to list user links", zap.Int64("user_id", userID), zap.Error(err))
		return nil, fmt.Errorf("failed to list user links: %w", err)
	}
	return links, nil
}

// UpdateLinkURL changes the destination of a link, scoped to its owner.
func (s *PostgresStorage) UpdateLinkURL(ctx context.Context, id, userID int64, originalURL string) (*domain.Link, error) {
	var link domain.Link
	result := s.db.WithContext(ctx).
		Model(&link).
		Clauses(clause.Returning{}).
		Where("id = ? AND user_id = ?", id, userID).
		Update("original_url", originalURL)
	if result.Error != nil {
		s.log.Error("failed to update link", zap.Int64("link_id", id), zap.Error(result.Error))
		return nil, fmt.Errorf("failed to update link: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return nil, repository.ErrLinkNotFound
	}
	return &link, nil
}

// DeleteLink removes a link, scoped to its owner.
func (s *PostgresStorage) DeleteLink(ctx context.Context, id, userID int64) error {
	result := s.db.WithContext(ctx).
		Where("id = ? AND user_id = ?", id, userID).
		Delete(&domain.Link{})
	if result.Error != nil {
		s.log.Error("failed to delete link", zap.Int64("link_id", id), zap.Error(result.Error))
		return fmt.Errorf("failed to delete link: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return repository.ErrLinkNotFound
	}

	s.log.Info("deleted link", zap.Int64("link_id", id), zap.Int64("user_id", userID))
	return nil
}

// CodeExists reports whether a short code or custom alias is already taken.
func (s *PostgresStorage) CodeExists(ctx context.Context, code string) (bool, error) {
	var count int64
	err := s.db.WithContext(ctx).Model(&domain.Link{}).
		Where("short_code = ? OR custom_alias = ?", code, code).
		Count(&count).Error
	if err != nil {
		s.log.Error("failed to check code existence", zap.String("code", code), zap.Error(err))
		return false, fmt.Errorf("failed to check code: %w", err)
	}
	return count > 0, nil
}

// ResolveLink finds an unexpired link by short code or custom alias and
// increments its click counter in a single UPDATE ... RETURNING statement,
// so concurrent redirects to the same code never lose increments.
func (s *PostgresStorage) ResolveLink(ctx context.Context, code string) (*domain.Link, error) {
	var link domain.Link
	result := s.db.WithContext(ctx).
		Model(&link).
		Clauses(clause.Returning{}).
		Where("short_code = ? OR custom_alias = ?", code, code).
		Where("expires_at IS NULL OR expires_at > ?", time.Now()).
		Update("click_count", gorm.Expr("click_count + 1"))
	if result.Error != nil {
		s.log.Error("failed to resolve link", zap.String("code", code), zap.Error(result.Error))
		return nil, fmt.Errorf("failed to resolve link: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return nil, repository.ErrCodeNotFound
	}
	return &link, nil
}

// --- Analytics Methods ---

// SaveAnalyticsRecord appends one analytics record.
func (s *PostgresStorage) SaveAnalyticsRecord(ctx context.Context, record *domain.AnalyticsRecord) error {
	if err := s.db.WithContext(ctx).Create(record).Error; err != nil {
		s.log.Error("failed to save analytics record", zap.Int64("link_id", record.LinkID), zap.Error(err))
		return fmt.Errorf("failed to save analytics record: %w", err)
	}
	return nil
}

// ListAnalyticsByLink returns all analytics records for a link.
func (s *PostgresStorage) ListAnalyticsByLink(ctx context.Context, linkID int64) ([]*domain.AnalyticsRecord, error) {
	var records []*domain.AnalyticsRecord
	err := s.db.WithContext(ctx).Where("link_id = ?", linkID).
		Order("clicked_at ASC").Find(&records).Error
	if err != nil {
		s.log.Error("failed to list analytics records", zap.Int64("link_id", linkID), zap.Error(err))
		return nil, fmt.Errorf("failed to list analytics records: %w", err)
	}
	return records, nil
}
