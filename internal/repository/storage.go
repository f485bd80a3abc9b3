package repository

import (
	"Linklytics-Backend/internal/domain"
	"context"
	"errors"
)

var (
	ErrCodeNotFound = errors.New("short code not found")
	ErrLinkNotFound = errors.New("link not found")
	ErrUserNotFound = errors.New("user not found")
	ErrEmailExists  = errors.New("email already exists")
	ErrAliasExists  = errors.New("alias already exists")
)

type Storage interface {
	// User methods
	CreateUser(ctx context.Context, username, email, passwordHash string) (*domain.User, error)
	GetUserByID(ctx context.Context, id int64) (*domain.User, error)
	GetUserByEmail(ctx context.Context, email string) (*domain.User, error)
	UpdateUser(ctx context.Context, user *domain.User) error

	// Link methods
	SaveLink(ctx context.Context, link *domain.Link) error
	GetLinkByID(ctx context.Context, id int64) (*domain.Link, error)
	FindLinkByOwnerAndURL(ctx context.Context, userID int64, originalURL string) (*domain.Link, error)
	ListUserLinks(ctx context.Context, userID int64) ([]*domain.Link, error)
	UpdateLinkURL(ctx context.Context, id, userID int64, originalURL string) (*domain.Link, error)
	DeleteLink(ctx context.Context, id, userID int64) error
	CodeExists(ctx context.Context, code string) (bool, error)

	// ResolveLink atomically finds an unexpired link by short code or custom
	// alias and increments its click counter in the same store operation.
	ResolveLink(ctx context.Context, code string) (*domain.Link, error)

	// Analytics methods
	SaveAnalyticsRecord(ctx context.Context, record *domain.AnalyticsRecord) error
	ListAnalyticsByLink(ctx context.Context, linkID int64) ([]*domain.AnalyticsRecord, error)
}
