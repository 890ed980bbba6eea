package query

import (
	"context"

	"github.com/Denn4ik2010/online-shop/internal/repository"
	"github.com/Denn4ik2010/online-shop/shared/cqrs"
	"github.com/Denn4ik2010/online-shop/shared/models"
	"github.com/Denn4ik2010/online-shop/shared/pagination"
)

type UserReader interface {
	GetByID(ctx context.Context, id string) (*models.User, error)
	List(ctx context.Context, orderBy string, limit, offset int) ([]models.ProfileView, error)
	Count(ctx context.Context) (int, error)
	Search(ctx context.Context, f repository.UserFilter, orderBy string, limit, offset int) ([]models.UserView, error)
	CountSearch(ctx context.Context, f repository.UserFilter) (int, error)
}

type UserQueryService struct {
	users UserReader
}

func NewUserQueryService(users UserReader) *UserQueryService {
	return &UserQueryService{users: users}
}

// GetProfile returns the caller's own profile, email and roles included.
func (s *UserQueryService) GetProfile(ctx context.Context, userID string) (*models.ProfileView, error) {
	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	return user.Profile(), nil
}

// GetUser returns the public view of any user.
func (s *UserQueryService) GetUser(ctx context.Context, q cqrs.GetUserQuery) (*models.UserView, error) {
	user, err := s.users.GetByID(ctx, q.UserID)
	if err != nil {
		return nil, err
	}
	return user.View(), nil
}

func (s *UserQueryService) ListUsers(ctx context.Context, q cqrs.ListUsersQuery) (*pagination.Page[models.ProfileView], error) {
	orderBy, err := q.Sort.OrderBy(repository.UserSortColumns)
	if err != nil {
		return nil, err
	}
	return fetchPage(ctx, q.Page,
		func(ctx context.Context, limit, offset int) ([]models.ProfileView, error) {
			return s.users.List(ctx, orderBy, limit, offset)
		},
		s.users.Count,
	)
}

func (s *UserQueryService) SearchUsers(ctx context.Context, q cqrs.SearchUsersQuery) (*pagination.Page[models.UserView], error) {
	if q.MinDate != nil && q.MaxDate != nil && q.MinDate.After(*q.MaxDate) {
		return nil, models.ErrInvalidRange
	}
	orderBy, err := q.Sort.OrderBy(repository.UserSortColumns)
	if err != nil {
		return nil, err
	}
	filter := repository.UserFilter{Nickname: q.Nickname, MinDate: q.MinDate, MaxDate: q.MaxDate}
	return fetchPage(ctx, q.Page,
		func(ctx context.Context, limit, offset int) ([]models.UserView, error) {
			return s.users.Search(ctx, filter, orderBy, limit, offset)
		},
		func(ctx context.Context) (int, error) {
			return s.users.CountSearch(ctx, filter)
		},
	)
}
