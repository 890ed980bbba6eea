package command

import (
	"context"

	"github.com/Denn4ik2010/online-shop/internal/repository"
	"github.com/Denn4ik2010/online-shop/shared/cqrs"
	"github.com/Denn4ik2010/online-shop/shared/events"
	"github.com/Denn4ik2010/online-shop/shared/models"
	"go.uber.org/zap"
)

type UserStore interface {
	GetByID(ctx context.Context, id string) (*models.User, error)
	AddRole(ctx context.Context, userID, roleValue string) error
	Delete(ctx context.Context, id string) error
}

type SellerProducts interface {
	ListingsBySeller(ctx context.Context, sellerID string) ([]repository.Listing, error)
}

type ImageRemover interface {
	Remove(urls ...string)
}

type ProductViewInvalidator interface {
	InvalidateProductViews(ctx context.Context, ids ...string)
}

// UserCommandService deletes users and promotes them to admin.
type UserCommandService struct {
	users     UserStore
	products  SellerProducts
	cache     ProductViewInvalidator
	images    ImageRemover
	publisher EventPublisher
	log       *zap.SugaredLogger
}

func NewUserCommandService(
	users UserStore,
	products SellerProducts,
	cache ProductViewInvalidator,
	images ImageRemover,
	publisher EventPublisher,
	log *zap.Logger,
) *UserCommandService {
	return &UserCommandService{
		users:     users,
		products:  products,
		cache:     cache,
		images:    images,
		publisher: publisher,
		log:       log.Sugar(),
	}
}

// DeleteUser removes the account. Its products, chats and refresh tokens go
// with it, so the cached product views and image files are dropped too.
func (s *UserCommandService) DeleteUser(ctx context.Context, cmd cqrs.DeleteUserCommand) error {
	listings, err := s.products.ListingsBySeller(ctx, cmd.UserID)
	if err != nil {
		return err
	}
	if err := s.users.Delete(ctx, cmd.UserID); err != nil {
		return err
	}

	productIDs := make([]string, 0, len(listings))
	for _, l := range listings {
		productIDs = append(productIDs, l.ID)
		s.images.Remove(l.Images...)
	}
	s.cache.InvalidateProductViews(ctx, productIDs...)
	publish(ctx, s.publisher, s.log, events.UserEventsStream, events.UserDeleted, events.UserDeletedEvent{UserID: cmd.UserID})
	s.log.Infow("user deleted", "userId", cmd.UserID, "products", len(productIDs))
	return nil
}

func (s *UserCommandService) AssignAdmin(ctx context.Context, cmd cqrs.AssignAdminCommand) (*models.ProfileView, error) {
	user, err := s.users.GetByID(ctx, cmd.UserID)
	if err != nil {
		return nil, err
	}
	if user.HasRole(models.RoleAdmin) {
		return nil, models.ErrAlreadyAdmin
	}
	if err := s.users.AddRole(ctx, user.ID, models.RoleAdmin); err != nil {
		return nil, err
	}
	user.Roles = append(user.Roles, models.RoleAdmin)
	s.log.Infow("admin role granted", "userId", user.ID)
	return user.Profile(), nil
}
