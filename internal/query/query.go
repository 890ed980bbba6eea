package query

import (
	"context"

	"github.com/Denn4ik2010/online-shop/shared/models"
	"github.com/Denn4ik2010/online-shop/shared/pagination"
	"golang.org/x/sync/errgroup"
)

type listFunc[T any] func(ctx context.Context, limit, offset int) ([]T, error)

type countFunc func(ctx context.Context) (int, error)

// fetchPage loads one page and the total count concurrently.
func fetchPage[T any](ctx context.Context, params pagination.Params, list listFunc[T], count countFunc) (*pagination.Page[T], error) {
	params = params.Normalize()

	var (
		items []T
		total int
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		items, err = list(gctx, params.Limit(), params.Offset())
		return err
	})
	g.Go(func() error {
		var err error
		total, err = count(gctx)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return pagination.New(items, total, params), nil
}

type chatGetter interface {
	GetByID(ctx context.Context, id string) (*models.Chat, error)
}

func memberChat(ctx context.Context, chats chatGetter, chatID, userID string) (*models.Chat, error) {
	chat, err := chats.GetByID(ctx, chatID)
	if err != nil {
		return nil, err
	}
	if !chat.HasMember(userID) {
		return nil, models.ErrForbidden
	}
	return chat, nil
}
