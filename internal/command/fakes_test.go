package command

import (
	"context"
	"fmt"
	"mime/multipart"
	"sync"

	"github.com/Denn4ik2010/online-shop/internal/repository"
	"github.com/Denn4ik2010/online-shop/shared/models"
	"github.com/Denn4ik2010/online-shop/shared/token"
)

type fakeUsers struct {
	byID map[string]*models.User
}

func newFakeUsers(users ...*models.User) *fakeUsers {
	f := &fakeUsers{byID: map[string]*models.User{}}
	for _, u := range users {
		f.byID[u.ID] = u
	}
	return f
}

func (f *fakeUsers) Create(_ context.Context, user *models.User, role string) error {
	for _, u := range f.byID {
		if u.Email == user.Email {
			return models.ErrUserExists
		}
	}
	user.Roles = []string{role}
	f.byID[user.ID] = user
	return nil
}

func (f *fakeUsers) GetByEmail(_ context.Context, email string) (*models.User, error) {
	for _, u := range f.byID {
		if u.Email == email {
			cp := *u
			return &cp, nil
		}
	}
	return nil, models.ErrUserNotFound
}

func (f *fakeUsers) GetByID(_ context.Context, id string) (*models.User, error) {
	u, ok := f.byID[id]
	if !ok {
		return nil, models.ErrUserNotFound
	}
	cp := *u
	cp.Roles = append([]string{}, u.Roles...)
	return &cp, nil
}

func (f *fakeUsers) AddRole(_ context.Context, userID, role string) error {
	u, ok := f.byID[userID]
	if !ok {
		return models.ErrUserNotFound
	}
	u.Roles = append(u.Roles, role)
	return nil
}

func (f *fakeUsers) Delete(_ context.Context, id string) error {
	if _, ok := f.byID[id]; !ok {
		return models.ErrUserNotFound
	}
	delete(f.byID, id)
	return nil
}

func (f *fakeUsers) Exists(_ context.Context, id string) (bool, error) {
	_, ok := f.byID[id]
	return ok, nil
}

type fakeTokens struct {
	issued   []string
	rotateFn func(string) (string, error)
	revoked  []string
	allFor   []string
}

func (f *fakeTokens) Issue(_ context.Context, userID string, roles []string) (*token.Pair, error) {
	f.issued = append(f.issued, userID)
	return &token.Pair{AccessToken: "access-" + userID, RefreshToken: "refresh-" + userID}, nil
}

func (f *fakeTokens) Rotate(_ context.Context, refresh string) (string, error) {
	if f.rotateFn != nil {
		return f.rotateFn(refresh)
	}
	return "", models.ErrInvalidToken
}

func (f *fakeTokens) Revoke(_ context.Context, refresh string) (int64, error) {
	f.revoked = append(f.revoked, refresh)
	return 1, nil
}

func (f *fakeTokens) RevokeAll(_ context.Context, userID string) error {
	f.allFor = append(f.allFor, userID)
	return nil
}

type publishedEvent struct {
	stream, eventType string
	data              any
}

type fakePublisher struct {
	mu     sync.Mutex
	events []publishedEvent
	err    error
}

func (f *fakePublisher) Publish(_ context.Context, stream, eventType string, data any) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.events = append(f.events, publishedEvent{stream, eventType, data})
	return f.err
}

func (f *fakePublisher) types() []string {
	var out []string
	for _, e := range f.events {
		out = append(out, e.eventType)
	}
	return out
}

type fakeProducts struct {
	byID      map[string]*models.Product
	createErr error
}

func newFakeProducts(ps ...*models.Product) *fakeProducts {
	f := &fakeProducts{byID: map[string]*models.Product{}}
	for _, p := range ps {
		f.byID[p.ID] = p
	}
	return f
}

func (f *fakeProducts) anyID() string {
	for id := range f.byID {
		return id
	}
	return ""
}

func (f *fakeProducts) Create(_ context.Context, p *models.Product) error {
	if f.createErr != nil {
		return f.createErr
	}
	f.byID[p.ID] = p
	return nil
}

func (f *fakeProducts) GetByID(_ context.Context, id string) (*models.Product, error) {
	p, ok := f.byID[id]
	if !ok {
		return nil, models.ErrProductNotFound
	}
	cp := *p
	return &cp, nil
}

func (f *fakeProducts) Update(_ context.Context, p *models.Product, _ bool) error {
	f.byID[p.ID] = p
	return nil
}

func (f *fakeProducts) Delete(_ context.Context, id string) error {
	delete(f.byID, id)
	return nil
}

func (f *fakeProducts) ListingsBySeller(_ context.Context, sellerID string) ([]repository.Listing, error) {
	var listings []repository.Listing
	for _, p := range f.byID {
		if p.SellerID == sellerID {
			listings = append(listings, repository.Listing{ID: p.ID, Images: p.Images})
		}
	}
	return listings, nil
}

type fakeViewCache struct {
	cached      map[string]*models.ProductView
	invalidated []string
}

func newFakeViewCache() *fakeViewCache {
	return &fakeViewCache{cached: map[string]*models.ProductView{}}
}

func (f *fakeViewCache) CacheProductView(_ context.Context, v *models.ProductView) {
	f.cached[v.ID] = v
}

func (f *fakeViewCache) InvalidateProductViews(_ context.Context, ids ...string) {
	f.invalidated = append(f.invalidated, ids...)
}

type fakeCategoryChecker struct {
	known map[string]bool
}

func (f *fakeCategoryChecker) CountExisting(_ context.Context, ids []string) (int, error) {
	n := 0
	for _, id := range ids {
		if f.known[id] {
			n++
		}
	}
	return n, nil
}

type fakeImages struct {
	saved   []string
	removed []string
	failOn  string
}

func (f *fakeImages) Save(fh *multipart.FileHeader) (string, error) {
	if fh.Filename == f.failOn {
		return "", models.ErrInvalidImage
	}
	url := fmt.Sprintf("/static/%d-%s", len(f.saved), fh.Filename)
	f.saved = append(f.saved, url)
	return url, nil
}

func (f *fakeImages) Remove(urls ...string) {
	f.removed = append(f.removed, urls...)
}

type fakeChats struct {
	byID map[string]*models.Chat
}

func newFakeChats(cs ...*models.Chat) *fakeChats {
	f := &fakeChats{byID: map[string]*models.Chat{}}
	for _, c := range cs {
		f.byID[c.ID] = c
	}
	return f
}

func (f *fakeChats) Create(_ context.Context, c *models.Chat) error {
	f.byID[c.ID] = c
	return nil
}

func (f *fakeChats) GetByID(_ context.Context, id string) (*models.Chat, error) {
	c, ok := f.byID[id]
	if !ok {
		return nil, models.ErrChatNotFound
	}
	return c, nil
}

func (f *fakeChats) FindBetween(_ context.Context, a, b string) (*models.Chat, error) {
	for _, c := range f.byID {
		if c.HasMember(a) && c.HasMember(b) {
			return c, nil
		}
	}
	return nil, models.ErrChatNotFound
}

func (f *fakeChats) Delete(_ context.Context, id string) error {
	delete(f.byID, id)
	return nil
}

type fakeMessages struct {
	byID map[string]*models.MessageView
}

func newFakeMessages(ms ...*models.MessageView) *fakeMessages {
	f := &fakeMessages{byID: map[string]*models.MessageView{}}
	for _, m := range ms {
		f.byID[m.ID] = m
	}
	return f
}

func (f *fakeMessages) Create(_ context.Context, m *models.Message) (*models.MessageView, error) {
	v := &models.MessageView{
		ID: m.ID, ChatID: m.ChatID, AuthorID: m.AuthorID, AuthorNickname: "nick-" + m.AuthorID,
		Text: m.Text, CreatedAt: m.CreatedAt, UpdatedAt: m.UpdatedAt,
	}
	f.byID[m.ID] = v
	return v, nil
}

func (f *fakeMessages) GetByID(_ context.Context, chatID, id string) (*models.MessageView, error) {
	m, ok := f.byID[id]
	if !ok || m.ChatID != chatID {
		return nil, models.ErrMessageNotFound
	}
	cp := *m
	return &cp, nil
}

func (f *fakeMessages) UpdateText(_ context.Context, m *models.MessageView) error {
	f.byID[m.ID] = m
	return nil
}

func (f *fakeMessages) Delete(_ context.Context, id string) error {
	delete(f.byID, id)
	return nil
}
