package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"time"

	"github.com/Denn4ik2010/online-shop/shared/cqrs"
	"github.com/Denn4ik2010/online-shop/shared/models"
	"github.com/Denn4ik2010/online-shop/shared/pagination"
	"github.com/Denn4ik2010/online-shop/shared/token"
	"github.com/gin-gonic/gin"
)

var errNotConfigured = fmt.Errorf("not configured")

// ---- auth ----

type mockAuthCommander struct {
	registerFn  func(cqrs.RegisterCommand) (*models.ProfileView, error)
	loginFn     func(cqrs.LoginCommand) (*token.Pair, error)
	refreshFn   func(cqrs.RefreshTokenCommand) (*token.Pair, error)
	logoutFn    func(cqrs.LogoutCommand) (int64, error)
	logoutAllFn func(string) error
}

func (m *mockAuthCommander) Register(_ context.Context, cmd cqrs.RegisterCommand) (*models.ProfileView, error) {
	if m.registerFn != nil {
		return m.registerFn(cmd)
	}
	return nil, errNotConfigured
}
func (m *mockAuthCommander) Login(_ context.Context, cmd cqrs.LoginCommand) (*token.Pair, error) {
	if m.loginFn != nil {
		return m.loginFn(cmd)
	}
	return nil, errNotConfigured
}
func (m *mockAuthCommander) Refresh(_ context.Context, cmd cqrs.RefreshTokenCommand) (*token.Pair, error) {
	if m.refreshFn != nil {
		return m.refreshFn(cmd)
	}
	return nil, errNotConfigured
}
func (m *mockAuthCommander) Logout(_ context.Context, cmd cqrs.LogoutCommand) (int64, error) {
	if m.logoutFn != nil {
		return m.logoutFn(cmd)
	}
	return 0, errNotConfigured
}
func (m *mockAuthCommander) LogoutAll(_ context.Context, userID string) error {
	if m.logoutAllFn != nil {
		return m.logoutAllFn(userID)
	}
	return errNotConfigured
}

// ---- users ----

type mockUserCommander struct {
	deleteFn      func(cqrs.DeleteUserCommand) error
	assignAdminFn func(cqrs.AssignAdminCommand) (*models.ProfileView, error)
}

func (m *mockUserCommander) DeleteUser(_ context.Context, cmd cqrs.DeleteUserCommand) error {
	if m.deleteFn != nil {
		return m.deleteFn(cmd)
	}
	return errNotConfigured
}
func (m *mockUserCommander) AssignAdmin(_ context.Context, cmd cqrs.AssignAdminCommand) (*models.ProfileView, error) {
	if m.assignAdminFn != nil {
		return m.assignAdminFn(cmd)
	}
	return nil, errNotConfigured
}

type mockUserQuerier struct {
	profileFn func(string) (*models.ProfileView, error)
	getFn     func(cqrs.GetUserQuery) (*models.UserView, error)
	listFn    func(cqrs.ListUsersQuery) (*pagination.Page[models.ProfileView], error)
	searchFn  func(cqrs.SearchUsersQuery) (*pagination.Page[models.UserView], error)
}

func (m *mockUserQuerier) GetProfile(_ context.Context, userID string) (*models.ProfileView, error) {
	if m.profileFn != nil {
		return m.profileFn(userID)
	}
	return nil, errNotConfigured
}
func (m *mockUserQuerier) GetUser(_ context.Context, q cqrs.GetUserQuery) (*models.UserView, error) {
	if m.getFn != nil {
		return m.getFn(q)
	}
	return nil, errNotConfigured
}
func (m *mockUserQuerier) ListUsers(_ context.Context, q cqrs.ListUsersQuery) (*pagination.Page[models.ProfileView], error) {
	if m.listFn != nil {
		return m.listFn(q)
	}
	return nil, errNotConfigured
}
func (m *mockUserQuerier) SearchUsers(_ context.Context, q cqrs.SearchUsersQuery) (*pagination.Page[models.UserView], error) {
	if m.searchFn != nil {
		return m.searchFn(q)
	}
	return nil, errNotConfigured
}

// ---- roles ----

type mockRoleCommander struct {
	createFn func(cqrs.CreateRoleCommand) (*models.Role, error)
	deleteFn func(cqrs.DeleteRoleCommand) error
}

func (m *mockRoleCommander) CreateRole(_ context.Context, cmd cqrs.CreateRoleCommand) (*models.Role, error) {
	if m.createFn != nil {
		return m.createFn(cmd)
	}
	return nil, errNotConfigured
}
func (m *mockRoleCommander) DeleteRole(_ context.Context, cmd cqrs.DeleteRoleCommand) error {
	if m.deleteFn != nil {
		return m.deleteFn(cmd)
	}
	return errNotConfigured
}

type mockRoleQuerier struct {
	getFn     func(cqrs.GetRoleQuery) (*models.Role, error)
	byValueFn func(cqrs.GetRoleByValueQuery) (*models.Role, error)
}

func (m *mockRoleQuerier) GetRole(_ context.Context, q cqrs.GetRoleQuery) (*models.Role, error) {
	if m.getFn != nil {
		return m.getFn(q)
	}
	return nil, errNotConfigured
}
func (m *mockRoleQuerier) GetRoleByValue(_ context.Context, q cqrs.GetRoleByValueQuery) (*models.Role, error) {
	if m.byValueFn != nil {
		return m.byValueFn(q)
	}
	return nil, errNotConfigured
}

// ---- categories ----

type mockCategoryCommander struct {
	createFn func(cqrs.CreateCategoryCommand) (*models.Category, error)
	updateFn func(cqrs.UpdateCategoryCommand) (*models.Category, error)
	deleteFn func(cqrs.DeleteCategoryCommand) error
}

func (m *mockCategoryCommander) CreateCategory(_ context.Context, cmd cqrs.CreateCategoryCommand) (*models.Category, error) {
	if m.createFn != nil {
		return m.createFn(cmd)
	}
	return nil, errNotConfigured
}
func (m *mockCategoryCommander) UpdateCategory(_ context.Context, cmd cqrs.UpdateCategoryCommand) (*models.Category, error) {
	if m.updateFn != nil {
		return m.updateFn(cmd)
	}
	return nil, errNotConfigured
}
func (m *mockCategoryCommander) DeleteCategory(_ context.Context, cmd cqrs.DeleteCategoryCommand) error {
	if m.deleteFn != nil {
		return m.deleteFn(cmd)
	}
	return errNotConfigured
}

type mockCategoryQuerier struct {
	getFn  func(cqrs.GetCategoryQuery) (*models.Category, error)
	listFn func(cqrs.ListCategoriesQuery) (*pagination.Page[models.Category], error)
}

func (m *mockCategoryQuerier) GetCategory(_ context.Context, q cqrs.GetCategoryQuery) (*models.Category, error) {
	if m.getFn != nil {
		return m.getFn(q)
	}
	return nil, errNotConfigured
}
func (m *mockCategoryQuerier) ListCategories(_ context.Context, q cqrs.ListCategoriesQuery) (*pagination.Page[models.Category], error) {
	if m.listFn != nil {
		return m.listFn(q)
	}
	return nil, errNotConfigured
}

// ---- products ----

type mockProductCommander struct {
	createFn func(cqrs.CreateProductCommand) (*models.ProductView, error)
	updateFn func(cqrs.UpdateProductCommand) (*models.ProductView, error)
	deleteFn func(cqrs.DeleteProductCommand) error
}

func (m *mockProductCommander) CreateProduct(_ context.Context, cmd cqrs.CreateProductCommand) (*models.ProductView, error) {
	if m.createFn != nil {
		return m.createFn(cmd)
	}
	return nil, errNotConfigured
}
func (m *mockProductCommander) UpdateProduct(_ context.Context, cmd cqrs.UpdateProductCommand) (*models.ProductView, error) {
	if m.updateFn != nil {
		return m.updateFn(cmd)
	}
	return nil, errNotConfigured
}
func (m *mockProductCommander) DeleteProduct(_ context.Context, cmd cqrs.DeleteProductCommand) error {
	if m.deleteFn != nil {
		return m.deleteFn(cmd)
	}
	return errNotConfigured
}

type mockProductQuerier struct {
	getFn          func(cqrs.GetProductQuery) (*models.ProductView, error)
	listFn         func(cqrs.ListProductsQuery) (*pagination.Page[models.ProductView], error)
	userListFn     func(cqrs.ListProductsQuery) (*pagination.Page[models.ProductView], error)
	categoryListFn func(string, cqrs.ListProductsQuery) (*pagination.Page[models.ProductView], error)
}

func (m *mockProductQuerier) GetProduct(_ context.Context, q cqrs.GetProductQuery) (*models.ProductView, error) {
	if m.getFn != nil {
		return m.getFn(q)
	}
	return nil, errNotConfigured
}
func (m *mockProductQuerier) ListProducts(_ context.Context, q cqrs.ListProductsQuery) (*pagination.Page[models.ProductView], error) {
	if m.listFn != nil {
		return m.listFn(q)
	}
	return nil, errNotConfigured
}
func (m *mockProductQuerier) ListUserProducts(_ context.Context, q cqrs.ListProductsQuery) (*pagination.Page[models.ProductView], error) {
	if m.userListFn != nil {
		return m.userListFn(q)
	}
	return nil, errNotConfigured
}
func (m *mockProductQuerier) ListCategoryProducts(_ context.Context, categoryID string, q cqrs.ListProductsQuery) (*pagination.Page[models.ProductView], error) {
	if m.categoryListFn != nil {
		return m.categoryListFn(categoryID, q)
	}
	return nil, errNotConfigured
}

// ---- chats ----

type mockChatCommander struct {
	openFn          func(cqrs.OpenChatCommand) (*models.Chat, bool, error)
	deleteFn        func(cqrs.DeleteChatCommand) error
	sendFn          func(cqrs.SendMessageCommand) (*models.MessageView, error)
	editFn          func(cqrs.EditMessageCommand) (*models.MessageView, error)
	deleteMessageFn func(cqrs.DeleteMessageCommand) error
}

func (m *mockChatCommander) OpenChat(_ context.Context, cmd cqrs.OpenChatCommand) (*models.Chat, bool, error) {
	if m.openFn != nil {
		return m.openFn(cmd)
	}
	return nil, false, errNotConfigured
}
func (m *mockChatCommander) DeleteChat(_ context.Context, cmd cqrs.DeleteChatCommand) error {
	if m.deleteFn != nil {
		return m.deleteFn(cmd)
	}
	return errNotConfigured
}
func (m *mockChatCommander) SendMessage(_ context.Context, cmd cqrs.SendMessageCommand) (*models.MessageView, error) {
	if m.sendFn != nil {
		return m.sendFn(cmd)
	}
	return nil, errNotConfigured
}
func (m *mockChatCommander) EditMessage(_ context.Context, cmd cqrs.EditMessageCommand) (*models.MessageView, error) {
	if m.editFn != nil {
		return m.editFn(cmd)
	}
	return nil, errNotConfigured
}
func (m *mockChatCommander) DeleteMessage(_ context.Context, cmd cqrs.DeleteMessageCommand) error {
	if m.deleteMessageFn != nil {
		return m.deleteMessageFn(cmd)
	}
	return errNotConfigured
}

type mockChatQuerier struct {
	listFn     func(cqrs.ListChatsQuery) (*pagination.Page[models.ChatListItem], error)
	getFn      func(cqrs.GetChatQuery) (*models.ChatView, *pagination.Page[models.MessageView], error)
	messagesFn func(cqrs.ListMessagesQuery) (*pagination.Page[models.MessageView], error)
}

func (m *mockChatQuerier) ListChats(_ context.Context, q cqrs.ListChatsQuery) (*pagination.Page[models.ChatListItem], error) {
	if m.listFn != nil {
		return m.listFn(q)
	}
	return nil, errNotConfigured
}
func (m *mockChatQuerier) GetChat(_ context.Context, q cqrs.GetChatQuery) (*models.ChatView, *pagination.Page[models.MessageView], error) {
	if m.getFn != nil {
		return m.getFn(q)
	}
	return nil, nil, errNotConfigured
}
func (m *mockChatQuerier) ListMessages(_ context.Context, q cqrs.ListMessagesQuery) (*pagination.Page[models.MessageView], error) {
	if m.messagesFn != nil {
		return m.messagesFn(q)
	}
	return nil, errNotConfigured
}

// ---- helpers ----

var testCookies = CookieConfig{AccessTTL: time.Hour, RefreshTTL: 24 * time.Hour}

// fakeAuth stands in for AuthMiddleware. An empty userID leaves the request
// unauthenticated.
func fakeAuth(userID string) gin.HandlerFunc {
	return func(c *gin.Context) {
		if userID != "" {
			c.Set("userId", userID)
		}
		c.Next()
	}
}

func newTestRouter(authUserID string) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(fakeAuth(authUserID))
	return r
}

func doRequest(router *gin.Engine, method, url string, body interface{}) *httptest.ResponseRecorder {
	var reader io.Reader
	if body != nil {
		b, _ := json.Marshal(body)
		reader = bytes.NewReader(b)
	}
	req, _ := http.NewRequest(method, url, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func doMultipart(router *gin.Engine, method, url string, fields map[string][]string, files map[string][]byte) *httptest.ResponseRecorder {
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	for k, vs := range fields {
		for _, v := range vs {
			_ = mw.WriteField(k, v)
		}
	}
	for name, content := range files {
		part, _ := mw.CreateFormFile("images", name)
		_, _ = part.Write(content)
	}
	_ = mw.Close()

	req, _ := http.NewRequest(method, url, &buf)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	return serve(router, req)
}

func serve(router *gin.Engine, req *http.Request) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func decodeBody(w *httptest.ResponseRecorder) map[string]interface{} {
	var out map[string]interface{}
	_ = json.Unmarshal(w.Body.Bytes(), &out)
	return out
}

func onePage[T any](items ...T) *pagination.Page[T] {
	return pagination.New(items, len(items), pagination.Params{})
}
