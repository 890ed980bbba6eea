package handler

import (
	"net/http"
	"strings"
	"testing"
	"time"

	"github.com/Denn4ik2010/online-shop/shared/cqrs"
	"github.com/Denn4ik2010/online-shop/shared/models"
	"github.com/Denn4ik2010/online-shop/shared/pagination"
	"github.com/gin-gonic/gin"
)

func newUserTestRouter(cmds UserCommander, qrys UserQuerier, authUserID string) *gin.Engine {
	r := newTestRouter(authUserID)
	h := NewUserHandler(cmds, qrys, testCookies)
	v1 := r.Group("/v1/users")
	v1.GET("", h.ListUsers)
	v1.GET("/me", h.GetMe)
	v1.GET("/search", h.SearchUsers)
	v1.GET("/:userId", h.GetUser)
	v1.PATCH("/assign-admin/:userId", h.AssignAdmin)
	v1.DELETE("/me", h.DeleteMe)
	v1.DELETE("/:userId", h.DeleteUser)
	return r
}

var testProfile = &models.ProfileView{
	ID: "usr-001", Email: "alice@example.com", Nickname: "alice",
	Roles: []string{models.RoleUser}, CreatedAt: time.Now(),
}

func TestListUsers(t *testing.T) {
	tests := []struct {
		name           string
		url            string
		listFn         func(cqrs.ListUsersQuery) (*pagination.Page[models.ProfileView], error)
		expectedStatus int
	}{
		{
			name: "success - default page",
			url:  "/v1/users",
			listFn: func(q cqrs.ListUsersQuery) (*pagination.Page[models.ProfileView], error) {
				return onePage(*testProfile), nil
			},
			expectedStatus: http.StatusOK,
		},
		{
			name:           "bad request - pageSize over limit",
			url:            "/v1/users?pageSize=101",
			expectedStatus: http.StatusBadRequest,
		},
		{
			name: "success - page zero falls back to defaults",
			url:  "/v1/users?page=0",
			listFn: func(q cqrs.ListUsersQuery) (*pagination.Page[models.ProfileView], error) {
				return pagination.New([]models.ProfileView{}, 0, q.Page), nil
			},
			expectedStatus: http.StatusOK,
		},
		{
			name:           "internal error - store failure",
			url:            "/v1/users",
			expectedStatus: http.StatusInternalServerError,
		},
		{
			name:           "bad request - unknown order",
			url:            "/v1/users?order=sideways",
			expectedStatus: http.StatusBadRequest,
		},
		{
			name: "bad request - unsupported sortBy",
			url:  "/v1/users?sortBy=password",
			listFn: func(cqrs.ListUsersQuery) (*pagination.Page[models.ProfileView], error) {
				return nil, models.ErrInvalidSort
			},
			expectedStatus: http.StatusBadRequest,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			router := newUserTestRouter(&mockUserCommander{}, &mockUserQuerier{listFn: tt.listFn}, "usr-admin")
			w := doRequest(router, http.MethodGet, tt.url, nil)
			if w.Code != tt.expectedStatus {
				t.Errorf("[%s] expected status %d, got %d; body: %s", tt.name, tt.expectedStatus, w.Code, w.Body.String())
			}
		})
	}
}

func TestListUsersEnvelope(t *testing.T) {
	var got cqrs.ListUsersQuery
	qrys := &mockUserQuerier{listFn: func(q cqrs.ListUsersQuery) (*pagination.Page[models.ProfileView], error) {
		got = q
		return pagination.New([]models.ProfileView{*testProfile}, 25, q.Page), nil
	}}
	router := newUserTestRouter(&mockUserCommander{}, qrys, "usr-admin")

	w := doRequest(router, http.MethodGet, "/v1/users?page=2&pageSize=10&sortBy=nickname&order=asc", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d; body: %s", w.Code, w.Body.String())
	}
	if got.Page.Page != 2 || got.Page.PageSize != 10 || got.Sort.SortBy != "nickname" || got.Sort.Order != "asc" {
		t.Errorf("query not bound: %+v", got)
	}

	body := decodeBody(w)
	if _, ok := body["users"]; !ok {
		t.Errorf("expected users key, got %v", body)
	}
	if body["total"] != float64(25) || body["totalPages"] != float64(3) {
		t.Errorf("unexpected totals: %v", body)
	}
	if body["prevPage"] != float64(1) || body["nextPage"] != float64(3) {
		t.Errorf("unexpected navigation: prev=%v next=%v", body["prevPage"], body["nextPage"])
	}
}

func TestSearchUsers(t *testing.T) {
	var got cqrs.SearchUsersQuery
	qrys := &mockUserQuerier{searchFn: func(q cqrs.SearchUsersQuery) (*pagination.Page[models.UserView], error) {
		got = q
		if q.MinDate != nil && q.MaxDate != nil && q.MinDate.After(*q.MaxDate) {
			return nil, models.ErrInvalidRange
		}
		return onePage(models.UserView{ID: "usr-001", Nickname: "alice"}), nil
	}}
	router := newUserTestRouter(&mockUserCommander{}, qrys, "usr-001")

	tests := []struct {
		name           string
		url            string
		expectedStatus int
	}{
		{"success - nickname and dates", "/v1/users/search?nickname=ali&minDate=2024-01-01&maxDate=2024-12-31T00:00:00Z", http.StatusOK},
		{"bad request - malformed date", "/v1/users/search?minDate=yesterday", http.StatusBadRequest},
		{"bad request - min after max", "/v1/users/search?minDate=2025-01-01&maxDate=2024-01-01", http.StatusBadRequest},
		{"bad request - nickname too long", "/v1/users/search?nickname=" + strings.Repeat("a", 31), http.StatusBadRequest},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := doRequest(router, http.MethodGet, tt.url, nil)
			if w.Code != tt.expectedStatus {
				t.Errorf("[%s] expected status %d, got %d; body: %s", tt.name, tt.expectedStatus, w.Code, w.Body.String())
			}
		})
	}

	doRequest(router, http.MethodGet, "/v1/users/search?nickname=ali&minDate=2024-01-01", nil)
	if got.Nickname != "ali" || got.MinDate == nil || got.MaxDate != nil {
		t.Errorf("unexpected query: %+v", got)
	}
}

func TestGetMeAndGetUser(t *testing.T) {
	qrys := &mockUserQuerier{
		profileFn: func(id string) (*models.ProfileView, error) {
			if id != "usr-001" {
				return nil, models.ErrUserNotFound
			}
			return testProfile, nil
		},
		getFn: func(q cqrs.GetUserQuery) (*models.UserView, error) {
			if q.UserID != "usr-001" {
				return nil, models.ErrUserNotFound
			}
			return &models.UserView{ID: "usr-001", Nickname: "alice"}, nil
		},
	}

	router := newUserTestRouter(&mockUserCommander{}, qrys, "usr-001")
	w := doRequest(router, http.MethodGet, "/v1/users/me", nil)
	if w.Code != http.StatusOK || decodeBody(w)["email"] != "alice@example.com" {
		t.Errorf("expected own profile with email, got %d %s", w.Code, w.Body.String())
	}

	w = doRequest(router, http.MethodGet, "/v1/users/usr-001", nil)
	if w.Code != http.StatusOK {
		t.Errorf("expected 200, got %d", w.Code)
	}
	if _, leaked := decodeBody(w)["email"]; leaked {
		t.Errorf("public profile must not include email: %s", w.Body.String())
	}

	w = doRequest(router, http.MethodGet, "/v1/users/usr-404", nil)
	if w.Code != http.StatusNotFound {
		t.Errorf("expected 404, got %d", w.Code)
	}

	router = newUserTestRouter(&mockUserCommander{}, qrys, "")
	w = doRequest(router, http.MethodGet, "/v1/users/me", nil)
	if w.Code != http.StatusUnauthorized {
		t.Errorf("expected 401, got %d", w.Code)
	}
}

func TestAssignAdmin(t *testing.T) {
	tests := []struct {
		name           string
		assignFn       func(cqrs.AssignAdminCommand) (*models.ProfileView, error)
		expectedStatus int
	}{
		{
			name:           "success - role granted",
			assignFn:       func(cqrs.AssignAdminCommand) (*models.ProfileView, error) { return testProfile, nil },
			expectedStatus: http.StatusOK,
		},
		{
			name:           "bad request - already admin",
			assignFn:       func(cqrs.AssignAdminCommand) (*models.ProfileView, error) { return nil, models.ErrAlreadyAdmin },
			expectedStatus: http.StatusBadRequest,
		},
		{
			name:           "not found - unknown user",
			assignFn:       func(cqrs.AssignAdminCommand) (*models.ProfileView, error) { return nil, models.ErrUserNotFound },
			expectedStatus: http.StatusNotFound,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			router := newUserTestRouter(&mockUserCommander{assignAdminFn: tt.assignFn}, &mockUserQuerier{}, "usr-admin")
			w := doRequest(router, http.MethodPatch, "/v1/users/assign-admin/usr-001", nil)
			if w.Code != tt.expectedStatus {
				t.Errorf("[%s] expected status %d, got %d; body: %s", tt.name, tt.expectedStatus, w.Code, w.Body.String())
			}
		})
	}
}

func TestDeleteUser(t *testing.T) {
	var deleted []string
	cmds := &mockUserCommander{deleteFn: func(cmd cqrs.DeleteUserCommand) error {
		if cmd.UserID == "usr-404" {
			return models.ErrUserNotFound
		}
		deleted = append(deleted, cmd.UserID)
		return nil
	}}
	router := newUserTestRouter(cmds, &mockUserQuerier{}, "usr-001")

	w := doRequest(router, http.MethodDelete, "/v1/users/me", nil)
	if w.Code != http.StatusNoContent {
		t.Fatalf("expected 204, got %d", w.Code)
	}
	if len(w.Result().Cookies()) != 2 {
		t.Errorf("expected cookies to be cleared")
	}

	w = doRequest(router, http.MethodDelete, "/v1/users/usr-002", nil)
	if w.Code != http.StatusNoContent {
		t.Errorf("expected 204, got %d", w.Code)
	}

	w = doRequest(router, http.MethodDelete, "/v1/users/usr-404", nil)
	if w.Code != http.StatusNotFound {
		t.Errorf("expected 404, got %d", w.Code)
	}

	if len(deleted) != 2 || deleted[0] != "usr-001" || deleted[1] != "usr-002" {
		t.Errorf("unexpected deletions: %v", deleted)
	}
}
