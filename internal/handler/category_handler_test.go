package handler

import (
	"net/http"
	"testing"

	"github.com/Denn4ik2010/online-shop/shared/cqrs"
	"github.com/Denn4ik2010/online-shop/shared/models"
	"github.com/Denn4ik2010/online-shop/shared/pagination"
	"github.com/gin-gonic/gin"
)

func newCategoryTestRouter(cmds CategoryCommander, qrys CategoryQuerier) *gin.Engine {
	r := newTestRouter("usr-admin")
	h := NewCategoryHandler(cmds, qrys)
	v1 := r.Group("/v1/categories")
	v1.GET("", h.ListCategories)
	v1.GET("/search", h.SearchCategories)
	v1.GET("/:categoryId", h.GetCategory)
	v1.POST("", h.CreateCategory)
	v1.PATCH("/:categoryId", h.UpdateCategory)
	v1.DELETE("/:categoryId", h.DeleteCategory)
	return r
}

func newRoleTestRouter(cmds RoleCommander, qrys RoleQuerier) *gin.Engine {
	r := newTestRouter("usr-admin")
	h := NewRoleHandler(cmds, qrys)
	v1 := r.Group("/v1/roles")
	v1.POST("", h.CreateRole)
	v1.GET("/:roleId", h.GetRole)
	v1.GET("/value/:value", h.GetRoleByValue)
	v1.DELETE("/:value", h.DeleteRole)
	return r
}

var testCategory = &models.Category{ID: "cat-1", Name: "Phones"}

func TestCreateCategory(t *testing.T) {
	tests := []struct {
		name           string
		body           interface{}
		createFn       func(cqrs.CreateCategoryCommand) (*models.Category, error)
		expectedStatus int
	}{
		{
			name:           "success - created",
			body:           map[string]string{"name": "Phones", "description": "Mobile phones"},
			createFn:       func(cqrs.CreateCategoryCommand) (*models.Category, error) { return testCategory, nil },
			expectedStatus: http.StatusCreated,
		},
		{
			name:           "bad request - name too short",
			body:           map[string]string{"name": "TV"},
			expectedStatus: http.StatusBadRequest,
		},
		{
			name: "success - name trimmed before forwarding",
			body: map[string]string{"name": "  Phones  "},
			createFn: func(cmd cqrs.CreateCategoryCommand) (*models.Category, error) {
				if cmd.Name != "Phones" {
					return nil, errNotConfigured
				}
				return testCategory, nil
			},
			expectedStatus: http.StatusCreated,
		},
		{
			name:           "bad request - blank name",
			body:           map[string]string{"name": "     "},
			expectedStatus: http.StatusBadRequest,
		},
		{
			name:           "bad request - duplicate name",
			body:           map[string]string{"name": "Phones"},
			createFn:       func(cqrs.CreateCategoryCommand) (*models.Category, error) { return nil, models.ErrCategoryExists },
			expectedStatus: http.StatusBadRequest,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			router := newCategoryTestRouter(&mockCategoryCommander{createFn: tt.createFn}, &mockCategoryQuerier{})
			w := doRequest(router, http.MethodPost, "/v1/categories", tt.body)
			if w.Code != tt.expectedStatus {
				t.Errorf("[%s] expected status %d, got %d; body: %s", tt.name, tt.expectedStatus, w.Code, w.Body.String())
			}
		})
	}
}

func TestUpdateCategory(t *testing.T) {
	var got cqrs.UpdateCategoryCommand
	cmds := &mockCategoryCommander{updateFn: func(cmd cqrs.UpdateCategoryCommand) (*models.Category, error) {
		got = cmd
		if cmd.CategoryID != "cat-1" {
			return nil, models.ErrCategoryNotFound
		}
		return testCategory, nil
	}}
	router := newCategoryTestRouter(cmds, &mockCategoryQuerier{})

	w := doRequest(router, http.MethodPatch, "/v1/categories/cat-1", map[string]string{"description": "Smart and not"})
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d; body: %s", w.Code, w.Body.String())
	}
	if got.Name != nil || got.Description == nil || *got.Description != "Smart and not" {
		t.Errorf("unexpected command: %+v", got)
	}

	w = doRequest(router, http.MethodPatch, "/v1/categories/cat-404", map[string]string{"name": "Tablets"})
	if w.Code != http.StatusNotFound {
		t.Errorf("expected 404, got %d", w.Code)
	}

	w = doRequest(router, http.MethodPatch, "/v1/categories/cat-1", map[string]string{"name": "TV"})
	if w.Code != http.StatusBadRequest {
		t.Errorf("expected 400, got %d", w.Code)
	}

	got = cqrs.UpdateCategoryCommand{}
	w = doRequest(router, http.MethodPatch, "/v1/categories/cat-1", map[string]string{"name": "    "})
	if w.Code != http.StatusBadRequest {
		t.Errorf("expected 400 for blank name, got %d", w.Code)
	}
	if got.CategoryID != "" {
		t.Errorf("blank name must not reach the command: %+v", got)
	}
}

func TestDeleteCategory(t *testing.T) {
	tests := []struct {
		name           string
		deleteFn       func(cqrs.DeleteCategoryCommand) error
		expectedStatus int
	}{
		{"success - deleted", func(cqrs.DeleteCategoryCommand) error { return nil }, http.StatusNoContent},
		{"not found - unknown category", func(cqrs.DeleteCategoryCommand) error { return models.ErrCategoryNotFound }, http.StatusNotFound},
		{"conflict - still has products", func(cqrs.DeleteCategoryCommand) error { return models.ErrCategoryInUse }, http.StatusConflict},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			router := newCategoryTestRouter(&mockCategoryCommander{deleteFn: tt.deleteFn}, &mockCategoryQuerier{})
			w := doRequest(router, http.MethodDelete, "/v1/categories/cat-1", nil)
			if w.Code != tt.expectedStatus {
				t.Errorf("[%s] expected status %d, got %d", tt.name, tt.expectedStatus, w.Code)
			}
		})
	}
}

func TestCategoryQueries(t *testing.T) {
	var got cqrs.ListCategoriesQuery
	qrys := &mockCategoryQuerier{
		getFn: func(q cqrs.GetCategoryQuery) (*models.Category, error) {
			if q.CategoryID != "cat-1" {
				return nil, models.ErrCategoryNotFound
			}
			return testCategory, nil
		},
		listFn: func(q cqrs.ListCategoriesQuery) (*pagination.Page[models.Category], error) {
			got = q
			return onePage(*testCategory), nil
		},
	}
	router := newCategoryTestRouter(&mockCategoryCommander{}, qrys)

	tests := []struct {
		name           string
		url            string
		expectedStatus int
	}{
		{"success - list", "/v1/categories?sortBy=name", http.StatusOK},
		{"success - search", "/v1/categories/search?name=pho", http.StatusOK},
		{"bad request - search without name", "/v1/categories/search", http.StatusBadRequest},
		{"bad request - search name too short", "/v1/categories/search?name=ph", http.StatusBadRequest},
		{"success - get", "/v1/categories/cat-1", http.StatusOK},
		{"not found - unknown category", "/v1/categories/cat-404", http.StatusNotFound},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := doRequest(router, http.MethodGet, tt.url, nil)
			if w.Code != tt.expectedStatus {
				t.Errorf("[%s] expected status %d, got %d; body: %s", tt.name, tt.expectedStatus, w.Code, w.Body.String())
			}
		})
	}

	w := doRequest(router, http.MethodGet, "/v1/categories/search?name=pho", nil)
	if got.Name != "pho" {
		t.Errorf("expected name filter, got %+v", got)
	}
	if _, ok := decodeBody(w)["categories"]; !ok {
		t.Errorf("expected categories key: %s", w.Body.String())
	}
}

func TestRoleHandler(t *testing.T) {
	cmds := &mockRoleCommander{
		createFn: func(cmd cqrs.CreateRoleCommand) (*models.Role, error) {
			if cmd.Value == "ADMIN" {
				return nil, models.ErrRoleExists
			}
			return &models.Role{ID: "rol-1", Value: cmd.Value}, nil
		},
		deleteFn: func(cmd cqrs.DeleteRoleCommand) error {
			switch cmd.Value {
			case "USER":
				return models.ErrForbidden
			case "GHOST":
				return models.ErrRoleNotFound
			}
			return nil
		},
	}
	qrys := &mockRoleQuerier{
		getFn: func(q cqrs.GetRoleQuery) (*models.Role, error) {
			if q.RoleID != "rol-admin" {
				return nil, models.ErrRoleNotFound
			}
			return &models.Role{ID: q.RoleID, Value: "ADMIN"}, nil
		},
		byValueFn: func(q cqrs.GetRoleByValueQuery) (*models.Role, error) {
			return &models.Role{ID: "rol-admin", Value: q.Value}, nil
		},
	}
	router := newRoleTestRouter(cmds, qrys)

	tests := []struct {
		name           string
		method         string
		url            string
		body           interface{}
		expectedStatus int
	}{
		{"success - create role", http.MethodPost, "/v1/roles", map[string]string{"value": "SELLER"}, http.StatusCreated},
		{"bad request - lower case value", http.MethodPost, "/v1/roles", map[string]string{"value": "seller"}, http.StatusBadRequest},
		{"bad request - non letters", http.MethodPost, "/v1/roles", map[string]string{"value": "SELLER_1"}, http.StatusBadRequest},
		{"bad request - duplicate", http.MethodPost, "/v1/roles", map[string]string{"value": "ADMIN"}, http.StatusBadRequest},
		{"success - get by id", http.MethodGet, "/v1/roles/rol-admin", nil, http.StatusOK},
		{"not found - unknown id", http.MethodGet, "/v1/roles/rol-404", nil, http.StatusNotFound},
		{"success - get by value", http.MethodGet, "/v1/roles/value/ADMIN", nil, http.StatusOK},
		{"success - delete", http.MethodDelete, "/v1/roles/SELLER", nil, http.StatusNoContent},
		{"forbidden - builtin role", http.MethodDelete, "/v1/roles/USER", nil, http.StatusForbidden},
		{"not found - unknown value", http.MethodDelete, "/v1/roles/GHOST", nil, http.StatusNotFound},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := doRequest(router, tt.method, tt.url, tt.body)
			if w.Code != tt.expectedStatus {
				t.Errorf("[%s] expected status %d, got %d; body: %s", tt.name, tt.expectedStatus, w.Code, w.Body.String())
			}
		})
	}
}
