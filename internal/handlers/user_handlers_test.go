package handlers

import (
	"fmt"
	"net/http"
	"testing"
	"time"

	"github.com/inkwell/inkwell/internal/models"
)

func TestProfile_UpdateAndDelete(t *testing.T) {
	s := newTestServer(t)
	_, token := s.user("98912000001")

	rec := s.do(http.MethodGet, "/api/v1/users/me", "", nil)
	expectStatus(t, rec, http.StatusForbidden)
	if detail := errorCode(t, rec); detail.Message != "Authentication credentials were not provided." {
		t.Errorf("message = %q", detail.Message)
	}

	rec = s.do(http.MethodPut, "/api/v1/users/me", token, map[string]string{
		"first_name": " Sara ",
		"email":      "sara@example.com",
	})
	expectStatus(t, rec, http.StatusOK)
	var me models.User
	decode(t, rec, &me)
	if me.FirstName != "Sara" || me.Email != "sara@example.com" || me.IsSuperuser {
		t.Errorf("profile = %+v", me)
	}

	rec = s.do(http.MethodPut, "/api/v1/users/me", token, map[string]string{"email": "not-an-email"})
	expectStatus(t, rec, http.StatusBadRequest)

	rec = s.do(http.MethodDelete, "/api/v1/users/me", token, nil)
	expectStatus(t, rec, http.StatusNoContent)

	// The token outlives the account but no longer authenticates anyone.
	rec = s.do(http.MethodGet, "/api/v1/users/me", token, nil)
	expectStatus(t, rec, http.StatusUnauthorized)
}

func TestUsers_RequireSuperuser(t *testing.T) {
	s := newTestServer(t)
	member, token := s.user("98912000001")

	for _, tc := range []struct {
		method, path string
	}{
		{http.MethodGet, "/api/v1/users"},
		{http.MethodGet, fmt.Sprintf("/api/v1/users/%d", member.ID)},
		{http.MethodPut, fmt.Sprintf("/api/v1/users/%d", member.ID)},
		{http.MethodDelete, fmt.Sprintf("/api/v1/users/%d", member.ID)},
	} {
		rec := s.do(tc.method, tc.path, token, map[string]string{})
		if rec.Code != http.StatusForbidden {
			t.Errorf("%s %s = %d, want 403", tc.method, tc.path, rec.Code)
		}
	}
}

func TestUsers_SuperuserManagesAccounts(t *testing.T) {
	s := newTestServer(t)
	_, admin := s.user("98912000000", superuser)
	special := time.Now().Add(24 * time.Hour)
	member, _ := s.user("98912000001", func(u *models.User) {
		u.FirstName = "Ali"
		u.SpecialUser = &special
	})
	s.user("98912000002", author)

	rec := s.do(http.MethodGet, "/api/v1/users?search=ali", admin, nil)
	expectStatus(t, rec, http.StatusOK)
	var page ListResponse[UserListItem]
	decode(t, rec, &page)
	if page.Count != 1 || page.Results[0].ID != member.ID || !page.Results[0].IsSpecialUser {
		t.Fatalf("search page = %+v", page)
	}

	rec = s.do(http.MethodGet, "/api/v1/users?author=true", admin, nil)
	expectStatus(t, rec, http.StatusOK)
	page = ListResponse[UserListItem]{}
	decode(t, rec, &page)
	if page.Count != 1 || page.Results[0].Phone != "98912000002" {
		t.Errorf("author page = %+v", page)
	}

	path := fmt.Sprintf("/api/v1/users/%d", member.ID)
	rec = s.do(http.MethodPut, path, admin, map[string]interface{}{
		"first_name": "Ali",
		"is_active":  true,
		"author":     true,
	})
	expectStatus(t, rec, http.StatusOK)
	var updated models.User
	decode(t, rec, &updated)
	if !updated.Author || updated.SpecialUser != nil || updated.Phone != "98912000001" {
		t.Errorf("updated = %+v", updated)
	}

	rec = s.do(http.MethodGet, path, admin, nil)
	expectStatus(t, rec, http.StatusOK)

	rec = s.do(http.MethodDelete, path, admin, nil)
	expectStatus(t, rec, http.StatusNoContent)

	rec = s.do(http.MethodGet, path, admin, nil)
	expectStatus(t, rec, http.StatusNotFound)
}

func TestCategories_PublicListAndSuperuserWrites(t *testing.T) {
	s := newTestServer(t)
	_, member := s.user("98912000001")
	_, admin := s.user("98912000000", superuser)
	hidden := &models.Category{Title: "Hidden", Slug: "hidden", Status: false}
	if err := s.db.Create(hidden).Error; err != nil {
		t.Fatalf("create category: %v", err)
	}
	body := map[string]interface{}{"title": "Go Tips", "slug": "Go Tips", "status": true}

	rec := s.do(http.MethodPost, "/api/v1/categories", member, body)
	expectStatus(t, rec, http.StatusForbidden)

	rec = s.do(http.MethodPost, "/api/v1/categories", admin, body)
	expectStatus(t, rec, http.StatusCreated)
	var created models.Category
	decode(t, rec, &created)
	if created.Slug != "go-tips" {
		t.Errorf("slug = %q, want go-tips", created.Slug)
	}

	rec = s.do(http.MethodPost, "/api/v1/categories", admin, body)
	expectStatus(t, rec, http.StatusBadRequest)

	rec = s.do(http.MethodPost, "/api/v1/categories", admin, map[string]interface{}{"title": "Empty", "slug": "--"})
	expectStatus(t, rec, http.StatusBadRequest)

	rec = s.do(http.MethodGet, "/api/v1/categories", "", nil)
	expectStatus(t, rec, http.StatusOK)
	var listed []models.Category
	decode(t, rec, &listed)
	if len(listed) != 1 || listed[0].ID != created.ID {
		t.Fatalf("listed = %+v, want only the active category", listed)
	}

	path := fmt.Sprintf("/api/v1/categories/%d", created.ID)
	rec = s.do(http.MethodPut, path, admin, map[string]interface{}{
		"title":  "Go Tips",
		"slug":   "go-tips",
		"status": false,
	})
	expectStatus(t, rec, http.StatusOK)

	rec = s.do(http.MethodDelete, path, member, nil)
	expectStatus(t, rec, http.StatusForbidden)

	rec = s.do(http.MethodDelete, path, admin, nil)
	expectStatus(t, rec, http.StatusNoContent)
}
