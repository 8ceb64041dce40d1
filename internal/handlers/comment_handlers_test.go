package handlers

import (
	"context"
	"fmt"
	"net/http"
	"testing"

	"github.com/inkwell/inkwell/internal/models"
)

type commentFixture struct {
	s        *testServer
	blog     *models.Blog
	comment1 *models.Comment
	reply    *models.Comment
	token1   string
	token2   string
}

func newCommentFixture(t *testing.T) *commentFixture {
	t.Helper()
	s := newTestServer(t)
	user1, token1 := s.user("98912888888")
	_, token2 := s.user("98912888889")
	blog := s.blog(user1, "title-test-1", models.BlogStatusPublished)

	name1 := "test-name-1"
	comment1 := &models.Comment{
		UserID:     user1.ID,
		Name:       &name1,
		TargetKind: models.CommentTargetBlog,
		ObjectID:   blog.ID,
		Body:       "test-body-1",
	}
	if err := s.db.Omit("User").Create(comment1).Error; err != nil {
		t.Fatalf("create comment: %v", err)
	}
	name2 := "test-name-2"
	comment2 := &models.Comment{
		UserID:     user1.ID,
		Name:       &name2,
		TargetKind: models.CommentTargetBlog,
		ObjectID:   blog.ID,
		ParentID:   &comment1.ID,
		Body:       "test-body-2",
	}
	if err := s.db.Omit("User").Create(comment2).Error; err != nil {
		t.Fatalf("create comment: %v", err)
	}

	return &commentFixture{s: s, blog: blog, comment1: comment1, reply: comment2, token1: token1, token2: token2}
}

func TestComments_List(t *testing.T) {
	f := newCommentFixture(t)

	rec := f.s.do(http.MethodGet, fmt.Sprintf("/api/v1/comments/blog/%d", f.blog.ID), "", nil)
	expectStatus(t, rec, http.StatusOK)

	var comments []CommentResponse
	decode(t, rec, &comments)
	if len(comments) != 2 {
		t.Fatalf("comments = %d, want 2", len(comments))
	}
	if comments[0].User != "98912888888" || comments[0].ContentType != models.CommentTargetBlog {
		t.Errorf("first comment = %+v", comments[0])
	}

	rec = f.s.do(http.MethodGet, "/api/v1/comments/blog/999", "", nil)
	expectStatus(t, rec, http.StatusNotFound)

	rec = f.s.do(http.MethodGet, "/api/v1/comments/user/1", "", nil)
	expectStatus(t, rec, http.StatusNotFound)
}

func TestComments_ListHidesDraftTargets(t *testing.T) {
	f := newCommentFixture(t)
	author, _ := f.s.user("98912000000")
	draft := f.s.blog(author, "draft", models.BlogStatusDraft)

	rec := f.s.do(http.MethodGet, fmt.Sprintf("/api/v1/comments/blog/%d", draft.ID), "", nil)
	expectStatus(t, rec, http.StatusNotFound)
}

func TestComments_Create(t *testing.T) {
	f := newCommentFixture(t)
	body := map[string]interface{}{
		"object_id": f.blog.ID,
		"name":      "test-name-3",
		"body":      "test-body-3",
		"parent":    nil,
	}

	rec := f.s.do(http.MethodPost, "/api/v1/comments", "", body)
	expectStatus(t, rec, http.StatusForbidden)

	rec = f.s.do(http.MethodPost, "/api/v1/comments", f.token1, body)
	expectStatus(t, rec, http.StatusCreated)

	var created CommentResponse
	decode(t, rec, &created)
	if created.ObjectID != f.blog.ID || created.Body != "test-body-3" || created.Name == nil || *created.Name != "test-name-3" {
		t.Errorf("created = %+v", created)
	}
	if created.Parent != nil || created.ContentType != models.CommentTargetBlog {
		t.Errorf("created = %+v, want top-level blog comment", created)
	}
}

func TestComments_CreateInvalid(t *testing.T) {
	f := newCommentFixture(t)

	rec := f.s.do(http.MethodPost, "/api/v1/comments", f.token1, map[string]string{
		"name": "invalid-data-test-invalid-data-test",
	})
	expectStatus(t, rec, http.StatusBadRequest)
	detail := errorCode(t, rec)
	for _, field := range []string{"name", "object_id", "body"} {
		if detail.Fields[field] == "" {
			t.Errorf("missing message for %s in %v", field, detail.Fields)
		}
	}

	rec = f.s.do(http.MethodPost, "/api/v1/comments", f.token1, map[string]interface{}{
		"object_id": 999,
		"body":      "x",
	})
	expectStatus(t, rec, http.StatusBadRequest)

	rec = f.s.do(http.MethodPost, "/api/v1/comments", f.token1, map[string]interface{}{
		"content_type": "category",
		"object_id":    f.blog.ID,
		"body":         "x",
		"parent":       f.comment1.ID,
	})
	expectStatus(t, rec, http.StatusBadRequest)
}

func TestComments_InvalidTokenIsUnauthorized(t *testing.T) {
	f := newCommentFixture(t)

	rec := f.s.do(http.MethodPost, "/api/v1/comments", "not-a-jwt", map[string]interface{}{
		"object_id": f.blog.ID,
		"body":      "x",
	})
	expectStatus(t, rec, http.StatusUnauthorized)
}

func TestComments_Update(t *testing.T) {
	f := newCommentFixture(t)
	path := fmt.Sprintf("/api/v1/comments/%d", f.comment1.ID)
	body := map[string]interface{}{
		"object_id": f.blog.ID,
		"name":      "update-test-name-3",
		"body":      "update-test-body-3",
	}

	rec := f.s.do(http.MethodPut, path, "", body)
	expectStatus(t, rec, http.StatusForbidden)

	rec = f.s.do(http.MethodPut, path, f.token2, body)
	expectStatus(t, rec, http.StatusNotFound)

	rec = f.s.do(http.MethodPut, path, f.token1, body)
	expectStatus(t, rec, http.StatusOK)
	var updated CommentResponse
	decode(t, rec, &updated)
	if updated.Body != "update-test-body-3" || *updated.Name != "update-test-name-3" {
		t.Errorf("updated = %+v", updated)
	}

	rec = f.s.do(http.MethodPut, path, f.token1, map[string]string{
		"name": "invalid-data-test-invalid-data-test",
	})
	expectStatus(t, rec, http.StatusBadRequest)

	self := f.comment1.ID
	body["parent"] = self
	rec = f.s.do(http.MethodPut, path, f.token1, body)
	expectStatus(t, rec, http.StatusBadRequest)
}

func TestComments_UpdateRejectsReplyCycle(t *testing.T) {
	f := newCommentFixture(t)

	rec := f.s.do(http.MethodPut, fmt.Sprintf("/api/v1/comments/%d", f.comment1.ID), f.token1, map[string]interface{}{
		"object_id": f.blog.ID,
		"body":      "test-body-1",
		"parent":    f.reply.ID,
	})
	expectStatus(t, rec, http.StatusBadRequest)
	if detail := errorCode(t, rec); detail.Fields["parent"] == "" {
		t.Errorf("fields = %v, want a parent message", detail.Fields)
	}

	var stored models.Comment
	f.s.db.First(&stored, f.comment1.ID)
	if stored.ParentID != nil {
		t.Errorf("root parent = %d, want none", *stored.ParentID)
	}

	// Moving the reply under its own root is still allowed.
	rec = f.s.do(http.MethodPut, fmt.Sprintf("/api/v1/comments/%d", f.reply.ID), f.token1, map[string]interface{}{
		"object_id": f.blog.ID,
		"body":      "test-body-2",
		"parent":    f.comment1.ID,
	})
	expectStatus(t, rec, http.StatusOK)
}

func TestComments_Delete(t *testing.T) {
	f := newCommentFixture(t)
	path := fmt.Sprintf("/api/v1/comments/%d", f.comment1.ID)

	rec := f.s.do(http.MethodDelete, path, "", nil)
	expectStatus(t, rec, http.StatusForbidden)

	rec = f.s.do(http.MethodDelete, path, f.token2, nil)
	expectStatus(t, rec, http.StatusNotFound)

	rec = f.s.do(http.MethodDelete, path, f.token1, nil)
	expectStatus(t, rec, http.StatusNoContent)

	var n int64
	f.s.db.WithContext(context.Background()).Model(&models.Comment{}).Count(&n)
	if n != 0 {
		t.Errorf("comments = %d, want 0 after deleting the thread root", n)
	}
}

func TestComments_OnCategory(t *testing.T) {
	f := newCommentFixture(t)
	category := &models.Category{Title: "News", Slug: "news", Status: true}
	if err := f.s.db.Create(category).Error; err != nil {
		t.Fatalf("create category: %v", err)
	}

	rec := f.s.do(http.MethodPost, "/api/v1/comments", f.token2, map[string]interface{}{
		"content_type": "category",
		"object_id":    category.ID,
		"rate":         "5",
		"body":         "nice",
	})
	expectStatus(t, rec, http.StatusCreated)

	rec = f.s.do(http.MethodGet, fmt.Sprintf("/api/v1/comments/category/%d", category.ID), "", nil)
	expectStatus(t, rec, http.StatusOK)
	var comments []CommentResponse
	decode(t, rec, &comments)
	if len(comments) != 1 || comments[0].Rate != models.RateExcellent {
		t.Fatalf("comments = %+v", comments)
	}
}
