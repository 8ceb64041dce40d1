package repository

import (
	"context"
	"errors"
	"testing"

	"github.com/inkwell/inkwell/internal/models"
)

func TestCategoryRepository_ListActiveOrdering(t *testing.T) {
	db := newTestDB(t)
	repo := NewCategoryRepository(db, quietLogger())

	second := mustCategory(t, db, "Second", true, 2)
	first := mustCategory(t, db, "First", true, 1)
	mustCategory(t, db, "Hidden", false, 0)

	categories, err := repo.ListActive(context.Background())
	if err != nil {
		t.Fatalf("ListActive: %v", err)
	}
	if len(categories) != 2 || categories[0].ID != first.ID || categories[1].ID != second.ID {
		t.Fatalf("categories = %+v", categories)
	}
}

func TestCategoryRepository_CreateValidates(t *testing.T) {
	db := newTestDB(t)
	repo := NewCategoryRepository(db, quietLogger())
	ctx := context.Background()
	mustCategory(t, db, "Go", true, 1)

	dup := &models.Category{Title: "Go again", Slug: "go", Status: true}
	if err := repo.Create(ctx, dup); !errors.Is(err, ErrSlugTaken) {
		t.Errorf("duplicate slug err = %v, want ErrSlugTaken", err)
	}

	missing := uint(99)
	orphan := &models.Category{Title: "Orphan", Slug: "orphan", ParentID: &missing}
	if err := repo.Create(ctx, orphan); !errors.Is(err, ErrUnknownCategory) {
		t.Errorf("missing parent err = %v, want ErrUnknownCategory", err)
	}
}

func TestCategoryRepository_UpdateRejectsSelfParent(t *testing.T) {
	db := newTestDB(t)
	repo := NewCategoryRepository(db, quietLogger())
	c := mustCategory(t, db, "Go", true, 1)

	c.ParentID = &c.ID
	if err := repo.Update(context.Background(), c); !errors.Is(err, ErrUnknownCategory) {
		t.Fatalf("Update err = %v, want ErrUnknownCategory", err)
	}

	c.ParentID = nil
	c.Title = "Golang"
	if err := repo.Update(context.Background(), c); err != nil {
		t.Fatalf("Update: %v", err)
	}
}

func TestCategoryRepository_UpdateRejectsParentCycle(t *testing.T) {
	db := newTestDB(t)
	repo := NewCategoryRepository(db, quietLogger())
	ctx := context.Background()
	a := mustCategory(t, db, "A", true, 1)
	b := mustCategory(t, db, "B", true, 2)
	c := mustCategory(t, db, "C", true, 3)

	b.ParentID = &a.ID
	if err := repo.Update(ctx, b); err != nil {
		t.Fatalf("Update b: %v", err)
	}
	c.ParentID = &b.ID
	if err := repo.Update(ctx, c); err != nil {
		t.Fatalf("Update c: %v", err)
	}

	a.ParentID = &c.ID
	if err := repo.Update(ctx, a); !errors.Is(err, ErrUnknownCategory) {
		t.Fatalf("Update a under its grandchild err = %v, want ErrUnknownCategory", err)
	}

	var stored models.Category
	db.First(&stored, a.ID)
	if stored.ParentID != nil {
		t.Errorf("a.parent = %v, want nil", *stored.ParentID)
	}
}

func TestCategoryRepository_DeleteDetaches(t *testing.T) {
	db := newTestDB(t)
	categories := NewCategoryRepository(db, quietLogger())
	blogs := NewBlogRepository(db, quietLogger())
	ctx := context.Background()

	author := mustUser(t, db, "111")
	parent := mustCategory(t, db, "Parent", true, 1)
	child := &models.Category{Title: "Child", Slug: "child", Status: true, ParentID: &parent.ID}
	if err := categories.Create(ctx, child); err != nil {
		t.Fatalf("Create child: %v", err)
	}
	blog := mustBlog(t, blogs, author, "Post", models.BlogStatusPublished, parent.ID)
	root := mustComment(t, db, author, models.CommentTargetCategory, parent.ID, nil)
	mustComment(t, db, author, models.CommentTargetCategory, parent.ID, &root.ID)

	if err := categories.Delete(ctx, parent.ID); err != nil {
		t.Fatalf("Delete: %v", err)
	}

	stored, err := categories.GetByID(ctx, child.ID)
	if err != nil {
		t.Fatalf("GetByID child: %v", err)
	}
	if stored.ParentID != nil {
		t.Error("child should be promoted to top level")
	}
	if _, err := blogs.GetByID(ctx, blog.ID); err != nil {
		t.Errorf("post should survive category deletion: %v", err)
	}
	if n := count(t, db, "blog_categories"); n != 0 {
		t.Errorf("blog_categories = %d, want 0", n)
	}
	if n := count(t, db, "comments"); n != 0 {
		t.Errorf("comments = %d, want 0", n)
	}
	if err := categories.Delete(ctx, parent.ID); !errors.Is(err, ErrNotFound) {
		t.Errorf("second Delete err = %v, want ErrNotFound", err)
	}
}
