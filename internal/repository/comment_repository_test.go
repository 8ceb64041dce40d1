package repository

import (
	"context"
	"errors"
	"testing"

	"github.com/inkwell/inkwell/internal/models"
)

func TestCommentRepository_ListForTarget(t *testing.T) {
	db := newTestDB(t)
	comments := NewCommentRepository(db, quietLogger())
	blogs := NewBlogRepository(db, quietLogger())
	user := mustUser(t, db, "98912888888")
	blog := mustBlog(t, blogs, user, "Post", models.BlogStatusPublished)

	first := mustComment(t, db, user, models.CommentTargetBlog, blog.ID, nil)
	second := mustComment(t, db, user, models.CommentTargetBlog, blog.ID, &first.ID)
	// same object id, different kind
	mustComment(t, db, user, models.CommentTargetCategory, blog.ID, nil)

	list, err := comments.ListForTarget(context.Background(), models.CommentTargetBlog, blog.ID)
	if err != nil {
		t.Fatalf("ListForTarget: %v", err)
	}
	if len(list) != 2 || list[0].ID != second.ID || list[1].ID != first.ID {
		t.Fatalf("list = %+v, want newest first", list)
	}
	if list[0].User.Phone != "98912888888" {
		t.Errorf("user not preloaded: %+v", list[0].User)
	}
}

func TestCommentRepository_GetOwned(t *testing.T) {
	db := newTestDB(t)
	repo := NewCommentRepository(db, quietLogger())
	owner := mustUser(t, db, "111")
	other := mustUser(t, db, "222")
	c := mustComment(t, db, owner, models.CommentTargetBlog, 1, nil)

	if _, err := repo.GetOwned(context.Background(), c.ID, owner.ID); err != nil {
		t.Errorf("owner GetOwned: %v", err)
	}
	if _, err := repo.GetOwned(context.Background(), c.ID, other.ID); !errors.Is(err, ErrNotFound) {
		t.Errorf("other GetOwned err = %v, want ErrNotFound", err)
	}
}

func TestCommentRepository_DeleteRemovesReplies(t *testing.T) {
	db := newTestDB(t)
	repo := NewCommentRepository(db, quietLogger())
	user := mustUser(t, db, "111")

	root := mustComment(t, db, user, models.CommentTargetBlog, 1, nil)
	reply := mustComment(t, db, user, models.CommentTargetBlog, 1, &root.ID)
	mustComment(t, db, user, models.CommentTargetBlog, 1, &reply.ID)
	keep := mustComment(t, db, user, models.CommentTargetBlog, 1, nil)

	if err := repo.Delete(context.Background(), root.ID); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if n := count(t, db, "comments"); n != 1 {
		t.Fatalf("comments = %d, want 1", n)
	}
	if _, err := repo.GetByID(context.Background(), keep.ID); err != nil {
		t.Errorf("unrelated comment removed: %v", err)
	}
	if err := repo.Delete(context.Background(), root.ID); !errors.Is(err, ErrNotFound) {
		t.Errorf("second Delete err = %v, want ErrNotFound", err)
	}
}

func TestCommentRepository_UpdateKeepsOwner(t *testing.T) {
	db := newTestDB(t)
	repo := NewCommentRepository(db, quietLogger())
	user := mustUser(t, db, "111")
	c := mustComment(t, db, user, models.CommentTargetBlog, 1, nil)

	stored, err := repo.GetOwned(context.Background(), c.ID, user.ID)
	if err != nil {
		t.Fatalf("GetOwned: %v", err)
	}
	stored.Body = "edited"
	stored.Rate = models.RateExcellent
	if err := repo.Update(context.Background(), stored); err != nil {
		t.Fatalf("Update: %v", err)
	}

	again, _ := repo.GetByID(context.Background(), c.ID)
	if again.Body != "edited" || again.Rate != models.RateExcellent || again.UserID != user.ID {
		t.Errorf("stored = %+v", again)
	}
}
