package service

import (
	"context"
	"time"

	"github.com/inkwell/inkwell/internal/models"
	"github.com/inkwell/inkwell/internal/repository"
	"github.com/sirupsen/logrus"
)

// BlogInput carries the client-writable fields of a post. A nil CategoryIDs
// leaves the categories of an existing post untouched.
type BlogInput struct {
	Title       string
	Body        string
	Image       string
	Summary     string
	CategoryIDs []uint
	Publish     *time.Time
	Special     bool
	Status      models.BlogStatus
}

// BlogDetail is a post with its reaction counts.
type BlogDetail struct {
	Blog     *models.Blog
	Likes    int64
	Dislikes int64
}

type BlogService struct {
	blogs  *repository.BlogRepository
	logger *logrus.Logger
}

func NewBlogService(blogs *repository.BlogRepository, logger *logrus.Logger) *BlogService {
	return &BlogService{
		blogs:  blogs,
		logger: logger,
	}
}

func (s *BlogService) List(ctx context.Context, f repository.BlogFilter) ([]models.Blog, int64, error) {
	return s.blogs.ListPublished(ctx, f)
}

func (s *BlogService) GetPublished(ctx context.Context, slug string) (*BlogDetail, error) {
	blog, err := s.blogs.GetPublishedBySlug(ctx, slug)
	if err != nil {
		return nil, err
	}
	return s.detail(ctx, blog)
}

func (s *BlogService) Create(ctx context.Context, user *models.User, in BlogInput) (*BlogDetail, error) {
	if !user.CanPublish() {
		return nil, ErrForbidden
	}

	blog := &models.Blog{AuthorID: user.ID}
	applyBlogInput(blog, in)
	if blog.Publish.IsZero() {
		blog.Publish = time.Now()
	}

	if err := s.blogs.Create(ctx, blog, in.CategoryIDs); err != nil {
		return nil, err
	}
	blog.Author = *user

	s.logger.WithFields(logrus.Fields{
		"blog_id": blog.ID,
		"user_id": user.ID,
	}).Info("Blog created")
	return &BlogDetail{Blog: blog}, nil
}

// Update rewrites the post's fields. The slug assigned at creation is kept.
func (s *BlogService) Update(ctx context.Context, user *models.User, id uint, in BlogInput) (*BlogDetail, error) {
	blog, err := s.owned(ctx, user, id)
	if err != nil {
		return nil, err
	}

	applyBlogInput(blog, in)
	if err := s.blogs.Update(ctx, blog, in.CategoryIDs); err != nil {
		return nil, err
	}
	return s.detail(ctx, blog)
}

func (s *BlogService) Delete(ctx context.Context, user *models.User, id uint) error {
	if _, err := s.owned(ctx, user, id); err != nil {
		return err
	}
	return s.blogs.Delete(ctx, id)
}

// React toggles user's like or dislike on a published post.
func (s *BlogService) React(ctx context.Context, user *models.User, id uint, reaction repository.Reaction) (bool, *BlogDetail, error) {
	blog, err := s.blogs.GetByID(ctx, id)
	if err != nil {
		return false, nil, err
	}
	if !blog.IsPublished() {
		return false, nil, ErrNotFound
	}

	active, err := s.blogs.ToggleReaction(ctx, blog.ID, user.ID, reaction)
	if err != nil {
		return false, nil, err
	}
	detail, err := s.detail(ctx, blog)
	if err != nil {
		return false, nil, err
	}
	return active, detail, nil
}

func (s *BlogService) owned(ctx context.Context, user *models.User, id uint) (*models.Blog, error) {
	blog, err := s.blogs.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if blog.AuthorID != user.ID && !user.IsSuperuser {
		return nil, ErrForbidden
	}
	return blog, nil
}

func (s *BlogService) detail(ctx context.Context, blog *models.Blog) (*BlogDetail, error) {
	likes, dislikes, err := s.blogs.ReactionCounts(ctx, blog.ID)
	if err != nil {
		return nil, err
	}
	return &BlogDetail{Blog: blog, Likes: likes, Dislikes: dislikes}, nil
}

func applyBlogInput(blog *models.Blog, in BlogInput) {
	blog.Title = in.Title
	blog.Body = in.Body
	blog.Image = in.Image
	blog.Summary = in.Summary
	blog.Special = in.Special
	if in.Publish != nil {
		blog.Publish = *in.Publish
	}
	if in.Status != "" {
		blog.Status = in.Status
	} else if blog.Status == "" {
		blog.Status = models.BlogStatusDraft
	}
}
