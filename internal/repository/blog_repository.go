package repository

import (
	"context"
	"errors"
	"fmt"
	"strconv"

	"github.com/inkwell/inkwell/internal/models"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

var ErrUnknownCategory = errors.New("unknown category")

// Reaction selects which join table a like/dislike toggle works on.
type Reaction string

const (
	ReactionLike    Reaction = "like"
	ReactionDislike Reaction = "dislike"
)

func (r Reaction) tables() (own, opposite string) {
	if r == ReactionDislike {
		return "blog_dislikes", "blog_likes"
	}
	return "blog_likes", "blog_dislikes"
}

type BlogRepository struct {
	db     *gorm.DB
	logger *logrus.Logger
}

func NewBlogRepository(db *gorm.DB, logger *logrus.Logger) *BlogRepository {
	return &BlogRepository{
		db:     db,
		logger: logger,
	}
}

type BlogFilter struct {
	Search       string
	CategorySlug string
	AuthorID     *uint
	Special      *bool
	Ordering     string
	Page         Page
}

var blogOrdering = map[string]string{
	"id":      "id",
	"title":   "title",
	"publish": "publish",
	"visits":  "visits",
	"create":  "created_at",
	"updated": "updated",
}

// ListPublished returns one page of published posts and the total match count.
func (r *BlogRepository) ListPublished(ctx context.Context, f BlogFilter) ([]models.Blog, int64, error) {
	q := r.db.WithContext(ctx).Model(&models.Blog{}).Where("status = ?", models.BlogStatusPublished)
	if f.Search != "" {
		p := likePattern(f.Search)
		q = q.Where(
			"LOWER(title) LIKE ? ESCAPE '\\' OR LOWER(summary) LIKE ? ESCAPE '\\' OR LOWER(body) LIKE ? ESCAPE '\\'",
			p, p, p,
		)
	}
	if f.CategorySlug != "" {
		sub := r.db.Table("blog_categories").
			Select("blog_categories.blog_id").
			Joins("JOIN categories ON categories.id = blog_categories.category_id").
			Where("categories.slug = ?", f.CategorySlug)
		q = q.Where("id IN (?)", sub)
	}
	if f.AuthorID != nil {
		q = q.Where("author_id = ?", *f.AuthorID)
	}
	if f.Special != nil {
		q = q.Where("special = ?", *f.Special)
	}
	q = q.Session(&gorm.Session{})

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to count blogs: %w", err)
	}

	page := f.Page.normalize(defaultPageSize)
	q = applyOrdering(q, f.Ordering, blogOrdering, orderBy("publish", true), orderBy("id", true))

	var blogs []models.Blog
	err := q.Preload("Author").Preload("Categories").
		Offset(page.offset()).Limit(page.Size).
		Find(&blogs).Error
	if err != nil {
		r.logger.WithError(err).Error("Failed to list blogs")
		return nil, 0, fmt.Errorf("failed to list blogs: %w", err)
	}
	return blogs, total, nil
}

func (r *BlogRepository) GetPublishedBySlug(ctx context.Context, slug string) (*models.Blog, error) {
	var blog models.Blog
	err := r.db.WithContext(ctx).Preload("Author").Preload("Categories").
		Where("slug = ? AND status = ?", slug, models.BlogStatusPublished).
		First(&blog).Error
	if err != nil {
		return nil, notFound(err)
	}
	return &blog, nil
}

func (r *BlogRepository) GetByID(ctx context.Context, id uint) (*models.Blog, error) {
	var blog models.Blog
	if err := r.db.WithContext(ctx).Preload("Author").Preload("Categories").First(&blog, id).Error; err != nil {
		return nil, notFound(err)
	}
	return &blog, nil
}

func (r *BlogRepository) IsPublished(ctx context.Context, id uint) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.Blog{}).
		Where("id = ? AND status = ?", id, models.BlogStatusPublished).
		Count(&count).Error
	if err != nil {
		return false, fmt.Errorf("failed to check blog: %w", err)
	}
	return count > 0, nil
}

// Create inserts blog linked to categoryIDs and assigns it a unique slug
// derived from its title.
func (r *BlogRepository) Create(ctx context.Context, blog *models.Blog, categoryIDs []uint) error {
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		categories, err := loadCategories(tx, categoryIDs)
		if err != nil {
			return err
		}
		slug, err := uniqueSlug(tx, models.Slugify(blog.Title))
		if err != nil {
			return err
		}
		blog.Slug = slug
		blog.Categories = categories
		return tx.Omit("Author", "Likes", "Dislikes").Create(blog).Error
	})
	if err != nil {
		if errors.Is(err, ErrUnknownCategory) {
			return err
		}
		r.logger.WithError(err).Error("Failed to create blog")
		return fmt.Errorf("failed to create blog: %w", err)
	}
	return nil
}

// Update saves blog's own columns; categoryIDs replaces the category set when non-nil.
func (r *BlogRepository) Update(ctx context.Context, blog *models.Blog, categoryIDs []uint) error {
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Omit(clause.Associations).Save(blog).Error; err != nil {
			return err
		}
		if categoryIDs == nil {
			return nil
		}
		categories, err := loadCategories(tx, categoryIDs)
		if err != nil {
			return err
		}
		if err := tx.Model(blog).Association("Categories").Replace(categories); err != nil {
			return err
		}
		blog.Categories = categories
		return nil
	})
	if err != nil {
		if errors.Is(err, ErrUnknownCategory) {
			return err
		}
		r.logger.WithError(err).Error("Failed to update blog")
		return fmt.Errorf("failed to update blog: %w", err)
	}
	return nil
}

func (r *BlogRepository) Delete(ctx context.Context, id uint) error {
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var count int64
		if err := tx.Model(&models.Blog{}).Where("id = ?", id).Count(&count).Error; err != nil {
			return err
		}
		if count == 0 {
			return ErrNotFound
		}
		return deleteBlogs(tx, []uint{id})
	})
	if err != nil && !errors.Is(err, ErrNotFound) {
		r.logger.WithError(err).Error("Failed to delete blog")
		return fmt.Errorf("failed to delete blog: %w", err)
	}
	return err
}

// ToggleReaction flips userID's reaction on blogID and reports whether it is
// now set. Setting one reaction clears the opposite one.
func (r *BlogRepository) ToggleReaction(ctx context.Context, blogID, userID uint, reaction Reaction) (bool, error) {
	own, opposite := reaction.tables()
	active := false

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var count int64
		if err := tx.Table(own).Where("blog_id = ? AND user_id = ?", blogID, userID).Count(&count).Error; err != nil {
			return err
		}
		if count > 0 {
			return tx.Exec("DELETE FROM "+own+" WHERE blog_id = ? AND user_id = ?", blogID, userID).Error
		}
		if err := tx.Exec("INSERT INTO "+own+" (blog_id, user_id) VALUES (?, ?)", blogID, userID).Error; err != nil {
			return err
		}
		active = true
		return tx.Exec("DELETE FROM "+opposite+" WHERE blog_id = ? AND user_id = ?", blogID, userID).Error
	})
	if err != nil {
		r.logger.WithError(err).WithField("reaction", reaction).Error("Failed to toggle reaction")
		return false, fmt.Errorf("failed to toggle %s: %w", reaction, err)
	}
	return active, nil
}

func (r *BlogRepository) ReactionCounts(ctx context.Context, blogID uint) (likes, dislikes int64, err error) {
	db := r.db.WithContext(ctx)
	if err = db.Table("blog_likes").Where("blog_id = ?", blogID).Count(&likes).Error; err != nil {
		return 0, 0, fmt.Errorf("failed to count likes: %w", err)
	}
	if err = db.Table("blog_dislikes").Where("blog_id = ?", blogID).Count(&dislikes).Error; err != nil {
		return 0, 0, fmt.Errorf("failed to count dislikes: %w", err)
	}
	return likes, dislikes, nil
}

func loadCategories(tx *gorm.DB, ids []uint) ([]models.Category, error) {
	unique := make(map[uint]struct{}, len(ids))
	for _, id := range ids {
		unique[id] = struct{}{}
	}
	if len(unique) == 0 {
		return []models.Category{}, nil
	}

	var categories []models.Category
	if err := tx.Where("id IN ?", ids).Find(&categories).Error; err != nil {
		return nil, err
	}
	if len(categories) != len(unique) {
		return nil, ErrUnknownCategory
	}
	return categories, nil
}

func uniqueSlug(tx *gorm.DB, base string) (string, error) {
	if base == "" {
		base = "post"
	}
	slug := base
	for i := 2; ; i++ {
		var count int64
		if err := tx.Model(&models.Blog{}).Where("slug = ?", slug).Count(&count).Error; err != nil {
			return "", err
		}
		if count == 0 {
			return slug, nil
		}
		slug = base + "-" + strconv.Itoa(i)
	}
}

// deleteBlogs removes the posts in ids with their join rows and comments.
func deleteBlogs(tx *gorm.DB, ids []uint) error {
	if len(ids) == 0 {
		return nil
	}
	for _, table := range []string{"blog_categories", "blog_likes", "blog_dislikes"} {
		if err := tx.Exec("DELETE FROM "+table+" WHERE blog_id IN ?", ids).Error; err != nil {
			return err
		}
	}
	err := tx.Where("content_type = ? AND object_id IN ?", models.CommentTargetBlog, ids).
		Delete(&models.Comment{}).Error
	if err != nil {
		return err
	}
	return tx.Where("id IN ?", ids).Delete(&models.Blog{}).Error
}
