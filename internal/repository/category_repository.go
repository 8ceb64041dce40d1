package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/inkwell/inkwell/internal/models"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

var ErrSlugTaken = errors.New("slug already in use")

type CategoryRepository struct {
	db     *gorm.DB
	logger *logrus.Logger
}

func NewCategoryRepository(db *gorm.DB, logger *logrus.Logger) *CategoryRepository {
	return &CategoryRepository{
		db:     db,
		logger: logger,
	}
}

// ListActive returns the publicly visible categories ordered by position.
func (r *CategoryRepository) ListActive(ctx context.Context) ([]models.Category, error) {
	var categories []models.Category
	err := r.db.WithContext(ctx).
		Where("status = ?", true).
		Order("position").Order("id").
		Find(&categories).Error
	if err != nil {
		r.logger.WithError(err).Error("Failed to list categories")
		return nil, fmt.Errorf("failed to list categories: %w", err)
	}
	return categories, nil
}

func (r *CategoryRepository) GetByID(ctx context.Context, id uint) (*models.Category, error) {
	var category models.Category
	if err := r.db.WithContext(ctx).First(&category, id).Error; err != nil {
		return nil, notFound(err)
	}
	return &category, nil
}

func (r *CategoryRepository) Exists(ctx context.Context, id uint) (bool, error) {
	var count int64
	if err := r.db.WithContext(ctx).Model(&models.Category{}).Where("id = ?", id).Count(&count).Error; err != nil {
		return false, fmt.Errorf("failed to check category: %w", err)
	}
	return count > 0, nil
}

func (r *CategoryRepository) Create(ctx context.Context, category *models.Category) error {
	if err := r.checkSlug(ctx, category.Slug, 0); err != nil {
		return err
	}
	if err := r.checkParent(ctx, category.ParentID, 0); err != nil {
		return err
	}
	if err := r.db.WithContext(ctx).Create(category).Error; err != nil {
		r.logger.WithError(err).Error("Failed to create category")
		return fmt.Errorf("failed to create category: %w", err)
	}
	return nil
}

func (r *CategoryRepository) Update(ctx context.Context, category *models.Category) error {
	if err := r.checkSlug(ctx, category.Slug, category.ID); err != nil {
		return err
	}
	if err := r.checkParent(ctx, category.ParentID, category.ID); err != nil {
		return err
	}
	if err := r.db.WithContext(ctx).Save(category).Error; err != nil {
		r.logger.WithError(err).Error("Failed to update category")
		return fmt.Errorf("failed to update category: %w", err)
	}
	return nil
}

// Delete removes the category, detaches it from posts and promotes its
// children to top level.
func (r *CategoryRepository) Delete(ctx context.Context, id uint) error {
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Exec("DELETE FROM blog_categories WHERE category_id = ?", id).Error; err != nil {
			return err
		}
		if err := tx.Model(&models.Category{}).Where("parent_id = ?", id).Update("parent_id", nil).Error; err != nil {
			return err
		}
		var commentIDs []uint
		err := tx.Model(&models.Comment{}).
			Where("content_type = ? AND object_id = ?", models.CommentTargetCategory, id).
			Pluck("id", &commentIDs).Error
		if err != nil {
			return err
		}
		if err := deleteCommentTrees(tx, commentIDs); err != nil {
			return err
		}
		res := tx.Delete(&models.Category{}, id)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return ErrNotFound
		}
		return nil
	})
	if err != nil && !errors.Is(err, ErrNotFound) {
		r.logger.WithError(err).Error("Failed to delete category")
		return fmt.Errorf("failed to delete category: %w", err)
	}
	return err
}

func (r *CategoryRepository) checkSlug(ctx context.Context, slug string, selfID uint) error {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.Category{}).
		Where("slug = ? AND id <> ?", slug, selfID).
		Count(&count).Error
	if err != nil {
		return fmt.Errorf("failed to check slug: %w", err)
	}
	if count > 0 {
		return ErrSlugTaken
	}
	return nil
}

func (r *CategoryRepository) checkParent(ctx context.Context, parentID *uint, selfID uint) error {
	if parentID == nil {
		return nil
	}
	if *parentID == selfID {
		return ErrUnknownCategory
	}
	ok, err := r.Exists(ctx, *parentID)
	if err != nil {
		return err
	}
	if !ok {
		return ErrUnknownCategory
	}
	if selfID == 0 {
		return nil
	}

	// Walk up from the new parent; meeting selfID would close a cycle.
	seen := map[uint]struct{}{*parentID: {}}
	next := *parentID
	for {
		var current models.Category
		err := r.db.WithContext(ctx).Select("id", "parent_id").First(&current, next).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil
		}
		if err != nil {
			return fmt.Errorf("failed to check parent: %w", err)
		}
		ancestor := current.ParentID
		if ancestor == nil {
			return nil
		}
		if *ancestor == selfID {
			return ErrUnknownCategory
		}
		if _, ok := seen[*ancestor]; ok {
			return nil
		}
		seen[*ancestor] = struct{}{}
		next = *ancestor
	}
}
