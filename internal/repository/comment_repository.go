package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/inkwell/inkwell/internal/models"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

type CommentRepository struct {
	db     *gorm.DB
	logger *logrus.Logger
}

func NewCommentRepository(db *gorm.DB, logger *logrus.Logger) *CommentRepository {
	return &CommentRepository{
		db:     db,
		logger: logger,
	}
}

// ListForTarget returns all comments attached to one object, newest first.
func (r *CommentRepository) ListForTarget(ctx context.Context, kind models.CommentTarget, objectID uint) ([]models.Comment, error) {
	var comments []models.Comment
	err := r.db.WithContext(ctx).Preload("User").
		Where("content_type = ? AND object_id = ?", kind, objectID).
		Order(orderBy("created_at", true)).Order(orderBy("id", true)).
		Find(&comments).Error
	if err != nil {
		r.logger.WithError(err).Error("Failed to list comments")
		return nil, fmt.Errorf("failed to list comments: %w", err)
	}
	return comments, nil
}

func (r *CommentRepository) GetByID(ctx context.Context, id uint) (*models.Comment, error) {
	var comment models.Comment
	if err := r.db.WithContext(ctx).Preload("User").First(&comment, id).Error; err != nil {
		return nil, notFound(err)
	}
	return &comment, nil
}

// GetOwned looks the comment up within userID's own comments only.
func (r *CommentRepository) GetOwned(ctx context.Context, id, userID uint) (*models.Comment, error) {
	var comment models.Comment
	err := r.db.WithContext(ctx).Preload("User").
		Where("id = ? AND user_id = ?", id, userID).
		First(&comment).Error
	if err != nil {
		return nil, notFound(err)
	}
	return &comment, nil
}

func (r *CommentRepository) Create(ctx context.Context, comment *models.Comment) error {
	if err := r.db.WithContext(ctx).Omit("User").Create(comment).Error; err != nil {
		r.logger.WithError(err).Error("Failed to create comment")
		return fmt.Errorf("failed to create comment: %w", err)
	}
	return nil
}

func (r *CommentRepository) Update(ctx context.Context, comment *models.Comment) error {
	if err := r.db.WithContext(ctx).Omit("User").Save(comment).Error; err != nil {
		r.logger.WithError(err).Error("Failed to update comment")
		return fmt.Errorf("failed to update comment: %w", err)
	}
	return nil
}

// Delete removes the comment and every reply below it.
func (r *CommentRepository) Delete(ctx context.Context, id uint) error {
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var count int64
		if err := tx.Model(&models.Comment{}).Where("id = ?", id).Count(&count).Error; err != nil {
			return err
		}
		if count == 0 {
			return ErrNotFound
		}
		return deleteCommentTrees(tx, []uint{id})
	})
	if err != nil && !errors.Is(err, ErrNotFound) {
		r.logger.WithError(err).Error("Failed to delete comment")
		return fmt.Errorf("failed to delete comment: %w", err)
	}
	return err
}

func deleteCommentTrees(tx *gorm.DB, roots []uint) error {
	seen := make(map[uint]struct{}, len(roots))
	var all, level []uint
	for _, id := range roots {
		if _, ok := seen[id]; !ok {
			seen[id] = struct{}{}
			all = append(all, id)
			level = append(level, id)
		}
	}
	for len(level) > 0 {
		var children []uint
		if err := tx.Model(&models.Comment{}).Where("parent_id IN ?", level).Pluck("id", &children).Error; err != nil {
			return err
		}
		level = level[:0]
		for _, id := range children {
			if _, ok := seen[id]; !ok {
				seen[id] = struct{}{}
				all = append(all, id)
				level = append(level, id)
			}
		}
	}
	if len(all) == 0 {
		return nil
	}
	return tx.Where("id IN ?", all).Delete(&models.Comment{}).Error
}
