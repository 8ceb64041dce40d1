package service

import (
	"context"
	"errors"

	"github.com/inkwell/inkwell/internal/models"
	"github.com/inkwell/inkwell/internal/repository"
	"github.com/sirupsen/logrus"
)

// CommentInput carries the client-writable fields of a comment.
type CommentInput struct {
	Target   models.CommentTarget
	ObjectID uint
	Name     *string
	Rate     models.CommentRate
	Body     string
	ParentID *uint
}

// targetResolver reports whether a commentable object exists and is visible.
type targetResolver func(ctx context.Context, id uint) (bool, error)

type CommentService struct {
	comments *repository.CommentRepository
	targets  map[models.CommentTarget]targetResolver
	logger   *logrus.Logger
}

func NewCommentService(
	comments *repository.CommentRepository,
	blogs *repository.BlogRepository,
	categories *repository.CategoryRepository,
	logger *logrus.Logger,
) *CommentService {
	return &CommentService{
		comments: comments,
		targets: map[models.CommentTarget]targetResolver{
			models.CommentTargetBlog:     blogs.IsPublished,
			models.CommentTargetCategory: categories.Exists,
		},
		logger: logger,
	}
}

func (s *CommentService) resolve(ctx context.Context, kind models.CommentTarget, id uint) (bool, error) {
	resolver, ok := s.targets[kind]
	if !ok {
		return false, nil
	}
	return resolver(ctx, id)
}

// List returns the comments of a visible object; unknown objects are ErrNotFound.
func (s *CommentService) List(ctx context.Context, kind models.CommentTarget, objectID uint) ([]models.Comment, error) {
	ok, err := s.resolve(ctx, kind, objectID)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, ErrNotFound
	}
	return s.comments.ListForTarget(ctx, kind, objectID)
}

func (s *CommentService) Create(ctx context.Context, user *models.User, in CommentInput) (*models.Comment, error) {
	if err := s.validate(ctx, in, 0); err != nil {
		return nil, err
	}

	comment := &models.Comment{UserID: user.ID}
	applyCommentInput(comment, in)
	if err := s.comments.Create(ctx, comment); err != nil {
		return nil, err
	}
	comment.User = *user

	s.logger.WithFields(logrus.Fields{
		"comment_id": comment.ID,
		"user_id":    user.ID,
		"target":     comment.TargetKind,
	}).Info("Comment created")
	return comment, nil
}

// Update edits one of user's own comments; others' comments are ErrNotFound.
func (s *CommentService) Update(ctx context.Context, user *models.User, id uint, in CommentInput) (*models.Comment, error) {
	comment, err := s.comments.GetOwned(ctx, id, user.ID)
	if err != nil {
		return nil, err
	}
	if err := s.validate(ctx, in, comment.ID); err != nil {
		return nil, err
	}

	applyCommentInput(comment, in)
	if err := s.comments.Update(ctx, comment); err != nil {
		return nil, err
	}
	return comment, nil
}

func (s *CommentService) Delete(ctx context.Context, user *models.User, id uint) error {
	if _, err := s.comments.GetOwned(ctx, id, user.ID); err != nil {
		return err
	}
	return s.comments.Delete(ctx, id)
}

func (s *CommentService) validate(ctx context.Context, in CommentInput, selfID uint) error {
	ok, err := s.resolve(ctx, in.Target, in.ObjectID)
	if err != nil {
		return err
	}
	if !ok {
		return ErrInvalidTarget
	}

	if in.ParentID == nil {
		return nil
	}
	if *in.ParentID == selfID {
		return ErrInvalidParent
	}
	parent, err := s.comments.GetByID(ctx, *in.ParentID)
	if errors.Is(err, ErrNotFound) {
		return ErrInvalidParent
	}
	if err != nil {
		return err
	}
	if parent.TargetKind != in.Target || parent.ObjectID != in.ObjectID {
		return ErrInvalidParent
	}
	if selfID != 0 {
		return s.checkAncestors(ctx, parent, selfID)
	}
	return nil
}

// checkAncestors rejects a parent whose chain of ancestors reaches selfID.
func (s *CommentService) checkAncestors(ctx context.Context, parent *models.Comment, selfID uint) error {
	seen := map[uint]struct{}{parent.ID: {}}
	for parent.ParentID != nil {
		id := *parent.ParentID
		if id == selfID {
			return ErrInvalidParent
		}
		if _, ok := seen[id]; ok {
			return nil
		}
		seen[id] = struct{}{}

		next, err := s.comments.GetByID(ctx, id)
		if errors.Is(err, ErrNotFound) {
			return nil
		}
		if err != nil {
			return err
		}
		parent = next
	}
	return nil
}

func applyCommentInput(comment *models.Comment, in CommentInput) {
	comment.TargetKind = in.Target
	comment.ObjectID = in.ObjectID
	comment.Name = in.Name
	comment.Rate = in.Rate
	comment.Body = in.Body
	comment.ParentID = in.ParentID
}
