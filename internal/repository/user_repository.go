package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/inkwell/inkwell/internal/models"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

var ErrUserExists = errors.New("user already exists")

type UserRepository struct {
	db     *gorm.DB
	logger *logrus.Logger
}

func NewUserRepository(db *gorm.DB, logger *logrus.Logger) *UserRepository {
	return &UserRepository{
		db:     db,
		logger: logger,
	}
}

// UserFilter mirrors the admin listing: search over phone and names, an
// author flag filter and an ordering expression.
type UserFilter struct {
	Search   string
	Author   *bool
	Ordering string
	Page     Page
}

var userOrdering = map[string]string{
	"id":     "id",
	"author": "author",
	"phone":  "phone",
}

const adminUsersPerPage = 25

func (r *UserRepository) GetByID(ctx context.Context, id uint) (*models.User, error) {
	var user models.User
	if err := r.db.WithContext(ctx).First(&user, id).Error; err != nil {
		return nil, notFound(err)
	}
	return &user, nil
}

func (r *UserRepository) GetByPhoneNumber(ctx context.Context, phoneNumber string) (*models.User, error) {
	var user models.User
	err := r.db.WithContext(ctx).Where("phone = ?", phoneNumber).First(&user).Error
	if err != nil {
		return nil, notFound(err)
	}
	return &user, nil
}

func (r *UserRepository) ExistsByPhoneNumber(ctx context.Context, phoneNumber string) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.User{}).Where("phone = ?", phoneNumber).Count(&count).Error
	if err != nil {
		r.logger.WithError(err).Error("Failed to check user existence")
		return false, fmt.Errorf("failed to check user: %w", err)
	}
	return count > 0, nil
}

func (r *UserRepository) Create(ctx context.Context, user *models.User) error {
	exists, err := r.ExistsByPhoneNumber(ctx, user.Phone)
	if err != nil {
		return err
	}
	if exists {
		return ErrUserExists
	}

	if err := r.db.WithContext(ctx).Create(user).Error; err != nil {
		r.logger.WithError(err).Error("Failed to create user")
		return fmt.Errorf("failed to create user: %w", err)
	}
	return nil
}

// GetOrCreate returns the user owning phoneNumber, creating a passwordless
// one when none exists yet.
func (r *UserRepository) GetOrCreate(ctx context.Context, phoneNumber string) (*models.User, error) {
	user, err := r.GetByPhoneNumber(ctx, phoneNumber)
	if err == nil {
		return user, nil
	}
	if !errors.Is(err, ErrNotFound) {
		r.logger.WithError(err).Error("Failed to get user")
		return nil, fmt.Errorf("failed to get user: %w", err)
	}

	newUser, err := models.NewUser(phoneNumber)
	if err != nil {
		return nil, err
	}

	if err := r.Create(ctx, newUser); err != nil {
		// Lost a race with a concurrent verification for the same phone.
		if errors.Is(err, ErrUserExists) {
			return r.GetByPhoneNumber(ctx, phoneNumber)
		}
		return nil, err
	}

	r.logger.WithField("user_id", newUser.ID).Info("User created")
	return newUser, nil
}

func (r *UserRepository) CreateSuperuser(ctx context.Context, phoneNumber string) (*models.User, error) {
	user, err := models.NewSuperuser(phoneNumber)
	if err != nil {
		return nil, err
	}
	if err := r.Create(ctx, user); err != nil {
		return nil, err
	}
	return user, nil
}

func (r *UserRepository) Update(ctx context.Context, user *models.User) error {
	if err := r.db.WithContext(ctx).Save(user).Error; err != nil {
		r.logger.WithError(err).Error("Failed to update user")
		return fmt.Errorf("failed to update user: %w", err)
	}
	return nil
}

// Delete removes the user together with their posts, comments and reactions.
func (r *UserRepository) Delete(ctx context.Context, id uint) error {
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var blogIDs []uint
		if err := tx.Model(&models.Blog{}).Where("author_id = ?", id).Pluck("id", &blogIDs).Error; err != nil {
			return err
		}
		if err := deleteBlogs(tx, blogIDs); err != nil {
			return err
		}

		var commentIDs []uint
		if err := tx.Model(&models.Comment{}).Where("user_id = ?", id).Pluck("id", &commentIDs).Error; err != nil {
			return err
		}
		if err := deleteCommentTrees(tx, commentIDs); err != nil {
			return err
		}

		for _, table := range []string{"blog_likes", "blog_dislikes"} {
			if err := tx.Exec("DELETE FROM "+table+" WHERE user_id = ?", id).Error; err != nil {
				return err
			}
		}

		res := tx.Delete(&models.User{}, id)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return ErrNotFound
		}
		return nil
	})
	if err != nil && !errors.Is(err, ErrNotFound) {
		r.logger.WithError(err).Error("Failed to delete user")
		return fmt.Errorf("failed to delete user: %w", err)
	}
	return err
}

func (r *UserRepository) List(ctx context.Context, f UserFilter) ([]models.User, int64, error) {
	q := r.db.WithContext(ctx).Model(&models.User{})
	if f.Search != "" {
		p := likePattern(f.Search)
		q = q.Where(
			"LOWER(phone) LIKE ? ESCAPE '\\' OR LOWER(first_name) LIKE ? ESCAPE '\\' OR LOWER(last_name) LIKE ? ESCAPE '\\'",
			p, p, p,
		)
	}
	if f.Author != nil {
		q = q.Where("author = ?", *f.Author)
	}
	q = q.Session(&gorm.Session{})

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to count users: %w", err)
	}

	page := f.Page.normalize(adminUsersPerPage)
	q = applyOrdering(q, f.Ordering, userOrdering,
		orderBy("is_superuser", true),
		orderBy("is_staff", true),
		orderBy("id", true),
	)

	var users []models.User
	if err := q.Offset(page.offset()).Limit(page.Size).Find(&users).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to list users: %w", err)
	}
	return users, total, nil
}
