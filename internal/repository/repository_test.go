package repository

import (
	"context"
	"io"
	"testing"
	"time"

	"github.com/glebarez/sqlite"
	"github.com/inkwell/inkwell/internal/models"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

func quietLogger() *logrus.Logger {
	logger := logrus.New()
	logger.SetOutput(io.Discard)
	return logger
}

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	sqlDB, err := db.DB()
	if err != nil {
		t.Fatalf("sql db: %v", err)
	}
	// Every new connection would get its own empty in-memory database.
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { sqlDB.Close() })

	if err := Migrate(db); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	return db
}

func mustUser(t *testing.T, db *gorm.DB, phone string, mutate ...func(*models.User)) *models.User {
	t.Helper()
	u, err := models.NewUser(phone)
	if err != nil {
		t.Fatalf("NewUser: %v", err)
	}
	for _, m := range mutate {
		m(u)
	}
	if err := db.Create(u).Error; err != nil {
		t.Fatalf("create user: %v", err)
	}
	return u
}

func mustCategory(t *testing.T, db *gorm.DB, title string, status bool, position int) *models.Category {
	t.Helper()
	c := &models.Category{Title: title, Slug: models.Slugify(title), Status: status, Position: position}
	if err := db.Create(c).Error; err != nil {
		t.Fatalf("create category: %v", err)
	}
	return c
}

func mustBlog(t *testing.T, repo *BlogRepository, author *models.User, title string, status models.BlogStatus, categoryIDs ...uint) *models.Blog {
	t.Helper()
	b := &models.Blog{
		AuthorID: author.ID,
		Title:    title,
		Body:     "body of " + title,
		Summary:  "summary of " + title,
		Status:   status,
		Publish:  time.Now(),
	}
	if categoryIDs == nil {
		categoryIDs = []uint{}
	}
	if err := repo.Create(context.Background(), b, categoryIDs); err != nil {
		t.Fatalf("create blog: %v", err)
	}
	return b
}

func mustComment(t *testing.T, db *gorm.DB, user *models.User, kind models.CommentTarget, objectID uint, parent *uint) *models.Comment {
	t.Helper()
	c := &models.Comment{
		UserID:     user.ID,
		TargetKind: kind,
		ObjectID:   objectID,
		Body:       "comment",
		ParentID:   parent,
	}
	if err := db.Omit("User").Create(c).Error; err != nil {
		t.Fatalf("create comment: %v", err)
	}
	return c
}

func count(t *testing.T, db *gorm.DB, table string) int64 {
	t.Helper()
	var n int64
	if err := db.Table(table).Count(&n).Error; err != nil {
		t.Fatalf("count %s: %v", table, err)
	}
	return n
}
