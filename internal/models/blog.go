package models

import (
	"regexp"
	"strings"
	"time"
)

type BlogStatus string

const (
	BlogStatusDraft     BlogStatus = "d"
	BlogStatusPublished BlogStatus = "p"
)

type Category struct {
	ID       uint   `gorm:"primaryKey" json:"id"`
	ParentID *uint  `gorm:"column:parent_id;index" json:"parent"`
	Title    string `gorm:"column:title;size:200;not null" json:"title"`
	Slug     string `gorm:"column:slug;size:100;uniqueIndex;not null" json:"slug"`
	Status   bool   `gorm:"column:status;not null" json:"status"`
	Position int    `gorm:"column:position;not null;default:0" json:"position"`
}

func (Category) TableName() string {
	return "categories"
}

type Blog struct {
	ID         uint       `gorm:"primaryKey"`
	AuthorID   uint       `gorm:"column:author_id;index;not null"`
	Author     User       `gorm:"foreignKey:AuthorID"`
	Title      string     `gorm:"column:title;size:200;not null"`
	Slug       string     `gorm:"column:slug;size:200;uniqueIndex;not null"`
	Body       string     `gorm:"column:body;type:text"`
	Image      string     `gorm:"column:image;size:255"`
	Summary    string     `gorm:"column:summary;type:text"`
	Categories []Category `gorm:"many2many:blog_categories;"`
	Publish    time.Time  `gorm:"column:publish"`
	CreatedAt  time.Time  `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt  time.Time  `gorm:"column:updated;autoUpdateTime"`
	Special    bool       `gorm:"column:special;not null;default:false"`
	Status     BlogStatus `gorm:"column:status;size:1;not null;default:'d'"`
	Visits     int        `gorm:"column:visits;not null;default:0"`
	Likes      []User     `gorm:"many2many:blog_likes;"`
	Dislikes   []User     `gorm:"many2many:blog_dislikes;"`
}

func (Blog) TableName() string {
	return "blogs"
}

func (b *Blog) IsPublished() bool {
	return b.Status == BlogStatusPublished
}

var nonSlugChars = regexp.MustCompile(`[^\p{L}\p{N}]+`)

// Slugify lowercases s and joins its letter/digit runs with hyphens.
func Slugify(s string) string {
	s = strings.ToLower(strings.TrimSpace(s))
	s = nonSlugChars.ReplaceAllString(s, "-")
	return strings.Trim(s, "-")
}
