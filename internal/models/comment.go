package models

import "time"

// CommentTarget names the kind of entity a comment is attached to.
type CommentTarget string

const (
	CommentTargetBlog     CommentTarget = "blog"
	CommentTargetCategory CommentTarget = "category"
)

var commentTargets = map[CommentTarget]struct{}{
	CommentTargetBlog:     {},
	CommentTargetCategory: {},
}

// ParseCommentTarget maps a wire value to a known target; empty means blog.
func ParseCommentTarget(s string) (CommentTarget, bool) {
	if s == "" {
		return CommentTargetBlog, true
	}
	t := CommentTarget(s)
	_, ok := commentTargets[t]
	return t, ok
}

type CommentRate string

const (
	RateExcellent CommentRate = "5"
	RateVeryGood  CommentRate = "4"
	RateGood      CommentRate = "3"
	RateBad       CommentRate = "2"
	RateVeryBad   CommentRate = "1"
)

type Comment struct {
	ID         uint          `gorm:"primaryKey"`
	UserID     uint          `gorm:"column:user_id;index;not null"`
	User       User          `gorm:"foreignKey:UserID"`
	Name       *string       `gorm:"column:name;size:20"`
	Rate       CommentRate   `gorm:"column:rate;size:1"`
	TargetKind CommentTarget `gorm:"column:content_type;size:32;not null;index:idx_comment_target"`
	ObjectID   uint          `gorm:"column:object_id;not null;index:idx_comment_target"`
	Body       string        `gorm:"column:body;type:text;not null"`
	ParentID   *uint         `gorm:"column:parent_id;index"`
	CreatedAt  time.Time     `gorm:"column:created_at;autoCreateTime"`
}

func (Comment) TableName() string {
	return "comments"
}
