package handlers

import (
	"time"

	"github.com/inkwell/inkwell/internal/models"
	"github.com/inkwell/inkwell/internal/service"
)

type UserListItem struct {
	ID            uint   `json:"id"`
	Phone         string `json:"phone"`
	FirstName     string `json:"first_name"`
	LastName      string `json:"last_name"`
	Author        bool   `json:"author"`
	IsStaff       bool   `json:"is_staff"`
	IsSpecialUser bool   `json:"is_special_user"`
}

func newUserListItem(u *models.User, now time.Time) UserListItem {
	return UserListItem{
		ID:            u.ID,
		Phone:         u.Phone,
		FirstName:     u.FirstName,
		LastName:      u.LastName,
		Author:        u.Author,
		IsStaff:       u.IsStaff,
		IsSpecialUser: u.IsSpecialUser(now),
	}
}

// AuthorSummary is how posts show their author; username is the phone.
type AuthorSummary struct {
	Username  string `json:"username"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
}

func newAuthorSummary(u *models.User) AuthorSummary {
	return AuthorSummary{
		Username:  u.Phone,
		FirstName: u.FirstName,
		LastName:  u.LastName,
	}
}

// BlogListItem leaves out the id, body, reactions, status and timestamps.
type BlogListItem struct {
	Author   AuthorSummary `json:"author"`
	Category []string      `json:"category"`
	Title    string        `json:"title"`
	Slug     string        `json:"slug"`
	Image    string        `json:"image"`
	Summary  string        `json:"summary"`
	Publish  time.Time     `json:"publish"`
	Special  bool          `json:"special"`
	Visits   int           `json:"visits"`
}

func newBlogListItem(b *models.Blog) BlogListItem {
	titles := make([]string, 0, len(b.Categories))
	for _, c := range b.Categories {
		titles = append(titles, c.Title)
	}
	return BlogListItem{
		Author:   newAuthorSummary(&b.Author),
		Category: titles,
		Title:    b.Title,
		Slug:     b.Slug,
		Image:    b.Image,
		Summary:  b.Summary,
		Publish:  b.Publish,
		Special:  b.Special,
		Visits:   b.Visits,
	}
}

type BlogDetailResponse struct {
	ID       uint              `json:"id"`
	Author   AuthorSummary     `json:"author"`
	Visits   int               `json:"visits"`
	Likes    int64             `json:"likes"`
	Dislikes int64             `json:"dislikes"`
	Title    string            `json:"title"`
	Slug     string            `json:"slug"`
	Body     string            `json:"body"`
	Image    string            `json:"image"`
	Category []uint            `json:"category"`
	Publish  time.Time         `json:"publish"`
	Special  bool              `json:"special"`
	Status   models.BlogStatus `json:"status"`
	Updated  time.Time         `json:"updated"`
}

func newBlogDetail(d *service.BlogDetail) BlogDetailResponse {
	b := d.Blog
	ids := make([]uint, 0, len(b.Categories))
	for _, c := range b.Categories {
		ids = append(ids, c.ID)
	}
	return BlogDetailResponse{
		ID:       b.ID,
		Author:   newAuthorSummary(&b.Author),
		Visits:   b.Visits,
		Likes:    d.Likes,
		Dislikes: d.Dislikes,
		Title:    b.Title,
		Slug:     b.Slug,
		Body:     b.Body,
		Image:    b.Image,
		Category: ids,
		Publish:  b.Publish,
		Special:  b.Special,
		Status:   b.Status,
		Updated:  b.UpdatedAt,
	}
}

type ReactionResponse struct {
	Active   bool  `json:"active"`
	Likes    int64 `json:"likes"`
	Dislikes int64 `json:"dislikes"`
}

type CommentResponse struct {
	ID          uint                 `json:"id"`
	User        string               `json:"user"`
	Name        *string              `json:"name"`
	Rate        models.CommentRate   `json:"rate,omitempty"`
	ContentType models.CommentTarget `json:"content_type"`
	ObjectID    uint                 `json:"object_id"`
	Body        string               `json:"body"`
	Parent      *uint                `json:"parent"`
	Create      time.Time            `json:"create"`
}

func newCommentResponse(c *models.Comment) CommentResponse {
	return CommentResponse{
		ID:          c.ID,
		User:        c.User.Phone,
		Name:        c.Name,
		Rate:        c.Rate,
		ContentType: c.TargetKind,
		ObjectID:    c.ObjectID,
		Body:        c.Body,
		Parent:      c.ParentID,
		Create:      c.CreatedAt,
	}
}
