package handlers

import (
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gorilla/mux"
	"github.com/inkwell/inkwell/internal/middleware"
	"github.com/inkwell/inkwell/internal/models"
	"github.com/inkwell/inkwell/internal/repository"
	"github.com/inkwell/inkwell/internal/service"
	"github.com/sirupsen/logrus"
)

type BlogHandlers struct {
	blogService *service.BlogService
	validator   *Validator
	logger      *logrus.Logger
}

func NewBlogHandlers(blogService *service.BlogService, validator *Validator, logger *logrus.Logger) *BlogHandlers {
	return &BlogHandlers{
		blogService: blogService,
		validator:   validator,
		logger:      logger,
	}
}

type BlogRequest struct {
	Title    string     `json:"title" validate:"required,max=200"`
	Body     string     `json:"body" validate:"required"`
	Image    string     `json:"image" validate:"max=255"`
	Summary  string     `json:"summary"`
	Category []uint     `json:"category"`
	Publish  *time.Time `json:"publish"`
	Special  bool       `json:"special"`
	Status   string     `json:"status" validate:"omitempty,oneof=d p"`
}

func (b BlogRequest) input() service.BlogInput {
	return service.BlogInput{
		Title:       strings.TrimSpace(b.Title),
		Body:        b.Body,
		Image:       b.Image,
		Summary:     b.Summary,
		CategoryIDs: b.Category,
		Publish:     b.Publish,
		Special:     b.Special,
		Status:      models.BlogStatus(b.Status),
	}
}

// List serves published posts. Supported query parameters are search,
// category (slug), author (user id), special, ordering, page and page_size.
func (h *BlogHandlers) List(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	filter := repository.BlogFilter{
		Search:       q.Get("search"),
		CategorySlug: q.Get("category"),
		Special:      queryBool(r, "special"),
		Ordering:     q.Get("ordering"),
		Page:         queryPage(r),
	}
	if author, err := strconv.ParseUint(q.Get("author"), 10, 64); err == nil {
		id := uint(author)
		filter.AuthorID = &id
	}

	blogs, total, err := h.blogService.List(r.Context(), filter)
	if err != nil {
		respondWithServiceError(w, h.logger, err, "list blogs")
		return
	}

	items := make([]BlogListItem, 0, len(blogs))
	for i := range blogs {
		items = append(items, newBlogListItem(&blogs[i]))
	}
	respondWithJSON(w, http.StatusOK, ListResponse[BlogListItem]{Count: total, Results: items})
}

func (h *BlogHandlers) Get(w http.ResponseWriter, r *http.Request) {
	detail, err := h.blogService.GetPublished(r.Context(), mux.Vars(r)["slug"])
	if err != nil {
		respondWithServiceError(w, h.logger, err, "get blog")
		return
	}
	respondWithJSON(w, http.StatusOK, newBlogDetail(detail))
}

func (h *BlogHandlers) Create(w http.ResponseWriter, r *http.Request) {
	user, _ := middleware.UserFromContext(r.Context())

	var req BlogRequest
	if !decodeAndValidate(w, r, h.validator, &req) {
		return
	}
	in := req.input()
	if in.CategoryIDs == nil {
		in.CategoryIDs = []uint{}
	}

	detail, err := h.blogService.Create(r.Context(), user, in)
	if err != nil {
		respondWithServiceError(w, h.logger, err, "create blog")
		return
	}
	respondWithJSON(w, http.StatusCreated, newBlogDetail(detail))
}

func (h *BlogHandlers) Update(w http.ResponseWriter, r *http.Request) {
	user, _ := middleware.UserFromContext(r.Context())
	id, ok := pathID(r, "id")
	if !ok {
		respondWithError(w, http.StatusNotFound, "NOT_FOUND", "Not found.")
		return
	}

	var req BlogRequest
	if !decodeAndValidate(w, r, h.validator, &req) {
		return
	}

	detail, err := h.blogService.Update(r.Context(), user, id, req.input())
	if err != nil {
		respondWithServiceError(w, h.logger, err, "update blog")
		return
	}
	respondWithJSON(w, http.StatusOK, newBlogDetail(detail))
}

func (h *BlogHandlers) Delete(w http.ResponseWriter, r *http.Request) {
	user, _ := middleware.UserFromContext(r.Context())
	id, ok := pathID(r, "id")
	if !ok {
		respondWithError(w, http.StatusNotFound, "NOT_FOUND", "Not found.")
		return
	}

	if err := h.blogService.Delete(r.Context(), user, id); err != nil {
		respondWithServiceError(w, h.logger, err, "delete blog")
		return
	}
	respondWithJSON(w, http.StatusNoContent, nil)
}

func (h *BlogHandlers) Like(w http.ResponseWriter, r *http.Request) {
	h.react(w, r, repository.ReactionLike)
}

func (h *BlogHandlers) Dislike(w http.ResponseWriter, r *http.Request) {
	h.react(w, r, repository.ReactionDislike)
}

func (h *BlogHandlers) react(w http.ResponseWriter, r *http.Request, reaction repository.Reaction) {
	user, _ := middleware.UserFromContext(r.Context())
	id, ok := pathID(r, "id")
	if !ok {
		respondWithError(w, http.StatusNotFound, "NOT_FOUND", "Not found.")
		return
	}

	active, detail, err := h.blogService.React(r.Context(), user, id, reaction)
	if err != nil {
		respondWithServiceError(w, h.logger, err, string(reaction)+" blog")
		return
	}
	respondWithJSON(w, http.StatusOK, ReactionResponse{
		Active:   active,
		Likes:    detail.Likes,
		Dislikes: detail.Dislikes,
	})
}
