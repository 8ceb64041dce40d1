package handlers

import (
	"net/http"

	"github.com/gorilla/mux"
	"github.com/inkwell/inkwell/internal/middleware"
	"github.com/inkwell/inkwell/internal/models"
	"github.com/inkwell/inkwell/internal/service"
	"github.com/sirupsen/logrus"
)

type CommentHandlers struct {
	commentService *service.CommentService
	validator      *Validator
	logger         *logrus.Logger
}

func NewCommentHandlers(commentService *service.CommentService, validator *Validator, logger *logrus.Logger) *CommentHandlers {
	return &CommentHandlers{
		commentService: commentService,
		validator:      validator,
		logger:         logger,
	}
}

type CommentRequest struct {
	ContentType string  `json:"content_type" validate:"omitempty,oneof=blog category"`
	ObjectID    uint    `json:"object_id" validate:"required"`
	Name        *string `json:"name" validate:"omitempty,max=20"`
	Rate        string  `json:"rate" validate:"omitempty,oneof=1 2 3 4 5"`
	Body        string  `json:"body" validate:"required"`
	Parent      *uint   `json:"parent"`
}

func (c CommentRequest) input() service.CommentInput {
	target, _ := models.ParseCommentTarget(c.ContentType)
	return service.CommentInput{
		Target:   target,
		ObjectID: c.ObjectID,
		Name:     c.Name,
		Rate:     models.CommentRate(c.Rate),
		Body:     c.Body,
		ParentID: c.Parent,
	}
}

func (h *CommentHandlers) List(w http.ResponseWriter, r *http.Request) {
	kind, ok := models.ParseCommentTarget(mux.Vars(r)["kind"])
	id, idOK := pathID(r, "id")
	if !ok || !idOK {
		respondWithError(w, http.StatusNotFound, "NOT_FOUND", "Not found.")
		return
	}

	comments, err := h.commentService.List(r.Context(), kind, id)
	if err != nil {
		respondWithServiceError(w, h.logger, err, "list comments")
		return
	}

	items := make([]CommentResponse, 0, len(comments))
	for i := range comments {
		items = append(items, newCommentResponse(&comments[i]))
	}
	respondWithJSON(w, http.StatusOK, items)
}

func (h *CommentHandlers) Create(w http.ResponseWriter, r *http.Request) {
	user, _ := middleware.UserFromContext(r.Context())

	var req CommentRequest
	if !decodeAndValidate(w, r, h.validator, &req) {
		return
	}

	comment, err := h.commentService.Create(r.Context(), user, req.input())
	if err != nil {
		respondWithServiceError(w, h.logger, err, "create comment")
		return
	}
	respondWithJSON(w, http.StatusCreated, newCommentResponse(comment))
}

func (h *CommentHandlers) Update(w http.ResponseWriter, r *http.Request) {
	user, _ := middleware.UserFromContext(r.Context())
	id, ok := pathID(r, "id")
	if !ok {
		respondWithError(w, http.StatusNotFound, "NOT_FOUND", "Not found.")
		return
	}

	var req CommentRequest
	if !decodeAndValidate(w, r, h.validator, &req) {
		return
	}

	comment, err := h.commentService.Update(r.Context(), user, id, req.input())
	if err != nil {
		respondWithServiceError(w, h.logger, err, "update comment")
		return
	}
	respondWithJSON(w, http.StatusOK, newCommentResponse(comment))
}

func (h *CommentHandlers) Delete(w http.ResponseWriter, r *http.Request) {
	user, _ := middleware.UserFromContext(r.Context())
	id, ok := pathID(r, "id")
	if !ok {
		respondWithError(w, http.StatusNotFound, "NOT_FOUND", "Not found.")
		return
	}

	if err := h.commentService.Delete(r.Context(), user, id); err != nil {
		respondWithServiceError(w, h.logger, err, "delete comment")
		return
	}
	respondWithJSON(w, http.StatusNoContent, nil)
}
