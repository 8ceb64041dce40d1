package handlers

import (
	"net/http"
	"strings"

	"github.com/inkwell/inkwell/internal/models"
	"github.com/inkwell/inkwell/internal/repository"
	"github.com/sirupsen/logrus"
)

type CategoryHandlers struct {
	categoryRepo *repository.CategoryRepository
	validator    *Validator
	logger       *logrus.Logger
}

func NewCategoryHandlers(categoryRepo *repository.CategoryRepository, validator *Validator, logger *logrus.Logger) *CategoryHandlers {
	return &CategoryHandlers{
		categoryRepo: categoryRepo,
		validator:    validator,
		logger:       logger,
	}
}

type CategoryRequest struct {
	Parent   *uint  `json:"parent"`
	Title    string `json:"title" validate:"required,max=200"`
	Slug     string `json:"slug" validate:"required,max=100"`
	Status   bool   `json:"status"`
	Position int    `json:"position" validate:"min=0"`
}

func (c CategoryRequest) apply(category *models.Category) {
	category.ParentID = c.Parent
	category.Title = strings.TrimSpace(c.Title)
	category.Slug = models.Slugify(c.Slug)
	category.Status = c.Status
	category.Position = c.Position
}

func (h *CategoryHandlers) List(w http.ResponseWriter, r *http.Request) {
	categories, err := h.categoryRepo.ListActive(r.Context())
	if err != nil {
		respondWithServiceError(w, h.logger, err, "list categories")
		return
	}
	respondWithJSON(w, http.StatusOK, categories)
}

func (h *CategoryHandlers) Create(w http.ResponseWriter, r *http.Request) {
	var req CategoryRequest
	if !decodeAndValidate(w, r, h.validator, &req) {
		return
	}

	var category models.Category
	req.apply(&category)
	if category.Slug == "" {
		respondWithFields(w, map[string]string{"slug": "slug must contain letters or digits"})
		return
	}

	if err := h.categoryRepo.Create(r.Context(), &category); err != nil {
		respondWithServiceError(w, h.logger, err, "create category")
		return
	}
	respondWithJSON(w, http.StatusCreated, category)
}

func (h *CategoryHandlers) Update(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r, "id")
	if !ok {
		respondWithError(w, http.StatusNotFound, "NOT_FOUND", "Not found.")
		return
	}

	category, err := h.categoryRepo.GetByID(r.Context(), id)
	if err != nil {
		respondWithServiceError(w, h.logger, err, "get category")
		return
	}

	var req CategoryRequest
	if !decodeAndValidate(w, r, h.validator, &req) {
		return
	}
	req.apply(category)
	if category.Slug == "" {
		respondWithFields(w, map[string]string{"slug": "slug must contain letters or digits"})
		return
	}

	if err := h.categoryRepo.Update(r.Context(), category); err != nil {
		respondWithServiceError(w, h.logger, err, "update category")
		return
	}
	respondWithJSON(w, http.StatusOK, category)
}

func (h *CategoryHandlers) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r, "id")
	if !ok {
		respondWithError(w, http.StatusNotFound, "NOT_FOUND", "Not found.")
		return
	}

	if err := h.categoryRepo.Delete(r.Context(), id); err != nil {
		respondWithServiceError(w, h.logger, err, "delete category")
		return
	}
	respondWithJSON(w, http.StatusNoContent, nil)
}
