// Shelfwise - Library Catalog Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/shelfwise

package api

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/tomtom215/shelfwise/internal/logging"
	"github.com/tomtom215/shelfwise/internal/models"
)

// Pagination bounds for catalog listings.
const (
	defaultPageLimit = 20
	maxPageLimit     = 100
)

// pagination reads limit and page (1-based) and returns limit and offset.
func pagination(r *http.Request) (limit, offset int, apiErr *models.APIError) {
	limit = getIntParam(r, "limit", defaultPageLimit)
	page := getIntParam(r, "page", 1)
	if limit < 1 || limit > maxPageLimit {
		return 0, 0, validationError("limit", "limit must be between 1 and 100")
	}
	if page < 1 {
		return 0, 0, validationError("page", "page must be at least 1")
	}
	return limit, (page - 1) * limit, nil
}

// ListBooks handles GET /api/v1/books.
func (h *Handler) ListBooks(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	limit, offset, apiErr := pagination(r)
	if apiErr != nil {
		respondValidation(w, apiErr)
		return
	}

	books, err := h.catalog.ListBooksPage(r.Context(), offset, limit)
	if err != nil {
		respondServiceError(w, r, err)
		return
	}
	total, _, err := h.catalog.Counts(r.Context())
	if err != nil {
		respondServiceError(w, r, err)
		return
	}
	respondSuccess(w, http.StatusOK, books, models.Metadata{
		Total:       total,
		QueryTimeMS: time.Since(start).Milliseconds(),
	})
}

// GetBook handles GET /api/v1/books/{id}.
func (h *Handler) GetBook(w http.ResponseWriter, r *http.Request) {
	book, err := h.catalog.GetBook(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		respondServiceError(w, r, err)
		return
	}
	respondSuccess(w, http.StatusOK, book, models.Metadata{})
}

// CreateBook handles POST /api/v1/books.
func (h *Handler) CreateBook(w http.ResponseWriter, r *http.Request) {
	var book models.Book
	if err := decodeJSON(r, &book); err != nil {
		respondError(w, http.StatusBadRequest, CodeInvalidJSON, "request body must be a JSON object", nil)
		return
	}
	if apiErr := validateRequest(&book); apiErr != nil {
		respondValidation(w, apiErr)
		return
	}

	if err := h.catalog.CreateBook(r.Context(), &book); err != nil {
		respondServiceError(w, r, err)
		return
	}
	logging.Ctx(r.Context()).Info().Str("book_id", book.ID).Msg("book created")
	respondSuccess(w, http.StatusCreated, book, models.Metadata{})
}

// DeleteBook handles DELETE /api/v1/books/{id}.
func (h *Handler) DeleteBook(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if err := h.catalog.DeleteBook(r.Context(), id); err != nil {
		respondServiceError(w, r, err)
		return
	}
	logging.Ctx(r.Context()).Info().Str("book_id", sanitizeLogValue(id)).Msg("book deleted")
	respondSuccess(w, http.StatusOK, map[string]string{"id": id}, models.Metadata{})
}

// ListUsers handles GET /api/v1/users.
func (h *Handler) ListUsers(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	limit, offset, apiErr := pagination(r)
	if apiErr != nil {
		respondValidation(w, apiErr)
		return
	}

	users, err := h.catalog.ListUsersPage(r.Context(), offset, limit)
	if err != nil {
		respondServiceError(w, r, err)
		return
	}
	_, total, err := h.catalog.Counts(r.Context())
	if err != nil {
		respondServiceError(w, r, err)
		return
	}
	respondSuccess(w, http.StatusOK, users, models.Metadata{
		Total:       total,
		QueryTimeMS: time.Since(start).Milliseconds(),
	})
}

// GetUser handles GET /api/v1/users/{id}.
func (h *Handler) GetUser(w http.ResponseWriter, r *http.Request) {
	user, err := h.catalog.GetUser(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		respondServiceError(w, r, err)
		return
	}
	respondSuccess(w, http.StatusOK, user, models.Metadata{})
}

// CreateUser handles POST /api/v1/users.
func (h *Handler) CreateUser(w http.ResponseWriter, r *http.Request) {
	var user models.User
	if err := decodeJSON(r, &user); err != nil {
		respondError(w, http.StatusBadRequest, CodeInvalidJSON, "request body must be a JSON object", nil)
		return
	}
	if apiErr := validateRequest(&user); apiErr != nil {
		respondValidation(w, apiErr)
		return
	}

	if err := h.catalog.CreateUser(r.Context(), &user); err != nil {
		respondServiceError(w, r, err)
		return
	}
	logging.Ctx(r.Context()).Info().Str("user_id", user.ID).Msg("user created")
	respondSuccess(w, http.StatusCreated, user, models.Metadata{})
}

// DeleteUser handles DELETE /api/v1/users/{id}.
func (h *Handler) DeleteUser(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if err := h.catalog.DeleteUser(r.Context(), id); err != nil {
		respondServiceError(w, r, err)
		return
	}
	logging.Ctx(r.Context()).Info().Str("user_id", sanitizeLogValue(id)).Msg("user deleted")
	respondSuccess(w, http.StatusOK, map[string]string{"id": id}, models.Metadata{})
}
