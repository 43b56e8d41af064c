package http

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"bookstore/internal/book"
)

type BookHandler struct {
	repo book.Repository
}

func NewBookHandler(repo book.Repository) *BookHandler {
	return &BookHandler{repo: repo}
}

// Register mounts the book routes on the given mux.
func (h *BookHandler) Register(mux *http.ServeMux) {
	mux.HandleFunc("POST /books", h.Create)
	mux.HandleFunc("GET /books", h.List)
	mux.HandleFunc("GET /books/{id}", h.Get)
	mux.HandleFunc("PUT /books/{id}", h.Update)
	mux.HandleFunc("DELETE /books/{id}", h.Delete)
}

type createBookReq struct {
	Title  string  `json:"title" validate:"required"`
	Author string  `json:"author" validate:"required"`
	Year   *int    `json:"year"`
	ISBN   *string `json:"isbn" validate:"omitempty,isbn"`
	Genre  *string `json:"genre"`
}

type updateBookReq struct {
	Title  *string `json:"title"`
	Author *string `json:"author"`
	Year   *int    `json:"year"`
	ISBN   *string `json:"isbn" validate:"omitempty,isbn"`
	Genre  *string `json:"genre"`
}

func (h *BookHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req createBookReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		JSONError(r, w, http.StatusBadRequest, "BAD_REQUEST", "Invalid request body", nil)
		return
	}

	if details := ValidateStruct(req); len(details) > 0 {
		JSONError(r, w, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid input", details)
		return
	}

	id, err := h.repo.Add(r.Context(), book.AddParams{
		Title:  req.Title,
		Author: req.Author,
		Year:   req.Year,
		ISBN:   req.ISBN,
		Genre:  req.Genre,
	})
	if err != nil {
		h.writeRepoError(r, w, err)
		return
	}

	JSONSuccessCreated(r, w, map[string]any{"id": id})
}

// List serves GET /books. The q parameter switches to substring search over
// title and author; the genre parameter filters by exact genre. q wins when
// both are present.
func (h *BookHandler) List(w http.ResponseWriter, r *http.Request) {
	var (
		books []book.Book
		err   error
	)

	q := r.URL.Query().Get("q")
	genre := r.URL.Query().Get("genre")
	switch {
	case q != "":
		books, err = h.repo.Search(r.Context(), q)
	case genre != "":
		books, err = h.repo.ListByGenre(r.Context(), genre)
	default:
		books, err = h.repo.List(r.Context())
	}
	if err != nil {
		h.writeRepoError(r, w, err)
		return
	}

	JSONSuccess(r, w, books)
}

func (h *BookHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, ok := h.bookID(w, r)
	if !ok {
		return
	}

	b, err := h.repo.GetByID(r.Context(), id)
	if err != nil {
		h.writeRepoError(r, w, err)
		return
	}

	JSONSuccess(r, w, b)
}

func (h *BookHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, ok := h.bookID(w, r)
	if !ok {
		return
	}

	var req updateBookReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		JSONError(r, w, http.StatusBadRequest, "BAD_REQUEST", "Invalid request body", nil)
		return
	}

	if details := ValidateStruct(req); len(details) > 0 {
		JSONError(r, w, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid input", details)
		return
	}

	err := h.repo.Update(r.Context(), id, book.Patch{
		Title:  req.Title,
		Author: req.Author,
		Year:   req.Year,
		ISBN:   req.ISBN,
		Genre:  req.Genre,
	})
	if err != nil {
		h.writeRepoError(r, w, err)
		return
	}

	b, err := h.repo.GetByID(r.Context(), id)
	if err != nil {
		h.writeRepoError(r, w, err)
		return
	}

	JSONSuccess(r, w, b)
}

func (h *BookHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := h.bookID(w, r)
	if !ok {
		return
	}

	if err := h.repo.Delete(r.Context(), id); err != nil {
		h.writeRepoError(r, w, err)
		return
	}

	JSONSuccessNoContent(w)
}

func (h *BookHandler) bookID(w http.ResponseWriter, r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil {
		JSONError(r, w, http.StatusBadRequest, "INVALID_ID", "Book id must be an integer", nil)
		return 0, false
	}
	return id, true
}

func (h *BookHandler) writeRepoError(r *http.Request, w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, book.ErrNotFound):
		JSONError(r, w, http.StatusNotFound, "NOT_FOUND", "Book not found", nil)
	case errors.Is(err, book.ErrDuplicateISBN):
		JSONError(r, w, http.StatusConflict, "DUPLICATE_ISBN", "A book with this ISBN already exists", nil)
	default:
		JSONError(r, w, http.StatusInternalServerError, "INTERNAL_ERROR", "Internal server error", nil)
	}
}
