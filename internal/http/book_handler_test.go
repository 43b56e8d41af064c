package http

import (
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"

	"bookstore/internal/book"
	"bookstore/internal/testutil"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// newTestMux wires a BookHandler over a real SQLite store in a temp dir.
func newTestMux(t *testing.T) *http.ServeMux {
	t.Helper()
	repo, err := book.OpenSQLite(filepath.Join(t.TempDir(), "books.db"))
	require.NoError(t, err)
	t.Cleanup(func() { repo.Close() })

	mux := http.NewServeMux()
	NewBookHandler(repo).Register(mux)
	return mux
}

func do(mux *http.ServeMux, r *http.Request) testutil.RecordedResponse {
	w := httptest.NewRecorder()
	mux.ServeHTTP(w, r)
	return testutil.Record(w)
}

func createBook(t *testing.T, mux *http.ServeMux, body map[string]any) int64 {
	t.Helper()
	resp := do(mux, testutil.NewRequest(http.MethodPost, "/books", body))
	require.Equal(t, http.StatusCreated, resp.Code)
	data := resp.Body["data"].(map[string]interface{})
	return int64(data["id"].(float64))
}

func TestBookHandler_Create(t *testing.T) {
	mux := newTestMux(t)

	t.Run("created", func(t *testing.T) {
		resp := do(mux, testutil.NewRequest(http.MethodPost, "/books", map[string]any{
			"title":  "The Hobbit",
			"author": "J.R.R. Tolkien",
			"year":   1937,
			"isbn":   "978-0547928227",
			"genre":  "Fantasy",
		}))
		assert.Equal(t, http.StatusCreated, resp.Code)
		assert.Equal(t, true, resp.Body["success"])
	})

	t.Run("missing title", func(t *testing.T) {
		resp := do(mux, testutil.NewRequest(http.MethodPost, "/books", map[string]any{
			"author": "Anon",
		}))
		assert.Equal(t, http.StatusBadRequest, resp.Code)
	})

	t.Run("malformed isbn", func(t *testing.T) {
		resp := do(mux, testutil.NewRequest(http.MethodPost, "/books", map[string]any{
			"title":  "Bad ISBN",
			"author": "Anon",
			"isbn":   "not-an-isbn",
		}))
		assert.Equal(t, http.StatusBadRequest, resp.Code)
	})

	t.Run("duplicate isbn", func(t *testing.T) {
		resp := do(mux, testutil.NewRequest(http.MethodPost, "/books", map[string]any{
			"title":  "Hobbit Again",
			"author": "Someone Else",
			"isbn":   "978-0547928227",
		}))
		assert.Equal(t, http.StatusConflict, resp.Code)
		errBody := resp.Body["error"].(map[string]interface{})
		assert.Equal(t, "DUPLICATE_ISBN", errBody["code"])
	})

	t.Run("invalid body", func(t *testing.T) {
		r := httptest.NewRequest(http.MethodPost, "/books", nil)
		resp := do(mux, r)
		assert.Equal(t, http.StatusBadRequest, resp.Code)
	})
}

func TestBookHandler_List(t *testing.T) {
	mux := newTestMux(t)

	t.Run("empty store", func(t *testing.T) {
		resp := do(mux, testutil.NewRequest(http.MethodGet, "/books", nil))
		require.Equal(t, http.StatusOK, resp.Code)
		assert.Empty(t, resp.Body["data"])
	})

	createBook(t, mux, map[string]any{"title": "The Hobbit", "author": "J.R.R. Tolkien", "genre": "Fantasy"})
	createBook(t, mux, map[string]any{"title": "1984", "author": "George Orwell", "genre": "Dystopian"})
	createBook(t, mux, map[string]any{"title": "Harry Potter", "author": "J.K. Rowling", "genre": "Fantasy"})

	t.Run("ordered by title", func(t *testing.T) {
		resp := do(mux, testutil.NewRequest(http.MethodGet, "/books", nil))
		require.Equal(t, http.StatusOK, resp.Code)
		data := resp.Body["data"].([]interface{})
		require.Len(t, data, 3)
		assert.Equal(t, "1984", data[0].(map[string]interface{})["title"])
		assert.Equal(t, "Harry Potter", data[1].(map[string]interface{})["title"])
		assert.Equal(t, "The Hobbit", data[2].(map[string]interface{})["title"])
	})

	t.Run("search by q", func(t *testing.T) {
		resp := do(mux, testutil.NewRequest(http.MethodGet, "/books?q=Harry", nil))
		require.Equal(t, http.StatusOK, resp.Code)
		data := resp.Body["data"].([]interface{})
		require.Len(t, data, 1)
		assert.Equal(t, "Harry Potter", data[0].(map[string]interface{})["title"])
	})

	t.Run("filter by genre", func(t *testing.T) {
		resp := do(mux, testutil.NewRequest(http.MethodGet, "/books?genre=Fantasy", nil))
		require.Equal(t, http.StatusOK, resp.Code)
		data := resp.Body["data"].([]interface{})
		assert.Len(t, data, 2)
	})
}

func TestBookHandler_Get(t *testing.T) {
	mux := newTestMux(t)
	id := createBook(t, mux, map[string]any{"title": "The Hobbit", "author": "J.R.R. Tolkien"})

	t.Run("found", func(t *testing.T) {
		resp := do(mux, testutil.NewRequest(http.MethodGet, "/books/1", nil))
		require.Equal(t, http.StatusOK, resp.Code)
		data := resp.Body["data"].(map[string]interface{})
		assert.Equal(t, float64(id), data["id"])
		assert.Equal(t, "The Hobbit", data["title"])
	})

	t.Run("not found", func(t *testing.T) {
		resp := do(mux, testutil.NewRequest(http.MethodGet, "/books/999", nil))
		assert.Equal(t, http.StatusNotFound, resp.Code)
	})

	t.Run("non-numeric id", func(t *testing.T) {
		resp := do(mux, testutil.NewRequest(http.MethodGet, "/books/abc", nil))
		assert.Equal(t, http.StatusBadRequest, resp.Code)
	})
}

func TestBookHandler_Update(t *testing.T) {
	mux := newTestMux(t)
	id := createBook(t, mux, map[string]any{
		"title":  "Original Title",
		"author": "Original Author",
		"year":   2000,
	})

	t.Run("partial update", func(t *testing.T) {
		resp := do(mux, testutil.NewRequest(http.MethodPut, "/books/1", map[string]any{
			"title": "Updated Title",
			"year":  2024,
		}))
		require.Equal(t, http.StatusOK, resp.Code)
		data := resp.Body["data"].(map[string]interface{})
		assert.Equal(t, float64(id), data["id"])
		assert.Equal(t, "Updated Title", data["title"])
		assert.Equal(t, "Original Author", data["author"])
		assert.Equal(t, float64(2024), data["year"])
	})

	t.Run("not found", func(t *testing.T) {
		resp := do(mux, testutil.NewRequest(http.MethodPut, "/books/999", map[string]any{
			"title": "Ghost",
		}))
		assert.Equal(t, http.StatusNotFound, resp.Code)
	})
}

func TestBookHandler_Delete(t *testing.T) {
	mux := newTestMux(t)
	createBook(t, mux, map[string]any{"title": "Doomed", "author": "Nobody"})

	t.Run("deleted", func(t *testing.T) {
		resp := do(mux, testutil.NewRequest(http.MethodDelete, "/books/1", nil))
		assert.Equal(t, http.StatusNoContent, resp.Code)

		resp = do(mux, testutil.NewRequest(http.MethodGet, "/books/1", nil))
		assert.Equal(t, http.StatusNotFound, resp.Code)
	})

	t.Run("not found", func(t *testing.T) {
		resp := do(mux, testutil.NewRequest(http.MethodDelete, "/books/1", nil))
		assert.Equal(t, http.StatusNotFound, resp.Code)
	})
}
