package handlers_test

import (
	"net/http"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewsCreate(t *testing.T) {
	app := newTestApp(t)
	teacher := app.createUser(t, "t@test.com", "Ajarn Somchai", "teacher")
	student := app.createUser(t, "s@test.com", "Student", "student")
	tchTok := app.token(t, teacher, "access")

	t.Run("teacher creates article", func(t *testing.T) {
		rec := app.request(t, http.MethodPost, "/api/news", tchTok, map[string]any{
			"title":   "Open House",
			"content": "<p>Hello <b>World</b></p>",
		})
		require.Equal(t, http.StatusCreated, rec.Code)
		body := decodeJSON(t, rec)
		assert.Equal(t, "Hello World", body["summary"]) // derive จาก content
		assert.Equal(t, "Ajarn Somchai", body["author_name"])
		assert.Nil(t, body["cover_image"])
	})

	t.Run("content sanitized before persist", func(t *testing.T) {
		rec := app.request(t, http.MethodPost, "/api/news", tchTok, map[string]any{
			"title":   "XSS attempt",
			"content": `<p>ok</p><script>alert(1)</script>`,
		})
		require.Equal(t, http.StatusCreated, rec.Code)
		content := decodeJSON(t, rec)["content"].(string)
		assert.NotContains(t, content, "<script>")
		assert.Contains(t, content, "<p>ok</p>")
	})

	t.Run("cover auto-extracted from first image", func(t *testing.T) {
		rec := app.request(t, http.MethodPost, "/api/news", tchTok, map[string]any{
			"title":   "With picture",
			"content": `<p>intro</p><img src="/api/news/images/pic.png">`,
		})
		require.Equal(t, http.StatusCreated, rec.Code)
		assert.Equal(t, "/api/news/images/pic.png", decodeJSON(t, rec)["cover_image"])
	})

	t.Run("explicit summary wins", func(t *testing.T) {
		rec := app.request(t, http.MethodPost, "/api/news", tchTok, map[string]any{
			"title":   "Summary given",
			"content": "<p>long body</p>",
			"summary": "hand-written",
		})
		require.Equal(t, http.StatusCreated, rec.Code)
		assert.Equal(t, "hand-written", decodeJSON(t, rec)["summary"])
	})

	t.Run("student forbidden", func(t *testing.T) {
		rec := app.request(t, http.MethodPost, "/api/news", app.token(t, student, "access"), map[string]any{
			"title": "nope", "content": "<p>x</p>",
		})
		assert.Equal(t, http.StatusForbidden, rec.Code)
	})

	t.Run("missing title", func(t *testing.T) {
		rec := app.request(t, http.MethodPost, "/api/news", tchTok, map[string]any{"content": "<p>x</p>"})
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})
}

func TestNewsListAndGet(t *testing.T) {
	app := newTestApp(t)
	teacher := app.createUser(t, "t@test.com", "Ajarn Somchai", "teacher")
	tchTok := app.token(t, teacher, "access")

	for _, title := range []string{"Scholarship deadline", "Open House day"} {
		rec := app.request(t, http.MethodPost, "/api/news", tchTok, map[string]any{
			"title": title, "content": "<p>" + title + " details</p>",
		})
		require.Equal(t, http.StatusCreated, rec.Code)
	}

	t.Run("list is public and excludes content", func(t *testing.T) {
		rec := app.request(t, http.MethodGet, "/api/news", "", nil)
		require.Equal(t, http.StatusOK, rec.Code)
		rows := decodeList(t, rec)
		require.Len(t, rows, 2)
		_, hasContent := rows[0]["content"]
		assert.False(t, hasContent)
		assert.Equal(t, "Ajarn Somchai", rows[0]["author_name"])
	})

	t.Run("keyword filter case-insensitive", func(t *testing.T) {
		rec := app.request(t, http.MethodGet, "/api/news?q=SCHOLAR", "", nil)
		require.Equal(t, http.StatusOK, rec.Code)
		rows := decodeList(t, rec)
		require.Len(t, rows, 1)
		assert.Equal(t, "Scholarship deadline", rows[0]["title"])
	})

	t.Run("filter matches author name", func(t *testing.T) {
		rec := app.request(t, http.MethodGet, "/api/news?q=somchai", "", nil)
		require.Equal(t, http.StatusOK, rec.Code)
		assert.Len(t, decodeList(t, rec), 2)
	})

	t.Run("get includes content", func(t *testing.T) {
		list := decodeList(t, app.request(t, http.MethodGet, "/api/news", "", nil))
		rec := app.request(t, http.MethodGet, pathID("/api/news/%v", list[0]["id"]), "", nil)
		require.Equal(t, http.StatusOK, rec.Code)
		assert.Contains(t, decodeJSON(t, rec)["content"], "<p>")
	})

	t.Run("get missing", func(t *testing.T) {
		rec := app.request(t, http.MethodGet, "/api/news/9999", "", nil)
		assert.Equal(t, http.StatusNotFound, rec.Code)
	})
}

func TestNewsUpdateDelete(t *testing.T) {
	app := newTestApp(t)
	teacher := app.createUser(t, "t@test.com", "Teacher", "teacher")
	student := app.createUser(t, "s@test.com", "Student", "student")
	tchTok := app.token(t, teacher, "access")

	rec := app.request(t, http.MethodPost, "/api/news", tchTok, map[string]any{
		"title": "Before", "content": "<p>before text</p>",
	})
	require.Equal(t, http.StatusCreated, rec.Code)
	id := decodeJSON(t, rec)["id"]

	t.Run("update re-derives summary on content change", func(t *testing.T) {
		rec := app.request(t, http.MethodPut, pathID("/api/news/%v", id), tchTok, map[string]any{
			"content": "<p>after text</p>",
		})
		require.Equal(t, http.StatusOK, rec.Code)
		body := decodeJSON(t, rec)
		assert.Equal(t, "Before", body["title"])
		assert.Equal(t, "after text", body["summary"])
	})

	t.Run("empty title rejected", func(t *testing.T) {
		rec := app.request(t, http.MethodPut, pathID("/api/news/%v", id), tchTok, map[string]any{"title": "  "})
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("student cannot update or delete", func(t *testing.T) {
		stuTok := app.token(t, student, "access")
		rec := app.request(t, http.MethodPut, pathID("/api/news/%v", id), stuTok, map[string]any{"title": "hack"})
		assert.Equal(t, http.StatusForbidden, rec.Code)
		rec = app.request(t, http.MethodDelete, pathID("/api/news/%v", id), stuTok, nil)
		assert.Equal(t, http.StatusForbidden, rec.Code)
	})

	t.Run("delete", func(t *testing.T) {
		rec := app.request(t, http.MethodDelete, pathID("/api/news/%v", id), tchTok, nil)
		require.Equal(t, http.StatusOK, rec.Code)
		rec = app.request(t, http.MethodGet, pathID("/api/news/%v", id), "", nil)
		assert.Equal(t, http.StatusNotFound, rec.Code)
	})
}

func TestNewsImages(t *testing.T) {
	app := newTestApp(t)
	teacher := app.createUser(t, "t@test.com", "Teacher", "teacher")
	student := app.createUser(t, "s@test.com", "Student", "student")
	tchTok := app.token(t, teacher, "access")

	png := []byte{0x89, 'P', 'N', 'G'}
	rec := app.upload(t, "/api/news/images", tchTok, "cover.png", png)
	require.Equal(t, http.StatusCreated, rec.Code)
	body := decodeJSON(t, rec)
	filename := body["filename"].(string)
	assert.Equal(t, "/api/news/images/"+filename, body["url"])
	assert.True(t, strings.HasSuffix(filename, ".png"))

	t.Run("serve uploaded image", func(t *testing.T) {
		rec := app.request(t, http.MethodGet, "/api/news/images/"+filename, "", nil)
		require.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, "image/png", rec.Header().Get("Content-Type"))
		assert.Equal(t, png, rec.Body.Bytes())
	})

	t.Run("path traversal blocked", func(t *testing.T) {
		rec := app.request(t, http.MethodGet, "/api/news/images/..%2f..%2fsecret.txt", "", nil)
		assert.Equal(t, http.StatusNotFound, rec.Code)
	})

	t.Run("non-image rejected", func(t *testing.T) {
		rec := app.upload(t, "/api/news/images", tchTok, "doc.pdf", []byte("%PDF"))
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("student cannot upload", func(t *testing.T) {
		rec := app.upload(t, "/api/news/images", app.token(t, student, "access"), "x.png", png)
		assert.Equal(t, http.StatusForbidden, rec.Code)
	})
}
