package handlers_test

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/glebarez/sqlite"
	"github.com/golang-jwt/jwt/v5"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/Gan04bsc/ABD-Project/config"
	"github.com/Gan04bsc/ABD-Project/database"
	"github.com/Gan04bsc/ABD-Project/models"
	"github.com/Gan04bsc/ABD-Project/routes"
	"github.com/Gan04bsc/ABD-Project/storage"
)

var testCfg = &config.Config{
	JWTSecret:  "test-secret",
	AccessTTL:  time.Hour,
	RefreshTTL: 24 * time.Hour,
}

type testApp struct {
	e      *echo.Echo
	db     *gorm.DB
	docs   *storage.Store
	images *storage.Store
}

func newTestApp(t *testing.T) *testApp {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{TranslateError: true})
	require.NoError(t, err)
	// in-memory sqlite หายถ้าเปิด connection ใหม่ — จำกัดไว้ตัวเดียว
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	require.NoError(t, database.Migrate(db))

	docs, err := storage.NewStore(t.TempDir())
	require.NoError(t, err)
	images, err := storage.NewStore(t.TempDir())
	require.NoError(t, err)

	e := echo.New()
	routes.Register(e, db, testCfg, docs, images)
	return &testApp{e: e, db: db, docs: docs, images: images}
}

func (a *testApp) createUser(t *testing.T, email, name string, role models.Role) models.User {
	t.Helper()
	u := models.User{Email: email, Name: name, Role: role}
	require.NoError(t, u.SetPassword("123456"))
	require.NoError(t, a.db.Create(&u).Error)
	return u
}

func (a *testApp) token(t *testing.T, u models.User, typ string) string {
	t.Helper()
	claims := jwt.MapClaims{
		"sub":  u.ID,
		"role": string(u.Role),
		"name": u.Name,
		"typ":  typ,
		"exp":  time.Now().Add(time.Hour).Unix(),
		"iat":  time.Now().Unix(),
	}
	tok, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(testCfg.JWTSecret))
	require.NoError(t, err)
	return tok
}

func (a *testApp) request(t *testing.T, method, path, token string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	a.e.ServeHTTP(rec, req)
	return rec
}

func (a *testApp) upload(t *testing.T, path, token, filename string, content []byte) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	fw, err := mw.CreateFormFile("file", filename)
	require.NoError(t, err)
	_, err = io.Copy(fw, bytes.NewReader(content))
	require.NoError(t, err)
	require.NoError(t, mw.Close())

	req := httptest.NewRequest(http.MethodPost, path, &buf)
	req.Header.Set(echo.HeaderContentType, mw.FormDataContentType())
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	a.e.ServeHTTP(rec, req)
	return rec
}

func pathID(format string, args ...any) string {
	return fmt.Sprintf(format, args...)
}

func decodeJSON(t *testing.T, rec *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var out map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out))
	return out
}

func decodeList(t *testing.T, rec *httptest.ResponseRecorder) []map[string]any {
	t.Helper()
	var out []map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out))
	return out
}
