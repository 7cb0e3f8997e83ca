package handlers

import (
	"errors"
	"fmt"
	"net/http"
	"os"
	"strings"

	"github.com/labstack/echo/v4"
	"gorm.io/gorm"

	"github.com/Gan04bsc/ABD-Project/models"
	"github.com/Gan04bsc/ABD-Project/storage"
)

type DocumentHandler struct {
	DB    *gorm.DB
	Store *storage.Store
}

func NewDocumentHandler(db *gorm.DB, store *storage.Store) *DocumentHandler {
	return &DocumentHandler{DB: db, Store: store}
}

func docJSON(d *models.Document) map[string]any {
	return map[string]any{
		"id":            d.ID,
		"name":          d.Name,
		"original_name": d.OriginalName,
		"file_size":     d.FileSize,
		"file_type":     d.FileType,
		"category":      d.Category,
		"created_at":    d.CreatedAt,
	}
}

// หาเอกสารที่ caller เป็นเจ้าของ — ไม่ใช่เจ้าของก็ตอบ 404 เหมือนไม่มีอยู่
func (h *DocumentHandler) findOwned(id string, userID uint) (*models.Document, error) {
	var doc models.Document
	err := h.DB.Where("id = ? AND user_id = ?", id, userID).First(&doc).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, echo.NewHTTPError(http.StatusNotFound, map[string]any{"error": "DOCUMENT_NOT_FOUND"})
		}
		return nil, echo.NewHTTPError(http.StatusInternalServerError, map[string]any{"error": "DB_QUERY_FAILED"})
	}
	return &doc, nil
}

// resolvePath คืน path ที่ใช้ได้จริง + บันทึก path ใหม่กลับลง record ถ้า heal สำเร็จ
func (h *DocumentHandler) resolvePath(doc *models.Document) (string, error) {
	path, healed, err := h.Store.Resolve(doc.FilePath)
	if err != nil {
		return "", echo.NewHTTPError(http.StatusNotFound, map[string]any{"error": "FILE_NOT_FOUND"})
	}
	if healed {
		// guarded update — ทับเฉพาะตอน path ในแถวยังเป็นค่าเก่า
		if err := h.DB.Model(&models.Document{}).
			Where("id = ? AND file_path = ?", doc.ID, doc.FilePath).
			Update("file_path", path).Error; err == nil {
			doc.FilePath = path
		}
	}
	return path, nil
}

func (h *DocumentHandler) serveFile(c echo.Context, doc *models.Document, asAttachment bool) error {
	path, err := h.resolvePath(doc)
	if err != nil {
		return err
	}
	f, ferr := os.Open(path)
	if ferr != nil {
		return echo.NewHTTPError(http.StatusNotFound, map[string]any{"error": "FILE_NOT_FOUND"})
	}
	defer f.Close()

	if asAttachment {
		c.Response().Header().Set(echo.HeaderContentDisposition,
			fmt.Sprintf(`attachment; filename=%q`, doc.OriginalName))
	}
	return c.Stream(http.StatusOK, storage.MimeType(doc.FileType), f)
}

/* ====================== Handlers (เจ้าของเอกสาร) ====================== */

// GET /api/documents
func (h *DocumentHandler) List(c echo.Context) error {
	ident, err := identityFrom(c)
	if err != nil {
		return err
	}
	var docs []models.Document
	if err := h.DB.Where("user_id = ?", ident.ID).Order("created_at DESC, id DESC").Find(&docs).Error; err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, map[string]any{"error": "DB_QUERY_FAILED"})
	}
	out := make([]map[string]any, 0, len(docs))
	for i := range docs {
		out = append(out, docJSON(&docs[i]))
	}
	return c.JSON(http.StatusOK, out)
}

// POST /api/documents — multipart field "file"
func (h *DocumentHandler) Upload(c echo.Context) error {
	ident, err := identityFrom(c)
	if err != nil {
		return err
	}
	fh, err := c.FormFile("file")
	if err != nil || fh.Filename == "" {
		return echo.NewHTTPError(http.StatusBadRequest, map[string]any{"error": "NO_FILE"})
	}
	if !storage.Allowed(fh.Filename, storage.DocumentExts) {
		return echo.NewHTTPError(http.StatusBadRequest, map[string]any{"error": "UNSUPPORTED_FILE_TYPE"})
	}

	path, size, err := h.Store.Save(fh)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, map[string]any{"error": "UPLOAD_FAILED"})
	}

	doc := models.Document{
		UserID:       ident.ID,
		Name:         fh.Filename,
		OriginalName: fh.Filename,
		FilePath:     path,
		FileSize:     size,
		FileType:     storage.Ext(fh.Filename),
		Category:     "general",
	}
	if err := h.DB.Create(&doc).Error; err != nil {
		h.Store.Remove(path)
		return echo.NewHTTPError(http.StatusInternalServerError, map[string]any{"error": "DB_CREATE_FAILED"})
	}
	return c.JSON(http.StatusCreated, map[string]any{
		"message":  "uploaded",
		"document": docJSON(&doc),
	})
}

// GET /api/documents/:id
func (h *DocumentHandler) Get(c echo.Context) error {
	ident, err := identityFrom(c)
	if err != nil {
		return err
	}
	doc, err := h.findOwned(c.Param("id"), ident.ID)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, docJSON(doc))
}

// GET /api/documents/:id/view — เปิดดูในเบราว์เซอร์
func (h *DocumentHandler) View(c echo.Context) error {
	ident, err := identityFrom(c)
	if err != nil {
		return err
	}
	doc, err := h.findOwned(c.Param("id"), ident.ID)
	if err != nil {
		return err
	}
	return h.serveFile(c, doc, false)
}

// GET /api/documents/:id/download
func (h *DocumentHandler) Download(c echo.Context) error {
	ident, err := identityFrom(c)
	if err != nil {
		return err
	}
	doc, err := h.findOwned(c.Param("id"), ident.ID)
	if err != nil {
		return err
	}
	return h.serveFile(c, doc, true)
}

type renameReq struct {
	Name string `json:"name"`
}

// PUT /api/documents/:id — แก้ชื่อที่แสดง
func (h *DocumentHandler) Update(c echo.Context) error {
	ident, err := identityFrom(c)
	if err != nil {
		return err
	}
	doc, err := h.findOwned(c.Param("id"), ident.ID)
	if err != nil {
		return err
	}
	var req renameReq
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, map[string]any{"error": "INVALID_PAYLOAD"})
	}
	name := strings.TrimSpace(req.Name)
	if name == "" {
		return echo.NewHTTPError(http.StatusBadRequest, map[string]any{"error": "NAME_REQUIRED"})
	}
	if err := h.DB.Model(doc).Update("name", name).Error; err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, map[string]any{"error": "DB_UPDATE_FAILED"})
	}
	doc.Name = name
	return c.JSON(http.StatusOK, map[string]any{
		"message": "updated",
		"document": map[string]any{
			"id":            doc.ID,
			"name":          doc.Name,
			"original_name": doc.OriginalName,
		},
	})
}

// DELETE /api/documents/:id — ลบทั้งแถวและไฟล์จริง (ถ้ายังอยู่)
func (h *DocumentHandler) Delete(c echo.Context) error {
	ident, err := identityFrom(c)
	if err != nil {
		return err
	}
	doc, err := h.findOwned(c.Param("id"), ident.ID)
	if err != nil {
		return err
	}
	if path, _, rerr := h.Store.Resolve(doc.FilePath); rerr == nil {
		h.Store.Remove(path)
	}
	if err := h.DB.Delete(doc).Error; err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, map[string]any{"error": "DB_DELETE_FAILED"})
	}
	return c.JSON(http.StatusOK, map[string]any{"message": "deleted"})
}

/* ====================== Handlers (ครูดูเอกสารนักเรียน) ====================== */

// หาเอกสาร + เช็คซ้ำว่าผู้เรียกเป็นครูและเจ้าของเอกสารเป็นนักเรียน
func (h *DocumentHandler) findForTeacher(c echo.Context, id string) (*models.Document, error) {
	if _, err := requireRole(c, models.RoleTeacher); err != nil {
		return nil, err
	}
	var doc models.Document
	if err := h.DB.First(&doc, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, echo.NewHTTPError(http.StatusNotFound, map[string]any{"error": "DOCUMENT_NOT_FOUND"})
		}
		return nil, echo.NewHTTPError(http.StatusInternalServerError, map[string]any{"error": "DB_QUERY_FAILED"})
	}
	var owner models.User
	if err := h.DB.First(&owner, doc.UserID).Error; err != nil {
		return nil, echo.NewHTTPError(http.StatusNotFound, map[string]any{"error": "OWNER_NOT_FOUND"})
	}
	if owner.Role != models.RoleStudent {
		// ครูเข้าถึงได้เฉพาะเอกสารของนักเรียนเท่านั้น
		return nil, echo.NewHTTPError(http.StatusForbidden, map[string]any{"error": "FORBIDDEN"})
	}
	return &doc, nil
}

// GET /api/documents/students/:id — รายการเอกสารของนักเรียนคนหนึ่ง (เฉพาะครู)
func (h *DocumentHandler) ListForStudent(c echo.Context) error {
	if _, err := requireRole(c, models.RoleTeacher); err != nil {
		return err
	}
	var owner models.User
	if err := h.DB.First(&owner, "id = ?", c.Param("id")).Error; err != nil {
		return echo.NewHTTPError(http.StatusNotFound, map[string]any{"error": "USER_NOT_FOUND"})
	}
	if owner.Role != models.RoleStudent {
		return echo.NewHTTPError(http.StatusForbidden, map[string]any{"error": "FORBIDDEN"})
	}
	var docs []models.Document
	if err := h.DB.Where("user_id = ?", owner.ID).Order("created_at DESC, id DESC").Find(&docs).Error; err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, map[string]any{"error": "DB_QUERY_FAILED"})
	}
	out := make([]map[string]any, 0, len(docs))
	for i := range docs {
		out = append(out, docJSON(&docs[i]))
	}
	return c.JSON(http.StatusOK, out)
}

// GET /api/documents/:id/teacher-view
func (h *DocumentHandler) TeacherView(c echo.Context) error {
	doc, err := h.findForTeacher(c, c.Param("id"))
	if err != nil {
		return err
	}
	return h.serveFile(c, doc, false)
}

// GET /api/documents/:id/teacher-download
func (h *DocumentHandler) TeacherDownload(c echo.Context) error {
	doc, err := h.findForTeacher(c, c.Param("id"))
	if err != nil {
		return err
	}
	return h.serveFile(c, doc, true)
}
