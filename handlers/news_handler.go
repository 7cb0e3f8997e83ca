package handlers

import (
	"errors"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"github.com/labstack/echo/v4"
	"gorm.io/gorm"

	"github.com/Gan04bsc/ABD-Project/models"
	"github.com/Gan04bsc/ABD-Project/storage"
)

type NewsHandler struct {
	DB     *gorm.DB
	Images *storage.Store // โฟลเดอร์รูปข่าว (<upload>/news)
}

func NewNewsHandler(db *gorm.DB, images *storage.Store) *NewsHandler {
	return &NewsHandler{DB: db, Images: images}
}

// author_name หาแบบทีละบทความ (ตารางข่าวเล็ก — พอไหว)
func (h *NewsHandler) authorName(id uint) *string {
	var u models.User
	if err := h.DB.First(&u, id).Error; err != nil {
		return nil
	}
	return &u.Name
}

func (h *NewsHandler) newsJSON(n *models.News, includeContent bool) map[string]any {
	out := map[string]any{
		"id":          n.ID,
		"title":       n.Title,
		"summary":     n.Summary,
		"cover_image": n.CoverImage,
		"created_by":  n.CreatedBy,
		"author_id":   n.CreatedBy,
		"author_name": h.authorName(n.CreatedBy),
		"created_at":  n.CreatedAt,
		"updated_at":  n.UpdatedAt,
	}
	if includeContent {
		out["content"] = n.Content
	}
	return out
}

/* ====================== Handlers ====================== */

// GET /api/news?q= — สาธารณะ รายการไม่รวม content
func (h *NewsHandler) List(c echo.Context) error {
	var items []models.News
	if err := h.DB.Order("created_at DESC, id DESC").Find(&items).Error; err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, map[string]any{"error": "DB_QUERY_FAILED"})
	}

	q := strings.ToLower(strings.TrimSpace(c.QueryParam("q")))
	out := make([]map[string]any, 0, len(items))
	for i := range items {
		row := h.newsJSON(&items[i], false)
		if q != "" {
			author, _ := row["author_name"].(*string)
			hay := strings.ToLower(items[i].Title) + " " + strings.ToLower(items[i].Summary)
			if author != nil {
				hay += " " + strings.ToLower(*author)
			}
			if !strings.Contains(hay, q) {
				continue
			}
		}
		out = append(out, row)
	}
	return c.JSON(http.StatusOK, out)
}

// GET /api/news/:id — สาธารณะ
func (h *NewsHandler) Get(c echo.Context) error {
	var n models.News
	if err := h.DB.First(&n, "id = ?", c.Param("id")).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return echo.NewHTTPError(http.StatusNotFound, map[string]any{"error": "NOT_FOUND"})
		}
		return echo.NewHTTPError(http.StatusInternalServerError, map[string]any{"error": "DB_QUERY_FAILED"})
	}
	return c.JSON(http.StatusOK, h.newsJSON(&n, true))
}

type newsReq struct {
	Title      string  `json:"title"`
	Content    string  `json:"content"`
	Summary    string  `json:"summary"`
	CoverImage *string `json:"cover_image"`
}

// ฝั่ง update ใช้ pointer — แยก "ไม่ส่งมา" ออกจาก "ส่งค่าว่าง"
type newsUpdateReq struct {
	Title      *string `json:"title"`
	Content    *string `json:"content"`
	Summary    *string `json:"summary"`
	CoverImage *string `json:"cover_image"`
}

// POST /api/news — เฉพาะครู
func (h *NewsHandler) Create(c echo.Context) error {
	ident, err := requireRole(c, models.RoleTeacher)
	if err != nil {
		return err
	}
	var req newsReq
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, map[string]any{"error": "INVALID_PAYLOAD"})
	}
	title := strings.TrimSpace(req.Title)
	content := strings.TrimSpace(req.Content)
	if title == "" || content == "" {
		return echo.NewHTTPError(http.StatusBadRequest, map[string]any{"error": "TITLE_AND_CONTENT_REQUIRED"})
	}

	content = sanitizeHTML(content)
	summary := strings.TrimSpace(req.Summary)
	if summary == "" {
		summary = deriveSummary(content)
	}
	cover := req.CoverImage
	if cover == nil || strings.TrimSpace(*cover) == "" {
		cover = firstImageSrc(content)
	}

	n := models.News{
		Title:      title,
		Summary:    summary,
		CoverImage: cover,
		Content:    content,
		CreatedBy:  ident.ID,
	}
	if err := h.DB.Create(&n).Error; err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, map[string]any{"error": "DB_CREATE_FAILED"})
	}
	return c.JSON(http.StatusCreated, h.newsJSON(&n, true))
}

// PUT|PATCH /api/news/:id — เฉพาะครู
func (h *NewsHandler) Update(c echo.Context) error {
	if _, err := requireRole(c, models.RoleTeacher); err != nil {
		return err
	}
	var n models.News
	if err := h.DB.First(&n, "id = ?", c.Param("id")).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return echo.NewHTTPError(http.StatusNotFound, map[string]any{"error": "NOT_FOUND"})
		}
		return echo.NewHTTPError(http.StatusInternalServerError, map[string]any{"error": "DB_QUERY_FAILED"})
	}

	var req newsUpdateReq
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, map[string]any{"error": "INVALID_PAYLOAD"})
	}
	if req.Title != nil {
		t := strings.TrimSpace(*req.Title)
		if t == "" {
			return echo.NewHTTPError(http.StatusBadRequest, map[string]any{"error": "TITLE_REQUIRED"})
		}
		n.Title = t
	}
	if req.Content != nil {
		ct := strings.TrimSpace(*req.Content)
		if ct == "" {
			return echo.NewHTTPError(http.StatusBadRequest, map[string]any{"error": "CONTENT_REQUIRED"})
		}
		n.Content = sanitizeHTML(ct)
	}

	if req.Summary != nil && strings.TrimSpace(*req.Summary) != "" {
		n.Summary = strings.TrimSpace(*req.Summary)
	} else if req.Content != nil {
		// เนื้อหาเปลี่ยนแต่ไม่ได้ส่ง summary มา → derive ใหม่
		n.Summary = deriveSummary(n.Content)
	}
	if req.CoverImage != nil && strings.TrimSpace(*req.CoverImage) != "" {
		n.CoverImage = req.CoverImage
	} else if n.CoverImage == nil {
		n.CoverImage = firstImageSrc(n.Content)
	}

	if err := h.DB.Save(&n).Error; err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, map[string]any{"error": "DB_UPDATE_FAILED"})
	}
	return c.JSON(http.StatusOK, h.newsJSON(&n, true))
}

// DELETE /api/news/:id — เฉพาะครู
func (h *NewsHandler) Delete(c echo.Context) error {
	if _, err := requireRole(c, models.RoleTeacher); err != nil {
		return err
	}
	var n models.News
	if err := h.DB.First(&n, "id = ?", c.Param("id")).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return echo.NewHTTPError(http.StatusNotFound, map[string]any{"error": "NOT_FOUND"})
		}
		return echo.NewHTTPError(http.StatusInternalServerError, map[string]any{"error": "DB_QUERY_FAILED"})
	}
	if err := h.DB.Delete(&n).Error; err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, map[string]any{"error": "DB_DELETE_FAILED"})
	}
	return c.JSON(http.StatusOK, map[string]any{"message": "deleted"})
}

// POST /api/news/images — เฉพาะครู อัปโหลดรูปประกอบข่าว
func (h *NewsHandler) UploadImage(c echo.Context) error {
	if _, err := requireRole(c, models.RoleTeacher); err != nil {
		return err
	}
	fh, err := c.FormFile("file")
	if err != nil || fh.Filename == "" {
		return echo.NewHTTPError(http.StatusBadRequest, map[string]any{"error": "NO_FILE"})
	}
	if !storage.Allowed(fh.Filename, storage.ImageExts) {
		return echo.NewHTTPError(http.StatusBadRequest, map[string]any{"error": "UNSUPPORTED_IMAGE_TYPE"})
	}
	path, _, err := h.Images.Save(fh)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, map[string]any{"error": "UPLOAD_FAILED"})
	}
	filename := filepath.Base(path)
	return c.JSON(http.StatusCreated, map[string]any{
		"url":      "/api/news/images/" + filename,
		"filename": filename,
	})
}

// GET /api/news/images/:filename — สาธารณะ
func (h *NewsHandler) ServeImage(c echo.Context) error {
	name := c.Param("filename")
	// กัน path traversal — ต้องเป็น basename ล้วน ๆ
	if name == "" || filepath.Base(name) != name {
		return echo.NewHTTPError(http.StatusNotFound, map[string]any{"error": "NOT_FOUND"})
	}
	path := filepath.Join(h.Images.Root, name)
	f, err := os.Open(path)
	if err != nil {
		return echo.NewHTTPError(http.StatusNotFound, map[string]any{"error": "NOT_FOUND"})
	}
	defer f.Close()
	return c.Stream(http.StatusOK, storage.MimeType(storage.Ext(name)), f)
}
