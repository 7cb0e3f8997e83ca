// Package storage จัดการไฟล์อัปโหลดบนดิสก์: ตั้งชื่อแบบกันชนกัน,
// ตรวจนามสกุล และ resolve path เก่าที่ย้ายโฟลเดอร์แล้ว (self-healing)
package storage

import (
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
)

var ErrNotFound = errors.New("storage: file not found")

// นามสกุลที่อนุญาตต่อหมวด
var (
	DocumentExts = map[string]bool{
		"txt": true, "pdf": true, "png": true, "jpg": true, "jpeg": true,
		"gif": true, "doc": true, "docx": true, "xls": true, "xlsx": true,
		"ppt": true, "pptx": true,
	}
	ImageExts = map[string]bool{
		"png": true, "jpg": true, "jpeg": true, "gif": true, "webp": true,
	}
)

type Store struct {
	Root string // โฟลเดอร์อัปโหลดปัจจุบัน
}

func NewStore(root string) (*Store, error) {
	if err := os.MkdirAll(root, 0o755); err != nil {
		return nil, err
	}
	return &Store{Root: root}, nil
}

// Ext คืนนามสกุล (ตัวพิมพ์เล็ก ไม่มีจุด) หรือ "" ถ้าไม่มี
func Ext(filename string) string {
	e := strings.TrimPrefix(filepath.Ext(filename), ".")
	return strings.ToLower(e)
}

// Allowed ตรวจนามสกุลกับ allow-list ของหมวดนั้น
func Allowed(filename string, exts map[string]bool) bool {
	e := Ext(filename)
	return e != "" && exts[e]
}

// Save เขียนไฟล์ลง Root ด้วยชื่อใหม่แบบสุ่ม (<uuid>.<ext>) กันชื่อชนกัน
// คืน path เต็ม + ขนาดไฟล์
func (s *Store) Save(fh *multipart.FileHeader) (string, int64, error) {
	src, err := fh.Open()
	if err != nil {
		return "", 0, err
	}
	defer src.Close()

	name := fmt.Sprintf("%s.%s", uuid.NewString(), Ext(fh.Filename))
	dst := filepath.Join(s.Root, name)

	out, err := os.Create(dst)
	if err != nil {
		return "", 0, err
	}
	defer out.Close()

	n, err := io.Copy(out, src)
	if err != nil {
		os.Remove(dst)
		return "", 0, err
	}
	return dst, n, nil
}

// Resolve ตรวจว่า path ที่บันทึกไว้ยังชี้ไฟล์จริงไหม
//   - มีไฟล์อยู่ → คืน path เดิม (idempotent)
//   - ไม่มี → ลองหา basename เดียวกันใน Root ปัจจุบัน (กรณีย้าย storage)
//     เจอ → คืน path ใหม่ + healed=true ให้ caller บันทึกทับ
//   - ไม่เจอเลย → ErrNotFound
func (s *Store) Resolve(recordedPath string) (string, bool, error) {
	if recordedPath == "" {
		return "", false, ErrNotFound
	}
	if fi, err := os.Stat(recordedPath); err == nil && fi.Mode().IsRegular() {
		return recordedPath, false, nil
	}
	candidate := filepath.Join(s.Root, filepath.Base(recordedPath))
	if candidate != recordedPath {
		if fi, err := os.Stat(candidate); err == nil && fi.Mode().IsRegular() {
			return candidate, true, nil
		}
	}
	return "", false, ErrNotFound
}

// Remove ลบไฟล์จริง — ไฟล์หายไปก่อนแล้วไม่ถือเป็น error
func (s *Store) Remove(path string) error {
	err := os.Remove(path)
	if err != nil && os.IsNotExist(err) {
		return nil
	}
	return err
}

// mime ตามนามสกุล (ตาม allow-list ด้านบน)
var mimeTypes = map[string]string{
	"pdf":  "application/pdf",
	"txt":  "text/plain",
	"doc":  "application/msword",
	"docx": "application/vnd.openxmlformats-officedocument.wordprocessingml.document",
	"xls":  "application/vnd.ms-excel",
	"xlsx": "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet",
	"ppt":  "application/vnd.ms-powerpoint",
	"pptx": "application/vnd.openxmlformats-officedocument.presentationml.presentation",
	"png":  "image/png",
	"jpg":  "image/jpeg",
	"jpeg": "image/jpeg",
	"gif":  "image/gif",
	"webp": "image/webp",
}

func MimeType(ext string) string {
	if m, ok := mimeTypes[strings.ToLower(ext)]; ok {
		return m
	}
	return "application/octet-stream"
}
