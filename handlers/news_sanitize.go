package handlers

import (
	"html"
	"regexp"
	"strings"
)

// ความยาว summary ที่ derive จากเนื้อหา
const summaryMaxLen = 200
const summaryEllipsis = "..."

// ชั้นกรอง HTML ฝั่งรับ — กัน payload อันตรายพื้นฐานก่อนลง DB
// ฝั่ง render ต้องกรองซ้ำอีกชั้นเสมอ ตัวนี้ไม่ใช่ sanitizer เต็มรูปแบบ
var (
	reDangerBlock = regexp.MustCompile(`(?is)<(script|style|iframe|object|embed)\b[^>]*>.*?</\s*(script|style|iframe|object|embed)\s*>`)
	reDangerTag   = regexp.MustCompile(`(?is)</?\s*(script|style|iframe|object|embed)\b[^>]*>`)
	reEventAttr   = regexp.MustCompile(`(?i)\s+on[a-z]+\s*=\s*("[^"]*"|'[^']*'|[^\s>]+)`)
	reJSURI       = regexp.MustCompile(`(?i)(href|src)\s*=\s*(["']?)\s*javascript:[^"'>\s]*`)

	reAnyTag = regexp.MustCompile(`(?s)<[^>]*>`)
	reSpaces = regexp.MustCompile(`\s+`)
	reImgSrc = regexp.MustCompile(`(?i)<img\b[^>]*\bsrc\s*=\s*["']?([^"'>\s]+)`)
)

func sanitizeHTML(raw string) string {
	out := reDangerBlock.ReplaceAllString(raw, "")
	out = reDangerTag.ReplaceAllString(out, "")
	out = reEventAttr.ReplaceAllString(out, "")
	out = reJSURI.ReplaceAllString(out, `$1=$2#`)
	return out
}

// htmlToText ตัด tag ทิ้ง (แทนด้วยช่องว่าง), decode entity แล้วบีบ whitespace
func htmlToText(content string) string {
	out := reDangerBlock.ReplaceAllString(content, " ")
	out = reDangerTag.ReplaceAllString(out, " ")
	out = reAnyTag.ReplaceAllString(out, " ")
	out = html.UnescapeString(out)
	out = reSpaces.ReplaceAllString(out, " ")
	return strings.TrimSpace(out)
}

// deriveSummary ใช้เมื่อผู้เขียนไม่ได้ใส่ summary มาเอง
func deriveSummary(content string) string {
	text := htmlToText(content)
	runes := []rune(text)
	if len(runes) <= summaryMaxLen {
		return text
	}
	return string(runes[:summaryMaxLen]) + summaryEllipsis
}

// firstImageSrc หา src ของ <img> ตัวแรกใน content ที่ sanitize แล้ว
// ไม่เจอคืน nil
func firstImageSrc(content string) *string {
	m := reImgSrc.FindStringSubmatch(content)
	if m == nil {
		return nil
	}
	src := m[1]
	return &src
}
