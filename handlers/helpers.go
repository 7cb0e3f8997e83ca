package handlers

import (
	"strconv"

	"github.com/go-playground/validator/v10"
)

// validator ตัวเดียวใช้ร่วมกันทุก handler
var validate = validator.New()

// แปลง string -> uint; ถ้าแปลงไม่ได้คืน 0
func parseUint(s string) uint {
	n, err := strconv.ParseUint(s, 10, 64)
	if err != nil {
		return 0
	}
	return uint(n)
}
