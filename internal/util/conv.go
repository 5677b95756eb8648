package util

import (
	"strconv"
)

// ParseIndex 解析 0 起始下标，负数视为无效
func ParseIndex(s string) (int, bool) {
	n, err := strconv.Atoi(s)
	if err != nil || n < 0 {
		return 0, false
	}
	return n, true
}
