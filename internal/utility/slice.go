package utility

import "strconv"

// Contains kiểm tra một phần tử có trong slice không
func Contains(items []string, item string) bool {
	for _, v := range items {
		if v == item {
			return true
		}
	}
	return false
}

// P2Int64 parse chuỗi sang int64, trả về 0 nếu không hợp lệ
func P2Int64(s string) int64 {
	n, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		return 0
	}
	return n
}
