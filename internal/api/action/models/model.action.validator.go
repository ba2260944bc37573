// Package models - schema validator cho form động.
package models

import (
	"encoding/json"
	"fmt"
	"math"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// FieldError mô tả một lỗi validate trên một trường cụ thể.
// Field rỗng nghĩa là lỗi cấp schema (key lạ hoặc schema hỏng).
type FieldError struct {
	Field  string `json:"field,omitempty"`
	Reason string `json:"reason"`
}

// ValidationResult gom toàn bộ lỗi của một lần validate.
// Validate là total: mọi trường đều được kiểm tra, không dừng ở lỗi đầu tiên.
type ValidationResult struct {
	Errors []FieldError `json:"errors,omitempty"`
}

// Valid trả về true nếu dữ liệu hợp lệ với definition
func (r ValidationResult) Valid() bool {
	return len(r.Errors) == 0
}

// Error trả về chuỗi mô tả toàn bộ lỗi, dùng làm Details của common.Error
func (r ValidationResult) Error() string {
	if r.Valid() {
		return ""
	}
	msg := ""
	for i, e := range r.Errors {
		if i > 0 {
			msg += "; "
		}
		if e.Field != "" {
			msg += fmt.Sprintf("trường '%s': %s", e.Field, e.Reason)
		} else {
			msg += e.Reason
		}
	}
	return msg
}

func (r *ValidationResult) addError(field, reason string) {
	r.Errors = append(r.Errors, FieldError{Field: field, Reason: reason})
}

// Validate kiểm tra data với definition theo chế độ strict:
//   - Key lạ (không có trong definition) → lỗi.
//   - Trường required mà vắng mặt, null hoặc chuỗi rỗng → lỗi.
//   - Trường optional vắng mặt/null/chuỗi rỗng → bỏ qua kiểm tra kiểu.
//   - Có giá trị thì kiểm tra theo đúng kiểu của trường.
//   - FieldType không nằm trong tập đóng → lỗi (dấu hiệu schema hỏng).
//
// Hàm thuần, không truy cập IO, an toàn gọi đồng thời.
func (d Definition) Validate(data map[string]interface{}) ValidationResult {
	var result ValidationResult

	allowed := make(map[string]struct{}, len(d.Fields))
	for _, f := range d.Fields {
		allowed[f.Key] = struct{}{}
	}
	for key := range data {
		if _, ok := allowed[key]; !ok {
			result.addError(key, "không có trong định nghĩa form")
		}
	}

	for _, field := range d.Fields {
		value, present := data[field.Key]

		// Chuỗi rỗng và null được coi như vắng mặt
		missing := !present || value == nil
		if s, ok := value.(string); ok && s == "" {
			missing = true
		}

		if missing {
			if field.Required {
				result.addError(field.Key, "là trường bắt buộc")
			}
			continue
		}

		switch field.Type {
		case FieldTypeText:
			if _, ok := value.(string); !ok {
				result.addError(field.Key, "phải là chuỗi")
			}
		case FieldTypeNumber:
			if !isValidNumber(value) {
				result.addError(field.Key, "phải là số hợp lệ")
			}
		case FieldTypeBoolean:
			if _, ok := value.(bool); !ok {
				result.addError(field.Key, "phải là boolean")
			}
		case FieldTypeDate:
			if !isValidDate(value) {
				result.addError(field.Key, "phải là giá trị ngày hợp lệ")
			}
		case FieldTypeSelect:
			s, ok := value.(string)
			if !ok {
				result.addError(field.Key, "phải là chuỗi")
				break
			}
			if len(field.Options) > 0 && !containsString(field.Options, s) {
				result.addError(field.Key, fmt.Sprintf("giá trị '%s' không thuộc danh sách lựa chọn", s))
			}
		default:
			result.addError(field.Key, fmt.Sprintf("kiểu trường '%s' không được hỗ trợ", field.Type))
		}
	}

	return result
}

// isValidNumber chấp nhận các kiểu số của Go, kiểu số BSON và json.Number.
// NaN và vô cực bị từ chối.
func isValidNumber(value interface{}) bool {
	switch v := value.(type) {
	case int, int32, int64:
		return true
	case float32:
		return !math.IsNaN(float64(v)) && !math.IsInf(float64(v), 0)
	case float64:
		return !math.IsNaN(v) && !math.IsInf(v, 0)
	case json.Number:
		f, err := v.Float64()
		if err != nil {
			return false
		}
		return !math.IsNaN(f) && !math.IsInf(f, 0)
	default:
		return false
	}
}

// isValidDate chấp nhận time.Time, primitive.DateTime, epoch-millis
// (số nguyên hoặc float nguyên) và chuỗi ngày parse được.
func isValidDate(value interface{}) bool {
	switch v := value.(type) {
	case time.Time:
		return true
	case primitive.DateTime:
		return true
	case int64:
		return true
	case int:
		return true
	case float64:
		return v == math.Trunc(v) && !math.IsNaN(v) && !math.IsInf(v, 0)
	case json.Number:
		if _, err := v.Int64(); err == nil {
			return true
		}
		return false
	case string:
		return parseDateString(v)
	default:
		return false
	}
}

// parseDateString thử các layout ngày thường gặp
func parseDateString(s string) bool {
	layouts := []string{
		time.RFC3339,
		"2006-01-02T15:04:05",
		"2006-01-02 15:04:05",
		"2006-01-02",
	}
	for _, layout := range layouts {
		if _, err := time.Parse(layout, s); err == nil {
			return true
		}
	}
	return false
}

func containsString(list []string, target string) bool {
	for _, item := range list {
		if item == target {
			return true
		}
	}
	return false
}
