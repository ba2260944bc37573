// Package models - schema định nghĩa form động thuộc domain action.
package models

// FieldType là kiểu dữ liệu của một trường trong form động.
// Tập kiểu là đóng: mọi giá trị ngoài danh sách này là schema hỏng.
type FieldType string

const (
	FieldTypeText    FieldType = "text"    // Chuỗi tự do
	FieldTypeNumber  FieldType = "number"  // Số (không chấp nhận NaN)
	FieldTypeBoolean FieldType = "boolean" // Chỉ chấp nhận bool thật sự
	FieldTypeDate    FieldType = "date"    // Giá trị ngày hoặc chuỗi ISO parse được
	FieldTypeSelect  FieldType = "select"  // Chuỗi thuộc danh sách options
)

// FieldSpec mô tả một trường trong definition của template.
// Key là tên trường dữ liệu, duy nhất trong một template.
type FieldSpec struct {
	Key      string    `json:"key" bson:"key" validate:"required,field_key"`
	Label    string    `json:"label" bson:"label" validate:"required"`
	Type     FieldType `json:"type" bson:"type" validate:"required,oneof=text number boolean date select"`
	Required bool      `json:"required" bson:"required"`
	Options  []string  `json:"options,omitempty" bson:"options,omitempty"`
}

// Definition là schema đầy đủ của một form động, giữ nguyên thứ tự các trường.
type Definition struct {
	Fields []FieldSpec `json:"fields" bson:"fields" validate:"required,min=1,dive"`
}

// Clone tạo bản sao sâu của Definition, dùng khi snapshot template
// vào message để các lần sửa template sau này không ảnh hưởng snapshot.
func (d Definition) Clone() Definition {
	fields := make([]FieldSpec, len(d.Fields))
	copy(fields, d.Fields)
	for i := range fields {
		if d.Fields[i].Options != nil {
			fields[i].Options = make([]string, len(d.Fields[i].Options))
			copy(fields[i].Options, d.Fields[i].Options)
		}
	}
	return Definition{Fields: fields}
}

// CheckDuplicateKeys trả về key đầu tiên bị trùng trong definition,
// chuỗi rỗng nếu không có key nào trùng.
func (d Definition) CheckDuplicateKeys() string {
	seen := make(map[string]struct{}, len(d.Fields))
	for _, f := range d.Fields {
		if _, ok := seen[f.Key]; ok {
			return f.Key
		}
		seen[f.Key] = struct{}{}
	}
	return ""
}
