// Package models - test validator strict cho form động.
package models

import (
	"encoding/json"
	"math"
	"strings"
	"testing"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

func sampleDefinition() Definition {
	return Definition{Fields: []FieldSpec{
		{Key: "full_name", Label: "Họ tên", Type: FieldTypeText, Required: true},
		{Key: "age", Label: "Tuổi", Type: FieldTypeNumber},
		{Key: "subscribed", Label: "Nhận tin", Type: FieldTypeBoolean},
		{Key: "birthday", Label: "Ngày sinh", Type: FieldTypeDate},
		{Key: "plan", Label: "Gói dịch vụ", Type: FieldTypeSelect, Options: []string{"free", "pro"}},
	}}
}

func TestValidate_DataHopLe(t *testing.T) {
	d := sampleDefinition()
	result := d.Validate(map[string]interface{}{
		"full_name":  "Nguyễn Văn A",
		"age":        float64(30),
		"subscribed": true,
		"birthday":   "1995-04-01",
		"plan":       "pro",
	})
	if !result.Valid() {
		t.Fatalf("dữ liệu hợp lệ nhưng validate trả về lỗi: %s", result.Error())
	}
}

func TestValidate_KeyLaBiTuChoi(t *testing.T) {
	d := sampleDefinition()
	result := d.Validate(map[string]interface{}{
		"full_name": "A",
		"unknown":   "x",
	})
	if result.Valid() {
		t.Fatal("key lạ phải bị từ chối ở chế độ strict")
	}
	if !strings.Contains(result.Error(), "unknown") {
		t.Errorf("lỗi phải nêu tên key lạ, nhận được: %s", result.Error())
	}
}

func TestValidate_RequiredVangMat(t *testing.T) {
	d := sampleDefinition()
	cases := map[string]map[string]interface{}{
		"vắng mặt":    {},
		"null":        {"full_name": nil},
		"chuỗi rỗng":  {"full_name": ""},
	}
	for name, data := range cases {
		if d.Validate(data).Valid() {
			t.Errorf("trường required %s phải bị từ chối", name)
		}
	}
}

func TestValidate_OptionalVangMatDuocBoQua(t *testing.T) {
	d := sampleDefinition()
	result := d.Validate(map[string]interface{}{
		"full_name": "A",
		"age":       nil,
		"birthday":  "",
	})
	if !result.Valid() {
		t.Fatalf("trường optional vắng mặt/null/rỗng phải được bỏ qua, lỗi: %s", result.Error())
	}
}

func TestValidate_KiemTraTongHopKhongDungSom(t *testing.T) {
	// Validate là total: mọi lỗi đều được gom, không dừng ở lỗi đầu tiên
	d := sampleDefinition()
	result := d.Validate(map[string]interface{}{
		"age":        "không phải số",
		"subscribed": 1,
		"extra":      true,
	})
	if len(result.Errors) < 4 {
		// thiếu full_name + age sai kiểu + subscribed sai kiểu + key lạ
		t.Errorf("mong đợi ít nhất 4 lỗi, nhận được %d: %s", len(result.Errors), result.Error())
	}
}

func TestValidate_KieuNumber(t *testing.T) {
	d := Definition{Fields: []FieldSpec{{Key: "n", Label: "N", Type: FieldTypeNumber}}}
	valid := []interface{}{int(1), int32(2), int64(3), float32(4.5), float64(-6.7), json.Number("8.9")}
	for _, v := range valid {
		if r := d.Validate(map[string]interface{}{"n": v}); !r.Valid() {
			t.Errorf("giá trị số %v (%T) phải hợp lệ: %s", v, v, r.Error())
		}
	}
	invalid := []interface{}{"12", true, math.NaN(), math.Inf(1), json.Number("abc"), []int{1}}
	for _, v := range invalid {
		if d.Validate(map[string]interface{}{"n": v}).Valid() {
			t.Errorf("giá trị %v (%T) phải bị từ chối cho kiểu number", v, v)
		}
	}
}

func TestValidate_KieuBoolean(t *testing.T) {
	d := Definition{Fields: []FieldSpec{{Key: "b", Label: "B", Type: FieldTypeBoolean}}}
	if r := d.Validate(map[string]interface{}{"b": false}); !r.Valid() {
		t.Errorf("bool thật sự phải hợp lệ: %s", r.Error())
	}
	// Các giá trị "truthy" không phải bool đều bị từ chối
	for _, v := range []interface{}{1, 0, "true", "false", float64(1)} {
		if d.Validate(map[string]interface{}{"b": v}).Valid() {
			t.Errorf("giá trị %v (%T) phải bị từ chối cho kiểu boolean", v, v)
		}
	}
}

func TestValidate_KieuDate(t *testing.T) {
	d := Definition{Fields: []FieldSpec{{Key: "d", Label: "D", Type: FieldTypeDate}}}
	valid := []interface{}{
		time.Now(),
		primitive.NewDateTimeFromTime(time.Now()),
		int64(1700000000000),
		int(1700000000),
		float64(1700000000000), // epoch millis dạng float nguyên
		json.Number("1700000000000"),
		"2024-01-15",
		"2024-01-15T10:30:00Z",
		"2024-01-15T10:30:00",
		"2024-01-15 10:30:00",
	}
	for _, v := range valid {
		if r := d.Validate(map[string]interface{}{"d": v}); !r.Valid() {
			t.Errorf("giá trị ngày %v (%T) phải hợp lệ: %s", v, v, r.Error())
		}
	}
	invalid := []interface{}{
		"hôm qua",
		"15/01/2024",
		float64(1700000000000.5), // float có phần thập phân không phải epoch millis
		json.Number("1.5"),
		true,
	}
	for _, v := range invalid {
		if d.Validate(map[string]interface{}{"d": v}).Valid() {
			t.Errorf("giá trị %v (%T) phải bị từ chối cho kiểu date", v, v)
		}
	}
}

func TestValidate_KieuSelect(t *testing.T) {
	d := Definition{Fields: []FieldSpec{{Key: "s", Label: "S", Type: FieldTypeSelect, Options: []string{"a", "b"}}}}
	if r := d.Validate(map[string]interface{}{"s": "a"}); !r.Valid() {
		t.Errorf("giá trị thuộc options phải hợp lệ: %s", r.Error())
	}
	if d.Validate(map[string]interface{}{"s": "c"}).Valid() {
		t.Error("giá trị ngoài options phải bị từ chối")
	}
	if d.Validate(map[string]interface{}{"s": 1}).Valid() {
		t.Error("select nhận giá trị không phải chuỗi phải bị từ chối")
	}
}

func TestValidate_KieuTruongKhongHoTro(t *testing.T) {
	// FieldType ngoài tập đóng là schema hỏng, phải fail cứng chứ không bỏ qua
	d := Definition{Fields: []FieldSpec{{Key: "x", Label: "X", Type: FieldType("email")}}}
	result := d.Validate(map[string]interface{}{"x": "a@b.c"})
	if result.Valid() {
		t.Fatal("kiểu trường không được hỗ trợ phải gây lỗi validate")
	}
	if !strings.Contains(result.Error(), "email") {
		t.Errorf("lỗi phải nêu tên kiểu hỏng, nhận được: %s", result.Error())
	}
}

func TestValidationResult_Error(t *testing.T) {
	var r ValidationResult
	if r.Error() != "" {
		t.Error("kết quả hợp lệ phải trả về chuỗi lỗi rỗng")
	}
	r.addError("age", "phải là số hợp lệ")
	r.addError("", "lỗi cấp schema")
	msg := r.Error()
	if !strings.Contains(msg, "age") || !strings.Contains(msg, "lỗi cấp schema") {
		t.Errorf("chuỗi lỗi thiếu thông tin: %s", msg)
	}
}
