package utility

import (
	"fmt"
	"reflect"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// TransformStruct copy các field cùng tên từ DTO sang Model (dùng reflection).
// Tự động chuyển đổi string → primitive.ObjectID (và *string → *primitive.ObjectID)
// cho các field ID để DTO nhận hex string từ client còn Model giữ ObjectID.
// Field không có trong Model sẽ bị bỏ qua.
func TransformStruct(input interface{}, output interface{}) error {
	inVal := reflect.ValueOf(input)
	if inVal.Kind() == reflect.Ptr {
		inVal = inVal.Elem()
	}
	if inVal.Kind() != reflect.Struct {
		return fmt.Errorf("input phải là struct hoặc pointer đến struct")
	}

	outVal := reflect.ValueOf(output)
	if outVal.Kind() != reflect.Ptr {
		return fmt.Errorf("output phải là pointer đến struct")
	}
	outVal = outVal.Elem()
	if outVal.Kind() != reflect.Struct {
		return fmt.Errorf("output phải là pointer đến struct")
	}

	inType := inVal.Type()
	for i := 0; i < inVal.NumField(); i++ {
		inField := inVal.Field(i)
		if !inField.CanInterface() {
			continue
		}
		name := inType.Field(i).Name

		outField := outVal.FieldByName(name)
		if !outField.IsValid() || !outField.CanSet() {
			continue
		}

		converted, err := convertFieldValue(inField, outField.Type())
		if err != nil {
			return fmt.Errorf("field %s: %w", name, err)
		}
		if converted.IsValid() {
			outField.Set(converted)
		}
	}

	return nil
}

// convertFieldValue chuyển đổi giá trị field sang kiểu đích.
// Trả về Value không hợp lệ (zero Value) nếu không cần set (ví dụ nil pointer).
func convertFieldValue(in reflect.Value, outType reflect.Type) (reflect.Value, error) {
	objectIDType := reflect.TypeOf(primitive.ObjectID{})

	// string → ObjectID
	if in.Kind() == reflect.String && outType == objectIDType {
		s := in.String()
		if s == "" {
			return reflect.Value{}, nil
		}
		oid, err := primitive.ObjectIDFromHex(s)
		if err != nil {
			return reflect.Value{}, fmt.Errorf("'%s' không phải ObjectID hợp lệ", s)
		}
		return reflect.ValueOf(oid), nil
	}

	// *string → *ObjectID
	if in.Kind() == reflect.Ptr && outType.Kind() == reflect.Ptr &&
		in.Type().Elem().Kind() == reflect.String && outType.Elem() == objectIDType {
		if in.IsNil() {
			return reflect.Value{}, nil
		}
		s := in.Elem().String()
		if s == "" {
			return reflect.Value{}, nil
		}
		oid, err := primitive.ObjectIDFromHex(s)
		if err != nil {
			return reflect.Value{}, fmt.Errorf("'%s' không phải ObjectID hợp lệ", s)
		}
		return reflect.ValueOf(&oid), nil
	}

	if in.Type().AssignableTo(outType) {
		return in, nil
	}
	if in.Type().ConvertibleTo(outType) {
		return in.Convert(outType), nil
	}

	// Kiểu không tương thích và không có quy tắc chuyển đổi → bỏ qua
	return reflect.Value{}, nil
}
