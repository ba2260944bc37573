// Package common - test chuyển đổi lỗi MongoDB và nhận diện duplicate key.
package common

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"go.mongodb.org/mongo-driver/mongo"
)

// duplicateWriteError tạo một WriteException duplicate key giống lỗi driver trả về
func duplicateWriteError() error {
	return mongo.WriteException{
		WriteErrors: mongo.WriteErrors{
			{Code: 11000, Message: "E11000 duplicate key error collection: livechat.action_submissions index: uniq_formRequestMessageId"},
		},
	}
}

func TestConvertMongoError_Nil(t *testing.T) {
	assert.Nil(t, ConvertMongoError(nil))
}

func TestConvertMongoError_DuplicateKey(t *testing.T) {
	err := ConvertMongoError(duplicateWriteError())
	assert.True(t, errors.Is(err, ErrMongoDuplicate), "duplicate key phải được chuyển thành ErrMongoDuplicate")

	var customErr *Error
	assert.True(t, errors.As(err, &customErr))
	assert.Equal(t, StatusConflict, customErr.StatusCode)
}

func TestConvertMongoError_Idempotent(t *testing.T) {
	// Convert hai lần không được làm thay đổi lỗi: service và handler
	// có thể cùng gọi ConvertMongoError trên một chuỗi lỗi
	once := ConvertMongoError(duplicateWriteError())
	twice := ConvertMongoError(once)
	assert.Equal(t, once, twice)

	notFound := ConvertMongoError(ErrNotFound)
	assert.True(t, errors.Is(notFound, ErrNotFound), "ErrNotFound phải được giữ nguyên")
}

func TestConvertMongoError_LoiKhongXacDinh(t *testing.T) {
	err := ConvertMongoError(fmt.Errorf("lỗi lạ"))
	var customErr *Error
	assert.True(t, errors.As(err, &customErr))
	assert.Equal(t, StatusInternalServerError, customErr.StatusCode)
}

func TestIsDuplicateError(t *testing.T) {
	assert.False(t, IsDuplicateError(nil))
	assert.False(t, IsDuplicateError(ErrNotFound))

	// Nhận diện cả lỗi thô của driver lẫn lỗi đã convert
	assert.True(t, IsDuplicateError(duplicateWriteError()))
	assert.True(t, IsDuplicateError(ConvertMongoError(duplicateWriteError())))
	assert.True(t, IsDuplicateError(ErrMongoDuplicate))
	assert.True(t, IsDuplicateError(ErrDuplicate))
}

func TestError_Is(t *testing.T) {
	// errors.Is so sánh theo Code + Message, cho phép service trả về
	// sentinel và coordinator kiểm tra bằng errors.Is
	clone := NewError(ErrCodeBusinessConflict, "Hội thoại đang có một form request chưa được trả lời", StatusConflict, nil)
	assert.True(t, errors.Is(clone, ErrFormRequestPending))
	assert.False(t, errors.Is(ErrFormRequestPending, ErrFormAlreadySubmitted))
}

func TestNewError_GiuDetails(t *testing.T) {
	details := map[string]interface{}{"field": "age"}
	err := NewError(ErrCodeValidationSchema, "Dữ liệu không khớp schema", StatusBadRequest, details)

	var customErr *Error
	assert.True(t, errors.As(err, &customErr))
	assert.Equal(t, details, customErr.Details)
	assert.Equal(t, "Dữ liệu không khớp schema", customErr.Error())
}
