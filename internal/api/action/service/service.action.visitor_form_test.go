package actionsvc

import (
	"context"
	"testing"

	"livechat/internal/common"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestTranslateFormRequestLookupError - chỉ NotFound mới thành BadRequest;
// lỗi hạ tầng (timeout, mất kết nối) phải giữ nguyên, không đổ oan cho client
func TestTranslateFormRequestLookupError(t *testing.T) {
	t.Run("NotFound thành BadRequest không phải form request", func(t *testing.T) {
		got := translateFormRequestLookupError(common.ErrNotFound)
		assert.ErrorIs(t, got, common.ErrNotFormRequestMessage)

		var customErr *common.Error
		require.ErrorAs(t, got, &customErr)
		assert.Equal(t, common.StatusBadRequest, customErr.StatusCode)
	})

	t.Run("Lỗi nghiệp vụ khác giữ nguyên status", func(t *testing.T) {
		infra := common.NewError(common.ErrCodeDatabase, "Kết nối database thất bại", common.StatusInternalServerError, nil)
		got := translateFormRequestLookupError(infra)

		var customErr *common.Error
		require.ErrorAs(t, got, &customErr)
		assert.Equal(t, common.StatusInternalServerError, customErr.StatusCode)
		assert.NotErrorIs(t, got, common.ErrNotFormRequestMessage)
	})

	t.Run("Lỗi driver thô không bị dịch thành BadRequest", func(t *testing.T) {
		got := translateFormRequestLookupError(context.DeadlineExceeded)

		assert.NotErrorIs(t, got, common.ErrNotFormRequestMessage)
		var customErr *common.Error
		require.ErrorAs(t, got, &customErr)
		assert.Equal(t, common.StatusInternalServerError, customErr.StatusCode)
	})
}
