// Package actionsvc - test kiểm tra definition trước khi ghi template.
package actionsvc

import (
	"errors"
	"strings"
	"testing"

	actionmodels "livechat/internal/api/action/models"
	"livechat/internal/common"
)

func TestValidateDefinition(t *testing.T) {
	s := &TemplateService{}

	cases := []struct {
		name       string
		definition actionmodels.Definition
		wantErr    string // chuỗi con trong message lỗi, rỗng = hợp lệ
	}{
		{
			name:       "definition rỗng",
			definition: actionmodels.Definition{},
			wantErr:    "ít nhất một trường",
		},
		{
			name: "key trùng",
			definition: actionmodels.Definition{Fields: []actionmodels.FieldSpec{
				{Key: "a", Label: "A", Type: actionmodels.FieldTypeText},
				{Key: "a", Label: "A2", Type: actionmodels.FieldTypeNumber},
			}},
			wantErr: "bị trùng",
		},
		{
			name: "select thiếu options",
			definition: actionmodels.Definition{Fields: []actionmodels.FieldSpec{
				{Key: "plan", Label: "Gói", Type: actionmodels.FieldTypeSelect},
			}},
			wantErr: "options",
		},
		{
			name: "definition hợp lệ",
			definition: actionmodels.Definition{Fields: []actionmodels.FieldSpec{
				{Key: "name", Label: "Tên", Type: actionmodels.FieldTypeText, Required: true},
				{Key: "plan", Label: "Gói", Type: actionmodels.FieldTypeSelect, Options: []string{"free"}},
			}},
			wantErr: "",
		},
	}

	for _, tc := range cases {
		err := s.validateDefinition(tc.definition)
		if tc.wantErr == "" {
			if err != nil {
				t.Errorf("%s: mong đợi hợp lệ, nhận lỗi %v", tc.name, err)
			}
			continue
		}
		if err == nil {
			t.Errorf("%s: mong đợi lỗi chứa '%s', nhận nil", tc.name, tc.wantErr)
			continue
		}
		var customErr *common.Error
		if !errors.As(err, &customErr) {
			t.Errorf("%s: lỗi phải là *common.Error, nhận %T", tc.name, err)
			continue
		}
		if customErr.StatusCode != common.StatusBadRequest {
			t.Errorf("%s: status = %d, mong đợi 400", tc.name, customErr.StatusCode)
		}
		if !strings.Contains(customErr.Message, tc.wantErr) {
			t.Errorf("%s: message '%s' không chứa '%s'", tc.name, customErr.Message, tc.wantErr)
		}
	}
}
