// Package actiondto - các DTO thuộc domain action.
package actiondto

import (
	actionmodels "livechat/internal/api/action/models"
)

// TemplateCreateInput dữ liệu đầu vào khi tạo action template
type TemplateCreateInput struct {
	Name        string                  `json:"name" validate:"required,no_xss"`
	Description string                  `json:"description,omitempty" validate:"omitempty,no_xss"`
	Definition  actionmodels.Definition `json:"definition" validate:"required"`
	IsEnabled   *bool                   `json:"isEnabled,omitempty"`
}

// TemplateUpdateInput dữ liệu đầu vào khi cập nhật action template.
// Con trỏ nil nghĩa là giữ nguyên trường đó.
type TemplateUpdateInput struct {
	Name        *string                  `json:"name,omitempty" validate:"omitempty,no_xss"`
	Description *string                  `json:"description,omitempty" validate:"omitempty,no_xss"`
	Definition  *actionmodels.Definition `json:"definition,omitempty"`
	IsEnabled   *bool                    `json:"isEnabled,omitempty"`
}
