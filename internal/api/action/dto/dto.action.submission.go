// Package actiondto - DTO cho submission và form request.
package actiondto

// SubmissionCreateInput dữ liệu đầu vào khi agent tạo submission
type SubmissionCreateInput struct {
	TemplateID string                 `json:"templateId" validate:"required,object_id"`
	Data       map[string]interface{} `json:"data" validate:"required"`
}

// SubmissionUpdateInput dữ liệu đầu vào khi cập nhật submission
type SubmissionUpdateInput struct {
	Data map[string]interface{} `json:"data" validate:"required"`
}

// FormRequestSendInput dữ liệu đầu vào khi agent gửi form request
type FormRequestSendInput struct {
	TemplateID string `json:"templateId" validate:"required,object_id"`
	ExpiresAt  int64  `json:"expiresAt,omitempty" validate:"omitempty,gt=0"`
}

// VisitorSubmitInput dữ liệu đầu vào khi visitor trả lời form request
type VisitorSubmitInput struct {
	FormRequestMessageID string                 `json:"formRequestMessageId" validate:"required,object_id"`
	Data                 map[string]interface{} `json:"data" validate:"required"`
}
