// Package chatdto - các DTO thuộc domain chat.
package chatdto

// ConversationCreateInput dữ liệu đầu vào khi mở hội thoại mới
type ConversationCreateInput struct {
	ProjectID   string `json:"projectId" validate:"required,object_id,exists=auth_projects"`
	VisitorName string `json:"visitorName,omitempty" validate:"omitempty,no_xss"`
}

// MessageCreateInput dữ liệu đầu vào khi gửi tin nhắn văn bản
type MessageCreateInput struct {
	Text string `json:"text" validate:"required,no_xss"`
}
