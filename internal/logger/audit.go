package logger

import (
	"time"

	"github.com/gofiber/fiber/v3"
	"github.com/sirupsen/logrus"
)

// AuditAction mô tả một hành động cần ghi audit trail
// (ví dụ: "template_create", "form_request_send", "visitor_form_submit")
type AuditAction struct {
	Action       string                 `json:"action"`        // Tên hành động
	UserID       string                 `json:"user_id"`       // ID người dùng thực hiện (rỗng với visitor path)
	ResourceID   string                 `json:"resource_id"`   // ID tài nguyên bị ảnh hưởng
	ResourceType string                 `json:"resource_type"` // Loại tài nguyên (template, submission, message)
	IP           string                 `json:"ip"`            // IP address
	Details      map[string]interface{} `json:"details"`       // Chi tiết bổ sung
	Timestamp    time.Time              `json:"timestamp"`     // Thời gian
}

// LogAction ghi một hành động audit từ trong handler
func LogAction(action string, c fiber.Ctx, details map[string]interface{}) {
	audit := AuditAction{
		Action:    action,
		IP:        c.IP(),
		Details:   details,
		Timestamp: time.Now(),
	}

	// Lấy user ID từ context nếu có
	if userID := c.Locals("user_id"); userID != nil {
		if uid, ok := userID.(string); ok {
			audit.UserID = uid
		}
	}

	GetAuditLogger().WithFields(logrus.Fields{
		"action":    audit.Action,
		"user_id":   audit.UserID,
		"ip":        audit.IP,
		"details":   audit.Details,
		"timestamp": audit.Timestamp,
	}).Info("audit")
}
