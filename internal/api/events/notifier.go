package events

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"livechat/internal/logger"
)

// ChatEvent là payload gửi tới các kênh realtime (websocket gateway, webhook, ...).
// EventID sinh mới cho mỗi lần phát để phía nhận có thể dedupe.
type ChatEvent struct {
	EventID        string      `json:"eventId"`
	Type           string      `json:"type"`
	ProjectID      string      `json:"projectId"`
	ConversationID string      `json:"conversationId"`
	Payload        interface{} `json:"payload"`
	EmittedAt      int64       `json:"emittedAt"`
}

// Các loại sự kiện chat phát ra từ form engine.
const (
	EventFormRequestSent = "form_request_sent"
	EventFormSubmitted   = "form_submitted"
)

// EventNotifier nhận sự kiện của form engine để đẩy ra ngoài (realtime, webhook, ...).
// Các implementation đăng ký qua RegisterNotifier; lỗi của notifier không chặn luồng chính.
type EventNotifier interface {
	Notify(ctx context.Context, event ChatEvent)
}

var (
	notifiers   []EventNotifier
	notifiersMu sync.RWMutex
)

// RegisterNotifier đăng ký một notifier. Gọi khi init.
func RegisterNotifier(n EventNotifier) {
	notifiersMu.Lock()
	defer notifiersMu.Unlock()
	notifiers = append(notifiers, n)
}

// EmitChatEvent phát sự kiện chat tới tất cả notifier đã đăng ký.
// Chạy async, panic được recover.
func EmitChatEvent(ctx context.Context, eventType, projectID, conversationID string, payload interface{}) {
	event := ChatEvent{
		EventID:        uuid.NewString(),
		Type:           eventType,
		ProjectID:      projectID,
		ConversationID: conversationID,
		Payload:        payload,
		EmittedAt:      time.Now().UnixMilli(),
	}

	notifiersMu.RLock()
	list := make([]EventNotifier, len(notifiers))
	copy(list, notifiers)
	notifiersMu.RUnlock()

	for _, n := range list {
		go func(target EventNotifier) {
			defer func() {
				if r := recover(); r != nil {
					logger.GetAppLogger().WithFields(logrus.Fields{
						"event_type": event.Type,
						"panic":      r,
					}).Error("Notifier panic khi xử lý chat event")
				}
			}()
			target.Notify(ctx, event)
		}(n)
	}
}

// LogNotifier ghi sự kiện chat vào app log. Đăng ký mặc định khi init
// để môi trường chưa gắn gateway realtime vẫn quan sát được luồng sự kiện.
type LogNotifier struct{}

// Notify ghi sự kiện vào log.
func (LogNotifier) Notify(ctx context.Context, event ChatEvent) {
	logger.GetAppLogger().WithFields(logrus.Fields{
		"event_id":        event.EventID,
		"event_type":      event.Type,
		"project_id":      event.ProjectID,
		"conversation_id": event.ConversationID,
	}).Info("Chat event")
}
