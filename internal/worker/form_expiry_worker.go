package worker

import (
	"context"
	"time"

	chatsvc "livechat/internal/api/chat/service"
	"livechat/internal/logger"
	"livechat/internal/utility"
)

// FormExpiryWorker gỡ cờ awaitingReply của các form request đã quá hạn.
// Luồng gửi form request cũng tự gỡ lazily khi gặp request hết hạn, worker
// này chỉ dọn sớm để hội thoại không bị giữ cờ lâu hơn cần thiết.
type FormExpiryWorker struct {
	messageService *chatsvc.MessageService
	interval       time.Duration // Khoảng thời gian giữa các lần quét
}

// NewFormExpiryWorker tạo mới FormExpiryWorker
// Tham số:
//   - interval: Khoảng thời gian giữa các lần quét (tối thiểu 30 giây)
func NewFormExpiryWorker(interval time.Duration) (*FormExpiryWorker, error) {
	messageService, err := chatsvc.NewMessageService()
	if err != nil {
		return nil, err
	}

	if interval < 30*time.Second {
		interval = 1 * time.Minute // Mặc định 1 phút
	}

	return &FormExpiryWorker{
		messageService: messageService,
		interval:       interval,
	}, nil
}

// Start chạy vòng quét định kỳ cho đến khi context bị hủy
func (w *FormExpiryWorker) Start(ctx context.Context) {
	log := logger.GetAppLogger()

	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	log.WithFields(map[string]interface{}{
		"interval": w.interval.String(),
	}).Info("⏰ [FORM_EXPIRY] Starting Form Expiry Worker...")

	for {
		select {
		case <-ctx.Done():
			log.Info("⏰ [FORM_EXPIRY] Form Expiry Worker stopped")
			return
		case <-ticker.C:
			func() {
				defer func() {
					if r := recover(); r != nil {
						log.WithFields(map[string]interface{}{
							"panic": r,
						}).Error("⏰ [FORM_EXPIRY] Panic khi gỡ form request hết hạn, sẽ tiếp tục ở lần quét tiếp theo")
					}
				}()

				releasedCount, err := w.messageService.ReleaseExpiredFormRequests(ctx, utility.CurrentTimeInMilli())
				if err != nil {
					log.WithError(err).Error("⏰ [FORM_EXPIRY] Failed to release expired form requests")
					return
				}

				if releasedCount > 0 {
					log.WithFields(map[string]interface{}{
						"releasedCount": releasedCount,
					}).Info("⏰ [FORM_EXPIRY] Released expired form requests")
				}
				// releasedCount = 0 không log (giảm log noise)
			}()
		}
	}
}
