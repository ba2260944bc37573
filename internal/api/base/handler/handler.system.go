package basehdl

import (
	"context"
	"time"

	"github.com/gofiber/fiber/v3"
	"go.mongodb.org/mongo-driver/mongo/readpref"

	"livechat/internal/common"
	"livechat/internal/global"
	"livechat/internal/utility"
)

// SystemHandler xử lý các endpoint hệ thống (health check)
type SystemHandler struct{}

// NewSystemHandler tạo mới SystemHandler
func NewSystemHandler() *SystemHandler {
	return &SystemHandler{}
}

// HandleHealth kiểm tra tình trạng hệ thống.
// Ping MongoDB, nếu không kết nối được thì trả về 503.
func (h *SystemHandler) HandleHealth(c fiber.Ctx) error {
	health := fiber.Map{
		"status": "healthy",
		"time":   utility.CurrentTimeInMilli(),
	}

	ctx, cancel := context.WithTimeout(c.Context(), 5*time.Second)
	defer cancel()

	if global.MongoDB_Session == nil {
		health["status"] = "degraded"
		health["mongodb"] = "not initialized"
		return JSONResponse(c, common.StatusServiceUnavailable, health)
	}

	if err := global.MongoDB_Session.Ping(ctx, readpref.Primary()); err != nil {
		health["status"] = "degraded"
		health["mongodb"] = err.Error()
		return JSONResponse(c, common.StatusServiceUnavailable, health)
	}

	health["mongodb"] = "connected"
	return JSONResponse(c, common.StatusOK, health)
}
