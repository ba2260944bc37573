package basehdl

import (
	"errors"
	"runtime/debug"

	"github.com/gofiber/fiber/v3"

	"livechat/internal/common"
	"livechat/internal/logger"
)

// JSONResponse trả về response dạng JSON với status code và data
func JSONResponse(c fiber.Ctx, statusCode int, data fiber.Map) error {
	c.Set("Content-Type", "application/json; charset=utf-8")
	return c.Status(statusCode).JSON(data)
}

// SafeHandler bọc handler với recover để tránh panic làm chết server.
// Nếu có panic, log lại stack trace và trả về lỗi 500.
func SafeHandler(handler func(c fiber.Ctx) error) fiber.Handler {
	return func(c fiber.Ctx) error {
		var err error
		func() {
			defer func() {
				if r := recover(); r != nil {
					logger.GetAppLogger().WithFields(map[string]interface{}{
						"panic": r,
						"path":  c.Path(),
						"stack": string(debug.Stack()),
					}).Error("Panic trong handler")
					err = JSONResponse(c, common.StatusInternalServerError, fiber.Map{
						"code":    common.ErrCodeInternalServer.Code,
						"message": common.MsgInternalError,
						"status":  "error",
					})
				}
			}()
			err = handler(c)
		}()
		return err
	}
}

// HandleResponse xử lý response chung cho tất cả các handler.
// Nếu err là *common.Error thì trả về đúng status code và chi tiết lỗi,
// ngược lại trả về envelope thành công {code, message, data, status}.
func HandleResponse(c fiber.Ctx, data interface{}, err error) error {
	if err != nil {
		var customErr *common.Error
		if errors.As(err, &customErr) {
			response := fiber.Map{
				"code":    customErr.Code,
				"message": customErr.Message,
				"status":  "error",
			}
			if customErr.Details != nil {
				response["details"] = customErr.Details
			}
			return JSONResponse(c, customErr.StatusCode, response)
		}

		// Lỗi không xác định
		return JSONResponse(c, common.StatusInternalServerError, fiber.Map{
			"code":    common.ErrCodeInternalServer.Code,
			"message": err.Error(),
			"status":  "error",
		})
	}

	return JSONResponse(c, common.StatusOK, fiber.Map{
		"code":    common.StatusOK,
		"message": common.MsgSuccess,
		"data":    data,
		"status":  "success",
	})
}

// HandleCreatedResponse giống HandleResponse nhưng trả về 201 khi thành công.
func HandleCreatedResponse(c fiber.Ctx, data interface{}, err error) error {
	if err != nil {
		return HandleResponse(c, nil, err)
	}
	return JSONResponse(c, common.StatusCreated, fiber.Map{
		"code":    common.StatusCreated,
		"message": common.MsgSuccess,
		"data":    data,
		"status":  "success",
	})
}
