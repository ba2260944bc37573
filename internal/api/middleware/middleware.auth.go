// Package middleware - xác thực danh tính agent cho các route cần đăng nhập.
package middleware

import (
	"strings"
	"sync"
	"time"

	"github.com/gofiber/fiber/v3"
	"github.com/sirupsen/logrus"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"

	authmodels "livechat/internal/api/auth/models"
	authsvc "livechat/internal/api/auth/service"
	basehdl "livechat/internal/api/base/handler"
	"livechat/internal/common"
	"livechat/internal/logger"
	"livechat/internal/utility"
)

// AuthManager giữ các service và cache cho việc xác thực
type AuthManager struct {
	UserCRUD   *authsvc.UserService
	MemberCRUD *authsvc.MemberService
	Cache      *utility.Cache
}

var (
	authManagerInstance *AuthManager
	authManagerOnce     sync.Once
)

// GetAuthManager trả về instance duy nhất của AuthManager (singleton pattern)
func GetAuthManager() *AuthManager {
	authManagerOnce.Do(func() {
		var err error
		authManagerInstance, err = newAuthManager()
		if err != nil {
			panic(err)
		}
	})
	return authManagerInstance
}

func newAuthManager() (*AuthManager, error) {
	userService, err := authsvc.NewUserService()
	if err != nil {
		return nil, err
	}
	memberService, err := authsvc.NewMemberService()
	if err != nil {
		return nil, err
	}
	return &AuthManager{
		UserCRUD:   userService,
		MemberCRUD: memberService,
		Cache:      utility.NewCache(5*time.Minute, 10*time.Minute),
	}, nil
}

// AuthMiddleware xác thực agent qua Bearer token.
// Token do hệ thống auth bên ngoài cấp và đồng bộ vào field token của user;
// middleware chỉ tra cứu, không tự cấp phát.
func AuthMiddleware() fiber.Handler {
	authManager := GetAuthManager()

	return func(c fiber.Ctx) error {
		authHeader := c.Get("Authorization")
		if authHeader == "" {
			logger.GetAppLogger().WithFields(logrus.Fields{
				"path":   c.Path(),
				"method": c.Method(),
			}).Warn("Thiếu Authorization header")
			return basehdl.HandleResponse(c, nil, common.ErrTokenMissing)
		}

		parts := strings.Split(authHeader, " ")
		if len(parts) != 2 || parts[0] != "Bearer" {
			return basehdl.HandleResponse(c, nil, common.ErrTokenInvalid)
		}
		token := parts[1]

		var user authmodels.User
		if cached, found := authManager.Cache.Get("token:" + token); found {
			user = cached.(authmodels.User)
		} else {
			found, err := authManager.UserCRUD.FindOne(c.Context(), bson.M{"token": token}, nil)
			if err != nil {
				logger.GetAppLogger().WithFields(logrus.Fields{
					"path": c.Path(),
				}).Warn("Token không tồn tại")
				return basehdl.HandleResponse(c, nil, common.ErrTokenInvalid)
			}
			user = found
			authManager.Cache.Set("token:"+token, user)
		}

		if user.IsBlock {
			return basehdl.HandleResponse(c, nil, common.NewError(
				common.ErrCodeAuthCredentials,
				"Tài khoản đã bị khóa",
				common.StatusForbidden,
				nil,
			))
		}

		c.Locals("user_id", user.ID.Hex())
		c.Locals("user", user)
		return c.Next()
	}
}

// CallerID lấy ObjectID của user đã xác thực từ context.
// Trả về lỗi Unauthorized nếu middleware chưa chạy trên route này.
func CallerID(c fiber.Ctx) (primitive.ObjectID, error) {
	userIDStr, ok := c.Locals("user_id").(string)
	if !ok || userIDStr == "" {
		return primitive.NilObjectID, common.ErrUnauthorized
	}
	userID, err := utility.String2ObjectID(userIDStr)
	if err != nil {
		return primitive.NilObjectID, common.ErrUnauthorized
	}
	return userID, nil
}
