// Package router - định tuyến API.
package router

import (
	"fmt"

	"github.com/gofiber/fiber/v3"

	actionhdl "livechat/internal/api/action/handler"
	basehdl "livechat/internal/api/base/handler"
	chathdl "livechat/internal/api/chat/handler"
	"livechat/internal/api/middleware"
	"livechat/internal/global"
	"livechat/internal/metrics"
)

// ============================================================================
// LƯU Ý: BUG FIBER V3 - CÁCH ĐĂNG KÝ MIDDLEWARE
//
// Fiber v3 không gọi middleware khi truyền trực tiếp vào route:
//   router.Get("/path", authMiddleware, handler)  ← middleware bị bỏ qua!
//
// Phải đăng ký qua group .Use():
//   RegisterRouteWithMiddleware(router, "/prefix", "GET", "/path",
//       []fiber.Handler{authMiddleware}, handler)
// ============================================================================

// RoutePrefix chứa các prefix cơ bản cho API
type RoutePrefix struct {
	Base string // Prefix cơ bản (/api)
	V1   string // Prefix cho API version 1 (/api/v1)
}

// NewRoutePrefix tạo mới RoutePrefix với các giá trị mặc định
func NewRoutePrefix() RoutePrefix {
	base := "/api"
	return RoutePrefix{
		Base: base,
		V1:   base + "/v1",
	}
}

// Router quản lý việc định tuyến cho API
type Router struct {
	app    *fiber.App
	prefix RoutePrefix
}

// NewRouter tạo mới một instance của Router
func NewRouter(app *fiber.App) *Router {
	return &Router{
		app:    app,
		prefix: NewRoutePrefix(),
	}
}

// RegisterRouteWithMiddleware đăng ký route với middleware qua .Use()
// (cách duy nhất hoạt động đúng trong Fiber v3, xem comment đầu file)
func RegisterRouteWithMiddleware(router fiber.Router, prefix string, method string, path string, middlewares []fiber.Handler, handler fiber.Handler) {
	routeGroup := router.Group(prefix)
	for _, mw := range middlewares {
		routeGroup.Use(mw)
	}

	switch method {
	case "GET":
		routeGroup.Get(path, handler)
	case "POST":
		routeGroup.Post(path, handler)
	case "PUT":
		routeGroup.Put(path, handler)
	case "DELETE":
		routeGroup.Delete(path, handler)
	}
}

// SetupRoutes đăng ký toàn bộ route của hệ thống
func (r *Router) SetupRoutes() error {
	templateHandler, err := actionhdl.NewTemplateHandler()
	if err != nil {
		return fmt.Errorf("failed to create template handler: %v", err)
	}
	submissionHandler, err := actionhdl.NewSubmissionHandler()
	if err != nil {
		return fmt.Errorf("failed to create submission handler: %v", err)
	}
	formRequestHandler, err := actionhdl.NewFormRequestHandler()
	if err != nil {
		return fmt.Errorf("failed to create form request handler: %v", err)
	}
	visitorFormHandler, err := actionhdl.NewVisitorFormHandler()
	if err != nil {
		return fmt.Errorf("failed to create visitor form handler: %v", err)
	}
	conversationHandler, err := chathdl.NewConversationHandler()
	if err != nil {
		return fmt.Errorf("failed to create conversation handler: %v", err)
	}
	messageHandler, err := chathdl.NewMessageHandler()
	if err != nil {
		return fmt.Errorf("failed to create message handler: %v", err)
	}
	systemHandler := basehdl.NewSystemHandler()

	v1 := r.app.Group(r.prefix.V1)
	auth := []fiber.Handler{middleware.AuthMiddleware()}
	public := []fiber.Handler{}

	// System
	RegisterRouteWithMiddleware(v1, "/system", "GET", "/health", public, basehdl.SafeHandler(systemHandler.HandleHealth))
	if global.ServerConfig != nil && global.ServerConfig.Metrics_Enabled {
		r.app.Get("/metrics", metrics.Handler())
	}

	// Action templates (agent, quyền kiểm tra trong service)
	RegisterRouteWithMiddleware(v1, "/projects", "POST", "/:projectId/action-templates", auth, basehdl.SafeHandler(templateHandler.HandleCreate))
	RegisterRouteWithMiddleware(v1, "/projects", "GET", "/:projectId/action-templates", auth, basehdl.SafeHandler(templateHandler.HandleList))
	RegisterRouteWithMiddleware(v1, "/projects", "GET", "/:projectId/action-templates/:seq", auth, basehdl.SafeHandler(templateHandler.HandleGet))
	RegisterRouteWithMiddleware(v1, "/projects", "PUT", "/:projectId/action-templates/:seq", auth, basehdl.SafeHandler(templateHandler.HandleUpdate))
	RegisterRouteWithMiddleware(v1, "/projects", "DELETE", "/:projectId/action-templates/:seq", auth, basehdl.SafeHandler(templateHandler.HandleDelete))
	RegisterRouteWithMiddleware(v1, "/projects", "POST", "/:projectId/action-templates/:seq/toggle", auth, basehdl.SafeHandler(templateHandler.HandleToggle))

	// Conversations (agent)
	RegisterRouteWithMiddleware(v1, "/projects", "GET", "/:projectId/conversations", auth, basehdl.SafeHandler(conversationHandler.HandleListByProject))
	RegisterRouteWithMiddleware(v1, "/conversations", "GET", "/:conversationId", auth, basehdl.SafeHandler(conversationHandler.HandleGet))
	RegisterRouteWithMiddleware(v1, "/conversations", "GET", "/:conversationId/messages", auth, basehdl.SafeHandler(messageHandler.HandleList))
	RegisterRouteWithMiddleware(v1, "/conversations", "POST", "/:conversationId/messages", auth, basehdl.SafeHandler(messageHandler.HandleSend))

	// Form requests + submissions (agent)
	RegisterRouteWithMiddleware(v1, "/conversations", "POST", "/:conversationId/form-requests", auth, basehdl.SafeHandler(formRequestHandler.HandleSend))
	RegisterRouteWithMiddleware(v1, "/conversations", "POST", "/:conversationId/submissions", auth, basehdl.SafeHandler(submissionHandler.HandleCreate))
	RegisterRouteWithMiddleware(v1, "/conversations", "GET", "/:conversationId/submissions", auth, basehdl.SafeHandler(submissionHandler.HandleList))
	RegisterRouteWithMiddleware(v1, "/submissions", "PUT", "/:id", auth, basehdl.SafeHandler(submissionHandler.HandleUpdate))
	RegisterRouteWithMiddleware(v1, "/submissions", "DELETE", "/:id", auth, basehdl.SafeHandler(submissionHandler.HandleDelete))

	// Visitor (không qua xác thực agent, danh tính lấy từ hội thoại)
	RegisterRouteWithMiddleware(v1, "/visitor", "POST", "/conversations", public, basehdl.SafeHandler(conversationHandler.HandleOpen))
	RegisterRouteWithMiddleware(v1, "/visitor", "POST", "/conversations/:conversationId/messages", public, basehdl.SafeHandler(messageHandler.HandleVisitorSend))
	RegisterRouteWithMiddleware(v1, "/visitor", "POST", "/conversations/:conversationId/form-submissions", public, basehdl.SafeHandler(visitorFormHandler.HandleSubmit))

	return nil
}
