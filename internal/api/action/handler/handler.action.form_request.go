// Package actionhdl - handler gửi form request và tiếp nhận trả lời từ visitor.
package actionhdl

import (
	"fmt"

	"github.com/gofiber/fiber/v3"

	actiondto "livechat/internal/api/action/dto"
	actionsvc "livechat/internal/api/action/service"
	authsvc "livechat/internal/api/auth/service"
	basehdl "livechat/internal/api/base/handler"
	"livechat/internal/api/middleware"
	"livechat/internal/common"
	"livechat/internal/logger"
	"livechat/internal/utility"
)

// FormRequestHandler xử lý việc agent đẩy form vào hội thoại
type FormRequestHandler struct {
	FormRequestService *actionsvc.FormRequestService
}

// NewFormRequestHandler tạo mới FormRequestHandler
func NewFormRequestHandler() (*FormRequestHandler, error) {
	memberService, err := authsvc.NewMemberService()
	if err != nil {
		return nil, fmt.Errorf("failed to create member service: %v", err)
	}
	templateService, err := actionsvc.NewTemplateService(memberService)
	if err != nil {
		return nil, fmt.Errorf("failed to create template service: %v", err)
	}
	formRequestService, err := actionsvc.NewFormRequestService(templateService, memberService)
	if err != nil {
		return nil, fmt.Errorf("failed to create form request service: %v", err)
	}
	return &FormRequestHandler{FormRequestService: formRequestService}, nil
}

// HandleSend agent đẩy một form request vào hội thoại
// POST /api/v1/conversations/:conversationId/form-requests
func (h *FormRequestHandler) HandleSend(c fiber.Ctx) error {
	callerID, err := middleware.CallerID(c)
	if err != nil {
		return basehdl.HandleResponse(c, nil, err)
	}
	conversationID, err := basehdl.ParseObjectIDParam(c, "conversationId")
	if err != nil {
		return basehdl.HandleResponse(c, nil, err)
	}

	input := new(actiondto.FormRequestSendInput)
	if err := basehdl.ParseBody(c, input); err != nil {
		return basehdl.HandleResponse(c, nil, err)
	}
	if err := basehdl.ValidateStruct(input); err != nil {
		return basehdl.HandleResponse(c, nil, err)
	}
	templateID, err := utility.String2ObjectID(input.TemplateID)
	if err != nil {
		return basehdl.HandleResponse(c, nil, common.NewError(common.ErrCodeValidationFormat, err.Error(), common.StatusBadRequest, err))
	}

	message, err := h.FormRequestService.Send(c.Context(), conversationID, templateID, callerID, input.ExpiresAt)
	if err != nil {
		return basehdl.HandleResponse(c, nil, err)
	}

	logger.LogAction("send_form_request", c, map[string]interface{}{
		"conversation_id": conversationID.Hex(),
		"template_id":     input.TemplateID,
		"message_id":      message.ID.Hex(),
	})
	return basehdl.HandleCreatedResponse(c, message, nil)
}
