// Package actionhdl - handler tiếp nhận form submission từ visitor.
package actionhdl

import (
	"fmt"

	"github.com/gofiber/fiber/v3"

	actiondto "livechat/internal/api/action/dto"
	actionsvc "livechat/internal/api/action/service"
	authsvc "livechat/internal/api/auth/service"
	basehdl "livechat/internal/api/base/handler"
	"livechat/internal/common"
	"livechat/internal/utility"
)

// VisitorFormHandler xử lý đường visitor trả lời form request.
// Không qua middleware xác thực agent: danh tính visitor được lấy
// từ chính hội thoại.
type VisitorFormHandler struct {
	VisitorFormService *actionsvc.VisitorFormService
}

// NewVisitorFormHandler tạo mới VisitorFormHandler
func NewVisitorFormHandler() (*VisitorFormHandler, error) {
	memberService, err := authsvc.NewMemberService()
	if err != nil {
		return nil, fmt.Errorf("failed to create member service: %v", err)
	}
	templateService, err := actionsvc.NewTemplateService(memberService)
	if err != nil {
		return nil, fmt.Errorf("failed to create template service: %v", err)
	}
	submissionService, err := actionsvc.NewSubmissionService(templateService, memberService)
	if err != nil {
		return nil, fmt.Errorf("failed to create submission service: %v", err)
	}
	visitorFormService, err := actionsvc.NewVisitorFormService(templateService, submissionService)
	if err != nil {
		return nil, fmt.Errorf("failed to create visitor form service: %v", err)
	}
	return &VisitorFormHandler{VisitorFormService: visitorFormService}, nil
}

// HandleSubmit visitor gửi dữ liệu đã điền cho một form request
// POST /api/v1/visitor/conversations/:conversationId/form-submissions
func (h *VisitorFormHandler) HandleSubmit(c fiber.Ctx) error {
	conversationID, err := basehdl.ParseObjectIDParam(c, "conversationId")
	if err != nil {
		return basehdl.HandleResponse(c, nil, err)
	}

	input := new(actiondto.VisitorSubmitInput)
	if err := basehdl.ParseBody(c, input); err != nil {
		return basehdl.HandleResponse(c, nil, err)
	}
	if err := basehdl.ValidateStruct(input); err != nil {
		return basehdl.HandleResponse(c, nil, err)
	}
	messageID, err := utility.String2ObjectID(input.FormRequestMessageID)
	if err != nil {
		return basehdl.HandleResponse(c, nil, common.NewError(common.ErrCodeValidationFormat, err.Error(), common.StatusBadRequest, err))
	}

	result, err := h.VisitorFormService.Submit(c.Context(), conversationID, messageID, input.Data)
	if err != nil {
		return basehdl.HandleResponse(c, nil, err)
	}
	return basehdl.HandleCreatedResponse(c, result, nil)
}
