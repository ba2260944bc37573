// Package actionhdl - handler cho submission do agent thao tác.
package actionhdl

import (
	"fmt"

	"github.com/gofiber/fiber/v3"

	actiondto "livechat/internal/api/action/dto"
	actionmodels "livechat/internal/api/action/models"
	actionsvc "livechat/internal/api/action/service"
	authsvc "livechat/internal/api/auth/service"
	basehdl "livechat/internal/api/base/handler"
	"livechat/internal/api/middleware"
	"livechat/internal/common"
	"livechat/internal/utility"
)

// SubmissionHandler xử lý các request liên quan đến submission
type SubmissionHandler struct {
	*basehdl.BaseHandler[actionmodels.ActionSubmission, actiondto.SubmissionCreateInput, actiondto.SubmissionUpdateInput]
	SubmissionService *actionsvc.SubmissionService
}

// NewSubmissionHandler tạo mới SubmissionHandler
func NewSubmissionHandler() (*SubmissionHandler, error) {
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
	hdl := &SubmissionHandler{SubmissionService: submissionService}
	hdl.BaseHandler = basehdl.NewBaseHandler[actionmodels.ActionSubmission, actiondto.SubmissionCreateInput, actiondto.SubmissionUpdateInput](submissionService.BaseServiceMongoImpl)
	return hdl, nil
}

// HandleCreate agent tự điền form cho một hội thoại
// POST /api/v1/conversations/:conversationId/submissions
func (h *SubmissionHandler) HandleCreate(c fiber.Ctx) error {
	callerID, err := middleware.CallerID(c)
	if err != nil {
		return basehdl.HandleResponse(c, nil, err)
	}
	conversationID, err := h.ParseObjectIDParam(c, "conversationId")
	if err != nil {
		return basehdl.HandleResponse(c, nil, err)
	}

	input := new(actiondto.SubmissionCreateInput)
	if err := h.ParseRequestBody(c, input); err != nil {
		return basehdl.HandleResponse(c, nil, err)
	}
	if err := h.ValidateInput(input); err != nil {
		return basehdl.HandleResponse(c, nil, err)
	}
	templateID, err := utility.String2ObjectID(input.TemplateID)
	if err != nil {
		return basehdl.HandleResponse(c, nil, common.NewError(common.ErrCodeValidationFormat, err.Error(), common.StatusBadRequest, err))
	}

	submission, err := h.SubmissionService.CreateByAgent(c.Context(), conversationID, templateID, callerID, input.Data)
	if err != nil {
		return basehdl.HandleResponse(c, nil, err)
	}
	return basehdl.HandleCreatedResponse(c, submission, nil)
}

// HandleList liệt kê submission của một hội thoại, mới nhất trước
// GET /api/v1/conversations/:conversationId/submissions
func (h *SubmissionHandler) HandleList(c fiber.Ctx) error {
	callerID, err := middleware.CallerID(c)
	if err != nil {
		return basehdl.HandleResponse(c, nil, err)
	}
	conversationID, err := h.ParseObjectIDParam(c, "conversationId")
	if err != nil {
		return basehdl.HandleResponse(c, nil, err)
	}
	page, limit := h.ParsePagination(c)

	result, err := h.SubmissionService.ListByConversation(c.Context(), conversationID, callerID, page, limit)
	return basehdl.HandleResponse(c, result, err)
}

// HandleUpdate cập nhật data của submission, chỉ chủ sở hữu gốc
// PUT /api/v1/submissions/:id
func (h *SubmissionHandler) HandleUpdate(c fiber.Ctx) error {
	callerID, err := middleware.CallerID(c)
	if err != nil {
		return basehdl.HandleResponse(c, nil, err)
	}
	submissionID, err := h.ParseObjectIDParam(c, "id")
	if err != nil {
		return basehdl.HandleResponse(c, nil, err)
	}

	input := new(actiondto.SubmissionUpdateInput)
	if err := h.ParseRequestBody(c, input); err != nil {
		return basehdl.HandleResponse(c, nil, err)
	}
	if err := h.ValidateInput(input); err != nil {
		return basehdl.HandleResponse(c, nil, err)
	}

	submission, err := h.SubmissionService.Update(c.Context(), submissionID, callerID, input.Data)
	return basehdl.HandleResponse(c, submission, err)
}

// HandleDelete xóa cứng một submission
// DELETE /api/v1/submissions/:id
func (h *SubmissionHandler) HandleDelete(c fiber.Ctx) error {
	callerID, err := middleware.CallerID(c)
	if err != nil {
		return basehdl.HandleResponse(c, nil, err)
	}
	submissionID, err := h.ParseObjectIDParam(c, "id")
	if err != nil {
		return basehdl.HandleResponse(c, nil, err)
	}

	if err := h.SubmissionService.Delete(c.Context(), submissionID, callerID); err != nil {
		return basehdl.HandleResponse(c, nil, err)
	}
	return basehdl.HandleResponse(c, fiber.Map{"deleted": true}, nil)
}
