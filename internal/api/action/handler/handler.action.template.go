// Package actionhdl - các Fiber handler thuộc domain action.
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
	"livechat/internal/logger"
	"livechat/internal/utility"
)

// TemplateHandler xử lý các request liên quan đến action template
type TemplateHandler struct {
	*basehdl.BaseHandler[actionmodels.ActionTemplate, actiondto.TemplateCreateInput, actiondto.TemplateUpdateInput]
	TemplateService *actionsvc.TemplateService
}

// NewTemplateHandler tạo mới TemplateHandler
func NewTemplateHandler() (*TemplateHandler, error) {
	memberService, err := authsvc.NewMemberService()
	if err != nil {
		return nil, fmt.Errorf("failed to create member service: %v", err)
	}
	templateService, err := actionsvc.NewTemplateService(memberService)
	if err != nil {
		return nil, fmt.Errorf("failed to create template service: %v", err)
	}
	hdl := &TemplateHandler{TemplateService: templateService}
	hdl.BaseHandler = basehdl.NewBaseHandler[actionmodels.ActionTemplate, actiondto.TemplateCreateInput, actiondto.TemplateUpdateInput](templateService.BaseServiceMongoImpl)
	return hdl, nil
}

// HandleCreate tạo mới action template trong một project
// POST /api/v1/projects/:projectId/action-templates
func (h *TemplateHandler) HandleCreate(c fiber.Ctx) error {
	callerID, err := middleware.CallerID(c)
	if err != nil {
		return basehdl.HandleResponse(c, nil, err)
	}
	projectID, err := h.ParseObjectIDParam(c, "projectId")
	if err != nil {
		return basehdl.HandleResponse(c, nil, err)
	}

	input := new(actiondto.TemplateCreateInput)
	if err := h.ParseRequestBody(c, input); err != nil {
		return basehdl.HandleResponse(c, nil, err)
	}
	if err := h.ValidateInput(input); err != nil {
		return basehdl.HandleResponse(c, nil, err)
	}

	isEnabled := true
	if input.IsEnabled != nil {
		isEnabled = *input.IsEnabled
	}

	template, err := h.TemplateService.Create(c.Context(), projectID, callerID, input.Name, input.Description, input.Definition, isEnabled)
	if err != nil {
		return basehdl.HandleResponse(c, nil, err)
	}

	logger.LogAction("create_action_template", c, map[string]interface{}{
		"project_id":   projectID.Hex(),
		"template_seq": template.Seq,
	})
	return basehdl.HandleCreatedResponse(c, template, nil)
}

// HandleList liệt kê template chưa xóa của project, mới nhất trước
// GET /api/v1/projects/:projectId/action-templates
func (h *TemplateHandler) HandleList(c fiber.Ctx) error {
	callerID, err := middleware.CallerID(c)
	if err != nil {
		return basehdl.HandleResponse(c, nil, err)
	}
	projectID, err := h.ParseObjectIDParam(c, "projectId")
	if err != nil {
		return basehdl.HandleResponse(c, nil, err)
	}
	page, limit := h.ParsePagination(c)

	result, err := h.TemplateService.List(c.Context(), projectID, callerID, page, limit)
	return basehdl.HandleResponse(c, result, err)
}

// parseSeq lấy seq từ URI params
func (h *TemplateHandler) parseSeq(c fiber.Ctx) (int64, error) {
	seq := utility.P2Int64(c.Params("seq"))
	if seq <= 0 {
		return 0, common.NewError(common.ErrCodeValidationFormat, "Seq của template phải là số nguyên dương", common.StatusBadRequest, nil)
	}
	return seq, nil
}

// HandleGet lấy một template theo seq
// GET /api/v1/projects/:projectId/action-templates/:seq
func (h *TemplateHandler) HandleGet(c fiber.Ctx) error {
	callerID, err := middleware.CallerID(c)
	if err != nil {
		return basehdl.HandleResponse(c, nil, err)
	}
	projectID, err := h.ParseObjectIDParam(c, "projectId")
	if err != nil {
		return basehdl.HandleResponse(c, nil, err)
	}
	seq, err := h.parseSeq(c)
	if err != nil {
		return basehdl.HandleResponse(c, nil, err)
	}

	template, err := h.TemplateService.GetBySeq(c.Context(), projectID, callerID, seq)
	return basehdl.HandleResponse(c, template, err)
}

// HandleUpdate cập nhật các trường được cung cấp của template
// PUT /api/v1/projects/:projectId/action-templates/:seq
func (h *TemplateHandler) HandleUpdate(c fiber.Ctx) error {
	callerID, err := middleware.CallerID(c)
	if err != nil {
		return basehdl.HandleResponse(c, nil, err)
	}
	projectID, err := h.ParseObjectIDParam(c, "projectId")
	if err != nil {
		return basehdl.HandleResponse(c, nil, err)
	}
	seq, err := h.parseSeq(c)
	if err != nil {
		return basehdl.HandleResponse(c, nil, err)
	}

	input := new(actiondto.TemplateUpdateInput)
	if err := h.ParseRequestBody(c, input); err != nil {
		return basehdl.HandleResponse(c, nil, err)
	}
	if err := h.ValidateInput(input); err != nil {
		return basehdl.HandleResponse(c, nil, err)
	}

	fields := actionsvc.TemplateUpdateFields{
		Name:        input.Name,
		Description: input.Description,
		Definition:  input.Definition,
		IsEnabled:   input.IsEnabled,
	}
	template, err := h.TemplateService.Update(c.Context(), projectID, callerID, seq, fields)
	if err != nil {
		return basehdl.HandleResponse(c, nil, err)
	}

	logger.LogAction("update_action_template", c, map[string]interface{}{
		"project_id":   projectID.Hex(),
		"template_seq": seq,
	})
	return basehdl.HandleResponse(c, template, nil)
}

// HandleDelete soft delete một template
// DELETE /api/v1/projects/:projectId/action-templates/:seq
func (h *TemplateHandler) HandleDelete(c fiber.Ctx) error {
	callerID, err := middleware.CallerID(c)
	if err != nil {
		return basehdl.HandleResponse(c, nil, err)
	}
	projectID, err := h.ParseObjectIDParam(c, "projectId")
	if err != nil {
		return basehdl.HandleResponse(c, nil, err)
	}
	seq, err := h.parseSeq(c)
	if err != nil {
		return basehdl.HandleResponse(c, nil, err)
	}

	if err := h.TemplateService.SoftDelete(c.Context(), projectID, callerID, seq); err != nil {
		return basehdl.HandleResponse(c, nil, err)
	}

	logger.LogAction("delete_action_template", c, map[string]interface{}{
		"project_id":   projectID.Hex(),
		"template_seq": seq,
	})
	return basehdl.HandleResponse(c, fiber.Map{"deleted": true}, nil)
}

// HandleToggle đảo trạng thái isEnabled của template
// POST /api/v1/projects/:projectId/action-templates/:seq/toggle
func (h *TemplateHandler) HandleToggle(c fiber.Ctx) error {
	callerID, err := middleware.CallerID(c)
	if err != nil {
		return basehdl.HandleResponse(c, nil, err)
	}
	projectID, err := h.ParseObjectIDParam(c, "projectId")
	if err != nil {
		return basehdl.HandleResponse(c, nil, err)
	}
	seq, err := h.parseSeq(c)
	if err != nil {
		return basehdl.HandleResponse(c, nil, err)
	}

	template, err := h.TemplateService.ToggleEnabled(c.Context(), projectID, callerID, seq)
	if err != nil {
		return basehdl.HandleResponse(c, nil, err)
	}

	logger.LogAction("toggle_action_template", c, map[string]interface{}{
		"project_id":   projectID.Hex(),
		"template_seq": seq,
		"is_enabled":   template.IsEnabled,
	})
	return basehdl.HandleResponse(c, template, nil)
}
