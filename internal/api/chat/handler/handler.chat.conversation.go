// Package chathdl - các Fiber handler thuộc domain chat.
package chathdl

import (
	"fmt"

	"github.com/gofiber/fiber/v3"

	authsvc "livechat/internal/api/auth/service"
	basehdl "livechat/internal/api/base/handler"
	chatdto "livechat/internal/api/chat/dto"
	chatmodels "livechat/internal/api/chat/models"
	chatsvc "livechat/internal/api/chat/service"
	"livechat/internal/api/middleware"
	"livechat/internal/common"
	"livechat/internal/utility"
)

// ConversationHandler xử lý các request liên quan đến hội thoại
type ConversationHandler struct {
	*basehdl.BaseHandler[chatmodels.Conversation, chatdto.ConversationCreateInput, chatdto.ConversationCreateInput]
	ConversationService *chatsvc.ConversationService
	MemberService       *authsvc.MemberService
}

// NewConversationHandler tạo mới ConversationHandler
func NewConversationHandler() (*ConversationHandler, error) {
	conversationService, err := chatsvc.NewConversationService()
	if err != nil {
		return nil, fmt.Errorf("failed to create conversation service: %v", err)
	}
	memberService, err := authsvc.NewMemberService()
	if err != nil {
		return nil, fmt.Errorf("failed to create member service: %v", err)
	}
	hdl := &ConversationHandler{
		ConversationService: conversationService,
		MemberService:       memberService,
	}
	hdl.BaseHandler = basehdl.NewBaseHandler[chatmodels.Conversation, chatdto.ConversationCreateInput, chatdto.ConversationCreateInput](conversationService.BaseServiceMongoImpl)
	return hdl, nil
}

// HandleOpen visitor mở một hội thoại mới với project
// POST /api/v1/visitor/conversations
func (h *ConversationHandler) HandleOpen(c fiber.Ctx) error {
	input := new(chatdto.ConversationCreateInput)
	if err := basehdl.ParseBody(c, input); err != nil {
		return basehdl.HandleResponse(c, nil, err)
	}
	if err := basehdl.ValidateStruct(input); err != nil {
		return basehdl.HandleResponse(c, nil, err)
	}
	projectID, err := utility.String2ObjectID(input.ProjectID)
	if err != nil {
		return basehdl.HandleResponse(c, nil, common.NewError(common.ErrCodeValidationFormat, err.Error(), common.StatusBadRequest, err))
	}

	conversation, err := h.ConversationService.Create(c.Context(), projectID, input.VisitorName)
	if err != nil {
		return basehdl.HandleResponse(c, nil, err)
	}
	return basehdl.HandleCreatedResponse(c, conversation, nil)
}

// HandleListByProject liệt kê hội thoại của một project, agent only
// GET /api/v1/projects/:projectId/conversations
func (h *ConversationHandler) HandleListByProject(c fiber.Ctx) error {
	callerID, err := middleware.CallerID(c)
	if err != nil {
		return basehdl.HandleResponse(c, nil, err)
	}
	projectID, err := basehdl.ParseObjectIDParam(c, "projectId")
	if err != nil {
		return basehdl.HandleResponse(c, nil, err)
	}
	if err := h.MemberService.RequireMember(c.Context(), projectID, callerID); err != nil {
		return basehdl.HandleResponse(c, nil, err)
	}
	page, limit := h.ParsePagination(c)

	result, err := h.ConversationService.ListByProject(c.Context(), projectID, page, limit)
	return basehdl.HandleResponse(c, result, err)
}

// HandleGet lấy một hội thoại theo id, agent phải là thành viên project
// GET /api/v1/conversations/:conversationId
func (h *ConversationHandler) HandleGet(c fiber.Ctx) error {
	callerID, err := middleware.CallerID(c)
	if err != nil {
		return basehdl.HandleResponse(c, nil, err)
	}
	conversationID, err := basehdl.ParseObjectIDParam(c, "conversationId")
	if err != nil {
		return basehdl.HandleResponse(c, nil, err)
	}

	conversation, err := h.ConversationService.FindOneById(c.Context(), conversationID)
	if err != nil {
		return basehdl.HandleResponse(c, nil, err)
	}
	if err := h.MemberService.RequireMember(c.Context(), conversation.ProjectID, callerID); err != nil {
		return basehdl.HandleResponse(c, nil, err)
	}
	return basehdl.HandleResponse(c, conversation, nil)
}
