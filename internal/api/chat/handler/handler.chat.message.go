// Package chathdl - handler tin nhắn.
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
)

// MessageHandler xử lý các request liên quan đến tin nhắn
type MessageHandler struct {
	*basehdl.BaseHandler[chatmodels.Message, chatdto.MessageCreateInput, chatdto.MessageCreateInput]
	MessageService      *chatsvc.MessageService
	ConversationService *chatsvc.ConversationService
	MemberService       *authsvc.MemberService
}

// NewMessageHandler tạo mới MessageHandler
func NewMessageHandler() (*MessageHandler, error) {
	messageService, err := chatsvc.NewMessageService()
	if err != nil {
		return nil, fmt.Errorf("failed to create message service: %v", err)
	}
	conversationService, err := chatsvc.NewConversationService()
	if err != nil {
		return nil, fmt.Errorf("failed to create conversation service: %v", err)
	}
	memberService, err := authsvc.NewMemberService()
	if err != nil {
		return nil, fmt.Errorf("failed to create member service: %v", err)
	}
	hdl := &MessageHandler{
		MessageService:      messageService,
		ConversationService: conversationService,
		MemberService:       memberService,
	}
	hdl.BaseHandler = basehdl.NewBaseHandler[chatmodels.Message, chatdto.MessageCreateInput, chatdto.MessageCreateInput](messageService.BaseServiceMongoImpl)
	return hdl, nil
}

// HandleSend agent gửi tin nhắn văn bản vào hội thoại
// POST /api/v1/conversations/:conversationId/messages
func (h *MessageHandler) HandleSend(c fiber.Ctx) error {
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

	input := new(chatdto.MessageCreateInput)
	if err := basehdl.ParseBody(c, input); err != nil {
		return basehdl.HandleResponse(c, nil, err)
	}
	if err := basehdl.ValidateStruct(input); err != nil {
		return basehdl.HandleResponse(c, nil, err)
	}

	senderID := callerID
	message, err := h.MessageService.AppendText(c.Context(), &conversation, chatmodels.SenderTypeAgent, &senderID, input.Text)
	if err != nil {
		return basehdl.HandleResponse(c, nil, err)
	}
	return basehdl.HandleCreatedResponse(c, message, nil)
}

// HandleVisitorSend visitor gửi tin nhắn văn bản vào hội thoại của mình
// POST /api/v1/visitor/conversations/:conversationId/messages
func (h *MessageHandler) HandleVisitorSend(c fiber.Ctx) error {
	conversationID, err := basehdl.ParseObjectIDParam(c, "conversationId")
	if err != nil {
		return basehdl.HandleResponse(c, nil, err)
	}

	conversation, err := h.ConversationService.FindOneById(c.Context(), conversationID)
	if err != nil {
		return basehdl.HandleResponse(c, nil, err)
	}

	input := new(chatdto.MessageCreateInput)
	if err := basehdl.ParseBody(c, input); err != nil {
		return basehdl.HandleResponse(c, nil, err)
	}
	if err := basehdl.ValidateStruct(input); err != nil {
		return basehdl.HandleResponse(c, nil, err)
	}

	visitorID := conversation.VisitorID
	message, err := h.MessageService.AppendText(c.Context(), &conversation, chatmodels.SenderTypeVisitor, &visitorID, input.Text)
	if err != nil {
		return basehdl.HandleResponse(c, nil, err)
	}
	return basehdl.HandleCreatedResponse(c, message, nil)
}

// HandleList liệt kê tin nhắn của một hội thoại, mới nhất trước
// GET /api/v1/conversations/:conversationId/messages
func (h *MessageHandler) HandleList(c fiber.Ctx) error {
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
	page, limit := h.ParsePagination(c)

	result, err := h.MessageService.ListByConversation(c.Context(), conversationID, page, limit)
	return basehdl.HandleResponse(c, result, err)
}
