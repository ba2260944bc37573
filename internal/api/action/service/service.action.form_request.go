// Package actionsvc - coordinator gửi form request vào hội thoại.
package actionsvc

import (
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/bson/primitive"

	actionmodels "livechat/internal/api/action/models"
	chatmodels "livechat/internal/api/chat/models"
	chatsvc "livechat/internal/api/chat/service"
	"livechat/internal/api/events"
	"livechat/internal/common"
	"livechat/internal/metrics"
	"livechat/internal/utility"
)

// FormRequestService điều phối việc agent đẩy một form vào hội thoại.
// Snapshot toàn bộ name/description/definition của template vào message
// tại thời điểm gửi; các lần sửa template sau đó không ảnh hưởng request đã gửi.
type FormRequestService struct {
	templateService     *TemplateService
	conversationService *chatsvc.ConversationService
	messageService      *chatsvc.MessageService
	authorizer          ProjectAuthorizer
}

// NewFormRequestService tạo mới FormRequestService
func NewFormRequestService(templateService *TemplateService, authorizer ProjectAuthorizer) (*FormRequestService, error) {
	conversationService, err := chatsvc.NewConversationService()
	if err != nil {
		return nil, fmt.Errorf("failed to create conversation service: %v", err)
	}
	messageService, err := chatsvc.NewMessageService()
	if err != nil {
		return nil, fmt.Errorf("failed to create message service: %v", err)
	}
	return &FormRequestService{
		templateService:     templateService,
		conversationService: conversationService,
		messageService:      messageService,
		authorizer:          authorizer,
	}, nil
}

// Send đẩy một form request vào hội thoại.
// Mỗi hội thoại chỉ được có một form request đang chờ: pre-check trả về
// Conflict sớm cho thông báo thân thiện, còn partial unique index trên
// (conversationId, awaitingReply=true) là chốt chặn cuối khi hai agent
// gửi đồng thời.
func (s *FormRequestService) Send(ctx context.Context, conversationID, templateID, callerID primitive.ObjectID, expiresAt int64) (*chatmodels.Message, error) {
	conversation, err := s.conversationService.FindOneById(ctx, conversationID)
	if err != nil {
		return nil, err
	}
	if err := s.authorizer.RequireMember(ctx, conversation.ProjectID, callerID); err != nil {
		return nil, err
	}

	template, err := s.templateService.FindLiveById(ctx, conversation.ProjectID, templateID)
	if err != nil {
		return nil, err
	}
	if !template.IsEnabled {
		return nil, common.ErrTemplateDisabled
	}

	if expiresAt > 0 && expiresAt <= utility.CurrentTimeInMilli() {
		return nil, common.NewError(common.ErrCodeValidationInput, "Thời điểm hết hạn phải ở tương lai", common.StatusBadRequest, nil)
	}

	pending, err := s.messageService.FindPendingFormRequest(ctx, conversationID)
	if err != nil {
		return nil, err
	}
	if pending != nil {
		// Request đã hết hạn không chặn hội thoại nữa: gỡ cờ rồi đi tiếp
		if pending.FormRequest != nil && pending.FormRequest.IsExpired(utility.CurrentTimeInMilli()) {
			if err := s.messageService.ReleaseFormRequest(ctx, pending.ID); err != nil {
				return nil, err
			}
		} else {
			return nil, common.ErrFormRequestPending
		}
	}

	senderID := callerID
	message := chatmodels.Message{
		ID:             primitive.NewObjectID(),
		ConversationID: conversation.ID,
		ProjectID:      conversation.ProjectID,
		SenderType:     chatmodels.SenderTypeAgent,
		SenderID:       &senderID,
		ContentType:    chatmodels.ContentTypeFormRequest,
		FormRequest: &actionmodels.FormRequestMeta{
			TemplateID:          template.ID,
			TemplateName:        template.Name,
			TemplateDescription: template.Description,
			Definition:          template.Definition.Clone(),
			ExpiresAt:           expiresAt,
		},
		AwaitingReply: true,
	}

	created, err := s.messageService.InsertOne(ctx, message)
	if err != nil {
		// Thua race với một form request khác đang chờ
		if common.IsDuplicateError(err) {
			return nil, common.ErrFormRequestPending
		}
		return nil, common.ConvertMongoError(err)
	}
	_ = s.conversationService.TouchLastMessage(ctx, conversation.ID)

	metrics.IncFormRequestSent(conversation.ProjectID.Hex())
	events.EmitChatEvent(ctx, events.EventFormRequestSent, conversation.ProjectID.Hex(), conversation.ID.Hex(), map[string]interface{}{
		"visitorId": conversation.VisitorID.Hex(),
		"message":   created,
	})

	return &created, nil
}

// countUnansweredForConversation đếm số form request đang chờ của một hội
// thoại. Dùng trong kiểm tra bất biến ở test và job đối soát.
func (s *FormRequestService) countUnansweredForConversation(ctx context.Context, conversationID primitive.ObjectID) (int64, error) {
	filter := map[string]interface{}{
		"conversationId": conversationID,
		"awaitingReply":  true,
	}
	return s.messageService.CountDocuments(ctx, filter)
}
