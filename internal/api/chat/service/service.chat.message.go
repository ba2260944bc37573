// Package chatsvc - service tin nhắn (Message).
package chatsvc

import (
	"context"
	"errors"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo/options"

	basemodels "livechat/internal/api/base/models"
	basesvc "livechat/internal/api/base/service"
	models "livechat/internal/api/chat/models"
	"livechat/internal/common"
	"livechat/internal/global"
)

// MessageService là cấu trúc chứa các phương thức liên quan đến tin nhắn
type MessageService struct {
	*basesvc.BaseServiceMongoImpl[models.Message]
	conversationService *ConversationService
}

// NewMessageService tạo mới MessageService
func NewMessageService() (*MessageService, error) {
	messageCollection, exist := global.RegistryCollections.Get(global.MongoDB_ColNames.ChatMessages)
	if !exist {
		return nil, fmt.Errorf("failed to get chat_messages collection: %v", common.ErrNotFound)
	}
	conversationService, err := NewConversationService()
	if err != nil {
		return nil, fmt.Errorf("failed to create conversation service: %v", err)
	}
	return &MessageService{
		BaseServiceMongoImpl: basesvc.NewBaseServiceMongo[models.Message](messageCollection),
		conversationService:  conversationService,
	}, nil
}

// AppendText thêm một tin nhắn văn bản vào hội thoại
func (s *MessageService) AppendText(ctx context.Context, conversation *models.Conversation, senderType string, senderID *primitive.ObjectID, text string) (*models.Message, error) {
	if text == "" {
		return nil, common.NewError(common.ErrCodeValidationInput, "Nội dung tin nhắn không được để trống", common.StatusBadRequest, nil)
	}
	message := models.Message{
		ID:             primitive.NewObjectID(),
		ConversationID: conversation.ID,
		ProjectID:      conversation.ProjectID,
		SenderType:     senderType,
		SenderID:       senderID,
		ContentType:    models.ContentTypeText,
		Text:           text,
	}
	created, err := s.BaseServiceMongoImpl.InsertOne(ctx, message)
	if err != nil {
		return nil, common.ConvertMongoError(err)
	}
	_ = s.conversationService.TouchLastMessage(ctx, conversation.ID)
	return &created, nil
}

// ListByConversation liệt kê tin nhắn của một hội thoại, mới nhất trước
func (s *MessageService) ListByConversation(ctx context.Context, conversationID primitive.ObjectID, page, limit int64) (*basemodels.PaginateResult[models.Message], error) {
	filter := bson.M{"conversationId": conversationID}
	opts := options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}})
	return s.BaseServiceMongoImpl.FindWithPagination(ctx, filter, page, limit, opts)
}

// FindPendingFormRequest tìm form request chưa được trả lời trong hội thoại.
// Trả về (nil, nil) nếu không có.
func (s *MessageService) FindPendingFormRequest(ctx context.Context, conversationID primitive.ObjectID) (*models.Message, error) {
	filter := bson.M{
		"conversationId": conversationID,
		"awaitingReply":  true,
	}
	opts := options.FindOne().SetSort(bson.D{{Key: "createdAt", Value: -1}})
	message, err := s.BaseServiceMongoImpl.FindOne(ctx, filter, opts)
	if err != nil {
		var customErr *common.Error
		if errors.As(err, &customErr) && customErr.StatusCode == common.StatusNotFound {
			return nil, nil
		}
		return nil, err
	}
	return &message, nil
}

// ReleaseFormRequest gỡ cờ awaitingReply của một form request message
// (khi request hết hạn), mở đường cho form request mới trong hội thoại.
func (s *MessageService) ReleaseFormRequest(ctx context.Context, messageID primitive.ObjectID) error {
	update := &basesvc.UpdateData{
		Unset: map[string]interface{}{"awaitingReply": ""},
	}
	_, err := s.BaseServiceMongoImpl.UpdateById(ctx, messageID, update)
	return err
}

// ReleaseExpiredFormRequests gỡ cờ awaitingReply của mọi form request đã quá
// hạn tại thời điểm now (epoch millis). Trả về số message được gỡ.
func (s *MessageService) ReleaseExpiredFormRequests(ctx context.Context, now int64) (int64, error) {
	filter := bson.M{
		"awaitingReply":         true,
		"formRequest.expiresAt": bson.M{"$gt": 0, "$lt": now},
	}
	update := &basesvc.UpdateData{
		Unset: map[string]interface{}{"awaitingReply": ""},
	}
	return s.BaseServiceMongoImpl.UpdateMany(ctx, filter, update, nil)
}
