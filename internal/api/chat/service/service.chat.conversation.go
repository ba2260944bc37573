// Package chatsvc - các service thuộc domain chat.
package chatsvc

import (
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo/options"

	basemodels "livechat/internal/api/base/models"
	basesvc "livechat/internal/api/base/service"
	models "livechat/internal/api/chat/models"
	"livechat/internal/common"
	"livechat/internal/global"
	"livechat/internal/utility"
)

// ConversationService là cấu trúc chứa các phương thức liên quan đến hội thoại
type ConversationService struct {
	*basesvc.BaseServiceMongoImpl[models.Conversation]
}

// NewConversationService tạo mới ConversationService
func NewConversationService() (*ConversationService, error) {
	conversationCollection, exist := global.RegistryCollections.Get(global.MongoDB_ColNames.ChatConversations)
	if !exist {
		return nil, fmt.Errorf("failed to get chat_conversations collection: %v", common.ErrNotFound)
	}
	return &ConversationService{
		BaseServiceMongoImpl: basesvc.NewBaseServiceMongo[models.Conversation](conversationCollection),
	}, nil
}

// Create mở một hội thoại mới cho visitor trong project
func (s *ConversationService) Create(ctx context.Context, projectID primitive.ObjectID, visitorName string) (*models.Conversation, error) {
	conversation := models.Conversation{
		ID:          primitive.NewObjectID(),
		ProjectID:   projectID,
		VisitorID:   primitive.NewObjectID(),
		VisitorName: visitorName,
		Status:      models.ConversationStatusOpen,
	}
	created, err := s.BaseServiceMongoImpl.InsertOne(ctx, conversation)
	if err != nil {
		return nil, common.ConvertMongoError(err)
	}
	return &created, nil
}

// ListByProject liệt kê hội thoại của một project, mới nhất trước
func (s *ConversationService) ListByProject(ctx context.Context, projectID primitive.ObjectID, page, limit int64) (*basemodels.PaginateResult[models.Conversation], error) {
	filter := bson.M{"projectId": projectID}
	opts := options.Find().SetSort(bson.D{{Key: "lastMessageAt", Value: -1}, {Key: "createdAt", Value: -1}})
	return s.BaseServiceMongoImpl.FindWithPagination(ctx, filter, page, limit, opts)
}

// TouchLastMessage cập nhật thời điểm tin nhắn cuối của hội thoại
func (s *ConversationService) TouchLastMessage(ctx context.Context, conversationID primitive.ObjectID) error {
	update := &basesvc.UpdateData{
		Set: map[string]interface{}{
			"lastMessageAt": utility.CurrentTimeInMilli(),
		},
	}
	_, err := s.BaseServiceMongoImpl.UpdateById(ctx, conversationID, update)
	return err
}

// Close đóng một hội thoại
func (s *ConversationService) Close(ctx context.Context, conversationID primitive.ObjectID) (*models.Conversation, error) {
	update := &basesvc.UpdateData{
		Set: map[string]interface{}{
			"status": models.ConversationStatusClosed,
		},
	}
	updated, err := s.BaseServiceMongoImpl.UpdateById(ctx, conversationID, update)
	if err != nil {
		return nil, err
	}
	return &updated, nil
}
