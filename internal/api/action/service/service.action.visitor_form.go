// Package actionsvc - coordinator tiếp nhận form submission từ visitor.
package actionsvc

import (
	"context"
	"errors"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	actionmodels "livechat/internal/api/action/models"
	basesvc "livechat/internal/api/base/service"
	chatmodels "livechat/internal/api/chat/models"
	chatsvc "livechat/internal/api/chat/service"
	"livechat/internal/api/events"
	"livechat/internal/common"
	"livechat/internal/global"
	"livechat/internal/metrics"
	"livechat/internal/utility"
)

// VisitorFormService điều phối việc visitor trả lời một form request.
// Validate luôn chạy trên definition SNAPSHOT trong message, không bao giờ
// trên template hiện hành: template có thể đã bị sửa sau khi form được gửi.
type VisitorFormService struct {
	templateService     *TemplateService
	submissionService   *SubmissionService
	conversationService *chatsvc.ConversationService
	messageService      *chatsvc.MessageService
}

// NewVisitorFormService tạo mới VisitorFormService
func NewVisitorFormService(templateService *TemplateService, submissionService *SubmissionService) (*VisitorFormService, error) {
	conversationService, err := chatsvc.NewConversationService()
	if err != nil {
		return nil, fmt.Errorf("failed to create conversation service: %v", err)
	}
	messageService, err := chatsvc.NewMessageService()
	if err != nil {
		return nil, fmt.Errorf("failed to create message service: %v", err)
	}
	return &VisitorFormService{
		templateService:     templateService,
		submissionService:   submissionService,
		conversationService: conversationService,
		messageService:      messageService,
	}, nil
}

// VisitorSubmissionResult gom kết quả của một lần submit thành công
type VisitorSubmissionResult struct {
	Submission *actionmodels.ActionSubmission `json:"submission"`
	Message    *chatmodels.Message            `json:"message"`
}

// Submit tiếp nhận dữ liệu visitor điền cho một form request.
// Ba bản ghi (submission, message form_submission, cập nhật message gốc)
// được ghi trong cùng một transaction; partial unique index trên
// formRequestMessageId là chốt chặn cuối cho race submit trùng -
// bên thua nhận Conflict.
func (s *VisitorFormService) Submit(ctx context.Context, conversationID, formRequestMessageID primitive.ObjectID, data map[string]interface{}) (*VisitorSubmissionResult, error) {
	conversation, err := s.conversationService.FindOneById(ctx, conversationID)
	if err != nil {
		return nil, err
	}

	requestMessage, err := s.resolveFormRequestMessage(ctx, &conversation, formRequestMessageID)
	if err != nil {
		return nil, err
	}
	meta := requestMessage.FormRequest

	// Pre-check trùng lặp: nhanh và thân thiện, không phải chốt chặn cuối
	if meta.IsAnswered() {
		return nil, common.ErrFormAlreadySubmitted
	}
	existing, err := s.submissionService.FindByFormRequestMessage(ctx, requestMessage.ID)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, common.ErrFormAlreadySubmitted
	}

	if meta.IsExpired(utility.CurrentTimeInMilli()) {
		return nil, common.ErrFormRequestExpired
	}

	// Validate trên snapshot, không trên template hiện hành
	if result := meta.Definition.Validate(data); !result.Valid() {
		metrics.IncSchemaValidationFailure()
		return nil, common.NewError(common.ErrCodeValidationSchema, common.MsgValidationError, common.StatusBadRequest, result.Error())
	}

	// Template phải còn tồn tại về mặt vật lý; bản đã soft delete vẫn
	// chấp nhận vì submission là bản ghi lịch sử tham chiếu snapshot
	templateFilter := bson.M{"_id": meta.TemplateID, "projectId": conversation.ProjectID}
	template, err := s.templateService.FindOne(ctx, templateFilter, nil)
	if err != nil {
		return nil, err
	}

	session, err := global.MongoDB_Session.StartSession()
	if err != nil {
		return nil, common.ConvertMongoError(err)
	}
	defer session.EndSession(ctx)

	txnResult, err := session.WithTransaction(ctx, func(sc mongo.SessionContext) (interface{}, error) {
		submission, err := s.submissionService.CreateByVisitor(sc, &conversation, template.ID, requestMessage.ID, data)
		if err != nil {
			return nil, err
		}

		visitorID := conversation.VisitorID
		submissionMessage := chatmodels.Message{
			ID:             primitive.NewObjectID(),
			ConversationID: conversation.ID,
			ProjectID:      conversation.ProjectID,
			SenderType:     chatmodels.SenderTypeVisitor,
			SenderID:       &visitorID,
			ContentType:    chatmodels.ContentTypeFormSubmission,
			FormSubmission: &actionmodels.FormSubmissionMeta{
				FormRequestMessageID: requestMessage.ID,
				SubmissionID:         submission.ID,
				TemplateName:         meta.TemplateName,
				Data:                 data,
			},
		}
		createdMessage, err := s.messageService.InsertOne(sc, submissionMessage)
		if err != nil {
			return nil, err
		}

		// Gắn submissionId vào message gốc và gỡ cờ đang chờ
		update := &basesvc.UpdateData{
			Set: map[string]interface{}{
				"formRequest.submissionId": submission.ID,
			},
			Unset: map[string]interface{}{
				"awaitingReply": "",
			},
		}
		if _, err := s.messageService.UpdateOne(sc, bson.M{"_id": requestMessage.ID}, update, nil); err != nil {
			return nil, err
		}

		return &VisitorSubmissionResult{Submission: submission, Message: &createdMessage}, nil
	})
	if err != nil {
		// Thua race: một submission khác cho cùng form request đã thắng
		if common.IsDuplicateError(err) {
			metrics.IncFormConflict()
			return nil, common.ErrFormSubmissionConflict
		}
		return nil, common.ConvertMongoError(err)
	}

	result := txnResult.(*VisitorSubmissionResult)
	_ = s.conversationService.TouchLastMessage(ctx, conversation.ID)

	metrics.IncFormSubmission(conversation.ProjectID.Hex(), "visitor")
	events.EmitChatEvent(ctx, events.EventFormSubmitted, conversation.ProjectID.Hex(), conversation.ID.Hex(), map[string]interface{}{
		"submissionId": result.Submission.ID.Hex(),
		"message":      result.Message,
	})

	return result, nil
}

// resolveFormRequestMessage tra cứu message và kiểm tra nó là form request
// thuộc đúng hội thoại. Sai loại, sai hội thoại hoặc không tồn tại → BadRequest;
// lỗi hạ tầng (timeout, mất kết nối) giữ nguyên để không đổ oan cho client.
func (s *VisitorFormService) resolveFormRequestMessage(ctx context.Context, conversation *chatmodels.Conversation, messageID primitive.ObjectID) (*chatmodels.Message, error) {
	message, err := s.messageService.FindOneById(ctx, messageID)
	if err != nil {
		return nil, translateFormRequestLookupError(err)
	}
	if message.ConversationID != conversation.ID || !message.IsFormRequest() {
		return nil, common.ErrNotFormRequestMessage
	}
	return &message, nil
}

// translateFormRequestLookupError chỉ dịch NotFound thành BadRequest
// "không phải form request"; mọi lỗi khác giữ nguyên status gốc.
func translateFormRequestLookupError(err error) error {
	var customErr *common.Error
	if errors.As(err, &customErr) && customErr.StatusCode == common.StatusNotFound {
		return common.ErrNotFormRequestMessage
	}
	return common.ConvertMongoError(err)
}
