// Package actionsvc - service ActionSubmission.
package actionsvc

import (
	"context"
	"errors"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo/options"

	actionmodels "livechat/internal/api/action/models"
	basemodels "livechat/internal/api/base/models"
	basesvc "livechat/internal/api/base/service"
	chatmodels "livechat/internal/api/chat/models"
	chatsvc "livechat/internal/api/chat/service"
	"livechat/internal/common"
	"livechat/internal/global"
	"livechat/internal/metrics"
)

// SubmissionService là cấu trúc chứa các phương thức liên quan đến submission.
// Đây là điểm ghi duy nhất của collection action_submissions: mọi đường tạo
// đều đi qua insertChecked để ràng buộc "đúng một chủ sở hữu" không bị lách.
type SubmissionService struct {
	*basesvc.BaseServiceMongoImpl[actionmodels.ActionSubmission]
	templateService     *TemplateService
	conversationService *chatsvc.ConversationService
	authorizer          ProjectAuthorizer
}

// NewSubmissionService tạo mới SubmissionService
func NewSubmissionService(templateService *TemplateService, authorizer ProjectAuthorizer) (*SubmissionService, error) {
	submissionCollection, exist := global.RegistryCollections.Get(global.MongoDB_ColNames.ActionSubmissions)
	if !exist {
		return nil, fmt.Errorf("failed to get action_submissions collection: %v", common.ErrNotFound)
	}
	conversationService, err := chatsvc.NewConversationService()
	if err != nil {
		return nil, fmt.Errorf("failed to create conversation service: %v", err)
	}
	return &SubmissionService{
		BaseServiceMongoImpl: basesvc.NewBaseServiceMongo[actionmodels.ActionSubmission](submissionCollection),
		templateService:      templateService,
		conversationService:  conversationService,
		authorizer:           authorizer,
	}, nil
}

// insertChecked ghi submission sau khi kiểm tra ràng buộc chủ sở hữu
func (s *SubmissionService) insertChecked(ctx context.Context, submission actionmodels.ActionSubmission) (*actionmodels.ActionSubmission, error) {
	if !submission.ValidateOwnership() {
		return nil, common.NewError(
			common.ErrCodeBusinessState,
			"Submission phải có đúng một chủ sở hữu: creatorId hoặc visitorId",
			common.StatusInternalServerError,
			nil,
		)
	}
	created, err := s.BaseServiceMongoImpl.InsertOne(ctx, submission)
	if err != nil {
		return nil, common.ConvertMongoError(err)
	}
	return &created, nil
}

// CreateByAgent tạo submission do agent tự điền, validate với definition
// hiện hành (live) của template.
func (s *SubmissionService) CreateByAgent(ctx context.Context, conversationID, templateID, callerID primitive.ObjectID, data map[string]interface{}) (*actionmodels.ActionSubmission, error) {
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

	if result := template.Definition.Validate(data); !result.Valid() {
		metrics.IncSchemaValidationFailure()
		return nil, common.NewError(common.ErrCodeValidationSchema, common.MsgValidationError, common.StatusBadRequest, result.Error())
	}

	creatorID := callerID
	submission := actionmodels.ActionSubmission{
		ID:             primitive.NewObjectID(),
		TemplateID:     template.ID,
		ConversationID: conversation.ID,
		ProjectID:      conversation.ProjectID,
		Data:           data,
		Status:         actionmodels.SubmissionStatusSubmitted,
		CreatorID:      &creatorID,
	}
	created, err := s.insertChecked(ctx, submission)
	if err != nil {
		return nil, err
	}
	metrics.IncFormSubmission(conversation.ProjectID.Hex(), "agent")
	return created, nil
}

// CreateByVisitor ghi submission của visitor, dùng bởi VisitorFormService
// bên trong transaction. Không kiểm tra quyền ở đây: danh tính visitor
// đã được xác định từ chính hội thoại.
func (s *SubmissionService) CreateByVisitor(ctx context.Context, conversation *chatmodels.Conversation, templateID, formRequestMessageID primitive.ObjectID, data map[string]interface{}) (*actionmodels.ActionSubmission, error) {
	visitorID := conversation.VisitorID
	messageID := formRequestMessageID
	submission := actionmodels.ActionSubmission{
		ID:                   primitive.NewObjectID(),
		TemplateID:           templateID,
		ConversationID:       conversation.ID,
		ProjectID:            conversation.ProjectID,
		Data:                 data,
		Status:               actionmodels.SubmissionStatusSubmitted,
		VisitorID:            &visitorID,
		FormRequestMessageID: &messageID,
	}
	return s.insertChecked(ctx, submission)
}

// Update cập nhật data của submission. Chỉ chủ sở hữu gốc (agent tạo
// hoặc visitor đã điền) được phép. Data được validate lại với definition
// hiện hành của template; template đã xóa → NotFound.
func (s *SubmissionService) Update(ctx context.Context, submissionID, callerID primitive.ObjectID, data map[string]interface{}) (*actionmodels.ActionSubmission, error) {
	submission, err := s.BaseServiceMongoImpl.FindOneById(ctx, submissionID)
	if err != nil {
		return nil, err
	}

	isOwner := (submission.CreatorID != nil && *submission.CreatorID == callerID) ||
		(submission.VisitorID != nil && *submission.VisitorID == callerID)
	if !isOwner {
		return nil, common.ErrUnauthorized
	}

	template, err := s.templateService.FindLiveById(ctx, submission.ProjectID, submission.TemplateID)
	if err != nil {
		return nil, err
	}
	if result := template.Definition.Validate(data); !result.Valid() {
		metrics.IncSchemaValidationFailure()
		return nil, common.NewError(common.ErrCodeValidationSchema, common.MsgValidationError, common.StatusBadRequest, result.Error())
	}

	update := &basesvc.UpdateData{
		Set: map[string]interface{}{
			"data": data,
		},
	}
	updated, err := s.BaseServiceMongoImpl.UpdateById(ctx, submissionID, update)
	if err != nil {
		return nil, err
	}
	return &updated, nil
}

// Delete xóa cứng một submission. Agent xóa được mọi submission trong
// project mình thuộc về, visitor chỉ xóa được của chính mình.
func (s *SubmissionService) Delete(ctx context.Context, submissionID, callerID primitive.ObjectID) error {
	submission, err := s.BaseServiceMongoImpl.FindOneById(ctx, submissionID)
	if err != nil {
		return err
	}

	if submission.VisitorID != nil && *submission.VisitorID == callerID {
		return s.BaseServiceMongoImpl.DeleteById(ctx, submissionID)
	}
	if err := s.authorizer.RequireMember(ctx, submission.ProjectID, callerID); err != nil {
		return err
	}
	return s.BaseServiceMongoImpl.DeleteById(ctx, submissionID)
}

// ListByConversation liệt kê submission của một hội thoại, mới nhất trước.
// Chỉ thành viên project được xem.
func (s *SubmissionService) ListByConversation(ctx context.Context, conversationID, callerID primitive.ObjectID, page, limit int64) (*basemodels.PaginateResult[actionmodels.ActionSubmission], error) {
	conversation, err := s.conversationService.FindOneById(ctx, conversationID)
	if err != nil {
		return nil, err
	}
	if err := s.authorizer.RequireMember(ctx, conversation.ProjectID, callerID); err != nil {
		return nil, err
	}

	filter := bson.M{"conversationId": conversationID}
	opts := options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}})
	return s.BaseServiceMongoImpl.FindWithPagination(ctx, filter, page, limit, opts)
}

// FindByFormRequestMessage tìm submission đã trả lời một form request.
// Trả về (nil, nil) nếu chưa có.
func (s *SubmissionService) FindByFormRequestMessage(ctx context.Context, formRequestMessageID primitive.ObjectID) (*actionmodels.ActionSubmission, error) {
	filter := bson.M{"formRequestMessageId": formRequestMessageID}
	submission, err := s.BaseServiceMongoImpl.FindOne(ctx, filter, nil)
	if err != nil {
		var customErr *common.Error
		if errors.As(err, &customErr) && customErr.StatusCode == common.StatusNotFound {
			return nil, nil
		}
		return nil, err
	}
	return &submission, nil
}
