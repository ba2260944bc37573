// Package actionsvc - các service thuộc domain action (form động).
package actionsvc

import (
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo/options"

	actionmodels "livechat/internal/api/action/models"
	basemodels "livechat/internal/api/base/models"
	basesvc "livechat/internal/api/base/service"
	"livechat/internal/common"
	"livechat/internal/global"
	"livechat/internal/utility"
)

// ProjectAuthorizer là collaborator kiểm tra quyền theo project.
// MemberService của domain auth là implementation mặc định,
// tests dùng fake.
type ProjectAuthorizer interface {
	RequireMember(ctx context.Context, projectID, userID primitive.ObjectID) error
	RequireManager(ctx context.Context, projectID, userID primitive.ObjectID) error
}

// TemplateService là cấu trúc chứa các phương thức liên quan đến action template.
// Mọi thao tác ghi yêu cầu vai trò manager, thao tác đọc yêu cầu membership.
type TemplateService struct {
	*basesvc.BaseServiceMongoImpl[actionmodels.ActionTemplate]
	counterService *basesvc.CounterService
	authorizer     ProjectAuthorizer
}

// NewTemplateService tạo mới TemplateService
func NewTemplateService(authorizer ProjectAuthorizer) (*TemplateService, error) {
	templateCollection, exist := global.RegistryCollections.Get(global.MongoDB_ColNames.ActionTemplates)
	if !exist {
		return nil, fmt.Errorf("failed to get action_templates collection: %v", common.ErrNotFound)
	}
	counterCollection, exist := global.RegistryCollections.Get(global.MongoDB_ColNames.ActionCounters)
	if !exist {
		return nil, fmt.Errorf("failed to get action_counters collection: %v", common.ErrNotFound)
	}
	return &TemplateService{
		BaseServiceMongoImpl: basesvc.NewBaseServiceMongo[actionmodels.ActionTemplate](templateCollection),
		counterService:       basesvc.NewCounterService(counterCollection),
		authorizer:           authorizer,
	}, nil
}

// validateDefinition kiểm tra definition trước khi ghi: có ít nhất một trường,
// key không trùng, options chỉ có ý nghĩa với kiểu select.
func (s *TemplateService) validateDefinition(definition actionmodels.Definition) error {
	if len(definition.Fields) == 0 {
		return common.NewError(common.ErrCodeValidationInput, "Definition phải có ít nhất một trường", common.StatusBadRequest, nil)
	}
	if dup := definition.CheckDuplicateKeys(); dup != "" {
		return common.NewError(
			common.ErrCodeValidationInput,
			fmt.Sprintf("Key '%s' bị trùng trong definition", dup),
			common.StatusBadRequest,
			nil,
		)
	}
	for _, f := range definition.Fields {
		if f.Type == actionmodels.FieldTypeSelect && len(f.Options) == 0 {
			return common.NewError(
				common.ErrCodeValidationInput,
				fmt.Sprintf("Trường select '%s' phải có danh sách options", f.Key),
				common.StatusBadRequest,
				nil,
			)
		}
	}
	return nil
}

// Create tạo mới một action template. Chỉ manager của project được phép.
// Seq được cấp từ counter riêng của project, bắt đầu từ 1.
func (s *TemplateService) Create(ctx context.Context, projectID, callerID primitive.ObjectID, name, description string, definition actionmodels.Definition, isEnabled bool) (*actionmodels.ActionTemplate, error) {
	if err := s.authorizer.RequireManager(ctx, projectID, callerID); err != nil {
		return nil, err
	}
	if err := s.validateDefinition(definition); err != nil {
		return nil, err
	}

	seq, err := s.counterService.NextSeq(ctx, projectID.Hex(), "template_seq")
	if err != nil {
		return nil, err
	}

	template := actionmodels.ActionTemplate{
		ID:          primitive.NewObjectID(),
		Seq:         seq,
		ProjectID:   projectID,
		Name:        name,
		Description: description,
		Definition:  definition,
		IsEnabled:   isEnabled,
	}
	created, err := s.BaseServiceMongoImpl.InsertOne(ctx, template)
	if err != nil {
		return nil, common.ConvertMongoError(err)
	}
	return &created, nil
}

// List liệt kê các template chưa xóa của project, mới nhất trước
func (s *TemplateService) List(ctx context.Context, projectID, callerID primitive.ObjectID, page, limit int64) (*basemodels.PaginateResult[actionmodels.ActionTemplate], error) {
	if err := s.authorizer.RequireMember(ctx, projectID, callerID); err != nil {
		return nil, err
	}
	filter := bson.M{
		"projectId": projectID,
		"deletedAt": bson.M{"$in": []interface{}{nil, int64(0)}},
	}
	opts := options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}})
	return s.BaseServiceMongoImpl.FindWithPagination(ctx, filter, page, limit, opts)
}

// GetBySeq lấy template theo seq trong phạm vi một project.
// Trả về 404 nếu không tồn tại, đã xóa hoặc thuộc project khác.
func (s *TemplateService) GetBySeq(ctx context.Context, projectID, callerID primitive.ObjectID, seq int64) (*actionmodels.ActionTemplate, error) {
	if err := s.authorizer.RequireMember(ctx, projectID, callerID); err != nil {
		return nil, err
	}
	return s.findLiveBySeq(ctx, projectID, seq)
}

// findLiveBySeq tra cứu template còn sống theo (projectId, seq), bỏ qua authz
func (s *TemplateService) findLiveBySeq(ctx context.Context, projectID primitive.ObjectID, seq int64) (*actionmodels.ActionTemplate, error) {
	filter := bson.M{
		"projectId": projectID,
		"seq":       seq,
		"deletedAt": bson.M{"$in": []interface{}{nil, int64(0)}},
	}
	template, err := s.BaseServiceMongoImpl.FindOne(ctx, filter, nil)
	if err != nil {
		return nil, err
	}
	return &template, nil
}

// FindLiveById tra cứu template còn sống theo ObjectID trong phạm vi project.
// Dùng nội bộ cho các coordinator, không kiểm tra quyền.
func (s *TemplateService) FindLiveById(ctx context.Context, projectID, templateID primitive.ObjectID) (*actionmodels.ActionTemplate, error) {
	filter := bson.M{
		"_id":       templateID,
		"projectId": projectID,
		"deletedAt": bson.M{"$in": []interface{}{nil, int64(0)}},
	}
	template, err := s.BaseServiceMongoImpl.FindOne(ctx, filter, nil)
	if err != nil {
		return nil, err
	}
	return &template, nil
}

// TemplateUpdateFields gom các trường có thể cập nhật trên template.
// Con trỏ nil nghĩa là không đổi trường đó (partial update).
type TemplateUpdateFields struct {
	Name        *string
	Description *string
	Definition  *actionmodels.Definition
	IsEnabled   *bool
}

// Update cập nhật các trường được cung cấp của template. Chỉ manager được phép.
func (s *TemplateService) Update(ctx context.Context, projectID, callerID primitive.ObjectID, seq int64, fields TemplateUpdateFields) (*actionmodels.ActionTemplate, error) {
	if err := s.authorizer.RequireManager(ctx, projectID, callerID); err != nil {
		return nil, err
	}
	template, err := s.findLiveBySeq(ctx, projectID, seq)
	if err != nil {
		return nil, err
	}

	set := make(map[string]interface{})
	if fields.Name != nil {
		set["name"] = *fields.Name
	}
	if fields.Description != nil {
		set["description"] = *fields.Description
	}
	if fields.Definition != nil {
		if err := s.validateDefinition(*fields.Definition); err != nil {
			return nil, err
		}
		set["definition"] = *fields.Definition
	}
	if fields.IsEnabled != nil {
		set["isEnabled"] = *fields.IsEnabled
	}
	if len(set) == 0 {
		return template, nil
	}

	updated, err := s.BaseServiceMongoImpl.UpdateById(ctx, template.ID, &basesvc.UpdateData{Set: set})
	if err != nil {
		return nil, err
	}
	return &updated, nil
}

// SoftDelete đánh dấu template đã xóa, không bao giờ xóa cứng.
// Submission cũ tham chiếu template vẫn là bản ghi lịch sử hợp lệ.
func (s *TemplateService) SoftDelete(ctx context.Context, projectID, callerID primitive.ObjectID, seq int64) error {
	if err := s.authorizer.RequireManager(ctx, projectID, callerID); err != nil {
		return err
	}
	template, err := s.findLiveBySeq(ctx, projectID, seq)
	if err != nil {
		return err
	}
	update := &basesvc.UpdateData{
		Set: map[string]interface{}{
			"deletedAt": utility.CurrentTimeInMilli(),
		},
	}
	_, err = s.BaseServiceMongoImpl.UpdateById(ctx, template.ID, update)
	return err
}

// ToggleEnabled đảo trạng thái isEnabled của template. Chỉ manager được phép.
func (s *TemplateService) ToggleEnabled(ctx context.Context, projectID, callerID primitive.ObjectID, seq int64) (*actionmodels.ActionTemplate, error) {
	if err := s.authorizer.RequireManager(ctx, projectID, callerID); err != nil {
		return nil, err
	}
	template, err := s.findLiveBySeq(ctx, projectID, seq)
	if err != nil {
		return nil, err
	}
	update := &basesvc.UpdateData{
		Set: map[string]interface{}{
			"isEnabled": !template.IsEnabled,
		},
	}
	updated, err := s.BaseServiceMongoImpl.UpdateById(ctx, template.ID, update)
	if err != nil {
		return nil, err
	}
	return &updated, nil
}
