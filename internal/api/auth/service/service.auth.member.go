// Package authsvc - service thành viên project (ProjectMember) và kiểm tra quyền.
package authsvc

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"

	models "livechat/internal/api/auth/models"
	basesvc "livechat/internal/api/base/service"
	"livechat/internal/common"
	"livechat/internal/global"
	"livechat/internal/utility"
)

// MemberService là cấu trúc chứa các phương thức liên quan đến thành viên project.
// Kết quả tra cứu vai trò được cache theo TTL để giảm tải truy vấn MongoDB
// trên các đường nóng (mọi request chat đều phải kiểm tra membership).
type MemberService struct {
	*basesvc.BaseServiceMongoImpl[models.ProjectMember]
	roleCache *utility.Cache
}

// memberRoleCache dùng chung cho mọi instance MemberService: hook invalidation
// (service.auth.hooks.go) phải thấy cùng một cache với handler đang phục vụ request.
var memberRoleCache = utility.NewCache(30*time.Second, 5*time.Minute)

// NewMemberService tạo mới MemberService
func NewMemberService() (*MemberService, error) {
	memberCollection, exist := global.RegistryCollections.Get(global.MongoDB_ColNames.ProjectMembers)
	if !exist {
		return nil, fmt.Errorf("failed to get project_members collection: %v", common.ErrNotFound)
	}
	return &MemberService{
		BaseServiceMongoImpl: basesvc.NewBaseServiceMongo[models.ProjectMember](memberCollection),
		roleCache:            memberRoleCache,
	}, nil
}

// memberCacheKey tạo key cache cho cặp (project, user)
func memberCacheKey(projectID, userID primitive.ObjectID) string {
	return projectID.Hex() + ":" + userID.Hex()
}

func (s *MemberService) cacheKey(projectID, userID primitive.ObjectID) string {
	return memberCacheKey(projectID, userID)
}

// AddMember gán một user vào project với vai trò cho trước.
// Trùng cặp (projectId, userId) sẽ bị unique index từ chối.
func (s *MemberService) AddMember(ctx context.Context, projectID, userID primitive.ObjectID, role string) (*models.ProjectMember, error) {
	if role != models.RoleManager && role != models.RoleAgent {
		return nil, common.NewError(
			common.ErrCodeValidationInput,
			fmt.Sprintf("Vai trò '%s' không hợp lệ, chỉ chấp nhận '%s' hoặc '%s'", role, models.RoleManager, models.RoleAgent),
			common.StatusBadRequest,
			nil,
		)
	}
	member := models.ProjectMember{
		ID:        primitive.NewObjectID(),
		ProjectID: projectID,
		UserID:    userID,
		Role:      role,
	}
	created, err := s.BaseServiceMongoImpl.InsertOne(ctx, member)
	if err != nil {
		return nil, common.ConvertMongoError(err)
	}
	s.roleCache.Delete(s.cacheKey(projectID, userID))
	return &created, nil
}

// RemoveMember gỡ một user khỏi project
func (s *MemberService) RemoveMember(ctx context.Context, projectID, userID primitive.ObjectID) error {
	filter := bson.M{"projectId": projectID, "userId": userID}
	if err := s.BaseServiceMongoImpl.DeleteOne(ctx, filter); err != nil {
		return common.ConvertMongoError(err)
	}
	s.roleCache.Delete(s.cacheKey(projectID, userID))
	return nil
}

// GetRole trả về vai trò của user trong project, có cache.
// Trả về chuỗi rỗng nếu user không phải thành viên.
func (s *MemberService) GetRole(ctx context.Context, projectID, userID primitive.ObjectID) (string, error) {
	key := s.cacheKey(projectID, userID)
	if cached, found := s.roleCache.Get(key); found {
		return cached.(string), nil
	}

	filter := bson.M{"projectId": projectID, "userId": userID}
	member, err := s.BaseServiceMongoImpl.FindOne(ctx, filter, nil)
	if err != nil {
		var customErr *common.Error
		if errors.As(err, &customErr) && customErr.StatusCode == common.StatusNotFound {
			s.roleCache.Set(key, "")
			return "", nil
		}
		return "", common.ConvertMongoError(err)
	}

	s.roleCache.Set(key, member.Role)
	return member.Role, nil
}

// IsMember kiểm tra user có phải thành viên của project hay không
func (s *MemberService) IsMember(ctx context.Context, projectID, userID primitive.ObjectID) (bool, error) {
	role, err := s.GetRole(ctx, projectID, userID)
	if err != nil {
		return false, err
	}
	return role != "", nil
}

// IsManager kiểm tra user có vai trò manager trong project hay không
func (s *MemberService) IsManager(ctx context.Context, projectID, userID primitive.ObjectID) (bool, error) {
	role, err := s.GetRole(ctx, projectID, userID)
	if err != nil {
		return false, err
	}
	return role == models.RoleManager, nil
}

// RequireMember trả về lỗi 403 nếu user không phải thành viên của project
func (s *MemberService) RequireMember(ctx context.Context, projectID, userID primitive.ObjectID) error {
	ok, err := s.IsMember(ctx, projectID, userID)
	if err != nil {
		return err
	}
	if !ok {
		return common.ErrNotMember
	}
	return nil
}

// RequireManager trả về lỗi 403 nếu user không phải manager của project
func (s *MemberService) RequireManager(ctx context.Context, projectID, userID primitive.ObjectID) error {
	role, err := s.GetRole(ctx, projectID, userID)
	if err != nil {
		return err
	}
	if role == "" {
		return common.ErrNotMember
	}
	if role != models.RoleManager {
		return common.ErrNotManager
	}
	return nil
}
