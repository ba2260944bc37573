// Package authsvc - service Project.
package authsvc

import (
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/bson/primitive"

	models "livechat/internal/api/auth/models"
	basesvc "livechat/internal/api/base/service"
	"livechat/internal/common"
	"livechat/internal/global"
)

// ProjectService là cấu trúc chứa các phương thức liên quan đến project
type ProjectService struct {
	*basesvc.BaseServiceMongoImpl[models.Project]
	memberService *MemberService
}

// NewProjectService tạo mới ProjectService
func NewProjectService() (*ProjectService, error) {
	projectCollection, exist := global.RegistryCollections.Get(global.MongoDB_ColNames.Projects)
	if !exist {
		return nil, fmt.Errorf("failed to get projects collection: %v", common.ErrNotFound)
	}
	memberService, err := NewMemberService()
	if err != nil {
		return nil, fmt.Errorf("failed to create member service: %v", err)
	}
	return &ProjectService{
		BaseServiceMongoImpl: basesvc.NewBaseServiceMongo[models.Project](projectCollection),
		memberService:        memberService,
	}, nil
}

// Create tạo mới một project và gán người tạo làm manager
func (s *ProjectService) Create(ctx context.Context, name string, domain string, ownerID primitive.ObjectID) (*models.Project, error) {
	project := models.Project{
		ID:      primitive.NewObjectID(),
		Name:    name,
		Domain:  domain,
		OwnerID: ownerID,
	}
	created, err := s.BaseServiceMongoImpl.InsertOne(ctx, project)
	if err != nil {
		return nil, common.ConvertMongoError(err)
	}
	if _, err := s.memberService.AddMember(ctx, created.ID, ownerID, models.RoleManager); err != nil {
		return nil, err
	}
	return &created, nil
}
