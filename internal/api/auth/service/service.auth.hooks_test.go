package authsvc

import (
	"context"
	"testing"
	"time"

	models "livechat/internal/api/auth/models"
	"livechat/internal/api/events"
	"livechat/internal/global"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// TestHandleMemberDataChange_GoCacheTheoKey - thay đổi membership phải gỡ đúng
// entry cache vai trò của cặp (project, user) đó, các entry khác giữ nguyên
func TestHandleMemberDataChange_GoCacheTheoKey(t *testing.T) {
	global.MongoDB_ColNames.ProjectMembers = "auth_project_members"

	projectID := primitive.NewObjectID()
	userID := primitive.NewObjectID()
	otherKey := memberCacheKey(primitive.NewObjectID(), primitive.NewObjectID())

	memberRoleCache.Set(memberCacheKey(projectID, userID), models.RoleAgent)
	memberRoleCache.Set(otherKey, models.RoleManager)

	handleMemberDataChange(context.Background(), events.DataChangeEvent{
		CollectionName: global.MongoDB_ColNames.ProjectMembers,
		Operation:      events.OpUpdate,
		Document: &models.ProjectMember{
			ProjectID: projectID,
			UserID:    userID,
			Role:      models.RoleManager,
		},
	})

	_, found := memberRoleCache.Get(memberCacheKey(projectID, userID))
	assert.False(t, found, "Entry của cặp bị thay đổi phải bị gỡ")
	_, found = memberRoleCache.Get(otherKey)
	assert.True(t, found, "Entry của cặp khác phải còn nguyên")
}

// TestHandleMemberDataChange_DeleteXaToanBo - delete không mang document nên
// hook phải xả toàn bộ cache thay vì bỏ qua
func TestHandleMemberDataChange_DeleteXaToanBo(t *testing.T) {
	global.MongoDB_ColNames.ProjectMembers = "auth_project_members"

	key := memberCacheKey(primitive.NewObjectID(), primitive.NewObjectID())
	memberRoleCache.Set(key, models.RoleAgent)

	handleMemberDataChange(context.Background(), events.DataChangeEvent{
		CollectionName: global.MongoDB_ColNames.ProjectMembers,
		Operation:      events.OpDelete,
		Document:       nil,
	})

	_, found := memberRoleCache.Get(key)
	assert.False(t, found)
}

// TestHandleMemberDataChange_BoQuaCollectionKhac - thay đổi collection khác
// không được đụng vào cache vai trò
func TestHandleMemberDataChange_BoQuaCollectionKhac(t *testing.T) {
	global.MongoDB_ColNames.ProjectMembers = "auth_project_members"

	key := memberCacheKey(primitive.NewObjectID(), primitive.NewObjectID())
	memberRoleCache.Set(key, models.RoleAgent)

	handleMemberDataChange(context.Background(), events.DataChangeEvent{
		CollectionName: "chat_messages",
		Operation:      events.OpInsert,
		Document:       nil,
	})

	_, found := memberRoleCache.Get(key)
	assert.True(t, found)
}

// TestEmitDataChanged_HookDangKyQuaInit - hook đăng ký qua init() phải nhận
// được event phát từ EmitDataChanged và gỡ cache (handler chạy async)
func TestEmitDataChanged_HookDangKyQuaInit(t *testing.T) {
	global.MongoDB_ColNames.ProjectMembers = "auth_project_members"

	projectID := primitive.NewObjectID()
	userID := primitive.NewObjectID()
	key := memberCacheKey(projectID, userID)
	memberRoleCache.Set(key, models.RoleAgent)

	events.EmitDataChanged(context.Background(), events.DataChangeEvent{
		CollectionName: global.MongoDB_ColNames.ProjectMembers,
		Operation:      events.OpInsert,
		Document: models.ProjectMember{
			ProjectID: projectID,
			UserID:    userID,
			Role:      models.RoleAgent,
		},
	})

	require.Eventually(t, func() bool {
		_, found := memberRoleCache.Get(key)
		return !found
	}, 2*time.Second, 10*time.Millisecond, "Hook phải gỡ cache sau khi nhận event")
}

func TestToProjectMember(t *testing.T) {
	member := models.ProjectMember{ProjectID: primitive.NewObjectID(), UserID: primitive.NewObjectID()}

	got, ok := toProjectMember(&member)
	require.True(t, ok)
	assert.Equal(t, member.UserID, got.UserID)

	got, ok = toProjectMember(member)
	require.True(t, ok)
	assert.Equal(t, member.ProjectID, got.ProjectID)

	_, ok = toProjectMember(nil)
	assert.False(t, ok)
	_, ok = toProjectMember("không phải member")
	assert.False(t, ok)
}
