// Package authsvc - Event handler cho membership (OnDataChanged).
// Hook gỡ cache vai trò khi auth_project_members thay đổi để quyền mới
// có hiệu lực ngay, không phải chờ TTL.
package authsvc

import (
	"context"

	models "livechat/internal/api/auth/models"
	"livechat/internal/api/events"
	"livechat/internal/global"
)

func init() {
	events.OnDataChanged(handleMemberDataChange)
}

// handleMemberDataChange gỡ cache vai trò theo cặp (project, user) của bản ghi
// thay đổi. Delete không mang document nên xả toàn bộ cache; TTL 30s vẫn là
// lưới an toàn cuối.
func handleMemberDataChange(ctx context.Context, e events.DataChangeEvent) {
	if e.CollectionName != global.MongoDB_ColNames.ProjectMembers {
		return
	}
	if member, ok := toProjectMember(e.Document); ok {
		memberRoleCache.Delete(memberCacheKey(member.ProjectID, member.UserID))
		return
	}
	memberRoleCache.Flush()
}

func toProjectMember(doc interface{}) (*models.ProjectMember, bool) {
	if doc == nil {
		return nil, false
	}
	if d, ok := doc.(*models.ProjectMember); ok {
		return d, true
	}
	if d, ok := doc.(models.ProjectMember); ok {
		return &d, true
	}
	return nil, false
}
