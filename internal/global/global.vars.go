package global

import (
	"livechat/config"
	"livechat/internal/registry"

	"github.com/go-playground/validator/v10"
	"go.mongodb.org/mongo-driver/mongo"
)

// MongoDB_CollectionName chứa tên các collection trong MongoDB
type MongoDB_CollectionName struct {
	Users             string // Tên collection cho người dùng (agent/manager)
	Projects          string // Tên collection cho dự án (tenant)
	ProjectMembers    string // Tên collection cho thành viên dự án
	ChatConversations string // Tên collection cho cuộc trò chuyện
	ChatMessages      string // Tên collection cho tin nhắn
	ActionTemplates   string // Tên collection cho template hành động (form)
	ActionSubmissions string // Tên collection cho bản ghi submit form
	ActionCounters    string // Tên collection cho bộ đếm số thứ tự template
}

// Các biến toàn cục
var Validate *validator.Validate                                           // Biến để xác thực dữ liệu
var MongoDB_Session *mongo.Client                                          // Phiên kết nối tới MongoDB
var ServerConfig *config.Configuration                                     // Cấu hình của server
var MongoDB_ColNames MongoDB_CollectionName = *new(MongoDB_CollectionName) // Tên các collection

// Các Registry
var RegistryCollections = registry.NewRegistry[*mongo.Collection]() // Registry chứa các collections
var RegistryDatabase = registry.NewRegistry[*mongo.Database]()      // Registry chứa các databases
