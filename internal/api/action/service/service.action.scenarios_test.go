package actionsvc

// Test tích hợp vòng đời form request/submission trên MongoDB thật.
// Cần một replica set (transaction) — đặt LIVECHAT_TEST_MONGODB_URI để chạy,
// ví dụ: LIVECHAT_TEST_MONGODB_URI=mongodb://localhost:27017/?replicaSet=rs0

import (
	"context"
	"errors"
	"fmt"
	"os"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	actionmodels "livechat/internal/api/action/models"
	chatsvc "livechat/internal/api/chat/service"
	"livechat/internal/common"
	"livechat/internal/database"
	"livechat/internal/global"
	"livechat/internal/utility"
)

// allowAllAuthorizer bỏ qua kiểm tra quyền: các test này đo hành vi của
// form engine, không đo tầng phân quyền.
type allowAllAuthorizer struct{}

func (allowAllAuthorizer) RequireMember(ctx context.Context, projectID, userID primitive.ObjectID) error {
	return nil
}

func (allowAllAuthorizer) RequireManager(ctx context.Context, projectID, userID primitive.ObjectID) error {
	return nil
}

type scenarioEnv struct {
	ctx           context.Context
	templates     *TemplateService
	formRequests  *FormRequestService
	visitorForms  *VisitorFormService
	submissions   *SubmissionService
	conversations *chatsvc.ConversationService
}

func setupScenarioEnv(t *testing.T) *scenarioEnv {
	t.Helper()

	uri := os.Getenv("LIVECHAT_TEST_MONGODB_URI")
	if uri == "" {
		t.Skip("Bỏ qua test tích hợp: đặt LIVECHAT_TEST_MONGODB_URI (MongoDB replica set) để chạy")
	}

	ctx := context.Background()

	global.MongoDB_ColNames.Users = "auth_users"
	global.MongoDB_ColNames.Projects = "auth_projects"
	global.MongoDB_ColNames.ProjectMembers = "auth_project_members"
	global.MongoDB_ColNames.ChatConversations = "chat_conversations"
	global.MongoDB_ColNames.ChatMessages = "chat_messages"
	global.MongoDB_ColNames.ActionTemplates = "action_templates"
	global.MongoDB_ColNames.ActionSubmissions = "action_submissions"
	global.MongoDB_ColNames.ActionCounters = "action_counters"

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	require.NoError(t, err, "Không kết nối được MongoDB test")
	require.NoError(t, client.Ping(ctx, nil))
	global.MongoDB_Session = client

	dbName := fmt.Sprintf("livechat_it_%d", time.Now().UnixNano())
	db := client.Database(dbName)
	for _, name := range []string{
		global.MongoDB_ColNames.Users,
		global.MongoDB_ColNames.Projects,
		global.MongoDB_ColNames.ProjectMembers,
		global.MongoDB_ColNames.ChatConversations,
		global.MongoDB_ColNames.ChatMessages,
		global.MongoDB_ColNames.ActionTemplates,
		global.MongoDB_ColNames.ActionSubmissions,
		global.MongoDB_ColNames.ActionCounters,
	} {
		_, err := global.RegistryCollections.Register(name, db.Collection(name))
		require.NoError(t, err)
	}
	require.NoError(t, database.CreateActionIndexes(ctx, db), "Tạo index/validator thất bại")

	t.Cleanup(func() {
		_ = db.Drop(context.Background())
		_ = client.Disconnect(context.Background())
	})

	templates, err := NewTemplateService(allowAllAuthorizer{})
	require.NoError(t, err)
	submissions, err := NewSubmissionService(templates, allowAllAuthorizer{})
	require.NoError(t, err)
	formRequests, err := NewFormRequestService(templates, allowAllAuthorizer{})
	require.NoError(t, err)
	visitorForms, err := NewVisitorFormService(templates, submissions)
	require.NoError(t, err)
	conversations, err := chatsvc.NewConversationService()
	require.NoError(t, err)

	return &scenarioEnv{
		ctx:           ctx,
		templates:     templates,
		formRequests:  formRequests,
		visitorForms:  visitorForms,
		submissions:   submissions,
		conversations: conversations,
	}
}

func surveyDefinition() actionmodels.Definition {
	return actionmodels.Definition{
		Fields: []actionmodels.FieldSpec{
			{Key: "full_name", Label: "Họ tên", Type: actionmodels.FieldTypeText, Required: true},
			{Key: "note", Label: "Ghi chú", Type: actionmodels.FieldTypeText},
		},
	}
}

func (env *scenarioEnv) createTemplate(t *testing.T, projectID primitive.ObjectID, enabled bool) *actionmodels.ActionTemplate {
	t.Helper()
	template, err := env.templates.Create(env.ctx, projectID, primitive.NewObjectID(),
		"Khảo sát khách hàng", "Thu thập thông tin cơ bản", surveyDefinition(), enabled)
	require.NoError(t, err)
	return template
}

// TestFormRequestSend_TemplateTat - template đang tắt không được gửi vào hội thoại
func TestFormRequestSend_TemplateTat(t *testing.T) {
	env := setupScenarioEnv(t)

	projectID := primitive.NewObjectID()
	template := env.createTemplate(t, projectID, false)
	conversation, err := env.conversations.Create(env.ctx, projectID, "Khách A")
	require.NoError(t, err)

	_, err = env.formRequests.Send(env.ctx, conversation.ID, template.ID, primitive.NewObjectID(), 0)
	assert.ErrorIs(t, err, common.ErrTemplateDisabled)

	var customErr *common.Error
	require.ErrorAs(t, err, &customErr)
	assert.Equal(t, common.StatusBadRequest, customErr.StatusCode)
}

// TestFormRequestSend_DangCoRequestCho - hội thoại đã có request đang chờ
// thì request thứ hai phải nhận Conflict, và số request đang chờ vẫn là 1
func TestFormRequestSend_DangCoRequestCho(t *testing.T) {
	env := setupScenarioEnv(t)

	projectID := primitive.NewObjectID()
	template := env.createTemplate(t, projectID, true)
	conversation, err := env.conversations.Create(env.ctx, projectID, "Khách B")
	require.NoError(t, err)

	agentID := primitive.NewObjectID()
	_, err = env.formRequests.Send(env.ctx, conversation.ID, template.ID, agentID, 0)
	require.NoError(t, err)

	_, err = env.formRequests.Send(env.ctx, conversation.ID, template.ID, agentID, 0)
	assert.ErrorIs(t, err, common.ErrFormRequestPending)

	var customErr *common.Error
	require.ErrorAs(t, err, &customErr)
	assert.Equal(t, common.StatusConflict, customErr.StatusCode)

	pending, err := env.formRequests.countUnansweredForConversation(env.ctx, conversation.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(1), pending, "Hội thoại chỉ được có một request đang chờ")
}

// TestVisitorSubmit_RequestHetHan - submit sau thời điểm hết hạn phải nhận Gone
func TestVisitorSubmit_RequestHetHan(t *testing.T) {
	env := setupScenarioEnv(t)

	projectID := primitive.NewObjectID()
	template := env.createTemplate(t, projectID, true)
	conversation, err := env.conversations.Create(env.ctx, projectID, "Khách C")
	require.NoError(t, err)

	expiresAt := utility.CurrentTimeInMilli() + 300
	message, err := env.formRequests.Send(env.ctx, conversation.ID, template.ID, primitive.NewObjectID(), expiresAt)
	require.NoError(t, err)

	time.Sleep(400 * time.Millisecond)

	_, err = env.visitorForms.Submit(env.ctx, conversation.ID, message.ID, map[string]interface{}{"full_name": "Trần Thị C"})
	assert.ErrorIs(t, err, common.ErrFormRequestExpired)

	var customErr *common.Error
	require.ErrorAs(t, err, &customErr)
	assert.Equal(t, common.StatusGone, customErr.StatusCode)

	// Hết hạn không khóa hội thoại: request mới phải gửi được ngay
	_, err = env.formRequests.Send(env.ctx, conversation.ID, template.ID, primitive.NewObjectID(), 0)
	assert.NoError(t, err)
}

// TestVisitorSubmit_TrungLap - hai submit đồng thời cho cùng một request:
// đúng một bản ghi được tạo, bên thua nhận lỗi trùng lặp
func TestVisitorSubmit_TrungLap(t *testing.T) {
	env := setupScenarioEnv(t)

	projectID := primitive.NewObjectID()
	template := env.createTemplate(t, projectID, true)
	conversation, err := env.conversations.Create(env.ctx, projectID, "Khách D")
	require.NoError(t, err)

	message, err := env.formRequests.Send(env.ctx, conversation.ID, template.ID, primitive.NewObjectID(), 0)
	require.NoError(t, err)

	data := map[string]interface{}{"full_name": "Trần Thị D"}
	start := make(chan struct{})
	errs := make([]error, 2)
	var wg sync.WaitGroup
	for i := 0; i < 2; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			<-start
			_, errs[i] = env.visitorForms.Submit(env.ctx, conversation.ID, message.ID, data)
		}(i)
	}
	close(start)
	wg.Wait()

	succeeded := 0
	for _, err := range errs {
		if err == nil {
			succeeded++
			continue
		}
		// Bên thua: tùy thời điểm, vỡ ở pre-check (400) hoặc ở unique index (409)
		lost := errors.Is(err, common.ErrFormSubmissionConflict) || errors.Is(err, common.ErrFormAlreadySubmitted)
		assert.True(t, lost, "Lỗi của bên thua không đúng loại: %v", err)
	}
	assert.Equal(t, 1, succeeded, "Phải có đúng một submit thành công")

	count, err := env.submissions.CountDocuments(env.ctx, bson.M{"formRequestMessageId": message.ID})
	require.NoError(t, err)
	assert.Equal(t, int64(1), count, "Chỉ được có đúng một submission cho một form request")

	// Request đã được trả lời: không còn request đang chờ
	pending, err := env.formRequests.countUnansweredForConversation(env.ctx, conversation.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(0), pending)

	// Đường ghi trực tiếp trùng formRequestMessageId cũng phải vỡ ở index
	_, err = env.submissions.CreateByVisitor(env.ctx, conversation, template.ID, message.ID, data)
	assert.True(t, common.IsDuplicateError(err), "Insert trùng phải bị unique index từ chối: %v", err)
}

// TestVisitorSubmit_MessageKhongTonTai - messageId không tồn tại phải nhận
// BadRequest "không phải form request", không phải lỗi hệ thống
func TestVisitorSubmit_MessageKhongTonTai(t *testing.T) {
	env := setupScenarioEnv(t)

	projectID := primitive.NewObjectID()
	conversation, err := env.conversations.Create(env.ctx, projectID, "Khách E")
	require.NoError(t, err)

	_, err = env.visitorForms.Submit(env.ctx, conversation.ID, primitive.NewObjectID(), map[string]interface{}{"full_name": "x"})
	assert.ErrorIs(t, err, common.ErrNotFormRequestMessage)
}

// TestSubmissionValidator_ChanHaiChuSoHuu - validator trên collection phải
// từ chối document có cả creatorId lẫn visitorId, hoặc không có trường nào
func TestSubmissionValidator_ChanHaiChuSoHuu(t *testing.T) {
	env := setupScenarioEnv(t)

	col, exist := global.RegistryCollections.Get(global.MongoDB_ColNames.ActionSubmissions)
	require.True(t, exist)

	ownerID := primitive.NewObjectID()
	base := bson.M{
		"_id":            primitive.NewObjectID(),
		"templateId":     primitive.NewObjectID(),
		"conversationId": primitive.NewObjectID(),
		"projectId":      primitive.NewObjectID(),
		"status":         actionmodels.SubmissionStatusSubmitted,
		"data":           bson.M{"full_name": "x"},
	}

	both := bson.M{}
	for k, v := range base {
		both[k] = v
	}
	both["_id"] = primitive.NewObjectID()
	both["creatorId"] = ownerID
	both["visitorId"] = ownerID
	_, err := col.InsertOne(env.ctx, both)
	assert.Error(t, err, "Document có cả hai chủ sở hữu phải bị validator từ chối")

	neither := bson.M{}
	for k, v := range base {
		neither[k] = v
	}
	neither["_id"] = primitive.NewObjectID()
	_, err = col.InsertOne(env.ctx, neither)
	assert.Error(t, err, "Document không có chủ sở hữu phải bị validator từ chối")

	valid := bson.M{}
	for k, v := range base {
		valid[k] = v
	}
	valid["_id"] = primitive.NewObjectID()
	valid["creatorId"] = ownerID
	_, err = col.InsertOne(env.ctx, valid)
	assert.NoError(t, err, "Document có đúng một chủ sở hữu phải được chấp nhận")
}
