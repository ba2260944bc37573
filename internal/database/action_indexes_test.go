package database

import (
	"errors"
	"testing"

	"livechat/internal/global"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
)

func setTestColNames() {
	global.MongoDB_ColNames.ProjectMembers = "auth_project_members"
	global.MongoDB_ColNames.ChatMessages = "chat_messages"
	global.MongoDB_ColNames.ActionTemplates = "action_templates"
	global.MongoDB_ColNames.ActionSubmissions = "action_submissions"
}

// findIndex tìm index theo tên trong danh sách index của một collection
func findIndex(t *testing.T, models []mongo.IndexModel, name string) mongo.IndexModel {
	t.Helper()
	for _, m := range models {
		if m.Options != nil && m.Options.Name != nil && *m.Options.Name == name {
			return m
		}
	}
	t.Fatalf("Không tìm thấy index %s", name)
	return mongo.IndexModel{}
}

func indexKeys(t *testing.T, m mongo.IndexModel) []string {
	t.Helper()
	keys, ok := m.Keys.(bson.D)
	require.True(t, ok, "Keys phải là bson.D")
	names := make([]string, 0, len(keys))
	for _, e := range keys {
		names = append(names, e.Key)
	}
	return names
}

// TestActionTemplateStateIndexKeys - index trạng thái template phải khớp với
// trường deletedAt mà model thực sự lưu (soft delete không dùng isDeleted)
func TestActionTemplateStateIndexKeys(t *testing.T) {
	setTestColNames()

	defs := actionIndexModels()
	templates, ok := defs[global.MongoDB_ColNames.ActionTemplates]
	require.True(t, ok, "Phải có index cho action_templates")

	state := findIndex(t, templates, "action_template_project_state")
	keys := indexKeys(t, state)
	assert.Equal(t, []string{"projectId", "deletedAt", "isEnabled"}, keys,
		"Index trạng thái template phải dùng deletedAt, không phải isDeleted")
	assert.NotContains(t, keys, "isDeleted")
}

// TestPartialUniqueIndexes - hai chốt chặn nghiệp vụ phải là partial unique
func TestPartialUniqueIndexes(t *testing.T) {
	setTestColNames()
	defs := actionIndexModels()

	submission := findIndex(t, defs[global.MongoDB_ColNames.ActionSubmissions], "action_submission_form_request_unique")
	require.NotNil(t, submission.Options.Unique)
	assert.True(t, *submission.Options.Unique)
	assert.NotNil(t, submission.Options.PartialFilterExpression)

	awaiting := findIndex(t, defs[global.MongoDB_ColNames.ChatMessages], "chat_message_awaiting_reply_unique")
	require.NotNil(t, awaiting.Options.Unique)
	assert.True(t, *awaiting.Options.Unique)
	filter, ok := awaiting.Options.PartialFilterExpression.(bson.M)
	require.True(t, ok)
	assert.Equal(t, true, filter["awaitingReply"])
}

// TestSubmissionOwnershipSchema - validator phải diễn đạt đúng XOR giữa
// creatorId và visitorId: mỗi nhánh oneOf yêu cầu một trường và cấm trường kia
func TestSubmissionOwnershipSchema(t *testing.T) {
	schema := submissionOwnershipSchema()

	jsonSchema, ok := schema["$jsonSchema"].(bson.M)
	require.True(t, ok, "Validator phải bọc trong $jsonSchema")
	assert.Equal(t, "object", jsonSchema["bsonType"])

	oneOf, ok := jsonSchema["oneOf"].(bson.A)
	require.True(t, ok, "Phải dùng oneOf để diễn đạt XOR")
	require.Len(t, oneOf, 2)

	requiredField := func(branch bson.M) string {
		req, ok := branch["required"].(bson.A)
		require.True(t, ok)
		require.Len(t, req, 1)
		return req[0].(string)
	}
	forbiddenField := func(branch bson.M) string {
		not, ok := branch["not"].(bson.M)
		require.True(t, ok, "Mỗi nhánh phải cấm trường còn lại qua not")
		req, ok := not["required"].(bson.A)
		require.True(t, ok)
		require.Len(t, req, 1)
		return req[0].(string)
	}

	seen := map[string]string{}
	for _, raw := range oneOf {
		branch, ok := raw.(bson.M)
		require.True(t, ok)
		seen[requiredField(branch)] = forbiddenField(branch)
	}
	assert.Equal(t, "visitorId", seen["creatorId"], "Nhánh creatorId phải cấm visitorId")
	assert.Equal(t, "creatorId", seen["visitorId"], "Nhánh visitorId phải cấm creatorId")
}

func TestIsNamespaceNotFoundError(t *testing.T) {
	assert.False(t, isNamespaceNotFoundError(nil))
	assert.True(t, isNamespaceNotFoundError(mongo.CommandError{Code: 26, Name: "NamespaceNotFound"}))
	assert.True(t, isNamespaceNotFoundError(errors.New("ns does not exist: livechat.action_submissions")))
	assert.False(t, isNamespaceNotFoundError(errors.New("connection timed out")))
}
