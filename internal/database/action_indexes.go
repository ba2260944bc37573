// Package database - Index cho form engine (partial unique, compound) không thể định nghĩa qua model tags.
package database

import (
	"context"
	"errors"
	"strings"

	"livechat/internal/global"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// actionIndexModels trả về danh sách index theo tên collection.
// Hai partial unique index là chốt chặn cuối cùng cho các ràng buộc nghiệp vụ:
// mỗi form-request message chỉ có một submission, và mỗi conversation
// chỉ có một form-request đang chờ trả lời. Race qua pre-check sẽ vỡ ở đây
// thành duplicate key error và được dịch thành 409.
func actionIndexModels() map[string][]mongo.IndexModel {
	return map[string][]mongo.IndexModel{
		global.MongoDB_ColNames.ActionSubmissions: {
			// formRequestMessageId unique trên các document có trường này
			// (submission tự do không có formRequestMessageId nên dùng partial filter)
			{
				Keys: bson.D{{Key: "formRequestMessageId", Value: 1}},
				Options: options.Index().
					SetName("action_submission_form_request_unique").
					SetUnique(true).
					SetPartialFilterExpression(bson.M{"formRequestMessageId": bson.M{"$exists": true}}),
			},
			// (projectId, templateId, createdAt) — liệt kê submission theo template
			{
				Keys: bson.D{
					{Key: "projectId", Value: 1},
					{Key: "templateId", Value: 1},
					{Key: "createdAt", Value: -1},
				},
				Options: options.Index().SetName("action_submission_project_template"),
			},
			// (conversationId, createdAt) — lịch sử submission của hội thoại
			{
				Keys: bson.D{
					{Key: "conversationId", Value: 1},
					{Key: "createdAt", Value: -1},
				},
				Options: options.Index().SetName("action_submission_conversation").SetSparse(true),
			},
		},
		global.MongoDB_ColNames.ChatMessages: {
			// conversationId unique trên các message đang chờ trả lời —
			// mỗi conversation chỉ có tối đa một form-request chưa được trả lời
			{
				Keys: bson.D{{Key: "conversationId", Value: 1}},
				Options: options.Index().
					SetName("chat_message_awaiting_reply_unique").
					SetUnique(true).
					SetPartialFilterExpression(bson.M{"awaitingReply": true}),
			},
			// (conversationId, createdAt) — phân trang tin nhắn của hội thoại
			{
				Keys: bson.D{
					{Key: "conversationId", Value: 1},
					{Key: "createdAt", Value: -1},
				},
				Options: options.Index().SetName("chat_message_conversation_created"),
			},
		},
		global.MongoDB_ColNames.ActionTemplates: {
			// (projectId, seq) unique — số thứ tự template trong project
			{
				Keys: bson.D{
					{Key: "projectId", Value: 1},
					{Key: "seq", Value: 1},
				},
				Options: options.Index().SetName("action_template_project_seq").SetUnique(true),
			},
			// (projectId, deletedAt, isEnabled) — liệt kê template của project
			{
				Keys: bson.D{
					{Key: "projectId", Value: 1},
					{Key: "deletedAt", Value: 1},
					{Key: "isEnabled", Value: 1},
				},
				Options: options.Index().SetName("action_template_project_state"),
			},
		},
		global.MongoDB_ColNames.ProjectMembers: {
			// (projectId, userId) unique — một user một membership mỗi project
			{
				Keys: bson.D{
					{Key: "projectId", Value: 1},
					{Key: "userId", Value: 1},
				},
				Options: options.Index().SetName("project_member_project_user").SetUnique(true),
			},
		},
		// action_counters: _id là "<projectId>:template_seq" nên không cần index bổ sung
	}
}

// CreateActionIndexes tạo các index cho form engine và gắn validator sở hữu
// cho action_submissions.
func CreateActionIndexes(ctx context.Context, db *mongo.Database) error {
	for colName, indexModels := range actionIndexModels() {
		col := db.Collection(colName)
		for _, model := range indexModels {
			if _, err := col.Indexes().CreateOne(ctx, model); err != nil && !isIndexExistsError(err) {
				return err
			}
		}
	}

	// action_submissions: validator $jsonSchema chặn document có cả hai (hoặc
	// không có) creatorId/visitorId ngay tại tầng lưu trữ
	if err := ensureSubmissionOwnershipValidator(ctx, db); err != nil {
		return err
	}

	return nil
}

// submissionOwnershipSchema trả về $jsonSchema yêu cầu action_submission có
// đúng một trong hai trường creatorId/visitorId. Mongo không hỗ trợ XOR qua
// index nên ràng buộc này đi qua collection validator.
func submissionOwnershipSchema() bson.M {
	return bson.M{
		"$jsonSchema": bson.M{
			"bsonType": "object",
			"oneOf": bson.A{
				bson.M{
					"required": bson.A{"creatorId"},
					"not":      bson.M{"required": bson.A{"visitorId"}},
				},
				bson.M{
					"required": bson.A{"visitorId"},
					"not":      bson.M{"required": bson.A{"creatorId"}},
				},
			},
		},
	}
}

// ensureSubmissionOwnershipValidator gắn validator sở hữu vào action_submissions.
// collMod trước (collection thường đã tồn tại sau khi tạo index ở trên);
// nếu collection chưa có thì tạo mới kèm validator luôn.
func ensureSubmissionOwnershipValidator(ctx context.Context, db *mongo.Database) error {
	colName := global.MongoDB_ColNames.ActionSubmissions
	err := db.RunCommand(ctx, bson.D{
		{Key: "collMod", Value: colName},
		{Key: "validator", Value: submissionOwnershipSchema()},
		{Key: "validationLevel", Value: "strict"},
		{Key: "validationAction", Value: "error"},
	}).Err()
	if err == nil {
		return nil
	}
	if isNamespaceNotFoundError(err) {
		opts := options.CreateCollection().
			SetValidator(submissionOwnershipSchema()).
			SetValidationLevel("strict").
			SetValidationAction("error")
		if createErr := db.CreateCollection(ctx, colName, opts); createErr != nil && !isIndexExistsError(createErr) {
			return createErr
		}
		return nil
	}
	return err
}

func isNamespaceNotFoundError(err error) bool {
	if err == nil {
		return false
	}
	var cmdErr mongo.CommandError
	if errors.As(err, &cmdErr) && cmdErr.Code == 26 {
		return true
	}
	s := err.Error()
	return strings.Contains(s, "NamespaceNotFound") || strings.Contains(s, "ns does not exist")
}

func isIndexExistsError(err error) bool {
	if err == nil {
		return false
	}
	s := err.Error()
	return strings.Contains(s, "already exists") || strings.Contains(s, "duplicate")
}
