package basesvc

import (
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"livechat/internal/common"
)

// counterDoc là document trong collection counter.
// _id có dạng "<scope>:<name>", ví dụ "66b1f2...:template_seq".
type counterDoc struct {
	ID  string `bson:"_id"`
	Seq int64  `bson:"seq"`
}

// CounterService cấp số thứ tự tăng dần theo scope (ví dụ seq template trong một project).
// Dùng FindOneAndUpdate với $inc + upsert nên an toàn khi nhiều request song song.
type CounterService struct {
	collection *mongo.Collection
}

// NewCounterService tạo mới CounterService.
func NewCounterService(collection *mongo.Collection) *CounterService {
	return &CounterService{collection: collection}
}

// NextSeq trả về số thứ tự tiếp theo cho cặp (scope, name).
// Lần gọi đầu tiên cho một cặp mới trả về 1.
func (s *CounterService) NextSeq(ctx context.Context, scope, name string) (int64, error) {
	id := fmt.Sprintf("%s:%s", scope, name)

	opts := options.FindOneAndUpdate().
		SetUpsert(true).
		SetReturnDocument(options.After)

	var doc counterDoc
	err := s.collection.FindOneAndUpdate(
		ctx,
		bson.M{"_id": id},
		bson.M{"$inc": bson.M{"seq": int64(1)}},
		opts,
	).Decode(&doc)
	if err != nil {
		return 0, common.ConvertMongoError(err)
	}

	return doc.Seq, nil
}
