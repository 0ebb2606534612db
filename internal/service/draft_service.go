package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"qingfeng_exam_backend/internal/repository"
	"qingfeng_exam_backend/pkg/logger"

	"github.com/go-redis/redis/v8"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// 草稿在 Redis 中的保留时间，答题页轮询保存期间命中缓存即可
const draftCacheTTL = 24 * time.Hour

// DraftService 答题草稿：数据库为准，Redis 做读缓存。
// 交卷成功前草稿必须可恢复，重试交卷不丢作答。
type DraftService struct {
	Repo  *repository.DraftRepository
	Redis *redis.Client
}

func NewDraftService(repo *repository.DraftRepository, rdb *redis.Client) *DraftService {
	return &DraftService{Repo: repo, Redis: rdb}
}

func draftCacheKey(userID uint, paperID string) string {
	return fmt.Sprintf("draft:%d:%s", userID, paperID)
}

func (s *DraftService) Save(userID uint, paperID string, payload json.RawMessage) error {
	if err := s.Repo.Upsert(userID, paperID, payload); err != nil {
		return err
	}
	if s.Redis != nil {
		ctx := context.Background()
		if err := s.Redis.Set(ctx, draftCacheKey(userID, paperID), []byte(payload), draftCacheTTL).Err(); err != nil {
			logger.Log.Warn("draft cache write failed", zap.Error(err))
		}
	}
	return nil
}

// Load 草稿不存在时返回 (nil, nil)
func (s *DraftService) Load(userID uint, paperID string) (json.RawMessage, error) {
	if s.Redis != nil {
		ctx := context.Background()
		cached, err := s.Redis.Get(ctx, draftCacheKey(userID, paperID)).Bytes()
		if err == nil {
			return json.RawMessage(cached), nil
		}
		if !errors.Is(err, redis.Nil) {
			logger.Log.Warn("draft cache read failed", zap.Error(err))
		}
	}

	draft, err := s.Repo.Find(userID, paperID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return draft.Payload, nil
}

// Delete 交卷成功后的清理，由交卷后置钩子调用
func (s *DraftService) Delete(userID uint, paperID string) error {
	if s.Redis != nil {
		ctx := context.Background()
		if err := s.Redis.Del(ctx, draftCacheKey(userID, paperID)).Err(); err != nil {
			logger.Log.Warn("draft cache delete failed", zap.Error(err))
		}
	}
	return s.Repo.Delete(userID, paperID)
}
