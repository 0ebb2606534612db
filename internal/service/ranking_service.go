package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"time"

	"qingfeng_exam_backend/internal/repository"
	"qingfeng_exam_backend/pkg/logger"

	"github.com/go-redis/redis/v8"
	"go.uber.org/zap"
)

const rankingCacheTTL = 5 * time.Minute

// RankingEntry 单个学生在某卷的排名行
type RankingEntry struct {
	Rank     int     `json:"rank"`
	UserID   uint    `json:"userId"`
	UserName string  `json:"userName"`
	Score    float64 `json:"score"`
}

type RankingService struct {
	AnswerRepo *repository.AnswerRepository
	UserRepo   *repository.UserRepository
	Redis      *redis.Client
}

func NewRankingService(answerRepo *repository.AnswerRepository, userRepo *repository.UserRepository, rdb *redis.Client) *RankingService {
	return &RankingService{AnswerRepo: answerRepo, UserRepo: userRepo, Redis: rdb}
}

func rankingCacheKey(paperID string) string {
	return "ranking:paper:" + paperID
}

// GetPaperRanking 按总分（机器分 + 人工分）降序的榜单，带 Redis 缓存
func (s *RankingService) GetPaperRanking(paperID string) ([]RankingEntry, error) {
	if s.Redis != nil {
		ctx := context.Background()
		cached, err := s.Redis.Get(ctx, rankingCacheKey(paperID)).Bytes()
		if err == nil {
			var entries []RankingEntry
			if jsonErr := json.Unmarshal(cached, &entries); jsonErr == nil {
				return entries, nil
			}
		} else if !errors.Is(err, redis.Nil) {
			logger.Log.Warn("ranking cache read failed", zap.Error(err))
		}
	}

	rows, err := s.AnswerRepo.ListScoreRows(paperID)
	if err != nil {
		return nil, err
	}

	totals := make(map[uint]float64)
	for _, row := range rows {
		score := row.Score
		if row.ManualScore != nil {
			score += *row.ManualScore
		}
		totals[row.UserID] += score
	}

	userIDs := make([]uint, 0, len(totals))
	for id := range totals {
		userIDs = append(userIDs, id)
	}

	names := make(map[uint]string, len(userIDs))
	if len(userIDs) > 0 {
		users, err := s.UserRepo.FindByIDs(userIDs)
		if err != nil {
			return nil, err
		}
		for _, u := range users {
			names[u.ID] = u.Name
		}
	}

	entries := make([]RankingEntry, 0, len(totals))
	for id, score := range totals {
		entries = append(entries, RankingEntry{UserID: id, UserName: names[id], Score: score})
	}
	sort.Slice(entries, func(i, j int) bool {
		if entries[i].Score != entries[j].Score {
			return entries[i].Score > entries[j].Score
		}
		return entries[i].UserID < entries[j].UserID
	})
	for i := range entries {
		entries[i].Rank = i + 1
	}

	if s.Redis != nil {
		ctx := context.Background()
		if data, err := json.Marshal(entries); err == nil {
			if err := s.Redis.Set(ctx, rankingCacheKey(paperID), data, rankingCacheTTL).Err(); err != nil {
				logger.Log.Warn("ranking cache write failed", zap.Error(err))
			}
		}
	}

	return entries, nil
}

// InvalidatePaper 新交卷后清缓存，由交卷后置钩子调用
func (s *RankingService) InvalidatePaper(paperID string) error {
	if s.Redis == nil {
		return nil
	}
	ctx := context.Background()
	if err := s.Redis.Del(ctx, rankingCacheKey(paperID)).Err(); err != nil {
		return fmt.Errorf("invalidate ranking cache: %w", err)
	}
	return nil
}
