package repository

import (
	"encoding/json"
	"qingfeng_exam_backend/internal/model"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type DraftRepository struct {
	DB *gorm.DB
}

func NewDraftRepository(db *gorm.DB) *DraftRepository {
	return &DraftRepository{DB: db}
}

// Upsert 按 (user_id, paper_id) 覆盖草稿
func (r *DraftRepository) Upsert(userID uint, paperID string, payload json.RawMessage) error {
	draft := model.AnswerDraft{
		UserID:  userID,
		PaperID: paperID,
		Payload: payload,
	}
	return r.DB.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "user_id"}, {Name: "paper_id"}},
		DoUpdates: clause.AssignmentColumns([]string{"payload", "updated_at"}),
	}).Create(&draft).Error
}

func (r *DraftRepository) Find(userID uint, paperID string) (*model.AnswerDraft, error) {
	var draft model.AnswerDraft
	err := r.DB.Where("user_id = ? AND paper_id = ?", userID, paperID).First(&draft).Error
	if err != nil {
		return nil, err
	}
	return &draft, nil
}

// Delete 交卷成功后清理草稿
func (r *DraftRepository) Delete(userID uint, paperID string) error {
	return r.DB.Where("user_id = ? AND paper_id = ?", userID, paperID).
		Delete(&model.AnswerDraft{}).Error
}
