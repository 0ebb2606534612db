package service

import (
	"fmt"

	"qingfeng_exam_backend/internal/model"
	"qingfeng_exam_backend/internal/repository"
)

type NotificationService struct {
	Repo *repository.NotificationRepository
}

func NewNotificationService(repo *repository.NotificationRepository) *NotificationService {
	return &NotificationService{Repo: repo}
}

func (s *NotificationService) Notify(userID uint, kind model.NotificationKind, title, content string, paperID *string) error {
	return s.Repo.Create(&model.Notification{
		UserID:  userID,
		Kind:    kind,
		Title:   title,
		Content: content,
		PaperID: paperID,
	})
}

// NotifyGradePublished 交卷后允许查看解析时推送成绩发布通知
func (s *NotificationService) NotifyGradePublished(userID uint, paperID, paperTitle string) error {
	content := fmt.Sprintf("您的试卷“%s”已提交并完成自动批改，可以查看成绩与解析。", paperTitle)
	return s.Notify(userID, model.NotifyGradePublished, "成绩已发布", content, &paperID)
}

func (s *NotificationService) List(userID uint, unreadOnly bool, limit int) ([]model.Notification, error) {
	return s.Repo.ListByUser(userID, unreadOnly, limit)
}

func (s *NotificationService) MarkRead(id string, userID uint) error {
	return s.Repo.MarkRead(id, userID)
}

func (s *NotificationService) MarkAllRead(userID uint) error {
	return s.Repo.MarkAllRead(userID)
}

func (s *NotificationService) CountUnread(userID uint) (int64, error) {
	return s.Repo.CountUnread(userID)
}
