package util

import "errors"

var (
	ErrUserNotFound     = errors.New("用户不存在")
	ErrEmailRegistered  = errors.New("该邮箱已被注册")
	ErrPermissionDenied = errors.New("permission denied")

	// 提交/批改流程
	ErrPaperNotFound     = errors.New("paper not found")
	ErrEmptyPaper        = errors.New("paper has no questions")
	ErrQuestionNotFound  = errors.New("question not found")
	ErrAnswerNotFound    = errors.New("answer not found")
	ErrPaperNotPublished = errors.New("paper not published or not accessible")

	// 错题本
	ErrWrongQuestionNotFound = errors.New("wrong question entry not found")
)
