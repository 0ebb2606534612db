package controller

import (
	"encoding/json"
	"errors"

	"qingfeng_exam_backend/internal/grading"
	"qingfeng_exam_backend/internal/model"
	"qingfeng_exam_backend/internal/service"
	"qingfeng_exam_backend/internal/util"

	"github.com/gin-gonic/gin"
)

type ExamController struct {
	ExamService  *service.ExamService
	DraftService *service.DraftService
}

func NewExamController(examService *service.ExamService, draftService *service.DraftService) *ExamController {
	return &ExamController{
		ExamService:  examService,
		DraftService: draftService,
	}
}

// swagger:model SubmitRequest
type SubmitRequest struct {
	// Answers 以题目 ID 为键，值为选项标签数组或单个字符串
	Answers map[string]model.ChosenValue `json:"answers" binding:"required"`
}

// SubmitAnswers godoc
// @Summary 交卷
// @Description 提交整卷作答并自动批改。重复交卷覆盖旧成绩，整批写入全有或全无，失败时整卷重交即可。
// @Tags 考试
// @Accept  json
// @Produce  json
// @Security ApiKeyAuth
// @Param   id path string true "试卷ID"
// @Param   body body SubmitRequest true "作答内容"
// @Success 200 {object} util.Response{data=service.SubmitResult} "交卷成功"
// @Failure 400 {object} util.Response "试卷为空或题库数据错误"
// @Failure 404 {object} util.Response "试卷不存在"
// @Router /api/papers/{id}/submit [post]
func (c *ExamController) SubmitAnswers(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	if claims == nil {
		util.Unauthorized(ctx)
		return
	}

	var req SubmitRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	result, err := c.ExamService.SubmitAnswers(claims.UserID, ctx.Param("id"), req.Answers)
	if err != nil {
		switch {
		case errors.Is(err, util.ErrPaperNotFound):
			util.NotFound(ctx)
		case errors.Is(err, util.ErrEmptyPaper),
			errors.Is(err, grading.ErrUnknownQuestionType),
			errors.Is(err, grading.ErrAnswerOptionMismatch):
			util.BadRequest(ctx, err.Error())
		default:
			util.LogInternalError(ctx, err)
		}
		return
	}
	util.Success(ctx, result)
}

// GetExamResult godoc
// @Summary 查看成绩
// @Description 当前学生在某卷上的得分明细，总分口径为机器分加人工分
// @Tags 考试
// @Produce  json
// @Security ApiKeyAuth
// @Param   id path string true "试卷ID"
// @Success 200 {object} util.Response{data=service.ExamResult} "成功"
// @Failure 404 {object} util.Response "试卷不存在"
// @Router /api/papers/{id}/result [get]
func (c *ExamController) GetExamResult(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	if claims == nil {
		util.Unauthorized(ctx)
		return
	}

	result, err := c.ExamService.GetExamResult(claims.UserID, ctx.Param("id"))
	if err != nil {
		if errors.Is(err, util.ErrPaperNotFound) {
			util.NotFound(ctx)
			return
		}
		util.LogInternalError(ctx, err)
		return
	}
	util.Success(ctx, result)
}

type DraftRequest struct {
	Payload json.RawMessage `json:"payload" binding:"required"`
}

// SaveDraft godoc
// @Summary 保存答题草稿
// @Description 答题过程中的中间作答，交卷成功后自动清除
// @Tags 考试
// @Accept  json
// @Produce  json
// @Security ApiKeyAuth
// @Param   id path string true "试卷ID"
// @Param   body body DraftRequest true "草稿内容"
// @Success 200 {object} util.Response "成功"
// @Router /api/papers/{id}/draft [put]
func (c *ExamController) SaveDraft(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	if claims == nil {
		util.Unauthorized(ctx)
		return
	}

	var req DraftRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	if err := c.DraftService.Save(claims.UserID, ctx.Param("id"), req.Payload); err != nil {
		util.LogInternalError(ctx, err)
		return
	}
	util.Success(ctx, nil)
}

// GetDraft godoc
// @Summary 读取答题草稿
// @Tags 考试
// @Produce  json
// @Security ApiKeyAuth
// @Param   id path string true "试卷ID"
// @Success 200 {object} util.Response{data=object} "成功，无草稿时 payload 为空"
// @Router /api/papers/{id}/draft [get]
func (c *ExamController) GetDraft(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	if claims == nil {
		util.Unauthorized(ctx)
		return
	}

	payload, err := c.DraftService.Load(claims.UserID, ctx.Param("id"))
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}
	util.Success(ctx, gin.H{"payload": payload})
}
