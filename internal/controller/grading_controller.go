package controller

import (
	"errors"
	"strconv"

	"qingfeng_exam_backend/internal/service"
	"qingfeng_exam_backend/internal/util"

	"github.com/gin-gonic/gin"
)

type GradingController struct {
	GradingService *service.GradingService
}

func NewGradingController(gradingService *service.GradingService) *GradingController {
	return &GradingController{GradingService: gradingService}
}

// ListPending godoc
// @Summary 待批阅队列
// @Description 所有待人工批阅的简答题，按提交时间倒序，可按试卷过滤
// @Tags 批阅
// @Produce  json
// @Security ApiKeyAuth
// @Param   paperId query string false "试卷ID"
// @Param   limit query int false "最大条数"
// @Success 200 {object} util.Response{data=object} "成功"
// @Router /api/grading/pending [get]
func (c *GradingController) ListPending(ctx *gin.Context) {
	limit, _ := strconv.Atoi(ctx.DefaultQuery("limit", "50"))

	rows, err := c.GradingService.ListPending(ctx.Query("paperId"), limit)
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}
	util.Success(ctx, gin.H{"list": rows, "count": len(rows)})
}

type GradeRequest struct {
	Score   float64 `json:"score" binding:"min=0"`
	Comment string  `json:"comment"`
}

// GradeShortAnswer godoc
// @Summary 批阅简答题
// @Description 给一道简答题打分。得分截断到 [0, 满分]，达到满分 60% 记为答对。
// @Tags 批阅
// @Accept  json
// @Produce  json
// @Security ApiKeyAuth
// @Param   id path string true "答题记录ID"
// @Param   body body GradeRequest true "得分与评语"
// @Success 200 {object} util.Response "成功"
// @Failure 404 {object} util.Response "答题记录或题目绑定不存在"
// @Router /api/grading/{id} [put]
func (c *GradingController) GradeShortAnswer(ctx *gin.Context) {
	var req GradeRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	err := c.GradingService.GradeShortAnswer(ctx.Param("id"), req.Score, req.Comment)
	if err != nil {
		if errors.Is(err, util.ErrAnswerNotFound) || errors.Is(err, util.ErrQuestionNotFound) {
			util.NotFound(ctx)
			return
		}
		util.LogInternalError(ctx, err)
		return
	}
	util.Success(ctx, nil)
}
