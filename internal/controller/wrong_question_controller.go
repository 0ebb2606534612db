package controller

import (
	"errors"
	"strconv"

	"qingfeng_exam_backend/internal/repository"
	"qingfeng_exam_backend/internal/service"
	"qingfeng_exam_backend/internal/util"

	"github.com/gin-gonic/gin"
)

type WrongQuestionController struct {
	WrongQuestionService *service.WrongQuestionService
}

func NewWrongQuestionController(wrongQuestionService *service.WrongQuestionService) *WrongQuestionController {
	return &WrongQuestionController{WrongQuestionService: wrongQuestionService}
}

// ListWrongQuestions godoc
// @Summary 错题本
// @Description 当前学生的错题列表，按最近一次答错时间倒序
// @Tags 错题本
// @Produce  json
// @Security ApiKeyAuth
// @Param   subject query string false "学科"
// @Param   grade query string false "年级"
// @Param   type query string false "题型"
// @Param   mastered query bool false "是否已掌握"
// @Success 200 {object} util.Response{data=object} "成功"
// @Router /api/wrong-questions [get]
func (c *WrongQuestionController) ListWrongQuestions(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	if claims == nil {
		util.Unauthorized(ctx)
		return
	}

	filter := repository.WrongQuestionFilter{
		Subject: ctx.Query("subject"),
		Grade:   ctx.Query("grade"),
		Type:    ctx.Query("type"),
	}
	if raw := ctx.Query("mastered"); raw != "" {
		mastered, err := strconv.ParseBool(raw)
		if err != nil {
			util.BadRequest(ctx, "mastered 参数必须为布尔值")
			return
		}
		filter.IsMastered = &mastered
	}

	rows, err := c.WrongQuestionService.List(claims.UserID, filter)
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}
	util.Success(ctx, gin.H{"list": rows, "count": len(rows)})
}

type MasteredRequest struct {
	Mastered bool `json:"mastered"`
}

// ToggleMastered godoc
// @Summary 标记错题已掌握/未掌握
// @Tags 错题本
// @Accept  json
// @Produce  json
// @Security ApiKeyAuth
// @Param   id path string true "错题条目ID"
// @Param   body body MasteredRequest true "掌握状态"
// @Success 200 {object} util.Response "成功"
// @Failure 404 {object} util.Response "条目不存在"
// @Router /api/wrong-questions/{id}/mastered [put]
func (c *WrongQuestionController) ToggleMastered(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	if claims == nil {
		util.Unauthorized(ctx)
		return
	}

	var req MasteredRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	err := c.WrongQuestionService.ToggleMastered(ctx.Param("id"), claims.UserID, req.Mastered)
	if err != nil {
		if errors.Is(err, util.ErrWrongQuestionNotFound) {
			util.NotFound(ctx)
			return
		}
		util.LogInternalError(ctx, err)
		return
	}
	util.Success(ctx, nil)
}

// DeleteWrongQuestion godoc
// @Summary 删除错题条目
// @Tags 错题本
// @Produce  json
// @Security ApiKeyAuth
// @Param   id path string true "错题条目ID"
// @Success 200 {object} util.Response "成功"
// @Failure 404 {object} util.Response "条目不存在"
// @Router /api/wrong-questions/{id} [delete]
func (c *WrongQuestionController) DeleteWrongQuestion(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	if claims == nil {
		util.Unauthorized(ctx)
		return
	}

	err := c.WrongQuestionService.Delete(ctx.Param("id"), claims.UserID)
	if err != nil {
		if errors.Is(err, util.ErrWrongQuestionNotFound) {
			util.NotFound(ctx)
			return
		}
		util.LogInternalError(ctx, err)
		return
	}
	util.Success(ctx, nil)
}

// GetStats godoc
// @Summary 错题统计
// @Description 错题总数、掌握情况，以及按学科和题型的分布
// @Tags 错题本
// @Produce  json
// @Security ApiKeyAuth
// @Success 200 {object} util.Response{data=service.WrongQuestionStats} "成功"
// @Router /api/wrong-questions/stats [get]
func (c *WrongQuestionController) GetStats(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	if claims == nil {
		util.Unauthorized(ctx)
		return
	}

	stats, err := c.WrongQuestionService.Stats(claims.UserID)
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}
	util.Success(ctx, stats)
}
