package controller

import (
	"errors"
	"strconv"

	"qingfeng_exam_backend/internal/model"
	"qingfeng_exam_backend/internal/service"
	"qingfeng_exam_backend/internal/util"

	"github.com/gin-gonic/gin"
)

type PaperController struct {
	PaperService *service.PaperService
}

func NewPaperController(paperService *service.PaperService) *PaperController {
	return &PaperController{PaperService: paperService}
}

// swagger:model PaperRequest
type PaperRequest struct {
	Title           string                       `json:"title" binding:"required"`
	Subject         string                       `json:"subject"`
	Grade           string                       `json:"grade"`
	DurationMinutes int                          `json:"durationMinutes"`
	AllowReview     *bool                        `json:"allowReview"`
	Questions       []service.PaperQuestionInput `json:"questions" binding:"required,min=1"`
}

// CreatePaper godoc
// @Summary 组卷
// @Description 创建试卷并绑定题目，卷面总分由各题分值累加
// @Tags 试卷
// @Accept  json
// @Produce  json
// @Security ApiKeyAuth
// @Param   body body PaperRequest true "试卷与题目绑定"
// @Success 201 {object} util.Response{data=model.Paper} "创建成功"
// @Failure 400 {object} util.Response "请求参数错误"
// @Failure 404 {object} util.Response "绑定的题目不存在"
// @Router /api/papers [post]
func (c *PaperController) CreatePaper(ctx *gin.Context) {
	var req PaperRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	paper := &model.Paper{
		Title:           req.Title,
		Subject:         req.Subject,
		Grade:           req.Grade,
		DurationMinutes: req.DurationMinutes,
		AllowReview:     true,
	}
	if req.AllowReview != nil {
		paper.AllowReview = *req.AllowReview
	}
	if claims := util.GetUserFromContext(ctx); claims != nil {
		paper.CreatedBy = claims.UserID
	}

	if err := c.PaperService.Create(paper, req.Questions); err != nil {
		switch {
		case errors.Is(err, util.ErrQuestionNotFound):
			util.Error(ctx, 404, err.Error())
		case errors.Is(err, util.ErrEmptyPaper):
			util.BadRequest(ctx, err.Error())
		default:
			util.LogInternalError(ctx, err)
		}
		return
	}
	util.Created(ctx, paper)
}

// ListPapers godoc
// @Summary 试卷列表
// @Description 学生只看到已发布的试卷
// @Tags 试卷
// @Produce  json
// @Security ApiKeyAuth
// @Param   page query int false "页码"
// @Param   limit query int false "每页条数"
// @Success 200 {object} util.Response{data=util.PageResponse} "成功"
// @Router /api/papers [get]
func (c *PaperController) ListPapers(ctx *gin.Context) {
	page, _ := strconv.Atoi(ctx.DefaultQuery("page", "1"))
	limit, _ := strconv.Atoi(ctx.DefaultQuery("limit", "20"))

	publishedOnly := true
	if claims := util.GetUserFromContext(ctx); claims != nil {
		if claims.Role == model.Teacher || claims.Role == model.Admin {
			publishedOnly = false
		}
	}

	papers, total, err := c.PaperService.List(page, limit, publishedOnly)
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}

	util.Success(ctx, util.PageResponse{
		List:  papers,
		Total: total,
		Page:  page,
		Limit: limit,
	})
}

// GetPaperForTaking godoc
// @Summary 获取答题用试卷
// @Description 学生视角的试卷内容，不含标准答案与解析
// @Tags 试卷
// @Produce  json
// @Security ApiKeyAuth
// @Param   id path string true "试卷ID"
// @Success 200 {object} util.Response{data=service.StudentPaper} "成功"
// @Failure 403 {object} util.Response "试卷未发布"
// @Failure 404 {object} util.Response "试卷不存在"
// @Router /api/papers/{id}/take [get]
func (c *PaperController) GetPaperForTaking(ctx *gin.Context) {
	paper, err := c.PaperService.GetForTaking(ctx.Param("id"))
	if err != nil {
		switch {
		case errors.Is(err, util.ErrPaperNotFound):
			util.NotFound(ctx)
		case errors.Is(err, util.ErrPaperNotPublished):
			util.Forbidden(ctx)
		default:
			util.LogInternalError(ctx, err)
		}
		return
	}
	util.Success(ctx, paper)
}

// GetPaperFull godoc
// @Summary 试卷完整内容
// @Description 教师端视图，包含标准答案与解析
// @Tags 试卷
// @Produce  json
// @Security ApiKeyAuth
// @Param   id path string true "试卷ID"
// @Success 200 {object} util.Response "成功"
// @Failure 404 {object} util.Response "试卷不存在"
// @Router /api/papers/{id} [get]
func (c *PaperController) GetPaperFull(ctx *gin.Context) {
	paper, err := c.PaperService.GetFull(ctx.Param("id"))
	if err != nil {
		if errors.Is(err, util.ErrPaperNotFound) {
			util.NotFound(ctx)
			return
		}
		util.LogInternalError(ctx, err)
		return
	}
	util.Success(ctx, paper)
}

type PublishRequest struct {
	Published bool `json:"published"`
}

// PublishPaper godoc
// @Summary 发布/下架试卷
// @Tags 试卷
// @Accept  json
// @Produce  json
// @Security ApiKeyAuth
// @Param   id path string true "试卷ID"
// @Param   body body PublishRequest true "发布状态"
// @Success 200 {object} util.Response "成功"
// @Failure 404 {object} util.Response "试卷不存在"
// @Router /api/papers/{id}/publish [put]
func (c *PaperController) PublishPaper(ctx *gin.Context) {
	var req PublishRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	if err := c.PaperService.SetPublished(ctx.Param("id"), req.Published); err != nil {
		if errors.Is(err, util.ErrPaperNotFound) {
			util.NotFound(ctx)
			return
		}
		util.LogInternalError(ctx, err)
		return
	}
	util.Success(ctx, nil)
}

// DeletePaper godoc
// @Summary 删除试卷
// @Description 连同题目绑定与答题记录一并删除
// @Tags 试卷
// @Produce  json
// @Security ApiKeyAuth
// @Param   id path string true "试卷ID"
// @Success 200 {object} util.Response "成功"
// @Failure 404 {object} util.Response "试卷不存在"
// @Router /api/papers/{id} [delete]
func (c *PaperController) DeletePaper(ctx *gin.Context) {
	if err := c.PaperService.Delete(ctx.Param("id")); err != nil {
		if errors.Is(err, util.ErrPaperNotFound) {
			util.NotFound(ctx)
			return
		}
		util.LogInternalError(ctx, err)
		return
	}
	util.Success(ctx, nil)
}
