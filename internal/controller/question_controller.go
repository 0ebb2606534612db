package controller

import (
	"encoding/json"
	"errors"
	"strconv"

	"qingfeng_exam_backend/internal/model"
	"qingfeng_exam_backend/internal/repository"
	"qingfeng_exam_backend/internal/service"
	"qingfeng_exam_backend/internal/util"

	"github.com/gin-gonic/gin"
)

type QuestionController struct {
	QuestionService *service.QuestionService
}

func NewQuestionController(questionService *service.QuestionService) *QuestionController {
	return &QuestionController{QuestionService: questionService}
}

// swagger:model QuestionRequest
type QuestionRequest struct {
	Subject    string         `json:"subject"`
	Grade      string         `json:"grade"`
	Semester   string         `json:"semester"`
	Type       string         `json:"type" binding:"required,oneof=single multiple true_false fill short"`
	Difficulty int            `json:"difficulty"`
	Stem       string         `json:"stem" binding:"required"`
	Options    []model.Option `json:"options"`
	Answer     []string       `json:"answer"`
	Analysis   string         `json:"analysis"`
	Tags       []string       `json:"tags"`
}

func (req *QuestionRequest) toModel() (*model.Question, error) {
	q := &model.Question{
		Subject:    req.Subject,
		Grade:      req.Grade,
		Semester:   req.Semester,
		Type:       model.QuestionType(req.Type),
		Difficulty: req.Difficulty,
		Stem:       req.Stem,
		Answer:     model.StringArray(req.Answer),
		Analysis:   req.Analysis,
		Tags:       model.StringArray(req.Tags),
	}
	if len(req.Options) > 0 {
		raw, err := json.Marshal(req.Options)
		if err != nil {
			return nil, err
		}
		q.Options = raw
	}
	return q, nil
}

// CreateQuestion godoc
// @Summary 新建题目
// @Description 教师录入一道题，入库前校验题型与答案合法性
// @Tags 题库
// @Accept  json
// @Produce  json
// @Security ApiKeyAuth
// @Param   body body QuestionRequest true "题目内容"
// @Success 201 {object} util.Response{data=model.Question} "创建成功"
// @Failure 400 {object} util.Response "题目数据不合法"
// @Router /api/questions [post]
func (c *QuestionController) CreateQuestion(ctx *gin.Context) {
	var req QuestionRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	q, err := req.toModel()
	if err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}
	if claims := util.GetUserFromContext(ctx); claims != nil {
		q.CreatedBy = claims.UserID
	}

	if err := c.QuestionService.Create(q); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}
	util.Created(ctx, q)
}

// UpdateQuestion godoc
// @Summary 更新题目
// @Tags 题库
// @Accept  json
// @Produce  json
// @Security ApiKeyAuth
// @Param   id path string true "题目ID"
// @Param   body body QuestionRequest true "题目内容"
// @Success 200 {object} util.Response{data=model.Question} "成功"
// @Failure 404 {object} util.Response "题目不存在"
// @Router /api/questions/{id} [put]
func (c *QuestionController) UpdateQuestion(ctx *gin.Context) {
	var req QuestionRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	q, err := req.toModel()
	if err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}
	q.ID = ctx.Param("id")

	if err := c.QuestionService.Update(q); err != nil {
		if errors.Is(err, util.ErrQuestionNotFound) {
			util.NotFound(ctx)
			return
		}
		util.BadRequest(ctx, err.Error())
		return
	}
	util.Success(ctx, q)
}

// GetQuestion godoc
// @Summary 题目详情
// @Tags 题库
// @Produce  json
// @Security ApiKeyAuth
// @Param   id path string true "题目ID"
// @Success 200 {object} util.Response{data=model.Question} "成功"
// @Failure 404 {object} util.Response "题目不存在"
// @Router /api/questions/{id} [get]
func (c *QuestionController) GetQuestion(ctx *gin.Context) {
	q, err := c.QuestionService.GetByID(ctx.Param("id"))
	if err != nil {
		if errors.Is(err, util.ErrQuestionNotFound) {
			util.NotFound(ctx)
			return
		}
		util.LogInternalError(ctx, err)
		return
	}
	util.Success(ctx, q)
}

// DeleteQuestion godoc
// @Summary 删除题目
// @Tags 题库
// @Produce  json
// @Security ApiKeyAuth
// @Param   id path string true "题目ID"
// @Success 200 {object} util.Response "成功"
// @Failure 404 {object} util.Response "题目不存在"
// @Router /api/questions/{id} [delete]
func (c *QuestionController) DeleteQuestion(ctx *gin.Context) {
	if err := c.QuestionService.Delete(ctx.Param("id")); err != nil {
		if errors.Is(err, util.ErrQuestionNotFound) {
			util.NotFound(ctx)
			return
		}
		util.LogInternalError(ctx, err)
		return
	}
	util.Success(ctx, nil)
}

// ListQuestions godoc
// @Summary 题目列表
// @Description 按学科、年级、题型、难度和关键字分页检索题库
// @Tags 题库
// @Produce  json
// @Security ApiKeyAuth
// @Param   subject query string false "学科"
// @Param   grade query string false "年级"
// @Param   type query string false "题型"
// @Param   difficulty query int false "难度"
// @Param   keyword query string false "题干关键字"
// @Param   page query int false "页码"
// @Param   limit query int false "每页条数"
// @Success 200 {object} util.Response{data=util.PageResponse} "成功"
// @Router /api/questions [get]
func (c *QuestionController) ListQuestions(ctx *gin.Context) {
	page, _ := strconv.Atoi(ctx.DefaultQuery("page", "1"))
	limit, _ := strconv.Atoi(ctx.DefaultQuery("limit", "20"))
	difficulty, _ := strconv.Atoi(ctx.DefaultQuery("difficulty", "0"))

	filter := repository.QuestionFilter{
		Subject:    ctx.Query("subject"),
		Grade:      ctx.Query("grade"),
		Type:       ctx.Query("type"),
		Difficulty: difficulty,
		Keyword:    ctx.Query("keyword"),
	}

	questions, total, err := c.QuestionService.List(filter, page, limit)
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}

	util.Success(ctx, util.PageResponse{
		List:  questions,
		Total: total,
		Page:  page,
		Limit: limit,
	})
}
