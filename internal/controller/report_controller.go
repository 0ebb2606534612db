package controller

import (
	"errors"

	"qingfeng_exam_backend/internal/service"
	"qingfeng_exam_backend/internal/util"

	"github.com/gin-gonic/gin"
)

type ReportController struct {
	ReportService  *service.ReportService
	RankingService *service.RankingService
}

func NewReportController(reportService *service.ReportService, rankingService *service.RankingService) *ReportController {
	return &ReportController{
		ReportService:  reportService,
		RankingService: rankingService,
	}
}

// GetPaperStats godoc
// @Summary 试卷成绩统计
// @Description 平均分、中位数、最高最低分与及格率（及格线为卷面总分的 60%）
// @Tags 报表
// @Produce  json
// @Security ApiKeyAuth
// @Param   id path string true "试卷ID"
// @Success 200 {object} util.Response{data=service.PaperStats} "成功"
// @Failure 404 {object} util.Response "试卷不存在"
// @Router /api/reports/papers/{id}/stats [get]
func (c *ReportController) GetPaperStats(ctx *gin.Context) {
	stats, err := c.ReportService.PaperStats(ctx.Param("id"))
	if err != nil {
		if errors.Is(err, util.ErrPaperNotFound) {
			util.NotFound(ctx)
			return
		}
		util.LogInternalError(ctx, err)
		return
	}
	util.Success(ctx, stats)
}

// GetPaperReport godoc
// @Summary 试卷成绩明细
// @Description 按学生汇总的成绩明细，总分降序
// @Tags 报表
// @Produce  json
// @Security ApiKeyAuth
// @Param   id path string true "试卷ID"
// @Success 200 {object} util.Response{data=object} "成功"
// @Failure 404 {object} util.Response "试卷不存在"
// @Router /api/reports/papers/{id} [get]
func (c *ReportController) GetPaperReport(ctx *gin.Context) {
	rows, err := c.ReportService.PaperReport(ctx.Param("id"))
	if err != nil {
		if errors.Is(err, util.ErrPaperNotFound) {
			util.NotFound(ctx)
			return
		}
		util.LogInternalError(ctx, err)
		return
	}
	util.Success(ctx, gin.H{"list": rows, "count": len(rows)})
}

// ExportPaperReport godoc
// @Summary 导出成绩明细 CSV
// @Description 生成 CSV 文件并上传到配置的存储，返回下载地址
// @Tags 报表
// @Produce  json
// @Security ApiKeyAuth
// @Param   id path string true "试卷ID"
// @Success 200 {object} util.Response{data=object} "成功"
// @Failure 404 {object} util.Response "试卷不存在"
// @Router /api/reports/papers/{id}/export [post]
func (c *ReportController) ExportPaperReport(ctx *gin.Context) {
	url, err := c.ReportService.ExportCSV(ctx.Request.Context(), ctx.Param("id"))
	if err != nil {
		if errors.Is(err, util.ErrPaperNotFound) {
			util.NotFound(ctx)
			return
		}
		util.LogInternalError(ctx, err)
		return
	}
	util.Success(ctx, gin.H{"url": url})
}

// GetPaperRanking godoc
// @Summary 试卷排名
// @Description 按总分降序的学生榜单，带短时缓存
// @Tags 报表
// @Produce  json
// @Security ApiKeyAuth
// @Param   id path string true "试卷ID"
// @Success 200 {object} util.Response{data=object} "成功"
// @Router /api/reports/papers/{id}/ranking [get]
func (c *ReportController) GetPaperRanking(ctx *gin.Context) {
	entries, err := c.RankingService.GetPaperRanking(ctx.Param("id"))
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}
	util.Success(ctx, gin.H{"list": entries, "count": len(entries)})
}
