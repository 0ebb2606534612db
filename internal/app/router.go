package app

import (
	"qingfeng_exam_backend/docs"
	"qingfeng_exam_backend/internal/config"
	"qingfeng_exam_backend/internal/middleware"
	"qingfeng_exam_backend/internal/model"
	"qingfeng_exam_backend/pkg/monitoring"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

func (a *App) registerRoutes(router *gin.Engine, c *controllers, repos *repositories, cfg *config.Config) {
	docs.SwaggerInfo.BasePath = "/api"
	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler, ginSwagger.URL("/swagger/doc.json")))

	router.GET("/metrics", monitoring.PrometheusHandler())

	// 1. 公共路由(无需登录)
	public := router.Group("/api")
	{
		public.GET("/health", c.health.HealthCheck)
		public.POST("/register", c.auth.Register)
		public.POST("/login", c.auth.Login)
	}

	// 2. 需要授权的路由
	authGroup := router.Group("/api")
	authGroup.Use(middleware.AuthMiddleware(cfg), middleware.ActivityMiddleware(repos.user))
	{
		a.registerStudentRoutes(authGroup, c)
		a.registerTeacherRoutes(authGroup, c)
	}
}

func (a *App) registerStudentRoutes(rg *gin.RouterGroup, c *controllers) {
	rg.GET("/profile", c.auth.GetProfile)
	rg.PUT("/profile", c.auth.UpdateProfile)
	rg.PUT("/profile/password", c.auth.ChangePassword)

	// 考试：取卷、草稿、交卷与成绩
	rg.GET("/papers", c.paper.ListPapers)
	rg.GET("/papers/:id/take", c.paper.GetPaperForTaking)
	rg.GET("/papers/:id/draft", c.exam.GetDraft)
	rg.PUT("/papers/:id/draft", c.exam.SaveDraft)
	rg.POST("/papers/:id/submit", c.exam.SubmitAnswers)
	rg.GET("/papers/:id/result", c.exam.GetExamResult)

	// 错题本
	rg.GET("/wrong-questions", c.wrongQuestion.ListWrongQuestions)
	rg.GET("/wrong-questions/stats", c.wrongQuestion.GetStats)
	rg.PUT("/wrong-questions/:id/mastered", c.wrongQuestion.ToggleMastered)
	rg.DELETE("/wrong-questions/:id", c.wrongQuestion.DeleteWrongQuestion)

	// 通知
	rg.GET("/notifications", c.notification.ListNotifications)
	rg.PUT("/notifications/read-all", c.notification.MarkAllRead)
	rg.PUT("/notifications/:id/read", c.notification.MarkRead)

	// 排名对学生开放
	rg.GET("/reports/papers/:id/ranking", c.report.GetPaperRanking)
}

func (a *App) registerTeacherRoutes(rg *gin.RouterGroup, c *controllers) {
	teacher := rg.Group("/")
	teacher.Use(middleware.RoleMiddleware(model.Teacher, model.Admin))
	{
		// 题库管理
		teacher.POST("/questions", c.question.CreateQuestion)
		teacher.GET("/questions", c.question.ListQuestions)
		teacher.GET("/questions/:id", c.question.GetQuestion)
		teacher.PUT("/questions/:id", c.question.UpdateQuestion)
		teacher.DELETE("/questions/:id", c.question.DeleteQuestion)

		// 试卷管理
		teacher.POST("/papers", c.paper.CreatePaper)
		teacher.GET("/papers/:id", c.paper.GetPaperFull)
		teacher.PUT("/papers/:id/publish", c.paper.PublishPaper)
		teacher.DELETE("/papers/:id", c.paper.DeletePaper)

		// 简答题批阅
		teacher.GET("/grading/pending", c.grading.ListPending)
		teacher.PUT("/grading/:id", c.grading.GradeShortAnswer)

		// 成绩报表
		teacher.GET("/reports/papers/:id", c.report.GetPaperReport)
		teacher.GET("/reports/papers/:id/stats", c.report.GetPaperStats)
		teacher.POST("/reports/papers/:id/export", c.report.ExportPaperReport)
	}
}
