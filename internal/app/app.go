package app

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"qingfeng_exam_backend/internal/config"
	"qingfeng_exam_backend/internal/controller"
	"qingfeng_exam_backend/internal/repository"
	"qingfeng_exam_backend/internal/service"
	"qingfeng_exam_backend/internal/util"
	"qingfeng_exam_backend/pkg/database"
	"qingfeng_exam_backend/pkg/logger"
	"qingfeng_exam_backend/pkg/monitoring"
	"qingfeng_exam_backend/pkg/security"
	"qingfeng_exam_backend/pkg/tracing"

	"github.com/gin-gonic/gin"
	"github.com/go-redis/redis/v8"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type App struct {
	Config *config.Config
	Router *gin.Engine
	DB     *gorm.DB
	Redis  *redis.Client
}

type repositories struct {
	user          *repository.UserRepository
	question      *repository.QuestionRepository
	paper         *repository.PaperRepository
	answer        *repository.AnswerRepository
	wrongQuestion *repository.WrongQuestionRepository
	draft         *repository.DraftRepository
	notification  *repository.NotificationRepository
}

type services struct {
	auth          *service.AuthService
	user          *service.UserService
	storage       *service.StorageService
	question      *service.QuestionService
	paper         *service.PaperService
	exam          *service.ExamService
	grading       *service.GradingService
	wrongQuestion *service.WrongQuestionService
	draft         *service.DraftService
	ranking       *service.RankingService
	report        *service.ReportService
	notification  *service.NotificationService
}

type controllers struct {
	auth          *controller.AuthController
	question      *controller.QuestionController
	paper         *controller.PaperController
	exam          *controller.ExamController
	grading       *controller.GradingController
	wrongQuestion *controller.WrongQuestionController
	report        *controller.ReportController
	notification  *controller.NotificationController
	health        *controller.HealthController
}

func (a *App) initRepositories(db *gorm.DB) *repositories {
	return &repositories{
		user:          repository.NewUserRepository(db),
		question:      repository.NewQuestionRepository(db),
		paper:         repository.NewPaperRepository(db),
		answer:        repository.NewAnswerRepository(db),
		wrongQuestion: repository.NewWrongQuestionRepository(db),
		draft:         repository.NewDraftRepository(db),
		notification:  repository.NewNotificationRepository(db),
	}
}

func (a *App) initServices(repos *repositories, cfg *config.Config, rdb *redis.Client) *services {
	s := &services{}

	s.storage = service.NewStorageService(cfg)
	s.auth = service.NewAuthService(repos.user, cfg)
	s.user = service.NewUserService(repos.user)
	s.question = service.NewQuestionService(repos.question)
	s.paper = service.NewPaperService(repos.paper, repos.question)
	s.notification = service.NewNotificationService(repos.notification)
	s.wrongQuestion = service.NewWrongQuestionService(repos.wrongQuestion)
	s.draft = service.NewDraftService(repos.draft, rdb)
	s.ranking = service.NewRankingService(repos.answer, repos.user, rdb)
	s.report = service.NewReportService(repos.paper, repos.answer, repos.user, s.storage)
	s.grading = service.NewGradingService(repos.answer, repos.paper, s.notification)

	// 交卷核心：错题记录、成绩通知、草稿清理、榜单失效均为交卷后的尽力而为副作用
	s.exam = service.NewExamService(
		repos.paper,
		repos.answer,
		s.wrongQuestion,
		s.notification,
		s.draft,
		s.ranking,
	)

	return s
}

func (a *App) initControllers(s *services, db *gorm.DB) *controllers {
	return &controllers{
		auth:          controller.NewAuthController(s.auth, s.user),
		question:      controller.NewQuestionController(s.question),
		paper:         controller.NewPaperController(s.paper),
		exam:          controller.NewExamController(s.exam, s.draft),
		grading:       controller.NewGradingController(s.grading),
		wrongQuestion: controller.NewWrongQuestionController(s.wrongQuestion),
		report:        controller.NewReportController(s.report, s.ranking),
		notification:  controller.NewNotificationController(s.notification),
		health:        controller.NewHealthController(db),
	}
}

func (a *App) setupMiddlewares(router *gin.Engine, cfg *config.Config) {
	router.Use(security.CORS(cfg.CORS.AllowedOrigins))
	router.Use(security.Secure())

	maxRequests := cfg.RateLimit.MaxRequests
	if maxRequests <= 0 {
		maxRequests = 6000
	}
	windowMinutes := cfg.RateLimit.WindowMinutes
	if windowMinutes <= 0 {
		windowMinutes = 1
	}
	router.Use(security.RateLimiter(maxRequests, time.Duration(windowMinutes)*time.Minute))

	// 分布式追踪中间件
	if cfg.Tracing.Enabled {
		router.Use(tracing.GinMiddleware())
	}

	router.Use(monitoring.MetricsMiddleware())
}

func NewApp(cfg *config.Config) *App {
	logger.InitLogger(cfg)

	logger.Log.Info("Logger initialized successfully")

	db, err := database.InitDB(&cfg.Database)
	if err != nil {
		logger.Log.Fatal("Failed to initialize database", zap.Error(err))
		log.Fatalf("Failed to initialize database: %v", err)
	}

	app := &App{
		Config: cfg,
		DB:     db,
	}

	// 仅迁移模式不连接 Redis、不起路由
	if cfg.MigrateOnly {
		return app
	}

	rdb, err := database.InitRedis(&cfg.Redis)
	if err != nil {
		logger.Log.Fatal("Failed to initialize redis", zap.Error(err))
		log.Fatalf("Failed to initialize redis: %v", err)
	}
	app.Redis = rdb

	repos := app.initRepositories(db)
	services := app.initServices(repos, cfg, rdb)
	controllers := app.initControllers(services, db)

	// 监控初始化
	monitoring.Init()

	gin.SetMode(cfg.Server.Mode)
	router := gin.Default()
	app.Router = router

	app.setupMiddlewares(router, cfg)

	if cfg.Tracing.Enabled {
		if _, err := tracing.InitTracer("qingfeng-exam", cfg.Tracing.CollectorEndpoint); err != nil {
			logger.Log.Fatal("Failed to initialize tracing", zap.Error(err))
		}
	}

	app.registerRoutes(router, controllers, repos, cfg)

	if cfg.Storage.Type == util.StorageLocal {
		router.Static("/uploads", cfg.Storage.LocalPath)
	}

	return app
}

func (a *App) Run() {
	srv := &http.Server{
		Addr:    ":" + a.Config.Server.Port,
		Handler: a.Router,
	}

	// 启动服务器
	go func() {
		log.Printf("Server running on port %s", a.Config.Server.Port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("listen: %s\n", err)
		}
	}()

	// 等待中断信号优雅地关闭服务器（设置5秒的超时时间）
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Println("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Fatal("Server forced to shutdown:", err)
	}

	log.Println("Server exiting")
}
