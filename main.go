// @title 青锋测 后端 API
// @version 1.0
// @description 青锋测在线考试平台的后端服务器：题库、组卷、在线答题、自动批改、错题本与成绩报表。

// @contact.name API支持
// @contact.email support@qingfengce.cn

// @license.name Apache 2.0
// @license.url http://www.apache.org/licenses/LICENSE-2.0.html

// @host localhost:8080
// @BasePath /api
// @securityDefinitions.apikey ApiKeyAuth
// @in header
// @name Authorization

package main

import (
	"flag"
	"log"
	"qingfeng_exam_backend/internal/app"
	"qingfeng_exam_backend/internal/config"
	"qingfeng_exam_backend/pkg/configwatcher"
	"qingfeng_exam_backend/pkg/logger"
)

func main() {
	// 命令行参数
	migrateOnly := flag.Bool("migrate-only", false, "只执行数据库迁移，完成后退出")
	migrate := flag.Bool("migrate", false, "启动时强制执行数据库迁移（即使是 release 模式）")
	flag.Parse()

	cfg, err := config.LoadConfig("configs")
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	cfg.ForceMigrate = *migrate || *migrateOnly
	cfg.MigrateOnly = *migrateOnly

	application := app.NewApp(cfg)
	defer logger.Log.Sync()

	// 迁移完成后直接退出
	if *migrateOnly {
		log.Println("数据库迁移完成，退出程序")
		return
	}

	// 配置热更新：中间件持有 *Config，覆写后 JWT 密钥等即时生效
	go configwatcher.WatchConfig("configs/config.yaml", cfg, func(raw interface{}) {
		newCfg, ok := raw.(*config.Config)
		if !ok {
			return
		}
		*cfg = *newCfg
		logger.Log.Info("config reloaded")
	})

	application.Run()
}
