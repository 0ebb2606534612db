// 题库批量导入脚本
//
// 从 JSON 文件批量导入题目，入库前逐题校验题型与答案合法性，
// 用于首次部署或从旧系统迁移题库。
//
// 用法: go run scripts/import_questions.go questions.json

package main

import (
	"encoding/json"
	"log"
	"os"

	"qingfeng_exam_backend/internal/config"
	"qingfeng_exam_backend/internal/grading"
	"qingfeng_exam_backend/internal/model"
	"qingfeng_exam_backend/internal/repository"
	"qingfeng_exam_backend/pkg/database"
)

func main() {
	if len(os.Args) < 2 {
		log.Fatal("用法: go run scripts/import_questions.go <questions.json>")
	}

	cfg, err := config.LoadConfig("configs")
	if err != nil {
		log.Fatalf("无法加载配置: %v", err)
	}

	db, err := database.InitDB(&cfg.Database)
	if err != nil {
		log.Fatalf("数据库连接失败: %v", err)
	}

	data, err := os.ReadFile(os.Args[1])
	if err != nil {
		log.Fatalf("无法读取题目文件: %v", err)
	}

	var questions []model.Question
	if err := json.Unmarshal(data, &questions); err != nil {
		log.Fatalf("解析题目文件失败: %v", err)
	}

	repo := repository.NewQuestionRepository(db)
	imported, skipped := 0, 0
	for i := range questions {
		q := &questions[i]
		if err := grading.Validate(q); err != nil {
			log.Printf("跳过第 %d 题: %v", i+1, err)
			skipped++
			continue
		}
		if err := repo.Create(q); err != nil {
			log.Printf("第 %d 题入库失败: %v", i+1, err)
			skipped++
			continue
		}
		imported++
	}

	log.Printf("导入完成: 成功 %d 题, 跳过 %d 题", imported, skipped)
}
