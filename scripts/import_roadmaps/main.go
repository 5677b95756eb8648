// 从 YAML 文件批量导入路线，格式与管理后台导入接口相同：
//
//	roadmaps:
//	  - title: Go Backend
//	    category: backend
//	    weeks: [...]
//
// 用法: go run ./scripts/import_roadmaps -file roadmaps.yaml -admin 1

package main

import (
	"context"
	"errors"
	"flag"
	"log"
	"os"

	"skillkart_backend/internal/config"
	"skillkart_backend/internal/model"
	"skillkart_backend/internal/repository"
	"skillkart_backend/internal/service"
	"skillkart_backend/internal/util"
	"skillkart_backend/pkg/database"
	"skillkart_backend/pkg/logger"
)

func main() {
	configDir := flag.String("config", "configs", "配置文件目录")
	file := flag.String("file", "", "YAML 文件路径")
	adminID := flag.Uint("admin", 0, "作为作者的管理员用户 ID")
	flag.Parse()

	if *file == "" || *adminID == 0 {
		flag.Usage()
		os.Exit(2)
	}

	data, err := os.ReadFile(*file)
	if err != nil {
		log.Fatalf("无法读取导入文件: %v", err)
	}

	cfg, err := config.LoadConfig(*configDir)
	if err != nil {
		log.Fatalf("无法读取配置文件: %v", err)
	}

	logger.InitLogger(cfg)

	db, err := database.InitDB(&cfg.Database, cfg.Server.Mode)
	if err != nil {
		log.Fatalf("数据库连接失败: %v", err)
	}

	users := repository.NewUserRepository(db)
	admin, err := users.FindByID(*adminID)
	if err != nil {
		log.Fatalf("找不到用户 %d: %v", *adminID, err)
	}
	if admin.Role != model.Admin {
		log.Fatalf("用户 %d 不是管理员", *adminID)
	}

	roadmapService := service.NewRoadmapService(
		db,
		repository.NewRoadmapRepository(db),
		repository.NewProgressRepository(db),
		repository.NewQuizAttemptRepository(db),
		repository.NewDiscussionRepository(db),
		nil,
		cfg.App.MinResourcesPerTopic,
	)

	roadmaps, err := roadmapService.ImportYAML(context.Background(), admin.ID, data)
	var verr *util.ValidationError
	if errors.As(err, &verr) {
		for _, issue := range verr.Issues {
			log.Printf("%s: %s", issue.Field, issue.Message)
		}
		log.Fatalf("校验失败，共 %d 个问题，未导入任何路线", len(verr.Issues))
	}
	if err != nil {
		log.Fatalf("导入失败: %v", err)
	}

	for _, r := range roadmaps {
		log.Printf("已导入路线 %d: %s", r.ID, r.Title)
	}
	log.Printf("完成！共导入 %d 条路线", len(roadmaps))
}
