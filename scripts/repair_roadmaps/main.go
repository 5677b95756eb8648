// 修复历史路线数据：补齐缺失的路线/周标题并重新编号周次
//
// 用法: go run ./scripts/repair_roadmaps [-dry-run]

package main

import (
	"flag"
	"log"

	"skillkart_backend/internal/config"
	"skillkart_backend/internal/repository"
	"skillkart_backend/internal/service"
	"skillkart_backend/pkg/database"
	"skillkart_backend/pkg/logger"

	"go.uber.org/zap"
)

func main() {
	configDir := flag.String("config", "configs", "配置文件目录")
	dryRun := flag.Bool("dry-run", false, "只输出需要修复的路线，不写入数据库")
	flag.Parse()

	cfg, err := config.LoadConfig(*configDir)
	if err != nil {
		log.Fatalf("无法读取配置文件: %v", err)
	}

	logger.InitLogger(cfg)

	db, err := database.InitDB(&cfg.Database, cfg.Server.Mode)
	if err != nil {
		log.Fatalf("数据库连接失败: %v", err)
	}

	repo := repository.NewRoadmapRepository(db)
	roadmaps, err := repo.FindAll(repository.RoadmapFilter{})
	if err != nil {
		log.Fatalf("查询路线失败: %v", err)
	}

	updated := 0
	for i := range roadmaps {
		r := &roadmaps[i]
		if !service.RepairRoadmap(r) {
			continue
		}
		updated++
		if *dryRun {
			logger.Log.Info("Roadmap needs repair", zap.Uint("roadmapId", r.ID))
			continue
		}
		if err := repo.Save(r); err != nil {
			log.Fatalf("保存路线 %d 失败: %v", r.ID, err)
		}
		logger.Log.Info("Roadmap repaired", zap.Uint("roadmapId", r.ID))
	}

	// 目录缓存不会自动感知脚本写入，依赖 TTL 过期
	log.Printf("完成！共修复 %d 条路线", updated)
}
