package service

import (
	"go.uber.org/zap"

	"marcacion/backend/config"
	"marcacion/backend/internal/repository"
	"marcacion/backend/pkg/redis"
)

// Service 所有 Service 的聚合入口
type Service struct {
	Auth       AuthService
	Template   ScheduleTemplateService
	Assignment ScheduleAssignmentService
	Resolver   ScheduleResolverService
	Export     ScheduleExportService
}

// NewService 创建 Service 聚合
func NewService(
	cfg *config.Config,
	repo *repository.Repository,
	rdb *redis.Client,
	logger *zap.Logger,
) *Service {
	resolver := NewScheduleResolverService(&cfg.Schedule, repo, logger)
	return &Service{
		Auth:       NewAuthService(rdb, logger),
		Template:   NewScheduleTemplateService(repo, logger),
		Assignment: NewScheduleAssignmentService(&cfg.Schedule, repo, logger),
		Resolver:   resolver,
		Export:     NewScheduleExportService(&cfg.Schedule, resolver, repo, logger),
	}
}
