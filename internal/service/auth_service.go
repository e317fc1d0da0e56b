package service

import (
	"context"
	"time"

	"go.uber.org/zap"

	"marcacion/backend/pkg/redis"
)

// AuthService 认证业务接口
// 登录与签发由外部认证服务负责，本服务只处理 Token 注销
type AuthService interface {
	// Logout 将 Token 加入黑名单直至其自然过期
	Logout(ctx context.Context, jti string, expiresAt time.Time) error
}

type authService struct {
	rdb    *redis.Client
	logger *zap.Logger
}

// NewAuthService 创建 AuthService 实例；rdb 为 nil 时注销降级为空操作
func NewAuthService(rdb *redis.Client, logger *zap.Logger) AuthService {
	return &authService{rdb: rdb, logger: logger}
}

func (s *authService) Logout(ctx context.Context, jti string, expiresAt time.Time) error {
	if s.rdb == nil {
		s.logger.Warn("Redis 不可用，Token 未加入黑名单", zap.String("jti", jti))
		return nil
	}
	if err := s.rdb.BlacklistToken(ctx, jti, time.Until(expiresAt)); err != nil {
		s.logger.Error("Token 加入黑名单失败", zap.String("jti", jti), zap.Error(err))
		return err
	}
	return nil
}
