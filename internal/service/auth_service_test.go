package service

import (
	"context"
	"testing"
	"time"
)

func TestAuthService_Logout_WithoutRedis(t *testing.T) {
	svc := NewAuthService(nil, testLogger)

	if err := svc.Logout(context.Background(), "jti-1", time.Now().Add(time.Hour)); err != nil {
		t.Errorf("Redis 不可用时注销应降级为空操作，实际: %v", err)
	}
}
