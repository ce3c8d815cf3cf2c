package scheduler

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"

	"contest-arena/backend/internal/service"
)

// CleanupScheduler Token 定期清理调度器
//
// 进程内单实例：Start 幂等（重复调用直接忽略），启动后立即执行一次，
// 之后按固定周期执行；单次失败只记日志，不中断调度
type CleanupScheduler struct {
	tokenSvc service.TokenService
	interval time.Duration
	logger   *zap.Logger

	mu      sync.Mutex
	started bool
	cancel  context.CancelFunc
	done    chan struct{}
}

// NewCleanupScheduler 创建清理调度器
func NewCleanupScheduler(tokenSvc service.TokenService, interval time.Duration, logger *zap.Logger) *CleanupScheduler {
	return &CleanupScheduler{
		tokenSvc: tokenSvc,
		interval: interval,
		logger:   logger,
	}
}

// Start 启动调度循环；重复调用无效果
func (s *CleanupScheduler) Start() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.started {
		s.logger.Warn("清理调度器已在运行，忽略重复启动")
		return
	}
	s.started = true

	ctx, cancel := context.WithCancel(context.Background())
	s.cancel = cancel
	s.done = make(chan struct{})

	go s.run(ctx)

	s.logger.Info("清理调度器已启动", zap.Duration("interval", s.interval))
}

// Stop 停止调度并等待当前一轮清理结束
func (s *CleanupScheduler) Stop() {
	s.mu.Lock()
	if !s.started {
		s.mu.Unlock()
		return
	}
	s.started = false
	cancel := s.cancel
	done := s.done
	s.mu.Unlock()

	cancel()
	<-done

	s.logger.Info("清理调度器已停止")
}

// Running 返回调度器是否在运行（测试与健康检查用）
func (s *CleanupScheduler) Running() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.started
}

func (s *CleanupScheduler) run(ctx context.Context) {
	defer close(s.done)

	// 启动即执行一次，不等第一个周期
	s.runOnce(ctx)

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			s.runOnce(ctx)
		}
	}
}

func (s *CleanupScheduler) runOnce(ctx context.Context) {
	start := time.Now()

	result, err := s.tokenSvc.PerformFullCleanup(ctx)
	if err != nil {
		// 失败只记日志，等待下一轮
		s.logger.Error("定时 Token 清理失败", zap.Error(err))
		return
	}

	s.logger.Info("定时 Token 清理完成",
		zap.Int64("verification_deleted", result.VerificationDeleted),
		zap.Int64("reset_deleted", result.ResetDeleted),
		zap.Int64("total_deleted", result.Total()),
		zap.Duration("elapsed", time.Since(start)),
	)
}
