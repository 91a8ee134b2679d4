// Package http 提供预测服务的HTTP服务器
package http

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"go.uber.org/zap"

	"salarypredict/monitoring"
	"salarypredict/predictor"
)

// Server HTTP服务器
type Server struct {
	server *http.Server
	config ServerConfig
	log    *zap.Logger
}

// ServerConfig 服务器配置
type ServerConfig struct {
	Port           int
	Timeout        time.Duration
	MaxBodyBytes   int64
	AllowedOrigins []string
}

// DefaultServerConfig 默认服务器配置
func DefaultServerConfig() ServerConfig {
	return ServerConfig{
		Port:           8501,
		Timeout:        30 * time.Second,
		MaxBodyBytes:   64 << 10,
		AllowedOrigins: []string{"*"},
	}
}

// NewServer 创建HTTP服务器
func NewServer(config ServerConfig, svc *predictor.Service, metrics *monitoring.Metrics, log *zap.Logger) (*Server, error) {
	if log == nil {
		log = zap.NewNop()
	}
	handler, err := NewHandler(config, svc, metrics, log)
	if err != nil {
		return nil, err
	}

	return &Server{
		server: &http.Server{
			Addr:         fmt.Sprintf(":%d", config.Port),
			Handler:      handler,
			ReadTimeout:  config.Timeout,
			WriteTimeout: config.Timeout + 5*time.Second,
			IdleTimeout:  120 * time.Second,
		},
		config: config,
		log:    log,
	}, nil
}

// NewHandler 构建带中间件链的路由
func NewHandler(config ServerConfig, svc *predictor.Service, metrics *monitoring.Metrics, log *zap.Logger) (http.Handler, error) {
	h, err := newHandlers(svc, metrics, log)
	if err != nil {
		return nil, err
	}
	mux := http.NewServeMux()
	h.register(mux)

	chain := Chain(
		RecoveryMiddleware(log),                    // 1. 恢复中间件（最先执行，捕获panic）
		LoggerMiddleware(log, metrics),             // 2. 日志中间件
		SecurityHeadersMiddleware,                  // 3. 安全头中间件
		CORSMiddleware(config.AllowedOrigins),      // 4. CORS中间件
		RequestSizeMiddleware(config.MaxBodyBytes), // 5. 请求大小限制
		TimeoutMiddleware(config.Timeout),          // 6. 超时中间件
	)
	return chain(mux), nil
}

// Start 启动服务器
func (s *Server) Start() error {
	s.log.Info("starting HTTP server", zap.String("addr", s.server.Addr))

	if err := s.server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("server failed: %w", err)
	}
	return nil
}

// Stop 停止服务器
func (s *Server) Stop() error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	s.log.Info("shutting down HTTP server")

	if err := s.server.Shutdown(ctx); err != nil {
		return fmt.Errorf("server forced to shutdown: %w", err)
	}

	return nil
}
