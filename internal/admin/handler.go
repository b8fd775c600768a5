// AngelaMos | 2026
// handler.go

// Package admin serves operator diagnostics. It is mounted outside
// production only.
package admin

import (
	"context"
	"database/sql"
	"net/http"
	"runtime"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/redis/go-redis/v9"

	"github.com/carterperez-dev/templates/course-gate/internal/core"
)

type Handler struct {
	backend     string
	storagePing func(ctx context.Context) error
	dbStats     func() sql.DBStats
	redisStats  func() *redis.PoolStats
	started     time.Time
}

type HandlerConfig struct {
	Backend     string
	StoragePing func(ctx context.Context) error
	// DBStats and RedisStats are nil unless the backend runs on them.
	DBStats    func() sql.DBStats
	RedisStats func() *redis.PoolStats
}

func NewHandler(cfg HandlerConfig) *Handler {
	return &Handler{
		backend:     cfg.Backend,
		storagePing: cfg.StoragePing,
		dbStats:     cfg.DBStats,
		redisStats:  cfg.RedisStats,
		started:     time.Now(),
	}
}

func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Route("/admin", func(r chi.Router) {
		r.Get("/stats", h.GetSystemStats)
		r.Get("/stats/storage", h.GetStorageStats)
		r.Get("/stats/runtime", h.GetRuntimeStats)
	})
}

func (h *Handler) GetSystemStats(w http.ResponseWriter, r *http.Request) {
	core.OK(w, SystemStatsResponse{
		Storage: h.storageStatus(r.Context()),
		Runtime: h.runtimeStats(),
	})
}

func (h *Handler) GetStorageStats(w http.ResponseWriter, r *http.Request) {
	core.OK(w, h.storageStatus(r.Context()))
}

func (h *Handler) GetRuntimeStats(w http.ResponseWriter, r *http.Request) {
	core.OK(w, h.runtimeStats())
}

func (h *Handler) storageStatus(ctx context.Context) StorageStatus {
	status := StorageStatus{
		Backend: h.backend,
		Healthy: true,
		DB:      h.getDBStats(),
		Redis:   h.getRedisStats(),
	}

	if h.storagePing != nil {
		start := time.Now()
		if err := h.storagePing(ctx); err != nil {
			status.Healthy = false
		}
		status.Latency = time.Since(start).String()
	}

	return status
}

func (h *Handler) runtimeStats() RuntimeStats {
	var memStats runtime.MemStats
	runtime.ReadMemStats(&memStats)

	return RuntimeStats{
		GoVersion:    runtime.Version(),
		Uptime:       time.Since(h.started).Round(time.Second).String(),
		NumGoroutine: runtime.NumGoroutine(),
		NumCPU:       runtime.NumCPU(),
		MemAlloc:     memStats.Alloc,
		MemSys:       memStats.Sys,
		NumGC:        memStats.NumGC,
	}
}

func (h *Handler) getDBStats() *DBPoolStats {
	if h.dbStats == nil {
		return nil
	}

	stats := h.dbStats()
	return &DBPoolStats{
		MaxOpenConnections: stats.MaxOpenConnections,
		OpenConnections:    stats.OpenConnections,
		InUse:              stats.InUse,
		Idle:               stats.Idle,
		WaitCount:          stats.WaitCount,
		WaitDuration:       stats.WaitDuration.String(),
	}
}

func (h *Handler) getRedisStats() *RedisPoolStats {
	if h.redisStats == nil {
		return nil
	}

	stats := h.redisStats()
	return &RedisPoolStats{
		Hits:       stats.Hits,
		Misses:     stats.Misses,
		Timeouts:   stats.Timeouts,
		TotalConns: stats.TotalConns,
		IdleConns:  stats.IdleConns,
	}
}

type SystemStatsResponse struct {
	Storage StorageStatus `json:"storage"`
	Runtime RuntimeStats  `json:"runtime"`
}

type StorageStatus struct {
	Backend string          `json:"backend"`
	Healthy bool            `json:"healthy"`
	Latency string          `json:"latency,omitempty"`
	DB      *DBPoolStats    `json:"db,omitempty"`
	Redis   *RedisPoolStats `json:"redis,omitempty"`
}

type DBPoolStats struct {
	MaxOpenConnections int    `json:"max_open_connections"`
	OpenConnections    int    `json:"open_connections"`
	InUse              int    `json:"in_use"`
	Idle               int    `json:"idle"`
	WaitCount          int64  `json:"wait_count"`
	WaitDuration       string `json:"wait_duration"`
}

type RedisPoolStats struct {
	Hits       uint32 `json:"hits"`
	Misses     uint32 `json:"misses"`
	Timeouts   uint32 `json:"timeouts"`
	TotalConns uint32 `json:"total_conns"`
	IdleConns  uint32 `json:"idle_conns"`
}

type RuntimeStats struct {
	GoVersion    string `json:"go_version"`
	Uptime       string `json:"uptime"`
	NumGoroutine int    `json:"num_goroutine"`
	NumCPU       int    `json:"num_cpu"`
	MemAlloc     uint64 `json:"mem_alloc_bytes"`
	MemSys       uint64 `json:"mem_sys_bytes"`
	NumGC        uint32 `json:"num_gc"`
}
