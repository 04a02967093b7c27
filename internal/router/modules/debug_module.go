package modules

import (
	"expvar"
	"runtime"
	"sync"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/oksasatya/go-blog-platform/internal/container"
	"github.com/oksasatya/go-blog-platform/internal/interface/middleware"
)

var (
	startedAt   = time.Now()
	publishOnce sync.Once
)

// DebugModule serves expvar: the auth counters plus process uptime and goroutines.
type DebugModule struct{}

func NewDebugModule() *DebugModule { return &DebugModule{} }

func (m *DebugModule) Register(rg *gin.RouterGroup) {
	publishOnce.Do(func() {
		expvar.Publish("uptime_seconds", expvar.Func(func() any { return int64(time.Since(startedAt).Seconds()) }))
		expvar.Publish("goroutines", expvar.Func(func() any { return runtime.NumGoroutine() }))
	})
	// private networks skip the limiter
	rl := middleware.RateLimit(container.GetRedis(), 120, time.Minute, middleware.KeyByIP(), middleware.AllowPrivateIP())
	rg.GET("/debug/vars", rl, gin.WrapH(expvar.Handler()))
}
