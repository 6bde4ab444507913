package main

import (
	"context"
	"flag"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/itshubble/hubble-server/internal/biz"
	"github.com/itshubble/hubble-server/internal/conf"

	klog "github.com/go-kratos/kratos/v2/log"
	"github.com/robfig/cron/v3"
	_ "go.uber.org/automaxprocs"
)

var (
	flagconf string
)

// SweepApp 扫描进程的应用结构
type SweepApp struct {
	subscriptionUsecase *biz.SubscriptionUsecase
}

// newLogger 创建 logger
func newLogger(c *conf.Bootstrap) klog.Logger {
	return klog.With(klog.NewStdLogger(os.Stdout),
		"ts", klog.DefaultTimestamp,
		"caller", klog.DefaultCaller,
		"service.name", "hubble-sweep",
	)
}

const (
	defaultSweepSpec    = "0 */5 * * * *"
	defaultSweepTimeout = 5 * time.Minute
)

func init() {
	flag.StringVar(&flagconf, "conf", "configs/config.yaml", "config path, eg: -conf config.yaml")
}

func main() {
	flag.Parse()

	// 初始化配置(Load 内部完成校验)
	bc, err := conf.Load(flagconf)
	if err != nil {
		panic(err)
	}

	// 初始化应用
	app, cleanup, err := wireApp(bc)
	if err != nil {
		panic(err)
	}
	defer cleanup()

	spec := defaultSweepSpec
	timeout := defaultSweepTimeout
	if bc.Sweep != nil {
		if bc.Sweep.Spec != "" {
			spec = bc.Sweep.Spec
		}
		if d, err := time.ParseDuration(bc.Sweep.Timeout); err == nil && d > 0 {
			timeout = d
		}
	}

	// 创建定时任务调度器（支持秒级调度）
	cronScheduler := cron.New(cron.WithSeconds())

	// 订阅生命周期扫描：到期续费、试用结束、完结与过期统一在一次扫描内处理
	_, err = cronScheduler.AddFunc(spec, func() {
		log.Println("[CRON] Starting subscription lifecycle sweep...")
		ctx, cancel := context.WithTimeout(context.Background(), timeout)
		defer cancel()

		result, err := app.subscriptionUsecase.Sweep(ctx, time.Now().UTC())
		if err != nil {
			log.Printf("[CRON] Error running lifecycle sweep: %v", err)
			return
		}

		log.Printf("[CRON] Sweep completed: evaluated=%d, transitioned=%d, charged=%d, skipped=%d, failed=%d",
			result.Evaluated, result.Transitioned, result.Charged, result.Skipped, result.Failed)
		for _, item := range result.Results {
			if item.ErrorMessage != "" {
				log.Printf("[CRON] Sweep item failed: subscription=%s, event=%s, error=%s",
					item.SubscriptionID, item.Event, item.ErrorMessage)
			}
		}
		log.Println("[CRON] Finished subscription lifecycle sweep")
	})
	if err != nil {
		log.Fatalf("Failed to add lifecycle sweep job: %v", err)
	}

	// 启动定时任务
	cronScheduler.Start()
	log.Println("========================================")
	log.Println("Sweep job started successfully")
	log.Printf("  - Lifecycle sweep: %s", spec)
	log.Println("========================================")

	// 优雅退出
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("Shutting down gracefully...")

	// 停止定时任务
	ctx := cronScheduler.Stop()
	select {
	case <-ctx.Done():
		log.Println("Sweep job stopped gracefully")
	case <-time.After(5 * time.Second):
		log.Println("Sweep job forced to stop after timeout")
	}
}
