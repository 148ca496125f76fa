package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/mitraverify/verifyd/src/badge"
	"github.com/mitraverify/verifyd/src/bus"
	"github.com/mitraverify/verifyd/src/cache"
	"github.com/mitraverify/verifyd/src/config"
	"github.com/mitraverify/verifyd/src/data"
	"github.com/mitraverify/verifyd/src/dedup"
	"github.com/mitraverify/verifyd/src/dispatch"
	"github.com/mitraverify/verifyd/src/notify"
	"github.com/mitraverify/verifyd/src/orchestrator"
	"github.com/mitraverify/verifyd/src/scheduler"
	"github.com/mitraverify/verifyd/src/settings"
	"github.com/mitraverify/verifyd/src/stats"
	"github.com/mitraverify/verifyd/src/verifier"
)

func main() {
	cfg := config.Load()
	ctx := context.Background()

	rdb := data.MustRedis(cfg.RedisURL)

	// Settings sync through redis so they follow the user across devices;
	// stats stay local. Without MySQL the stats partition degrades to memory.
	syncedKV := data.NewRedisKV(rdb)
	var localKV data.KV = data.NewMemoryKV()
	if cfg.MySQLDSN != "" {
		db, err := data.ConnectMySQL(cfg.MySQLDSN)
		if err != nil {
			log.Fatalf("mysql: %v", err)
		}
		localKV = data.NewMySQLKV(db)
	} else {
		log.Printf("MYSQL_DSN not set, stats will not survive restarts")
	}

	sets := settings.Load(ctx, syncedKV)
	st := stats.Load(ctx, localKV)

	pushBus := bus.NewRedis(rdb)

	sinks := []notify.Sink{notify.BusSink{Bus: pushBus}}
	if cfg.DiscordToken != "" && cfg.DiscordChannelID != "" {
		discord, err := notify.NewDiscordSink(cfg.DiscordToken, cfg.DiscordChannelID)
		if err != nil {
			log.Printf("discord sink disabled: %v", err)
		} else {
			sinks = append(sinks, discord)
		}
	}

	resultCache := cache.New(cfg.CacheTTL, cfg.CacheMaxSize)
	client := verifier.NewClient(cfg.APIBaseURL, cfg.VerifyTimeout)
	orch := orchestrator.New(orchestrator.Config{
		Cache:        resultCache,
		Dedup:        dedup.New(),
		Stats:        st,
		Settings:     sets,
		Remote:       client,
		Badges:       badge.NewManager(pushBus),
		Sinks:        sinks,
		Bus:          pushBus,
		DashboardURL: cfg.DashboardURL,
	})

	sched := scheduler.New()
	sched.Every(cfg.SweepInterval, resultCache.Sweep)
	sched.Every(cfg.StatsFlushInterval, func() { st.Flush(context.Background()) })

	handler := dispatch.NewHandler(orch, sets, st, client, pushBus, cfg.DashboardURL)
	router := dispatch.New(handler, cfg.AllowedOrigins)

	httpSrv := &http.Server{
		Addr:    ":" + cfg.Port,
		Handler: router,
	}
	go func() {
		if err := httpSrv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("http: %v", err)
		}
	}()
	log.Printf("verifyd listening on %s", cfg.Port)

	sig := make(chan os.Signal, 1)
	signal.Notify(sig, syscall.SIGINT, syscall.SIGTERM)
	<-sig

	shutCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	_ = httpSrv.Shutdown(shutCtx)

	sched.Stop()
	st.Flush(shutCtx)
}
