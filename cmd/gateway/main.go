package main

import (
	"context"
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"net/http/httputil"
	"net/url"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"syscall"
	"time"

	"github.com/redis/go-redis/v9"
	"golang.org/x/sync/errgroup"

	"github.com/LEVIII007/z-secure-SDK/zsecure"
	"github.com/LEVIII007/z-secure-SDK/zsecure/config"
	"github.com/LEVIII007/z-secure-SDK/zsecure/infra"
)

func main() {
	opts, err := config.Load()
	if err != nil {
		log.Fatalf("zsecure config error: %v", err)
	}
	cfg, err := readConfig(config.NewEnv(os.LookupEnv))
	if err != nil {
		log.Fatalf("config error: %v", err)
	}

	target, err := url.Parse(cfg.upstreamURL)
	if err != nil {
		log.Fatalf("invalid UPSTREAM_URL: %v", err)
	}

	proxy := httputil.NewSingleHostReverseProxy(target)
	proxy.ErrorHandler = func(w http.ResponseWriter, r *http.Request, err error) {
		log.Printf("proxy error: %v", err)
		http.Error(w, "bad gateway", http.StatusBadGateway)
	}

	var redisStats *infra.RedisStatsStore
	if cfg.statsEnabled {
		rdb := redis.NewClient(&redis.Options{
			Addr:     cfg.statsRedisAddr,
			Password: cfg.statsRedisPassword,
			DB:       cfg.statsRedisDB,
		})
		defer func() { _ = rdb.Close() }()

		pingCtx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		_, err := rdb.Ping(pingCtx).Result()
		cancel()
		if err != nil {
			log.Fatalf("redis stats ping error: %v", err)
		}

		redisStats = infra.NewRedisStatsStore(
			rdb,
			infra.WithStatsPrefix(cfg.statsPrefix),
			infra.WithStatsTTL(cfg.statsTTL),
			infra.WithStatsBucket(cfg.statsBucket),
			infra.WithStatsTrackUsers(cfg.statsTrackUsers),
		)
		opts.Stats = redisStats
	}

	client, err := zsecure.New(opts)
	if err != nil {
		log.Fatalf("zsecure client error: %v", err)
	}

	var userIDFn zsecure.UserIDFunc
	if cfg.userHeader != "" {
		userIDFn = zsecure.UserIDFromHeader(cfg.userHeader)
	}

	var h http.Handler = zsecure.Middleware(zsecure.MiddlewareOptions{
		Client:             client,
		UserIDFn:           userIDFn,
		RequestedFn:        requestedFromHeader(cfg.requestedHeader),
		RejectStatus:       cfg.rejectStatus,
		SnapshotBody:       cfg.snapshotBody,
		AddDecisionHeaders: cfg.addHeaders,
	})(proxy)

	// rota de stats fica fora do middleware para não consumir a cota
	if redisStats != nil && cfg.statsPath != "" {
		mux := http.NewServeMux()
		mux.Handle("/", h)
		mux.HandleFunc("GET "+cfg.statsPath, func(w http.ResponseWriter, r *http.Request) {
			totals, err := redisStats.Totals(r.Context())
			if err != nil {
				http.Error(w, "stats unavailable", http.StatusServiceUnavailable)
				return
			}
			w.Header().Set("Content-Type", "application/json")
			_ = json.NewEncoder(w).Encode(totals)
		})
		h = mux
	}

	srv := &http.Server{
		Addr:              cfg.listenAddr,
		Handler:           h,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       90 * time.Second,
	}

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	log.Printf("gateway listening on %s -> %s", cfg.listenAddr, target)
	log.Printf("zsecure: baseUrl=%q rateLimiting=%v shield=%v timeout=%s", client.BaseURL(), opts.RateLimitingRule != nil, opts.ShieldRule != nil, opts.Timeout)
	log.Printf("outbound: maxInFlight=%d rps=%.3f burst=%d http2=%v", opts.MaxInFlight, opts.OutboundRPS, opts.OutboundBurst, opts.HTTP2)
	log.Printf("stats: enabled=%v redisAddr=%q bucket=%q ttl=%s trackUsers=%v", cfg.statsEnabled, cfg.statsRedisAddr, cfg.statsBucket, cfg.statsTTL, cfg.statsTrackUsers)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})

	if err := g.Wait(); err != nil {
		log.Fatalf("server error: %v", err)
	}
}

// requestedFromHeader lê a quantidade de tokens do header (ausente => padrão do SDK).
func requestedFromHeader(name string) zsecure.RequestedFunc {
	if name == "" {
		return nil
	}
	return func(r *http.Request) *int {
		v := strings.TrimSpace(r.Header.Get(name))
		if v == "" {
			return nil
		}
		n, err := strconv.Atoi(v)
		if err != nil {
			// valor inválido vira negativo e é recusado pela validação
			return zsecure.Tokens(-1)
		}
		return zsecure.Tokens(n)
	}
}

type gatewayConfig struct {
	listenAddr      string
	upstreamURL     string
	userHeader      string
	requestedHeader string
	rejectStatus    int
	snapshotBody    int64
	addHeaders      bool

	statsEnabled       bool
	statsRedisAddr     string
	statsRedisPassword string
	statsRedisDB       int
	statsPrefix        string
	statsTTL           time.Duration
	statsBucket        string
	statsTrackUsers    bool
	statsPath          string
}

// readConfig lê as variáveis do gateway; valor inválido é erro, nunca o padrão.
func readConfig(env config.Env) (gatewayConfig, error) {
	var errs []error
	collect := func(err error) {
		if err != nil {
			errs = append(errs, err)
		}
	}

	cfg := gatewayConfig{}
	cfg.listenAddr = env.Get("LISTEN_ADDR", ":8080")
	cfg.upstreamURL = env.Get("UPSTREAM_URL", "")
	cfg.userHeader = env.Get("USER_ID_HEADER", "")
	cfg.requestedHeader = env.Get("REQUESTED_HEADER", "")

	var err error
	cfg.rejectStatus, err = env.Int("REJECT_STATUS", http.StatusTooManyRequests)
	collect(err)
	snapshot, err := env.Int("SNAPSHOT_BODY_BYTES", 0)
	collect(err)
	cfg.snapshotBody = int64(snapshot)
	cfg.addHeaders, err = env.Bool("ADD_DECISION_HEADERS", false)
	collect(err)

	cfg.statsEnabled, err = env.Bool("STATS_ENABLED", false)
	collect(err)
	cfg.statsRedisAddr = env.Get("STATS_REDIS_ADDR", "")
	cfg.statsRedisPassword = env.Get("STATS_REDIS_PASSWORD", "")
	cfg.statsRedisDB, err = env.Int("STATS_REDIS_DB", 0)
	collect(err)
	cfg.statsPrefix = env.Get("STATS_PREFIX", infra.DefaultStatsPrefix)
	cfg.statsTTL, err = env.Duration("STATS_TTL", 24*time.Hour)
	collect(err)
	cfg.statsBucket = env.Get("STATS_BUCKET", "minute")
	cfg.statsTrackUsers, err = env.Bool("STATS_TRACK_USERS", false)
	collect(err)
	cfg.statsPath = env.Get("STATS_PATH", "/__zsecure/stats")

	if len(errs) > 0 {
		return gatewayConfig{}, errors.Join(errs...)
	}

	if cfg.statsEnabled && cfg.statsRedisAddr == "" {
		return gatewayConfig{}, errors.New("STATS_REDIS_ADDR is required when STATS_ENABLED=true")
	}
	if cfg.upstreamURL == "" {
		return gatewayConfig{}, errors.New("UPSTREAM_URL is required")
	}
	if cfg.rejectStatus < 400 || cfg.rejectStatus > 599 {
		return gatewayConfig{}, errors.New("REJECT_STATUS must be a 4xx or 5xx code")
	}
	if cfg.snapshotBody < 0 {
		return gatewayConfig{}, errors.New("SNAPSHOT_BODY_BYTES must be >= 0")
	}
	return cfg, nil
}
