package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	awsCfg "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	awsS3 "github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/redis/go-redis/v9"

	"gavel/adapters/audit"
	"gavel/adapters/broadcast"
	internalS3 "gavel/adapters/s3"
	"gavel/adapters/tcp"
	"gavel/api"
	"gavel/engine"
	"gavel/storage"
)

func main() {
	args := ParseArgs()
	if !args.Validate() {
		panic("missing arguments")
	}
	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	slog.SetDefault(logger)

	// 初始化持久層並載入球員目錄
	store, err := storage.Open(args.DB, logger)
	if err != nil {
		panic(err)
	}
	if err := store.Migrate(); err != nil {
		panic(err)
	}
	seeded, err := store.SeedIfEmpty()
	if err != nil {
		panic(err)
	}
	if seeded > 0 {
		logger.Info("seeded player catalog", slog.Int("players", seeded))
	}
	players, err := store.LoadCatalog(context.Background())
	if err != nil {
		panic(err)
	}
	catalog := engine.NewCatalog(players, args.HomeNationality)
	catalog.Shuffle()

	// 初始化廣播匯流排
	hub := broadcast.NewHub[string](broadcast.WithLogger(logger))
	defer hub.Close()

	// 引擎選項：稽核軌跡與場次報告上傳都是可選的
	options := []engine.Option{
		engine.WithLogger(logger),
		engine.WithStore(store),
	}
	if args.Redis.Addr != "" {
		redisClient := redis.NewClient(&redis.Options{
			Addr:     args.Redis.Addr,
			Password: args.Redis.Password,
			DB:       args.Redis.DB,
		})
		trail, err := audit.NewProducer(redisClient, args.Redis.AuditStreamKey, audit.WithProducerLogger(logger))
		if err != nil {
			panic(err)
		}
		trail.Start()
		defer trail.Close()
		options = append(options, engine.WithAuditTrail(trail))
	}
	if args.S3.Bucket != "" {
		s3Cfg, err := awsCfg.LoadDefaultConfig(
			context.Background(),
			awsCfg.WithBaseEndpoint(args.S3.Endpoint),
			awsCfg.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(args.S3.AccessKeyID, args.S3.SecretAccessKey, "")),
			awsCfg.WithRegion("auto"),
		)
		if err != nil {
			panic(err)
		}
		reporter, err := internalS3.NewReportUploader(awsS3.NewFromConfig(s3Cfg), args.S3.Bucket, args.S3.Prefix, args.S3.PublicBaseURL)
		if err != nil {
			panic(err)
		}
		options = append(options, engine.WithReporter(reporter))
	}

	// 初始化引擎
	auction, err := engine.New(args.Engine, catalog, hub, options...)
	if err != nil {
		panic(err)
	}
	auction.Start()
	defer auction.Close()

	// 初始化TCP入口
	server, err := tcp.NewServer(auction, hub,
		tcp.WithServerLogger(logger),
		tcp.WithMaxClients(args.MaxClients),
	)
	if err != nil {
		panic(err)
	}
	if err := server.Start(args.TCPAddr); err != nil {
		panic(err)
	}
	defer server.Close()

	// 初始化觀察端API
	observer, err := api.NewServer(auction, hub, api.WithLogger(logger), api.WithStore(store))
	if err != nil {
		panic(err)
	}
	go func() {
		if err := http.ListenAndServe(args.APIAddr, observer.Router()); err != nil {
			logger.Error("observer API stopped", slog.Any("error", err))
		}
	}()

	// 場次收尾或收到訊號就停止服務
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	select {
	case <-auction.Done():
		logger.Info("auction session complete, shutting down")
	case sig := <-quit:
		logger.Info("received signal, shutting down", slog.String("signal", sig.String()))
	}
}
