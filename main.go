package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"

	"healthpulse/api"
	"healthpulse/common"
	"healthpulse/config"
	"healthpulse/events"
	"healthpulse/logger"
	"healthpulse/newsfeed"
	"healthpulse/ocr"
	"healthpulse/orchestrator"
	"healthpulse/store"
	"healthpulse/translate"
)

func main() {
	_ = godotenv.Load()
	cfg := config.Load()

	log, err := logger.New(cfg.LogMode)
	if err != nil {
		os.Stderr.WriteString("failed to initialize logger: " + err.Error() + "\n")
		os.Exit(1)
	}
	defer log.Sync()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	db, err := store.Open(cfg.DatabaseDSN, log)
	if err != nil {
		log.Fatal("failed to open database", "error", err)
	}

	labs := store.NewLabResultRepo(db, log)
	articles := store.NewArticleRepo(db, log)
	recs := store.NewRecommendationRepo(db, log)

	// the seen cache is an optimization; run without it when Redis is down
	var seen orchestrator.SeenFilter
	seenCache, err := store.NewSeenCache(store.SeenCacheConfig{
		Addr:     cfg.RedisAddr,
		Password: cfg.RedisPass,
		DB:       cfg.RedisDB,
		Key:      cfg.SeenKey,
		TTL:      cfg.SeenTTL,
	})
	if err != nil {
		log.Warn("seen cache unavailable, continuing without it", "error", err)
	} else {
		seen = seenCache
		defer seenCache.Close()
	}

	var feed newsfeed.Service
	if cfg.NewsAPIKey != "" {
		feed = newsfeed.NewNewsAPIClient(cfg.NewsBaseURL, cfg.NewsAPIKey, cfg.ExternalTimeout, log)
	} else {
		feedURL := newsfeed.ResolveFeedURL(cfg.FeedPreset)
		log.Info("NEWSAPI_KEY not set, falling back to RSS", "feed", feedURL)
		feed = newsfeed.NewRSSSource(feedURL, log)
	}

	var translator translate.Service = translate.Noop{}
	if cfg.DeepLAPIKey != "" {
		translator = translate.NewDeepLClient(cfg.DeepLBaseURL, cfg.DeepLAPIKey,
			cfg.TranslateInterval, cfg.ExternalTimeout, log)
	} else {
		log.Info("DEEPL_API_KEY not set, articles stay in the source language")
	}

	var ocrService api.OCRService
	if cfg.VisionCredentialsFile != "" {
		vision, err := ocr.NewVisionClient(ctx, cfg.VisionCredentialsFile)
		if err != nil {
			log.Warn("vision client unavailable, lab photo upload disabled", "error", err)
		} else {
			ocrService = vision
			defer vision.Close()
		}
	} else {
		log.Info("VISION_CREDENTIALS_FILE not set, lab photo upload disabled")
	}

	var images api.ImageSaver
	if cfg.S3Bucket != "" {
		imageStore, err := common.NewImageStore(ctx, common.ImageStoreConfig{
			Bucket:       cfg.S3Bucket,
			Region:       cfg.S3Region,
			Prefix:       cfg.S3Prefix,
			UsePathStyle: cfg.S3UsePathStyle,
		})
		if err != nil {
			log.Warn("image store unavailable, lab photos will not be kept", "error", err)
		} else {
			images = imageStore
		}
	}

	state := orchestrator.NewManager()
	runner := orchestrator.NewRunner(labs, articles, recs, feed, translator, seen, state, log,
		orchestrator.Options{
			Query:      cfg.NewsQuery,
			PageSize:   cfg.NewsPageSize,
			SourceLang: cfg.SourceLang,
			TargetLang: cfg.TargetLang,
		})

	// lab update events refresh recommendations without a second request
	// from the app; both sides degrade gracefully when Kafka is absent
	var publisher api.EventPublisher
	if len(cfg.KafkaBrokers) > 0 {
		producer, err := events.NewProducer(cfg.KafkaBrokers, cfg.KafkaTopic, log)
		if err != nil {
			log.Warn("kafka producer unavailable, lab events disabled", "error", err)
		} else {
			publisher = producer
			defer producer.Close()
		}

		consumer, err := events.NewConsumer(events.ConsumerConfig{
			Brokers: cfg.KafkaBrokers,
			Topic:   cfg.KafkaTopic,
			GroupID: cfg.KafkaGroupID,
			Handler: events.NewLabResultHandler(runner, log),
			Logger:  log,
		})
		if err != nil {
			log.Warn("kafka consumer unavailable, event-driven refresh disabled", "error", err)
		} else {
			if err := consumer.Start(ctx); err != nil {
				log.Warn("kafka consumer failed to start", "error", err)
			}
			defer consumer.Close()
		}
	}

	server := api.NewServer(labs, recs, images, ocrService, publisher, runner, state, log)
	router := api.NewRouter(server)

	log.Info("healthpulse listening", "port", cfg.Port)
	if err := router.Run(":" + cfg.Port); err != nil {
		log.Fatal("server exited", "error", err)
	}
}
