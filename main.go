package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/bytedance/sonic"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/compress"
	"github.com/gofiber/fiber/v2/middleware/etag"
	"github.com/gofiber/fiber/v2/utils"

	"ekklesia_backend/internals/configs"
	database "ekklesia_backend/internals/databases"
	attendanceModel "ekklesia_backend/internals/features/attendance/model"
	attendanceRepo "ekklesia_backend/internals/features/attendance/repository"
	churchModel "ekklesia_backend/internals/features/churches/model"
	homeGroupModel "ekklesia_backend/internals/features/homegroups/model"
	meetingModel "ekklesia_backend/internals/features/meetings/model"
	metricsService "ekklesia_backend/internals/features/metrics/service"
	personModel "ekklesia_backend/internals/features/persons/model"
	"ekklesia_backend/internals/features/quality/classifier"
	qualityModel "ekklesia_backend/internals/features/quality/model"
	"ekklesia_backend/internals/features/quality/queue"
	qualityRepo "ekklesia_backend/internals/features/quality/repository"
	"ekklesia_backend/internals/features/quality/scheduler"
	qualityService "ekklesia_backend/internals/features/quality/service"
	"ekklesia_backend/internals/logger"
	middlewares "ekklesia_backend/internals/middlewares"
	routes "ekklesia_backend/internals/route"
	"ekklesia_backend/internals/seeds"
)

func main() {
	configs.LoadEnv()
	logger.Init()

	app := fiber.New(fiber.Config{
		JSONEncoder:             sonic.Marshal,
		JSONDecoder:             sonic.Unmarshal,
		DisableStartupMessage:   true,
		ProxyHeader:             fiber.HeaderXForwardedFor,
		EnableTrustedProxyCheck: true,
		TrustedProxies:          []string{"0.0.0.0/0"},
	})

	app.Use(compress.New(compress.Config{Level: compress.LevelDefault}))
	app.Use(etag.New())

	// request-id + timing
	app.Use(func(c *fiber.Ctx) error {
		id := c.Get("X-Request-ID")
		if id == "" {
			id = utils.UUID()
		}
		c.Set("X-Request-ID", id)
		c.Locals("reqid", id)
		start := time.Now()
		ctx, cancel := context.WithTimeout(c.Context(), 5*time.Second)
		defer cancel()
		c.SetUserContext(ctx)
		err := c.Next()
		log.Printf("[REQ] id=%s %s %s status=%d dur=%s",
			id, c.Method(), c.OriginalURL(), c.Response().StatusCode(), time.Since(start))
		return err
	})

	middlewares.SetupMiddlewares(app)

	// DB connect + pool + warm-up
	database.ConnectDB()
	database.TunePool()
	database.WarmUpQueries()
	db := database.DB

	if configs.GetEnvBool("DB_AUTOMIGRATE", false) {
		if err := db.AutoMigrate(
			&churchModel.ChurchModel{},
			&homeGroupModel.HomeGroupModel{},
			&personModel.PersonModel{},
			&meetingModel.MeetingModel{},
			&attendanceModel.AttendanceRecordModel{},
			&qualityModel.QualityTierModel{},
			&qualityModel.QualityProjectionModel{},
		); err != nil {
			log.Fatalf("❌ automigrate failed: %v", err)
		}
	}

	if err := seeds.SeedQualityTiers(db); err != nil {
		log.Fatalf("❌ quality tier seed failed: %v", err)
	}

	// misconfigured thresholds are fatal here, before any consumer starts
	tiers, err := seeds.LoadQualityTiers(db)
	if err != nil {
		log.Fatalf("❌ load quality tiers failed: %v", err)
	}
	cls, err := classifier.New(tiers)
	if err != nil {
		log.Fatalf("❌ %v", err)
	}

	// message bus: RocketMQ when name servers are configured, otherwise an
	// in-process channel bus (dev / single-node)
	var bus queue.Bus
	if len(configs.MQNameServers) > 0 {
		mq := queue.NewRocketMQBus(queue.RocketMQConfig{
			NameServers:   configs.MQNameServers,
			ConsumerGroup: configs.MQConsumerGroup,
			AccessKey:     configs.MQAccessKey,
			SecretKey:     configs.MQSecretKey,
			Namespace:     configs.MQNamespace,
			Topic:         configs.RecalcTopic,
		})
		if err := mq.Start(); err != nil {
			log.Fatalf("❌ rocketmq start failed: %v", err)
		}
		bus = mq
		log.Println("✅ RocketMQ bus connected")
	} else {
		bus = queue.NewMemoryBus(4096)
		log.Println("⚠️ no ROCKETMQ_NAME_SERVERS set, using in-memory bus")
	}

	// recalculation pipeline
	attendance := attendanceRepo.NewAttendanceRepository(db)
	projections := qualityRepo.NewProjectionRepository(db)
	producer := qualityService.NewRecalcProducer(db, bus, projections, configs.QualityWindowMonths)
	consumer := qualityService.NewRecalcConsumer(attendance, projections, cls, logger.Log)

	if err := bus.Subscribe(context.Background(), configs.RecalcConsumers, consumer.Handle); err != nil {
		log.Fatalf("❌ bus subscribe failed: %v", err)
	}
	log.Printf("✅ recalculation consumers started (workers=%d)", configs.RecalcConsumers)

	// reconciliation sweep after DB + bus are up
	job := scheduler.NewReconciliationJob(db, bus, configs.QualityWindowMonths, configs.ReconcileBatchSize, logger.Log)
	reconcileCron := scheduler.StartReconciliationCron(job, configs.ReconcileCron)

	// metrics read path
	aggregator := metricsService.NewMetricsAggregator(db, attendance)
	metricsCache := metricsService.NewMetricsCache(aggregator, configs.MetricsCacheTTL)

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.SendString("ok")
	})

	routes.SetupRoutes(app, db, routes.Deps{
		Producer:     producer,
		Projections:  projections,
		MetricsCache: metricsCache,
	})

	app.Server().ReadTimeout = 15 * time.Second
	app.Server().WriteTimeout = 30 * time.Second
	app.Server().IdleTimeout = 90 * time.Second

	go func() {
		log.Printf("✅ Listening on :%s", configs.AppPort)
		if err := app.Listen("0.0.0.0:" + configs.AppPort); err != nil {
			log.Fatalf("server error: %v", err)
		}
	}()

	// graceful shutdown: stop intake first, then drain the pipeline
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	reconcileCron.Stop()
	_ = app.ShutdownWithContext(ctx)
	_ = bus.Close(ctx)

	if sqlDB, err := db.DB(); err == nil {
		_ = sqlDB.Close()
	}
}
