package main

import (
	"log"
	"os"
	"os/signal"
	"syscall"

	"camsapi/bootstrap"
	"camsapi/config"
	"camsapi/controllers"
	_ "camsapi/docs"
	"camsapi/pkg/logger"
	"camsapi/pkg/token"
	"camsapi/services"
	"camsapi/services/scheduler"
	"camsapi/utils"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

// @title           camsapi
// @version         1.0
// @description     Connection and Application Management System API

// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization

// @BasePath  /api

func main() {
	// 1) Load config
	if err := config.LoadConfig(); err != nil {
		log.Fatalf("LoadConfig error: %v", err)
	}
	if config.Cfg.JWTSecret == "" {
		log.Fatal("JWT_SECRET must be configured")
	}

	// 2) Connect DB (GORM)
	if err := config.ConnectDB(); err != nil {
		log.Fatalf("ConnectDB error: %v", err)
	}
	if config.DB == nil {
		log.Fatal("Database is nil after ConnectDB")
	}

	// 3) Init structured logger with config
	logger.Init(
		config.Cfg.LogFile,
		logger.ParseLevel(config.Cfg.LogLevel),
		logger.Options{
			MaxSize:    config.Cfg.LogMaxSize,
			MaxBackups: config.Cfg.LogMaxBackups,
			MaxAge:     config.Cfg.LogMaxAge,
			Compress:   config.Cfg.LogCompress,
		},
	)
	logger.Infof("Starting CAMS API with log level: %s", config.Cfg.LogLevel)

	// 4) Migrate schema, seed system roles and default admin
	if err := bootstrap.Run(); err != nil {
		log.Fatalf("Bootstrap error: %v", err)
	}

	tokens := token.NewManager(config.Cfg.JWTSecret, config.Cfg.AccessTokenTTL)
	controllers.Init(tokens)

	// 5) Setup Gin
	router := gin.Default()
	router.Use(utils.LoggerMiddleware())
	router.Use(utils.PerformanceMiddleware(services.NewLogService()))

	api := router.Group("/api")
	{
		controllers.RegisterAuthRoutes(api)

		secured := api.Group("", controllers.RequireAuthMiddleware())
		{
			controllers.RegisterUserRoutes(secured)
			controllers.RegisterRoleRoutes(secured)
			controllers.RegisterApplicationRoutes(secured)
			controllers.RegisterConnectionRoutes(secured)
			controllers.RegisterLogRoutes(secured)
			controllers.RegisterImportRoutes(secured)
			controllers.RegisterWSRoutes(secured)
		}
	}

	// 6) Swagger route
	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	// 7) Start the connection test scheduler
	sched := scheduler.Get(config.Cfg.SchedulerTickInterval, config.Cfg.ProbeTimeout)
	sched.Start()

	// 8) Setup graceful shutdown
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		<-sigChan
		logger.Infof("Received shutdown signal, stopping scheduler...")
		sched.Stop()
		logger.Infof("Application shutdown complete")
		os.Exit(0)
	}()

	// 9) Run
	logger.Infof("Starting server at port %s", config.Cfg.ListenPort)
	router.Run("0.0.0.0:" + config.Cfg.ListenPort)
}
