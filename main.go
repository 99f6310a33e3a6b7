package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"

	"group-service/internal/config"
	"group-service/internal/db"
	"group-service/internal/handlers"
	"group-service/internal/logging"
	"group-service/internal/middleware"
	"group-service/internal/observability"
	"group-service/internal/rabbitmq"
	"group-service/internal/repositories"
	"group-service/internal/services"
	"group-service/internal/telemetry"
)

const serviceName = "group-service"

func main() {
	cfg := config.Load()
	logging.Setup(cfg.LogLevel)

	database, err := db.Connect(cfg.DatabaseDSN)
	if err != nil {
		slog.Error("failed to connect to db", "error", err)
		os.Exit(1)
	}

	shutdownTracing, err := telemetry.InitTracing(context.Background(), serviceName, cfg.OTLPEndpoint)
	if err != nil {
		slog.Error("failed to init tracing", "error", err)
		os.Exit(1)
	}
	defer shutdownTracing(context.Background())

	publisher := rabbitmq.NewPublisher(cfg.AMQPURL, cfg.AMQPExchange)
	defer publisher.Close()
	slog.Info("audit publisher ready", "mode", rabbitmq.PublisherMode(publisher))

	audit := telemetry.NewAuditEmitter(publisher, cfg.AuditRouting, serviceName, cfg.Environment)

	groupRepo := repositories.NewGroupRepo(database)
	membershipRepo := repositories.NewMembershipRepo(database)
	messageRepo := repositories.NewMessageRepo(database)

	groupService := services.NewGroupService(groupRepo)
	membershipService := services.NewMembershipService(groupRepo, membershipRepo)
	messageService := services.NewMessageService(groupRepo, membershipRepo, messageRepo)

	groupHandler := handlers.NewGroupHandler(groupService, audit)
	membershipHandler := handlers.NewMembershipHandler(membershipService, audit)
	messageHandler := handlers.NewMessageHandler(messageService, audit)

	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(otelgin.Middleware(serviceName))
	router.Use(middleware.RequestID())
	router.Use(middleware.AccessLog())
	router.Use(observability.HTTPMetricsMiddleware())

	router.GET("/groups", groupHandler.ListGroups)
	router.POST("/groups", groupHandler.CreateGroup)
	router.DELETE("/groups/:group_id", groupHandler.DeleteGroup)
	router.POST("/groups/:group_id/join", membershipHandler.Join)
	router.POST("/groups/:group_id/leave", membershipHandler.Leave)
	router.GET("/groups/:group_id/messages", messageHandler.GetMessages)
	router.POST("/groups/:group_id/messages", messageHandler.SendMessage)

	router.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	handlers.RegisterDebugRoutes(router, audit, cfg.DebugRoutes)

	router.NoRoute(func(c *gin.Context) {
		c.JSON(http.StatusNotFound, gin.H{"status": "error", "message": "Not Found"})
	})

	slog.Info("listening", "port", cfg.Port, "environment", cfg.Environment)
	if err := router.Run(":" + cfg.Port); err != nil {
		slog.Error("server error", "error", err)
		os.Exit(1)
	}
}
