package main

import (
	"log"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/go-redis/redis/v8"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/Kempan/griptech-sub000/internal/config"
	orderhttp "github.com/Kempan/griptech-sub000/internal/controllers/http"
	mmysql "github.com/Kempan/griptech-sub000/internal/infra/mysql"
	"github.com/Kempan/griptech-sub000/internal/infra/rabbitmq"
	mysqlrepo "github.com/Kempan/griptech-sub000/internal/repository/mysql"
	"github.com/Kempan/griptech-sub000/internal/services"
)

func main() {
	cfg := config.LoadConfig()

	db, err := mmysql.NewMySQL(cfg)
	if err != nil {
		log.Fatalf("db: connect: %v", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		log.Fatalf("db: handle: %v", err)
	}
	defer sqlDB.Close()

	sqlDB.SetMaxOpenConns(100)
	sqlDB.SetMaxIdleConns(20)
	sqlDB.SetConnMaxLifetime(5 * time.Minute)
	sqlDB.SetConnMaxIdleTime(1 * time.Minute)

	store := mysqlrepo.NewStore(db)

	publisher, err := rabbitmq.NewPublisher(cfg.RabbitMQURL, cfg.OrderExchange)
	if err != nil {
		log.Fatalf("failed to init publisher: %v", err)
	}
	defer publisher.Close()

	redisClient := redis.NewClient(&redis.Options{
		Addr:         cfg.RedisHost + ":" + cfg.RedisPort,
		DB:           0,
		PoolSize:     50,
		MinIdleConns: 5,
		DialTimeout:  2 * time.Second,
		ReadTimeout:  500 * time.Millisecond,
		WriteTimeout: 500 * time.Millisecond,
	})
	defer redisClient.Close()

	s := services.NewOrderService(store, publisher, redisClient)

	handler := orderhttp.NewHandler(s, redisClient)
	adminHandler := orderhttp.NewAdminHandler(s, redisClient)

	gin.SetMode(gin.ReleaseMode)
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(orderhttp.PrometheusMiddleware())
	r.Use(orderhttp.SessionAuth(cfg.JWTSecret))

	r.GET("/metrics", gin.WrapH(promhttp.Handler()))
	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	handler.RegisterRoutes(r)
	adminHandler.RegisterRoutes(r)

	log.Printf("starting order service on port %s", cfg.Port)
	if err := r.Run(":" + cfg.Port); err != nil {
		log.Fatalf("server run: %v", err)
	}
}
