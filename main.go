package main

import (
	"log"
	"time"

	"github.com/labstack/echo/v4"
	echoMw "github.com/labstack/echo/v4/middleware"
	"golang.org/x/time/rate"

	"github.com/meetsync/scheduling-service/config"
	"github.com/meetsync/scheduling-service/internal/handler"
	"github.com/meetsync/scheduling-service/internal/middleware"
	"github.com/meetsync/scheduling-service/internal/repository"
	"github.com/meetsync/scheduling-service/internal/service"
	"github.com/meetsync/scheduling-service/pkg/cache"
	"github.com/meetsync/scheduling-service/pkg/database"
	"github.com/meetsync/scheduling-service/pkg/rabbitmq"
)

func main() {
	cfg := config.Load()

	db := database.NewPostgresDB(cfg.DSN())

	// RabbitMQ publisher: booking lifecycle events for notification and
	// calendar-sync consumers. Optional; the service runs without it.
	var publisher service.EventPublisher
	if cfg.RabbitURL != "" {
		p, err := rabbitmq.NewPublisher(cfg.RabbitURL)
		if err != nil {
			log.Fatalf("failed to connect to RabbitMQ: %v", err)
		}
		defer p.Close()
		publisher = p
	} else {
		log.Println("RABBITMQ_URL not set, booking events disabled")
	}

	var slotCache service.SlotCache
	if cfg.RedisAddr != "" {
		c := cache.NewRedis(cfg.RedisAddr, time.Duration(cfg.SlotCacheTTLSeconds)*time.Second)
		defer c.Close()
		slotCache = c
	} else {
		log.Println("REDIS_ADDR not set, slot cache disabled")
	}

	// Repositories
	scheduleRepo := repository.NewScheduleRepository(db)
	eventTypeRepo := repository.NewEventTypeRepository(db)
	bookingRepo := repository.NewBookingRepository(db)
	reservationRepo := repository.NewReservationRepository(db)

	// Services
	availabilitySvc := service.NewAvailabilityService(eventTypeRepo, scheduleRepo, bookingRepo, reservationRepo, slotCache)
	reservationSvc := service.NewReservationService(reservationRepo, eventTypeRepo, availabilitySvc, slotCache,
		time.Duration(cfg.ReservationTTLMinutes)*time.Minute)
	bookingSvc := service.NewBookingService(bookingRepo, eventTypeRepo, reservationRepo, publisher, slotCache)
	scheduleSvc := service.NewScheduleService(scheduleRepo)
	eventTypeSvc := service.NewEventTypeService(eventTypeRepo, scheduleRepo)

	// Echo
	e := echo.New()
	e.HTTPErrorHandler = middleware.ErrorHandler
	e.Use(echoMw.RequestLoggerWithConfig(echoMw.RequestLoggerConfig{
		LogStatus: true,
		LogURI:    true,
		LogMethod: true,
		LogValuesFunc: func(c echo.Context, v echoMw.RequestLoggerValues) error {
			log.Printf("%s %s %d", v.Method, v.URI, v.Status)
			return nil
		},
	}))
	e.Use(echoMw.Recover())
	e.Use(echoMw.RateLimiter(echoMw.NewRateLimiterMemoryStore(rate.Limit(cfg.RateLimitPerSecond))))

	e.GET("/health", func(c echo.Context) error {
		return c.JSON(200, map[string]string{"status": "ok", "service": "scheduling-service"})
	})

	handler.NewAvailabilityHandler(availabilitySvc).RegisterRoutes(e)
	handler.NewReservationHandler(reservationSvc).RegisterRoutes(e)
	handler.NewBookingHandler(bookingSvc).RegisterRoutes(e)
	handler.NewScheduleHandler(scheduleSvc).RegisterRoutes(e)
	handler.NewEventTypeHandler(eventTypeSvc).RegisterRoutes(e)

	log.Printf("Scheduling Service starting on :%s", cfg.ServerPort)
	e.Logger.Fatal(e.Start(":" + cfg.ServerPort))
}
