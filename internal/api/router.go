package api

import (
	"github.com/labstack/echo-contrib/echoprometheus"
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	echoswagger "github.com/swaggo/echo-swagger"
	"go.mongodb.org/mongo-driver/mongo"

	_ "github.com/munitrack/casos-api/docs"
	"github.com/munitrack/casos-api/internal/api/handler"
	"github.com/munitrack/casos-api/internal/core/service"
	"github.com/munitrack/casos-api/internal/infrastructure/config"
	mongorepo "github.com/munitrack/casos-api/internal/infrastructure/db/mongo"
	redisinfra "github.com/munitrack/casos-api/internal/infrastructure/db/redis"
	"github.com/munitrack/casos-api/internal/infrastructure/storage"
)

// uploadBodyLimit caps multipart request bodies on the two upload routes.
// It sits well above the 2 MiB attachment ceiling plus multipart envelope so
// that oversize-but-plausible files reach intake and get its 400; the
// middleware only stops grossly oversized bodies.
const uploadBodyLimit = "4M"

// NewRouter builds and returns the Echo instance with all routes registered.
func NewRouter(cfg *config.Config, db *mongo.Database, rdb *redis.Client, files *storage.LocalStore, log zerolog.Logger) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.Validator = handler.NewValidator()
	e.HTTPErrorHandler = NewHTTPErrorHandler(log)

	// --- Global middleware ---
	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.RequestID())
	e.Use(echomiddleware.Logger())
	e.Use(echoprometheus.NewMiddleware("casos_http"))

	// --- Dependencies ---
	userRepo := mongorepo.NewUserRepository(db)
	casoRepo := mongorepo.NewCasoRepository(db)
	throttle := redisinfra.NewLoginThrottle(rdb)

	userService := service.NewUserService(userRepo, throttle, log)
	casoService := service.NewCasoService(casoRepo, service.Secrets{
		Entrega:  cfg.Tokens.Entrega,
		Eliminar: cfg.Tokens.Eliminar,
	}, log)

	userHandler := handler.NewUserHandler(userService)
	casoHandler := handler.NewCasoHandler(casoService, files)
	uploadHandler := handler.NewUploadHandler(files)
	configHandler := handler.NewConfigHandler(handler.RegistrationTokens{
		Superadmin: cfg.Tokens.Superadmin,
		Admin:      cfg.Tokens.Admin,
		User:       cfg.Tokens.User,
	})

	uploadLimit := echomiddleware.BodyLimit(uploadBodyLimit)

	// --- User routes ---
	e.POST("/users", userHandler.Register)
	e.GET("/users", userHandler.Query)

	// --- Caso routes ---
	e.GET("/casos", casoHandler.List)
	e.GET("/casos/:id", casoHandler.Get)
	e.POST("/casos", casoHandler.Create, uploadLimit)
	e.PATCH("/casos/:id", casoHandler.Replace)
	e.PATCH("/casos/:id/estado", casoHandler.UpdateEstado)
	e.PATCH("/casos/:id/confirm-delivery", casoHandler.ConfirmDelivery)
	e.DELETE("/casos/:id/delete-with-password", casoHandler.DeleteWithPassword)
	e.POST("/casos/:id/actuaciones", casoHandler.AddActuacion)

	// --- Uploads ---
	e.POST("/upload", uploadHandler.Upload, uploadLimit)
	e.Static("/uploads/pdfs", files.Dir())

	// --- Operational surface ---
	e.GET("/api/config", configHandler.Tokens)
	e.GET("/metrics", echoprometheus.NewHandler())
	e.GET("/swagger/*", echoswagger.WrapHandler)

	// --- Health probes ---
	healthHandler := handler.NewHealthHandler()
	readinessHandler := handler.NewReadinessHandler(db, rdb)

	e.GET("/health", healthHandler.Liveness)           // liveness  – is the process alive?
	e.GET("/health/ready", readinessHandler.Readiness) // readiness – are dependencies up?

	return e
}
