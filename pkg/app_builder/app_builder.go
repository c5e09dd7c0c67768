package appbuilder

import (
	"credential-registry/pkg/logger"
	"credential-registry/pkg/rabbitmq"
	"credential-registry/pkg/rest"
	"credential-registry/pkg/utilities"
	"fmt"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/rs/zerolog"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

type AppConfig interface {
	GetLoggerConfig() logger.LoggerConfig
	GetRabbitmqConfig() rabbitmq.RabbitmqConfig
	GetRestApiPort() uint16
}

// AppBuilder assembles a service: config, broker, workers and REST router.
// Every step logs and panics on failure; it runs only at start-up.
type AppBuilder[T utilities.JsonConfigObj[U], U AppConfig] struct {
	Logger *logger.Logger
	Config U

	conn           *amqp.Connection
	workerServices []rabbitmq.WorkerService
	middlewares    []rest.Middleware
	routes         []rest.Route
	engine         *gin.Engine
}

func New[T utilities.JsonConfigObj[U], U AppConfig]() *AppBuilder[T, U] {
	return &AppBuilder[T, U]{}
}

func (a *AppBuilder[T, U]) InitLogger(loggerArgs logger.GlobalLoggerConfig) *AppBuilder[T, U] {
	logger.InitDefaultLogger(loggerArgs)
	a.Logger = logger.Default()
	a.Logger.Info("Logger initialized")

	return a
}

// ResolveEnvironment loads a .env file when present. Variables already set
// in the process environment win.
func (a *AppBuilder[T, U]) ResolveEnvironment() *AppBuilder[T, U] {
	if err := godotenv.Load(); err != nil {
		a.Logger.Debug("No .env file loaded")
	}
	return a
}

func (a *AppBuilder[T, U]) LoadConfig(filePath string) *AppBuilder[T, U] {
	a.Logger.Infof("Preparing to load config from %s ...", filePath)
	config, err := utilities.ReadConfig[T, U](filePath)
	if err != nil {
		a.Logger.Panic(err, "Failed to load config")
	}

	a.Config = config
	if level := config.GetLoggerConfig().LogLevel; level != zerolog.NoLevel {
		a.Logger.WithLevel(level)
	}
	a.Logger.Info("Config successfully loaded.")
	return a
}

// WithOption runs fn against the builder. Services use it for wiring that
// depends on loaded config.
func (a *AppBuilder[T, U]) WithOption(fn func(a *AppBuilder[T, U])) *AppBuilder[T, U] {
	fn(a)
	return a
}

func (a *AppBuilder[T, U]) InitRabbitmqConnection() *AppBuilder[T, U] {
	a.Logger.Info("Preparing to connect to Rabbitmq server...")
	rabbitmqConfig := a.Config.GetRabbitmqConfig()
	conn, err := rabbitmq.ConnectToRabbitmq(rabbitmqConfig)
	if err != nil {
		a.Logger.Panic(err, "Could not connect to Rabbitmq")
	}

	channel, err := conn.Channel()
	if err != nil {
		a.Logger.Panic(err, "Could not open topology channel")
	}
	defer channel.Close()

	if err := rabbitmq.DeclareTopology(channel, rabbitmqConfig); err != nil {
		a.Logger.Panic(err, "Could not declare Rabbitmq topology")
	}

	a.conn = conn
	a.Logger.Info("Connection with Rabbitmq server established")

	return a
}

func (a *AppBuilder[T, U]) InitRabbitmqRegistries() *AppBuilder[T, U] {
	a.Logger.Info("Initializing Rabbitmq registries from config")
	rabbitmqConf := a.Config.GetRabbitmqConfig()

	rabbitmq.InitializeConsumerRegistry(a.conn, rabbitmqConf.ConsumersConfig)
	rabbitmq.InitializePublisherRegistry(a.conn, rabbitmqConf.PublishersConfig)
	a.Logger.Info("Successfully initialized Rabbitmq registries from config")

	return a
}

func (a *AppBuilder[T, U]) AddWorkerServices(workerServices ...rabbitmq.WorkerService) *AppBuilder[T, U] {
	a.Logger.Info("Adding Worker Services to Application...")
	a.workerServices = append(a.workerServices, workerServices...)
	return a
}

func (a *AppBuilder[T, U]) AddGinMiddleware(middlewares ...rest.Middleware) *AppBuilder[T, U] {
	a.middlewares = append(a.middlewares, middlewares...)
	return a
}

func (a *AppBuilder[T, U]) AddGinRoutes(routes ...rest.Route) *AppBuilder[T, U] {
	a.Logger.Info("Adding Gin REST API routes to Application...")
	a.routes = append(a.routes, routes...)
	return a
}

func (a *AppBuilder[T, U]) AddSwagger() *AppBuilder[T, U] {
	a.Logger.Info("Adding SwaggerUI...")
	a.routes = append(a.routes, rest.NewRoute(
		rest.GET,
		"swagger",
		"*any",
		ginSwagger.WrapHandler(swaggerFiles.Handler),
	))

	return a
}

func (a *AppBuilder[T, U]) InitGinRouter() *AppBuilder[T, U] {
	a.Logger.Info("Initializing Gin Router...")
	router := gin.New()
	router.Use(gin.Recovery())

	rest.Use(router, a.middlewares...)
	rest.Register(router, a.routes...)

	a.engine = router
	a.Logger.Infof("Successfully registered %d REST API routes.", len(a.routes))
	return a
}

// Engine exposes the router built by InitGinRouter.
func (a *AppBuilder[T, U]) Engine() *gin.Engine {
	return a.engine
}

func (a *AppBuilder[T, U]) Build() *Application {
	return &Application{
		Logger:         a.Logger,
		Addr:           fmt.Sprintf("0.0.0.0:%d", a.Config.GetRestApiPort()),
		Conn:           a.conn,
		WorkerServices: a.workerServices,
		Engine:         a.engine,
	}
}
