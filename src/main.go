package main

import (
	"context"
	appbuilder "credential-registry/pkg/app_builder"
	"credential-registry/pkg/logger"
	"credential-registry/pkg/rabbitmq"
	"credential-registry/pkg/rest"
	"credential-registry/pkg/utilities"
	"credential-registry/src/docs"
	"credential-registry/src/registry"
	"credential-registry/src/registryapi"
	"credential-registry/src/storage"
	"credential-registry/src/workers"
	"fmt"
)

const serviceName = "credential-registry"

// @title           Credential Registry API
// @version         1.0
// @description     Root publication, proof verification and nullifier consumption for anonymous credentials
// @host localhost:9000
// @BasePath /
func main() {
	var (
		repository storage.RegistryRepository
		reg        *registry.Registry
		handler    *registryapi.Handler
	)

	appbuilder.New[RegistryConfigJson, RegistryConfig]().
		InitLogger(logger.GlobalLoggerConfig{
			Args: []logger.LoggerArg{{Key: "service", Value: serviceName}},
		}).
		ResolveEnvironment().
		WithOption(func(a *appbuilder.AppBuilder[RegistryConfigJson, RegistryConfig]) {
			a.LoadConfig(utilities.EnvOrDefault(envConfigPath, defaultConfigPath))
			docs.SwaggerInfo.Host = fmt.Sprintf("localhost:%d", a.Config.GetRestApiPort())
		}).
		WithOption(func(a *appbuilder.AppBuilder[RegistryConfigJson, RegistryConfig]) {
			// ----- DATABASE -----
			db, err := storage.ConnectToDatabase(a.Config.DatabaseConf)
			utilities.FailOnError(err, "Could not connect to database")
			repository = storage.NewRegistryRepository(db)

			// ----- REGISTRY -----
			reg, err = buildRegistry(context.Background(), a.Config.RegistryConf, repository)
			utilities.FailOnError(err, "Could not initialize registry")
			a.Logger.Infof("Registry ready at epoch %d with %s verifier", reg.CurrentEpoch(), reg.VerifierKind())

			handler = registryapi.NewHandler(reg, a.Logger)
		}).

		// ----- RABBITMQ -----
		InitRabbitmqConnection().
		InitRabbitmqRegistries().
		WithOption(func(a *appbuilder.AppBuilder[RegistryConfigJson, RegistryConfig]) {
			if logPublisher := rabbitmq.GetPublisher(workers.LogPublisherAlias); logPublisher != nil {
				logger.SetDefaultSink(rabbitmq.CreateRabbitmqLoggerSink(serviceName, logPublisher))
			}
		}).
		WithOption(func(a *appbuilder.AppBuilder[RegistryConfigJson, RegistryConfig]) {
			// ----- WORKERS -----
			a.AddWorkerServices(
				workers.NewProofSubmissionWorker(reg),
				workers.NewEventOutboxWorker(repository, a.Config.RegistryConf.OutboxSchedule),
			)

			// ----- ROUTES -----
			a.AddGinMiddleware(rest.NewMiddleware("*", handler.GinRequestLogger()))
			a.AddGinRoutes(registryapi.DefaultRoutes(handler)...)
		}).
		AddSwagger().
		InitGinRouter().
		Build().
		Start()
}
