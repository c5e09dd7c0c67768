package appbuilder

import (
	"context"
	"credential-registry/pkg/logger"
	"credential-registry/pkg/rabbitmq"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	amqp "github.com/rabbitmq/amqp091-go"
)

const shutdownTimeout = 10 * time.Second

type Application struct {
	Logger         *logger.Logger
	Addr           string
	Conn           *amqp.Connection
	WorkerServices []rabbitmq.WorkerService
	Engine         *gin.Engine
}

// Start runs the workers and serves REST until SIGINT or SIGTERM.
func (a *Application) Start() {
	a.Logger.Info("Starting Application runtime...")

	for _, ws := range a.WorkerServices {
		a.Logger.Infof("Starting %s WorkerService", ws.GetServiceName())
		go ws.StartService()
	}

	server := &http.Server{Addr: a.Addr, Handler: a.Engine}
	go func() {
		a.Logger.Infof("REST API is now listening on: %s", a.Addr)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			a.Logger.Fatal(err, "REST API stopped")
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	<-stop

	a.Logger.Info("Shutting down...")
	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		a.Logger.Error(err, "REST API shutdown")
	}
	if a.Conn != nil {
		if err := a.Conn.Close(); err != nil {
			a.Logger.Error(err, "Rabbitmq connection close")
		}
	}
}
