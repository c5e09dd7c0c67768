package appbuilder

import (
	"credential-registry/pkg/logger"
	"credential-registry/pkg/rabbitmq"
	"credential-registry/pkg/rest"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type testConfigJson struct {
	Logger logger.LoggerConfigJson `json:"logger"`
	Port   uint16                  `json:"port"`
}

type testConfig struct {
	logger logger.LoggerConfig
	port   uint16
}

func (tcj testConfigJson) ConvertToDomain() testConfig {
	return testConfig{logger: tcj.Logger.ConvertToDomain(), port: tcj.Port}
}

func (tc testConfig) GetLoggerConfig() logger.LoggerConfig       { return tc.logger }
func (tc testConfig) GetRabbitmqConfig() rabbitmq.RabbitmqConfig { return rabbitmq.RabbitmqConfig{} }
func (tc testConfig) GetRestApiPort() uint16                     { return tc.port }

func TestAppBuilderRouterAndConfig(t *testing.T) {
	gin.SetMode(gin.TestMode)

	path := filepath.Join(t.TempDir(), "config.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"logger":{"log_level":"warn"},"port":9100}`), 0o600))

	var optionRan bool
	builder := New[testConfigJson, testConfig]().
		InitLogger(logger.GlobalLoggerConfig{}).
		LoadConfig(path).
		WithOption(func(a *AppBuilder[testConfigJson, testConfig]) {
			optionRan = a.Config.GetRestApiPort() == 9100
		}).
		AddGinMiddleware(rest.NewMiddleware("v1", func(c *gin.Context) {
			c.Header("X-Test", "v1")
			c.Next()
		})).
		AddGinRoutes(
			rest.NewRoute(rest.GET, "v1", "/ping", func(c *gin.Context) { c.String(http.StatusOK, "pong") }),
			rest.NewRoute(rest.GET, "health", "", func(c *gin.Context) { c.Status(http.StatusNoContent) }),
		).
		InitGinRouter()

	assert.True(t, optionRan)
	assert.Equal(t, zerolog.WarnLevel, builder.Logger.Level())

	w := httptest.NewRecorder()
	builder.Engine().ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/v1/ping", nil))
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "v1", w.Header().Get("X-Test"))

	w = httptest.NewRecorder()
	builder.Engine().ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/health", nil))
	assert.Equal(t, http.StatusNoContent, w.Code)
	assert.Empty(t, w.Header().Get("X-Test"))

	app := builder.Build()
	assert.Equal(t, "0.0.0.0:9100", app.Addr)
}

func TestLoadConfigPanicsOnMissingFile(t *testing.T) {
	builder := New[testConfigJson, testConfig]().InitLogger(logger.GlobalLoggerConfig{})
	assert.Panics(t, func() {
		builder.LoadConfig(filepath.Join(t.TempDir(), "missing.json"))
	})
}
