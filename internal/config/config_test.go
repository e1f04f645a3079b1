package config_test

import (
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/powermagic/shop/internal/config"
)

func TestMustLoadByPath_Success(t *testing.T) {
	// Устанавливаем обязательные переменные окружения
	os.Setenv("DB_PASSWORD", "mypassword")
	os.Setenv("JWT_SECRET", "mysecret")
	defer os.Unsetenv("DB_PASSWORD")
	defer os.Unsetenv("JWT_SECRET")

	// Пример содержимого конфигурационного файла
	content := `
env: "local"
http_server:
  address: "localhost:8080"
  timeout: "4s"
  idle_timeout: "60s"
database:
  host: "localhost"
  port: 5432
  user: "postgres"
  name: "powermagic"
jwt:
  token_ttl: 60
migrations:
  path: "./migrations"
checkout:
  shipping_cost: 5.00
  estimated_delivery_days: 7
report:
  synthetic_epsilon: 0.009
amqp:
  exchange: "powermagic"
  queue: "order-created"
`
	// Создаем временный файл с конфигурацией
	tmpFile, err := os.CreateTemp("", "config_test_*.yaml")
	assert.NoError(t, err)
	defer os.Remove(tmpFile.Name())

	_, err = tmpFile.WriteString(content)
	assert.NoError(t, err)
	err = tmpFile.Close()
	assert.NoError(t, err)

	// Загружаем конфигурацию из временного файла
	cfg := config.MustLoadByPath(tmpFile.Name())

	// Проверяем, что конфигурация загружена корректно
	assert.Equal(t, "local", cfg.Env)
	assert.Equal(t, "localhost:8080", cfg.HTTPServer.Address)
	assert.Equal(t, 4*time.Second, cfg.HTTPServer.Timeout)
	assert.Equal(t, 60*time.Second, cfg.HTTPServer.IdleTimeout)
	assert.Equal(t, "localhost", cfg.Database.Host)
	assert.Equal(t, 5432, cfg.Database.Port)
	assert.Equal(t, "postgres", cfg.Database.User)
	assert.Equal(t, "powermagic", cfg.Database.Name)
	assert.Equal(t, 60, cfg.JWT.TokenTTL)
	assert.Equal(t, "./migrations", cfg.Migrations.Path)
	assert.Equal(t, 5.00, cfg.Checkout.ShippingCost)
	assert.Equal(t, 7, cfg.Checkout.EstimatedDeliveryDays)
	assert.Equal(t, 0.009, cfg.Report.SyntheticEpsilon)
	assert.Equal(t, "powermagic", cfg.AMQP.Exchange)
	assert.Equal(t, "order-created", cfg.AMQP.Queue)
}

func TestMustLoadByPath_Defaults(t *testing.T) {
	os.Setenv("DB_PASSWORD", "mypassword")
	os.Setenv("JWT_SECRET", "mysecret")
	defer os.Unsetenv("DB_PASSWORD")
	defer os.Unsetenv("JWT_SECRET")

	// Секции checkout и report не заданы — работают значения по умолчанию
	content := `
env: "local"
database:
  user: "postgres"
  name: "powermagic"
`
	tmpFile, err := os.CreateTemp("", "config_test_*.yaml")
	assert.NoError(t, err)
	defer os.Remove(tmpFile.Name())

	_, err = tmpFile.WriteString(content)
	assert.NoError(t, err)
	assert.NoError(t, tmpFile.Close())

	cfg := config.MustLoadByPath(tmpFile.Name())

	assert.Equal(t, 5.00, cfg.Checkout.ShippingCost)
	assert.Equal(t, 7, cfg.Checkout.EstimatedDeliveryDays)
	assert.Equal(t, 0.009, cfg.Report.SyntheticEpsilon)
}

func TestMustLoadByPath_FileNotFound(t *testing.T) {
	// Ожидаем панику, если файла не существует
	assert.Panics(t, func() {
		config.MustLoadByPath("non_existent_config.yaml")
	})
}
