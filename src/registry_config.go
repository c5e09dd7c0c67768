package main

import (
	"credential-registry/pkg/logger"
	"credential-registry/pkg/rabbitmq"
	"credential-registry/pkg/utilities"
	"credential-registry/src/registry"
	"credential-registry/src/storage"
	"credential-registry/src/workers"
)

const (
	envConfigPath   = "REGISTRY_CONFIG"
	envDatabaseDsn  = "REGISTRY_DB_DSN"
	envRabbitmqHost = "RABBITMQ_HOST"

	defaultConfigPath = "config.json"
	defaultRestPort   = 9000
)

type RegistryConfigJson struct {
	LoggerConf   logger.LoggerConfigJson    `json:"logger"`
	RabbitmqConf rabbitmq.RabbimqConfigJson `json:"rabbitmq"`
	RestConf     RestConfigJson             `json:"rest"`
	DatabaseConf storage.DatabaseConfigJson `json:"database"`
	RegistryConf RegistrySettingsJson       `json:"registry"`
}

func (rcj RegistryConfigJson) ConvertToDomain() RegistryConfig {
	rabbitmqConf := rcj.RabbitmqConf.ConvertToDomain()
	rabbitmqConf.Host = utilities.EnvOrDefault(envRabbitmqHost, rabbitmqConf.Host)

	databaseConf := rcj.DatabaseConf.ConvertToDomain()
	databaseConf.ConnectionString = utilities.EnvOrDefault(envDatabaseDsn, databaseConf.ConnectionString)

	return RegistryConfig{
		LoggerConf:   rcj.LoggerConf.ConvertToDomain(),
		RabbitmqConf: rabbitmqConf,
		RestConf:     rcj.RestConf.ConvertToDomain(),
		DatabaseConf: databaseConf,
		RegistryConf: rcj.RegistryConf.ConvertToDomain(),
	}
}

type RegistryConfig struct {
	LoggerConf   logger.LoggerConfig
	RabbitmqConf rabbitmq.RabbitmqConfig
	RestConf     RestConfig
	DatabaseConf storage.DatabaseConfig
	RegistryConf RegistrySettings
}

func (rc RegistryConfig) GetLoggerConfig() logger.LoggerConfig {
	return rc.LoggerConf
}

func (rc RegistryConfig) GetRabbitmqConfig() rabbitmq.RabbitmqConfig {
	return rc.RabbitmqConf
}

func (rc RegistryConfig) GetRestApiPort() uint16 {
	return rc.RestConf.Port
}

type RestConfigJson struct {
	Port uint16 `json:"port"`
}

type RestConfig struct {
	Port uint16
}

func (rcj RestConfigJson) ConvertToDomain() RestConfig {
	return RestConfig{
		Port: utilities.Ternary(rcj.Port == 0, uint16(defaultRestPort), rcj.Port),
	}
}

type VerifierConfigJson struct {
	Kind             string `json:"kind"`
	VerifyingKeyPath string `json:"verifying_key_path"`
}

type VerifierConfig struct {
	Kind             registry.VerifierKind
	VerifyingKeyPath string
}

func (vcj VerifierConfigJson) ConvertToDomain() VerifierConfig {
	return VerifierConfig{
		Kind:             registry.VerifierKind(utilities.Ternary(vcj.Kind == "", string(registry.VerifierMock), vcj.Kind)),
		VerifyingKeyPath: vcj.VerifyingKeyPath,
	}
}

// RegistrySettingsJson names the issuer and owner as base58 ed25519 public
// keys. SeedRoot, when set, is published by the issuer on an empty store.
type RegistrySettingsJson struct {
	Issuer         string             `json:"issuer"`
	Owner          string             `json:"owner"`
	Verifier       VerifierConfigJson `json:"verifier"`
	OutboxSchedule string             `json:"outbox_schedule"`
	SeedRoot       string             `json:"seed_root"`
}

type RegistrySettings struct {
	Issuer         registry.Principal
	Owner          registry.Principal
	Verifier       VerifierConfig
	OutboxSchedule string
	SeedRoot       string
}

func (rsj RegistrySettingsJson) ConvertToDomain() RegistrySettings {
	return RegistrySettings{
		Issuer:         registry.Principal(rsj.Issuer),
		Owner:          registry.Principal(rsj.Owner),
		Verifier:       rsj.Verifier.ConvertToDomain(),
		OutboxSchedule: utilities.Ternary(rsj.OutboxSchedule == "", workers.DefaultOutboxSchedule, rsj.OutboxSchedule),
		SeedRoot:       rsj.SeedRoot,
	}
}
