package storage

import "credential-registry/pkg/utilities"

type Driver string

const (
	DriverSqlite   Driver = "sqlite"
	DriverPostgres Driver = "postgres"
)

type DatabaseConfigJson struct {
	Driver           string `json:"driver"`
	ConnectionString string `json:"connection_string"`
	Migrate          *bool  `json:"migrate"`
}

type DatabaseConfig struct {
	Driver           Driver
	ConnectionString string
	Migrate          bool
}

func (dcj DatabaseConfigJson) ConvertToDomain() DatabaseConfig {
	return DatabaseConfig{
		Driver:           Driver(utilities.Ternary(dcj.Driver == "", string(DriverSqlite), dcj.Driver)),
		ConnectionString: utilities.Ternary(dcj.ConnectionString == "", "registry.db", dcj.ConnectionString),
		Migrate:          dcj.Migrate == nil || *dcj.Migrate,
	}
}
