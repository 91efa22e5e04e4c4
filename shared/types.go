package shared

type ClinicConfig struct {
	Database DatabaseConfig `mapstructure:"database" validate:"required"`
	Photos   PhotosConfig   `mapstructure:"photos" validate:"required"`
	Server   ServerConfig   `mapstructure:"server"`
	Logger   LoggerConfig   `mapstructure:"logger"`
}

type DatabaseConfig struct {
	Driver      string       `mapstructure:"driver" validate:"required,oneof=sqlite mysql"`
	LogLevel    string       `mapstructure:"logLevel" validate:"omitempty,oneof=silent error warn info"`
	AutoMigrate bool         `mapstructure:"autoMigrate"`
	Sqlite      SqliteConfig `mapstructure:"sqlite"`
	Mysql       MysqlConfig  `mapstructure:"mysql"`
}

type SqliteConfig struct {
	PassPhrase string `mapstructure:"passPhrase"`
	Dir        string `mapstructure:"dir"`
}

type MysqlConfig struct {
	Host     string `mapstructure:"host"`
	Port     int    `mapstructure:"port"`
	User     string `mapstructure:"user"`
	Password string `mapstructure:"password"`
	Name     string `mapstructure:"name"`
}

type PhotosConfig struct {
	Backend         string      `mapstructure:"backend" validate:"required,oneof=local gcs minio"`
	Dir             string      `mapstructure:"dir"`
	CleanupSchedule string      `mapstructure:"cleanupSchedule"`
	GCS             GCSConfig   `mapstructure:"gcs"`
	Minio           MinioConfig `mapstructure:"minio"`
}

type GCSConfig struct {
	Bucket                 string `mapstructure:"bucket"`
	Prefix                 string `mapstructure:"prefix"`
	ApplicationCredentials string `mapstructure:"applicationCredentials"`
}

type MinioConfig struct {
	Endpoint  string `mapstructure:"endpoint"`
	AccessKey string `mapstructure:"accessKey"`
	SecretKey string `mapstructure:"secretKey"`
	Bucket    string `mapstructure:"bucket"`
	UseSSL    bool   `mapstructure:"useSSL"`
}

type ServerConfig struct {
	Port     int    `mapstructure:"port" validate:"omitempty,min=1,max=65535"`
	TimeZone string `mapstructure:"timeZone"`
}

type LoggerConfig struct {
	Level string `mapstructure:"level" validate:"omitempty,oneof=debug info warn error"`
}
