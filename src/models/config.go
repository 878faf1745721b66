package models

// MConfig Structure
type MConfig struct {
	Name      string         `yaml:"name" default:"stock-trend" validate:"required"`
	Host      string         `yaml:"host" default:"127.0.0.1" validate:"required"`
	Port      int            `yaml:"port" default:"8501" validate:"min=1025,max=65535"`
	LogLevel  string         `yaml:"log_level" default:"INFO" validate:"oneof=DEBUG INFO WARNING ERROR"`
	LogFormat string         `yaml:"log_format" default:"console" validate:"oneof=console json"`
	GrpcHost  string         `yaml:"grpc_host" default:"127.0.0.1"`
	GrpcPort  int            `yaml:"grpc_port" default:"50051" validate:"min=0,max=65535"` // 0 disables the control plane
	Storage   MStorageConfig `yaml:"storage"`
	Network   MNetworkConfig `yaml:"network"`
	Forest    MForestConfig  `yaml:"forest"`
}

type MStorageConfig struct {
	DBType string `yaml:"db_type" default:"sqlite" validate:"oneof=sqlite memory"`
	DBPath string `yaml:"db_path" default:":memory:" validate:"required_if=DBType sqlite"`
}

type MNetworkConfig struct {
	Enabled        bool     `yaml:"enabled"`
	Proxies        []string `yaml:"proxies"`
	RequestTimeout int      `yaml:"timeout" validate:"min=0"` // seconds, 0 = wait forever
	MaxRetries     int      `yaml:"retries" validate:"min=0,max=10"`
	UserAgent      string   `yaml:"user_agent"`
}

type MForestConfig struct {
	Trees   int    `yaml:"trees" default:"100" validate:"min=1"`
	Seed    uint64 `yaml:"seed" default:"42"`
	Workers int    `yaml:"workers" validate:"min=0"` // 0 = GOMAXPROCS
}
