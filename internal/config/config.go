package config

type Config interface {
	EnvConfig
	BackendConfig
	RoutesConfig
	LocaleConfig
}

type EnvConfig interface {
	GetPort() string
	GetAppName() string
	GetEnv() string
}

type mainConfig struct {
	EnvVars
	Backend
	Routes
	Locales
}

func New() Config {
	return mainConfig{}
}
