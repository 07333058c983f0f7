// Package config loads rxkit service configuration.
//
// It uses Viper to read config.yml and godotenv to load a .env file, then
// applies environment overrides. Keys map to variables with the RXKIT
// prefix and underscores, so sse.keep_alive is RXKIT_SSE_KEEP_ALIVE.
//
// # Usage
//
//	cfg, err := config.Load("rxdemo")
//
// Load applies defaults and validates the result. LoadConfig fills any
// struct with mapstructure tags without either step.
package config
