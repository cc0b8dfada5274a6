package main

import (
	"context"
	"encoding/json"
	"fmt"
	"log"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/embedplay/bridge/internal/app"
)

type configVar[T any] struct {
	envKey       string
	flagKey      string
	defaultValue T
}

var (
	host = configVar[string]{
		envKey:       "BRIDGE_HOST",
		flagKey:      "host",
		defaultValue: "0.0.0.0",
	}
	port = configVar[int]{
		envKey:       "BRIDGE_PORT",
		flagKey:      "port",
		defaultValue: 8080,
	}
	logLevel = configVar[string]{
		envKey:       "BRIDGE_LOG_LEVEL",
		flagKey:      "log-level",
		defaultValue: "INFO",
	}
	playerBaseURL = configVar[string]{
		envKey:       "BRIDGE_PLAYER_BASE_URL",
		flagKey:      "player-base-url",
		defaultValue: "https://player.vimeo.com/video",
	}
	userAgent = configVar[string]{
		envKey:       "BRIDGE_USER_AGENT",
		flagKey:      "user-agent",
		defaultValue: "",
	}
	sessionTTL = configVar[int]{
		envKey:       "BRIDGE_SESSION_TTL_SEC",
		flagKey:      "session-ttl-sec",
		defaultValue: 60,
	}
	positionTTL = configVar[int]{
		envKey:       "BRIDGE_POSITION_TTL_DAY",
		flagKey:      "position-ttl-day",
		defaultValue: 14,
	}
	redisPort = configVar[int]{
		envKey:       "REDIS_PORT",
		flagKey:      "redis-port",
		defaultValue: 6379,
	}
	redisHost = configVar[string]{
		envKey:       "REDIS_HOST",
		flagKey:      "redis-host",
		defaultValue: "localhost",
	}
	redisPassword = configVar[string]{
		envKey:       "REDIS_PASSWORD",
		flagKey:      "redis-password",
		defaultValue: "",
	}
)

func loadAppConfig() *app.AppConfig {
	pflag.String(host.flagKey, host.defaultValue, "Server host")
	pflag.Int(port.flagKey, port.defaultValue, "Server port")
	pflag.String(logLevel.flagKey, logLevel.defaultValue, "Logging level")
	pflag.String(playerBaseURL.flagKey, playerBaseURL.defaultValue, "Base URL of the hosted player")
	pflag.String(userAgent.flagKey, userAgent.defaultValue, "Custom user agent for player sessions")
	pflag.Int(sessionTTL.flagKey, sessionTTL.defaultValue, "Seconds an unattached session stays claimable")
	pflag.Int(positionTTL.flagKey, positionTTL.defaultValue, "Days a stored resume position is kept")
	pflag.Int(redisPort.flagKey, redisPort.defaultValue, "Redis port")
	pflag.String(redisHost.flagKey, redisHost.defaultValue, "Redis host")
	pflag.String(redisPassword.flagKey, redisPassword.defaultValue, "Redis password")
	pflag.Parse()

	viper.BindPFlags(pflag.CommandLine)

	viper.BindEnv(host.flagKey, host.envKey)
	viper.BindEnv(port.flagKey, port.envKey)
	viper.BindEnv(logLevel.flagKey, logLevel.envKey)
	viper.BindEnv(playerBaseURL.flagKey, playerBaseURL.envKey)
	viper.BindEnv(userAgent.flagKey, userAgent.envKey)
	viper.BindEnv(sessionTTL.flagKey, sessionTTL.envKey)
	viper.BindEnv(positionTTL.flagKey, positionTTL.envKey)
	viper.BindEnv(redisPort.flagKey, redisPort.envKey)
	viper.BindEnv(redisHost.flagKey, redisHost.envKey)
	viper.BindEnv(redisPassword.flagKey, redisPassword.envKey)

	viper.SetDefault(host.flagKey, host.defaultValue)
	viper.SetDefault(port.flagKey, port.defaultValue)
	viper.SetDefault(logLevel.flagKey, logLevel.defaultValue)
	viper.SetDefault(playerBaseURL.flagKey, playerBaseURL.defaultValue)
	viper.SetDefault(userAgent.flagKey, userAgent.defaultValue)
	viper.SetDefault(sessionTTL.flagKey, sessionTTL.defaultValue)
	viper.SetDefault(positionTTL.flagKey, positionTTL.defaultValue)
	viper.SetDefault(redisPort.flagKey, redisPort.defaultValue)
	viper.SetDefault(redisHost.flagKey, redisHost.defaultValue)
	viper.SetDefault(redisPassword.flagKey, redisPassword.defaultValue)

	config := &app.AppConfig{
		Host:           viper.GetString(host.flagKey),
		Port:           viper.GetInt(port.flagKey),
		LogLevel:       viper.GetString(logLevel.flagKey),
		PlayerBaseURL:  viper.GetString(playerBaseURL.flagKey),
		UserAgent:      viper.GetString(userAgent.flagKey),
		SessionTTLSec:  viper.GetInt(sessionTTL.flagKey),
		PositionTTLDay: viper.GetInt(positionTTL.flagKey),
		RedisPort:      viper.GetInt(redisPort.flagKey),
		RedisHost:      viper.GetString(redisHost.flagKey),
		RedisPassword:  viper.GetString(redisPassword.flagKey),
	}

	return config
}

func main() {
	ctx := context.Background()

	appConfig := loadAppConfig()

	jsonConfig, _ := json.MarshalIndent(appConfig, "", "  ")
	fmt.Printf("starting bridge with config: %s\n", jsonConfig)

	log.Fatal(app.Run(ctx, appConfig))
}
