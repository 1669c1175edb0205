package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"sync"

	"github.com/pebble-dev/devportal/config/configkey"
	"github.com/sirupsen/logrus"
	"github.com/spf13/viper"
)

var loadConfigMutex sync.Mutex
var configLoaded bool

var DefaultValues = map[string]interface{}{
	configkey.DebugMode:        true,
	configkey.LogLevel:         "trace",
	configkey.RequestLogger:    false,
	configkey.PortalPort:       8080,
	configkey.AppsAPIURL:       "/api/v1/apps",
	configkey.AuthBaseURL:      "http://localhost:8900",
	configkey.MinioHost:        "localhost",
	configkey.MinioSecretKey:   "password",
	configkey.MinioAccessKey:   "user",
	configkey.MinioSecure:      false,
	configkey.AssetsBucket:     "assets",
	configkey.PbwBucket:        "pbws",
	configkey.DatabaseUsername: "manager",
	configkey.DatabaseDatabase: "devportal",
	configkey.DatabaseHost:     "localhost",
	configkey.DatabasePort:     5432,
	configkey.DatabaseSSLMode:  "disable",
	configkey.DatabaseTimezone: "America/New_York",
	configkey.DatabasePassword: "password",
	configkey.AlgoliaIndex:     "apps",
}

func LoadConfig() {
	loadConfigMutex.Lock()
	defer loadConfigMutex.Unlock()
	if !configLoaded {
		configLoaded = true

		explicitConfigFile := os.Getenv("CONFIG_FILE")
		if explicitConfigFile != "" {
			fmt.Printf("CONFIG_FILE: %s\n", explicitConfigFile)
			viper.SetConfigFile(explicitConfigFile)
		} else {
			viper.SetConfigName("config")
			viper.SetConfigType("yaml")
			viper.AddConfigPath("/opt/devportal") // path to look for the config file in

			otherPath := os.Getenv("CONFIG_FILE_PATH")
			viper.AddConfigPath(otherPath)
		}

		// set defaults first
		for key, val := range DefaultValues {
			viper.SetDefault(key, val)
		}

		viper.SetEnvPrefix("devportal")
		viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
		viper.AutomaticEnv()

		err := viper.ReadInConfig() // Find and read the config file
		if err != nil {             // Handle errors reading the config file
			logrus.Warn("Config file not found, using defaults")
		}
	}
}

func MustGetString(key string) string {
	val := viper.GetString(key)
	if len(val) == 0 {
		panic(errors.New("failed to get " + key))
	}

	return val
}
