package config

import (
	"fmt"
	"net"
	"os"
	"path/filepath"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/storyreel/storyreel/pkg/logger"
)

type flagStruct struct {
	configFilePath string
	nobrowser      bool
}

var flags flagStruct

func init() {
	pflag.IP("host", net.IPv4(0, 0, 0, 0), "ip address for the host")
	pflag.Int("port", portDefault, "port to serve from")
	pflag.StringVarP(&flags.configFilePath, "config", "c", "", "config file to use")
	pflag.BoolVar(&flags.nobrowser, "nobrowser", false, "Don't open a browser window after launch")
}

// GetNoBrowser returns true if the browser should not be opened on startup.
func GetNoBrowser() bool {
	return flags.nobrowser
}

// Called at startup
func Initialize() (*Config, error) {
	cfg := &Config{
		main:      viper.New(),
		overrides: viper.New(),
	}

	cfg.initOverrides()

	newConfig, err := cfg.initConfig()
	if err != nil {
		return nil, err
	}

	cfg.setDefaults()

	if newConfig {
		// write the defaults so that they can be edited
		if err := cfg.Write(); err != nil {
			return nil, fmt.Errorf("writing config file: %w", err)
		}
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	instance = cfg
	return instance, nil
}

// Called by tests to initialize an empty config
func InitializeEmpty() *Config {
	cfg := &Config{
		main:      viper.New(),
		overrides: viper.New(),
	}
	cfg.setDefaults()
	instance = cfg
	return instance
}

func bindEnv(v *viper.Viper, key string) {
	if err := v.BindEnv(key); err != nil {
		panic(fmt.Sprintf("unable to set environment key (%v): %v", key, err))
	}
}

func (i *Config) initOverrides() {
	v := i.overrides

	if err := v.BindPFlags(pflag.CommandLine); err != nil {
		logger.Infof("failed to bind flags: %v", err)
	}

	v.SetEnvPrefix("storyreel")    // will be uppercased automatically
	bindEnv(v, Host)               // STORYREEL_HOST
	bindEnv(v, Port)               // STORYREEL_PORT
	bindEnv(v, Database)           // STORYREEL_DATABASE
	bindEnv(v, CatalogFile)        // STORYREEL_CATALOG_FILE
	bindEnv(v, FFProbePath)        // STORYREEL_FFPROBE_PATH
	bindEnv(v, MaxSessions)        // STORYREEL_MAX_SESSIONS
	bindEnv(v, CORSAllowedOrigins) // STORYREEL_CORS_ALLOWED_ORIGINS
}

// initConfig reads the config file. Returns true if the config file does not
// exist yet.
func (i *Config) initConfig() (bool, error) {
	v := i.main

	v.SetConfigType("yml")

	configFile := ""
	envConfigFile := os.Getenv("STORYREEL_CONFIG_FILE")

	switch {
	case flags.configFilePath != "":
		configFile = flags.configFilePath
	case envConfigFile != "":
		configFile = envConfigFile
	default:
		// Look for config in the working directory and in $HOME/.storyreel
		paths := []string{"."}
		if home, err := os.UserHomeDir(); err == nil {
			paths = append(paths, filepath.Join(home, DefaultConfigDirectory))
		}

		for _, p := range paths {
			fn := filepath.Join(p, "config.yml")
			if _, err := os.Stat(fn); err == nil {
				configFile = fn
				break
			}
		}

		// no config file: run with defaults
		if configFile == "" {
			return false, nil
		}
	}

	i.configFilePath = configFile
	v.SetConfigFile(configFile)

	if _, err := os.Stat(configFile); os.IsNotExist(err) {
		return true, nil
	}

	if err := v.ReadInConfig(); err != nil {
		return false, fmt.Errorf("reading config file %s: %w", configFile, err)
	}

	return false, nil
}
