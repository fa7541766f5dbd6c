package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/spf13/viper"
)

const (
	Host                 = "host"
	hostDefault          = "0.0.0.0"
	Port                 = "port"
	portDefault          = 9998
	Database             = "database"
	CatalogFile          = "catalog_file"
	FFProbePath          = "ffprobe_path"
	ProbeParallel        = "probe_parallel"
	probeParallelDefault = 4

	MaxSessions        = "max_sessions"
	maxSessionsDefault = 64

	// DefaultZoom is the initial timeline scale in pixels per second.
	DefaultZoom        = "default_zoom"
	defaultZoomDefault = 50.0

	CORSAllowedOrigins = "cors_allowed_origins"

	LogFile             = "logFile"
	LogOut              = "logOut"
	defaultLogOut       = true
	LogLevel            = "logLevel"
	defaultLogLevel     = "Info"
	LogCacheSize        = "logCacheSize"
	defaultLogCacheSize = 100

	defaultDatabaseFilename = "storyreel-go.sqlite"
	DefaultConfigDirectory  = ".storyreel"
)

var (
	ErrInvalidPort          = errors.New("port must be between 1 and 65535")
	ErrInvalidMaxSessions   = errors.New("max_sessions must be positive")
	ErrInvalidProbeParallel = errors.New("probe_parallel must be positive")
	ErrInvalidLogLevel      = errors.New("logLevel must be one of Trace, Debug, Info, Warning or Error")
)

type Config struct {
	// main instance - backed by config file
	main *viper.Viper

	// override instance - populated from flags/environment
	// not backed by config file
	overrides *viper.Viper

	configFilePath string

	sync.RWMutex
}

var instance *Config

func GetInstance() *Config {
	if instance == nil {
		panic("config not initialized")
	}
	return instance
}

func (i *Config) GetConfigFile() string {
	i.RLock()
	defer i.RUnlock()
	return i.configFilePath
}

// Write writes the main config to the config file, if one is set.
func (i *Config) Write() error {
	i.Lock()
	defer i.Unlock()

	if i.configFilePath == "" {
		return nil
	}

	if err := os.MkdirAll(filepath.Dir(i.configFilePath), 0755); err != nil {
		return err
	}

	return i.main.WriteConfigAs(i.configFilePath)
}

// Set sets a value in the main configuration.
func (i *Config) Set(key string, value interface{}) {
	i.Lock()
	defer i.Unlock()
	i.main.Set(key, value)
}

// viper returns the viper instance that should be used to get the provided
// key. Returns the overrides instance if the key exists there, otherwise the
// main instance.
func (i *Config) viper(key string) *viper.Viper {
	v := i.main
	if i.overrides.IsSet(key) {
		v = i.overrides
	}

	return v
}

func (i *Config) getString(key string) string {
	i.RLock()
	defer i.RUnlock()

	return i.viper(key).GetString(key)
}

func (i *Config) getStringSlice(key string) []string {
	i.RLock()
	defer i.RUnlock()

	return i.viper(key).GetStringSlice(key)
}

func (i *Config) getInt(key string) int {
	i.RLock()
	defer i.RUnlock()

	return i.viper(key).GetInt(key)
}

func (i *Config) getFloat64(key string) float64 {
	i.RLock()
	defer i.RUnlock()

	return i.viper(key).GetFloat64(key)
}

func (i *Config) getBool(key string) bool {
	i.RLock()
	defer i.RUnlock()

	return i.viper(key).GetBool(key)
}

func (i *Config) GetHost() string {
	ret := i.getString(Host)
	if ret == "" {
		ret = hostDefault
	}
	return ret
}

func (i *Config) GetPort() int {
	return i.getInt(Port)
}

// GetDatabasePath returns the path of the sqlite scene catalog.
func (i *Config) GetDatabasePath() string {
	return i.getString(Database)
}

// GetCatalogFile returns the path of the YAML file the scene catalog is
// imported from at startup. Empty means the built-in catalog.
func (i *Config) GetCatalogFile() string {
	return i.getString(CatalogFile)
}

func (i *Config) GetFFProbePath() string {
	return i.getString(FFProbePath)
}

func (i *Config) GetProbeParallel() int {
	return i.getInt(ProbeParallel)
}

func (i *Config) GetMaxSessions() int {
	return i.getInt(MaxSessions)
}

func (i *Config) GetDefaultZoom() float64 {
	return i.getFloat64(DefaultZoom)
}

// GetCORSAllowedOrigins returns the origins allowed to call the API from
// another site. Empty allows none.
func (i *Config) GetCORSAllowedOrigins() []string {
	return i.getStringSlice(CORSAllowedOrigins)
}

// GetLogFile returns the filename of the file to output logs to.
// An empty string means that file logging will be disabled.
func (i *Config) GetLogFile() string {
	return i.getString(LogFile)
}

// GetLogOut returns true if logging should be output to the terminal
// in addition to writing to a log file. Logging will be output to the
// terminal if file logging is disabled. Defaults to true.
func (i *Config) GetLogOut() bool {
	return i.getBool(LogOut)
}

// GetLogLevel returns the lowest log level to write to the log.
// Should be one of "Trace", "Debug", "Info", "Warning" or "Error"
func (i *Config) GetLogLevel() string {
	value := i.getString(LogLevel)
	if value != "Trace" && value != "Debug" && value != "Info" && value != "Warning" && value != "Error" {
		value = defaultLogLevel
	}

	return value
}

func (i *Config) GetLogCacheSize() int {
	return i.getInt(LogCacheSize)
}

// Validate returns an error if the configuration cannot be used.
func (i *Config) Validate() error {
	if p := i.GetPort(); p < 1 || p > 65535 {
		return fmt.Errorf("%w: %d", ErrInvalidPort, p)
	}
	if i.GetMaxSessions() < 1 {
		return ErrInvalidMaxSessions
	}
	if i.GetProbeParallel() < 1 {
		return ErrInvalidProbeParallel
	}

	switch i.getString(LogLevel) {
	case "Trace", "Debug", "Info", "Warning", "Error":
	default:
		return ErrInvalidLogLevel
	}

	return nil
}

func (i *Config) setDefaults() {
	i.Lock()
	defer i.Unlock()

	v := i.main
	v.SetDefault(Host, hostDefault)
	v.SetDefault(Port, portDefault)
	v.SetDefault(ProbeParallel, probeParallelDefault)
	v.SetDefault(MaxSessions, maxSessionsDefault)
	v.SetDefault(DefaultZoom, defaultZoomDefault)
	v.SetDefault(LogOut, defaultLogOut)
	v.SetDefault(LogLevel, defaultLogLevel)
	v.SetDefault(LogCacheSize, defaultLogCacheSize)

	// database defaults to the directory of the config file
	dir := DefaultConfigDirectory
	if i.configFilePath != "" {
		dir = filepath.Dir(i.configFilePath)
	}
	v.SetDefault(Database, filepath.Join(dir, defaultDatabaseFilename))
}
