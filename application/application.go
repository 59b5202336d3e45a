package application

import (
	"os"
	"strings"

	"github.com/cockroachdb/errors"
	"go.uber.org/zap"

	zlog "github.com/lk2023060901/garden-serializer/pkg/log"
	"github.com/lk2023060901/garden-serializer/pkg/serializer"
	zviper "github.com/lk2023060901/garden-serializer/pkg/util/viper"
)

const (
	defaultConfigPath = "./config.yaml"
	envPrefix         = "ZEUS"

	// serializerLoggerName is the module logger bound to the default resolver and registry.
	serializerLoggerName = "serializer"
)

// Application is the runtime container for a process that serializes with the default resolver.
// It owns configuration and manages common dependencies.
type Application struct {
	args           []string
	optionalConfig bool

	cfg           *zviper.Config
	serializerCfg serializer.Config
	loggers       map[string]*zlog.MLogger
}

// Option customizes an Application.
type Option func(*Application)

// WithOptionalConfig tolerates a missing config file; defaults and env vars still apply.
func WithOptionalConfig() Option {
	return func(a *Application) {
		a.optionalConfig = true
	}
}

// WithArgs replaces os.Args[1:] as the source of the --config flag.
func WithArgs(args []string) Option {
	return func(a *Application) {
		a.args = args
	}
}

// New creates a new Application instance.
func New(opts ...Option) *Application {
	a := &Application{
		args:          os.Args[1:],
		serializerCfg: serializer.DefaultConfig(),
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// fileConfig is the layout of the config file.
type fileConfig struct {
	Serializer serializer.Config       `mapstructure:"serializer"`
	Logging    map[string]zlog.Config `mapstructure:"logging"`
}

// Run parses command-line arguments and loads the configuration file
// using the following priority:
//  1. Default: ./config.yaml
//  2. Env: ZEUS_CONFIG_FILE_PATH
//  3. CLI: --config <path> or --config=<path>
//
// It then initializes logging and applies the "serializer" section to the
// process-wide serializer settings.
func (a *Application) Run() error {
	cfg, err := a.loadConfig()
	if err != nil {
		return err
	}
	a.cfg = cfg

	var root fileConfig
	if err := a.cfg.Unmarshal(&root); err != nil {
		return errors.Wrap(err, "unmarshal config")
	}

	if err := a.initLogging(root.Logging); err != nil {
		return err
	}
	if err := a.initSerializer(root.Serializer); err != nil {
		return err
	}
	return nil
}

// Config returns the loaded configuration, if any.
func (a *Application) Config() *zviper.Config {
	return a.cfg
}

// SerializerConfig returns the serializer settings applied by Run.
func (a *Application) SerializerConfig() serializer.Config {
	return a.serializerCfg
}

// Logger returns a named logger created from configuration.
// If the name is unknown, it falls back to the global logger.
func (a *Application) Logger(name string) *zlog.MLogger {
	if lg, ok := a.loggers[name]; ok && lg != nil {
		return lg
	}
	return &zlog.MLogger{Logger: zlog.L()}
}

func (a *Application) configPath() (string, error) {
	configPath := defaultConfigPath
	if envPath := os.Getenv("ZEUS_CONFIG_FILE_PATH"); envPath != "" {
		configPath = envPath
	}

	for i := 0; i < len(a.args); i++ {
		arg := a.args[i]
		if arg == "--config" {
			if i+1 >= len(a.args) {
				return "", errors.New("missing value after --config")
			}
			configPath = a.args[i+1]
			i++
			continue
		}
		if strings.HasPrefix(arg, "--config=") {
			if val := strings.TrimPrefix(arg, "--config="); val != "" {
				configPath = val
			}
		}
	}
	return configPath, nil
}

// loadConfig resolves the config file path and loads it via the viper wrapper.
// Defaults are registered first so env vars can override keys absent from the file.
func (a *Application) loadConfig() (*zviper.Config, error) {
	configPath, err := a.configPath()
	if err != nil {
		return nil, err
	}

	defaults := serializer.DefaultConfig()
	cfg := zviper.New()
	cfg.SetDefault("serializer.default-max-depth", defaults.DefaultMaxDepth)
	cfg.SetDefault("serializer.max-depth-limit", defaults.MaxDepthLimit)
	cfg.AutomaticEnv(envPrefix)

	if _, err := os.Stat(configPath); err != nil && os.IsNotExist(err) && a.optionalConfig {
		return cfg, nil
	}
	if err := cfg.LoadFile(configPath); err != nil {
		return nil, errors.Wrapf(err, "failed to load config file %q", configPath)
	}
	return cfg, nil
}

// initLogging initializes global and module-level loggers.
func (a *Application) initLogging(modules map[string]zlog.Config) error {
	if err := a.initGlobalLoggerFromEnv(); err != nil {
		return err
	}
	return a.initModuleLoggers(modules)
}

// initGlobalLoggerFromEnv configures the process-wide logger based on ZEUS_LOG_* env vars.
//
// Priority:
//   - ZEUS_LOG_ENABLE: "1"/"true" to enable outputs; others treated as disabled.
//   - ZEUS_LOG_LEVEL: log level (default "info").
//   - ZEUS_LOG_STDOUT: whether to log to stdout (default false).
//   - ZEUS_LOG_FILE_DIR: log directory.
//   - ZEUS_LOG_FILE: log file name (empty means no file).
//   - ZEUS_LOG_FORMAT: log format ("text" or "json", default "text").
func (a *Application) initGlobalLoggerFromEnv() error {
	enabled := getenvBool("ZEUS_LOG_ENABLE", false)

	cfg := &zlog.Config{
		Level:               getenvDefault("ZEUS_LOG_LEVEL", "info"),
		Format:              getenvDefault("ZEUS_LOG_FORMAT", "text"),
		Stdout:              getenvBool("ZEUS_LOG_STDOUT", false),
		DisableErrorVerbose: true,
		File: zlog.FileLogConfig{
			RootPath: getenvDefault("ZEUS_LOG_FILE_DIR", ""),
			Filename: getenvDefault("ZEUS_LOG_FILE", ""),
		},
	}

	// When not enabled, direct all outputs to a discarded sink.
	if !enabled {
		cfg.Stdout = false
		cfg.File.Filename = ""
	}

	logger, props, err := zlog.InitLogger(cfg)
	if err != nil {
		return errors.Wrap(err, "init global logger from env")
	}
	zlog.ReplaceGlobals(logger, props)
	return nil
}

// initModuleLoggers creates named loggers from the "logging" section.
// A logger named "serializer" is bound to the default resolver and registry.
//
// Example:
//
//	logging:
//	  serializer:
//	    level: debug
//	    stdout: true
//	    file:
//	      rootpath: ./logs
//	      filename: serializer.log
func (a *Application) initModuleLoggers(modules map[string]zlog.Config) error {
	if len(modules) == 0 {
		return nil
	}

	a.loggers = make(map[string]*zlog.MLogger, len(modules))
	for name, lc := range modules {
		cfgCopy := lc
		logger, _, err := zlog.InitLogger(&cfgCopy)
		if err != nil {
			return errors.Wrapf(err, "init module logger %q", name)
		}
		a.loggers[name] = &zlog.MLogger{Logger: logger.With(zlog.FieldModule(name))}
	}

	if lg, ok := a.loggers[serializerLoggerName]; ok {
		serializer.Default().SetLogger(lg)
		serializer.DefaultRegistry().SetLogger(lg)
	}
	return nil
}

// initSerializer applies the serializer section; keys missing from the file keep their defaults.
func (a *Application) initSerializer(cfg serializer.Config) error {
	if err := serializer.Apply(cfg); err != nil {
		return errors.Wrap(err, "apply serializer config")
	}
	a.serializerCfg = cfg

	zlog.Info("serializer configured",
		zap.Int("defaultMaxDepth", cfg.DefaultMaxDepth),
		zap.Int("maxDepthLimit", cfg.MaxDepthLimit))
	return nil
}

func getenvDefault(key, def string) string {
	val := strings.TrimSpace(os.Getenv(key))
	if val == "" {
		return def
	}
	return val
}

func getenvBool(key string, def bool) bool {
	val := strings.TrimSpace(os.Getenv(key))
	if val == "" {
		return def
	}
	switch strings.ToLower(val) {
	case "1", "true", "yes", "on":
		return true
	case "0", "false", "no", "off":
		return false
	default:
		return def
	}
}
