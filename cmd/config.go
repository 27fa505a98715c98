package cmd

import (
	"errors"
	"log/slog"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/spf13/viper"
	"gopkg.in/natefinch/lumberjack.v2"

	"algomate.dev/pkg/algomate/internal/domain"
	m "algomate.dev/pkg/algomate/internal/model"
)

const (
	configVersionKey     = "version"
	currentConfigVersion = 1

	configBaseName   = "algomate"
	configFileName   = configBaseName + ".yaml"
	configFolderPath = "."

	dryRunFlagName      = "dry-run"
	diffFlagName        = "diff"
	reportFlagName      = "report"
	verboseFlagName     = "verbose"
	runParallelFlagName = "parallel"

	runParallelConfigKey = "run.parallel"
	defaultRunParallel   = 1

	reportConfigKey       = "plan.report"
	defaultReportFileName = ""

	sourceDirKey         = "source.dir"
	sourceExtensionKey   = "source.extension"
	sourcePackageRootKey = "source.package_root"
	solutionOnlyKey      = "markers.solution_only"
	implementationKey    = "markers.implementation_required"
	stubCallKey          = "stub.call"
	stubMessageKey       = "stub.message"
	stubTodoKey          = "stub.todo"

	envPrefix = "ALGOMATE"

	logFilenameKey   = "log.filename"
	logLevelKey      = "log.level"
	logVerboseKey    = "log.verbose"
	logMaxSizeKey    = "log.max_size"
	logMaxBackupsKey = "log.max_backups"
	logMaxAgeKey     = "log.max_age"
	logCompressKey   = "log.compress"

	defaultLogFilename   = ".algomate.log"
	defaultLogLevel      = int(slog.LevelInfo)
	defaultLogVerbose    = false
	defaultLogMaxSize    = 10
	defaultLogMaxBackups = 3
	defaultLogMaxAge     = 28
	defaultLogCompress   = true
)

var globalLogger *slog.Logger

func init() {
	viper.SetConfigName(configBaseName)
	viper.SetConfigType("yaml")
	viper.AddConfigPath(configFolderPath)
	viper.SetConfigFile(filepath.Join(configFolderPath, configFileName))
	viper.AutomaticEnv()
	viper.SetEnvPrefix(envPrefix)
	viper.SetEnvKeyReplacer(strings.NewReplacer("-", "_", ".", "_"))

	defaults := domain.DefaultSettings()

	viper.SetDefault(configVersionKey, currentConfigVersion)
	viper.SetDefault(runParallelConfigKey, defaultRunParallel)
	viper.SetDefault(reportConfigKey, defaultReportFileName)

	viper.SetDefault(sourceDirKey, defaults.Layout.SourceDir)
	viper.SetDefault(sourceExtensionKey, defaults.Layout.Extension)
	viper.SetDefault(sourcePackageRootKey, defaults.Layout.PackageRoot)
	viper.SetDefault(solutionOnlyKey, defaults.Markers.SolutionOnly)
	viper.SetDefault(implementationKey, defaults.Markers.ImplementationRequired)
	viper.SetDefault(stubCallKey, defaults.Stub.Call)
	viper.SetDefault(stubMessageKey, defaults.Stub.Message)
	viper.SetDefault(stubTodoKey, defaults.Stub.Todo)

	// Logging defaults (used by config/env and as fallbacks for flags).
	viper.SetDefault(logFilenameKey, defaultLogFilename)
	viper.SetDefault(logLevelKey, defaultLogLevel)
	viper.SetDefault(logVerboseKey, defaultLogVerbose)
	viper.SetDefault(logMaxSizeKey, defaultLogMaxSize)
	viper.SetDefault(logMaxBackupsKey, defaultLogMaxBackups)
	viper.SetDefault(logMaxAgeKey, defaultLogMaxAge)
	viper.SetDefault(logCompressKey, defaultLogCompress)

	if err := viper.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if errors.As(err, &notFound) {
			return
		}

		return
	}
}

// settingsFromConfig assembles the conversion settings from config and env.
func settingsFromConfig() domain.Settings {
	return domain.Settings{
		Layout: m.Layout{
			SourceDir:   viper.GetString(sourceDirKey),
			Extension:   viper.GetString(sourceExtensionKey),
			PackageRoot: viper.GetString(sourcePackageRootKey),
		},
		Markers: m.MarkerNames{
			SolutionOnly:           viper.GetString(solutionOnlyKey),
			ImplementationRequired: viper.GetString(implementationKey),
		},
		Stub: m.StubTemplate{
			Call:    viper.GetString(stubCallKey),
			Message: viper.GetString(stubMessageKey),
			Todo:    viper.GetString(stubTodoKey),
		},
	}
}

func parseSlogLevel(value string, defaultLevel slog.Level) slog.Level {
	level := strings.ToLower(strings.TrimSpace(value))
	if level == "" {
		return defaultLevel
	}

	switch level {
	case "debug":
		return slog.LevelDebug
	case "info":
		return slog.LevelInfo
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	}

	// Allow numeric slog levels as well (e.g. -4 for debug).
	if n, err := strconv.Atoi(level); err == nil {
		return slog.Level(n)
	}

	return defaultLevel
}

// configureLogger configures the global slog logger.
//
// By default it logs at Info; if verbose is true it logs at Debug.
func configureLogger(logPath string, verbose bool) {
	if strings.TrimSpace(logPath) == "" {
		logPath = viper.GetString(logFilenameKey)
	}

	if strings.TrimSpace(logPath) == "" {
		logPath = defaultLogFilename
	}

	var logLevel slog.Level
	if verbose {
		logLevel = slog.LevelDebug
	} else {
		logLevel = parseSlogLevel(viper.GetString(logLevelKey), slog.LevelInfo)
	}

	logWriter := &lumberjack.Logger{
		Filename:   logPath,
		MaxSize:    viper.GetInt(logMaxSizeKey),
		MaxBackups: viper.GetInt(logMaxBackupsKey),
		MaxAge:     viper.GetInt(logMaxAgeKey),
		Compress:   viper.GetBool(logCompressKey),
	}

	handler := slog.NewTextHandler(logWriter, &slog.HandlerOptions{
		AddSource: true,
		Level:     logLevel,
	})

	globalLogger = slog.New(handler)
	slog.SetDefault(globalLogger)
}
