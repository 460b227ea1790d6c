package providers

import (
	"io"
	"net/http"
	"os"
	"path/filepath"
	"surveyd/internal/structures"

	"github.com/rs/zerolog"
)

type TypeEnum int

const (
	TypeApp TypeEnum = iota
	TypeGet
	TypePost
)

// Logger is the application-wide logging facade. The TypeEnum selects the
// log stream: application lifecycle events go to app.log, request-path
// events to access.log.
type Logger interface {
	Errorf(t TypeEnum, format string, args ...interface{})
	Warnf(t TypeEnum, format string, args ...interface{})
	Debugf(t TypeEnum, format string, args ...interface{})
	Infof(t TypeEnum, format string, args ...interface{})
	Fatalf(t TypeEnum, format string, args ...interface{})
	Close()
}

func GetLogTypeByRequestType(method string) TypeEnum {
	if method == http.MethodPost {
		return TypePost
	}
	return TypeGet
}

type LogProvider struct {
	app    zerolog.Logger
	access zerolog.Logger
	files  []*os.File
}

func NewLogProvider(conf *structures.Config) (Logger, error) {
	level, err := zerolog.ParseLevel(conf.Logger.Level)
	if err != nil {
		return nil, err
	}

	mode := os.FileMode(conf.Logger.Mode)
	appFile, err := os.OpenFile(filepath.Join(conf.Logger.Dir, "app.log"), os.O_CREATE|os.O_APPEND|os.O_WRONLY, mode)
	if err != nil {
		return nil, err
	}
	accessFile, err := os.OpenFile(filepath.Join(conf.Logger.Dir, "access.log"), os.O_CREATE|os.O_APPEND|os.O_WRONLY, mode)
	if err != nil {
		_ = appFile.Close()
		return nil, err
	}

	var appWriter io.Writer = appFile
	var accessWriter io.Writer = accessFile
	if conf.Debug {
		console := zerolog.ConsoleWriter{Out: os.Stderr}
		appWriter = zerolog.MultiLevelWriter(appFile, console)
		accessWriter = zerolog.MultiLevelWriter(accessFile, console)
	}

	return &LogProvider{
		app:    zerolog.New(appWriter).Level(level).With().Timestamp().Logger(),
		access: zerolog.New(accessWriter).Level(level).With().Timestamp().Logger(),
		files:  []*os.File{appFile, accessFile},
	}, nil
}

func (l *LogProvider) byType(t TypeEnum) *zerolog.Logger {
	if t == TypeApp {
		return &l.app
	}
	return &l.access
}

func (l *LogProvider) Errorf(t TypeEnum, format string, args ...interface{}) {
	l.byType(t).Error().Msgf(format, args...)
}

func (l *LogProvider) Warnf(t TypeEnum, format string, args ...interface{}) {
	l.byType(t).Warn().Msgf(format, args...)
}

func (l *LogProvider) Debugf(t TypeEnum, format string, args ...interface{}) {
	l.byType(t).Debug().Msgf(format, args...)
}

func (l *LogProvider) Infof(t TypeEnum, format string, args ...interface{}) {
	l.byType(t).Info().Msgf(format, args...)
}

// Fatalf logs at fatal level without terminating the process; shutdown
// decisions belong to the caller.
func (l *LogProvider) Fatalf(t TypeEnum, format string, args ...interface{}) {
	l.byType(t).WithLevel(zerolog.FatalLevel).Msgf(format, args...)
}

func (l *LogProvider) Close() {
	for _, f := range l.files {
		_ = f.Close()
	}
}
