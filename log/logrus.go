package log

import (
	"fmt"
	"io"
	"os"
	"runtime"
	"strings"
	"sync"

	"github.com/sirupsen/logrus"
)

// LoggerImpl is the logrus backed Logger.
// Loggers derived with WithField share the underlying logrus.Logger,
// so level and output changes apply to all of them.
type LoggerImpl struct {
	mu     *sync.Mutex
	l      *logrus.Logger
	fields logrus.Fields
}

var (
	defaultLogger     *LoggerImpl
	defaultLoggerInit sync.Once
)

// Default returns the process-wide logger.  It writes to stderr at warn level
// until reconfigured.
func Default() Logger {
	defaultLoggerInit.Do(func() {
		defaultLogger = New()
		defaultLogger.SetLevel(WarnLevel)
	})
	return defaultLogger
}

// New returns a fresh logger at info level writing to stderr.
func New() *LoggerImpl {
	l := &LoggerImpl{
		mu: &sync.Mutex{},
		l:  logrus.New(),
	}
	l.SetLevel(InfoLevel)
	return l
}

func (l *LoggerImpl) decorate(skip int) *logrus.Entry {
	entry := logrus.NewEntry(l.l)
	if len(l.fields) > 0 {
		entry = entry.WithFields(l.fields)
	}
	// Caller lookup is not free; only pay for it when the entry will be written.
	if !l.l.IsLevelEnabled(logrus.DebugLevel) {
		return entry
	}
	if pc, file, line, ok := runtime.Caller(skip); ok {
		path := strings.Split(file, string(os.PathSeparator))
		if len(path) > 3 {
			path = path[len(path)-3:]
		}
		position := fmt.Sprintf("%s:%d", strings.Join(path, string(os.PathSeparator)), line)
		return entry.WithField("position", position).WithField("func", runtime.FuncForPC(pc).Name())
	}
	return entry
}

func (l *LoggerImpl) Trace(format string, v ...interface{}) {
	l.decorate(2).Tracef(format, v...)
}

func (l *LoggerImpl) Debug(format string, v ...interface{}) {
	l.decorate(2).Debugf(format, v...)
}

func (l *LoggerImpl) Info(format string, v ...interface{}) {
	l.decorate(2).Infof(format, v...)
}

func (l *LoggerImpl) Warn(format string, v ...interface{}) {
	l.decorate(2).Warnf(format, v...)
}

func (l *LoggerImpl) Error(format string, v ...interface{}) {
	l.decorate(2).Errorf(format, v...)
}

func (l *LoggerImpl) WithField(key string, value interface{}) Logger {
	fields := make(logrus.Fields, len(l.fields)+1)
	for k, v := range l.fields {
		fields[k] = v
	}
	fields[key] = value
	return &LoggerImpl{mu: l.mu, l: l.l, fields: fields}
}

func (l *LoggerImpl) SetLevel(level Level) {
	lvl, err := logrus.ParseLevel(string(level))
	if err != nil {
		lvl = logrus.InfoLevel
	}
	l.mu.Lock()
	defer l.mu.Unlock()
	l.l.SetLevel(lvl)
}

func (l *LoggerImpl) GetLevel() Level {
	return ParseLevel(l.l.GetLevel().String())
}

func (l *LoggerImpl) SetOutput(out io.Writer) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.l.SetOutput(out)
}

// SetFormatter swaps the logrus formatter, e.g. for &logrus.JSONFormatter{}.
func (l *LoggerImpl) SetFormatter(formatter logrus.Formatter) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.l.SetFormatter(formatter)
}
