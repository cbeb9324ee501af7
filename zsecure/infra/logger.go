package infra

import (
	"io"

	"github.com/sirupsen/logrus"

	"github.com/LEVIII007/z-secure-SDK/zsecure/domain"
)

const ModuleName = "zsecure"

// LogrusLogger adapta *logrus.Entry para domain.Logger.
// Pares chave/valor viram logrus.Fields; chave sem valor recebe "(MISSING)".
type LogrusLogger struct {
	entry *logrus.Entry
}

var _ domain.Logger = (*LogrusLogger)(nil)

// NewLogrusLogger usa o logger dado (nil = logrus.StandardLogger()) com o
// campo module=zsecure.
func NewLogrusLogger(l *logrus.Logger) *LogrusLogger {
	if l == nil {
		l = logrus.StandardLogger()
	}
	return &LogrusLogger{entry: l.WithField("module", ModuleName)}
}

// NewJSONLogger cria um logger próprio em JSON no nível debug, útil quando o
// cliente habilita Logging sem fornecer um logger.
func NewJSONLogger(w io.Writer) *LogrusLogger {
	l := logrus.New()
	l.SetOutput(w)
	l.SetFormatter(&logrus.JSONFormatter{})
	l.SetLevel(logrus.DebugLevel)
	return NewLogrusLogger(l)
}

func (l *LogrusLogger) Debug(msg string, kv ...any) { l.with(kv).Debug(msg) }
func (l *LogrusLogger) Info(msg string, kv ...any)  { l.with(kv).Info(msg) }
func (l *LogrusLogger) Error(msg string, kv ...any) { l.with(kv).Error(msg) }

func (l *LogrusLogger) with(kv []any) *logrus.Entry {
	if len(kv) == 0 {
		return l.entry
	}
	fields := make(logrus.Fields, (len(kv)+1)/2)
	for i := 0; i < len(kv); i += 2 {
		key, ok := kv[i].(string)
		if !ok {
			key = "!BADKEY"
		}
		if i+1 < len(kv) {
			fields[key] = kv[i+1]
		} else {
			fields[key] = "(MISSING)"
		}
	}
	return l.entry.WithFields(fields)
}
