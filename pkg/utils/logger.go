package utils

import (
	"os"
	"strings"
	"sync"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// logger.go - настройка структурированного логирования
//
// Назначение:
// Инициализация zap logger и доменные конструкторы полей
// (chat_id, state, update_id, request_id).
//
// Форматы:
// - json: для production (по умолчанию)
// - text: консольный вывод для локальной отладки
//
// Компоненты получают *Logger через конструкторы.
// Глобальный логгер нужен только для main и middleware.

// LogConfig - настройки логгера
type LogConfig struct {
	Level       string // debug, info, warn, error, fatal
	Format      string // json, text
	Output      string // путь к файлу, пусто = stderr
	Development bool   // stacktrace на warn, caller, цветной уровень
}

// Logger - обёртка над zap.Logger с доменными хелперами
type Logger struct {
	*zap.Logger
	sugar *zap.SugaredLogger
}

var (
	globalLogger *Logger
	globalMu     sync.RWMutex
)

// InitLogger создаёт логгер по конфигурации.
// Никогда не возвращает nil: при ошибке открытия файла пишет в stderr.
func InitLogger(cfg LogConfig) *Logger {
	encCfg := zap.NewProductionEncoderConfig()
	encCfg.TimeKey = "ts"
	encCfg.MessageKey = "message"
	encCfg.EncodeTime = zapcore.ISO8601TimeEncoder

	var encoder zapcore.Encoder
	if strings.ToLower(cfg.Format) == "text" || cfg.Development {
		encCfg.EncodeLevel = zapcore.CapitalColorLevelEncoder
		encoder = zapcore.NewConsoleEncoder(encCfg)
	} else {
		encoder = zapcore.NewJSONEncoder(encCfg)
	}

	sink := zapcore.Lock(os.Stderr)
	if cfg.Output != "" {
		f, err := os.OpenFile(cfg.Output, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err == nil {
			sink = zapcore.AddSync(f)
		}
	}

	core := zapcore.NewCore(encoder, sink, zap.NewAtomicLevelAt(parseLevel(cfg.Level)))

	opts := []zap.Option{zap.AddCaller()}
	if cfg.Development {
		opts = append(opts, zap.Development(), zap.AddStacktrace(zapcore.WarnLevel))
	} else {
		opts = append(opts, zap.AddStacktrace(zapcore.ErrorLevel))
	}

	z := zap.New(core, opts...)
	return &Logger{Logger: z, sugar: z.Sugar()}
}

// NewNopLogger возвращает логгер, который ничего не пишет (для тестов)
func NewNopLogger() *Logger {
	z := zap.NewNop()
	return &Logger{Logger: z, sugar: z.Sugar()}
}

// NewLogger оборачивает готовый zap.Logger
func NewLogger(z *zap.Logger) *Logger {
	if z == nil {
		z = zap.NewNop()
	}
	return &Logger{Logger: z, sugar: z.Sugar()}
}

// parseLevel переводит строку в уровень zap, по умолчанию info
func parseLevel(level string) zapcore.Level {
	switch strings.ToLower(strings.TrimSpace(level)) {
	case "debug":
		return zapcore.DebugLevel
	case "info":
		return zapcore.InfoLevel
	case "warn", "warning":
		return zapcore.WarnLevel
	case "error":
		return zapcore.ErrorLevel
	case "fatal":
		return zapcore.FatalLevel
	default:
		return zapcore.InfoLevel
	}
}

// ============================================================
// Глобальный логгер
// ============================================================

// InitGlobalLogger создаёт логгер и делает его глобальным
func InitGlobalLogger(cfg LogConfig) *Logger {
	l := InitLogger(cfg)
	SetGlobalLogger(l)
	return l
}

// SetGlobalLogger устанавливает глобальный логгер
func SetGlobalLogger(l *Logger) {
	globalMu.Lock()
	defer globalMu.Unlock()
	globalLogger = l
}

// GetGlobalLogger возвращает глобальный логгер, создавая логгер по умолчанию при первом вызове
func GetGlobalLogger() *Logger {
	globalMu.RLock()
	l := globalLogger
	globalMu.RUnlock()
	if l != nil {
		return l
	}

	globalMu.Lock()
	defer globalMu.Unlock()
	if globalLogger == nil {
		globalLogger = InitLogger(LogConfig{})
	}
	return globalLogger
}

// L - короткий алиас GetGlobalLogger
func L() *Logger {
	return GetGlobalLogger()
}

// ============================================================
// Методы Logger
// ============================================================

// With возвращает дочерний логгер с полями
func (l *Logger) With(fields ...zap.Field) *Logger {
	z := l.Logger.With(fields...)
	return &Logger{Logger: z, sugar: z.Sugar()}
}

// WithComponent - дочерний логгер с полем component
func (l *Logger) WithComponent(name string) *Logger {
	return l.With(Component(name))
}

// WithChatID - дочерний логгер с полем chat_id
func (l *Logger) WithChatID(chatID int64) *Logger {
	return l.With(ChatID(chatID))
}

// Sugar возвращает sugared logger для printf-стиля
func (l *Logger) Sugar() *zap.SugaredLogger {
	return l.sugar
}

// ============================================================
// Глобальные функции логирования
// ============================================================

func Debug(msg string, fields ...zap.Field) { L().Debug(msg, fields...) }
func Info(msg string, fields ...zap.Field)  { L().Info(msg, fields...) }
func Warn(msg string, fields ...zap.Field)  { L().Warn(msg, fields...) }
func Error(msg string, fields ...zap.Field) { L().Error(msg, fields...) }

func Debugf(format string, args ...interface{}) { L().sugar.Debugf(format, args...) }
func Infof(format string, args ...interface{})  { L().sugar.Infof(format, args...) }
func Warnf(format string, args ...interface{})  { L().sugar.Warnf(format, args...) }
func Errorf(format string, args ...interface{}) { L().sugar.Errorf(format, args...) }

// ============================================================
// Конструкторы полей
// ============================================================

// ChatID - идентификатор чата Telegram
func ChatID(id int64) zap.Field { return zap.Int64("chat_id", id) }

// UpdateID - идентификатор update от Telegram
func UpdateID(id int64) zap.Field { return zap.Int64("update_id", id) }

// State - состояние диалога
func State(state string) zap.Field { return zap.String("state", state) }

// RequestID - идентификатор HTTP запроса
func RequestID(id string) zap.Field { return zap.String("request_id", id) }

// Component - имя компонента
func Component(name string) zap.Field { return zap.String("component", name) }

// Latency - длительность в миллисекундах
func Latency(ms float64) zap.Field { return zap.Float64("latency_ms", ms) }

// Переэкспорт стандартных конструкторов, чтобы не импортировать zap в каждом пакете
var (
	String   = zap.String
	Int      = zap.Int
	Int64    = zap.Int64
	Float64  = zap.Float64
	Bool     = zap.Bool
	Duration = zap.Duration
	Err      = zap.Error
	Any      = zap.Any
)
