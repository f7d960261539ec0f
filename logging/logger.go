package logging

import (
	"fmt"
	"io"
	"strings"

	"github.com/crytic/hypcheck/logging/colors"
	"github.com/rs/zerolog"
)

// GlobalLogger describes a Logger that is disabled by default and is instantiated when a check is started. Each
// package should create its own sub-logger from it.
var GlobalLogger = NewLogger(zerolog.Disabled)

// Logger describes a custom logging object that can log events to any number of writers, in structured (JSON) or
// unstructured (console) format, with or without ANSI coloring.
type Logger struct {
	// level describes the log level
	level zerolog.Level

	// context describes the key-value pairs attached to every event emitted by this logger
	context []contextField

	// structuredLogger emits JSON events to structuredWriters
	structuredLogger  zerolog.Logger
	structuredWriters []io.Writer

	// unstructuredLogger emits plain console events to unstructuredWriters
	unstructuredLogger  zerolog.Logger
	unstructuredWriters []io.Writer

	// unstructuredColorLogger emits colorized console events to unstructuredColorWriters
	unstructuredColorLogger  zerolog.Logger
	unstructuredColorWriters []io.Writer
}

// contextField is a single key-value pair added through NewSubLogger
type contextField struct {
	key   string
	value string
}

// LogFormat describes what format to log in
type LogFormat string

const (
	// STRUCTURED describes that logging should be done in structured JSON format
	STRUCTURED LogFormat = "structured"
	// UNSTRUCTURED describes that logging should be done in an unstructured format
	UNSTRUCTURED LogFormat = "unstructured"
)

// StructuredLogInfo describes a key-value mapping that can be used to log structured data
type StructuredLogInfo map[string]any

// NewLogger will create a new Logger object with a specific log level. The logger has no writers until AddWriter is
// called.
func NewLogger(level zerolog.Level) *Logger {
	l := &Logger{
		level:                    level,
		context:                  make([]contextField, 0),
		structuredWriters:        make([]io.Writer, 0),
		unstructuredWriters:      make([]io.Writer, 0),
		unstructuredColorWriters: make([]io.Writer, 0),
	}
	l.rebuild()
	return l
}

// NewSubLogger will create a new Logger with unique context in the form of a key-value pair. The expected use of this
// function is for each package to have its own logger so that log output is "grep-able" by module.
func (l *Logger) NewSubLogger(key string, value string) *Logger {
	sub := &Logger{
		level:                    l.level,
		context:                  append(append(make([]contextField, 0, len(l.context)+1), l.context...), contextField{key, value}),
		structuredWriters:        append(make([]io.Writer, 0, len(l.structuredWriters)), l.structuredWriters...),
		unstructuredWriters:      append(make([]io.Writer, 0, len(l.unstructuredWriters)), l.unstructuredWriters...),
		unstructuredColorWriters: append(make([]io.Writer, 0, len(l.unstructuredColorWriters)), l.unstructuredColorWriters...),
	}
	sub.rebuild()
	return sub
}

// AddWriter will add a writer to the list of channels where log output will be sent. Adding a writer twice with the
// same format and coloring is a no-op.
func (l *Logger) AddWriter(writer io.Writer, format LogFormat, colored bool) {
	writers := l.writersFor(format, colored)
	for _, w := range *writers {
		if w == writer {
			return
		}
	}
	*writers = append(*writers, writer)
	l.rebuild()
}

// RemoveWriter will remove a writer from the list of writers that the logger manages. If the writer does not exist,
// this function is a no-op.
func (l *Logger) RemoveWriter(writer io.Writer, format LogFormat, colored bool) {
	writers := l.writersFor(format, colored)
	for i, w := range *writers {
		if w == writer {
			*writers = append((*writers)[:i], (*writers)[i+1:]...)
			l.rebuild()
			return
		}
	}
}

// Level will get the log level of the Logger
func (l *Logger) Level() zerolog.Level {
	return l.level
}

// SetLevel will update the log level of the Logger
func (l *Logger) SetLevel(level zerolog.Level) {
	l.level = level
	l.rebuild()
}

// writersFor returns the writer list matching the format and coloring.
func (l *Logger) writersFor(format LogFormat, colored bool) *[]io.Writer {
	if format == STRUCTURED {
		return &l.structuredWriters
	}
	if colored {
		return &l.unstructuredColorWriters
	}
	return &l.unstructuredWriters
}

// rebuild recreates the underlying zerolog loggers from the current writers, level and context.
func (l *Logger) rebuild() {
	l.structuredLogger = l.withContext(newZerologLogger(l.structuredWriters, l.level, true))

	plainWriters := make([]io.Writer, len(l.unstructuredWriters))
	for i, w := range l.unstructuredWriters {
		plainWriters[i] = setupDefaultFormatting(zerolog.ConsoleWriter{Out: w, NoColor: true}, l.level)
	}
	l.unstructuredLogger = l.withContext(newZerologLogger(plainWriters, l.level, false))

	colorWriters := make([]io.Writer, len(l.unstructuredColorWriters))
	for i, w := range l.unstructuredColorWriters {
		colorWriters[i] = setupDefaultFormatting(zerolog.ConsoleWriter{Out: w}, l.level)
	}
	l.unstructuredColorLogger = l.withContext(newZerologLogger(colorWriters, l.level, false))
}

// withContext attaches the logger's context fields to a zerolog logger.
func (l *Logger) withContext(logger zerolog.Logger) zerolog.Logger {
	ctx := logger.With()
	for _, field := range l.context {
		ctx = ctx.Str(field.key, field.value)
	}
	return ctx.Logger()
}

// newZerologLogger returns a logger writing to all writers, or a disabled logger if there are none.
func newZerologLogger(writers []io.Writer, level zerolog.Level, timestamp bool) zerolog.Logger {
	if len(writers) == 0 {
		return zerolog.Nop()
	}
	logger := zerolog.New(zerolog.MultiLevelWriter(writers...)).Level(level)
	if timestamp {
		logger = logger.With().Timestamp().Logger()
	}
	return logger
}

// Trace is a wrapper function that will log a trace event
func (l *Logger) Trace(args ...any) {
	l.log(zerolog.TraceLevel, args...)
}

// Debug is a wrapper function that will log a debug event
func (l *Logger) Debug(args ...any) {
	l.log(zerolog.DebugLevel, args...)
}

// Info is a wrapper function that will log an info event
func (l *Logger) Info(args ...any) {
	l.log(zerolog.InfoLevel, args...)
}

// Warn is a wrapper function that will log a warning event
func (l *Logger) Warn(args ...any) {
	l.log(zerolog.WarnLevel, args...)
}

// Error is a wrapper function that will log an error event
func (l *Logger) Error(args ...any) {
	l.log(zerolog.ErrorLevel, args...)
}

// Panic is a wrapper function that will log a panic event. All writers receive the event before the panic unwinds.
func (l *Logger) Panic(args ...any) {
	l.log(zerolog.PanicLevel, args...)
}

// log builds the colored and plain messages for args and sends them to every writer at the given level.
func (l *Logger) log(level zerolog.Level, args ...any) {
	coloredMsg, plainMsg, err, info := buildMsgs(args...)
	withStack := level == zerolog.PanicLevel || l.level <= zerolog.DebugLevel

	structuredLog := l.structuredLogger.WithLevel(level)
	unstructuredLog := l.unstructuredLogger.WithLevel(level)
	colorLog := l.unstructuredColorLogger.WithLevel(level)

	chainError(err, withStack, structuredLog, unstructuredLog, colorLog)
	if info != nil {
		structuredLog.Any("info", info)
		unstructuredLog.Any("info", info)
		colorLog.Any("info", info)
	}

	structuredLog.Msg(plainMsg)
	unstructuredLog.Msg(plainMsg)
	colorLog.Msg(coloredMsg)

	if level == zerolog.PanicLevel {
		panic(plainMsg)
	}
}

// buildMsgs takes a variadic list of arguments of any type and returns a colorized string for console logging, a
// non-colorized one for every other writer and, optionally, an error and a StructuredLogInfo object. A colors.ColorFunc
// argument switches the color applied to the arguments that follow it.
func buildMsgs(args ...any) (string, string, error, StructuredLogInfo) {
	if len(args) == 0 {
		return "", "", nil, nil
	}

	colorCtx := colors.Reset
	coloredOutput := make([]string, 0, len(args))
	plainOutput := make([]string, 0, len(args))
	var info StructuredLogInfo
	var err error

	for _, arg := range args {
		switch t := arg.(type) {
		case colors.ColorFunc:
			colorCtx = t
		case StructuredLogInfo:
			// Only one structured log info is kept per message
			info = t
		case error:
			// Only one error is kept per message
			err = t
		case *LogBuffer:
			colored, plain, _, _ := buildMsgs(t.Args()...)
			coloredOutput = append(coloredOutput, colored)
			plainOutput = append(plainOutput, plain)
		default:
			coloredOutput = append(coloredOutput, colorCtx(t))
			plainOutput = append(plainOutput, fmt.Sprintf("%v", t))
		}
	}

	return strings.Join(coloredOutput, ""), strings.Join(plainOutput, ""), err, info
}

// chainError attaches err to every event, along with a stack trace if requested.
func chainError(err error, withStack bool, events ...*zerolog.Event) {
	for _, event := range events {
		if withStack {
			event.Stack()
		}
		// A nil error is ignored by zerolog
		event.Err(err)
	}
}

// setupDefaultFormatting will update a console writer's formatting to the hypcheck standard
func setupDefaultFormatting(writer zerolog.ConsoleWriter, level zerolog.Level) zerolog.ConsoleWriter {
	// Console output has no timestamps
	writer.FormatTimestamp = func(i any) string {
		return ""
	}

	// Writers flagged NoColor get the same glyphs without escape codes
	paint := func(colorFunc colors.ColorFunc, s string) string {
		if writer.NoColor {
			return s
		}
		return colorFunc(s)
	}

	writer.FormatLevel = func(i any) string {
		levelStr, _ := i.(string)
		parsed, err := zerolog.ParseLevel(levelStr)
		if err != nil {
			return levelStr
		}

		switch parsed {
		case zerolog.TraceLevel:
			return paint(colors.CyanBold, zerolog.LevelTraceValue)
		case zerolog.DebugLevel:
			return paint(colors.BlueBold, zerolog.LevelDebugValue)
		case zerolog.InfoLevel:
			return paint(colors.GreenBold, colors.LEFT_ARROW)
		case zerolog.WarnLevel:
			return paint(colors.YellowBold, zerolog.LevelWarnValue)
		case zerolog.ErrorLevel:
			return paint(colors.RedBold, zerolog.LevelErrorValue)
		case zerolog.FatalLevel:
			return paint(colors.RedBold, zerolog.LevelFatalValue)
		case zerolog.PanicLevel:
			return paint(colors.RedBold, zerolog.LevelPanicValue)
		default:
			return levelStr
		}
	}

	// Messages carry their own color context from buildMsgs
	writer.FormatMessage = func(i any) string {
		if i == nil {
			return ""
		}
		return fmt.Sprintf("%v", i)
	}

	// Above debug level, the module field is noise on the console
	if level > zerolog.DebugLevel {
		writer.FieldsExclude = []string{"module"}
	}

	return writer
}
