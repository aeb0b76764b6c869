package logger

import (
	"fmt"
)

// Info printf-style info log on the global logger
func Info(format string, args ...interface{}) {
	zlog.Info().Msg(fmt.Sprintf(format, args...))
}

// Warn printf-style warning log
func Warn(format string, args ...interface{}) {
	zlog.Warn().Msg(fmt.Sprintf(format, args...))
}

// Error printf-style error log
func Error(format string, args ...interface{}) {
	zlog.Error().Msg(fmt.Sprintf(format, args...))
}

// Component printf-style logger tagged with a component name.
// Satisfies plugin.Logger.
type Component struct {
	name string
}

// NewComponent creates a logger for the named component
func NewComponent(name string) *Component {
	return &Component{name: name}
}

// Debug 디버그 로그
func (l *Component) Debug(msg string, args ...interface{}) {
	zlog.Debug().Str("component", l.name).Msg(fmt.Sprintf(msg, args...))
}

// Info 정보 로그
func (l *Component) Info(msg string, args ...interface{}) {
	zlog.Info().Str("component", l.name).Msg(fmt.Sprintf(msg, args...))
}

// Warn 경고 로그
func (l *Component) Warn(msg string, args ...interface{}) {
	zlog.Warn().Str("component", l.name).Msg(fmt.Sprintf(msg, args...))
}

// Error 에러 로그
func (l *Component) Error(msg string, args ...interface{}) {
	zlog.Error().Str("component", l.name).Msg(fmt.Sprintf(msg, args...))
}
