package utils

import (
	"log"
	"sync/atomic"
)

type LogLevel int32

const (
	LevelInfo LogLevel = iota
	LevelWarn
	LevelErro
	LevelSilent
)

var (
	_colorPrint atomic.Bool
	_logLevel   atomic.Int32
)

func SetColorPrint(enable bool) {
	_colorPrint.Store(enable)
}

// SetLogLevel drops every message below lv. Fatal is never dropped.
func SetLogLevel(lv LogLevel) {
	_logLevel.Store(int32(lv))
}

func GetLogLevel() LogLevel {
	return LogLevel(_logLevel.Load())
}

func logf(lv LogLevel, color, tag, format string, v ...interface{}) {
	if lv < GetLogLevel() {
		return
	}
	if _colorPrint.Load() {
		log.Printf(color+tag+" "+format+"\033[0m\n", v...)
		return
	}
	log.Printf(tag+" "+format+"\n", v...)
}

func LogInfo(format string, v ...interface{}) {
	logf(LevelInfo, "\033[32m", "INFO", format, v...)
}

func LogWarn(format string, v ...interface{}) {
	logf(LevelWarn, "\033[33m", "WARN", format, v...)
}

func LogErro(format string, v ...interface{}) {
	logf(LevelErro, "\033[31m", "ERRO", format, v...)
}

func LogFatal(format string, v ...interface{}) {
	if _colorPrint.Load() {
		log.Fatalf("\033[31mFATAL "+format+"\033[0m\n", v...)
		return
	}
	log.Fatalf("FATAL "+format+"\n", v...)
}
