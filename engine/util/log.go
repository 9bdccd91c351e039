package util

import (
	"fmt"
	"io"
	"os"
	"sync"
)

var GLOBAL_LOG_LEVEL = LogLevelInfo
var GLOBAL_LOG_CATEGORIES = LogVoxel | LogCulling | LogExtraction | LogOpenGL | LogSystem

type LogLevel int

const (
	LogLevelError LogLevel = 1 << iota
	LogLevelWarning
	LogLevelInfo
	LogLevelDebug
)

type LogCategory int

const (
	LogVoxel LogCategory = 1 << iota
	LogCulling
	LogExtraction
	LogOpenGL
	LogSystem
)

var (
	logMutex  sync.Mutex
	logOutput io.Writer = os.Stderr
)

// SetLogOutput redirects all log lines. Passing nil restores stderr.
func SetLogOutput(w io.Writer) {
	logMutex.Lock()
	defer logMutex.Unlock()
	if w == nil {
		w = os.Stderr
	}
	logOutput = w
}

func log(cat LogCategory, lvl LogLevel, format string, args ...any) {
	if lvl > GLOBAL_LOG_LEVEL {
		return
	}
	if GLOBAL_LOG_CATEGORIES&cat == 0 {
		return
	}
	logMutex.Lock()
	defer logMutex.Unlock()
	fmt.Fprintf(logOutput, format+"\n", args...)
}

func LogVoxelInfo(format string, args ...any) {
	log(LogVoxel, LogLevelInfo, format, args...)
}

func LogVoxelDebug(format string, args ...any) {
	log(LogVoxel, LogLevelDebug, format, args...)
}

func LogVoxelWarning(format string, args ...any) {
	log(LogVoxel, LogLevelWarning, format, args...)
}

func LogVoxelError(format string, args ...any) {
	log(LogVoxel, LogLevelError, format, args...)
}

func LogCullingInfo(format string, args ...any) {
	log(LogCulling, LogLevelInfo, format, args...)
}

func LogCullingDebug(format string, args ...any) {
	log(LogCulling, LogLevelDebug, format, args...)
}

func LogCullingWarning(format string, args ...any) {
	log(LogCulling, LogLevelWarning, format, args...)
}

func LogCullingError(format string, args ...any) {
	log(LogCulling, LogLevelError, format, args...)
}

func LogExtractionInfo(format string, args ...any) {
	log(LogExtraction, LogLevelInfo, format, args...)
}

func LogExtractionDebug(format string, args ...any) {
	log(LogExtraction, LogLevelDebug, format, args...)
}

func LogExtractionError(format string, args ...any) {
	log(LogExtraction, LogLevelError, format, args...)
}

func LogSystemInfo(format string, args ...any) {
	log(LogSystem, LogLevelInfo, format, args...)
}

func LogSystemError(format string, args ...any) {
	log(LogSystem, LogLevelError, format, args...)
}

func LogGlInfo(format string, args ...any) {
	log(LogOpenGL, LogLevelInfo, format, args...)
}

func LogGlDebug(format string, args ...any) {
	log(LogOpenGL, LogLevelDebug, format, args...)
}

func LogGlError(format string, args ...any) {
	log(LogOpenGL, LogLevelError, format, args...)
}

func LogGlWarning(format string, args ...any) {
	log(LogOpenGL, LogLevelWarning, format, args...)
}
