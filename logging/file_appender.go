package logging

import (
	"path/filepath"

	"gopkg.in/natefinch/lumberjack.v2"
)

// FileAppender writes console formatted lines to a size rotated log file.
type FileAppender struct {
	*ConsoleAppender
	file *lumberjack.Logger
}

// NewFileAppender creates an appender that writes to path, rotating it once it reaches maxSizeMB
// and keeping at most maxBackups old files.
func NewFileAppender(path string, maxSizeMB, maxBackups int) *FileAppender {
	file := &lumberjack.Logger{
		Filename:   filepath.Clean(path),
		MaxSize:    maxSizeMB,
		MaxBackups: maxBackups,
	}
	return &FileAppender{
		ConsoleAppender: NewWriterAppender(file),
		file:            file,
	}
}

// Close closes the current log file. Later writes reopen it.
func (appender *FileAppender) Close() error {
	return appender.file.Close()
}
