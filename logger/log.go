// Package logger provides the leveled logging used across the engine. The
// level gates what reaches stdout so long batch runs can stay quiet.
package logger

import (
	"fmt"
	"os"
)

const (
	DebugLevel = "debug"
	InfoLevel  = "info"
	ErrorLevel = "error"
)

var level string = InfoLevel

func GetLevel() string {
	return level
}

func SetLevel(lvl string) {
	if lvl == "" {
		level = DebugLevel
	} else {
		level = lvl
	}
}

func Debug(args ...interface{}) {
	if level == DebugLevel {
		fmt.Println(args...)
	}
}

func Info(args ...interface{}) {
	if level != ErrorLevel {
		fmt.Println(args...)
	}
}

func Error(args ...interface{}) {
	fmt.Fprintln(os.Stderr, args...)
}

func Debugf(template string, args ...interface{}) {
	if level == DebugLevel {
		fmt.Printf(template, args...)
	}
}

func Infof(template string, args ...interface{}) {
	if level != ErrorLevel {
		fmt.Printf(template, args...)
	}
}

func Errorf(template string, args ...interface{}) {
	fmt.Fprintf(os.Stderr, template, args...)
}
