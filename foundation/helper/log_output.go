package helper

import (
	"fmt"
	"os"
)

// OutputLogType .
type OutputLogType string

const (
	OutputLogTypeWarn  OutputLogType = "warn"
	OutputLogTypeInfo                = "info"
	OutputLogTypeError               = "error"
	OutputLogTypeDebug               = "debug"
)

// OutputLogCallback ..
type OutputLogCallback = func(logType OutputLogType, message string)

// StdOutputLogCallback writes log messages to the standard streams
func StdOutputLogCallback(logType OutputLogType, message string) {
	switch logType {
	case OutputLogTypeError:
		fmt.Fprintf(os.Stderr, "ERROR - %v\n", message)
	case OutputLogTypeWarn:
		fmt.Fprintf(os.Stdout, "WARN - %v\n", message)
	case OutputLogTypeDebug:
		fmt.Fprintf(os.Stdout, "DEBUG - %v\n", message)
	default:
		fmt.Fprintf(os.Stdout, "INFO - %v\n", message)
	}
}
