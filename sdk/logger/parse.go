package logger

import (
	"io"
	"os"
	"strings"
)

func parseOutput(o string) io.Writer {
	switch strings.ToUpper(o) {
	case "STDERR":
		return os.Stderr
	case "DISCARD":
		return io.Discard
	}
	return os.Stdout
}
