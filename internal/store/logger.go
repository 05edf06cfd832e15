package store

import (
	"fmt"
	"strings"

	"github.com/rs/zerolog/log"
)

// pebbleLogger sends pebble's own messages to the global zerolog logger
type pebbleLogger struct{}

func (pebbleLogger) Infof(format string, args ...interface{}) {
	log.Debug().Msg("[store] " + strings.TrimSpace(fmt.Sprintf(format, args...)))
}

func (pebbleLogger) Errorf(format string, args ...interface{}) {
	log.Error().Msg("[store] " + strings.TrimSpace(fmt.Sprintf(format, args...)))
}

func (pebbleLogger) Fatalf(format string, args ...interface{}) {
	log.Fatal().Msg("[store] " + strings.TrimSpace(fmt.Sprintf(format, args...)))
}
