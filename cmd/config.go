package main

import (
	"fmt"
	"time"
)

type Config struct {
	Host            string        `env:"HOST,default=localhost"`
	Port            int           `env:"PORT,default=12345"`
	UsersFilepath   string        `env:"USERS_FILEPATH,default=users.txt"`
	MaxSessions     int           `env:"MAX_SESSIONS,default=1000"`
	LogLevel        string        `env:"LOG_LEVEL,default=INFO"`
	MetricInterval  time.Duration `env:"METRIC_INTERVAL,default=30s"`
	RestartInterval time.Duration `env:"RESTART_INTERVAL,default=200ms"`

	// Moderation is disabled unless a word list is configured.
	CensoredWordsFilepath   string `env:"CENSORED_WORDS_FILEPATH"`
	CensoredCharReplacement string `env:"CENSORED_CHARACTER_REPLACEMENT,default=*"`
}

func CharacterRune(str string) (rune, error) {
	r := []rune(str)
	if len(r) != 1 {
		return 0, fmt.Errorf(
			"CENSORED_CHARACTER_REPLACEMENT must be a single character, got %q",
			str,
		)
	}
	return r[0], nil
}
