// Package config loads bankcheck settings from an optional CUE file
// unified with an embedded schema that supplies every default.
package config

import (
	_ "embed"
	"fmt"
	"log/slog"
	"os"

	"cuelang.org/go/cue"
	"cuelang.org/go/cue/cuecontext"
	cueerrors "cuelang.org/go/cue/errors"

	"github.com/roach88/bankcheck/internal/bank"
)

//go:embed schema.cue
var schemaCUE string

// Config is the resolved configuration.
type Config struct {
	Messages map[string]string `json:"messages"`
	Traces   Traces            `json:"traces"`
	Resync   bool              `json:"resync"`
	DB       string            `json:"db"`
	LogLevel string            `json:"log_level"`
}

// Traces locates the numbered trace files.
type Traces struct {
	Dir    string `json:"dir"`
	Prefix string `json:"prefix"`
	Suffix string `json:"suffix"`
	Count  int    `json:"count"`
}

// Error is a configuration that failed to compile or validate. Detail
// carries the CUE positions.
type Error struct {
	Path   string
	Detail string
	Err    error
}

func (e *Error) Error() string {
	if e.Path == "" {
		return fmt.Sprintf("config: %v", e.Err)
	}
	return fmt.Sprintf("config %s: %v", e.Path, e.Err)
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Default returns the configuration used when no file is given.
func Default() (*Config, error) {
	return Load("")
}

// Load reads the CUE file at path and resolves it against the schema.
// An empty path yields the defaults.
func Load(path string) (*Config, error) {
	var data []byte
	if path != "" {
		b, err := os.ReadFile(path)
		if err != nil {
			return nil, &Error{Path: path, Err: err}
		}
		data = b
	}
	return Parse(path, data)
}

// Parse resolves CUE source against the schema. name is used in
// positions and errors.
func Parse(name string, data []byte) (*Config, error) {
	ctx := cuecontext.New()

	schema := ctx.CompileString(schemaCUE, cue.Filename("schema.cue"))
	if err := schema.Err(); err != nil {
		return nil, &Error{Err: fmt.Errorf("embedded schema: %w", err)}
	}
	v := schema.LookupPath(cue.ParsePath("#Config"))

	if len(data) > 0 {
		user := ctx.CompileBytes(data, cue.Filename(name))
		if err := user.Err(); err != nil {
			return nil, cueError(name, err)
		}
		v = v.Unify(user)
	}

	if err := v.Validate(cue.Concrete(true)); err != nil {
		return nil, cueError(name, err)
	}

	var cfg Config
	if err := v.Decode(&cfg); err != nil {
		return nil, cueError(name, err)
	}

	if err := cfg.BankMessages().Validate(); err != nil {
		return nil, &Error{Path: name, Err: fmt.Errorf("messages: %w", err)}
	}
	return &cfg, nil
}

func cueError(name string, err error) *Error {
	return &Error{
		Path:   name,
		Detail: cueerrors.Details(err, nil),
		Err:    err,
	}
}

// BankMessages converts the message table to bank codes.
func (c *Config) BankMessages() bank.Messages {
	m := make(bank.Messages, len(c.Messages))
	for code, text := range c.Messages {
		m[bank.ErrorCode(code)] = text
	}
	return m
}

// Level maps LogLevel to a slog level.
func (c *Config) Level() slog.Level {
	switch c.LogLevel {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
