// Package logging monta o logger raiz do serviço.
package logging

import (
	"io"
	"os"

	"github.com/hashicorp/go-hclog"
)

type Options struct {
	Level  string
	Format string
	Output io.Writer
}

// New cria o logger "study-gateway". Nível inválido cai em info.
func New(opts Options) hclog.Logger {
	level := hclog.LevelFromString(opts.Level)
	if level == hclog.NoLevel {
		level = hclog.Info
	}
	out := opts.Output
	if out == nil {
		out = os.Stderr
	}
	return hclog.New(&hclog.LoggerOptions{
		Name:       "study-gateway",
		Level:      level,
		JSONFormat: opts.Format == "json",
		Output:     out,
	})
}
