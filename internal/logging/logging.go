// Package logging builds the logrus logger shared by the webui packages.
package logging

import (
	"io"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"

	"github.com/heathj/webui/internal/config"
	"github.com/heathj/webui/netlog"
	"github.com/heathj/webui/netlog/filter"
	"github.com/heathj/webui/parser"
	"github.com/heathj/webui/spec"
	"github.com/heathj/webui/treewalker"
)

// New returns a logger writing to out at the configured level and format.
func New(cfg *config.Config, out io.Writer) (*logrus.Logger, error) {
	level, err := logrus.ParseLevel(cfg.LogLevel)
	if err != nil {
		return nil, errors.Wrap(err, "log level")
	}
	l := logrus.New()
	l.SetOutput(out)
	l.SetLevel(level)
	if cfg.LogJSON {
		l.SetFormatter(&logrus.JSONFormatter{})
	} else {
		l.SetFormatter(&logrus.TextFormatter{
			DisableTimestamp: true,
		})
	}
	return l, nil
}

// Install makes l the logger of every package.
func Install(l logrus.FieldLogger) {
	treewalker.SetLogger(l)
	spec.SetLogger(l)
	parser.SetLogger(l)
	netlog.SetLogger(l)
	filter.SetLogger(l)
}
