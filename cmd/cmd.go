package cmd

import (
	"errors"

	"github.com/samber/lo"
	"github.com/urfave/cli/v2"
	"go.uber.org/zap"

	"github.com/anicoll/aksm-integration/internal/pkg/aksm"
	"github.com/anicoll/aksm-integration/internal/pkg/config"
)

var errNoHost = errors.New("controller host is required (--aksm-host or AKSM_HOST)")

func configFromCli(ctx *cli.Context) (*config.Config, error) {
	cfg, err := config.FromEnv()
	if err != nil {
		return nil, err
	}
	if ctx.IsSet("aksm-host") {
		cfg.Device.Host = ctx.String("aksm-host")
	}
	if ctx.IsSet("aksm-port") {
		cfg.Device.Port = ctx.Int("aksm-port")
	}
	if ctx.IsSet("aksm-user") {
		cfg.Device.Username = ctx.String("aksm-user")
	}
	if ctx.IsSet("aksm-pass") {
		cfg.Device.Password = ctx.String("aksm-pass")
	}
	if ctx.IsSet("timeout") {
		cfg.Device.Timeout = ctx.Duration("timeout")
	}
	if ctx.IsSet("building") {
		cfg.Building = ctx.String("building")
	}
	if ctx.IsSet("log-level") {
		cfg.LogLevel = ctx.String("log-level")
	}
	if ctx.IsSet("listen-addr") {
		cfg.ListenAddr = ctx.String("listen-addr")
	}
	if ctx.IsSet("poll-interval") {
		cfg.PollInterval = ctx.Duration("poll-interval")
	}
	if ctx.IsSet("mqtt-host") {
		cfg.Mqtt.Host = ctx.String("mqtt-host")
	}
	if ctx.IsSet("mqtt-user") {
		cfg.Mqtt.Username = ctx.String("mqtt-user")
	}
	if ctx.IsSet("mqtt-pass") {
		cfg.Mqtt.Password = ctx.String("mqtt-pass")
	}
	if cfg.Device.Host == "" {
		return nil, errNoHost
	}
	return cfg, nil
}

func newLogger(level string) (*zap.Logger, error) {
	logCfg := zap.NewProductionConfig()
	parsed, err := zap.ParseAtomicLevel(level)
	if err != nil {
		return nil, err
	}
	logCfg.Level = parsed
	logCfg.OutputPaths = []string{"stdout"}
	logCfg.ErrorOutputPaths = []string{"stdout"}
	logCfg.Sampling = nil
	logger := zap.Must(logCfg.Build(zap.AddCaller(), zap.AddStacktrace(zap.ErrorLevel)))
	zap.ReplaceGlobals(logger)
	return logger, nil
}

func targetFromConfig(cfg *config.Config) aksm.Target {
	return aksm.Target{
		Host: cfg.Device.Host,
		Port: cfg.Device.Port,
		Credentials: aksm.Credentials{
			Username: cfg.Device.Username,
			Password: cfg.Device.Password,
		},
	}
}

// buildRequest maps the send flags onto a command request, keeping the
// set/unset distinction: an unset flag means the attribute is omitted.
func buildRequest(ctx *cli.Context) aksm.CommandRequest {
	req := aksm.CommandRequest{Action: ctx.String("action")}
	if ctx.IsSet("nodetype") {
		req.NodeType = lo.ToPtr(ctx.Int("nodetype"))
	}
	if ctx.IsSet("node") {
		req.Node = lo.ToPtr(ctx.Int("node"))
	}
	if ctx.IsSet("mod") {
		req.Mod = lo.ToPtr(ctx.Int("mod"))
	}
	if ctx.IsSet("point") {
		req.Point = lo.ToPtr(ctx.Int("point"))
	}
	if ctx.IsSet("cid") {
		req.CID = lo.ToPtr(ctx.Int("cid"))
	}
	if ctx.IsSet("vid") {
		req.VID = lo.ToPtr(ctx.Int("vid"))
	}
	return req
}
