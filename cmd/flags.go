package cmd

import "github.com/urfave/cli/v2"

// Flags override the environment-sourced config (internal/pkg/config)
// field by field; only flags the user actually set are applied.

func DeviceFlags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:  "aksm-host",
			Usage: "controller host or IP",
		},
		&cli.IntFlag{
			Name:  "aksm-port",
			Usage: "controller HTTPS port",
		},
		&cli.StringFlag{
			Name:  "aksm-user",
			Usage: "device username",
		},
		&cli.StringFlag{
			Name:  "aksm-pass",
			Usage: "device password",
		},
		&cli.DurationFlag{
			Name:  "timeout",
			Usage: "device call timeout",
		},
		&cli.StringFlag{
			Name:  "building",
			Usage: "building identifier used in topics and proxy routes",
		},
		&cli.StringFlag{
			Name:  "log-level",
			Usage: "zap log level",
		},
	}
}

func SendFlags() []cli.Flag {
	return append(DeviceFlags(),
		&cli.StringFlag{
			Name:     "action",
			Usage:    "command action, e.g. read_devices",
			Required: true,
		},
		&cli.IntFlag{Name: "nodetype"},
		&cli.IntFlag{Name: "node"},
		&cli.IntFlag{Name: "mod"},
		&cli.IntFlag{Name: "point"},
		&cli.IntFlag{Name: "cid"},
		&cli.IntFlag{Name: "vid"},
	)
}

func ServeFlags() []cli.Flag {
	return append(DeviceFlags(),
		&cli.StringFlag{
			Name:  "listen-addr",
			Usage: "proxy listen address",
		},
	)
}

func WatchFlags() []cli.Flag {
	return append(DeviceFlags(),
		&cli.DurationFlag{
			Name:  "poll-interval",
			Usage: "panel polling interval",
		},
		&cli.StringFlag{
			Name:  "mqtt-host",
			Usage: "mqtt broker, e.g. tcp://broker:1883",
		},
		&cli.StringFlag{Name: "mqtt-user"},
		&cli.StringFlag{Name: "mqtt-pass"},
	)
}
