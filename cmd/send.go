package cmd

import (
	"errors"
	"fmt"

	"github.com/urfave/cli/v2"
	"go.uber.org/zap"

	"github.com/anicoll/aksm-integration/internal/pkg/aksm"
)

// SendCommand encodes one command from flags, sends it to the
// controller and prints the raw and decoded response.
func SendCommand(ctx *cli.Context) error {
	cfg, err := configFromCli(ctx)
	if err != nil {
		return err
	}
	logger, err := newLogger(cfg.LogLevel)
	if err != nil {
		return err
	}
	defer func() {
		_ = logger.Sync()
	}()

	req := buildRequest(ctx)
	if !aksm.IsKnownAction(req.Action) {
		logger.Warn("action is not in the documented vocabulary, sending anyway", zap.String("action", req.Action))
	}

	body := aksm.Encode(req)
	logger.Debug("encoded command", zap.String("body", body))

	client := aksm.NewClient(cfg.Device.Timeout)
	res, err := client.Send(ctx.Context, targetFromConfig(cfg), body)
	if err != nil {
		return err
	}

	// Raw first: the response is useful even when it does not decode.
	fmt.Fprintln(ctx.App.Writer, res.Body)

	decoded, err := aksm.Decode(res.Body)
	if err != nil {
		var pe *aksm.ParseError
		if errors.As(err, &pe) {
			logger.Error("device sent an unparseable response", zap.String("reason", pe.Reason), zap.Error(pe.Err))
		}
		return err
	}

	logger.Info("decoded response",
		zap.String("action", decoded.Action),
		zap.Int("error_code", decoded.ErrorCode),
		zap.Int("root_children", len(decoded.Tree.Children)))
	if decoded.ErrorCode != 0 {
		logger.Warn("device reported an error", zap.Int("error_code", decoded.ErrorCode))
	}
	return nil
}
