package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/verte-zerg/tuimorse/internal/applog"
	"github.com/verte-zerg/tuimorse/internal/keyer"
	"github.com/verte-zerg/tuimorse/internal/morse"
)

const (
	defaultBaud = 9600
	defaultLine = string(keyer.LineCTS)
	defaultPoll = keyer.DefaultPoll
)

var (
	serialPort string
	serialBaud int
	serialLine string
	serialPoll time.Duration
)

func newSerialCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serial",
		Short: "Decode a straight key wired to a serial port",
		Args:  cobra.NoArgs,
		RunE:  runSerialCmd,
	}
	cmd.Flags().StringVar(&serialPort, "port", "", "serial device, e.g. /dev/ttyUSB0")
	cmd.Flags().IntVar(&serialBaud, "baud", defaultBaud, "baud rate")
	cmd.Flags().StringVar(&serialLine, "line", defaultLine, "status line closed by the key (cts, dsr, dcd, ri)")
	cmd.Flags().DurationVar(&serialPoll, "poll", defaultPoll, "status poll interval")
	return cmd
}

func runSerialCmd(cmd *cobra.Command, _ []string) error {
	fileCfg, keyerCfg, err := loadKeyerConfig(cmd)
	if err != nil {
		return err
	}
	applyStringConfig(cmd, "port", &serialPort, fileCfg.Serial.Port)
	applyIntConfig(cmd, "baud", &serialBaud, fileCfg.Serial.Baud)
	applyStringConfig(cmd, "line", &serialLine, fileCfg.Serial.Line)
	applyDurationConfig(cmd, "poll", &serialPoll, fileCfg.Serial.Poll)
	if serialPort == "" {
		return fmt.Errorf("--port is required")
	}
	line, err := keyer.ParseLine(serialLine)
	if err != nil {
		return err
	}

	logger, err := applog.New(logFile, logVerbose)
	if err != nil {
		return err
	}
	defer func() {
		_ = logger.Sync()
	}()

	key, err := keyer.OpenSerialKey(serialPort, serialBaud, line, serialPoll)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := key.Close(); cerr != nil {
			logErrf("failed to close serial port: %v\n", cerr)
		}
	}()

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
	defer stop()

	logger.Info("listening on serial key",
		zap.String("port", serialPort),
		zap.String("line", string(line)),
		zap.Duration("poll", serialPoll))
	logErrf("Keying on %s (%s); Ctrl+C to stop\n", serialPort, line)

	err = decodeEdges(ctx, keyerCfg, cmd.OutOrStdout(), logger, key.Run)
	if _, werr := fmt.Fprintln(cmd.OutOrStdout()); werr != nil {
		return werr
	}
	return err
}

// edgeSource blocks delivering key edges until ctx is done.
type edgeSource func(ctx context.Context, edge func(down bool, at time.Time)) error

// decodeEdges feeds edges from src into an engine running on its own loop
// and streams newly decoded text to w.
func decodeEdges(ctx context.Context, cfg morse.Config, w io.Writer, logger *zap.Logger, src edgeSource) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	var (
		engine  *morse.Engine
		printed int
	)
	loop := morse.NewLoop(func() {
		text := engine.Text()
		if len(text) < printed {
			printed = 0
		}
		if len(text) > printed {
			_, _ = fmt.Fprint(w, text[printed:])
			printed = len(text)
		}
	})
	engine, err := morse.NewEngine(cfg, loop)
	if err != nil {
		return err
	}

	loopErr := make(chan error, 1)
	go func() {
		loopErr <- loop.Run(ctx)
	}()

	err = src(ctx, func(down bool, at time.Time) {
		loop.Do(func() {
			if down {
				engine.PressStart(at)
				return
			}
			if sym, ok := engine.PressEnd(at); ok {
				logger.Debug("key up", zap.Stringer("symbol", sym), zap.String("buffer", engine.Buffer()))
			}
		})
	})
	cancel()
	<-loopErr
	if err != nil && !errors.Is(err, context.Canceled) {
		return err
	}
	return nil
}
