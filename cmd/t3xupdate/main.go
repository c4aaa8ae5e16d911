// Command t3xupdate flashes firmware update files onto AiXun T3x
// soldering stations over USB, without vendor tooling.
package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/schollz/progressbar/v3"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/c0d3z3r0/aixun-t3x-updater/firmware"
	"github.com/c0d3z3r0/aixun-t3x-updater/transport"
	"github.com/c0d3z3r0/aixun-t3x-updater/updater"
)

var (
	flagPort   string
	flagDebug  bool
	flagDryRun bool
)

var rootCmd = &cobra.Command{
	Use:   "t3xupdate <firmware.bin>",
	Short: "Firmware update tool for AiXun T3x soldering stations",
	Long: `t3xupdate flashes a JCID firmware update file onto an AiXun T3x
soldering station attached over USB. The station is found automatically
by its USB serial number; a station still running application firmware
is switched into the bootloader first.`,
	Args:          cobra.ExactArgs(1),
	SilenceUsage:  true,
	SilenceErrors: true,
	RunE:          run,
}

func init() {
	rootCmd.Flags().StringVarP(&flagPort, "port", "p", "", "serial port (default: auto-detect)")
	rootCmd.Flags().BoolVarP(&flagDebug, "debug", "d", false, "enable debug output")
	rootCmd.Flags().BoolVarP(&flagDryRun, "dry-run", "n", false, "validate the update file and exit")
}

func run(cmd *cobra.Command, args []string) error {
	logger := newLogger(flagDebug)
	defer func() { _ = logger.Sync() }()

	img, err := firmware.LoadFile(args[0])
	if err != nil {
		return err
	}

	logger.Info("update file validated",
		zap.String("product", img.Product),
		zap.String("version", img.Version),
		zap.Int("bytes", img.TotalSize()),
		zap.String("checksum", fmt.Sprintf("0x%04X", img.Checksum)),
	)

	if flagDryRun {
		return nil
	}

	port := flagPort
	if port == "" {
		port, err = transport.Find()
		if err != nil {
			return err
		}
		logger.Debug("station found", zap.String("port", port))
	}

	ch, err := transport.OpenPort(port)
	if err != nil {
		return err
	}

	bar := progressbar.DefaultBytes(int64(img.TotalSize()), "flashing")
	sess := updater.New(ch,
		updater.WithLogger(logger),
		updater.WithProgress(func(sent, total int) {
			_ = bar.Set(sent)
		}),
	)

	if err := sess.Run(cmd.Context(), img); err != nil {
		_ = bar.Exit()
		fmt.Fprintln(os.Stderr)

		var verr *updater.VerificationError
		if errors.As(err, &verr) {
			fmt.Fprintln(os.Stderr, "WARNING: the station is still in the bootloader with unverified "+
				"flash contents. Do not power-cycle assuming the update worked; run the update again.")
		}
		return err
	}

	_ = bar.Finish()
	logger.Info("update successful", zap.String("version", img.Version))
	return nil
}

// newLogger builds a console logger matching the tool's one-shot CLI
// nature: human-readable, to stderr, no sampling.
func newLogger(debug bool) *zap.Logger {
	cfg := zap.NewDevelopmentConfig()
	cfg.EncoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
	cfg.EncoderConfig.TimeKey = ""
	if !debug {
		cfg.Level = zap.NewAtomicLevelAt(zapcore.InfoLevel)
	}

	logger, err := cfg.Build()
	if err != nil {
		// The static config above cannot fail to build.
		panic(err)
	}
	return logger
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
