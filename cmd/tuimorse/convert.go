package main

import (
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/verte-zerg/tuimorse/internal/keyer"
	"github.com/verte-zerg/tuimorse/internal/morse"
)

func newDecodeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "decode [CODE...]",
		Short: "Decode Morse code",
		Long: "Decode space-separated Morse codes (\"/\" separates words). Codes are\n" +
			"read from standard input when none are given. Flags are not parsed,\n" +
			"so codes such as \"-.-\" need no quoting.",
		DisableFlagParsing: true,
		RunE:               runDecodeCmd,
	}
}

func runDecodeCmd(cmd *cobra.Command, args []string) error {
	if len(args) > 0 {
		switch args[0] {
		case "-h", "--help":
			return cmd.Help()
		case "--":
			args = args[1:]
		}
	}
	code := strings.Join(args, " ")
	if len(args) == 0 {
		data, err := io.ReadAll(cmd.InOrStdin())
		if err != nil {
			return fmt.Errorf("failed to read codes: %w", err)
		}
		code = string(data)
	}
	var out []string
	for _, line := range strings.Split(code, "\n") {
		if strings.TrimSpace(line) == "" {
			continue
		}
		out = append(out, morse.DecodeCode(line))
	}
	if len(out) == 0 {
		return fmt.Errorf("nothing to decode")
	}
	_, err := fmt.Fprintln(cmd.OutOrStdout(), strings.Join(out, "\n"))
	return err
}

func newReplayCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "replay FILE",
		Short: "Replay a YAML press script through the timing decoder",
		Args:  cobra.ExactArgs(1),
		RunE:  runReplayCmd,
	}
}

func runReplayCmd(cmd *cobra.Command, args []string) error {
	_, keyerCfg, err := loadKeyerConfig(cmd)
	if err != nil {
		return err
	}
	script, err := keyer.LoadScript(args[0])
	if err != nil {
		return err
	}
	text, err := script.Replay(keyerCfg)
	if err != nil {
		return fmt.Errorf("failed to replay %s: %w", args[0], err)
	}
	_, err = fmt.Fprintln(cmd.OutOrStdout(), text)
	return err
}

func newScriptCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "script TEXT...",
		Short: "Write a YAML press script that keys text",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			_, keyerCfg, err := loadKeyerConfig(cmd)
			if err != nil {
				return err
			}
			code := morse.EncodeText(strings.Join(args, " "))
			presses, tail := morse.Keying(code, keyerCfg)
			return keyer.WriteScript(cmd.OutOrStdout(), keyer.FromPresses(presses, tail))
		},
	}
}
