package main

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/san-kum/lottosim/internal/config"
	"github.com/san-kum/lottosim/internal/draw"
	"github.com/san-kum/lottosim/internal/export"
	"github.com/san-kum/lottosim/internal/history"
	"github.com/san-kum/lottosim/internal/viz"
)

// linePrompter asks on a terminal. With yes set it confirms without reading.
type linePrompter struct {
	in  *bufio.Reader
	out io.Writer
	yes bool
}

func (p *linePrompter) Notify(msg string) { fmt.Fprintln(p.out, msg) }

func (p *linePrompter) Confirm(msg string) bool {
	if p.yes {
		return true
	}
	fmt.Fprintf(p.out, "%s [y/N] ", msg)
	line, err := p.in.ReadString('\n')
	if err != nil && line == "" {
		return false
	}
	switch strings.ToLower(strings.TrimSpace(line)) {
	case "y", "yes":
		return true
	}
	return false
}

func historyCommand() *cobra.Command {
	var (
		yes    bool
		format string
		output string
		limit  int
	)

	historyCmd := &cobra.Command{
		Use:   "history",
		Short: "inspect or clear saved draws",
	}

	listCmd := &cobra.Command{
		Use:   "list",
		Short: "list saved draws, newest first",
		RunE: func(cmd *cobra.Command, args []string) error {
			hist, err := historyFor(cmd)
			if err != nil {
				return err
			}
			entries := hist.LoadAll()
			out := cmd.OutOrStdout()
			if len(entries) == 0 {
				fmt.Fprintln(out, history.NoEntries)
				return nil
			}
			if limit > 0 && len(entries) > limit {
				entries = entries[:limit]
			}
			for _, e := range entries {
				fmt.Fprintf(out, "%s  %s\n", e.Date, viz.PlainRow(e.Numbers))
			}
			return nil
		},
	}
	listCmd.Flags().IntVarP(&limit, "limit", "n", 0, "show at most n entries")

	clearCmd := &cobra.Command{
		Use:   "clear",
		Short: "delete every saved draw",
		RunE: func(cmd *cobra.Command, args []string) error {
			hist, err := historyFor(cmd)
			if err != nil {
				return err
			}
			p := &linePrompter{in: bufio.NewReader(cmd.InOrStdin()), out: cmd.OutOrStdout(), yes: yes}
			cleared, err := hist.Clear(p)
			if err != nil {
				return err
			}
			if cleared {
				fmt.Fprintln(cmd.OutOrStdout(), "history cleared")
			}
			return nil
		},
	}
	clearCmd.Flags().BoolVarP(&yes, "yes", "y", false, "do not ask for confirmation")

	exportCmd := &cobra.Command{
		Use:   "export",
		Short: "write saved draws as json or csv",
		RunE: func(cmd *cobra.Command, args []string) error {
			f, err := export.ParseFormat(format)
			if err != nil {
				return err
			}
			hist, err := historyFor(cmd)
			if err != nil {
				return err
			}

			w := cmd.OutOrStdout()
			if output != "" && output != "-" {
				file, err := os.Create(output)
				if err != nil {
					return err
				}
				defer file.Close()
				w = file
			}
			return export.WriteHistory(w, f, hist.LoadAll())
		},
	}
	exportCmd.Flags().StringVarP(&format, "format", "f", "json", "output format (json, csv)")
	exportCmd.Flags().StringVarP(&output, "output", "o", "", "output file (default stdout)")

	historyCmd.AddCommand(listCmd, clearCmd, exportCmd)
	return historyCmd
}

func historyFor(cmd *cobra.Command) (*history.Log, error) {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return nil, err
	}
	log, err := newLogger(cfg, os.Stderr)
	if err != nil {
		return nil, err
	}
	return openHistory(cfg, log)
}

func drawCommand() *cobra.Command {
	var (
		tickets int
		save    bool
	)

	cmd := &cobra.Command{
		Use:   "draw",
		Short: "print draws without running the machine",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(cmd)
			if err != nil {
				return err
			}

			gen := generatorFor(cfg)
			var hist *history.Log
			if save {
				log, err := newLogger(cfg, os.Stderr)
				if err != nil {
					return err
				}
				if hist, err = openHistory(cfg, log); err != nil {
					return err
				}
			}

			out := cmd.OutOrStdout()
			for i := 0; i < tickets; i++ {
				numbers, err := gen.Draw(cfg.Draw.Count, cfg.Draw.Max)
				if err != nil {
					return err
				}
				fmt.Fprintln(out, viz.PlainRow(numbers))
				if hist != nil {
					if _, err := hist.Append(numbers, time.Now()); err != nil {
						return err
					}
				}
			}
			return nil
		},
	}
	cmd.Flags().IntVarP(&tickets, "count", "n", 1, "number of draws")
	cmd.Flags().BoolVar(&save, "save", false, "append the draws to history")
	return cmd
}

func generatorFor(cfg *config.Config) *draw.Generator {
	if cfg.Draw.Crypto || cfg.Seed == 0 {
		return draw.NewCrypto()
	}
	return draw.NewSeeded(cfg.Seed)
}
