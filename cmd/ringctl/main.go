package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"go.uber.org/zap"

	"github.com/jacoelho/ringbuf"
)

var version = "dev"

type runOptions struct {
	capacity int
	verbose  bool
}

func (o *runOptions) addFlags(fs *pflag.FlagSet) {
	fs.IntVarP(&o.capacity, "capacity", "c", 8, "Number of ring slots, including the reserved one")
	fs.BoolVarP(&o.verbose, "verbose", "v", false, "Log the ring state after every operation")
}

func (o *runOptions) logger() (*zap.Logger, error) {
	if !o.verbose {
		return zap.NewNop(), nil
	}
	return zap.NewDevelopment()
}

func newRunCommand() *cobra.Command {
	var opts runOptions
	cmd := &cobra.Command{
		Use:   "run [push N | pop | dump]...",
		Short: "Run a script of operations against a fresh ring buffer",
		RunE: func(cmd *cobra.Command, args []string) error {
			ops, err := parseScript(args)
			if err != nil {
				return err
			}
			logger, err := opts.logger()
			if err != nil {
				return err
			}
			defer logger.Sync()

			r, err := ringbuf.New(opts.capacity)
			if err != nil {
				return err
			}
			defer r.Release()

			return runScript(cmd.OutOrStdout(), logger, r, ops)
		},
	}
	opts.addFlags(cmd.Flags())
	return cmd
}

func newRootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:           "ringctl",
		Short:         "Exercise and inspect a fixed-capacity ring buffer",
		SilenceUsage:  true,
		SilenceErrors: true,
		CompletionOptions: cobra.CompletionOptions{
			DisableDefaultCmd: true,
		},
	}
	root.AddCommand(newRunCommand())
	root.AddCommand(&cobra.Command{
		Use:   "version",
		Short: "Print the version",
		Run: func(cmd *cobra.Command, _ []string) {
			fmt.Fprintln(cmd.OutOrStdout(), "ringctl", version)
		},
	})
	return root
}

func main() {
	if err := newRootCommand().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "ringctl:", err)
		os.Exit(1)
	}
}
