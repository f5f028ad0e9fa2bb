package main

import (
	"fmt"
	"io"
	"os"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/taejunjeon/leadership/internal/config"
)

var (
	green  = color.New(color.FgGreen).SprintFunc()
	yellow = color.New(color.FgYellow).SprintFunc()
	red    = color.New(color.FgRed).SprintFunc()
	cyan   = color.New(color.FgCyan).SprintFunc()
	bold   = color.New(color.Bold).SprintFunc()
)

type rootFlags struct {
	configFile string
	envFile    string
	language   string
}

func (f *rootFlags) loadConfig() (config.Config, error) {
	var opts []config.Option
	if f.configFile != "" {
		opts = append(opts, config.WithFile(f.configFile))
	}
	if f.envFile != "" {
		opts = append(opts, config.WithEnvFile(f.envFile))
	}
	return config.Load(opts...)
}

func newRootCommand(stdin io.Reader, stdout, stderr io.Writer) *cobra.Command {
	flags := &rootFlags{}
	root := &cobra.Command{
		Use:           "leadership",
		Short:         "Leadership assessment scoring, validation and analysis service",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.SetIn(stdin)
	root.SetOut(stdout)
	root.SetErr(stderr)
	root.PersistentFlags().StringVarP(&flags.configFile, "config", "c", "", "config file (default ./leadership.yaml)")
	root.PersistentFlags().StringVar(&flags.envFile, "env-file", "", "dotenv file (default .env)")
	root.PersistentFlags().StringVarP(&flags.language, "lang", "l", "", "output language: en or ko")

	root.AddCommand(
		newServeCommand(flags),
		newMCPCommand(flags),
		newScoreCommand(flags),
		newValidateCommand(flags),
		newTokenCommand(flags),
		newVersionCommand(),
	)
	return root
}

func isTTY(w io.Writer) bool {
	f, ok := w.(*os.File)
	return ok && term.IsTerminal(int(f.Fd()))
}

func main() {
	color.NoColor = color.NoColor || !isTTY(os.Stdout)
	if err := newRootCommand(os.Stdin, os.Stdout, os.Stderr).Execute(); err != nil {
		fmt.Fprintln(os.Stderr, red("Error: "+err.Error()))
		os.Exit(1)
	}
}
