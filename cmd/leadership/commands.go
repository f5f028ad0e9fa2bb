package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"runtime/debug"
	"strings"
	"sync"
	"time"

	"github.com/spf13/cobra"

	"github.com/taejunjeon/leadership/internal/auth"
	"github.com/taejunjeon/leadership/internal/i18n"
	"github.com/taejunjeon/leadership/internal/mcptools"
	"github.com/taejunjeon/leadership/internal/server/bootstrap"
	"github.com/taejunjeon/leadership/internal/survey"
	"github.com/taejunjeon/leadership/internal/validation"
)

func newServeCommand(flags *rootFlags) *cobra.Command {
	var addr string
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := flags.loadConfig()
			if err != nil {
				return err
			}
			if addr != "" {
				cfg.Server.Addr = addr
			}
			cfg.Observability.Tracing.ServiceVersion = appVersion()
			return bootstrap.RunServer(cfg)
		},
	}
	cmd.Flags().StringVar(&addr, "addr", "", "listen address, overrides server.addr")
	return cmd
}

func newMCPCommand(flags *rootFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "mcp",
		Short: "Serve the scoring tools over MCP stdio",
		RunE: func(cmd *cobra.Command, args []string) error {
			questions, err := survey.LoadCatalog()
			if err != nil {
				return err
			}
			fallback := i18n.Korean
			if flags.language != "" {
				fallback = flags.language
			}
			return mcptools.Serve(mcptools.NewServer(appVersion(), i18n.NewCatalog(fallback), questions))
		},
	}
}

var errInvalidSubmission = errors.New("submission is invalid")

func newValidateCommand(flags *rootFlags) *cobra.Command {
	var asJSON bool
	cmd := &cobra.Command{
		Use:   "validate [file]",
		Short: "Validate a submission offline",
		Long:  "Run every validation check except duplicate detection against a submission JSON.",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			data, err := readInput(cmd, args)
			if err != nil {
				return err
			}
			var sub survey.Submission
			if err := json.Unmarshal(data, &sub); err != nil {
				return fmt.Errorf("decode submission: %w", err)
			}
			catalog := i18n.NewCatalog(i18n.English)
			lang := catalog.Resolve(flags.language)
			res := validation.New(validation.DefaultConfig(), catalog).
				Validate(cmd.Context(), sub, validation.Options{Language: lang})
			res.Render(catalog, lang)

			out := cmd.OutOrStdout()
			if asJSON {
				enc := json.NewEncoder(out)
				enc.SetIndent("", "  ")
				if err := enc.Encode(res); err != nil {
					return err
				}
			} else {
				status := green("valid")
				if !res.IsValid {
					status = red("invalid")
				}
				fmt.Fprintf(out, "%s %s (completeness %.0f%%, consistency %.0f%%)\n", bold("Result:"), status,
					res.CompletenessScore*100, res.ConsistencyScore*100)
				for _, msg := range res.Errors {
					fmt.Fprintf(out, "  %s %s\n", red("✗"), msg)
				}
				for _, msg := range res.Warnings {
					fmt.Fprintf(out, "  %s %s\n", yellow("!"), msg)
				}
			}
			if !res.IsValid {
				return errInvalidSubmission
			}
			return nil
		},
	}
	cmd.Flags().BoolVar(&asJSON, "json", false, "print the JSON result")
	return cmd
}

func newTokenCommand(flags *rootFlags) *cobra.Command {
	var email, role string
	cmd := &cobra.Command{
		Use:   "token <subject>",
		Short: "Issue an API token signed with auth.secret",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := flags.loadConfig()
			if err != nil {
				return err
			}
			token, expires, err := auth.NewManager(cfg.Auth).Issue(args[0], email, role)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), token)
			fmt.Fprintln(cmd.ErrOrStderr(), "expires "+expires.Format(time.RFC3339))
			return nil
		},
	}
	cmd.Flags().StringVar(&email, "email", "", "email claim")
	cmd.Flags().StringVar(&role, "role", "", "role claim, e.g. "+auth.RoleAdmin)
	return cmd
}

func newVersionCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the version",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintln(cmd.OutOrStdout(), "leadership "+appVersion())
		},
	}
}

var (
	versionOnce   sync.Once
	cachedVersion string
)

// appVersion prefers build info and falls back to "dev".
func appVersion() string {
	versionOnce.Do(func() {
		cachedVersion = "dev"
		info, ok := debug.ReadBuildInfo()
		if !ok {
			return
		}
		if v := strings.TrimSpace(info.Main.Version); v != "" && v != "(devel)" {
			cachedVersion = strings.TrimPrefix(v, "v")
		}
	})
	return cachedVersion
}
