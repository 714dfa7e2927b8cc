package main

import (
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/ericfisherdev/stale-issues/internal/adapter/driven/actions"
	githubadapter "github.com/ericfisherdev/stale-issues/internal/adapter/driven/github"
	"github.com/ericfisherdev/stale-issues/internal/application"
	"github.com/ericfisherdev/stale-issues/internal/config"
)

const (
	flagVerbose = "verbose"
	flagReport  = "report"
)

func newRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "stale-issues",
		Short: "Closes issues that have carried a stale label for too long",
		Long: `stale-issues scans a repository for open issues carrying the stale label,
works out how long each has been labeled, and closes those that stayed stale
longer than days-before-close with a comment.

Inputs are read from GitHub Actions INPUT_ variables, an optional JSONC file
(--config) and flags, in increasing order of precedence.`,
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
		Args:          cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return run(cmd, cmd.Flags())
		},
	}

	config.RegisterFlags(cmd.Flags())
	cmd.Flags().BoolP(flagVerbose, "v", false, "enable debug logging")
	cmd.Flags().String(flagReport, "", "write a JSON summary of the run to this file")

	return cmd
}

func run(cmd *cobra.Command, flags *pflag.FlagSet) error {
	ctx := cmd.Context()

	// 1. Configure logging (diagnostics go to stderr, user output to stdout).
	level := slog.LevelInfo
	if verbose, _ := flags.GetBool(flagVerbose); verbose {
		level = slog.LevelDebug
	}
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})))

	reporter := actions.NewReporter(cmd.OutOrStdout(), os.Getenv("GITHUB_OUTPUT"))

	// 2. Load named inputs.
	in, err := config.Load(flags)
	if err != nil {
		reporter.Fail(err.Error())
		return err
	}
	slog.Debug("inputs loaded",
		"repo", in.GitHubRepo,
		"stale_label", in.StaleLabel,
		"days_before_close", in.DaysBeforeClose,
		"dry_run", in.DryRun,
		"api_url", in.APIURL,
	)

	// 3. Create GitHub client.
	client, err := githubadapter.NewClient(in.GitHubToken, in.APIURL)
	if err != nil {
		reporter.Fail(err.Error())
		return err
	}

	// 4. Wire services and run.
	runner := application.NewRunner(
		application.NewConfigResolver(client, reporter),
		application.NewStaleScanner(client, reporter, time.Now),
		application.NewIssueCloser(client, reporter),
		reporter,
	)

	res, err := runner.Run(ctx, in)
	if err != nil {
		return err
	}

	// 5. Write the optional run report.
	if path, _ := flags.GetString(flagReport); path != "" {
		err := actions.WriteReport(path, actions.RunReport{
			Repository:   res.Config.Repository.FullName(),
			StaleLabel:   res.Config.StaleLabel,
			DryRun:       res.Config.DryRun,
			StaleDate:    res.StaleDate,
			ClosedIssues: res.ClosedIssues,
		})
		if err != nil {
			reporter.Fail(err.Error())
			return err
		}
		slog.Info("run report written", "path", path)
	}

	slog.Info("stale-issues finished", "closed", fmt.Sprint(res.ClosedIssues))
	return nil
}
