package main

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"opensound/internal/config"
	"opensound/internal/logging"
	"opensound/internal/pipeline"
	"opensound/internal/preflight"
)

type buildOptions struct {
	nativeZip bool
}

func addBuildFlags(cmd *cobra.Command, opts *buildOptions) {
	cmd.Flags().BoolVar(&opts.nativeZip, "native-zip", false, "Write archives in-process instead of invoking zip/7z")
}

func newBuildCommand(ctx *commandContext) *cobra.Command {
	var opts buildOptions
	cmd := &cobra.Command{
		Use:   "build",
		Short: "Transcode samples and build all packages",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runBuild(cmd, ctx, opts)
		},
	}
	addBuildFlags(cmd, &opts)
	return cmd
}

func runBuild(cmd *cobra.Command, ctx *commandContext, opts buildOptions) error {
	cfg, err := ctx.ensureConfig()
	if err != nil {
		return err
	}
	if opts.nativeZip {
		cfg.Archive.Mode = config.ArchiveModeNative
	}
	logger, err := ctx.logger()
	if err != nil {
		return err
	}

	for _, failed := range preflight.Failed(preflight.RunAll(cfg)) {
		logging.WarnWithContext(logger, "preflight check failed", "preflight_failed",
			logging.String("check", failed.Name),
			logging.String("detail", failed.Detail),
			logging.String(logging.FieldImpact, "the build will likely fail at this step"),
		)
	}

	var pipelineOpts []pipeline.Option
	store, err := ctx.openHistory()
	if err != nil {
		logging.WarnWithContext(logger, "build history unavailable", "history_open_failed",
			logging.Error(err),
			logging.String(logging.FieldErrorHint, "check history.path or set history.enabled = false"),
			logging.String(logging.FieldImpact, "this build will not be recorded"),
		)
	}
	if store != nil {
		defer store.Close()
		pipelineOpts = append(pipelineOpts, pipeline.WithHistory(store))
	}

	summary, err := pipeline.New(cfg, logger, pipelineOpts...).Run(cmd.Context())
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	rows := make([][]string, 0, len(summary.Packages))
	for _, pkg := range summary.Packages {
		rows = append(rows, []string{
			kindLabel(string(pkg.Kind)),
			pkg.ID,
			strconv.Itoa(pkg.Transcoded),
			strconv.Itoa(pkg.Markers),
			humanBytes(pkg.ArchiveBytes),
			pkg.ArchivePath,
		})
	}
	fmt.Fprint(out, renderTable(
		[]string{"Kind", "ID", "Transcoded", "Markers", "Size", "Archive"},
		rows,
		[]columnAlignment{alignLeft, alignLeft, alignRight, alignRight, alignRight, alignLeft},
	))
	fmt.Fprintln(out)
	fmt.Fprintln(out, renderStatusLine("Distributable", statusOK, summary.Distributable, shouldColorize(out)))
	fmt.Fprintln(out, renderStatusLine("Build", statusInfo, fmt.Sprintf("%s in %s", summary.BuildID, formatDuration(summary.Duration)), shouldColorize(out)))
	return nil
}
