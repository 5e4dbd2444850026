package main

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"

	"github.com/brodkewitz/brphoto-metadata-tools/internal/config"
	"github.com/brodkewitz/brphoto-metadata-tools/internal/logging"
	"github.com/brodkewitz/brphoto-metadata-tools/internal/services/exiftool"
	"github.com/brodkewitz/brphoto-metadata-tools/internal/workflow"
)

type writeOptions struct {
	searchDir             string
	dryRun                bool
	ignoreJPG             bool
	maxScanItems          int
	overwriteDescriptions bool
	overwriteOriginals    bool
	keepGoing             bool
	assumeYes             bool
	jsonOut               bool
}

func newWriteCommand(ctx *commandContext) *cobra.Command {
	opts := &writeOptions{}

	cmd := &cobra.Command{
		Use:   "write <input.tsv | ->",
		Short: "Write descriptions from a tab-separated manifest",
		Long: `Write reads filename/description pairs from a tab-separated manifest,
locates each file under the search directory, and writes the description
with exiftool. Descriptions land on an existing XMP sidecar when the stem
has one, otherwise on the writable image, otherwise on a new sidecar next
to the raw file.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runWrite(cmd, ctx, args[0], opts)
		},
	}

	bindScanFlags(cmd, opts)
	flags := cmd.Flags()
	flags.BoolVarP(&opts.dryRun, "dry-run", "n", false, "Resolve and report without invoking exiftool")
	flags.BoolVar(&opts.overwriteDescriptions, "overwrite-descriptions", false, "Replace descriptions that already exist")
	flags.BoolVar(&opts.overwriteOriginals, "overwrite-originals", false, "Let exiftool modify files in place without backups")
	flags.BoolVar(&opts.keepGoing, "keep-going", false, "Continue with remaining records after a write fails")
	flags.BoolVar(&opts.assumeYes, "yes", false, "Skip interactive confirmation prompts")

	return cmd
}

func newPlanCommand(ctx *commandContext) *cobra.Command {
	opts := &writeOptions{dryRun: true}

	cmd := &cobra.Command{
		Use:   "plan <input.tsv | ->",
		Short: "Resolve manifest records without writing anything",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runWrite(cmd, ctx, args[0], opts)
		},
	}

	bindScanFlags(cmd, opts)
	return cmd
}

// bindScanFlags registers the flags shared by write and plan.
func bindScanFlags(cmd *cobra.Command, opts *writeOptions) {
	flags := cmd.Flags()
	flags.StringVar(&opts.searchDir, "search-dir", "", "Directory tree to search (default: configured search_dir)")
	flags.BoolVar(&opts.ignoreJPG, "ignore-jpg", false, "Resolve against raw files and sidecars only")
	flags.IntVar(&opts.maxScanItems, "max-scan-items", 0, "Abort when the scan visits more than this many files (default: configured max_items)")
	flags.BoolVar(&opts.jsonOut, "json", false, "Emit the run report as JSON")
}

func runWrite(cmd *cobra.Command, ctx *commandContext, input string, opts *writeOptions) error {
	input = strings.TrimSpace(input)
	if input == "" {
		return errors.New("manifest path required (use - for stdin)")
	}

	loaded, err := ctx.ensureConfig()
	if err != nil {
		return err
	}
	cfg := *loaded
	if err := applyFlagOverrides(cmd, &cfg, opts); err != nil {
		return err
	}
	cfg.Logging.Level = ctx.resolvedLogLevel(&cfg)

	// Only a flag-initiated overwrite prompts; enabling it in the config
	// file is standing consent.
	if !opts.dryRun && cfg.Write.OverwriteOriginals && cmd.Flags().Changed("overwrite-originals") {
		if err := confirmOverwriteOriginals(cmd, opts.assumeYes, input == "-"); err != nil {
			return err
		}
	}

	logger, err := logging.NewFromConfig(&cfg)
	if err != nil {
		return err
	}

	var writer workflow.Writer
	if !opts.dryRun {
		client, err := exiftool.New(cfg.Exiftool.Binary, cfg.Exiftool.TimeoutSeconds)
		if err != nil {
			return err
		}
		writer = client
	}

	runner, err := workflow.NewRunner(&cfg, logger, writer)
	if err != nil {
		return err
	}

	report, runErr := runner.Run(cmd.Context(), workflow.RunOptions{InputPath: input, DryRun: opts.dryRun})
	if report != nil {
		if opts.jsonOut {
			if err := writeJSON(cmd, report); err != nil {
				return err
			}
		} else {
			printReport(cmd.OutOrStdout(), report)
		}
	}
	if runErr != nil {
		return runErr
	}
	if report != nil && report.Summary.Failed > 0 {
		attempted := report.Summary.Written + report.Summary.Skipped + report.Summary.Failed
		return fmt.Errorf("%d of %d writes failed", report.Summary.Failed, attempted)
	}
	return nil
}

func applyFlagOverrides(cmd *cobra.Command, cfg *config.Config, opts *writeOptions) error {
	flags := cmd.Flags()
	if flags.Changed("search-dir") {
		dir := strings.TrimSpace(opts.searchDir)
		if dir == "" {
			return errors.New("--search-dir must not be empty")
		}
		expanded, err := config.ExpandPath(dir)
		if err != nil {
			return err
		}
		cfg.Paths.SearchDir = expanded
	}
	if flags.Changed("max-scan-items") {
		if opts.maxScanItems < 1 {
			return errors.New("--max-scan-items must be at least 1")
		}
		cfg.Scan.MaxItems = opts.maxScanItems
	}
	if flags.Changed("ignore-jpg") {
		cfg.Scan.IgnoreWritableImages = opts.ignoreJPG
	}
	if flags.Changed("overwrite-descriptions") {
		cfg.Write.OverwriteDescriptions = opts.overwriteDescriptions
	}
	if flags.Changed("overwrite-originals") {
		cfg.Write.OverwriteOriginals = opts.overwriteOriginals
	}
	if flags.Changed("keep-going") {
		cfg.Write.ContinueOnError = opts.keepGoing
	}
	return nil
}

// confirmOverwriteOriginals asks before letting exiftool drop its backup
// copies. The prompt never shares stdin with the manifest; piped input must
// confirm with --yes.
func confirmOverwriteOriginals(cmd *cobra.Command, assumeYes, manifestOnStdin bool) error {
	if assumeYes {
		return nil
	}
	interactive := isatty.IsTerminal(os.Stdin.Fd()) || isatty.IsCygwinTerminal(os.Stdin.Fd())
	if !interactive || manifestOnStdin {
		return errors.New("--overwrite-originals drops exiftool backups; pass --yes to confirm on non-interactive runs")
	}

	fmt.Fprint(cmd.ErrOrStderr(), "Overwrite files in place without exiftool backups? [y/N]: ")
	line, err := bufio.NewReader(cmd.InOrStdin()).ReadString('\n')
	if err != nil && !errors.Is(err, io.EOF) {
		return fmt.Errorf("read confirmation: %w", err)
	}
	switch strings.ToLower(strings.TrimSpace(line)) {
	case "y", "yes":
		return nil
	}
	return errors.New("aborted by user")
}
