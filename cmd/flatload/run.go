package main

import (
	"context"
	"fmt"
	"io"
	"text/tabwriter"
	"time"

	"github.com/go-faster/errors"
	"github.com/spf13/cobra"

	"flatload/internal/batch"
	"flatload/internal/fixedwidth"
	"flatload/internal/loader"
	"flatload/internal/runctx"
	"flatload/internal/scff"
	"flatload/internal/skiplog"
	"flatload/internal/storage"
)

func newRunCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "run [folder]",
		Short: "Load every MIS file of a folder",
		Long: `Load every eligible MIS file of a folder into its <PREFIX>_<CODE>_<SUFFIX>
table, replacing the partition named by each file. The folder defaults to
mis.folder from the config.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			folder, err := folderArg(args, a.cfg.MIS.Folder, "MIS folder")
			if err != nil {
				return err
			}
			return a.runMIS(cmd.Context(), folder)
		},
	}
}

func newSCFFCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "scff [root]",
		Short: "Load the SCFF pipe-delimited files of every academic year",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			root, err := folderArg(args, a.cfg.SCFF.Root, "SCFF root")
			if err != nil {
				return err
			}
			return a.runSCFF(cmd.Context(), root)
		},
	}
}

func (a *app) runMIS(ctx context.Context, folder string) error {
	if err := a.checkConfig(); err != nil {
		return err
	}
	mode, err := batch.ParseCommitMode(a.cfg.Storage.CommitMode)
	if err != nil {
		return err
	}
	release, err := a.lock()
	if err != nil {
		return err
	}
	defer release()
	flush := a.setupMetrics()
	defer flush()

	reg, err := a.registry()
	if err != nil {
		return err
	}
	dec, err := a.decoder()
	if err != nil {
		return err
	}
	skips, closeSkips, err := a.skipLog(a.cfg.MIS.SkipLog)
	if err != nil {
		return err
	}
	defer closeSkips()

	sess, err := storage.Open(ctx, a.storageConfig())
	if err != nil {
		return err
	}

	m := a.cfg.MIS
	d := batch.New(sess, reg, dec, a.log)
	d.Naming = batch.Naming{
		Extension:      m.Extension,
		PartitionStart: m.PartitionStart,
		PartitionEnd:   m.PartitionEnd,
		TablePrefix:    m.TablePrefix,
		TableSuffix:    m.TableSuffix,
	}
	d.CommitMode = mode
	d.PartitionColumn = m.PartitionColumn
	d.Skips = skips
	d.Job = a.cfg.Job
	a.configureLoader(d.Loader, skips, a.cfg.Job)

	sum, err := d.Run(ctx, runctx.New(), folder)
	printMISSummary(a.out, sum)
	if err != nil {
		return err
	}
	if sum.Errored > 0 {
		return errors.Errorf("%d of %d files failed", sum.Errored, sum.Total)
	}
	return nil
}

func (a *app) runSCFF(ctx context.Context, root string) error {
	if err := a.checkConfig(); err != nil {
		return err
	}
	release, err := a.lock()
	if err != nil {
		return err
	}
	defer release()
	flush := a.setupMetrics()
	defer flush()

	s := a.cfg.SCFF
	cs, err := fixedwidth.Charset(s.Encoding)
	if err != nil {
		return err
	}
	skips, closeSkips, err := a.skipLog(s.SkipLog)
	if err != nil {
		return err
	}
	defer closeSkips()

	sess, err := storage.Open(ctx, a.storageConfig())
	if err != nil {
		return err
	}

	l := scff.New(sess, a.log)
	l.TablePrefix = s.TablePrefix
	l.LatestDir = s.LatestDir
	l.SkipStale = s.SkipStale
	l.Charset = cs
	l.Skips = skips
	l.Job = a.cfg.Job + "_scff"
	a.configureLoader(l.Loader, skips, l.Job)

	sum, err := l.Run(ctx, runctx.New(), root)
	printSCFFSummary(a.out, sum)
	if err != nil {
		return err
	}
	if sum.Errored > 0 {
		return errors.Errorf("%d files failed", sum.Errored)
	}
	return nil
}

// configureLoader applies the settings shared by both feeds.
func (a *app) configureLoader(l *loader.Loader, skips *skiplog.Log, job string) {
	l.Skips = skips
	l.Job = job
	l.Schema.Grantee = a.cfg.Storage.GrantTo
}

func errText(err error) string {
	if err == nil {
		return ""
	}
	return err.Error()
}

func printMISSummary(w io.Writer, sum batch.Summary) {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "FILE\tTABLE\tPARTITION\tMODE\tRECORDS\tBAD\tDELETED\tINSERTED\tDROPPED\tFAILED\tOUTCOME\tCHECKSUM\tERROR")
	for _, f := range sum.Files {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%d\t%d\t%d\t%d\t%d\t%d\t%s\t%s\t%s\n",
			f.Name, f.Table, f.Partition, f.Mode, f.Records, f.BadLines,
			f.Load.Deleted, f.Load.Inserted, f.Load.Dropped, f.Load.Failed,
			f.Outcome, f.Checksum, errText(f.Err))
	}
	_ = tw.Flush()
	state := "committed"
	switch {
	case sum.Aborted && sum.CommittedFiles > 0:
		state = fmt.Sprintf("aborted (%d files stay committed)", sum.CommittedFiles)
	case sum.Aborted:
		state = "aborted"
	case !sum.Committed:
		state = "not committed"
	}
	fmt.Fprintf(w, "run %s %s: %d succeeded, %d errored, %d skipped, %d total in %s\n",
		sum.RunID, state, sum.Succeeded, sum.Errored, sum.Skipped, sum.Total, sum.Duration.Round(time.Millisecond))
}

func printSCFFSummary(w io.Writer, sum scff.Summary) {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "ACYR\tFILE\tTABLE\tDATESTAMP\tRECORDS\tBAD\tDELETED\tINSERTED\tFAILED\tOUTCOME\tERROR")
	for _, y := range sum.Years {
		for _, f := range y.Files {
			fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%d\t%d\t%d\t%d\t%d\t%s\t%s\n",
				y.ACYR, f.Name, f.Table, f.Datestamp, f.Records, f.BadLines,
				f.Load.Deleted, f.Load.Inserted, f.Load.Failed, f.Outcome, errText(f.Err))
		}
	}
	_ = tw.Flush()
	state := "committed"
	if sum.Aborted {
		state = "aborted"
	}
	fmt.Fprintf(w, "run %s %s: %d years, %d succeeded, %d errored, %d skipped in %s\n",
		sum.RunID, state, len(sum.Years), sum.Succeeded, sum.Errored, sum.Skipped, sum.Duration.Round(time.Millisecond))
}
