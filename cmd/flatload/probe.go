package main

import (
	"os"
	"path/filepath"

	"github.com/go-faster/errors"
	"github.com/spf13/cobra"

	"flatload/internal/batch"
	"flatload/internal/probe"
)

func newProbeCmd(a *app) *cobra.Command {
	var (
		workers int
		out     string
	)
	cmd := &cobra.Command{
		Use:   "probe [folder]",
		Short: "Decode a MIS folder without touching the database",
		Long: `Decode every eligible file of a folder with its layout and print one CSV
row per file: record type, target table, partition, record and bad-line
counts, checksum and status. Nothing is written to the warehouse.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			folder, err := folderArg(args, a.cfg.MIS.Folder, "MIS folder")
			if err != nil {
				return err
			}
			reg, err := a.registry()
			if err != nil {
				return err
			}
			dec, err := a.decoder()
			if err != nil {
				return err
			}
			m := a.cfg.MIS
			p := probe.New(reg, dec, a.log)
			p.Naming = batch.Naming{
				Extension:      m.Extension,
				PartitionStart: m.PartitionStart,
				PartitionEnd:   m.PartitionEnd,
				TablePrefix:    m.TablePrefix,
				TableSuffix:    m.TableSuffix,
			}
			p.Workers = workers

			rep, err := p.Probe(cmd.Context(), folder)
			if err != nil {
				return err
			}

			w := a.out
			if out != "" {
				if err := os.MkdirAll(filepath.Dir(out), 0o755); err != nil {
					return errors.Wrap(err, "create output dir")
				}
				f, err := os.Create(out)
				if err != nil {
					return errors.Wrap(err, "create output")
				}
				defer f.Close()
				w = f
			}
			if err := rep.WriteCSV(w); err != nil {
				return errors.Wrap(err, "write report")
			}
			return nil
		},
	}
	cmd.Flags().IntVarP(&workers, "workers", "w", 0, "concurrent decodes (0 = GOMAXPROCS)")
	cmd.Flags().StringVarP(&out, "out", "o", "", "write the CSV report to this file instead of stdout")
	return cmd
}
