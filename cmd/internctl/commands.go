package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"
	"github.com/vmihailenco/msgpack/v5"

	"github.com/plc-visualizer/strintern/internal/intern"
	"github.com/plc-visualizer/strintern/internal/logging"
	"github.com/plc-visualizer/strintern/internal/models"
	"github.com/plc-visualizer/strintern/internal/preload"
)

type rootOptions struct {
	hasher   string
	logLevel string
}

func newRootCmd() *cobra.Command {
	opts := &rootOptions{}

	root := &cobra.Command{
		Use:           "internctl",
		Short:         "Offline tools for strintern symbol tables",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().StringVar(&opts.hasher, "hasher", intern.DefaultHasher,
		"hash function ("+strings.Join(intern.HasherNames(), ", ")+")")
	root.PersistentFlags().StringVar(&opts.logLevel, "log-level", "warn", "log level")

	root.AddCommand(
		newHashCmd(opts),
		newInspectCmd(opts),
		newExportCmd(opts),
	)
	return root
}

// registry builds a private registry logging to stderr.
func (o *rootOptions) registry(cmd *cobra.Command) (*intern.Registry, error) {
	h, err := intern.HasherByName(o.hasher)
	if err != nil {
		return nil, err
	}
	logger, err := logging.NewWithOutput(cmd.ErrOrStderr(), o.logLevel, "text")
	if err != nil {
		return nil, err
	}
	return intern.NewRegistry(
		intern.WithHasher(strings.ToLower(o.hasher), h),
		intern.WithLogger(logger),
	), nil
}

func newHashCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "hash TEXT...",
		Short: "Print the identifier each argument would be interned under",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			r, err := opts.registry(cmd)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			for _, a := range args {
				id := r.Hash(a)
				fmt.Fprintf(out, "0x%s\t%d\t%s\n", id, uint64(id), a)
			}
			return nil
		},
	}
}

func newInspectCmd(opts *rootOptions) *cobra.Command {
	var showAll bool

	cmd := &cobra.Command{
		Use:   "inspect FILE",
		Short: "Load a preload file and report its table and collisions",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			r, err := opts.registry(cmd)
			if err != nil {
				return err
			}
			res, err := preload.LoadFile(r, args[0])
			if err != nil {
				return err
			}
			return writeInspect(cmd.OutOrStdout(), r, res, showAll)
		},
	}
	cmd.Flags().BoolVar(&showAll, "all", false, "list every entry, not only collisions")
	return cmd
}

func writeInspect(w io.Writer, r *intern.Registry, res preload.Result, showAll bool) error {
	if showAll {
		table := tablewriter.NewWriter(w)
		table.Header("ID", "Hex", "Text")
		for _, e := range r.Entries() {
			if err := table.Append(strconv.FormatUint(uint64(e.ID), 10), "0x"+e.ID.String(), e.Text); err != nil {
				return err
			}
		}
		if err := table.Render(); err != nil {
			return err
		}
	}

	if len(res.Collisions) > 0 {
		table := tablewriter.NewWriter(w)
		table.Header("Hex", "Canonical", "Shadowed")
		for _, c := range res.Collisions {
			if err := table.Append("0x"+c.ID.String(), c.Canonical, c.Text); err != nil {
				return err
			}
		}
		if err := table.Render(); err != nil {
			return err
		}
	}

	fmt.Fprintf(w, "hasher=%s entries=%d interned=%d duplicates=%d collisions=%d\n",
		r.HasherName(), r.Len(), res.Interned, res.AlreadyPresent, len(res.Collisions))
	return nil
}

func newExportCmd(opts *rootOptions) *cobra.Command {
	var (
		format string
		output string
	)

	cmd := &cobra.Command{
		Use:   "export FILE",
		Short: "Load a preload file and write the resulting snapshot",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			r, err := opts.registry(cmd)
			if err != nil {
				return err
			}
			if _, err := preload.LoadFile(r, args[0]); err != nil {
				return err
			}

			w := cmd.OutOrStdout()
			if output != "" && output != "-" {
				f, err := os.Create(output)
				if err != nil {
					return err
				}
				defer f.Close()
				w = f
			}
			return writeSnapshot(w, models.NewSnapshot(r), format)
		},
	}
	cmd.Flags().StringVarP(&format, "format", "f", "json", "output format (json, msgpack)")
	cmd.Flags().StringVarP(&output, "output", "o", "-", "output file")
	return cmd
}

func writeSnapshot(w io.Writer, snap models.Snapshot, format string) error {
	switch strings.ToLower(format) {
	case "json":
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(snap)
	case "msgpack":
		return msgpack.NewEncoder(w).Encode(snap)
	default:
		return fmt.Errorf("unknown format %q", format)
	}
}
