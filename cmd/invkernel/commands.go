package main

import (
	"encoding/hex"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/invariant-sdk/kernel"
	"github.com/invariant-sdk/kernel/codec"
	"github.com/invariant-sdk/kernel/crystal"
	"github.com/invariant-sdk/kernel/identity"
	"github.com/invariant-sdk/kernel/identity/blocktree"
)

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "invkernel",
		Short:         "Token identity and vector crystallization",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().String("config", "", "YAML config file")

	root.AddCommand(
		newDigestCmd(),
		newBondCmd(),
		newMetricsCmd(),
		newCrystallizeCmd(),
		newBlocksCmd(),
	)
	return root
}

// loadConfig reads --config when set and falls back to defaults.
func loadConfig(cmd *cobra.Command) (kernel.Config, error) {
	path, _ := cmd.Flags().GetString("config")
	if path == "" {
		return kernel.DefaultConfig(), nil
	}
	return kernel.LoadConfig(path)
}

func newDigestCmd() *cobra.Command {
	var short bool
	cmd := &cobra.Command{
		Use:   "digest TOKEN...",
		Short: "Print the canonical identity of each token",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()
			for _, tok := range args {
				d := identity.TokenDigestString(tok)
				if short {
					d = identity.Hash16Hex([]byte(tok))
				}
				fmt.Fprintf(out, "%s\t%s\n", d, tok)
			}
			return nil
		},
	}
	cmd.Flags().BoolVar(&short, "short", false, "print the 16-byte address instead of the full digest")
	return cmd
}

func newBondCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "bond U V REL",
		Short: "Print the identifier of the directed bond U -REL-> V",
		Args:  cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			fmt.Fprintln(cmd.OutOrStdout(), identity.BondDigest(args[0], args[1], args[2]))
			return nil
		},
	}
}

type metricsDoc struct {
	Token     string `json:"token"`
	Weight    uint32 `json:"weight"`
	Depth     uint32 `json:"depth"`
	Leaves    uint32 `json:"leaves"`
	ShapeHash uint64 `json:"shape_hash"`
}

func newMetricsCmd() *cobra.Command {
	var bit bool
	cmd := &cobra.Command{
		Use:   "metrics TOKEN",
		Short: "Print the tree metrics of a token as JSON",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(cmd)
			if err != nil {
				return err
			}
			m := identity.ComputeMetrics([]byte(args[0]), !bit)
			b, err := cfg.PayloadCodec().Marshal(metricsDoc{
				Token:     args[0],
				Weight:    m.Weight,
				Depth:     m.Depth,
				Leaves:    m.Leaves,
				ShapeHash: m.ShapeHash,
			})
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), string(b))
			return nil
		},
	}
	cmd.Flags().BoolVar(&bit, "bit", false, "bit-level instead of atomic metrics")
	return cmd
}

func newCrystallizeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "crystallize [FILE]",
		Short: "Build the similarity graph of a JSON vector matrix (FILE or stdin)",
		Args:  cobra.MaximumNArgs(1),
		RunE:  runCrystallize,
	}
	f := cmd.Flags()
	f.String("mode", "", "exact or approx")
	f.Float32("threshold", 0, "minimum score (exclusive)")
	f.Int("top-k", 0, "neighbors per vector in approx mode")
	f.Int("workers", 0, "worker pool size (0 = GOMAXPROCS)")
	f.Int64("seed", 0, "HNSW level seed")
	f.String("format", "json", "output format: json or frame")
	f.String("compression", "", "frame compression: none, lz4 or zstd")
	return cmd
}

// applyFlags overrides config fields with explicitly set flags.
func applyFlags(cmd *cobra.Command, cfg *kernel.Config) {
	f := cmd.Flags()
	if f.Changed("mode") {
		cfg.Mode, _ = f.GetString("mode")
	}
	if f.Changed("threshold") {
		cfg.Threshold, _ = f.GetFloat32("threshold")
	}
	if f.Changed("top-k") {
		cfg.TopK, _ = f.GetInt("top-k")
	}
	if f.Changed("workers") {
		cfg.Workers, _ = f.GetInt("workers")
	}
	if f.Changed("seed") {
		seed, _ := f.GetInt64("seed")
		cfg.Seed = &seed
	}
	if f.Changed("compression") {
		cfg.Compression, _ = f.GetString("compression")
	}
}

func runCrystallize(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	applyFlags(cmd, &cfg)
	if err := cfg.Validate(); err != nil {
		return err
	}

	format, _ := cmd.Flags().GetString("format")
	if format != "json" && format != "frame" {
		return fmt.Errorf("unknown format %q", format)
	}

	data, err := readInput(cmd, args)
	if err != nil {
		return err
	}
	vectors, err := codec.DecodeVectors(cfg.PayloadCodec(), data)
	if err != nil {
		return err
	}

	k, err := kernel.New(cfg.Options()...)
	if err != nil {
		return err
	}
	edges, err := k.Crystallize(cmd.Context(), vectors, cfg.Threshold)
	if err != nil {
		return err
	}
	crystal.Sort(edges)

	out := cmd.OutOrStdout()
	if format == "frame" {
		frame, err := k.EncodeEdges(edges)
		if err != nil {
			return err
		}
		_, err = out.Write(frame)
		return err
	}

	b, err := codec.AppendEdges(nil, cfg.PayloadCodec(), edges)
	if err != nil {
		return err
	}
	_, err = out.Write(b)
	return err
}

func newBlocksCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "blocks [FILE]",
		Short: "Segment text into blocks and print each block's Merkle root",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			data, err := readInput(cmd, args)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			for i, block := range blocktree.SegmentBlocks(string(data)) {
				tree := blocktree.Build(strings.Fields(block), nil)
				fmt.Fprintf(out, "%d\t%s\t%d\n", i, hex.EncodeToString(tree.Root.Hash[:]), len(tree.Leaves))
			}
			return nil
		},
	}
}

// readInput reads args[0], or stdin when absent or "-".
func readInput(cmd *cobra.Command, args []string) ([]byte, error) {
	if len(args) == 0 || args[0] == "-" {
		return io.ReadAll(cmd.InOrStdin())
	}
	return os.ReadFile(args[0])
}
