package main

import (
	"encoding/json"
	"fmt"
	"hash/maphash"
	"io"
	"math/rand/v2"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/vancomm/untangle-server/internal/untangle"
)

type puzzleOutput struct {
	N                int    `json:"n" yaml:"n"`
	Seed             uint64 `json:"seed" yaml:"seed"`
	Desc             string `json:"desc" yaml:"desc"`
	Aux              string `json:"aux" yaml:"aux"`
	Edges            int    `json:"edges" yaml:"edges"`
	ScrambleAttempts int    `json:"scramble_attempts" yaml:"scramble_attempts"`
}

type pointOutput struct {
	X int64 `json:"x" yaml:"x"`
	Y int64 `json:"y" yaml:"y"`
	D int64 `json:"d" yaml:"d"`
}

type checkOutput struct {
	Completed bool          `json:"completed" yaml:"completed"`
	Cheated   bool          `json:"cheated" yaml:"cheated"`
	Crossing  [][2]int      `json:"crossing,omitempty" yaml:"crossing,omitempty"`
	Points    []pointOutput `json:"points" yaml:"points"`
}

func encode(w io.Writer, format string, v any) error {
	switch format {
	case "json":
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(v)
	case "yaml":
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(v); err != nil {
			return err
		}
		return enc.Close()
	default:
		return fmt.Errorf("unknown format %q, want json or yaml", format)
	}
}

func newRootCmd() *cobra.Command {
	var format string

	rootCmd := &cobra.Command{
		Use:          "untangle",
		Short:        "Generate and check untangle puzzles",
		SilenceUsage: true,
	}
	rootCmd.PersistentFlags().StringVarP(&format, "format", "f", "json", "Output format: 'json' or 'yaml'")

	rootCmd.AddCommand(
		newGenerateCmd(&format),
		newCheckCmd(&format),
		newAnimateCmd(&format),
		newPresetsCmd(&format),
	)
	return rootCmd
}

func newGenerateCmd(format *string) *cobra.Command {
	var (
		points string
		seed   uint64
	)
	cmd := &cobra.Command{
		Use:   "generate",
		Short: "Generate a puzzle and print its description and solution",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if seed == 0 {
				seed = new(maphash.Hash).Sum64()
			}
			params := untangle.ParseParams(points)
			puzzle, err := untangle.NewPuzzle(params, rand.New(rand.NewPCG(seed, seed)))
			if err != nil {
				return err
			}
			return encode(cmd.OutOrStdout(), *format, puzzleOutput{
				N:                params.N,
				Seed:             seed,
				Desc:             puzzle.Desc,
				Aux:              puzzle.Aux,
				Edges:            puzzle.Edges,
				ScrambleAttempts: puzzle.ScrambleAttempts,
			})
		},
	}
	cmd.Flags().StringVarP(&points, "points", "n", untangle.DefaultParams().String(), "Number of points")
	cmd.Flags().Uint64Var(&seed, "seed", 0, "Random seed, 0 picks one")
	return cmd
}

func newCheckCmd(format *string) *cobra.Command {
	var (
		points string
		desc   string
	)
	cmd := &cobra.Command{
		Use:   "check [move...]",
		Short: "Lay out a description on its starting circle, apply moves and report crossings",
		RunE: func(cmd *cobra.Command, args []string) error {
			state, err := untangle.NewState(untangle.ParseParams(points), desc)
			if err != nil {
				return err
			}
			for _, move := range args {
				if state, err = state.Apply(move); err != nil {
					return fmt.Errorf("move %q: %w", move, err)
				}
			}

			out := checkOutput{
				Completed: state.Completed,
				Cheated:   state.Cheated,
				Points:    pointsOutput(state.Points),
			}
			if e, f, ok := state.Crossing(); ok {
				out.Crossing = [][2]int{{e.A, e.B}, {f.A, f.B}}
			}
			return encode(cmd.OutOrStdout(), *format, out)
		},
	}
	cmd.Flags().StringVarP(&points, "points", "n", untangle.DefaultParams().String(), "Number of points")
	cmd.Flags().StringVarP(&desc, "desc", "d", "", "Edge list, e.g. 0-1,1-2")
	return cmd
}

func newAnimateCmd(format *string) *cobra.Command {
	var (
		points string
		desc   string
		frames int64
	)
	cmd := &cobra.Command{
		Use:   "animate [move]",
		Short: "Print the intermediate layouts a client draws while a move slides the points",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if frames < 1 {
				return fmt.Errorf("frames must be positive, got %d", frames)
			}
			from, err := untangle.NewState(untangle.ParseParams(points), desc)
			if err != nil {
				return err
			}
			to, err := from.Apply(args[0])
			if err != nil {
				return fmt.Errorf("move %q: %w", args[0], err)
			}

			out := make([][]pointOutput, 0, frames+1)
			for k := range frames + 1 {
				layout := make([]untangle.Point, len(from.Points))
				for i := range layout {
					layout[i] = untangle.Mix(from.Points[i], to.Points[i], k, frames)
				}
				out = append(out, pointsOutput(layout))
			}
			return encode(cmd.OutOrStdout(), *format, out)
		},
	}
	cmd.Flags().StringVarP(&points, "points", "n", untangle.DefaultParams().String(), "Number of points")
	cmd.Flags().StringVarP(&desc, "desc", "d", "", "Edge list, e.g. 0-1,1-2")
	cmd.Flags().Int64Var(&frames, "frames", 4, "Number of steps between the two layouts")
	return cmd
}

func pointsOutput(pts []untangle.Point) []pointOutput {
	out := make([]pointOutput, len(pts))
	for i, p := range pts {
		out[i] = pointOutput{p.X, p.Y, p.D}
	}
	return out
}

func newPresetsCmd(format *string) *cobra.Command {
	return &cobra.Command{
		Use:   "presets",
		Short: "List the preset puzzle sizes",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return encode(cmd.OutOrStdout(), *format, untangle.Presets())
		},
	}
}
