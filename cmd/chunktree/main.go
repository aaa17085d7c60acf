package main

import (
	"fmt"
	"os"

	"github.com/dustin/go-humanize"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/pointgrid/chunktree/chunks"
	"github.com/pointgrid/chunktree/storage"
	"github.com/pointgrid/chunktree/tree"
)

func main() {
	log := zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr}).
		With().Timestamp().Logger()

	root := &cobra.Command{
		Use:   "chunktree",
		Short: "Inspect the chunk addressing of a point tree dataset",
	}
	root.AddCommand(inspectCommand(log), planCommand(log))

	if err := root.Execute(); err != nil {
		log.Error().Err(err).Msg("command failed")
		os.Exit(1)
	}
}

func loadStructure(configPath string) (*chunks.Structure, error) {
	data, err := os.ReadFile(configPath)
	if err != nil {
		return nil, fmt.Errorf("reading config: %w", err)
	}
	cfg, err := chunks.DecodeConfig(data)
	if err != nil {
		return nil, fmt.Errorf("decoding config: %w", err)
	}
	return chunks.NewStructure(cfg)
}

func inspectCommand(log zerolog.Logger) *cobra.Command {
	var configPath string
	var indexStr string

	cmd := &cobra.Command{
		Use:   "inspect",
		Short: "Locate a global point index in chunk storage",
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := loadStructure(configPath)
			if err != nil {
				return err
			}
			index, err := tree.ParseIndex(indexStr)
			if err != nil {
				return err
			}
			if index.Cmp(s.ColdIndexBegin()) < 0 {
				return fmt.Errorf(
					"index %s is below the chunked region beginning at %s",
					index, s.ColdIndexBegin())
			}

			info := s.Info(index)
			log.Info().Uint64("depth", info.Depth).Msg("index located")

			fmt.Printf("depth:          %d\n", info.Depth)
			fmt.Printf("chunkId:        %s\n", info.ChunkID)
			fmt.Printf("chunkNum:       %s\n", humanize.Comma(int64(info.ChunkNum)))
			fmt.Printf("chunkOffset:    %s\n", humanize.Comma(int64(info.ChunkOffset)))
			fmt.Printf("pointsPerChunk: %s\n", info.PointsPerChunk)
			fmt.Printf("token:          %s\n", storage.ChunkToken(s, info))
			return nil
		},
	}
	cmd.Flags().StringVar(&configPath, "config", "", "Path to the structure configuration document.")
	cmd.Flags().StringVar(&indexStr, "index", "", "Global point index, base 10.")
	_ = cmd.MarkFlagRequired("config")
	_ = cmd.MarkFlagRequired("index")
	return cmd
}

func planCommand(log zerolog.Logger) *cobra.Command {
	var configPath string
	var from, to uint64

	cmd := &cobra.Command{
		Use:   "plan",
		Short: "Print per-depth chunk accounting for a depth range",
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := loadStructure(configPath)
			if err != nil {
				return err
			}
			if !s.HasCold() {
				return fmt.Errorf("structure has no chunked region to plan")
			}
			if from == 0 {
				from = s.ColdDepthBegin()
			}

			log.Info().
				Uint64("sparseDepthBegin", s.SparseDepthBegin()).
				Bool("dynamicChunks", s.DynamicChunks()).
				Msg("accounting")

			for depth := from; depth <= to; depth++ {
				fmt.Printf("depth %3d: %12s chunks of %s points\n",
					depth,
					humanize.Comma(int64(s.NumChunksAtDepth(depth))),
					s.PointsPerChunkAtDepth(depth))
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&configPath, "config", "", "Path to the structure configuration document.")
	cmd.Flags().Uint64Var(&from, "from", 0, "First depth to report; defaults to the cold depth begin.")
	cmd.Flags().Uint64Var(&to, "to", 24, "Last depth to report.")
	_ = cmd.MarkFlagRequired("config")
	return cmd
}
