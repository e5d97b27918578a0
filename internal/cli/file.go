package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/permanode/permastore/internal/chunk"
)

// NewPutFileCommand creates the put-file command.
func NewPutFileCommand(rootOpts *RootOptions) *cobra.Command {
	var chunkSize int

	cmd := &cobra.Command{
		Use:   "put-file <scope> <first-id> <path>",
		Short: "Store a file across consecutive nodes",
		Long: `Split a file into chunks and store them on consecutive node ids
starting at first-id. Retrieve with get-file using the same first id
and the printed chunk count.

Example:
  permastore put-file alice 100 photo.jpg`,
		Args:          cobra.ExactArgs(3),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			first, err := parseNodeID(args[1])
			if err != nil {
				return err
			}
			data, err := os.ReadFile(args[2])
			if err != nil {
				return fmt.Errorf("read %s: %w", args[2], err)
			}
			chunks, err := chunk.Split(data, chunkSize)
			if err != nil {
				return err
			}
			ids, err := chunk.IDs(first, len(chunks))
			if err != nil {
				return err
			}

			client, err := dial(cmd.Context(), rootOpts)
			if err != nil {
				return err
			}
			defer client.Close()

			for i, id := range ids {
				if err := client.Set(cmd.Context(), args[0], id, chunks[i]); err != nil {
					return fmt.Errorf("store chunk %d of %d (node %d): %w", i+1, len(chunks), id, err)
				}
			}
			fmt.Fprintf(cmd.OutOrStdout(), "stored %s as %d chunks at %s/%d..%d\n",
				args[2], len(chunks), args[0], ids[0], ids[len(ids)-1])
			return nil
		},
	}

	cmd.Flags().IntVar(&chunkSize, "chunk-size", chunk.DefaultSize, "chunk size in bytes")

	return cmd
}

// NewGetFileCommand creates the get-file command.
func NewGetFileCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:           "get-file <scope> <first-id> <count> <path>",
		Short:         "Reassemble a file from consecutive nodes",
		Args:          cobra.ExactArgs(4),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			first, err := parseNodeID(args[1])
			if err != nil {
				return err
			}
			count, err := parseChunkCount(args[2])
			if err != nil {
				return err
			}
			ids, err := chunk.IDs(first, count)
			if err != nil {
				return err
			}

			client, err := dial(cmd.Context(), rootOpts)
			if err != nil {
				return err
			}
			defer client.Close()

			chunks := make([][]byte, 0, len(ids))
			for i, id := range ids {
				data, err := client.Get(cmd.Context(), args[0], id)
				if err != nil {
					return fmt.Errorf("fetch chunk %d of %d (node %d): %w", i+1, len(ids), id, err)
				}
				chunks = append(chunks, data)
			}
			joined := chunk.Join(chunks)
			if err := os.WriteFile(args[3], joined, 0o644); err != nil {
				return fmt.Errorf("write %s: %w", args[3], err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "wrote %d bytes to %s\n", len(joined), args[3])
			return nil
		},
	}

	return cmd
}

func parseChunkCount(raw string) (int, error) {
	var count int
	if _, err := fmt.Sscanf(raw, "%d", &count); err != nil || count <= 0 {
		return 0, fmt.Errorf("invalid chunk count %q: want a positive integer", raw)
	}
	return count, nil
}
