package cli

import (
	"fmt"
	"os"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/permanode/permastore/internal/hexdata"
	core "github.com/permanode/permastore/internal/nodestore"
)

func parseNodeID(raw string) (uint64, error) {
	id, err := strconv.ParseUint(raw, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid node id %q: want a decimal uint64", raw)
	}
	return id, nil
}

// NewSetCommand creates the set command.
func NewSetCommand(rootOpts *RootOptions) *cobra.Command {
	var fromFile string

	cmd := &cobra.Command{
		Use:   "set <scope> <id> [hex-data]",
		Short: "Write a node",
		Long: `Write data on a node, allocating it if necessary.

Data is given as hex text, or read from a file with --file. On a frozen
scope only brand-new ids are writable.

Example:
  permastore set alice 1 deadbeef
  permastore set alice 2 --file payload.bin`,
		Args:          cobra.RangeArgs(2, 3),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseNodeID(args[1])
			if err != nil {
				return err
			}
			var data []byte
			switch {
			case fromFile != "" && len(args) == 3:
				return fmt.Errorf("give hex data or --file, not both")
			case fromFile != "":
				data, err = os.ReadFile(fromFile)
				if err != nil {
					return fmt.Errorf("read %s: %w", fromFile, err)
				}
			case len(args) == 3:
				data, err = hexdata.Decode(args[2])
				if err != nil {
					return err
				}
			default:
				return fmt.Errorf("hex data or --file is required")
			}

			client, err := dial(cmd.Context(), rootOpts)
			if err != nil {
				return err
			}
			defer client.Close()

			if err := client.Set(cmd.Context(), args[0], id, data); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "set %s/%d (%d bytes)\n", args[0], id, len(data))
			return nil
		},
	}

	cmd.Flags().StringVar(&fromFile, "file", "", "read node data from a file")

	return cmd
}

// NewDelCommand creates the del command.
func NewDelCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:           "del <scope> <id>",
		Short:         "Erase a node",
		Args:          cobra.ExactArgs(2),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseNodeID(args[1])
			if err != nil {
				return err
			}
			client, err := dial(cmd.Context(), rootOpts)
			if err != nil {
				return err
			}
			defer client.Close()

			if err := client.Del(cmd.Context(), args[0], id); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "deleted %s/%d\n", args[0], id)
			return nil
		},
	}
}

// NewGetCommand creates the get command.
func NewGetCommand(rootOpts *RootOptions) *cobra.Command {
	var toFile string

	cmd := &cobra.Command{
		Use:           "get <scope> <id>",
		Short:         "Read a node",
		Args:          cobra.ExactArgs(2),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseNodeID(args[1])
			if err != nil {
				return err
			}
			client, err := dial(cmd.Context(), rootOpts)
			if err != nil {
				return err
			}
			defer client.Close()

			data, err := client.Get(cmd.Context(), args[0], id)
			if err != nil {
				return err
			}
			if toFile != "" {
				if err := os.WriteFile(toFile, data, 0o644); err != nil {
					return fmt.Errorf("write %s: %w", toFile, err)
				}
				fmt.Fprintf(cmd.OutOrStdout(), "wrote %d bytes to %s\n", len(data), toFile)
				return nil
			}
			fmt.Fprintln(cmd.OutOrStdout(), hexdata.Encode(data))
			return nil
		},
	}

	cmd.Flags().StringVar(&toFile, "out", "", "write node data to a file")

	return cmd
}

// NewFreezeCommand creates the freeze command.
func NewFreezeCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "freeze <scope>",
		Short: "Permanently freeze a scope",
		Long: `Write the freeze sentinel to node 0.

Freezing is one way: every node already present in the scope becomes
permanent. Empty ids still accept new writes afterward.`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := dial(cmd.Context(), rootOpts)
			if err != nil {
				return err
			}
			defer client.Close()

			if err := client.Set(cmd.Context(), args[0], 0, core.Sentinel); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "scope %s is now immutable\n", args[0])
			return nil
		},
	}
}

// NewStatusCommand creates the status command.
func NewStatusCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:           "status <scope>",
		Short:         "Report whether a scope is frozen",
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := dial(cmd.Context(), rootOpts)
			if err != nil {
				return err
			}
			defer client.Close()

			frozen, err := client.IsImmutable(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			if frozen {
				fmt.Fprintf(cmd.OutOrStdout(), "scope %s is immutable\n", args[0])
			} else {
				fmt.Fprintf(cmd.OutOrStdout(), "scope %s is mutable\n", args[0])
			}
			return nil
		},
	}
}

// NewUsageCommand creates the usage command.
func NewUsageCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:           "usage <scope>",
		Short:         "Report storage attributed to a scope owner",
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := dial(cmd.Context(), rootOpts)
			if err != nil {
				return err
			}
			defer client.Close()

			usage, err := client.GetUsage(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "scope %s: %d nodes, %d bytes\n", usage.Scope, usage.NodeCount, usage.TotalBytes)
			return nil
		},
	}
}
