package main

import (
	"fmt"
	"io"
	"os"

	"github.com/RuiFG/streaming/streaming-state/store"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"
)

var restoreOutput string

// pairArgs accepts one or more <type> <id> pairs.
func pairArgs(_ *cobra.Command, args []string) error {
	if len(args) == 0 || len(args)%2 != 0 {
		return errors.Errorf("expected <type> <id> pairs, got %d args", len(args))
	}
	return nil
}

// withRuntime wraps fn so it runs with a runtime that is released afterwards.
func withRuntime(fn func(cmd *cobra.Command, r *runtime, args []string) error) func(*cobra.Command, []string) error {
	return func(cmd *cobra.Command, args []string) error {
		r, err := openRuntime()
		if err != nil {
			return err
		}
		defer r.close()
		return fn(cmd, r, args)
	}
}

func init() {
	restore := &cobra.Command{
		Use:   "restore <type> <id> [<type> <id>...]",
		Short: "print state values in argument order, the remote copy wins over the local one",
		Long:  "print state values in argument order, the remote copy wins over the local one.\nkeys found in neither store are reported on stderr.",
		Args:  pairArgs,
		RunE: withRuntime(func(cmd *cobra.Command, r *runtime, args []string) error {
			toFile := restoreOutput != "" && restoreOutput != "-"
			if toFile && len(args) > 2 {
				return errors.New("--output takes a single key")
			}
			dual, err := r.dual()
			if err != nil {
				return err
			}
			keys := make([]store.Key, 0, len(args)/2)
			for i := 0; i < len(args); i += 2 {
				keys = append(keys, dual.BuildKey(args[i], args[i+1]))
			}
			restored, err := dual.Restore(cmd.Context(), keys)
			if err != nil {
				return err
			}
			for _, key := range keys {
				value, ok := restored[key]
				if !ok {
					_, _ = fmt.Fprintf(cmd.ErrOrStderr(), "%s not found in either store\n", key)
					continue
				}
				if toFile {
					if err = os.WriteFile(restoreOutput, value, 0o644); err != nil {
						return err
					}
					continue
				}
				if _, err = cmd.OutOrStdout().Write(value); err != nil {
					return err
				}
			}
			return nil
		}),
	}
	restore.Flags().StringVarP(&restoreOutput, "output", "o", "", "write the value to this file instead of stdout")

	save := &cobra.Command{
		Use:   "save <type> <id> [file]",
		Short: "store a value read from file or stdin in both stores",
		Args:  cobra.RangeArgs(2, 3),
		RunE: withRuntime(func(cmd *cobra.Command, r *runtime, args []string) error {
			var (
				value []byte
				err   error
			)
			if len(args) == 3 && args[2] != "-" {
				value, err = os.ReadFile(args[2])
			} else {
				value, err = io.ReadAll(cmd.InOrStdin())
			}
			if err != nil {
				return errors.WithMessage(err, "failed to read value")
			}
			dual, err := r.dual()
			if err != nil {
				return err
			}
			key := dual.BuildKey(args[0], args[1])
			if err = dual.Save(cmd.Context(), []store.Entry[[]byte]{{Key: key, Value: value}}); err != nil {
				return err
			}
			r.logger.Infow("saved state", "key", key.String(), "bytes", len(value))
			return nil
		}),
	}

	chunks := &cobra.Command{
		Use:   "chunks <type> <id>",
		Short: "print how many chunks the remote table holds for a key",
		Args:  cobra.ExactArgs(2),
		RunE: withRuntime(func(cmd *cobra.Command, r *runtime, args []string) error {
			count, err := r.remote.ChunkCount(cmd.Context(), store.NewKey(args[0], args[1]))
			if err != nil {
				return err
			}
			_, err = fmt.Fprintln(cmd.OutOrStdout(), count)
			return err
		}),
	}

	remove := &cobra.Command{
		Use:   "delete <type> <id>",
		Short: "delete every remote chunk of a key, the local copy is kept",
		Args:  cobra.ExactArgs(2),
		RunE: withRuntime(func(cmd *cobra.Command, r *runtime, args []string) error {
			return r.remote.DeleteObject(cmd.Context(), store.NewKey(args[0], args[1]))
		}),
	}

	createTable := &cobra.Command{
		Use:   "create-table",
		Short: "provision the remote table if it does not exist",
		Args:  cobra.NoArgs,
		RunE: withRuntime(func(cmd *cobra.Command, r *runtime, args []string) error {
			return r.table.CreateTable(cmd.Context())
		}),
	}

	Command.AddCommand(restore, save, chunks, remove, createTable)
}
