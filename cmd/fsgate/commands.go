package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"fsgate/internal/config"
	"fsgate/internal/engine"
	"fsgate/internal/logging"
)

// app carries the state shared by all subcommands: the engine built from
// the loaded configuration.
type app struct {
	cfgPath string
	eng     *engine.Engine
	logger  *logging.AppLogger
}

// setup loads the configuration and builds the engine. On first run the
// defaults are persisted so the effective sandbox can be inspected and
// edited afterwards.
func (a *app) setup() error {
	a.logger = logging.NewAppLogger()

	var cfg *config.Config
	switch {
	case a.cfgPath != "":
		loaded, err := config.LoadFrom(a.cfgPath)
		if err != nil {
			return err
		}
		cfg = loaded
	case config.IsFirstRun():
		defaults := config.DefaultConfig()
		if err := defaults.Save(); err != nil {
			a.logger.Warn("Could not persist default config", "error", err)
		}
		cfg = &defaults
	default:
		loaded, err := config.Load()
		if err != nil {
			return err
		}
		cfg = loaded
	}

	store, err := cfg.Policy()
	if err != nil {
		return fmt.Errorf("invalid policy configuration: %w", err)
	}

	a.eng = engine.New(store, a.logger)
	a.logger.Debug("Engine ready", "roots", store.Roots(), "max_bytes", store.MaxBytes())
	return nil
}

func newRootCmd() *cobra.Command {
	a := &app{}

	root := &cobra.Command{
		Use:           "fsgate",
		Short:         "Sandboxed file access from the command line",
		Long:          "fsgate mediates file reads, writes, listings, searches, and hashing\nthrough an allow-listed directory sandbox with extension and size policies.",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.setup()
		},
	}
	root.PersistentFlags().StringVar(&a.cfgPath, "config", "", "path to config file (default: XDG config dir)")

	root.AddCommand(
		newReadCmd(a),
		newWriteCmd(a),
		newListCmd(a),
		newSearchCmd(a),
		newInfoCmd(a),
		newHashCmd(a),
	)
	return root
}

func newReadCmd(a *app) *cobra.Command {
	var maxSize int64
	cmd := &cobra.Command{
		Use:     "read <path>",
		Aliases: []string{engine.OpRead},
		Short:   "Read a file inside the sandbox",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			res, err := a.eng.Read(args[0], maxSize)
			if err != nil {
				return err
			}
			return renderJSON(cmd.OutOrStdout(), res)
		},
	}
	cmd.Flags().Int64Var(&maxSize, "max-size", 0, "per-call size limit in bytes (never above the configured ceiling)")
	return cmd
}

func newWriteCmd(a *app) *cobra.Command {
	var createDirs bool
	cmd := &cobra.Command{
		Use:     "write <path> <content>",
		Aliases: []string{engine.OpWrite},
		Short:   "Write a file inside the sandbox ('-' reads content from stdin)",
		Args:    cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			content := args[1]
			if content == "-" {
				data, err := io.ReadAll(cmd.InOrStdin())
				if err != nil {
					return fmt.Errorf("failed to read content from stdin: %w", err)
				}
				content = string(data)
			}

			res, err := a.eng.Write(args[0], content, createDirs)
			if err != nil {
				return err
			}
			return renderJSON(cmd.OutOrStdout(), res)
		},
	}
	cmd.Flags().BoolVar(&createDirs, "create-dirs", false, "create missing parent directories")
	return cmd
}

func newListCmd(a *app) *cobra.Command {
	var hidden bool
	cmd := &cobra.Command{
		Use:     "list <directory>",
		Aliases: []string{engine.OpList},
		Short:   "List a directory inside the sandbox",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			res, err := a.eng.List(args[0], hidden)
			if err != nil {
				return err
			}
			return renderJSON(cmd.OutOrStdout(), res)
		},
	}
	cmd.Flags().BoolVar(&hidden, "hidden", false, "include hidden entries")
	return cmd
}

func newSearchCmd(a *app) *cobra.Command {
	var content bool
	cmd := &cobra.Command{
		Use:     "search <directory> <pattern>",
		Aliases: []string{engine.OpSearch},
		Short:   "Search a sandbox subtree by name and optionally content",
		Args:    cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			res, err := a.eng.Search(args[0], args[1], content)
			if err != nil {
				return err
			}
			return renderJSON(cmd.OutOrStdout(), res)
		},
	}
	cmd.Flags().BoolVar(&content, "content", false, "also match file contents")
	return cmd
}

func newInfoCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:     "info <path>",
		Aliases: []string{engine.OpInfo},
		Short:   "Show metadata for a file or directory inside the sandbox",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			res, err := a.eng.Info(args[0])
			if err != nil {
				return err
			}
			return renderJSON(cmd.OutOrStdout(), res)
		},
	}
}

func newHashCmd(a *app) *cobra.Command {
	var maxSize int64
	cmd := &cobra.Command{
		Use:     "hash <path>",
		Aliases: []string{engine.OpHash},
		Short:   "Hash a file inside the sandbox (xxh64, md5, sha1, sha256)",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			res, err := a.eng.Hash(args[0], maxSize)
			if err != nil {
				return err
			}
			return renderJSON(cmd.OutOrStdout(), res)
		},
	}
	cmd.Flags().Int64Var(&maxSize, "max-size", 0, "per-call size limit in bytes (never above the configured ceiling)")
	return cmd
}

func renderJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// renderError prints failures in the same JSON shape as results, carrying
// the stable error kind when the failure came from the engine.
func renderError(w io.Writer, err error) {
	payload := map[string]string{"error": err.Error()}
	if kind := engine.KindOf(err); kind != "" {
		payload["kind"] = string(kind)
	}
	if jerr := renderJSON(w, payload); jerr != nil {
		fmt.Fprintln(os.Stderr, err)
	}
}
