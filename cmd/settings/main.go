// FILE: lixenwraith/settings/cmd/settings/main.go
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/lixenwraith/settings"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

type sourceFlags struct {
	legacy    string
	files     []string
	envPrefix string
	verbose   bool
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := newRootCmd().ExecuteContext(ctx); err != nil {
		// Cobra prints the error
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	flags := &sourceFlags{}

	root := &cobra.Command{
		Use:   "settings",
		Short: "Inspect layered application settings",
		Long: `settings loads a legacy XML settings file, TOML/JSON/YAML files and
prefixed environment variables, in that order of precedence, and prints
the merged result.`,
		SilenceUsage: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			logger := logrus.New()
			logger.SetOutput(cmd.ErrOrStderr())
			if flags.verbose {
				logger.SetLevel(logrus.DebugLevel)
			} else {
				logger.SetLevel(logrus.WarnLevel)
			}
			settings.SetLogger(logger)
		},
	}

	pf := root.PersistentFlags()
	pf.StringVar(&flags.legacy, "legacy", "", "legacy XML settings file (default <executable>.config when present)")
	pf.StringSliceVar(&flags.files, "file", nil, "TOML, JSON or YAML settings file, repeatable")
	pf.StringVar(&flags.envPrefix, "env-prefix", "", "load environment variables carrying this prefix")
	pf.BoolVarP(&flags.verbose, "verbose", "v", false, "log provider activity")

	root.AddCommand(newDumpCmd(flags))
	root.AddCommand(newGetCmd(flags))
	return root
}

// build composes the providers selected on the command line
func (f *sourceFlags) build() (*settings.Config, error) {
	b := settings.NewBuilder()

	if f.legacy != "" {
		b.AddLegacy(settings.LegacyOptions{Path: f.legacy})
	} else if path, err := settings.DefaultLegacyPath(); err == nil {
		b.AddLegacyFile(path)
	}

	for _, path := range f.files {
		b.AddFile(settings.FileOptions{Path: path})
	}

	if f.envPrefix != "" {
		b.AddEnv(f.envPrefix)
	}
	return b.Build()
}

func newDumpCmd(flags *sourceFlags) *cobra.Command {
	var out, section string
	var indent int

	cmd := &cobra.Command{
		Use:   "dump",
		Short: "Print the merged settings as JSON",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := flags.build()
			if err != nil {
				return err
			}
			defer cfg.Close()

			var r settings.Reader = cfg
			if section != "" {
				r = settings.Sub(cfg, section)
			}

			if out != "" {
				if err := settings.WriteJSONContext(cmd.Context(), r, out); err != nil {
					return fmt.Errorf("write %s: %w", out, err)
				}
				fmt.Fprintf(cmd.ErrOrStderr(), "wrote %s\n", out)
				return nil
			}

			fmt.Fprintln(cmd.OutOrStdout(), settings.ToJSONIndent(r, indent))
			return nil
		},
	}

	cmd.Flags().StringVarP(&out, "out", "o", "", "write to this file instead of stdout")
	cmd.Flags().StringVar(&section, "section", "", "dump only the section at this key")
	cmd.Flags().IntVar(&indent, "indent", 1, "indent level of top-level properties")
	return cmd
}

func newGetCmd(flags *sourceFlags) *cobra.Command {
	var typ string
	var showSource bool

	cmd := &cobra.Command{
		Use:   "get <key>",
		Short: "Print one setting, converted to a type",
		Long: `get reads a single key. --type selects the conversion: string, bool,
int, uint, float, char, duration, time, uuid or list. A value that does
not convert is reported as an error.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := flags.build()
			if err != nil {
				return err
			}
			defer cfg.Close()

			key := args[0]
			if key == "" {
				return fmt.Errorf("key is empty")
			}
			v, ok := readTyped(cfg, key, typ)
			if !ok {
				return fmt.Errorf("key %q is missing or not a valid %s", key, typ)
			}

			if showSource {
				source, _ := cfg.Source(key)
				fmt.Fprintf(cmd.OutOrStdout(), "%v\t(%s)\n", v, source)
				return nil
			}
			fmt.Fprintln(cmd.OutOrStdout(), v)
			return nil
		},
	}

	cmd.Flags().StringVarP(&typ, "type", "t", "string", "conversion to apply")
	cmd.Flags().BoolVar(&showSource, "source", false, "also print the provider supplying the value")
	return cmd
}

func readTyped(r settings.Reader, key, typ string) (any, bool) {
	switch typ {
	case "string":
		return settings.TryGetString(r, key)
	case "bool":
		return settings.TryGetBool(r, key)
	case "int":
		return settings.TryGetInt64(r, key)
	case "uint":
		return settings.TryGetUint64(r, key)
	case "float":
		return settings.TryGetFloat64(r, key)
	case "char":
		c, ok := settings.TryGetRune(r, key)
		return string(c), ok
	case "duration":
		return settings.TryGetDuration(r, key)
	case "time":
		return settings.TryGetTime(r, key)
	case "uuid":
		return settings.TryGetUUID(r, key)
	case "list":
		return settings.TryGetAsList[string](r, key)
	}
	return nil, false
}
