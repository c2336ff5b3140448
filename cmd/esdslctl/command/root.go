// Package command implements esdslctl, an offline client for inspecting schemas and
// compiling queries without running the service.
package command

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/kailas-cloud/esdsl/internal/version"
	esdsl "github.com/kailas-cloud/esdsl/pkg/sdk"
)

type commandline struct {
	configPath string
	verbose    bool
	client     *esdsl.Client
}

// NewRoot returns the esdslctl root command.
func NewRoot() *cobra.Command {
	cl := &commandline{}

	root := &cobra.Command{
		Use:           "esdslctl",
		Short:         "Inspect esdsl schemas and compile queries",
		Version:       version.String(),
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return cl.connect(cmd)
		},
	}
	root.PersistentFlags().StringVarP(&cl.configPath, "config", "c", "config/local.yaml", "config file with a schemas section")
	root.PersistentFlags().BoolVarP(&cl.verbose, "verbose", "v", false, "log every operation to stderr")

	cl.mappings(root)
	cl.mapping(root)
	cl.document(root)
	cl.kinds(root)
	cl.compile(root)
	cl.combine(root)

	root.SetErr(os.Stderr)
	return root
}

func (cl *commandline) connect(cmd *cobra.Command) error {
	opts := []esdsl.Option{esdsl.WithConfigFile(cl.configPath)}
	if cl.verbose {
		opts = append(opts, esdsl.WithLogger(slog.New(slog.NewTextHandler(cmd.ErrOrStderr(),
			&slog.HandlerOptions{Level: slog.LevelDebug}))))
	}

	client, err := esdsl.New(opts...)
	if err != nil {
		return fmt.Errorf("load %s: %w", cl.configPath, err)
	}
	cl.client = client
	return nil
}
