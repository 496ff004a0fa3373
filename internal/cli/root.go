package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/alechenninger/ovirt-findip/internal/config"
	"github.com/alechenninger/ovirt-findip/internal/domain"
	"github.com/alechenninger/ovirt-findip/internal/ovirt"
	"github.com/spf13/afero"
	"github.com/spf13/cobra"
)

const binName = "ovirt-findip"

var errUsage = errors.New("usage")

// small indirection for testability
var newInventory = func(c config.Connection, caCert []byte) domain.Inventory {
	return ovirt.New(c, caCert)
}

type options struct {
	json     bool
	verbose  bool
	all      bool
	insecure bool
}

func newRootCmd(fs afero.Fs, version string) *cobra.Command {
	o := &options{}
	cmd := &cobra.Command{
		Use:   binName + " USERNAME PASSWORD TRUSTSTORE SERVER CLUSTER VM",
		Short: "Print the guest-reported IP of an oVirt VM",
		Long: `Connects to an oVirt/RHV engine, finds the VM by name (optionally within
one cluster; pass "" for any cluster) and prints the first IP address its
guest agent reported. TRUSTSTORE is a PEM bundle with the engine CA.`,
		Version: version,
		Args: func(cmd *cobra.Command, args []string) error {
			if err := cobra.ExactArgs(config.NArgs)(cmd, args); err != nil {
				return fmt.Errorf("%w: %v", errUsage, err)
			}
			return nil
		},
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return setupLogging(cmd.ErrOrStderr(), o)
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return findIP(cmd, fs, o, args)
		},
		SilenceErrors: true,
		SilenceUsage:  true,
	}
	cmd.SetFlagErrorFunc(func(_ *cobra.Command, err error) error {
		return fmt.Errorf("%w: %v", errUsage, err)
	})
	cmd.PersistentFlags().BoolVar(&o.json, "json", false, "enable JSON output and log format")
	cmd.PersistentFlags().BoolVarP(&o.verbose, "verbose", "v", false, "enable verbose (debug) logging")
	cmd.Flags().BoolVar(&o.all, "all", false, "print every reported address, one per line")
	cmd.Flags().BoolVar(&o.insecure, "insecure", false, "skip verification of the engine TLS certificate")
	// Flags only before the first positional, so passwords and names may start with "-".
	cmd.Flags().SetInterspersed(false)
	return cmd
}

// Run executes the CLI and returns the process exit status.
func Run(ctx context.Context, args []string, fs afero.Fs, stdout, stderr io.Writer, version string) int {
	if args == nil {
		args = []string{}
	}
	cmd := newRootCmd(fs, version)
	cmd.SetArgs(args)
	cmd.SetOut(stdout)
	cmd.SetErr(stderr)
	err := cmd.ExecuteContext(ctx)
	switch {
	case err == nil:
		return 0
	case errors.Is(err, errUsage):
		printUsage(stdout)
		return 1
	default:
		fmt.Fprintln(stderr, err)
		return 1
	}
}

func Execute(version string) {
	os.Exit(Run(context.Background(), os.Args[1:], afero.NewOsFs(), os.Stdout, os.Stderr, version))
}

func printUsage(w io.Writer) {
	fmt.Fprintln(w)
	fmt.Fprintf(w, "Usage: %s [flags] <username> <password> <truststore> <server> <cluster> <vm>\n", binName)
	fmt.Fprintf(w, "e.g. %s admin@internal mypassword ca.pem https://engine.example.com/ovirt-engine/api Default myVM\n", binName)
	fmt.Fprintln(w)
}

func setupLogging(w io.Writer, o *options) error {
	var handler slog.Handler
	if o.json {
		handler = slog.NewJSONHandler(w, &slog.HandlerOptions{Level: chooseLevel(o.verbose)})
	} else {
		handler = slog.NewTextHandler(w, &slog.HandlerOptions{Level: chooseLevel(o.verbose)})
	}
	slog.SetDefault(slog.New(handler))
	slog.Debug("logging initialized")
	return nil
}

func chooseLevel(verbose bool) slog.Leveler {
	if verbose {
		return slog.LevelDebug
	}
	return slog.LevelInfo
}
