package cli

import (
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/alechenninger/ovirt-findip/internal/application"
	"github.com/alechenninger/ovirt-findip/internal/config"
	"github.com/spf13/afero"
	"github.com/spf13/cobra"
)

type ipResult struct {
	Name string   `json:"name"`
	IP   string   `json:"ip"`
	IPs  []string `json:"ips,omitempty"`
}

// findIP only returns an error for the truststore check. Engine and lookup
// failures go to stderr and leave the exit status at 0.
func findIP(cmd *cobra.Command, fs afero.Fs, o *options, args []string) error {
	ctx := cmd.Context()
	stdout, stderr := cmd.OutOrStdout(), cmd.ErrOrStderr()

	conn, err := config.FromArgs(args)
	if err != nil {
		return fmt.Errorf("%w: %v", errUsage, err)
	}
	conn.Insecure = o.insecure

	if err := config.CheckTruststore(fs, conn.TruststorePath); err != nil {
		return fmt.Errorf("truststore location is wrong, aborting: %w", err)
	}
	var caCert []byte
	if !conn.Insecure {
		caCert, err = config.LoadTrustBundle(fs, conn.TruststorePath)
		if err != nil {
			fmt.Fprintf(stderr, "something is wrong with the truststore: %v\n", err)
			return nil
		}
	}

	inv := newInventory(conn, caCert)
	defer func() {
		if err := inv.Close(); err != nil {
			slog.Debug("session shutdown failed", "error", err)
		}
	}()

	if err := inv.Validate(ctx); err != nil {
		fmt.Fprintf(stderr, "something is wrong with username, password, or truststore: %v\n", err)
		return nil
	}

	app := application.New(inv, conn.ClusterName)
	ips, err := app.IPs(ctx, conn.VMName)
	if err != nil {
		fmt.Fprintf(stderr, "could not resolve ip of vm %q: %v\n", conn.VMName, err)
		return nil
	}
	slog.Debug("resolved vm ip", "vm", conn.VMName, "cluster", conn.ClusterName, "ips", ips)

	if o.json {
		res := ipResult{Name: conn.VMName, IP: ips[0]}
		if o.all {
			res.IPs = ips
		}
		return json.NewEncoder(stdout).Encode(res)
	}
	if !o.all {
		ips = ips[:1]
	}
	for _, ip := range ips {
		fmt.Fprintln(stdout, ip)
	}
	return nil
}
