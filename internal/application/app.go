package application

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/alechenninger/ovirt-findip/internal/domain"
)

type App struct {
	Inventory domain.Inventory

	// ClusterName scopes VM lookups; blank means every cluster.
	ClusterName string

	cluster *domain.Cluster
}

// New returns an App that scopes lookups to clusterName when it is not blank.
func New(inv domain.Inventory, clusterName string) *App {
	return &App{Inventory: inv, ClusterName: clusterName}
}

func (a *App) clusterSpecified() bool {
	return strings.TrimSpace(a.ClusterName) != ""
}

// Cluster resolves the configured cluster once and memoizes it. It returns
// nil when no cluster is configured.
func (a *App) Cluster(ctx context.Context) (*domain.Cluster, error) {
	if a.cluster != nil || !a.clusterSpecified() {
		return a.cluster, nil
	}
	c, err := a.Inventory.FindCluster(ctx, a.ClusterName)
	if err != nil {
		return nil, err
	}
	slog.Debug("resolved cluster", "name", c.Name, "id", c.ID)
	a.cluster = c
	return c, nil
}

// VMs lists the VMs on the engine, restricted to the configured cluster.
func (a *App) VMs(ctx context.Context) ([]domain.VM, error) {
	vms, err := a.Inventory.ListVMs(ctx)
	if err != nil {
		return nil, fmt.Errorf("list vms: %w", err)
	}
	if !a.clusterSpecified() {
		return vms, nil
	}
	c, err := a.Cluster(ctx)
	if err != nil {
		return nil, err
	}
	return FilterByCluster(vms, *c), nil
}

// FindVM returns the first VM in the (cluster-filtered) listing named exactly
// name, or an error wrapping domain.ErrVMNotFound.
func (a *App) FindVM(ctx context.Context, name string) (*domain.VM, error) {
	vms, err := a.VMs(ctx)
	if err != nil {
		return nil, err
	}
	vm, ok := FindByName(vms, name)
	if !ok {
		return nil, fmt.Errorf("vm %s: %w", name, domain.ErrVMNotFound)
	}
	return vm, nil
}

// IPs returns every address the guest agent reported for the named VM.
func (a *App) IPs(ctx context.Context, name string) ([]string, error) {
	vm, err := a.FindVM(ctx, name)
	if err != nil {
		return nil, err
	}
	info, err := a.Inventory.GuestInfo(ctx, vm.ID)
	if err != nil {
		return nil, err
	}
	if _, err := FirstIP(info); err != nil {
		return nil, fmt.Errorf("vm %s: %w", name, err)
	}
	return info.IPs, nil
}

// IP returns the first address the guest agent reported for the named VM.
func (a *App) IP(ctx context.Context, name string) (string, error) {
	ips, err := a.IPs(ctx, name)
	if err != nil {
		return "", err
	}
	return ips[0], nil
}

// FilterByCluster keeps the VMs that belong to c, preserving order.
func FilterByCluster(vms []domain.VM, c domain.Cluster) []domain.VM {
	out := make([]domain.VM, 0, len(vms))
	for _, vm := range vms {
		if vm.ClusterID == c.ID {
			out = append(out, vm)
		}
	}
	return out
}

// FindByName returns the first VM whose name is exactly name.
func FindByName(vms []domain.VM, name string) (*domain.VM, bool) {
	for i := range vms {
		if vms[i].Name == name {
			vm := vms[i]
			return &vm, true
		}
	}
	return nil, false
}

// FirstIP returns the first reported address. It returns domain.ErrNoGuestInfo
// for a nil info and domain.ErrNoIP for an empty address list.
func FirstIP(info *domain.GuestInfo) (string, error) {
	if info == nil {
		return "", domain.ErrNoGuestInfo
	}
	if len(info.IPs) == 0 {
		return "", domain.ErrNoIP
	}
	return info.IPs[0], nil
}
