package domain

import (
	"context"
	"errors"
)

var (
	ErrVMNotFound      = errors.New("vm not found")
	ErrClusterNotFound = errors.New("cluster not found")
	ErrNoGuestInfo     = errors.New("no guest info reported")
	ErrNoIP            = errors.New("no ip address reported")
)

// VM is a virtual machine as listed by the management engine.
type VM struct {
	ID        string
	Name      string
	ClusterID string
}

// Cluster is a named grouping of hosts and VMs on the engine.
type Cluster struct {
	ID   string
	Name string
}

// GuestInfo holds what the in-guest agent reported about the VM's network.
type GuestInfo struct {
	IPs []string
}

// Inventory is the read side of a virtualization management engine.
type Inventory interface {
	// Validate checks that the credentials and trust material are accepted.
	Validate(ctx context.Context) error
	// ListVMs returns every VM visible to the session, in server order.
	ListVMs(ctx context.Context) ([]VM, error)
	FindCluster(ctx context.Context, name string) (*Cluster, error)
	GuestInfo(ctx context.Context, vmID string) (*GuestInfo, error)
	Close() error
}
