package mem

import (
	"context"
	"fmt"
	"sync"

	"github.com/alechenninger/ovirt-findip/internal/domain"
)

// Inventory is an in-memory domain.Inventory. VMs are listed in insertion
// order, mirroring an engine that returns them in its own order.
type Inventory struct {
	mu       sync.Mutex
	vms      []domain.VM
	clusters map[string]domain.Cluster // key: name
	guests   map[string]domain.GuestInfo

	// ValidateErr, when set, is returned by Validate.
	ValidateErr error

	// ListErr, when set, is returned by ListVMs.
	ListErr error

	// Call counters, for asserting how often the engine would be hit.
	Validations      int
	ClusterLookups   int
	GuestInfoLookups int
	Closed           int
}

func New() *Inventory {
	return &Inventory{
		clusters: make(map[string]domain.Cluster),
		guests:   make(map[string]domain.GuestInfo),
	}
}

func (s *Inventory) AddVM(vm domain.VM) *Inventory {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.vms = append(s.vms, vm)
	return s
}

func (s *Inventory) AddCluster(c domain.Cluster) *Inventory {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.clusters[c.Name] = c
	return s
}

func (s *Inventory) SetGuestInfo(vmID string, ips ...string) *Inventory {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.guests[vmID] = domain.GuestInfo{IPs: ips}
	return s
}

func (s *Inventory) Validate(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.Validations++
	return s.ValidateErr
}

func (s *Inventory) ListVMs(ctx context.Context) ([]domain.VM, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.ListErr != nil {
		return nil, s.ListErr
	}
	vms := make([]domain.VM, len(s.vms))
	copy(vms, s.vms)
	return vms, nil
}

func (s *Inventory) FindCluster(ctx context.Context, name string) (*domain.Cluster, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.ClusterLookups++
	c, ok := s.clusters[name]
	if !ok {
		return nil, fmt.Errorf("cluster %s: %w", name, domain.ErrClusterNotFound)
	}
	return &c, nil
}

func (s *Inventory) GuestInfo(ctx context.Context, vmID string) (*domain.GuestInfo, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.GuestInfoLookups++
	g, ok := s.guests[vmID]
	if !ok {
		return nil, fmt.Errorf("vm %s: %w", vmID, domain.ErrNoGuestInfo)
	}
	ips := make([]string, len(g.IPs))
	copy(ips, g.IPs)
	return &domain.GuestInfo{IPs: ips}, nil
}

func (s *Inventory) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.Closed++
	return nil
}

var _ domain.Inventory = (*Inventory)(nil)
