package ovirt

import (
	"github.com/alechenninger/ovirt-findip/internal/domain"
	ovirtsdk "github.com/ovirt/go-ovirt"
)

func vmFromSDK(v *ovirtsdk.Vm) domain.VM {
	var vm domain.VM
	vm.ID, _ = v.Id()
	vm.Name, _ = v.Name()
	if c, ok := v.Cluster(); ok {
		vm.ClusterID, _ = c.Id()
	}
	return vm
}

func vmsFromSDK(in []*ovirtsdk.Vm) []domain.VM {
	out := make([]domain.VM, 0, len(in))
	for _, v := range in {
		if v == nil {
			continue
		}
		out = append(out, vmFromSDK(v))
	}
	return out
}

func findCluster(in []*ovirtsdk.Cluster, name string) (*domain.Cluster, bool) {
	for _, c := range in {
		if c == nil {
			continue
		}
		if n, ok := c.Name(); ok && n == name {
			id, _ := c.Id()
			return &domain.Cluster{ID: id, Name: n}, true
		}
	}
	return nil, false
}

// ipsFromDevices flattens reported device addresses, keeping engine order.
func ipsFromDevices(devices []*ovirtsdk.ReportedDevice) []string {
	var ips []string
	for _, d := range devices {
		if d == nil {
			continue
		}
		slice, ok := d.Ips()
		if !ok {
			continue
		}
		for _, ip := range slice.Slice() {
			if addr, ok := ip.Address(); ok && addr != "" {
				ips = append(ips, addr)
			}
		}
	}
	return ips
}
