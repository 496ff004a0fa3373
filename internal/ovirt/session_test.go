package ovirt

import (
	"context"
	"errors"
	"testing"

	"github.com/alechenninger/ovirt-findip/internal/config"
	"github.com/alechenninger/ovirt-findip/internal/domain"
	ovirtsdk "github.com/ovirt/go-ovirt"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testConnection() config.Connection {
	return config.Connection{
		Username: "admin@internal",
		Password: "secret",
		URL:      "https://engine.invalid/ovirt-engine/api",
		Insecure: true,
	}
}

func TestCloseWithoutUseDoesNotConnect(t *testing.T) {
	t.Parallel()
	s := New(testConnection(), nil)
	dials := 0
	s.dial = func() (*ovirtsdk.Connection, error) {
		dials++
		return nil, errors.New("unexpected dial")
	}

	require.NoError(t, s.Close())
	assert.Zero(t, dials)
}

func TestConnectionIsBuiltOnce(t *testing.T) {
	t.Parallel()
	s := New(testConnection(), nil)
	dials := 0
	s.dial = func() (*ovirtsdk.Connection, error) {
		dials++
		return s.build()
	}
	ctx := context.Background()

	c1, err := s.connection(ctx)
	require.NoError(t, err)
	c2, err := s.connection(ctx)
	require.NoError(t, err)

	assert.Same(t, c1, c2)
	assert.Equal(t, 1, dials)
}

func TestDialFailureIsReported(t *testing.T) {
	t.Parallel()
	s := New(testConnection(), nil)
	boom := errors.New("bad url")
	s.dial = func() (*ovirtsdk.Connection, error) { return nil, boom }

	_, err := s.ListVMs(context.Background())
	assert.ErrorIs(t, err, boom)
	assert.Contains(t, err.Error(), "engine.invalid")
	assert.NoError(t, s.Close())
}

func TestCanceledContextSkipsDial(t *testing.T) {
	t.Parallel()
	s := New(testConnection(), nil)
	s.dial = func() (*ovirtsdk.Connection, error) {
		t.Fatal("dial on canceled context")
		return nil, nil
	}
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := s.GuestInfo(ctx, "vm-1")
	assert.ErrorIs(t, err, context.Canceled)
}

func TestVMsFromSDK(t *testing.T) {
	t.Parallel()
	in := []*ovirtsdk.Vm{
		ovirtsdk.NewVmBuilder().
			Id("vm-1").
			Name("web").
			Cluster(ovirtsdk.NewClusterBuilder().Id("c-1").MustBuild()).
			MustBuild(),
		nil,
		ovirtsdk.NewVmBuilder().Id("vm-2").Name("orphan").MustBuild(),
	}

	got := vmsFromSDK(in)
	assert.Equal(t, []domain.VM{
		{ID: "vm-1", Name: "web", ClusterID: "c-1"},
		{ID: "vm-2", Name: "orphan"},
	}, got)
}

func TestFindCluster(t *testing.T) {
	t.Parallel()
	in := []*ovirtsdk.Cluster{
		ovirtsdk.NewClusterBuilder().Id("c-1").Name("Default").MustBuild(),
		ovirtsdk.NewClusterBuilder().Id("c-2").Name("Lab").MustBuild(),
	}

	c, ok := findCluster(in, "Lab")
	require.True(t, ok)
	assert.Equal(t, domain.Cluster{ID: "c-2", Name: "Lab"}, *c)

	_, ok = findCluster(in, "lab")
	assert.False(t, ok)
}

func TestIPsFromDevices(t *testing.T) {
	t.Parallel()
	devices := []*ovirtsdk.ReportedDevice{
		ovirtsdk.NewReportedDeviceBuilder().
			Name("eth0").
			IpsOfAny(
				ovirtsdk.NewIpBuilder().Address("10.0.0.5").MustBuild(),
				ovirtsdk.NewIpBuilder().Address("fe80::1").MustBuild(),
			).
			MustBuild(),
		ovirtsdk.NewReportedDeviceBuilder().Name("lo").MustBuild(),
		ovirtsdk.NewReportedDeviceBuilder().
			Name("eth1").
			IpsOfAny(ovirtsdk.NewIpBuilder().Address("192.168.1.10").MustBuild()).
			MustBuild(),
	}

	assert.Equal(t, []string{"10.0.0.5", "fe80::1", "192.168.1.10"}, ipsFromDevices(devices))
	assert.Empty(t, ipsFromDevices(nil))
}
