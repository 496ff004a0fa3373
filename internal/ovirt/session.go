package ovirt

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/alechenninger/ovirt-findip/internal/config"
	"github.com/alechenninger/ovirt-findip/internal/domain"
	ovirtsdk "github.com/ovirt/go-ovirt"
)

// Session is a lazily connected view of an oVirt engine. At most one
// connection is built per Session.
type Session struct {
	url      string
	username string
	password string
	caCert   []byte
	insecure bool

	conn *ovirtsdk.Connection
	// dial builds the connection; tests swap it.
	dial func() (*ovirtsdk.Connection, error)
}

// New prepares a session. Nothing is sent to the engine until first use.
func New(c config.Connection, caCert []byte) *Session {
	s := &Session{
		url:      c.URL,
		username: c.Username,
		password: c.Password,
		caCert:   caCert,
		insecure: c.Insecure,
	}
	s.dial = s.build
	return s
}

func (s *Session) build() (*ovirtsdk.Connection, error) {
	b := ovirtsdk.NewConnectionBuilder().
		URL(s.url).
		Username(s.username).
		Password(s.password).
		Insecure(s.insecure)
	if len(s.caCert) > 0 {
		b = b.CACert(s.caCert)
	}
	return b.Build()
}

func (s *Session) connection(ctx context.Context) (*ovirtsdk.Connection, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if s.conn != nil {
		return s.conn, nil
	}
	slog.Debug("connecting to engine", "url", s.url, "user", s.username)
	conn, err := s.dial()
	if err != nil {
		return nil, fmt.Errorf("connect to %s: %w", s.url, err)
	}
	s.conn = conn
	return conn, nil
}

// Validate authenticates against the engine, surfacing bad credentials or
// trust material before any lookup.
func (s *Session) Validate(ctx context.Context) error {
	conn, err := s.connection(ctx)
	if err != nil {
		return err
	}
	if err := conn.Test(); err != nil {
		return fmt.Errorf("authenticate to %s: %w", s.url, err)
	}
	return nil
}

func (s *Session) ListVMs(ctx context.Context) ([]domain.VM, error) {
	conn, err := s.connection(ctx)
	if err != nil {
		return nil, err
	}
	resp, err := conn.SystemService().VmsService().List().Send()
	if err != nil {
		return nil, err
	}
	vms, ok := resp.Vms()
	if !ok {
		return nil, nil
	}
	return vmsFromSDK(vms.Slice()), nil
}

func (s *Session) FindCluster(ctx context.Context, name string) (*domain.Cluster, error) {
	conn, err := s.connection(ctx)
	if err != nil {
		return nil, err
	}
	resp, err := conn.SystemService().ClustersService().List().Send()
	if err != nil {
		return nil, fmt.Errorf("list clusters: %w", err)
	}
	var clusters []*ovirtsdk.Cluster
	if cs, ok := resp.Clusters(); ok {
		clusters = cs.Slice()
	}
	c, ok := findCluster(clusters, name)
	if !ok {
		return nil, fmt.Errorf("cluster %s: %w", name, domain.ErrClusterNotFound)
	}
	return c, nil
}

// GuestInfo reads the devices the guest agent reported for the VM.
func (s *Session) GuestInfo(ctx context.Context, vmID string) (*domain.GuestInfo, error) {
	conn, err := s.connection(ctx)
	if err != nil {
		return nil, err
	}
	resp, err := conn.SystemService().VmsService().VmService(vmID).ReportedDevicesService().List().Send()
	if err != nil {
		return nil, fmt.Errorf("reported devices of vm %s: %w", vmID, err)
	}
	devices, ok := resp.ReportedDevice()
	if !ok || len(devices.Slice()) == 0 {
		return nil, fmt.Errorf("vm %s: %w", vmID, domain.ErrNoGuestInfo)
	}
	return &domain.GuestInfo{IPs: ipsFromDevices(devices.Slice())}, nil
}

// Close releases the connection, if one was ever made.
func (s *Session) Close() error {
	if s.conn == nil {
		return nil
	}
	err := s.conn.Close()
	s.conn = nil
	return err
}

var _ domain.Inventory = (*Session)(nil)
