// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package media

import "context"

// Manager fronts the configured driver. Extra drivers passed as legacy
// keep recognizing and deleting URLs issued before a driver switch; they
// never receive new uploads.
type Manager struct {
	primary Driver
	drivers []Driver
}

// NewManager creates a Manager saving through primary.
func NewManager(primary Driver, legacy ...Driver) *Manager {
	drivers := []Driver{primary}
	for _, d := range legacy {
		if d != nil && d.Name() != primary.Name() {
			drivers = append(drivers, d)
		}
	}
	return &Manager{primary: primary, drivers: drivers}
}

// Name returns the primary driver name.
func (m *Manager) Name() string { return m.primary.Name() }

// Save stores u with the primary driver.
func (m *Manager) Save(ctx context.Context, u Upload) (*Result, error) {
	return m.primary.Save(ctx, u)
}

// IsManagedURL reports whether any known driver issued url.
func (m *Manager) IsManagedURL(url string) bool {
	return m.driverFor(url) != nil
}

// Delete routes url to the driver that recognizes it. Unrecognized URLs
// yield false.
func (m *Manager) Delete(ctx context.Context, url string) (bool, error) {
	d := m.driverFor(url)
	if d == nil {
		return false, nil
	}
	return d.Delete(ctx, url)
}

// Blob returns the primary driver when it supports direct client uploads.
func (m *Manager) Blob() (*BlobDriver, bool) {
	b, ok := m.primary.(*BlobDriver)
	return b, ok
}

func (m *Manager) driverFor(url string) Driver {
	if url == "" {
		return nil
	}
	for _, d := range m.drivers {
		if d.IsManagedURL(url) {
			return d
		}
	}
	return nil
}
