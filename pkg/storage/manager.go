package storage

import (
	"fmt"
	"sync"

	"github.com/projectdesk/projectdesk/config"
)

var (
	managerMu   sync.RWMutex
	disks       = map[string]Disk{}
	defaultDisk = "local"
)

// Connect boots the local disk and, when S3_BUCKET is set, the s3 disk.
// STORAGE_DISK selects the default.
func Connect(cfg config.StorageConfig) error {
	local, err := NewLocalDisk(cfg.LocalRoot, cfg.URL)
	if err != nil {
		return err
	}
	RegisterDisk("local", local)

	if cfg.S3Bucket != "" {
		s3d, err := NewS3Disk(cfg)
		if err != nil {
			return err
		}
		RegisterDisk("s3", s3d)
	}

	managerMu.Lock()
	defer managerMu.Unlock()
	if _, ok := disks[cfg.Disk]; !ok {
		return fmt.Errorf("storage: default disk %q is not configured", cfg.Disk)
	}
	defaultDisk = cfg.Disk
	return nil
}

// Use returns the named disk.
func Use(name string) (Disk, error) {
	managerMu.RLock()
	defer managerMu.RUnlock()

	d, ok := disks[name]
	if !ok {
		return nil, fmt.Errorf("storage: disk %q is not configured", name)
	}
	return d, nil
}

// Default returns the disk selected by STORAGE_DISK, or nil before Connect.
func Default() Disk {
	managerMu.RLock()
	defer managerMu.RUnlock()
	return disks[defaultDisk]
}

// RegisterDisk plugs a Disk in under name.
func RegisterDisk(name string, d Disk) {
	managerMu.Lock()
	disks[name] = d
	managerMu.Unlock()
}
