package disk

// NewDiskManagerTest returns a DiskManager for tests, backed entirely
// by memory — no file ever touches the filesystem, and ShutDown has
// nothing to clean up.
func NewDiskManagerTest() DiskManager {
	return NewVirtualDiskManagerImpl()
}
