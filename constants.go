package userfs

// Storage geometry
const (
	BlockSize   = 512     // Bytes per block
	MaxFileSize = 1 << 30 // Largest occupied size of a single file (1 GiB)
)

// Defaults applied when Options leaves a field unset
const (
	DefaultMaxDescriptors = 1024 // Descriptor table capacity
	DefaultBlockPoolSize  = 256  // Freed block buffers kept for reuse
)

// Open flags (values match the classic userfs header)
const (
	FlagReadWrite = 0x0 // Read and write (the default mode)
	FlagCreate    = 0x1 // Create the file if it does not exist
	FlagReadOnly  = 0x2 // Open only for reading
	FlagWriteOnly = 0x4 // Open only for writing
)

// accessMode is the access mode a descriptor was opened with.
type accessMode uint8

const (
	modeReadWrite accessMode = iota
	modeReadOnly
	modeWriteOnly
)

func (m accessMode) String() string {
	switch m {
	case modeReadOnly:
		return "read-only"
	case modeWriteOnly:
		return "write-only"
	default:
		return "read-write"
	}
}

func (m accessMode) canRead() bool  { return m != modeWriteOnly }
func (m accessMode) canWrite() bool { return m != modeReadOnly }

// modeFromFlags extracts the access mode from open flags.
// It reports false when both FlagReadOnly and FlagWriteOnly are set.
func modeFromFlags(flags int) (accessMode, bool) {
	ro := flags&FlagReadOnly != 0
	wo := flags&FlagWriteOnly != 0
	switch {
	case ro && wo:
		return modeReadWrite, false
	case ro:
		return modeReadOnly, true
	case wo:
		return modeWriteOnly, true
	default:
		return modeReadWrite, true
	}
}
