// File model contains the structs which match the direct structures of the FAT16 filesystem.

package gofat16

const (
	// BootSectorSize is the size of the packed boot sector record including
	// the 54 bytes of type specific data.
	BootSectorSize = 90

	// DirEntrySize is the size of a single directory entry.
	DirEntrySize = 32

	// fatEntrySize is the size of a single FAT16 table entry.
	fatEntrySize = 2
)

// Attribute flags of a directory entry.
const (
	AttrReadOnly  = 0x01
	AttrHidden    = 0x02
	AttrSystem    = 0x04
	AttrVolumeID  = 0x08
	AttrDirectory = 0x10
	AttrArchive   = 0x20
	AttrLongName  = AttrReadOnly | AttrHidden | AttrSystem | AttrVolumeID
)

// Markers found in the first name byte of a directory entry.
const (
	entryFree    = 0x00
	entryDeleted = 0xE5
)

// BootSector is the BIOS parameter block found at the start of the volume.
type BootSector struct {
	BSJumpBoot          [3]byte
	BSOEMName           [8]byte
	BytesPerSector      uint16
	SectorsPerCluster   byte
	ReservedSectorCount uint16
	NumFATs             byte
	RootEntryCount      uint16
	TotalSectors16      uint16
	Media               byte
	FATSize16           uint16
	SectorsPerTrack     uint16
	NumberOfHeads       uint16
	HiddenSectors       uint32
	TotalSectors32      uint32
	FATSpecificData     [54]byte
}

// FAT16SpecificData is the extended boot record following the common part
// of the boot sector on FAT12 and FAT16 volumes.
type FAT16SpecificData struct {
	BSDriveNumber    byte
	BSReserved1      byte
	BSBootSignature  byte
	BSVolumeID       uint32
	BSVolumeLabel    [11]byte
	BSFileSystemType [8]byte
}

// EntryHeader is a single 32 byte directory entry.
// The timestamps are kept as their raw on-disk values.
type EntryHeader struct {
	Name            [11]byte
	Attribute       byte
	NTReserved      byte
	CreateTimeTenth byte
	CreateTime      uint16
	CreateDate      uint16
	LastAccessDate  uint16
	FirstClusterHI  uint16
	WriteTime       uint16
	WriteDate       uint16
	FirstClusterLO  uint16
	FileSize        uint32
}
