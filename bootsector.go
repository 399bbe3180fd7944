package gofat16

import (
	"bytes"
	"encoding/binary"
	"strings"

	"github.com/aligator/gofat16/checkpoint"
	"github.com/go-restruct/restruct"
)

// extendedBootSignature marks a FAT16SpecificData block with valid volume id, label and type.
const extendedBootSignature = 0x29

// maxClusterNumber is the highest number a FAT16 chain may link to.
// 0xFFF7 is the bad cluster marker and everything above ends a chain.
const maxClusterNumber = 0xFFF6

// DecodeBootSector decodes the boot sector from the first BootSectorSize bytes of raw.
// The fields are not validated, use Geometry().Validate() for that.
func DecodeBootSector(raw []byte) (BootSector, error) {
	if len(raw) < BootSectorSize {
		return BootSector{}, checkpoint.Wrapf(errShortBootSector, ErrFormat, "got %d bytes, want %d", len(raw), BootSectorSize)
	}

	bs := BootSector{}
	err := binary.Read(bytes.NewReader(raw[:BootSectorSize]), binary.LittleEndian, &bs)
	if err != nil {
		return BootSector{}, checkpoint.Wrap(err, ErrFormat)
	}

	return bs, nil
}

// TotalSectors returns the 16 bit count if it is set and the 32 bit count otherwise.
func (b BootSector) TotalSectors() uint32 {
	if b.TotalSectors16 != 0 {
		return uint32(b.TotalSectors16)
	}
	return b.TotalSectors32
}

// Geometry extracts the values needed to locate the regions of the volume.
func (b BootSector) Geometry() Geometry {
	return Geometry{
		BytesPerSector:      b.BytesPerSector,
		SectorsPerCluster:   b.SectorsPerCluster,
		ReservedSectorCount: b.ReservedSectorCount,
		FATCount:            b.NumFATs,
		RootEntryCount:      b.RootEntryCount,
		FATSize:             b.FATSize16,
		TotalSectors:        b.TotalSectors(),
	}
}

// Extended decodes the FAT16 specific part of the boot sector.
func (b BootSector) Extended() (FAT16SpecificData, error) {
	ext := FAT16SpecificData{}
	if err := restruct.Unpack(b.FATSpecificData[:], binary.LittleEndian, &ext); err != nil {
		return FAT16SpecificData{}, checkpoint.Wrap(err, ErrFormat)
	}
	return ext, nil
}

// Label returns the volume label of the extended boot record, or an empty
// string if the volume has no extended boot record.
func (e FAT16SpecificData) Label() string {
	if e.BSBootSignature != extendedBootSignature {
		return ""
	}
	return strings.TrimRight(string(e.BSVolumeLabel[:]), " \x00")
}

// FSType returns the informational file system type string, e.g. "FAT16".
func (e FAT16SpecificData) FSType() string {
	if e.BSBootSignature != extendedBootSignature {
		return ""
	}
	return strings.TrimRight(string(e.BSFileSystemType[:]), " \x00")
}

// Geometry describes the layout of a FAT16 volume.
// All offsets are absolute byte offsets from the start of the volume.
type Geometry struct {
	BytesPerSector      uint16
	SectorsPerCluster   uint8
	ReservedSectorCount uint16
	FATCount            uint8
	RootEntryCount      uint16
	// FATSize is the size of one FAT in sectors.
	FATSize      uint16
	TotalSectors uint32
}

// Validate checks that every value needed for the offset calculations is positive.
func (g Geometry) Validate() error {
	for _, field := range []struct {
		name  string
		value int
	}{
		{"bytes per sector", int(g.BytesPerSector)},
		{"sectors per cluster", int(g.SectorsPerCluster)},
		{"reserved sector count", int(g.ReservedSectorCount)},
		{"FAT count", int(g.FATCount)},
		{"root entry count", int(g.RootEntryCount)},
		{"FAT size", int(g.FATSize)},
	} {
		if field.value <= 0 {
			return checkpoint.Wrapf(errInvalidGeometry, ErrFormat, "%s is %d", field.name, field.value)
		}
	}

	return nil
}

// ClusterSize is the size of one cluster in bytes.
func (g Geometry) ClusterSize() int64 {
	return int64(g.BytesPerSector) * int64(g.SectorsPerCluster)
}

// FATOffset is the offset of the first FAT.
func (g Geometry) FATOffset() int64 {
	return int64(g.BytesPerSector) * int64(g.ReservedSectorCount)
}

// RootDirOffset is the offset of the fixed root directory region which follows all FATs.
func (g Geometry) RootDirOffset() int64 {
	return int64(g.BytesPerSector) * (int64(g.ReservedSectorCount) + int64(g.FATSize)*int64(g.FATCount))
}

// DataOffset is the offset of cluster 2, directly after the root directory entries.
func (g Geometry) DataOffset() int64 {
	return g.RootDirOffset() + int64(g.RootEntryCount)*DirEntrySize
}

// ClusterOffset returns the offset of the given cluster.
// Cluster numbering starts at 2.
func (g Geometry) ClusterOffset(cluster uint16) int64 {
	return g.DataOffset() + (int64(cluster)-2)*g.ClusterSize()
}

// MaxClusters is the number of entries one FAT can hold, including the two
// reserved ones. No valid chain can be longer than that.
func (g Geometry) MaxClusters() int {
	entries := int(g.FATSize) * int(g.BytesPerSector) / fatEntrySize
	if entries > maxClusterNumber+1 {
		entries = maxClusterNumber + 1
	}
	return entries
}

// DataClusters is the number of data clusters the total sector count leaves
// room for. It is 0 if the total sector count is unknown or too small.
func (g Geometry) DataClusters() int64 {
	if g.ClusterSize() <= 0 {
		return 0
	}
	dataBytes := int64(g.TotalSectors)*int64(g.BytesPerSector) - g.DataOffset()
	if dataBytes <= 0 {
		return 0
	}
	return dataBytes / g.ClusterSize()
}
