package fattest

import (
	"bytes"
	"encoding/binary"
)

// PartitionFAT16 is the MBR partition type of a FAT16 volume larger than 32 MiB.
const PartitionFAT16 uint8 = 0x06

// Disk wraps the volumes into a disk image with an MBR partition table.
// The partitions are placed one after the other starting at startSector,
// each rounded up to whole 512 byte sectors.
func Disk(startSector uint32, volumes ...[]byte) []byte {
	const sectorSize = 512

	var table bytes.Buffer
	next := startSector
	for i := 0; i < 4; i++ {
		if i >= len(volumes) {
			table.Write(make([]byte, 16))
			continue
		}

		sectors := uint32((len(volumes[i]) + sectorSize - 1) / sectorSize)
		for _, v := range []interface{}{
			uint8(0x00),    // not bootable
			[3]byte{},      // CHS start, unused
			PartitionFAT16, // type
			[3]byte{},      // CHS end, unused
			next,           // LBA start
			sectors,        // size in sectors
		} {
			_ = binary.Write(&table, binary.LittleEndian, v)
		}
		next += sectors
	}

	disk := make([]byte, int(next)*sectorSize)
	copy(disk[446:], table.Bytes())
	disk[510] = 0x55
	disk[511] = 0xAA

	offset := int(startSector) * sectorSize
	for _, volume := range volumes {
		copy(disk[offset:], volume)
		offset += (len(volume) + sectorSize - 1) / sectorSize * sectorSize
	}

	return disk
}
