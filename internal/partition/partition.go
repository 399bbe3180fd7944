// Package partition finds a volume inside a partitioned disk image.
package partition

import (
	"errors"
	"fmt"

	"github.com/diskfs/go-diskfs"
	"github.com/diskfs/go-diskfs/partition"
	"github.com/diskfs/go-diskfs/partition/gpt"
	"github.com/diskfs/go-diskfs/partition/mbr"
)

// ErrNotFound is returned if the requested partition does not exist or is empty.
var ErrNotFound = errors.New("partition not found")

// Partition is the byte range of one partition.
type Partition struct {
	// Number is the 1-based slot of the partition in its table.
	Number int
	Type   string
	Start  int64
	Size   int64
}

// tableReader is the part of a diskfs disk which is needed to find partitions.
type tableReader interface {
	GetPartitionTable() (partition.Table, error)
}

// List returns all used partitions of the table in table order.
func List(pt partition.Table, blockSize int64) ([]Partition, error) {
	if blockSize <= 0 {
		return nil, fmt.Errorf("invalid block size %d", blockSize)
	}

	var parts []Partition
	switch t := pt.(type) {
	case *mbr.Table:
		for i, p := range t.Partitions {
			if p == nil || p.Type == mbr.Empty || p.Size == 0 {
				continue
			}
			parts = append(parts, Partition{
				Number: i + 1,
				Type:   fmt.Sprintf("0x%02x", uint8(p.Type)),
				Start:  int64(p.Start) * blockSize,
				Size:   int64(p.Size) * blockSize,
			})
		}

	case *gpt.Table:
		for i, p := range t.Partitions {
			// skip empty GPT entries
			if p == nil || (p.Start == 0 && p.End == 0) {
				continue
			}
			parts = append(parts, Partition{
				Number: i + 1,
				Type:   string(p.Type),
				Start:  int64(p.Start) * blockSize,
				Size:   int64(p.End-p.Start+1) * blockSize,
			})
		}

	default:
		return nil, fmt.Errorf("unsupported partition table type: %T", t)
	}

	return parts, nil
}

// Locate finds the partition with the given 1-based number.
func Locate(d tableReader, blockSize int64, number int) (Partition, error) {
	pt, err := d.GetPartitionTable()
	if err != nil {
		return Partition{}, fmt.Errorf("get partition table: %w", err)
	}

	parts, err := List(pt, blockSize)
	if err != nil {
		return Partition{}, err
	}

	for _, p := range parts {
		if p.Number == number {
			return p, nil
		}
	}

	return Partition{}, fmt.Errorf("%w: number %d, the disk has %d used partitions", ErrNotFound, number, len(parts))
}

// Open reads the partition table of the disk image at path and returns the
// location of the partition with the given 1-based number.
func Open(path string, number int) (Partition, error) {
	disk, err := diskfs.Open(path, diskfs.WithOpenMode(diskfs.ReadOnly))
	if err != nil {
		return Partition{}, fmt.Errorf("open disk image: %w", err)
	}
	defer disk.Close()

	return Locate(disk, disk.LogicalBlocksize, number)
}
