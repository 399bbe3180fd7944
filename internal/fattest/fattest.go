// Package fattest builds small FAT16 volumes in memory.
//
// The images are laid out exactly like the offsets of a real volume are
// calculated: reserved sectors, the FAT copies, RootEntries directory slots
// and then the data clusters starting with cluster 2. Slots and clusters which
// are not set stay zero, so an unset root directory slot ends the directory.
package fattest

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"strings"
	"testing"
)

const (
	entrySize = 32

	// EOC is the end of chain marker written by AddFile and AddDir.
	EOC uint16 = 0xFFFF

	// Bad is the bad cluster marker.
	Bad uint16 = 0xFFF7
)

// Attribute flags of a directory entry.
const (
	AttrReadOnly  uint8 = 0x01
	AttrHidden    uint8 = 0x02
	AttrSystem    uint8 = 0x04
	AttrVolumeID  uint8 = 0x08
	AttrDirectory uint8 = 0x10
	AttrArchive   uint8 = 0x20
	AttrLongName        = AttrReadOnly | AttrHidden | AttrSystem | AttrVolumeID
)

// Entry is a directory entry to be written into a directory slot.
type Entry struct {
	Name            [11]byte
	Attr            uint8
	CreateTimeTenth uint8
	CreateTime      uint16
	CreateDate      uint16
	LastAccessDate  uint16
	WriteTime       uint16
	WriteDate       uint16
	FirstCluster    uint16
	Size            uint32
}

// Image describes the volume to build.
// The exported fields may be changed before calling Build.
type Image struct {
	BytesPerSector    uint16
	SectorsPerCluster uint8
	ReservedSectors   uint16
	FATs              uint8
	RootEntries       uint16
	FATSectors        uint16
	// Clusters is the number of data clusters the image has room for.
	Clusters int

	OEM   string
	Label string
	// NoExtendedSignature leaves the extended boot signature unset, which
	// marks label and file system type as not present.
	NoExtendedSignature bool

	root [][entrySize]byte
	fat  map[uint16]uint16
	data map[uint16][]byte
}

// New returns an image with 512 bytes per sector, one sector per cluster,
// one reserved sector, one FAT of one sector and 16 root directory slots.
func New() *Image {
	return &Image{
		BytesPerSector:    512,
		SectorsPerCluster: 1,
		ReservedSectors:   1,
		FATs:              1,
		RootEntries:       16,
		FATSectors:        1,
		Clusters:          16,
		OEM:               "GOFAT16",
		Label:             "TESTVOL",
		fat:               map[uint16]uint16{},
		data:              map[uint16][]byte{},
	}
}

// ClusterSize is the size of one cluster in bytes.
func (img *Image) ClusterSize() int {
	return int(img.BytesPerSector) * int(img.SectorsPerCluster)
}

// FATOffset is the byte offset of the first FAT.
func (img *Image) FATOffset() int64 {
	return int64(img.BytesPerSector) * int64(img.ReservedSectors)
}

// RootDirOffset is the byte offset of the first root directory slot.
func (img *Image) RootDirOffset() int64 {
	return img.FATOffset() + int64(img.FATs)*int64(img.FATSectors)*int64(img.BytesPerSector)
}

// DataOffset is the byte offset of cluster 2.
func (img *Image) DataOffset() int64 {
	return img.RootDirOffset() + int64(img.RootEntries)*entrySize
}

// ClusterOffset is the byte offset of the given cluster.
func (img *Image) ClusterOffset(cluster uint16) int64 {
	return img.DataOffset() + (int64(cluster)-2)*int64(img.ClusterSize())
}

// Add appends an entry to the root directory.
func (img *Image) Add(e Entry) {
	img.AddRaw(EncodeEntry(e))
}

// AddRaw appends a raw slot to the root directory.
func (img *Image) AddRaw(slot [entrySize]byte) {
	img.root = append(img.root, slot)
}

// SetFAT sets the FAT entry of the cluster in every FAT copy.
func (img *Image) SetFAT(cluster, value uint16) {
	img.fat[cluster] = value
}

// SetCluster writes data to the start of the cluster.
func (img *Image) SetCluster(cluster uint16, data []byte) {
	img.data[cluster] = data
}

// AddFile adds a file to the root directory. The content is split over the
// given clusters which are linked in order, the last one ends the chain.
// Without clusters the file gets first cluster 0.
func (img *Image) AddFile(name string, content []byte, clusters ...uint16) Entry {
	e := Entry{
		Name: ShortName(name),
		Attr: AttrArchive,
		Size: uint32(len(content)),
	}

	if len(clusters) > 0 {
		e.FirstCluster = clusters[0]
		img.link(clusters)
		img.fill(clusters, content)
	}

	img.Add(e)
	return e
}

// AddDir adds a subdirectory to the root directory which occupies the given
// clusters. The directory starts with the "." and ".." entries followed by entries.
func (img *Image) AddDir(name string, entries []Entry, clusters ...uint16) Entry {
	e := Entry{
		Name: ShortName(name),
		Attr: AttrDirectory,
	}
	if len(clusters) == 0 {
		img.Add(e)
		return e
	}

	e.FirstCluster = clusters[0]
	img.link(clusters)

	all := append([]Entry{
		{Name: ShortName("."), Attr: AttrDirectory, FirstCluster: clusters[0]},
		{Name: ShortName(".."), Attr: AttrDirectory},
	}, entries...)

	var buf bytes.Buffer
	for _, entry := range all {
		slot := EncodeEntry(entry)
		buf.Write(slot[:])
	}
	img.fill(clusters, buf.Bytes())

	img.Add(e)
	return e
}

// AddFileData links the clusters and writes content into them without adding
// a directory entry, e.g. for files of a subdirectory.
func (img *Image) AddFileData(content []byte, clusters ...uint16) {
	img.link(clusters)
	img.fill(clusters, content)
}

func (img *Image) link(clusters []uint16) {
	for i, c := range clusters {
		if i == len(clusters)-1 {
			img.SetFAT(c, EOC)
		} else {
			img.SetFAT(c, clusters[i+1])
		}
	}
}

func (img *Image) fill(clusters []uint16, content []byte) {
	size := img.ClusterSize()
	for i, c := range clusters {
		from := i * size
		if from >= len(content) {
			break
		}
		to := from + size
		if to > len(content) {
			to = len(content)
		}
		img.SetCluster(c, content[from:to])
	}
}

// Build writes the image.
func (img *Image) Build() ([]byte, error) {
	size := img.DataOffset() + int64(img.Clusters)*int64(img.ClusterSize())
	sectors := (size + int64(img.BytesPerSector) - 1) / int64(img.BytesPerSector)
	out := make([]byte, sectors*int64(img.BytesPerSector))

	boot, err := img.bootSector(uint32(sectors))
	if err != nil {
		return nil, err
	}
	copy(out, boot)

	for i := 0; i < int(img.FATs); i++ {
		fatOffset := img.FATOffset() + int64(i)*int64(img.FATSectors)*int64(img.BytesPerSector)
		fatSize := int64(img.FATSectors) * int64(img.BytesPerSector)

		// Entries 0 and 1 hold the media descriptor and the clean shutdown flags.
		binary.LittleEndian.PutUint16(out[fatOffset:], 0xFFF8)
		binary.LittleEndian.PutUint16(out[fatOffset+2:], 0xFFFF)

		for cluster, value := range img.fat {
			off := int64(cluster) * 2
			if off+2 > fatSize {
				return nil, fmt.Errorf("cluster %d does not fit into a FAT of %d bytes", cluster, fatSize)
			}
			binary.LittleEndian.PutUint16(out[fatOffset+off:], value)
		}
	}

	if len(img.root) > int(img.RootEntries) {
		return nil, fmt.Errorf("%d root directory entries do not fit into %d slots", len(img.root), img.RootEntries)
	}
	for i, slot := range img.root {
		copy(out[img.RootDirOffset()+int64(i)*entrySize:], slot[:])
	}

	for cluster, content := range img.data {
		if cluster < 2 || int(cluster)-2 >= img.Clusters {
			return nil, fmt.Errorf("cluster %d is outside of the %d data clusters", cluster, img.Clusters)
		}
		if len(content) > img.ClusterSize() {
			return nil, fmt.Errorf("%d bytes do not fit into cluster %d", len(content), cluster)
		}
		copy(out[img.ClusterOffset(cluster):], content)
	}

	return out, nil
}

// MustBuild is like Build but fails the test on errors.
func (img *Image) MustBuild(tb testing.TB) []byte {
	tb.Helper()
	out, err := img.Build()
	if err != nil {
		tb.Fatalf("could not build FAT16 image: %v", err)
	}
	return out
}

// Reader builds the image and returns a reader for it.
func (img *Image) Reader(tb testing.TB) *bytes.Reader {
	tb.Helper()
	return bytes.NewReader(img.MustBuild(tb))
}

func (img *Image) bootSector(totalSectors uint32) ([]byte, error) {
	var (
		jumpCode       = [3]byte{0xEB, 0x3C, 0x90}
		oem            = pad8(img.OEM)
		volumeLabel    = ShortLabel(img.Label)
		fileSystemType = pad8("FAT16")
		signature      = uint8(0x29)
		totalSectors16 = uint16(0)
		totalSectors32 = totalSectors
	)
	if img.NoExtendedSignature {
		signature = 0
	}
	if totalSectors < 0x10000 {
		totalSectors16 = uint16(totalSectors)
		totalSectors32 = 0
	}

	var buf bytes.Buffer
	for _, v := range []interface{}{
		jumpCode,
		oem,
		img.BytesPerSector,
		img.SectorsPerCluster,
		img.ReservedSectors,
		img.FATs,
		img.RootEntries,
		totalSectors16,
		uint8(0xF8), // media descriptor: fixed disk
		img.FATSectors,
		uint16(32), // sectors per track
		uint16(4),  // heads
		uint32(0),  // hidden sectors
		totalSectors32,
		uint8(0x80), // drive number
		uint8(0),    // reserved
		signature,
		uint32(0x1234ABCD), // volume id
		volumeLabel,
		fileSystemType,
	} {
		if err := binary.Write(&buf, binary.LittleEndian, v); err != nil {
			return nil, err
		}
	}

	// Only add the boot signature if the reserved region has room for a whole boot sector.
	if int(img.ReservedSectors)*int(img.BytesPerSector) >= 512 {
		boot := make([]byte, 512)
		copy(boot, buf.Bytes())
		boot[510] = 0x55
		boot[511] = 0xAA
		return boot, nil
	}

	return buf.Bytes(), nil
}

// EncodeEntry encodes a directory entry into its 32 byte on-disk form.
func EncodeEntry(e Entry) [entrySize]byte {
	var buf bytes.Buffer
	for _, v := range []interface{}{
		e.Name,
		e.Attr,
		uint8(0), // reserved for Windows NT
		e.CreateTimeTenth,
		e.CreateTime,
		e.CreateDate,
		e.LastAccessDate,
		uint16(0), // high word of the first cluster, always 0 on FAT16
		e.WriteTime,
		e.WriteDate,
		e.FirstCluster,
		e.Size,
	} {
		// Writing fixed size values into a bytes.Buffer cannot fail.
		_ = binary.Write(&buf, binary.LittleEndian, v)
	}

	var slot [entrySize]byte
	copy(slot[:], buf.Bytes())
	return slot
}

// LongNameSlot returns a VFAT long file name slot.
func LongNameSlot(sequence uint8) [entrySize]byte {
	var slot [entrySize]byte
	slot[0] = sequence
	for i := 1; i < 11; i++ {
		slot[i] = 'x'
	}
	slot[11] = AttrLongName
	return slot
}

// DeletedSlot returns the slot of a deleted file which still carries its old data.
func DeletedSlot(name string, firstCluster uint16, size uint32) [entrySize]byte {
	slot := EncodeEntry(Entry{
		Name:         ShortName(name),
		Attr:         AttrArchive,
		FirstCluster: firstCluster,
		Size:         size,
	})
	slot[0] = 0xE5
	return slot
}

// ShortName converts "name.ext" into the space padded 8.3 form.
// "." and ".." are kept as they are.
func ShortName(name string) [11]byte {
	var result [11]byte
	for i := range result {
		result[i] = ' '
	}

	if name == "." || name == ".." {
		copy(result[:], name)
		return result
	}

	base, ext := strings.ToUpper(name), ""
	if i := strings.LastIndex(base, "."); i >= 0 {
		base, ext = base[:i], base[i+1:]
	}

	copy(result[:8], base)
	copy(result[8:], ext)
	return result
}

// ShortLabel pads a volume label to 11 bytes.
func ShortLabel(label string) [11]byte {
	var result [11]byte
	for i := range result {
		result[i] = ' '
	}
	copy(result[:], label)
	return result
}

func pad8(s string) [8]byte {
	var result [8]byte
	for i := range result {
		result[i] = ' '
	}
	copy(result[:], s)
	return result
}
