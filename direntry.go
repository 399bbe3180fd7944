package gofat16

import (
	"encoding/binary"
	"fmt"
	"io"
	"strings"

	"github.com/aligator/gofat16/checkpoint"
	"go.uber.org/zap"
)

// EntryKind classifies a directory entry slot.
type EntryKind int

const (
	// EntryValid is a file, directory or volume label entry.
	EntryValid EntryKind = iota
	// EntryLongName is part of a VFAT long file name. These are not supported and skipped.
	EntryLongName
	// EntryDeleted is a deleted entry.
	EntryDeleted
	// EntryEnd marks the end of the directory. No entry after it is in use.
	EntryEnd
)

func (k EntryKind) String() string {
	switch k {
	case EntryValid:
		return "valid"
	case EntryLongName:
		return "long file name"
	case EntryDeleted:
		return "deleted"
	case EntryEnd:
		return "end of directory"
	default:
		return fmt.Sprintf("EntryKind(%d)", int(k))
	}
}

// DecodeEntry decodes one directory entry from the first DirEntrySize bytes of raw.
func DecodeEntry(raw []byte) (EntryHeader, error) {
	if len(raw) < DirEntrySize {
		return EntryHeader{}, checkpoint.Wrapf(errShortEntry, ErrFormat, "got %d bytes, want %d", len(raw), DirEntrySize)
	}

	e := EntryHeader{
		Attribute:       raw[11],
		NTReserved:      raw[12],
		CreateTimeTenth: raw[13],
		CreateTime:      binary.LittleEndian.Uint16(raw[14:16]),
		CreateDate:      binary.LittleEndian.Uint16(raw[16:18]),
		LastAccessDate:  binary.LittleEndian.Uint16(raw[18:20]),
		FirstClusterHI:  binary.LittleEndian.Uint16(raw[20:22]),
		WriteTime:       binary.LittleEndian.Uint16(raw[22:24]),
		WriteDate:       binary.LittleEndian.Uint16(raw[24:26]),
		FirstClusterLO:  binary.LittleEndian.Uint16(raw[26:28]),
		FileSize:        binary.LittleEndian.Uint32(raw[28:32]),
	}
	copy(e.Name[:], raw[0:11])

	return e, nil
}

// Kind classifies the entry. The long name check comes first as the first
// byte of a long name entry is a sequence number and not a name.
func (e EntryHeader) Kind() EntryKind {
	switch {
	case e.Attribute == AttrLongName:
		return EntryLongName
	case e.Name[0] == entryDeleted:
		return EntryDeleted
	case e.Name[0] == entryFree:
		return EntryEnd
	default:
		return EntryValid
	}
}

// BaseName returns the 8 byte name part, still padded with spaces.
func (e EntryHeader) BaseName() []byte {
	return e.Name[:8]
}

// Extension returns the 3 byte extension part, still padded with spaces.
func (e EntryHeader) Extension() []byte {
	return e.Name[8:11]
}

// ShortName returns the 8.3 name without padding, e.g. "README.TXT".
func (e EntryHeader) ShortName() string {
	name := strings.TrimRight(string(e.BaseName()), " ")
	ext := strings.TrimRight(string(e.Extension()), " ")

	if ext != "" {
		name += "."
	}

	return name + ext
}

// FirstCluster is the first cluster of the entry. FAT16 only uses the low word.
func (e EntryHeader) FirstCluster() uint16 {
	return e.FirstClusterLO
}

// IsDir reports if the entry describes a subdirectory.
func (e EntryHeader) IsDir() bool {
	return e.Attribute&AttrDirectory == AttrDirectory
}

// IsVolumeLabel reports if the entry holds the volume label instead of a file.
func (e EntryHeader) IsVolumeLabel() bool {
	return e.Attribute&AttrVolumeID == AttrVolumeID && e.Attribute != AttrLongName
}

// IsDotEntry reports if the entry is the "." or ".." entry of a subdirectory.
func (e EntryHeader) IsDotEntry() bool {
	name := e.ShortName()
	return name == "." || name == ".."
}

// HasContent reports if there is any data to read for the entry.
// Directories and empty files are never read.
func (e EntryHeader) HasContent() bool {
	return e.FileSize != 0 && !e.IsDir()
}

// ReadRootDirectory reads the valid entries of the root directory in on-disk order.
func ReadRootDirectory(r io.ReaderAt, g Geometry) ([]EntryHeader, error) {
	return readRootDirectory(r, g, zap.NewNop().Sugar())
}

func readRootDirectory(r io.ReaderAt, g Geometry, log *zap.SugaredLogger) ([]EntryHeader, error) {
	var entries []EntryHeader
	raw := make([]byte, DirEntrySize)
	offset := g.RootDirOffset()

	// Read slot by slot: nothing after the end marker is touched.
	for slot := 0; slot < int(g.RootEntryCount); slot++ {
		if err := readFull(r, raw, offset+int64(slot)*DirEntrySize); err != nil {
			return nil, checkpoint.Wrap(err, ErrReadDir)
		}

		entry, err := DecodeEntry(raw)
		if err != nil {
			return nil, checkpoint.Wrap(err, ErrReadDir)
		}

		keep, end := filterEntry(entry, slot, log)
		if end {
			log.Debugw("finished reading root directory", "slot", slot, "entries", len(entries))
			break
		}
		if keep {
			entries = append(entries, entry)
		}
	}

	return entries, nil
}

// filterEntry decides if an entry belongs into a listing and if the listing ends with it.
func filterEntry(entry EntryHeader, slot int, log *zap.SugaredLogger) (keep bool, end bool) {
	switch entry.Kind() {
	case EntryLongName:
		log.Debugw("skipped long file name entry", "slot", slot)
		return false, false
	case EntryDeleted:
		log.Debugw("skipped deleted entry", "slot", slot)
		return false, false
	case EntryEnd:
		return false, true
	default:
		return true, false
	}
}

// decodeEntries decodes all slots of buf and keeps the valid entries.
// It reports if the end marker was found.
func decodeEntries(buf []byte, log *zap.SugaredLogger) ([]EntryHeader, bool, error) {
	var entries []EntryHeader

	for off := 0; off+DirEntrySize <= len(buf); off += DirEntrySize {
		entry, err := DecodeEntry(buf[off : off+DirEntrySize])
		if err != nil {
			return nil, false, err
		}

		keep, end := filterEntry(entry, off/DirEntrySize, log)
		if end {
			return entries, true, nil
		}
		if keep {
			entries = append(entries, entry)
		}
	}

	return entries, false, nil
}
