package gofat16

import (
	"io"
	"os"
	"path"
	"strings"
	"sync"
	"syscall"
	"time"

	"github.com/aligator/gofat16/checkpoint"
	"github.com/spf13/afero"
	"go.uber.org/zap"
)

// Fs is an open FAT16 volume.
// It owns the decoded boot sector and the catalog of the root directory which
// are read once by New. The reader is only borrowed and has to be closed by
// the caller after the Fs is not used anymore.
//
// Fs also implements a read-only afero.Fs. All methods which would modify the
// volume fail with ErrReadOnly.
type Fs struct {
	reader io.ReaderAt
	log    *zap.SugaredLogger

	bootSector BootSector
	extended   FAT16SpecificData
	geometry   Geometry
	catalog    []EntryHeader

	// chains holds the walked cluster chains of opened files and
	// directories by their first cluster.
	chainLock sync.Mutex
	chains    map[uint16][]uint16
}

// Option configures an Fs.
type Option func(fs *Fs)

// WithLogger sets the logger used for diagnostic output. By default nothing is logged.
func WithLogger(log *zap.SugaredLogger) Option {
	return func(fs *Fs) {
		if log != nil {
			fs.log = log
		}
	}
}

// New opens a FAT16 volume from the given reader.
// It decodes the boot sector, validates the geometry and reads the root directory.
// If the reader also implements io.ReaderAt, that is used for all reads.
func New(reader io.ReadSeeker, opts ...Option) (*Fs, error) {
	fs := &Fs{
		reader: newReaderAt(reader),
		log:    zap.NewNop().Sugar(),
	}

	for _, opt := range opts {
		opt(fs)
	}

	if err := fs.initialize(); err != nil {
		return nil, err
	}

	return fs, nil
}

func (fs *Fs) initialize() error {
	raw := make([]byte, BootSectorSize)
	n, err := fs.reader.ReadAt(raw, 0)
	if err != nil && err != io.EOF && n < len(raw) {
		return checkpoint.Wrap(err, ErrIO)
	}

	// A volume shorter than the boot sector is reported by the decoder.
	fs.bootSector, err = DecodeBootSector(raw[:n])
	if err != nil {
		return checkpoint.From(err)
	}

	fs.extended, err = fs.bootSector.Extended()
	if err != nil {
		return checkpoint.From(err)
	}

	fs.geometry = fs.bootSector.Geometry()
	if err := fs.geometry.Validate(); err != nil {
		return checkpoint.From(err)
	}

	fs.catalog, err = readRootDirectory(fs.reader, fs.geometry, fs.log)
	if err != nil {
		return checkpoint.From(err)
	}

	fs.log.Debugw("opened volume",
		"label", fs.Label(),
		"type", fs.FSType(),
		"bytesPerSector", fs.geometry.BytesPerSector,
		"sectorsPerCluster", fs.geometry.SectorsPerCluster,
		"rootEntries", fs.geometry.RootEntryCount,
		"catalog", len(fs.catalog),
	)

	return nil
}

// BootSector returns the decoded boot sector.
func (fs *Fs) BootSector() BootSector {
	return fs.bootSector
}

// Extended returns the decoded FAT16 extended boot record.
func (fs *Fs) Extended() FAT16SpecificData {
	return fs.extended
}

// Geometry returns the layout of the volume.
func (fs *Fs) Geometry() Geometry {
	return fs.geometry
}

// Label returns the volume label of the boot sector.
func (fs *Fs) Label() string {
	return fs.extended.Label()
}

// FSType returns the file system type string of the boot sector, usually "FAT16".
func (fs *Fs) FSType() string {
	return fs.extended.FSType()
}

// Catalog returns the valid root directory entries in on-disk order.
// Positions in the catalog are the 1-based indexes accepted by Select.
func (fs *Fs) Catalog() []EntryHeader {
	catalog := make([]EntryHeader, len(fs.catalog))
	copy(catalog, fs.catalog)
	return catalog
}

// Select returns the catalog entry with the given 1-based index.
// Index 0 means that nothing was selected and returns ok == false without
// an error. Any other index outside of the catalog returns ErrSelection.
func (fs *Fs) Select(index int) (entry EntryHeader, ok bool, err error) {
	if index == 0 {
		return EntryHeader{}, false, nil
	}

	if index < 0 || index > len(fs.catalog) {
		return EntryHeader{}, false, checkpoint.Wrapf(errIndexOutOfRange, ErrSelection, "index %d, catalog has %d entries", index, len(fs.catalog))
	}

	return fs.catalog[index-1], true, nil
}

// Chain returns the cluster chain of the entry.
// Entries without allocated clusters return an empty chain.
func (fs *Fs) Chain(e EntryHeader) ([]uint16, error) {
	if e.FirstCluster() == 0 {
		return nil, nil
	}

	chain, err := walkChain(fs.reader, fs.geometry.FATOffset(), e.FirstCluster(), fs.geometry.MaxClusters(), fs.log)
	return chain, checkpoint.From(err)
}

// Extract reads the complete content of the entry.
// Directories and empty files have no content, for them ok is false and
// nothing is read from the volume.
func (fs *Fs) Extract(e EntryHeader) (data []byte, ok bool, err error) {
	if !e.HasContent() {
		return nil, false, nil
	}

	chain, err := fs.Chain(e)
	if err != nil {
		return nil, false, checkpoint.Wrap(err, ErrReadFile)
	}

	data, err = assemble(fs.reader, e, fs.geometry, chain, fs.log)
	if err != nil {
		return nil, false, checkpoint.From(err)
	}

	return data, true, nil
}

// cachedChain walks the chain starting at cluster only once per Fs.
// The volume is read-only, so a walked chain stays valid. Failed walks are
// not cached.
func (fs *Fs) cachedChain(cluster uint16) ([]uint16, error) {
	fs.chainLock.Lock()
	defer fs.chainLock.Unlock()

	if chain, ok := fs.chains[cluster]; ok {
		return chain, nil
	}

	chain, err := fs.Chain(EntryHeader{FirstClusterLO: cluster})
	if err != nil {
		return nil, err
	}

	if fs.chains == nil {
		fs.chains = make(map[uint16][]uint16)
	}
	fs.log.Debugf("Caching chain of cluster %d with %d clusters", cluster, len(chain))
	fs.chains[cluster] = chain
	return chain, nil
}

// readFileAt reads up to readSize bytes of a file starting at offset.
// It returns io.EOF if the file ends before readSize bytes are read.
func (fs *Fs) readFileAt(cluster uint16, fileSize int64, offset int64, readSize int64) ([]byte, error) {
	if offset >= fileSize {
		return nil, io.EOF
	}

	size := readSize
	if offset+size > fileSize {
		size = fileSize - offset
	}

	chain, err := fs.cachedChain(cluster)
	if err != nil {
		return nil, err
	}

	data := make([]byte, size)
	n, err := readClusters(fs.reader, fs.geometry, chain, fileSize, data, offset, fs.log)
	if err != nil {
		return data[:n], err
	}

	if size < readSize {
		return data, io.EOF
	}
	return data, nil
}

// readRoot lists the root directory for the afero view.
func (fs *Fs) readRoot() ([]EntryHeader, error) {
	return visibleEntries(fs.catalog), nil
}

// readDir lists a subdirectory stored in the cluster chain starting at cluster.
func (fs *Fs) readDir(cluster uint16) ([]EntryHeader, error) {
	chain, err := fs.cachedChain(cluster)
	if err != nil {
		return nil, checkpoint.Wrap(err, ErrReadDir)
	}

	var entries []EntryHeader
	buf := make([]byte, fs.geometry.ClusterSize())
	for _, c := range chain {
		if err := readFull(fs.reader, buf, fs.geometry.ClusterOffset(c)); err != nil {
			return nil, checkpoint.Wrap(err, ErrReadDir)
		}

		clusterEntries, end, err := decodeEntries(buf, fs.log)
		if err != nil {
			return nil, checkpoint.Wrap(err, ErrReadDir)
		}
		entries = append(entries, clusterEntries...)

		if end {
			break
		}
	}

	return visibleEntries(entries), nil
}

// visibleEntries drops the entries which are no files or directories.
func visibleEntries(entries []EntryHeader) []EntryHeader {
	result := make([]EntryHeader, 0, len(entries))
	for _, e := range entries {
		if e.IsVolumeLabel() || e.IsDotEntry() {
			continue
		}
		result = append(result, e)
	}
	return result
}

// lookup resolves a slash separated path. The root directory is returned as nil.
func (fs *Fs) lookup(name string) (*EntryHeader, error) {
	cleaned := strings.Trim(path.Clean("/"+name), "/")
	if cleaned == "" {
		return nil, nil
	}

	entries, _ := fs.readRoot()
	parts := strings.Split(cleaned, "/")

	for i, part := range parts {
		var match *EntryHeader
		for j := range entries {
			if strings.EqualFold(entries[j].ShortName(), part) {
				match = &entries[j]
				break
			}
		}

		if match == nil {
			return nil, os.ErrNotExist
		}

		if i == len(parts)-1 {
			return match, nil
		}

		if !match.IsDir() {
			return nil, syscall.ENOTDIR
		}

		var err error
		entries, err = fs.readDir(match.FirstCluster())
		if err != nil {
			return nil, err
		}
	}

	return nil, os.ErrNotExist
}

func readOnlyError(op, name string) error {
	return &os.PathError{Op: op, Path: name, Err: checkpoint.Wrap(syscall.EROFS, ErrReadOnly)}
}

func (fs *Fs) Create(name string) (afero.File, error) {
	return nil, readOnlyError("create", name)
}

func (fs *Fs) Mkdir(name string, perm os.FileMode) error {
	return readOnlyError("mkdir", name)
}

func (fs *Fs) MkdirAll(path string, perm os.FileMode) error {
	return readOnlyError("mkdir", path)
}

// Open opens a file or directory for reading. Paths are matched case insensitive
// against the 8.3 names, the root directory is "", "." or "/".
func (fs *Fs) Open(name string) (afero.File, error) {
	entry, err := fs.lookup(name)
	if err != nil {
		return nil, &os.PathError{Op: "open", Path: name, Err: checkpoint.Wrap(err, ErrOpenFile)}
	}

	if entry == nil {
		return &File{
			fs:          fs,
			path:        "",
			isDirectory: true,
			stat:        rootFileInfo{label: fs.Label()},
		}, nil
	}

	return &File{
		fs:           fs,
		path:         name,
		isDirectory:  entry.IsDir(),
		isReadOnly:   entry.Attribute&AttrReadOnly == AttrReadOnly,
		isHidden:     entry.Attribute&AttrHidden == AttrHidden,
		isSystem:     entry.Attribute&AttrSystem == AttrSystem,
		firstCluster: entry.FirstCluster(),
		stat:         entry.FileInfo(),
	}, nil
}

// OpenFile only supports opening files read-only.
func (fs *Fs) OpenFile(name string, flag int, perm os.FileMode) (afero.File, error) {
	if flag&(os.O_WRONLY|os.O_RDWR|os.O_CREATE|os.O_APPEND|os.O_TRUNC) != 0 {
		return nil, readOnlyError("open", name)
	}
	return fs.Open(name)
}

func (fs *Fs) Remove(name string) error {
	return readOnlyError("remove", name)
}

func (fs *Fs) RemoveAll(path string) error {
	return readOnlyError("remove", path)
}

func (fs *Fs) Rename(oldname, newname string) error {
	return readOnlyError("rename", oldname)
}

func (fs *Fs) Stat(name string) (os.FileInfo, error) {
	entry, err := fs.lookup(name)
	if err != nil {
		return nil, &os.PathError{Op: "stat", Path: name, Err: err}
	}

	if entry == nil {
		return rootFileInfo{label: fs.Label()}, nil
	}
	return entry.FileInfo(), nil
}

func (fs *Fs) Name() string {
	return "gofat16"
}

func (fs *Fs) Chmod(name string, mode os.FileMode) error {
	return readOnlyError("chmod", name)
}

func (fs *Fs) Chown(name string, uid, gid int) error {
	return readOnlyError("chown", name)
}

func (fs *Fs) Chtimes(name string, atime time.Time, mtime time.Time) error {
	return readOnlyError("chtimes", name)
}

var (
	_ afero.Fs   = (*Fs)(nil)
	_ afero.File = (*File)(nil)
)
