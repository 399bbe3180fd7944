package gofat16

import "errors"

// These errors classify everything that may go wrong while exploring a volume.
// Errors returned by this package wrap one of them and can be checked with errors.Is.
var (
	// ErrFormat is returned by New if the boot sector is too short or
	// describes a geometry which cannot be used.
	ErrFormat = errors.New("invalid FAT16 format")

	// ErrIO is returned if the volume could not be read at the requested position.
	ErrIO = errors.New("could not read the volume")

	// ErrChainCycle is returned if a cluster chain visits the same cluster twice.
	ErrChainCycle = errors.New("cluster chain contains a cycle")

	// ErrBadCluster is returned if a cluster chain links to a cluster marked as bad.
	ErrBadCluster = errors.New("cluster chain links to a bad cluster")

	// ErrInvalidCluster is returned if a cluster chain contains a free, reserved
	// or out of range cluster number.
	ErrInvalidCluster = errors.New("invalid cluster number")

	// ErrShortChain is returned if a cluster chain is too short for the file size.
	ErrShortChain = errors.New("cluster chain is shorter than the file")

	// ErrSelection is returned if a catalog index is out of range.
	ErrSelection = errors.New("invalid selection")

	// ErrReadOnly is returned by all operations which would modify the volume.
	ErrReadOnly = errors.New("the filesystem is read-only")
)

// These errors may occur while processing a file.
var (
	ErrReadFile = errors.New("could not read file completely")
	ErrSeekFile = errors.New("could not seek inside of the file")
	ErrReadDir  = errors.New("could not read the directory")
	ErrOpenFile = errors.New("could not open the file")
)

var (
	errIndexOutOfRange = errors.New("catalog index out of range")
	errShortBootSector = errors.New("boot sector too short")
	errShortEntry      = errors.New("directory entry too short")
	errInvalidGeometry = errors.New("invalid geometry")
)
