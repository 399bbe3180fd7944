package gofat16

import (
	"encoding/binary"
	"fmt"
	"io"

	"github.com/aligator/gofat16/checkpoint"
	"go.uber.org/zap"
)

// fatEntry is the value of one FAT16 table entry.
type fatEntry uint16

const (
	fatFree     fatEntry = 0x0000
	fatReserved fatEntry = 0x0001
	fatBad      fatEntry = 0xFFF7
	fatEOFMin   fatEntry = 0xFFF8
)

// IsFree reports if the cluster is unused.
func (e fatEntry) IsFree() bool {
	return e == fatFree
}

// IsReserved reports if the value is the reserved cluster number 1.
func (e fatEntry) IsReserved() bool {
	return e == fatReserved
}

// IsBad reports if the cluster is marked as bad.
func (e fatEntry) IsBad() bool {
	return e == fatBad
}

// IsEOF reports if the value ends a chain. Any value of 0xFFF8 to 0xFFFF does.
func (e fatEntry) IsEOF() bool {
	return e >= fatEOFMin
}

// IsNextCluster reports if the value links to another data cluster.
func (e fatEntry) IsNextCluster() bool {
	return e >= 2 && e <= maxClusterNumber
}

func readFATEntry(r io.ReaderAt, fatOffset int64, cluster uint16) (fatEntry, error) {
	var raw [fatEntrySize]byte
	if err := readFull(r, raw[:], fatOffset+int64(cluster)*fatEntrySize); err != nil {
		return 0, err
	}
	return fatEntry(binary.LittleEndian.Uint16(raw[:])), nil
}

// WalkChain follows the FAT starting at fatOffset from the start cluster and
// returns all clusters of the chain in link order, start included.
// End of chain markers are not part of the result.
//
// maxClusters bounds the chain, see Geometry.MaxClusters. A chain which
// links to a cluster twice fails with ErrChainCycle instead of looping forever.
func WalkChain(r io.ReaderAt, fatOffset int64, start uint16, maxClusters int) ([]uint16, error) {
	return walkChain(r, fatOffset, start, maxClusters, zap.NewNop().Sugar())
}

func walkChain(r io.ReaderAt, fatOffset int64, start uint16, maxClusters int, log *zap.SugaredLogger) ([]uint16, error) {
	if maxClusters <= 0 || maxClusters > maxClusterNumber+1 {
		maxClusters = maxClusterNumber + 1
	}

	if !fatEntry(start).IsNextCluster() || int(start) >= maxClusters {
		return nil, checkpoint.Wrapf(fmt.Errorf("start cluster %d", start), ErrInvalidCluster, "valid clusters are 2 to %d", maxClusters-1)
	}

	chain := []uint16{start}
	visited := map[uint16]struct{}{start: {}}
	current := start

	for {
		next, err := readFATEntry(r, fatOffset, current)
		if err != nil {
			return nil, checkpoint.From(err)
		}

		log.Debugw("cluster link", "cluster", current, "next", fmt.Sprintf("0x%04X", uint16(next)))

		switch {
		case next.IsEOF():
			return chain, nil
		case next.IsBad():
			return nil, checkpoint.Wrapf(fmt.Errorf("cluster %d links to 0x%04X", current, uint16(next)), ErrBadCluster, "after %d clusters", len(chain))
		case !next.IsNextCluster() || int(next) >= maxClusters:
			return nil, checkpoint.Wrapf(fmt.Errorf("cluster %d links to 0x%04X", current, uint16(next)), ErrInvalidCluster, "valid clusters are 2 to %d", maxClusters-1)
		}

		if _, ok := visited[uint16(next)]; ok || len(chain) >= maxClusters {
			return nil, checkpoint.Wrapf(fmt.Errorf("cluster %d links back to %d", current, uint16(next)), ErrChainCycle, "after %d clusters", len(chain))
		}

		visited[uint16(next)] = struct{}{}
		chain = append(chain, uint16(next))
		current = uint16(next)
	}
}
