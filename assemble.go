package gofat16

import (
	"fmt"
	"io"

	"github.com/aligator/gofat16/checkpoint"
	"go.uber.org/zap"
)

// Assemble reads the content of the entry from the clusters of its chain.
// The result has exactly e.FileSize bytes: every cluster but the last one is
// read completely, the last one only up to the end of the file.
// Entries without content return nil without reading anything.
func Assemble(r io.ReaderAt, e EntryHeader, g Geometry, chain []uint16) ([]byte, error) {
	return assemble(r, e, g, chain, zap.NewNop().Sugar())
}

func assemble(r io.ReaderAt, e EntryHeader, g Geometry, chain []uint16, log *zap.SugaredLogger) ([]byte, error) {
	if !e.HasContent() {
		return nil, nil
	}

	data := make([]byte, e.FileSize)
	if _, err := readClusters(r, g, chain, int64(e.FileSize), data, 0, log); err != nil {
		return nil, err
	}

	return data, nil
}

// readClusters fills p with file data starting at off, limited by size.
// Clusters before the one containing off and after the one containing the
// last requested byte are not read.
func readClusters(r io.ReaderAt, g Geometry, chain []uint16, size int64, p []byte, off int64, log *zap.SugaredLogger) (int, error) {
	clusterSize := g.ClusterSize()
	if clusterSize <= 0 {
		return 0, checkpoint.Wrapf(fmt.Errorf("cluster size %d", clusterSize), ErrFormat, "cannot read clusters")
	}

	end := off + int64(len(p))
	if end > size {
		end = size
	}
	if off >= end {
		return 0, nil
	}

	needed := (size + clusterSize - 1) / clusterSize
	if int64(len(chain)) < needed {
		return 0, checkpoint.Wrapf(fmt.Errorf("%d clusters for %d bytes", len(chain), size), ErrShortChain, "need %d clusters of %d bytes", needed, clusterSize)
	}

	n := 0
	for i := off / clusterSize; i*clusterSize < end; i++ {
		// Position of the cluster inside the file and the part of it which is requested.
		clusterStart := i * clusterSize
		from := max(off, clusterStart) - clusterStart
		to := min(end, clusterStart+clusterSize) - clusterStart

		cluster := chain[i]
		if !fatEntry(cluster).IsNextCluster() {
			return n, checkpoint.Wrapf(fmt.Errorf("cluster %d at chain position %d", cluster, i), ErrInvalidCluster, "cannot read data")
		}

		log.Debugw("read cluster", "position", i, "cluster", cluster, "bytes", to-from)

		if err := readFull(r, p[n:n+int(to-from)], g.ClusterOffset(cluster)+from); err != nil {
			return n, checkpoint.Wrap(err, ErrReadFile)
		}
		n += int(to - from)
	}

	return n, nil
}
