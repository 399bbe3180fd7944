package display

import (
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/aligator/gofat16"
)

// Volume is the boot record of a volume together with the layout derived from it.
type Volume struct {
	JumpCode          string `json:"jumpCode" yaml:"jumpCode"`
	OEMName           string `json:"oemName" yaml:"oemName"`
	BytesPerSector    uint16 `json:"bytesPerSector" yaml:"bytesPerSector"`
	SectorsPerCluster uint8  `json:"sectorsPerCluster" yaml:"sectorsPerCluster"`
	ReservedSectors   uint16 `json:"reservedSectors" yaml:"reservedSectors"`
	FATCount          uint8  `json:"fatCount" yaml:"fatCount"`
	RootEntryCount    uint16 `json:"rootEntryCount" yaml:"rootEntryCount"`
	TotalSectors16    uint16 `json:"totalSectors16" yaml:"totalSectors16"`
	Media             string `json:"media" yaml:"media"`
	FATSize           uint16 `json:"fatSize" yaml:"fatSize"`
	SectorsPerTrack   uint16 `json:"sectorsPerTrack" yaml:"sectorsPerTrack"`
	Heads             uint16 `json:"heads" yaml:"heads"`
	HiddenSectors     uint32 `json:"hiddenSectors" yaml:"hiddenSectors"`
	TotalSectors32    uint32 `json:"totalSectors32" yaml:"totalSectors32"`

	DriveNumber string `json:"driveNumber" yaml:"driveNumber"`
	VolumeID    string `json:"volumeId" yaml:"volumeId"`
	Label       string `json:"label,omitempty" yaml:"label,omitempty"`
	FSType      string `json:"fsType,omitempty" yaml:"fsType,omitempty"`

	Layout Layout `json:"layout" yaml:"layout"`
}

// Layout holds the byte offsets of the volume regions.
type Layout struct {
	ClusterSize   int64 `json:"clusterSize" yaml:"clusterSize"`
	FATOffset     int64 `json:"fatOffset" yaml:"fatOffset"`
	RootDirOffset int64 `json:"rootDirOffset" yaml:"rootDirOffset"`
	DataOffset    int64 `json:"dataOffset" yaml:"dataOffset"`
	MaxClusters   int   `json:"maxClusters" yaml:"maxClusters"`
}

func NewVolume(fs *gofat16.Fs) Volume {
	bs := fs.BootSector()
	ext := fs.Extended()
	g := fs.Geometry()

	return Volume{
		JumpCode:          fmt.Sprintf("% X", bs.BSJumpBoot[:]),
		OEMName:           string(bs.BSOEMName[:]),
		BytesPerSector:    bs.BytesPerSector,
		SectorsPerCluster: bs.SectorsPerCluster,
		ReservedSectors:   bs.ReservedSectorCount,
		FATCount:          bs.NumFATs,
		RootEntryCount:    bs.RootEntryCount,
		TotalSectors16:    bs.TotalSectors16,
		Media:             hex8(bs.Media),
		FATSize:           bs.FATSize16,
		SectorsPerTrack:   bs.SectorsPerTrack,
		Heads:             bs.NumberOfHeads,
		HiddenSectors:     bs.HiddenSectors,
		TotalSectors32:    bs.TotalSectors32,

		DriveNumber: hex8(ext.BSDriveNumber),
		VolumeID:    hex32(ext.BSVolumeID),
		Label:       fs.Label(),
		FSType:      fs.FSType(),

		Layout: Layout{
			ClusterSize:   g.ClusterSize(),
			FATOffset:     g.FATOffset(),
			RootDirOffset: g.RootDirOffset(),
			DataOffset:    g.DataOffset(),
			MaxClusters:   g.MaxClusters(),
		},
	}
}

func (v Volume) writeText(w io.Writer) error {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)

	fmt.Fprintln(tw, "Boot Record")
	fmt.Fprintln(tw, "-----------")
	fmt.Fprintf(tw, "Jump code:\t%s\n", v.JumpCode)
	fmt.Fprintf(tw, "OEM name:\t%s\n", v.OEMName)
	fmt.Fprintf(tw, "Bytes per sector:\t%d\n", v.BytesPerSector)
	fmt.Fprintf(tw, "Sectors per cluster:\t%d\n", v.SectorsPerCluster)
	fmt.Fprintf(tw, "Reserved sectors:\t%d\n", v.ReservedSectors)
	fmt.Fprintf(tw, "FAT count:\t%d\n", v.FATCount)
	fmt.Fprintf(tw, "Root entry count:\t%d\n", v.RootEntryCount)
	fmt.Fprintf(tw, "Total sectors 16:\t%d\n", v.TotalSectors16)
	fmt.Fprintf(tw, "Media type:\t%s\n", v.Media)
	fmt.Fprintf(tw, "Sectors per FAT:\t%d\n", v.FATSize)
	fmt.Fprintf(tw, "Sectors per track:\t%d\n", v.SectorsPerTrack)
	fmt.Fprintf(tw, "Heads:\t%d\n", v.Heads)
	fmt.Fprintf(tw, "Hidden sectors:\t%d\n", v.HiddenSectors)
	fmt.Fprintf(tw, "Total sectors 32:\t%d\n", v.TotalSectors32)
	fmt.Fprintf(tw, "Drive number:\t%s\n", v.DriveNumber)
	fmt.Fprintf(tw, "Volume ID:\t%s\n", v.VolumeID)
	fmt.Fprintf(tw, "Volume label:\t%s\n", emptyAsNone(v.Label))
	fmt.Fprintf(tw, "Filesystem type:\t%s\n", emptyAsNone(v.FSType))

	fmt.Fprintln(tw)
	fmt.Fprintln(tw, "Layout")
	fmt.Fprintln(tw, "------")
	fmt.Fprintf(tw, "Cluster size:\t%d bytes\n", v.Layout.ClusterSize)
	fmt.Fprintf(tw, "FAT offset:\t%d\n", v.Layout.FATOffset)
	fmt.Fprintf(tw, "Root directory offset:\t%d\n", v.Layout.RootDirOffset)
	fmt.Fprintf(tw, "Data offset:\t%d\n", v.Layout.DataOffset)
	fmt.Fprintf(tw, "Max clusters:\t%d\n", v.Layout.MaxClusters)

	return tw.Flush()
}

func emptyAsNone(s string) string {
	if s == "" {
		return "(none)"
	}
	return s
}
