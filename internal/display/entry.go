package display

import (
	"fmt"
	"io"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/aligator/gofat16"
)

// CatalogItem is one selectable line of the catalog.
type CatalogItem struct {
	Index int    `json:"index" yaml:"index"`
	Name  string `json:"name" yaml:"name"`
	Type  string `json:"type" yaml:"type"`
	Size  uint32 `json:"size" yaml:"size"`
}

// Catalog lists the root directory entries with their 1-based selection index.
type Catalog []CatalogItem

func NewCatalog(entries []gofat16.EntryHeader) Catalog {
	catalog := make(Catalog, 0, len(entries))
	for i, e := range entries {
		catalog = append(catalog, CatalogItem{
			Index: i + 1,
			Name:  e.ShortName(),
			Type:  TypeLabel(e.Attribute),
			Size:  e.FileSize,
		})
	}
	return catalog
}

// writeText prints the menu lines "1. NAME".
func (c Catalog) writeText(w io.Writer) error {
	if len(c) == 0 {
		_, err := fmt.Fprintln(w, "(no entries)")
		return err
	}

	for _, item := range c {
		if _, err := fmt.Fprintf(w, "%d. %s\n", item.Index, item.Name); err != nil {
			return err
		}
	}
	return nil
}

// Entry is the full metadata of a directory entry. The raw fields are
// printed in hex as they are stored on disk.
type Entry struct {
	Name      string `json:"name" yaml:"name"`
	RawName   string `json:"rawName" yaml:"rawName"`
	BaseName  string `json:"baseName" yaml:"baseName"`
	Extension string `json:"extension" yaml:"extension"`
	Attribute string `json:"attribute" yaml:"attribute"`
	Type      string `json:"type" yaml:"type"`

	NTReserved      string `json:"ntReserved" yaml:"ntReserved"`
	CreateTimeTenth string `json:"createTimeTenth" yaml:"createTimeTenth"`
	CreateTime      string `json:"createTime" yaml:"createTime"`
	CreateDate      string `json:"createDate" yaml:"createDate"`
	LastAccessDate  string `json:"lastAccessDate" yaml:"lastAccessDate"`
	FirstClusterHI  string `json:"firstClusterHi" yaml:"firstClusterHi"`
	WriteTime       string `json:"writeTime" yaml:"writeTime"`
	WriteDate       string `json:"writeDate" yaml:"writeDate"`
	FirstClusterLO  string `json:"firstClusterLo" yaml:"firstClusterLo"`
	FileSize        uint32 `json:"fileSize" yaml:"fileSize"`

	Modified string `json:"modified,omitempty" yaml:"modified,omitempty"`
}

func NewEntry(e gofat16.EntryHeader) Entry {
	entry := Entry{
		Name:      e.ShortName(),
		RawName:   string(e.Name[:]),
		BaseName:  string(e.BaseName()),
		Extension: string(e.Extension()),
		Attribute: hex8(e.Attribute),
		Type:      TypeLabel(e.Attribute),

		NTReserved:      hex8(e.NTReserved),
		CreateTimeTenth: hex8(e.CreateTimeTenth),
		CreateTime:      hex16(e.CreateTime),
		CreateDate:      hex16(e.CreateDate),
		LastAccessDate:  hex16(e.LastAccessDate),
		FirstClusterHI:  hex16(e.FirstClusterHI),
		WriteTime:       hex16(e.WriteTime),
		WriteDate:       hex16(e.WriteDate),
		FirstClusterLO:  hex16(e.FirstClusterLO),
		FileSize:        e.FileSize,
	}

	if modified := gofat16.ParseDateTime(e.WriteDate, e.WriteTime); !modified.IsZero() {
		entry.Modified = modified.Format(time.DateTime)
	}

	return entry
}

func (e Entry) writeText(w io.Writer) error {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)

	fmt.Fprintf(tw, "File name (full):\t'%s'\n", e.RawName)
	fmt.Fprintf(tw, "File name (name only):\t'%s'\n", e.BaseName)
	fmt.Fprintf(tw, "File extension:\t'%s'\n", e.Extension)
	fmt.Fprintf(tw, "Attributes:\t%s\n", e.Attribute)
	fmt.Fprintf(tw, "Type:\t%s\n", e.Type)
	fmt.Fprintf(tw, "Reserved Windows NT:\t%s\n", e.NTReserved)
	fmt.Fprintf(tw, "Creation time (tenth):\t%s\n", e.CreateTimeTenth)
	fmt.Fprintf(tw, "Creation time:\t%s\n", e.CreateTime)
	fmt.Fprintf(tw, "Creation date:\t%s\n", e.CreateDate)
	fmt.Fprintf(tw, "Last accessed:\t%s\n", e.LastAccessDate)
	fmt.Fprintf(tw, "High first cluster:\t%s\n", e.FirstClusterHI)
	fmt.Fprintf(tw, "Last modification time:\t%s\n", e.WriteTime)
	fmt.Fprintf(tw, "Last modification date:\t%s\n", e.WriteDate)
	fmt.Fprintf(tw, "Low first cluster:\t%s\n", e.FirstClusterLO)
	fmt.Fprintf(tw, "File size:\t%d\n", e.FileSize)
	if e.Modified != "" {
		fmt.Fprintf(tw, "Modified:\t%s\n", e.Modified)
	}

	return tw.Flush()
}

// Chain is the cluster chain of an entry.
type Chain struct {
	Name     string   `json:"name" yaml:"name"`
	Clusters []uint16 `json:"clusters" yaml:"clusters"`
}

func NewChain(e gofat16.EntryHeader, clusters []uint16) Chain {
	if clusters == nil {
		clusters = []uint16{}
	}
	return Chain{Name: e.ShortName(), Clusters: clusters}
}

func (c Chain) writeText(w io.Writer) error {
	if len(c.Clusters) == 0 {
		_, err := fmt.Fprintf(w, "%s: no clusters\n", c.Name)
		return err
	}

	parts := make([]string, 0, len(c.Clusters))
	for _, cluster := range c.Clusters {
		parts = append(parts, fmt.Sprintf("%d", cluster))
	}

	_, err := fmt.Fprintf(w, "%s: %s\n", c.Name, strings.Join(parts, " -> "))
	return err
}
