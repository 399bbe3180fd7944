package gofat16

import (
	"os"
	"reflect"
	"testing"
	"time"
)

func TestEntryHeader_FileInfo(t *testing.T) {
	tests := []struct {
		name  string
		entry EntryHeader
		want  os.FileInfo
	}{
		{
			name: "it just has to be the same",
			entry: EntryHeader{
				Name:            [11]byte{'H', 'E', 'L', 'L', 'O', ' ', ' ', ' ', 'T', 'X', 'T'},
				Attribute:       AttrDirectory,
				NTReserved:      0,
				CreateTimeTenth: 1,
				CreateTime:      2,
				CreateDate:      3,
				LastAccessDate:  4,
				FirstClusterHI:  5,
				WriteTime:       6,
				WriteDate:       7,
				FirstClusterLO:  8,
				FileSize:        9,
			},
			want: entryFileInfo{
				entry: EntryHeader{
					Name:            [11]byte{'H', 'E', 'L', 'L', 'O', ' ', ' ', ' ', 'T', 'X', 'T'},
					Attribute:       AttrDirectory,
					NTReserved:      0,
					CreateTimeTenth: 1,
					CreateTime:      2,
					CreateDate:      3,
					LastAccessDate:  4,
					FirstClusterHI:  5,
					WriteTime:       6,
					WriteDate:       7,
					FirstClusterLO:  8,
					FileSize:        9,
				},
			},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.entry.FileInfo(); !reflect.DeepEqual(got, tt.want) {
				t.Errorf("EntryHeader.FileInfo() = %v, want %v", got, tt.want)
			}
		})
	}
}

func Test_entryFileInfo_Name(t *testing.T) {
	tests := []struct {
		name  string
		entry EntryHeader
		want  string
	}{
		{
			name:  "8.3 filename",
			entry: EntryHeader{Name: [11]byte{'H', 'E', 'L', 'L', 'O', ' ', ' ', ' ', 'T', 'X', 'T'}},
			want:  "HELLO.TXT",
		},
		{
			name:  "8.3 short extension",
			entry: EntryHeader{Name: [11]byte{'H', 'E', 'L', 'L', 'O', ' ', ' ', ' ', 'T', 'X', ' '}},
			want:  "HELLO.TX",
		},
		{
			name:  "8.3 no extension",
			entry: EntryHeader{Name: [11]byte{'H', 'E', 'L', 'L', 'O', ' ', ' ', ' ', ' ', ' ', ' '}},
			want:  "HELLO",
		},
		{
			name:  "8.3 full name",
			entry: EntryHeader{Name: [11]byte{'H', 'E', 'L', 'L', 'O', 'W', 'O', 'R', 'T', 'X', 'T'}},
			want:  "HELLOWOR.TXT",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e := entryFileInfo{entry: tt.entry}
			if got := e.Name(); got != tt.want {
				t.Errorf("entryFileInfo.Name() = %v, want %v", got, tt.want)
			}
		})
	}
}

func Test_entryFileInfo_Size(t *testing.T) {
	tests := []struct {
		name  string
		entry EntryHeader
		want  int64
	}{
		{
			name:  "file",
			entry: EntryHeader{FileSize: 600},
			want:  600,
		},
		{
			name:  "directories have no size",
			entry: EntryHeader{Attribute: AttrDirectory, FileSize: 600},
			want:  0,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e := entryFileInfo{entry: tt.entry}
			if got := e.Size(); got != tt.want {
				t.Errorf("entryFileInfo.Size() = %v, want %v", got, tt.want)
			}
		})
	}
}

func Test_entryFileInfo_Mode(t *testing.T) {
	tests := []struct {
		name  string
		entry EntryHeader
		want  os.FileMode
	}{
		{
			name:  "file",
			entry: EntryHeader{Attribute: AttrArchive},
			want:  0444,
		},
		{
			name:  "read-only file",
			entry: EntryHeader{Attribute: AttrArchive | AttrReadOnly},
			want:  0444,
		},
		{
			name:  "directory",
			entry: EntryHeader{Attribute: AttrDirectory},
			want:  os.ModeDir | 0555,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e := entryFileInfo{entry: tt.entry}
			if got := e.Mode(); got != tt.want {
				t.Errorf("entryFileInfo.Mode() = %v, want %v", got, tt.want)
			}
		})
	}
}

func Test_entryFileInfo_ModTime(t *testing.T) {
	tests := []struct {
		name      string
		writeTime uint16
		writeDate uint16
		want      time.Time
	}{
		{
			name:      "a normal write time and date",
			writeTime: 41936,
			writeDate: 20890,
			want:      time.Date(2020, 12, 26, 20, 30, 32, 0, time.UTC),
		},
		{
			name:      "a zero write time and date results in time.Time.IsZero() == true",
			writeTime: 0,
			writeDate: 0,
			want:      time.Time{},
		},
		{
			name:      "a zero write time results in 00:00:00.000000000",
			writeTime: 0,
			writeDate: 20890,
			want:      time.Date(2020, 12, 26, 0, 0, 0, 0, time.UTC),
		},
		{
			name:      "a zero write date results in time.Time.IsZero() == true",
			writeTime: 41936,
			writeDate: 0,
			want:      time.Time{},
		},
		{
			name:      "a zero write day results in time.Time.IsZero() == true",
			writeTime: 41936,
			writeDate: 20928,
			want:      time.Time{},
		},
		{
			name:      "a zero write month results in time.Time.IsZero() == true",
			writeTime: 41936,
			writeDate: 20480,
			want:      time.Time{},
		},
		{
			name:      "a month > 12 increases the year",
			writeTime: 41936,
			writeDate: 20922,
			want:      time.Date(2021, 1, 26, 20, 30, 32, 0, time.UTC),
		},
		{
			name:      "a second > 59 increases the minutes",
			writeTime: 41951,
			writeDate: 20890,
			want:      time.Date(2020, 12, 26, 20, 31, 2, 0, time.UTC),
		},
		{
			name:      "a minute > 59 increases the hours",
			writeTime: 42992,
			writeDate: 20890,
			want:      time.Date(2020, 12, 26, 21, 3, 32, 0, time.UTC),
		},
		{
			name:      "a time > 23:59:59 gets limited to 23:59:59",
			writeTime: 51199,
			writeDate: 20890,
			want:      time.Date(2020, 12, 26, 23, 59, 59, 0, time.UTC),
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e := entryFileInfo{
				entry: EntryHeader{WriteTime: tt.writeTime, WriteDate: tt.writeDate},
			}
			if got := e.ModTime(); !reflect.DeepEqual(got, tt.want) {
				t.Errorf("entryFileInfo.ModTime() = %v, want %v", got, tt.want)
			}
			if got := e.ModTime().IsZero(); got != tt.want.IsZero() {
				t.Errorf("entryFileInfo.ModTime().IsZero() = %v, want.IsZero() %v", got, tt.want.IsZero())
			}
		})
	}
}

func Test_entryFileInfo_IsDir(t *testing.T) {
	tests := []struct {
		name  string
		entry EntryHeader
		want  bool
	}{
		{
			name:  "No directory",
			entry: EntryHeader{Attribute: AttrArchive},
			want:  false,
		},
		{
			name:  "Directory",
			entry: EntryHeader{Attribute: AttrDirectory},
			want:  true,
		},
		{
			name:  "Hidden directory",
			entry: EntryHeader{Attribute: AttrDirectory | AttrHidden},
			want:  true,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e := entryFileInfo{entry: tt.entry}
			if got := e.IsDir(); got != tt.want {
				t.Errorf("entryFileInfo.IsDir() = %v, want %v", got, tt.want)
			}
		})
	}
}

func Test_entryFileInfo_Sys(t *testing.T) {
	entry := EntryHeader{Name: [11]byte{'S', 'Y', 'S'}, FileSize: 3}
	e := entryFileInfo{entry: entry}

	got, ok := e.Sys().(EntryHeader)
	if !ok {
		t.Fatalf("entryFileInfo.Sys() = %T, want EntryHeader", e.Sys())
	}
	if got != entry {
		t.Errorf("entryFileInfo.Sys() = %v, want %v", got, entry)
	}
}

func Test_rootFileInfo(t *testing.T) {
	r := rootFileInfo{label: "TESTVOL"}

	if !r.IsDir() || !r.Mode().IsDir() {
		t.Errorf("rootFileInfo is no directory")
	}
	if r.Name() != "/" {
		t.Errorf("rootFileInfo.Name() = %q, want %q", r.Name(), "/")
	}
	if r.Sys() != "TESTVOL" {
		t.Errorf("rootFileInfo.Sys() = %v, want %v", r.Sys(), "TESTVOL")
	}
}
