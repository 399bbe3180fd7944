package fattest

import (
	"bytes"
	"encoding/binary"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestShortName(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{name: "name and extension", in: "hello.txt", want: "HELLO   TXT"},
		{name: "no extension", in: "README", want: "README     "},
		{name: "long base is cut", in: "verylongname.c", want: "VERYLONGC  "},
		{name: "dot", in: ".", want: ".          "},
		{name: "dotdot", in: "..", want: "..         "},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ShortName(tt.in)
			require.Equal(t, tt.want, string(got[:]))
		})
	}
}

func TestEncodeEntry(t *testing.T) {
	slot := EncodeEntry(Entry{
		Name:         ShortName("a.bin"),
		Attr:         AttrArchive,
		WriteTime:    0x1234,
		WriteDate:    0x5678,
		FirstCluster: 7,
		Size:         600,
	})

	require.Equal(t, "A       BIN", string(slot[:11]))
	require.Equal(t, AttrArchive, slot[11])
	require.Equal(t, uint16(0x1234), binary.LittleEndian.Uint16(slot[22:]))
	require.Equal(t, uint16(0x5678), binary.LittleEndian.Uint16(slot[24:]))
	require.Equal(t, uint16(7), binary.LittleEndian.Uint16(slot[26:]))
	require.Equal(t, uint32(600), binary.LittleEndian.Uint32(slot[28:]))
}

func TestImage_Build(t *testing.T) {
	img := New()
	content := append(bytes.Repeat([]byte{'A'}, 512), bytes.Repeat([]byte{'B'}, 88)...)
	img.AddFile("data.bin", content, 2, 3)

	out := img.MustBuild(t)

	require.Len(t, out, 1*512+512+16*32+16*512)
	require.Equal(t, uint16(512), binary.LittleEndian.Uint16(out[11:]))
	require.Equal(t, []byte{0x55, 0xAA}, out[510:512])

	// FAT[2] = 3, FAT[3] = EOC
	require.Equal(t, uint16(3), binary.LittleEndian.Uint16(out[512+4:]))
	require.Equal(t, EOC, binary.LittleEndian.Uint16(out[512+6:]))

	require.Equal(t, "DATA    BIN", string(out[1024:1024+11]))
	require.Equal(t, content, out[img.ClusterOffset(2):img.ClusterOffset(2)+600])
}

func TestImage_Build_Errors(t *testing.T) {
	t.Run("too many root entries", func(t *testing.T) {
		img := New()
		img.RootEntries = 1
		img.AddFile("a", nil)
		img.AddFile("b", nil)
		_, err := img.Build()
		require.Error(t, err)
	})

	t.Run("cluster outside of the data region", func(t *testing.T) {
		img := New()
		img.SetCluster(100, []byte{1})
		_, err := img.Build()
		require.Error(t, err)
	})
}

func TestDisk(t *testing.T) {
	volume := New().MustBuild(t)
	disk := Disk(2048, volume)

	require.Equal(t, []byte{0x55, 0xAA}, disk[510:512])
	require.Equal(t, PartitionFAT16, disk[446+4])
	require.Equal(t, uint32(2048), binary.LittleEndian.Uint32(disk[446+8:]))
	require.Equal(t, uint32(len(volume)/512), binary.LittleEndian.Uint32(disk[446+12:]))
	require.Equal(t, volume, disk[2048*512:])
}
