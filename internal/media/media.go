// Package media encodes NFT media for upload: a base64 data URI with a
// sniffed MIME type.
package media

import (
	"encoding/base64"
	"fmt"

	"xrplnft/internal/domain"
)

// DataURI renders raw media bytes as "data:<mime>;base64,<payload>". MIME
// detection covers the container formats the marketplace accepts; bytes
// that match nothing fall back to application/octet-stream.
func DataURI(raw []byte) (string, error) {
	if len(raw) == 0 {
		return "", domain.PropertyMissing("media bytes")
	}
	return fmt.Sprintf("data:%s;base64,%s", DetectMIME(raw), base64.StdEncoding.EncodeToString(raw)), nil
}

// magic number table for formats net/http's sniffer misses or mislabels
// (audio/video containers the marketplace supports).
var magicTable = []struct {
	offset int
	magic  []byte
	mime   string
}{
	{0, []byte{0x89, 'P', 'N', 'G', '\r', '\n', 0x1a, '\n'}, "image/png"},
	{0, []byte{0xFF, 0xD8, 0xFF}, "image/jpeg"},
	{0, []byte("GIF87a"), "image/gif"},
	{0, []byte("GIF89a"), "image/gif"},
	{8, []byte("WEBP"), "image/webp"},
	{4, []byte("ftypmp4"), "video/mp4"},
	{4, []byte("ftypisom"), "video/mp4"},
	{4, []byte("ftypMSNV"), "video/mp4"},
	{4, []byte("ftypqt"), "video/quicktime"},
	{0, []byte{0x1A, 0x45, 0xDF, 0xA3}, "video/webm"},
	{0, []byte("ID3"), "audio/mpeg"},
	{0, []byte{0xFF, 0xFB}, "audio/mpeg"},
	{0, []byte("OggS"), "audio/ogg"},
	{0, []byte("fLaC"), "audio/flac"},
	{8, []byte("WAVE"), "audio/wav"},
	{0, []byte("%PDF"), "application/pdf"},
	{0, []byte("<svg"), "image/svg+xml"},
	{0, []byte("<?xml"), "image/svg+xml"},
}

// DetectMIME sniffs the MIME type from leading magic bytes.
func DetectMIME(raw []byte) string {
	for _, entry := range magicTable {
		end := entry.offset + len(entry.magic)
		if len(raw) >= end && string(raw[entry.offset:end]) == string(entry.magic) {
			return entry.mime
		}
	}
	return "application/octet-stream"
}
