package mediakind

import (
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strings"
)

// Kind identifies the processing category of a media file.
type Kind int

const (
	KindUnsupported Kind = iota
	KindImage
	KindVideo
	KindPDF
)

func (k Kind) String() string {
	switch k {
	case KindImage:
		return "image"
	case KindVideo:
		return "video"
	case KindPDF:
		return "pdf"
	default:
		return "unsupported"
	}
}

// headerLen is enough bytes to cover every signature below, including the
// ftyp brand at offset 8.
const headerLen = 16

type signature struct {
	prefix []byte
	kind   Kind
	mime   string
}

var signatures = []signature{
	{[]byte{0xff, 0xd8, 0xff}, KindImage, "image/jpeg"},
	{[]byte{0x89, 0x50, 0x4e, 0x47, 0x0d, 0x0a, 0x1a, 0x0a}, KindImage, "image/png"},
	{[]byte("GIF87a"), KindImage, "image/gif"},
	{[]byte("GIF89a"), KindImage, "image/gif"},
	{[]byte{0x42, 0x4d}, KindImage, "image/bmp"},
	{[]byte{0x49, 0x49, 0x2a, 0x00}, KindImage, "image/tiff"},
	{[]byte{0x4d, 0x4d, 0x00, 0x2a}, KindImage, "image/tiff"},
	{[]byte{0x1a, 0x45, 0xdf, 0xa3}, KindVideo, "video/x-matroska"},
	{[]byte{0x00, 0x00, 0x01, 0xba}, KindVideo, "video/mpeg"},
	{[]byte("%PDF-"), KindPDF, "application/pdf"},
}

// DetectHeader classifies a file from its leading bytes. It returns
// KindUnsupported plus a best-effort MIME type (for diagnostics) when the
// content matches none of the supported categories.
func DetectHeader(header []byte) (Kind, string) {
	for _, sig := range signatures {
		if hasPrefix(header, sig.prefix) {
			return sig.kind, sig.mime
		}
	}

	// RIFF containers: WebP stills and AVI video share the same outer magic.
	if hasPrefix(header, []byte("RIFF")) && len(header) >= 12 {
		switch string(header[8:12]) {
		case "WEBP":
			return KindImage, "image/webp"
		case "AVI ":
			return KindVideo, "video/x-msvideo"
		}
	}

	// ISO base media files (MP4, MOV) carry an ftyp box at offset 4.
	if len(header) >= 12 && string(header[4:8]) == "ftyp" {
		if strings.HasPrefix(string(header[8:12]), "qt") {
			return KindVideo, "video/quicktime"
		}
		return KindVideo, "video/mp4"
	}

	if len(header) == 0 {
		return KindUnsupported, ""
	}
	mime := http.DetectContentType(header)
	if mime == "application/octet-stream" {
		mime = ""
	}
	return KindUnsupported, mime
}

// SniffReader reads up to headerLen bytes from r and classifies them.
func SniffReader(r io.Reader) (Kind, string, error) {
	header := make([]byte, headerLen)
	n, err := io.ReadFull(r, header)
	if err != nil && err != io.ErrUnexpectedEOF && err != io.EOF {
		return KindUnsupported, "", err
	}
	kind, mime := DetectHeader(header[:n])
	return kind, mime, nil
}

// Sniff classifies a file by content, with one exception: a file whose
// content sniffing is inconclusive but whose extension is .pdf is accepted
// as a PDF. It never fails; anything unreadable degrades to KindUnsupported.
func Sniff(path string) (Kind, string) {
	kind, mime := sniffContent(path)
	if kind == KindUnsupported && strings.EqualFold(filepath.Ext(path), ".pdf") {
		return KindPDF, "application/pdf"
	}
	return kind, mime
}

func sniffContent(path string) (Kind, string) {
	f, err := os.Open(path)
	if err != nil {
		return KindUnsupported, ""
	}
	defer f.Close()

	kind, mime, err := SniffReader(f)
	if err != nil {
		return KindUnsupported, ""
	}
	return kind, mime
}

func hasPrefix(buf, prefix []byte) bool {
	if len(buf) < len(prefix) {
		return false
	}
	for i := range prefix {
		if buf[i] != prefix[i] {
			return false
		}
	}
	return true
}
