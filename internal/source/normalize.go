package source

import "bytes"

var bom = []byte{0xEF, 0xBB, 0xBF}

// Normalize strips a leading UTF-8 BOM and folds CRLF into LF. A lone CR is
// kept as is.
func Normalize(content []byte) ([]byte, FileFlags) {
	var flags FileFlags
	if rest, ok := bytes.CutPrefix(content, bom); ok {
		content = rest
		flags |= FileHadBOM
	}
	if folded, ok := foldCRLF(content); ok {
		content = folded
		flags |= FileNormalizedCRLF
	}
	return content, flags
}

func foldCRLF(content []byte) ([]byte, bool) {
	if !bytes.Contains(content, []byte("\r\n")) {
		return content, false
	}
	return bytes.ReplaceAll(content, []byte("\r\n"), []byte("\n")), true
}
