package mgrid

import (
	"fmt"
	"strconv"
	"strings"
	"unicode/utf8"
)

// OSPathMarker prefixes paths whose bytes could not be represented as
// plain UTF-8. Everything after the marker is byte-escaped: a literal
// tilde becomes ~7E and any byte >= 0x80 becomes ~XX.
const OSPathMarker = "~~OSPATH~~"

// IsEncoded reports whether the path carries the OSPath marker.
func IsEncoded(p string) bool {
	return strings.HasPrefix(p, OSPathMarker)
}

// EncodeOSPath encodes a raw path for transport. Valid UTF-8 passes
// through untouched; anything else gets the marker plus byte escapes.
func EncodeOSPath(s string) string {
	if utf8.ValidString(s) {
		return s
	}

	var b strings.Builder
	b.WriteString(OSPathMarker)
	for i := 0; i < len(s); i++ {
		c := s[i]
		switch {
		case c == '~':
			b.WriteString("~7E")
		case c < 0x80:
			b.WriteByte(c)
		default:
			fmt.Fprintf(&b, "~%02X", c)
		}
	}
	return b.String()
}

// DecodeOSPath reverses EncodeOSPath. Unmarked paths are returned as-is.
func DecodeOSPath(p string) (string, error) {
	if !IsEncoded(p) {
		return p, nil
	}

	s := p[len(OSPathMarker):]
	out := make([]byte, 0, len(s))
	for i := 0; i < len(s); {
		if s[i] != '~' {
			out = append(out, s[i])
			i++
			continue
		}
		if i+2 >= len(s) {
			return "", fmt.Errorf("incomplete escape at %d in %q", i, s)
		}
		// Both digits must be hex; Sscanf-style lenient parsing would
		// accept "~1G" and swallow the G.
		v, err := strconv.ParseUint(s[i+1:i+3], 16, 8)
		if err != nil {
			return "", fmt.Errorf("invalid escape at %d in %q", i, s)
		}
		out = append(out, byte(v))
		i += 3
	}
	return string(out), nil
}

// StripMarker removes the OSPath marker without decoding escapes.
func StripMarker(p string) string {
	return strings.TrimPrefix(p, OSPathMarker)
}

// DisplayPath returns the human-readable form of a path: marker removed
// and escapes decoded. Falls back to the marker-stripped form when the
// escape sequence is malformed.
func DisplayPath(p string) string {
	decoded, err := DecodeOSPath(p)
	if err != nil {
		return StripMarker(p)
	}
	return decoded
}

// ComparePaths orders two paths while treating the OSPath marker as
// transparent, so encoded and plain paths interleave consistently.
func ComparePaths(a, b string) int {
	return strings.Compare(StripMarker(a), StripMarker(b))
}

// EqualPaths reports marker-agnostic equality. Keys must be compared
// with this rather than ==; the marker is still preserved verbatim when
// a key is round-tripped back to the server.
func EqualPaths(a, b string) bool {
	return StripMarker(a) == StripMarker(b)
}

// JoinPath joins a directory path and an entry name with a slash. The
// virtual path scheme always uses forward slashes, regardless of the
// server's platform. Entry names are encoded independently by the
// server, so a marker on either half is normalized back to a single
// prefix on the joined path.
func JoinPath(dir, name string) string {
	if dir == "" {
		return name
	}
	if IsEncoded(dir) || IsEncoded(name) {
		d, errD := DecodeOSPath(dir)
		n, errN := DecodeOSPath(name)
		if errD == nil && errN == nil {
			return EncodeOSPath(strings.TrimSuffix(d, "/") + "/" + n)
		}
	}
	return strings.TrimSuffix(dir, "/") + "/" + name
}
