// Package position converts between LSP positions, which count UTF-16 code
// units, and byte offsets into Go strings.
package position

import (
	"fmt"
	"strings"
	"unicode/utf16"
	"unicode/utf8"
)

// UTF16ToByteOffset returns the byte offset of the UTF-16 column character
// in line. Columns past the end clamp to len(line); a column inside a
// surrogate pair clamps to the start of that rune. Invalid UTF-8 bytes
// count as one unit each.
func UTF16ToByteOffset(line string, character int) int {
	units := 0
	for offset := 0; offset < len(line); {
		if units >= character {
			return offset
		}
		r, size := utf8.DecodeRuneInString(line[offset:])
		width := 1
		if r != utf8.RuneError || size > 1 {
			width = utf16.RuneLen(r)
		}
		if units+width > character {
			return offset
		}
		units += width
		offset += size
	}
	return len(line)
}

// ByteOffsetToUTF16 returns the UTF-16 column of a byte offset in line.
// Offsets inside a multi-byte rune count up to the start of that rune.
func ByteOffsetToUTF16(line string, offset int) int {
	units := 0
	for i := 0; i < len(line); {
		r, size := utf8.DecodeRuneInString(line[i:])
		if i+size > offset {
			break
		}
		if r == utf8.RuneError && size == 1 {
			units++
		} else {
			units += utf16.RuneLen(r)
		}
		i += size
	}
	return units
}

// StringLengthUTF16 returns the length of s in UTF-16 code units.
func StringLengthUTF16(s string) int {
	return ByteOffsetToUTF16(s, len(s))
}

// Offset returns the byte offset into content of the LSP position
// (line, character). The position just past the last line is accepted
// as the end of content.
func Offset(content string, line, character int) (int, error) {
	if line < 0 || character < 0 {
		return 0, fmt.Errorf("negative position %d:%d", line, character)
	}

	start := 0
	for range line {
		next := strings.IndexByte(content[start:], '\n')
		if next < 0 {
			if character == 0 {
				return len(content), nil
			}
			return 0, fmt.Errorf("line %d out of bounds", line)
		}
		start += next + 1
	}

	end := strings.IndexByte(content[start:], '\n')
	if end < 0 {
		end = len(content)
	} else {
		end += start
	}
	return start + UTF16ToByteOffset(content[start:end], character), nil
}
