// Package nal locates H.264 access units in an Annex-B elementary stream.
package nal

var (
	StartCode3 = []byte{0x00, 0x00, 0x01}
	StartCode4 = []byte{0x00, 0x00, 0x00, 0x01}
)

// minScanWindow is the smallest buffer in which a unit can be opened.
const minScanWindow = 4

// Unit is one access unit of a source buffer, start code included. Data
// aliases the source buffer.
type Unit struct {
	Data  []byte
	Start int
	End   int
	// Last is set when no start code follows the unit, so it runs to the
	// end of the buffer and may be truncated.
	Last bool
}

// Type returns the nal_unit_type of the unit.
func (u Unit) Type() Type {
	return TypeOf(u.Data)
}

// TypeOf returns the nal_unit_type of a unit that begins with a start code,
// or 0 when there is no header byte after it.
func TypeOf(unit []byte) Type {
	n := startCodeLen(unit, 0)
	if n == 0 || len(unit) <= n {
		return 0
	}
	return Type(unit[n] & 0x1f)
}

// NextUnit returns the access unit opened by the first start code at or
// after from. The scan for the closing start code accepts either code
// length regardless of which one opened the unit. ok is false when no
// further unit starts in buf.
//
// NextUnit keeps no state; replaying a stream is done by calling it again
// with from set to 0.
func NextUnit(buf []byte, from int) (unit Unit, ok bool) {
	if from < 0 {
		from = 0
	}
	if len(buf) < minScanWindow {
		return Unit{}, false
	}

	start, codeLen := -1, 0
	for i := from; i <= len(buf)-minScanWindow; i++ {
		if n := startCodeLen(buf, i); n > 0 {
			start, codeLen = i, n
			break
		}
	}
	if start < 0 {
		return Unit{}, false
	}

	for j := start + codeLen; j < len(buf); j++ {
		if startCodeLen(buf, j) > 0 {
			return Unit{Data: buf[start:j], Start: start, End: j}, true
		}
	}
	return Unit{Data: buf[start:], Start: start, End: len(buf), Last: true}, true
}

// startCodeLen reports the length of the start code beginning at buf[i],
// preferring the four byte form, or 0 when there is none.
func startCodeLen(buf []byte, i int) int {
	if i+3 <= len(buf) && buf[i] == 0 && buf[i+1] == 0 {
		if buf[i+2] == 1 {
			return 3
		}
		if i+4 <= len(buf) && buf[i+2] == 0 && buf[i+3] == 1 {
			return 4
		}
	}
	return 0
}
