package wire

import (
	"encoding/hex"
	"io"
	"strings"
)

// DumpHex writes a hexdump -C style listing of data to w.
func DumpHex(w io.Writer, data []byte) error {
	d := hex.Dumper(w)
	if _, err := d.Write(data); err != nil {
		return err
	}
	return d.Close()
}

// HexString formats data as space separated upper-case byte pairs, e.g.
// "03 AA BB CC".
func HexString(data []byte) string {
	var b strings.Builder
	b.Grow(len(data) * 3)
	for i, c := range data {
		if i > 0 {
			b.WriteByte(' ')
		}
		b.WriteString(strings.ToUpper(hex.EncodeToString([]byte{c})))
	}
	return b.String()
}
