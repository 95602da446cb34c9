package main

import (
	"fmt"
	"io"
	"math"
	"strconv"
)

var units = map[byte]int64{
	'k': 1000,
	'm': 1000 * 1000,
	'g': 1000 * 1000 * 1000,
}

func sizeToInt(s string) (int64, error) {
	if len(s) == 0 {
		return 0, fmt.Errorf("invalid size")
	}
	var err error
	var sz int64
	m, ok := units[s[len(s)-1]]
	if ok {
		sz, err = strconv.ParseInt(s[:len(s)-1], 10, 64)
	} else {
		m = 1
		sz, err = strconv.ParseInt(s, 10, 64)
	}
	if err != nil {
		return 0, err
	}
	if sz < 0 {
		return 0, fmt.Errorf("negative size: %s", s)
	}
	if sz > math.MaxInt64/m {
		return 0, fmt.Errorf("size too large: %s", s)
	}
	return sz * m, nil
}

// asciiChunk produces totalLength bytes of printable ASCII, cycling through a
// fixed 4096-byte pattern.
type asciiChunk struct {
	w           io.Writer
	totalLength int64
	wroteSoFar  int64
	nextAscii   byte
	posInBuf    int
	buf         [4096]byte
}

func newAsciiChunk(w io.Writer, totalLength int64) *asciiChunk {
	c := &asciiChunk{w: w, totalLength: totalLength}
	c.prepareBuf()
	return c
}

func (c *asciiChunk) prepareBuf() {
	for i := 0; i < len(c.buf); i++ {
		for {
			c.nextAscii = (c.nextAscii + 1) % 128
			if strconv.IsPrint(rune(c.nextAscii)) && c.nextAscii != '\n' {
				break
			}
		}
		c.buf[i] = c.nextAscii
	}
}

// Writes a chunk of printable []byte, returns the number of byte written.
func (c *asciiChunk) writeNext() (int, error) {
	if c.wroteSoFar >= c.totalLength {
		return 0, nil
	}
	last := len(c.buf)
	if rest := c.totalLength - c.wroteSoFar; rest < int64(last-c.posInBuf) {
		last = c.posInBuf + int(rest)
	}
	n, err := c.w.Write(c.buf[c.posInBuf:last])
	c.wroteSoFar += int64(n)
	c.posInBuf = (c.posInBuf + n) % len(c.buf)
	return n, err
}

// writeAll writes the whole sample and returns the byte count.
func (c *asciiChunk) writeAll() (int64, error) {
	for {
		n, err := c.writeNext()
		if err != nil {
			return c.wroteSoFar, err
		}
		if n == 0 {
			return c.wroteSoFar, nil
		}
	}
}
