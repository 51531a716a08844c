package ipc

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"io"
)

// Envelope layout: 3-byte magic, 1 version byte, big-endian uint16 frame
// count, then each frame as a big-endian uint32 length followed by its
// payload bytes. A request is a one-frame envelope; a reply may carry zero
// or more frames.
const (
	wireVersion = 1

	// maxFrameSize bounds a single frame so a desynced stream cannot drive
	// an arbitrarily large allocation.
	maxFrameSize = 16 << 20
)

var wireMagic = []byte("RMG")

// WriteEnvelope frames and writes one envelope to w.
func WriteEnvelope(w io.Writer, frames [][]byte) error {
	header := make([]byte, 6)
	copy(header, wireMagic)
	header[3] = wireVersion
	binary.BigEndian.PutUint16(header[4:], uint16(len(frames)))
	if _, err := w.Write(header); err != nil {
		return fmt.Errorf("write envelope header: %w", err)
	}

	var lengthBytes [4]byte
	for _, frame := range frames {
		binary.BigEndian.PutUint32(lengthBytes[:], uint32(len(frame)))
		if _, err := w.Write(lengthBytes[:]); err != nil {
			return fmt.Errorf("write frame length: %w", err)
		}
		if _, err := w.Write(frame); err != nil {
			return fmt.Errorf("write frame payload: %w", err)
		}
	}
	return nil
}

// ReadEnvelope reads one envelope from r, returning its frames in order.
// A zero-frame envelope returns an empty slice.
func ReadEnvelope(r io.Reader) ([][]byte, error) {
	header := make([]byte, 6)
	if _, err := io.ReadFull(r, header); err != nil {
		return nil, fmt.Errorf("read envelope header: %w", err)
	}
	if !bytes.Equal(header[:3], wireMagic) {
		return nil, fmt.Errorf("envelope magic mismatch: got %q", header[:3])
	}
	if header[3] != wireVersion {
		return nil, fmt.Errorf("unsupported envelope version %d", header[3])
	}

	count := binary.BigEndian.Uint16(header[4:])
	frames := make([][]byte, 0, count)
	for i := 0; i < int(count); i++ {
		var lengthBytes [4]byte
		if _, err := io.ReadFull(r, lengthBytes[:]); err != nil {
			return nil, fmt.Errorf("read frame %d length: %w", i, err)
		}
		length := binary.BigEndian.Uint32(lengthBytes[:])
		if length > maxFrameSize {
			return nil, fmt.Errorf("frame %d length %d exceeds %d bytes", i, length, maxFrameSize)
		}
		frame := make([]byte, length)
		if _, err := io.ReadFull(r, frame); err != nil {
			return nil, fmt.Errorf("read frame %d payload: %w", i, err)
		}
		frames = append(frames, frame)
	}
	return frames, nil
}
