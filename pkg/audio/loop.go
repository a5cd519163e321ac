// ABOUTME: Endless reader over a decoded track
// ABOUTME: Rewinds to the first frame whenever the end is reached
package audio

import "io"

// LoopReader replays the same PCM bytes forever
type LoopReader struct {
	data []byte
	pos  int
}

// NewLoopReader creates a reader that loops over data
func NewLoopReader(data []byte) *LoopReader {
	return &LoopReader{data: data}
}

// Read fills p from the track, wrapping around at the end.
// An empty track reports io.EOF so the player stops instead of spinning.
func (r *LoopReader) Read(p []byte) (int, error) {
	if len(r.data) == 0 {
		return 0, io.EOF
	}

	n := 0
	for n < len(p) {
		if r.pos >= len(r.data) {
			r.pos = 0
		}
		c := copy(p[n:], r.data[r.pos:])
		n += c
		r.pos += c
	}
	return n, nil
}
