package sound

import (
	"math"
	"time"

	"github.com/faiface/beep"
)

// chimeNotes is the rising arpeggio played when the wheel stops.
var chimeNotes = []float64{1046.50, 1318.51, 1567.98, 2093.00}

const (
	chimeNoteLength = 140 * time.Millisecond
	chimeTail       = 600 * time.Millisecond
	chimeDecay      = 6.0 // exponential decay rate per second
	chimeGain       = 0.35
)

// synthChime renders the built-in chime as mono samples. Each note starts
// one note length after the previous one and rings out over the tail.
func synthChime(sr beep.SampleRate) []float64 {
	noteLen := sr.N(chimeNoteLength)
	ring := sr.N(chimeTail)
	total := noteLen*(len(chimeNotes)-1) + ring
	buf := make([]float64, total)

	for i, freq := range chimeNotes {
		start := i * noteLen
		for j := 0; j < ring && start+j < total; j++ {
			t := float64(j) / float64(sr)
			env := math.Exp(-chimeDecay * t)
			if j < 64 {
				env *= float64(j) / 64 // click-free attack
			}
			buf[start+j] += chimeGain * env * math.Sin(2*math.Pi*freq*t)
		}
	}

	for i, v := range buf {
		buf[i] = math.Max(-1, math.Min(1, v))
	}
	return buf
}

// monoStreamer plays a mono buffer on both channels once.
func monoStreamer(buf []float64) beep.Streamer {
	pos := 0
	return beep.StreamerFunc(func(samples [][2]float64) (int, bool) {
		if pos >= len(buf) {
			return 0, false
		}
		n := copy2(samples, buf[pos:])
		pos += n
		return n, true
	})
}

func copy2(dst [][2]float64, src []float64) int {
	n := min(len(dst), len(src))
	for i := 0; i < n; i++ {
		dst[i][0] = src[i]
		dst[i][1] = src[i]
	}
	return n
}
