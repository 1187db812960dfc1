// Package sound plays the win chime and exposes its loudness so the wheel
// can pulse along with it.
package sound

import (
	"errors"
	"fmt"
	"math"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/faiface/beep"
	"github.com/faiface/beep/effects"
	"github.com/faiface/beep/flac"
	"github.com/faiface/beep/mp3"
	"github.com/faiface/beep/speaker"
	"github.com/faiface/beep/wav"
	"go.uber.org/zap"

	"github.com/iburimskiy/prize-wheel/internal/logger"
)

// SampleRate is the rate the speaker is opened at. Chime files at other
// rates are resampled.
const SampleRate = beep.SampleRate(44100)

const (
	levelRingSize   = 4096
	// levelWindow is how many recent samples Level averages over (~23 ms).
	levelWindow     = 1024
	resampleQuality = 4
)

var ErrUnsupportedFormat = errors.New("sound: unsupported file type")

// Options configures a Player.
type Options struct {
	Muted  bool
	Volume float64 // 0..1
	// ChimeFile is a wav, mp3 or flac file. Empty plays the built-in chime.
	ChimeFile string
}

// Player plays one chime at a time on the system speaker. The speaker is
// opened lazily on the first chime so a muted wheel never touches audio.
type Player struct {
	opts Options

	initOnce sync.Once
	initErr  error

	mu    sync.Mutex
	tap   *levelTap
	chime []float64

	// Swapped out in tests.
	initSpeaker func(beep.SampleRate, int) error
	play        func(beep.Streamer)
	clear       func()
}

// NewPlayer returns a Player. It does not open the speaker.
func NewPlayer(opts Options) *Player {
	return &Player{
		opts:        opts,
		initSpeaker: speaker.Init,
		play:        func(s beep.Streamer) { speaker.Play(s) },
		clear: func() {
			speaker.Lock()
			speaker.Clear()
			speaker.Unlock()
		},
	}
}

// SetOptions applies new settings to the next chime.
func (p *Player) SetOptions(opts Options) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if opts.ChimeFile != p.opts.ChimeFile {
		p.chime = nil
	}
	p.opts = opts
}

// Muted reports whether chimes are currently suppressed.
func (p *Player) Muted() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.opts.Muted
}

// PlayChime starts the chime and returns immediately. A chime already
// playing is cut off. Muted players do nothing.
func (p *Player) PlayChime() error {
	p.mu.Lock()
	opts := p.opts
	p.mu.Unlock()

	if opts.Muted || opts.Volume <= 0 {
		return nil
	}

	p.initOnce.Do(func() {
		p.initErr = p.initSpeaker(SampleRate, SampleRate.N(time.Second/20))
		if p.initErr != nil {
			logger.Warn("speaker unavailable, chime disabled", zap.Error(p.initErr))
		}
	})
	if p.initErr != nil {
		return p.initErr
	}

	src, closer, err := p.source(opts.ChimeFile)
	if err != nil {
		return err
	}

	p.clear()
	tap := newLevelTap(withVolume(src, opts.Volume), levelRingSize)

	p.mu.Lock()
	p.tap = tap
	p.mu.Unlock()

	p.play(beep.Seq(tap, beep.Callback(func() {
		if closer != nil {
			_ = closer()
		}
		tap.reset()
	})))
	logger.Debug("chime started", zap.String("file", opts.ChimeFile))
	return nil
}

// Level is the loudness of the chime right now, in [0, 1].
func (p *Player) Level() float64 {
	p.mu.Lock()
	tap := p.tap
	p.mu.Unlock()
	if tap == nil {
		return 0
	}
	return tap.level(levelWindow)
}

// Close stops playback.
func (p *Player) Close() {
	p.mu.Lock()
	started := p.tap != nil
	p.tap = nil
	p.mu.Unlock()
	if started {
		p.clear()
	}
}

// source returns a fresh streamer for the configured chime and an optional
// closer for the file backing it.
func (p *Player) source(file string) (beep.Streamer, func() error, error) {
	if file == "" {
		p.mu.Lock()
		if p.chime == nil {
			p.chime = synthChime(SampleRate)
		}
		buf := p.chime
		p.mu.Unlock()
		return monoStreamer(buf), nil, nil
	}

	streamer, format, err := decodeFile(file)
	if err != nil {
		return nil, nil, fmt.Errorf("sound: load chime %s: %w", file, err)
	}
	var src beep.Streamer = streamer
	if format.SampleRate != SampleRate {
		src = beep.Resample(resampleQuality, format.SampleRate, SampleRate, streamer)
	}
	return src, streamer.Close, nil
}

func decodeFile(path string) (beep.StreamSeekCloser, beep.Format, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, beep.Format{}, err
	}

	var (
		streamer beep.StreamSeekCloser
		format   beep.Format
	)
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".wav":
		streamer, format, err = wav.Decode(f)
	case ".mp3":
		streamer, format, err = mp3.Decode(f)
	case ".flac":
		streamer, format, err = flac.Decode(f)
	default:
		_ = f.Close()
		return nil, beep.Format{}, fmt.Errorf("%w: %q", ErrUnsupportedFormat, ext)
	}
	if err != nil {
		_ = f.Close()
		return nil, beep.Format{}, err
	}
	return streamer, format, nil
}

// withVolume scales src by a linear volume in (0, 1].
func withVolume(src beep.Streamer, volume float64) *effects.Volume {
	return &effects.Volume{
		Streamer: src,
		Base:     2,
		Volume:   volumeExponent(volume),
		Silent:   volume <= 0,
	}
}

// volumeExponent converts a linear gain to the base-2 exponent effects.Volume
// expects.
func volumeExponent(volume float64) float64 {
	if volume <= 0 {
		return 0
	}
	return math.Log2(math.Min(volume, 1))
}
