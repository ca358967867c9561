package sound

import (
	"bytes"
	"os"
	"sync"
	"time"

	"github.com/go-audio/audio"
	"github.com/go-audio/wav"
	"github.com/pkg/errors"
	"github.com/sinshu/go-meltysynth/meltysynth"
)

var ErrSoundFontNotFound = errors.New("SoundFont file not found")

func LoadSoundFont(path string) (*meltysynth.SoundFont, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.Wrap(ErrSoundFontNotFound, path)
		}
		return nil, errors.Wrap(err, "failed to read SoundFont file")
	}
	sf, err := meltysynth.NewSoundFont(bytes.NewReader(data))
	if err != nil {
		return nil, errors.Wrap(err, "failed to parse SoundFont")
	}
	return sf, nil
}

// Synth renders notes with a SoundFont synthesizer and records the result to a
// 16 bit stereo WAV file. Audio is rendered lazily: before each note change the
// synthesizer is advanced to the current wall clock time.
type Synth struct {
	mu         sync.Mutex
	synth      *meltysynth.Synthesizer
	enc        *wav.Encoder
	f          *os.File
	sampleRate int
	channel    int32
	started    time.Time
	rendered   int64
	now        func() time.Time

	// first write failure, reported by Close
	err error
}

func NewSynth(sf *meltysynth.SoundFont, path string, sampleRate int, channel uint8) (*Synth, error) {
	settings := meltysynth.NewSynthesizerSettings(int32(sampleRate))
	synth, err := meltysynth.NewSynthesizer(sf, settings)
	if err != nil {
		return nil, errors.Wrap(err, "failed to create synthesizer")
	}
	f, err := os.Create(path)
	if err != nil {
		return nil, errors.Wrapf(err, "could not create %v", path)
	}
	return &Synth{
		synth:      synth,
		enc:        wav.NewEncoder(f, sampleRate, 16, 2, 1),
		f:          f,
		sampleRate: sampleRate,
		channel:    int32(channel & 0x0f),
		started:    time.Now(),
		now:        time.Now,
	}, nil
}

func (s *Synth) NoteOn(note, velocity uint8) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.keep(s.catchUp())
	s.synth.NoteOn(s.channel, int32(note), int32(velocity))
}

func (s *Synth) NoteOff(note, velocity uint8) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.keep(s.catchUp())
	s.synth.NoteOff(s.channel, int32(note))
}

func (s *Synth) keep(err error) {
	if s.err == nil {
		s.err = err
	}
}

// catchUp renders every sample between the last render and now.
func (s *Synth) catchUp() error {
	due := int64(s.now().Sub(s.started).Seconds() * float64(s.sampleRate))
	return s.render(int(due - s.rendered))
}

func (s *Synth) render(n int) error {
	if n <= 0 {
		return nil
	}
	left := make([]float32, n)
	right := make([]float32, n)
	s.synth.Render(left, right)
	s.rendered += int64(n)

	buf := &audio.IntBuffer{
		Data:           make([]int, 2*n),
		Format:         &audio.Format{NumChannels: 2, SampleRate: s.sampleRate},
		SourceBitDepth: 16,
	}
	for i := 0; i < n; i++ {
		buf.Data[2*i] = int(clamp(left[i]) * 32767)
		buf.Data[2*i+1] = int(clamp(right[i]) * 32767)
	}
	return s.enc.Write(buf)
}

func clamp(v float32) float32 {
	if v < -1 {
		return -1
	}
	if v > 1 {
		return 1
	}
	return v
}

// Close releases every note, renders a short tail so the release is heard and
// finalizes the WAV file.
func (s *Synth) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.keep(s.catchUp())
	if s.err != nil {
		s.f.Close()
		return errors.Wrap(s.err, "could not render audio")
	}
	s.synth.NoteOffAll(false)
	if err := s.render(s.sampleRate); err != nil {
		return errors.Wrap(err, "could not render audio")
	}
	if err := s.enc.Close(); err != nil {
		return errors.Wrap(err, "could not finalize wav")
	}
	return s.f.Close()
}
