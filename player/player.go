package player

import (
	"context"
	"math/rand"
	"sync"
	"time"

	charmlog "github.com/charmbracelet/log"
	"github.com/jsphweid/markovmidi/model"
	"github.com/jsphweid/markovmidi/sound"
	"golang.org/x/sync/semaphore"
)

// Sleeper pauses for d or until ctx is done.
type Sleeper func(ctx context.Context, d time.Duration) error

func Sleep(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}

type Options struct {
	Rand  *rand.Rand
	Sleep Sleeper

	// MaxVoices caps how many chords may sound at once. Onsets past the cap are
	// skipped. Zero means no cap.
	MaxVoices int64
}

type Scheduler struct {
	device sound.Device
	rand   *rand.Rand
	sleep  Sleeper
	voices *semaphore.Weighted
	wg     sync.WaitGroup
}

func New(device sound.Device, opts Options) *Scheduler {
	s := &Scheduler{device: device, rand: opts.Rand, sleep: opts.Sleep}
	if s.rand == nil {
		s.rand = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	if s.sleep == nil {
		s.sleep = Sleep
	}
	if opts.MaxVoices > 0 {
		s.voices = semaphore.NewWeighted(opts.MaxVoices)
	}
	return s
}

// Run samples src forever. Each chord is sounded by its own goroutine while
// the loop sleeps for the sampled wait, so chords overlap whenever the wait is
// shorter than the chord. Run returns once ctx is done and the chords still
// sounding have been released.
func (s *Scheduler) Run(ctx context.Context, src Source) error {
	logger := charmlog.FromContext(ctx)
	logger.Info("start playing")
	defer s.wg.Wait()

	for ctx.Err() == nil {
		c, wait := src.Next(s.rand)
		s.spawn(ctx, logger, c)
		if err := s.sleep(ctx, wait); err != nil {
			break
		}
	}
	logger.Info("stop playing")
	return nil
}

func (s *Scheduler) spawn(ctx context.Context, logger *charmlog.Logger, c model.Chord) {
	if s.voices != nil && !s.voices.TryAcquire(1) {
		logger.Debug("too many voices, skipping chord", "notes", len(c.Notes))
		return
	}
	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		if s.voices != nil {
			defer s.voices.Release(1)
		}
		logger.Debug("chord", "notes", c.Notes, "duration", c.Duration, "wait", c.Wait)
		for _, n := range c.Notes {
			s.device.NoteOn(n.Key, n.Velocity)
		}
		s.sleep(ctx, c.Duration)
		for _, n := range c.Notes {
			s.device.NoteOff(n.Key, n.Velocity)
		}
	}()
}

// PlayOriginal replays the command stream as it was recorded.
func (s *Scheduler) PlayOriginal(ctx context.Context, commands []model.RawCommand) error {
	logger := charmlog.FromContext(ctx)
	logger.Info("playing original", "commands", len(commands))
	for _, c := range commands {
		if err := s.sleep(ctx, c.Delta); err != nil {
			return nil
		}
		if c.Direction == model.On {
			s.device.NoteOn(c.Note, c.Velocity)
		} else {
			s.device.NoteOff(c.Note, c.Velocity)
		}
	}
	logger.Info("finished playing")
	return nil
}
