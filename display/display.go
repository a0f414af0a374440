// Package display pushes human-readable status to observers. Nothing written
// here is ever read back by the decision logic.
package display

import (
	"fmt"
	"sync"

	"github.com/nstehr/overmind/ipc"
	"github.com/rs/zerolog"
)

// Display receives status lines each evaluation tick and errors as they occur.
type Display interface {
	Status(tick int, lines []string)
	Error(tick int, err error)
}

// FrameSetter is implemented by displays whose output lasts a fixed number of
// frames. The agent sets it to its evaluation interval.
type FrameSetter interface {
	SetFrames(frames int)
}

// Nop discards everything.
type Nop struct{}

func (Nop) Status(int, []string) {}
func (Nop) Error(int, error)     {}

// Multi fans out to several displays.
type Multi []Display

func (m Multi) Status(tick int, lines []string) {
	for _, d := range m {
		d.Status(tick, lines)
	}
}

func (m Multi) Error(tick int, err error) {
	for _, d := range m {
		d.Error(tick, err)
	}
}

// SetFrames forwards to members that draw for a fixed number of frames.
func (m Multi) SetFrames(frames int) {
	for _, d := range m {
		if f, ok := d.(FrameSetter); ok {
			f.SetFrames(frames)
		}
	}
}

// Log writes status at debug level and errors at warn level.
type Log struct {
	logger zerolog.Logger
}

func NewLog(logger zerolog.Logger) *Log {
	return &Log{logger: logger.With().Str("component", "display").Logger()}
}

func (l *Log) Status(tick int, lines []string) {
	l.logger.Debug().Int("tick", tick).Strs("lines", lines).Msg("status")
}

func (l *Log) Error(tick int, err error) {
	l.logger.Warn().Int("tick", tick).Err(err).Msg("action error")
}

// Sender is the part of an ipc connection the overlay needs.
type Sender interface {
	Send(msgType string, data any) error
}

// Overlay draws status text on the game screen through the bridge. A single
// draw lasts one frame, so each push asks the bridge to keep it up for Frames
// frames (the engine's latency, so it stays visible until the next push).
type Overlay struct {
	sender Sender
	frames int
	logger zerolog.Logger
}

// Screen position of the status block's first line.
const (
	overlayX = 200
	overlayY = 0
)

func NewOverlay(sender Sender, frames int, logger zerolog.Logger) *Overlay {
	if frames <= 0 {
		frames = 1
	}
	return &Overlay{
		sender: sender,
		frames: frames,
		logger: logger.With().Str("component", "overlay").Logger(),
	}
}

// SetFrames updates how long each push stays on screen.
func (o *Overlay) SetFrames(frames int) {
	if frames > 0 {
		o.frames = frames
	}
}

func (o *Overlay) Status(tick int, lines []string) {
	o.draw(ipc.DrawTextCommand{X: overlayX, Y: overlayY, Lines: lines, Frames: o.frames})
}

func (o *Overlay) Error(tick int, err error) {
	o.draw(ipc.DrawTextCommand{X: overlayX, Y: overlayY + 10*statusLines, Lines: []string{fmt.Sprintf("Error: %v", err)}, Frames: o.frames})
}

// statusLines is the number of lines the agent's status block occupies.
const statusLines = 8

func (o *Overlay) draw(cmd ipc.DrawTextCommand) {
	if err := o.sender.Send(ipc.TypeDrawText, cmd); err != nil {
		o.logger.Debug().Err(err).Msg("overlay draw failed")
	}
}

// Recorder keeps everything it receives; useful for tests and the simulator.
type Recorder struct {
	mu     sync.Mutex
	Lines  [][]string
	Errors []error
}

func (r *Recorder) Status(tick int, lines []string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.Lines = append(r.Lines, append([]string(nil), lines...))
}

func (r *Recorder) Error(tick int, err error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.Errors = append(r.Errors, err)
}

// Last returns the most recent status block.
func (r *Recorder) Last() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	if len(r.Lines) == 0 {
		return nil
	}
	return r.Lines[len(r.Lines)-1]
}
