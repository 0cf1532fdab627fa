package camera

import (
	"bufio"
	"io"
	"time"
)

// Terminal is a Display for backends without a window. Frames are not shown,
// keys are read from a reader, typically os.Stdin. Terminals are usually line
// buffered, so a key only arrives after enter is pressed. Newlines are
// skipped.
type Terminal struct {
	keys chan Key
	stop chan struct{}
}

// NewTerminal starts reading keys from r.
func NewTerminal(r io.Reader) *Terminal {
	t := &Terminal{
		keys: make(chan Key, 16),
		stop: make(chan struct{}),
	}
	go func() {
		defer close(t.keys)
		br := bufio.NewReader(r)
		for {
			c, _, err := br.ReadRune()
			if err != nil {
				return
			}
			if c == '\n' || c == '\r' {
				continue
			}
			select {
			case t.keys <- Key(c):
			case <-t.stop:
				return
			}
		}
	}()
	return t
}

var _ Display = (*Terminal)(nil)

// Show does nothing, a terminal cannot show frames.
func (t *Terminal) Show(f Frame) {
}

// PollKey returns the next key typed, or NoKey if none arrives within wait.
func (t *Terminal) PollKey(wait time.Duration) Key {
	select {
	case k, ok := <-t.keys:
		if !ok {
			return NoKey
		}
		return k
	default:
	}
	timer := time.NewTimer(wait)
	defer timer.Stop()
	select {
	case k, ok := <-t.keys:
		if !ok {
			// Input closed, don't spin on a closed channel.
			<-timer.C
			return NoKey
		}
		return k
	case <-timer.C:
		return NoKey
	}
}

// Close stops delivering keys. The reading goroutine exits once its pending
// read returns.
func (t *Terminal) Close() error {
	select {
	case <-t.stop:
	default:
		close(t.stop)
	}
	return nil
}
