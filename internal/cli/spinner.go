package cli

import (
	"fmt"
	"os"
	"strings"
	"time"
)

// spinner is a minimal progress indicator for operations without line-level
// feedback, such as Graphviz rendering. Not safe for concurrent use.
type spinner struct {
	message string
	done    chan struct{}
	stopped chan struct{}
}

var spinnerFrames = []string{"⠋", "⠙", "⠹", "⠸", "⠼", "⠴", "⠦", "⠧", "⠇", "⠏"}

// startSpinner begins animating message on stderr and returns the spinner.
func startSpinner(message string) *spinner {
	s := &spinner{
		message: message,
		done:    make(chan struct{}),
		stopped: make(chan struct{}),
	}
	go func() {
		defer close(s.stopped)
		ticker := time.NewTicker(80 * time.Millisecond)
		defer ticker.Stop()
		for i := 0; ; i++ {
			select {
			case <-s.done:
				return
			case <-ticker.C:
				frame := spinnerFrames[i%len(spinnerFrames)]
				fmt.Fprintf(os.Stderr, "\r%s %s", styleIconSpinner.Render(frame), StyleDim.Render(s.message))
			}
		}
	}()
	return s
}

// stop halts the animation and clears the line.
func (s *spinner) stop() {
	close(s.done)
	<-s.stopped
	fmt.Fprintf(os.Stderr, "\r%s\r", strings.Repeat(" ", len(s.message)+4))
}
