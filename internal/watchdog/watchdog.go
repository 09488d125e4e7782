// Package watchdog supervises the actor goroutines that make up a
// running Hermes process. Hermes has no supervision tree: the
// coordinator, hook manager and logger are each a single goroutine with
// no restart path, so if any of them dies the process as a whole is no
// longer trustworthy. The watchdog polls each one's liveness channel and
// terminates the process the moment one closes.
package watchdog

import (
	"time"

	"go.uber.org/zap"
)

// DefaultInterval is how often the watchdog polls actor liveness.
const DefaultInterval = 5 * time.Second

// Watched is one actor's liveness channel, closed when that actor's
// goroutine exits.
type Watched struct {
	Name string
	Done <-chan struct{}
}

// Exit is called when a watched actor has died. In production this is
// os.Exit(1); tests substitute a recording function.
type Exit func(reason string)

// Run blocks, polling every interval, until stop is closed or one of the
// watched actors dies (in which case exit is called and Run returns).
func Run(stop <-chan struct{}, interval time.Duration, log *zap.Logger, exit Exit, watched ...Watched) {
	if log == nil {
		log = zap.NewNop()
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-stop:
			return
		case <-ticker.C:
			for _, w := range watched {
				select {
				case <-w.Done:
					log.Error("watchdog: actor died, terminating process", zap.String("actor", w.Name))
					exit("actor died: " + w.Name)
					return
				default:
				}
			}
		}
	}
}
