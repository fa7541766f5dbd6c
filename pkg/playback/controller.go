package playback

import (
	"errors"
	"fmt"

	"github.com/storyreel/storyreel/pkg/logger"
	"github.com/storyreel/storyreel/pkg/timeline"
)

// Controller drives a Player from playback events. It is not safe for
// concurrent use: all events for one controller must be delivered from a
// single goroutine.
type Controller struct {
	player   Player
	observer Observer
	state    State

	dispatching bool
	pending     []Event
}

func NewController(player Player, observer Observer, view View) *Controller {
	return &Controller{
		player:   player,
		observer: observer,
		state:    NewState(view),
	}
}

// State returns the current state.
func (c *Controller) State() State {
	return c.state
}

func (c *Controller) Timeline() *timeline.Timeline {
	return c.state.timeline()
}

// Handle applies an event, executes the resulting player commands and
// notifies the observer. Events emitted by the player while commands are
// being executed are queued and handled afterwards; time reports received
// during a seek are dropped.
func (c *Controller) Handle(e Event) error {
	if c.dispatching {
		if _, ok := e.(TimeUpdate); ok && c.state.Seeking {
			logger.Tracef("[playback] ignoring time update during seek")
			return nil
		}
		c.pending = append(c.pending, e)
		return nil
	}

	err := c.dispatch(e)

	for len(c.pending) > 0 {
		next := c.pending[0]
		c.pending = c.pending[1:]
		if perr := c.dispatch(next); perr != nil {
			logger.Debugf("[playback] queued %s event: %v", EventName(next), perr)
		}
	}

	return err
}

func (c *Controller) dispatch(e Event) error {
	res, err := Transition(c.state, e)
	if err != nil {
		return err
	}

	c.dispatching = true
	c.state = res.State
	c.execute(res.Commands)
	if c.state.Seeking {
		c.state = FinishSeek(c.state)
	}
	c.dispatching = false

	for _, u := range res.Updates {
		if pe, ok := u.(*PlaybackError); ok {
			logger.Warnf("[playback] %v", pe)
		}
	}
	notify(c.observer, res.Updates)

	return nil
}

func (c *Controller) execute(commands []Command) {
	for _, cmd := range commands {
		var err error
		switch cmd := cmd.(type) {
		case Load:
			err = c.player.Load(cmd.URL, cmd.Generation)
		case Seek:
			err = c.player.Seek(cmd.LocalTime, cmd.Generation)
		case Play:
			err = c.player.Play()
		case Pause:
			err = c.player.Pause()
		}

		if err != nil {
			logger.Warnf("[playback] player %s: %v", cmd, err)
		}
	}
}

// SetTimeline replaces the previewed timeline.
func (c *Controller) SetTimeline(tl *timeline.Timeline) error {
	return c.Handle(SetTimeline{Timeline: tl})
}

func (c *Controller) TogglePlayPause() error {
	return c.Handle(TogglePlayPause{})
}

// SeekTo moves the playhead to virtual time t.
func (c *Controller) SeekTo(t float64) error {
	if err := c.Handle(SeekTo{Time: t}); err != nil {
		return fmt.Errorf("seeking to %v: %w", t, err)
	}
	return nil
}

// ActivateMarker moves the playhead to the given whole-second marker.
func (c *Controller) ActivateMarker(second int) error {
	if err := c.Handle(MarkerActivated{Second: second}); err != nil {
		return fmt.Errorf("activating marker %d: %w", second, err)
	}
	return nil
}

// Listen subscribes the controller to its player's events, handling each
// with handle. handle must deliver the event to Handle on the controller's
// goroutine. The returned function unsubscribes.
func (c *Controller) Listen(handle func(e Event)) func() {
	return c.player.Subscribe(EventHandler(handle))
}

// IsContractError returns true if err reports an invalid timeline query
// rather than an environmental failure.
func IsContractError(err error) bool {
	return errors.Is(err, timeline.ErrEmptyTimeline) ||
		errors.Is(err, timeline.ErrOutOfRange) ||
		errors.Is(err, timeline.ErrIndexOutOfRange)
}
