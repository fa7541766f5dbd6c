package playback

// EventHandler receives events emitted by a Player.
type EventHandler func(e Event)

// Player is a single-source media player. Implementations emit Ready,
// TimeUpdate, Ended and LoadError events to subscribed handlers, echoing the
// generation of the last Load or Seek they received.
//
//go:generate go run github.com/vektra/mockery/v2 --name Player --output ./mocks
type Player interface {
	Load(url string, generation uint64) error
	Seek(localTime float64, generation uint64) error
	Play() error
	Pause() error
	// Subscribe registers a handler for player events. The returned function
	// removes the handler.
	Subscribe(handler EventHandler) func()
}
