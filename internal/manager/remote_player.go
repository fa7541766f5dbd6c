package manager

import (
	"sync"

	"github.com/storyreel/storyreel/pkg/playback"
)

// Transport delivers messages to a connected browser preview.
type Transport interface {
	Send(m Message) error
}

// remotePlayer is a playback.Player backed by a media element in a browser.
// Commands are sent over the attached transport; commands issued while no
// transport is attached are dropped, and the browser is brought up to date
// when it attaches.
type remotePlayer struct {
	mutex     sync.Mutex
	transport Transport
	handlers  map[int]playback.EventHandler
	nextID    int
}

func newRemotePlayer() *remotePlayer {
	return &remotePlayer{
		handlers: make(map[int]playback.EventHandler),
	}
}

func (p *remotePlayer) attach(t Transport) {
	p.mutex.Lock()
	defer p.mutex.Unlock()
	p.transport = t
}

// detach removes t if it is still the attached transport.
func (p *remotePlayer) detach(t Transport) {
	p.mutex.Lock()
	defer p.mutex.Unlock()
	if p.transport == t {
		p.transport = nil
	}
}

func (p *remotePlayer) send(m Message) error {
	p.mutex.Lock()
	t := p.transport
	p.mutex.Unlock()

	if t == nil {
		return nil
	}
	return t.Send(m)
}

func (p *remotePlayer) Load(url string, generation uint64) error {
	return p.send(commandMessage(playback.Load{URL: url, Generation: generation}))
}

func (p *remotePlayer) Seek(localTime float64, generation uint64) error {
	return p.send(commandMessage(playback.Seek{LocalTime: localTime, Generation: generation}))
}

func (p *remotePlayer) Play() error {
	return p.send(commandMessage(playback.Play{}))
}

func (p *remotePlayer) Pause() error {
	return p.send(commandMessage(playback.Pause{}))
}

func (p *remotePlayer) Subscribe(handler playback.EventHandler) func() {
	p.mutex.Lock()
	defer p.mutex.Unlock()

	id := p.nextID
	p.nextID++
	p.handlers[id] = handler

	return func() {
		p.mutex.Lock()
		defer p.mutex.Unlock()
		delete(p.handlers, id)
	}
}

func (p *remotePlayer) emit(e playback.Event) {
	p.mutex.Lock()
	handlers := make([]playback.EventHandler, 0, len(p.handlers))
	for _, h := range p.handlers {
		handlers = append(handlers, h)
	}
	p.mutex.Unlock()

	for _, h := range handlers {
		h(e)
	}
}
