package manager

import (
	"fmt"

	"github.com/storyreel/storyreel/pkg/playback"
)

type MessageType string

// Messages sent to the browser.
const (
	MessageLoad     MessageType = "load"
	MessageSeek     MessageType = "seek"
	MessagePlay     MessageType = "play"
	MessagePause    MessageType = "pause"
	MessagePlaying  MessageType = "playing"
	MessageProgress MessageType = "progress"
	MessageMarkers  MessageType = "markers"
	MessageView     MessageType = "view"
	MessageError    MessageType = "error"
	MessageState    MessageType = "state"
)

// Messages received from the browser.
const (
	MessageReady      MessageType = "ready"
	MessageTimeUpdate MessageType = "timeupdate"
	MessageEnded      MessageType = "ended"
	MessageLoadError  MessageType = "loaderror"
	MessageToggle     MessageType = "toggle"
	MessageSeekTo     MessageType = "seekto"
	MessageMarker     MessageType = "marker"
	MessageZoom       MessageType = "zoom"
	MessageScroll     MessageType = "scroll"
	MessageViewport   MessageType = "viewport"
)

// Message is a single frame exchanged with the browser preview.
type Message struct {
	Type       MessageType `json:"type"`
	Generation uint64      `json:"generation,omitempty"`
	URL        string      `json:"url,omitempty"`
	Time       float64     `json:"time,omitempty"`
	Value      float64     `json:"value,omitempty"`
	Text       string      `json:"message,omitempty"`

	Playing       *bool                   `json:"playing,omitempty"`
	Progress      *playback.Progress      `json:"progress,omitempty"`
	Markers       []int                   `json:"markers,omitempty"`
	TotalDuration float64                 `json:"totalDuration,omitempty"`
	View          *playback.View          `json:"view,omitempty"`
	Error         *playback.PlaybackError `json:"error,omitempty"`
	State         *SessionState           `json:"state,omitempty"`
}

func commandMessage(c playback.Command) Message {
	switch c := c.(type) {
	case playback.Load:
		return Message{Type: MessageLoad, URL: c.URL, Generation: c.Generation}
	case playback.Seek:
		return Message{Type: MessageSeek, Time: c.LocalTime, Generation: c.Generation}
	case playback.Play:
		return Message{Type: MessagePlay}
	default:
		return Message{Type: MessagePause}
	}
}

// playerEvent converts a message from the browser's media element into a
// player event. Returns false if the message is not a player event.
func playerEvent(m Message) (playback.Event, bool) {
	switch m.Type {
	case MessageReady:
		return playback.Ready{Generation: m.Generation}, true
	case MessageTimeUpdate:
		return playback.TimeUpdate{Generation: m.Generation, LocalTime: m.Time}, true
	case MessageEnded:
		return playback.Ended{Generation: m.Generation}, true
	case MessageLoadError:
		return playback.LoadError{Generation: m.Generation, URL: m.URL, Message: m.Text}, true
	}
	return nil, false
}

// userEvent converts a message from the browser's controls into a playback
// event.
func userEvent(m Message) (playback.Event, error) {
	switch m.Type {
	case MessageToggle:
		return playback.TogglePlayPause{}, nil
	case MessageSeekTo:
		return playback.SeekTo{Time: m.Time}, nil
	case MessageMarker:
		return playback.MarkerActivated{Second: int(m.Time)}, nil
	case MessageZoom:
		return playback.SetZoom{PixelsPerSecond: m.Value}, nil
	case MessageScroll:
		return playback.ScrollTo{Left: m.Value}, nil
	case MessageViewport:
		return playback.SetViewport{Width: m.Value}, nil
	}
	return nil, fmt.Errorf("%w: %q", ErrUnknownMessage, m.Type)
}
