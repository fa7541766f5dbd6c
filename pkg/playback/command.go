package playback

import "fmt"

// Command is an instruction for the player.
type Command interface {
	fmt.Stringer
	isCommand()
}

// Load replaces the player source. The player starts at local time 0.
type Load struct {
	URL        string
	Generation uint64
}

// Seek moves the player position within the loaded source.
type Seek struct {
	LocalTime  float64
	Generation uint64
}

type Play struct{}

type Pause struct{}

func (Load) isCommand()  {}
func (Seek) isCommand()  {}
func (Play) isCommand()  {}
func (Pause) isCommand() {}

func (c Load) String() string {
	return fmt.Sprintf("load %s (generation %d)", c.URL, c.Generation)
}

func (c Seek) String() string {
	return fmt.Sprintf("seek %.3f (generation %d)", c.LocalTime, c.Generation)
}

func (Play) String() string  { return "play" }
func (Pause) String() string { return "pause" }
