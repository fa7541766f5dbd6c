package playback

type Status string

const (
	StatusIdle    Status = "IDLE"
	StatusLoading Status = "LOADING"
	StatusPlaying Status = "PLAYING"
	StatusPaused  Status = "PAUSED"
	StatusEnded   Status = "ENDED"
)

var AllStatus = []Status{
	StatusIdle,
	StatusLoading,
	StatusPlaying,
	StatusPaused,
	StatusEnded,
}

func (e Status) IsValid() bool {
	switch e {
	case StatusIdle, StatusLoading, StatusPlaying, StatusPaused, StatusEnded:
		return true
	}
	return false
}

func (e Status) String() string {
	return string(e)
}
