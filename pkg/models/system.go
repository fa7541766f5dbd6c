package models

type SystemStatusEnum string

const (
	SystemStatusEnumOk SystemStatusEnum = "OK"
	// Scenes without a duration in the catalog cannot be probed.
	SystemStatusEnumNoFFProbe SystemStatusEnum = "NO_FFPROBE"
)

var AllSystemStatusEnum = []SystemStatusEnum{
	SystemStatusEnumOk,
	SystemStatusEnumNoFFProbe,
}

func (e SystemStatusEnum) IsValid() bool {
	switch e {
	case SystemStatusEnumOk, SystemStatusEnumNoFFProbe:
		return true
	}
	return false
}

func (e SystemStatusEnum) String() string {
	return string(e)
}

type SystemStatus struct {
	DatabaseSchema int              `json:"databaseSchema"`
	DatabasePath   string           `json:"databasePath"`
	ConfigPath     string           `json:"configPath"`
	AppSchema      int              `json:"appSchema"`
	FFProbePath    string           `json:"ffprobePath"`
	Version        string           `json:"version"`
	Sessions       int              `json:"sessions"`
	Status         SystemStatusEnum `json:"status"`
}
