package domain

import "fmt"

// SessionMode selects which input view and which submit action is live
type SessionMode int

const (
	ModeByIdentifier SessionMode = iota
	ModeByFeatureVector
	ModeByBatchFile
)

var sessionModeNames = map[SessionMode]string{
	ModeByIdentifier:    "kepid",
	ModeByFeatureVector: "custom",
	ModeByBatchFile:     "csv",
}

var sessionModeTitles = map[SessionMode]string{
	ModeByIdentifier:    "Search by KepID",
	ModeByFeatureVector: "Custom Features",
	ModeByBatchFile:     "Upload CSV",
}

func (m SessionMode) String() string {
	if name, ok := sessionModeNames[m]; ok {
		return name
	}
	return "unknown"
}

// Title is the label shown to the operator
func (m SessionMode) Title() string {
	if title, ok := sessionModeTitles[m]; ok {
		return title
	}
	return "Unknown"
}

func (m SessionMode) IsValid() bool {
	_, ok := sessionModeNames[m]
	return ok
}

// SessionModes lists the modes in display order
func SessionModes() []SessionMode {
	return []SessionMode{ModeByIdentifier, ModeByFeatureVector, ModeByBatchFile}
}

func ParseSessionMode(s string) (SessionMode, error) {
	for mode, name := range sessionModeNames {
		if name == s {
			return mode, nil
		}
	}
	return 0, fmt.Errorf("unknown session mode %q", s)
}
