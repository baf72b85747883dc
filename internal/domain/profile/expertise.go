package profile

import (
	"encoding/json"
	"fmt"

	"collabhub/internal/common"
)

// ExpertiseLevel is ordinal: Entry < Junior < Mid < Senior < Researcher/Expert.
type ExpertiseLevel string

const (
	LevelEntry      ExpertiseLevel = "Entry"
	LevelJunior     ExpertiseLevel = "Junior"
	LevelMid        ExpertiseLevel = "Mid"
	LevelSenior     ExpertiseLevel = "Senior"
	LevelResearcher ExpertiseLevel = "Researcher"
	LevelExpert     ExpertiseLevel = "Expert"
)

var levelRanks = map[ExpertiseLevel]int{
	LevelEntry:      0,
	LevelJunior:     1,
	LevelMid:        2,
	LevelSenior:     3,
	LevelResearcher: 4,
	LevelExpert:     4,
}

var levelAliases = map[string]ExpertiseLevel{
	"entry":        LevelEntry,
	"entry-level":  LevelEntry,
	"entry level":  LevelEntry,
	"junior":       LevelJunior,
	"mid":          LevelMid,
	"mid-level":    LevelMid,
	"mid level":    LevelMid,
	"intermediate": LevelMid,
	"senior":       LevelSenior,
	"researcher":   LevelResearcher,
	"expert":       LevelExpert,
}

func ParseExpertiseLevel(value string) (ExpertiseLevel, error) {
	if level, ok := levelAliases[common.FoldKey(value)]; ok {
		return level, nil
	}
	return "", fmt.Errorf("unknown expertise level %q", value)
}

// Rank returns the ordinal of the level, or -1 when the level is unknown.
func (l ExpertiseLevel) Rank() int {
	if rank, ok := levelRanks[l]; ok {
		return rank
	}
	return -1
}

func (l ExpertiseLevel) Valid() bool {
	return l.Rank() >= 0
}

// AtLeast reports whether l is the same or a higher seniority than other.
func (l ExpertiseLevel) AtLeast(other ExpertiseLevel) bool {
	return l.Valid() && other.Valid() && l.Rank() >= other.Rank()
}

func (l *ExpertiseLevel) UnmarshalJSON(data []byte) error {
	var raw string
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	// Unknown spellings are kept as-is; services reject them through Valid.
	if parsed, err := ParseExpertiseLevel(raw); err == nil {
		*l = parsed
		return nil
	}
	*l = ExpertiseLevel(raw)
	return nil
}
