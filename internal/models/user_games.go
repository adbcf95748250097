package models

// GameStats is the player's progress record for one catalog entry.
// Score is a pointer so a record without a score can be told apart from a zero score.
type GameStats struct {
	Achievements int      `json:"achievements"`
	HoursPlayed  float64  `json:"hoursPlayed"`
	Finished     bool     `json:"finished"`
	Score        *float64 `json:"score"`
	Review       string   `json:"review"`
}

// StatsPatch is a partial GameStats; nil fields are left untouched by Apply.
type StatsPatch struct {
	Achievements *int     `json:"achievements,omitempty"`
	HoursPlayed  *float64 `json:"hoursPlayed,omitempty"`
	Finished     *bool    `json:"finished,omitempty"`
	Score        *float64 `json:"score,omitempty"`
	Review       *string  `json:"review,omitempty"`
}

// Apply shallow-merges p onto base and returns the result.
func (p StatsPatch) Apply(base GameStats) GameStats {
	out := base.Clone()
	if p.Achievements != nil {
		out.Achievements = *p.Achievements
	}
	if p.HoursPlayed != nil {
		out.HoursPlayed = *p.HoursPlayed
	}
	if p.Finished != nil {
		out.Finished = *p.Finished
	}
	if p.Score != nil {
		out.Score = Float(*p.Score)
	}
	if p.Review != nil {
		out.Review = *p.Review
	}
	return out
}

// Empty reports whether the patch sets nothing.
func (p StatsPatch) Empty() bool {
	return p.Achievements == nil && p.HoursPlayed == nil && p.Finished == nil &&
		p.Score == nil && p.Review == nil
}

// Clone returns a copy that shares no pointers with s.
func (s GameStats) Clone() GameStats {
	if s.Score != nil {
		s.Score = Float(*s.Score)
	}
	return s
}

// PatchFrom turns a full record into a patch that sets every field.
func PatchFrom(s GameStats) StatsPatch {
	p := StatsPatch{
		Achievements: Int(s.Achievements),
		HoursPlayed:  Float(s.HoursPlayed),
		Finished:     Bool(s.Finished),
		Review:       String(s.Review),
	}
	if s.Score != nil {
		p.Score = Float(*s.Score)
	}
	return p
}

func Int(v int) *int { return &v }

func Float(v float64) *float64 { return &v }

func Bool(v bool) *bool { return &v }

func String(v string) *string { return &v }
