package domain

import "time"

// Normalized lies.
const (
	LieTee       = "Tee"
	LieFairway   = "Fairway"
	LieRough     = "Rough"
	LieSand      = "Sand"
	LieGreen     = "Green"
	LieInTheHole = "In The Hole"
)

// Shot types.
const (
	ShotTypeTee       = "TeeShot"
	ShotTypeGreenside = "GreensideShot"
	ShotTypePutt      = "Putt"
	ShotTypeApproach  = "ApproachShot"
)

// Shot subtypes. TeeShot, GreensideShot and Putt reuse the type names.
const (
	SubtypeRecovery      = "Recovery"
	SubtypeLayUp         = "LayUp"
	SubtypeGoingForGreen = "GoingForGreen"
)

// Miss direction labels.
const (
	MissLeft  = "Left"
	MissRight = "Right"
	MissShort = "Short"
	MissLong  = "Long"
)

// ShotRecord is one shot with its hole and round metadata joined in. The
// fields under "derived" are owned by the insights engine and overwritten on
// every run.
type ShotRecord struct {
	RoundID        int64     `json:"round_id"`
	HoleID         int       `json:"hole_id"`
	ShotID         int       `json:"shot_id"`
	UserID         string    `json:"user_id"`
	RoundStartTime time.Time `json:"round_start_time"`
	CourseName     string    `json:"course_name,omitempty"`

	StartLat  float64  `json:"start_lat"`
	StartLong float64  `json:"start_long"`
	EndLat    *float64 `json:"end_lat"`
	EndLong   *float64 `json:"end_long"`
	PinLat    float64  `json:"pin_lat"`
	PinLong   float64  `json:"pin_long"`
	HolePar   int      `json:"hole_par"`
	HoleShots int      `json:"hole_no_of_shots"`

	StartTerrain   string `json:"start_terrain,omitempty"`
	EndTerrain     string `json:"end_terrain,omitempty"`
	ClubType       int    `json:"club_type"`
	IsFairwayRight *bool  `json:"is_fairway_right,omitempty"`
	IsFairwayLeft  *bool  `json:"is_fairway_left,omitempty"`
	IsGIR          *bool  `json:"is_gir,omitempty"`

	// StartDistanceToCG is the provider's own distance to the centre of the
	// green, kept for reference only.
	StartDistanceToCG *float64 `json:"start_distance_to_cg,omitempty"`

	// derived
	StartLie               string `json:"start_lie"`
	EndLie                 string `json:"end_lie"`
	StartDistanceYards     Float  `json:"shot_start_distance_yards"`
	EndDistanceYards       Float  `json:"shot_end_distance_yards"`
	DistanceYards          Float  `json:"shot_distance_yards_calculated"`
	HoleYards              Float  `json:"hole_yards"`
	ShotType               string `json:"shot_type"`
	ShotSubtype            string `json:"shot_subtype"`
	DistanceZScore         Float  `json:"shot_distance_yards_zscore"`
	StartDistanceZScore    Float  `json:"shot_start_distance_yards_zscore"`
	StartToEndBearing      Float  `json:"start_to_end_bearing"`
	StartToPinBearing      Float  `json:"start_to_pin_bearing"`
	MissBearingLeftRight   Float  `json:"miss_bearing_left_right"`
	EndToPinBearing        Float  `json:"end_to_pin_bearing"`
	StartEndPinAngle       Float  `json:"start_end_pin_angle"`
	MissDistanceLeftRight  Float  `json:"shot_miss_distance_left_right"`
	MissDistanceShortLong  Float  `json:"shot_miss_distance_short_long"`
	MissDirectionLeftRight string `json:"shot_miss_direction_left_right,omitempty"`
	MissDirectionShortLong string `json:"shot_miss_direction_short_long,omitempty"`
	MissDirection          string `json:"shot_miss_direction_all_shots,omitempty"`
	NextShotID             *int   `json:"next_shot_id"`
	StrokesGained          Float  `json:"strokes_gained_calculated"`
}

// HoleKey identifies one played hole.
type HoleKey struct {
	UserID         string
	RoundStartTime time.Time
	RoundID        int64
	HoleID         int
}

// Hole returns the key of the hole this shot was played on.
func (s *ShotRecord) Hole() HoleKey {
	return HoleKey{
		UserID:         s.UserID,
		RoundStartTime: s.RoundStartTime.UTC(),
		RoundID:        s.RoundID,
		HoleID:         s.HoleID,
	}
}

// IsLastShot reports whether the shot finished the hole.
func (s *ShotRecord) IsLastShot() bool {
	return s.ShotID == s.HoleShots
}

// Less orders shots by user, round start, round, hole and shot.
func (s *ShotRecord) Less(o *ShotRecord) bool {
	if s.UserID != o.UserID {
		return s.UserID < o.UserID
	}
	if !s.RoundStartTime.Equal(o.RoundStartTime) {
		return s.RoundStartTime.Before(o.RoundStartTime)
	}
	if s.RoundID != o.RoundID {
		return s.RoundID < o.RoundID
	}
	if s.HoleID != o.HoleID {
		return s.HoleID < o.HoleID
	}
	return s.ShotID < o.ShotID
}
