// Package arccos flattens Arccos round exports into shot records.
//
// An export is three documents: the rounds (holes with their shots), the
// terrain analysis (per-hole drive, approach, chip and sand shots carrying the
// lie and par), and the course list. Rounds and terrain may each be a single
// object or an array of them.
package arccos

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/couchcryptid/shot-insights-etl/internal/domain"
	"github.com/couchcryptid/shot-insights-etl/internal/insights"
)

var (
	// ErrIncompleteExport is returned when one of the three documents is missing.
	ErrIncompleteExport = errors.New("incomplete arccos export")
	// ErrEmptyExport is returned when the export contains no shots.
	ErrEmptyExport = errors.New("arccos export has no shots")
)

// Export is the wire form of an unflattened export.
type Export struct {
	Rounds  json.RawMessage `json:"rounds"`
	Terrain json.RawMessage `json:"terrain"`
	Course  json.RawMessage `json:"course"`
}

// ParseExport decodes an Export envelope.
func ParseExport(data []byte) (Export, error) {
	var e Export
	if err := json.Unmarshal(data, &e); err != nil {
		return Export{}, fmt.Errorf("parse arccos export: %w", err)
	}
	return e, nil
}

// Shots aggregates the export.
func (e Export) Shots() ([]domain.ShotRecord, error) {
	return Aggregate(e.Rounds, e.Terrain, e.Course)
}

type round struct {
	RoundID   number    `json:"roundId"`
	CourseID  text      `json:"courseId"`
	UserID    text      `json:"userId"`
	StartTime timestamp `json:"startTime"`
	Holes     []hole    `json:"holes"`
}

type hole struct {
	HoleID         number `json:"holeId"`
	NoOfShots      number `json:"noOfShots"`
	PinLat         number `json:"pinLat"`
	PinLong        number `json:"pinLong"`
	IsGir          flag   `json:"isGir"`
	IsFairWayRight flag   `json:"isFairWayRight"`
	IsFairWayLeft  flag   `json:"isFairWayLeft"`
	Shots          []shot `json:"shots"`
}

type shot struct {
	ShotID    number `json:"shotId"`
	ClubType  number `json:"clubType"`
	StartLat  number `json:"startLat"`
	StartLong number `json:"startLong"`
	EndLat    number `json:"endLat"`
	EndLong   number `json:"endLong"`
}

type terrainRound struct {
	RoundID number        `json:"roundId"`
	Holes   []terrainHole `json:"holes"`
}

type terrainHole struct {
	HoleID   number        `json:"holeId"`
	Par      number        `json:"par"`
	Drive    []terrainShot `json:"drive"`
	Approach []terrainShot `json:"approach"`
	Chip     []terrainShot `json:"chip"`
	Sand     []terrainShot `json:"sand"`
}

type terrainShot struct {
	ShotID            number `json:"shotId"`
	StartDistanceToCG number `json:"startDistanceToCG"`
	StartTerrain      text   `json:"startTerrain"`
	EndTerrain        text   `json:"endTerrain"`
}

type courseList struct {
	Courses []struct {
		CourseID text   `json:"courseId"`
		Name     string `json:"name"`
	} `json:"courses"`
}

type holeRef struct {
	roundID int64
	holeID  int
}

type shotRef struct {
	holeRef
	shotID int
}

// terrainIndex holds the terrain analysis keyed for the join.
type terrainIndex struct {
	par   map[holeRef]int
	shots map[shotRef]terrainShot
}

// Aggregate flattens the three export documents into shot records sorted by
// user, round start, round, hole and shot. Terrain and course name are joined
// where present; shots the terrain analysis does not cover (putts, usually)
// keep empty terrain. Par applies to every shot of its hole.
func Aggregate(roundsData, terrainData, courseData []byte) ([]domain.ShotRecord, error) {
	if absent(roundsData) || absent(terrainData) || absent(courseData) {
		return nil, ErrIncompleteExport
	}

	var rounds []round
	if err := decodeOneOrMany(roundsData, &rounds); err != nil {
		return nil, fmt.Errorf("decode rounds: %w", err)
	}
	var terrain []terrainRound
	if err := decodeOneOrMany(terrainData, &terrain); err != nil {
		return nil, fmt.Errorf("decode terrain: %w", err)
	}
	var courses courseList
	if err := json.Unmarshal(courseData, &courses); err != nil {
		return nil, fmt.Errorf("decode course: %w", err)
	}

	names := make(map[text]string, len(courses.Courses))
	for _, c := range courses.Courses {
		if _, seen := names[c.CourseID]; !seen {
			names[c.CourseID] = c.Name
		}
	}
	index := indexTerrain(terrain)

	var out []domain.ShotRecord
	for _, r := range rounds {
		if !r.RoundID.ok {
			return nil, errors.New("round without roundId")
		}
		roundID := int64(r.RoundID.v)
		if len(r.Holes) == 0 {
			return nil, fmt.Errorf("round %d has no holes", roundID)
		}
		for _, h := range r.Holes {
			shots, err := flattenHole(r, h, index, names[r.CourseID])
			if err != nil {
				return nil, fmt.Errorf("round %d: %w", roundID, err)
			}
			out = append(out, shots...)
		}
	}
	if len(out) == 0 {
		return nil, ErrEmptyExport
	}

	insights.SortShots(out)
	return out, nil
}

func flattenHole(r round, h hole, index terrainIndex, courseName string) ([]domain.ShotRecord, error) {
	if !h.HoleID.ok {
		return nil, errors.New("hole without holeId")
	}
	ref := holeRef{roundID: int64(r.RoundID.v), holeID: h.HoleID.asInt()}
	if len(h.Shots) > 0 && (!h.PinLat.ok || !h.PinLong.ok) {
		return nil, fmt.Errorf("hole %d has no pin", ref.holeID)
	}

	holeShots := h.NoOfShots.asInt()
	if !h.NoOfShots.ok {
		for _, s := range h.Shots {
			holeShots = max(holeShots, s.ShotID.asInt())
		}
	}

	out := make([]domain.ShotRecord, 0, len(h.Shots))
	for _, s := range h.Shots {
		if !s.ShotID.ok {
			return nil, fmt.Errorf("hole %d: shot without shotId", ref.holeID)
		}
		if !s.StartLat.ok || !s.StartLong.ok {
			return nil, fmt.Errorf("hole %d shot %d has no start coordinates", ref.holeID, s.ShotID.asInt())
		}

		rec := domain.ShotRecord{
			RoundID:        ref.roundID,
			HoleID:         ref.holeID,
			ShotID:         s.ShotID.asInt(),
			UserID:         string(r.UserID),
			RoundStartTime: r.StartTime.Time,
			CourseName:     courseName,
			StartLat:       s.StartLat.v,
			StartLong:      s.StartLong.v,
			EndLat:         s.EndLat.ptr(),
			EndLong:        s.EndLong.ptr(),
			PinLat:         h.PinLat.v,
			PinLong:        h.PinLong.v,
			HolePar:        index.par[ref],
			HoleShots:      holeShots,
			ClubType:       s.ClubType.asInt(),
			IsFairwayRight: h.IsFairWayRight.ptr(),
			IsFairwayLeft:  h.IsFairWayLeft.ptr(),
			IsGIR:          h.IsGir.ptr(),
		}
		if t, ok := index.shots[shotRef{holeRef: ref, shotID: rec.ShotID}]; ok {
			rec.StartTerrain = string(t.StartTerrain)
			rec.EndTerrain = string(t.EndTerrain)
			rec.StartDistanceToCG = t.StartDistanceToCG.ptr()
		}
		out = append(out, rec)
	}
	return out, nil
}

func indexTerrain(terrain []terrainRound) terrainIndex {
	index := terrainIndex{
		par:   make(map[holeRef]int),
		shots: make(map[shotRef]terrainShot),
	}
	for _, r := range terrain {
		for _, h := range r.Holes {
			ref := holeRef{roundID: int64(r.RoundID.v), holeID: h.HoleID.asInt()}
			if h.Par.ok {
				index.par[ref] = h.Par.asInt()
			}
			for _, section := range [][]terrainShot{h.Drive, h.Approach, h.Chip, h.Sand} {
				for _, s := range section {
					k := shotRef{holeRef: ref, shotID: s.ShotID.asInt()}
					if _, dup := index.shots[k]; !dup {
						index.shots[k] = s
					}
				}
			}
		}
	}
	return index
}

func absent(data []byte) bool {
	trimmed := bytes.TrimSpace(data)
	return len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null"))
}

// decodeOneOrMany decodes a JSON object or array of objects into dst.
func decodeOneOrMany[T any](data []byte, dst *[]T) error {
	data = bytes.TrimSpace(data)
	if len(data) > 0 && data[0] == '[' {
		return json.Unmarshal(data, dst)
	}
	var one T
	if err := json.Unmarshal(data, &one); err != nil {
		return err
	}
	*dst = []T{one}
	return nil
}
