// Package codec implements the game's record encoder with JSON.
package codec

import (
	"encoding/json"

	"github.com/charlie572/Blind-Maze-Game/game"
	"github.com/charlie572/Blind-Maze-Game/game/maze"
	"github.com/charlie572/Blind-Maze-Game/game/vision"
)

var _ game.Encoder = &JSON{}

// JSON encodes run records as JSON objects.
type JSON struct{}

type stateRecord struct {
	Version          int64   `json:"version"`
	PlayerX          float64 `json:"player_x"`
	PlayerY          float64 `json:"player_y"`
	PlayerWidth      float64 `json:"player_width"`
	PlayerHeight     float64 `json:"player_height"`
	RemainingSeconds float64 `json:"remaining_seconds"`
	Ended            bool    `json:"ended"`
}

type cueRecord struct {
	Kind   byte `json:"kind"`
	Side   int  `json:"side,omitempty"`
	Number int  `json:"number,omitempty"`
}

type moveRecord struct {
	DX int `json:"dx"`
	DY int `json:"dy"`
}

type probeRecord struct {
	Direction int `json:"direction"`
}

// MarshalState implements game.Encoder.
func (j *JSON) MarshalState(s game.State) ([]byte, error) {
	return json.Marshal(stateRecord{
		Version:          s.Version,
		PlayerX:          s.PlayerX,
		PlayerY:          s.PlayerY,
		PlayerWidth:      s.PlayerWidth,
		PlayerHeight:     s.PlayerHeight,
		RemainingSeconds: s.RemainingSeconds,
		Ended:            s.Ended,
	})
}

// UnmarshalState implements game.Encoder.
func (j *JSON) UnmarshalState(b []byte) (game.State, error) {
	var record stateRecord
	if err := json.Unmarshal(b, &record); err != nil {
		return game.State{}, err
	}
	return game.State{
		Version:          record.Version,
		PlayerX:          record.PlayerX,
		PlayerY:          record.PlayerY,
		PlayerWidth:      record.PlayerWidth,
		PlayerHeight:     record.PlayerHeight,
		RemainingSeconds: record.RemainingSeconds,
		Ended:            record.Ended,
	}, nil
}

// MarshalCues implements game.Encoder.
func (j *JSON) MarshalCues(cues []vision.Cue) ([]byte, error) {
	records := make([]cueRecord, 0, len(cues))
	for _, cue := range cues {
		records = append(records, cueRecord{
			Kind:   byte(cue.Kind),
			Side:   int(cue.Side),
			Number: cue.Number,
		})
	}
	return json.Marshal(records)
}

// UnmarshalCues implements game.Encoder.
func (j *JSON) UnmarshalCues(b []byte) ([]vision.Cue, error) {
	var records []cueRecord
	if err := json.Unmarshal(b, &records); err != nil {
		return nil, err
	}

	cues := make([]vision.Cue, 0, len(records))
	for _, record := range records {
		cues = append(cues, vision.Cue{
			Kind:   vision.CueKind(record.Kind),
			Side:   maze.Side(record.Side),
			Number: record.Number,
		})
	}
	return cues, nil
}

// MarshalMove implements game.Encoder.
func (j *JSON) MarshalMove(m game.MoveAction) ([]byte, error) {
	return json.Marshal(moveRecord{DX: m.DX, DY: m.DY})
}

// UnmarshalMove implements game.Encoder.
func (j *JSON) UnmarshalMove(b []byte) (game.MoveAction, error) {
	var record moveRecord
	if err := json.Unmarshal(b, &record); err != nil {
		return game.MoveAction{}, err
	}
	return game.MoveAction{DX: record.DX, DY: record.DY}, nil
}

// MarshalProbe implements game.Encoder.
func (j *JSON) MarshalProbe(p game.ProbeAction) ([]byte, error) {
	return json.Marshal(probeRecord{Direction: int(p.Direction)})
}

// UnmarshalProbe implements game.Encoder.
func (j *JSON) UnmarshalProbe(b []byte) (game.ProbeAction, error) {
	var record probeRecord
	if err := json.Unmarshal(b, &record); err != nil {
		return game.ProbeAction{}, err
	}
	return game.ProbeAction{Direction: maze.Side(record.Direction)}, nil
}
