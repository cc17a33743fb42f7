package handlers

import (
	"fmt"
	"net/url"

	"github.com/gorilla/schema"

	"github.com/vancomm/minesweeper-engine/internal/mines"
	"github.com/vancomm/minesweeper-engine/internal/store"
)

type CreateRoundDTO struct {
	Size       int              `schema:"size,required"`
	Difficulty mines.Difficulty `schema:"difficulty"`
	MineCount  *int             `schema:"mine_count"`
}

// Params resolves the requested board. An explicit mine count wins over a
// difficulty; with neither, fallback is used.
func (dto CreateRoundDTO) Params(fallback mines.Difficulty) (mines.GameParams, error) {
	if dto.MineCount != nil {
		if dto.Difficulty != 0 {
			return mines.GameParams{}, fmt.Errorf(
				"%w: give either difficulty or mine_count", mines.ErrInvalidConfiguration,
			)
		}
		p := mines.GameParams{Size: dto.Size, MineCount: *dto.MineCount}
		return p, p.Validate()
	}
	d := dto.Difficulty
	if d == 0 {
		d = fallback
	}
	return mines.NewGameParams(dto.Size, d)
}

type PositionDTO struct {
	Row int `schema:"row,required"`
	Col int `schema:"col,required"`
}

func decodeQuery[T any](dec *schema.Decoder, src url.Values) (T, error) {
	var dto T
	if err := dec.Decode(&dto, src); err != nil {
		return dto, fmt.Errorf("%w: %v", mines.ErrInvalidConfiguration, err)
	}
	return dto, nil
}

type RoundDTO struct {
	SessionID string       `json:"session_id"`
	Board     mines.Board  `json:"board"`
	Size      int          `json:"size"`
	MineCount int          `json:"mine_count"`
	Status    mines.Status `json:"status"`
	Started   bool         `json:"started"`
	StartedAt int64        `json:"started_at"`
	EndedAt   *int64       `json:"ended_at,omitempty"`
}

// NewRoundDTO snapshots the session. The caller holds the session lock.
func NewRoundDTO(s *store.Session) *RoundDTO {
	dto := &RoundDTO{
		SessionID: s.ID,
		Board:     s.Round.Board(),
		Size:      s.Round.Size,
		MineCount: s.Round.MineCount,
		Status:    s.Round.Status(),
		Started:   s.Round.Started(),
		StartedAt: s.StartedAt.UnixMilli(),
	}
	if !s.EndedAt.IsZero() {
		e := s.EndedAt.UnixMilli()
		dto.EndedAt = &e
	}
	return dto
}

type CreatedRoundDTO struct {
	*RoundDTO
	Token string `json:"token"`
}
