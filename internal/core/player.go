// FILE: internal/core/player.go
package core

import (
	"github.com/google/uuid"
)

// Player identifies one side of a game
type Player struct {
	ID    string `json:"id"`
	Color Color  `json:"color"`
}

// PlayersResponse for API responses
type PlayersResponse struct {
	White *Player `json:"white"`
	Black *Player `json:"black"`
}

// NewPlayer creates a player with a fresh UUID
func NewPlayer(color Color) *Player {
	return &Player{
		ID:    uuid.New().String(),
		Color: color,
	}
}

// MarshalText lets Color serialize as "w" / "b"
func (c Color) MarshalText() ([]byte, error) {
	return []byte(c.String()), nil
}

func (c *Color) UnmarshalText(data []byte) error {
	parsed, _ := ParseColor(string(data))
	*c = parsed
	return nil
}
