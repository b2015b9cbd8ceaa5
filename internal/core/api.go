// FILE: internal/core/api.go
package core

// Request types

type CreateGameRequest struct {
	History string `json:"history,omitempty" validate:"omitempty,max=4000"` // encoded move list to resume from
}

type MoveRequest struct {
	Move string `json:"move" validate:"required,len=4"` // from+to coordinates, e.g. "e2e4"
}

type UndoRequest struct {
	Count int `json:"count,omitempty" validate:"omitempty,min=1,max=600"` // defaults to 1
}

// Response types

type GameResponse struct {
	GameID    string          `json:"gameId"`
	Turn      string          `json:"turn"`  // "w" or "b"
	State     string          `json:"state"` // "ongoing", "white wins", etc
	Ply       int             `json:"ply"`
	Check     bool            `json:"check"`
	Moves     []string        `json:"moves"`
	History   string          `json:"history"`
	Players   PlayersResponse `json:"players"`
	LastMove  *MoveInfo       `json:"lastMove,omitempty"`
	Available int             `json:"available"` // legal moves for the side to move
}

type MoveInfo struct {
	Move        string `json:"move"`
	PlayerColor string `json:"playerColor"` // "w" or "b"
	Castle      bool   `json:"castle,omitempty"`
	EnPassant   bool   `json:"enPassant,omitempty"`
	Promotion   bool   `json:"promotion,omitempty"`
	Capture     bool   `json:"capture,omitempty"`
}

type BoardResponse struct {
	Board string   `json:"board"` // ASCII representation
	Tiles []string `json:"tiles"` // 64 piece symbols, " " for empty
}

type TileMovesResponse struct {
	Tile  string   `json:"tile"`
	Piece string   `json:"piece"`
	Moves []string `json:"moves"` // destination coordinates
}

type ControlResponse struct {
	Color  string         `json:"color"`
	Counts map[string]int `json:"counts"` // coordinate -> attacking pieces
	Total  int            `json:"total"`
}

type ErrorResponse struct {
	Error   string `json:"error"`
	Code    string `json:"code"`
	Details string `json:"details,omitempty"`
}
