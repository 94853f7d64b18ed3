package httpapi

import (
	"bytes"
	"fmt"
	"image/png"
	"math/rand"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/vovakirdan/tui-2048/internal/config"
	"github.com/vovakirdan/tui-2048/internal/grid"
	"github.com/vovakirdan/tui-2048/internal/storage"
)

// ScoreLister reads finished games from the score store.
type ScoreLister interface {
	TopScores(boardID string, limit int) ([]storage.ScoreEntry, error)
}

// GridRequest carries a board for the stateless endpoints.
type GridRequest struct {
	Grid [][]uint32 `json:"grid"`
}

// MoveRequest is the body of POST /api/v1/move.
type MoveRequest struct {
	Grid      [][]uint32 `json:"grid"`
	Direction string     `json:"direction"`
}

// MoveResponse reports the board after a move.
type MoveResponse struct {
	Grid    [][]uint32 `json:"grid"`
	Changed bool       `json:"changed"`
	Score   int        `json:"score"`
	CanMove bool       `json:"can_move"`
}

// SpawnRequest is the body of POST /api/v1/spawn.
// A seed makes the spawn reproducible.
type SpawnRequest struct {
	Grid [][]uint32 `json:"grid"`
	Seed *int64     `json:"seed,omitempty"`
}

// CellJSON is a spawned tile.
type CellJSON struct {
	Row   int    `json:"row"`
	Col   int    `json:"col"`
	Value uint32 `json:"value"`
}

// SpawnResponse reports the board after a spawn.
type SpawnResponse struct {
	Grid    [][]uint32 `json:"grid"`
	Spawned bool       `json:"spawned"`
	Cell    *CellJSON  `json:"cell,omitempty"`
}

// RenderRequest is the body of POST /api/v1/render.
type RenderRequest struct {
	Grid  [][]uint32 `json:"grid"`
	Width int        `json:"width,omitempty"`
}

// ScoreJSON is one finished game.
type ScoreJSON struct {
	ID        int64     `json:"id"`
	BoardID   string    `json:"board_id"`
	Score     int       `json:"score"`
	MaxTile   int       `json:"max_tile"`
	Moves     int       `json:"moves"`
	CreatedAt time.Time `json:"created_at"`
}

// badRequest aborts with a 400 and the error message.
func badRequest(c *gin.Context, err error) {
	c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": err.Error()})
}

// maxBodyBytes bounds a request body; the largest board fits in a few KB.
const maxBodyBytes = 64 << 10

// bindGrid decodes the request body into req and validates its board.
// Boards must be between config.MinBoardSize and config.MaxBoardSize.
func bindGrid(c *gin.Context, req any, rows func() [][]uint32) (*grid.Grid, bool) {
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, maxBodyBytes)
	if err := c.ShouldBindJSON(req); err != nil {
		badRequest(c, fmt.Errorf("invalid request body: %w", err))
		return nil, false
	}
	if n := len(rows()); n != 0 && (n < config.MinBoardSize || n > config.MaxBoardSize) {
		badRequest(c, fmt.Errorf("board size %d out of range [%d, %d]", n, config.MinBoardSize, config.MaxBoardSize))
		return nil, false
	}
	g, err := grid.FromRows(rows())
	if err != nil {
		badRequest(c, err)
		return nil, false
	}
	return g, true
}

// MoveHandler applies a directional move to the posted grid.
func MoveHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		var req MoveRequest
		g, ok := bindGrid(c, &req, func() [][]uint32 { return req.Grid })
		if !ok {
			return
		}

		dir, err := grid.ParseDirection(req.Direction)
		if err != nil {
			badRequest(c, err)
			return
		}

		changed := g.Move(dir)
		c.JSON(http.StatusOK, MoveResponse{
			Grid:    g.Rows(),
			Changed: changed,
			Score:   grid.Score(g),
			CanMove: grid.CanMove(g),
		})
	}
}

// SpawnHandler places one tile on the posted grid.
func SpawnHandler(prob4 func() float64) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req SpawnRequest
		g, ok := bindGrid(c, &req, func() [][]uint32 { return req.Grid })
		if !ok {
			return
		}

		seed := time.Now().UnixNano()
		if req.Seed != nil {
			seed = *req.Seed
		}
		sp := grid.Spawner{
			Rand:  rand.New(rand.NewSource(seed)),
			Prob4: prob4(),
		}

		resp := SpawnResponse{}
		if cell, spawned := sp.Spawn(g); spawned {
			resp.Spawned = true
			resp.Cell = &CellJSON{Row: cell.Row, Col: cell.Col, Value: cell.Value}
		}
		resp.Grid = g.Rows()

		c.JSON(http.StatusOK, resp)
	}
}

// CanMoveHandler reports whether any move is possible.
func CanMoveHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		var req GridRequest
		g, ok := bindGrid(c, &req, func() [][]uint32 { return req.Grid })
		if !ok {
			return
		}
		c.JSON(http.StatusOK, gin.H{"can_move": grid.CanMove(g)})
	}
}

// ScoreHandler returns the tile sum of the posted grid.
func ScoreHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		var req GridRequest
		g, ok := bindGrid(c, &req, func() [][]uint32 { return req.Grid })
		if !ok {
			return
		}
		c.JSON(http.StatusOK, gin.H{"score": grid.Score(g)})
	}
}

// RenderHandler draws the posted grid as a PNG.
func RenderHandler(theme func() config.ThemeConfig) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req RenderRequest
		g, ok := bindGrid(c, &req, func() [][]uint32 { return req.Grid })
		if !ok {
			return
		}
		if req.Width < 0 || req.Width > MaxRenderWidth {
			badRequest(c, fmt.Errorf("width %d out of range [0, %d]", req.Width, MaxRenderWidth))
			return
		}

		var buf bytes.Buffer
		if err := png.Encode(&buf, RenderBoard(g, theme(), req.Width)); err != nil {
			c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "Unable to encode image"})
			return
		}
		c.Data(http.StatusOK, "image/png", buf.Bytes())
	}
}

// ScoresHandler lists the top finished games for a board.
func ScoresHandler(store ScoreLister) gin.HandlerFunc {
	return func(c *gin.Context) {
		if store == nil {
			c.JSON(http.StatusNotFound, gin.H{"error": "score store not configured"})
			return
		}

		limit, err := strconv.Atoi(c.DefaultQuery("limit", "10"))
		if err != nil || limit < 1 {
			badRequest(c, fmt.Errorf("invalid limit %q", c.Query("limit")))
			return
		}

		entries, err := store.TopScores(c.Param("board"), limit)
		if err != nil {
			c.Error(err)
			c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "Failed to load scores"})
			return
		}

		scores := make([]ScoreJSON, len(entries))
		for i, e := range entries {
			scores[i] = ScoreJSON{
				ID:        e.ID,
				BoardID:   e.BoardID,
				Score:     e.Score,
				MaxTile:   e.MaxTile,
				Moves:     e.Moves,
				CreatedAt: e.CreatedAt,
			}
		}
		c.JSON(http.StatusOK, gin.H{"board": c.Param("board"), "scores": scores})
	}
}

// HealthHandler reports liveness.
func HealthHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	}
}
