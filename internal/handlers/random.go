// internal/handlers/random.go

package handlers

import (
	"encoding/binary"
	"encoding/hex"
	"errors"
	"log"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/ArowuTest/entropy-backend/internal/config"
	"github.com/ArowuTest/entropy-backend/internal/fortuna"
	"github.com/ArowuTest/entropy-backend/internal/models"
)

// maxWordsPerRequest bounds one HTTP response (256 KiB of randomness).
const maxWordsPerRequest = 65536

// parseParanoia reads an optional ?paranoia=N query parameter into the
// variadic shape the generator expects.
func parseParanoia(c *gin.Context) ([]int, bool) {
	v := c.Query("paranoia")
	if v == "" {
		return nil, true
	}
	p, err := strconv.Atoi(v)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid paranoia value"})
		return nil, false
	}
	return []int{p}, true
}

// GetRandom handles GET /api/v1/random?words=n&paranoia=p
func GetRandom(c *gin.Context) {
	n := 4
	if v := c.Query("words"); v != "" {
		parsed, err := strconv.Atoi(v)
		if err != nil || parsed < 0 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid word count"})
			return
		}
		n = parsed
	}
	if n > maxWordsPerRequest {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Word count exceeds per-request limit"})
		return
	}
	paranoia, ok := parseParanoia(c)
	if !ok {
		return
	}

	words, err := Gen.RandomWords(n, paranoia...)
	if err != nil {
		switch {
		case errors.Is(err, fortuna.ErrNotReady):
			progress, _ := Gen.GetProgress(paranoia...)
			c.JSON(http.StatusServiceUnavailable, gin.H{
				"error":    "Not enough entropy accumulated; keep feeding the collectors",
				"progress": progress,
			})
		case errors.Is(err, fortuna.ErrParanoiaOutOfRange):
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		}
		return
	}

	auditDraw(c, n, paranoia)
	c.JSON(http.StatusOK, gin.H{
		"words": words,
		"hex":   wordsToHex(words),
	})
}

// auditDraw records a successful draw; auditing is best-effort and never
// blocks the response.
func auditDraw(c *gin.Context, n int, paranoia []int) {
	if config.DB == nil {
		return
	}
	p := Gen.DefaultParanoia()
	if len(paranoia) > 0 {
		p = paranoia[0]
	}
	audit := models.DrawAudit{
		ID:          uuid.New(),
		Words:       n,
		Paranoia:    p,
		RequestedBy: c.GetString("user_id"),
	}
	if err := config.DB.Create(&audit).Error; err != nil {
		log.Printf("failed to record draw audit: %v", err)
	}
}

// Status handles GET /api/v1/status?paranoia=p
func Status(c *gin.Context) {
	paranoia, ok := parseParanoia(c)
	if !ok {
		return
	}
	st, err := Gen.IsReady(paranoia...)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	progress, err := Gen.GetProgress(paranoia...)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"ready":            st&fortuna.Ready != 0,
		"requires_reseed":  st&fortuna.RequiresReseed != 0,
		"flags":            int(st),
		"progress":         progress,
		"strength":         Gen.Strength(),
		"pool_strength":    Gen.PoolStrength(),
		"default_paranoia": Gen.DefaultParanoia(),
		"collectors":       Col.Started(),
	})
}

type paranoiaRequest struct {
	Paranoia *int `json:"paranoia" binding:"required"`
}

// SetParanoia handles PUT /api/v1/admin/paranoia
func SetParanoia(c *gin.Context) {
	var req paranoiaRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid payload: " + err.Error()})
		return
	}
	if err := Gen.SetDefaultParanoia(*req.Paranoia); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"default_paranoia": Gen.DefaultParanoia()})
}

// SaveState handles POST /api/v1/admin/state/save. It draws a fresh
// 128-bit blob and persists it; on the next boot the blob is replayed into
// the pools with zero claimed entropy.
func SaveState(c *gin.Context) {
	words, err := Gen.RandomWords(4)
	if err != nil {
		if errors.Is(err, fortuna.ErrNotReady) {
			c.JSON(http.StatusServiceUnavailable, gin.H{"error": "Not enough entropy to produce a seed blob yet"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	blob := wordsToHex(words)
	if err := Store.Save(blob); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"saved": true})
}

func wordsToHex(words []uint32) string {
	b := make([]byte, 4*len(words))
	for i, w := range words {
		binary.BigEndian.PutUint32(b[4*i:], w)
	}
	return hex.EncodeToString(b)
}
