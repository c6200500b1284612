// internal/handlers/entropy.go

package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/ArowuTest/entropy-backend/internal/collectors"
	"github.com/ArowuTest/entropy-backend/internal/fortuna"
	"github.com/ArowuTest/entropy-backend/internal/store"
)

// Package-level wiring, set once at boot (mirrors auth.Init).
var (
	Gen   *fortuna.Generator
	Col   *collectors.Collectors
	Store store.PersistStore
)

// Init wires the handlers to the generator, its collectors and the seed
// blob store.
func Init(gen *fortuna.Generator, col *collectors.Collectors, st store.PersistStore) {
	Gen = gen
	Col = col
	Store = st
}

// accepted reports the submission outcome together with current seeding
// progress so a feeding frontend can render a meter.
func accepted(c *gin.Context) {
	progress, err := Gen.GetProgress()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusAccepted, gin.H{"status": "accepted", "progress": progress})
}

type pointerRequest struct {
	X uint32 `json:"x"`
	Y uint32 `json:"y"`
}

// PointerEntropy handles POST /api/v1/entropy/pointer
func PointerEntropy(c *gin.Context) {
	var req pointerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid payload: " + err.Error()})
		return
	}
	if err := Col.PointerMove(req.X, req.Y); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	accepted(c)
}

type keyboardRequest struct {
	Code uint32 `json:"code"`
}

// KeyboardEntropy handles POST /api/v1/entropy/keyboard
func KeyboardEntropy(c *gin.Context) {
	var req keyboardRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid payload: " + err.Error()})
		return
	}
	if err := Col.Keystroke(req.Code); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	accepted(c)
}

type accelerometerRequest struct {
	Values []uint32 `json:"values"`
}

// AccelerometerEntropy handles POST /api/v1/entropy/accelerometer
func AccelerometerEntropy(c *gin.Context) {
	var req accelerometerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid payload: " + err.Error()})
		return
	}
	if err := Col.Accelerometer(req.Values); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	accepted(c)
}

// entropyRequest is the generic submission shape: either a word sequence
// or a text payload, with an optional entropy claim and source tag.
type entropyRequest struct {
	Words  []uint32 `json:"words,omitempty"`
	Text   *string  `json:"text,omitempty"`
	Bits   *int     `json:"bits,omitempty"`   // omitted: conservative estimate
	Source string   `json:"source,omitempty"` // defaults to "user"
}

// SubmitEntropy handles POST /api/v1/entropy
func SubmitEntropy(c *gin.Context) {
	var req entropyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid payload: " + err.Error()})
		return
	}

	var data fortuna.Datum
	switch {
	case len(req.Words) > 0:
		data = fortuna.Words(req.Words)
	case req.Text != nil:
		data = fortuna.Text(*req.Text)
	default:
		c.JSON(http.StatusBadRequest, gin.H{"error": "Payload must carry words or text"})
		return
	}

	bits := fortuna.EstimateBits
	if req.Bits != nil {
		if *req.Bits < 0 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "bits must be non-negative"})
			return
		}
		bits = *req.Bits
	}

	if err := Col.Submit(data, bits, req.Source); err != nil {
		if errors.Is(err, fortuna.ErrInvalidInput) {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		} else {
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		}
		return
	}
	accepted(c)
}
