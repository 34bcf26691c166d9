package api

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"sync"
	"time"

	"github.com/jonasmerlin/dicetribution/internal/dice"
	"github.com/jonasmerlin/dicetribution/internal/storage"
)

type contextKey string

const requestIDContextKey contextKey = "requestID"

// Handler wires the distribution builder and storage into HTTP handlers.
//
// The distribution of the configured dice set is built once per change and
// cached; queries read the cache, updates to the dice set rebuild it.
type Handler struct {
	builder dice.Builder
	storage storage.Storage

	clock func() time.Time

	// updateMu serializes dice-set updates with their cache rebuilds.
	updateMu sync.Mutex

	mu        sync.RWMutex
	dice      []int
	dist      *dice.Distribution
	updatedAt time.Time
	buildTime time.Duration
}

// HandlerOption configures Handler behaviour.
type HandlerOption func(*Handler)

// WithClock overrides the time source, primarily for tests.
func WithClock(clock func() time.Time) HandlerOption {
	return func(h *Handler) {
		h.clock = clock
	}
}

// NewHandler constructs a Handler and primes the distribution cache from the
// stored dice set.
func NewHandler(builder dice.Builder, store storage.Storage, opts ...HandlerOption) (*Handler, error) {
	h := &Handler{
		builder: builder,
		storage: store,
		clock: func() time.Time {
			return time.Now().UTC()
		},
	}
	for _, opt := range opts {
		opt(h)
	}
	if err := h.rebuild(); err != nil {
		return nil, fmt.Errorf("build initial distribution: %w", err)
	}
	return h, nil
}

// rebuild reads the stored dice set, builds its distribution, and swaps the
// cache. Update paths hold updateMu across the storage write and the rebuild
// so a slow build cannot overwrite a newer configuration.
func (h *Handler) rebuild() error {
	sides, err := h.storage.GetDice()
	if err != nil {
		return err
	}

	start := time.Now()
	dist, err := h.builder.Build(sides)
	if err != nil {
		return err
	}
	elapsed := time.Since(start)

	h.mu.Lock()
	h.dice = sides
	h.dist = dist
	h.updatedAt = h.clock()
	h.buildTime = elapsed
	h.mu.Unlock()

	return nil
}

// snapshot returns a consistent view of the cached dice set and distribution.
func (h *Handler) snapshot() ([]int, *dice.Distribution, time.Time, time.Duration) {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return copyInts(h.dice), h.dist, h.updatedAt, h.buildTime
}

func (h *Handler) handleHealth(w http.ResponseWriter, r *http.Request) {
	_ = r
	resp := healthResponse{
		Status:    "ok",
		Timestamp: h.clock(),
	}
	writeJSON(w, http.StatusOK, resp)
}

func (h *Handler) handleGetDice(w http.ResponseWriter, r *http.Request) {
	_ = r
	sides, _, updatedAt, _ := h.snapshot()

	resp := diceResponse{
		Dice:      sides,
		Notation:  dice.FormatSet(sides),
		UpdatedAt: updatedAt,
	}
	writeJSON(w, http.StatusOK, resp)
}

func (h *Handler) handlePutDice(w http.ResponseWriter, r *http.Request) {
	var req diceRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request", "unable to parse JSON payload")
		return
	}

	if req.Dice != nil && req.Notation != "" {
		writeError(w, http.StatusBadRequest, "Invalid dice set", "provide either dice or notation, not both")
		return
	}
	if req.Dice == nil && req.Notation == "" {
		writeError(w, http.StatusBadRequest, "Invalid dice set", "provide dice as a list of side counts or a notation string")
		return
	}

	sides := req.Dice
	if req.Notation != "" {
		parsed, err := dice.ParseSet(req.Notation)
		if err != nil {
			writeError(w, http.StatusBadRequest, "Invalid dice notation", err.Error())
			return
		}
		sides = parsed
	}

	h.updateMu.Lock()
	defer h.updateMu.Unlock()

	if err := h.storage.SetDice(sides); err != nil {
		if errors.Is(err, storage.ErrInvalidDiceSet) {
			writeError(w, http.StatusBadRequest, "Invalid dice set", err.Error())
			return
		}
		writeInternalError(w, err)
		return
	}

	if err := h.rebuild(); err != nil {
		writeInternalError(w, err)
		return
	}

	stored, _, updatedAt, _ := h.snapshot()
	resp := diceResponse{
		Dice:      stored,
		Notation:  dice.FormatSet(stored),
		UpdatedAt: updatedAt,
		Message:   "Dice set updated successfully",
	}
	writeJSON(w, http.StatusOK, resp)
}

func (h *Handler) handleGetDistribution(w http.ResponseWriter, r *http.Request) {
	_ = r
	sides, dist, updatedAt, buildElapsed := h.snapshot()

	entries := make([]distributionEntry, 0, dist.Size())
	if !dist.Empty() {
		for sum := dist.MinSum(); sum <= dist.MaxSum(); sum++ {
			entries = append(entries, distributionEntry{
				Sum:         sum,
				Count:       dist.Count(sum).String(),
				Probability: dist.Probability(sum),
			})
		}
	}

	resp := distributionResponse{
		Dice:              sides,
		Notation:          dice.FormatSet(sides),
		MinSum:            dist.MinSum(),
		MaxSum:            dist.MaxSum(),
		TotalCombinations: dist.TotalCombinations().String(),
		Entries:           entries,
		BuildTimeMs:       buildElapsed.Milliseconds(),
		UpdatedAt:         updatedAt,
	}
	writeJSON(w, http.StatusOK, resp)
}

func (h *Handler) handleStats(w http.ResponseWriter, r *http.Request) {
	var req statsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request", "unable to parse JSON payload")
		return
	}
	if req.Target == nil {
		writeError(w, http.StatusBadRequest, "Invalid request", "target is required")
		return
	}

	_, dist, _, _ := h.snapshot()
	stats := dist.CumulativeStats(*req.Target)

	resp := statsResponse{
		Target:  *req.Target,
		AtLeast: stats.AtLeast,
		AtMost:  stats.AtMost,
		Exactly: stats.Exactly,
	}
	writeJSON(w, http.StatusOK, resp)
}

func (h *Handler) handleModifierImpact(w http.ResponseWriter, r *http.Request) {
	var req impactRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request", "unable to parse JSON payload")
		return
	}
	if req.Target == nil {
		writeError(w, http.StatusBadRequest, "Invalid request", "target is required")
		return
	}
	modifier := 0
	if req.Modifier != nil {
		modifier = *req.Modifier
	}

	_, dist, _, _ := h.snapshot()
	impact := dist.ModifierImpact(*req.Target, modifier)

	atEdge := !dist.Empty() &&
		(impact.NewTarget == dist.MinSum() || impact.NewTarget == dist.MaxSum())

	resp := impactResponse{
		Target:    *req.Target,
		Modifier:  modifier,
		NewTarget: impact.NewTarget,
		AtEdge:    atEdge,
		Impact: impactFigures{
			AtLeast: impact.Impact.AtLeast,
			AtMost:  impact.Impact.AtMost,
			Exactly: impact.Impact.Exactly,
		},
	}
	writeJSON(w, http.StatusOK, resp)
}

func (h *Handler) handleRoll(w http.ResponseWriter, r *http.Request) {
	var req rollRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil && !errors.Is(err, io.EOF) {
		writeError(w, http.StatusBadRequest, "Invalid request", "unable to parse JSON payload")
		return
	}

	sides, _, _, _ := h.snapshot()
	if len(sides) == 0 {
		suggestion := "Configure dice via PUT /api/dice before rolling"
		writeError(w, http.StatusUnprocessableEntity, "No dice configured", "the dice set is empty", suggestion)
		return
	}

	seed := h.clock().UnixNano()
	if req.Seed != nil {
		seed = *req.Seed
	}

	result, err := dice.Roll(sides, seed)
	if err != nil {
		writeInternalError(w, err)
		return
	}

	resp := rollResponse{
		Dice:     sides,
		Notation: dice.FormatSet(sides),
		Faces:    result.Faces,
		Total:    result.Total,
		Seed:     seed,
	}
	writeJSON(w, http.StatusOK, resp)
}

func requestIDFromContext(ctx context.Context) string {
	if v := ctx.Value(requestIDContextKey); v != nil {
		if id, ok := v.(string); ok {
			return id
		}
	}
	return ""
}

func copyInts(src []int) []int {
	out := make([]int, len(src))
	copy(out, src)
	return out
}

type diceRequest struct {
	Dice     []int  `json:"dice"`
	Notation string `json:"notation"`
}

type diceResponse struct {
	Dice      []int     `json:"dice"`
	Notation  string    `json:"notation"`
	UpdatedAt time.Time `json:"updatedAt"`
	Message   string    `json:"message,omitempty"`
}

type distributionEntry struct {
	Sum         int     `json:"sum"`
	Count       string  `json:"count"`
	Probability float64 `json:"probability"`
}

type distributionResponse struct {
	Dice              []int               `json:"dice"`
	Notation          string              `json:"notation"`
	MinSum            int                 `json:"minSum"`
	MaxSum            int                 `json:"maxSum"`
	TotalCombinations string              `json:"totalCombinations"`
	Entries           []distributionEntry `json:"entries"`
	BuildTimeMs       int64               `json:"buildTimeMs"`
	UpdatedAt         time.Time           `json:"updatedAt"`
}

type statsRequest struct {
	Target *int `json:"target"`
}

type statsResponse struct {
	Target  int     `json:"target"`
	AtLeast float64 `json:"atLeast"`
	AtMost  float64 `json:"atMost"`
	Exactly float64 `json:"exactly"`
}

type impactRequest struct {
	Target   *int `json:"target"`
	Modifier *int `json:"modifier"`
}

type impactFigures struct {
	AtLeast float64 `json:"atLeast"`
	AtMost  float64 `json:"atMost"`
	Exactly float64 `json:"exactly"`
}

type impactResponse struct {
	Target    int           `json:"target"`
	Modifier  int           `json:"modifier"`
	NewTarget int           `json:"newTarget"`
	AtEdge    bool          `json:"atEdge"`
	Impact    impactFigures `json:"impact"`
}

type rollRequest struct {
	Seed *int64 `json:"seed"`
}

type rollResponse struct {
	Dice     []int  `json:"dice"`
	Notation string `json:"notation"`
	Faces    []int  `json:"faces"`
	Total    int    `json:"total"`
	Seed     int64  `json:"seed"`
}

type healthResponse struct {
	Status    string    `json:"status"`
	Timestamp time.Time `json:"timestamp"`
}

type errorResponse struct {
	Error      string `json:"error"`
	Details    string `json:"details,omitempty"`
	Suggestion string `json:"suggestion,omitempty"`
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	if status != 0 {
		w.WriteHeader(status)
	}
	_ = json.NewEncoder(w).Encode(payload)
}

func writeError(w http.ResponseWriter, status int, message, details string, suggestion ...string) {
	resp := errorResponse{
		Error:   message,
		Details: details,
	}
	if len(suggestion) > 0 {
		resp.Suggestion = suggestion[0]
	}
	writeJSON(w, status, resp)
}

func writeInternalError(w http.ResponseWriter, err error) {
	writeError(w, http.StatusInternalServerError, "Internal error", err.Error())
}
