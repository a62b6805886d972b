package api

import (
	"errors"
	"io"
	"net/http"
	"strconv"

	"github.com/ethereum/go-ethereum/common"
	"github.com/gin-gonic/gin"
	"github.com/holiman/uint256"

	"raffle/internal/raffle"
	"raffle/internal/storage"
)

// Handler exposes the raffle's public operations over HTTP. Fulfill is
// deliberately absent: only the oracle callback path may invoke it.
type Handler struct {
	engine *raffle.Engine
	store  storage.Storage
}

func NewHandler(engine *raffle.Engine, store storage.Storage) *Handler {
	return &Handler{engine: engine, store: store}
}

func SetupRoutes(handler *Handler) *gin.Engine {
	r := gin.Default()

	raffleGroup := r.Group("/raffle")
	{
		raffleGroup.POST("/enter", handler.Enter)
		raffleGroup.GET("/eligibility", handler.Eligibility)
		raffleGroup.POST("/draw", handler.StartDraw)
		raffleGroup.GET("/state", handler.State)
		raffleGroup.GET("/entrants/:index", handler.Entrant)
		raffleGroup.GET("/events", handler.StreamEvents)
	}

	rounds := r.Group("/rounds")
	{
		rounds.GET("/recent", handler.RecentRounds)
		rounds.GET("/:round", handler.Round)
		rounds.GET("/:round/entries", handler.RoundEntries)
	}

	return r
}

func (h *Handler) Enter(c *gin.Context) {
	var payload struct {
		Player    string `json:"player"`
		AmountWei string `json:"amountWei"`
	}
	if err := c.ShouldBindJSON(&payload); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid body"})
		return
	}
	if !common.IsHexAddress(payload.Player) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid player address"})
		return
	}

	amount, err := uint256.FromDecimal(payload.AmountWei)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid amount"})
		return
	}

	if err := h.engine.Enter(common.HexToAddress(payload.Player), amount); err != nil {
		status := http.StatusInternalServerError
		if errors.Is(err, raffle.ErrInsufficientPayment) {
			status = http.StatusPaymentRequired
		} else if errors.Is(err, raffle.ErrRaffleNotOpen) {
			status = http.StatusConflict
		}
		c.JSON(status, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"entrants": h.engine.NumEntrants()})
}

func (h *Handler) Eligibility(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"eligible": h.engine.CheckEligibility()})
}

func (h *Handler) StartDraw(c *gin.Context) {
	requestID, err := h.engine.StartDraw(c.Request.Context())
	if err != nil {
		var notNeeded *raffle.UpkeepNotNeededError
		if errors.As(err, &notNeeded) {
			c.JSON(http.StatusConflict, gin.H{
				"error":        "upkeep not needed",
				"balanceWei":   notNeeded.Balance.Dec(),
				"entrantCount": notNeeded.EntrantCount,
				"state":        notNeeded.State.String(),
			})
			return
		}
		c.JSON(http.StatusBadGateway, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"requestId": requestID})
}

func (h *Handler) State(c *gin.Context) {
	response := gin.H{
		"state":             h.engine.CurrentState().String(),
		"entryFeeWei":       h.engine.EntryFee().Dec(),
		"intervalSeconds":   int64(h.engine.Interval().Seconds()),
		"entrants":          h.engine.NumEntrants(),
		"balanceWei":        h.engine.Balance().Dec(),
		"lastDrawTimestamp": h.engine.LastDrawTimestamp().Unix(),
		"round":             h.engine.Round(),
		"subscriptionId":    h.engine.SubscriptionID(),
	}
	if winner, ok := h.engine.RecentWinner(); ok {
		response["recentWinner"] = winner.Hex()
	}
	c.JSON(http.StatusOK, response)
}

func (h *Handler) Entrant(c *gin.Context) {
	index, err := strconv.Atoi(c.Param("index"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid index"})
		return
	}

	player, err := h.engine.Entrant(index)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"player": player.Hex()})
}

func (h *Handler) StreamEvents(c *gin.Context) {
	sub := h.engine.Subscribe()
	defer h.engine.Unsubscribe(sub)

	c.Stream(func(w io.Writer) bool {
		select {
		case event, ok := <-sub.Chan():
			if !ok {
				return false
			}
			c.SSEvent(string(event.Type), event)
			return true
		case <-c.Request.Context().Done():
			return false
		}
	})
}

func (h *Handler) RecentRounds(c *gin.Context) {
	limit := 10
	if raw := c.Query("limit"); raw != "" {
		if parsed, err := strconv.Atoi(raw); err == nil && parsed > 0 {
			limit = parsed
		}
	}

	records, err := h.store.GetRecentRounds(limit)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, records)
}

func (h *Handler) Round(c *gin.Context) {
	round, err := strconv.ParseUint(c.Param("round"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid round"})
		return
	}

	record, err := h.store.GetRound(round)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "round not found"})
		return
	}

	c.JSON(http.StatusOK, record)
}

func (h *Handler) RoundEntries(c *gin.Context) {
	round, err := strconv.ParseUint(c.Param("round"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid round"})
		return
	}

	entries, err := h.store.GetEntries(round)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, entries)
}
