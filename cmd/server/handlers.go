package main

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"brokee-go/internal/avatar"
	"brokee-go/internal/chat"
	"brokee-go/internal/courses"
	"brokee-go/internal/gamification"
	"brokee-go/internal/market"
	"brokee-go/internal/portfolio"
	"brokee-go/internal/trading"
	"go.uber.org/zap"
)

// APIHandler holds dependencies for the API endpoints.
type APIHandler struct {
	log          *zap.Logger
	feed         *market.Feed
	engine       *trading.Engine
	ledger       *portfolio.Ledger
	gamification *gamification.Service
	courses      *courses.Service
	avatar       *avatar.Service
	chat         chat.ClientInterface
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(payload)
}

func writeError(w http.ResponseWriter, status int, err error) {
	writeJSON(w, status, map[string]string{"error": err.Error()})
}

// HealthHandler reports liveness.
func (h *APIHandler) HealthHandler(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// MarketHandler returns the current instrument snapshot.
func (h *APIHandler) MarketHandler(w http.ResponseWriter, r *http.Request) {
	instruments, err := h.feed.Instruments()
	if err != nil {
		h.log.Error("Failed to load instruments", zap.Error(err))
		http.Error(w, "Failed to load market data", http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, instruments)
}

// OrdersHandler places a buy/sell order.
func (h *APIHandler) OrdersHandler(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	var req trading.OrderRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, errors.New("invalid payload"))
		return
	}

	tx, err := h.engine.PlaceOrder(req)
	if err != nil {
		switch {
		case errors.Is(err, trading.ErrInvalidQuantity),
			errors.Is(err, trading.ErrInvalidLimitPrice),
			errors.Is(err, trading.ErrUnknownSymbol),
			errors.Is(err, trading.ErrInsufficientFunds),
			errors.Is(err, trading.ErrInsufficientShares):
			writeError(w, http.StatusBadRequest, err)
		default:
			h.log.Error("Order execution failed", zap.Error(err))
			http.Error(w, "Failed to execute order", http.StatusInternalServerError)
		}
		return
	}

	balance, err := h.engine.Balance()
	if err != nil {
		h.log.Error("Failed to load balance", zap.Error(err))
		http.Error(w, "Failed to load balance", http.StatusInternalServerError)
		return
	}

	writeJSON(w, http.StatusCreated, map[string]any{
		"transaction": tx,
		"balance":     balance,
	})
}

// PortfolioHandler returns holdings, aggregate valuation and cash balance.
func (h *APIHandler) PortfolioHandler(w http.ResponseWriter, r *http.Request) {
	positions, err := h.ledger.Positions()
	if err != nil {
		h.log.Error("Failed to load positions", zap.Error(err))
		http.Error(w, "Failed to load portfolio", http.StatusInternalServerError)
		return
	}
	summary, err := h.ledger.Summarize()
	if err != nil {
		h.log.Error("Failed to summarize portfolio", zap.Error(err))
		http.Error(w, "Failed to load portfolio", http.StatusInternalServerError)
		return
	}
	balance, err := h.engine.Balance()
	if err != nil {
		h.log.Error("Failed to load balance", zap.Error(err))
		http.Error(w, "Failed to load portfolio", http.StatusInternalServerError)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"positions": positions,
		"summary":   summary,
		"balance":   balance,
	})
}

// TransactionsHandler returns all historical trades, newest first.
func (h *APIHandler) TransactionsHandler(w http.ResponseWriter, r *http.Request) {
	transactions, err := h.engine.Transactions()
	if err != nil {
		h.log.Error("Failed to load transactions", zap.Error(err))
		http.Error(w, "Failed to load transactions", http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, transactions)
}

// GamificationHandler returns points, counters, streak and badges.
func (h *APIHandler) GamificationHandler(w http.ResponseWriter, r *http.Request) {
	state, err := h.gamification.CurrentState()
	if err != nil {
		h.log.Error("Failed to load gamification state", zap.Error(err))
		http.Error(w, "Failed to load gamification state", http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, state)
}

// VisitsHandler records a daily visit and returns the streak state.
func (h *APIHandler) VisitsHandler(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}
	streak, err := h.gamification.RecordVisit(time.Now())
	if err != nil {
		h.log.Error("Failed to record visit", zap.Error(err))
		http.Error(w, "Failed to record visit", http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, streak)
}

// CoursesHandler returns the catalog and the learner's progress.
func (h *APIHandler) CoursesHandler(w http.ResponseWriter, r *http.Request) {
	progress, err := h.courses.CurrentProgress()
	if err != nil {
		h.log.Error("Failed to load course progress", zap.Error(err))
		http.Error(w, "Failed to load courses", http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"tracks":   courses.Catalog,
		"progress": progress,
	})
}

// CompleteCourseHandler marks one course module as completed.
func (h *APIHandler) CompleteCourseHandler(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	var req struct {
		ModuleID int `json:"moduleId"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, errors.New("invalid payload"))
		return
	}

	progress, err := h.courses.CompleteModule(req.ModuleID)
	if err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}
	writeJSON(w, http.StatusOK, progress)
}

// AvatarHandler reads or upserts the avatar config.
func (h *APIHandler) AvatarHandler(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		writeJSON(w, http.StatusOK, h.avatar.CurrentSnapshot())
	case http.MethodPost:
		var req avatar.SaveRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, errors.New("invalid payload"))
			return
		}
		snapshot, err := h.avatar.Save(req)
		if err != nil {
			writeError(w, http.StatusBadRequest, err)
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{
			"success":          true,
			"avatarConfig":     snapshot.AvatarConfig,
			"selectedOutfitId": snapshot.SelectedOutfitID,
			"savedAt":          snapshot.SavedAt,
		})
	default:
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
	}
}

// OutfitsHandler returns the cosmetic catalog.
func (h *APIHandler) OutfitsHandler(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{"outfits": h.avatar.Outfits()})
}

// ChatHandler proxies the conversation to the chat-completion API. Failures
// come back as a displayed error message; the user may simply retry.
func (h *APIHandler) ChatHandler(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	var req struct {
		Messages []chat.Message `json:"messages"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, errors.New("invalid payload"))
		return
	}

	reply, err := h.chat.Complete(r.Context(), req.Messages)
	if err != nil {
		if errors.Is(err, chat.ErrNotConfigured) {
			writeError(w, http.StatusInternalServerError, err)
			return
		}
		h.log.Error("Chat completion failed", zap.Error(err))
		writeError(w, http.StatusBadGateway, errors.New("failed to get response from assistant"))
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"message": reply})
}
