package bots

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// stateFile is the bot-owned JSON state document. The format belongs to the
// bot programs; this service only reads it.
type stateFile struct {
	Position         float64         `json:"position"`
	EntryPrice       decimal.Decimal `json:"entry_price"`
	CurrentPrice     decimal.Decimal `json:"current_price"`
	EntryTime        string          `json:"entry_time"`
	PositionID       string          `json:"position_id"`
	PositionSize     decimal.Decimal `json:"position_size"`
	PositionAmount   decimal.Decimal `json:"position_amount"`
	CurrentProfitPct decimal.Decimal `json:"current_profit_pct"`
	CurrentProfitUSD decimal.Decimal `json:"current_profit_usdt"`
	StopLoss         decimal.Decimal `json:"stop_loss"`
	TakeProfit       decimal.Decimal `json:"take_profit"`
	Symbol           string          `json:"symbol"`
	Trades           []stateTrade    `json:"trades"`
}

// Positions returns the bot's open position, if any. A missing or malformed
// state file, or a reported size <= 0, yields an empty list rather than an
// error: read paths prefer partial results over hard failure.
func (o *Orchestrator) Positions(id string) ([]Position, error) {
	def, ok := o.registry.Get(id)
	if !ok {
		return nil, ErrNotFound
	}

	state, ok := o.readState(def)
	if !ok || state.Position <= 0 {
		return []Position{}, nil
	}

	now := o.now()
	position := Position{
		ID:           state.PositionID,
		Symbol:       state.Symbol,
		Type:         "LONG",
		EntryPrice:   state.EntryPrice,
		CurrentPrice: state.CurrentPrice,
		Quantity:     state.PositionSize,
		ValueUSDT:    state.PositionAmount,
		ProfitPct:    state.CurrentProfitPct,
		ProfitUSDT:   state.CurrentProfitUSD,
		EntryTime:    state.EntryTime,
		Duration:     o.positionDuration(def.ID, state.EntryTime, now),
		StopLoss:     state.StopLoss,
		TakeProfit:   state.TakeProfit,
		Status:       "active",
	}
	if position.ID == "" {
		position.ID = fmt.Sprintf("pos_%s_%d", def.ID, now.Unix())
	}

	return []Position{position}, nil
}

func (o *Orchestrator) readState(def Definition) (stateFile, bool) {
	path := filepath.Join(def.Path, def.stateFileName())
	raw, err := os.ReadFile(path)
	if err != nil {
		if !os.IsNotExist(err) {
			o.logger.Warn("state file unreadable", zap.String("bot_id", def.ID), zap.Error(err))
		}
		return stateFile{}, false
	}
	var state stateFile
	if err := json.Unmarshal(raw, &state); err != nil {
		o.logger.Warn("state file malformed", zap.String("bot_id", def.ID), zap.Error(err))
		return stateFile{}, false
	}
	return state, true
}

func (o *Orchestrator) positionDuration(botID, entryTime string, now time.Time) string {
	entry, err := parseEntryTime(entryTime)
	if err != nil {
		o.logger.Warn("unparsable entry time",
			zap.String("bot_id", botID),
			zap.String("entry_time", entryTime),
		)
		return "00:00:00"
	}
	return formatDuration(now.Sub(entry))
}

func parseEntryTime(value string) (time.Time, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		return time.Time{}, fmt.Errorf("empty entry time")
	}
	for _, layout := range []string{time.RFC3339Nano, time.RFC3339, "2006-01-02T15:04:05", "2006-01-02 15:04:05"} {
		if t, err := time.Parse(layout, value); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("unrecognized entry time %q", value)
}

// formatDuration renders a duration as zero-padded HH:MM:SS. Hours keep
// counting past 24 instead of rolling into days.
func formatDuration(d time.Duration) string {
	if d < 0 {
		d = 0
	}
	total := int(d.Seconds())
	return fmt.Sprintf("%02d:%02d:%02d", total/3600, (total%3600)/60, total%60)
}
