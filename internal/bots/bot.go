package bots

import (
	"time"

	"github.com/shopspring/decimal"
)

// Status is the runtime state of a bot process. It is derived fresh from
// process inspection on every query and never stored.
type Status string

const (
	StatusActive   Status = "active"
	StatusInactive Status = "inactive"
	StatusError    Status = "error"
	StatusUnknown  Status = "unknown"
)

// Definition describes one managed bot. Loaded from the registry file at
// startup and immutable afterwards.
type Definition struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Symbol      string `json:"symbol"`
	Interval    string `json:"interval"`
	Path        string `json:"path"`
	StartScript string `json:"start_script"`
	StopScript  string `json:"stop_script"`

	// Entrypoint is the process name the bot runs under, used for status
	// derivation. Defaults to adaptive_main.py.
	Entrypoint string `json:"entrypoint,omitempty"`
	// StateFile overrides the name of the bot-owned state file inside Path.
	StateFile string `json:"state_file,omitempty"`
	// SignalsFile overrides the name of the bot-owned signals file inside Path.
	SignalsFile string `json:"signals_file,omitempty"`
}

const defaultEntrypoint = "adaptive_main.py"

// ProcessSignature identifies the bot's OS processes: the entry point plus
// the bot id, so two bots sharing an entrypoint are counted separately.
func (d Definition) ProcessSignature() string {
	ep := d.Entrypoint
	if ep == "" {
		ep = defaultEntrypoint
	}
	return ep + " " + d.ID
}

func (d Definition) stateFileName() string {
	if d.StateFile != "" {
		return d.StateFile
	}
	return d.ID + "_state.json"
}

func (d Definition) signalsFileName() string {
	if d.SignalsFile != "" {
		return d.SignalsFile
	}
	return d.ID + "_signals.json"
}

// Summary is the list view of a bot: definition basics plus derived status.
type Summary struct {
	ID         string    `json:"id"`
	Name       string    `json:"name"`
	Symbol     string    `json:"symbol"`
	Interval   string    `json:"interval"`
	Status     Status    `json:"status"`
	LastUpdate time.Time `json:"last_update"`
}

// Detail extends Summary with account metrics. The metrics are placeholders
// until bots report them; values mirror what the bots' own dashboards show
// for a fresh account.
type Detail struct {
	Summary
	Balance     float64 `json:"balance"`
	ProfitToday float64 `json:"profit_today"`
	ProfitTotal float64 `json:"profit_total"`
	TradesToday int     `json:"trades_today"`
	TradesTotal int     `json:"trades_total"`
	WinRate     float64 `json:"win_rate"`
}

// Position is the single open position a bot reports through its state file.
type Position struct {
	ID           string          `json:"id"`
	Symbol       string          `json:"symbol"`
	Type         string          `json:"type"` // LONG or SHORT
	EntryPrice   decimal.Decimal `json:"entry_price"`
	CurrentPrice decimal.Decimal `json:"current_price"`
	Quantity     decimal.Decimal `json:"quantity"`
	ValueUSDT    decimal.Decimal `json:"value_usdt"`
	ProfitPct    decimal.Decimal `json:"profit_loss"`
	ProfitUSDT   decimal.Decimal `json:"profit_loss_usdt"`
	EntryTime    string          `json:"entry_time"`
	Duration     string          `json:"duration"` // HH:MM:SS since entry
	StopLoss     decimal.Decimal `json:"stop_loss"`
	TakeProfit   decimal.Decimal `json:"take_profit"`
	Status       string          `json:"status"`
}

// Signal is a trading decision event reported by a bot.
type Signal struct {
	Timestamp  string             `json:"timestamp"`
	Type       string             `json:"type"` // BUY or SELL
	Price      decimal.Decimal    `json:"price"`
	Strength   float64            `json:"strength"`
	Indicators map[string]float64 `json:"indicators,omitempty"`
	Prediction float64            `json:"prediction"`
	Executed   bool               `json:"executed"`
}
