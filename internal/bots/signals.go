package bots

import (
	"bufio"
	"encoding/json"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strings"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

const maxSignals = 10

// signalProvider is one tier of the signal fallback chain. A provider
// returns a nil or empty slice when it has nothing; errors are treated the
// same way by the caller and never surface to the request.
type signalProvider interface {
	name() string
	fetch(def Definition) ([]Signal, error)
}

// Signals returns the bot's most recent signals, newest first, capped at 10.
// Providers are tried in declared order: the dedicated signals file, then
// trades recorded in the state file, then a scan of the newest log file.
func (o *Orchestrator) Signals(id string) ([]Signal, error) {
	def, ok := o.registry.Get(id)
	if !ok {
		return nil, ErrNotFound
	}

	providers := []signalProvider{
		signalsFileProvider{},
		stateTradesProvider{},
		logScanProvider{},
	}

	var signals []Signal
	for _, p := range providers {
		found, err := p.fetch(def)
		if err != nil {
			o.logger.Debug("signal provider failed",
				zap.String("bot_id", def.ID),
				zap.String("provider", p.name()),
				zap.Error(err),
			)
			continue
		}
		if len(found) > 0 {
			signals = found
			break
		}
	}
	if signals == nil {
		signals = []Signal{}
	}

	sort.SliceStable(signals, func(i, j int) bool {
		return signals[i].Timestamp > signals[j].Timestamp
	})
	if len(signals) > maxSignals {
		signals = signals[:maxSignals]
	}
	return signals, nil
}

// signalsFileProvider reads the bot's dedicated signals file verbatim.
type signalsFileProvider struct{}

func (signalsFileProvider) name() string { return "signals_file" }

func (signalsFileProvider) fetch(def Definition) ([]Signal, error) {
	raw, err := os.ReadFile(filepath.Join(def.Path, def.signalsFileName()))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, err
	}
	var signals []Signal
	if err := json.Unmarshal(raw, &signals); err != nil {
		return nil, err
	}
	return signals, nil
}

// stateTrade is a trade record inside the bot's state file.
type stateTrade struct {
	Type       string          `json:"type"` // LONG or SHORT
	EntryPrice decimal.Decimal `json:"entry_price"`
	Timestamp  string          `json:"timestamp"`
	EntryTime  string          `json:"entry_time"`
	Strength   *float64        `json:"strength"`
	Prediction *float64        `json:"prediction"`
	Executed   bool            `json:"executed"`
}

// stateTradesProvider maps the trades array of the state file to signals.
type stateTradesProvider struct{}

func (stateTradesProvider) name() string { return "state_trades" }

func (stateTradesProvider) fetch(def Definition) ([]Signal, error) {
	raw, err := os.ReadFile(filepath.Join(def.Path, def.stateFileName()))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, err
	}
	var state stateFile
	if err := json.Unmarshal(raw, &state); err != nil {
		return nil, err
	}

	signals := make([]Signal, 0, len(state.Trades))
	for _, trade := range state.Trades {
		signal := Signal{
			Timestamp:  trade.Timestamp,
			Type:       "BUY",
			Price:      trade.EntryPrice,
			Strength:   0.5,
			Prediction: 0.5,
			Executed:   trade.Executed,
		}
		if signal.Timestamp == "" {
			signal.Timestamp = trade.EntryTime
		}
		if strings.EqualFold(trade.Type, "SHORT") {
			signal.Type = "SELL"
		}
		if trade.Strength != nil {
			signal.Strength = *trade.Strength
		}
		if trade.Prediction != nil {
			signal.Prediction = *trade.Prediction
		}
		signals = append(signals, signal)
	}
	return signals, nil
}

// logScanProvider is the last resort: scan the newest log file for signal
// markers. Free-text logs cannot reliably yield price or model scores, so
// those stay at neutral placeholders.
type logScanProvider struct{}

func (logScanProvider) name() string { return "log_scan" }

var logTimestampRe = regexp.MustCompile(`\[([^\]]+)\]`)

func (logScanProvider) fetch(def Definition) ([]Signal, error) {
	logPath, err := newestLogFile(filepath.Join(def.Path, "logs"))
	if err != nil || logPath == "" {
		return nil, err
	}

	f, err := os.Open(logPath)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	var signals []Signal
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := scanner.Text()
		if !strings.Contains(line, "SIGNAL") {
			continue
		}
		upper := strings.ToUpper(line)
		var typ string
		switch {
		case strings.Contains(upper, "BUY"):
			typ = "BUY"
		case strings.Contains(upper, "SELL"):
			typ = "SELL"
		default:
			continue
		}
		var ts string
		if m := logTimestampRe.FindStringSubmatch(line); m != nil {
			ts = m[1]
		}
		signals = append(signals, Signal{
			Timestamp:  ts,
			Type:       typ,
			Price:      decimal.Zero,
			Strength:   0.5,
			Prediction: 0.5,
		})
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}
	return signals, nil
}

func newestLogFile(dir string) (string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return "", nil
		}
		return "", err
	}

	var newest string
	var newestMod int64
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".log") {
			continue
		}
		info, err := entry.Info()
		if err != nil {
			continue
		}
		if mod := info.ModTime().UnixNano(); newest == "" || mod > newestMod {
			newest = filepath.Join(dir, entry.Name())
			newestMod = mod
		}
	}
	return newest, nil
}
