package bots

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"testing"
	"time"

	"go.uber.org/zap"
)

func signalsOrchestrator(t *testing.T, def Definition) *Orchestrator {
	t.Helper()
	return New(NewRegistry(def), &fakeRunner{}, &fakeInspector{}, time.Minute, zap.NewNop())
}

func TestSignalsNoSourcesYieldsEmptyList(t *testing.T) {
	def := Definition{ID: "x", Path: t.TempDir()}
	o := signalsOrchestrator(t, def)

	signals, err := o.Signals("x")
	if err != nil {
		t.Fatalf("err=%v", err)
	}
	if signals == nil || len(signals) != 0 {
		t.Fatalf("signals=%v want empty non-nil", signals)
	}
}

func TestSignalsFileTakesPrecedence(t *testing.T) {
	dir := t.TempDir()
	def := Definition{ID: "x", Path: dir}
	writeStateFile(t, dir, "x_signals.json", `[
		{"timestamp": "2026-08-30T10:00:00Z", "type": "BUY", "price": "150.5", "strength": 0.8, "prediction": 0.9, "executed": true}
	]`)
	writeStateFile(t, dir, "x_state.json", `{"position": 0, "trades": [
		{"type": "SHORT", "entry_price": 1.0, "timestamp": "2026-08-30T09:00:00Z"}
	]}`)
	o := signalsOrchestrator(t, def)

	signals, err := o.Signals("x")
	if err != nil {
		t.Fatalf("err=%v", err)
	}
	if len(signals) != 1 {
		t.Fatalf("len=%d want 1", len(signals))
	}
	if signals[0].Type != "BUY" || signals[0].Strength != 0.8 || !signals[0].Executed {
		t.Fatalf("signal=%+v", signals[0])
	}
}

func TestSignalsFallsBackToStateTrades(t *testing.T) {
	dir := t.TempDir()
	def := Definition{ID: "x", Path: dir}
	writeStateFile(t, dir, "x_state.json", `{"position": 0, "trades": [
		{"type": "LONG", "entry_price": 150.5, "timestamp": "2026-08-30T09:00:00Z", "executed": true},
		{"type": "SHORT", "entry_price": 152.0, "timestamp": "2026-08-30T11:00:00Z", "strength": 0.7, "prediction": 0.65}
	]}`)
	o := signalsOrchestrator(t, def)

	signals, err := o.Signals("x")
	if err != nil {
		t.Fatalf("err=%v", err)
	}
	if len(signals) != 2 {
		t.Fatalf("len=%d want 2", len(signals))
	}
	// Newest first.
	if signals[0].Type != "SELL" || signals[1].Type != "BUY" {
		t.Fatalf("types=%s,%s want SELL,BUY", signals[0].Type, signals[1].Type)
	}
	if signals[0].Strength != 0.7 || signals[0].Prediction != 0.65 {
		t.Fatalf("recorded fields not mapped: %+v", signals[0])
	}
	if signals[1].Strength != 0.5 || signals[1].Prediction != 0.5 {
		t.Fatalf("defaults not applied: %+v", signals[1])
	}
	if !signals[1].Executed {
		t.Fatalf("executed flag lost: %+v", signals[1])
	}
}

func TestSignalsEmptySignalsFileFallsThrough(t *testing.T) {
	dir := t.TempDir()
	def := Definition{ID: "x", Path: dir}
	writeStateFile(t, dir, "x_signals.json", `[]`)
	writeStateFile(t, dir, "x_state.json", `{"trades": [
		{"type": "LONG", "entry_price": 150.5, "entry_time": "2026-08-30T09:00:00Z"}
	]}`)
	o := signalsOrchestrator(t, def)

	signals, err := o.Signals("x")
	if err != nil {
		t.Fatalf("err=%v", err)
	}
	if len(signals) != 1 || signals[0].Type != "BUY" {
		t.Fatalf("signals=%+v want one BUY from trades", signals)
	}
	if signals[0].Timestamp != "2026-08-30T09:00:00Z" {
		t.Fatalf("timestamp=%q want entry_time fallback", signals[0].Timestamp)
	}
}

func TestSignalsMalformedSignalsFileFallsThrough(t *testing.T) {
	dir := t.TempDir()
	def := Definition{ID: "x", Path: dir}
	writeStateFile(t, dir, "x_signals.json", `{broken`)
	writeStateFile(t, dir, "x_state.json", `{"trades": [
		{"type": "SHORT", "entry_price": 10.0, "timestamp": "2026-08-30T09:00:00Z"}
	]}`)
	o := signalsOrchestrator(t, def)

	signals, err := o.Signals("x")
	if err != nil {
		t.Fatalf("err=%v", err)
	}
	if len(signals) != 1 || signals[0].Type != "SELL" {
		t.Fatalf("signals=%+v want one SELL from trades", signals)
	}
}

func TestSignalsLogScanLastResort(t *testing.T) {
	dir := t.TempDir()
	def := Definition{ID: "x", Path: dir}
	logDir := filepath.Join(dir, "logs")
	if err := os.MkdirAll(logDir, 0o755); err != nil {
		t.Fatalf("mkdir logs: %v", err)
	}
	lines := "[2026-08-30 09:00:00] INFO starting up\n" +
		"[2026-08-30 09:15:00] SIGNAL detected: BUY at market\n" +
		"[2026-08-30 09:30:00] SIGNAL detected: SELL momentum fading\n" +
		"[2026-08-30 09:45:00] SIGNAL strength recalibrated\n"
	if err := os.WriteFile(filepath.Join(logDir, "bot.log"), []byte(lines), 0o644); err != nil {
		t.Fatalf("write log: %v", err)
	}
	o := signalsOrchestrator(t, def)

	signals, err := o.Signals("x")
	if err != nil {
		t.Fatalf("err=%v", err)
	}
	if len(signals) != 2 {
		t.Fatalf("len=%d want 2 (non BUY/SELL lines skipped)", len(signals))
	}
	if signals[0].Type != "SELL" || signals[0].Timestamp != "2026-08-30 09:30:00" {
		t.Fatalf("first=%+v want newest SELL", signals[0])
	}
	if signals[1].Strength != 0.5 || signals[1].Prediction != 0.5 {
		t.Fatalf("log signals must carry neutral placeholders: %+v", signals[1])
	}
}

func TestSignalsCappedAtTenNewestFirst(t *testing.T) {
	dir := t.TempDir()
	def := Definition{ID: "x", Path: dir}

	var raw []Signal
	for i := 0; i < 15; i++ {
		raw = append(raw, Signal{
			Timestamp: fmt.Sprintf("2026-08-30T%02d:00:00Z", i),
			Type:      "BUY",
		})
	}
	encoded, err := json.Marshal(raw)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	writeStateFile(t, dir, "x_signals.json", string(encoded))
	o := signalsOrchestrator(t, def)

	signals, err := o.Signals("x")
	if err != nil {
		t.Fatalf("err=%v", err)
	}
	if len(signals) != 10 {
		t.Fatalf("len=%d want 10", len(signals))
	}
	if signals[0].Timestamp != "2026-08-30T14:00:00Z" {
		t.Fatalf("first=%q want newest", signals[0].Timestamp)
	}
	if signals[9].Timestamp != "2026-08-30T05:00:00Z" {
		t.Fatalf("last=%q want tenth newest", signals[9].Timestamp)
	}
}
