package main

//go:generate swag init -g cmd/server/main.go -o docs

// @title           Bot Admin API
// @version         1.0.0
// @description     Lifecycle management and inspection for trading-bot processes.
// @host            localhost:5000
// @BasePath        /
// @schemes         http
