package main

import (
	"flag"
	"fmt"
	"log"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/joho/godotenv"

	"docgate/config"
	"docgate/tui"
)

func main() {
	_ = godotenv.Load()

	apiURL := flag.String("api-url", "", "docgate API URL (overrides DOCGATE_API_URL env var)")
	documentID := flag.String("doc", "", "Document id to track")
	flag.Parse()

	if *documentID == "" {
		flag.Usage()
		log.Fatal("--doc is required")
	}

	url := *apiURL
	if url == "" {
		url = config.EnvOrDefault("DOCGATE_API_URL", "http://localhost:8080")
	}

	p := tea.NewProgram(tui.NewModel(url, *documentID))
	if _, err := p.Run(); err != nil {
		fmt.Printf("Error running tracker: %v\n", err)
		os.Exit(1)
	}
}
