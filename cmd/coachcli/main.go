package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/programme-lv/cfcoach/catalog"
	"github.com/programme-lv/cfcoach/cfapi"
	"github.com/programme-lv/cfcoach/coachsrvc"
	"github.com/programme-lv/cfcoach/conf"
	"github.com/programme-lv/cfcoach/recommend"
)

func main() {
	handle := flag.String("handle", "", "Codeforces handle; prompted for when empty")
	flag.Parse()

	cfg, err := conf.Load()
	if err != nil {
		fmt.Printf("Error: %v\n", err)
		os.Exit(1)
	}

	// the TUI owns the terminal
	slog.SetDefault(slog.New(slog.NewTextHandler(io.Discard, nil)))

	cf := cfapi.NewBreakerClient(newCodeforcesClient(cfg))
	problems := catalog.NewCache(cf, cfg.CatalogTTL())
	srvc := coachsrvc.NewCoachSrvc(cf, recommend.NewSelector(problems, cfg.CfProblemURL))

	p := tea.NewProgram(initialModel(context.Background(), srvc, *handle))
	if _, err := p.Run(); err != nil {
		fmt.Printf("Error: %v\n", err)
		os.Exit(1)
	}
}

func newCodeforcesClient(cfg *conf.Config) *cfapi.Client {
	return cfapi.NewClient(cfg.CfApiURL,
		cfapi.WithHTTPClient(&http.Client{Timeout: cfg.CfRequestTimeout()}),
		cfapi.WithMinInterval(cfg.CfMinInterval()),
	)
}
