// Command-line interface for running scrape queries without the API server
package main

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	"scout/scout/agents/configs"
	"scout/scout/agents/core"
	"scout/scout/config"
	"scout/scout/services/llm"
	"scout/scout/services/scraper"
	"scout/scout/utils/color"
	"scout/scout/utils/jsonutils"
	"scout/scout/utils/logging"

	"go.uber.org/zap"
)

const queryTimeout = 3 * time.Minute

func main() {
	cfg := config.LoadConfig()
	logging.InitLogger(cfg.LogDir)
	defer logging.Sync()
	color.DisableColorIfNotTTY()

	args := os.Args[1:]
	if len(args) == 0 || (args[0] != "query" && args[0] != "connect") {
		usage()
		os.Exit(1)
	}
	if args[0] == "query" && len(args) < 2 {
		usage()
		os.Exit(1)
	}

	agent, renderer, err := setup(cfg)
	if err != nil {
		fmt.Fprintln(os.Stderr, color.ColorError("Setup failed: "+err.Error()))
		os.Exit(1)
	}
	defer renderer.Close()

	if args[0] == "query" {
		if !runQuery(agent, strings.Join(args[1:], " ")) {
			renderer.Close()
			os.Exit(1)
		}
		return
	}

	fmt.Println(color.ColorPrompt("scout is ready. Type a query or 'exit' to quit."))
	scanner := bufio.NewScanner(os.Stdin)
	for {
		fmt.Print(color.ColorPrompt("scout> "))
		if !scanner.Scan() {
			break
		}
		line := strings.TrimSpace(scanner.Text())
		if line == "exit" || line == "quit" {
			break
		}
		if line == "" {
			continue
		}
		runQuery(agent, line)
	}
}

func usage() {
	fmt.Println("scout CLI usage:")
	fmt.Println("  scout query <text>   # run one query and print the records")
	fmt.Println("  scout connect        # interactive prompt")
}

func setup(cfg config.Config) (*core.Agent, *scraper.Chain, error) {
	if err := cfg.Validate(); err != nil {
		return nil, nil, err
	}
	model, err := llm.New(cfg.LLM)
	if err != nil {
		return nil, nil, err
	}
	agentCfg, err := configs.LoadConfig()
	if err != nil {
		return nil, nil, err
	}
	renderer, err := scraper.NewFromConfig(cfg.Render)
	if err != nil {
		return nil, nil, err
	}
	return core.NewAgent(model, renderer, agentCfg, jsonutils.ParseScanMode(cfg.JSONScanMode)), renderer, nil
}

func runQuery(agent *core.Agent, query string) bool {
	ctx, cancel := context.WithTimeout(context.Background(), queryTimeout)
	defer cancel()

	res, err := agent.Run(ctx, query, func(s core.Step) {
		fmt.Println(color.ColorStage(fmt.Sprintf("[%s] %s", s.Stage, stepDetail(s))))
	})
	if err != nil {
		logging.ErrorLogger.Error("CLI query failed", zap.String("query", query), zap.Error(err))
		fmt.Println(color.ColorFinalFail("Scraping failed: " + err.Error()))
		return false
	}

	for i, r := range res.Records {
		fmt.Printf("%2d. %s\n", i+1, color.ColorTitle(orDash(r.Title)))
		if r.Link != "" {
			fmt.Printf("    %s\n", color.ColorLink(r.Link))
		}
		if r.Summary != "" {
			fmt.Printf("    %s\n", core.Truncate(r.Summary, 160))
		}
		if r.Date != "" {
			fmt.Printf("    %s\n", color.ColorInfo(r.Date))
		}
	}
	fmt.Println(color.ColorFinalSuccess(fmt.Sprintf("Successfully scraped %d items from %s", len(res.Records), res.URL)))
	return true
}

func stepDetail(s core.Step) string {
	switch v := s.Data.(type) {
	case string:
		return v
	case nil:
		return ""
	default:
		return jsonutils.ToJSON(v)
	}
}

func orDash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}
