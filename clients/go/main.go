// journeyctl - Command line client for the health journey backend
package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/eldtechnologies/journeyboard/clients/go/journey"
	"github.com/eldtechnologies/journeyboard/internal/timeline"
	"github.com/eldtechnologies/journeyboard/internal/models"
)

func main() {
	if len(os.Args) < 2 {
		usage()
		os.Exit(1)
	}

	client := journey.NewClient(os.Getenv("JOURNEY_API_URL"))
	cmd := os.Args[1]

	ctx, cancel := context.WithTimeout(context.Background(), 60*time.Second)
	defer cancel()

	switch cmd {
	case "health":
		exitOnError(client.Health(ctx))
		fmt.Println("ok")

	case "generate":
		resp, err := client.GenerateRealisticJourney(ctx)
		exitOnError(err)
		fmt.Printf("Generated journey for member: %s\n", resp.MemberID)

	case "journey":
		data, err := client.GetMemberJourneyData(ctx, memberArg("journey"))
		exitOnError(err)
		printSummary(data)

	case "timeline":
		data, err := client.GetMemberTimeline(ctx, memberArg("timeline"))
		exitOnError(err)
		for _, msg := range data.Messages {
			fmt.Printf("[M%d D%02d] %s: %s\n", msg.ContextData.Month, msg.ContextData.Day, msg.AgentName, msg.Content)
		}

	case "mock":
		printJSON(journey.MockJourneyData())

	case "agents":
		agents, err := client.GetAgents(ctx)
		exitOnError(err)
		for _, a := range agents {
			fmt.Printf("  %-12s %s\n", a.Name, a.Role)
		}

	case "members":
		members, err := client.ListMembers(ctx)
		exitOnError(err)
		for _, m := range members {
			fmt.Printf("  %s  %s (%d, %s)\n", m.ID, m.Name, m.Age, m.Location)
		}

	case "search":
		if len(os.Args) < 3 {
			fmt.Fprintln(os.Stderr, "Usage: journeyctl search <query>")
			os.Exit(1)
		}
		resp, err := client.SearchMessages(ctx, os.Args[2])
		exitOnError(err)
		fmt.Printf("%d results\n", resp.TotalResults)
		for _, r := range resp.Results {
			fmt.Printf("[%s] %s: %s\n", r.Timestamp, r.AgentName, r.Content)
		}

	case "analytics":
		resp, err := client.GetMessageAnalytics(ctx)
		exitOnError(err)
		printJSON(resp)

	case "help", "--help", "-h":
		usage()

	default:
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n", cmd)
		usage()
		os.Exit(1)
	}
}

func memberArg(cmd string) string {
	if len(os.Args) > 2 {
		return os.Args[2]
	}
	if id := os.Getenv("MEMBER_ID"); id != "" {
		return id
	}
	fmt.Fprintf(os.Stderr, "Usage: journeyctl %s <member_id>\n", cmd)
	os.Exit(1)
	return ""
}

func printSummary(data *models.JourneyData) {
	fmt.Printf("%s, %d, %s\n", data.Member.Name, data.Member.Age, data.Member.Location)
	fmt.Printf("%d messages, %d health events\n\n", len(data.Messages), len(data.HealthEvents))
	for _, m := range timeline.Build(data) {
		fmt.Printf("  Month %d: %d messages, %d events\n", m.Month, len(m.Messages), len(m.Events))
	}
}

func usage() {
	fmt.Println(`journeyctl - Health journey backend client

Usage: journeyctl <command> [options]

Commands:
  generate                Generate a new 8-month journey
  journey [member_id]     Summarize a member's journey
  timeline [member_id]    Print a member's messages month by month
  agents                  List the care team
  members                 List members
  search <query>          Search messages
  analytics               Show message analytics
  mock                    Print the built-in demo journey
  health                  Check backend health

Environment:
  JOURNEY_API_URL   Backend URL (default: http://127.0.0.1:8000)
  MEMBER_ID         Default member for journey and timeline`)
}

func exitOnError(err error) {
	if err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}

func printJSON(v interface{}) {
	data, _ := json.MarshalIndent(v, "", "  ")
	fmt.Println(string(data))
}
