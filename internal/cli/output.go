package cli

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/flipmatch/flipmatch-go/internal/model"
)

// Output handles formatting output based on the configured format
type Output struct {
	format string
}

// NewOutput creates a new Output formatter
func NewOutput(format string) *Output {
	return &Output{format: format}
}

// Print outputs data in the configured format
func (o *Output) Print(data any) {
	if o.format == "json" {
		o.printJSON(data)
	} else {
		o.printText(data)
	}
}

// PrintError outputs an error
func (o *Output) PrintError(err error) {
	if o.format == "json" {
		errData := map[string]any{
			"error": map[string]string{
				"message": err.Error(),
			},
		}
		data, _ := json.Marshal(errData)
		fmt.Fprintln(os.Stderr, string(data))
	} else {
		fmt.Fprintf(os.Stderr, "Error: %s\n", err)
	}
}

// PrintMessage outputs a simple message
func (o *Output) PrintMessage(msg string) {
	if o.format == "json" {
		data, _ := json.Marshal(map[string]string{"message": msg})
		fmt.Println(string(data))
	} else {
		fmt.Println(msg)
	}
}

func (o *Output) printJSON(data any) {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	_ = enc.Encode(data)
}

func (o *Output) printText(data any) {
	switch v := data.(type) {
	case *model.Snapshot:
		o.printSnapshot(v)
	case model.Snapshot:
		o.printSnapshot(&v)
	case ScoresResult:
		o.printScores(v)
	case RecentResult:
		o.printRecent(v)
	case HealthResult:
		o.printHealthResult(v)
	default:
		// Fallback to JSON for unknown types
		o.printJSON(data)
	}
}

// HealthResult response type
type HealthResult struct {
	Status string `json:"status"`
}

// HighScore response type (matches API)
type HighScore struct {
	Name       string    `json:"name"`
	Score      int       `json:"score"`
	GameCode   string    `json:"game_code"`
	RecordedAt time.Time `json:"recorded_at"`
}

// ScoresResult response type
type ScoresResult struct {
	Scores []HighScore `json:"scores"`
}

// GameSummary response type
type GameSummary struct {
	GameCode    string         `json:"game_code"`
	FinalScores map[string]int `json:"final_scores"`
	Winner      string         `json:"winner,omitempty"`
	CompletedAt time.Time      `json:"completed_at"`
}

// RecentResult response type
type RecentResult struct {
	Games []GameSummary `json:"games"`
}

const boardColumns = 4

func (o *Output) printSnapshot(snap *model.Snapshot) {
	fmt.Printf("Game: %s\n", snap.GameCode)

	if len(snap.ShuffledImages) == 0 {
		fmt.Println("Waiting for the host to start a round")
	} else {
		fmt.Println()
		o.printBoard(snap)
		fmt.Println()
	}

	for i, p := range snap.Players {
		marker := "  "
		if i == snap.CurrentPlayerIndex && !snap.GameWon && len(snap.ShuffledImages) > 0 {
			marker = "> "
		}
		fmt.Printf("%s%s: %d\n", marker, p.Name, p.Score)
	}

	if snap.GameWon {
		fmt.Println("\nAll pairs found!")
	}
}

// printBoard renders the deck as a grid: matched and revealed cards
// show their face, hidden cards show their index
func (o *Output) printBoard(snap *model.Snapshot) {
	revealed := make(map[int]bool, len(snap.FlippedCards))
	for _, i := range snap.FlippedCards {
		revealed[i] = true
	}
	matched := make(map[int]bool, len(snap.MatchedCards))
	for _, i := range snap.MatchedCards {
		matched[i] = true
	}

	var row []string
	for i, face := range snap.ShuffledImages {
		switch {
		case matched[i]:
			row = append(row, fmt.Sprintf(" %s ", face))
		case revealed[i]:
			row = append(row, fmt.Sprintf("[%s]", face))
		default:
			row = append(row, fmt.Sprintf("[%2d]", i))
		}

		if len(row) == boardColumns || i == len(snap.ShuffledImages)-1 {
			fmt.Println("  " + strings.Join(row, " "))
			row = nil
		}
	}
}

func (o *Output) printScores(r ScoresResult) {
	if len(r.Scores) == 0 {
		fmt.Println("No high scores yet")
		return
	}
	fmt.Println("High Scores:")
	for i, s := range r.Scores {
		fmt.Printf("  %2d. %s - %d (game %s)\n", i+1, s.Name, s.Score, s.GameCode)
	}
}

func (o *Output) printRecent(r RecentResult) {
	if len(r.Games) == 0 {
		fmt.Println("No completed games yet")
		return
	}
	fmt.Println("Recent Games:")
	for _, g := range r.Games {
		fmt.Printf("  %s (%s)\n", g.GameCode, g.CompletedAt.Format(time.RFC3339))
		if g.Winner != "" {
			fmt.Printf("    Winner: %s\n", g.Winner)
		} else {
			fmt.Println("    Result: tie")
		}
		for name, score := range g.FinalScores {
			fmt.Printf("    %s: %d\n", name, score)
		}
	}
}

func (o *Output) printHealthResult(h HealthResult) {
	fmt.Printf("Status: %s\n", h.Status)
}
