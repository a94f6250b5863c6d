// Package catalog serves static reference data and an in-memory exercise log
package catalog

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/amoylab/toolserver/internal/tool"
	"github.com/amoylab/toolserver/pkg/utils"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/tidwall/gjson"
	"go.uber.org/zap"
)

const filterAll = "ALL"

type exerciseRecord struct {
	ID           string
	ExerciseType string
	Duration     int
	Calories     int
	RecordedAt   time.Time
	Notes        string
}

// Service owns the exercise log. Its counter and records are guarded by mu.
type Service struct {
	logger *zap.Logger
	now    func() time.Time

	mu        sync.Mutex
	nextID    int
	exercises []exerciseRecord
}

func NewService(logger *zap.Logger) *Service {
	return &Service{
		logger: logger.Named("tools.catalog"),
		now:    time.Now,
		nextID: 1,
	}
}

type (
	exerciseInput struct {
		ExerciseType string `json:"exerciseType"`
		Duration     int    `json:"duration"`
		Calories     int    `json:"calories"`
		Notes        string `json:"notes"`
	}

	historyInput struct {
		TypeFilter string `json:"typeFilter"`
	}
)

// Tools returns the catalog tools
func (s *Service) Tools() ([]tool.Tool, error) {
	exerciseTypes := []string{"RUNNING", "CYCLING", "SWIMMING", "WEIGHT_TRAINING", "YOGA"}

	defs := []struct {
		def mcp.Tool
		sig tool.Signature
	}{
		{
			def: mcp.NewTool("getWeatherInfo",
				mcp.WithDescription("Returns the current weather of a city: temperature, humidity, condition, wind and air quality."),
				mcp.WithString("city", mcp.Required(), mcp.Description("City name, e.g. Seoul, Busan, Jeju, Daegu")),
			),
			sig: tool.Signature{Map: s.getWeatherInfo},
		},
		{
			def: mcp.NewTool("listCities",
				mcp.WithDescription("Lists the cities weather information is available for."),
			),
			sig: tool.Signature{None: s.listCities},
		},
		{
			def: mcp.NewTool("searchBooks",
				mcp.WithDescription("Lists books, optionally filtered by genre."),
				mcp.WithString("genre", mcp.Required(), mcp.Description("Genre to search, or ALL")),
			),
			sig: tool.Signature{Document: s.searchBooks},
		},
		{
			def: mcp.NewTool("getBookDetails",
				mcp.WithDescription("Returns the details of a book by ISBN."),
				mcp.WithString("isbn", mcp.Required(), mcp.Description("Book ISBN, e.g. 978-1234567890")),
			),
			sig: tool.Signature{String: s.getBookDetails},
		},
		{
			def: mcp.NewTool("recordExercise",
				mcp.WithDescription("Records an exercise session with its duration and burned calories."),
				mcp.WithString("exerciseType", mcp.Required(), mcp.Enum(exerciseTypes...), mcp.Description("Kind of exercise")),
				mcp.WithNumber("duration", mcp.Required(), mcp.Min(1), mcp.Description("Duration in minutes")),
				mcp.WithNumber("calories", mcp.Required(), mcp.Min(0), mcp.Description("Burned calories in kcal")),
				mcp.WithString("notes", mcp.Description("Optional notes")),
			),
			sig: tool.Signature{Typed: tool.Typed(s.recordExercise)},
		},
		{
			def: mcp.NewTool("getExerciseHistory",
				mcp.WithDescription("Lists recorded exercise sessions, newest first, with totals."),
				mcp.WithString("typeFilter", mcp.Description("Exercise type to show, or ALL")),
			),
			sig: tool.Signature{Typed: tool.Typed(s.getExerciseHistory)},
		},
		{
			def: mcp.NewTool("getHistoricalEventYear",
				mcp.WithDescription("Returns when a well known historical event happened."),
				mcp.WithString("eventName", mcp.Required(), mcp.Description("Event name, e.g. Korean War, French Revolution")),
			),
			sig: tool.Signature{Map: s.getHistoricalEventYear},
		},
	}

	tools := make([]tool.Tool, 0, len(defs))
	for _, d := range defs {
		t, err := tool.FromMCP(d.def, d.sig)
		if err != nil {
			return nil, err
		}
		tools = append(tools, t)
	}
	return tools, nil
}

func (s *Service) getWeatherInfo(_ context.Context, args map[string]any) (any, error) {
	city := utils.GetString(args, "city", "")
	for _, w := range cities {
		if !strings.EqualFold(w.City, strings.TrimSpace(city)) {
			continue
		}
		var sb strings.Builder
		fmt.Fprintf(&sb, "=== Weather in %s ===\n", w.City)
		fmt.Fprintf(&sb, "Condition: %s\n", label(conditionLabels, w.Condition))
		fmt.Fprintf(&sb, "Temperature: %d°C\n", w.Temperature)
		fmt.Fprintf(&sb, "Humidity: %d%%\n", w.Humidity)
		fmt.Fprintf(&sb, "Wind: %dm/s\n", w.WindSpeed)
		fmt.Fprintf(&sb, "Air quality: %s\n", label(airQualityLabels, w.AirQuality))
		fmt.Fprintf(&sb, "Date: %s\n", s.now().Format("2006-01-02"))
		return sb.String(), nil
	}
	return fmt.Sprintf("No weather information for city '%s'.", city), nil
}

func (s *Service) listCities(context.Context) (any, error) {
	names := make([]string, len(cities))
	for i, w := range cities {
		names[i] = w.City
	}
	return names, nil
}

// searchBooks receives its arguments as a JSON document
func (s *Service) searchBooks(_ context.Context, doc json.RawMessage) (any, error) {
	genre := strings.TrimSpace(gjson.GetBytes(doc, "genre").String())
	if genre == "" {
		genre = filterAll
	}

	var sb strings.Builder
	found := 0
	for _, b := range books {
		if !strings.EqualFold(genre, filterAll) && !strings.EqualFold(b.Genre, genre) {
			continue
		}
		if found == 0 {
			sb.WriteString("=== Books ===\n")
		}
		found++
		fmt.Fprintf(&sb, "\nTitle: %s\n", b.Title)
		fmt.Fprintf(&sb, "Author: %s\n", b.Author)
		fmt.Fprintf(&sb, "Publisher: %s (%d)\n", b.Publisher, b.Year)
		fmt.Fprintf(&sb, "Genre: %s | Pages: %d\n", b.Genre, b.Pages)
		fmt.Fprintf(&sb, "Available: %s\n", yesNo(b.Available))
		fmt.Fprintf(&sb, "ISBN: %s\n", b.ISBN)
		sb.WriteString("---\n")
	}
	if found == 0 {
		return fmt.Sprintf("No books found in genre '%s'.", genre), nil
	}
	return sb.String(), nil
}

// getBookDetails receives its arguments as a JSON string
func (s *Service) getBookDetails(_ context.Context, args string) (any, error) {
	isbn := strings.TrimSpace(gjson.Get(args, "isbn").String())
	for _, b := range books {
		if b.ISBN != isbn {
			continue
		}
		var sb strings.Builder
		sb.WriteString("=== Book details ===\n")
		fmt.Fprintf(&sb, "Title: %s\n", b.Title)
		fmt.Fprintf(&sb, "Author: %s\n", b.Author)
		fmt.Fprintf(&sb, "Publisher: %s\n", b.Publisher)
		fmt.Fprintf(&sb, "Year: %d\n", b.Year)
		fmt.Fprintf(&sb, "Genre: %s\n", b.Genre)
		fmt.Fprintf(&sb, "Pages: %d\n", b.Pages)
		fmt.Fprintf(&sb, "Available: %s\n", yesNo(b.Available))
		fmt.Fprintf(&sb, "ISBN: %s\n", b.ISBN)
		fmt.Fprintf(&sb, "\n%s\n", b.Description)
		return sb.String(), nil
	}
	return fmt.Sprintf("No book found with ISBN '%s'.", isbn), nil
}

func (s *Service) recordExercise(_ context.Context, in exerciseInput) (any, error) {
	kind := strings.ToUpper(strings.TrimSpace(in.ExerciseType))
	if _, ok := exerciseLabels[kind]; !ok {
		return nil, fmt.Errorf("unknown exercise type %q", in.ExerciseType)
	}
	if in.Duration <= 0 {
		return nil, errors.New("duration must be positive")
	}
	if in.Calories < 0 {
		return nil, errors.New("calories cannot be negative")
	}

	s.mu.Lock()
	rec := exerciseRecord{
		ID:           fmt.Sprintf("EX-%03d", s.nextID),
		ExerciseType: kind,
		Duration:     in.Duration,
		Calories:     in.Calories,
		RecordedAt:   s.now(),
		Notes:        in.Notes,
	}
	s.nextID++
	s.exercises = append(s.exercises, rec)
	s.mu.Unlock()

	s.logger.Info("recorded exercise", zap.String("id", rec.ID), zap.String("type", kind))
	return fmt.Sprintf("Exercise recorded.\nID: %s\nExercise: %s\nDuration: %d min\nCalories: %d kcal",
		rec.ID, label(exerciseLabels, kind), rec.Duration, rec.Calories), nil
}

func (s *Service) getExerciseHistory(_ context.Context, in historyInput) (any, error) {
	filter := strings.ToUpper(strings.TrimSpace(in.TypeFilter))
	if filter == "" {
		filter = filterAll
	}

	s.mu.Lock()
	records := make([]exerciseRecord, 0, len(s.exercises))
	for _, r := range s.exercises {
		if filter == filterAll || r.ExerciseType == filter {
			records = append(records, r)
		}
	}
	s.mu.Unlock()

	if len(records) == 0 {
		return "No exercise records.", nil
	}
	// newest first, later records first on equal timestamps
	for i, j := 0, len(records)-1; i < j; i, j = i+1, j-1 {
		records[i], records[j] = records[j], records[i]
	}
	sort.SliceStable(records, func(i, j int) bool {
		return records[i].RecordedAt.After(records[j].RecordedAt)
	})

	var sb strings.Builder
	sb.WriteString("=== Exercise history ===\n")
	totalDuration, totalCalories := 0, 0
	for _, r := range records {
		fmt.Fprintf(&sb, "\n[%s] %s\n", r.ID, label(exerciseLabels, r.ExerciseType))
		fmt.Fprintf(&sb, "Duration: %d min | Calories: %d kcal\n", r.Duration, r.Calories)
		fmt.Fprintf(&sb, "Recorded: %s\n", r.RecordedAt.Format("2006-01-02 15:04"))
		if r.Notes != "" {
			fmt.Fprintf(&sb, "Notes: %s\n", r.Notes)
		}
		sb.WriteString("---\n")
		totalDuration += r.Duration
		totalCalories += r.Calories
	}
	fmt.Fprintf(&sb, "\nTotal duration: %d min\n", totalDuration)
	fmt.Fprintf(&sb, "Total calories: %d kcal\n", totalCalories)
	return sb.String(), nil
}

func (s *Service) getHistoricalEventYear(_ context.Context, args map[string]any) (any, error) {
	name := utils.GetString(args, "eventName", "")
	key := strings.ToLower(strings.TrimSpace(name))
	for _, e := range historicalEvents {
		if e.Name == key {
			return e.Summary, nil
		}
	}
	return fmt.Sprintf("No information about the event '%s'. Try another event name.", name), nil
}

func yesNo(b bool) string {
	if b {
		return "yes"
	}
	return "no"
}
