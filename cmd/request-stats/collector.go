package main

import (
	"math"
	"strconv"
	"strings"

	"github.com/bytedance/sonic"
)

const (
	tasksEventName   = "taskmanager.api.tasks.request"
	tasksEventDomain = "taskmanager.api"

	attrRoute         = "http.route"
	attrStatusCode    = "http.status_code"
	attrPrefix        = "taskmanager.tasks."
	attrTasksReturned = attrPrefix + "tasks_returned"
	attrPaginated     = attrPrefix + "paginated"
	attrHasMore       = attrPrefix + "has_more"
	attrErrorStage    = attrPrefix + "error_stage"
)

// durationAttrs maps summary keys to the millisecond attributes they read.
var durationAttrs = []struct{ key, attr string }{
	{"total", attrPrefix + "total_ms"},
	{"auth", attrPrefix + "auth_ms"},
	{"fetch", attrPrefix + "fetch_ms"},
	{"encode", attrPrefix + "encode_ms"},
}

type logRecord struct {
	EventName    string         `json:"event.name"`
	EventDomain  string         `json:"event.domain"`
	SeverityText string         `json:"severity_text"`
	Attributes   map[string]any `json:"attributes"`
}

type numericStats struct {
	Count int
	Sum   float64
	Min   float64
	Max   float64
}

type numericSummary struct {
	Count int     `json:"count"`
	Min   float64 `json:"min"`
	Max   float64 `json:"max"`
	Avg   float64 `json:"avg"`
}

type boolCounts struct {
	True  int `json:"true"`
	False int `json:"false"`
}

type summaryOutput struct {
	EventName      string                    `json:"event_name"`
	EventDomain    string                    `json:"event_domain"`
	TotalEvents    int                       `json:"total_events"`
	SeverityCounts map[string]int            `json:"severity_counts"`
	StatusCounts   map[string]int            `json:"status_counts"`
	RouteCounts    map[string]int            `json:"route_counts"`
	DurationMs     map[string]numericSummary `json:"duration_ms"`
	TasksReturned  numericSummary            `json:"tasks_returned"`
	Paginated      boolCounts                `json:"paginated"`
	HasMore        boolCounts                `json:"has_more"`
	ErrorStages    map[string]int            `json:"error_stages,omitempty"`
	SkippedLines   int                       `json:"skipped_lines"`
}

// collector aggregates request events read from API log output.
type collector struct {
	eventName   string
	eventDomain string

	count     int
	severity  map[string]int
	status    map[int]int
	routes    map[string]int
	durations map[string]*numericStats
	tasks     *numericStats
	paginated boolCounts
	hasMore   boolCounts
	stages    map[string]int
	skipped   int
}

func newCollector(eventName, eventDomain string) *collector {
	return &collector{
		eventName:   eventName,
		eventDomain: eventDomain,
		severity:    make(map[string]int),
		status:      make(map[int]int),
		routes:      make(map[string]int),
		durations:   make(map[string]*numericStats),
		stages:      make(map[string]int),
	}
}

// ingest parses one log line. Lines may carry a "service |" prefix as
// written by docker compose.
func (c *collector) ingest(line string) {
	trimmed := strings.TrimSpace(line)
	if trimmed == "" {
		return
	}
	if pipe := strings.Index(trimmed, "|"); pipe >= 0 && !strings.HasPrefix(trimmed, "{") {
		trimmed = strings.TrimSpace(trimmed[pipe+1:])
	}

	var rec logRecord
	if err := sonic.UnmarshalString(trimmed, &rec); err != nil {
		c.skipped++
		return
	}
	if rec.EventName != c.eventName {
		return
	}
	if c.eventDomain != "" && rec.EventDomain != c.eventDomain {
		return
	}
	c.add(rec)
}

func (c *collector) add(rec logRecord) {
	c.count++

	severity := strings.ToUpper(strings.TrimSpace(rec.SeverityText))
	if severity == "" {
		severity = "UNSPECIFIED"
	}
	c.severity[severity]++

	attrs := rec.Attributes
	if attrs == nil {
		return
	}
	if v, ok := asFloat(attrs[attrStatusCode]); ok {
		c.status[int(v)]++
	}
	if route, ok := attrs[attrRoute].(string); ok && route != "" {
		c.routes[route]++
	}
	for _, d := range durationAttrs {
		if v, ok := asFloat(attrs[d.attr]); ok {
			stat, exists := c.durations[d.key]
			if !exists {
				stat = newNumericStats()
				c.durations[d.key] = stat
			}
			stat.add(v)
		}
	}
	if v, ok := asFloat(attrs[attrTasksReturned]); ok {
		if c.tasks == nil {
			c.tasks = newNumericStats()
		}
		c.tasks.add(v)
	}
	countBool(&c.paginated, attrs[attrPaginated])
	countBool(&c.hasMore, attrs[attrHasMore])
	if stage, ok := attrs[attrErrorStage].(string); ok && stage != "" {
		c.stages[stage]++
	}
}

func countBool(counts *boolCounts, raw any) {
	b, ok := raw.(bool)
	if !ok {
		return
	}
	if b {
		counts.True++
	} else {
		counts.False++
	}
}

func newNumericStats() *numericStats {
	return &numericStats{Min: math.MaxFloat64}
}

func (n *numericStats) add(v float64) {
	n.Count++
	n.Sum += v
	n.Min = min(n.Min, v)
	n.Max = max(n.Max, v)
}

func (n *numericStats) summary() numericSummary {
	if n == nil || n.Count == 0 {
		return numericSummary{}
	}
	return numericSummary{Count: n.Count, Min: n.Min, Max: n.Max, Avg: n.Sum / float64(n.Count)}
}

func (c *collector) summary() summaryOutput {
	durations := make(map[string]numericSummary, len(c.durations))
	for k, stat := range c.durations {
		durations[k] = stat.summary()
	}
	status := make(map[string]int, len(c.status))
	for code, n := range c.status {
		status[strconv.Itoa(code)] = n
	}
	out := summaryOutput{
		EventName:      c.eventName,
		EventDomain:    c.eventDomain,
		TotalEvents:    c.count,
		SeverityCounts: c.severity,
		StatusCounts:   status,
		RouteCounts:    c.routes,
		DurationMs:     durations,
		TasksReturned:  c.tasks.summary(),
		Paginated:      c.paginated,
		HasMore:        c.hasMore,
		SkippedLines:   c.skipped,
	}
	if len(c.stages) > 0 {
		out.ErrorStages = c.stages
	}
	return out
}

// ShortString is the one-line summary printed after collection.
func (s summaryOutput) ShortString() string {
	total := s.DurationMs["total"]
	return strings.Join([]string{
		"event=" + s.EventName,
		"total=" + strconv.Itoa(s.TotalEvents),
		"info=" + strconv.Itoa(s.SeverityCounts["INFO"]),
		"warn=" + strconv.Itoa(s.SeverityCounts["WARN"]),
		"error=" + strconv.Itoa(s.SeverityCounts["ERROR"]),
		"avg_total_ms=" + formatFloat(total.Avg),
		"max_total_ms=" + formatFloat(total.Max),
	}, " ")
}

func formatFloat(v float64) string {
	if v == 0 {
		return "0"
	}
	return strconv.FormatFloat(v, 'f', 2, 64)
}

func asFloat(raw any) (float64, bool) {
	switch v := raw.(type) {
	case float64:
		return v, true
	case int64:
		return float64(v), true
	case string:
		f, err := strconv.ParseFloat(v, 64)
		return f, err == nil
	default:
		return 0, false
	}
}
