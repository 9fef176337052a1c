// Package dashboard computes the aggregates shown on the task dashboard.
package dashboard

import (
	"time"

	"task-manager/domain"
	"task-manager/tasklist"
)

// DefaultDays is the length of the date series.
const DefaultDays = 10

// StatusCounts counts tasks per status.
type StatusCounts struct {
	ToDo       int `json:"todo"`
	InProgress int `json:"inProgress"`
	Completed  int `json:"completed"`
}

// DayCount is one point of a date series.
type DayCount struct {
	Date  string `json:"date"`
	Label string `json:"label"`
	Count int    `json:"count"`
}

// Bucket is one slice of the estimated hours distribution.
type Bucket struct {
	Label string `json:"label"`
	Count int    `json:"count"`
	Color string `json:"color"`
}

// Summary bundles every dashboard aggregate.
type Summary struct {
	Total             int          `json:"total"`
	Status            StatusCounts `json:"status"`
	CompletionSeries  []DayCount   `json:"completionSeries"`
	DueSeries         []DayCount   `json:"dueSeries"`
	HoursDistribution []Bucket     `json:"hoursDistribution"`
	Assignees         []string     `json:"assignees"`
}

// Summarize computes every aggregate for tasks relative to today.
func Summarize(tasks []domain.Task, today time.Time) Summary {
	return Summary{
		Total:             len(tasks),
		Status:            CountStatuses(tasks),
		CompletionSeries:  CompletionSeries(tasks, today, DefaultDays),
		DueSeries:         DueSeries(tasks, today, DefaultDays),
		HoursDistribution: HoursDistribution(tasks),
		Assignees:         tasklist.Assignees(tasks),
	}
}

// CountStatuses counts tasks per status. Unknown statuses are not counted.
func CountStatuses(tasks []domain.Task) StatusCounts {
	var c StatusCounts
	for _, t := range tasks {
		switch t.Status {
		case domain.StatusToDo:
			c.ToDo++
		case domain.StatusInProgress:
			c.InProgress++
		case domain.StatusCompleted:
			c.Completed++
		}
	}
	return c
}

// CompletionSeries is the running total of tasks completed on each of the
// next days days, starting today.
func CompletionSeries(tasks []domain.Task, today time.Time, days int) []DayCount {
	series := perDay(today, days, func(yield func(time.Time)) {
		for _, t := range tasks {
			if t.Status != domain.StatusCompleted {
				continue
			}
			if at, ok := t.CompletedAt(); ok {
				yield(at)
			}
		}
	})
	running := 0
	for i := range series {
		running += series[i].Count
		series[i].Count = running
	}
	return series
}

// DueSeries counts open tasks due on each of the next days days, starting
// today.
func DueSeries(tasks []domain.Task, today time.Time, days int) []DayCount {
	return perDay(today, days, func(yield func(time.Time)) {
		for _, t := range tasks {
			if t.Status == domain.StatusCompleted {
				continue
			}
			if due, ok := t.Due(); ok {
				yield(due)
			}
		}
	})
}

func perDay(today time.Time, days int, dates func(yield func(time.Time))) []DayCount {
	if days <= 0 {
		return []DayCount{}
	}
	start := startOfDay(today)
	series := make([]DayCount, days)
	for i := range series {
		d := start.AddDate(0, 0, i)
		series[i] = DayCount{Date: d.Format("2006-01-02"), Label: d.Format("2 Jan")}
	}
	dates(func(at time.Time) {
		day := startOfDay(at.In(start.Location()))
		if day.Before(start) {
			return
		}
		for i := range series {
			if day.Equal(start.AddDate(0, 0, i)) {
				series[i].Count++
				return
			}
		}
	})
	return series
}

func startOfDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}

var hourBuckets = []struct {
	label string
	max   float64
	color string
}{
	{label: "Small (0-4h)", max: 4, color: "#8dd1e1"},
	{label: "Medium (5-12h)", max: 12, color: "#82ca9d"},
	{label: "Large (13-24h)", max: 24, color: "#a4de6c"},
	{label: "XLarge (25-48h)", color: "#d0ed57"},
}

// HoursDistribution groups tasks by estimated hours. Only non-empty buckets
// are returned, in bucket order.
func HoursDistribution(tasks []domain.Task) []Bucket {
	counts := make([]int, len(hourBuckets))
	for _, t := range tasks {
		idx := len(hourBuckets) - 1
		for i, b := range hourBuckets[:len(hourBuckets)-1] {
			if t.EstimatedHours <= b.max {
				idx = i
				break
			}
		}
		counts[idx]++
	}
	out := make([]Bucket, 0, len(hourBuckets))
	for i, b := range hourBuckets {
		if counts[i] == 0 {
			continue
		}
		out = append(out, Bucket{Label: b.label, Count: counts[i], Color: b.color})
	}
	return out
}
