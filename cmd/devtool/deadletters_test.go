package main

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/abeleng/shemeta/internal/event"
)

func TestSummarizeDeadLetters(t *testing.T) {
	day := time.Date(2026, 10, 1, 8, 0, 0, 0, time.UTC)
	entries := []event.DeadLetterEntry{
		{Type: event.OfferAccepted, Timestamp: day},
		{Type: event.OfferProposed, Timestamp: day},
		{Type: event.OfferProposed, Timestamp: day.Add(2 * time.Hour)},
		{Type: event.OfferExpired, Timestamp: day.Add(time.Hour)},
	}

	got := summarizeDeadLetters(entries)

	assert.Equal(t, []deadLetterSummary{
		{Type: event.OfferProposed, Count: 2, LastSeen: "2026-10-01T10:00:00Z"},
		{Type: event.OfferAccepted, Count: 1, LastSeen: "2026-10-01T08:00:00Z"},
		{Type: event.OfferExpired, Count: 1, LastSeen: "2026-10-01T09:00:00Z"},
	}, got)
}

func TestRequireArg(t *testing.T) {
	_, err := requireArg(nil, "up|down")
	assert.ErrorContains(t, err, "up|down")

	got, err := requireArg([]string{"status"}, "up|down|status")
	assert.NoError(t, err)
	assert.Equal(t, "status", got)
}
