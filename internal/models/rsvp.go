package models

import (
	"fmt"
	"strings"
)

// RSVPStatus is a user's response to an event
type RSVPStatus string

// RSVPStatus constants
const (
	RSVPGoing   RSVPStatus = "Going"
	RSVPMaybe   RSVPStatus = "Maybe"
	RSVPDecline RSVPStatus = "Decline"
)

// ParseRSVPStatus converts a string to its canonical RSVPStatus (case-insensitive)
func ParseRSVPStatus(s string) (RSVPStatus, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "going":
		return RSVPGoing, nil
	case "maybe":
		return RSVPMaybe, nil
	case "decline":
		return RSVPDecline, nil
	default:
		return "", fmt.Errorf("status must be one of Going, Maybe, Decline")
	}
}

// RSVP represents a single user's response to a single event
type RSVP struct {
	ID      int        `json:"id"`
	UserID  int        `json:"user_id"`
	EventID int        `json:"event_id"`
	Status  RSVPStatus `json:"status"`
}

// RSVPRequest represents the body of an RSVP submission
type RSVPRequest struct {
	Status string `json:"status"`
}

// RSVPConfirmation is returned after an RSVP has been applied
type RSVPConfirmation struct {
	EventID int        `json:"event_id"`
	Status  RSVPStatus `json:"status"`
	Message string     `json:"message"`
}

// RSVPSummary holds per-status RSVP counts of an event
type RSVPSummary struct {
	Going   int `json:"Going"`
	Maybe   int `json:"Maybe"`
	Decline int `json:"Decline"`
}

// StatusCount is one row of a grouped status count
type StatusCount struct {
	EventID int
	Status  string
	Count   int
}

// Add adds count to the bucket of status. Statuses outside the three canonical
// values are not counted, so the total can be lower than the number of rows.
func (s *RSVPSummary) Add(status string, count int) {
	switch RSVPStatus(status) {
	case RSVPGoing:
		s.Going += count
	case RSVPMaybe:
		s.Maybe += count
	case RSVPDecline:
		s.Decline += count
	}
}

// Total returns the number of counted RSVPs
func (s RSVPSummary) Total() int {
	return s.Going + s.Maybe + s.Decline
}

// MyRSVP is an RSVP of the current user joined with its event snapshot
type MyRSVP struct {
	Status RSVPStatus `json:"status"`
	Event  Event      `json:"event"`
}
