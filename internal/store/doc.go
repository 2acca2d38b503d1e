// Package store declares the persistence interfaces for decks, cards, quota
// counters and the event log, the sentinel errors every implementation maps
// driver failures onto, and the transaction helper services use.
package store
