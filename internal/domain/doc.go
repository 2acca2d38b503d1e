// Package domain holds cards, decks, review grades and quota counters along
// with their validation and the errors shared across layers.
package domain
