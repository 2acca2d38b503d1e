// Package service holds what the application services share.
//
// Each use case lives in its own subpackage (scheduler, card_review, quota,
// dashboard, card_generation). Services receive their stores through
// constructor injection, open transactions through a store.TxRunner, and
// return the sentinels defined here or in store so the API layer can map
// them to responses with errors.Is and errors.As.
package service
