// Package mocks holds function-field fakes of the store, service, generator
// and auth interfaces. A nil function field falls back to a benign default
// documented on each method, so tests set only the calls they care about.
package mocks
