// Package search discovers candidate archival media assets.
//
// Providers implement the Provider interface; Multi fans a query out to
// every registered provider with an independent timeout and merges the
// results in registry order. A failing provider contributes an empty
// candidate list and never aborts the overall search.
package search
