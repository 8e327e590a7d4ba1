// Package textutil provides the text normalization and tokenization shared
// by candidate dedup and scene assignment.
package textutil
