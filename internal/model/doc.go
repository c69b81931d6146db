// Package model contains the core data structures shared between the
// download engine and the front-ends: the per-run request, progress
// events scraped from tool output, and run lifecycle types.
package model
