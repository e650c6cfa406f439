// Package planner detects schedule conflicts among favorited performances.
//
// Given an ordered list of performances, the planner reports every pair whose
// [TimeStart, TimeEnd) intervals overlap and builds a split-set suggestion for
// the first pair found. It is pure: no state survives between calls, and
// malformed input (missing or inverted times) never produces an error.
//
// Key responsibilities:
//   - Pairwise overlap scan with a fixed, documented pair order
//   - Interval-tree scan producing the same report for larger lists
//   - Formatting HHMM times for display
package planner
