// Package route models a journey as an ordered list of steps and turns it
// into a lazily produced, time-paced stream of progress events. Each event
// carries the current step, a lookahead to the next one and the cumulative
// share of the total distance covered so far.
package route
