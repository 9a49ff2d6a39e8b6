// Package narration turns route progress into localized text. The Renderer
// formats single events; the Narrator asks for a locale, drives the route
// producer and prints one line per event while reporting telemetry.
package narration
