// The main package for the route-narrator executable.
//
// Architecture overview:
//   - CLI: cmd builds a cobra root command whose default action is narrate. Flags are bound to viper keys, so
//     --locale, --interval and --trailing-delay override config.yaml and NARRATOR_* environment variables.
//   - Route: internal/route parses the configured steps and produces a lazy, paced sequence of events. Each event
//     carries the current step, a copy of the following step and the floor-rounded completion percentage.
//   - Narration: internal/narration prompts for a locale (1 = tr, 2 = en), converts metres to kilometres or miles
//     and renders one line per event. Invalid selections print a message and end the run without error.
//   - Telemetry: run lifecycle events are emitted to a non-blocking progress hub that batches them for the zap log
//     sink, the Prometheus sink and, when configured, a Google Cloud Pub/Sub topic.
//
// Operational notes:
//   - Narration goes to stdout; structured logs go to stderr.
//   - SIGINT/SIGTERM cancel the pause between steps and the process exits cleanly after flushing telemetry.
//   - Enable metrics.enabled to serve /metrics and /healthz on metrics.addr.
//
// Quick checklist:
//   - Run locally: go run . --locale 2 --interval 200ms
//   - Pub/Sub: set NARRATOR_PUBSUB_ENABLED=true, NARRATOR_PUBSUB_PROJECT_ID and NARRATOR_PUBSUB_TOPIC_NAME.
package main

import (
	"github.com/JakeFAU/route-narrator/cmd"
)

// main is the entry point of the application.
// It defers all execution to the Cobra CLI library.
func main() {
	cmd.Execute()
}
