/**
 * CONTEXT:   Centralized network defaults for the scheduler HTTP surface
 * INPUT:     Global constants for the port and host the HTTP surface binds to
 * OUTPUT:    Single source of truth for network configuration across components
 * BUSINESS:  Centralized configuration prevents port conflicts and drift between
 *            the CLI's default target and the HTTP server's default bind address
 * CHANGE:    Repurposed for the scheduling engine's demonstration HTTP surface
 * RISK:      Low - configuration constants with clear documentation
 */

package config

const (
	// DefaultSchedulerPort is the default port for the scheduler HTTP surface.
	DefaultSchedulerPort = "8193"

	// DefaultSchedulerHost is the default bind host.
	DefaultSchedulerHost = "localhost"

	// DefaultListenAddr combines host and port for HTTP server binding.
	DefaultListenAddr = DefaultSchedulerHost + ":" + DefaultSchedulerPort
)
