// Package connectors holds the event handlers for the storage systems the
// indexer consumes events from. Each subpackage implements
// driven.EventHandler for one storage code and is registered with the
// services.HandlerRegistry at startup.
package connectors
