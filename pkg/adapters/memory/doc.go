// Package memory provides in-process implementations of the scout ports.
package memory
