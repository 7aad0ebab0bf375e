// Package infra contains technical adapters: the dataset loader, MQTT
// publisher, metrics sinks and error monitoring. These packages depend
// only on the interfaces defined in the core packages.
package infra
