// Package compose parses Docker Compose definitions into a typed service
// model suitable for structural assertions.
//
// The model covers the subset of the Compose format used by the stack under
// audit: services with image, ports, volumes, environment, depends_on, and
// healthcheck, plus top-level named volumes. Polymorphic Compose forms are
// normalized during decoding:
//
//   - environment as a list of "K=V" strings or as a map
//   - depends_on as a short service list or as a map with conditions
//   - volume mounts in short "source:target[:mode]" string syntax or long
//     mapping syntax
//   - healthcheck test as a string or an exec-form list
//
// When parsed with WithSourceMap(true), the result carries a SourceMap that
// resolves dotted model paths (e.g. "services.mariadb.healthcheck.interval")
// to line and column positions in the YAML source, so audit issues can point
// at the offending line.
package compose
