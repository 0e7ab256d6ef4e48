// Package domain models hiking assets sourced from the DOC (Department of
// Conservation) open data API: tracks, huts, campsites, and alerts.
//
// # Data Source
//
// Asset records come from the DOC API's paginated list endpoints (/tracks,
// /huts, /campsites, /alerts). The API has grown across several endpoint
// versions and its response shapes are inconsistent: field names vary between
// endpoints, coordinates appear as objects or positional arrays, numeric values
// arrive as numbers or strings, and pagination metadata differs per endpoint.
// The normalizers in this package absorb that inconsistency.
//
// # Fallback Chains
//
// Each semantic field is resolved by trying an ordered list of alternative raw
// field names until one yields a usable value. The chains are declared as
// package-level tables (e.g. [hikeIDFields]) so the priority order is explicit
// and testable. An exhausted chain is a normalization failure only for
// mandatory fields (identifier, coordinates); optional fields fall back to
// zero values or defaults.
//
// # Unit Conventions
//
// Track distances are stored in kilometers, rounded to two decimals. Raw
// distance strings carrying a "km" marker are parsed after stripping non-numeric
// characters; strings carrying a bare "m" (meters) marker are parsed the same
// way and divided by 1000. Elevation gain is stored in whole meters.
//
// # Alert Severity
//
// Alert severities rank strictly: info < warning < closed. A track's derived
// status comes from the highest-ranked alert severity seen in a sync run:
// closed → closed, warning → caution, info → open. Unknown severities never
// affect track status.
package domain
