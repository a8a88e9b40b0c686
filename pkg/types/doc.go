// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package types defines the records shared by the craftgraph pipeline stages:
// items and transformations, cached pages and their manifest, per-page
// extraction results and stage configuration.
package types
