package model

// Package model defines the domain data structures shared across the service:
// platform tags, quality labels, format references, extracted video metadata,
// download results and the failure taxonomy. Values are built fresh per request
// and never persisted.
