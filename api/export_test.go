package api

// ParseTimestamp exposes parseTimestamp for tests.
var ParseTimestamp = parseTimestamp
