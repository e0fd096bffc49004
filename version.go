package cvrguide

// Version is the release of the cvrguide module, reported by `cvrguide version` and GET /info.
const Version = "0.4.0"
