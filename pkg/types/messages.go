package types

// Server -> Client (websocket text frames)
//   { "event": "<kind>", "args": [characterId, ...] }
//
// Arguments are positional. Receivers read them by index, never by name.
// The full catalogue lives in pkg/event; a few examples:
//
// nameChange:            [id, name]
// attributeChange:       [id, attrId, value, maxValue, extraValue]
// attributeStatusChange: [id, flagId, value]
// itemAdd:               [id, itemId, name, description, weight, quantity]
// itemRemove:            [id, itemId]
// maxLoadChange:         [id, maxLoad]
//
// Client -> Server
//   nothing but pings; every write goes through the HTTP API and comes back
//   as an event once it has been committed.
//
// Snapshot (GET /characters/{id}/sheet): a JSON encoded Sheet.
