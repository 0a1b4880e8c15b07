package handler

// Request is a marker interface for messages that expect a response.
// A request should be dispatched with Send and handled by exactly one handler.
type Request interface{}

// Notification is a marker interface for broadcast messages. Notifications are dispatched
// with Publish to every registered handler; handler results are discarded.
type Notification interface{}

// Topical lets a message choose the subject it is forwarded under by broker bridges.
type Topical interface{ Topic() string }
