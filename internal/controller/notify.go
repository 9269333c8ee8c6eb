package controller

import "sync"

// Notifier surfaces a failure message to the user.
// Front-ends decide how blocking the notification is.
type Notifier interface {
	Notify(message string)
}

// NotifierFunc adapts a function to Notifier.
type NotifierFunc func(message string)

// Notify implements Notifier.
func (f NotifierFunc) Notify(message string) { f(message) }

// Notification texts.
const (
	MsgLoadFailed   = "Failed to fetch tasks: "
	MsgAddFailed    = "Failed to add task"
	MsgDeleteFailed = "Failed to delete task"
	MsgUpdateFailed = "Failed to update task"
	MsgUnknownError = "Unknown error"
)

func loadFailedMessage(err error) string {
	if err == nil || err.Error() == "" {
		return MsgLoadFailed + MsgUnknownError
	}
	return MsgLoadFailed + err.Error()
}

// Queue is a Notifier that buffers messages until a front-end drains them.
type Queue struct {
	mu       sync.Mutex
	messages []string
}

// NewQueue creates an empty queue.
func NewQueue() *Queue {
	return &Queue{}
}

// Notify implements Notifier.
func (q *Queue) Notify(message string) {
	q.mu.Lock()
	defer q.mu.Unlock()
	q.messages = append(q.messages, message)
}

// Drain returns the queued messages and empties the queue.
func (q *Queue) Drain() []string {
	q.mu.Lock()
	defer q.mu.Unlock()
	msgs := q.messages
	q.messages = nil
	return msgs
}
