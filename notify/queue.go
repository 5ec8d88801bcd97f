package notify

import (
	"context"
	"log"
	"time"
)

// Task is one outbound side effect (email, push). Failures never reach the
// request that produced them; the queue retries with backoff and then logs.
type Task struct {
	Name string
	Run  func(ctx context.Context) error
}

// Queue decouples side-effect delivery from the request path. Enqueue never
// blocks the caller; a full queue drops the task with a log line.
type Queue struct {
	tasks    chan Task
	done     chan struct{}
	attempts int
	backoff  time.Duration
	timeout  time.Duration
}

func NewQueue(buffer int) *Queue {
	return &Queue{
		tasks:    make(chan Task, buffer),
		done:     make(chan struct{}),
		attempts: 3,
		backoff:  500 * time.Millisecond,
		timeout:  15 * time.Second,
	}
}

// Start launches the worker. Call once at startup.
func (q *Queue) Start() {
	go func() {
		defer close(q.done)
		for task := range q.tasks {
			q.run(task)
		}
	}()
}

// Close stops accepting tasks and waits for the worker to drain the queue
func (q *Queue) Close() {
	close(q.tasks)
	<-q.done
}

// Enqueue schedules a task without blocking the caller
func (q *Queue) Enqueue(name string, fn func(ctx context.Context) error) {
	select {
	case q.tasks <- Task{Name: name, Run: fn}:
	default:
		log.Printf("notify: queue full, dropping task %s", name)
	}
}

func (q *Queue) run(task Task) {
	delay := q.backoff
	for attempt := 1; attempt <= q.attempts; attempt++ {
		ctx, cancel := context.WithTimeout(context.Background(), q.timeout)
		err := task.Run(ctx)
		cancel()
		if err == nil {
			return
		}
		if attempt == q.attempts {
			log.Printf("notify: task %s failed after %d attempts: %v", task.Name, attempt, err)
			return
		}
		log.Printf("notify: task %s attempt %d failed, retrying: %v", task.Name, attempt, err)
		time.Sleep(delay)
		delay *= 2
	}
}
