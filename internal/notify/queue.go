package notify

import (
	"container/list"
	"context"
	"sync"
	"time"

	"grocery-api/internal/models"
	"grocery-api/internal/util"

	"go.uber.org/zap"
)

// Sender is the outbound mail transport.
type Sender interface {
	Send(ctx context.Context, to, subject, html string) error
}

// LineItem is one formatted order line in a notification email.
type LineItem struct {
	Name      string
	Quantity  int
	UnitPrice int64
	LineTotal int64
}

// Job is one pending order-notification email. Jobs live only in the queue;
// they are not persisted anywhere.
type Job struct {
	OrderID        string
	OrderDate      string
	Address        models.Address
	Items          []LineItem
	Subtotal       int64
	DeliveryCharge int64
	Tax            int64
	Total          int64
	Status         string

	retries int
}

// emailTimeZone fixes the order-date formatting regardless of server locale.
var emailTimeZone = time.FixedZone("PKT", 5*60*60)

// FormatOrderDate renders a timestamp the way it appears in notification
// emails.
func FormatOrderDate(t time.Time) string {
	return t.In(emailTimeZone).Format("Jan 2, 2006 3:04 PM")
}

// Queue is a single-consumer FIFO dispatcher for notification emails. Enqueue
// never blocks and never fails; delivery happens on a background drain loop
// that retries failed sends up to maxRetries attempts, rotating a failing job
// to the tail so it cannot starve the jobs behind it. A fixed delay between
// attempts paces outbound calls under the provider's rate limit.
type Queue struct {
	sender Sender
	to     string
	logger *zap.Logger

	mu         sync.Mutex
	jobs       *list.List
	processing bool
	closed     bool
	wg         sync.WaitGroup

	maxRetries int
	delay      time.Duration
}

// NewQueue creates a queue delivering to the seller inbox.
func NewQueue(sender Sender, sellerEmail string) *Queue {
	return &Queue{
		sender:     sender,
		to:         sellerEmail,
		logger:     util.Named("notify"),
		jobs:       list.New(),
		maxRetries: 3,
		delay:      2 * time.Second,
	}
}

// Enqueue appends a job and starts the drain loop if none is running.
func (q *Queue) Enqueue(job *Job) {
	q.mu.Lock()
	defer q.mu.Unlock()

	if q.closed {
		q.logger.Warn("Queue closed, discarding notification",
			zap.String("order_id", job.OrderID))
		return
	}

	q.jobs.PushBack(job)

	if !q.processing {
		q.processing = true
		q.wg.Add(1)
		go q.drain()
	}
}

// Pending returns the number of queued jobs.
func (q *Queue) Pending() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return q.jobs.Len()
}

// Close discards any remaining jobs and waits for the drain loop to stop.
// Further Enqueue calls are dropped.
func (q *Queue) Close() {
	q.mu.Lock()
	q.closed = true
	if n := q.jobs.Len(); n > 0 {
		q.logger.Warn("Discarding undelivered notifications on shutdown",
			zap.Int("count", n))
	}
	q.jobs.Init()
	q.mu.Unlock()

	q.wg.Wait()
}

func (q *Queue) drain() {
	defer q.wg.Done()

	for {
		q.mu.Lock()
		if q.closed || q.jobs.Len() == 0 {
			q.processing = false
			q.mu.Unlock()
			return
		}
		front := q.jobs.Front()
		job := front.Value.(*Job)
		q.mu.Unlock()

		err := q.attempt(job)

		q.mu.Lock()
		if q.closed {
			q.processing = false
			q.mu.Unlock()
			return
		}
		if err == nil {
			q.jobs.Remove(front)
			util.NotificationsSentTotal.Inc()
			q.logger.Info("Notification sent",
				zap.String("order_id", job.OrderID))
		} else {
			job.retries++
			if job.retries >= q.maxRetries {
				q.jobs.Remove(front)
				util.NotificationsDroppedTotal.Inc()
				q.logger.Warn("Giving up on notification",
					zap.String("order_id", job.OrderID),
					zap.Int("attempts", job.retries),
					zap.Error(err))
			} else {
				q.jobs.MoveToBack(front)
				util.NotificationRetriesTotal.Inc()
				q.logger.Info("Notification failed, requeued",
					zap.String("order_id", job.OrderID),
					zap.Int("attempt", job.retries),
					zap.Int("max", q.maxRetries),
					zap.Error(err))
			}
		}
		q.mu.Unlock()

		time.Sleep(q.delay)
	}
}

func (q *Queue) attempt(job *Job) error {
	html, err := RenderEmail(job)
	if err != nil {
		return err
	}
	return q.sender.Send(context.Background(), q.to, subjectFor(job), html)
}
