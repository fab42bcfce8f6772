package mailer

import (
	"context"
	"time"

	"github.com/mentorsfoundation/donation-portal/pkg/logger"
	"github.com/mentorsfoundation/donation-portal/pkg/prom"
	"github.com/mentorsfoundation/donation-portal/pkg/worker"
)

// Sender is the delivery backend the dispatcher drains into.
type Sender interface {
	Send(ctx context.Context, conf Confirmation) error
}

const sendTimeout = 15 * time.Second

// Dispatcher pushes confirmation mails through a worker pool so the sending
// request never waits on SMTP-speed I/O. Delivery is best effort: failures
// and overflow are logged and counted, never surfaced to the caller.
type Dispatcher struct {
	sender Sender
	pool   *worker.Manager
}

func NewDispatcher(sender Sender, workers, queueSize int) *Dispatcher {
	d := &Dispatcher{sender: sender}
	d.pool = worker.NewManager(queueSize, workers, d.deliver)
	return d
}

func (d *Dispatcher) Start() {
	d.pool.Start()
}

func (d *Dispatcher) Stop() {
	d.pool.Stop()
}

// SendConfirmation enqueues a mail without blocking. A nil dispatcher (mail
// disabled) or a full buffer drops the job.
func (d *Dispatcher) SendConfirmation(conf Confirmation) {
	if d == nil {
		logger.Debug("mailer disabled, skipping confirmation", "to", conf.DonorEmail)
		return
	}
	if !d.pool.TryEnqueue(conf) {
		logger.Warn("mail queue full, dropping confirmation", "to", conf.DonorEmail)
		prom.IncCounter(prom.SystemMailer, prom.MetricMailFailed)
	}
}

func (d *Dispatcher) deliver(workerIndex int, job interface{}) {
	conf, ok := job.(Confirmation)
	if !ok {
		logger.Error("mail dispatcher received unexpected job type", "worker", workerIndex)
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), sendTimeout)
	defer cancel()

	if err := d.sender.Send(ctx, conf); err != nil {
		logger.Error("failed to send confirmation email", "to", conf.DonorEmail, "error", err)
		prom.IncCounter(prom.SystemMailer, prom.MetricMailFailed)
		return
	}
	logger.Info("confirmation email sent", "to", conf.DonorEmail)
	prom.IncCounter(prom.SystemMailer, prom.MetricMailSent)
}
