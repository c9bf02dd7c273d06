/*
Package notify implements the best-effort payroll notification layer.

PURPOSE:
  Consumes finished payroll records and turns them into summary
  emails. The queue is fire-and-forget: enqueue never blocks the
  payroll computation, delivery failures are logged and never
  propagated, and pending jobs are dropped on shutdown.

ARCHITECTURE:
  Mailer.Notify -> buffered channel -> worker goroutine -> Sender

  Sender is an interface so production can plug an SMTP or API-backed
  implementation; LogSender is the default and just logs the rendered
  message.

SEE ALSO:
  - payroll/composer.go: Calls Notify after the record insert
*/
package notify

import (
	"bytes"
	"log"
	"sync"
	"text/template"

	"github.com/kwan/payroll-engine/payroll"
)

// Sender delivers a rendered message to an address.
type Sender interface {
	Send(to, subject, body string) error
}

// LogSender writes messages to the process log. Used in development
// and as the default when no real mail backend is configured.
type LogSender struct{}

func (LogSender) Send(to, subject, body string) error {
	log.Printf("mail to=%s subject=%q\n%s", to, subject, body)
	return nil
}

var payslipTemplate = template.Must(template.New("payslip").Parse(
	`Hi {{.User}},

Your payroll for {{.Month}} is ready.

  Total hours:     {{.TotalHours}}
  Overtime hours:  {{.OvertimeHours}}
  Night hours:     {{.NightHours}}
  Holiday hours:   {{.HolidayHours}}

  Daily rate:      {{.DailyRate}}
  Hourly rate:     {{.HourlyRate}}

  Gross:           {{.Gross}}
  Deductions:      {{.Deductions}}
  Net:             {{.Net}}
`))

// payslipView carries pre-formatted figures so the template stays dumb.
type payslipView struct {
	User          string
	Month         string
	TotalHours    string
	OvertimeHours string
	NightHours    string
	HolidayHours  string
	DailyRate     string
	HourlyRate    string
	Gross         string
	Deductions    string
	Net           string
}

func viewOf(sum payroll.Summary) payslipView {
	return payslipView{
		User:          sum.User,
		Month:         sum.Month,
		TotalHours:    sum.TotalHours.StringFixed(2),
		OvertimeHours: sum.OvertimeHours.StringFixed(2),
		NightHours:    sum.NightHours.StringFixed(2),
		HolidayHours:  sum.HolidayHours.StringFixed(2),
		DailyRate:     sum.DailyRate.StringFixed(2),
		HourlyRate:    sum.HourlyRate.StringFixed(2),
		Gross:         sum.Gross.StringFixed(2),
		Deductions:    sum.Deductions.StringFixed(2),
		Net:           sum.Net.StringFixed(2),
	}
}

type job struct {
	to      string
	subject string
	summary payroll.Summary
}

// Mailer is an in-process job queue rendering payroll summary emails.
type Mailer struct {
	sender Sender
	jobs   chan job
	done   chan struct{}
	once   sync.Once
}

// NewMailer starts the worker goroutine. Call Close to stop it;
// jobs still queued at that point are dropped.
func NewMailer(sender Sender) *Mailer {
	if sender == nil {
		sender = LogSender{}
	}
	m := &Mailer{
		sender: sender,
		jobs:   make(chan job, 64),
		done:   make(chan struct{}),
	}
	go m.work()
	return m
}

func (m *Mailer) work() {
	for j := range m.jobs {
		var buf bytes.Buffer
		if err := payslipTemplate.Execute(&buf, viewOf(j.summary)); err != nil {
			log.Printf("notify: render failed for %s: %v", j.to, err)
			continue
		}
		if err := m.sender.Send(j.to, j.subject, buf.String()); err != nil {
			log.Printf("notify: send failed for %s: %v", j.to, err)
		}
	}
	close(m.done)
}

// Close stops the worker after the queue drains of accepted jobs.
func (m *Mailer) Close() {
	m.once.Do(func() {
		close(m.jobs)
		<-m.done
	})
}

// NotifyPayroll enqueues a payslip email. Never blocks: if the queue
// is full the job is dropped with a log line.
func (m *Mailer) NotifyPayroll(to string, sum payroll.Summary) {
	select {
	case m.jobs <- job{to: to, subject: "Payroll summary for " + sum.Month, summary: sum}:
	default:
		log.Printf("notify: queue full, dropping payslip for %s", to)
	}
}

// =============================================================================
// COMPOSER ADAPTER - payroll.Notifier backed by the mailer
// =============================================================================

// RecordNotifier adapts the mailer to the payroll.Notifier port. It
// resolves the recipient address from the user directory.
type RecordNotifier struct {
	Mailer *Mailer
	Lookup func(userID string) (email string, ok bool)
}

var _ payroll.Notifier = (*RecordNotifier)(nil)

func (n *RecordNotifier) Notify(rec payroll.Record, sum payroll.Summary) {
	email, ok := n.Lookup(rec.UserID)
	if !ok || email == "" {
		log.Printf("notify: no email for user %s, skipping", rec.UserID)
		return
	}
	n.Mailer.NotifyPayroll(email, sum)
}
