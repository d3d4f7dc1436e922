package service

import (
	"context"
	"log"
	"sync"
	"time"

	"taxdesk/internal/domain"
	"taxdesk/internal/port"
)

// NotifyWorkerConfig holds settings for the client notification worker.
type NotifyWorkerConfig struct {
	PollInterval time.Duration
	BatchSize    int
	Concurrency  int
}

// NotifyWorker polls for on-behalf actions whose client has not yet been
// notified, emails the client, and marks each entry notified. Delivery is
// at-least-once: a crash between send and mark can repeat an email.
type NotifyWorker struct {
	actionRepo port.OnBehalfActionRepository
	clientRepo port.ClientRepository
	userRepo   port.UserRepository
	sender     port.EmailSender
	cfg        NotifyWorkerConfig
	wg         sync.WaitGroup
}

// NewNotifyWorker creates a new NotifyWorker.
func NewNotifyWorker(
	actionRepo port.OnBehalfActionRepository,
	clientRepo port.ClientRepository,
	userRepo port.UserRepository,
	sender port.EmailSender,
	cfg NotifyWorkerConfig,
) *NotifyWorker {
	return &NotifyWorker{
		actionRepo: actionRepo,
		clientRepo: clientRepo,
		userRepo:   userRepo,
		sender:     sender,
		cfg:        cfg,
	}
}

// Start runs the polling loop until ctx is canceled. It blocks until all
// in-flight notifications have finished.
func (w *NotifyWorker) Start(ctx context.Context) {
	ticker := time.NewTicker(w.cfg.PollInterval)
	defer ticker.Stop()

	sem := make(chan struct{}, w.cfg.Concurrency)

	log.Printf("notifyWorker: started (poll=%s, batch=%d, concurrency=%d)",
		w.cfg.PollInterval, w.cfg.BatchSize, w.cfg.Concurrency)

	for {
		select {
		case <-ctx.Done():
			log.Printf("notifyWorker: shutting down, waiting for in-flight notifications...")
			w.wg.Wait()
			log.Printf("notifyWorker: shutdown complete")
			return
		case <-ticker.C:
			actions, err := w.actionRepo.ListUnnotified(ctx, w.cfg.BatchSize)
			if err != nil {
				if ctx.Err() != nil {
					continue
				}
				log.Printf("notifyWorker: ListUnnotified error: %v", err)
				continue
			}

			for i := range actions {
				action := actions[i] // copy for goroutine

				sem <- struct{}{} // acquire
				w.wg.Add(1)
				go func() {
					defer w.wg.Done()
					defer func() { <-sem }() // release

					// Fresh context so in-flight sends complete
					// during shutdown.
					sendCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
					defer cancel()

					w.notify(sendCtx, &action)
				}()
			}
		}
	}
}

func (w *NotifyWorker) notify(ctx context.Context, action *domain.OnBehalfAction) {
	client, err := w.clientRepo.GetByID(ctx, action.TenantID, action.ClientID)
	if err != nil {
		log.Printf("notifyWorker: client lookup failed for action %s: %v", action.ID, err)
		return
	}
	if client.Email == "" {
		// No address to notify; mark done so the entry stops cycling.
		log.Printf("notifyWorker: client %s has no email, marking action %s notified", client.ID, action.ID)
		if err := w.actionRepo.MarkNotified(ctx, action.ID, time.Now().UTC()); err != nil {
			log.Printf("notifyWorker: MarkNotified error for action %s: %v", action.ID, err)
		}
		return
	}

	associateName := "an associate"
	if associate, err := w.userRepo.GetByID(ctx, action.TenantID, action.AssociateID); err == nil {
		associateName = associate.FullName
	}

	if err := w.sender.SendOnBehalfNotice(ctx, client.Email, client.Name, associateName, action); err != nil {
		log.Printf("notifyWorker: send failed for action %s: %v", action.ID, err)
		return
	}
	if err := w.actionRepo.MarkNotified(ctx, action.ID, time.Now().UTC()); err != nil {
		log.Printf("notifyWorker: MarkNotified error for action %s: %v", action.ID, err)
	}
}
