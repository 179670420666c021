package service

import (
	"sync"

	"letterpath/internal/logger"
)

type persistJob struct {
	key     string
	value   string
	delete  bool
	barrier chan struct{}
}

// Persister writes settings in the background, strictly in the order they
// were queued. Callers enqueue after applying the in-memory mutation and do
// not wait for the write. Failures are logged and dropped: in-memory state
// stays authoritative for the running session.
type Persister struct {
	store SettingsStore
	log   *logger.Logger

	mu     sync.RWMutex
	closed bool
	jobs   chan persistJob
	done   chan struct{}
}

// NewPersister starts the background writer
func NewPersister(store SettingsStore, log *logger.Logger) *Persister {
	if log == nil {
		log = logger.NewNop()
	}
	p := &Persister{
		store: store,
		log:   log.With("component", "persister"),
		jobs:  make(chan persistJob, 64),
		done:  make(chan struct{}),
	}
	go p.run()
	return p
}

// Store returns the underlying store for synchronous reads at load time
func (p *Persister) Store() SettingsStore {
	return p.store
}

// Set queues key=value
func (p *Persister) Set(key, value string) {
	p.enqueue(persistJob{key: key, value: value})
}

// Delete queues removal of key
func (p *Persister) Delete(key string) {
	p.enqueue(persistJob{key: key, delete: true})
}

// Flush blocks until every write queued before the call has been attempted
func (p *Persister) Flush() {
	barrier := make(chan struct{})
	if !p.enqueue(persistJob{barrier: barrier}) {
		return
	}
	<-barrier
}

// Close drains queued writes and stops the writer. Later writes are dropped.
func (p *Persister) Close() {
	p.mu.Lock()
	if p.closed {
		p.mu.Unlock()
		return
	}
	p.closed = true
	close(p.jobs)
	p.mu.Unlock()
	<-p.done
}

func (p *Persister) enqueue(job persistJob) bool {
	p.mu.RLock()
	defer p.mu.RUnlock()
	if p.closed {
		if job.barrier == nil {
			p.log.Warn("write after close dropped", "key", job.key)
		}
		return false
	}
	p.jobs <- job
	return true
}

func (p *Persister) run() {
	defer close(p.done)
	for job := range p.jobs {
		if job.barrier != nil {
			close(job.barrier)
			continue
		}

		var err error
		if job.delete {
			err = p.store.DeleteSetting(job.key)
		} else {
			err = p.store.SetSetting(job.key, job.value)
		}
		if err != nil {
			p.log.Warn("failed to persist setting", "key", job.key, "error", err)
		}
	}
}
