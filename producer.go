package strata

import (
	"sync"
	"time"

	"github.com/sirupsen/logrus"
	"gopkg.in/tomb.v2"
)

type tuple struct {
	tx  Transaction
	ack func(error)
}

// ProducerConfig are used to configure a producer.
type ProducerConfig struct {
	// The maximum size of the inserted transaction batches, defaults to 1.
	BatchSize int

	// The timeout after an unfinished batch is inserted in any case, defaults
	// to one millisecond.
	BatchTimeout time.Duration

	// The logger, defaults to the standard logger.
	Logger logrus.FieldLogger
}

// Producer provides an interface to efficiently batch transactions and insert
// them into a store.
type Producer struct {
	store  *Store
	config ProducerConfig
	pipe   chan tuple
	closed bool
	mutex  sync.RWMutex
	once   sync.Once
	tomb   tomb.Tomb
}

// NewProducer will create and return a producer.
func NewProducer(store *Store, config ProducerConfig) *Producer {
	// check store
	if store == nil {
		panic("strata: missing store")
	}

	// set defaults
	if config.BatchSize <= 0 {
		config.BatchSize = 1
	}
	if config.BatchTimeout <= 0 {
		config.BatchTimeout = time.Millisecond
	}
	if config.Logger == nil {
		config.Logger = logrus.StandardLogger()
	}

	// prepare producer
	p := &Producer{
		store:  store,
		config: config,
		pipe:   make(chan tuple, config.BatchSize),
	}

	// run worker
	p.tomb.Go(p.worker)

	return p
}

// Write will asynchronously insert the specified transaction and call the
// provided callback with the result. If no error is present the transaction
// has been committed.
func (p *Producer) Write(tx Transaction, ack func(error)) bool {
	// check if closed
	select {
	case <-p.tomb.Dying():
		return false
	default:
	}

	// create tuple
	tpl := tuple{
		tx:  tx,
		ack: ack,
	}

	// acquire mutex
	p.mutex.RLock()
	defer p.mutex.RUnlock()

	// check pipe
	if p.closed {
		return false
	}

	// queue transaction
	select {
	case p.pipe <- tpl:
		return true
	case <-p.tomb.Dying():
		return false
	}
}

// Close will close the producer. Queued transactions are still inserted.
func (p *Producer) Close() {
	// close pipe
	p.once.Do(func() {
		p.mutex.Lock()
		p.closed = true
		close(p.pipe)
		p.mutex.Unlock()
	})

	// wait for exit
	_ = p.tomb.Wait()
}

func (p *Producer) worker() error {
	for {
		// wait for first tuple
		tpl, ok := <-p.pipe
		if !ok {
			return nil
		}

		// prepare batch
		batch := make([]tuple, 0, p.config.BatchSize)
		batch = append(batch, tpl)

		// prepare timeout
		tmt := time.NewTimer(p.config.BatchTimeout)

		// await next tuples or timeout
	collect:
		for len(batch) < p.config.BatchSize {
			select {
			case tpl, ok := <-p.pipe:
				if !ok {
					break collect
				}
				batch = append(batch, tpl)
			case <-tmt.C:
				break collect
			}
		}
		tmt.Stop()

		// insert batch
		p.insert(batch)
	}
}

func (p *Producer) insert(batch []tuple) {
	// collect transactions
	txs := make([]Transaction, 0, len(batch))
	for _, tpl := range batch {
		txs = append(txs, tpl.tx)
	}

	// insert all
	err := p.store.InsertBatch(txs...)
	if err == nil || len(batch) == 1 {
		for _, tpl := range batch {
			if tpl.ack != nil {
				tpl.ack(err)
			}
		}

		return
	}

	// log fallback
	p.config.Logger.WithError(err).WithField("size", len(batch)).Debug("batch rejected, inserting individually")

	// insert individually
	for _, tpl := range batch {
		err := p.store.Insert(tpl.tx)
		if tpl.ack != nil {
			tpl.ack(err)
		}
	}
}
